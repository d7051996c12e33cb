package sheets

import (
	"context"

	"fintrack/internal/core"
)

// Ports for outbound adapters.
type (
	// TransactionAppender writes a transaction as a spreadsheet row.
	TransactionAppender interface {
		Append(ctx context.Context, t core.Transaction) (rowRef string, err error)
	}
)
