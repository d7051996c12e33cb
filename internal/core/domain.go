package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	TransactionType string

	// Date wraps time.Time so request payloads can carry either a plain
	// calendar date (2006-01-02) or a full RFC 3339 timestamp.
	Date struct {
		time.Time
	}

	// MonthKey is a calendar month in YYYY-MM form, the natural key used to
	// scope budgets and aggregates.
	MonthKey string

	Transaction struct {
		ID          string          `json:"_id,omitempty"`
		Amount      Money           `json:"amount"`
		Description string          `json:"description"`
		Category    string          `json:"category"`
		Type        TransactionType `json:"type"`
		Date        Date            `json:"date"`
		CreatedAt   time.Time       `json:"createdAt"`
		UpdatedAt   time.Time       `json:"updatedAt"`
	}

	Budget struct {
		ID        string    `json:"_id,omitempty"`
		Category  string    `json:"category"`
		Amount    Money     `json:"amount"`
		Month     MonthKey  `json:"month"`
		CreatedAt time.Time `json:"createdAt"`
		UpdatedAt time.Time `json:"updatedAt"`
	}
)

var (
	ErrInvalidAmount    = errors.New("amount must be greater than 0")
	ErrEmptyDescription = errors.New("description is required")
	ErrEmptyCategory    = errors.New("category is required")
	ErrInvalidType      = errors.New("type must be income or expense")
	ErrMissingDate      = errors.New("date is required")
	ErrInvalidMonth     = errors.New("month must be in YYYY-MM format")
	ErrInvalidDate      = errors.New("invalid date")
)

func (t TransactionType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidType
	}
}

// NewDate creates a Date at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// MarshalJSON emits the date as an RFC 3339 UTC timestamp.
func (d Date) MarshalJSON() ([]byte, error) {
	b := d.UTC().AppendFormat([]byte{'"'}, time.RFC3339)
	return append(b, '"'), nil
}

// UnmarshalJSON accepts "2006-01-02" or RFC 3339 strings.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return ErrInvalidDate
	}
	d.Time = t
	return nil
}

// MonthKey returns the calendar month the date falls in.
func (d Date) MonthKey() MonthKey {
	return MonthOf(d.Time)
}

// MonthOf returns the MonthKey for an arbitrary instant.
func MonthOf(t time.Time) MonthKey {
	return MonthKey(t.UTC().Format("2006-01"))
}

func (m MonthKey) Validate() error {
	t, err := time.Parse("2006-01", string(m))
	// time.Parse tolerates non-padded months ("2026-3"); only the canonical
	// form is a valid key, otherwise one month splits across two budget rows.
	if err != nil || MonthOf(t) != m {
		return ErrInvalidMonth
	}
	return nil
}

// Start returns midnight UTC on the first day of the month, or the zero time
// for malformed keys.
func (m MonthKey) Start() time.Time {
	t, err := time.Parse("2006-01", string(m))
	if err != nil {
		return time.Time{}
	}
	return t
}

// Label renders the month for display, e.g. "Mar 2024".
func (m MonthKey) Label() string {
	start := m.Start()
	if start.IsZero() {
		return string(m)
	}
	return start.Format("Jan 2006")
}

func (t Transaction) Validate() error {
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if t.Date.IsZero() {
		return ErrMissingDate
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	return b.Month.Validate()
}
