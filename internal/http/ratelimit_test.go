package http

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"fintrack/internal/services"
)

func TestRateLimiterHonorsConfiguredLimit(t *testing.T) {
	rl := newRateLimiter(3, nil)
	defer rl.stop()
	metrics := &securityMetrics{}

	for i := 0; i < 3; i++ {
		if !rl.allow("10.0.0.1", metrics) {
			t.Fatalf("request %d rejected below the limit", i+1)
		}
	}
	if rl.allow("10.0.0.1", metrics) {
		t.Error("request above the limit allowed")
	}
	if hits := atomic.LoadInt64(&metrics.rateLimitHits); hits != 1 {
		t.Errorf("rateLimitHits = %d, want 1", hits)
	}

	// Other clients keep their own window.
	if !rl.allow("10.0.0.2", metrics) {
		t.Error("separate client rejected")
	}
}

func TestRateLimitedMutationGets429(t *testing.T) {
	store := newMemStore()
	srv := NewServer(":0",
		services.NewTransactionService(store, nil),
		services.NewBudgetService(store),
		store, nil, 2, time.Minute)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })

	budget := `{"category": "Food", "amount": 1, "month": "2026-03"}`
	for i := 0; i < 2; i++ {
		if rr := doJSON(t, srv, http.MethodPost, "/api/budgets", budget); rr.Code == http.StatusTooManyRequests {
			t.Fatalf("request %d limited below the threshold", i+1)
		}
	}

	rr := doJSON(t, srv, http.MethodPost, "/api/budgets", budget)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("third mutating request status = %d, want 429", rr.Code)
	}
	if rr.Header().Get("Retry-After") != "60" {
		t.Errorf("Retry-After = %q, want 60", rr.Header().Get("Retry-After"))
	}

	// Reads are never rate limited.
	if rr := doJSON(t, srv, http.MethodGet, "/api/transactions", ""); rr.Code == http.StatusTooManyRequests {
		t.Error("GET requests must not be rate limited")
	}
}
