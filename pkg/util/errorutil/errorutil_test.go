package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/spec-kit/raffle-service/internal/domain"
)

func TestToDomainErrorMapsSentinels(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err        error
		wantCode   string
		wantStatus int
	}{
		{domain.ErrNotFound, "NOT_FOUND", http.StatusNotFound},
		{domain.ErrIneligible, "INELIGIBLE", http.StatusUnprocessableEntity},
		{domain.ErrDuplicatePending, "DUPLICATE_PENDING", http.StatusConflict},
		{domain.ErrDuplicateConfirmation, "DUPLICATE_CONFIRMATION", http.StatusConflict},
		{domain.ErrStoreUnavailable, "STORE_UNAVAILABLE", http.StatusServiceUnavailable},
		{errors.New("boom"), "INTERNAL_ERROR", http.StatusInternalServerError},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.wantCode, func(t *testing.T) {
			t.Parallel()
			got := ToDomainError(tc.err)
			if got.Code != tc.wantCode || got.HTTPStatus != tc.wantStatus {
				t.Fatalf("got %s/%d, want %s/%d", got.Code, got.HTTPStatus, tc.wantCode, tc.wantStatus)
			}
		})
	}
}

func TestToDomainErrorUnwrapsWrappedSentinels(t *testing.T) {
	t.Parallel()
	wrapped := fmt.Errorf("submit: %w", domain.ErrDuplicatePending)
	got := ToDomainError(wrapped)
	if got.Code != "DUPLICATE_PENDING" {
		t.Fatalf("wrapped sentinel mapped to %s", got.Code)
	}
}

func TestToDomainErrorPassesThrough(t *testing.T) {
	t.Parallel()
	original := NewDomainError("CUSTOM", "custom", http.StatusTeapot, nil)
	if got := ToDomainError(original); got != original {
		t.Fatal("existing DomainError must pass through unchanged")
	}
	if ToDomainError(nil) != nil {
		t.Fatal("nil maps to nil")
	}
}
