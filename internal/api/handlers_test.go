package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cybermumuca/money-tracker-server/internal/app"
	"github.com/cybermumuca/money-tracker-server/internal/domain"
	"github.com/cybermumuca/money-tracker-server/internal/store"
	"github.com/cybermumuca/money-tracker-server/pkg/currency"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{store.ErrAccountNotFound, http.StatusNotFound},
		{store.ErrRecurrenceNotFound, http.StatusNotFound},
		{store.ErrTransferNotFound, http.StatusNotFound},
		{domain.ErrResourceAlreadyArchived, http.StatusConflict},
		{domain.ErrResourceAlreadyActive, http.StatusConflict},
		{app.ErrAccountArchived, http.StatusUnprocessableEntity},
		{app.ErrInvalidTransferSource, http.StatusUnprocessableEntity},
		{app.ErrInvalidTransferDestination, http.StatusUnprocessableEntity},
		{app.ErrTransferAlreadyPaid, http.StatusUnprocessableEntity},
		{app.ErrTransferNotPaidYet, http.StatusUnprocessableEntity},
		{domain.ErrDifferentCurrencies, http.StatusUnprocessableEntity},
		{currency.ErrConversionUnsupported, http.StatusUnprocessableEntity},
		{app.ErrInvalidAmount, http.StatusBadRequest},
		{app.ErrInvalidRecurrenceCount, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		if got, _ := mapDomainError(tc.err); got != tc.want {
			t.Errorf("mapDomainError(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestMapDomainErrorUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("failed to pay transfer: %w", app.ErrTransferAlreadyPaid)
	if got, _ := mapDomainError(wrapped); got != http.StatusUnprocessableEntity {
		t.Fatalf("wrapped sentinel mapped to %d, want 422", got)
	}
}

func TestMapDomainErrorUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505"}
	if got, _ := mapDomainError(pgErr); got != http.StatusConflict {
		t.Fatalf("unique violation mapped to %d, want 409", got)
	}

	other := &pgconn.PgError{Code: "23503"}
	if got, _ := mapDomainError(other); got != http.StatusInternalServerError {
		t.Fatalf("foreign key violation mapped to %d, want 500", got)
	}
}
