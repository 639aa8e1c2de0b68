/**
 * @description
 * This file defines the `Repository` interface, the contract for all data
 * access the ledger needs. Every lookup takes the owning user's id; a scoped
 * miss surfaces as the matching not-found sentinel, which is the service's
 * authorization boundary.
 *
 * @dependencies
 * - context: Standard Go library.
 * - github.com/google/uuid: For entity identifiers.
 * - internal/domain: For the service's domain models.
 */

package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/cybermumuca/money-tracker-server/internal/domain"
)

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrRecurrenceNotFound = errors.New("recurrence not found")
	ErrTransferNotFound   = errors.New("transfer not found")
)

// TransferFilter selects transfer occurrences for listing. Status semantics:
// PAID means paid, OVERDUE means unpaid with billing date before Today,
// PENDING means unpaid with billing date on or after Today, ALL skips the
// status predicate. Today is injected so queries stay deterministic in tests.
type TransferFilter struct {
	OwnerID   uuid.UUID
	StartDate domain.Date
	EndDate   domain.Date
	Status    domain.TransferStatus
	Today     domain.Date
}

// PageRequest carries pagination and sorting for transfer listings. Sort is a
// "field,direction" pair such as "billingDate,desc"; unknown fields fall back
// to the billing date ordering.
type PageRequest struct {
	Page int
	Size int
	Sort string
}

// Repository defines the set of methods for interacting with the database.
type Repository interface {
	// WithinTransaction runs fn against a repository bound to a single
	// database transaction. The transaction commits when fn returns nil and
	// rolls back otherwise. Nested calls reuse the enclosing transaction.
	WithinTransaction(ctx context.Context, fn func(Repository) error) error

	// Account methods
	CreateAccount(ctx context.Context, account *domain.Account) error
	FindAccountByID(ctx context.Context, accountID, ownerID uuid.UUID) (*domain.Account, error)
	ListAccounts(ctx context.Context, ownerID uuid.UUID, archived bool) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, account *domain.Account) error
	// SaveAccountBalances persists only the balances of the given accounts,
	// the write half of every money-moving operation.
	SaveAccountBalances(ctx context.Context, accounts ...*domain.Account) error
	DeleteAccount(ctx context.Context, accountID, ownerID uuid.UUID) error

	// Recurrence methods
	CreateRecurrence(ctx context.Context, recurrence *domain.Recurrence) error
	FindRecurrenceByID(ctx context.Context, recurrenceID, ownerID uuid.UUID) (*domain.Recurrence, error)
	// FindRecurrenceByTransferID resolves the recurrence owning a transfer,
	// eagerly loading all of its occurrences ordered by billing date (ties
	// broken by creation order) with account references populated.
	FindRecurrenceByTransferID(ctx context.Context, transferID, ownerID uuid.UUID) (*domain.Recurrence, error)

	// Transfer methods
	CreateTransfers(ctx context.Context, transfers []*domain.Transfer) error
	UpdateTransfer(ctx context.Context, transfer *domain.Transfer) error
	CountTransfersByRecurrenceID(ctx context.Context, recurrenceID uuid.UUID) (int, error)
	DeleteTransfer(ctx context.Context, transferID, ownerID uuid.UUID) error
	// DeleteTransfersFromInstallment removes every occurrence of the
	// recurrence whose installment index is >= fromInstallment and reports how
	// many rows went away.
	DeleteTransfersFromInstallment(ctx context.Context, recurrenceID uuid.UUID, fromInstallment int, ownerID uuid.UUID) (int64, error)
	// ListTransfers returns one page of occurrences matching the filter along
	// with the total match count. Recurrence and account references are
	// populated on every returned transfer.
	ListTransfers(ctx context.Context, filter TransferFilter, page PageRequest) ([]*domain.Transfer, int64, error)
}
