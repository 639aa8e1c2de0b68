/**
 * @description
 * This file contains the business logic for account management: creation with
 * an initial balance, metadata edits, the archive/unarchive lifecycle and
 * deletion. Every operation is scoped to the acting user.
 */

package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cybermumuca/money-tracker-server/internal/domain"
	"github.com/cybermumuca/money-tracker-server/internal/store"
)

// AccountService provides the business logic for accounts.
type AccountService struct {
	repo store.Repository
}

// NewAccountService creates a new account service instance.
func NewAccountService(repo store.Repository) *AccountService {
	return &AccountService{repo: repo}
}

// CreateAccount creates an account with an initial balance.
func (s *AccountService) CreateAccount(ctx context.Context, userID uuid.UUID, req domain.CreateAccountRequest) (*domain.AccountView, error) {
	now := time.Now().UTC()
	account := &domain.Account{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      req.Name,
		Color:     req.Color,
		Icon:      req.Icon,
		Type:      req.Type,
		Balance:   domain.NewMoney(req.Balance, req.Currency),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return domain.NewAccountView(account), nil
}

// GetAccount returns one of the user's accounts.
func (s *AccountService) GetAccount(ctx context.Context, accountID, userID uuid.UUID) (*domain.AccountView, error) {
	account, err := s.repo.FindAccountByID(ctx, accountID, userID)
	if err != nil {
		return nil, err
	}
	return domain.NewAccountView(account), nil
}

// ListActiveAccounts returns the user's non-archived accounts.
func (s *AccountService) ListActiveAccounts(ctx context.Context, userID uuid.UUID) ([]domain.AccountView, error) {
	return s.listAccounts(ctx, userID, false)
}

// ListArchivedAccounts returns the user's archived accounts.
func (s *AccountService) ListArchivedAccounts(ctx context.Context, userID uuid.UUID) ([]domain.AccountView, error) {
	return s.listAccounts(ctx, userID, true)
}

func (s *AccountService) listAccounts(ctx context.Context, userID uuid.UUID, archived bool) ([]domain.AccountView, error) {
	accounts, err := s.repo.ListAccounts(ctx, userID, archived)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	views := make([]domain.AccountView, 0, len(accounts))
	for i := range accounts {
		views = append(views, *domain.NewAccountView(&accounts[i]))
	}
	return views, nil
}

// EditAccount applies a partial update to an account's metadata and balance.
// Zero-valued fields in the request are left untouched.
func (s *AccountService) EditAccount(ctx context.Context, accountID, userID uuid.UUID, req domain.EditAccountRequest) (*domain.AccountView, error) {
	account, err := s.repo.FindAccountByID(ctx, accountID, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		account.Name = req.Name
	}
	if req.Color != "" {
		account.Color = req.Color
	}
	if req.Icon != "" {
		account.Icon = req.Icon
	}
	if req.Type != "" {
		account.Type = req.Type
	}
	if req.Currency != "" {
		account.Balance = domain.NewMoney(req.Balance, req.Currency)
	}
	account.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return domain.NewAccountView(account), nil
}

// ArchiveAccount marks an account as archived. Archiving twice fails with
// the domain's already-archived error.
func (s *AccountService) ArchiveAccount(ctx context.Context, accountID, userID uuid.UUID) (*domain.AccountView, error) {
	account, err := s.repo.FindAccountByID(ctx, accountID, userID)
	if err != nil {
		return nil, err
	}
	if err := account.Archive(); err != nil {
		return nil, err
	}
	account.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return domain.NewAccountView(account), nil
}

// UnarchiveAccount reactivates an archived account.
func (s *AccountService) UnarchiveAccount(ctx context.Context, accountID, userID uuid.UUID) (*domain.AccountView, error) {
	account, err := s.repo.FindAccountByID(ctx, accountID, userID)
	if err != nil {
		return nil, err
	}
	if err := account.Unarchive(); err != nil {
		return nil, err
	}
	account.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return domain.NewAccountView(account), nil
}

// DeleteAccount removes an account. Transfers referencing it keep existing
// with a null side; they are never cascaded.
func (s *AccountService) DeleteAccount(ctx context.Context, accountID, userID uuid.UUID) error {
	return s.repo.DeleteAccount(ctx, accountID, userID)
}
