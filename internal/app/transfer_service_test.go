package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cybermumuca/money-tracker-server/internal/domain"
	"github.com/cybermumuca/money-tracker-server/internal/store"
	"github.com/cybermumuca/money-tracker-server/pkg/currency"
)

// stubRepository is an in-memory Repository for service tests. Unimplemented
// methods panic through the embedded interface.
type stubRepository struct {
	store.Repository

	accounts    map[uuid.UUID]*domain.Account
	recurrences []*domain.Recurrence

	createdRecurrences []*domain.Recurrence
	createdTransfers   []*domain.Transfer
	savedAccounts      []*domain.Account
	updatedTransfers   []*domain.Transfer
}

func newStubRepository() *stubRepository {
	return &stubRepository{accounts: make(map[uuid.UUID]*domain.Account)}
}

func (s *stubRepository) WithinTransaction(ctx context.Context, fn func(store.Repository) error) error {
	return fn(s)
}

func (s *stubRepository) FindAccountByID(ctx context.Context, accountID, ownerID uuid.UUID) (*domain.Account, error) {
	account, ok := s.accounts[accountID]
	if !ok || account.UserID != ownerID {
		return nil, store.ErrAccountNotFound
	}
	return account, nil
}

func (s *stubRepository) CreateRecurrence(ctx context.Context, recurrence *domain.Recurrence) error {
	s.createdRecurrences = append(s.createdRecurrences, recurrence)
	return nil
}

func (s *stubRepository) FindRecurrenceByTransferID(ctx context.Context, transferID, ownerID uuid.UUID) (*domain.Recurrence, error) {
	for _, recurrence := range s.recurrences {
		if recurrence.UserID != ownerID {
			continue
		}
		for _, transfer := range recurrence.Transfers {
			if transfer.ID == transferID {
				return recurrence, nil
			}
		}
	}
	return nil, store.ErrTransferNotFound
}

func (s *stubRepository) CreateTransfers(ctx context.Context, transfers []*domain.Transfer) error {
	s.createdTransfers = append(s.createdTransfers, transfers...)
	return nil
}

func (s *stubRepository) UpdateTransfer(ctx context.Context, transfer *domain.Transfer) error {
	s.updatedTransfers = append(s.updatedTransfers, transfer)
	return nil
}

func (s *stubRepository) SaveAccountBalances(ctx context.Context, accounts ...*domain.Account) error {
	s.savedAccounts = append(s.savedAccounts, accounts...)
	return nil
}

func (s *stubRepository) CountTransfersByRecurrenceID(ctx context.Context, recurrenceID uuid.UUID) (int, error) {
	for _, recurrence := range s.recurrences {
		if recurrence.ID == recurrenceID {
			return len(recurrence.Transfers), nil
		}
	}
	return 0, nil
}

func (s *stubRepository) DeleteTransfer(ctx context.Context, transferID, ownerID uuid.UUID) error {
	for _, recurrence := range s.recurrences {
		if recurrence.UserID != ownerID {
			continue
		}
		for i, transfer := range recurrence.Transfers {
			if transfer.ID == transferID {
				recurrence.Transfers = append(recurrence.Transfers[:i], recurrence.Transfers[i+1:]...)
				return nil
			}
		}
	}
	return store.ErrTransferNotFound
}

func (s *stubRepository) DeleteTransfersFromInstallment(ctx context.Context, recurrenceID uuid.UUID, fromInstallment int, ownerID uuid.UUID) (int64, error) {
	for _, recurrence := range s.recurrences {
		if recurrence.ID != recurrenceID || recurrence.UserID != ownerID {
			continue
		}
		var kept []*domain.Transfer
		var removed int64
		for _, transfer := range recurrence.Transfers {
			if transfer.InstallmentIndex >= fromInstallment {
				removed++
				continue
			}
			kept = append(kept, transfer)
		}
		recurrence.Transfers = kept
		return removed, nil
	}
	return 0, store.ErrRecurrenceNotFound
}

func (s *stubRepository) addAccount(userID uuid.UUID, balance int64, currencyCode string) *domain.Account {
	account := &domain.Account{
		ID:      uuid.New(),
		UserID:  userID,
		Name:    "Account",
		Type:    domain.AccountTypeWallet,
		Balance: domain.NewMoney(decimal.NewFromInt(balance), currencyCode),
	}
	s.accounts[account.ID] = account
	return account
}

// addRecurrence wires a recurrence with its transfers and account references
// the way the store's eager load would.
func (s *stubRepository) addRecurrence(userID uuid.UUID, transfers ...*domain.Transfer) *domain.Recurrence {
	recurrence := &domain.Recurrence{
		ID:              uuid.New(),
		Interval:        domain.IntervalMonthly,
		TransactionType: domain.TransactionTypeTransfer,
		RecurrenceType:  domain.RecurrenceRepeated,
		UserID:          userID,
		Transfers:       transfers,
	}
	if len(transfers) > 0 {
		recurrence.FirstOccurrence = transfers[0].BillingDate
	}
	for _, transfer := range transfers {
		transfer.RecurrenceID = recurrence.ID
		if transfer.SourceAccountID != nil {
			transfer.SourceAccount = s.accounts[*transfer.SourceAccountID]
		}
		if transfer.DestinationAccountID != nil {
			transfer.DestinationAccount = s.accounts[*transfer.DestinationAccountID]
		}
	}
	s.recurrences = append(s.recurrences, recurrence)
	return recurrence
}

func datePtr(d domain.Date) *domain.Date {
	return &d
}

func amountOf(t *testing.T, account *domain.Account) int64 {
	t.Helper()
	return account.Balance.Amount.IntPart()
}

func TestRegisterUniqueTransferPaidMovesBalances(t *testing.T) {
	repo := newStubRepository()
	userID := uuid.New()
	source := repo.addAccount(userID, 50000, "BRL")
	destination := repo.addAccount(userID, 0, "BRL")
	service := NewTransferService(repo, nil, nil)

	view, err := service.RegisterUniqueTransfer(context.Background(), userID, domain.RegisterUniqueTransferRequest{
		Title:       "Rent",
		Amount:      decimal.NewFromInt(10000),
		Currency:    "BRL",
		FromAccount: source.ID,
		ToAccount:   destination.ID,
		BillingDate: domain.NewDate(2025, time.June, 1),
		PaidDate:    datePtr(domain.NewDate(2025, time.June, 1)),
	})
	if err != nil {
		t.Fatalf("RegisterUniqueTransfer returned error: %v", err)
	}

	if amountOf(t, source) != 40000 {
		t.Fatalf("source balance %d, want 40000", amountOf(t, source))
	}
	if amountOf(t, destination) != 10000 {
		t.Fatalf("destination balance %d, want 10000", amountOf(t, destination))
	}
	if len(repo.savedAccounts) != 2 {
		t.Fatalf("expected 2 saved accounts, got %d", len(repo.savedAccounts))
	}

	if view.RecurrenceType != domain.RecurrenceUnique {
		t.Fatalf("recurrence type %s, want UNIQUE", view.RecurrenceType)
	}
	if view.Interval != domain.IntervalMonthly {
		t.Fatalf("unique recurrence interval %s, want MONTHLY sentinel", view.Interval)
	}
	if len(view.Occurrences) != 1 {
		t.Fatalf("expected 1 occurrence, got %d", len(view.Occurrences))
	}
	occurrence := view.Occurrences[0]
	if !occurrence.Paid || occurrence.PaidDate == nil {
		t.Fatal("occurrence should be paid with a paid date")
	}
	if occurrence.InstallmentIndex != 1 || occurrence.Installments != 1 {
		t.Fatalf("installment %d/%d, want 1/1", occurrence.InstallmentIndex, occurrence.Installments)
	}
}

func TestRegisterUniqueTransferUnpaidLeavesBalances(t *testing.T) {
	repo := newStubRepository()
	userID := uuid.New()
	source := repo.addAccount(userID, 50000, "BRL")
	destination := repo.addAccount(userID, 0, "BRL")
	service := NewTransferService(repo, nil, nil)

	_, err := service.RegisterUniqueTransfer(context.Background(), userID, domain.RegisterUniqueTransferRequest{
		Title:       "Rent",
		Amount:      decimal.NewFromInt(10000),
		Currency:    "BRL",
		FromAccount: source.ID,
		ToAccount:   destination.ID,
		BillingDate: domain.NewDate(2025, time.June, 1),
	})
	if err != nil {
		t.Fatalf("RegisterUniqueTransfer returned error: %v", err)
	}

	if amountOf(t, source) != 50000 || amountOf(t, destination) != 0 {
		t.Fatalf("balances changed for unpaid registration: %d / %d", amountOf(t, source), amountOf(t, destination))
	}
	if len(repo.savedAccounts) != 0 {
		t.Fatalf("expected no balance writes, got %d", len(repo.savedAccounts))
	}
	if len(repo.createdTransfers) != 1 || repo.createdTransfers[0].Paid {
		t.Fatal("expected one unpaid transfer")
	}
}

func TestRegisterUniqueTransferValidation(t *testing.T) {
	repo := newStubRepository()
	userID := uuid.New()
	source := repo.addAccount(userID, 100, "BRL")
	destination := repo.addAccount(userID, 0, "BRL")
	service := NewTransferService(repo, nil, nil)

	base := domain.RegisterUniqueTransferRequest{
		Title:       "Rent",
		Amount:      decimal.NewFromInt(10),
		Currency:    "BRL",
		FromAccount: source.ID,
		ToAccount:   destination.ID,
		BillingDate: domain.NewDate(2025, time.June, 1),
	}

	neg := base
	neg.Amount = decimal.NewFromInt(-5)
	if _, err := service.RegisterUniqueTransfer(context.Background(), userID, neg); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	missing := base
	missing.ToAccount = uuid.New()
	if _, err := service.RegisterUniqueTransfer(context.Background(), userID, missing); !errors.Is(err, store.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}

	otherUser := uuid.New()
	if _, err := service.RegisterUniqueTransfer(context.Background(), otherUser, base); !errors.Is(err, store.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound for foreign accounts, got %v", err)
	}

	source.Archived = true
	if _, err := service.RegisterUniqueTransfer(context.Background(), userID, base); !errors.Is(err, ErrAccountArchived) {
		t.Fatalf("expected ErrAccountArchived, got %v", err)
	}
}

func TestRegisterRepeatedTransferInstallmentNumbering(t *testing.T) {
	repo := newStubRepository()
	userID := uuid.New()
	source := repo.addAccount(userID, 50000, "BRL")
	destination := repo.addAccount(userID, 0, "BRL")
	service := NewTransferService(repo, nil, nil)

	view, err := service.RegisterRepeatedTransfer(context.Background(), userID, domain.RegisterRepeatedTransferRequest{
		Title:               "Gym",
		Amount:              decimal.NewFromInt(100),
		Currency:            "BRL",
		FromAccount:         source.ID,
		ToAccount:           destination.ID,
		BillingDate:         domain.NewDate(2025, time.January, 1),
		PaidDate:            datePtr(domain.NewDate(2025, time.January, 1)),
		RecurrenceInterval:  domain.IntervalMonthly,
		NumberOfRecurrences: 3,
	})
	if err != nil {
		t.Fatalf("RegisterRepeatedTransfer returned error: %v", err)
	}

	if view.RecurrenceType != domain.RecurrenceRepeated {
		t.Fatalf("recurrence type %s, want REPEATED", view.RecurrenceType)
	}
	if len(view.Occurrences) != 3 {
		t.Fatalf("expected 3 occurrences, got %d", len(view.Occurrences))
	}

	wantDates := []domain.Date{
		domain.NewDate(2025, time.January, 1),
		domain.NewDate(2025, time.February, 1),
		domain.NewDate(2025, time.March, 1),
	}
	for i, occurrence := range view.Occurrences {
		if occurrence.InstallmentIndex != i+1 {
			t.Errorf("occurrence %d has installment index %d", i, occurrence.InstallmentIndex)
		}
		if occurrence.Installments != 3 {
			t.Errorf("occurrence %d reports %d installments, want 3", i, occurrence.Installments)
		}
		if !occurrence.BillingDate.Equal(wantDates[i]) {
			t.Errorf("occurrence %d billing date %s, want %s", i, occurrence.BillingDate, wantDates[i])
		}
		if paid := i == 0; occurrence.Paid != paid {
			t.Errorf("occurrence %d paid=%v, want %v", i, occurrence.Paid, paid)
		}
	}

	// Only the first occurrence moved money.
	if amountOf(t, source) != 49900 || amountOf(t, destination) != 100 {
		t.Fatalf("balances %d / %d, want 49900 / 100", amountOf(t, source), amountOf(t, destination))
	}
}

func TestRegisterRepeatedTransferCountBounds(t *testing.T) {
	repo := newStubRepository()
	userID := uuid.New()
	source := repo.addAccount(userID, 0, "BRL")
	destination := repo.addAccount(userID, 0, "BRL")
	service := NewTransferService(repo, nil, nil)

	req := domain.RegisterRepeatedTransferRequest{
		Title:              "Gym",
		Amount:             decimal.NewFromInt(100),
		Currency:           "BRL",
		FromAccount:        source.ID,
		ToAccount:          destination.ID,
		BillingDate:        domain.NewDate(2025, time.January, 1),
		RecurrenceInterval: domain.IntervalMonthly,
	}

	for _, count := range []int{0, -1, 201} {
		req.NumberOfRecurrences = count
		if _, err := service.RegisterRepeatedTransfer(context.Background(), userID, req); !errors.Is(err, ErrInvalidRecurrenceCount) {
			t.Errorf("count %d: expected ErrInvalidRecurrenceCount, got %v", count, err)
		}
	}

	req.NumberOfRecurrences = 200
	if _, err := service.RegisterRepeatedTransfer(context.Background(), userID, req); err != nil {
		t.Fatalf("count 200 should be accepted, got %v", err)
	}
	if len(repo.createdTransfers) != 200 {
		t.Fatalf("expected 200 transfers, got %d", len(repo.createdTransfers))
	}
}

func TestPayUnpayRoundTripRestoresBalances(t *testing.T) {
	repo := newStubRepository()
	userID := uuid.New()
	source := repo.addAccount(userID, 50000, "BRL")
	destination := repo.addAccount(userID, 1000, "BRL")
	transfer := &domain.Transfer{
		ID:                   uuid.New(),
		Title:                "Rent",
		SourceAccountID:      &source.ID,
		DestinationAccountID: &destination.ID,
		Value:                domain.NewMoney(decimal.NewFromInt(10000), "BRL"),
		BillingDate:          domain.NewDate(2025, time.June, 1),
		InstallmentIndex:     1,
	}
	repo.addRecurrence(userID, transfer)
	service := NewTransferService(repo, nil, nil)

	paidView, err := service.PayTransfer(context.Background(), transfer.ID, userID, domain.PayTransferRequest{
		PaidDate: datePtr(domain.NewDate(2025, time.June, 2)),
	})
	if err != nil {
		t.Fatalf("PayTransfer returned error: %v", err)
	}
	if amountOf(t, source) != 40000 || amountOf(t, destination) != 11000 {
		t.Fatalf("post-pay balances %d / %d", amountOf(t, source), amountOf(t, destination))
	}
	if !paidView.Occurrences[0].Paid {
		t.Fatal("occurrence should be paid")
	}

	unpaidView, err := service.UnpayTransfer(context.Background(), transfer.ID, userID)
	if err != nil {
		t.Fatalf("UnpayTransfer returned error: %v", err)
	}
	if amountOf(t, source) != 50000 || amountOf(t, destination) != 1000 {
		t.Fatalf("post-unpay balances %d / %d, want originals", amountOf(t, source), amountOf(t, destination))
	}
	if unpaidView.Occurrences[0].Paid || unpaidView.Occurrences[0].PaidDate != nil {
		t.Fatal("occurrence should be unpaid with no paid date")
	}
}

func TestPayTransferGuards(t *testing.T) {
	repo := newStubRepository()
	userID := uuid.New()
	source := repo.addAccount(userID, 100, "BRL")
	destination := repo.addAccount(userID, 0, "BRL")

	paid := &domain.Transfer{
		ID:                   uuid.New(),
		SourceAccountID:      &source.ID,
		DestinationAccountID: &destination.ID,
		Value:                domain.NewMoney(decimal.NewFromInt(10), "BRL"),
		BillingDate:          domain.NewDate(2025, time.June, 1),
		InstallmentIndex:     1,
	}
	paid.MarkPaid(domain.NewDate(2025, time.June, 1))
	repo.addRecurrence(userID, paid)

	orphan := &domain.Transfer{
		ID:               uuid.New(),
		SourceAccountID:  &source.ID,
		Value:            domain.NewMoney(decimal.NewFromInt(10), "BRL"),
		BillingDate:      domain.NewDate(2025, time.June, 1),
		InstallmentIndex: 1,
	}
	repo.addRecurrence(userID, orphan)

	service := NewTransferService(repo, nil, nil)

	if _, err := service.PayTransfer(context.Background(), paid.ID, userID, domain.PayTransferRequest{}); !errors.Is(err, ErrTransferAlreadyPaid) {
		t.Fatalf("expected ErrTransferAlreadyPaid, got %v", err)
	}
	if _, err := service.PayTransfer(context.Background(), orphan.ID, userID, domain.PayTransferRequest{}); !errors.Is(err, ErrInvalidTransferDestination) {
		t.Fatalf("expected ErrInvalidTransferDestination, got %v", err)
	}
	if _, err := service.PayTransfer(context.Background(), uuid.New(), userID, domain.PayTransferRequest{}); !errors.Is(err, store.ErrTransferNotFound) {
		t.Fatalf("expected ErrTransferNotFound, got %v", err)
	}
	if _, err := service.UnpayTransfer(context.Background(), orphan.ID, userID); !errors.Is(err, ErrTransferNotPaidYet) {
		t.Fatalf("expected ErrTransferNotPaidYet, got %v", err)
	}
}

func TestPayTransferAccountOverrideReassignsSource(t *testing.T) {
	repo := newStubRepository()
	userID := uuid.New()
	original := repo.addAccount(userID, 100, "BRL")
	override := repo.addAccount(userID, 500, "BRL")
	destination := repo.addAccount(userID, 0, "BRL")
	transfer := &domain.Transfer{
		ID:                   uuid.New(),
		SourceAccountID:      &original.ID,
		DestinationAccountID: &destination.ID,
		Value:                domain.NewMoney(decimal.NewFromInt(50), "BRL"),
		BillingDate:          domain.NewDate(2025, time.June, 1),
		InstallmentIndex:     1,
	}
	repo.addRecurrence(userID, transfer)
	service := NewTransferService(repo, nil, nil)

	_, err := service.PayTransfer(context.Background(), transfer.ID, userID, domain.PayTransferRequest{
		AccountID: &override.ID,
	})
	if err != nil {
		t.Fatalf("PayTransfer returned error: %v", err)
	}

	if transfer.SourceAccountID == nil || *transfer.SourceAccountID != override.ID {
		t.Fatal("transfer source should be reassigned to the paying account")
	}
	if amountOf(t, original) != 100 {
		t.Fatalf("original source debited: %d", amountOf(t, original))
	}
	if amountOf(t, override) != 450 || amountOf(t, destination) != 50 {
		t.Fatalf("balances %d / %d, want 450 / 50", amountOf(t, override), amountOf(t, destination))
	}
	if transfer.PaidDate == nil || !transfer.PaidDate.Equal(domain.Today()) {
		t.Fatal("paid date should default to today")
	}
}

func TestPayTransferCrossCurrencyConversion(t *testing.T) {
	repo := newStubRepository()
	userID := uuid.New()
	source := repo.addAccount(userID, 1000, "USD")
	destination := repo.addAccount(userID, 0, "BRL")
	transfer := &domain.Transfer{
		ID:                   uuid.New(),
		SourceAccountID:      &source.ID,
		DestinationAccountID: &destination.ID,
		Value:                domain.NewMoney(decimal.NewFromInt(100), "USD"),
		BillingDate:          domain.NewDate(2025, time.June, 1),
		InstallmentIndex:     1,
	}
	repo.addRecurrence(userID, transfer)

	converter := currency.NewFixedRateConverter(map[string]decimal.Decimal{
		"USD/BRL": decimal.NewFromInt(5),
	})
	service := NewTransferService(repo, converter, nil)

	if _, err := service.PayTransfer(context.Background(), transfer.ID, userID, domain.PayTransferRequest{}); err != nil {
		t.Fatalf("PayTransfer returned error: %v", err)
	}

	// Source currency matches the transfer, so the withdrawal is native and
	// only the deposit is converted.
	if amountOf(t, source) != 900 {
		t.Fatalf("source balance %d, want 900", amountOf(t, source))
	}
	if amountOf(t, destination) != 500 {
		t.Fatalf("destination balance %d, want 500", amountOf(t, destination))
	}
}

func TestPayTransferConversionUnsupported(t *testing.T) {
	repo := newStubRepository()
	userID := uuid.New()
	source := repo.addAccount(userID, 1000, "USD")
	destination := repo.addAccount(userID, 0, "BRL")
	transfer := &domain.Transfer{
		ID:                   uuid.New(),
		SourceAccountID:      &source.ID,
		DestinationAccountID: &destination.ID,
		Value:                domain.NewMoney(decimal.NewFromInt(100), "USD"),
		BillingDate:          domain.NewDate(2025, time.June, 1),
		InstallmentIndex:     1,
	}
	repo.addRecurrence(userID, transfer)
	service := NewTransferService(repo, nil, nil)

	_, err := service.PayTransfer(context.Background(), transfer.ID, userID, domain.PayTransferRequest{})
	if !errors.Is(err, currency.ErrConversionUnsupported) {
		t.Fatalf("expected ErrConversionUnsupported, got %v", err)
	}
	if len(repo.savedAccounts) != 0 || len(repo.updatedTransfers) != 0 {
		t.Fatal("no writes should happen when conversion fails")
	}
}

func TestGetTransferReportsPositionAndCount(t *testing.T) {
	repo := newStubRepository()
	userID := uuid.New()
	source := repo.addAccount(userID, 0, "BRL")
	destination := repo.addAccount(userID, 0, "BRL")

	transfers := make([]*domain.Transfer, 3)
	for i := range transfers {
		transfers[i] = &domain.Transfer{
			ID:                   uuid.New(),
			SourceAccountID:      &source.ID,
			DestinationAccountID: &destination.ID,
			Value:                domain.NewMoney(decimal.NewFromInt(10), "BRL"),
			BillingDate:          domain.NewDate(2025, time.January, 1).AddMonths(i),
			InstallmentIndex:     i + 1,
		}
	}
	repo.addRecurrence(userID, transfers...)
	service := NewTransferService(repo, nil, nil)

	view, err := service.GetTransfer(context.Background(), transfers[1].ID, userID)
	if err != nil {
		t.Fatalf("GetTransfer returned error: %v", err)
	}
	if len(view.Occurrences) != 1 {
		t.Fatalf("expected single occurrence, got %d", len(view.Occurrences))
	}
	occurrence := view.Occurrences[0]
	if occurrence.InstallmentIndex != 2 || occurrence.Installments != 3 {
		t.Fatalf("installment %d/%d, want 2/3", occurrence.InstallmentIndex, occurrence.Installments)
	}

	if _, err := service.GetTransfer(context.Background(), transfers[1].ID, uuid.New()); !errors.Is(err, store.ErrTransferNotFound) {
		t.Fatalf("expected ErrTransferNotFound for foreign user, got %v", err)
	}
}

func TestDeleteFutureTransfersBoundary(t *testing.T) {
	repo := newStubRepository()
	userID := uuid.New()
	source := repo.addAccount(userID, 0, "BRL")
	destination := repo.addAccount(userID, 0, "BRL")

	transfers := make([]*domain.Transfer, 4)
	for i := range transfers {
		transfers[i] = &domain.Transfer{
			ID:                   uuid.New(),
			SourceAccountID:      &source.ID,
			DestinationAccountID: &destination.ID,
			Value:                domain.NewMoney(decimal.NewFromInt(10), "BRL"),
			BillingDate:          domain.NewDate(2025, time.January, 1).AddMonths(i),
			InstallmentIndex:     i + 1,
		}
	}
	recurrence := repo.addRecurrence(userID, transfers...)
	service := NewTransferService(repo, nil, nil)

	deleted, err := service.DeleteFutureTransfers(context.Background(), recurrence.ID, 3, userID)
	if err != nil {
		t.Fatalf("DeleteFutureTransfers returned error: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("deleted %d, want 2", deleted)
	}
	if len(recurrence.Transfers) != 2 {
		t.Fatalf("%d transfers remain, want 2", len(recurrence.Transfers))
	}
	for _, transfer := range recurrence.Transfers {
		if transfer.InstallmentIndex >= 3 {
			t.Fatalf("installment %d should have been removed", transfer.InstallmentIndex)
		}
	}

	if _, err := service.DeleteFutureTransfers(context.Background(), recurrence.ID, 1, uuid.New()); !errors.Is(err, store.ErrRecurrenceNotFound) {
		t.Fatalf("expected ErrRecurrenceNotFound for foreign user, got %v", err)
	}
}

func TestDeleteTransferRemovesSingleOccurrence(t *testing.T) {
	repo := newStubRepository()
	userID := uuid.New()
	source := repo.addAccount(userID, 40000, "BRL")
	destination := repo.addAccount(userID, 10000, "BRL")
	transfer := &domain.Transfer{
		ID:                   uuid.New(),
		SourceAccountID:      &source.ID,
		DestinationAccountID: &destination.ID,
		Value:                domain.NewMoney(decimal.NewFromInt(10000), "BRL"),
		BillingDate:          domain.NewDate(2025, time.June, 1),
		InstallmentIndex:     1,
	}
	transfer.MarkPaid(domain.NewDate(2025, time.June, 1))
	recurrence := repo.addRecurrence(userID, transfer)
	service := NewTransferService(repo, nil, nil)

	if err := service.DeleteTransfer(context.Background(), transfer.ID, userID); err != nil {
		t.Fatalf("DeleteTransfer returned error: %v", err)
	}
	if len(recurrence.Transfers) != 0 {
		t.Fatal("transfer should be removed")
	}
	// Deletion never reverses a payment's balance effect.
	if amountOf(t, source) != 40000 || amountOf(t, destination) != 10000 {
		t.Fatalf("balances changed on delete: %d / %d", amountOf(t, source), amountOf(t, destination))
	}

	if err := service.DeleteTransfer(context.Background(), transfer.ID, userID); !errors.Is(err, store.ErrTransferNotFound) {
		t.Fatalf("expected ErrTransferNotFound, got %v", err)
	}
}
