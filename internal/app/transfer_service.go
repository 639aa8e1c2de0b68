/**
 * @description
 * This file contains the core business logic for the transfer ledger. The
 * `TransferService` struct orchestrates every transfer operation: registering
 * unique and repeated transfers, retrieval and filtered listing, the pay and
 * unpay state transitions, and single or bulk deletion.
 *
 * Key features:
 * - Every command runs inside a single repository transaction; a failure
 *   partway leaves no partial balance mutation.
 * - Balance changes happen in exactly one place, the moveBalances routine,
 *   which branches on whether each account's currency matches the transfer's
 *   currency and calls the currency converter for the sides that differ.
 * - Every lookup is scoped to the acting user; a scoped miss surfaces as the
 *   store's not-found error, which is the authorization boundary.
 * - Publishes transfer lifecycle events to RabbitMQ after commit for
 *   asynchronous processing by other services.
 *
 * @dependencies
 * - context, fmt, log, sync, time: Standard Go libraries.
 * - github.com/google/uuid: For UUID generation.
 * - internal/domain, internal/store: For domain models and data access.
 * - pkg/currency, pkg/rabbitmq: For external service communication.
 */

package app

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cybermumuca/money-tracker-server/internal/domain"
	"github.com/cybermumuca/money-tracker-server/internal/store"
	"github.com/cybermumuca/money-tracker-server/pkg/currency"
	"github.com/cybermumuca/money-tracker-server/pkg/rabbitmq"
)

const (
	MinRecurrences = 1
	MaxRecurrences = 200
)

// TransferService provides the core business logic for transfers.
type TransferService struct {
	repo          store.Repository
	converter     currency.Converter
	eventProducer rabbitmq.Publisher
}

// NewTransferService creates a new transfer service instance.
func NewTransferService(repo store.Repository, converter currency.Converter, producer rabbitmq.Publisher) *TransferService {
	if converter == nil {
		converter = currency.UnsupportedConverter{}
	}
	return &TransferService{
		repo:          repo,
		converter:     converter,
		eventProducer: producer,
	}
}

// RegisterUniqueTransfer registers a one-off transfer: one recurrence with a
// single occurrence. A present paidDate moves balances immediately.
func (s *TransferService) RegisterUniqueTransfer(ctx context.Context, userID uuid.UUID, req domain.RegisterUniqueTransferRequest) (*domain.RecurrenceView, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	// 1. Load both accounts concurrently; independent reads, joined before
	// any validation proceeds.
	source, destination, err := s.loadAccountPair(ctx, req.FromAccount, req.ToAccount, userID)
	if err != nil {
		return nil, err
	}
	if source.Archived || destination.Archived {
		return nil, ErrAccountArchived
	}

	// 2. Build the aggregate. Unique transfers do not repeat but the
	// recurrence still needs a placeholder interval; MONTHLY is the sentinel.
	now := time.Now().UTC()
	recurrence := &domain.Recurrence{
		ID:              uuid.New(),
		Interval:        domain.IntervalMonthly,
		FirstOccurrence: req.BillingDate,
		TransactionType: domain.TransactionTypeTransfer,
		RecurrenceType:  domain.RecurrenceUnique,
		UserID:          userID,
	}
	transfer := &domain.Transfer{
		ID:                   uuid.New(),
		Title:                req.Title,
		Description:          req.Description,
		SourceAccountID:      &source.ID,
		DestinationAccountID: &destination.ID,
		Value:                domain.NewMoney(req.Amount, req.Currency),
		BillingDate:          req.BillingDate,
		InstallmentIndex:     1,
		RecurrenceID:         recurrence.ID,
		CreatedAt:            now,
	}

	// 3. Persist, moving balances first when the transfer is pre-paid.
	err = s.repo.WithinTransaction(ctx, func(repo store.Repository) error {
		if err := repo.CreateRecurrence(ctx, recurrence); err != nil {
			return fmt.Errorf("failed to create recurrence: %w", err)
		}
		if req.PaidDate != nil {
			if err := s.moveBalances(ctx, source, destination, transfer.Value); err != nil {
				return err
			}
			transfer.MarkPaid(*req.PaidDate)
			if err := repo.SaveAccountBalances(ctx, source, destination); err != nil {
				return fmt.Errorf("failed to save account balances: %w", err)
			}
		}
		if err := repo.CreateTransfers(ctx, []*domain.Transfer{transfer}); err != nil {
			return fmt.Errorf("failed to create transfer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishTransferEvent(ctx, rabbitmq.RoutingKeyTransferRegistered, transfer, userID)

	view := domain.NewRecurrenceView(recurrence, []domain.TransferView{
		domain.NewTransferView(transfer, source, destination, 1),
	})
	return &view, nil
}

// RegisterRepeatedTransfer registers a repeated transfer: one recurrence with
// N occurrences on the generated billing schedule. Only the first occurrence
// may be pre-paid.
func (s *TransferService) RegisterRepeatedTransfer(ctx context.Context, userID uuid.UUID, req domain.RegisterRepeatedTransferRequest) (*domain.RecurrenceView, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if req.NumberOfRecurrences < MinRecurrences || req.NumberOfRecurrences > MaxRecurrences {
		return nil, ErrInvalidRecurrenceCount
	}
	interval, err := domain.ParseRecurrenceInterval(string(req.RecurrenceInterval))
	if err != nil {
		return nil, err
	}

	source, destination, err := s.loadAccountPair(ctx, req.FromAccount, req.ToAccount, userID)
	if err != nil {
		return nil, err
	}
	if source.Archived || destination.Archived {
		return nil, ErrAccountArchived
	}

	now := time.Now().UTC()
	recurrence := &domain.Recurrence{
		ID:              uuid.New(),
		Interval:        interval,
		FirstOccurrence: req.BillingDate,
		TransactionType: domain.TransactionTypeTransfer,
		RecurrenceType:  domain.RecurrenceRepeated,
		UserID:          userID,
	}

	dates := domain.GenerateBillingDates(req.BillingDate, interval, req.NumberOfRecurrences)
	transfers := make([]*domain.Transfer, 0, len(dates))
	for i, date := range dates {
		transfers = append(transfers, &domain.Transfer{
			ID:                   uuid.New(),
			Title:                req.Title,
			Description:          req.Description,
			SourceAccountID:      &source.ID,
			DestinationAccountID: &destination.ID,
			Value:                domain.NewMoney(req.Amount, req.Currency),
			BillingDate:          date,
			InstallmentIndex:     i + 1,
			RecurrenceID:         recurrence.ID,
			CreatedAt:            now,
		})
	}

	err = s.repo.WithinTransaction(ctx, func(repo store.Repository) error {
		if err := repo.CreateRecurrence(ctx, recurrence); err != nil {
			return fmt.Errorf("failed to create recurrence: %w", err)
		}
		// Only the first occurrence, the one on the original billing date,
		// may be marked paid at registration time.
		if req.PaidDate != nil {
			if err := s.moveBalances(ctx, source, destination, transfers[0].Value); err != nil {
				return err
			}
			transfers[0].MarkPaid(*req.PaidDate)
			if err := repo.SaveAccountBalances(ctx, source, destination); err != nil {
				return fmt.Errorf("failed to save account balances: %w", err)
			}
		}
		if err := repo.CreateTransfers(ctx, transfers); err != nil {
			return fmt.Errorf("failed to create transfers: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishTransferEvent(ctx, rabbitmq.RoutingKeyTransferRegistered, transfers[0], userID)

	views := make([]domain.TransferView, 0, len(transfers))
	for _, t := range transfers {
		views = append(views, domain.NewTransferView(t, source, destination, len(transfers)))
	}
	view := domain.NewRecurrenceView(recurrence, views)
	return &view, nil
}

// GetTransfer returns a single-occurrence recurrence view for the given
// transfer, annotated with the transfer's installment index and the
// recurrence's total occurrence count.
func (s *TransferService) GetTransfer(ctx context.Context, transferID, userID uuid.UUID) (*domain.RecurrenceView, error) {
	recurrence, err := s.repo.FindRecurrenceByTransferID(ctx, transferID, userID)
	if err != nil {
		return nil, err
	}
	target := findTransfer(recurrence, transferID)
	if target == nil {
		return nil, store.ErrTransferNotFound
	}
	count, err := s.repo.CountTransfersByRecurrenceID(ctx, recurrence.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count installments: %w", err)
	}

	view := domain.NewRecurrenceView(recurrence, []domain.TransferView{
		domain.NewTransferView(target, target.SourceAccount, target.DestinationAccount, count),
	})
	return &view, nil
}

// ListTransfers returns one page of single-occurrence recurrence views
// matching the owner, date range and status filter.
func (s *TransferService) ListTransfers(ctx context.Context, userID uuid.UUID, query domain.ListTransfersQuery) (*domain.Page[domain.RecurrenceView], error) {
	filter := store.TransferFilter{
		OwnerID:   userID,
		StartDate: query.StartDate,
		EndDate:   query.EndDate,
		Status:    query.Status,
		Today:     domain.Today(),
	}
	page := store.NormalizePage(store.PageRequest{Page: query.Page, Size: query.Size, Sort: query.Sort})

	transfers, total, err := s.repo.ListTransfers(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}

	// Each item reports the total occurrence count of its recurrence; counts
	// are cached so siblings on the same page share one query.
	counts := make(map[uuid.UUID]int)
	views := make([]domain.RecurrenceView, 0, len(transfers))
	for _, t := range transfers {
		count, ok := counts[t.RecurrenceID]
		if !ok {
			count, err = s.repo.CountTransfersByRecurrenceID(ctx, t.RecurrenceID)
			if err != nil {
				return nil, fmt.Errorf("failed to count installments: %w", err)
			}
			counts[t.RecurrenceID] = count
		}
		views = append(views, domain.NewRecurrenceView(t.Recurrence, []domain.TransferView{
			domain.NewTransferView(t, t.SourceAccount, t.DestinationAccount, count),
		}))
	}

	totalPages := int((total + int64(page.Size) - 1) / int64(page.Size))
	return &domain.Page[domain.RecurrenceView]{
		Content:       views,
		PageNumber:    page.Page,
		PageSize:      page.Size,
		TotalElements: total,
		TotalPages:    totalPages,
	}, nil
}

// PayTransfer marks a transfer paid and moves balances. An accountId override
// reassigns the transfer's source to the paying account; paidDate defaults to
// today.
func (s *TransferService) PayTransfer(ctx context.Context, transferID, userID uuid.UUID, req domain.PayTransferRequest) (*domain.RecurrenceView, error) {
	var view domain.RecurrenceView
	var paidTransfer *domain.Transfer

	err := s.repo.WithinTransaction(ctx, func(repo store.Repository) error {
		recurrence, err := repo.FindRecurrenceByTransferID(ctx, transferID, userID)
		if err != nil {
			return err
		}
		target := findTransfer(recurrence, transferID)
		if target == nil {
			return store.ErrTransferNotFound
		}
		if target.DestinationAccountID == nil || target.DestinationAccount == nil {
			return ErrInvalidTransferDestination
		}
		if target.Paid {
			return ErrTransferAlreadyPaid
		}

		// Determine the paying account. An explicit accountId may differ from
		// the transfer's stored source, in which case the source is
		// reassigned to it.
		var paying *domain.Account
		if req.AccountID != nil {
			paying, err = repo.FindAccountByID(ctx, *req.AccountID, userID)
			if err != nil {
				return err
			}
			if target.SourceAccountID == nil || *target.SourceAccountID != paying.ID {
				target.SourceAccountID = &paying.ID
			}
			target.SourceAccount = paying
		} else {
			if target.SourceAccount == nil {
				return ErrInvalidTransferSource
			}
			paying = target.SourceAccount
		}
		if paying.Archived {
			return ErrAccountArchived
		}

		if err := s.moveBalances(ctx, paying, target.DestinationAccount, target.Value); err != nil {
			return err
		}
		paidDate := domain.Today()
		if req.PaidDate != nil {
			paidDate = *req.PaidDate
		}
		target.MarkPaid(paidDate)

		if err := repo.SaveAccountBalances(ctx, paying, target.DestinationAccount); err != nil {
			return fmt.Errorf("failed to save account balances: %w", err)
		}
		if err := repo.UpdateTransfer(ctx, target); err != nil {
			return fmt.Errorf("failed to update transfer: %w", err)
		}

		count, err := repo.CountTransfersByRecurrenceID(ctx, recurrence.ID)
		if err != nil {
			return fmt.Errorf("failed to count installments: %w", err)
		}
		view = domain.NewRecurrenceView(recurrence, []domain.TransferView{
			domain.NewTransferView(target, paying, target.DestinationAccount, count),
		})
		paidTransfer = target
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishTransferEvent(ctx, rabbitmq.RoutingKeyTransferPaid, paidTransfer, userID)
	return &view, nil
}

// UnpayTransfer reverses a payment: money flows back from the destination to
// the source and the paid state is cleared.
func (s *TransferService) UnpayTransfer(ctx context.Context, transferID, userID uuid.UUID) (*domain.RecurrenceView, error) {
	var view domain.RecurrenceView
	var unpaidTransfer *domain.Transfer

	err := s.repo.WithinTransaction(ctx, func(repo store.Repository) error {
		recurrence, err := repo.FindRecurrenceByTransferID(ctx, transferID, userID)
		if err != nil {
			return err
		}
		target := findTransfer(recurrence, transferID)
		if target == nil {
			return store.ErrTransferNotFound
		}
		if !target.Paid {
			return ErrTransferNotPaidYet
		}
		if target.SourceAccountID == nil || target.SourceAccount == nil {
			return ErrInvalidTransferSource
		}
		if target.DestinationAccountID == nil || target.DestinationAccount == nil {
			return ErrInvalidTransferDestination
		}

		// Reversed direction: the destination pays the source back.
		if err := s.moveBalances(ctx, target.DestinationAccount, target.SourceAccount, target.Value); err != nil {
			return err
		}
		target.MarkUnpaid()

		if err := repo.SaveAccountBalances(ctx, target.SourceAccount, target.DestinationAccount); err != nil {
			return fmt.Errorf("failed to save account balances: %w", err)
		}
		if err := repo.UpdateTransfer(ctx, target); err != nil {
			return fmt.Errorf("failed to update transfer: %w", err)
		}

		count, err := repo.CountTransfersByRecurrenceID(ctx, recurrence.ID)
		if err != nil {
			return fmt.Errorf("failed to count installments: %w", err)
		}
		view = domain.NewRecurrenceView(recurrence, []domain.TransferView{
			domain.NewTransferView(target, target.SourceAccount, target.DestinationAccount, count),
		})
		unpaidTransfer = target
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishTransferEvent(ctx, rabbitmq.RoutingKeyTransferUnpaid, unpaidTransfer, userID)
	return &view, nil
}

// DeleteTransfer removes exactly one occurrence. Deletion is record removal,
// not a payment reversal: an already-paid transfer's balance effect stands.
func (s *TransferService) DeleteTransfer(ctx context.Context, transferID, userID uuid.UUID) error {
	return s.repo.DeleteTransfer(ctx, transferID, userID)
}

// DeleteFutureTransfers removes every occurrence of the recurrence with
// installment index >= fromInstallment, leaving earlier installments intact.
func (s *TransferService) DeleteFutureTransfers(ctx context.Context, recurrenceID uuid.UUID, fromInstallment int, userID uuid.UUID) (int64, error) {
	return s.repo.DeleteTransfersFromInstallment(ctx, recurrenceID, fromInstallment, userID)
}

// moveBalances is the single place where balances change. It branches on
// whether each account's currency matches the transfer's currency and asks
// the converter for the sides that differ.
func (s *TransferService) moveBalances(ctx context.Context, source, destination *domain.Account, value domain.Money) error {
	sourceMatches := value.SameCurrency(source.Balance)
	destinationMatches := value.SameCurrency(destination.Balance)

	switch {
	case sourceMatches && destinationMatches:
		if err := source.Withdraw(value); err != nil {
			return err
		}
		return destination.Deposit(value)

	case sourceMatches:
		if err := source.Withdraw(value); err != nil {
			return err
		}
		converted, err := s.converter.Convert(ctx, value.Amount, value.Currency, destination.Balance.Currency)
		if err != nil {
			return fmt.Errorf("failed to convert to destination currency: %w", err)
		}
		destination.DepositAmount(converted)
		return nil

	case destinationMatches:
		converted, err := s.converter.Convert(ctx, value.Amount, value.Currency, source.Balance.Currency)
		if err != nil {
			return fmt.Errorf("failed to convert to source currency: %w", err)
		}
		source.WithdrawAmount(converted)
		return destination.Deposit(value)

	default:
		withdrawal, err := s.converter.Convert(ctx, value.Amount, value.Currency, source.Balance.Currency)
		if err != nil {
			return fmt.Errorf("failed to convert to source currency: %w", err)
		}
		deposit, err := s.converter.Convert(ctx, value.Amount, value.Currency, destination.Balance.Currency)
		if err != nil {
			return fmt.Errorf("failed to convert to destination currency: %w", err)
		}
		source.WithdrawAmount(withdrawal)
		destination.DepositAmount(deposit)
		return nil
	}
}

// loadAccountPair fetches the source and destination accounts concurrently.
// The lookups are independent reads joined before any validation; a source
// failure wins when both fail.
func (s *TransferService) loadAccountPair(ctx context.Context, sourceID, destinationID, userID uuid.UUID) (*domain.Account, *domain.Account, error) {
	var (
		wg                  sync.WaitGroup
		source, destination *domain.Account
		sourceErr, destErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		source, sourceErr = s.repo.FindAccountByID(ctx, sourceID, userID)
	}()
	go func() {
		defer wg.Done()
		destination, destErr = s.repo.FindAccountByID(ctx, destinationID, userID)
	}()
	wg.Wait()

	if sourceErr != nil {
		return nil, nil, fmt.Errorf("failed to load source account: %w", sourceErr)
	}
	if destErr != nil {
		return nil, nil, fmt.Errorf("failed to load destination account: %w", destErr)
	}
	return source, destination, nil
}

// findTransfer locates one occurrence within a loaded recurrence.
func findTransfer(recurrence *domain.Recurrence, transferID uuid.UUID) *domain.Transfer {
	for _, t := range recurrence.Transfers {
		if t.ID == transferID {
			return t
		}
	}
	return nil
}

func (s *TransferService) publishTransferEvent(ctx context.Context, routingKey string, transfer *domain.Transfer, userID uuid.UUID) {
	if s.eventProducer == nil || transfer == nil {
		return
	}
	event := rabbitmq.TransferEvent{
		TransferID:   transfer.ID,
		RecurrenceID: transfer.RecurrenceID,
		UserID:       userID.String(),
		Amount:       transfer.Value.Amount,
		Currency:     transfer.Value.Currency,
		BillingDate:  transfer.BillingDate.String(),
		Timestamp:    time.Now(),
	}
	if err := s.eventProducer.PublishTransferEvent(ctx, routingKey, event); err != nil {
		log.Printf("level=warn component=transfer_service msg=\"failed to publish transfer event\" routing_key=%s transfer_id=%s err=%v", routingKey, transfer.ID, err)
	}
}
