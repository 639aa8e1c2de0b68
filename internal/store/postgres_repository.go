/**
 * @description
 * This file provides the PostgreSQL implementation of the `Repository`
 * interface. It contains the SQL for the accounts, recurrences and transfers
 * tables, including the two-sided account join that reconstructs transfer
 * aggregates in one round trip.
 *
 * Expected schema: accounts(id, user_id, name, color, icon, type, balance,
 * currency, is_archived, created_at, updated_at), recurrences(id, user_id,
 * recurrence_interval, first_occurrence, recurrence_type, transaction_type,
 * created_at), transfers(id, recurrence_id ON DELETE CASCADE, title,
 * description, source_account_id ON DELETE SET NULL, destination_account_id
 * ON DELETE SET NULL, amount, currency, billing_date, paid, paid_date,
 * installment_index, created_at, updated_at).
 *
 * @dependencies
 * - github.com/jackc/pgx/v5: The PostgreSQL driver for database operations.
 * - github.com/shopspring/decimal: Monetary amounts.
 * - internal/domain: Contains the domain models used for data transfer.
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/cybermumuca/money-tracker-server/internal/domain"
)

// querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx, so the
// same repository code runs inside and outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository is a concrete implementation of the Repository interface
// for PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
	db   querier
}

// NewPostgresRepository creates a new instance of PostgresRepository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool, db: pool}
}

// WithinTransaction runs fn against a repository bound to one database
// transaction. A repository already inside a transaction reuses it.
func (r *PostgresRepository) WithinTransaction(ctx context.Context, fn func(Repository) error) error {
	if r.pool == nil {
		return fn(r)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&PostgresRepository{db: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

const accountColumns = `id, user_id, name, color, icon, type, balance, currency, is_archived, created_at, updated_at`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account  domain.Account
		balance  decimal.Decimal
		currency string
	)
	err := row.Scan(
		&account.ID, &account.UserID, &account.Name, &account.Color, &account.Icon,
		&account.Type, &balance, &currency, &account.Archived,
		&account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	account.Balance = domain.NewMoney(balance, currency)
	return &account, nil
}

// CreateAccount inserts a new account row.
func (r *PostgresRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (id, user_id, name, color, icon, type, balance, currency, is_archived, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query,
		account.ID, account.UserID, account.Name, account.Color, account.Icon,
		account.Type, account.Balance.Amount, account.Balance.Currency, account.Archived,
	)
	return err
}

// FindAccountByID retrieves an account scoped to its owner.
func (r *PostgresRepository) FindAccountByID(ctx context.Context, accountID, ownerID uuid.UUID) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 AND user_id = $2`
	account, err := scanAccount(r.db.QueryRow(ctx, query, accountID, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

// ListAccounts retrieves a user's accounts by archive state, newest first.
func (r *PostgresRepository) ListAccounts(ctx context.Context, ownerID uuid.UUID, archived bool) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 AND is_archived = $2 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, ownerID, archived)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	return accounts, rows.Err()
}

// UpdateAccount persists an account's metadata, balance and archive state.
func (r *PostgresRepository) UpdateAccount(ctx context.Context, account *domain.Account) error {
	query := `
		UPDATE accounts
		SET name = $1, color = $2, icon = $3, type = $4, balance = $5, currency = $6, is_archived = $7, updated_at = NOW()
		WHERE id = $8 AND user_id = $9
	`
	tag, err := r.db.Exec(ctx, query,
		account.Name, account.Color, account.Icon, account.Type,
		account.Balance.Amount, account.Balance.Currency, account.Archived,
		account.ID, account.UserID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// SaveAccountBalances persists only the balances of the given accounts.
func (r *PostgresRepository) SaveAccountBalances(ctx context.Context, accounts ...*domain.Account) error {
	for _, account := range accounts {
		tag, err := r.db.Exec(ctx,
			`UPDATE accounts SET balance = $1, currency = $2, updated_at = NOW() WHERE id = $3`,
			account.Balance.Amount, account.Balance.Currency, account.ID,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrAccountNotFound
		}
	}
	return nil
}

// DeleteAccount removes an account scoped to its owner. Transfers that
// referenced it keep existing with a null account side.
func (r *PostgresRepository) DeleteAccount(ctx context.Context, accountID, ownerID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM accounts WHERE id = $1 AND user_id = $2`, accountID, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// CreateRecurrence inserts a new recurrence row.
func (r *PostgresRepository) CreateRecurrence(ctx context.Context, recurrence *domain.Recurrence) error {
	query := `
		INSERT INTO recurrences (id, user_id, recurrence_interval, first_occurrence, recurrence_type, transaction_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	_, err := r.db.Exec(ctx, query,
		recurrence.ID, recurrence.UserID, recurrence.Interval,
		recurrence.FirstOccurrence.Time, recurrence.RecurrenceType, recurrence.TransactionType,
	)
	return err
}

const recurrenceColumns = `r.id, r.recurrence_interval, r.first_occurrence, r.recurrence_type, r.transaction_type, r.user_id`

func scanRecurrence(row pgx.Row) (*domain.Recurrence, error) {
	var (
		recurrence      domain.Recurrence
		firstOccurrence time.Time
	)
	err := row.Scan(
		&recurrence.ID, &recurrence.Interval, &firstOccurrence,
		&recurrence.RecurrenceType, &recurrence.TransactionType, &recurrence.UserID,
	)
	if err != nil {
		return nil, err
	}
	recurrence.FirstOccurrence = domain.DateOf(firstOccurrence)
	return &recurrence, nil
}

// FindRecurrenceByID retrieves a recurrence scoped to its owner, with all of
// its transfers loaded in billing order.
func (r *PostgresRepository) FindRecurrenceByID(ctx context.Context, recurrenceID, ownerID uuid.UUID) (*domain.Recurrence, error) {
	query := `SELECT ` + recurrenceColumns + ` FROM recurrences r WHERE r.id = $1 AND r.user_id = $2`
	recurrence, err := scanRecurrence(r.db.QueryRow(ctx, query, recurrenceID, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecurrenceNotFound
		}
		return nil, err
	}
	if err := r.loadRecurrenceTransfers(ctx, recurrence); err != nil {
		return nil, err
	}
	return recurrence, nil
}

// FindRecurrenceByTransferID resolves the recurrence owning a transfer,
// scoped to the owner, with all of its transfers loaded in billing order.
func (r *PostgresRepository) FindRecurrenceByTransferID(ctx context.Context, transferID, ownerID uuid.UUID) (*domain.Recurrence, error) {
	query := `
		SELECT ` + recurrenceColumns + `
		FROM recurrences r
		JOIN transfers t ON t.recurrence_id = r.id
		WHERE t.id = $1 AND r.user_id = $2
	`
	recurrence, err := scanRecurrence(r.db.QueryRow(ctx, query, transferID, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTransferNotFound
		}
		return nil, err
	}
	if err := r.loadRecurrenceTransfers(ctx, recurrence); err != nil {
		return nil, err
	}
	return recurrence, nil
}

const transferColumns = `
	t.id, t.title, COALESCE(t.description, ''), t.source_account_id, t.destination_account_id,
	t.amount, t.currency, t.billing_date, t.paid, t.paid_date, t.installment_index,
	t.recurrence_id, t.created_at,
	sa.id, sa.user_id, sa.name, sa.color, sa.icon, sa.type, sa.balance, sa.currency, sa.is_archived,
	da.id, da.user_id, da.name, da.color, da.icon, da.type, da.balance, da.currency, da.is_archived`

const transferJoins = `
	LEFT JOIN accounts sa ON sa.id = t.source_account_id
	LEFT JOIN accounts da ON da.id = t.destination_account_id`

// joinedAccount receives one nullable side of the two-sided account join.
type joinedAccount struct {
	id       *uuid.UUID
	userID   *uuid.UUID
	name     *string
	color    *string
	icon     *string
	accType  *string
	balance  decimal.NullDecimal
	currency *string
	archived *bool
}

func (j *joinedAccount) account() *domain.Account {
	if j.id == nil {
		return nil
	}
	return &domain.Account{
		ID:       *j.id,
		UserID:   *j.userID,
		Name:     *j.name,
		Color:    *j.color,
		Icon:     *j.icon,
		Type:     domain.AccountType(*j.accType),
		Balance:  domain.NewMoney(j.balance.Decimal, *j.currency),
		Archived: *j.archived,
	}
}

func scanTransfer(row pgx.Row) (*domain.Transfer, error) {
	var (
		transfer    domain.Transfer
		amount      decimal.Decimal
		currency    string
		billingDate time.Time
		paidDate    *time.Time
		source      joinedAccount
		destination joinedAccount
	)
	err := row.Scan(
		&transfer.ID, &transfer.Title, &transfer.Description,
		&transfer.SourceAccountID, &transfer.DestinationAccountID,
		&amount, &currency, &billingDate, &transfer.Paid, &paidDate,
		&transfer.InstallmentIndex, &transfer.RecurrenceID, &transfer.CreatedAt,
		&source.id, &source.userID, &source.name, &source.color, &source.icon,
		&source.accType, &source.balance, &source.currency, &source.archived,
		&destination.id, &destination.userID, &destination.name, &destination.color, &destination.icon,
		&destination.accType, &destination.balance, &destination.currency, &destination.archived,
	)
	if err != nil {
		return nil, err
	}
	transfer.Value = domain.NewMoney(amount, currency)
	transfer.BillingDate = domain.DateOf(billingDate)
	if paidDate != nil {
		d := domain.DateOf(*paidDate)
		transfer.PaidDate = &d
	}
	transfer.SourceAccount = source.account()
	transfer.DestinationAccount = destination.account()
	return &transfer, nil
}

func (r *PostgresRepository) loadRecurrenceTransfers(ctx context.Context, recurrence *domain.Recurrence) error {
	query := `
		SELECT ` + transferColumns + `
		FROM transfers t` + transferJoins + `
		WHERE t.recurrence_id = $1
		ORDER BY t.billing_date, t.created_at
	`
	rows, err := r.db.Query(ctx, query, recurrence.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		transfer, err := scanTransfer(rows)
		if err != nil {
			return err
		}
		transfer.Recurrence = recurrence
		recurrence.Transfers = append(recurrence.Transfers, transfer)
	}
	return rows.Err()
}

// CreateTransfers inserts a batch of transfer rows.
func (r *PostgresRepository) CreateTransfers(ctx context.Context, transfers []*domain.Transfer) error {
	query := `
		INSERT INTO transfers (id, recurrence_id, title, description, source_account_id, destination_account_id,
		                       amount, currency, billing_date, paid, paid_date, installment_index, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
	`
	for _, transfer := range transfers {
		var paidDate *time.Time
		if transfer.PaidDate != nil {
			paidDate = &transfer.PaidDate.Time
		}
		_, err := r.db.Exec(ctx, query,
			transfer.ID, transfer.RecurrenceID, transfer.Title, transfer.Description,
			transfer.SourceAccountID, transfer.DestinationAccountID,
			transfer.Value.Amount, transfer.Value.Currency, transfer.BillingDate.Time,
			transfer.Paid, paidDate, transfer.InstallmentIndex,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// UpdateTransfer persists a transfer's mutable state: accounts, paid state
// and value.
func (r *PostgresRepository) UpdateTransfer(ctx context.Context, transfer *domain.Transfer) error {
	var paidDate *time.Time
	if transfer.PaidDate != nil {
		paidDate = &transfer.PaidDate.Time
	}
	query := `
		UPDATE transfers
		SET title = $1, description = $2, source_account_id = $3, destination_account_id = $4,
		    amount = $5, currency = $6, billing_date = $7, paid = $8, paid_date = $9, updated_at = NOW()
		WHERE id = $10
	`
	tag, err := r.db.Exec(ctx, query,
		transfer.Title, transfer.Description, transfer.SourceAccountID, transfer.DestinationAccountID,
		transfer.Value.Amount, transfer.Value.Currency, transfer.BillingDate.Time,
		transfer.Paid, paidDate, transfer.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTransferNotFound
	}
	return nil
}

// CountTransfersByRecurrenceID reports how many occurrences a recurrence owns.
func (r *PostgresRepository) CountTransfersByRecurrenceID(ctx context.Context, recurrenceID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM transfers WHERE recurrence_id = $1`, recurrenceID).Scan(&count)
	return count, err
}

// DeleteTransfer removes one occurrence, scoped to the owner through the
// recurrence.
func (r *PostgresRepository) DeleteTransfer(ctx context.Context, transferID, ownerID uuid.UUID) error {
	query := `
		DELETE FROM transfers t
		USING recurrences r
		WHERE t.id = $1 AND t.recurrence_id = r.id AND r.user_id = $2
	`
	tag, err := r.db.Exec(ctx, query, transferID, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTransferNotFound
	}
	return nil
}

// DeleteTransfersFromInstallment removes every occurrence of the recurrence
// from the given installment index onward, inclusive.
func (r *PostgresRepository) DeleteTransfersFromInstallment(ctx context.Context, recurrenceID uuid.UUID, fromInstallment int, ownerID uuid.UUID) (int64, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM recurrences WHERE id = $1 AND user_id = $2)`,
		recurrenceID, ownerID,
	).Scan(&exists)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrRecurrenceNotFound
	}

	tag, err := r.db.Exec(ctx,
		`DELETE FROM transfers WHERE recurrence_id = $1 AND installment_index >= $2`,
		recurrenceID, fromInstallment,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListTransfers returns one page of occurrences matching the filter along
// with the total match count.
func (r *PostgresRepository) ListTransfers(ctx context.Context, filter TransferFilter, page PageRequest) ([]*domain.Transfer, int64, error) {
	where, args := buildTransferWhere(filter)
	page = NormalizePage(page)

	var total int64
	countQuery := `SELECT COUNT(*) FROM transfers t JOIN recurrences r ON r.id = t.recurrence_id WHERE ` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT `+transferColumns+`, `+recurrenceColumns+`
		FROM transfers t
		JOIN recurrences r ON r.id = t.recurrence_id`+transferJoins+`
		WHERE %s
		%s
		LIMIT $%d OFFSET $%d
	`, where, buildTransferOrder(page), len(args)+1, len(args)+2)
	args = append(args, page.Size, page.Page*page.Size)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var transfers []*domain.Transfer
	for rows.Next() {
		transfer, err := scanTransferWithRecurrence(rows)
		if err != nil {
			return nil, 0, err
		}
		transfers = append(transfers, transfer)
	}
	return transfers, total, rows.Err()
}

func scanTransferWithRecurrence(row pgx.Row) (*domain.Transfer, error) {
	var (
		transfer        domain.Transfer
		amount          decimal.Decimal
		currency        string
		billingDate     time.Time
		paidDate        *time.Time
		source          joinedAccount
		destination     joinedAccount
		recurrence      domain.Recurrence
		firstOccurrence time.Time
	)
	err := row.Scan(
		&transfer.ID, &transfer.Title, &transfer.Description,
		&transfer.SourceAccountID, &transfer.DestinationAccountID,
		&amount, &currency, &billingDate, &transfer.Paid, &paidDate,
		&transfer.InstallmentIndex, &transfer.RecurrenceID, &transfer.CreatedAt,
		&source.id, &source.userID, &source.name, &source.color, &source.icon,
		&source.accType, &source.balance, &source.currency, &source.archived,
		&destination.id, &destination.userID, &destination.name, &destination.color, &destination.icon,
		&destination.accType, &destination.balance, &destination.currency, &destination.archived,
		&recurrence.ID, &recurrence.Interval, &firstOccurrence,
		&recurrence.RecurrenceType, &recurrence.TransactionType, &recurrence.UserID,
	)
	if err != nil {
		return nil, err
	}
	transfer.Value = domain.NewMoney(amount, currency)
	transfer.BillingDate = domain.DateOf(billingDate)
	if paidDate != nil {
		d := domain.DateOf(*paidDate)
		transfer.PaidDate = &d
	}
	transfer.SourceAccount = source.account()
	transfer.DestinationAccount = destination.account()
	recurrence.FirstOccurrence = domain.DateOf(firstOccurrence)
	transfer.Recurrence = &recurrence
	return &transfer, nil
}
