/**
 * @description
 * This file defines the Account entity and its lifecycle rules. An account
 * owns a Money balance and can be archived: an archived account is kept for
 * history and stays referenced by past transfers, but cannot take part in new
 * money movement.
 */

package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrResourceAlreadyArchived is returned when archiving an archived resource.
	ErrResourceAlreadyArchived = errors.New("resource is already archived")
	// ErrResourceAlreadyActive is returned when unarchiving an active resource.
	ErrResourceAlreadyActive = errors.New("resource is already active")
)

// AccountType categorizes an account.
type AccountType string

const (
	AccountTypeWallet     AccountType = "WALLET"
	AccountTypeChecking   AccountType = "CHECKING"
	AccountTypeSavings    AccountType = "SAVINGS"
	AccountTypeInvestment AccountType = "INVESTMENT"
	AccountTypeCreditCard AccountType = "CREDIT_CARD"
	AccountTypeCash       AccountType = "CASH"
	AccountTypeOther      AccountType = "OTHER"
)

// Account represents one of a user's monetary accounts.
type Account struct {
	ID        uuid.UUID   `json:"id"`
	UserID    uuid.UUID   `json:"user_id"`
	Name      string      `json:"name"`
	Color     string      `json:"color"`
	Icon      string      `json:"icon"`
	Type      AccountType `json:"type"`
	Balance   Money       `json:"balance"`
	Archived  bool        `json:"archived"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Deposit adds a Money value to the balance. The value's currency must match
// the account's currency.
func (a *Account) Deposit(value Money) error {
	balance, err := a.Balance.Add(value)
	if err != nil {
		return err
	}
	a.Balance = balance
	return nil
}

// DepositAmount adds a bare amount to the balance, assumed to already be in
// the account's currency. Used after currency conversion.
func (a *Account) DepositAmount(amount decimal.Decimal) {
	a.Balance = a.Balance.AddAmount(amount)
}

// Withdraw subtracts a Money value from the balance. The value's currency
// must match the account's currency.
func (a *Account) Withdraw(value Money) error {
	balance, err := a.Balance.Subtract(value)
	if err != nil {
		return err
	}
	a.Balance = balance
	return nil
}

// WithdrawAmount subtracts a bare amount from the balance, assumed to already
// be in the account's currency. Used after currency conversion.
func (a *Account) WithdrawAmount(amount decimal.Decimal) {
	a.Balance = a.Balance.SubtractAmount(amount)
}

// Archive marks the account as archived. Archiving twice is an error.
func (a *Account) Archive() error {
	if a.Archived {
		return ErrResourceAlreadyArchived
	}
	a.Archived = true
	return nil
}

// Unarchive reactivates an archived account. Unarchiving an active account is
// an error.
func (a *Account) Unarchive() error {
	if !a.Archived {
		return ErrResourceAlreadyActive
	}
	a.Archived = false
	return nil
}
