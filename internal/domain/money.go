/**
 * @description
 * This file defines the Money value type used for every balance and transfer
 * amount in the service. Amounts are arbitrary-precision decimals paired with
 * an ISO-4217 currency code, which avoids floating-point drift with financial
 * data.
 *
 * @notes
 * - Money is immutable: Add/Subtract return a new value instead of mutating
 *   the receiver, so the same Account can safely participate in concurrent
 *   calculations without aliasing surprises.
 * - Currency comparison is case-insensitive ("brl" == "BRL").
 */

package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrDifferentCurrencies is returned when arithmetic is attempted between two
// Money values that do not share a currency.
var ErrDifferentCurrencies = errors.New("money values have different currencies")

// Money is an amount in a specific currency.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// NewMoney creates a Money value. The currency code is stored uppercased.
func NewMoney(amount decimal.Decimal, currency string) Money {
	return Money{Amount: amount, Currency: strings.ToUpper(currency)}
}

// SameCurrency reports whether two Money values share a currency, ignoring case.
func (m Money) SameCurrency(other Money) bool {
	return strings.EqualFold(m.Currency, other.Currency)
}

// Add returns the sum of two Money values. Both must share a currency.
func (m Money) Add(other Money) (Money, error) {
	if !m.SameCurrency(other) {
		return Money{}, ErrDifferentCurrencies
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// Subtract returns the difference of two Money values. Both must share a currency.
func (m Money) Subtract(other Money) (Money, error) {
	if !m.SameCurrency(other) {
		return Money{}, ErrDifferentCurrencies
	}
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}, nil
}

// AddAmount returns the Money increased by a bare amount. No currency check is
// performed; callers use this after converting the amount into m's currency.
func (m Money) AddAmount(amount decimal.Decimal) Money {
	return Money{Amount: m.Amount.Add(amount), Currency: m.Currency}
}

// SubtractAmount returns the Money decreased by a bare amount. No currency
// check is performed; callers use this after converting the amount into m's
// currency.
func (m Money) SubtractAmount(amount decimal.Decimal) Money {
	return Money{Amount: m.Amount.Sub(amount), Currency: m.Currency}
}
