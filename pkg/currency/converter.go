/**
 * @description
 * This package defines the currency conversion seam. The ledger calls a
 * Converter whenever a transfer's currency differs from an account's
 * currency; the default implementation refuses, matching a deployment with
 * no exchange-rate provider wired in. Deployments plug a real provider in
 * behind the same interface.
 */

package currency

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrConversionUnsupported is returned when no exchange-rate provider is
// configured for a requested currency pair.
var ErrConversionUnsupported = errors.New("currency conversion is not supported")

// Converter converts an amount between two ISO-4217 currencies.
type Converter interface {
	Convert(ctx context.Context, amount decimal.Decimal, fromCurrency, toCurrency string) (decimal.Decimal, error)
}

// UnsupportedConverter is the default Converter. Same-currency conversion is
// the identity; everything else fails with ErrConversionUnsupported.
type UnsupportedConverter struct{}

func (UnsupportedConverter) Convert(ctx context.Context, amount decimal.Decimal, fromCurrency, toCurrency string) (decimal.Decimal, error) {
	if strings.EqualFold(fromCurrency, toCurrency) {
		return amount, nil
	}
	return decimal.Decimal{}, ErrConversionUnsupported
}

// FixedRateConverter converts through a static rate table keyed by
// "FROM/TO" pairs. Useful for tests and single-tenant deployments with
// pinned rates.
type FixedRateConverter struct {
	rates map[string]decimal.Decimal
}

// NewFixedRateConverter builds a converter from a rate table. Keys are
// "FROM/TO" currency pairs, values the multiplier applied to the amount.
func NewFixedRateConverter(rates map[string]decimal.Decimal) *FixedRateConverter {
	normalized := make(map[string]decimal.Decimal, len(rates))
	for pair, rate := range rates {
		normalized[strings.ToUpper(pair)] = rate
	}
	return &FixedRateConverter{rates: normalized}
}

func (c *FixedRateConverter) Convert(ctx context.Context, amount decimal.Decimal, fromCurrency, toCurrency string) (decimal.Decimal, error) {
	if strings.EqualFold(fromCurrency, toCurrency) {
		return amount, nil
	}
	rate, ok := c.rates[strings.ToUpper(fromCurrency)+"/"+strings.ToUpper(toCurrency)]
	if !ok {
		return decimal.Decimal{}, ErrConversionUnsupported
	}
	return amount.Mul(rate), nil
}
