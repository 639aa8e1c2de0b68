package currency

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestUnsupportedConverterIdentity(t *testing.T) {
	converter := UnsupportedConverter{}
	amount := decimal.NewFromInt(100)

	got, err := converter.Convert(context.Background(), amount, "BRL", "brl")
	if err != nil {
		t.Fatalf("same-currency conversion failed: %v", err)
	}
	if !got.Equal(amount) {
		t.Fatalf("got %s, want %s", got, amount)
	}

	if _, err := converter.Convert(context.Background(), amount, "USD", "BRL"); !errors.Is(err, ErrConversionUnsupported) {
		t.Fatalf("expected ErrConversionUnsupported, got %v", err)
	}
}

func TestFixedRateConverter(t *testing.T) {
	converter := NewFixedRateConverter(map[string]decimal.Decimal{
		"usd/brl": decimal.RequireFromString("5.25"),
	})
	amount := decimal.NewFromInt(100)

	got, err := converter.Convert(context.Background(), amount, "USD", "BRL")
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if want := decimal.RequireFromString("525"); !got.Equal(want) {
		t.Fatalf("got %s, want %s", got, want)
	}

	// Pairs are directional; the reverse rate is not implied.
	if _, err := converter.Convert(context.Background(), amount, "BRL", "USD"); !errors.Is(err, ErrConversionUnsupported) {
		t.Fatalf("expected ErrConversionUnsupported, got %v", err)
	}

	got, err = converter.Convert(context.Background(), amount, "EUR", "eur")
	if err != nil || !got.Equal(amount) {
		t.Fatalf("same-currency conversion should be the identity, got %s, %v", got, err)
	}
}
