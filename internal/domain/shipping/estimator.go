// internal/domain/shipping/estimator.go
package shipping

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidPostalCode is returned for postal codes that are not exactly
// eight digits after normalization, or that match a reserved sentinel.
var ErrInvalidPostalCode = errors.New("invalid postal code")

// QuoteBasis explains how a shipping quote was derived.
type QuoteBasis string

const (
	BasisUnset         QuoteBasis = "unset"
	BasisComputed      QuoteBasis = "computed"
	BasisFreeThreshold QuoteBasis = "free_threshold"
)

// Quote is a delivery cost with the basis that produced it.
type Quote struct {
	Amount decimal.Decimal `json:"amount"`
	Label  string          `json:"label"`
	Basis  QuoteBasis      `json:"basis"`
}

// IsSet reports whether the quote has been computed.
func (q Quote) IsSet() bool {
	return q.Basis != "" && q.Basis != BasisUnset
}

// FreeShippingThreshold is the subtotal above which shipping is free.
var FreeShippingThreshold = decimal.NewFromFloat(250.00)

// Flat rates by the first two digits of the postal code (region), with a
// fallback for unmatched prefixes.
var (
	regionRates = map[string]decimal.Decimal{
		"88": decimal.NewFromFloat(12.50), // SC (Florianópolis)
		"89": decimal.NewFromFloat(10.00), // SC (Joinville/Blumenau)
		"01": decimal.NewFromFloat(18.00), // SP capital
		"02": decimal.NewFromFloat(18.00), // SP capital
		"20": decimal.NewFromFloat(22.00), // RJ capital
		"69": decimal.NewFromFloat(45.00), // AM (Manaus)
	}
	defaultRate = decimal.NewFromFloat(25.00)
)

func unsetQuote() Quote {
	return Quote{Amount: decimal.Zero, Basis: BasisUnset}
}

func freeQuote() Quote {
	return Quote{Amount: decimal.Zero, Label: "Free", Basis: BasisFreeThreshold}
}

// Estimate quotes shipping for the given cart subtotal and postal code.
// Above the free-shipping threshold the postal code is not consulted.
func Estimate(subtotal decimal.Decimal, postalCode string) (Quote, error) {
	if subtotal.GreaterThan(FreeShippingThreshold) {
		return freeQuote(), nil
	}

	normalized := NormalizePostalCode(postalCode)
	if err := validatePostalCode(normalized); err != nil {
		return unsetQuote(), err
	}

	rate, ok := regionRates[normalized[:2]]
	if !ok {
		rate = defaultRate
	}

	return Quote{
		Amount: rate,
		Label:  fmt.Sprintf("R$ %s", rate.StringFixed(2)),
		Basis:  BasisComputed,
	}, nil
}

// Reconcile re-derives a previously stored quote against the current
// subtotal. Crossing the free-shipping threshold upward forces a free
// quote regardless of postal code; dropping back to at-or-below the
// threshold invalidates a free quote rather than leaving it stale.
// Computed quotes survive mutations that stay below the threshold.
func Reconcile(quote Quote, subtotal decimal.Decimal) Quote {
	if subtotal.GreaterThan(FreeShippingThreshold) {
		return freeQuote()
	}
	if quote.Basis == BasisFreeThreshold {
		return unsetQuote()
	}
	if !quote.IsSet() {
		return unsetQuote()
	}
	return quote
}

// NormalizePostalCode strips the separator characters commonly typed in
// Brazilian CEPs.
func NormalizePostalCode(postalCode string) string {
	normalized := strings.TrimSpace(postalCode)
	normalized = strings.ReplaceAll(normalized, "-", "")
	return strings.ReplaceAll(normalized, ".", "")
}

func validatePostalCode(normalized string) error {
	if len(normalized) != 8 {
		return fmt.Errorf("%w: must be 8 digits", ErrInvalidPostalCode)
	}
	for _, r := range normalized {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: must be 8 digits", ErrInvalidPostalCode)
		}
	}
	// Reserved sentinel values that no carrier serves.
	if normalized == "00000000" || normalized == "99999999" {
		return fmt.Errorf("%w: postal code not found", ErrInvalidPostalCode)
	}
	return nil
}
