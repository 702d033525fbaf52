package shipping

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestEstimateRegionRates(t *testing.T) {
	t.Parallel()

	subtotal := decimal.NewFromFloat(100.00)

	tests := []struct {
		postalCode string
		want       string
	}{
		{"88010000", "12.50"},
		{"89010000", "10.00"},
		{"01310100", "18.00"},
		{"02040000", "18.00"},
		{"20040000", "22.00"},
		{"69005000", "45.00"},
		{"70040000", "25.00"}, // unmapped prefix falls back to default
	}

	for _, tt := range tests {
		quote, err := Estimate(subtotal, tt.postalCode)
		if err != nil {
			t.Fatalf("Estimate(%q): %v", tt.postalCode, err)
		}
		if quote.Amount.StringFixed(2) != tt.want {
			t.Errorf("Estimate(%q) = %s, want %s", tt.postalCode, quote.Amount.StringFixed(2), tt.want)
		}
		if quote.Basis != BasisComputed {
			t.Errorf("Estimate(%q) basis = %s, want computed", tt.postalCode, quote.Basis)
		}
		if quote.Label != "R$ "+tt.want {
			t.Errorf("Estimate(%q) label = %q", tt.postalCode, quote.Label)
		}
	}
}

func TestEstimateNormalizesSeparators(t *testing.T) {
	t.Parallel()

	subtotal := decimal.NewFromFloat(50.00)

	for _, postalCode := range []string{"88010-000", "88.010-000", " 88010000 "} {
		quote, err := Estimate(subtotal, postalCode)
		if err != nil {
			t.Fatalf("Estimate(%q): %v", postalCode, err)
		}
		if quote.Amount.StringFixed(2) != "12.50" {
			t.Errorf("Estimate(%q) = %s, want 12.50", postalCode, quote.Amount.StringFixed(2))
		}
	}
}

func TestEstimateInvalidPostalCode(t *testing.T) {
	t.Parallel()

	subtotal := decimal.NewFromFloat(50.00)

	for _, postalCode := range []string{"", "1234567", "123456789", "8801000a", "00000000", "99999999"} {
		_, err := Estimate(subtotal, postalCode)
		if !errors.Is(err, ErrInvalidPostalCode) {
			t.Errorf("Estimate(%q) error = %v, want ErrInvalidPostalCode", postalCode, err)
		}
	}
}

func TestEstimateFreeAboveThreshold(t *testing.T) {
	t.Parallel()

	quote, err := Estimate(decimal.NewFromFloat(250.01), "99999999")
	if err != nil {
		t.Fatalf("Estimate above threshold should not validate postal code: %v", err)
	}
	if quote.Basis != BasisFreeThreshold {
		t.Errorf("basis = %s, want free_threshold", quote.Basis)
	}
	if !quote.Amount.IsZero() {
		t.Errorf("amount = %s, want 0", quote.Amount)
	}
	if quote.Label != "Free" {
		t.Errorf("label = %q, want Free", quote.Label)
	}
}

func TestEstimateAtThresholdIsNotFree(t *testing.T) {
	t.Parallel()

	quote, err := Estimate(decimal.NewFromFloat(250.00), "88010000")
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if quote.Basis != BasisComputed {
		t.Errorf("basis = %s, want computed: threshold is exclusive", quote.Basis)
	}
}

func TestReconcileCrossingThresholdUpward(t *testing.T) {
	t.Parallel()

	computed, err := Estimate(decimal.NewFromFloat(100.00), "88010000")
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}

	got := Reconcile(computed, decimal.NewFromFloat(300.00))
	if got.Basis != BasisFreeThreshold {
		t.Errorf("basis = %s, want free_threshold", got.Basis)
	}
	if !got.Amount.IsZero() {
		t.Errorf("amount = %s, want 0", got.Amount)
	}
}

func TestReconcileDroppingBelowThresholdInvalidatesFree(t *testing.T) {
	t.Parallel()

	free := Reconcile(Quote{}, decimal.NewFromFloat(300.00))

	got := Reconcile(free, decimal.NewFromFloat(200.00))
	if got.IsSet() {
		t.Errorf("free quote should be invalidated below threshold, got basis %s", got.Basis)
	}
}

func TestReconcileComputedQuoteSurvivesBelowThreshold(t *testing.T) {
	t.Parallel()

	computed, err := Estimate(decimal.NewFromFloat(100.00), "20040000")
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}

	got := Reconcile(computed, decimal.NewFromFloat(150.00))
	if got.Basis != BasisComputed {
		t.Errorf("basis = %s, want computed", got.Basis)
	}
	if !got.Amount.Equal(computed.Amount) {
		t.Errorf("amount = %s, want %s", got.Amount, computed.Amount)
	}
}

func TestReconcileUnsetStaysUnset(t *testing.T) {
	t.Parallel()

	got := Reconcile(Quote{}, decimal.NewFromFloat(100.00))
	if got.IsSet() {
		t.Errorf("unset quote should remain unset, got basis %s", got.Basis)
	}
}
