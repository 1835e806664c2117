package service

import "testing"

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name           string
		subtotal       float64
		discountAmount float64
		coinDiscount   float64
		wantTax        float64
		wantFinal      float64
	}{
		{
			name:      "no discounts",
			subtotal:  100.00,
			wantTax:   5.00,
			wantFinal: 105.00,
		},
		{
			name:           "fixed discount 50 on 200",
			subtotal:       200.00,
			discountAmount: 50,
			wantTax:        7.50,
			wantFinal:      157.50,
		},
		{
			name:           "percentage discount 15 on 100",
			subtotal:       100.00,
			discountAmount: 15.00,
			wantTax:        4.25,
			wantFinal:      89.25,
		},
		{
			name:           "discounts exceed subtotal floors at zero",
			subtotal:       10.00,
			discountAmount: 8.00,
			coinDiscount:   5.00,
			wantTax:        0,
			wantFinal:      0,
		},
		{
			name:           "coin and code discounts apply together before tax",
			subtotal:       100.00,
			discountAmount: 10.00,
			coinDiscount:   3.00,
			wantTax:        4.35,
			wantFinal:      91.35,
		},
		{
			name:      "empty bill",
			subtotal:  0,
			wantTax:   0,
			wantFinal: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax, final := computeTotals(tt.subtotal, tt.discountAmount, tt.coinDiscount)
			if tax != tt.wantTax {
				t.Errorf("tax = %v, want %v", tax, tt.wantTax)
			}
			if final != tt.wantFinal {
				t.Errorf("final = %v, want %v", final, tt.wantFinal)
			}
		})
	}
}

func TestComputeTotalsIdempotent(t *testing.T) {
	tax1, final1 := computeTotals(137.40, 20.00, 3.00)
	tax2, final2 := computeTotals(137.40, 20.00, 3.00)
	if tax1 != tax2 || final1 != final2 {
		t.Errorf("repeated computation diverged: (%v, %v) vs (%v, %v)", tax1, final1, tax2, final2)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.234, 1.23},
		{1.235, 1.24},
		{1.236, 1.24},
		{7.50, 7.50},
		{0, 0},
	}

	for _, tt := range tests {
		if got := round2(tt.in); got != tt.want {
			t.Errorf("round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCoinDiscountFor(t *testing.T) {
	if got := coinDiscountFor(30); got != 3.00 {
		t.Errorf("coinDiscountFor(30) = %v, want 3.00", got)
	}
	if got := coinDiscountFor(0); got != 0 {
		t.Errorf("coinDiscountFor(0) = %v, want 0", got)
	}
}

func TestCoinsEarned(t *testing.T) {
	tests := []struct {
		final float64
		want  int
	}{
		{95.00, 9},
		{157.50, 15},
		{9.99, 0},
		{10.00, 1},
		{0, 0},
	}

	for _, tt := range tests {
		if got := coinsEarned(tt.final); got != tt.want {
			t.Errorf("coinsEarned(%v) = %d, want %d", tt.final, got, tt.want)
		}
	}
}
