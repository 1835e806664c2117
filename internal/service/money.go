package service

import "math"

const (
	// TaxRate is applied to the post-discount subtotal of every bill.
	TaxRate = 0.05
	// CoinValue is the monetary value of a single loyalty coin.
	CoinValue = 0.10
	// coinAwardDivisor: one coin earned per this amount of final bill paid.
	coinAwardDivisor = 10
)

// round2 rounds to two decimal places, half-up. Inputs are never negative.
func round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// computeTotals derives the tax and final amount from a bill's subtotal and
// its discount fields. The discounted base is floored at zero so a generous
// discount can never produce a negative bill.
func computeTotals(subtotal, discountAmount, coinDiscount float64) (tax, final float64) {
	discounted := subtotal - discountAmount - coinDiscount
	if discounted < 0 {
		discounted = 0
	}
	tax = round2(discounted * TaxRate)
	final = round2(discounted + tax)
	return tax, final
}

// coinDiscountFor converts a redeemed coin count to its monetary value.
func coinDiscountFor(coins int) float64 {
	return round2(float64(coins) * CoinValue)
}

// coinsEarned is the loyalty award for paying a bill.
func coinsEarned(finalAmount float64) int {
	if finalAmount <= 0 {
		return 0
	}
	return int(math.Floor(finalAmount / coinAwardDivisor))
}
