package service

import "errors"

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrBillNotFound     = errors.New("bill not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrDishNotFound     = errors.New("dish not found")

	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrOrderTerminal     = errors.New("order is already served or cancelled")
	ErrInsufficientStock = errors.New("insufficient ingredient stock")

	ErrBillPaid          = errors.New("bill is already paid")
	ErrInvalidDiscount   = errors.New("invalid or inactive discount code")
	ErrBelowMinimum      = errors.New("bill subtotal is below the discount minimum")
	ErrNoPendingDiscount = errors.New("no discount approval pending")
	ErrInsufficientCoins = errors.New("insufficient loyalty coins")
	ErrInvalidCoinCount  = errors.New("coin count must be positive")
	ErrNothingRedeemed   = errors.New("no coins redeemed on this bill")
)
