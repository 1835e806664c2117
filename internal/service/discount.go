package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bistro/internal/model"
)

type DiscountService struct {
	db *sql.DB
}

func NewDiscountService(db *sql.DB) *DiscountService {
	return &DiscountService{db: db}
}

// Evaluate computes the monetary discount a code yields against a subtotal.
// The result is clamped so it never exceeds the subtotal.
func Evaluate(d model.Discount, subtotal float64) float64 {
	var amount float64
	switch d.Type {
	case model.DiscountPercentage:
		amount = subtotal * d.Value / 100
	default:
		amount = d.Value
	}
	if amount > subtotal {
		amount = subtotal
	}
	return round2(amount)
}

// checkMinimum enforces a discount's minimum-bill rule.
func checkMinimum(d model.Discount, subtotal float64) error {
	if subtotal < d.MinBillAmount {
		return ErrBelowMinimum
	}
	return nil
}

type DiscountPreview struct {
	Code           string  `json:"code"`
	DiscountAmount float64 `json:"discount_amount"`
	Subtotal       float64 `json:"subtotal"`
	AfterDiscount  float64 `json:"after_discount"`
}

// Preview evaluates a code against a caller-supplied cart subtotal without
// persisting anything. It applies the same validation as ApplyDiscount.
func (s *DiscountService) Preview(ctx context.Context, code string, subtotal float64) (*DiscountPreview, error) {
	d, err := getDiscountByCode(ctx, s.db, code)
	if err != nil {
		return nil, err
	}

	if err := checkMinimum(*d, subtotal); err != nil {
		return nil, err
	}

	amount := Evaluate(*d, subtotal)
	return &DiscountPreview{
		Code:           d.Code,
		DiscountAmount: amount,
		Subtotal:       round2(subtotal),
		AfterDiscount:  round2(subtotal - amount),
	}, nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// getDiscountByCode resolves an active discount, case-insensitively.
func getDiscountByCode(ctx context.Context, q querier, code string) (*model.Discount, error) {
	var d model.Discount
	err := q.QueryRowContext(ctx, `
		SELECT id, code, discount_type, value, is_active, min_bill_amount, requires_approval
		FROM discounts
		WHERE LOWER(code) = LOWER($1) AND is_active
	`, code).Scan(&d.ID, &d.Code, &d.Type, &d.Value, &d.IsActive, &d.MinBillAmount, &d.RequiresApproval)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidDiscount
		}
		return nil, fmt.Errorf("get discount: %w", err)
	}
	return &d, nil
}

func getDiscountByID(ctx context.Context, q querier, id string) (*model.Discount, error) {
	var d model.Discount
	err := q.QueryRowContext(ctx, `
		SELECT id, code, discount_type, value, is_active, min_bill_amount, requires_approval
		FROM discounts
		WHERE id = $1
	`, id).Scan(&d.ID, &d.Code, &d.Type, &d.Value, &d.IsActive, &d.MinBillAmount, &d.RequiresApproval)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidDiscount
		}
		return nil, fmt.Errorf("get discount: %w", err)
	}
	return &d, nil
}
