package service

import (
	"errors"
	"testing"

	"bistro/internal/model"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		discount model.Discount
		subtotal float64
		want     float64
	}{
		{
			name:     "percentage of subtotal",
			discount: model.Discount{Type: model.DiscountPercentage, Value: 15},
			subtotal: 100.00,
			want:     15.00,
		},
		{
			name:     "fixed amount",
			discount: model.Discount{Type: model.DiscountFixed, Value: 50},
			subtotal: 200.00,
			want:     50.00,
		},
		{
			name:     "fixed amount clamped to subtotal",
			discount: model.Discount{Type: model.DiscountFixed, Value: 300},
			subtotal: 200.00,
			want:     200.00,
		},
		{
			name:     "full percentage clamps at subtotal",
			discount: model.Discount{Type: model.DiscountPercentage, Value: 100},
			subtotal: 80.00,
			want:     80.00,
		},
		{
			name:     "percentage rounds half-up",
			discount: model.Discount{Type: model.DiscountPercentage, Value: 12.5},
			subtotal: 99.00,
			want:     12.38,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.discount, tt.subtotal); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckMinimum(t *testing.T) {
	d := model.Discount{MinBillAmount: 100}

	if err := checkMinimum(d, 99.99); !errors.Is(err, ErrBelowMinimum) {
		t.Errorf("expected ErrBelowMinimum below threshold, got %v", err)
	}
	if err := checkMinimum(d, 100.00); err != nil {
		t.Errorf("expected nil at threshold, got %v", err)
	}
	if err := checkMinimum(model.Discount{}, 0); err != nil {
		t.Errorf("expected nil with zero minimum, got %v", err)
	}
}
