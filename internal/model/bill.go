package model

import "time"

type Bill struct {
	ID              string     `json:"id"`
	TableNumber     int        `json:"table_number"`
	Subtotal        float64    `json:"subtotal"`
	DiscountID      *string    `json:"discount_id,omitempty"`
	DiscountCode    string     `json:"discount_code,omitempty"`
	DiscountAmount  float64    `json:"discount_amount"`
	DiscountPending bool       `json:"discount_pending"`
	CoinsRedeemed   int        `json:"coins_redeemed"`
	CoinDiscount    float64    `json:"coin_discount"`
	TaxAmount       float64    `json:"tax_amount"`
	FinalAmount     float64    `json:"final_amount"`
	IsPaid          bool       `json:"is_paid"`
	CreatedAt       time.Time  `json:"created_at"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
}
