package model

const (
	DiscountPercentage = "PERCENTAGE"
	DiscountFixed      = "FIXED"
)

type Discount struct {
	ID               string  `json:"id"`
	Code             string  `json:"code"`
	Type             string  `json:"type"` // PERCENTAGE or FIXED
	Value            float64 `json:"value"`
	IsActive         bool    `json:"is_active"`
	MinBillAmount    float64 `json:"min_bill_amount"`
	RequiresApproval bool    `json:"requires_approval"`
}
