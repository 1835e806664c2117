package model

import "time"

const (
	StatusPending   = "Pending"
	StatusPreparing = "Preparing"
	StatusReady     = "Ready"
	StatusServed    = "Served"
	StatusCancelled = "Cancelled"
)

type Order struct {
	ID            string     `json:"id"`
	CustomerID    *string    `json:"customer_id,omitempty"`
	TableNumber   int        `json:"table_number"`
	Status        string     `json:"status"` // Pending, Preparing, Ready, Served, Cancelled
	SelfService   bool       `json:"self_service"`
	BillID        *string    `json:"bill_id,omitempty"`
	Items         []LineItem `json:"items"`
	TotalAmount   float64    `json:"total_amount"`
	PaymentStatus string     `json:"payment_status,omitempty"` // Paid / Unpaid, derived from the linked bill
	CreatedAt     time.Time  `json:"created_at"`
}

type LineItem struct {
	ID       string  `json:"id"`
	DishID   string  `json:"dish_id"`
	DishName string  `json:"dish_name"`
	Price    float64 `json:"price"` // resolved from the dish at read time
	Quantity int     `json:"quantity"`
}
