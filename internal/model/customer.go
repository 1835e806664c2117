package model

import "time"

type Customer struct {
	ID           string    `json:"id"`
	PhoneNumber  string    `json:"phone_number"`
	LoyaltyCoins int       `json:"loyalty_coins"`
	LastLogin    time.Time `json:"last_login"`
}

type Staff struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
