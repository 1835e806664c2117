package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"bistro/internal/model"
)

var (
	ErrInvalidOTP         = errors.New("invalid otp")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already exists")
)

type AuthService struct {
	db *sql.DB
}

func NewAuthService(db *sql.DB) *AuthService {
	return &AuthService{db: db}
}

// SendOTP gets or creates a customer by phone number and stores a fresh
// one-time code. Delivering the code is an external concern; the caller
// decides what to do with the returned value.
func (s *AuthService) SendOTP(ctx context.Context, phoneNumber string) (string, error) {
	otp, err := generateOTP()
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO customers (phone_number, otp) VALUES ($1, $2)
		ON CONFLICT (phone_number) DO UPDATE SET otp = EXCLUDED.otp
	`, phoneNumber, otp)
	if err != nil {
		return "", fmt.Errorf("store otp: %w", err)
	}

	return otp, nil
}

// VerifyOTP checks the code, clears it on success and returns the customer.
func (s *AuthService) VerifyOTP(ctx context.Context, phoneNumber, otp string) (*model.Customer, error) {
	var (
		c      model.Customer
		stored sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, phone_number, otp, loyalty_coins FROM customers WHERE phone_number = $1
	`, phoneNumber).Scan(&c.ID, &c.PhoneNumber, &stored, &c.LoyaltyCoins)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}

	if !stored.Valid || stored.String == "" || stored.String != otp {
		return nil, ErrInvalidOTP
	}

	err = s.db.QueryRowContext(ctx, `
		UPDATE customers SET otp = NULL, last_login = NOW() WHERE id = $1 RETURNING last_login
	`, c.ID).Scan(&c.LastLogin)
	if err != nil {
		return nil, fmt.Errorf("clear otp: %w", err)
	}

	return &c, nil
}

func (s *AuthService) RegisterStaff(ctx context.Context, username, password string) (*model.Staff, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var st model.Staff
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO staff (username, password_hash) VALUES ($1, $2)
		RETURNING id, username, created_at
	`, username, hash).Scan(&st.ID, &st.Username, &st.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert staff: %w", err)
	}
	st.PasswordHash = hash

	return &st, nil
}

func (s *AuthService) AuthenticateStaff(ctx context.Context, username, password string) (*model.Staff, error) {
	var st model.Staff
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, created_at FROM staff WHERE username = $1
	`, username).Scan(&st.ID, &st.Username, &st.PasswordHash, &st.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get staff: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(st.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &st, nil
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()+1000), nil
}
