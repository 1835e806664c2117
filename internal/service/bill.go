package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bistro/internal/model"
)

type BillService struct {
	db  *sql.DB
	pub Publisher
}

func NewBillService(db *sql.DB, pub Publisher) *BillService {
	return &BillService{db: db, pub: pub}
}

// lockedBill is the bill state read under FOR UPDATE at the start of every
// mutating operation.
type lockedBill struct {
	id             string
	subtotal       float64
	discountID     *string
	pending        bool
	coinsRedeemed  int
	coinCustomerID *string
	isPaid         bool
}

func lockBill(ctx context.Context, tx *sql.Tx, billID string) (*lockedBill, error) {
	var b lockedBill
	err := tx.QueryRowContext(ctx, `
		SELECT id, subtotal, discount_id, discount_pending, coins_redeemed, coin_customer_id, is_paid
		FROM bills
		WHERE id = $1
		FOR UPDATE
	`, billID).Scan(&b.id, &b.subtotal, &b.discountID, &b.pending, &b.coinsRedeemed, &b.coinCustomerID, &b.isPaid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBillNotFound
		}
		return nil, fmt.Errorf("lock bill: %w", err)
	}
	return &b, nil
}

// recalculateBill recomputes the bill's monetary chain inside the caller's
// transaction: subtotal over linked orders at current dish prices, then
// discounted = max(0, subtotal − discount − coins), tax, final. Idempotent;
// invoked by every operation that touches the linked-order set or any
// discount or coin field.
func recalculateBill(ctx context.Context, tx *sql.Tx, billID string) error {
	var subtotal float64
	err := tx.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(oi.quantity * d.price), 0)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN dishes d ON d.id = oi.dish_id
		WHERE o.bill_id = $1
	`, billID).Scan(&subtotal)
	if err != nil {
		return fmt.Errorf("sum bill items: %w", err)
	}
	subtotal = round2(subtotal)

	var discountAmount, coinDiscount float64
	err = tx.QueryRowContext(ctx,
		`SELECT discount_amount, coin_discount FROM bills WHERE id = $1`, billID,
	).Scan(&discountAmount, &coinDiscount)
	if err != nil {
		return fmt.Errorf("get bill discounts: %w", err)
	}

	tax, final := computeTotals(subtotal, discountAmount, coinDiscount)

	_, err = tx.ExecContext(ctx, `
		UPDATE bills SET subtotal = $1, tax_amount = $2, final_amount = $3 WHERE id = $4
	`, subtotal, tax, final, billID)
	if err != nil {
		return fmt.Errorf("update bill totals: %w", err)
	}
	return nil
}

// Recalculate refreshes a bill's totals on its own. The mutating operations
// below already recalculate inside their transactions; this exists for
// callers that changed nothing but want fresh read-time prices reflected.
func (s *BillService) Recalculate(ctx context.Context, billID string) (*model.Bill, error) {
	bill, err := s.mutate(ctx, billID, func(ctx context.Context, tx *sql.Tx, b *lockedBill) error {
		if b.isPaid {
			return ErrBillPaid
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bill, nil
}

// mutate wraps the shared transaction discipline of every bill operation:
// lock the row, apply the change, recalculate, commit, then broadcast the
// committed bill to the billing board.
func (s *BillService) mutate(ctx context.Context, billID string, fn func(context.Context, *sql.Tx, *lockedBill) error) (*model.Bill, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	locked, err := lockBill(ctx, tx, billID)
	if err != nil {
		return nil, err
	}

	if err = fn(ctx, tx, locked); err != nil {
		return nil, err
	}

	if err = recalculateBill(ctx, tx, billID); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	bill, err := getBill(ctx, s.db, billID)
	if err != nil {
		return nil, err
	}

	notify(ctx, s.pub, TopicBilling, bill)
	return bill, nil
}

// ApplyDiscount validates a code against the bill and either applies it or,
// for staff-gated codes, records a pending request without touching the
// monetary fields.
func (s *BillService) ApplyDiscount(ctx context.Context, billID, code string) (*model.Bill, error) {
	return s.mutate(ctx, billID, func(ctx context.Context, tx *sql.Tx, b *lockedBill) error {
		if b.isPaid {
			return ErrBillPaid
		}

		d, err := getDiscountByCode(ctx, tx, code)
		if err != nil {
			return err
		}
		if err := checkMinimum(*d, b.subtotal); err != nil {
			return err
		}

		if d.RequiresApproval {
			_, err = tx.ExecContext(ctx, `
				UPDATE bills SET discount_id = $1, discount_pending = TRUE WHERE id = $2
			`, d.ID, billID)
			if err != nil {
				return fmt.Errorf("request discount: %w", err)
			}
			return nil
		}

		amount := Evaluate(*d, b.subtotal)
		_, err = tx.ExecContext(ctx, `
			UPDATE bills SET discount_id = $1, discount_amount = $2, discount_pending = FALSE WHERE id = $3
		`, d.ID, amount, billID)
		if err != nil {
			return fmt.Errorf("apply discount: %w", err)
		}
		return nil
	})
}

// ApproveDiscount is the staff side of a pending discount request.
func (s *BillService) ApproveDiscount(ctx context.Context, billID string) (*model.Bill, error) {
	return s.mutate(ctx, billID, func(ctx context.Context, tx *sql.Tx, b *lockedBill) error {
		if b.isPaid {
			return ErrBillPaid
		}
		if !b.pending || b.discountID == nil {
			return ErrNoPendingDiscount
		}

		d, err := getDiscountByID(ctx, tx, *b.discountID)
		if err != nil {
			return err
		}
		if !d.IsActive {
			return ErrInvalidDiscount
		}
		if err := checkMinimum(*d, b.subtotal); err != nil {
			return err
		}

		amount := Evaluate(*d, b.subtotal)
		_, err = tx.ExecContext(ctx, `
			UPDATE bills SET discount_amount = $1, discount_pending = FALSE WHERE id = $2
		`, amount, billID)
		if err != nil {
			return fmt.Errorf("approve discount: %w", err)
		}
		return nil
	})
}

// RemoveDiscount clears the applied code, its amount and any pending flag.
func (s *BillService) RemoveDiscount(ctx context.Context, billID string) (*model.Bill, error) {
	return s.mutate(ctx, billID, func(ctx context.Context, tx *sql.Tx, b *lockedBill) error {
		if b.isPaid {
			return ErrBillPaid
		}
		_, err := tx.ExecContext(ctx, `
			UPDATE bills SET discount_id = NULL, discount_amount = 0, discount_pending = FALSE WHERE id = $1
		`, billID)
		if err != nil {
			return fmt.Errorf("remove discount: %w", err)
		}
		return nil
	})
}

// RedeemCoins converts loyalty coins into a bill discount. The customer's
// balance is locked and decremented by the exact coin count in the same
// transaction, so the coin ledger stays integer-exact.
func (s *BillService) RedeemCoins(ctx context.Context, billID, customerID string, coins int) (*model.Bill, int, error) {
	if coins <= 0 {
		return nil, 0, ErrInvalidCoinCount
	}

	var remaining int
	bill, err := s.mutate(ctx, billID, func(ctx context.Context, tx *sql.Tx, b *lockedBill) error {
		if b.isPaid {
			return ErrBillPaid
		}

		var balance int
		err := tx.QueryRowContext(ctx,
			`SELECT loyalty_coins FROM customers WHERE id = $1 FOR UPDATE`, customerID,
		).Scan(&balance)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrCustomerNotFound
			}
			return fmt.Errorf("get customer balance: %w", err)
		}
		if balance < coins {
			return ErrInsufficientCoins
		}

		err = tx.QueryRowContext(ctx, `
			UPDATE customers SET loyalty_coins = loyalty_coins - $1 WHERE id = $2 RETURNING loyalty_coins
		`, coins, customerID).Scan(&remaining)
		if err != nil {
			return fmt.Errorf("decrement coins: %w", err)
		}

		total := b.coinsRedeemed + coins
		_, err = tx.ExecContext(ctx, `
			UPDATE bills SET coins_redeemed = $1, coin_discount = $2, coin_customer_id = $3 WHERE id = $4
		`, total, coinDiscountFor(total), customerID, billID)
		if err != nil {
			return fmt.Errorf("apply coin discount: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return bill, remaining, nil
}

// RemoveCoins is the exact inverse of RedeemCoins: it refunds the full
// previously-redeemed count and zeroes the coin discount.
func (s *BillService) RemoveCoins(ctx context.Context, billID string) (*model.Bill, int, error) {
	var balance int
	bill, err := s.mutate(ctx, billID, func(ctx context.Context, tx *sql.Tx, b *lockedBill) error {
		if b.isPaid {
			return ErrBillPaid
		}
		if b.coinsRedeemed == 0 || b.coinCustomerID == nil {
			return ErrNothingRedeemed
		}

		err := tx.QueryRowContext(ctx, `
			UPDATE customers SET loyalty_coins = loyalty_coins + $1 WHERE id = $2 RETURNING loyalty_coins
		`, b.coinsRedeemed, *b.coinCustomerID).Scan(&balance)
		if err != nil {
			return fmt.Errorf("refund coins: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE bills SET coins_redeemed = 0, coin_discount = 0, coin_customer_id = NULL WHERE id = $1
		`, billID)
		if err != nil {
			return fmt.Errorf("clear coin discount: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return bill, balance, nil
}

type PaymentResult struct {
	Bill         *model.Bill     `json:"bill"`
	Customer     *model.Customer `json:"customer,omitempty"`
	CoinsAwarded int             `json:"coins_awarded"`
}

// MarkPaid settles the bill under an exclusive row lock so two concurrent
// payment attempts cannot both succeed or double-award coins. Loyalty coins
// go to the first linked order's customer, if any; a bill without a
// determinable customer is still paid, with no award.
func (s *BillService) MarkPaid(ctx context.Context, billID string) (*PaymentResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	locked, err := lockBill(ctx, tx, billID)
	if err != nil {
		return nil, err
	}
	if locked.isPaid {
		return nil, ErrBillPaid
	}

	// Settle against fresh totals, not whatever the last recalculation left.
	if err = recalculateBill(ctx, tx, billID); err != nil {
		return nil, err
	}

	var final float64
	err = tx.QueryRowContext(ctx, `SELECT final_amount FROM bills WHERE id = $1`, billID).Scan(&final)
	if err != nil {
		return nil, fmt.Errorf("get final amount: %w", err)
	}

	var customerID *string
	err = tx.QueryRowContext(ctx, `
		SELECT customer_id FROM orders
		WHERE bill_id = $1 AND customer_id IS NOT NULL
		ORDER BY created_at ASC
		LIMIT 1
	`, billID).Scan(&customerID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get bill customer: %w", err)
	}

	result := &PaymentResult{CoinsAwarded: coinsEarned(final)}
	if customerID != nil && result.CoinsAwarded > 0 {
		var c model.Customer
		err = tx.QueryRowContext(ctx, `
			UPDATE customers SET loyalty_coins = loyalty_coins + $1
			WHERE id = $2
			RETURNING id, phone_number, loyalty_coins, last_login
		`, result.CoinsAwarded, *customerID).Scan(&c.ID, &c.PhoneNumber, &c.LoyaltyCoins, &c.LastLogin)
		if err != nil {
			return nil, fmt.Errorf("award coins: %w", err)
		}
		result.Customer = &c
	} else {
		result.CoinsAwarded = 0
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE bills SET is_paid = TRUE, paid_at = $1 WHERE id = $2`, time.Now(), billID)
	if err != nil {
		return nil, fmt.Errorf("mark paid: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	bill, err := getBill(ctx, s.db, billID)
	if err != nil {
		return nil, err
	}
	result.Bill = bill

	notify(ctx, s.pub, TopicBilling, bill)
	if customerID != nil {
		notify(ctx, s.pub, TopicCustomer(*customerID), bill)
	}
	return result, nil
}

// Get returns a bill. When customerID is set, the bill must contain at
// least one of that customer's orders; otherwise it reads as not found.
func (s *BillService) Get(ctx context.Context, billID string, customerID *string) (*model.Bill, error) {
	bill, err := getBill(ctx, s.db, billID)
	if err != nil {
		return nil, err
	}

	if customerID != nil {
		var owns bool
		err = s.db.QueryRowContext(ctx, `
			SELECT EXISTS (SELECT 1 FROM orders WHERE bill_id = $1 AND customer_id = $2)
		`, billID, *customerID).Scan(&owns)
		if err != nil {
			return nil, fmt.Errorf("check bill ownership: %w", err)
		}
		if !owns {
			return nil, ErrBillNotFound
		}
	}
	return bill, nil
}

// ListUnpaid returns the billing board's working set, oldest first.
func (s *BillService) ListUnpaid(ctx context.Context) ([]model.Bill, error) {
	rows, err := s.db.QueryContext(ctx, billSelect+`
		WHERE NOT b.is_paid
		ORDER BY b.created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query unpaid bills: %w", err)
	}
	defer rows.Close()

	var bills []model.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		bills = append(bills, *b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return bills, nil
}

const billSelect = `
	SELECT b.id, b.table_number, b.subtotal, b.discount_id, COALESCE(d.code, ''),
	       b.discount_amount, b.discount_pending, b.coins_redeemed, b.coin_discount,
	       b.tax_amount, b.final_amount, b.is_paid, b.created_at, b.paid_at
	FROM bills b
	LEFT JOIN discounts d ON d.id = b.discount_id
`

func getBill(ctx context.Context, q querier, billID string) (*model.Bill, error) {
	b, err := scanBill(q.QueryRowContext(ctx, billSelect+` WHERE b.id = $1`, billID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBillNotFound
		}
		return nil, err
	}
	return b, nil
}

func scanBill(row rowScanner) (*model.Bill, error) {
	var b model.Bill
	err := row.Scan(
		&b.ID, &b.TableNumber, &b.Subtotal, &b.DiscountID, &b.DiscountCode,
		&b.DiscountAmount, &b.DiscountPending, &b.CoinsRedeemed, &b.CoinDiscount,
		&b.TaxAmount, &b.FinalAmount, &b.IsPaid, &b.CreatedAt, &b.PaidAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan bill: %w", err)
	}
	return &b, nil
}
