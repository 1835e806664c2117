package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bistro/internal/model"
)

type OrderService struct {
	db  *sql.DB
	pub Publisher
}

func NewOrderService(db *sql.DB, pub Publisher) *OrderService {
	return &OrderService{db: db, pub: pub}
}

type PlaceItem struct {
	DishID   string `json:"dish_id"`
	Quantity int    `json:"quantity"`
}

type PlaceRequest struct {
	CustomerID  *string     `json:"customer_id,omitempty"`
	TableNumber int         `json:"table_number"`
	SelfService bool        `json:"self_service"`
	Items       []PlaceItem `json:"items"`
}

// Place creates an order in Pending and deducts every recipe ingredient in
// one transaction. Any unknown dish or stock shortfall aborts the whole
// placement with nothing persisted.
func (s *OrderService) Place(ctx context.Context, req *PlaceRequest) (*model.Order, error) {
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, item := range req.Items {
		var price float64
		err = tx.QueryRowContext(ctx, `SELECT price FROM dishes WHERE id = $1`, item.DishID).Scan(&price)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrDishNotFound
			}
			return nil, fmt.Errorf("get dish: %w", err)
		}

		if err = deduct(ctx, tx, item.DishID, item.Quantity); err != nil {
			return nil, err
		}
	}

	var orderID string
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (customer_id, table_number, self_service)
		VALUES ($1, $2, $3)
		RETURNING id
	`, req.CustomerID, req.TableNumber, req.SelfService).Scan(&orderID)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	for _, item := range req.Items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, dish_id, quantity) VALUES ($1, $2, $3)`,
			orderID, item.DishID, item.Quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("insert order item: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	s.broadcast(ctx, order)
	return order, nil
}

// Transition moves an order along its lifecycle. Serving links the order to
// the table's open bill (created on demand) and recalculates it; cancelling
// restores the deducted inventory. Both happen inside one transaction with
// the status change.
func (s *OrderService) Transition(ctx context.Context, orderID, newStatus string) (*model.Order, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var (
		current  string
		tableNum int
	)
	err = tx.QueryRowContext(ctx,
		`SELECT status, table_number FROM orders WHERE id = $1 FOR UPDATE`, orderID,
	).Scan(&current, &tableNum)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	if err = canTransition(current, newStatus); err != nil {
		return nil, err
	}

	var billID string
	switch newStatus {
	case model.StatusCancelled:
		if err = s.restoreItems(ctx, tx, orderID); err != nil {
			return nil, err
		}
		_, err = tx.ExecContext(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, newStatus, orderID)

	case model.StatusServed:
		billID, err = openBillForTable(ctx, tx, tableNum)
		if err != nil {
			return nil, err
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE orders SET status = $1, bill_id = $2 WHERE id = $3`, newStatus, billID, orderID)
		if err == nil {
			err = recalculateBill(ctx, tx, billID)
		}

	default:
		_, err = tx.ExecContext(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, newStatus, orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	s.broadcast(ctx, order)
	if billID != "" {
		if bill, err := s.loadBillSnapshot(ctx, billID); err == nil {
			notify(ctx, s.pub, TopicBilling, bill)
		}
	}
	return order, nil
}

// Cancel is the terminal-failure transition; it rejects served orders.
func (s *OrderService) Cancel(ctx context.Context, orderID string) (*model.Order, error) {
	return s.Transition(ctx, orderID, model.StatusCancelled)
}

// openBillForTable finds the table's unpaid bill or creates one. The caller
// holds the transaction; the partial unique index on (table_number) WHERE
// NOT is_paid backstops the at-most-one-open-bill invariant.
func openBillForTable(ctx context.Context, tx *sql.Tx, tableNumber int) (string, error) {
	var billID string
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM bills WHERE table_number = $1 AND NOT is_paid FOR UPDATE`, tableNumber,
	).Scan(&billID)
	if err == nil {
		return billID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("get open bill: %w", err)
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO bills (table_number) VALUES ($1) RETURNING id`, tableNumber,
	).Scan(&billID)
	if err != nil {
		return "", fmt.Errorf("create bill: %w", err)
	}
	return billID, nil
}

func (s *OrderService) restoreItems(ctx context.Context, tx *sql.Tx, orderID string) error {
	rows, err := tx.QueryContext(ctx,
		`SELECT dish_id, quantity FROM order_items WHERE order_id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	type line struct {
		dishID   string
		quantity int
	}
	var lines []line
	for rows.Next() {
		var l line
		if err := rows.Scan(&l.dishID, &l.quantity); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		lines = append(lines, l)
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("rows iteration failed: %w", err)
	}

	for _, l := range lines {
		if err := restore(ctx, tx, l.dishID, l.quantity); err != nil {
			return err
		}
	}
	return nil
}

// Get returns an order. When customerID is set the order must belong to that
// customer; a foreign order reads as not found so existence never leaks.
func (s *OrderService) Get(ctx context.Context, orderID string, customerID *string) (*model.Order, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if customerID != nil && (order.CustomerID == nil || *order.CustomerID != *customerID) {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListKitchen returns the orders the kitchen still needs to act on.
func (s *OrderService) ListKitchen(ctx context.Context) ([]model.Order, error) {
	return s.listOrders(ctx, `
		SELECT o.id, o.customer_id, o.table_number, o.status, o.self_service, o.bill_id, o.created_at,
		       COALESCE(b.is_paid, FALSE)
		FROM orders o
		LEFT JOIN bills b ON b.id = o.bill_id
		WHERE o.status IN ('Pending', 'Preparing', 'Ready')
		ORDER BY o.created_at ASC
	`)
}

// ListByCustomer returns a customer's order history, newest first.
func (s *OrderService) ListByCustomer(ctx context.Context, customerID string) ([]model.Order, error) {
	return s.listOrders(ctx, `
		SELECT o.id, o.customer_id, o.table_number, o.status, o.self_service, o.bill_id, o.created_at,
		       COALESCE(b.is_paid, FALSE)
		FROM orders o
		LEFT JOIN bills b ON b.id = o.bill_id
		WHERE o.customer_id = $1
		ORDER BY o.created_at DESC
	`, customerID)
}

func (s *OrderService) listOrders(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	for i := range orders {
		if err := s.attachItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (s *OrderService) getOrder(ctx context.Context, orderID string) (*model.Order, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT o.id, o.customer_id, o.table_number, o.status, o.self_service, o.bill_id, o.created_at,
		       COALESCE(b.is_paid, FALSE)
		FROM orders o
		LEFT JOIN bills b ON b.id = o.bill_id
		WHERE o.id = $1
	`, orderID)

	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if err := s.attachItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*model.Order, error) {
	var (
		o      model.Order
		isPaid bool
	)
	err := row.Scan(&o.ID, &o.CustomerID, &o.TableNumber, &o.Status, &o.SelfService, &o.BillID, &o.CreatedAt, &isPaid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}

	o.PaymentStatus = "Unpaid"
	if o.BillID != nil && isPaid {
		o.PaymentStatus = "Paid"
	}
	return &o, nil
}

// attachItems loads line items with prices resolved from the dish at read
// time, and derives the order total from them.
func (s *OrderService) attachItems(ctx context.Context, o *model.Order) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT oi.id, oi.dish_id, d.name, d.price, oi.quantity
		FROM order_items oi
		JOIN dishes d ON d.id = oi.dish_id
		WHERE oi.order_id = $1
	`, o.ID)
	if err != nil {
		return fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var total float64
	for rows.Next() {
		var item model.LineItem
		if err := rows.Scan(&item.ID, &item.DishID, &item.DishName, &item.Price, &item.Quantity); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		total += item.Price * float64(item.Quantity)
		o.Items = append(o.Items, item)
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("rows iteration failed: %w", err)
	}

	o.TotalAmount = round2(total)
	return nil
}

func (s *OrderService) loadBillSnapshot(ctx context.Context, billID string) (*model.Bill, error) {
	return getBill(ctx, s.db, billID)
}

func (s *OrderService) broadcast(ctx context.Context, order *model.Order) {
	notify(ctx, s.pub, TopicKitchen, order)
	if order.CustomerID != nil {
		notify(ctx, s.pub, TopicCustomer(*order.CustomerID), order)
	}
}
