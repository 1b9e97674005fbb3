package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"farmstore/internal/models"

	"github.com/lib/pq"
)

// ErrDuplicateOrderNumber is returned when the generated order number
// collides with an existing one. Callers regenerate and retry.
var ErrDuplicateOrderNumber = errors.New("duplicate order number")

// CreateOrderWithItems persists an order with its item snapshots and
// clears the originating cart in a single transaction. Either all rows
// are written or none are.
func (s *Store) CreateOrderWithItems(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO orders (
			order_number, session_id, customer_name, customer_email, customer_phone,
			delivery_method, delivery_address, delivery_city, delivery_comment,
			payment_method, subtotal, delivery_fee, total, status, payment_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at`

	err = tx.QueryRowxContext(ctx, query,
		order.OrderNumber, order.SessionID, order.CustomerName, order.CustomerEmail, order.CustomerPhone,
		order.DeliveryMethod, order.DeliveryAddress, order.DeliveryCity, order.DeliveryComment,
		order.PaymentMethod, order.Subtotal, order.DeliveryFee, order.Total, order.Status, order.PaymentStatus,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateOrderNumber
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range items {
		items[i].OrderID = order.ID
		err = tx.QueryRowxContext(ctx, `
			INSERT INTO order_items (order_id, product_id, product_title, product_sku, unit, price, quantity, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`,
			items[i].OrderID, items[i].ProductID, items[i].ProductTitle, items[i].ProductSKU,
			items[i].Unit, items[i].Price, items[i].Quantity, items[i].Subtotal,
		).Scan(&items[i].ID)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM cart_items WHERE session_id = $1", order.SessionID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return tx.Commit()
}

// GetOrderByNumber retrieves an order by its order number. Absence is nil.
func (s *Store) GetOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order,
		"SELECT * FROM orders WHERE order_number = $1", orderNumber)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderByPaymentID retrieves an order by the provider's transaction id.
func (s *Store) GetOrderByPaymentID(ctx context.Context, paymentID string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order,
		"SELECT * FROM orders WHERE payment_id = $1", paymentID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderItems retrieves the item snapshots of an order.
func (s *Store) GetOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM order_items WHERE order_id = $1 ORDER BY id", orderID)
	return items, err
}

// ListOrdersBySession retrieves the orders placed by a session.
func (s *Store) ListOrdersBySession(ctx context.Context, sessionID string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE session_id = $1 ORDER BY created_at DESC", sessionID)
	return orders, err
}

// MarkOrderProcessing moves an order's payment state from pending to
// processing. Returns false without error when the order is missing or
// already past pending; the move is advisory bookkeeping only.
func (s *Store) MarkOrderProcessing(ctx context.Context, orderNumber, provider string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE orders SET payment_status = $2, payment_provider = $3, updated_at = NOW()
		WHERE order_number = $1 AND payment_status = $4`,
		orderNumber, models.PaymentStatusProcessing, provider, models.PaymentStatusPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// MarkOrderPaid transitions an order to paid. The WHERE clause excludes
// terminal states so the first terminal transition wins and duplicate
// provider callbacks become no-ops. Returns nil when no transition
// occurred.
func (s *Store) MarkOrderPaid(ctx context.Context, orderNumber, paymentID, provider string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, `
		UPDATE orders SET
			payment_status = $2,
			payment_id = $3,
			payment_provider = $4,
			paid_at = NOW(),
			status = CASE WHEN status = $5 THEN $6 ELSE status END,
			updated_at = NOW()
		WHERE order_number = $1 AND payment_status NOT IN ($2, $7)
		RETURNING *`,
		orderNumber, models.PaymentStatusPaid, paymentID, provider,
		models.OrderStatusPending, models.OrderStatusConfirmed, models.PaymentStatusFailed)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// MarkOrderFailed transitions an order to failed under the same
// compare-and-set guard as MarkOrderPaid.
func (s *Store) MarkOrderFailed(ctx context.Context, orderNumber, paymentID, provider string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, `
		UPDATE orders SET
			payment_status = $2,
			payment_id = CASE WHEN $3 <> '' THEN $3 ELSE payment_id END,
			payment_provider = $4,
			updated_at = NOW()
		WHERE order_number = $1 AND payment_status NOT IN ($2, $5)
		RETURNING *`,
		orderNumber, models.PaymentStatusFailed, paymentID, provider, models.PaymentStatusPaid)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdatePaymentMeta records provider metadata for a non-terminal order
// without changing its payment state.
func (s *Store) UpdatePaymentMeta(ctx context.Context, orderNumber, paymentID, provider string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE orders SET
			payment_id = CASE WHEN $2 <> '' THEN $2 ELSE payment_id END,
			payment_provider = $3,
			updated_at = NOW()
		WHERE order_number = $1 AND payment_status NOT IN ($4, $5)`,
		orderNumber, paymentID, provider, models.PaymentStatusPaid, models.PaymentStatusFailed)
	return err
}
