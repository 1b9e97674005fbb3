package store

import (
	"context"

	"farmstore/internal/models"
)

// GetCartRows retrieves cart items for a session joined with live
// product data. The inner join silently drops items whose product has
// been removed from the catalog.
func (s *Store) GetCartRows(ctx context.Context, sessionID string) ([]models.CartRow, error) {
	var rows []models.CartRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT c.product_id, c.quantity, p.title, p.sku, p.price, p.image_url, p.unit,
		       p.quantity AS stock
		FROM cart_items c
		JOIN products p ON p.id = c.product_id
		WHERE c.session_id = $1
		ORDER BY c.created_at`, sessionID)
	return rows, err
}

// UpsertCartItem adds qty to an existing (session, product) row or
// inserts a new one. The increment happens in SQL so concurrent adds
// never lose an update.
func (s *Store) UpsertCartItem(ctx context.Context, sessionID string, productID int64, qty int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cart_items (session_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()`,
		sessionID, productID, qty)
	return err
}

// SetCartItemQuantity sets the absolute quantity for a cart row.
func (s *Store) SetCartItemQuantity(ctx context.Context, sessionID string, productID int64, qty int) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE cart_items SET quantity = $3, updated_at = NOW()
		WHERE session_id = $1 AND product_id = $2`,
		sessionID, productID, qty)
	return err
}

// RemoveCartItem deletes a cart row.
func (s *Store) RemoveCartItem(ctx context.Context, sessionID string, productID int64) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM cart_items WHERE session_id = $1 AND product_id = $2",
		sessionID, productID)
	return err
}

// ClearCart deletes all cart rows for a session.
func (s *Store) ClearCart(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM cart_items WHERE session_id = $1", sessionID)
	return err
}

// CartCount returns the sum of quantities across the session's cart,
// not the number of distinct rows.
func (s *Store) CartCount(ctx context.Context, sessionID string) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COALESCE(SUM(quantity), 0) FROM cart_items WHERE session_id = $1", sessionID)
	return count, err
}
