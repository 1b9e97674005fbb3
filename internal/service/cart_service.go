package service

import (
	"context"
	"fmt"

	"farmstore/internal/models"
	"farmstore/internal/util"

	"go.uber.org/zap"
)

// CartStore is the cart persistence the cart service needs.
type CartStore interface {
	GetCartRows(ctx context.Context, sessionID string) ([]models.CartRow, error)
	UpsertCartItem(ctx context.Context, sessionID string, productID int64, qty int) error
	SetCartItemQuantity(ctx context.Context, sessionID string, productID int64, qty int) error
	RemoveCartItem(ctx context.Context, sessionID string, productID int64) error
	ClearCart(ctx context.Context, sessionID string) error
	CartCount(ctx context.Context, sessionID string) (int, error)
}

// CartService manages anonymous session carts. Quantities are never
// persisted below 1; stock is not validated here, only at checkout.
type CartService struct {
	store  CartStore
	logger *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(store CartStore) *CartService {
	return &CartService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// Get returns the session's cart joined with live product data.
func (s *CartService) Get(ctx context.Context, sessionID string) ([]models.CartRow, error) {
	ctx, span := util.StartSpan(ctx, "CartService.Get")
	defer span.End()

	rows, err := s.store.GetCartRows(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return rows, nil
}

// Add upserts an item: existing rows get their quantity incremented.
func (s *CartService) Add(ctx context.Context, sessionID string, productID int64, qty int) error {
	ctx, span := util.StartSpan(ctx, "CartService.Add")
	defer span.End()

	if qty < 1 {
		qty = 1
	}
	if err := s.store.UpsertCartItem(ctx, sessionID, productID, qty); err != nil {
		return fmt.Errorf("failed to add to cart: %w", err)
	}
	util.CartMutationsTotal.WithLabelValues("add").Inc()
	return nil
}

// Update sets an absolute quantity. Anything below 1 removes the row,
// which is the contract a decrement-to-zero in the UI relies on.
func (s *CartService) Update(ctx context.Context, sessionID string, productID int64, qty int) error {
	ctx, span := util.StartSpan(ctx, "CartService.Update")
	defer span.End()

	if qty < 1 {
		return s.Remove(ctx, sessionID, productID)
	}
	if err := s.store.SetCartItemQuantity(ctx, sessionID, productID, qty); err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	util.CartMutationsTotal.WithLabelValues("update").Inc()
	return nil
}

// Remove deletes an item from the cart.
func (s *CartService) Remove(ctx context.Context, sessionID string, productID int64) error {
	ctx, span := util.StartSpan(ctx, "CartService.Remove")
	defer span.End()

	if err := s.store.RemoveCartItem(ctx, sessionID, productID); err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	util.CartMutationsTotal.WithLabelValues("remove").Inc()
	return nil
}

// Clear empties the session's cart.
func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	ctx, span := util.StartSpan(ctx, "CartService.Clear")
	defer span.End()

	if err := s.store.ClearCart(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	util.CartMutationsTotal.WithLabelValues("clear").Inc()
	return nil
}

// Count returns the sum of quantities across the cart, for the header
// badge. Consistent with Get by construction.
func (s *CartService) Count(ctx context.Context, sessionID string) (int, error) {
	ctx, span := util.StartSpan(ctx, "CartService.Count")
	defer span.End()

	count, err := s.store.CartCount(ctx, sessionID)
	if err != nil {
		return 0, fmt.Errorf("failed to count cart: %w", err)
	}
	return count, nil
}
