package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"farmstore/internal/models"
	"farmstore/internal/store"
	"farmstore/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// checkoutLockTTL bounds the per-session checkout critical section.
const checkoutLockTTL = 10 * time.Second

// OrderStore is the persistence the order engine needs.
type OrderStore interface {
	GetCartRows(ctx context.Context, sessionID string) ([]models.CartRow, error)
	CreateOrderWithItems(ctx context.Context, order *models.Order, items []models.OrderItem) error
	GetOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	GetOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error)
	ListOrdersBySession(ctx context.Context, sessionID string) ([]models.Order, error)
}

// Locker provides per-session mutual exclusion around checkout.
type Locker interface {
	AcquireLock(ctx context.Context, lockKey string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, lockKey string) error
}

// OrderService turns a session cart into an immutable order with
// snapshot pricing.
type OrderService struct {
	store       OrderStore
	locker      Locker
	events      EventPublisher
	deliveryFee int64
	logger      *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(store OrderStore, locker Locker, events EventPublisher, deliveryFee int64) *OrderService {
	return &OrderService{
		store:       store,
		locker:      locker,
		events:      events,
		deliveryFee: deliveryFee,
		logger:      util.GetLogger(),
	}
}

// CreateOrderRequest is a checkout submission.
type CreateOrderRequest struct {
	CustomerName    string `json:"customerName" binding:"required"`
	CustomerEmail   string `json:"customerEmail" binding:"required,email"`
	CustomerPhone   string `json:"customerPhone" binding:"required"`
	DeliveryMethod  string `json:"deliveryMethod" binding:"required,oneof=pickup delivery"`
	DeliveryAddress string `json:"deliveryAddress"`
	DeliveryCity    string `json:"deliveryCity"`
	DeliveryComment string `json:"deliveryComment"`
	PaymentMethod   string `json:"paymentMethod" binding:"required,oneof=cash card invoice online sbp"`
}

// CreateOrderResponse is returned to the checkout page, which uses the
// order number to redirect to the confirmation view.
type CreateOrderResponse struct {
	OrderNumber string `json:"orderNumber"`
	Total       int64  `json:"total"`
}

// Create snapshots the session's cart into an order. The cart is
// cleared in the same transaction that persists the order, and the
// whole read-snapshot-write sequence runs under a per-session lock so
// a concurrent cart mutation cannot lose or duplicate items.
func (s *OrderService) Create(ctx context.Context, sessionID string, req *CreateOrderRequest) (*CreateOrderResponse, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Create")
	defer span.End()

	if req.DeliveryMethod == models.DeliveryMethodCourier && strings.TrimSpace(req.DeliveryAddress) == "" {
		util.OrdersFailedTotal.WithLabelValues("validation").Inc()
		return nil, fmt.Errorf("%w: delivery address is required for courier delivery", ErrValidation)
	}

	lockKey := fmt.Sprintf("checkout:%s", sessionID)
	acquired, err := s.locker.AcquireLock(ctx, lockKey, checkoutLockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire checkout lock: %w", err)
	}
	if !acquired {
		return nil, ErrCheckoutBusy
	}
	defer func() {
		if err := s.locker.ReleaseLock(ctx, lockKey); err != nil {
			s.logger.Warn("Failed to release checkout lock", zap.String("session_id", sessionID), zap.Error(err))
		}
	}()

	rows, err := s.store.GetCartRows(ctx, sessionID)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(rows) == 0 {
		util.OrdersFailedTotal.WithLabelValues("empty_cart").Inc()
		return nil, ErrEmptyCart
	}

	items := make([]models.OrderItem, 0, len(rows))
	var subtotal int64
	for _, row := range rows {
		itemSubtotal := row.Price * int64(row.Quantity)
		items = append(items, models.OrderItem{
			ProductID:    row.ProductID,
			ProductTitle: row.Title,
			ProductSKU:   row.SKU,
			Unit:         row.Unit,
			Price:        row.Price,
			Quantity:     row.Quantity,
			Subtotal:     itemSubtotal,
		})
		subtotal += itemSubtotal
	}

	var deliveryFee int64
	if req.DeliveryMethod == models.DeliveryMethodCourier {
		deliveryFee = s.deliveryFee
	}

	order := &models.Order{
		OrderNumber:     generateOrderNumber(),
		SessionID:       sessionID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		DeliveryMethod:  req.DeliveryMethod,
		DeliveryAddress: req.DeliveryAddress,
		DeliveryCity:    req.DeliveryCity,
		DeliveryComment: req.DeliveryComment,
		PaymentMethod:   req.PaymentMethod,
		Subtotal:        subtotal,
		DeliveryFee:     deliveryFee,
		Total:           subtotal + deliveryFee,
		Status:          models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
	}

	err = s.store.CreateOrderWithItems(ctx, order, items)
	if errors.Is(err, store.ErrDuplicateOrderNumber) {
		order.OrderNumber = generateOrderNumber()
		err = s.store.CreateOrderWithItems(ctx, order, items)
	}
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.String("order_number", order.OrderNumber),
		zap.Int64("total", order.Total))

	event := &models.OrderCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderCreated,
			Timestamp: time.Now(),
		},
		Order: models.NewOrderSnapshot(order, items),
	}
	if err := s.events.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCreated event",
			zap.String("order_number", order.OrderNumber), zap.Error(err))
	}

	return &CreateOrderResponse{OrderNumber: order.OrderNumber, Total: order.Total}, nil
}

// GetByNumber returns an order with its item snapshots, or nil when
// the order number is unknown.
func (s *OrderService) GetByNumber(ctx context.Context, orderNumber string) (*models.Order, []models.OrderItem, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.GetByNumber")
	defer span.End()

	order, err := s.store.GetOrderByNumber(ctx, orderNumber)
	if err != nil || order == nil {
		return nil, nil, err
	}
	items, err := s.store.GetOrderItems(ctx, order.ID)
	if err != nil {
		return nil, nil, err
	}
	return order, items, nil
}

// ListBySession returns the orders placed by a session, newest first.
func (s *OrderService) ListBySession(ctx context.Context, sessionID string) ([]models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.ListBySession")
	defer span.End()

	return s.store.ListOrdersBySession(ctx, sessionID)
}

// generateOrderNumber allocates a human-readable order number:
// GZ-<yymmdd>-<5 hex>. Uniqueness is enforced by the database index;
// collisions are regenerated by the caller.
func generateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:5])
	return fmt.Sprintf("GZ-%s-%s", time.Now().Format("060102"), suffix)
}
