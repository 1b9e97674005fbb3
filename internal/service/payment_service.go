package service

import (
	"context"
	"fmt"
	"time"

	"farmstore/internal/models"
	"farmstore/internal/payment"
	"farmstore/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentStore is the order persistence the reconciliation engine
// needs. The Mark* methods are compare-and-set updates: they return
// nil when no transition occurred.
type PaymentStore interface {
	GetOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	GetOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error)
	MarkOrderProcessing(ctx context.Context, orderNumber, provider string) (bool, error)
	MarkOrderPaid(ctx context.Context, orderNumber, paymentID, provider string) (*models.Order, error)
	MarkOrderFailed(ctx context.Context, orderNumber, paymentID, provider string) (*models.Order, error)
	UpdatePaymentMeta(ctx context.Context, orderNumber, paymentID, provider string) error
}

// PaymentService reconciles asynchronous provider callbacks with order
// payment state. Payment state moves pending -> processing ->
// {paid, failed}; paid and failed are terminal and the first terminal
// transition wins, so duplicated or out-of-order callbacks are safe.
type PaymentService struct {
	store  PaymentStore
	events EventPublisher
	logger *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(store PaymentStore, events EventPublisher) *PaymentService {
	return &PaymentService{
		store:  store,
		events: events,
		logger: util.GetLogger(),
	}
}

// Start records that a customer is being redirected to a provider.
// The move is advisory bookkeeping: a missing order or a failed update
// is logged but never blocks the payment UI. Returns the order when it
// exists so callers can build the provider form.
func (s *PaymentService) Start(ctx context.Context, orderNumber, provider string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "PaymentService.Start")
	defer span.End()

	order, err := s.store.GetOrderByNumber(ctx, orderNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		s.logger.Warn("Payment start for unknown order", zap.String("order_number", orderNumber))
		return nil, nil
	}

	moved, err := s.store.MarkOrderProcessing(ctx, orderNumber, provider)
	if err != nil {
		s.logger.Error("Failed to mark order processing",
			zap.String("order_number", orderNumber), zap.Error(err))
	} else if moved {
		s.logger.Info("Payment started",
			zap.String("order_number", orderNumber),
			zap.String("provider", provider))
	}

	return order, nil
}

// Finish applies an authoritative provider callback. Duplicate
// deliveries of the same outcome are no-ops; a terminal callback that
// conflicts with an already-terminal state is ignored and logged as an
// anomaly. The caller acknowledges the provider in every case.
func (s *PaymentService) Finish(ctx context.Context, provider string, cb *payment.Callback) error {
	ctx, span := util.StartSpan(ctx, "PaymentService.Finish")
	defer span.End()

	order, err := s.store.GetOrderByNumber(ctx, cb.OrderNumber)
	if err != nil {
		return fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		s.logger.Error("Callback for unknown order",
			zap.String("provider", provider),
			zap.String("order_number", cb.OrderNumber))
		return nil
	}

	switch cb.Outcome {
	case payment.OutcomePaid:
		return s.finishPaid(ctx, provider, cb)
	case payment.OutcomeFailed:
		return s.finishFailed(ctx, provider, cb, order)
	default:
		// Awaiting external action: record metadata, no transition.
		if err := s.store.UpdatePaymentMeta(ctx, cb.OrderNumber, cb.PaymentID, provider); err != nil {
			return fmt.Errorf("failed to update payment metadata: %w", err)
		}
		return nil
	}
}

func (s *PaymentService) finishPaid(ctx context.Context, provider string, cb *payment.Callback) error {
	updated, err := s.store.MarkOrderPaid(ctx, cb.OrderNumber, cb.PaymentID, provider)
	if err != nil {
		return fmt.Errorf("failed to mark order paid: %w", err)
	}
	if updated == nil {
		s.logger.Info("Duplicate paid callback ignored",
			zap.String("provider", provider),
			zap.String("order_number", cb.OrderNumber))
		return nil
	}

	util.PaymentsPaidTotal.WithLabelValues(provider).Inc()
	s.logger.Info("Order paid",
		zap.String("order_number", cb.OrderNumber),
		zap.String("provider", provider),
		zap.String("payment_id", cb.PaymentID),
		zap.Int64("total", updated.Total))

	items, err := s.store.GetOrderItems(ctx, updated.ID)
	if err != nil {
		s.logger.Error("Failed to load order items for notification",
			zap.String("order_number", cb.OrderNumber), zap.Error(err))
	}

	event := &models.PaymentPaidEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypePaymentPaid,
			Timestamp: time.Now(),
		},
		Order:     models.NewOrderSnapshot(updated, items),
		PaymentID: cb.PaymentID,
		Provider:  provider,
	}
	if err := s.events.PublishPaymentPaid(ctx, event); err != nil {
		s.logger.Error("Failed to publish PaymentPaid event",
			zap.String("order_number", cb.OrderNumber), zap.Error(err))
	}
	return nil
}

func (s *PaymentService) finishFailed(ctx context.Context, provider string, cb *payment.Callback, order *models.Order) error {
	updated, err := s.store.MarkOrderFailed(ctx, cb.OrderNumber, cb.PaymentID, provider)
	if err != nil {
		return fmt.Errorf("failed to mark order failed: %w", err)
	}
	if updated == nil {
		if order.PaymentStatus == models.PaymentStatusPaid {
			s.logger.Warn("Conflicting failed callback for paid order ignored",
				zap.String("provider", provider),
				zap.String("order_number", cb.OrderNumber))
		} else {
			s.logger.Info("Duplicate failed callback ignored",
				zap.String("provider", provider),
				zap.String("order_number", cb.OrderNumber))
		}
		return nil
	}

	util.PaymentsFailedTotal.WithLabelValues(provider).Inc()
	s.logger.Warn("Order payment failed",
		zap.String("order_number", cb.OrderNumber),
		zap.String("provider", provider))

	event := &models.PaymentFailedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypePaymentFailed,
			Timestamp: time.Now(),
		},
		OrderNumber:   cb.OrderNumber,
		PaymentID:     cb.PaymentID,
		Provider:      provider,
		CustomerName:  updated.CustomerName,
		CustomerPhone: updated.CustomerPhone,
		Total:         updated.Total,
	}
	if err := s.events.PublishPaymentFailed(ctx, event); err != nil {
		s.logger.Error("Failed to publish PaymentFailed event",
			zap.String("order_number", cb.OrderNumber), zap.Error(err))
	}
	return nil
}

// Status exposes payment state for polling clients.
type PaymentStatus struct {
	OrderNumber   string `json:"orderNumber"`
	PaymentStatus string `json:"paymentStatus"`
	PaymentMethod string `json:"paymentMethod"`
	Total         int64  `json:"total"`
	Status        string `json:"status"`
}

// GetStatus returns the payment status of an order, or nil when the
// order number is unknown.
func (s *PaymentService) GetStatus(ctx context.Context, orderNumber string) (*PaymentStatus, error) {
	ctx, span := util.StartSpan(ctx, "PaymentService.GetStatus")
	defer span.End()

	order, err := s.store.GetOrderByNumber(ctx, orderNumber)
	if err != nil || order == nil {
		return nil, err
	}
	return &PaymentStatus{
		OrderNumber:   order.OrderNumber,
		PaymentStatus: order.PaymentStatus,
		PaymentMethod: order.PaymentMethod,
		Total:         order.Total,
		Status:        order.Status,
	}, nil
}
