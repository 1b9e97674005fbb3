package service

import (
	"context"

	"farmstore/internal/models"
)

// EventPublisher publishes storefront events for the notification
// worker. Implemented by broker.EventPublisher; faked in tests.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error
	PublishPaymentPaid(ctx context.Context, event *models.PaymentPaidEvent) error
	PublishPaymentFailed(ctx context.Context, event *models.PaymentFailedEvent) error
	PublishContactSubmitted(ctx context.Context, event *models.ContactSubmittedEvent) error
}
