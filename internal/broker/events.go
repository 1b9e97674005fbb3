package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"farmstore/internal/models"

	"github.com/segmentio/kafka-go"
)

// EventPublisher handles publishing storefront events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishOrderCreated publishes OrderCreated event
func (ep *EventPublisher) PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error {
	key := fmt.Sprintf("order-%s", event.Order.OrderNumber)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishPaymentPaid publishes PaymentPaid event
func (ep *EventPublisher) PublishPaymentPaid(ctx context.Context, event *models.PaymentPaidEvent) error {
	key := fmt.Sprintf("order-%s", event.Order.OrderNumber)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishPaymentFailed publishes PaymentFailed event
func (ep *EventPublisher) PublishPaymentFailed(ctx context.Context, event *models.PaymentFailedEvent) error {
	key := fmt.Sprintf("order-%s", event.OrderNumber)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishContactSubmitted publishes ContactSubmitted event
func (ep *EventPublisher) PublishContactSubmitted(ctx context.Context, event *models.ContactSubmittedEvent) error {
	key := fmt.Sprintf("contact-%s", event.Email)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler routes incoming events to registered callbacks
type EventHandler struct {
	onOrderCreated     func(context.Context, *models.OrderCreatedEvent) error
	onPaymentPaid      func(context.Context, *models.PaymentPaidEvent) error
	onPaymentFailed    func(context.Context, *models.PaymentFailedEvent) error
	onContactSubmitted func(context.Context, *models.ContactSubmittedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnOrderCreated registers a handler for OrderCreated events
func (eh *EventHandler) OnOrderCreated(handler func(context.Context, *models.OrderCreatedEvent) error) {
	eh.onOrderCreated = handler
}

// OnPaymentPaid registers a handler for PaymentPaid events
func (eh *EventHandler) OnPaymentPaid(handler func(context.Context, *models.PaymentPaidEvent) error) {
	eh.onPaymentPaid = handler
}

// OnPaymentFailed registers a handler for PaymentFailed events
func (eh *EventHandler) OnPaymentFailed(handler func(context.Context, *models.PaymentFailedEvent) error) {
	eh.onPaymentFailed = handler
}

// OnContactSubmitted registers a handler for ContactSubmitted events
func (eh *EventHandler) OnContactSubmitted(handler func(context.Context, *models.ContactSubmittedEvent) error) {
	eh.onContactSubmitted = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeOrderCreated:
		if eh.onOrderCreated != nil {
			var event models.OrderCreatedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OrderCreated event: %w", err)
			}
			return eh.onOrderCreated(ctx, &event)
		}

	case models.EventTypePaymentPaid:
		if eh.onPaymentPaid != nil {
			var event models.PaymentPaidEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal PaymentPaid event: %w", err)
			}
			return eh.onPaymentPaid(ctx, &event)
		}

	case models.EventTypePaymentFailed:
		if eh.onPaymentFailed != nil {
			var event models.PaymentFailedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal PaymentFailed event: %w", err)
			}
			return eh.onPaymentFailed(ctx, &event)
		}

	case models.EventTypeContactSubmitted:
		if eh.onContactSubmitted != nil {
			var event models.ContactSubmittedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ContactSubmitted event: %w", err)
			}
			return eh.onContactSubmitted(ctx, &event)
		}

	default:
		log.Printf("Unhandled event type: %s", baseEvent.EventType)
	}

	return nil
}
