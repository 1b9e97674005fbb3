package worker

import (
	"context"
	"fmt"
	"log"

	"farmstore/internal/broker"
	"farmstore/internal/mailer"
	"farmstore/internal/models"
	"farmstore/internal/notify"
	"farmstore/internal/util"

	"go.uber.org/zap"
)

// OrderMailer sends the customer/manager order emails.
type OrderMailer interface {
	SendOrderEmails(data models.OrderSnapshot) (customer, manager bool)
}

// NotifyWorker consumes storefront events and fans them out to the
// owner notifier and the mailer. Every dispatch is best-effort: a
// failed email never causes the event to be redelivered, since the
// state transition that produced it has already committed.
type NotifyWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	notifier     notify.Notifier
	mailer       OrderMailer
	logger       *zap.Logger
}

// NewNotifyWorker creates a new notification worker
func NewNotifyWorker(consumer *broker.Consumer, notifier notify.Notifier, orderMailer OrderMailer) *NotifyWorker {
	w := &NotifyWorker{
		consumer: consumer,
		notifier: notifier,
		mailer:   orderMailer,
		logger:   util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderCreated(w.handleOrderCreated)
	eventHandler.OnPaymentPaid(w.handlePaymentPaid)
	eventHandler.OnPaymentFailed(w.handlePaymentFailed)
	eventHandler.OnContactSubmitted(w.handleContactSubmitted)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *NotifyWorker) Start(ctx context.Context) error {
	log.Println("Starting notify worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotifyWorker) Stop() error {
	log.Println("Stopping notify worker...")
	return w.consumer.Close()
}

func (w *NotifyWorker) handleOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error {
	order := event.Order

	alert := notify.Alert{
		Title: fmt.Sprintf("🛒 Новый заказ %s", order.OrderNumber),
		Content: fmt.Sprintf("Заказ %s оформлен.\n\nКлиент: %s\nТелефон: %s\nДоставка: %s\nОплата: %s\nСумма: %s",
			order.OrderNumber, order.CustomerName, order.CustomerPhone,
			mailer.DeliveryMethodText(order.DeliveryMethod),
			mailer.PaymentMethodText(order.PaymentMethod),
			mailer.FormatPrice(order.Total)),
	}
	if err := w.notifier.NotifyOwner(ctx, alert); err != nil {
		w.logger.Error("Failed to notify owner about new order",
			zap.String("order_number", order.OrderNumber), zap.Error(err))
	}

	customer, manager := w.mailer.SendOrderEmails(order)
	w.logger.Info("Order emails dispatched",
		zap.String("order_number", order.OrderNumber),
		zap.Bool("customer", customer),
		zap.Bool("manager", manager))

	return nil
}

func (w *NotifyWorker) handlePaymentPaid(ctx context.Context, event *models.PaymentPaidEvent) error {
	order := event.Order

	alert := notify.Alert{
		Title: fmt.Sprintf("💳 Оплата получена: %s", order.OrderNumber),
		Content: fmt.Sprintf("Заказ %s оплачен через %s.\n\nСумма: %s\nКлиент: %s\nТелефон: %s",
			order.OrderNumber, event.Provider,
			mailer.FormatPrice(order.Total),
			order.CustomerName, order.CustomerPhone),
	}
	if err := w.notifier.NotifyOwner(ctx, alert); err != nil {
		w.logger.Error("Failed to notify owner about payment",
			zap.String("order_number", order.OrderNumber), zap.Error(err))
	}

	customer, manager := w.mailer.SendOrderEmails(order)
	w.logger.Info("Payment emails dispatched",
		zap.String("order_number", order.OrderNumber),
		zap.Bool("customer", customer),
		zap.Bool("manager", manager))

	return nil
}

func (w *NotifyWorker) handlePaymentFailed(ctx context.Context, event *models.PaymentFailedEvent) error {
	alert := notify.Alert{
		Title: fmt.Sprintf("⚠️ Оплата не прошла: %s", event.OrderNumber),
		Content: fmt.Sprintf("Оплата заказа %s не прошла (%s).\n\nКлиент: %s\nТелефон: %s\nСумма: %s",
			event.OrderNumber, event.Provider,
			event.CustomerName, event.CustomerPhone,
			mailer.FormatPrice(event.Total)),
	}
	if err := w.notifier.NotifyOwner(ctx, alert); err != nil {
		w.logger.Error("Failed to notify owner about failed payment",
			zap.String("order_number", event.OrderNumber), zap.Error(err))
	}
	return nil
}

func (w *NotifyWorker) handleContactSubmitted(ctx context.Context, event *models.ContactSubmittedEvent) error {
	alert := notify.Alert{
		Title: fmt.Sprintf("Новая заявка с сайта (%s)", event.Source),
		Content: fmt.Sprintf("Имя: %s\nEmail: %s\nТелефон: %s\nИсточник: %s",
			event.Name, event.Email, event.Phone, event.Source),
	}
	if err := w.notifier.NotifyOwner(ctx, alert); err != nil {
		w.logger.Error("Failed to notify owner about contact request", zap.Error(err))
	}
	return nil
}
