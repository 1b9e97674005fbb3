package models

import "time"

// Event types
const (
	EventTypeOrderCreated     = "ORDER_CREATED"
	EventTypePaymentPaid      = "PAYMENT_PAID"
	EventTypePaymentFailed    = "PAYMENT_FAILED"
	EventTypeContactSubmitted = "CONTACT_SUBMITTED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderItemSnapshot is item data carried inside events, frozen at
// order-creation time.
type OrderItemSnapshot struct {
	ProductID    int64  `json:"product_id"`
	ProductTitle string `json:"product_title"`
	Unit         string `json:"unit"`
	Price        int64  `json:"price"`
	Quantity     int    `json:"quantity"`
	Subtotal     int64  `json:"subtotal"`
}

// OrderSnapshot carries everything the notification side needs so
// consumers never have to read the order back from the database.
type OrderSnapshot struct {
	OrderNumber     string              `json:"order_number"`
	CustomerName    string              `json:"customer_name"`
	CustomerEmail   string              `json:"customer_email"`
	CustomerPhone   string              `json:"customer_phone"`
	DeliveryMethod  string              `json:"delivery_method"`
	DeliveryAddress string              `json:"delivery_address,omitempty"`
	DeliveryCity    string              `json:"delivery_city,omitempty"`
	DeliveryComment string              `json:"delivery_comment,omitempty"`
	PaymentMethod   string              `json:"payment_method"`
	Items           []OrderItemSnapshot `json:"items"`
	Subtotal        int64               `json:"subtotal"`
	DeliveryFee     int64               `json:"delivery_fee"`
	Total           int64               `json:"total"`
}

// NewOrderSnapshot builds an event snapshot from an order and its items.
func NewOrderSnapshot(order *Order, items []OrderItem) OrderSnapshot {
	snap := OrderSnapshot{
		OrderNumber:     order.OrderNumber,
		CustomerName:    order.CustomerName,
		CustomerEmail:   order.CustomerEmail,
		CustomerPhone:   order.CustomerPhone,
		DeliveryMethod:  order.DeliveryMethod,
		DeliveryAddress: order.DeliveryAddress,
		DeliveryCity:    order.DeliveryCity,
		DeliveryComment: order.DeliveryComment,
		PaymentMethod:   order.PaymentMethod,
		Subtotal:        order.Subtotal,
		DeliveryFee:     order.DeliveryFee,
		Total:           order.Total,
	}
	for _, it := range items {
		snap.Items = append(snap.Items, OrderItemSnapshot{
			ProductID:    it.ProductID,
			ProductTitle: it.ProductTitle,
			Unit:         it.Unit,
			Price:        it.Price,
			Quantity:     it.Quantity,
			Subtotal:     it.Subtotal,
		})
	}
	return snap
}

// OrderCreatedEvent published when checkout persists an order
type OrderCreatedEvent struct {
	BaseEvent
	Order OrderSnapshot `json:"order"`
}

// PaymentPaidEvent published when an order transitions to paid
type PaymentPaidEvent struct {
	BaseEvent
	Order     OrderSnapshot `json:"order"`
	PaymentID string        `json:"payment_id"`
	Provider  string        `json:"provider"`
}

// PaymentFailedEvent published when an order transitions to failed
type PaymentFailedEvent struct {
	BaseEvent
	OrderNumber   string `json:"order_number"`
	PaymentID     string `json:"payment_id,omitempty"`
	Provider      string `json:"provider"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	Total         int64  `json:"total"`
}

// ContactSubmittedEvent published when the contact form is saved
type ContactSubmittedEvent struct {
	BaseEvent
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Source string `json:"source"`
}
