package models

import "time"

// Product represents a catalog product. Prices are integer kopecks.
type Product struct {
	ID          int64     `db:"id" json:"id"`
	SKU         string    `db:"sku" json:"sku"`
	Category    string    `db:"category" json:"category"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	ImageURL    string    `db:"image_url" json:"imageUrl"`
	Price       int64     `db:"price" json:"price"`
	Quantity    int       `db:"quantity" json:"quantity"`
	Unit        string    `db:"unit" json:"unit"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// InStock reports whether the product can be added to a cart.
func (p *Product) InStock() bool {
	return p.Quantity > 0
}

// CartItem is one (session, product) row of a cart.
type CartItem struct {
	ID        int64     `db:"id" json:"id"`
	SessionID string    `db:"session_id" json:"sessionId"`
	ProductID int64     `db:"product_id" json:"productId"`
	Quantity  int       `db:"quantity" json:"quantity"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// CartRow is a cart item joined with live product data for display.
type CartRow struct {
	ProductID int64  `db:"product_id" json:"productId"`
	Quantity  int    `db:"quantity" json:"quantity"`
	Title     string `db:"title" json:"title"`
	SKU       string `db:"sku" json:"sku"`
	Price     int64  `db:"price" json:"price"`
	ImageURL  string `db:"image_url" json:"imageUrl"`
	Unit      string `db:"unit" json:"unit"`
	Stock     int    `db:"stock" json:"stock"`
}

// Order represents a customer order. Item data is snapshotted into
// OrderItem rows at creation and never re-read from the catalog.
type Order struct {
	ID              int64      `db:"id" json:"id"`
	OrderNumber     string     `db:"order_number" json:"orderNumber"`
	SessionID       string     `db:"session_id" json:"-"`
	CustomerName    string     `db:"customer_name" json:"customerName"`
	CustomerEmail   string     `db:"customer_email" json:"customerEmail"`
	CustomerPhone   string     `db:"customer_phone" json:"customerPhone"`
	DeliveryMethod  string     `db:"delivery_method" json:"deliveryMethod"`
	DeliveryAddress string     `db:"delivery_address" json:"deliveryAddress,omitempty"`
	DeliveryCity    string     `db:"delivery_city" json:"deliveryCity,omitempty"`
	DeliveryComment string     `db:"delivery_comment" json:"deliveryComment,omitempty"`
	PaymentMethod   string     `db:"payment_method" json:"paymentMethod"`
	Subtotal        int64      `db:"subtotal" json:"subtotal"`
	DeliveryFee     int64      `db:"delivery_fee" json:"deliveryFee"`
	Total           int64      `db:"total" json:"total"`
	Status          string     `db:"status" json:"status"`
	PaymentStatus   string     `db:"payment_status" json:"paymentStatus"`
	PaymentProvider string     `db:"payment_provider" json:"paymentProvider,omitempty"`
	PaymentID       string     `db:"payment_id" json:"paymentId,omitempty"`
	PaidAt          *time.Time `db:"paid_at" json:"paidAt,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updatedAt"`
}

// OrderItem is an immutable snapshot of a product at purchase time.
type OrderItem struct {
	ID           int64  `db:"id" json:"id"`
	OrderID      int64  `db:"order_id" json:"orderId"`
	ProductID    int64  `db:"product_id" json:"productId"`
	ProductTitle string `db:"product_title" json:"productTitle"`
	ProductSKU   string `db:"product_sku" json:"productSku"`
	Unit         string `db:"unit" json:"unit"`
	Price        int64  `db:"price" json:"price"`
	Quantity     int    `db:"quantity" json:"quantity"`
	Subtotal     int64  `db:"subtotal" json:"subtotal"`
}

// ContactRequest is a contact form submission.
type ContactRequest struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Source    string    `db:"source" json:"source"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Order fulfillment statuses
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Payment statuses. Paid and failed are terminal.
const (
	PaymentStatusPending    = "pending"
	PaymentStatusProcessing = "processing"
	PaymentStatusPaid       = "paid"
	PaymentStatusFailed     = "failed"
)

// Delivery methods
const (
	DeliveryMethodPickup  = "pickup"
	DeliveryMethodCourier = "delivery"
)

// Payment methods
const (
	PaymentMethodCash    = "cash"
	PaymentMethodCard    = "card"
	PaymentMethodInvoice = "invoice"
	PaymentMethodOnline  = "online"
	PaymentMethodSBP     = "sbp"
)

// Catalog sort orders
const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortName      = "name"
)
