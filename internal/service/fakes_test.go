package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"farmstore/internal/models"
	"farmstore/internal/store"
)

// fakeCatalogStore serves products from memory with the same filtering
// contract as the SQL store.
type fakeCatalogStore struct {
	products []models.Product
}

func (f *fakeCatalogStore) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			p := f.products[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalogStore) ListProducts(ctx context.Context, category string) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		if category == "" || p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalogStore) RandomProducts(ctx context.Context, limit int) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		if p.InStock() && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalogStore) SimilarProducts(ctx context.Context, productID int64, category string, limit int) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		if p.Category == category && p.InStock() && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalogStore) Categories(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, p := range f.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

// fakeCache is an in-memory CatalogCache with real JSON round-trips.
type fakeCache struct {
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (f *fakeCache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := f.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (f *fakeCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = raw
	return nil
}

// fakeCartStore keeps a single session's cart with upsert semantics
// matching the SQL ON CONFLICT clause.
type fakeCartStore struct {
	products map[int64]models.Product
	items    map[int64]int
}

func newFakeCartStore(products ...models.Product) *fakeCartStore {
	f := &fakeCartStore{products: map[int64]models.Product{}, items: map[int64]int{}}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeCartStore) GetCartRows(ctx context.Context, sessionID string) ([]models.CartRow, error) {
	ids := make([]int64, 0, len(f.items))
	for id := range f.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var rows []models.CartRow
	for _, id := range ids {
		p := f.products[id]
		rows = append(rows, models.CartRow{
			ProductID: id,
			Quantity:  f.items[id],
			Title:     p.Title,
			SKU:       p.SKU,
			Price:     p.Price,
			Unit:      p.Unit,
			Stock:     p.Quantity,
		})
	}
	return rows, nil
}

func (f *fakeCartStore) UpsertCartItem(ctx context.Context, sessionID string, productID int64, qty int) error {
	f.items[productID] += qty
	return nil
}

func (f *fakeCartStore) SetCartItemQuantity(ctx context.Context, sessionID string, productID int64, qty int) error {
	f.items[productID] = qty
	return nil
}

func (f *fakeCartStore) RemoveCartItem(ctx context.Context, sessionID string, productID int64) error {
	delete(f.items, productID)
	return nil
}

func (f *fakeCartStore) ClearCart(ctx context.Context, sessionID string) error {
	f.items = map[int64]int{}
	return nil
}

func (f *fakeCartStore) CartCount(ctx context.Context, sessionID string) (int, error) {
	total := 0
	for _, qty := range f.items {
		total += qty
	}
	return total, nil
}

// fakeOrderStore persists orders in memory. CreateOrderWithItems clears
// the cart, mirroring the single-transaction contract of the SQL store.
type fakeOrderStore struct {
	cart         *fakeCartStore
	orders       []*models.Order
	itemsByOrder map[int64][]models.OrderItem
	createCalls  int
	duplicates   int
}

func newFakeOrderStore(cart *fakeCartStore) *fakeOrderStore {
	return &fakeOrderStore{cart: cart, itemsByOrder: map[int64][]models.OrderItem{}}
}

func (f *fakeOrderStore) GetCartRows(ctx context.Context, sessionID string) ([]models.CartRow, error) {
	return f.cart.GetCartRows(ctx, sessionID)
}

func (f *fakeOrderStore) CreateOrderWithItems(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	f.createCalls++
	if f.duplicates > 0 {
		f.duplicates--
		return store.ErrDuplicateOrderNumber
	}
	order.ID = int64(len(f.orders) + 1)
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	saved := *order
	f.orders = append(f.orders, &saved)
	f.itemsByOrder[order.ID] = items
	return f.cart.ClearCart(ctx, order.SessionID)
}

func (f *fakeOrderStore) GetOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	for _, o := range f.orders {
		if o.OrderNumber == orderNumber {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeOrderStore) GetOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	return f.itemsByOrder[orderID], nil
}

func (f *fakeOrderStore) ListOrdersBySession(ctx context.Context, sessionID string) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.SessionID == sessionID {
			out = append(out, *o)
		}
	}
	return out, nil
}

// fakeLocker grants every lock unless busy is set.
type fakeLocker struct {
	busy     bool
	acquired []string
	released []string
}

func (f *fakeLocker) AcquireLock(ctx context.Context, lockKey string, ttl time.Duration) (bool, error) {
	if f.busy {
		return false, nil
	}
	f.acquired = append(f.acquired, lockKey)
	return true, nil
}

func (f *fakeLocker) ReleaseLock(ctx context.Context, lockKey string) error {
	f.released = append(f.released, lockKey)
	return nil
}

// fakePublisher counts published events so tests can assert exactly how
// many side effects a call produced.
type fakePublisher struct {
	orderCreated     int
	paymentPaid      int
	paymentFailed    int
	contactSubmitted int
	lastPaid         *models.PaymentPaidEvent
	lastFailed       *models.PaymentFailedEvent
}

func (f *fakePublisher) PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error {
	f.orderCreated++
	return nil
}

func (f *fakePublisher) PublishPaymentPaid(ctx context.Context, event *models.PaymentPaidEvent) error {
	f.paymentPaid++
	f.lastPaid = event
	return nil
}

func (f *fakePublisher) PublishPaymentFailed(ctx context.Context, event *models.PaymentFailedEvent) error {
	f.paymentFailed++
	f.lastFailed = event
	return nil
}

func (f *fakePublisher) PublishContactSubmitted(ctx context.Context, event *models.ContactSubmittedEvent) error {
	f.contactSubmitted++
	return nil
}

// fakePaymentStore implements the compare-and-set transition contract:
// Mark* return nil when the order is already terminal.
type fakePaymentStore struct {
	order           *models.Order
	items           []models.OrderItem
	paidCalls       int
	failedCalls     int
	metaCalls       int
	processingCalls int
}

func (f *fakePaymentStore) GetOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	if f.order == nil || f.order.OrderNumber != orderNumber {
		return nil, nil
	}
	cp := *f.order
	return &cp, nil
}

func (f *fakePaymentStore) GetOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	return f.items, nil
}

func (f *fakePaymentStore) MarkOrderProcessing(ctx context.Context, orderNumber, provider string) (bool, error) {
	f.processingCalls++
	if f.order == nil || f.order.PaymentStatus != models.PaymentStatusPending {
		return false, nil
	}
	f.order.PaymentStatus = models.PaymentStatusProcessing
	f.order.PaymentProvider = provider
	return true, nil
}

func (f *fakePaymentStore) terminal() bool {
	return f.order.PaymentStatus == models.PaymentStatusPaid ||
		f.order.PaymentStatus == models.PaymentStatusFailed
}

func (f *fakePaymentStore) MarkOrderPaid(ctx context.Context, orderNumber, paymentID, provider string) (*models.Order, error) {
	f.paidCalls++
	if f.order == nil || f.order.OrderNumber != orderNumber || f.terminal() {
		return nil, nil
	}
	now := time.Now()
	f.order.PaymentStatus = models.PaymentStatusPaid
	f.order.PaymentID = paymentID
	f.order.PaymentProvider = provider
	f.order.PaidAt = &now
	if f.order.Status == models.OrderStatusPending {
		f.order.Status = models.OrderStatusConfirmed
	}
	cp := *f.order
	return &cp, nil
}

func (f *fakePaymentStore) MarkOrderFailed(ctx context.Context, orderNumber, paymentID, provider string) (*models.Order, error) {
	f.failedCalls++
	if f.order == nil || f.order.OrderNumber != orderNumber || f.terminal() {
		return nil, nil
	}
	f.order.PaymentStatus = models.PaymentStatusFailed
	if paymentID != "" {
		f.order.PaymentID = paymentID
	}
	f.order.PaymentProvider = provider
	cp := *f.order
	return &cp, nil
}

func (f *fakePaymentStore) UpdatePaymentMeta(ctx context.Context, orderNumber, paymentID, provider string) error {
	f.metaCalls++
	if f.order != nil && !f.terminal() {
		f.order.PaymentID = paymentID
		f.order.PaymentProvider = provider
	}
	return nil
}

// fakeContactStore records submissions.
type fakeContactStore struct {
	saved []*models.ContactRequest
}

func (f *fakeContactStore) CreateContactRequest(ctx context.Context, req *models.ContactRequest) error {
	req.ID = int64(len(f.saved) + 1)
	req.CreatedAt = time.Now()
	f.saved = append(f.saved, req)
	return nil
}
