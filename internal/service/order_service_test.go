package service

import (
	"context"
	"regexp"
	"testing"

	"farmstore/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkoutFixture(t *testing.T) (*OrderService, *fakeCartStore, *fakeOrderStore, *fakeLocker, *fakePublisher) {
	t.Helper()
	cart := newFakeCartStore(
		models.Product{ID: 1, Title: "Молоко", SKU: "MLK-1", Price: 10000, Quantity: 10},
		models.Product{ID: 2, Title: "Мёд", SKU: "HNY-1", Price: 5000, Quantity: 4},
	)
	orders := newFakeOrderStore(cart)
	locker := &fakeLocker{}
	events := &fakePublisher{}
	svc := NewOrderService(orders, locker, events, 30000)
	return svc, cart, orders, locker, events
}

func pickupRequest() *CreateOrderRequest {
	return &CreateOrderRequest{
		CustomerName:   "Иван Петров",
		CustomerEmail:  "ivan@example.com",
		CustomerPhone:  "+79211234567",
		DeliveryMethod: models.DeliveryMethodPickup,
		PaymentMethod:  models.PaymentMethodCash,
	}
}

func TestCreateOrderPickup(t *testing.T) {
	svc, cart, orders, _, events := checkoutFixture(t)
	ctx := context.Background()

	require.NoError(t, cart.UpsertCartItem(ctx, testSession, 1, 2))
	require.NoError(t, cart.UpsertCartItem(ctx, testSession, 2, 1))

	resp, err := svc.Create(ctx, testSession, pickupRequest())
	require.NoError(t, err)

	// 2 x 10000 + 1 x 5000, pickup has no delivery fee.
	assert.Equal(t, int64(25000), resp.Total)

	order, err := orders.GetOrderByNumber(ctx, resp.OrderNumber)
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, int64(25000), order.Subtotal)
	assert.Zero(t, order.DeliveryFee)
	assert.Equal(t, order.Subtotal+order.DeliveryFee, order.Total)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)

	items, err := orders.GetOrderItems(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	var itemsTotal int64
	for _, it := range items {
		assert.Equal(t, it.Price*int64(it.Quantity), it.Subtotal)
		itemsTotal += it.Subtotal
	}
	assert.Equal(t, order.Subtotal, itemsTotal)

	rows, err := cart.GetCartRows(ctx, testSession)
	require.NoError(t, err)
	assert.Empty(t, rows, "cart is cleared with the order")

	assert.Equal(t, 1, events.orderCreated)
}

func TestCreateOrderCourierAddsDeliveryFee(t *testing.T) {
	svc, cart, orders, _, _ := checkoutFixture(t)
	ctx := context.Background()

	require.NoError(t, cart.UpsertCartItem(ctx, testSession, 1, 1))

	req := pickupRequest()
	req.DeliveryMethod = models.DeliveryMethodCourier
	req.DeliveryAddress = "ул. Советская, д. 1"
	req.DeliveryCity = "Гатчина"

	resp, err := svc.Create(ctx, testSession, req)
	require.NoError(t, err)
	assert.Equal(t, int64(10000+30000), resp.Total)

	order, err := orders.GetOrderByNumber(ctx, resp.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, int64(30000), order.DeliveryFee)
	assert.Equal(t, order.Subtotal+order.DeliveryFee, order.Total)
}

func TestCreateOrderCourierRequiresAddress(t *testing.T) {
	svc, cart, _, _, events := checkoutFixture(t)
	ctx := context.Background()

	require.NoError(t, cart.UpsertCartItem(ctx, testSession, 1, 1))

	req := pickupRequest()
	req.DeliveryMethod = models.DeliveryMethodCourier
	req.DeliveryAddress = "   "

	_, err := svc.Create(ctx, testSession, req)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, events.orderCreated)

	rows, err := cart.GetCartRows(ctx, testSession)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "rejected checkout leaves the cart alone")
}

func TestCreateOrderEmptyCart(t *testing.T) {
	svc, _, orders, _, events := checkoutFixture(t)

	_, err := svc.Create(context.Background(), testSession, pickupRequest())
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, orders.orders)
	assert.Zero(t, events.orderCreated)
}

func TestCreateOrderCheckoutBusy(t *testing.T) {
	svc, cart, _, locker, _ := checkoutFixture(t)
	ctx := context.Background()

	require.NoError(t, cart.UpsertCartItem(ctx, testSession, 1, 1))
	locker.busy = true

	_, err := svc.Create(ctx, testSession, pickupRequest())
	assert.ErrorIs(t, err, ErrCheckoutBusy)
}

func TestCreateOrderReleasesLock(t *testing.T) {
	svc, cart, _, locker, _ := checkoutFixture(t)
	ctx := context.Background()

	require.NoError(t, cart.UpsertCartItem(ctx, testSession, 1, 1))

	_, err := svc.Create(ctx, testSession, pickupRequest())
	require.NoError(t, err)

	require.Len(t, locker.acquired, 1)
	assert.Equal(t, locker.acquired, locker.released)
	assert.Equal(t, "checkout:"+testSession, locker.acquired[0])
}

func TestCreateOrderRetriesDuplicateNumber(t *testing.T) {
	svc, cart, orders, _, _ := checkoutFixture(t)
	ctx := context.Background()

	require.NoError(t, cart.UpsertCartItem(ctx, testSession, 1, 1))
	orders.duplicates = 1

	resp, err := svc.Create(ctx, testSession, pickupRequest())
	require.NoError(t, err)
	assert.Equal(t, 2, orders.createCalls)
	assert.NotEmpty(t, resp.OrderNumber)
}

func TestGenerateOrderNumberFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^GZ-\d{6}-[0-9A-F]{5}$`)
	for i := 0; i < 20; i++ {
		n := generateOrderNumber()
		assert.Regexp(t, pattern, n)
	}
}

func TestGetByNumberUnknown(t *testing.T) {
	svc, _, _, _, _ := checkoutFixture(t)

	order, items, err := svc.GetByNumber(context.Background(), "GZ-000000-XXXXX")
	require.NoError(t, err)
	assert.Nil(t, order)
	assert.Nil(t, items)
}

func TestListBySession(t *testing.T) {
	svc, cart, _, _, _ := checkoutFixture(t)
	ctx := context.Background()

	require.NoError(t, cart.UpsertCartItem(ctx, testSession, 1, 1))
	_, err := svc.Create(ctx, testSession, pickupRequest())
	require.NoError(t, err)

	mine, err := svc.ListBySession(ctx, testSession)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	other, err := svc.ListBySession(ctx, "sess_other")
	require.NoError(t, err)
	assert.Empty(t, other)
}
