package mailer

import (
	"testing"

	"farmstore/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "1500,00 ₽", FormatPrice(150000))
	assert.Equal(t, "0,50 ₽", FormatPrice(50))
	assert.Equal(t, "123,05 ₽", FormatPrice(12305))
	assert.Equal(t, "0,00 ₽", FormatPrice(0))
}

func TestDeliveryMethodText(t *testing.T) {
	assert.Equal(t, "Самовывоз", DeliveryMethodText(models.DeliveryMethodPickup))
	assert.Equal(t, "Доставка курьером", DeliveryMethodText(models.DeliveryMethodCourier))
}

func TestPaymentMethodText(t *testing.T) {
	assert.Equal(t, "Наличными при получении", PaymentMethodText(models.PaymentMethodCash))
	assert.Equal(t, "Онлайн-оплата", PaymentMethodText(models.PaymentMethodOnline))
	assert.Equal(t, "custom", PaymentMethodText("custom"))
}

func TestUnitText(t *testing.T) {
	assert.Equal(t, "кг", UnitText(""))
	assert.Equal(t, "кг", UnitText("KGM"))
	assert.Equal(t, "л", UnitText("л"))
}

func snapshotFixture() models.OrderSnapshot {
	return models.OrderSnapshot{
		OrderNumber:     "GZ-260829-AB12C",
		CustomerName:    "Иван Петров",
		CustomerEmail:   "ivan@example.com",
		CustomerPhone:   "+79211234567",
		DeliveryMethod:  models.DeliveryMethodCourier,
		DeliveryAddress: "ул. Советская, д. 1",
		DeliveryCity:    "Гатчина",
		PaymentMethod:   models.PaymentMethodCash,
		Items: []models.OrderItemSnapshot{
			{ProductTitle: "Молоко", Unit: "л", Price: 9000, Quantity: 2, Subtotal: 18000},
			{ProductTitle: "Мёд", Price: 50000, Quantity: 1, Subtotal: 50000},
		},
		Subtotal:    68000,
		DeliveryFee: 30000,
		Total:       98000,
	}
}

func TestCustomerEmailHTML(t *testing.T) {
	html := buildCustomerEmailHTML(snapshotFixture())

	assert.Contains(t, html, "GZ-260829-AB12C")
	assert.Contains(t, html, "Спасибо за заказ!")
	assert.Contains(t, html, "Молоко")
	assert.Contains(t, html, "680,00 ₽")
	assert.Contains(t, html, "300,00 ₽")
	assert.Contains(t, html, "980,00 ₽")
	assert.Contains(t, html, "ул. Советская, д. 1, Гатчина")
}

func TestManagerEmailHTML(t *testing.T) {
	html := buildManagerEmailHTML(snapshotFixture())

	assert.Contains(t, html, "GZ-260829-AB12C")
	assert.Contains(t, html, "Иван Петров")
	assert.Contains(t, html, "+79211234567")
	assert.Contains(t, html, "ivan@example.com")
	assert.Contains(t, html, "980,00 ₽")
}

func TestDeliveryFeeTextFree(t *testing.T) {
	snap := snapshotFixture()
	snap.DeliveryMethod = models.DeliveryMethodPickup
	snap.DeliveryFee = 0

	html := buildCustomerEmailHTML(snap)
	assert.Contains(t, html, "Бесплатно")
	assert.Contains(t, html, "Самовывоз")
}
