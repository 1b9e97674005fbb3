package mailer

import (
	"fmt"
	"strings"

	"farmstore/internal/models"
)

// FormatPrice renders kopecks as rubles, e.g. 150000 -> "1500,00 ₽".
func FormatPrice(kopecks int64) string {
	return fmt.Sprintf("%d,%02d ₽", kopecks/100, kopecks%100)
}

// DeliveryMethodText returns the Russian label for a delivery method.
func DeliveryMethodText(method string) string {
	if method == models.DeliveryMethodPickup {
		return "Самовывоз"
	}
	return "Доставка курьером"
}

// PaymentMethodText returns the Russian label for a payment method.
func PaymentMethodText(method string) string {
	switch method {
	case models.PaymentMethodCash:
		return "Наличными при получении"
	case models.PaymentMethodCard:
		return "Картой при получении"
	case models.PaymentMethodInvoice:
		return "Безналичный расчёт"
	case models.PaymentMethodOnline:
		return "Онлайн-оплата"
	case models.PaymentMethodSBP:
		return "Система быстрых платежей (СБП)"
	default:
		return method
	}
}

// UnitText returns the display unit; the catalog stores KGM for
// kilograms.
func UnitText(unit string) string {
	if unit == "" || unit == "KGM" {
		return "кг"
	}
	return unit
}

func buildItemsRows(items []models.OrderItemSnapshot) string {
	var b strings.Builder
	for _, it := range items {
		fmt.Fprintf(&b, `<tr>
<td style="padding: 8px 10px; border-bottom: 1px solid #e5e7eb;">%s</td>
<td style="padding: 8px 10px; border-bottom: 1px solid #e5e7eb; text-align: center;">%d %s</td>
<td style="padding: 8px 10px; border-bottom: 1px solid #e5e7eb; text-align: right;">%s</td>
<td style="padding: 8px 10px; border-bottom: 1px solid #e5e7eb; text-align: right; font-weight: 600;">%s</td>
</tr>`,
			it.ProductTitle, it.Quantity, UnitText(it.Unit), FormatPrice(it.Price), FormatPrice(it.Subtotal))
	}
	return b.String()
}

func deliveryFeeText(fee int64) string {
	if fee > 0 {
		return FormatPrice(fee)
	}
	return "Бесплатно"
}

func buildDeliveryBlock(data models.OrderSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<tr><td style="padding: 4px 0; color: #6b7280;">Способ доставки:</td><td style="padding: 4px 0; text-align: right;">%s</td></tr>`,
		DeliveryMethodText(data.DeliveryMethod))
	if data.DeliveryAddress != "" {
		addr := data.DeliveryAddress
		if data.DeliveryCity != "" {
			addr += ", " + data.DeliveryCity
		}
		fmt.Fprintf(&b, `<tr><td style="padding: 4px 0; color: #6b7280;">Адрес:</td><td style="padding: 4px 0; text-align: right;">%s</td></tr>`, addr)
	}
	if data.DeliveryComment != "" {
		fmt.Fprintf(&b, `<tr><td style="padding: 4px 0; color: #6b7280;">Комментарий:</td><td style="padding: 4px 0; text-align: right;">%s</td></tr>`, data.DeliveryComment)
	}
	fmt.Fprintf(&b, `<tr><td style="padding: 4px 0; color: #6b7280;">Способ оплаты:</td><td style="padding: 4px 0; text-align: right;">%s</td></tr>`,
		PaymentMethodText(data.PaymentMethod))
	return b.String()
}

func buildCustomerEmailHTML(data models.OrderSnapshot) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="ru">
<head><meta charset="UTF-8"></head>
<body style="margin: 0; padding: 0; background-color: #f3f4f6; font-family: Arial, sans-serif;">
<table width="600" cellpadding="0" cellspacing="0" align="center" style="background-color: #ffffff; border-radius: 12px; overflow: hidden;">
<tr><td style="background-color: #1a5632; padding: 28px 32px; text-align: center;">
<h1 style="margin: 0; color: #ffffff; font-size: 22px;">Гатчинские закрома</h1>
<p style="margin: 8px 0 0; color: #a7d5b8; font-size: 14px;">Натуральная продукция от производителей</p>
</td></tr>
<tr><td style="padding: 32px;">
<h2 style="margin: 0 0 8px; color: #1a5632;">Спасибо за заказ!</h2>
<p style="margin: 0 0 24px; color: #6b7280;">Ваш заказ <strong style="color: #1a5632;">%s</strong> успешно оформлен. Наш менеджер свяжется с вами для подтверждения.</p>
<table width="100%%" cellpadding="0" cellspacing="0" style="font-size: 14px; margin-bottom: 24px;">%s</table>
<table width="100%%" cellpadding="0" cellspacing="0" style="border: 1px solid #e5e7eb; margin-bottom: 24px;">
<thead><tr style="background-color: #1a5632; color: #ffffff;">
<th style="padding: 10px 12px; text-align: left;">Товар</th>
<th style="padding: 10px 12px; text-align: center;">Кол-во</th>
<th style="padding: 10px 12px; text-align: right;">Цена</th>
<th style="padding: 10px 12px; text-align: right;">Сумма</th>
</tr></thead>
<tbody>%s</tbody>
</table>
<table width="100%%" cellpadding="0" cellspacing="0" style="font-size: 14px;">
<tr><td style="color: #6b7280;">Подитог:</td><td style="text-align: right;">%s</td></tr>
<tr><td style="color: #6b7280;">Доставка:</td><td style="text-align: right;">%s</td></tr>
<tr><td style="font-size: 18px; color: #1a5632; font-weight: 700;">Итого:</td><td style="font-size: 18px; color: #1a5632; font-weight: 700; text-align: right;">%s</td></tr>
</table>
<p style="margin: 24px 0 0; color: #6b7280; font-size: 13px;">Если у вас есть вопросы по заказу, свяжитесь с нами по телефону или напишите на <a href="mailto:info@gzakroma.ru" style="color: #1a5632;">info@gzakroma.ru</a></p>
</td></tr>
</table>
</body>
</html>`,
		data.OrderNumber,
		buildDeliveryBlock(data),
		buildItemsRows(data.Items),
		FormatPrice(data.Subtotal),
		deliveryFeeText(data.DeliveryFee),
		FormatPrice(data.Total))
}

func buildManagerEmailHTML(data models.OrderSnapshot) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="ru">
<head><meta charset="UTF-8"></head>
<body style="margin: 0; padding: 0; background-color: #f3f4f6; font-family: Arial, sans-serif;">
<table width="600" cellpadding="0" cellspacing="0" align="center" style="background-color: #ffffff; border-radius: 12px; overflow: hidden;">
<tr><td style="background-color: #dc2626; padding: 20px 32px;">
<h1 style="margin: 0; color: #ffffff; font-size: 18px;">🛒 Новый заказ %s</h1>
</td></tr>
<tr><td style="padding: 24px 32px;">
<div style="background-color: #fef3c7; border-radius: 8px; padding: 16px; margin-bottom: 20px;">
<h3 style="margin: 0 0 8px; color: #92400e; font-size: 14px;">👤 Данные клиента</h3>
<p style="margin: 0; font-size: 13px;">Имя: %s<br>Телефон: <a href="tel:%s">%s</a><br>Email: <a href="mailto:%s">%s</a></p>
</div>
<table width="100%%" cellpadding="0" cellspacing="0" style="font-size: 13px; margin-bottom: 20px;">%s</table>
<table width="100%%" cellpadding="0" cellspacing="0" style="border: 1px solid #e5e7eb; margin-bottom: 20px;">
<thead><tr style="background-color: #374151; color: #ffffff;">
<th style="padding: 8px 10px; text-align: left;">Товар</th>
<th style="padding: 8px 10px; text-align: center;">Кол-во</th>
<th style="padding: 8px 10px; text-align: right;">Цена</th>
<th style="padding: 8px 10px; text-align: right;">Сумма</th>
</tr></thead>
<tbody>%s</tbody>
</table>
<table width="100%%" cellpadding="0" cellspacing="0" style="font-size: 13px;">
<tr><td>Подитог:</td><td style="text-align: right;">%s</td></tr>
<tr><td>Доставка:</td><td style="text-align: right;">%s</td></tr>
<tr><td style="font-size: 18px; color: #16a34a; font-weight: 700;">ИТОГО:</td><td style="font-size: 18px; color: #16a34a; font-weight: 700; text-align: right;">%s</td></tr>
</table>
</td></tr>
</table>
</body>
</html>`,
		data.OrderNumber,
		data.CustomerName,
		data.CustomerPhone, data.CustomerPhone,
		data.CustomerEmail, data.CustomerEmail,
		buildDeliveryBlock(data),
		buildItemsRows(data.Items),
		FormatPrice(data.Subtotal),
		deliveryFeeText(data.DeliveryFee),
		FormatPrice(data.Total))
}
