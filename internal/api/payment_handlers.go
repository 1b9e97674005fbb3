package api

import (
	"fmt"
	"net/http"

	"farmstore/internal/payment"
	"farmstore/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// webhook builds the callback handler for a payment provider. The
// provider is acknowledged with its mandated body whenever the payload
// resolves to an order; anything else makes the provider re-deliver.
func (h *Handler) webhook(p payment.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		cb, err := p.ParseCallback(c.Request)
		if err != nil {
			util.WebhookCallbacksTotal.WithLabelValues(p.Name(), "malformed").Inc()
			h.logger.Warn("Malformed payment callback",
				zap.String("provider", p.Name()), zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing order number"})
			return
		}

		if err := p.VerifyCallback(cb); err != nil {
			// Logged and counted but not rejected: providers have shipped
			// unsigned callbacks in production and a dropped callback
			// strands a paid order.
			util.WebhookSignatureFailures.WithLabelValues(p.Name()).Inc()
			h.logger.Warn("Payment callback signature mismatch",
				zap.String("provider", p.Name()),
				zap.String("order_number", cb.OrderNumber))
		}

		if err := h.payments.Finish(c.Request.Context(), p.Name(), cb); err != nil {
			util.WebhookCallbacksTotal.WithLabelValues(p.Name(), "error").Inc()
			h.logger.Error("Failed to process payment callback",
				zap.String("provider", p.Name()),
				zap.String("order_number", cb.OrderNumber),
				zap.Error(err))
		} else {
			util.WebhookCallbacksTotal.WithLabelValues(p.Name(), "ok").Inc()
		}

		ack := p.Ack()
		c.Data(http.StatusOK, ack.ContentType, []byte(ack.Body))
	}
}

// paymoForm returns the signed field set for the Paymo checkout page.
func (h *Handler) paymoForm(c *gin.Context) {
	orderNumber := c.Query("orderNumber")
	if orderNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing order number"})
		return
	}

	order, err := h.payments.Start(c.Request.Context(), orderNumber, "paymo")
	if err != nil {
		h.logger.Error("Failed to start payment",
			zap.String("order_number", orderNumber), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start payment"})
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	fields := h.paymo.BuildFormData(payment.FormParams{
		OrderNumber:   order.OrderNumber,
		AmountKopecks: order.Total,
		Description:   fmt.Sprintf("Оплата заказа %s", order.OrderNumber),
		CustomerEmail: order.CustomerEmail,
		CustomerPhone: order.CustomerPhone,
		SuccessURL:    h.baseURL + "/order-success?order=" + order.OrderNumber,
		FailURL:       h.baseURL + "/order-failed?order=" + order.OrderNumber,
	})

	c.JSON(http.StatusOK, gin.H{
		"checkoutUrl": h.paymo.CheckoutURL,
		"fields":      fields,
	})
}

// paymentStatus reports payment state for polling clients on the
// success/failure pages.
func (h *Handler) paymentStatus(c *gin.Context) {
	orderNumber := c.Param("orderNumber")

	status, err := h.payments.GetStatus(c.Request.Context(), orderNumber)
	if err != nil {
		h.logger.Error("Failed to load payment status",
			zap.String("order_number", orderNumber), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payment status"})
		return
	}
	if status == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, status)
}
