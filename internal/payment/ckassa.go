package payment

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
)

// Ckassa integrates with the Ckassa callback protocol. Callbacks are
// JSON and the expected acknowledgment is a JSON envelope.
type Ckassa struct {
	SecretKey string
}

func (c *Ckassa) Name() string { return "ckassa" }

type ckassaCallback struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
	Signature string `json:"signature"`
}

// ParseCallback decodes the JSON notification body.
func (c *Ckassa) ParseCallback(r *http.Request) (*Callback, error) {
	var body ckassaCallback
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, ErrMalformedCallback
	}
	if body.OrderID == "" {
		return nil, ErrMalformedCallback
	}

	var outcome Outcome
	switch body.Status {
	case "success", "paid", "completed":
		outcome = OutcomePaid
	case "failed", "cancelled", "error":
		outcome = OutcomeFailed
	default:
		outcome = OutcomePending
	}

	return &Callback{
		OrderNumber: body.OrderID,
		PaymentID:   body.PaymentID,
		Amount:      body.Amount,
		Outcome:     outcome,
		Signature:   body.Signature,
		Raw: map[string]string{
			"orderId":   body.OrderID,
			"paymentId": body.PaymentID,
			"status":    body.Status,
		},
	}, nil
}

// VerifyCallback checks sha256(orderId + paymentId + status + secret).
func (c *Ckassa) VerifyCallback(cb *Callback) error {
	if c.SecretKey == "" {
		return nil
	}
	expected := sha256Hex(cb.Raw["orderId"] + cb.Raw["paymentId"] + cb.Raw["status"] + c.SecretKey)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(cb.Signature)) != 1 {
		return ErrBadSignature
	}
	return nil
}

func (c *Ckassa) Ack() Acknowledgment {
	return Acknowledgment{ContentType: "application/json; charset=utf-8", Body: `{"success":true}`}
}
