package payment

import (
	"crypto/subtle"
	"fmt"
	"math"
	"net/http"
	"strconv"
)

// Paymaster integrates with the Paymaster notification protocol.
// Paymaster only delivers callbacks for completed payments and expects
// the literal body "YES" in response; anything else triggers re-delivery.
type Paymaster struct {
	MerchantID string
	SecretKey  string
}

func (p *Paymaster) Name() string { return "paymaster" }

// ParseCallback reads the LMI_* form fields. The order number comes from
// the custom ORDER_ID field, falling back to LMI_PAYMENT_NO.
func (p *Paymaster) ParseCallback(r *http.Request) (*Callback, error) {
	if err := r.ParseForm(); err != nil {
		return nil, ErrMalformedCallback
	}

	orderNumber := r.PostFormValue("ORDER_ID")
	if orderNumber == "" {
		orderNumber = r.PostFormValue("LMI_PAYMENT_NO")
	}
	if orderNumber == "" {
		return nil, ErrMalformedCallback
	}

	amountStr := r.PostFormValue("LMI_PAID_AMOUNT")
	if amountStr == "" {
		amountStr = r.PostFormValue("LMI_PAYMENT_AMOUNT")
	}
	var amount int64
	if f, err := strconv.ParseFloat(amountStr, 64); err == nil {
		amount = int64(math.Round(f * 100))
	}

	return &Callback{
		OrderNumber: orderNumber,
		PaymentID:   r.PostFormValue("LMI_SYS_PAYMENT_ID"),
		Amount:      amount,
		Outcome:     OutcomePaid,
		Signature:   r.PostFormValue("LMI_HASH"),
		Raw: map[string]string{
			"LMI_MERCHANT_ID":    r.PostFormValue("LMI_MERCHANT_ID"),
			"LMI_PAYMENT_NO":     r.PostFormValue("LMI_PAYMENT_NO"),
			"LMI_SYS_PAYMENT_ID": r.PostFormValue("LMI_SYS_PAYMENT_ID"),
			"LMI_PAYMENT_AMOUNT": r.PostFormValue("LMI_PAYMENT_AMOUNT"),
		},
	}, nil
}

// VerifyCallback checks LMI_HASH against
// sha256(merchant_id;payment_no;sys_payment_id;amount;secret).
func (p *Paymaster) VerifyCallback(cb *Callback) error {
	if p.SecretKey == "" {
		return nil
	}
	data := fmt.Sprintf("%s;%s;%s;%s;%s",
		cb.Raw["LMI_MERCHANT_ID"],
		cb.Raw["LMI_PAYMENT_NO"],
		cb.Raw["LMI_SYS_PAYMENT_ID"],
		cb.Raw["LMI_PAYMENT_AMOUNT"],
		p.SecretKey)
	if subtle.ConstantTimeCompare([]byte(sha256Hex(data)), []byte(cb.Signature)) != 1 {
		return ErrBadSignature
	}
	return nil
}

func (p *Paymaster) Ack() Acknowledgment {
	return Acknowledgment{ContentType: "text/plain; charset=utf-8", Body: "YES"}
}
