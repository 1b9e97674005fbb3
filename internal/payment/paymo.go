package payment

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"regexp"
	"strconv"
)

// Paymo integrates with the Paymo UNIFORM checkout page.
//
// Outbound form signature: sha256(api_key + tx_id + amount + secret_key).
// Callback signature:      sha256(tx_id + amount + secret_key).
// Amounts are kopecks rendered as a decimal string.
type Paymo struct {
	APIKey      string
	SecretKey   string
	CheckoutURL string
}

var nonPhoneChars = regexp.MustCompile(`[^0-9+]`)

func (p *Paymo) Name() string { return "paymo" }

// Sign computes the signature for an outbound payment form.
func (p *Paymo) Sign(txID string, amountKopecks int64) string {
	return sha256Hex(p.APIKey + txID + strconv.FormatInt(amountKopecks, 10) + p.SecretKey)
}

// FormParams describes a payment redirect to the Paymo checkout page.
type FormParams struct {
	OrderNumber   string
	AmountKopecks int64
	Description   string
	CustomerEmail string
	CustomerPhone string
	SuccessURL    string
	FailURL       string
}

// BuildFormData builds the signed field set for the UNIFORM page.
func (p *Paymo) BuildFormData(params FormParams) map[string]string {
	txID := params.OrderNumber
	form := map[string]string{
		"api_key":           p.APIKey,
		"tx_id":             txID,
		"amount":            strconv.FormatInt(params.AmountKopecks, 10),
		"description":       params.Description,
		"signature":         p.Sign(txID, params.AmountKopecks),
		"success_redirect":  params.SuccessURL,
		"fail_redirect":     params.FailURL,
		"auto_return":       "3",
		"extra_orderNumber": params.OrderNumber,
	}
	if params.CustomerEmail != "" {
		form["email"] = params.CustomerEmail
	}
	if params.CustomerPhone != "" {
		form["phone"] = nonPhoneChars.ReplaceAllString(params.CustomerPhone, "")
	}
	return form
}

// ParseCallback reads the form-encoded callback Paymo posts after a
// payment attempt.
func (p *Paymo) ParseCallback(r *http.Request) (*Callback, error) {
	if err := r.ParseForm(); err != nil {
		return nil, ErrMalformedCallback
	}

	txID := r.PostFormValue("tx_id")
	orderNumber := r.PostFormValue("extra_orderNumber")
	if orderNumber == "" {
		orderNumber = txID
	}
	if orderNumber == "" {
		return nil, ErrMalformedCallback
	}

	amountStr := r.PostFormValue("amount")
	amount, _ := strconv.ParseInt(amountStr, 10, 64)

	var outcome Outcome
	switch r.PostFormValue("status") {
	case "success", "paid", "3":
		outcome = OutcomePaid
	case "fail", "failed", "cancelled":
		outcome = OutcomeFailed
	default:
		outcome = OutcomePending
	}

	return &Callback{
		OrderNumber: orderNumber,
		PaymentID:   txID,
		Amount:      amount,
		Outcome:     outcome,
		Signature:   r.PostFormValue("signature"),
		Raw: map[string]string{
			"tx_id":  txID,
			"amount": amountStr,
		},
	}, nil
}

// VerifyCallback checks sha256(tx_id + amount + secret_key). When no
// secret is configured verification is skipped.
func (p *Paymo) VerifyCallback(cb *Callback) error {
	if p.SecretKey == "" {
		return nil
	}
	expected := sha256Hex(cb.Raw["tx_id"] + cb.Raw["amount"] + p.SecretKey)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(cb.Signature)) != 1 {
		return ErrBadSignature
	}
	return nil
}

func (p *Paymo) Ack() Acknowledgment {
	return Acknowledgment{ContentType: "text/plain; charset=utf-8", Body: "OK"}
}

func sha256Hex(data string) string {
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}
