package payment

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymasterParseCallback(t *testing.T) {
	p := &Paymaster{MerchantID: "m-1"}

	values := url.Values{
		"LMI_MERCHANT_ID":    {"m-1"},
		"LMI_PAYMENT_NO":     {"42"},
		"LMI_SYS_PAYMENT_ID": {"sys-777"},
		"LMI_PAYMENT_AMOUNT": {"1500.00"},
		"LMI_PAID_AMOUNT":    {"1500.00"},
		"ORDER_ID":           {"GZ-260829-AB12C"},
		"LMI_HASH":           {"somehash"},
	}
	req := httptest.NewRequest("POST", "/api/payment/paymaster/webhook", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	cb, err := p.ParseCallback(req)
	require.NoError(t, err)
	assert.Equal(t, "GZ-260829-AB12C", cb.OrderNumber)
	assert.Equal(t, "sys-777", cb.PaymentID)
	assert.Equal(t, int64(150000), cb.Amount, "amount in rubles converts to kopecks")
	assert.Equal(t, OutcomePaid, cb.Outcome, "paymaster only notifies on success")
	assert.Equal(t, "somehash", cb.Signature)
}

func TestPaymasterOrderNumberFallback(t *testing.T) {
	p := &Paymaster{}

	values := url.Values{
		"LMI_PAYMENT_NO":     {"GZ-260829-AB12C"},
		"LMI_PAYMENT_AMOUNT": {"100"},
	}
	req := httptest.NewRequest("POST", "/wh", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	cb, err := p.ParseCallback(req)
	require.NoError(t, err)
	assert.Equal(t, "GZ-260829-AB12C", cb.OrderNumber)
}

func TestPaymasterVerifyCallback(t *testing.T) {
	p := &Paymaster{MerchantID: "m-1", SecretKey: "secret"}

	raw := map[string]string{
		"LMI_MERCHANT_ID":    "m-1",
		"LMI_PAYMENT_NO":     "42",
		"LMI_SYS_PAYMENT_ID": "sys-777",
		"LMI_PAYMENT_AMOUNT": "1500.00",
	}
	cb := &Callback{
		Raw:       raw,
		Signature: sha256Hex("m-1;42;sys-777;1500.00;secret"),
	}
	assert.NoError(t, p.VerifyCallback(cb))

	cb.Signature = "tampered"
	assert.ErrorIs(t, p.VerifyCallback(cb), ErrBadSignature)
}

func TestPaymasterAck(t *testing.T) {
	p := &Paymaster{}
	ack := p.Ack()
	assert.Equal(t, "YES", ack.Body)
	assert.Contains(t, ack.ContentType, "text/plain")
}
