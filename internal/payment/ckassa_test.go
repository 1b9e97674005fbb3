package payment

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCkassaParseCallback(t *testing.T) {
	c := &Ckassa{}

	body := `{"orderId":"GZ-260829-AB12C","paymentId":"ck-555","status":"success","amount":150000,"signature":"sig"}`
	req := httptest.NewRequest("POST", "/api/payment/ckassa/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	cb, err := c.ParseCallback(req)
	require.NoError(t, err)
	assert.Equal(t, "GZ-260829-AB12C", cb.OrderNumber)
	assert.Equal(t, "ck-555", cb.PaymentID)
	assert.Equal(t, int64(150000), cb.Amount)
	assert.Equal(t, OutcomePaid, cb.Outcome)
}

func TestCkassaOutcomeMapping(t *testing.T) {
	c := &Ckassa{}

	cases := map[string]Outcome{
		"success":   OutcomePaid,
		"paid":      OutcomePaid,
		"completed": OutcomePaid,
		"failed":    OutcomeFailed,
		"cancelled": OutcomeFailed,
		"error":     OutcomeFailed,
		"created":   OutcomePending,
	}
	for status, want := range cases {
		body := `{"orderId":"GZ-1","status":"` + status + `"}`
		req := httptest.NewRequest("POST", "/wh", strings.NewReader(body))

		cb, err := c.ParseCallback(req)
		require.NoError(t, err)
		assert.Equal(t, want, cb.Outcome, "status %q", status)
	}
}

func TestCkassaParseCallbackMalformed(t *testing.T) {
	c := &Ckassa{}

	for _, body := range []string{"not json", `{"status":"success"}`} {
		req := httptest.NewRequest("POST", "/wh", strings.NewReader(body))
		_, err := c.ParseCallback(req)
		assert.ErrorIs(t, err, ErrMalformedCallback, "body %q", body)
	}
}

func TestCkassaVerifyCallback(t *testing.T) {
	c := &Ckassa{SecretKey: "secret"}

	cb := &Callback{
		Signature: sha256Hex("GZ-1" + "ck-555" + "success" + "secret"),
		Raw:       map[string]string{"orderId": "GZ-1", "paymentId": "ck-555", "status": "success"},
	}
	assert.NoError(t, c.VerifyCallback(cb))

	cb.Signature = "bogus"
	assert.ErrorIs(t, c.VerifyCallback(cb), ErrBadSignature)
}

func TestCkassaAck(t *testing.T) {
	c := &Ckassa{}
	ack := c.Ack()
	assert.JSONEq(t, `{"success":true}`, ack.Body)
	assert.Contains(t, ack.ContentType, "application/json")
}
