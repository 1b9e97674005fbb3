// Package payment contains the payment-provider adapters. Each provider
// has its own callback field names, signature scheme, and mandated
// acknowledgment body; everything behind the Provider interface is
// identical across providers.
package payment

import (
	"errors"
	"net/http"
)

// Outcome is the provider-agnostic result of a callback.
type Outcome string

const (
	OutcomePaid    Outcome = "paid"
	OutcomeFailed  Outcome = "failed"
	OutcomePending Outcome = "pending"
)

// ErrMalformedCallback is returned when a callback payload is missing
// the fields needed to resolve an order.
var ErrMalformedCallback = errors.New("malformed provider callback")

// ErrBadSignature is returned when a supplied signature does not match
// the recomputed digest.
var ErrBadSignature = errors.New("callback signature mismatch")

// Callback is a provider callback normalized to common fields. Raw
// holds provider-specific fields needed for signature verification.
type Callback struct {
	OrderNumber string
	PaymentID   string
	Amount      int64 // kopecks, 0 when the provider omits it
	Outcome     Outcome
	Signature   string
	Raw         map[string]string
}

// Acknowledgment is the exact response body a provider expects. The
// shape is part of the external protocol: answering with the wrong
// body makes the provider re-deliver the callback indefinitely.
type Acknowledgment struct {
	ContentType string
	Body        string
}

// Provider unifies the three payment integrations.
type Provider interface {
	Name() string
	ParseCallback(r *http.Request) (*Callback, error)
	// VerifyCallback recomputes the payload digest. A nil error means
	// verified or verification not possible (no secret configured).
	VerifyCallback(cb *Callback) error
	Ack() Acknowledgment
}
