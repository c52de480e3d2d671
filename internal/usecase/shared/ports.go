package shared

import (
	"context"
	"time"

	"beat-fulfillment/internal/domain/purchase"
	"beat-fulfillment/internal/pkg/errs"
)

// ErrProviderSessionNotFound is returned by PaymentProvider when the handle is unknown upstream.
var ErrProviderSessionNotFound = errs.New("payment session not found")

type CheckoutSessionInput struct {
	Intent     *purchase.PurchaseIntent
	Currency   string
	SuccessURL string
	CancelURL  string
}

// PaymentProvider is the source of truth for payment state. Sessions are
// always re-read by handle; a client's claim of payment is never trusted.
type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, input CheckoutSessionInput) (string, error)
	FetchSession(ctx context.Context, sessionID string) (*purchase.PaymentSession, error)
}

// ObjectStore holds deliverables and issues read-only URLs scoped to a single object.
type ObjectStore interface {
	Exists(ctx context.Context, path string) (bool, error)
	SignedReadURL(ctx context.Context, path string, expiresAt time.Time) (string, error)
}

type OutcomeRecorder interface {
	CheckoutOutcome(outcome string)
	FulfillmentOutcome(outcome string, license purchase.LicenseType)
}
