package payment

import (
	"context"
	"errors"

	"beat-fulfillment/internal/domain/purchase"
	"beat-fulfillment/internal/pkg/errs"
	"beat-fulfillment/internal/usecase/shared"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

var errMissingIntent = errs.New("checkout session requires a purchase intent")

// StripeProvider creates and reads Checkout Sessions. The API client is
// shared for the life of the process.
type StripeProvider struct {
	api *client.API
}

func NewStripeProvider(api *client.API) *StripeProvider {
	return &StripeProvider{api: api}
}

func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, input shared.CheckoutSessionInput) (string, error) {
	intent := input.Intent
	if intent == nil {
		return "", errMissingIntent
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(input.SuccessURL),
		CancelURL:          stripe.String(input.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(input.Currency),
					UnitAmount: stripe.Int64(intent.PriceMinorUnits()),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(intent.ProductName()),
						Description: stripe.String(intent.ProductDescription()),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx
	for k, v := range intent.Metadata().ToMap() {
		params.AddMetadata(k, v)
	}

	session, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return "", errs.Wrap(err, "stripe create checkout session failed")
	}
	return session.ID, nil
}

func (p *StripeProvider) FetchSession(ctx context.Context, sessionID string) (*purchase.PaymentSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	session, err := p.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		if isResourceMissing(err) {
			return nil, errs.MarkWrap(err, shared.ErrProviderSessionNotFound, "stripe checkout session not found")
		}
		return nil, errs.Wrap(err, "stripe retrieve checkout session failed")
	}

	return &purchase.PaymentSession{
		ID:       session.ID,
		Status:   purchase.PaymentStatus(session.PaymentStatus),
		Metadata: session.Metadata,
	}, nil
}

func isResourceMissing(err error) bool {
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		return false
	}
	return stripeErr.Code == stripe.ErrorCodeResourceMissing
}
