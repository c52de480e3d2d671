package bootstrap

import (
	"beat-fulfillment/internal/infra/payment"
	"beat-fulfillment/internal/pkg/config"
	"beat-fulfillment/internal/usecase/shared"

	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/fx"
)

var PaymentModule = fx.Module("payment",
	fx.Provide(
		NewStripeClient,
		fx.Annotate(
			payment.NewStripeProvider,
			fx.As(new(shared.PaymentProvider)),
		),
	),
)

// NewStripeClient is built once and shared by every request.
func NewStripeClient(cfg config.Config) *client.API {
	return client.New(cfg.Stripe.SecretKey, nil)
}
