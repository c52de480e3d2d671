package components

import (
	"beat-fulfillment/internal/handler"
	"beat-fulfillment/internal/handler/api"
	"beat-fulfillment/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewCheckoutHandler,
		api.NewFulfillmentHandler,
		middleware.NewAuthMiddleware,
		func(checkout *api.CheckoutHandler, fulfillment *api.FulfillmentHandler) handler.Handlers {
			return handler.Handlers{Checkout: checkout, Fulfillment: fulfillment}
		},
	),
	fx.Invoke(handler.NewRouter),
)
