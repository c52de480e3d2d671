package bootstrap

import (
	"context"

	"beat-fulfillment/internal/infra/objectstore"
	"beat-fulfillment/internal/pkg/clock"
	"beat-fulfillment/internal/pkg/config"
	"beat-fulfillment/internal/usecase/shared"

	"go.uber.org/fx"
)

var StorageModule = fx.Module("storage",
	fx.Provide(
		NewObjectStore,
	),
)

func NewObjectStore(lc fx.Lifecycle, cfg config.Config, clk clock.Clock) (shared.ObjectStore, error) {
	store, cleanup, err := objectstore.New(context.Background(), cfg.Storage, clk)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			cleanup()
			return nil
		},
	})

	return store, nil
}
