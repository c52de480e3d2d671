package components

import (
	"beat-fulfillment/internal/infra/uow"

	"go.uber.org/fx"
)

// Repositories are created per transaction by the unit of work.
var RepositoryModule = fx.Module("repository",
	fx.Provide(
		uow.NewPostgresUoW,
	),
)
