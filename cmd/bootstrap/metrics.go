package bootstrap

import (
	"beat-fulfillment/internal/pkg/metrics"
	"beat-fulfillment/internal/usecase/shared"

	"go.uber.org/fx"
)

var MetricsModule = fx.Module("metrics",
	fx.Provide(
		metrics.New,
		func(m *metrics.Metrics) shared.OutcomeRecorder {
			return m
		},
	),
)
