package monitor

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/fluxwars/engine/internal/monitor"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}
