package gateway

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "search-gateway/gateway"

type searchMetrics struct {
	searches metric.Int64Counter
	latency  metric.Float64Histogram
}

// newSearchMetrics registers instruments on the global meter provider, so
// observability.InitMeter must run first for them to be exported.
func newSearchMetrics() (*searchMetrics, error) {
	meter := otel.Meter(meterName)

	searches, err := meter.Int64Counter(
		"gateway.searches",
		metric.WithDescription("Search requests by outcome"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	latency, err := meter.Float64Histogram(
		"gateway.upstream.duration",
		metric.WithDescription("Time spent waiting on the YouTube search API"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &searchMetrics{searches: searches, latency: latency}, nil
}

func (m *searchMetrics) recordOutcome(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.searches.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (m *searchMetrics) recordUpstream(ctx context.Context, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.latency.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attribute.String("outcome", outcome)))
}
