package observability

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

type recordingExporter struct {
	mu          sync.Mutex
	exports     int
	serviceName string
	metricNames []string
}

func (e *recordingExporter) Temporality(k sdkmetric.InstrumentKind) metricdata.Temporality {
	return sdkmetric.DefaultTemporalitySelector(k)
}

func (e *recordingExporter) Aggregation(k sdkmetric.InstrumentKind) sdkmetric.Aggregation {
	return sdkmetric.DefaultAggregationSelector(k)
}

func (e *recordingExporter) Export(_ context.Context, rm *metricdata.ResourceMetrics) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.exports++
	if v, ok := rm.Resource.Set().Value(resourceServiceNameKey); ok {
		e.serviceName = v.AsString()
	}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			e.metricNames = append(e.metricNames, m.Name)
		}
	}
	return nil
}

func (e *recordingExporter) ForceFlush(context.Context) error { return nil }
func (e *recordingExporter) Shutdown(context.Context) error   { return nil }

func TestInitMeter_Disabled(t *testing.T) {
	mp, err := InitMeter(context.Background(), Config{})
	require.NoError(t, err)
	require.NotNil(t, mp)
	defer mp.Shutdown(context.Background())

	assert.Equal(t, mp, otel.GetMeterProvider())
}

func TestInitMeter_InvalidEndpoint(t *testing.T) {
	for _, endpoint := range []string{"", "collector:4318"} {
		_, err := InitMeter(context.Background(), Config{Enabled: true, Endpoint: endpoint})
		assert.Error(t, err, endpoint)
	}
}

func TestInitMeter_Enabled(t *testing.T) {
	mp, err := InitMeter(context.Background(), Config{
		Enabled:        true,
		Endpoint:       "http://127.0.0.1:4318",
		ExportInterval: time.Hour,
	})
	require.NoError(t, err)
	require.NotNil(t, mp)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = mp.Shutdown(ctx)
}

func TestNewMeterProvider_ExportsWithServiceName(t *testing.T) {
	exp := &recordingExporter{}
	mp := NewMeterProvider(Config{Enabled: true, ServiceName: "test-svc", ExportInterval: time.Hour}, exp)
	defer mp.Shutdown(context.Background())

	counter, err := mp.Meter("test").Int64Counter("test.counter")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	require.NoError(t, mp.ForceFlush(context.Background()))

	exp.mu.Lock()
	defer exp.mu.Unlock()
	assert.GreaterOrEqual(t, exp.exports, 1)
	assert.Equal(t, "test-svc", exp.serviceName)
	assert.Contains(t, exp.metricNames, "test.counter")
}
