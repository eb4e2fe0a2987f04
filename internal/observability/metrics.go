package observability

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otlpmetrichttp "go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const resourceServiceNameKey = "service.name"

type Config struct {
	Enabled        bool
	ServiceName    string
	Endpoint       string
	ExportInterval time.Duration
}

// InitMeter installs a global meter provider. When export is disabled the
// provider still records, it just has no reader.
func InitMeter(ctx context.Context, cfg Config) (*sdkmetric.MeterProvider, error) {
	if !cfg.Enabled {
		mp := sdkmetric.NewMeterProvider()
		otel.SetMeterProvider(mp)
		return mp, nil
	}

	exporter, err := newHTTPMetricExporter(ctx, cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("observability: failed to create OTLP metric exporter: %w", err)
	}

	mp := NewMeterProvider(cfg, exporter)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// NewMeterProvider builds a provider that periodically pushes to exporter.
func NewMeterProvider(cfg Config, exporter sdkmetric.Exporter) *sdkmetric.MeterProvider {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "search-gateway"
	}
	res := resource.NewSchemaless(attribute.String(resourceServiceNameKey, name))

	var opts []sdkmetric.PeriodicReaderOption
	if cfg.ExportInterval > 0 {
		opts = append(opts, sdkmetric.WithInterval(cfg.ExportInterval))
	}

	return sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, opts...)),
	)
}

func newHTTPMetricExporter(ctx context.Context, endpoint string) (sdkmetric.Exporter, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("observability: OTLP endpoint is empty")
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		return nil, fmt.Errorf("observability: OTLP endpoint %q must start with http:// or https://", endpoint)
	}
	if !strings.HasSuffix(endpoint, "/v1/metrics") {
		endpoint = strings.TrimRight(endpoint, "/") + "/v1/metrics"
	}

	options := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpointURL(endpoint),
	}
	if strings.HasPrefix(endpoint, "http://") {
		options = append(options, otlpmetrichttp.WithInsecure())
	}

	return otlpmetrichttp.New(ctx, options...)
}
