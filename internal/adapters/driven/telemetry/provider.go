package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

const (
	// ServiceName is reported as the service.name resource attribute.
	ServiceName = "sercha-search-provider"

	defaultExportInterval  = 30 * time.Second
	defaultShutdownTimeout = 5 * time.Second
	metricsPath            = "/v1/metrics"
)

// ShutdownFunc flushes and stops the meter provider.
type ShutdownFunc func(context.Context) error

// Config controls metric export.
type Config struct {
	// Endpoint is the OTLP/HTTP collector URL. Empty disables export.
	Endpoint string

	// Interval is the export period. Zero means 30 seconds.
	Interval time.Duration

	// Version is reported as service.version.
	Version string
}

// Init builds a meter provider, registers it globally and returns the
// provider's instruments. When no endpoint is configured the provider
// has no reader and recording is effectively free.
func Init(ctx context.Context, cfg Config) (*Metrics, ShutdownFunc, error) {
	var opts []sdkmetric.Option

	if strings.TrimSpace(cfg.Endpoint) != "" {
		exporter, err := newHTTPExporter(ctx, cfg.Endpoint)
		if err != nil {
			return nil, nil, err
		}

		interval := cfg.Interval
		if interval <= 0 {
			interval = defaultExportInterval
		}

		opts = append(opts,
			sdkmetric.WithResource(newResource(cfg.Version)),
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
		)
	}

	mp := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(mp)

	metrics, err := NewMetrics(mp.Meter(MeterName))
	if err != nil {
		_ = mp.Shutdown(ctx)
		return nil, nil, err
	}

	return metrics, newShutdownFunc(mp), nil
}

func newResource(version string) *resource.Resource {
	attrs := []attribute.KeyValue{attribute.String("service.name", ServiceName)}
	if version != "" {
		attrs = append(attrs, attribute.String("service.version", version))
	}
	return resource.NewSchemaless(attrs...)
}

func newHTTPExporter(ctx context.Context, endpoint string) (sdkmetric.Exporter, error) {
	normalized, err := normalizeEndpoint(endpoint)
	if err != nil {
		return nil, fmt.Errorf("telemetry: invalid OTLP HTTP endpoint: %w", err)
	}

	options := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpointURL(normalized),
	}
	if strings.HasPrefix(normalized, "http://") {
		options = append(options, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("telemetry: failed to create OTLP metric exporter: %w", err)
	}
	return exporter, nil
}

// normalizeEndpoint accepts a bare collector URL and appends the metrics
// path when none is given.
func normalizeEndpoint(endpoint string) (string, error) {
	endpoint = strings.TrimSpace(endpoint)
	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", errors.New("missing host")
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = metricsPath
	}
	return u.String(), nil
}

func newShutdownFunc(mp *sdkmetric.MeterProvider) ShutdownFunc {
	return func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, defaultShutdownTimeout)
			defer cancel()
		}
		if err := mp.Shutdown(ctx); err != nil {
			return fmt.Errorf("telemetry: failed to shutdown meter provider: %w", err)
		}
		return nil
	}
}
