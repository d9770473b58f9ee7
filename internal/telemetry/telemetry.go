// Package telemetry assembles the OpenTelemetry metric pipeline and exposes
// it for Prometheus scraping.
//
// Every instrument created through [Telemetry.Meter] reports into a dedicated
// Prometheus registry, so the scrape endpoint returned by [Telemetry.Handler]
// serves exactly this process's metrics plus the standard Go runtime and
// process collectors.
package telemetry

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/MKhiriev/go-fin-gateway/internal/config"
	"github.com/MKhiriev/go-fin-gateway/internal/logger"
)

const (
	serviceName = "go-fin-gateway"

	// meterScope names the instrumentation scope of every meter handed out
	// by this package.
	meterScope = "github.com/MKhiriev/go-fin-gateway"
)

// Telemetry owns the metric pipeline for the whole application: one
// MeterProvider, one Prometheus registry, one scrape handler.
type Telemetry struct {
	registry      *prometheus.Registry
	meterProvider *sdkmetric.MeterProvider

	logger *logger.Logger
}

// New builds the metric pipeline and installs its MeterProvider as the
// process-wide default, so instrumented third-party code (otelhttp in
// particular) reports through the same registry.
func New(appCfg config.App, providerCfg config.Provider, logger *logger.Logger) (*Telemetry, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(appCfg.Version),
			semconv.DeploymentEnvironment(providerCfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry resource creation failed: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("prometheus exporter creation failed: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(meterProvider)

	logger.Info().Msg("telemetry initialized")

	return &Telemetry{
		registry:      registry,
		meterProvider: meterProvider,
		logger:        logger,
	}, nil
}

// Meter returns the application meter. All services share one scope.
func (t *Telemetry) Meter() metric.Meter {
	return t.meterProvider.Meter(meterScope)
}

// Handler returns the Prometheus scrape endpoint backed by this pipeline's
// registry.
func (t *Telemetry) Handler() http.Handler {
	return promhttp.HandlerFor(t.registry, promhttp.HandlerOpts{})
}

// Shutdown flushes and stops the metric pipeline.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	t.logger.Info().Msg("telemetry Shutdown")

	if err := t.meterProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("meter provider shutdown failed: %w", err)
	}

	return nil
}
