package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type MetricsExporterType string

const (
	NoneExporter       MetricsExporterType = "none"
	ConsoleExporter    MetricsExporterType = "stdout"
	PrometheusExporter MetricsExporterType = "prometheus"
)

type ObservabilityErr string

func (err ObservabilityErr) Error() string {
	return string(err)
}

const ErrUnknownExporter ObservabilityErr = "[observability] unknown metrics exporter"

func noopShutdown(context.Context) error {
	return nil
}

// Serves for test/dev environment.
func NewConsoleMetricsExporter(interval, timeout time.Duration, opts ...stdoutmetric.Option) (func(ctx context.Context) error, error) {
	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(
		exporter,
		metric.WithInterval(interval),
		metric.WithTimeout(timeout),
	)))
	callback := mp.Shutdown
	otel.SetMeterProvider(mp)
	return callback, nil
}

// Serves for the product environment and fetch stats metrics by HTTP.
func NewPrometheusMetricsExporter() (func(ctx context.Context) error, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(exporter))
	callback := mp.Shutdown
	otel.SetMeterProvider(mp)
	return callback, nil
}

// InitMetricsExporter installs the global meter provider by name.
// An empty name or "none" keeps the otel no-op provider.
func InitMetricsExporter(typ string) (func(ctx context.Context) error, error) {
	switch MetricsExporterType(strings.ToLower(strings.TrimSpace(typ))) {
	case "", NoneExporter:
		return noopShutdown, nil
	case ConsoleExporter:
		return NewConsoleMetricsExporter(
			10*time.Second,
			5*time.Second,
			stdoutmetric.WithPrettyPrint(),
		)
	case PrometheusExporter:
		return NewPrometheusMetricsExporter()
	default:
	}
	return nil, ErrUnknownExporter
}
