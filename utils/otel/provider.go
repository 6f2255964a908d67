package otel

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	exportInterval       = 5 * time.Second
	metricExportInterval = 15 * time.Second
	exportBatchSize      = 512
)

// Search requests are expected to finish well under a second; index
// batches fetch from Postgres and write to Meilisearch and take longer.
var (
	searchDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}
	batchDurationBuckets  = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}
)

// Config holds OpenTelemetry configuration. It is filled by config.Load.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	OTLPEndpoint   string
	Enabled        bool
	SampleRatio    float64
}

// signalURL joins the collector base URL with an OTLP signal path.
func (c Config) signalURL(signal string) string {
	return strings.TrimRight(c.OTLPEndpoint, "/") + "/v1/" + signal
}

// ShutdownFunc flushes and stops every provider started by InitProvider.
type ShutdownFunc func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// InitProvider installs the global tracer, logger and meter providers. With
// telemetry disabled it installs nothing and the globals stay no-op.
func InitProvider(ctx context.Context, cfg Config) (ShutdownFunc, error) {
	if !cfg.Enabled {
		return noopShutdown, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
		resource.WithHost(),
		resource.WithProcess(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	var shutdowns []func(context.Context) error
	shutdownAll := func(ctx context.Context) error {
		var errs []error
		for _, fn := range shutdowns {
			errs = append(errs, fn(ctx))
		}
		return errors.Join(errs...)
	}

	tracerProvider, err := newTracerProvider(ctx, cfg, res)
	if err != nil {
		return nil, fmt.Errorf("failed to init tracer provider: %w", err)
	}
	shutdowns = append(shutdowns, tracerProvider.Shutdown)

	loggerProvider, err := newLoggerProvider(ctx, cfg, res)
	if err != nil {
		_ = shutdownAll(ctx)
		return nil, fmt.Errorf("failed to init logger provider: %w", err)
	}
	shutdowns = append(shutdowns, loggerProvider.Shutdown)

	meterProvider, err := newMeterProvider(ctx, cfg, res)
	if err != nil {
		_ = shutdownAll(ctx)
		return nil, fmt.Errorf("failed to init meter provider: %w", err)
	}
	shutdowns = append(shutdowns, meterProvider.Shutdown)

	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	global.SetLoggerProvider(loggerProvider)
	otel.SetMeterProvider(meterProvider)

	return shutdownAll, nil
}

func newTracerProvider(ctx context.Context, cfg Config, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(cfg.signalURL("traces")),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter,
			sdktrace.WithBatchTimeout(exportInterval),
			sdktrace.WithMaxExportBatchSize(exportBatchSize),
		),
		sdktrace.WithResource(res),
		// Remote parents decide; root spans use the configured ratio.
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	), nil
}

func newLoggerProvider(ctx context.Context, cfg Config, res *resource.Resource) (*sdklog.LoggerProvider, error) {
	exporter, err := otlploghttp.New(ctx,
		otlploghttp.WithEndpointURL(cfg.signalURL("logs")),
		otlploghttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	processor := sdklog.NewBatchProcessor(exporter,
		sdklog.WithExportInterval(exportInterval),
		sdklog.WithExportMaxBatchSize(exportBatchSize),
	)
	return sdklog.NewLoggerProvider(
		sdklog.WithProcessor(processor),
		sdklog.WithResource(res),
	), nil
}

func newMeterProvider(ctx context.Context, cfg Config, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	exporter, err := otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpointURL(cfg.signalURL("metrics")),
		otlpmetrichttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	opts := []sdkmetric.Option{
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(metricExportInterval),
		)),
		sdkmetric.WithResource(res),
	}
	opts = append(opts, metricViews()...)
	return sdkmetric.NewMeterProvider(opts...), nil
}

// metricViews sets bucket boundaries for the duration histograms declared in
// NewMetricsWithMeter.
func metricViews() []sdkmetric.Option {
	bucketView := func(name string, bounds []float64) sdkmetric.Option {
		return sdkmetric.WithView(sdkmetric.NewView(
			sdkmetric.Instrument{Name: name, Kind: sdkmetric.InstrumentKindHistogram},
			sdkmetric.Stream{Aggregation: sdkmetric.AggregationExplicitBucketHistogram{Boundaries: bounds}},
		))
	}
	return []sdkmetric.Option{
		bucketView(searchDurationName, searchDurationBuckets),
		bucketView(batchDurationName, batchDurationBuckets),
	}
}
