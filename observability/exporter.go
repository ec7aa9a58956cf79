package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"context"
	"io"
	"os"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/multierr"

	"github.com/benz9527/idxbench/config"
	"github.com/benz9527/idxbench/lib/infra"
)

// MetricsProvider owns the meter provider of the configured exporter.
// The "none" exporter is a noop provider.
type MetricsProvider struct {
	metric.MeterProvider
	shutdown func(ctx context.Context) error
	gatherer promclient.Gatherer
	textfile string
}

// Shutdown flushes the exporter. With the prometheus exporter the
// gathered families are written to the textfile first, if configured.
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	var err error
	if mp.gatherer != nil && len(mp.textfile) > 0 {
		err = multierr.Append(err, promclient.WriteToTextfile(mp.textfile, mp.gatherer))
	}
	if mp.shutdown != nil {
		err = multierr.Append(err, mp.shutdown(ctx))
	}
	return err
}

type MetricsProviderOption func(*metricsProviderCfg)

type metricsProviderCfg struct {
	writer  io.Writer
	timeout time.Duration
}

// WithMetricsWriter redirects the stdout exporter output.
func WithMetricsWriter(w io.Writer) MetricsProviderOption {
	return func(cfg *metricsProviderCfg) {
		cfg.writer = w
	}
}

func NewMetricsProvider(cfg config.MetricsConfig, opts ...MetricsProviderOption) (*MetricsProvider, error) {
	pcfg := &metricsProviderCfg{
		writer:  os.Stdout,
		timeout: 5 * time.Second,
	}
	for _, o := range opts {
		o(pcfg)
	}

	var (
		mp  = &MetricsProvider{}
		err error
	)
	switch cfg.Exporter {
	case config.MetricsExporterNone, "":
		mp.MeterProvider = noop.NewMeterProvider()
		return mp, nil
	case config.MetricsExporterStdout:
		mp.MeterProvider, mp.shutdown, err = newConsoleMetricsExporter(cfg.Interval, pcfg.timeout,
			stdoutmetric.WithWriter(pcfg.writer),
		)
	case config.MetricsExporterPrometheus:
		registry := promclient.NewRegistry()
		mp.MeterProvider, mp.shutdown, err = newPrometheusMetricsExporter(prometheus.WithRegisterer(registry))
		mp.gatherer, mp.textfile = registry, cfg.Textfile
	default:
		return nil, infra.NewErrorStackf("[metrics] unknown exporter %q", cfg.Exporter)
	}
	if err != nil {
		return nil, infra.WrapErrorStack(err, "[metrics] create "+cfg.Exporter+" exporter")
	}
	otel.SetMeterProvider(mp.MeterProvider)
	return mp, nil
}

// Serves for test/dev environment.
func newConsoleMetricsExporter(interval, timeout time.Duration, opts ...stdoutmetric.Option) (metric.MeterProvider, func(ctx context.Context) error, error) {
	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, nil, err
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewPeriodicReader(
		exporter,
		sdkmetric.WithInterval(interval),
		sdkmetric.WithTimeout(timeout),
	)))
	return mp, mp.Shutdown, nil
}

// The prometheus reader is pull based, results are dumped as a textfile
// for the node exporter at shutdown.
func newPrometheusMetricsExporter(opts ...prometheus.Option) (metric.MeterProvider, func(ctx context.Context) error, error) {
	exporter, err := prometheus.New(opts...)
	if err != nil {
		return nil, nil, err
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	return mp, mp.Shutdown, nil
}
