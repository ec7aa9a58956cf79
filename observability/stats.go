package observability

import (
	"context"
	"os"
	"sync/atomic"

	"github.com/samber/lo"
	"github.com/shirou/gopsutil/v3/process"
	otelruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/benz9527/idxbench/lib/infra"
)

const meterName = "idxbench/bench"

type memorySample struct {
	attrs metric.MeasurementOption
	rss   int64
}

// BenchStats records the aggregated deletion timings and the process
// resident memory sampled after each build.
type BenchStats struct {
	proc          *process.Process
	searchRemoval metric.Int64Counter
	rebalance     metric.Int64Counter
	rows          metric.Int64Counter
	rss           metric.Int64ObservableGauge
	lastSample    atomic.Pointer[memorySample]
}

func NewBenchStats(mp metric.MeterProvider) (*BenchStats, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, infra.WrapErrorStack(err, "[metrics] open current process")
	}

	meter := mp.Meter(meterName, metric.WithInstrumentationVersion(otelruntime.Version()))
	stats := &BenchStats{
		proc: proc,
		searchRemoval: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"idxbench.delete.search_removal",
			metric.WithDescription(`Summed search and removal time of all deletions.`),
			metric.WithUnit("ns"),
		)),
		rebalance: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"idxbench.delete.rebalance",
			metric.WithDescription(`Summed rebalance time of all deletions.`),
			metric.WithUnit("ns"),
		)),
		rows: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"idxbench.rows",
			metric.WithDescription(`Result rows emitted.`),
		)),
	}
	stats.rss = lo.Must[metric.Int64ObservableGauge](meter.Int64ObservableGauge(
		"idxbench.build.rss",
		metric.WithDescription(`Process resident memory after the last index build.`),
		metric.WithUnit("By"),
		metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
			if sample := stats.lastSample.Load(); sample != nil {
				ob.Observe(sample.rss, sample.attrs)
			}
			return nil
		}),
	))

	if err = otelruntime.Start(otelruntime.WithMeterProvider(mp)); err != nil {
		return nil, infra.WrapErrorStack(err, "[metrics] start runtime instrumentation")
	}
	return stats, nil
}

func attrsOf(structure string, n int) metric.MeasurementOption {
	return metric.WithAttributes(
		attribute.String("structure", structure),
		attribute.Int("n", n),
	)
}

func (stats *BenchStats) RecordRow(ctx context.Context, structure string, n int, searchRemovalNanos, rebalanceNanos int64) {
	attrs := attrsOf(structure, n)
	stats.searchRemoval.Add(ctx, searchRemovalNanos, attrs)
	stats.rebalance.Add(ctx, rebalanceNanos, attrs)
	stats.rows.Add(ctx, 1, attrs)
}

// SampleMemory reads the resident set size of the current process.
func (stats *BenchStats) SampleMemory(structure string, n int) (uint64, error) {
	info, err := stats.proc.MemoryInfo()
	if err != nil {
		return 0, infra.WrapErrorStack(err, "[metrics] read process memory")
	}
	stats.lastSample.Store(&memorySample{
		attrs: attrsOf(structure, n),
		rss:   int64(info.RSS),
	})
	return info.RSS, nil
}
