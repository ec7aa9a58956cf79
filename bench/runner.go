package bench

import (
	"context"
	"math"
	randv2 "math/rand/v2"

	"github.com/samber/lo"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/idxbench/lib/dataset"
	"github.com/benz9527/idxbench/lib/hrtime"
	"github.com/benz9527/idxbench/lib/index"
	"github.com/benz9527/idxbench/lib/infra"
	"github.com/benz9527/idxbench/xlog"
)

// MemorySampler is called once a structure is fully built.
type MemorySampler interface {
	SampleMemory(structure string, n int) (uint64, error)
}

type nopSampler struct{}

func (nopSampler) SampleMemory(string, int) (uint64, error) { return 0, nil }

// Runner is the synchronous benchmark loop. Sizes are processed in the
// given order.
type Runner struct {
	logger     xlog.XLogger
	clock      hrtime.Clock
	sampler    MemorySampler
	structures []Structure
	sinks      []Sink
	sizes      []int
	seed       uint64
	trials     int
}

type RunnerOption func(*Runner) error

func WithRunnerClock(clock hrtime.Clock) RunnerOption {
	return func(r *Runner) error {
		if clock == nil {
			return infra.NewErrorStack("[bench] nil clock")
		}
		r.clock = clock
		return nil
	}
}

func WithRunnerMemorySampler(sampler MemorySampler) RunnerOption {
	return func(r *Runner) error {
		if sampler != nil {
			r.sampler = sampler
		}
		return nil
	}
}

func WithRunnerStructures(structures ...Structure) RunnerOption {
	return func(r *Runner) error {
		if len(structures) == 0 {
			return infra.NewErrorStack("[bench] no structure to run")
		}
		r.structures = structures
		return nil
	}
}

func WithRunnerSinks(sinks ...Sink) RunnerOption {
	return func(r *Runner) error {
		r.sinks = append(r.sinks, lo.Filter(sinks, func(sink Sink, _ int) bool {
			return sink != nil
		})...)
		return nil
	}
}

func WithRunnerTrials(trials int) RunnerOption {
	return func(r *Runner) error {
		if trials <= 0 {
			return infra.NewErrorStackf("[bench] trials must be positive, got %d", trials)
		}
		r.trials = trials
		return nil
	}
}

func NewRunner(logger xlog.XLogger, sizes []int, seed uint64, opts ...RunnerOption) (*Runner, error) {
	if bad, found := lo.Find(sizes, func(n int) bool { return n <= 0 }); found {
		return nil, infra.NewErrorStackf("[bench] size must be positive, got %d", bad)
	}
	r := &Runner{
		logger:     logger,
		clock:      hrtime.MonotonicClock,
		sampler:    nopSampler{},
		structures: DefaultStructures(),
		sizes:      sizes,
		seed:       seed,
		trials:     1,
	}
	for _, o := range opts {
		if err := o(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Run executes every size and returns the emitted rows. A sink write
// error or a cancelled ctx stops the run.
func (r *Runner) Run(ctx context.Context) ([]Row, error) {
	var (
		rng  = dataset.NewRand(r.seed)
		rows = make([]Row, 0, len(r.sizes)*len(r.structures))
	)
	r.logger.Info("benchmark started",
		zap.Ints("sizes", r.sizes),
		zap.Uint64("seed", r.seed),
		zap.Int("trials", r.trials),
	)
	for _, n := range r.sizes {
		best := make([]index.Timing, len(r.structures))
		bestTotal := lo.RepeatBy(len(r.structures), func(int) int64 { return math.MaxInt64 })
		for trial := 0; trial < r.trials; trial++ {
			keys := dataset.Permutation(n, rng)
			for i, s := range r.structures {
				if err := ctx.Err(); err != nil {
					return rows, infra.WrapErrorStack(err, "[bench] run cancelled")
				}
				timing := r.measure(s, n, keys, rng)
				r.logger.Debug("trial done",
					zap.String("structure", s.Name),
					zap.Int("n", n),
					zap.Int("trial", trial),
					zap.Int64("totalNs", timing.Total()),
				)
				if total := timing.Total(); total < bestTotal[i] {
					bestTotal[i], best[i] = total, timing
				}
			}
		}

		sizeRows := make([]Row, 0, len(r.structures))
		for i, s := range r.structures {
			row := Row{
				Structure:          s.Name,
				N:                  n,
				SearchRemovalNanos: best[i].SearchRemovalNanos,
				RebalanceNanos:     best[i].RebalanceNanos,
				TotalNanos:         best[i].Total(),
			}
			r.logger.Info("row",
				zap.String("structure", row.Structure),
				zap.Int("n", row.N),
				zap.Int64("searchRemovalNs", row.SearchRemovalNanos),
				zap.Int64("rebalanceNs", row.RebalanceNanos),
				zap.Int64("totalNs", row.TotalNanos),
			)
			sizeRows = append(sizeRows, row)
		}
		for _, sink := range r.sinks {
			if err := sink.Write(sizeRows); err != nil {
				return rows, infra.WrapErrorStack(err, "[bench] sink write")
			}
		}
		rows = append(rows, sizeRows...)
	}
	r.logger.Info("benchmark finished", zap.Int("rows", len(rows)))
	return rows, nil
}

// measure builds the index in key order, then deletes in the same order.
func (r *Runner) measure(s Structure, n int, keys []int, rng *randv2.Rand) index.Timing {
	idx := s.New(r.clock, rng)
	defer idx.Release()

	for _, key := range keys {
		idx.Insert(key)
	}
	if rss, err := r.sampler.SampleMemory(s.Name, n); err != nil {
		r.logger.ErrorStack(err, "memory sample failed", zap.String("structure", s.Name))
	} else if rss > 0 {
		r.logger.Debug("built", zap.String("structure", s.Name), zap.Int("n", n), zap.Uint64("rssBytes", rss))
	}

	var total index.Timing
	for _, key := range keys {
		timing, ok := idx.Delete(key)
		if !ok {
			r.logger.Warn("deleted key not found",
				zap.String("structure", s.Name),
				zap.Int("n", n),
				zap.Int("key", key),
			)
		}
		total.Add(timing)
	}
	if remain := idx.Len(); remain != 0 {
		r.logger.Warn("index not empty after deletion",
			zap.String("structure", s.Name),
			zap.Int64("remain", remain),
		)
	}
	return total
}

// Close closes every sink, all errors are kept.
func (r *Runner) Close() error {
	var err error
	for _, sink := range r.sinks {
		err = multierr.Append(err, sink.Close())
	}
	return err
}
