package main

import (
	"context"
	"io"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/idxbench/bench"
	"github.com/benz9527/idxbench/config"
	"github.com/benz9527/idxbench/lib/infra"
	xruntime "github.com/benz9527/idxbench/lib/runtime"
	"github.com/benz9527/idxbench/observability"
	"github.com/benz9527/idxbench/store"
	"github.com/benz9527/idxbench/xlog"
)

const sinkGroup = `group:"sinks"`

func newLogger(lc fx.Lifecycle, cfg *config.Config, stdout io.Writer) (xlog.XLogger, error) {
	lvl, err := xlog.ParseLogLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	enc, err := xlog.ParseEncoder(cfg.Log.Encoder)
	if err != nil {
		return nil, err
	}
	opts := []xlog.XLoggerOption{
		xlog.WithXLoggerLevel(lvl),
		xlog.WithXLoggerEncoder(enc),
	}
	if stdout != os.Stdout {
		opts = append(opts, xlog.WithXLoggerWriter(stdout))
	}
	logger := xlog.NewXLogger(opts...)
	lc.Append(fx.StopHook(logger.Close))
	return logger.Named("idxbench"), nil
}

func newMetrics(lc fx.Lifecycle, cfg *config.Config, stdout io.Writer) (*observability.MetricsProvider, error) {
	mp, err := observability.NewMetricsProvider(cfg.Metrics, observability.WithMetricsWriter(stdout))
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(mp.Shutdown))
	return mp, nil
}

func newBenchStats(mp *observability.MetricsProvider) (*observability.BenchStats, error) {
	return observability.NewBenchStats(mp)
}

func newCSVSink(cfg *config.Config) (bench.Sink, error) {
	return bench.OpenCSVSink(cfg.Output)
}

func newTableSink(cfg *config.Config, stdout io.Writer) bench.Sink {
	if !cfg.Table {
		return nil
	}
	return bench.NewTableSink(stdout)
}

func newStoreSink(cfg *config.Config, logger xlog.XLogger) (bench.Sink, error) {
	if len(cfg.SQLite) == 0 {
		return nil, nil
	}
	s, err := store.Open(cfg.SQLite, xlog.NewGormXLogger(logger))
	if err != nil {
		return nil, err
	}
	logger.Info("sqlite store opened", zap.String("path", cfg.SQLite), zap.String("runID", s.RunID()))
	return bench.NewStoreSink(s, cfg.Seed), nil
}

func newMetricsSink(cfg *config.Config, stats *observability.BenchStats) bench.Sink {
	if cfg.Metrics.Exporter == config.MetricsExporterNone {
		return nil
	}
	return bench.NewMetricsSink(stats)
}

func newRunner(
	lc fx.Lifecycle,
	cfg *config.Config,
	logger xlog.XLogger,
	stats *observability.BenchStats,
	sinks []bench.Sink,
) (*bench.Runner, error) {
	runner, err := bench.NewRunner(logger, cfg.Sizes, cfg.Seed,
		bench.WithRunnerTrials(cfg.Trials),
		bench.WithRunnerMemorySampler(stats),
		bench.WithRunnerSinks(sinks...),
	)
	if err != nil {
		// Sinks are already open, nothing else owns them yet.
		for _, sink := range sinks {
			if sink != nil {
				err = multierr.Append(err, sink.Close())
			}
		}
		return nil, err
	}
	lc.Append(fx.StopHook(runner.Close))
	return runner, nil
}

// setupRuntime aligns GOMAXPROCS with the cgroup CPU quota and logs the
// host the timings are taken on.
func setupRuntime(lc fx.Lifecycle, logger xlog.XLogger) error {
	undo, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Logf(zapcore.InfoLevel, format, args...)
	}))
	if err != nil {
		return infra.WrapErrorStack(err, "set GOMAXPROCS")
	}
	lc.Append(fx.StopHook(undo))
	logger.Info("environment", xruntime.Probe().Field())
	return nil
}

func newApp(cfg *config.Config, stdout io.Writer, opts ...fx.Option) *fx.App {
	return fx.New(
		fx.Supply(cfg),
		fx.Provide(
			func() io.Writer { return stdout },
			newLogger,
			newMetrics,
			newBenchStats,
			fx.Annotate(newCSVSink, fx.ResultTags(sinkGroup)),
			fx.Annotate(newTableSink, fx.ResultTags(sinkGroup)),
			fx.Annotate(newStoreSink, fx.ResultTags(sinkGroup)),
			fx.Annotate(newMetricsSink, fx.ResultTags(sinkGroup)),
			fx.Annotate(newRunner, fx.ParamTags(``, ``, ``, ``, sinkGroup)),
		),
		fx.WithLogger(func(logger xlog.XLogger) fxevent.Logger {
			return xlog.NewFxXLogger(logger.Named("fx"))
		}),
		fx.Invoke(setupRuntime),
		fx.Options(opts...),
	)
}

// run returns the process exit code.
func run(ctx context.Context, cfg *config.Config, stdout io.Writer) int {
	var (
		runner *bench.Runner
		logger xlog.XLogger
	)
	app := newApp(cfg, stdout, fx.Populate(&runner, &logger))
	if err := app.Err(); err != nil {
		_, _ = io.WriteString(os.Stderr, "idxbench: "+err.Error()+"\n")
		return 1
	}

	startCtx, cancel := context.WithTimeout(context.Background(), app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		logger.ErrorStack(err, "start failed")
		_ = logger.Sync()
		return 1
	}

	_, runErr := runner.Run(ctx)
	if runErr != nil {
		logger.ErrorStack(runErr, "benchmark aborted")
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		runErr = multierr.Append(runErr, infra.WrapErrorStack(err, "stop"))
		_, _ = io.WriteString(os.Stderr, "idxbench: "+err.Error()+"\n")
	}
	if runErr != nil {
		return 1
	}
	return 0
}
