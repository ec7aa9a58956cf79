package config

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/safeopen"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/benz9527/idxbench/lib/infra"
	"github.com/benz9527/idxbench/xlog"
)

const (
	MetricsExporterNone       = "none"
	MetricsExporterStdout     = "stdout"
	MetricsExporterPrometheus = "prometheus"
)

var metricsExporters = []string{
	MetricsExporterNone,
	MetricsExporterStdout,
	MetricsExporterPrometheus,
}

type LogConfig struct {
	Level   string `json:"level" yaml:"level"`
	Encoder string `json:"encoder" yaml:"encoder"`
}

type MetricsConfig struct {
	Exporter string `json:"exporter" yaml:"exporter"`
	// Textfile is the prometheus text exposition dump written at shutdown.
	Textfile string        `json:"textfile" yaml:"textfile"`
	Interval time.Duration `json:"interval" yaml:"interval"` // stdout exporter only
}

// Config of a benchmark run. Sizes are consumed in the given order,
// never sorted or de-duplicated.
type Config struct {
	Sizes   []int         `json:"sizes" yaml:"sizes"`
	Seed    uint64        `json:"seed" yaml:"seed"`
	Trials  int           `json:"trials" yaml:"trials"`
	Output  string        `json:"output" yaml:"output"`
	SQLite  string        `json:"sqlite" yaml:"sqlite"`
	Table   bool          `json:"table" yaml:"table"`
	Log     LogConfig     `json:"log" yaml:"log"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
}

func Default() *Config {
	return &Config{
		Sizes:  []int{3_000_000, 3_500_000, 4_000_000, 4_500_000, 5_000_000},
		Seed:   12345,
		Trials: 1,
		Output: "results.csv",
		Log: LogConfig{
			Level:   xlog.LogLevelInfo.String(),
			Encoder: xlog.PlainText.String(),
		},
		Metrics: MetricsConfig{
			Exporter: MetricsExporterNone,
			Interval: 10 * time.Second,
		},
	}
}

// Load decodes the YAML file on top of the defaults. Unknown keys are
// rejected. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if len(strings.TrimSpace(path)) == 0 {
		return cfg, nil
	}

	data, err := safeopen.ReadFileBeneath(filepath.Dir(path), filepath.Base(path))
	if err != nil {
		return nil, infra.WrapErrorStack(err, "[config] read "+path)
	}
	if err = Decode(bytes.NewReader(data), cfg); err != nil {
		return nil, infra.WrapErrorStack(err, "[config] decode "+path)
	}
	return cfg, nil
}

func Decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (cfg *Config) Validate() error {
	if len(cfg.Sizes) == 0 {
		return infra.NewErrorStack("[config] no problem sizes")
	}
	if bad := lo.Filter(cfg.Sizes, func(n int, _ int) bool { return n <= 0 }); len(bad) > 0 {
		return infra.NewErrorStackf("[config] non-positive problem sizes %v", bad)
	}
	if cfg.Trials < 1 {
		return infra.NewErrorStackf("[config] trials must be positive, got %d", cfg.Trials)
	}
	if len(strings.TrimSpace(cfg.Output)) == 0 {
		return infra.NewErrorStack("[config] empty csv output path")
	}
	if _, err := xlog.ParseLogLevel(cfg.Log.Level); err != nil {
		return err
	}
	if _, err := xlog.ParseEncoder(cfg.Log.Encoder); err != nil {
		return err
	}
	if !lo.Contains(metricsExporters, cfg.Metrics.Exporter) {
		return infra.NewErrorStackf("[config] unknown metrics exporter %q, expected one of %v",
			cfg.Metrics.Exporter, metricsExporters)
	}
	if len(cfg.Metrics.Textfile) > 0 && cfg.Metrics.Exporter != MetricsExporterPrometheus {
		return infra.NewErrorStack("[config] metrics textfile requires the prometheus exporter")
	}
	if cfg.Metrics.Exporter == MetricsExporterStdout && cfg.Metrics.Interval <= 0 {
		return infra.NewErrorStackf("[config] invalid metrics interval %s", cfg.Metrics.Interval)
	}
	return nil
}

// ParseSizes splits a comma separated list, keeping the order.
func ParseSizes(s string) ([]int, error) {
	parts := lo.Filter(strings.Split(s, ","), func(part string, _ int) bool {
		return len(strings.TrimSpace(part)) > 0
	})
	sizes := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, infra.WrapErrorStack(err, "[config] invalid problem size")
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}
