package config

import (
	"github.com/spf13/pflag"
)

const (
	flagConfig          = "config"
	flagSizes           = "sizes"
	flagSeed            = "seed"
	flagTrials          = "trials"
	flagOut             = "out"
	flagSQLite          = "sqlite"
	flagTable           = "table"
	flagMetrics         = "metrics"
	flagMetricsTextfile = "metrics-textfile"
	flagLogLevel        = "log-level"
	flagLogEncoder      = "log-encoder"
)

// RegisterFlags declares the command line overrides. Flag defaults are
// informative only, a value is applied only if the flag was set.
func RegisterFlags(fs *pflag.FlagSet) {
	def := Default()
	fs.String(flagConfig, "", "YAML configuration file")
	fs.String(flagSizes, "", "comma separated problem sizes, run in the given order")
	fs.Uint64(flagSeed, def.Seed, "seed of the permutation and skip-list level generator")
	fs.Int(flagTrials, def.Trials, "trials per size, the best total is kept")
	fs.String(flagOut, def.Output, "CSV output file")
	fs.String(flagSQLite, "", "optional SQLite database the rows are persisted to")
	fs.Bool(flagTable, false, "print a summary table at exit")
	fs.String(flagMetrics, def.Metrics.Exporter, "metrics exporter: none, stdout or prometheus")
	fs.String(flagMetricsTextfile, "", "prometheus text exposition file written at exit")
	fs.String(flagLogLevel, def.Log.Level, "DEBUG, INFO, WARN or ERROR")
	fs.String(flagLogEncoder, def.Log.Encoder, "json or plaintext")
}

// Resolve loads the --config file, applies the changed flags on top and
// validates the result.
func Resolve(fs *pflag.FlagSet) (*Config, error) {
	path, err := fs.GetString(flagConfig)
	if err != nil {
		return nil, err
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if fs.Changed(flagSizes) {
		s, _ := fs.GetString(flagSizes)
		if cfg.Sizes, err = ParseSizes(s); err != nil {
			return nil, err
		}
	}
	if fs.Changed(flagSeed) {
		cfg.Seed, _ = fs.GetUint64(flagSeed)
	}
	if fs.Changed(flagTrials) {
		cfg.Trials, _ = fs.GetInt(flagTrials)
	}
	if fs.Changed(flagOut) {
		cfg.Output, _ = fs.GetString(flagOut)
	}
	if fs.Changed(flagSQLite) {
		cfg.SQLite, _ = fs.GetString(flagSQLite)
	}
	if fs.Changed(flagTable) {
		cfg.Table, _ = fs.GetBool(flagTable)
	}
	if fs.Changed(flagMetrics) {
		cfg.Metrics.Exporter, _ = fs.GetString(flagMetrics)
	}
	if fs.Changed(flagMetricsTextfile) {
		cfg.Metrics.Textfile, _ = fs.GetString(flagMetricsTextfile)
	}
	if fs.Changed(flagLogLevel) {
		cfg.Log.Level, _ = fs.GetString(flagLogLevel)
	}
	if fs.Changed(flagLogEncoder) {
		cfg.Log.Encoder, _ = fs.GetString(flagLogEncoder)
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
