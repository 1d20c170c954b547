package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/tocer/internal/executor"
	"git.home.luguber.info/inful/tocer/internal/foundation/errors"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TOCER_"

// envFiles are loaded in order; earlier files win since existing variables
// are never overwritten.
var envFiles = []string{".env.local", ".env"}

func loadEnvFiles(dir string) {
	for _, name := range envFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			slog.Warn("Failed to load environment file", slog.String("path", path), slog.String("error", err.Error()))
			continue
		}
		slog.Debug("Loaded environment file", slog.String("path", path))
	}
}

// applyEnv overrides cfg with TOCER_* variables.
func applyEnv(cfg *Config) error {
	texts := map[string]*string{
		"TOC_FILE":     &cfg.TocFile,
		"INDEX_NAME":   &cfg.IndexName,
		"PREAMBLE":     &cfg.Preamble,
		"SHELL":        &cfg.Shell,
		"HOME_CAPTION": &cfg.HomeCaption,
		"METRICS_FILE": &cfg.MetricsFile,
	}
	for key, target := range texts {
		if v, ok := lookup(key); ok {
			*target = v
		}
	}

	if v, ok := lookup("ON_COMMAND_FAILURE"); ok {
		cfg.OnCommandFailure = executor.FailurePolicy(v)
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		cfg.LogLevel = LogLevel(v)
	}
	if v, ok := lookup("LOG_FORMAT"); ok {
		cfg.LogFormat = LogFormat(v)
	}

	bools := map[string]*bool{
		"GIT_AWARE":        &cfg.GitAware,
		"PRUNE_EMPTY_DIRS": &cfg.PruneEmptyDirs,
	}
	for key, target := range bools {
		v, ok := lookup(key)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return envError(key, v, err)
		}
		*target = b
	}

	durations := map[string]*time.Duration{
		"COMMAND_TIMEOUT": &cfg.CommandTimeout,
		"WATCH_DEBOUNCE":  &cfg.Watch.Debounce,
		"WATCH_INTERVAL":  &cfg.Watch.Interval,
	}
	for key, target := range durations {
		v, ok := lookup(key)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return envError(key, v, err)
		}
		*target = d
	}
	return nil
}

func lookup(key string) (string, bool) {
	return os.LookupEnv(EnvPrefix + key)
}

func envError(key, value string, err error) error {
	return errors.WrapError(err, errors.CategoryConfig, "invalid environment override").
		Fatal().
		UserAction().
		WithContext("variable", EnvPrefix+key).
		WithContext("value", value).
		Build()
}
