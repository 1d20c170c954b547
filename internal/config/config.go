// Package config loads tocer settings from defaults, an optional YAML file,
// .env files and TOCER_* environment variables, in increasing precedence.
// Command-line flags are applied on top by the caller.
package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/tocer/internal/executor"
	"git.home.luguber.info/inful/tocer/internal/foundation/errors"
	"git.home.luguber.info/inful/tocer/internal/tags"
)

// FileName is the configuration file looked up next to the root document.
const FileName = ".tocer.yaml"

// DefaultTocFile is the root document used when none is given.
const DefaultTocFile = "README.md"

// Config holds every tocer setting.
type Config struct {
	TocFile          string                 `yaml:"toc_file"`
	IndexName        string                 `yaml:"index_name"`
	Preamble         string                 `yaml:"preamble"`
	Shell            string                 `yaml:"shell"`
	CommandTimeout   time.Duration          `yaml:"command_timeout"`
	OnCommandFailure executor.FailurePolicy `yaml:"on_command_failure"`
	HomeCaption      string                 `yaml:"home_caption"`
	GitAware         bool                   `yaml:"git_aware"`
	PruneEmptyDirs   bool                   `yaml:"prune_empty_dirs"`
	LogLevel         LogLevel               `yaml:"log_level"`
	LogFormat        LogFormat              `yaml:"log_format"`
	MetricsFile      string                 `yaml:"metrics_file"`
	Watch            WatchConfig            `yaml:"watch"`
	Tags             tags.Names             `yaml:"tags"`
}

// WatchConfig configures the watch command.
type WatchConfig struct {
	// Debounce collapses bursts of file events into one pass.
	Debounce time.Duration `yaml:"debounce"`
	// Interval re-runs the pass periodically to refresh command output; 0 disables it.
	Interval time.Duration `yaml:"interval"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		TocFile:          DefaultTocFile,
		Preamble:         executor.DefaultPreamble,
		Shell:            executor.DefaultShell,
		OnCommandFailure: executor.FailurePolicyFail,
		GitAware:         true,
		PruneEmptyDirs:   true,
		LogLevel:         LogLevelInfo,
		LogFormat:        LogFormatText,
		Watch:            WatchConfig{Debounce: 500 * time.Millisecond},
		Tags:             tags.DefaultNames(),
	}
}

// Locate returns the configuration file to load and whether it was named
// explicitly. Without an explicit path the file next to tocFile is used.
func Locate(explicit, tocFile string) (string, bool) {
	if explicit != "" {
		return explicit, true
	}
	if tocFile == "" {
		tocFile = DefaultTocFile
	}
	return filepath.Join(filepath.Dir(tocFile), FileName), false
}

// Load builds the configuration from path. A missing file is an error only
// when required is set. .env files next to path are loaded first and never
// override variables already in the environment.
func Load(path string, required bool) (*Config, error) {
	loadEnvFiles(filepath.Dir(path))

	cfg := Default()
	// #nosec G304 -- the configuration path is chosen by the user.
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(data, cfg); err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse configuration file").
				Fatal().
				UserAction().
				WithContext("path", path).
				Build()
		}
	case stderrors.Is(err, fs.ErrNotExist) && !required:
	case stderrors.Is(err, fs.ErrNotExist):
		return nil, errors.ConfigError("configuration file not found").WithContext("path", path).Build()
	default:
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read configuration file").
			Fatal().
			WithContext("path", path).
			Build()
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode expands ${VAR} references and strictly decodes YAML over the
// defaults already in cfg; keys absent from the file keep their defaults.
func decode(data []byte, cfg *Config) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	if len(doc.Content) == 0 {
		return nil
	}
	expandNode(&doc)

	expanded, err := yaml.Marshal(&doc)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return err
	}
	return nil
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// shellKeys hold shell text, which is passed through untouched.
var shellKeys = map[string]bool{"preamble": true}

func expandNode(n *yaml.Node) {
	switch n.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, c := range n.Content {
			expandNode(c)
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			if shellKeys[n.Content[i].Value] {
				continue
			}
			expandNode(n.Content[i+1])
		}
	case yaml.ScalarNode:
		value := expandEnv(n.Value)
		if value != n.Value {
			n.Value = value
			if n.Style == 0 && value != "" {
				// Re-resolve so "${FLAG}" can become a bool or a duration.
				n.Tag = ""
			}
		}
	}
}

// expandEnv replaces braced ${VAR} references; bare $VAR is left alone.
func expandEnv(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(ref string) string {
		return os.Getenv(envRef.FindStringSubmatch(ref)[1])
	})
}
