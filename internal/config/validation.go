package config

import (
	"regexp"
	"strings"

	"git.home.luguber.info/inful/tocer/internal/executor"
	"git.home.luguber.info/inful/tocer/internal/foundation/errors"
)

var tagNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// Normalize canonicalizes enumerations and trims names.
func (c *Config) Normalize() error {
	policy, err := executor.ParseFailurePolicy(string(c.OnCommandFailure))
	if err != nil {
		return invalid("on_command_failure", err)
	}
	c.OnCommandFailure = policy

	level, err := logLevelNormalizer.NormalizeWithValidation(string(c.LogLevel))
	if err != nil {
		return invalid("log_level", err)
	}
	c.LogLevel = level

	format, err := logFormatNormalizer.NormalizeWithValidation(string(c.LogFormat))
	if err != nil {
		return invalid("log_format", err)
	}
	c.LogFormat = format

	c.TocFile = strings.TrimSpace(c.TocFile)
	c.IndexName = strings.TrimSpace(c.IndexName)
	c.Shell = strings.TrimSpace(c.Shell)
	c.Tags.Toc = strings.TrimSpace(c.Tags.Toc)
	c.Tags.Header = strings.TrimSpace(c.Tags.Header)
	c.Tags.SubTopic = strings.TrimSpace(c.Tags.SubTopic)
	c.Tags.Code = strings.TrimSpace(c.Tags.Code)
	return nil
}

// Validate checks a normalized configuration.
func (c *Config) Validate() error {
	if c.TocFile == "" {
		return errors.ConfigError("toc_file must not be empty").Build()
	}
	if c.IndexName != "" && (strings.ContainsAny(c.IndexName, `/\`) || c.IndexName == "." || c.IndexName == "..") {
		return errors.ConfigError("index_name must be a plain file name").WithContext("index_name", c.IndexName).Build()
	}
	if c.Shell == "" {
		return errors.ConfigError("shell must not be empty").Build()
	}
	if c.CommandTimeout < 0 {
		return errors.ConfigError("command_timeout must not be negative").Build()
	}
	if c.Watch.Debounce < 0 || c.Watch.Interval < 0 {
		return errors.ConfigError("watch durations must not be negative").Build()
	}
	return c.validateTags()
}

func (c *Config) validateTags() error {
	seen := map[string]string{}
	for key, name := range map[string]string{
		"tags.toc":      c.Tags.Toc,
		"tags.header":   c.Tags.Header,
		"tags.subtopic": c.Tags.SubTopic,
		"tags.code":     c.Tags.Code,
	} {
		if !tagNamePattern.MatchString(name) {
			return errors.ConfigError("tag names must start with a letter and use only letters, digits, '-' and '_'").
				WithContext("key", key).
				WithContext("value", name).
				Build()
		}
		folded := strings.ToLower(name)
		if other, ok := seen[folded]; ok {
			return errors.ConfigError("tag names must be distinct").
				WithContext("key", key).
				WithContext("other_key", other).
				Build()
		}
		seen[folded] = key
	}
	return nil
}

func invalid(key string, err error) error {
	return errors.WrapError(err, errors.CategoryConfig, "invalid configuration value").
		Fatal().
		UserAction().
		WithContext("key", key).
		Build()
}
