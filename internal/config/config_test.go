package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/tocer/internal/executor"
	"git.home.luguber.info/inful/tocer/internal/foundation/errors"
	"git.home.luguber.info/inful/tocer/internal/tags"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_MissingOptionalFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), FileName), false)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingRequiredFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), true)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Setenv("DOCS_HOME", "Home")
	path := writeConfig(t, `
toc_file: docs/INDEX.md
index_name: toc.md
shell: sh
command_timeout: 30s
on_command_failure: EMBED
home_caption: ${DOCS_HOME}
git_aware: false
log_format: json
watch:
  interval: 5m
tags:
  code: run
`)

	cfg, err := Load(path, true)
	require.NoError(t, err)

	assert.Equal(t, "docs/INDEX.md", cfg.TocFile)
	assert.Equal(t, "toc.md", cfg.IndexName)
	assert.Equal(t, "sh", cfg.Shell)
	assert.Equal(t, 30*time.Second, cfg.CommandTimeout)
	assert.Equal(t, executor.FailurePolicyEmbed, cfg.OnCommandFailure)
	assert.Equal(t, "Home", cfg.HomeCaption)
	assert.False(t, cfg.GitAware)
	assert.True(t, cfg.PruneEmptyDirs, "absent keys keep defaults")
	assert.Equal(t, LogFormatJSON, cfg.LogFormat)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, 5*time.Minute, cfg.Watch.Interval)
	assert.Equal(t, "run", cfg.Tags.Code)
	assert.Equal(t, tags.DefaultNames().Toc, cfg.Tags.Toc)
	assert.Equal(t, executor.DefaultPreamble, cfg.Preamble)
}

func TestLoad_ExpansionLeavesShellTextAlone(t *testing.T) {
	t.Setenv("DOCS_HOME", "Home")
	t.Setenv("TOCER_TEST_GIT", "false")
	t.Setenv("f", "from-env")
	path := writeConfig(t, `
preamble: 'greet() { echo "hello $1"; }; for f in *.md; do echo $f; done; echo ${HOME}'
home_caption: $DOCS_HOME / ${DOCS_HOME}
git_aware: ${TOCER_TEST_GIT}
`)

	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, `greet() { echo "hello $1"; }; for f in *.md; do echo $f; done; echo ${HOME}`, cfg.Preamble)
	assert.Equal(t, "$DOCS_HOME / Home", cfg.HomeCaption, "only braced references are expanded")
	assert.False(t, cfg.GitAware)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "shell: sh\nprune_empty_dirs: true\n")
	t.Setenv("TOCER_SHELL", "zsh")
	t.Setenv("TOCER_PRUNE_EMPTY_DIRS", "false")
	t.Setenv("TOCER_WATCH_DEBOUNCE", "2s")
	t.Setenv("TOCER_PREAMBLE", "")

	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, "zsh", cfg.Shell)
	assert.False(t, cfg.PruneEmptyDirs)
	assert.Equal(t, 2*time.Second, cfg.Watch.Debounce)
	assert.Equal(t, "", cfg.Preamble)
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	path := writeConfig(t, "home_caption: ${TOCER_TEST_CAPTION}\n")
	dir := filepath.Dir(path)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TOCER_TEST_CAPTION=FromDotEnv\nTOCER_TEST_KEEP=dotenv\n"), 0o600))
	t.Setenv("TOCER_TEST_KEEP", "process")
	t.Cleanup(func() { _ = os.Unsetenv("TOCER_TEST_CAPTION") })

	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, "FromDotEnv", cfg.HomeCaption)
	assert.Equal(t, "process", os.Getenv("TOCER_TEST_KEEP"))
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"unknown key":        "shel: sh\n",
		"bad policy":         "on_command_failure: ignore\n",
		"bad log level":      "log_level: loud\n",
		"nested index name":  "index_name: docs/toc.md\n",
		"empty shell":        "shell: \"\"\n",
		"negative timeout":   "command_timeout: -1s\n",
		"bad tag name":       "tags:\n  code: \"my code\"\n",
		"duplicate tag name": "tags:\n  code: TOC\n",
		"malformed yaml":     "tags: [\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content), true)
			require.Error(t, err)
			assert.True(t, errors.HasCategory(err, errors.CategoryConfig), "got %v", err)
		})
	}
}

func TestLoad_InvalidEnvironmentOverride(t *testing.T) {
	t.Setenv("TOCER_GIT_AWARE", "maybe")
	_, err := Load(filepath.Join(t.TempDir(), FileName), false)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestLocate(t *testing.T) {
	path, explicit := Locate("custom.yaml", "docs/README.md")
	assert.Equal(t, "custom.yaml", path)
	assert.True(t, explicit)

	path, explicit = Locate("", filepath.Join("docs", "README.md"))
	assert.Equal(t, filepath.Join("docs", FileName), path)
	assert.False(t, explicit)

	path, _ = Locate("", "")
	assert.Equal(t, FileName, path)
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Init(path, "docs/README.md", false))

	cfg, err := Load(path, true)
	require.NoError(t, err)
	want := Default()
	want.TocFile = "docs/README.md"
	assert.Equal(t, want, cfg)

	err = Init(path, "README.md", false)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryAlreadyExists))

	require.NoError(t, Init(path, "README.md", true))
}

func TestNewLogger(t *testing.T) {
	cfg := Default()
	assert.False(t, cfg.NewLogger(os.Stderr, false).Enabled(t.Context(), LogLevelDebug.Slog()))
	assert.True(t, cfg.NewLogger(os.Stderr, true).Enabled(t.Context(), LogLevelDebug.Slog()))

	cfg.LogLevel = LogLevelError
	assert.False(t, cfg.NewLogger(os.Stderr, false).Enabled(t.Context(), LogLevelWarn.Slog()))
}
