package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"strconv"

	"git.home.luguber.info/inful/tocer/internal/foundation/errors"
	"git.home.luguber.info/inful/tocer/internal/tags"
)

// Template renders a commented configuration file holding the defaults.
func Template(tocFile string) string {
	if tocFile == "" {
		tocFile = DefaultTocFile
	}
	d := Default()
	names := tags.DefaultNames()
	return `# tocer configuration. Environment variables: TOCER_<KEY>, e.g. TOCER_SHELL.
# ${VAR} references are expanded when the file is loaded, except in preamble.

# Root document holding the table of contents.
toc_file: ` + strconv.Quote(tocFile) + `

# Index document of every topic with sub-topics. Empty means the root document's name.
index_name: ""

# Prepended to every code tag script and passed to the shell as written.
# The default sources ~/.bashrc when present.
preamble: ` + strconv.Quote(d.Preamble) + `
shell: ` + d.Shell + `
command_timeout: 0s
# fail: abort the run when a code tag exits non-zero. embed: keep its output and continue.
on_command_failure: ` + string(d.OnCommandFailure) + `

# When set, breadcrumbs start with a link to the root document.
home_caption: ""

# Move tracked documents through the git index.
git_aware: true
prune_empty_dirs: true

log_level: ` + string(d.LogLevel) + `
log_format: ` + string(d.LogFormat) + `

# Prometheus textfile written after every pass.
metrics_file: ""

watch:
  debounce: ` + d.Watch.Debounce.String() + `
  # Re-run periodically to refresh code tag output. 0s disables it.
  interval: 0s

tags:
  toc: ` + names.Toc + `
  header: ` + names.Header + `
  subtopic: ` + names.SubTopic + `
  code: ` + names.Code + `
`
}

// Init writes Template to path. An existing file is kept unless force is set.
func Init(path, tocFile string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.AlreadyExistsError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).
			Build()
	} else if err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return errors.FileSystemError("failed to inspect configuration file").
			WithCause(err).
			WithContext("path", path).
			Build()
	}

	// #nosec G306 -- configuration is meant to be committed alongside the docs.
	if err := os.WriteFile(path, []byte(Template(tocFile)), 0o644); err != nil {
		return errors.FileSystemError("failed to write configuration file").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return nil
}
