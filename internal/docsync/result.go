package docsync

import (
	"fmt"
	"time"
)

// Rename is a document relocated from one canonical path to another.
type Rename struct {
	From string
	To   string
}

// Result lists what a pass did. Paths are relative to the root document's
// directory, slash separated. In a dry run it lists what the pass would do.
type Result struct {
	RunID     string
	DryRun    bool
	Created   []string
	Renamed   []Rename
	Updated   []string
	Unchanged []string
	Pruned    []string
	Commands  int
	Duration  time.Duration
}

// Changed reports whether the pass touched the disk (or would have).
func (r *Result) Changed() bool {
	return len(r.Created)+len(r.Renamed)+len(r.Updated)+len(r.Pruned) > 0
}

// Summary is a one-line account of the pass.
func (r *Result) Summary() string {
	prefix := ""
	if r.DryRun {
		prefix = "dry run: "
	}
	return fmt.Sprintf("%screated %d, renamed %d, updated %d, unchanged %d, pruned %d, commands %d",
		prefix, len(r.Created), len(r.Renamed), len(r.Updated), len(r.Unchanged), len(r.Pruned), r.Commands)
}
