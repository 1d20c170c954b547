package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyPath       = "path"
	KeyOldPath    = "old_path"
	KeyNewPath    = "new_path"
	KeyCaption    = "caption"
	KeyTag        = "tag"
	KeyLanguage   = "language"
	KeyLine       = "line"
	KeyDurationMS = "duration_ms"
	KeyExitCode   = "exit_code"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr          { return slog.String(KeyRunID, id) }
func Path(p string) slog.Attr            { return slog.String(KeyPath, p) }
func OldPath(p string) slog.Attr         { return slog.String(KeyOldPath, p) }
func NewPath(p string) slog.Attr         { return slog.String(KeyNewPath, p) }
func Caption(c string) slog.Attr         { return slog.String(KeyCaption, c) }
func Tag(name string) slog.Attr          { return slog.String(KeyTag, name) }
func Language(lang string) slog.Attr     { return slog.String(KeyLanguage, lang) }
func Line(index int) slog.Attr           { return slog.Int(KeyLine, index) }
func ExitCode(code int) slog.Attr        { return slog.Int(KeyExitCode, code) }
func Duration(d time.Duration) slog.Attr { return slog.Int64(KeyDurationMS, d.Milliseconds()) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
