package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyPageID     = "page_id"
	KeyBlockID    = "block_id"
	KeyTemplate   = "template"
	KeyPages      = "pages"
	KeyBlocks     = "blocks"
	KeyRoots      = "roots"
	KeySubject    = "subject"
	KeyStatus     = "status"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func File(f string) slog.Attr          { return slog.String(KeyFile, f) }
func PageID(id string) slog.Attr       { return slog.String(KeyPageID, id) }
func BlockID(id string) slog.Attr      { return slog.String(KeyBlockID, id) }
func Template(name string) slog.Attr   { return slog.String(KeyTemplate, name) }
func Pages(n int) slog.Attr            { return slog.Int(KeyPages, n) }
func Blocks(n int) slog.Attr           { return slog.Int(KeyBlocks, n) }
func Roots(n int) slog.Attr            { return slog.Int(KeyRoots, n) }
func Subject(s string) slog.Attr       { return slog.String(KeySubject, s) }
func Status(s string) slog.Attr        { return slog.String(KeyStatus, s) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
