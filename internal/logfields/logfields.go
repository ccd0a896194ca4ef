package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyFile       = "file"
	KeyPath       = "path"
	KeyCategory   = "category"
	KeyPosts      = "posts"
	KeySkipped    = "skipped"
	KeyCategories = "categories"
	KeyMode       = "mode"
	KeyOutput     = "output"
	KeyTrigger    = "trigger"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Category(c string) slog.Attr     { return slog.String(KeyCategory, c) }
func Posts(n int) slog.Attr           { return slog.Int(KeyPosts, n) }
func Skipped(n int) slog.Attr         { return slog.Int(KeySkipped, n) }
func Categories(n int) slog.Attr      { return slog.Int(KeyCategories, n) }
func Mode(m string) slog.Attr         { return slog.String(KeyMode, m) }
func Output(p string) slog.Attr       { return slog.String(KeyOutput, p) }
func Trigger(t string) slog.Attr      { return slog.String(KeyTrigger, t) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
