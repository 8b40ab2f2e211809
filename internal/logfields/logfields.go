package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyReflection = "reflection"
	KeyKind       = "kind"
	KeyEvent      = "event"
	KeyListener   = "listener"
	KeyPriority   = "priority"
	KeyPage       = "page"
	KeyURL        = "url"
	KeyPath       = "path"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyTheme      = "theme"
	KeySubject    = "subject"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Reflection(name string) slog.Attr { return slog.String(KeyReflection, name) }
func Kind(k string) slog.Attr         { return slog.String(KeyKind, k) }
func Event(name string) slog.Attr     { return slog.String(KeyEvent, name) }
func Listener(name string) slog.Attr  { return slog.String(KeyListener, name) }
func Priority(p int) slog.Attr        { return slog.Int(KeyPriority, p) }
func Page(url string) slog.Attr       { return slog.String(KeyPage, url) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Theme(name string) slog.Attr     { return slog.String(KeyTheme, name) }
func Subject(s string) slog.Attr      { return slog.String(KeySubject, s) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
