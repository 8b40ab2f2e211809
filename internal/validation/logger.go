package validation

import (
	"log/slog"

	"git.home.luguber.info/inful/docreflect/internal/logfields"
)

// SlogLogger routes diagnostics to a slog.Logger with canonical attributes.
type SlogLogger struct {
	Log *slog.Logger
}

func (s SlogLogger) Warn(msg string) {
	s.logger().Warn(msg)
}

func (s SlogLogger) WarnDiagnostic(d Diagnostic) {
	attrs := []any{
		slog.String("source", string(d.Source)),
		logfields.Subject(d.Link),
		logfields.Reflection(d.Reflection),
	}
	if d.Suggestion != "" {
		attrs = append(attrs, slog.String("suggestion", d.Suggestion))
	}
	s.logger().Warn(d.Message, attrs...)
}

func (s SlogLogger) logger() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}
