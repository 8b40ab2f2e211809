package errors

import (
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: 0,
		},
		{
			name:     "config error",
			err:      ConfigError("bad config").Build(),
			expected: 2,
		},
		{
			name:     "snapshot error",
			err:      SnapshotError("bad snapshot").Build(),
			expected: 3,
		},
		{
			name:     "validation error",
			err:      ValidationError("broken links").Build(),
			expected: 4,
		},
		{
			name:     "render error",
			err:      RenderError("listener failed").Build(),
			expected: 5,
		},
		{
			name:     "storage error",
			err:      StorageError("journal write").Build(),
			expected: 7,
		},
		{
			name:     "network error",
			err:      NetworkError("nats publish").Build(),
			expected: 8,
		},
		{
			name:     "unclassified error",
			err:      &customError{msg: "unknown error"},
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := adapter.ExitCodeFor(tt.err)
			if got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, slog.Default())
	verbose := NewCLIErrorAdapter(true, slog.Default())

	if got := quiet.FormatError(nil); got != "" {
		t.Errorf("FormatError(nil) = %q, want empty", got)
	}

	classified := RenderError("listener failed").Build()
	if got := quiet.FormatError(classified); !strings.Contains(got, "listener failed") || !strings.Contains(got, "-v") {
		t.Errorf("non-verbose format = %q", got)
	}
	if got := verbose.FormatError(classified); !strings.Contains(got, "[render:fatal]") {
		t.Errorf("verbose format should carry the classification, got %q", got)
	}

	plain := &customError{msg: "unknown error"}
	if got := quiet.FormatError(plain); got != "Error: unknown error" {
		t.Errorf("unclassified format = %q", got)
	}
}

// customError is a test helper for unclassified errors.
type customError struct {
	msg string
}

func (e *customError) Error() string {
	return e.msg
}
