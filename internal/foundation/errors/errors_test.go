package errors

import (
	"errors"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("basic creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "docreflect.yaml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "invalid configuration" {
			t.Errorf("expected message 'invalid configuration', got %s", err.Message())
		}

		file, exists := err.Context().GetString("file")
		if !exists || file != "docreflect.yaml" {
			t.Errorf("expected context file=docreflect.yaml, got %v", file)
		}
	})

	t.Run("detection", func(t *testing.T) {
		err := ConfigError("test error").Build()

		if !HasCategory(err, CategoryConfig) {
			t.Error("expected error to have config category")
		}
		if err.CanRetry() {
			t.Error("expected config error to not be retryable")
		}
		if !err.IsFatal() {
			t.Error("expected config error to be fatal")
		}
	})

	t.Run("with context copies", func(t *testing.T) {
		base := ValidationError("broken link").Build()
		extended := base.WithContext("reflection", "api.connect")

		if _, ok := base.Context().Get("reflection"); ok {
			t.Error("WithContext must not mutate the original error")
		}
		name, _ := extended.Context().GetString("reflection")
		if name != "api.connect" {
			t.Errorf("expected reflection context, got %q", name)
		}
	})
}

func TestErrorBuilder(t *testing.T) {
	t.Run("fluent wrap", func(t *testing.T) {
		originalErr := errors.New("connection refused")
		err := WrapError(originalErr, CategoryNetwork, "publish broken link report").
			Warning().
			Retryable().
			WithContext("subject", "docs.links.broken").
			Build()

		if err.Category() != CategoryNetwork {
			t.Errorf("expected category %s, got %s", CategoryNetwork, err.Category())
		}
		if err.Severity() != SeverityWarning {
			t.Errorf("expected severity %s, got %s", SeverityWarning, err.Severity())
		}
		if err.RetryStrategy() != RetryBackoff {
			t.Errorf("expected retry strategy %s, got %s", RetryBackoff, err.RetryStrategy())
		}
		if !errors.Is(err, originalErr) {
			t.Error("expected error to wrap original error")
		}

		subject, _ := err.Context().GetString("subject")
		if subject != "docs.links.broken" {
			t.Errorf("expected subject context, got %s", subject)
		}
	})

	t.Run("convenience constructors", func(t *testing.T) {
		tests := []struct {
			name     string
			builder  *ErrorBuilder
			category ErrorCategory
			severity ErrorSeverity
			retry    RetryStrategy
		}{
			{"ConfigError", ConfigError("test"), CategoryConfig, SeverityFatal, RetryUserAction},
			{"SnapshotError", SnapshotError("test"), CategorySnapshot, SeverityFatal, RetryUserAction},
			{"ValidationError", ValidationError("test"), CategoryValidation, SeverityError, RetryNever},
			{"RenderError", RenderError("test"), CategoryRender, SeverityFatal, RetryNever},
			{"ThemeError", ThemeError("test"), CategoryTheme, SeverityFatal, RetryNever},
			{"StorageError", StorageError("test"), CategoryStorage, SeverityError, RetryBackoff},
			{"FileSystemError", FileSystemError("test"), CategoryFileSystem, SeverityError, RetryBackoff},
			{"NetworkError", NetworkError("test"), CategoryNetwork, SeverityError, RetryBackoff},
			{"GitError", GitError("test"), CategoryGit, SeverityWarning, RetryNever},
			{"NotFoundError", NotFoundError("test"), CategoryNotFound, SeverityError, RetryNever},
			{"InternalError", InternalError("test"), CategoryInternal, SeverityFatal, RetryNever},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.builder.Build()
				if err.Category() != tt.category {
					t.Errorf("expected category %s, got %s", tt.category, err.Category())
				}
				if err.Severity() != tt.severity {
					t.Errorf("expected severity %s, got %s", tt.severity, err.Severity())
				}
				if err.RetryStrategy() != tt.retry {
					t.Errorf("expected retry strategy %s, got %s", tt.retry, err.RetryStrategy())
				}
			})
		}
	})
}

func TestErrorContext(t *testing.T) {
	t.Run("operations", func(t *testing.T) {
		var ctx ErrorContext
		ctx = ctx.Set("key1", "value1")
		ctx = ctx.Set("key2", 42)

		value1, exists1 := ctx.GetString("key1")
		if !exists1 || value1 != "value1" {
			t.Errorf("expected key1=value1, got %v", value1)
		}

		value2, exists2 := ctx.Get("key2")
		if !exists2 || value2 != 42 {
			t.Errorf("expected key2=42, got %v", value2)
		}

		if _, exists := ctx.Get("nonexistent"); exists {
			t.Error("expected nonexistent key to not exist")
		}
	})

	t.Run("merge", func(t *testing.T) {
		ctx1 := ErrorContext{"key1": "value1", "shared": "original"}
		ctx2 := ErrorContext{"key2": "value2", "shared": "overridden"}

		merged := ctx1.Merge(ctx2)

		if v, _ := merged.GetString("key1"); v != "value1" {
			t.Errorf("expected key1=value1, got %s", v)
		}
		if v, _ := merged.GetString("key2"); v != "value2" {
			t.Errorf("expected key2=value2, got %s", v)
		}
		if v, _ := merged.GetString("shared"); v != "overridden" {
			t.Errorf("expected shared=overridden, got %s", v)
		}
	})
}
