package errors

import "maps"

// ErrorCategory is the broad classification used for routing and reporting.
type ErrorCategory string

const (
	// CategoryConfig covers configuration files and CLI input.
	CategoryConfig     ErrorCategory = "config"
	CategorySnapshot   ErrorCategory = "snapshot"
	CategoryValidation ErrorCategory = "validation"
	CategoryNotFound   ErrorCategory = "not_found"

	// CategoryRender covers the event pipeline and page generation.
	CategoryRender ErrorCategory = "render"
	CategoryTheme  ErrorCategory = "theme"

	// CategoryStorage covers the event journal and other local persistence.
	CategoryStorage    ErrorCategory = "storage"
	CategoryFileSystem ErrorCategory = "filesystem"

	// CategoryNetwork covers external reporting targets.
	CategoryNetwork ErrorCategory = "network"
	CategoryGit     ErrorCategory = "git"

	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates the impact of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // stops the run
	SeverityError   ErrorSeverity = "error"   // fails the current operation
	SeverityWarning ErrorSeverity = "warning" // run continues degraded
	SeverityInfo    ErrorSeverity = "info"    // informational only
)

// RetryStrategy indicates whether retrying the failed operation can help.
type RetryStrategy string

const (
	RetryNever      RetryStrategy = "never"
	RetryImmediate  RetryStrategy = "immediate"
	RetryBackoff    RetryStrategy = "backoff"
	RetryUserAction RetryStrategy = "user"
)

// ErrorContext carries structured key-value context on an error.
type ErrorContext map[string]any

// Set adds or updates a context value, allocating on first use.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}

// Get retrieves a context value.
func (c ErrorContext) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	value, exists := c[key]
	return value, exists
}

// GetString retrieves a string context value.
func (c ErrorContext) GetString(key string) (string, bool) {
	if value, exists := c.Get(key); exists {
		if str, ok := value.(string); ok {
			return str, true
		}
	}
	return "", false
}

// Merge combines two contexts, with other taking precedence.
func (c ErrorContext) Merge(other ErrorContext) ErrorContext {
	if c == nil {
		return other
	}
	if other == nil {
		return c
	}
	result := make(ErrorContext)
	maps.Copy(result, c)
	maps.Copy(result, other)
	return result
}
