// Package errors provides the classified error primitives used across
// docreflect.
//
// Errors carry a category (config, snapshot, validation, render, ...), a
// severity, and a retry strategy, plus free-form context. Service code builds
// them through the fluent ErrorBuilder; the CLI and preview-server adapters
// translate them into exit codes and HTTP responses at the edges.
//
// Example:
//
//	err := errors.WrapError(cause, errors.CategorySnapshot, "decode snapshot").
//		WithContext("path", path).
//		Build()
package errors
