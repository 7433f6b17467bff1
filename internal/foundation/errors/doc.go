// Package errors provides the classified error type used across codex.
//
// Content problems in individual markdown files never surface here: they are
// recovered inside the tree builder. ClassifiedError covers caller-level
// failures such as a missing root directory, an unreadable config file or a
// failing output writer, and carries enough classification for the CLI and
// HTTP adapters to pick an exit code or status.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryFileSystem, "read root directory").
//		WithContext("root", root).
//		Build()
package errors
