package errors

// Package errors provides sentinel errors for markdown discovery.
// These enable consistent classification of discovery failures by callers.

import "errors"

var (
	// ErrRootNotFound indicates the configured root directory does not exist.
	ErrRootNotFound = errors.New("documentation root not found")

	// ErrRootNotDirectory indicates the configured root is a file.
	ErrRootNotDirectory = errors.New("documentation root is not a directory")

	// ErrDocsDirWalkFailed indicates filesystem traversal of the root failed.
	ErrDocsDirWalkFailed = errors.New("documentation directory walk failed")

	// ErrInvalidRelativePath indicates calculating a path relative to the root failed.
	ErrInvalidRelativePath = errors.New("invalid relative path calculation")
)
