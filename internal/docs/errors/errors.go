package errors

// Package errors provides sentinel errors for post discovery operations.
// These enable consistent classification of discovery and read failures.

import "errors"

var (
	// ErrPostsRootNotFound indicates the configured posts directory does not exist.
	ErrPostsRootNotFound = errors.New("posts directory not found")

	// ErrPostsRootNotDir indicates the configured posts path is not a directory.
	ErrPostsRootNotDir = errors.New("posts path is not a directory")

	// ErrPostsWalkFailed indicates filesystem traversal of the posts directory failed.
	ErrPostsWalkFailed = errors.New("posts directory walk failed")

	// ErrFileReadFailed indicates reading a discovered post failed.
	ErrFileReadFailed = errors.New("post file read failed")

	// ErrInvalidRelativePath indicates calculating a path relative to the posts root failed.
	ErrInvalidRelativePath = errors.New("invalid relative path calculation")
)
