package tutorial

import "errors"

var (
	// ErrUnknownTask is returned when a task name was never declared.
	ErrUnknownTask = errors.New("tutorial: unknown task")

	// ErrNoContent is returned when a task has no content for the requested
	// variant (and no ALL fallback).
	ErrNoContent = errors.New("tutorial: no content")
)
