package stash

import "errors"

var (
	// ErrTypeMismatch is returned when an object name is re-recorded with a
	// different object type.
	ErrTypeMismatch = errors.New("stash: object type mismatch")

	// ErrMissingAttr is returned when a frame declaration lacks one of its
	// required attributes.
	ErrMissingAttr = errors.New("stash: missing attribute")
)
