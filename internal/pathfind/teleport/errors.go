package teleport

import "errors"

var (
	// ErrMissingKey is returned when a saved tunnel lacks a mandatory attribute
	ErrMissingKey = errors.New("missing mandatory key")
	// ErrChildCount is returned when a tunnel does not have exactly one source, target and filter child
	ErrChildCount = errors.New("wrong child count")
)
