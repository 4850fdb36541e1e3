package domain

import "errors"

var (
	// ErrSourceUnreachable marks a dimension whose source failed or timed out
	ErrSourceUnreachable = errors.New("dimension source unreachable")
	// ErrShapeMismatch marks a document that does not fit its dimension's shape
	ErrShapeMismatch = errors.New("dimension document shape mismatch")
	// ErrEmptyDimension marks a document with nothing to measure
	ErrEmptyDimension = errors.New("dimension has no measurable data")
	// ErrInventoryUnavailable is returned when no dimension source could be reached
	ErrInventoryUnavailable = errors.New("asset inventory unavailable")
	ErrInvalidGroupKey      = errors.New("invalid grouping key")
	ErrUnknownDimension     = errors.New("unknown dimension")
)
