// Package geometry converts OFF-layout polyhedral mesh data (flat vertex
// list, winding-order index list, face-offset list, optional per-face
// detector assignment) into queryable detector shapes.
package geometry

import "errors"

// Conversion errors. Every failure wraps one of these; the conversion is
// all-or-nothing and produces no partial results.
var (
	ErrShape        = errors.New("malformed field shape")
	ErrIndex        = errors.New("index out of range")
	ErrMissingField = errors.New("missing mandatory field")
)
