package genrow

import "errors"

var (
	// ErrGeneration wraps a failure that happens while producing a row's
	// cells: a missing reference hit, an out-of-range copy target, an empty
	// cell in an allow_null false column, or anything else that is only
	// detectable once generation is underway rather than during analysis.
	ErrGeneration = errors.New("generation error")
)
