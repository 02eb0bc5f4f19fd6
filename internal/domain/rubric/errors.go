package rubric

import "errors"

// Sentinel kinds for rubric errors.
var (
	// ErrUngradable marks a submission whose format prevents grading.
	// It maps to a Skipped outcome, never to a posted zero.
	ErrUngradable = errors.New("submission is ungradable")
)
