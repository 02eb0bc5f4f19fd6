package lms

import "errors"

// Sentinel kinds for course-service errors.
var (
	// ErrTransport covers network failures and non-success statuses.
	// Always recovered locally by callers; never fatal to the sweep.
	ErrTransport = errors.New("course service request failed")
)
