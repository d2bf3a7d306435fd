package domain

import "errors"

var (
	// ErrNotFound is returned by repositories when no row matches.
	ErrNotFound = errors.New("not found")

	// ErrInvalidRange indicates a start date after its end date.
	ErrInvalidRange = errors.New("start date is after end date")

	// ErrMissingDates indicates a sub-intervention without both dates.
	ErrMissingDates = errors.New("start and end dates are required")
)
