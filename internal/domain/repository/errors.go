package repository

import "errors"

var (
	// ErrUpstreamStatus is returned when the media host answers with a non-success status.
	ErrUpstreamStatus = errors.New("upstream returned non-success status")

	// ErrUpstreamUnavailable is returned when the media host cannot be reached.
	ErrUpstreamUnavailable = errors.New("upstream request failed")
)
