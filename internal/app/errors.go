package app

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted     = errors.New("service not started")
	ErrDuplicateAward = errors.New("award already processed")
	ErrBackpressure   = errors.New("award queue full")
)
