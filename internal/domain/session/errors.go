package session

import "errors"

// Sentinel kinds for session errors.
var (
	ErrUnknownAction = errors.New("unknown action")
)
