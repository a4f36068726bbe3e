package api

import "errors"

var (
	// ErrInvalidUserID indicates a missing or non-positive user id.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidLimit indicates a malformed or out-of-range limit parameter.
	ErrInvalidLimit = errors.New("invalid limit")

	// ErrInvalidMatchID indicates a malformed match id in the path.
	ErrInvalidMatchID = errors.New("invalid match id")

	// ErrEmptyField indicates a required request field was empty.
	ErrEmptyField = errors.New("required field is empty")
)
