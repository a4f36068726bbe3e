package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound  = errors.New("user not found")
	ErrDuplicate = errors.New("prediction already exists")
)
