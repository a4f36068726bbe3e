package ranking

import "errors"

// Sentinel kinds for ranking errors.
var (
	ErrNotFound     = errors.New("user not ranked")
	ErrInvalidLimit = errors.New("invalid leaderboard limit")
)
