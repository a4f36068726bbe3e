package score

import "errors"

// ErrInvalidFormat reports score text that is not "<int>-<int>" with
// both integers non-negative.
var ErrInvalidFormat = errors.New("invalid score format")
