// Package score validates and parses prediction score text.
package score

import (
	"fmt"
	"strconv"
	"strings"
)

// Score is a parsed match score prediction.
type Score struct {
	Home int
	Away int
}

// String renders the canonical "X-Y" form.
func (s Score) String() string {
	return fmt.Sprintf("%d-%d", s.Home, s.Away)
}

// Parse classifies text as a valid score or ErrInvalidFormat. A valid
// score is exactly two non-negative integers separated by a single '-',
// e.g. "2-1". Parse has no side effects.
func Parse(text string) (Score, error) {
	home, away, ok := strings.Cut(text, "-")
	if !ok {
		return Score{}, ErrInvalidFormat
	}
	h, err := parseGoals(home)
	if err != nil {
		return Score{}, err
	}
	a, err := parseGoals(away)
	if err != nil {
		return Score{}, err
	}
	return Score{Home: h, Away: a}, nil
}

// parseGoals accepts only plain decimal digits; strconv alone would
// also admit signs and surrounding whitespace-free forms like "+1".
func parseGoals(s string) (int, error) {
	if s == "" {
		return 0, ErrInvalidFormat
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, ErrInvalidFormat
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, ErrInvalidFormat
	}
	return n, nil
}
