package score

import (
	"errors"
	"testing"
)

func TestParse_Valid(t *testing.T) {
	cases := []struct {
		in         string
		home, away int
	}{
		{"2-1", 2, 1},
		{"0-0", 0, 0},
		{"10-3", 10, 3},
		{"42-0", 42, 0},
		{"007-1", 7, 1},
	}
	for _, c := range cases {
		got, err := Parse(c.in)
		if err != nil {
			t.Errorf("Parse(%q): unexpected error %v", c.in, err)
			continue
		}
		if got.Home != c.home || got.Away != c.away {
			t.Errorf("Parse(%q) = %+v, want %d-%d", c.in, got, c.home, c.away)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	cases := []string{
		"",
		"2",
		"2-",
		"-1",
		"-1-2",
		"2-1-3",
		"2–1", // en dash
		"2—1", // em dash
		"abc",
		"a-b",
		"2 - 1",
		" 2-1",
		"2-1 ",
		"+2-1",
		"2--1",
		"2.0-1",
	}
	for _, in := range cases {
		if _, err := Parse(in); !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("Parse(%q): want ErrInvalidFormat, got %v", in, err)
		}
	}
}

func TestScore_String(t *testing.T) {
	s := Score{Home: 2, Away: 1}
	if s.String() != "2-1" {
		t.Errorf("String() = %q, want %q", s.String(), "2-1")
	}
}

// Parsing then rendering must yield a parseable canonical form.
func TestParse_Canonical(t *testing.T) {
	got, err := Parse("03-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "3-2" {
		t.Errorf("canonical form = %q, want %q", got.String(), "3-2")
	}
}
