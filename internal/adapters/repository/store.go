// Package repository defines the persistence gateway for users,
// matches and predictions.
package repository

import (
	"context"

	"github.com/scorecast/scorecast/internal/domain/model"
)

// PredictionView is the read shape for a user's prediction listing.
type PredictionView struct {
	MatchName string `json:"match_name"`
	Score     string `json:"score"`
}

// Store provides read/write access to the persisted state. All
// ordering guarantees are part of the contract: matches and prediction
// listings by ascending match id, users by points descending with
// ascending user id breaking ties.
type Store interface {
	// EnsureUser inserts the user row if absent. Existing rows are
	// left untouched.
	EnsureUser(ctx context.Context, userID int64) error

	// GetUser returns the user's profile. Returns ErrNotFound for an
	// unknown id.
	GetUser(ctx context.Context, userID int64) (model.User, error)

	// SetDisplayName stores the captured display name.
	SetDisplayName(ctx context.Context, userID int64, name string) error

	// AddPoints applies a settlement point delta to the user's total.
	AddPoints(ctx context.Context, userID int64, delta int) error

	// ListUsersByPoints returns all users ordered by points DESC,
	// then user id ASC.
	ListUsersByPoints(ctx context.Context) ([]model.User, error)

	// CountUsers returns the number of users tracked.
	CountUsers(ctx context.Context) (int, error)

	// AddMatch creates an active match and returns its id.
	AddMatch(ctx context.Context, name string) (int64, error)

	// SetMatchResult records the result and deactivates the match.
	SetMatchResult(ctx context.Context, matchID int64, result string) error

	// ListActiveMatches returns active matches ordered by match id.
	ListActiveMatches(ctx context.Context) ([]model.Match, error)

	// HasPrediction reports whether the user already predicted the match.
	HasPrediction(ctx context.Context, userID, matchID int64) (bool, error)

	// InsertPrediction atomically inserts the prediction if absent.
	// The existence check and insert are one transactional unit: of two
	// near-simultaneous submissions for the same (user, match) exactly
	// one succeeds and the other observes ErrDuplicate.
	InsertPrediction(ctx context.Context, userID, matchID int64, score string) error

	// ListPredictions returns the user's predictions as (match name,
	// score) pairs ordered by match id.
	ListPredictions(ctx context.Context, userID int64) ([]PredictionView, error)

	Close() error
}
