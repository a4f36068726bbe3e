// Package ranking computes leaderboard ordering and per-user rank.
package ranking

import (
	"context"
	"fmt"

	"github.com/scorecast/scorecast/internal/domain/model"
)

// Lister is the store capability the engine needs: the full user list
// in the deterministic leaderboard order (points DESC, user id ASC).
type Lister interface {
	ListUsersByPoints(ctx context.Context) ([]model.User, error)
}

// Entry is a leaderboard row.
type Entry struct {
	Rank        int    `json:"rank"`
	UserID      int64  `json:"user_id"`
	DisplayName string `json:"display_name"`
	Points      int    `json:"points"`
}

// Engine derives ranks from the store's leaderboard order. Rank is the
// 1-based position in that total order; equal-points users get
// distinct consecutive ranks because the order breaks ties by user id.
type Engine struct {
	store Lister
}

// New constructs an Engine reading from store.
func New(store Lister) *Engine {
	return &Engine{store: store}
}

// Rank returns the 1-based leaderboard position of userID.
// Returns ErrNotFound for an unknown user.
func (e *Engine) Rank(ctx context.Context, userID int64) (int, error) {
	users, err := e.store.ListUsersByPoints(ctx)
	if err != nil {
		return 0, fmt.Errorf("rank: %w", err)
	}
	for i, u := range users {
		if u.ID == userID {
			return i + 1, nil
		}
	}
	return 0, ErrNotFound
}

// TopN returns the first n leaderboard entries.
func (e *Engine) TopN(ctx context.Context, n int) ([]Entry, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}
	users, err := e.store.ListUsersByPoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("topn: %w", err)
	}
	if n > len(users) {
		n = len(users)
	}
	entries := make([]Entry, n)
	for i := 0; i < n; i++ {
		entries[i] = Entry{
			Rank:        i + 1,
			UserID:      users[i].ID,
			DisplayName: users[i].DisplayName,
			Points:      users[i].Points,
		}
	}
	return entries, nil
}
