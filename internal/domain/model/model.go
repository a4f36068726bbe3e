// Package model contains domain models passed between layers.
package model

// User is a registered participant. Points are mutated only by the
// external settlement process, never by the prediction workflow.
type User struct {
	ID          int64
	DisplayName string // empty until captured on first contact
	Points      int
}

// Match is a fixture users may predict while it is active.
type Match struct {
	ID     int64
	Name   string
	Result string // empty until settled
	Active bool
}

// Prediction is a user's score guess for a match. The (UserID, MatchID)
// pair is unique and a prediction is immutable once written.
type Prediction struct {
	UserID  int64
	MatchID int64
	Score   string // canonical "X-Y" form
}

// Award is a settlement point delta delivered by the external
// settlement process. EventID makes delivery idempotent.
type Award struct {
	EventID string
	UserID  int64
	Delta   int
}
