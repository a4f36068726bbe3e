// Package session drives the per-user prediction-collection workflow
// as a small conversational state machine.
package session

// Mode is the conversational state of a user's session.
type Mode int

const (
	// Idle means no input is pending; menu actions are available.
	Idle Mode = iota
	// AwaitingName means the next free text is stored as display name.
	AwaitingName
	// AwaitingPrediction means the next free text is a score for the
	// match under the cursor.
	AwaitingPrediction
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case AwaitingName:
		return "awaiting_name"
	case AwaitingPrediction:
		return "awaiting_prediction"
	default:
		return "unknown"
	}
}

// Action is a logical action tag delivered by the external transport.
type Action string

const (
	ActionStart            Action = "start"
	ActionProfile          Action = "profile"
	ActionViewMatches      Action = "view_matches"
	ActionViewMyPrediction Action = "view_my_prediction"
	ActionLeaderboard      Action = "leaderboard"
	// ActionText carries free text; its meaning depends on the mode.
	ActionText Action = "text"
)

// Event is one inbound conversation event.
type Event struct {
	UserID int64
	Action Action
	Text   string
}

// queuedMatch is one entry of the walkthrough snapshot. The snapshot
// is immutable for the lifetime of a walkthrough; later changes to
// match activity do not affect it.
type queuedMatch struct {
	id   int64
	name string
}

// Session holds the conversational state for one user.
type Session struct {
	userID     int64
	mode       Mode
	matchQueue []queuedMatch
	cursor     int
}

// reset returns the session to Idle and drops any walkthrough state.
func (s *Session) reset() {
	s.mode = Idle
	s.matchQueue = nil
	s.cursor = 0
}

// current returns the match under the cursor.
func (s *Session) current() queuedMatch {
	return s.matchQueue[s.cursor]
}
