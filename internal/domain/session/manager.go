package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/scorecast/scorecast/internal/adapters/repository"
	"github.com/scorecast/scorecast/internal/domain/model"
	"github.com/scorecast/scorecast/internal/domain/ranking"
	"github.com/scorecast/scorecast/internal/domain/score"
	"github.com/scorecast/scorecast/pkg/logger"
	"github.com/scorecast/scorecast/pkg/metrics"
)

const defaultLeaderboardSize = 10

// Store is the persistence capability the manager needs.
type Store interface {
	EnsureUser(ctx context.Context, userID int64) error
	GetUser(ctx context.Context, userID int64) (model.User, error)
	SetDisplayName(ctx context.Context, userID int64, name string) error
	ListActiveMatches(ctx context.Context) ([]model.Match, error)
	InsertPrediction(ctx context.Context, userID, matchID int64, score string) error
	ListPredictions(ctx context.Context, userID int64) ([]repository.PredictionView, error)
}

// Ranker computes leaderboard positions.
type Ranker interface {
	Rank(ctx context.Context, userID int64) (int, error)
	TopN(ctx context.Context, n int) ([]ranking.Entry, error)
}

// handlerFunc transforms (session, event) into reply directives. The
// session passed in is already locked for this user.
type handlerFunc func(ctx context.Context, s *Session, ev Event) ([]string, error)

// userSession pairs a session with its lock. The lock is held for the
// whole handling of an event, so two concurrent events for the same
// user cannot race on mode/cursor transitions.
type userSession struct {
	mu sync.Mutex
	s  Session
}

// Manager routes inbound events through per-user sessions.
type Manager struct {
	mu       sync.Mutex
	sessions map[int64]*userSession

	store           Store
	ranker          Ranker
	handlers        map[Action]handlerFunc
	leaderboardSize int
	logger          logger.Logger
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithLeaderboardSize sets how many entries the leaderboard reply shows.
func WithLeaderboardSize(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.leaderboardSize = n
		}
	}
}

// WithLogger sets a custom logger for the manager.
func WithLogger(l logger.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager constructs a Manager with its action dispatch table.
func NewManager(store Store, ranker Ranker, opts ...Option) *Manager {
	m := &Manager{
		sessions:        make(map[int64]*userSession),
		store:           store,
		ranker:          ranker,
		leaderboardSize: defaultLeaderboardSize,
		logger:          logger.Get().Named("session"),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.handlers = map[Action]handlerFunc{
		ActionStart:            m.handleStart,
		ActionProfile:          m.handleProfile,
		ActionViewMatches:      m.handleViewMatches,
		ActionViewMyPrediction: m.handleViewMyPrediction,
		ActionLeaderboard:      m.handleLeaderboard,
		ActionText:             m.handleText,
	}
	return m
}

// Handle processes one inbound event and returns the reply directives.
// A non-nil error always comes with a user-facing failure reply; the
// session state is left unchanged in that case so the user can retry.
func (m *Manager) Handle(ctx context.Context, ev Event) ([]string, error) {
	h, ok := m.handlers[ev.Action]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, ev.Action)
	}
	metrics.RecordSessionEvent(string(ev.Action))

	us := m.session(ev.UserID)
	us.mu.Lock()
	defer us.mu.Unlock()

	replies, err := h(ctx, &us.s, ev)
	if err != nil {
		m.logger.Error(ctx, "event handling failed",
			logger.Int64("user_id", ev.UserID),
			logger.String("action", string(ev.Action)),
			logger.Error(err),
		)
	}
	return replies, err
}

// Mode reports the user's current session mode. Users without a
// session are Idle.
func (m *Manager) Mode(userID int64) Mode {
	m.mu.Lock()
	us, ok := m.sessions[userID]
	m.mu.Unlock()
	if !ok {
		return Idle
	}
	us.mu.Lock()
	defer us.mu.Unlock()
	return us.s.mode
}

// Count returns the number of sessions currently tracked.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Evict drops a user's session. The next event recreates it lazily.
func (m *Manager) Evict(userID int64) {
	m.mu.Lock()
	delete(m.sessions, userID)
	metrics.UpdateActiveSessions(len(m.sessions))
	m.mu.Unlock()
}

// session returns the user's session, creating it on first contact.
func (m *Manager) session(userID int64) *userSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	us, ok := m.sessions[userID]
	if !ok {
		us = &userSession{s: Session{userID: userID}}
		m.sessions[userID] = us
		metrics.UpdateActiveSessions(len(m.sessions))
	}
	return us
}

// handleStart registers the user on first contact and either asks for
// a display name or shows the menu. An in-flight walkthrough is
// abandoned.
func (m *Manager) handleStart(ctx context.Context, s *Session, ev Event) ([]string, error) {
	if err := m.store.EnsureUser(ctx, ev.UserID); err != nil {
		return []string{msgGenericFailure}, fmt.Errorf("start: %w", err)
	}
	u, err := m.store.GetUser(ctx, ev.UserID)
	if err != nil {
		return []string{msgGenericFailure}, fmt.Errorf("start: %w", err)
	}
	s.reset()
	if u.DisplayName == "" {
		s.mode = AwaitingName
		return []string{msgAskName}, nil
	}
	return []string{msgMenu}, nil
}

func (m *Manager) handleProfile(ctx context.Context, s *Session, ev Event) ([]string, error) {
	if s.mode != Idle {
		return []string{msgStepPending}, nil
	}
	u, err := m.store.GetUser(ctx, ev.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return []string{msgProfileNotFound}, nil
	}
	if err != nil {
		return []string{msgGenericFailure}, fmt.Errorf("profile: %w", err)
	}
	rank, err := m.ranker.Rank(ctx, ev.UserID)
	if err != nil {
		return []string{msgGenericFailure}, fmt.Errorf("profile: %w", err)
	}
	return []string{profileReply(u.DisplayName, u.ID, u.Points, rank)}, nil
}

// handleViewMatches snapshots the active matches and starts the
// walkthrough. An empty snapshot leaves the session Idle.
func (m *Manager) handleViewMatches(ctx context.Context, s *Session, ev Event) ([]string, error) {
	if s.mode != Idle {
		return []string{msgStepPending}, nil
	}
	matches, err := m.store.ListActiveMatches(ctx)
	if err != nil {
		return []string{msgGenericFailure}, fmt.Errorf("view matches: %w", err)
	}
	if len(matches) == 0 {
		return []string{msgNoActiveMatches}, nil
	}
	queue := make([]queuedMatch, len(matches))
	for i, mt := range matches {
		queue[i] = queuedMatch{id: mt.ID, name: mt.Name}
	}
	s.matchQueue = queue
	s.cursor = 0
	s.mode = AwaitingPrediction
	return []string{promptMatch(s.current().name)}, nil
}

func (m *Manager) handleViewMyPrediction(ctx context.Context, s *Session, ev Event) ([]string, error) {
	if s.mode != Idle {
		return []string{msgStepPending}, nil
	}
	views, err := m.store.ListPredictions(ctx, ev.UserID)
	if err != nil {
		return []string{msgGenericFailure}, fmt.Errorf("view my prediction: %w", err)
	}
	if len(views) == 0 {
		return []string{msgNoPredictions}, nil
	}
	return []string{predictionsReply(views)}, nil
}

func (m *Manager) handleLeaderboard(ctx context.Context, s *Session, ev Event) ([]string, error) {
	if s.mode != Idle {
		return []string{msgStepPending}, nil
	}
	entries, err := m.ranker.TopN(ctx, m.leaderboardSize)
	if err != nil {
		return []string{msgGenericFailure}, fmt.Errorf("leaderboard: %w", err)
	}
	if len(entries) == 0 {
		return []string{msgNoLeaderboard}, nil
	}
	return []string{leaderboardReply(entries)}, nil
}

// handleText interprets free text according to the current mode.
func (m *Manager) handleText(ctx context.Context, s *Session, ev Event) ([]string, error) {
	switch s.mode {
	case AwaitingName:
		return m.captureName(ctx, s, ev)
	case AwaitingPrediction:
		return m.capturePrediction(ctx, s, ev)
	default:
		return []string{msgUseMenu}, nil
	}
}

func (m *Manager) captureName(ctx context.Context, s *Session, ev Event) ([]string, error) {
	name := strings.TrimSpace(ev.Text)
	if name == "" {
		return []string{msgAskName}, nil
	}
	if err := m.store.SetDisplayName(ctx, ev.UserID, name); err != nil {
		return []string{msgGenericFailure}, fmt.Errorf("capture name: %w", err)
	}
	s.mode = Idle
	return []string{thanksReply(name), msgMenu}, nil
}

func (m *Manager) capturePrediction(ctx context.Context, s *Session, ev Event) ([]string, error) {
	sc, err := score.Parse(strings.TrimSpace(ev.Text))
	if err != nil {
		// Recovered locally: same cursor, same match, re-prompt.
		metrics.RecordPredictionInvalid()
		return []string{msgInvalidScore, promptMatch(s.current().name)}, nil
	}

	match := s.current()
	err = m.store.InsertPrediction(ctx, ev.UserID, match.id, sc.String())
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		// Abort the walkthrough: no advance, no further matches.
		metrics.RecordPredictionDuplicate()
		metrics.RecordWalkthroughAborted()
		s.reset()
		return []string{msgAlreadyPredicted}, nil
	case err != nil:
		// Session untouched so the user may retry the same step.
		return []string{msgGenericFailure}, fmt.Errorf("insert prediction: %w", err)
	}

	metrics.RecordPredictionInserted()
	s.cursor++
	if s.cursor < len(s.matchQueue) {
		return []string{promptMatch(s.current().name)}, nil
	}
	metrics.RecordWalkthroughCompleted()
	s.reset()
	return []string{msgWalkthroughDone}, nil
}
