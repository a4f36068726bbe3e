// Package app provides the core service that wires the prediction
// workflow, the store, ranking and the settlement pipe together.
package app

import (
	"context"
	"fmt"
	"sync"

	awardqueue "github.com/scorecast/scorecast/internal/adapters/mq/queue"
	workerpool "github.com/scorecast/scorecast/internal/adapters/mq/worker"
	"github.com/scorecast/scorecast/internal/adapters/repository"
	"github.com/scorecast/scorecast/internal/domain/dedupe"
	"github.com/scorecast/scorecast/internal/domain/model"
	"github.com/scorecast/scorecast/internal/domain/ranking"
	"github.com/scorecast/scorecast/internal/domain/session"
	"github.com/scorecast/scorecast/pkg/logger"
	"github.com/scorecast/scorecast/pkg/metrics"
)

// Service implements the dependencies of the HTTP transport adapter.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.Store
	sessions *session.Manager
	ranker   *ranking.Engine
	deduper  dedupe.Deduper
	queue    *awardqueue.InMemoryQueue
	pool     *workerpool.Pool

	// Configuration
	dbPath          string
	queueSize       int
	workerCount     int
	dedupeSize      int
	leaderboardSize int

	// State
	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDBPath sets the SQLite database location.
func WithDBPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.dbPath = path
		}
	}
}

// WithQueueSize bounds the settlement award queue.
func WithQueueSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.queueSize = n
		}
	}
}

// WithWorkerCount sets the number of award workers.
func WithWorkerCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workerCount = n
		}
	}
}

// WithDedupeSize bounds the settlement idempotency window.
func WithDedupeSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.dedupeSize = n
		}
	}
}

// WithLeaderboardSize sets the leaderboard reply length.
func WithLeaderboardSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.leaderboardSize = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dbPath:          "scorecast.db",
		queueSize:       10_000,
		workerCount:     4,
		dedupeSize:      50_000,
		leaderboardSize: 10,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens the store and launches the settlement pipe.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("app")
	}

	store, err := repository.Open(s.dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	s.store = store

	s.ranker = ranking.New(s.store)
	s.sessions = session.NewManager(s.store, s.ranker,
		session.WithLeaderboardSize(s.leaderboardSize),
	)
	s.deduper = dedupe.New(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = awardqueue.New(awardqueue.WithCapacity(s.queueSize))
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.store)
	// Workers must outlive the caller's context: shutdown closes the
	// queue and drains it before they exit, and a canceled signal
	// context would drop accepted awards instead.
	s.pool.Start(context.WithoutCancel(ctx))

	s.started = true
	s.logger.Info(ctx, "service started",
		logger.String("db_path", s.dbPath),
		logger.Int("workers", s.workerCount),
		logger.Int("queue_size", s.queueSize),
	)
	return nil
}

// Stop drains the settlement pipe and closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping service...")

	// Close the queue first so workers drain remaining awards.
	_ = s.queue.Close()
	s.pool.Wait()
	s.pool.Stop()

	if err := s.store.Close(); err != nil {
		s.logger.Error(ctx, "store close failed", logger.Error(err))
	}

	s.started = false
	s.logger.Info(ctx, "service stopped")
}

func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// Handle routes one conversation event through the session manager and
// returns the reply directives.
func (s *Service) Handle(ctx context.Context, ev session.Event) ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.sessions.Handle(ctx, ev)
}

// TopN returns the top n leaderboard entries.
func (s *Service) TopN(ctx context.Context, n int) ([]ranking.Entry, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.ranker.TopN(ctx, n)
}

// Rank returns the leaderboard entry for a single user.
func (s *Service) Rank(ctx context.Context, userID int64) (ranking.Entry, error) {
	if err := s.ready(); err != nil {
		return ranking.Entry{}, err
	}
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return ranking.Entry{}, err
	}
	rank, err := s.ranker.Rank(ctx, userID)
	if err != nil {
		return ranking.Entry{}, err
	}
	return ranking.Entry{
		Rank:        rank,
		UserID:      u.ID,
		DisplayName: u.DisplayName,
		Points:      u.Points,
	}, nil
}

// Predictions lists a user's predictions ordered by match id.
func (s *Service) Predictions(ctx context.Context, userID int64) ([]repository.PredictionView, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.store.ListPredictions(ctx, userID)
}

// CreateMatch adds an active match and returns its id.
func (s *Service) CreateMatch(ctx context.Context, name string) (int64, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	return s.store.AddMatch(ctx, name)
}

// SettleMatch records a result and deactivates the match. In-progress
// walkthroughs keep their snapshot and may still predict it.
func (s *Service) SettleMatch(ctx context.Context, matchID int64, result string) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.store.SetMatchResult(ctx, matchID, result)
}

// SubmitAward queues a settlement point delta for asynchronous
// application. Delivery is idempotent per Award.EventID within the
// dedupe window.
func (s *Service) SubmitAward(ctx context.Context, a model.Award) error {
	if err := s.ready(); err != nil {
		return err
	}
	if s.deduper.SeenAndRecord(ctx, a.EventID) {
		metrics.RecordAwardDuplicate()
		return ErrDuplicateAward
	}
	if !s.queue.Enqueue(ctx, a) {
		// Let the sender retry the same event id later.
		s.deduper.Unrecord(ctx, a.EventID)
		return ErrBackpressure
	}
	metrics.UpdateQueueSize(s.queue.Len())
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}
	if !s.started {
		return stats
	}

	stats["queueLength"] = s.queue.Len()
	stats["activeSessions"] = s.sessions.Count()
	if n, err := s.store.CountUsers(context.Background()); err == nil {
		stats["totalUsers"] = n
		metrics.UpdateUsersTotal(n)
	}
	return stats
}
