// Package api declares HTTP contracts and route registration for the
// transport adapter.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/scorecast/scorecast/internal/adapters/repository"
	"github.com/scorecast/scorecast/internal/domain/model"
	"github.com/scorecast/scorecast/internal/domain/ranking"
	"github.com/scorecast/scorecast/internal/domain/session"
)

// Dependencies bundles what handlers need from the service layer.
type Dependencies interface {
	// Handle routes one conversation event and returns reply directives.
	Handle(ctx context.Context, ev session.Event) ([]string, error)

	// Read operations.
	TopN(ctx context.Context, n int) ([]ranking.Entry, error)
	Rank(ctx context.Context, userID int64) (ranking.Entry, error)
	Predictions(ctx context.Context, userID int64) ([]repository.PredictionView, error)

	// Admin operations.
	CreateMatch(ctx context.Context, name string) (int64, error)
	SettleMatch(ctx context.Context, matchID int64, result string) error
	SubmitAward(ctx context.Context, a model.Award) error
}

// StatsProvider exposes service statistics for monitoring.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// Server wires HTTP routes for the transport adapter.
type Server struct {
	eventsHandler      *EventsHandler
	leaderboardHandler *LeaderboardHandler
	rankHandler        *RankHandler
	predictionsHandler *PredictionsHandler
	matchesHandler     *MatchesHandler
	awardsHandler      *AwardsHandler
	statsHandler       *StatsHandler
	healthHandler      *HealthHandler
}

// NewServer creates an API server with all handlers.
func NewServer(deps Dependencies, stats StatsProvider, maxLeaderboardLimit int) *Server {
	return &Server{
		eventsHandler:      NewEventsHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLeaderboardLimit),
		rankHandler:        NewRankHandler(deps),
		predictionsHandler: NewPredictionsHandler(deps),
		matchesHandler:     NewMatchesHandler(deps),
		awardsHandler:      NewAwardsHandler(deps),
		statsHandler:       NewStatsHandler(stats),
		healthHandler:      NewHealthHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", s.healthHandler.HandleHealth)
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/events", MetricsMiddleware(s.eventsHandler.HandlePostEvent, "events"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/rank/", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
	mux.HandleFunc("/predictions/", MetricsMiddleware(s.predictionsHandler.HandleGetPredictions, "predictions"))
	mux.HandleFunc("/matches", MetricsMiddleware(s.matchesHandler.HandleCreateMatch, "matches"))
	mux.HandleFunc("/matches/", MetricsMiddleware(s.matchesHandler.HandleMatchResult, "match_result"))
	mux.HandleFunc("/awards", MetricsMiddleware(s.awardsHandler.HandlePostAward, "awards"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
