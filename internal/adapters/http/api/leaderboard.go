package api

import (
	"net/http"
	"strconv"

	"github.com/scorecast/scorecast/internal/domain/ranking"
)

// LeaderboardHandler serves the points leaderboard.
type LeaderboardHandler struct {
	deps     Dependencies
	maxLimit int
}

func NewLeaderboardHandler(deps Dependencies, maxLimit int) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps, maxLimit: maxLimit}
}

type leaderboardResponse struct {
	Entries []ranking.Entry `json:"entries"`
}

// HandleGetLeaderboard returns the top N users ordered by points.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid_limit", ErrInvalidLimit)
			return
		}
		limit = n
	}
	if limit > h.maxLimit {
		limit = h.maxLimit
	}

	entries, err := h.deps.TopN(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", nil)
		return
	}
	if entries == nil {
		entries = []ranking.Entry{}
	}

	writeJSON(w, http.StatusOK, leaderboardResponse{Entries: entries})
}
