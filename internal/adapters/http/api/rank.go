package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/scorecast/scorecast/internal/adapters/repository"
	"github.com/scorecast/scorecast/internal/domain/ranking"
)

// RankHandler serves a single user's leaderboard position.
type RankHandler struct {
	deps Dependencies
}

func NewRankHandler(deps Dependencies) *RankHandler {
	return &RankHandler{deps: deps}
}

// HandleGetRank returns the rank entry for the user id in the path.
func (h *RankHandler) HandleGetRank(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	userID, err := parseUserID(r.URL.Path, "/rank/")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_user_id", err)
		return
	}

	entry, err := h.deps.Rank(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, ranking.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", nil)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func parseUserID(path, prefix string) (int64, error) {
	raw := strings.TrimPrefix(path, prefix)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidUserID
	}
	return id, nil
}
