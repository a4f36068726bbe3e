package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/scorecast/scorecast/internal/domain/score"
)

// MatchesHandler serves the admin match management endpoints.
type MatchesHandler struct {
	deps Dependencies
}

func NewMatchesHandler(deps Dependencies) *MatchesHandler {
	return &MatchesHandler{deps: deps}
}

type createMatchRequest struct {
	Name string `json:"name"`
}

type createMatchResponse struct {
	ID int64 `json:"id"`
}

type matchResultRequest struct {
	Result string `json:"result"`
}

// HandleCreateMatch opens a new match for predictions.
func (h *MatchesHandler) HandleCreateMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	var req createMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "empty_name", ErrEmptyField)
		return
	}

	id, err := h.deps.CreateMatch(r.Context(), req.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", nil)
		return
	}

	writeJSON(w, http.StatusCreated, createMatchResponse{ID: id})
}

// HandleMatchResult records a final result and closes the match. The
// result must be a valid score text; it is stored in canonical form.
func (h *MatchesHandler) HandleMatchResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	matchID, ok := parseMatchPath(r.URL.Path)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_match_id", ErrInvalidMatchID)
		return
	}

	var req matchResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err)
		return
	}

	parsed, err := score.Parse(req.Result)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_result", err)
		return
	}

	if err := h.deps.SettleMatch(r.Context(), matchID, parsed.String()); err != nil {
		writeError(w, http.StatusInternalServerError, "internal", nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// parseMatchPath extracts the match id from /matches/{id}/result.
func parseMatchPath(path string) (int64, bool) {
	rest := strings.TrimPrefix(path, "/matches/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[1] != "result" {
		return 0, false
	}
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
