package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/scorecast/scorecast/internal/app"
	"github.com/scorecast/scorecast/internal/domain/model"
)

// AwardsHandler accepts settlement point deltas for asynchronous
// application.
type AwardsHandler struct {
	deps Dependencies
}

func NewAwardsHandler(deps Dependencies) *AwardsHandler {
	return &AwardsHandler{deps: deps}
}

type awardRequest struct {
	EventID string `json:"event_id,omitempty"`
	UserID  int64  `json:"user_id"`
	Delta   int    `json:"delta"`
}

type awardResponse struct {
	Status    string `json:"status"`
	EventID   string `json:"event_id"`
	Duplicate bool   `json:"duplicate,omitempty"`
}

// HandlePostAward enqueues one award. Repeated deliveries of the same
// event id acknowledge without applying twice.
func (h *AwardsHandler) HandlePostAward(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	var req awardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err)
		return
	}
	if req.UserID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_user_id", ErrInvalidUserID)
		return
	}
	if req.EventID == "" {
		req.EventID = uuid.NewString()
	}

	err := h.deps.SubmitAward(r.Context(), model.Award{
		EventID: req.EventID,
		UserID:  req.UserID,
		Delta:   req.Delta,
	})
	switch {
	case errors.Is(err, app.ErrDuplicateAward):
		writeJSON(w, http.StatusOK, awardResponse{Status: "ok", EventID: req.EventID, Duplicate: true})
	case errors.Is(err, app.ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", err)
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal", nil)
	default:
		writeJSON(w, http.StatusAccepted, awardResponse{Status: "queued", EventID: req.EventID})
	}
}
