package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/scorecast/scorecast/internal/domain/session"
)

// EventsHandler accepts conversation events from the external transport.
type EventsHandler struct {
	deps Dependencies
}

func NewEventsHandler(deps Dependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

type eventRequest struct {
	// EventID is an optional transport correlation id, echoed back.
	EventID string `json:"event_id,omitempty"`
	UserID  int64  `json:"user_id"`
	Action  string `json:"action"`
	Text    string `json:"text,omitempty"`
}

type eventResponse struct {
	EventID string   `json:"event_id,omitempty"`
	Replies []string `json:"replies"`
}

// HandlePostEvent routes one logical event through the session manager and
// returns the reply directives synchronously.
func (h *EventsHandler) HandlePostEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err)
		return
	}
	if req.UserID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_user_id", ErrInvalidUserID)
		return
	}

	replies, err := h.deps.Handle(r.Context(), session.Event{
		UserID: req.UserID,
		Action: session.Action(req.Action),
		Text:   req.Text,
	})
	if err != nil {
		if errors.Is(err, session.ErrUnknownAction) {
			writeError(w, http.StatusBadRequest, "unknown_action", err)
			return
		}
		// Persistence failures still carry a user-facing reply; the
		// transport delivers it and the error stays server-side.
		if len(replies) == 0 {
			writeError(w, http.StatusInternalServerError, "internal", nil)
			return
		}
	}

	writeJSON(w, http.StatusOK, eventResponse{EventID: req.EventID, Replies: replies})
}
