package api

import (
	"net/http"

	"github.com/scorecast/scorecast/internal/adapters/repository"
)

// PredictionsHandler serves a user's recorded predictions.
type PredictionsHandler struct {
	deps Dependencies
}

func NewPredictionsHandler(deps Dependencies) *PredictionsHandler {
	return &PredictionsHandler{deps: deps}
}

type predictionsResponse struct {
	Predictions []repository.PredictionView `json:"predictions"`
}

// HandleGetPredictions returns all predictions for the user id in the path.
func (h *PredictionsHandler) HandleGetPredictions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	userID, err := parseUserID(r.URL.Path, "/predictions/")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_user_id", err)
		return
	}

	views, err := h.deps.Predictions(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", nil)
		return
	}
	if views == nil {
		views = []repository.PredictionView{}
	}

	writeJSON(w, http.StatusOK, predictionsResponse{Predictions: views})
}
