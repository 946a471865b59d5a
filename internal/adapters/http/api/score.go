package api

import (
	"encoding/json"
	"net/http"
)

// ScoreHandler handles windowed significance score requests.
type ScoreHandler struct {
	deps Dependencies
}

// NewScoreHandler creates a new score handler.
func NewScoreHandler(deps Dependencies) *ScoreHandler {
	return &ScoreHandler{deps: deps}
}

type scoreResponse struct {
	Score float64 `json:"score"`
}

// HandleScore handles POST /api/v1/score requests.
func (h *ScoreHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.score"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	score, err := h.deps.Score(r.Context(), req.Events, req.Rate)
	if err != nil {
		writeComputeError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, scoreResponse{Score: score})
}
