package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Blame method selectors accepted by POST /api/v1/blame.
const (
	blameMethodScore    = "score"
	blameMethodIntegral = "integral"
)

// BlameHandler handles per-event blame decomposition requests.
type BlameHandler struct {
	deps Dependencies
}

// NewBlameHandler creates a new blame handler.
func NewBlameHandler(deps Dependencies) *BlameHandler {
	return &BlameHandler{deps: deps}
}

type blameResponse struct {
	Method string    `json:"method"`
	Blame  []float64 `json:"blame"`
}

// HandleBlame handles POST /api/v1/blame requests. The method field picks
// the decomposition: "score" (default) or "integral".
func (h *BlameHandler) HandleBlame(w http.ResponseWriter, r *http.Request) {
	const op = "api.blame"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	method := req.Method
	if method == "" {
		method = blameMethodScore
	}

	var (
		vec []float64
		err error
	)
	switch method {
	case blameMethodScore:
		vec, err = h.deps.ScoreBlame(r.Context(), req.Events, req.Rate)
	case blameMethodIntegral:
		vec, err = h.deps.IntegralBlame(r.Context(), req.Events, req.Rate, req.window(h.deps))
	default:
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%s: unknown method %q: %w", op, method, ErrBadRequest))
		return
	}
	if err != nil {
		writeComputeError(w, op, err)
		return
	}
	if vec == nil {
		vec = []float64{}
	}
	writeJSON(w, http.StatusOK, blameResponse{Method: method, Blame: vec})
}
