package api

import (
	"encoding/json"
	"net/http"
)

// IntegralHandler handles significance integral requests.
type IntegralHandler struct {
	deps Dependencies
}

// NewIntegralHandler creates a new integral handler.
func NewIntegralHandler(deps Dependencies) *IntegralHandler {
	return &IntegralHandler{deps: deps}
}

type integralResponse struct {
	Integral float64 `json:"integral"`
	TMin     float64 `json:"t_min"`
	TMax     float64 `json:"t_max"`
}

// HandleIntegral handles POST /api/v1/integral requests. Window bounds are
// optional; the service default is used for any omitted bound.
func (h *IntegralHandler) HandleIntegral(w http.ResponseWriter, r *http.Request) {
	const op = "api.integral"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	win := req.window(h.deps)
	val, err := h.deps.Integral(r.Context(), req.Events, req.Rate, win)
	if err != nil {
		writeComputeError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, integralResponse{Integral: val, TMin: win.TMin, TMax: win.TMax})
}
