package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ayusman/repcoach/internal/analysis"
	"github.com/ayusman/repcoach/internal/store"
)

// ThresholdHandler exposes the analysis tuning thresholds and their stored
// overrides. Changes take effect on the next exercise selection.
type ThresholdHandler struct {
	store *store.Store
}

// NewThresholdHandler creates a new ThresholdHandler with the given store.
func NewThresholdHandler(s *store.Store) *ThresholdHandler {
	return &ThresholdHandler{store: s}
}

type setThresholdRequest struct {
	Value float64 `json:"value"`
}

type thresholdsResponse struct {
	Thresholds map[string]float64 `json:"thresholds"`
	Overrides  map[string]float64 `json:"overrides"`
}

// ServeHTTP implements the http.Handler interface.
// Expected paths: /api/thresholds or /api/thresholds/{key}.
func (h *ThresholdHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/thresholds")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)
		return
	}

	key := path
	switch r.Method {
	case http.MethodPut:
		h.set(w, r, key)
	case http.MethodDelete:
		h.delete(w, r, key)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// list handles GET /api/thresholds and returns the effective values plus the
// raw overrides.
func (h *ThresholdHandler) list(w http.ResponseWriter, r *http.Request) {
	overrides, err := h.store.Thresholds().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list thresholds")
		return
	}

	merged, err := h.store.Thresholds().Merged(analysis.DefaultThresholds())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list thresholds")
		return
	}

	writeJSON(w, http.StatusOK, thresholdsResponse{
		Thresholds: merged,
		Overrides:  overrides,
	})
}

// set handles PUT /api/thresholds/{key} and stores an override.
func (h *ThresholdHandler) set(w http.ResponseWriter, r *http.Request, key string) {
	defaults := analysis.DefaultThresholds()
	if _, ok := defaults[key]; !ok {
		writeError(w, http.StatusNotFound, "Unknown threshold")
		return
	}

	var req setThresholdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.store.Thresholds().Set(key, req.Value); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store threshold")
		return
	}

	writeJSON(w, http.StatusOK, map[string]float64{key: req.Value})
}

// delete handles DELETE /api/thresholds/{key} and restores the default.
func (h *ThresholdHandler) delete(w http.ResponseWriter, r *http.Request, key string) {
	if err := h.store.Thresholds().Delete(key); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete threshold")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
