// Package api provides HTTP API handlers for the RepCoach exercise analysis system.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/repcoach/internal/analysis"
	"github.com/ayusman/repcoach/internal/store"
)

// PlanHandler handles HTTP requests for workout plan resources.
type PlanHandler struct {
	store *store.Store
}

// NewPlanHandler creates a new PlanHandler with the given store.
func NewPlanHandler(s *store.Store) *PlanHandler {
	return &PlanHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *PlanHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Parse the path to determine if this is a collection or item request
	// Expected paths: /api/plans or /api/plans/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/plans")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		// Collection endpoint: /api/plans
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	// Item endpoint: /api/plans/{id}
	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type createPlanRequest struct {
	Name              string  `json:"name"`
	Exercise          string  `json:"exercise"`
	TargetReps        int     `json:"target_reps"`
	TargetSets        int     `json:"target_sets"`
	TargetDurationSec float64 `json:"target_duration_sec"`
}

type updatePlanRequest struct {
	Name              string   `json:"name"`
	Exercise          string   `json:"exercise"`
	TargetReps        *int     `json:"target_reps"`
	TargetSets        *int     `json:"target_sets"`
	TargetDurationSec *float64 `json:"target_duration_sec"`
}

type planResponse struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Exercise          string  `json:"exercise"`
	TargetReps        int     `json:"target_reps"`
	TargetSets        int     `json:"target_sets"`
	TargetDurationSec float64 `json:"target_duration_sec"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

type listPlansResponse struct {
	Plans []planResponse `json:"plans"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Plan to a planResponse.
func toResponse(p *store.Plan) planResponse {
	return planResponse{
		ID:                p.ID,
		Name:              p.Name,
		Exercise:          p.Exercise,
		TargetReps:        p.TargetReps,
		TargetSets:        p.TargetSets,
		TargetDurationSec: p.TargetDurationSec,
		CreatedAt:         p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:         p.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/plans and returns all plans.
func (h *PlanHandler) list(w http.ResponseWriter, r *http.Request) {
	plans, err := h.store.Plans().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list plans")
		return
	}

	response := listPlansResponse{
		Plans: make([]planResponse, 0, len(plans)),
	}

	for _, p := range plans {
		response.Plans = append(response.Plans, toResponse(p))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/plans/{id} and returns a single plan.
func (h *PlanHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	plan, err := h.store.Plans().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Plan not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get plan")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(plan))
}

// create handles POST /api/plans and creates a new plan.
func (h *PlanHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate required fields
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if req.TargetReps < 0 || req.TargetSets < 0 || req.TargetDurationSec < 0 {
		writeError(w, http.StatusBadRequest, "Targets must not be negative")
		return
	}

	plan := &store.Plan{
		ID:                uuid.New().String(),
		Name:              req.Name,
		Exercise:          analysis.ResolveExerciseName(req.Exercise),
		TargetReps:        req.TargetReps,
		TargetSets:        req.TargetSets,
		TargetDurationSec: req.TargetDurationSec,
	}

	if err := h.store.Plans().Create(plan); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create plan")
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(plan))
}

// update handles PUT /api/plans/{id} and updates an existing plan.
func (h *PlanHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	// First, get the existing plan
	plan, err := h.store.Plans().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Plan not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get plan")
		return
	}

	var req updatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Update fields if provided
	if req.Name != "" {
		plan.Name = req.Name
	}
	if req.Exercise != "" {
		plan.Exercise = analysis.ResolveExerciseName(req.Exercise)
	}
	if req.TargetReps != nil {
		if *req.TargetReps < 0 {
			writeError(w, http.StatusBadRequest, "Targets must not be negative")
			return
		}
		plan.TargetReps = *req.TargetReps
	}
	if req.TargetSets != nil {
		if *req.TargetSets < 0 {
			writeError(w, http.StatusBadRequest, "Targets must not be negative")
			return
		}
		plan.TargetSets = *req.TargetSets
	}
	if req.TargetDurationSec != nil {
		if *req.TargetDurationSec < 0 {
			writeError(w, http.StatusBadRequest, "Targets must not be negative")
			return
		}
		plan.TargetDurationSec = *req.TargetDurationSec
	}

	if err := h.store.Plans().Update(plan); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update plan")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(plan))
}

// delete handles DELETE /api/plans/{id} and removes a plan.
func (h *PlanHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Plans().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Plan not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete plan")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
