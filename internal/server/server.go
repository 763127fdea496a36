// Package server provides the HTTP server for the RepCoach exercise analysis system.
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/ayusman/repcoach/internal/analysis"
	"github.com/ayusman/repcoach/internal/app"
	"github.com/ayusman/repcoach/internal/capture"
	"github.com/ayusman/repcoach/internal/server/api"
	"github.com/ayusman/repcoach/internal/store"
)

// lastExerciseKey is the settings key remembering the most recent selection.
const lastExerciseKey = "last_exercise"

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Camera    capture.Camera
	App       *app.App
}

// Server represents the HTTP server for the RepCoach application.
type Server struct {
	config Config
	mux    *http.ServeMux
	coach  *CoachHandler
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.App != nil {
		s.mux.HandleFunc("/api/exercise", s.handleExercise)
		s.mux.HandleFunc("/api/session/stats", s.handleSessionStats)
		s.mux.HandleFunc("/api/session/issues", s.handleSessionIssues)
		s.mux.HandleFunc("/api/session/reset", s.handleSessionReset)

		// Live coaching feed: status updates pushed over WebSocket.
		s.coach = NewCoachHandler()
		s.config.App.OnStatus(s.coach.Publish)
		s.mux.Handle("/api/coach", s.coach)
	}

	// Register plan and threshold API handlers if Store is configured
	if s.config.Store != nil {
		planHandler := api.NewPlanHandler(s.config.Store)
		s.mux.Handle("/api/plans", planHandler)
		s.mux.Handle("/api/plans/", planHandler)

		thresholdHandler := api.NewThresholdHandler(s.config.Store)
		s.mux.Handle("/api/thresholds", thresholdHandler)
		s.mux.Handle("/api/thresholds/", thresholdHandler)
	}

	// Register camera stream endpoint if Camera is configured
	if s.config.Camera != nil {
		streamHandler := NewStreamHandler(s.config.Camera)
		s.mux.Handle("/api/stream", streamHandler)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

type selectExerciseRequest struct {
	Exercise       string  `json:"exercise"`
	TargetReps     int     `json:"target_reps"`
	TargetSets     int     `json:"target_sets"`
	TargetDuration float64 `json:"target_duration"`
	PlanID         string  `json:"plan_id"`
}

type exerciseResponse struct {
	Exercise string `json:"exercise"`
	Enabled  bool   `json:"enabled"`
}

// handleExercise handles GET and POST requests to /api/exercise.
// A POST selects an exercise either inline or by referencing a stored plan.
func (s *Server) handleExercise(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.writeJSON(w, http.StatusOK, exerciseResponse{
			Exercise: s.config.App.CurrentExercise(),
			Enabled:  s.config.App.IsEnabled(),
		})
	case http.MethodPost:
		var req selectExerciseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}

		if req.PlanID != "" {
			if s.config.Store == nil {
				s.writeError(w, http.StatusBadRequest, "Plans unavailable")
				return
			}
			plan, err := s.config.Store.Plans().GetByID(req.PlanID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					s.writeError(w, http.StatusNotFound, "Plan not found")
					return
				}
				s.writeError(w, http.StatusInternalServerError, "Failed to load plan")
				return
			}
			req.Exercise = plan.Exercise
			req.TargetReps = plan.TargetReps
			req.TargetSets = plan.TargetSets
			req.TargetDuration = plan.TargetDurationSec
		}

		if req.Exercise == "" {
			s.writeError(w, http.StatusBadRequest, "Exercise is required")
			return
		}

		canonical := s.config.App.SetExercise(
			req.Exercise, req.TargetReps, req.TargetSets, req.TargetDuration)
		s.config.App.SetEnabled(true)

		if s.config.Store != nil {
			if err := s.config.Store.Settings().Set(lastExerciseKey, canonical); err != nil {
				log.Printf("Failed to persist last exercise: %v", err)
			}
		}

		s.writeJSON(w, http.StatusOK, exerciseResponse{Exercise: canonical, Enabled: true})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleSessionStats handles GET requests to /api/session/stats.
func (s *Server) handleSessionStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"exercises": s.config.App.SessionStats(),
	})
}

// handleSessionIssues handles GET requests to /api/session/issues.
// The optional "exercise" query parameter filters to one exercise.
func (s *Server) handleSessionIssues(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	issues := s.config.App.CommonIssues(r.URL.Query().Get("exercise"), 5)
	if issues == nil {
		issues = []analysis.IssueCount{}
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"issues": issues})
}

// handleSessionReset handles POST requests to /api/session/reset.
func (s *Server) handleSessionReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.config.App.ResetSession()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
