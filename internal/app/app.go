// Package app provides the main application logic for the RepCoach exercise
// analysis system.
package app

import (
	"log"
	"sync"

	"github.com/ayusman/repcoach/internal/analysis"
	"github.com/ayusman/repcoach/internal/capture"
	"github.com/ayusman/repcoach/internal/pose"
	"github.com/ayusman/repcoach/internal/store"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate when nobody is in front of the camera.
	IdleFPS = 5
	// ActiveFPS is the frame rate while a person is being analyzed.
	ActiveFPS = 15
	// IdleTimeoutMs is the time in milliseconds to wait before switching back to idle mode.
	IdleTimeoutMs = 2000
)

// StatusListener receives the exercise status produced for each analyzed frame.
type StatusListener func(analysis.ExerciseStatus)

// Config holds configuration options for the application.
type Config struct {
	Store          *store.Store
	CameraID       int
	PresenceThresh float64
	Thresholds     analysis.Thresholds
}

// App orchestrates the camera, pose detection and exercise analysis pipeline.
type App struct {
	config     Config
	camera     capture.Camera
	presence   *capture.PresenceDetector
	detector   pose.Detector
	dispatcher *analysis.Dispatcher
	listeners  []StatusListener
	enabled    bool
	mu         sync.RWMutex
	stopCh     chan struct{}
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	presenceThreshold := config.PresenceThresh
	if presenceThreshold <= 0 {
		presenceThreshold = 1.0 // Default threshold: 1% pixel change
	}

	thresholds := config.Thresholds
	if thresholds == nil {
		thresholds = analysis.DefaultThresholds()
	}

	a := &App{
		config:     config,
		camera:     capture.NewCamera(config.CameraID),
		presence:   capture.NewPresenceDetector(presenceThreshold),
		dispatcher: analysis.NewDispatcher(thresholds),
		enabled:    false,
		stopCh:     nil,
	}

	// Try MediaPipe first, fall back to mock detector
	if mp, err := pose.NewMediaPipeDetector(pose.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe pose detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = pose.NewMockDetector()
	}

	return a
}

// SetEnabled enables or disables exercise analysis.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether exercise analysis is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the pose detector implementation to use.
func (a *App) SetDetector(d pose.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// OnStatus registers a listener that is called with the status produced for
// each analyzed frame. Listeners must be registered before Start.
func (a *App) OnStatus(fn StatusListener) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, fn)
}

// SetExercise selects the exercise to analyze and returns its canonical name.
func (a *App) SetExercise(name string, targetReps, targetSets int, targetDuration float64) string {
	return a.dispatcher.SetExercise(name, targetReps, targetSets, targetDuration)
}

// CurrentExercise returns the canonical name of the selected exercise, or ""
// if none has been selected yet.
func (a *App) CurrentExercise() string {
	return a.dispatcher.CurrentExercise()
}

// SessionStats returns per-exercise feedback counts for the current session.
func (a *App) SessionStats() map[string]map[string]int {
	return a.dispatcher.SessionStats()
}

// CommonIssues returns the most frequent form issues for an exercise.
func (a *App) CommonIssues(exercise string, limit int) []analysis.IssueCount {
	return a.dispatcher.CommonIssues(exercise, limit)
}

// ResetSession clears accumulated session statistics.
func (a *App) ResetSession() {
	a.dispatcher.ResetSession()
}

// Start begins the analysis pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	// Open the camera
	if err := a.camera.Open(); err != nil {
		return err
	}

	// Set initial FPS to idle mode
	a.camera.SetFPS(IdleFPS)

	// Create stop channel and start the pipeline
	a.stopCh = make(chan struct{})
	go a.runPipeline(a.stopCh)

	log.Println("Analysis pipeline started")
	return nil
}

// Stop halts the analysis pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Signal the pipeline to stop
	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	// Close the camera
	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	// Close presence detector
	a.presence.Close()

	// Close the pose detector if set
	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Analysis pipeline stopped")
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// PresenceDetector returns the presence detector instance.
func (a *App) PresenceDetector() *capture.PresenceDetector {
	return a.presence
}

// Dispatcher returns the exercise analysis dispatcher.
func (a *App) Dispatcher() *analysis.Dispatcher {
	return a.dispatcher
}

// Detector returns the pose detector.
func (a *App) Detector() pose.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

func (a *App) notify(status analysis.ExerciseStatus) {
	a.mu.RLock()
	listeners := a.listeners
	a.mu.RUnlock()

	for _, fn := range listeners {
		fn(status)
	}
}
