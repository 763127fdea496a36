package app

import (
	"log"
	"time"
)

// runPipeline is the main analysis loop that processes frames from the camera.
// It manages the state transitions between idle and active modes based on
// presence detection.
//
// Pipeline logic:
// 1. Start in idle mode (idleFPS=5)
// 2. On presence detected, switch to active mode (activeFPS=15)
// 3. Run pose detection
// 4. Feed the keypoint frame to the selected exercise analyzer
// 5. Notify status listeners with the resulting rep count and feedback
// 6. After 2s with no presence, switch back to idle mode
func (a *App) runPipeline(stopCh chan struct{}) {
	// Track whether we're in active mode
	activeMode := false

	// Track the last presence detection time
	lastPresenceTime := time.Now()

	// Frame interval based on current FPS
	frameInterval := time.Second / time.Duration(IdleFPS)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			// Skip processing if analysis is disabled
			if !a.IsEnabled() {
				continue
			}

			// Read a frame from the camera
			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			// Step 1: Presence detection
			present, _ := a.presence.Detect(frame)

			if present {
				lastPresenceTime = time.Now()

				// Switch to active mode if not already
				if !activeMode {
					activeMode = true
					a.camera.SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				// Check if we should switch back to idle mode
				if time.Since(lastPresenceTime) > time.Duration(IdleTimeoutMs)*time.Millisecond {
					activeMode = false
					a.camera.SetFPS(IdleFPS)
					frameInterval = time.Second / time.Duration(IdleFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to idle mode")
				}
			}

			// Skip further processing if not in active mode or no detector
			detector := a.Detector()
			if !activeMode || detector == nil {
				frame.Close()
				continue
			}

			// Step 2: Pose detection
			keypoints, err := detector.Detect(frame)
			frame.Close() // Done with the frame

			if err != nil {
				log.Printf("Error detecting pose: %v", err)
				continue
			}

			if len(keypoints) == 0 {
				continue
			}

			// Step 3: Exercise analysis
			status, ok := a.dispatcher.ProcessFrame(keypoints)
			if !ok {
				continue
			}

			// Step 4: Fan out to status listeners
			a.notify(status)
		}
	}
}
