package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/ayusman/repcoach/internal/analysis"
	"github.com/ayusman/repcoach/internal/app"
	"github.com/ayusman/repcoach/internal/server"
	"github.com/ayusman/repcoach/internal/store"
	"github.com/ayusman/repcoach/internal/tray"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	cameraID := flag.Int("camera", 0, "camera device ID")
	useTray := flag.Bool("tray", false, "run with a system tray icon")
	flag.Parse()

	fmt.Println("RepCoach - Exercise Form Coach")

	// Initialize the store
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dbDir := filepath.Join(homeDir, ".repcoach")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dbDir, "repcoach.db")
	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// Stored overrides win over built-in analysis defaults
	thresholds, err := st.Thresholds().Merged(analysis.DefaultThresholds())
	if err != nil {
		log.Fatalf("Failed to load threshold overrides: %v", err)
	}

	a := app.New(app.Config{
		Store:      st,
		CameraID:   *cameraID,
		Thresholds: thresholds,
	})
	if err := a.Start(); err != nil {
		log.Printf("Analysis pipeline not started: %v", err)
	}
	defer a.Stop()

	// Find web directory
	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	// Configure and start server
	cfg := server.Config{
		StaticDir: webDir,
		Store:     st,
		Camera:    a.Camera(),
		App:       a,
	}

	srv := server.New(cfg)

	fmt.Printf("Starting server on %s\n", *addr)

	if *useTray {
		go func() {
			if err := srv.ListenAndServe(*addr); err != nil {
				log.Fatalf("Server failed: %v", err)
			}
		}()
		runTray(a, *addr)
		return
	}

	if err := srv.ListenAndServe(*addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// runTray blocks running the system tray menu until Quit is chosen.
func runTray(a *app.App, addr string) {
	t := tray.New()
	t.OnToggle(a.SetEnabled)
	t.OnSettings(func() {
		openBrowser("http://localhost" + addr)
	})
	t.OnQuit(a.Stop)

	a.OnStatus(func(status analysis.ExerciseStatus) {
		t.SetExercise(status.Name, status.RepCount)
		if len(status.Feedback) > 0 {
			t.SetLastFeedback(status.Feedback[0])
		}
	})

	t.Run()
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	var err error
	switch runtime.GOOS {
	case "darwin":
		err = exec.Command("open", url).Start()
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		err = exec.Command("xdg-open", url).Start()
	}
	if err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.repcoach/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".repcoach", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
