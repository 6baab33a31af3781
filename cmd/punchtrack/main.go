package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/ayusman/punchtrack/internal/app"
	"github.com/ayusman/punchtrack/internal/combo"
	"github.com/ayusman/punchtrack/internal/punch"
	"github.com/ayusman/punchtrack/internal/server"
	"github.com/ayusman/punchtrack/internal/store"
	"github.com/ayusman/punchtrack/internal/tray"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	cameraID := flag.Int("camera", 0, "camera device ID")
	pluginDir := flag.String("plugins", "", "plugin directory (default ~/.punchtrack/plugins)")
	flag.Parse()

	fmt.Println("PunchTrack - Boxing Training Tracker")

	// Initialize the store
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dataDir := filepath.Join(homeDir, ".punchtrack")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dataDir, "punchtrack.db")
	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	plugins := *pluginDir
	if plugins == "" {
		plugins = filepath.Join(dataDir, "plugins")
	}

	a := app.New(app.Config{
		Store:     st,
		PluginDir: plugins,
		CameraID:  *cameraID,
	})

	if err := a.DiscoverPlugins(); err != nil {
		log.Printf("Plugin discovery failed: %v", err)
	}

	a.SetEnabled(true)
	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start detection pipeline: %v", err)
	}
	a.StartSession()

	// Find web directory
	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		App:       a,
	})

	go func() {
		fmt.Printf("Starting server on %s\n", *addr)
		if err := srv.ListenAndServe(*addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	runTray(a, *addr)
}

// runTray wires the app into the system tray and blocks until quit.
func runTray(a *app.App, addr string) {
	t := tray.New()

	t.OnToggle(func(paused bool) {
		a.SetPaused(paused)
	})

	t.OnCalibrate(func() {
		a.StartCalibration()
	})

	t.OnRestart(func() {
		if _, err := a.EndSession(); err != nil {
			log.Printf("Failed to end session: %v", err)
		}
		a.StartSession()
		t.SetPunchCount(0)
		t.SetLastCombo("")
	})

	t.OnDashboard(func() {
		url := "http://localhost" + addr
		if err := exec.Command("open", url).Start(); err != nil {
			log.Printf("Failed to open dashboard: %v", err)
		}
	})

	t.OnQuit(func() {
		if _, err := a.EndSession(); err != nil {
			log.Printf("Failed to end session: %v", err)
		}
		a.Stop()
	})

	a.OnPunch(func(punch.Event) {
		t.SetPunchCount(a.Tracker().Total())
	})
	a.OnCombo(func(m combo.Match) {
		t.SetLastCombo(m.Pattern)
	})

	t.Run()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.punchtrack/web.
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

	homeWebDir := filepath.Join(homeDir, ".punchtrack", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
