package api

import (
	"net/http"
	"strings"

	"github.com/ayusman/punchtrack/internal/app"
	"github.com/ayusman/punchtrack/internal/store"
)

// Controller is the slice of the application the controls API drives.
type Controller interface {
	Stats() app.Stats
	SetPaused(paused bool)
	IsPaused() bool
	IncreaseSensitivity() float64
	DecreaseSensitivity() float64
	StartCalibration()
	Calibrating() bool
	StartSession()
	SessionID() string
	EndSession() (*store.Session, error)
}

// ControlsHandler exposes live session state and runtime controls.
type ControlsHandler struct {
	app Controller
}

// NewControlsHandler creates a new ControlsHandler driving the given
// controller.
func NewControlsHandler(c Controller) *ControlsHandler {
	return &ControlsHandler{app: c}
}

// ServeHTTP implements the http.Handler interface.
// Expected paths: /api/controls/{command}
func (h *ControlsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	command := strings.TrimPrefix(r.URL.Path, "/api/controls/")

	if command == "stats" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, h.app.Stats())
		return
	}

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch command {
	case "pause":
		h.app.SetPaused(true)
		writeJSON(w, http.StatusOK, map[string]bool{"paused": true})
	case "resume":
		h.app.SetPaused(false)
		writeJSON(w, http.StatusOK, map[string]bool{"paused": false})
	case "sensitivity/up":
		threshold := h.app.IncreaseSensitivity()
		writeJSON(w, http.StatusOK, map[string]float64{"velocity_threshold": threshold})
	case "sensitivity/down":
		threshold := h.app.DecreaseSensitivity()
		writeJSON(w, http.StatusOK, map[string]float64{"velocity_threshold": threshold})
	case "calibrate":
		if h.app.Calibrating() {
			writeError(w, http.StatusConflict, "Calibration already in progress")
			return
		}
		h.app.StartCalibration()
		writeJSON(w, http.StatusOK, map[string]bool{"calibrating": true})
	case "session/start":
		h.app.StartSession()
		writeJSON(w, http.StatusCreated, map[string]string{"session_id": h.app.SessionID()})
	case "session/end":
		session, err := h.app.EndSession()
		if err != nil {
			writeError(w, http.StatusConflict, "No session in progress")
			return
		}
		writeJSON(w, http.StatusOK, toResponse(session))
	default:
		writeError(w, http.StatusNotFound, "Unknown command")
	}
}
