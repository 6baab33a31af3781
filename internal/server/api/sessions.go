// Package api provides HTTP API handlers for the punch tracking system.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ayusman/punchtrack/internal/store"
)

// SessionHandler handles HTTP requests for session resources.
type SessionHandler struct {
	store *store.Store
}

// NewSessionHandler creates a new SessionHandler with the given store.
func NewSessionHandler(s *store.Store) *SessionHandler {
	return &SessionHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to
// appropriate methods.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/sessions, /api/sessions/summary or
	// /api/sessions/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)
		return
	}

	if path == "summary" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.summary(w, r)
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Response types

type sessionResponse struct {
	ID               string         `json:"id"`
	StartedAt        string         `json:"started_at"`
	DurationSeconds  float64        `json:"duration_seconds"`
	TotalPunches     int            `json:"total_punches"`
	PunchesPerMinute float64        `json:"punches_per_minute"`
	JabCount         int            `json:"jab_count"`
	CrossCount       int            `json:"cross_count"`
	HookCount        int            `json:"hook_count"`
	UppercutCount    int            `json:"uppercut_count"`
	ComboAttempts    int            `json:"combo_attempts"`
	ComboSuccesses   int            `json:"combo_successes"`
	ComboDetails     map[string]int `json:"combo_details"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Session to a sessionResponse.
func toResponse(s *store.Session) sessionResponse {
	details := s.ComboDetails
	if details == nil {
		details = map[string]int{}
	}
	return sessionResponse{
		ID:               s.ID,
		StartedAt:        s.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
		DurationSeconds:  s.Duration.Seconds(),
		TotalPunches:     s.TotalPunches,
		PunchesPerMinute: s.PunchesPerMinute,
		JabCount:         s.JabCount,
		CrossCount:       s.CrossCount,
		HookCount:        s.HookCount,
		UppercutCount:    s.UppercutCount,
		ComboAttempts:    s.ComboAttempts,
		ComboSuccesses:   s.ComboSuccesses,
		ComboDetails:     details,
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

// list handles GET /api/sessions and returns stored sessions, newest
// first. An optional ?limit=N caps the result.
func (h *SessionHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	sessions, err := h.store.Sessions().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	response := listSessionsResponse{
		Sessions: make([]sessionResponse, 0, len(sessions)),
	}
	for _, s := range sessions {
		response.Sessions = append(response.Sessions, toResponse(s))
	}

	writeJSON(w, http.StatusOK, response)
}

// summary handles GET /api/sessions/summary and returns aggregate stats
// across all stored sessions.
func (h *SessionHandler) summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.store.Sessions().Summary()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute summary")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// get handles GET /api/sessions/{id} and returns a single session.
func (h *SessionHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	session, err := h.store.Sessions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(session))
}

// delete handles DELETE /api/sessions/{id} and removes a session.
func (h *SessionHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Sessions().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
