// Package plugin provides discovery and execution of external feedback
// plugins that react to punch and combo events.
package plugin

import "encoding/json"

// Event names plugins can subscribe to.
const (
	EventPunch = "punch"
	EventCombo = "combo"
)

// Manifest describes a plugin's metadata and the events it handles.
type Manifest struct {
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Description  string          `json:"description"`
	Executable   string          `json:"executable"`
	Events       []string        `json:"events"`
	ConfigSchema json.RawMessage `json:"configSchema,omitempty"`
}

// Request represents one event delivered to a plugin.
type Request struct {
	Event  string          `json:"event"`
	Punch  string          `json:"punch,omitempty"`
	Hand   string          `json:"hand,omitempty"`
	Combo  string          `json:"combo,omitempty"`
	Config json.RawMessage `json:"config,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response represents the response from a plugin execution.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin represents a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// HandlesEvent reports whether the plugin subscribed to the given
// event name.
func (p *Plugin) HandlesEvent(event string) bool {
	for _, e := range p.Manifest.Events {
		if e == event {
			return true
		}
	}
	return false
}
