// Package main provides an audio feedback plugin for macOS.
// It plays a short sound per punch type and announces combos with the
// system voice.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
)

// Request represents the input from the plugin executor.
type Request struct {
	Event  string          `json:"event"`
	Punch  string          `json:"punch,omitempty"`
	Hand   string          `json:"hand,omitempty"`
	Combo  string          `json:"combo,omitempty"`
	Config json.RawMessage `json:"config"`
	Params json.RawMessage `json:"params"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Config tunes the feedback sounds.
type Config struct {
	// Sounds maps a punch type to a sound file; unset types use the
	// built-in defaults.
	Sounds map[string]string `json:"sounds"`
	// Voice is the system voice used to announce combos.
	Voice string `json:"voice"`
	// Silent disables combo announcements.
	Silent bool `json:"silent"`
}

// defaultSounds are the built-in system sounds per punch type.
var defaultSounds = map[string]string{
	"jab":      "/System/Library/Sounds/Tink.aiff",
	"cross":    "/System/Library/Sounds/Pop.aiff",
	"hook":     "/System/Library/Sounds/Bottle.aiff",
	"uppercut": "/System/Library/Sounds/Funk.aiff",
}

func main() {
	// Read request from stdin
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	var cfg Config
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			writeErrorResponse(fmt.Sprintf("failed to parse config: %v", err))
			return
		}
	}

	switch req.Event {
	case "punch":
		if err := playPunch(req.Punch, cfg); err != nil {
			writeErrorResponse(fmt.Sprintf("punch sound failed: %v", err))
			return
		}
	case "combo":
		if err := announceCombo(req.Combo, cfg); err != nil {
			writeErrorResponse(fmt.Sprintf("combo announcement failed: %v", err))
			return
		}
	default:
		writeErrorResponse(fmt.Sprintf("unsupported event: %s", req.Event))
		return
	}

	writeSuccessResponse()
}

// playPunch plays the sound configured for the punch type.
func playPunch(punchType string, cfg Config) error {
	sound, ok := cfg.Sounds[punchType]
	if !ok {
		sound, ok = defaultSounds[punchType]
		if !ok {
			return fmt.Errorf("unknown punch type: %s", punchType)
		}
	}

	cmd := exec.Command("afplay", sound)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}

// announceCombo speaks the combo name with the system voice.
func announceCombo(name string, cfg Config) error {
	if cfg.Silent || name == "" {
		return nil
	}

	args := []string{name}
	if cfg.Voice != "" {
		args = []string{"-v", cfg.Voice, name}
	}

	cmd := exec.Command("say", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	resp := Response{
		Success: false,
		Error:   errMsg,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse() {
	resp := Response{
		Success: true,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}
