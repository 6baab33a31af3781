package plugin

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// writeManifest writes a plugin.json for the named plugin under dir.
func writeManifest(t *testing.T, dir string, manifest Manifest) {
	t.Helper()

	pluginDir := filepath.Join(dir, manifest.Name)
	if err := os.MkdirAll(pluginDir, 0755); err != nil {
		t.Fatalf("failed to create plugin dir: %v", err)
	}

	manifestBytes, err := json.Marshal(manifest)
	if err != nil {
		t.Fatalf("failed to marshal manifest: %v", err)
	}

	manifestPath := filepath.Join(pluginDir, "plugin.json")
	if err := os.WriteFile(manifestPath, manifestBytes, 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
}

func TestManager_Discover(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "punchtrack-plugin-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	writeManifest(t, tmpDir, Manifest{
		Name:        "test-plugin",
		Version:     "1.0.0",
		Description: "A test plugin",
		Executable:  "test-plugin",
		Events:      []string{EventPunch, EventCombo},
	})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	plugins := manager.List()
	if len(plugins) != 1 {
		t.Fatalf("expected 1 plugin, got %d", len(plugins))
	}

	plugin := plugins[0]
	if plugin.Manifest.Name != "test-plugin" {
		t.Errorf("expected plugin name 'test-plugin', got %q", plugin.Manifest.Name)
	}
	if plugin.Manifest.Version != "1.0.0" {
		t.Errorf("expected version '1.0.0', got %q", plugin.Manifest.Version)
	}
	if plugin.Manifest.Description != "A test plugin" {
		t.Errorf("expected description 'A test plugin', got %q", plugin.Manifest.Description)
	}
	if len(plugin.Manifest.Events) != 2 {
		t.Errorf("expected 2 events, got %d", len(plugin.Manifest.Events))
	}
	if plugin.Path != filepath.Join(tmpDir, "test-plugin") {
		t.Errorf("unexpected path %q", plugin.Path)
	}
}

func TestManager_Discover_MultiplePlugins(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "punchtrack-plugin-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	for _, name := range []string{"plugin-a", "plugin-b"} {
		writeManifest(t, tmpDir, Manifest{
			Name:       name,
			Version:    "1.0.0",
			Executable: name,
			Events:     []string{EventPunch},
		})
	}

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	plugins := manager.List()
	if len(plugins) != 2 {
		t.Fatalf("expected 2 plugins, got %d", len(plugins))
	}
}

func TestManager_Discover_EmptyDir(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "punchtrack-plugin-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed on empty dir: %v", err)
	}

	plugins := manager.List()
	if len(plugins) != 0 {
		t.Fatalf("expected 0 plugins, got %d", len(plugins))
	}
}

func TestManager_Get(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "punchtrack-plugin-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	writeManifest(t, tmpDir, Manifest{
		Name:       "my-plugin",
		Version:    "2.0.0",
		Executable: "my-plugin-bin",
		Events:     []string{EventCombo},
	})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	plugin, err := manager.Get("my-plugin")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}

	if plugin.Manifest.Name != "my-plugin" {
		t.Errorf("expected plugin name 'my-plugin', got %q", plugin.Manifest.Name)
	}
	if plugin.Manifest.Version != "2.0.0" {
		t.Errorf("expected version '2.0.0', got %q", plugin.Manifest.Version)
	}
}

func TestManager_Get_NotFound(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "punchtrack-plugin-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	manager := NewManager(tmpDir)

	_, err = manager.Get("nonexistent-plugin")
	if err != ErrPluginNotFound {
		t.Errorf("expected ErrPluginNotFound, got %v", err)
	}
}

func TestManager_Subscribers(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "punchtrack-plugin-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	writeManifest(t, tmpDir, Manifest{
		Name:       "punch-only",
		Version:    "1.0.0",
		Executable: "punch-only",
		Events:     []string{EventPunch},
	})
	writeManifest(t, tmpDir, Manifest{
		Name:       "both",
		Version:    "1.0.0",
		Executable: "both",
		Events:     []string{EventPunch, EventCombo},
	})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	punchSubs := manager.Subscribers(EventPunch)
	if len(punchSubs) != 2 {
		t.Errorf("expected 2 punch subscribers, got %d", len(punchSubs))
	}

	comboSubs := manager.Subscribers(EventCombo)
	if len(comboSubs) != 1 {
		t.Fatalf("expected 1 combo subscriber, got %d", len(comboSubs))
	}
	if comboSubs[0].Manifest.Name != "both" {
		t.Errorf("expected 'both' to subscribe to combos, got %q", comboSubs[0].Manifest.Name)
	}

	if subs := manager.Subscribers("bogus"); len(subs) != 0 {
		t.Errorf("expected no subscribers for unknown event, got %d", len(subs))
	}
}

func TestManager_PluginDir(t *testing.T) {
	pluginDir := "/path/to/plugins"
	manager := NewManager(pluginDir)

	if manager.PluginDir() != pluginDir {
		t.Errorf("expected plugin dir %q, got %q", pluginDir, manager.PluginDir())
	}
}

func TestManager_Discover_InvalidJSON(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "punchtrack-plugin-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	pluginDir := filepath.Join(tmpDir, "bad-plugin")
	if err := os.MkdirAll(pluginDir, 0755); err != nil {
		t.Fatalf("failed to create plugin dir: %v", err)
	}

	manifestPath := filepath.Join(pluginDir, "plugin.json")
	if err := os.WriteFile(manifestPath, []byte("not valid json"), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	manager := NewManager(tmpDir)

	// Discover should skip invalid plugins gracefully
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed unexpectedly: %v", err)
	}

	plugins := manager.List()
	if len(plugins) != 0 {
		t.Fatalf("expected 0 plugins (invalid JSON should be skipped), got %d", len(plugins))
	}
}

func TestManager_Discover_NonExistentDir(t *testing.T) {
	manager := NewManager("/path/that/does/not/exist")

	// Discover should not fail, just return empty list
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed on non-existent dir: %v", err)
	}

	plugins := manager.List()
	if len(plugins) != 0 {
		t.Fatalf("expected 0 plugins, got %d", len(plugins))
	}
}
