package store

import (
	"errors"
	"math"
	"testing"
)

func TestSettingsGetMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Settings().Get("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get error = %v, want ErrNotFound", err)
	}
}

func TestSettingsSetAndGet(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	if err := repo.Set("camera_index", "1"); err != nil {
		t.Fatalf("failed to set: %v", err)
	}
	got, err := repo.Get("camera_index")
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}
	if got != "1" {
		t.Errorf("Get = %q, want %q", got, "1")
	}

	// Setting again replaces the value.
	if err := repo.Set("camera_index", "2"); err != nil {
		t.Fatalf("failed to overwrite: %v", err)
	}
	got, err = repo.Get("camera_index")
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}
	if got != "2" {
		t.Errorf("Get after overwrite = %q, want %q", got, "2")
	}
}

func TestSettingsFloatRoundTrip(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	if err := repo.SetFloat(SettingVelocityMultiplier, 1.25); err != nil {
		t.Fatalf("failed to set float: %v", err)
	}
	got, err := repo.GetFloat(SettingVelocityMultiplier)
	if err != nil {
		t.Fatalf("failed to get float: %v", err)
	}
	if math.Abs(got-1.25) > 1e-12 {
		t.Errorf("GetFloat = %v, want 1.25", got)
	}
}
