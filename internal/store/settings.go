package store

import (
	"database/sql"
	"errors"
	"strconv"
)

// Setting keys persisted across runs.
const (
	SettingVelocityThreshold  = "velocity_threshold"
	SettingVelocityMultiplier = "velocity_multiplier"
)

// SettingsRepository provides key-value persistence for tunables.
type SettingsRepository struct {
	db *sql.DB
}

// Settings returns the settings repository for this store.
func (s *Store) Settings() *SettingsRepository {
	return &SettingsRepository{db: s.db}
}

// Get retrieves a setting value by key.
func (r *SettingsRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Set stores a setting value, replacing any previous one.
func (r *SettingsRepository) Set(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// GetFloat retrieves a setting as a float64.
func (r *SettingsRepository) GetFloat(key string) (float64, error) {
	value, err := r.Get(key)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(value, 64)
}

// SetFloat stores a float64 setting.
func (r *SettingsRepository) SetFloat(key string, value float64) error {
	return r.Set(key, strconv.FormatFloat(value, 'g', -1, 64))
}
