package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Session represents one completed training session.
type Session struct {
	ID               string
	StartedAt        time.Time
	Duration         time.Duration
	TotalPunches     int
	PunchesPerMinute float64
	JabCount         int
	CrossCount       int
	HookCount        int
	UppercutCount    int
	ComboAttempts    int
	ComboSuccesses   int
	ComboDetails     map[string]int
	CreatedAt        time.Time
}

// Summary aggregates statistics across all stored sessions. The
// distribution values are percentages of all punches thrown.
type Summary struct {
	TotalSessions       int
	TotalPunches        int
	AvgPunchesPerMinute float64
	MaxPunchesPerMinute float64
	TotalMinutes        float64
	Distribution        map[string]float64
	TotalComboSuccesses int
}

// SessionRepository provides persistence for sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a completed session into the database.
func (r *SessionRepository) Create(sess *Session) error {
	sess.CreatedAt = time.Now()

	details := sess.ComboDetails
	if details == nil {
		details = map[string]int{}
	}
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("encode combo details: %w", err)
	}

	_, err = r.db.Exec(
		`INSERT INTO sessions (id, started_at, duration_seconds, total_punches, punches_per_minute,
			jab_count, cross_count, hook_count, uppercut_count,
			combo_attempts, combo_successes, combo_details, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.StartedAt, sess.Duration.Seconds(), sess.TotalPunches, sess.PunchesPerMinute,
		sess.JabCount, sess.CrossCount, sess.HookCount, sess.UppercutCount,
		sess.ComboAttempts, sess.ComboSuccesses, string(detailsJSON), sess.CreatedAt,
	)
	return err
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	row := r.db.QueryRow(
		`SELECT id, started_at, duration_seconds, total_punches, punches_per_minute,
			jab_count, cross_count, hook_count, uppercut_count,
			combo_attempts, combo_successes, combo_details, created_at
		 FROM sessions WHERE id = ?`,
		id,
	)

	sess, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sess, nil
}

// List retrieves the most recent sessions, newest first. A limit of 0
// or less returns all sessions.
func (r *SessionRepository) List(limit int) ([]*Session, error) {
	query := `SELECT id, started_at, duration_seconds, total_punches, punches_per_minute,
			jab_count, cross_count, hook_count, uppercut_count,
			combo_attempts, combo_successes, combo_details, created_at
		 FROM sessions ORDER BY started_at DESC`

	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = r.db.Query(query+` LIMIT ?`, limit)
	} else {
		rows, err = r.db.Query(query)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// Delete removes a session from the database by its ID.
func (r *SessionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Summary aggregates all sessions into overall statistics.
func (r *SessionRepository) Summary() (*Summary, error) {
	var (
		totalSessions  int
		totalPunches   sql.NullInt64
		avgPPM         sql.NullFloat64
		maxPPM         sql.NullFloat64
		jabs           sql.NullInt64
		crosses        sql.NullInt64
		hooks          sql.NullInt64
		uppercuts      sql.NullInt64
		totalSeconds   sql.NullFloat64
		comboSuccesses sql.NullInt64
	)

	err := r.db.QueryRow(
		`SELECT COUNT(*), SUM(total_punches), AVG(punches_per_minute), MAX(punches_per_minute),
			SUM(jab_count), SUM(cross_count), SUM(hook_count), SUM(uppercut_count),
			SUM(duration_seconds), SUM(combo_successes)
		 FROM sessions`,
	).Scan(&totalSessions, &totalPunches, &avgPPM, &maxPPM,
		&jabs, &crosses, &hooks, &uppercuts, &totalSeconds, &comboSuccesses)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		TotalSessions: totalSessions,
		Distribution: map[string]float64{
			"jab":      0,
			"cross":    0,
			"hook":     0,
			"uppercut": 0,
		},
	}
	if totalSessions == 0 {
		return summary, nil
	}

	summary.TotalPunches = int(totalPunches.Int64)
	summary.AvgPunchesPerMinute = avgPPM.Float64
	summary.MaxPunchesPerMinute = maxPPM.Float64
	summary.TotalMinutes = totalSeconds.Float64 / 60
	summary.TotalComboSuccesses = int(comboSuccesses.Int64)

	// Avoid division by zero
	total := float64(summary.TotalPunches)
	if total == 0 {
		total = 1
	}
	summary.Distribution["jab"] = float64(jabs.Int64) / total * 100
	summary.Distribution["cross"] = float64(crosses.Int64) / total * 100
	summary.Distribution["hook"] = float64(hooks.Int64) / total * 100
	summary.Distribution["uppercut"] = float64(uppercuts.Int64) / total * 100

	return summary, nil
}

// scanner abstracts sql.Row and sql.Rows for scanSession.
type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*Session, error) {
	sess := &Session{}
	var durationSeconds float64
	var detailsJSON string

	err := row.Scan(&sess.ID, &sess.StartedAt, &durationSeconds, &sess.TotalPunches, &sess.PunchesPerMinute,
		&sess.JabCount, &sess.CrossCount, &sess.HookCount, &sess.UppercutCount,
		&sess.ComboAttempts, &sess.ComboSuccesses, &detailsJSON, &sess.CreatedAt)
	if err != nil {
		return nil, err
	}

	sess.Duration = time.Duration(durationSeconds * float64(time.Second))
	sess.ComboDetails = map[string]int{}
	if detailsJSON != "" {
		if err := json.Unmarshal([]byte(detailsJSON), &sess.ComboDetails); err != nil {
			return nil, fmt.Errorf("decode combo details: %w", err)
		}
	}
	return sess, nil
}
