package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Sessions table - one row per completed training session
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at DATETIME NOT NULL,
			duration_seconds REAL NOT NULL,
			total_punches INTEGER NOT NULL DEFAULT 0,
			punches_per_minute REAL NOT NULL DEFAULT 0,
			jab_count INTEGER NOT NULL DEFAULT 0,
			cross_count INTEGER NOT NULL DEFAULT 0,
			hook_count INTEGER NOT NULL DEFAULT 0,
			uppercut_count INTEGER NOT NULL DEFAULT 0,
			combo_attempts INTEGER NOT NULL DEFAULT 0,
			combo_successes INTEGER NOT NULL DEFAULT 0,
			combo_details TEXT NOT NULL DEFAULT '{}',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
