package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Plans table - stores saved workout plans
		`CREATE TABLE IF NOT EXISTS plans (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			exercise TEXT NOT NULL,
			target_reps INTEGER NOT NULL DEFAULT 0,
			target_sets INTEGER NOT NULL DEFAULT 0,
			target_duration_sec REAL NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Threshold overrides table - per-deployment tuning of the
		// built-in analysis thresholds
		`CREATE TABLE IF NOT EXISTS threshold_overrides (
			key TEXT PRIMARY KEY,
			value REAL NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings table - application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_plans_exercise ON plans(exercise)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
