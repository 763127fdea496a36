package store

import (
	"database/sql"
	"time"
)

// ThresholdRepository stores per-deployment overrides of the analysis
// tuning thresholds.
type ThresholdRepository struct {
	db *sql.DB
}

// Thresholds returns the threshold override repository for this store.
func (s *Store) Thresholds() *ThresholdRepository {
	return &ThresholdRepository{db: s.db}
}

// List returns all stored overrides.
func (r *ThresholdRepository) List() (map[string]float64, error) {
	rows, err := r.db.Query(`SELECT key, value FROM threshold_overrides`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	overrides := make(map[string]float64)
	for rows.Next() {
		var key string
		var value float64
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		overrides[key] = value
	}
	return overrides, rows.Err()
}

// Set stores or replaces the override for key.
func (r *ThresholdRepository) Set(key string, value float64) error {
	_, err := r.db.Exec(
		`INSERT INTO threshold_overrides (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now(),
	)
	return err
}

// Delete removes the override for key, restoring the built-in default.
func (r *ThresholdRepository) Delete(key string) error {
	_, err := r.db.Exec(`DELETE FROM threshold_overrides WHERE key = ?`, key)
	return err
}

// Merged lays the stored overrides over the given defaults and returns the
// combined map. The defaults map is not modified.
func (r *ThresholdRepository) Merged(defaults map[string]float64) (map[string]float64, error) {
	overrides, err := r.List()
	if err != nil {
		return nil, err
	}

	merged := make(map[string]float64, len(defaults)+len(overrides))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged, nil
}
