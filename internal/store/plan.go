package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Plan is a saved workout configuration: which exercise to run and the
// rep/set or duration targets for it.
type Plan struct {
	ID                string
	Name              string
	Exercise          string
	TargetReps        int
	TargetSets        int
	TargetDurationSec float64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// PlanRepository provides CRUD operations for plans.
type PlanRepository struct {
	db *sql.DB
}

// Plans returns the plan repository for this store.
func (s *Store) Plans() *PlanRepository {
	return &PlanRepository{db: s.db}
}

// Create inserts a new plan.
func (r *PlanRepository) Create(p *Plan) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO plans (id, name, exercise, target_reps, target_sets, target_duration_sec, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Exercise, p.TargetReps, p.TargetSets, p.TargetDurationSec, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// GetByID retrieves a plan by its ID.
func (r *PlanRepository) GetByID(id string) (*Plan, error) {
	p := &Plan{}
	err := r.db.QueryRow(
		`SELECT id, name, exercise, target_reps, target_sets, target_duration_sec, created_at, updated_at
		 FROM plans WHERE id = ?`,
		id,
	).Scan(&p.ID, &p.Name, &p.Exercise, &p.TargetReps, &p.TargetSets, &p.TargetDurationSec, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// List retrieves all plans, most recently created first.
func (r *PlanRepository) List() ([]*Plan, error) {
	rows, err := r.db.Query(
		`SELECT id, name, exercise, target_reps, target_sets, target_duration_sec, created_at, updated_at
		 FROM plans ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*Plan
	for rows.Next() {
		p := &Plan{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Exercise, &p.TargetReps, &p.TargetSets, &p.TargetDurationSec, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// Update modifies an existing plan.
func (r *PlanRepository) Update(p *Plan) error {
	p.UpdatedAt = time.Now()

	res, err := r.db.Exec(
		`UPDATE plans SET name = ?, exercise = ?, target_reps = ?, target_sets = ?, target_duration_sec = ?, updated_at = ?
		 WHERE id = ?`,
		p.Name, p.Exercise, p.TargetReps, p.TargetSets, p.TargetDurationSec, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a plan by ID.
func (r *PlanRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
