package store

import (
	"database/sql"
	"fmt"

	"salespulse/internal/model"
)

type TargetStore struct {
	db *sql.DB
}

func NewTargetStore(db *sql.DB) *TargetStore {
	return &TargetStore{db: db}
}

// ListByPeriod returns the metric rows for one employee and period
// ("daily" or "weekly").
func (s *TargetStore) ListByPeriod(employeeID, period string) ([]model.Target, error) {
	rows, err := s.db.Query(
		`SELECT metric, unit, achieved, target, slab1_target, slab2_target, slab3_target, incentive_pending
		 FROM targets WHERE employee_id = ? AND period = ? ORDER BY metric`,
		employeeID, period,
	)
	if err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}
	defer rows.Close()

	var targets []model.Target
	for rows.Next() {
		var t model.Target
		if err := rows.Scan(&t.Metric, &t.Unit, &t.Achieved, &t.Target,
			&t.Slab1Target, &t.Slab2Target, &t.Slab3Target, &t.IncentivePending); err != nil {
			return nil, fmt.Errorf("scan target: %w", err)
		}
		targets = append(targets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate targets: %w", err)
	}
	return targets, nil
}

// Upsert replaces the row for (employee, period, metric).
func (s *TargetStore) Upsert(employeeID, period string, t model.Target) error {
	_, err := s.db.Exec(
		`INSERT INTO targets (employee_id, period, metric, unit, achieved, target, slab1_target, slab2_target, slab3_target, incentive_pending)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (employee_id, period, metric) DO UPDATE SET
		   unit = excluded.unit, achieved = excluded.achieved, target = excluded.target,
		   slab1_target = excluded.slab1_target, slab2_target = excluded.slab2_target,
		   slab3_target = excluded.slab3_target, incentive_pending = excluded.incentive_pending`,
		employeeID, period, t.Metric, t.Unit, t.Achieved, t.Target,
		t.Slab1Target, t.Slab2Target, t.Slab3Target, t.IncentivePending,
	)
	if err != nil {
		return fmt.Errorf("upsert target: %w", err)
	}
	return nil
}
