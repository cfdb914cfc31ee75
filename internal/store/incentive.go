package store

import (
	"database/sql"
	"fmt"

	"salespulse/internal/model"
)

type IncentiveStore struct {
	db *sql.DB
}

func NewIncentiveStore(db *sql.DB) *IncentiveStore {
	return &IncentiveStore{db: db}
}

// GetByPeriod returns the incentive summary for one employee and period
// ("daily" or "weekly"). A missing row comes back as a zeroed summary, the
// same shape the app shows for executives with no incentive data yet.
func (s *IncentiveStore) GetByPeriod(employeeID, period string) (*model.IncentiveSummary, error) {
	row := s.db.QueryRow(
		`SELECT achieved_amount, max_target, slab1_target, slab2_target, slab3_target
		 FROM incentives WHERE employee_id = ? AND period = ?`,
		employeeID, period,
	)

	var sum model.IncentiveSummary
	err := row.Scan(&sum.AchievedAmount, &sum.MaxTarget, &sum.Slab1Target, &sum.Slab2Target, &sum.Slab3Target)
	if err == sql.ErrNoRows {
		return &model.IncentiveSummary{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get incentives: %w", err)
	}
	return &sum, nil
}

func (s *IncentiveStore) Upsert(employeeID, period string, sum model.IncentiveSummary) error {
	_, err := s.db.Exec(
		`INSERT INTO incentives (employee_id, period, achieved_amount, max_target, slab1_target, slab2_target, slab3_target)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (employee_id, period) DO UPDATE SET
		   achieved_amount = excluded.achieved_amount, max_target = excluded.max_target,
		   slab1_target = excluded.slab1_target, slab2_target = excluded.slab2_target,
		   slab3_target = excluded.slab3_target`,
		employeeID, period, sum.AchievedAmount, sum.MaxTarget, sum.Slab1Target, sum.Slab2Target, sum.Slab3Target,
	)
	if err != nil {
		return fmt.Errorf("upsert incentives: %w", err)
	}
	return nil
}
