package store

import (
	"database/sql"
	"fmt"

	"salespulse/internal/model"
)

type LeaderboardStore struct {
	db *sql.DB
}

func NewLeaderboardStore(db *sql.DB) *LeaderboardStore {
	return &LeaderboardStore{db: db}
}

// ListForEmployee returns the ranking rows visible to an employee for the
// given period ("day"/"week") and layer ("city"/"cluster"): every entry in the
// employee's own group, ordered by rank.
func (s *LeaderboardStore) ListForEmployee(employeeID, period, layer string) ([]model.RankEntry, error) {
	rows, err := s.db.Query(
		`SELECT employee_id, full_name, group_name, rank, score
		 FROM leaderboard
		 WHERE period = ? AND layer = ?
		   AND group_name = (SELECT group_name FROM leaderboard
		                     WHERE employee_id = ? AND period = ? AND layer = ? LIMIT 1)
		 ORDER BY rank`,
		period, layer, employeeID, period, layer,
	)
	if err != nil {
		return nil, fmt.Errorf("list leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []model.RankEntry
	for rows.Next() {
		var e model.RankEntry
		if err := rows.Scan(&e.EmployeeID, &e.FullName, &e.GroupName, &e.Rank, &e.Score); err != nil {
			return nil, fmt.Errorf("scan rank entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leaderboard: %w", err)
	}
	return entries, nil
}

func (s *LeaderboardStore) Insert(period, layer, groupName string, e model.RankEntry) error {
	_, err := s.db.Exec(
		`INSERT INTO leaderboard (employee_id, period, layer, group_name, full_name, rank, score)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.EmployeeID, period, layer, groupName, e.FullName, e.Rank, e.Score,
	)
	if err != nil {
		return fmt.Errorf("insert rank entry: %w", err)
	}
	return nil
}
