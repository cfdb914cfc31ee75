package store

import (
	"database/sql"
	"fmt"

	"salespulse/internal/model"
)

type ExecutiveStore struct {
	db *sql.DB
}

func NewExecutiveStore(db *sql.DB) *ExecutiveStore {
	return &ExecutiveStore{db: db}
}

func scanExecutive(scanner interface{ Scan(...any) error }) (*model.Executive, error) {
	var e model.Executive
	err := scanner.Scan(&e.EmployeeID, &e.FullName, &e.Email, &e.Role, &e.City, &e.Cluster, &e.VariablePay)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

const executiveCols = `employee_id, full_name, email, role, city, cluster, variable_pay`

func (s *ExecutiveStore) Create(e *model.Executive) error {
	_, err := s.db.Exec(
		`INSERT INTO executives (`+executiveCols+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.EmployeeID, e.FullName, e.Email, e.Role, e.City, e.Cluster, e.VariablePay,
	)
	if err != nil {
		return fmt.Errorf("insert executive: %w", err)
	}
	return nil
}

func (s *ExecutiveStore) GetByEmployeeID(employeeID string) (*model.Executive, error) {
	row := s.db.QueryRow(`SELECT `+executiveCols+` FROM executives WHERE employee_id = ?`, employeeID)
	e, err := scanExecutive(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get executive: %w", err)
	}
	return e, nil
}

// GetByEmployeeIDAndRole returns the roster record only when the role matches.
func (s *ExecutiveStore) GetByEmployeeIDAndRole(employeeID, role string) (*model.Executive, error) {
	row := s.db.QueryRow(
		`SELECT `+executiveCols+` FROM executives WHERE employee_id = ? AND role = ?`,
		employeeID, role,
	)
	e, err := scanExecutive(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get executive by role: %w", err)
	}
	return e, nil
}
