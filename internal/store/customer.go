package store

import (
	"database/sql"
	"fmt"

	"salespulse/internal/model"
)

type CustomerStore struct {
	db *sql.DB
}

func NewCustomerStore(db *sql.DB) *CustomerStore {
	return &CustomerStore{db: db}
}

// ListByZone returns the engagement list ("nudge-zone" or "so-close") for one
// employee.
func (s *CustomerStore) ListByZone(employeeID, zone string) ([]model.Customer, error) {
	rows, err := s.db.Query(
		`SELECT name, phone, gap, last_order_at FROM customers
		 WHERE employee_id = ? AND zone = ? ORDER BY gap`,
		employeeID, zone,
	)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var customers []model.Customer
	for rows.Next() {
		var c model.Customer
		var lastOrder sql.NullTime
		if err := rows.Scan(&c.Name, &c.Phone, &c.Gap, &lastOrder); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		if lastOrder.Valid {
			c.LastOrderAt = &lastOrder.Time
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}
	return customers, nil
}

func (s *CustomerStore) Insert(employeeID, zone string, c model.Customer) error {
	var lastOrder sql.NullTime
	if c.LastOrderAt != nil {
		lastOrder = sql.NullTime{Time: c.LastOrderAt.UTC(), Valid: true}
	}
	_, err := s.db.Exec(
		`INSERT INTO customers (employee_id, zone, name, phone, gap, last_order_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		employeeID, zone, c.Name, c.Phone, c.Gap, lastOrder,
	)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// ListTargetCustomers returns the per-selection customer list for one metric
// and period.
func (s *CustomerStore) ListTargetCustomers(employeeID, metric, period string) ([]model.TargetCustomer, error) {
	rows, err := s.db.Query(
		`SELECT name, phone, achieved, target FROM target_customers
		 WHERE employee_id = ? AND metric = ? AND period = ? ORDER BY target - achieved`,
		employeeID, metric, period,
	)
	if err != nil {
		return nil, fmt.Errorf("list target customers: %w", err)
	}
	defer rows.Close()

	var customers []model.TargetCustomer
	for rows.Next() {
		var c model.TargetCustomer
		if err := rows.Scan(&c.Name, &c.Phone, &c.Achieved, &c.Target); err != nil {
			return nil, fmt.Errorf("scan target customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate target customers: %w", err)
	}
	return customers, nil
}

func (s *CustomerStore) InsertTargetCustomer(employeeID, metric, period string, c model.TargetCustomer) error {
	_, err := s.db.Exec(
		`INSERT INTO target_customers (employee_id, metric, period, name, phone, achieved, target)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		employeeID, metric, period, c.Name, c.Phone, c.Achieved, c.Target,
	)
	if err != nil {
		return fmt.Errorf("insert target customer: %w", err)
	}
	return nil
}
