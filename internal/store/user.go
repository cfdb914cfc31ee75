package store

import (
	"database/sql"
	"fmt"
	"time"

	"salespulse/internal/model"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	var tokenHash sql.NullString
	var tokenExpiry sql.NullTime

	err := scanner.Scan(
		&u.EmployeeID, &u.PasswordHash, &u.FullName, &u.Email, &u.Role,
		&tokenHash, &tokenExpiry, &u.CreatedAt, &u.LastLogin,
	)
	if err != nil {
		return nil, err
	}

	if tokenHash.Valid {
		u.ResetTokenHash = &tokenHash.String
	}
	if tokenExpiry.Valid {
		u.ResetTokenExpiresAt = &tokenExpiry.Time
	}
	return &u, nil
}

const userCols = `employee_id, password_hash, full_name, email, role, reset_token_hash, reset_token_expires_at, created_at, last_login`

func (s *UserStore) Create(employeeID, passwordHash, fullName, email, role string) (*model.User, error) {
	_, err := s.db.Exec(
		`INSERT INTO users (employee_id, password_hash, full_name, email, role) VALUES (?, ?, ?, ?, ?)`,
		employeeID, passwordHash, fullName, email, role,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return s.GetByEmployeeID(employeeID)
}

func (s *UserStore) GetByEmployeeID(employeeID string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE employee_id = ?`, employeeID)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) TouchLastLogin(employeeID string) error {
	_, err := s.db.Exec(
		`UPDATE users SET last_login = datetime('now') WHERE employee_id = ?`,
		employeeID,
	)
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}

// SetResetToken stores the token hash and expiry against the user's row,
// overwriting any outstanding token.
func (s *UserStore) SetResetToken(employeeID, tokenHash string, expiresAt time.Time) error {
	res, err := s.db.Exec(
		`UPDATE users SET reset_token_hash = ?, reset_token_expires_at = ? WHERE employee_id = ?`,
		tokenHash, expiresAt, employeeID,
	)
	if err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("set reset token: no such user")
	}
	return nil
}

// ConsumeResetToken updates the password and clears the reset token columns
// in a single conditional statement. It returns false when the hash does not
// match or the token has expired; a failed attempt leaves the stored token
// intact.
func (s *UserStore) ConsumeResetToken(employeeID, tokenHash, newPasswordHash string) (bool, error) {
	res, err := s.db.Exec(
		`UPDATE users
		 SET password_hash = ?, reset_token_hash = NULL, reset_token_expires_at = NULL
		 WHERE employee_id = ? AND reset_token_hash = ? AND reset_token_expires_at > ?`,
		newPasswordHash, employeeID, tokenHash, time.Now().UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("consume reset token: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}
