package store

import (
	"database/sql"
	"fmt"

	"salespulse/internal/model"
)

type NotificationStore struct {
	db *sql.DB
}

func NewNotificationStore(db *sql.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

func (s *NotificationStore) Create(title, body string) (*model.Notification, error) {
	result, err := s.db.Exec(
		`INSERT INTO notifications (title, body) VALUES (?, ?)`,
		title, body,
	)
	if err != nil {
		return nil, fmt.Errorf("insert notification: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	row := s.db.QueryRow(`SELECT id, title, body, created_at FROM notifications WHERE id = ?`, id)
	var n model.Notification
	if err := row.Scan(&n.ID, &n.Title, &n.Body, &n.CreatedAt); err != nil {
		return nil, fmt.Errorf("get notification: %w", err)
	}
	return &n, nil
}

// ListRecent returns the newest notifications first.
func (s *NotificationStore) ListRecent(limit int) ([]model.Notification, error) {
	rows, err := s.db.Query(
		`SELECT id, title, body, created_at FROM notifications ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var list []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.Title, &n.Body, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		list = append(list, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return list, nil
}
