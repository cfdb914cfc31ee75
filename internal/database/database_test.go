package database

import "testing"

func TestOpenRunsMigrations(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	tables := []string{"executives", "users", "targets", "leaderboard", "customers", "target_customers", "incentives", "notifications"}
	for _, table := range tables {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	_, err = db.Exec(`INSERT INTO users (employee_id, password_hash, full_name, email, role) VALUES ('GHOST', 'h', 'n', 'e', 'r')`)
	if err == nil {
		t.Error("expected foreign key violation for user without executive")
	}
}
