package store

import (
	"database/sql"
	"testing"

	"salespulse/internal/database"
	"salespulse/internal/model"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testExecutive(employeeID string) *model.Executive {
	return &model.Executive{
		EmployeeID:  employeeID,
		FullName:    "Asha Rao",
		Email:       "asha@example.com",
		Role:        "BUSINESS_DEVELOPMENT_EXECUTIVE",
		City:        "Pune",
		Cluster:     "Pune West",
		VariablePay: 12000,
	}
}
