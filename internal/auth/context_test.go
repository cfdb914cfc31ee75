package auth

import (
	"context"
	"testing"
)

func TestIdentityRoundTrip(t *testing.T) {
	ctx := WithIdentity(context.Background(), Identity{EmployeeID: "EMP001", Role: "BUSINESS_DEVELOPMENT_EXECUTIVE"})

	id, ok := IdentityFromContext(ctx)
	if !ok {
		t.Fatal("expected identity in context")
	}
	if id.EmployeeID != "EMP001" {
		t.Errorf("employee_id = %q, want EMP001", id.EmployeeID)
	}
	if EmployeeID(ctx) != "EMP001" {
		t.Errorf("EmployeeID = %q, want EMP001", EmployeeID(ctx))
	}
}

func TestIdentityMissing(t *testing.T) {
	if _, ok := IdentityFromContext(context.Background()); ok {
		t.Error("expected no identity in empty context")
	}
	if EmployeeID(context.Background()) != "" {
		t.Error("expected empty employee id")
	}
}
