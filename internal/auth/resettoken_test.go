package auth

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"salespulse/internal/database"
	"salespulse/internal/model"
	"salespulse/internal/store"
)

func setupResetTokens(t *testing.T) (*ResetTokens, *store.UserStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	es := store.NewExecutiveStore(db)
	if err := es.Create(&model.Executive{
		EmployeeID: "EMP001",
		FullName:   "Asha Rao",
		Email:      "asha@example.com",
		Role:       "BUSINESS_DEVELOPMENT_EXECUTIVE",
		City:       "Pune",
		Cluster:    "Pune West",
	}); err != nil {
		t.Fatalf("seed executive: %v", err)
	}

	us := store.NewUserStore(db)
	if _, err := us.Create("EMP001", "oldhash", "Asha Rao", "asha@example.com", "BUSINESS_DEVELOPMENT_EXECUTIVE"); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return NewResetTokens(us), us
}

func TestResetTokenIssue(t *testing.T) {
	rt, us := setupResetTokens(t)

	raw, err := rt.Issue("EMP001")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if len(raw) != 64 { // 32 bytes hex-encoded
		t.Errorf("token length = %d, want 64", len(raw))
	}

	u, _ := us.GetByEmployeeID("EMP001")
	if u.ResetTokenHash == nil {
		t.Fatal("expected stored token hash")
	}
	if *u.ResetTokenHash == raw {
		t.Error("store must hold the hash, not the raw token")
	}
	if u.ResetTokenExpiresAt == nil {
		t.Fatal("expected stored expiry")
	}
	ttl := time.Until(*u.ResetTokenExpiresAt)
	if ttl < 55*time.Minute || ttl > 65*time.Minute {
		t.Errorf("expiry %v from now, want about an hour", ttl)
	}
}

func TestResetTokenConsume(t *testing.T) {
	rt, us := setupResetTokens(t)

	raw, err := rt.Issue("EMP001")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if err := rt.Consume("EMP001", raw, "new-password"); err != nil {
		t.Fatalf("consume: %v", err)
	}

	u, _ := us.GetByEmployeeID("EMP001")
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("new-password")); err != nil {
		t.Error("new password should verify against stored hash")
	}
	if u.ResetTokenHash != nil {
		t.Error("token should be cleared after use")
	}

	// Single use.
	if err := rt.Consume("EMP001", raw, "another-password"); err != ErrInvalidOrExpiredToken {
		t.Errorf("second consume err = %v, want ErrInvalidOrExpiredToken", err)
	}
}

func TestResetTokenConsumeWrongToken(t *testing.T) {
	rt, us := setupResetTokens(t)

	if _, err := rt.Issue("EMP001"); err != nil {
		t.Fatalf("issue: %v", err)
	}

	err := rt.Consume("EMP001", "deadbeef", "new-password")
	if err != ErrInvalidOrExpiredToken {
		t.Fatalf("err = %v, want ErrInvalidOrExpiredToken", err)
	}

	// The failed attempt must not burn the outstanding token.
	u, _ := us.GetByEmployeeID("EMP001")
	if u.ResetTokenHash == nil {
		t.Error("stored token should survive a failed attempt")
	}
	if u.PasswordHash != "oldhash" {
		t.Error("password should be unchanged")
	}
}

func TestResetTokenIssueReplacesPrevious(t *testing.T) {
	rt, _ := setupResetTokens(t)

	first, err := rt.Issue("EMP001")
	if err != nil {
		t.Fatalf("first issue: %v", err)
	}
	second, err := rt.Issue("EMP001")
	if err != nil {
		t.Fatalf("second issue: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct tokens")
	}

	if err := rt.Consume("EMP001", first, "new-password"); err != ErrInvalidOrExpiredToken {
		t.Errorf("stale token err = %v, want ErrInvalidOrExpiredToken", err)
	}
	if err := rt.Consume("EMP001", second, "new-password"); err != nil {
		t.Errorf("fresh token err = %v, want nil", err)
	}
}
