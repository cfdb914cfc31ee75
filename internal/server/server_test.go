package server

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"salespulse/internal/database"
	"salespulse/internal/email"
	"salespulse/internal/model"
	"salespulse/internal/store"
)

func setupTestServer(t *testing.T) (http.Handler, *sql.DB) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ec := email.NewClient("", "", "")
	srv := New(db, ec, []byte("test-secret"), logger)
	return srv.Router(), db
}

func seedUser(t *testing.T, db *sql.DB) {
	t.Helper()
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

	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	us := store.NewUserStore(db)
	if _, err := us.Create("EMP001", string(hash), "Asha Rao", "asha@example.com", "BUSINESS_DEVELOPMENT_EXECUTIVE"); err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func loginToken(t *testing.T, router http.Handler) string {
	t.Helper()
	body := bytes.NewReader([]byte(`{"employee_id":"EMP001","password":"secret1"}`))
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	return resp.Token
}

func authedGet(router http.Handler, token, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := setupTestServer(t)

	rec := authedGet(router, "", "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router, db := setupTestServer(t)
	seedUser(t, db)

	paths := []string{
		"/api/auth/verify",
		"/api/targets/daily/EMP001",
		"/api/leaderboard/EMP001",
		"/api/customers/nudge-zone/EMP001",
		"/api/incentives/daily/EMP001",
		"/api/target-customers/EMP001?metric=gsv&period=daily",
		"/api/notifications",
	}
	for _, path := range paths {
		if rec := authedGet(router, "", path); rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token = %d, want 401", path, rec.Code)
		}
		if rec := authedGet(router, "garbage", path); rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s with bad token = %d, want 401", path, rec.Code)
		}
	}
}

func TestLoginThenFetchDashboard(t *testing.T) {
	router, db := setupTestServer(t)
	seedUser(t, db)

	ts := store.NewTargetStore(db)
	if err := ts.Upsert("EMP001", "daily", model.Target{Metric: "gsv", Unit: "₹", Achieved: 4200, Target: 10000}); err != nil {
		t.Fatalf("seed target: %v", err)
	}

	token := loginToken(t, router)

	rec := authedGet(router, token, "/api/auth/verify")
	if rec.Code != http.StatusOK {
		t.Fatalf("verify status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = authedGet(router, token, "/api/targets/daily/EMP001")
	if rec.Code != http.StatusOK {
		t.Fatalf("targets status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Targets []model.Target `json:"targets"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode targets: %v", err)
	}
	if len(resp.Targets) != 1 || resp.Targets[0].Metric != "gsv" {
		t.Errorf("targets = %+v", resp.Targets)
	}
}

func TestTargetsInvalidPeriod(t *testing.T) {
	router, db := setupTestServer(t)
	seedUser(t, db)
	token := loginToken(t, router)

	rec := authedGet(router, token, "/api/targets/hourly/EMP001")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestTargetsEmptyIsArray(t *testing.T) {
	router, db := setupTestServer(t)
	seedUser(t, db)
	token := loginToken(t, router)

	rec := authedGet(router, token, "/api/targets/daily/EMP001")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(`"targets":[]`)) {
		t.Errorf("body = %s, want empty array not null", rec.Body.String())
	}
}

func TestNotificationCreateAndFetch(t *testing.T) {
	router, db := setupTestServer(t)
	seedUser(t, db)
	token := loginToken(t, router)

	body := bytes.NewReader([]byte(`{"title":"Weekly targets live","body":"New slabs are up."}`))
	req := httptest.NewRequest(http.MethodPost, "/api/notifications", body)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}

	get := authedGet(router, token, "/api/notifications")
	if get.Code != http.StatusOK {
		t.Fatalf("list status = %d", get.Code)
	}
	var resp struct {
		Notifications []model.Notification `json:"notifications"`
	}
	if err := json.Unmarshal(get.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Notifications) != 1 || resp.Notifications[0].Title != "Weekly targets live" {
		t.Errorf("notifications = %+v", resp.Notifications)
	}
}

func TestAuthRateLimit(t *testing.T) {
	router, db := setupTestServer(t)
	seedUser(t, db)

	var last int
	for i := 0; i < 11; i++ {
		body := bytes.NewReader([]byte(`{"employee_id":"EMP001","password":"wrong"}`))
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", body)
		req.RemoteAddr = "10.0.0.9:1234"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		last = rec.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("11th attempt = %d, want 429", last)
	}
}
