package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLoginSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["employee_id"] != "EMP001" {
			t.Errorf("employee_id = %s", req["employee_id"])
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "Login successful!",
			"token":   "tok-123",
			"user":    map[string]any{"employee_id": "EMP001", "full_name": "Asha Rao"},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	result, err := c.Login(context.Background(), "EMP001", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Token != "tok-123" {
		t.Errorf("token = %q", result.Token)
	}
	if result.User == nil || result.User.EmployeeID != "EMP001" {
		t.Errorf("user = %+v", result.User)
	}
}

func TestLoginRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "Invalid employee ID or password",
		})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.Login(context.Background(), "EMP001", "wrong")

	var serr *StatusError
	if !errors.As(err, &serr) {
		t.Fatalf("err = %v, want StatusError", err)
	}
	if serr.Status != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", serr.Status)
	}
	if serr.Message != "Invalid employee ID or password" {
		t.Errorf("message = %q", serr.Message)
	}
}

func TestLoginDeadlineClassified(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(Config{BaseURL: srv.URL, AuthDeadline: 20 * time.Millisecond})
	_, err := c.Login(context.Background(), "EMP001", "secret1")
	if !errors.Is(err, ErrDeadline) {
		t.Fatalf("err = %v, want ErrDeadline", err)
	}
}

func TestUnreachableClassified(t *testing.T) {
	// A closed port: connection refused, not a timeout.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	c := NewClient(Config{BaseURL: base})
	_, err := c.Login(context.Background(), "EMP001", "secret1")
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("err = %v, want ErrUnreachable", err)
	}
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"success": true, "targets": []any{}})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	c.SetToken("tok-123")
	if _, err := c.FetchTargets(context.Background(), "daily", "EMP001"); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("authorization = %q", gotAuth)
	}

	c.SetToken("")
	if _, err := c.FetchTargets(context.Background(), "daily", "EMP001"); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("authorization after clear = %q", gotAuth)
	}
}

func TestFetchLeaderboardQueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/leaderboard/EMP001" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("period") != "week" || q.Get("layer") != "cluster" {
			t.Errorf("query = %v", q)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"rankings": []map[string]any{
				{"employee_id": "EMP001", "full_name": "Asha Rao", "rank": 1, "score": 9000},
			},
			"grouped": true,
		})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	result, err := c.FetchLeaderboard(context.Background(), "EMP001", "week", "cluster")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !result.Grouped || len(result.Rankings) != 1 {
		t.Errorf("result = %+v", result)
	}
}

func TestFetchZoneCustomers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"customers": []map[string]any{
				{"name": "Patel Kirana", "phone": "9800000001", "gap": 400},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	customers, err := c.FetchZoneCustomers(context.Background(), "nudge-zone", "EMP001")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(customers) != 1 || customers[0].Name != "Patel Kirana" {
		t.Errorf("customers = %+v", customers)
	}
}

func TestForgotPasswordMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "If the employee ID exists, a password reset email has been sent.",
		})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	msg, err := c.ForgotPassword(context.Background(), "EMP001")
	if err != nil {
		t.Fatalf("forgot password: %v", err)
	}
	if msg == "" {
		t.Error("expected advisory message")
	}
}
