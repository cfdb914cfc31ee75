// Package api is the typed REST client the app shell uses to talk to the
// dashboard backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"salespulse/internal/model"
)

// DefaultAuthDeadline bounds login and signup requests. It is generous on
// purpose: the hosted backend cold-starts and can take minutes to answer the
// first request.
const DefaultAuthDeadline = 180 * time.Second

var (
	// ErrDeadline means the request ran past its deadline; the backend is
	// probably cold-starting.
	ErrDeadline = errors.New("request deadline exceeded")

	// ErrUnreachable means the request never got an HTTP response.
	ErrUnreachable = errors.New("server unreachable")
)

// StatusError is a server-reported failure envelope.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

type Config struct {
	BaseURL      string
	AuthDeadline time.Duration
	HTTPClient   *http.Client
}

// Client calls the dashboard REST API. Safe for use from multiple goroutines;
// the bearer token is guarded.
type Client struct {
	baseURL      string
	authDeadline time.Duration
	httpClient   *http.Client

	mu    sync.RWMutex
	token string
}

func NewClient(cfg Config) *Client {
	if cfg.AuthDeadline == 0 {
		cfg.AuthDeadline = DefaultAuthDeadline
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	return &Client{
		baseURL:      cfg.BaseURL,
		authDeadline: cfg.AuthDeadline,
		httpClient:   cfg.HTTPClient,
	}
}

// SetToken installs the bearer token used on data routes. An empty string
// clears it (logout).
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) bearerToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// envelope is the common response wrapper every endpoint uses.
type envelope struct {
	Success       bool                    `json:"success"`
	Message       string                  `json:"message"`
	Token         string                  `json:"token"`
	User          *model.User             `json:"user"`
	Targets       []model.Target          `json:"targets"`
	Rankings      []model.RankEntry       `json:"rankings"`
	Grouped       bool                    `json:"grouped"`
	Customers     json.RawMessage         `json:"customers"`
	Incentives    *model.IncentiveSummary `json:"incentives"`
	Notifications []model.Notification    `json:"notifications"`
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*envelope, error) {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if tok := c.bearerToken(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !env.Success {
		return nil, &StatusError{Status: resp.StatusCode, Message: env.Message}
	}
	return &env, nil
}

// classifyTransport splits request failures into the deadline and
// unreachable families so callers can pick the right cold-start copy.
func classifyTransport(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrDeadline, err)
	}
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Timeout() {
		return fmt.Errorf("%w: %v", ErrDeadline, err)
	}
	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}

// AuthResult is the payload of a successful login or signup.
type AuthResult struct {
	Token   string
	User    *model.User
	Message string
}

// Login authenticates with the configured auth deadline.
func (c *Client) Login(ctx context.Context, employeeID, password string) (*AuthResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.authDeadline)
	defer cancel()

	env, err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"employee_id": employeeID,
		"password":    password,
	})
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: env.Token, User: env.User, Message: env.Message}, nil
}

// Signup registers a new login with the configured auth deadline.
func (c *Client) Signup(ctx context.Context, employeeID, password, fullName, emailAddr string) (*AuthResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.authDeadline)
	defer cancel()

	env, err := c.do(ctx, http.MethodPost, "/api/auth/signup", map[string]string{
		"employee_id": employeeID,
		"password":    password,
		"full_name":   fullName,
		"email":       emailAddr,
	})
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: env.Token, User: env.User, Message: env.Message}, nil
}

// Verify checks the installed bearer token and returns the fresh user row.
func (c *Client) Verify(ctx context.Context) (*model.User, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/auth/verify", nil)
	if err != nil {
		return nil, err
	}
	return env.User, nil
}

func (c *Client) ForgotPassword(ctx context.Context, employeeID string) (string, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/auth/forgot-password", map[string]string{
		"employee_id": employeeID,
	})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *Client) ResetPassword(ctx context.Context, employeeID, token, newPassword string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/auth/reset-password", map[string]string{
		"employee_id":  employeeID,
		"token":        token,
		"new_password": newPassword,
	})
	return err
}

// FetchTargets returns the metric rows for "daily" or "weekly".
func (c *Client) FetchTargets(ctx context.Context, period, employeeID string) ([]model.Target, error) {
	env, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/targets/%s/%s", period, employeeID), nil)
	if err != nil {
		return nil, err
	}
	return env.Targets, nil
}

// LeaderboardResult pairs the ranking rows with the grouped flag the cluster
// layer sets.
type LeaderboardResult struct {
	Rankings []model.RankEntry
	Grouped  bool
}

func (c *Client) FetchLeaderboard(ctx context.Context, employeeID, period, layer string) (*LeaderboardResult, error) {
	path := fmt.Sprintf("/api/leaderboard/%s?period=%s&layer=%s", employeeID, url.QueryEscape(period), url.QueryEscape(layer))
	env, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return &LeaderboardResult{Rankings: env.Rankings, Grouped: env.Grouped}, nil
}

// FetchZoneCustomers returns the "nudge-zone" or "so-close" list.
func (c *Client) FetchZoneCustomers(ctx context.Context, zone, employeeID string) ([]model.Customer, error) {
	env, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/customers/%s/%s", zone, employeeID), nil)
	if err != nil {
		return nil, err
	}
	var customers []model.Customer
	if len(env.Customers) > 0 {
		if err := json.Unmarshal(env.Customers, &customers); err != nil {
			return nil, fmt.Errorf("decode customers: %w", err)
		}
	}
	return customers, nil
}

func (c *Client) FetchIncentives(ctx context.Context, period, employeeID string) (*model.IncentiveSummary, error) {
	env, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/incentives/%s/%s", period, employeeID), nil)
	if err != nil {
		return nil, err
	}
	return env.Incentives, nil
}

func (c *Client) FetchTargetCustomers(ctx context.Context, employeeID, metric, period string) ([]model.TargetCustomer, error) {
	path := fmt.Sprintf("/api/target-customers/%s?metric=%s&period=%s",
		employeeID, url.QueryEscape(metric), url.QueryEscape(period))
	env, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var customers []model.TargetCustomer
	if len(env.Customers) > 0 {
		if err := json.Unmarshal(env.Customers, &customers); err != nil {
			return nil, fmt.Errorf("decode customers: %w", err)
		}
	}
	return customers, nil
}

func (c *Client) FetchNotifications(ctx context.Context) ([]model.Notification, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/notifications", nil)
	if err != nil {
		return nil, err
	}
	return env.Notifications, nil
}
