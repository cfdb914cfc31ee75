// Package session owns the client-side authentication lifecycle: restoring a
// persisted session on startup, tracking inactivity, and expiring the session
// when the user has been idle too long.
package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"salespulse/internal/client/storage"
	"salespulse/internal/model"
)

// State is the auth lifecycle position. The manager starts Unchecked and
// never returns to it.
type State int

const (
	// StateUnchecked means RestoreSession has not run yet. The UI shows
	// nothing auth-dependent in this state.
	StateUnchecked State = iota

	// StateUnauthenticated means there is no live session.
	StateUnauthenticated

	// StatePendingSplash means credentials were accepted but the
	// post-login splash has not finished; data loading waits for
	// CompleteLogin.
	StatePendingSplash

	// StateAuthenticated means a live session with a fresh activity stamp.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateUnchecked:
		return "unchecked"
	case StateUnauthenticated:
		return "unauthenticated"
	case StatePendingSplash:
		return "pending_splash"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

const (
	// DefaultTimeout is how long a session survives without user activity.
	DefaultTimeout = 6 * time.Hour

	// DefaultCheckInterval is how often the background checker looks for
	// an expired session.
	DefaultCheckInterval = time.Minute
)

// Manager drives the auth lifecycle. All methods are safe for concurrent
// use. Construct with NewManager; the zero value is not usable.
type Manager struct {
	store         storage.Store
	timeout       time.Duration
	checkInterval time.Duration
	now           func() time.Time
	logger        *slog.Logger

	mu        sync.Mutex
	state     State
	user      *model.User
	token     string
	onChange  func(State)
	wipeHooks []func()
	cancel    context.CancelFunc
}

// Option configures a Manager.
type Option func(*Manager)

// WithTimeout overrides the inactivity timeout.
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) { m.timeout = d }
}

// WithCheckInterval overrides the background check cadence.
func WithCheckInterval(d time.Duration) Option {
	return func(m *Manager) { m.checkInterval = d }
}

// WithClock overrides the time source. Tests use this.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

func NewManager(store storage.Store, opts ...Option) *Manager {
	m := &Manager{
		store:         store,
		timeout:       DefaultTimeout,
		checkInterval: DefaultCheckInterval,
		now:           time.Now,
		logger:        slog.Default(),
		state:         StateUnchecked,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// OnStateChange registers the callback invoked after every state transition.
// It runs outside the manager's lock.
func (m *Manager) OnStateChange(fn func(State)) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

// AddWipeHook registers a callback run whenever the session is torn down,
// whether by explicit logout or inactivity timeout. Views use this to drop
// cached data belonging to the departing user.
func (m *Manager) AddWipeHook(fn func()) {
	m.mu.Lock()
	m.wipeHooks = append(m.wipeHooks, fn)
	m.mu.Unlock()
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// User returns the signed-in user, or nil outside a session.
func (m *Manager) User() *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// Token returns the bearer token, or "" outside a session.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// RestoreSession resolves the Unchecked state from persisted data. It
// returns true only when the full triple {token, user, last activity} is
// present, readable, and inside the inactivity window; anything less clears
// storage and lands in Unauthenticated. It runs synchronously so callers can
// gate rendering on its completion.
func (m *Manager) RestoreSession() bool {
	m.mu.Lock()

	token, okTok := m.store.Get(storage.KeyAuthToken)
	userData, okUser := m.store.Get(storage.KeyUserData)
	rawActivity, okAct := m.store.Get(storage.KeyLastActivity)
	if !okTok || !okUser || !okAct || token == "" || userData == "" || rawActivity == "" {
		m.clearPersistedLocked()
		m.setStateLocked(StateUnauthenticated)
		m.mu.Unlock()
		m.notify(StateUnauthenticated)
		return false
	}

	var user model.User
	if err := json.Unmarshal([]byte(userData), &user); err != nil {
		m.logger.Warn("discarding unreadable persisted session", "error", err)
		m.clearPersistedLocked()
		m.setStateLocked(StateUnauthenticated)
		m.mu.Unlock()
		m.notify(StateUnauthenticated)
		return false
	}

	// An unreadable activity stamp means the session's age is unknown, so
	// it cannot be trusted against the inactivity window.
	millis, err := strconv.ParseInt(rawActivity, 10, 64)
	if err != nil {
		m.logger.Warn("discarding session with unreadable activity stamp", "error", err)
		m.clearPersistedLocked()
		m.setStateLocked(StateUnauthenticated)
		m.mu.Unlock()
		m.notify(StateUnauthenticated)
		return false
	}

	if m.now().Sub(time.UnixMilli(millis)) > m.timeout {
		m.logger.Info("persisted session expired", "employee_id", user.EmployeeID)
		m.clearPersistedLocked()
		m.setStateLocked(StateUnauthenticated)
		m.mu.Unlock()
		m.notify(StateUnauthenticated)
		return false
	}

	m.token = token
	m.user = &user
	m.recordActivityLocked()
	m.setStateLocked(StateAuthenticated)
	m.startCheckerLocked()
	m.mu.Unlock()
	m.notify(StateAuthenticated)
	return true
}

// BeginLogin enters the splash-gated phase after the server accepted
// credentials. The token and user are persisted immediately so a crash
// during the splash still leaves a restorable session.
func (m *Manager) BeginLogin(token string, user *model.User) {
	m.mu.Lock()
	m.token = token
	m.user = user
	if err := m.store.Set(storage.KeyAuthToken, token); err != nil {
		m.logger.Error("persist auth token", "error", err)
	}
	if data, err := json.Marshal(user); err == nil {
		if err := m.store.Set(storage.KeyUserData, string(data)); err != nil {
			m.logger.Error("persist user data", "error", err)
		}
	}
	m.recordActivityLocked()
	m.setStateLocked(StatePendingSplash)
	m.mu.Unlock()
	m.notify(StatePendingSplash)
}

// CompleteLogin finishes the splash phase and starts the inactivity checker.
// Calling it outside StatePendingSplash is a no-op.
func (m *Manager) CompleteLogin() {
	m.mu.Lock()
	if m.state != StatePendingSplash {
		m.mu.Unlock()
		return
	}
	m.recordActivityLocked()
	m.setStateLocked(StateAuthenticated)
	m.startCheckerLocked()
	m.mu.Unlock()
	m.notify(StateAuthenticated)
}

// RecordActivity stamps the current time as the last user interaction.
// Callers wire it to input events; calling it repeatedly is cheap and
// idempotent.
func (m *Manager) RecordActivity() {
	m.mu.Lock()
	m.recordActivityLocked()
	m.mu.Unlock()
}

// IsExpired reports whether the persisted activity stamp is older than the
// inactivity timeout. A missing stamp is not treated as expired.
func (m *Manager) IsExpired() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.expiredLocked()
}

// Logout tears the session down: persisted keys cleared, wipe hooks run,
// checker stopped. Safe to call when no session exists.
func (m *Manager) Logout() {
	m.logout("logout")
}

// HandleVisibility is called when the app regains or loses foreground focus.
// On regaining focus with a live session it either expires the session (the
// background checker cannot be trusted to have fired while suspended) or
// refreshes the activity stamp.
func (m *Manager) HandleVisibility(visible bool) {
	if !visible {
		return
	}
	m.mu.Lock()
	if m.state != StateAuthenticated {
		m.mu.Unlock()
		return
	}
	if m.expiredLocked() {
		m.mu.Unlock()
		m.logout("inactivity on resume")
		return
	}
	m.recordActivityLocked()
	m.mu.Unlock()
}

func (m *Manager) logout(reason string) {
	m.mu.Lock()
	if m.state == StateUnauthenticated {
		m.mu.Unlock()
		return
	}
	m.logger.Info("ending session", "reason", reason)
	m.clearPersistedLocked()
	m.token = ""
	m.user = nil
	m.stopCheckerLocked()
	m.setStateLocked(StateUnauthenticated)
	hooks := make([]func(), len(m.wipeHooks))
	copy(hooks, m.wipeHooks)
	m.mu.Unlock()

	for _, hook := range hooks {
		hook()
	}
	m.notify(StateUnauthenticated)
}

func (m *Manager) recordActivityLocked() {
	millis := strconv.FormatInt(m.now().UnixMilli(), 10)
	if err := m.store.Set(storage.KeyLastActivity, millis); err != nil {
		m.logger.Error("persist activity stamp", "error", err)
	}
}

func (m *Manager) expiredLocked() bool {
	raw, ok := m.store.Get(storage.KeyLastActivity)
	if !ok || raw == "" {
		return false
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false
	}
	last := time.UnixMilli(millis)
	return m.now().Sub(last) > m.timeout
}

func (m *Manager) clearPersistedLocked() {
	for _, key := range []string{storage.KeyAuthToken, storage.KeyUserData, storage.KeyLastActivity} {
		if err := m.store.Delete(key); err != nil {
			m.logger.Error("clear persisted session", "key", key, "error", err)
		}
	}
}

func (m *Manager) setStateLocked(s State) {
	m.state = s
}

func (m *Manager) notify(s State) {
	m.mu.Lock()
	fn := m.onChange
	m.mu.Unlock()
	if fn != nil {
		fn(s)
	}
}

// startCheckerLocked launches the periodic inactivity check for the current
// session. A prior checker, if any, is cancelled first.
func (m *Manager) startCheckerLocked() {
	m.stopCheckerLocked()
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	go m.runChecker(ctx)
}

func (m *Manager) stopCheckerLocked() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m *Manager) runChecker(ctx context.Context) {
	ticker := time.NewTicker(m.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.mu.Lock()
			live := m.state == StateAuthenticated
			expired := live && m.expiredLocked()
			m.mu.Unlock()
			if expired {
				m.logout("inactivity timeout")
				return
			}
		}
	}
}
