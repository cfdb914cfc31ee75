// Package views holds the data-loading side of the dashboard screens. Each
// view serves whatever the cache has immediately, fetches fresh data in the
// background, and drops fetch results that a newer request has superseded.
package views

import (
	"context"
	"log/slog"
	"sync"

	"salespulse/internal/client/api"
	"salespulse/internal/client/cache"
	"salespulse/internal/client/refresh"
	"salespulse/internal/client/session"
	"salespulse/internal/model"
)

// HomeCallbacks receive section data as it becomes available, first from
// cache and then from the network. Nil callbacks are skipped.
type HomeCallbacks struct {
	Targets    func([]model.Target)
	Rankings   func([]model.RankEntry, bool)
	NudgeZone  func([]model.Customer)
	SoClose    func([]model.Customer)
	Incentives func(period string, summary *model.IncentiveSummary)
}

// HomeView loads the landing screen: targets, leaderboard, customer zones
// and incentives. It owns the pull gesture and auto-refresh for the screen.
type HomeView struct {
	api     *api.Client
	cache   *cache.Cache
	coord   *refresh.Coordinator
	auto    *refresh.AutoRefresher
	gesture *refresh.GestureDetector
	session *session.Manager
	logger  *slog.Logger
	cb      HomeCallbacks

	mu           sync.Mutex
	gens         map[string]uint64
	targetPeriod string
	boardPeriod  string
	boardLayer   string
}

func NewHomeView(apiClient *api.Client, dataCache *cache.Cache, coord *refresh.Coordinator, sess *session.Manager, cb HomeCallbacks, logger *slog.Logger) *HomeView {
	v := &HomeView{
		api:          apiClient,
		cache:        dataCache,
		coord:        coord,
		gesture:      refresh.NewGestureDetector(),
		session:      sess,
		logger:       logger,
		cb:           cb,
		gens:         make(map[string]uint64),
		targetPeriod: "daily",
		boardPeriod:  "day",
		boardLayer:   "city",
	}
	v.auto = refresh.NewAutoRefresher(func() {
		v.Refresh(context.Background(), "interval")
	}, refresh.WithAutoLogger(logger))
	return v
}

// Attach loads every section (cache first, then network) and starts the
// auto-refresh loop.
func (v *HomeView) Attach(ctx context.Context) {
	v.Refresh(ctx, "attach")
	v.auto.Start(ctx)
}

// Detach stops the auto-refresh loop and forgets any partial pull gesture.
func (v *HomeView) Detach() {
	v.auto.Stop()
	v.gesture.Reset()
}

// Refresh reloads every section through the coordinator. It reports whether
// the refresh actually ran; a concurrent refresh causes a false return.
func (v *HomeView) Refresh(ctx context.Context, reason string) bool {
	return v.coord.Run(ctx, reason, func(ctx context.Context) error {
		v.mu.Lock()
		targetPeriod := v.targetPeriod
		boardPeriod := v.boardPeriod
		boardLayer := v.boardLayer
		v.mu.Unlock()

		v.fetchTargets(ctx, targetPeriod)
		v.fetchRankings(ctx, boardPeriod, boardLayer)
		v.fetchZone(ctx, "nudge-zone", v.cb.NudgeZone)
		v.fetchZone(ctx, "so-close", v.cb.SoClose)
		v.fetchIncentives(ctx, targetPeriod)
		return nil
	})
}

// HandleScroll feeds a scroll event to the pull-gesture detector and runs a
// refresh when the gesture completes. Returns whether a refresh was
// triggered.
func (v *HomeView) HandleScroll(ctx context.Context, atTop, upward bool) bool {
	if !v.gesture.Observe(atTop, upward) {
		return false
	}
	return v.Refresh(ctx, "pull gesture")
}

// SetTargetPeriod switches the targets and incentives sections between
// "daily" and "weekly" and fetches both for the new period.
func (v *HomeView) SetTargetPeriod(ctx context.Context, period string) {
	v.mu.Lock()
	v.targetPeriod = period
	v.mu.Unlock()
	v.fetchTargets(ctx, period)
	v.fetchIncentives(ctx, period)
}

// SetLeaderboard switches the leaderboard between "day"/"week" and
// "city"/"cluster" and fetches the new view.
func (v *HomeView) SetLeaderboard(ctx context.Context, period, layer string) {
	v.mu.Lock()
	v.boardPeriod = period
	v.boardLayer = layer
	v.mu.Unlock()
	v.fetchRankings(ctx, period, layer)
}

func (v *HomeView) fetchTargets(ctx context.Context, period string) {
	key := "home_targets_" + period
	if cached, ok := v.cache.Get(key).([]model.Target); ok {
		v.emitTargets(cached)
	}
	empID := v.employeeID()
	if empID == "" {
		return
	}

	gen := v.beginFetch(key)
	targets, err := v.api.FetchTargets(ctx, period, empID)
	if v.currentGen(key) != gen {
		return
	}
	if err != nil {
		v.logger.Warn("load targets", "period", period, "error", err)
		v.emitTargets(nil)
		return
	}
	v.cache.Put(key, targets)
	v.emitTargets(targets)
}

func (v *HomeView) fetchRankings(ctx context.Context, period, layer string) {
	key := "home_rankings_" + period + "_" + layer
	if cached, ok := v.cache.Get(key).(*api.LeaderboardResult); ok {
		v.emitRankings(cached)
	}
	empID := v.employeeID()
	if empID == "" {
		return
	}

	gen := v.beginFetch(key)
	result, err := v.api.FetchLeaderboard(ctx, empID, period, layer)
	if v.currentGen(key) != gen {
		return
	}
	if err != nil {
		v.logger.Warn("load leaderboard", "period", period, "layer", layer, "error", err)
		v.emitRankings(&api.LeaderboardResult{})
		return
	}
	v.cache.Put(key, result)
	v.emitRankings(result)
}

func (v *HomeView) fetchZone(ctx context.Context, zone string, emit func([]model.Customer)) {
	key := "home_customers_" + zone
	if cached, ok := v.cache.Get(key).([]model.Customer); ok && emit != nil {
		emit(cached)
	}
	empID := v.employeeID()
	if empID == "" {
		return
	}

	gen := v.beginFetch(key)
	customers, err := v.api.FetchZoneCustomers(ctx, zone, empID)
	if v.currentGen(key) != gen {
		return
	}
	if err != nil {
		v.logger.Warn("load customer zone", "zone", zone, "error", err)
		if emit != nil {
			emit(nil)
		}
		return
	}
	v.cache.Put(key, customers)
	if emit != nil {
		emit(customers)
	}
}

func (v *HomeView) fetchIncentives(ctx context.Context, period string) {
	key := "home_incentives_" + period
	if cached, ok := v.cache.Get(key).(*model.IncentiveSummary); ok {
		v.emitIncentives(period, cached)
	}
	empID := v.employeeID()
	if empID == "" {
		return
	}

	gen := v.beginFetch(key)
	summary, err := v.api.FetchIncentives(ctx, period, empID)
	if v.currentGen(key) != gen {
		return
	}
	if err != nil {
		v.logger.Warn("load incentives", "period", period, "error", err)
		v.emitIncentives(period, nil)
		return
	}
	v.cache.Put(key, summary)
	v.emitIncentives(period, summary)
}

func (v *HomeView) emitTargets(targets []model.Target) {
	if v.cb.Targets != nil {
		v.cb.Targets(targets)
	}
}

func (v *HomeView) emitRankings(result *api.LeaderboardResult) {
	if v.cb.Rankings != nil {
		v.cb.Rankings(result.Rankings, result.Grouped)
	}
}

func (v *HomeView) emitIncentives(period string, summary *model.IncentiveSummary) {
	if v.cb.Incentives != nil {
		v.cb.Incentives(period, summary)
	}
}

func (v *HomeView) employeeID() string {
	if u := v.session.User(); u != nil {
		return u.EmployeeID
	}
	v.logger.Warn("no signed-in user, skipping fetch")
	return ""
}

// beginFetch bumps the request generation for key and returns it. A fetch
// whose generation is no longer current when it completes was superseded by
// a newer request and must not publish its result.
func (v *HomeView) beginFetch(key string) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.gens[key]++
	return v.gens[key]
}

func (v *HomeView) currentGen(key string) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.gens[key]
}
