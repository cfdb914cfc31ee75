package views

import (
	"context"
	"log/slog"
	"sync"

	"salespulse/internal/client/api"
	"salespulse/internal/client/cache"
	"salespulse/internal/client/session"
	"salespulse/internal/model"
)

// TargetCallbacks receive target-screen data, cache-first.
type TargetCallbacks struct {
	Targets   func(period string, targets []model.Target)
	Customers func(key cache.ListKey, customers []model.TargetCustomer)
}

// TargetView loads the target detail screen: both period breakdowns plus the
// customer list behind whichever metric the user drills into.
type TargetView struct {
	api     *api.Client
	cache   *cache.Cache
	session *session.Manager
	logger  *slog.Logger
	cb      TargetCallbacks

	mu       sync.Mutex
	gens     map[string]uint64
	listGens map[cache.ListKey]uint64
}

func NewTargetView(apiClient *api.Client, dataCache *cache.Cache, sess *session.Manager, cb TargetCallbacks, logger *slog.Logger) *TargetView {
	return &TargetView{
		api:      apiClient,
		cache:    dataCache,
		session:  sess,
		logger:   logger,
		cb:       cb,
		gens:     make(map[string]uint64),
		listGens: make(map[cache.ListKey]uint64),
	}
}

// Attach loads the daily and weekly breakdowns.
func (v *TargetView) Attach(ctx context.Context) {
	v.fetchTargets(ctx, "daily")
	v.fetchTargets(ctx, "weekly")
}

// SelectMetric loads the customers behind one metric for one period. Cached
// data is served immediately; a fresh copy replaces it unless a later
// selection supersedes this one.
func (v *TargetView) SelectMetric(ctx context.Context, metric, period string) {
	key := cache.ListKey{Metric: metric, Period: period}
	if cached, ok := v.cache.GetList(key).([]model.TargetCustomer); ok {
		v.emitCustomers(key, cached)
	}
	empID := v.employeeID()
	if empID == "" {
		return
	}

	gen := v.beginListFetch(key)
	customers, err := v.api.FetchTargetCustomers(ctx, empID, metric, period)
	if v.currentListGen(key) != gen {
		return
	}
	if err != nil {
		v.logger.Warn("load target customers", "metric", metric, "period", period, "error", err)
		v.emitCustomers(key, nil)
		return
	}
	v.cache.PutList(key, customers)
	v.emitCustomers(key, customers)
}

func (v *TargetView) fetchTargets(ctx context.Context, period string) {
	key := "target_detail_" + period
	if cached, ok := v.cache.Get(key).([]model.Target); ok {
		v.emitTargets(period, cached)
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
		v.logger.Warn("load target breakdown", "period", period, "error", err)
		v.emitTargets(period, nil)
		return
	}
	v.cache.Put(key, targets)
	v.emitTargets(period, targets)
}

func (v *TargetView) emitTargets(period string, targets []model.Target) {
	if v.cb.Targets != nil {
		v.cb.Targets(period, targets)
	}
}

func (v *TargetView) emitCustomers(key cache.ListKey, customers []model.TargetCustomer) {
	if v.cb.Customers != nil {
		v.cb.Customers(key, customers)
	}
}

func (v *TargetView) employeeID() string {
	if u := v.session.User(); u != nil {
		return u.EmployeeID
	}
	v.logger.Warn("no signed-in user, skipping fetch")
	return ""
}

func (v *TargetView) beginFetch(key string) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.gens[key]++
	return v.gens[key]
}

func (v *TargetView) currentGen(key string) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.gens[key]
}

func (v *TargetView) beginListFetch(key cache.ListKey) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.listGens[key]++
	return v.listGens[key]
}

func (v *TargetView) currentListGen(key cache.ListKey) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.listGens[key]
}
