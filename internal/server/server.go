package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"salespulse/internal/auth"
	"salespulse/internal/email"
	"salespulse/internal/handler"
	"salespulse/internal/middleware"
	"salespulse/internal/notify"
	"salespulse/internal/store"
)

type Server struct {
	db           *sql.DB
	hub          *notify.Hub
	authH        *handler.AuthHandler
	targetH      *handler.TargetHandler
	leaderboardH *handler.LeaderboardHandler
	customerH    *handler.CustomerHandler
	incentiveH   *handler.IncentiveHandler
	notifH       *handler.NotificationHandler
	bearer       *auth.Bearer
	userStore    *store.UserStore
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

func New(db *sql.DB, emailClient *email.Client, jwtSecret []byte, logger *slog.Logger) *Server {
	hub := notify.NewHub(logger.With("component", "notify"))

	userStore := store.NewUserStore(db)
	executiveStore := store.NewExecutiveStore(db)
	targetStore := store.NewTargetStore(db)
	leaderboardStore := store.NewLeaderboardStore(db)
	customerStore := store.NewCustomerStore(db)
	incentiveStore := store.NewIncentiveStore(db)
	notificationStore := store.NewNotificationStore(db)

	resetTokens := auth.NewResetTokens(userStore)
	bearer := auth.NewBearer(jwtSecret)

	return &Server{
		db:           db,
		hub:          hub,
		authH:        handler.NewAuthHandler(userStore, executiveStore, resetTokens, bearer, emailClient, logger.With("component", "auth")),
		targetH:      handler.NewTargetHandler(targetStore, logger.With("component", "targets")),
		leaderboardH: handler.NewLeaderboardHandler(leaderboardStore, logger.With("component", "leaderboard")),
		customerH:    handler.NewCustomerHandler(customerStore, logger.With("component", "customers")),
		incentiveH:   handler.NewIncentiveHandler(incentiveStore, logger.With("component", "incentives")),
		notifH:       handler.NewNotificationHandler(notificationStore, hub, logger.With("component", "notifications")),
		bearer:       bearer,
		userStore:    userStore,
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}
}

// RateLimiter returns the limiter for periodic cleanup from main.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// Hub returns the notification hub.
func (s *Server) Hub() *notify.Hub {
	return s.hub
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public auth routes, rate-limited per client IP
	outerMux.HandleFunc("POST /api/auth/login", s.rateLimited(s.authH.Login))
	outerMux.HandleFunc("POST /api/auth/signup", s.rateLimited(s.authH.Signup))
	outerMux.HandleFunc("POST /api/auth/forgot-password", s.rateLimited(s.authH.ForgotPassword))
	outerMux.HandleFunc("POST /api/auth/reset-password", s.rateLimited(s.authH.ResetPassword))
	outerMux.HandleFunc("GET /api/health", s.healthHandler)

	// Data routes behind bearer auth
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.bearer, s.userStore)
	outerMux.Handle("/api/", authMiddleware(protectedMux))
	outerMux.HandleFunc("GET /ws", notify.Handler(s.hub))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/auth/verify", s.authH.Verify)

	mux.HandleFunc("GET /api/targets/{period}/{employee_id}", s.targetH.List)
	mux.HandleFunc("GET /api/leaderboard/{employee_id}", s.leaderboardH.List)
	mux.HandleFunc("GET /api/customers/{zone}/{employee_id}", s.customerH.ListZone)
	mux.HandleFunc("GET /api/incentives/{period}/{employee_id}", s.incentiveH.Get)
	mux.HandleFunc("GET /api/target-customers/{employee_id}", s.customerH.ListForTarget)

	mux.HandleFunc("GET /api/notifications", s.notifH.List)
	mux.HandleFunc("POST /api/notifications", s.notifH.Create)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success":   true,
		"message":   "Sales dashboard API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) rateLimited(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}
