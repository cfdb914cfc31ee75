package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"salespulse/internal/auth"
	"salespulse/internal/store"
)

// RequireAuth validates the bearer token and attaches the caller's identity
// to the request context. Data routes sit behind this.
func RequireAuth(bearer *auth.Bearer, users *store.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				unauthorized(w, "No token provided")
				return
			}

			employeeID, err := bearer.Verify(token)
			if err != nil {
				unauthorized(w, "Invalid token")
				return
			}

			u, err := users.GetByEmployeeID(employeeID)
			if err != nil || u == nil {
				unauthorized(w, "Invalid token")
				return
			}

			ctx := auth.WithIdentity(r.Context(), auth.Identity{
				EmployeeID: u.EmployeeID,
				Role:       u.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": msg,
	})
}
