package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"salespulse/internal/auth"
	"salespulse/internal/email"
	"salespulse/internal/store"

	"golang.org/x/crypto/bcrypt"
)

// SignupRole is the only roster role allowed to register an app login.
const SignupRole = "BUSINESS_DEVELOPMENT_EXECUTIVE"

// forgotPasswordMessage is returned for every forgot-password request,
// whether or not the employee exists, to prevent account enumeration.
const forgotPasswordMessage = "If the employee ID exists, a password reset email has been sent."

type AuthHandler struct {
	users       *store.UserStore
	executives  *store.ExecutiveStore
	resetTokens *auth.ResetTokens
	bearer      *auth.Bearer
	emailClient *email.Client
	logger      *slog.Logger
}

func NewAuthHandler(
	us *store.UserStore,
	es *store.ExecutiveStore,
	rt *auth.ResetTokens,
	bearer *auth.Bearer,
	ec *email.Client,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		users:       us,
		executives:  es,
		resetTokens: rt,
		bearer:      bearer,
		emailClient: ec,
		logger:      logger,
	}
}

type credentialsRequest struct {
	EmployeeID string `json:"employee_id"`
	Password   string `json:"password"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.EmployeeID = strings.TrimSpace(req.EmployeeID)
	if req.EmployeeID == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Employee ID and password are required")
		return
	}

	u, err := h.users.GetByEmployeeID(req.EmployeeID)
	if err != nil {
		h.logger.Error("login lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "Server error during login")
		return
	}
	// Uniform message: never distinguish unknown ID from wrong password.
	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid employee ID or password")
		return
	}

	if err := h.users.TouchLastLogin(u.EmployeeID); err != nil {
		h.logger.Error("touch last login", "error", err)
	}

	token, err := h.bearer.Issue(u.EmployeeID, u.Role, u.FullName)
	if err != nil {
		h.logger.Error("issue token", "error", err)
		writeError(w, http.StatusInternalServerError, "Server error during login")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Login successful!",
		"token":   token,
		"user":    u,
	})
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.EmployeeID = strings.TrimSpace(req.EmployeeID)
	if req.EmployeeID == "" || req.Password == "" || req.FullName == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	exec, err := h.executives.GetByEmployeeIDAndRole(req.EmployeeID, SignupRole)
	if err != nil {
		h.logger.Error("signup roster lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "Server error during signup")
		return
	}
	if exec == nil {
		writeError(w, http.StatusForbidden,
			"Employee ID not found or not authorized. Only Business Development Executives can register.")
		return
	}

	existing, err := h.users.GetByEmployeeID(req.EmployeeID)
	if err != nil {
		h.logger.Error("signup lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "Server error during signup")
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "User already registered. Please login.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("hash password", "error", err)
		writeError(w, http.StatusInternalServerError, "Server error during signup")
		return
	}

	// Roster name, email, and role are authoritative; the submitted values
	// only confirm the executive's identity.
	u, err := h.users.Create(req.EmployeeID, string(hash), exec.FullName, exec.Email, exec.Role)
	if err != nil {
		h.logger.Error("create user", "error", err)
		writeError(w, http.StatusInternalServerError, "Server error during signup")
		return
	}

	token, err := h.bearer.Issue(u.EmployeeID, u.Role, u.FullName)
	if err != nil {
		h.logger.Error("issue token", "error", err)
		writeError(w, http.StatusInternalServerError, "Server error during signup")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Signup successful!",
		"token":   token,
		"user":    u,
	})
}

// Verify runs behind the bearer middleware and returns the fresh user row
// for the authenticated caller.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	employeeID := auth.EmployeeID(r.Context())
	u, err := h.users.GetByEmployeeID(employeeID)
	if err != nil || u == nil {
		writeError(w, http.StatusUnauthorized, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    u,
	})
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID string `json:"employee_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	req.EmployeeID = strings.TrimSpace(req.EmployeeID)
	if req.EmployeeID == "" {
		writeError(w, http.StatusBadRequest, "Employee ID is required")
		return
	}

	u, err := h.users.GetByEmployeeID(req.EmployeeID)
	if err != nil {
		h.logger.Error("forgot password lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to process password reset request")
		return
	}
	if u == nil {
		// Same body as the success path — a caller learns nothing about
		// whether the employee ID is registered.
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": forgotPasswordMessage,
		})
		return
	}

	// The roster email is the delivery address, not the login row's copy.
	exec, err := h.executives.GetByEmployeeID(req.EmployeeID)
	if err != nil || exec == nil {
		h.logger.Error("forgot password roster lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to process password reset request")
		return
	}

	rawToken, err := h.resetTokens.Issue(req.EmployeeID)
	if err != nil {
		h.logger.Error("issue reset token", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to process password reset request")
		return
	}

	if err := h.emailClient.SendPasswordReset(exec.Email, req.EmployeeID, rawToken); err != nil {
		h.logger.Error("send reset email", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to process password reset request")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": forgotPasswordMessage,
	})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID  string `json:"employee_id"`
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	req.EmployeeID = strings.TrimSpace(req.EmployeeID)
	if req.EmployeeID == "" || req.Token == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "Employee ID, token, and new password are required")
		return
	}
	if len(req.NewPassword) < 6 {
		writeError(w, http.StatusBadRequest, "Password must be at least 6 characters long")
		return
	}

	err := h.resetTokens.Consume(req.EmployeeID, req.Token, req.NewPassword)
	if err == auth.ErrInvalidOrExpiredToken {
		writeError(w, http.StatusBadRequest, "Invalid or expired reset token")
		return
	}
	if err != nil {
		h.logger.Error("reset password", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to reset password")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Password reset successful! You can now login with your new password.",
	})
}
