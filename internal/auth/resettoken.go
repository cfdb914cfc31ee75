// Package auth implements the password-reset token protocol and bearer
// token issuing for the API.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"salespulse/internal/store"

	"golang.org/x/crypto/bcrypt"
)

const resetTokenTTL = time.Hour

// ErrInvalidOrExpiredToken is the uniform failure for every reset attempt
// that does not succeed: wrong token, expired token, no outstanding token, or
// unknown employee. Callers must not distinguish between these cases.
var ErrInvalidOrExpiredToken = errors.New("invalid or expired reset token")

// ResetTokens issues and consumes single-use, time-bounded password-reset
// tokens. Only the SHA-256 hex of a token is ever persisted; the raw token
// exists in the outbound email and the inbound reset request, nowhere else.
type ResetTokens struct {
	users *store.UserStore
}

func NewResetTokens(users *store.UserStore) *ResetTokens {
	return &ResetTokens{users: users}
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Issue generates a fresh token for the employee, overwriting any outstanding
// one, and returns the raw token for embedding in the reset email.
func (rt *ResetTokens) Issue(employeeID string) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	raw := hex.EncodeToString(tokenBytes)

	expiresAt := time.Now().UTC().Add(resetTokenTTL)
	if err := rt.users.SetResetToken(employeeID, hashToken(raw), expiresAt); err != nil {
		return "", err
	}
	return raw, nil
}

// Consume validates the candidate token and, in the same statement, stores
// the new bcrypt-hashed password and clears the token columns. Token lookup
// uses a fast hash on purpose: the token is 32 random bytes and single-use,
// so a slow adaptive hash would add latency without adding security. The
// credential itself still gets bcrypt.
//
// A failed attempt never clears the stored token, so a mistyped token does
// not burn a valid one.
func (rt *ResetTokens) Consume(employeeID, rawToken, newPassword string) error {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	ok, err := rt.users.ConsumeResetToken(employeeID, hashToken(rawToken), string(passwordHash))
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidOrExpiredToken
	}
	return nil
}
