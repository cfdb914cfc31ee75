package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const accessTokenTTL = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

type claims struct {
	Role     string `json:"role"`
	FullName string `json:"full_name"`
	jwt.RegisteredClaims
}

// Bearer signs and verifies the HS256 access tokens handed out on login and
// signup.
type Bearer struct {
	signKey []byte
}

func NewBearer(signKey []byte) *Bearer {
	return &Bearer{signKey: signKey}
}

// Issue creates a signed token with the employee ID as subject.
func (b *Bearer) Issue(employeeID, role, fullName string) (string, error) {
	now := time.Now()
	c := claims{
		Role:     role,
		FullName: fullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   employeeID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(accessTokenTTL)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := tok.SignedString(b.signKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses the token and returns the employee ID it was issued to.
func (b *Bearer) Verify(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return b.signKey, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	c, ok := parsed.Claims.(*claims)
	if !ok || c.Subject == "" {
		return "", ErrInvalidToken
	}
	return c.Subject, nil
}
