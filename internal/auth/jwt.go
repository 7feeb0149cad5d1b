package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer = "ledger-reconciler"

	// ScopeReconcile allows triggering reconciliation runs.
	ScopeReconcile = "reconcile:run"
)

var ErrMissingScope = errors.New("token lacks required scope")

// Claims identifies an operator: a person or job allowed to trigger runs.
type Claims struct {
	Subject string
	Scope   string
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Scope string `json:"scope"`
}

func GenerateToken(subject, secret string, expiry time.Duration) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("GenerateToken: subject is required")
	}

	now := time.Now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Scope: ScopeReconcile,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("GenerateToken: %w", err)
	}
	return signed, nil
}

func ValidateToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("ValidateToken: %w", err)
	}

	tc, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("ValidateToken: invalid token claims")
	}

	if tc.Subject == "" {
		return nil, fmt.Errorf("ValidateToken: missing subject")
	}
	if tc.Scope != ScopeReconcile {
		return nil, fmt.Errorf("ValidateToken: %w", ErrMissingScope)
	}

	return &Claims{
		Subject: tc.Subject,
		Scope:   tc.Scope,
	}, nil
}
