package domain

import "time"

// TokenClaims is the verified identity carried by a bearer token.
type TokenClaims struct {
	UserID    string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
