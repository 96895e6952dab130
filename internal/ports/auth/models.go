package auth

import "time"

// Claims representa la información extraída del token.
type Claims struct {
	UserID    int64
	TokenID   string
	ExpiresAt time.Time
}

// Token es un access token emitido.
type Token struct {
	Value     string
	ExpiresAt time.Time
	TTL       time.Duration
}
