package auth

import "context"

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// TokenIssuer emite tokens para un usuario con el TTL configurado.
type TokenIssuer interface {
	Issue(userID int64) (Token, error)
}

// PasswordHasher hashea y compara passwords (hash unidireccional con sal).
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}
