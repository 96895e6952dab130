package middleware

import (
	"context"
	"net/http"
	"strings"

	"pet-care-management/internal/authz"
	"pet-care-management/internal/platform/apperr"
	"pet-care-management/internal/platform/httpx"
	"pet-care-management/internal/platform/logger"
	"pet-care-management/internal/ports/auth"
)

type ctxKey string

const callerKey ctxKey = "caller"

// UserLookup resuelve el usuario del token: rol y si la cuenta está activa.
// Devuelve apperr NotFound si no existe o fue eliminado.
type UserLookup interface {
	Lookup(ctx context.Context, id int64) (authz.Caller, bool, error)
}

// RequireAuth exige Bearer token válido y usuario existente y activo.
// - sin token / token inválido / usuario inexistente => 401
// - usuario inactivo => 400 "account is disabled"
func RequireAuth(verifier auth.AuthVerifier, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				httpx.Error(w, r, apperr.Unauthorized("not authenticated"))
				return
			}

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil {
				logger.FromContext(r.Context()).Debug("token rejected", map[string]any{"error": err.Error()})
				httpx.Error(w, r, apperr.Unauthorized("invalid or expired token"))
				return
			}

			caller, active, err := users.Lookup(r.Context(), claims.UserID)
			if err != nil {
				if apperr.KindOf(err) == apperr.KindNotFound {
					httpx.Error(w, r, apperr.Unauthorized("invalid or expired token"))
					return
				}
				httpx.Error(w, r, err)
				return
			}
			if !active {
				httpx.Error(w, r, apperr.AccountDisabled("account is disabled"))
				return
			}

			ctx := context.WithValue(r.Context(), callerKey, caller)
			ctx = logger.WithContext(ctx, logger.FromContext(ctx).With(map[string]any{
				"user_id": caller.ID,
				"role":    string(caller.Role),
			}))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetCaller(ctx context.Context) (authz.Caller, bool) {
	c, ok := ctx.Value(callerKey).(authz.Caller)
	if !ok || c.ID <= 0 {
		return authz.Caller{}, false
	}
	return c, true
}

// WithCaller es para tests y jobs internos.
func WithCaller(ctx context.Context, c authz.Caller) context.Context {
	return context.WithValue(ctx, callerKey, c)
}

// MustCaller escribe 401 si el request no pasó por RequireAuth.
func MustCaller(w http.ResponseWriter, r *http.Request) (authz.Caller, bool) {
	c, ok := GetCaller(r.Context())
	if !ok {
		httpx.Error(w, r, apperr.Unauthorized("not authenticated"))
		return authz.Caller{}, false
	}
	return c, true
}

func bearerToken(authHeader string) string {
	if strings.TrimSpace(authHeader) == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
