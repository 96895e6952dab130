package identity

import (
	"net/http"

	"pet-care-management/internal/domain/users"
	"pet-care-management/internal/middleware"
	"pet-care-management/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

// RegisterPublicRoutes monta register/login (sin token).
func RegisterPublicRoutes(r chi.Router, svc *Service) {
	r.Post("/auth/register", registerHandler(svc))
	r.Post("/auth/login", loginHandler(svc))
}

// RegisterRoutes monta las rutas que requieren token.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/auth/me", meHandler(svc))
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	ExpiresIn   int64          `json:"expires_in"`
	User        users.Response `json:"user"`
}

// registerHandler godoc
// @Summary Registrar usuario
// @Description Crea una cuenta con rol owner. password y confirm_password deben coincidir.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body RegisterInput true "Datos de registro"
// @Success 200 {object} httpx.Envelope{data=users.Response}
// @Router /auth/register [post]
func registerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterInput
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Error(w, r, err)
			return
		}

		u, err := svc.Register(r.Context(), req)
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		httpx.OK(w, users.ToResponse(u))
	}
}

// loginHandler godoc
// @Summary Login
// @Description Devuelve un access token Bearer. Credenciales inválidas => code 401; cuenta inactiva => code 400.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginRequest true "Credenciales"
// @Success 200 {object} httpx.Envelope{data=tokenResponse}
// @Router /auth/login [post]
func loginHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Error(w, r, err)
			return
		}

		res, err := svc.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			httpx.Error(w, r, err)
			return
		}

		httpx.OK(w, tokenResponse{
			AccessToken: res.Token.Value,
			TokenType:   "bearer",
			ExpiresIn:   int64(res.Token.TTL.Seconds()),
			User:        users.ToResponse(res.User),
		})
	}
}

// meHandler godoc
// @Summary Usuario actual
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} httpx.Envelope{data=users.Response}
// @Router /auth/me [get]
func meHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middleware.MustCaller(w, r)
		if !ok {
			return
		}
		u, err := svc.Me(r.Context(), caller)
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		httpx.OK(w, users.ToResponse(u))
	}
}
