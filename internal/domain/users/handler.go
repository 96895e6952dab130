package users

import (
	"net/http"
	"time"

	"pet-care-management/internal/authz"
	"pet-care-management/internal/middleware"
	"pet-care-management/internal/platform/httpx"
	"pet-care-management/internal/platform/pagination"
	"pet-care-management/internal/platform/patch"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/users", func(ur chi.Router) {
		ur.Get("/", listUsersHandler(svc))
		ur.Post("/", createUserHandler(svc))
		ur.Get("/{userID}", getUserHandler(svc))
		ur.Put("/{userID}", updateUserHandler(svc))
		ur.Delete("/{userID}", deleteUserHandler(svc))
	})
}

// Response es la vista pública de un usuario (sin hash).
type Response struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Email     *string    `json:"email"`
	Phone     *string    `json:"phone"`
	RealName  *string    `json:"real_name"`
	Avatar    *string    `json:"avatar"`
	Role      authz.Role `json:"role"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func ToResponse(u User) Response {
	return Response{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Phone:     u.Phone,
		RealName:  u.RealName,
		Avatar:    u.Avatar,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type createUserRequest struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	RealName *string `json:"real_name"`
	Role     string  `json:"role"`
}

type updateUserRequest struct {
	Email    patch.Field[string] `json:"email" swaggertype:"string"`
	Phone    patch.Field[string] `json:"phone" swaggertype:"string"`
	RealName patch.Field[string] `json:"real_name" swaggertype:"string"`
	Avatar   patch.Field[string] `json:"avatar" swaggertype:"string"`
	IsActive patch.Field[bool]   `json:"is_active" swaggertype:"boolean"`
}

func listUsersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middleware.MustCaller(w, r)
		if !ok {
			return
		}
		if err := authz.Require(caller, authz.ActionList, authz.ResourceUser, nil); err != nil {
			httpx.Error(w, r, err)
			return
		}

		q := r.URL.Query()
		p, err := pagination.FromQuery(q)
		if err != nil {
			httpx.Error(w, r, err)
			return
		}

		f := ListFilter{Username: httpx.QueryString(q, "username")}
		if raw := httpx.QueryString(q, "role"); raw != "" {
			role, err := authz.ParseRole(raw)
			if err != nil {
				httpx.Error(w, r, err)
				return
			}
			f.Role = role
		}

		items, total, err := svc.List(r.Context(), f, p)
		if err != nil {
			httpx.Error(w, r, err)
			return
		}

		out := make([]Response, 0, len(items))
		for _, u := range items {
			out = append(out, ToResponse(u))
		}
		httpx.OK(w, httpx.NewPage(out, total, p))
	}
}

func createUserHandler(svc *Service) http.HandlerFunc {
	// Alta administrativa: admin puede elegir rol.
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middleware.MustCaller(w, r)
		if !ok {
			return
		}
		if err := authz.Require(caller, authz.ActionCreate, authz.ResourceUser, nil); err != nil {
			httpx.Error(w, r, err)
			return
		}

		var req createUserRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Error(w, r, err)
			return
		}

		in := CreateInput{
			Username: req.Username,
			Password: req.Password,
			Email:    req.Email,
			Phone:    req.Phone,
			RealName: req.RealName,
		}
		if req.Role != "" {
			role, err := authz.ParseRole(req.Role)
			if err != nil {
				httpx.Error(w, r, err)
				return
			}
			in.Role = role
		}

		u, err := svc.Create(r.Context(), in)
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		httpx.OK(w, ToResponse(u))
	}
}

func getUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middleware.MustCaller(w, r)
		if !ok {
			return
		}
		id, err := httpx.PathID(r, "userID")
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		if err := authz.Require(caller, authz.ActionRead, authz.ResourceUser, authz.Owner(id)); err != nil {
			httpx.Error(w, r, err)
			return
		}

		u, err := svc.Get(r.Context(), id)
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		httpx.OK(w, ToResponse(u))
	}
}

func updateUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middleware.MustCaller(w, r)
		if !ok {
			return
		}
		id, err := httpx.PathID(r, "userID")
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		if err := authz.Require(caller, authz.ActionUpdate, authz.ResourceUser, authz.Owner(id)); err != nil {
			httpx.Error(w, r, err)
			return
		}

		var req updateUserRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Error(w, r, err)
			return
		}

		// Activar/desactivar cuentas solo admin.
		if req.IsActive.Set {
			if err := authz.Require(caller, authz.ActionManage, authz.ResourceUser, nil); err != nil {
				httpx.Error(w, r, err)
				return
			}
		}

		u, err := svc.Update(r.Context(), id, UpdateInput{
			Email:    req.Email,
			Phone:    req.Phone,
			RealName: req.RealName,
			Avatar:   req.Avatar,
			IsActive: req.IsActive,
		})
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		httpx.OK(w, ToResponse(u))
	}
}

func deleteUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middleware.MustCaller(w, r)
		if !ok {
			return
		}
		if err := authz.Require(caller, authz.ActionDelete, authz.ResourceUser, nil); err != nil {
			httpx.Error(w, r, err)
			return
		}
		id, err := httpx.PathID(r, "userID")
		if err != nil {
			httpx.Error(w, r, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			httpx.Error(w, r, err)
			return
		}
		httpx.OK(w, nil)
	}
}
