package catalog

import (
	"net/http"
	"time"

	"pet-care-management/internal/authz"
	"pet-care-management/internal/middleware"
	"pet-care-management/internal/platform/httpx"
	"pet-care-management/internal/platform/pagination"
	"pet-care-management/internal/platform/patch"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/services", func(sr chi.Router) {
		sr.Get("/", listServicesHandler(svc))
		sr.Post("/", createServiceHandler(svc))
		sr.Get("/{serviceID}", getServiceHandler(svc))
		sr.Put("/{serviceID}", updateServiceHandler(svc))
		sr.Delete("/{serviceID}", deleteServiceHandler(svc))
	})
}

type createServiceRequest struct {
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price" swaggertype:"number" example:"50.00"`
	Duration    *int            `json:"duration"`
	Image       *string         `json:"image"`
	IsAvailable *bool           `json:"is_available"`
}

type updateServiceRequest struct {
	Name        patch.Field[string]          `json:"name" swaggertype:"string"`
	Description patch.Field[string]          `json:"description" swaggertype:"string"`
	Category    patch.Field[string]          `json:"category" swaggertype:"string"`
	Price       patch.Field[decimal.Decimal] `json:"price" swaggertype:"number"`
	Duration    patch.Field[int]             `json:"duration" swaggertype:"integer"`
	Image       patch.Field[string]          `json:"image" swaggertype:"string"`
	IsAvailable patch.Field[bool]            `json:"is_available" swaggertype:"boolean"`
}

type serviceResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price" swaggertype:"number"`
	Duration    *int            `json:"duration"`
	Image       *string         `json:"image"`
	IsAvailable bool            `json:"is_available"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func toServiceResponse(cs CareService) serviceResponse {
	return serviceResponse{
		ID:          cs.ID,
		Name:        cs.Name,
		Description: cs.Description,
		Category:    cs.Category,
		Price:       cs.Price,
		Duration:    cs.Duration,
		Image:       cs.Image,
		IsAvailable: cs.IsAvailable,
		CreatedAt:   cs.CreatedAt,
		UpdatedAt:   cs.UpdatedAt,
	}
}

func listServicesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middleware.MustCaller(w, r)
		if !ok {
			return
		}
		if err := authz.Require(caller, authz.ActionList, authz.ResourceService, nil); err != nil {
			httpx.Error(w, r, err)
			return
		}

		q := r.URL.Query()
		p, err := pagination.FromQuery(q)
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		available, err := httpx.QueryBool(q, "is_available")
		if err != nil {
			httpx.Error(w, r, err)
			return
		}

		items, total, err := svc.List(r.Context(), ListFilter{
			Category:    httpx.QueryString(q, "category"),
			IsAvailable: available,
		}, p)
		if err != nil {
			httpx.Error(w, r, err)
			return
		}

		out := make([]serviceResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toServiceResponse(it))
		}
		httpx.OK(w, httpx.NewPage(out, total, p))
	}
}

func createServiceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middleware.MustCaller(w, r)
		if !ok {
			return
		}
		if err := authz.Require(caller, authz.ActionCreate, authz.ResourceService, nil); err != nil {
			httpx.Error(w, r, err)
			return
		}

		var req createServiceRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Error(w, r, err)
			return
		}

		cs, err := svc.Create(r.Context(), CreateInput{
			Name:        req.Name,
			Description: req.Description,
			Category:    req.Category,
			Price:       req.Price,
			Duration:    req.Duration,
			Image:       req.Image,
			IsAvailable: req.IsAvailable,
		})
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		httpx.OK(w, toServiceResponse(cs))
	}
}

func getServiceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middleware.MustCaller(w, r)
		if !ok {
			return
		}
		if err := authz.Require(caller, authz.ActionRead, authz.ResourceService, nil); err != nil {
			httpx.Error(w, r, err)
			return
		}
		id, err := httpx.PathID(r, "serviceID")
		if err != nil {
			httpx.Error(w, r, err)
			return
		}

		cs, err := svc.Get(r.Context(), id)
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		httpx.OK(w, toServiceResponse(cs))
	}
}

func updateServiceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middleware.MustCaller(w, r)
		if !ok {
			return
		}
		if err := authz.Require(caller, authz.ActionUpdate, authz.ResourceService, nil); err != nil {
			httpx.Error(w, r, err)
			return
		}
		id, err := httpx.PathID(r, "serviceID")
		if err != nil {
			httpx.Error(w, r, err)
			return
		}

		var req updateServiceRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Error(w, r, err)
			return
		}

		cs, err := svc.Update(r.Context(), id, UpdateInput{
			Name:        req.Name,
			Description: req.Description,
			Category:    req.Category,
			Price:       req.Price,
			Duration:    req.Duration,
			Image:       req.Image,
			IsAvailable: req.IsAvailable,
		})
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		httpx.OK(w, toServiceResponse(cs))
	}
}

func deleteServiceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middleware.MustCaller(w, r)
		if !ok {
			return
		}
		if err := authz.Require(caller, authz.ActionDelete, authz.ResourceService, nil); err != nil {
			httpx.Error(w, r, err)
			return
		}
		id, err := httpx.PathID(r, "serviceID")
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
