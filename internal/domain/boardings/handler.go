package boardings

import (
	"context"
	"net/http"
	"time"

	"pet-care-management/internal/authz"
	"pet-care-management/internal/middleware"
	"pet-care-management/internal/platform/httpx"
	"pet-care-management/internal/platform/pagination"
	"pet-care-management/internal/platform/patch"

	"github.com/go-chi/chi/v5"
)

// PetOwnerLookup resuelve el dueño de la mascota para la regla de propiedad.
type PetOwnerLookup interface {
	OwnerOf(ctx context.Context, petID int64) (int64, error)
}

func RegisterRoutes(r chi.Router, svc *Service, owners PetOwnerLookup) {
	r.Route("/boardings", func(br chi.Router) {
		br.Get("/", listBoardingsHandler(svc))
		br.Post("/", createBoardingHandler(svc))
		br.Get("/{boardingID}", getBoardingHandler(svc, owners))
		br.Put("/{boardingID}", updateBoardingHandler(svc))
		br.Delete("/{boardingID}", deleteBoardingHandler(svc))
	})
}

type createBoardingRequest struct {
	OrderID         int64           `json:"order_id"`
	PetID           int64           `json:"pet_id"`
	StaffID         int64           `json:"staff_id"`
	StartDate       httpx.Timestamp `json:"start_date" swaggertype:"string"`
	EndDate         httpx.Timestamp `json:"end_date" swaggertype:"string"`
	DailyNotes      *string         `json:"daily_notes"`
	FoodType        *string         `json:"food_type"`
	FeedingSchedule *string         `json:"feeding_schedule"`
}

type updateBoardingRequest struct {
	Status          patch.Field[string]          `json:"status" swaggertype:"string"`
	StartDate       patch.Field[httpx.Timestamp] `json:"start_date" swaggertype:"string"`
	EndDate         patch.Field[httpx.Timestamp] `json:"end_date" swaggertype:"string"`
	DailyNotes      patch.Field[string]          `json:"daily_notes" swaggertype:"string"`
	FoodType        patch.Field[string]          `json:"food_type" swaggertype:"string"`
	FeedingSchedule patch.Field[string]          `json:"feeding_schedule" swaggertype:"string"`
}

type boardingResponse struct {
	ID              int64     `json:"id"`
	OrderID         int64     `json:"order_id"`
	PetID           int64     `json:"pet_id"`
	StaffID         int64     `json:"staff_id"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	Status          Status    `json:"status"`
	DailyNotes      *string   `json:"daily_notes"`
	FoodType        *string   `json:"food_type"`
	FeedingSchedule *string   `json:"feeding_schedule"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toBoardingResponse(b Boarding) boardingResponse {
	return boardingResponse{
		ID:              b.ID,
		OrderID:         b.OrderID,
		PetID:           b.PetID,
		StaffID:         b.StaffID,
		StartDate:       b.StartDate,
		EndDate:         b.EndDate,
		Status:          b.Status,
		DailyNotes:      b.DailyNotes,
		FoodType:        b.FoodType,
		FeedingSchedule: b.FeedingSchedule,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func listBoardingsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middleware.MustCaller(w, r)
		if !ok {
			return
		}
		if err := authz.Require(caller, authz.ActionList, authz.ResourceBoarding, nil); err != nil {
			httpx.Error(w, r, err)
			return
		}

		q := r.URL.Query()
		p, err := pagination.FromQuery(q)
		if err != nil {
			httpx.Error(w, r, err)
			return
		}

		var f ListFilter
		for key, dst := range map[string]**int64{"staff_id": &f.StaffID, "pet_id": &f.PetID, "order_id": &f.OrderID} {
			v, err := httpx.QueryInt64(q, key)
			if err != nil {
				httpx.Error(w, r, err)
				return
			}
			*dst = v
		}
		if raw := httpx.QueryString(q, "status"); raw != "" {
			st, err := ParseStatus(raw)
			if err != nil {
				httpx.Error(w, r, err)
				return
			}
			f.Status = st
		}
		// Owners: solo hospedajes de sus mascotas.
		f.OwnerID = authz.ScopeOwner(caller)

		items, total, err := svc.List(r.Context(), f, p)
		if err != nil {
			httpx.Error(w, r, err)
			return
		}

		out := make([]boardingResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toBoardingResponse(it))
		}
		httpx.OK(w, httpx.NewPage(out, total, p))
	}
}

func createBoardingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middleware.MustCaller(w, r)
		if !ok {
			return
		}
		if err := authz.Require(caller, authz.ActionCreate, authz.ResourceBoarding, nil); err != nil {
			httpx.Error(w, r, err)
			return
		}

		var req createBoardingRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Error(w, r, err)
			return
		}

		b, err := svc.Create(r.Context(), CreateInput{
			OrderID:         req.OrderID,
			PetID:           req.PetID,
			StaffID:         req.StaffID,
			StartDate:       req.StartDate.Std(),
			EndDate:         req.EndDate.Std(),
			DailyNotes:      req.DailyNotes,
			FoodType:        req.FoodType,
			FeedingSchedule: req.FeedingSchedule,
		})
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		httpx.OK(w, toBoardingResponse(b))
	}
}

func getBoardingHandler(svc *Service, owners PetOwnerLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middleware.MustCaller(w, r)
		if !ok {
			return
		}
		id, err := httpx.PathID(r, "boardingID")
		if err != nil {
			httpx.Error(w, r, err)
			return
		}

		b, err := svc.Get(r.Context(), id)
		if err != nil {
			httpx.Error(w, r, err)
			return
		}

		// Staff bypass; owner solo si la mascota es suya.
		var ownerID *int64
		if !caller.Role.AtLeast(authz.RoleStaff) {
			oid, err := owners.OwnerOf(r.Context(), b.PetID)
			if err != nil {
				httpx.Error(w, r, err)
				return
			}
			ownerID = &oid
		}
		if err := authz.Require(caller, authz.ActionRead, authz.ResourceBoarding, ownerID); err != nil {
			httpx.Error(w, r, err)
			return
		}
		httpx.OK(w, toBoardingResponse(b))
	}
}

func updateBoardingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middleware.MustCaller(w, r)
		if !ok {
			return
		}
		if err := authz.Require(caller, authz.ActionUpdate, authz.ResourceBoarding, nil); err != nil {
			httpx.Error(w, r, err)
			return
		}
		id, err := httpx.PathID(r, "boardingID")
		if err != nil {
			httpx.Error(w, r, err)
			return
		}

		var req updateBoardingRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Error(w, r, err)
			return
		}

		in := UpdateInput{
			StartDate:       patch.Map(req.StartDate, httpx.Timestamp.Std),
			EndDate:         patch.Map(req.EndDate, httpx.Timestamp.Std),
			DailyNotes:      req.DailyNotes,
			FoodType:        req.FoodType,
			FeedingSchedule: req.FeedingSchedule,
		}
		if req.Status.HasValue() {
			st, err := ParseStatus(req.Status.Value)
			if err != nil {
				httpx.Error(w, r, err)
				return
			}
			in.Status = patch.Of(st)
		} else if req.Status.Set {
			in.Status = patch.Null[Status]()
		}

		b, err := svc.Update(r.Context(), id, in)
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		httpx.OK(w, toBoardingResponse(b))
	}
}

func deleteBoardingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middleware.MustCaller(w, r)
		if !ok {
			return
		}
		if err := authz.Require(caller, authz.ActionDelete, authz.ResourceBoarding, nil); err != nil {
			httpx.Error(w, r, err)
			return
		}
		id, err := httpx.PathID(r, "boardingID")
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
