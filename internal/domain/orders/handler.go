package orders

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

func RegisterRoutes(r chi.Router, svc *Service, petsSvc PetLookup) {
	r.Route("/orders", func(or chi.Router) {
		or.Get("/", listOrdersHandler(svc))
		or.Post("/", createOrderHandler(svc, petsSvc))
		or.Get("/{orderID}", getOrderHandler(svc))
		or.Put("/{orderID}", updateOrderHandler(svc))
		or.Delete("/{orderID}", deleteOrderHandler(svc))
	})
}

type createOrderRequest struct {
	// UserID lo usa el personal; para owners se fuerza el propio id.
	UserID          int64            `json:"user_id"`
	PetID           int64            `json:"pet_id"`
	ServiceID       int64            `json:"service_id"`
	AppointmentTime *httpx.Timestamp `json:"appointment_time" swaggertype:"string" example:"2026-01-15T10:00:00Z"`
	Notes           *string          `json:"notes"`
}

type updateOrderRequest struct {
	StaffID         patch.Field[int64]           `json:"staff_id" swaggertype:"integer"`
	Status          patch.Field[string]          `json:"status" swaggertype:"string"`
	AppointmentTime patch.Field[httpx.Timestamp] `json:"appointment_time" swaggertype:"string"`
	Notes           patch.Field[string]          `json:"notes" swaggertype:"string"`
}

type orderResponse struct {
	ID              int64           `json:"id"`
	OrderNo         string          `json:"order_no"`
	UserID          int64           `json:"user_id"`
	PetID           int64           `json:"pet_id"`
	ServiceID       int64           `json:"service_id"`
	StaffID         *int64          `json:"staff_id"`
	AppointmentTime *time.Time      `json:"appointment_time"`
	Status          Status          `json:"status"`
	TotalAmount     decimal.Decimal `json:"total_amount" swaggertype:"number"`
	Notes           *string         `json:"notes"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func toOrderResponse(o Order) orderResponse {
	return orderResponse{
		ID:              o.ID,
		OrderNo:         o.OrderNo,
		UserID:          o.UserID,
		PetID:           o.PetID,
		ServiceID:       o.ServiceID,
		StaffID:         o.StaffID,
		AppointmentTime: o.AppointmentTime,
		Status:          o.Status,
		TotalAmount:     o.TotalAmount,
		Notes:           o.Notes,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// listOrdersHandler godoc
// @Summary Listar órdenes
// @Description Owners solo ven sus órdenes (user_id forzado). Personal filtra por user_id, pet_id y status.
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param user_id query int false "Usuario"
// @Param pet_id query int false "Mascota"
// @Param status query string false "pending | confirmed | in_progress | completed | cancelled"
// @Param page query int false "Página (>=1)"
// @Param size query int false "Tamaño (1-100)"
// @Success 200 {object} httpx.Envelope{data=httpx.Page[orderResponse]}
// @Router /orders [get]
func listOrdersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middleware.MustCaller(w, r)
		if !ok {
			return
		}
		if err := authz.Require(caller, authz.ActionList, authz.ResourceOrder, nil); err != nil {
			httpx.Error(w, r, err)
			return
		}

		q := r.URL.Query()
		p, err := pagination.FromQuery(q)
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		userID, err := httpx.QueryInt64(q, "user_id")
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		petID, err := httpx.QueryInt64(q, "pet_id")
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		if scoped := authz.ScopeOwner(caller); scoped != nil {
			userID = scoped
		}

		f := ListFilter{UserID: userID, PetID: petID}
		if raw := httpx.QueryString(q, "status"); raw != "" {
			st, err := ParseStatus(raw)
			if err != nil {
				httpx.Error(w, r, err)
				return
			}
			f.Status = st
		}

		items, total, err := svc.List(r.Context(), f, p)
		if err != nil {
			httpx.Error(w, r, err)
			return
		}

		out := make([]orderResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toOrderResponse(it))
		}
		httpx.OK(w, httpx.NewPage(out, total, p))
	}
}

// createOrderHandler godoc
// @Summary Crear orden
// @Description Crea una orden pending; total_amount se toma del precio vigente del servicio. Un owner solo puede pedir para sus mascotas.
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body createOrderRequest true "Orden"
// @Success 200 {object} httpx.Envelope{data=orderResponse}
// @Router /orders [post]
func createOrderHandler(svc *Service, petsSvc PetLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middleware.MustCaller(w, r)
		if !ok {
			return
		}

		var req createOrderRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Error(w, r, err)
			return
		}

		userID := req.UserID
		if scoped := authz.ScopeOwner(caller); scoped != nil {
			userID = *scoped
		}

		// La propiedad se decide por el dueño de la mascota.
		pet, err := petsSvc.Get(r.Context(), req.PetID)
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		if err := authz.Require(caller, authz.ActionCreate, authz.ResourceOrder, &pet.OwnerID); err != nil {
			httpx.Error(w, r, err)
			return
		}

		in := CreateInput{
			UserID:    userID,
			PetID:     req.PetID,
			ServiceID: req.ServiceID,
			Notes:     req.Notes,
		}
		if req.AppointmentTime != nil {
			at := req.AppointmentTime.Std()
			in.AppointmentTime = &at
		}

		o, err := svc.Create(r.Context(), in)
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		httpx.OK(w, toOrderResponse(o))
	}
}

func getOrderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middleware.MustCaller(w, r)
		if !ok {
			return
		}
		id, err := httpx.PathID(r, "orderID")
		if err != nil {
			httpx.Error(w, r, err)
			return
		}

		o, err := svc.Get(r.Context(), id)
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		if err := authz.Require(caller, authz.ActionRead, authz.ResourceOrder, &o.UserID); err != nil {
			httpx.Error(w, r, err)
			return
		}
		httpx.OK(w, toOrderResponse(o))
	}
}

// updateOrderHandler: el owner puede editar notas/horario y cancelar; el
// resto de transiciones y la asignación de staff requieren personal.
func updateOrderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middleware.MustCaller(w, r)
		if !ok {
			return
		}
		id, err := httpx.PathID(r, "orderID")
		if err != nil {
			httpx.Error(w, r, err)
			return
		}

		current, err := svc.Get(r.Context(), id)
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		if err := authz.Require(caller, authz.ActionUpdate, authz.ResourceOrder, &current.UserID); err != nil {
			httpx.Error(w, r, err)
			return
		}

		var req updateOrderRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Error(w, r, err)
			return
		}

		in := UpdateInput{
			StaffID:         req.StaffID,
			AppointmentTime: patch.Map(req.AppointmentTime, httpx.Timestamp.Std),
			Notes:           req.Notes,
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

		if in.RequiresManage() {
			if err := authz.Require(caller, authz.ActionManage, authz.ResourceOrder, nil); err != nil {
				httpx.Error(w, r, err)
				return
			}
		}

		o, err := svc.Update(r.Context(), id, in)
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		httpx.OK(w, toOrderResponse(o))
	}
}

func deleteOrderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middleware.MustCaller(w, r)
		if !ok {
			return
		}
		id, err := httpx.PathID(r, "orderID")
		if err != nil {
			httpx.Error(w, r, err)
			return
		}

		current, err := svc.Get(r.Context(), id)
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		if err := authz.Require(caller, authz.ActionDelete, authz.ResourceOrder, &current.UserID); err != nil {
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
