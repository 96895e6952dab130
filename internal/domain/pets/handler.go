package pets

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
	r.Route("/pets", func(pr chi.Router) {
		pr.Get("/", listPetsHandler(svc))
		pr.Post("/", createPetHandler(svc))
		pr.Get("/{petID}", getPetHandler(svc))
		pr.Put("/{petID}", updatePetHandler(svc))
		pr.Delete("/{petID}", deletePetHandler(svc))
	})
}

type createPetRequest struct {
	// OwnerID solo lo usa el personal; para owners se fuerza el propio id.
	OwnerID      int64            `json:"owner_id"`
	Name         string           `json:"name"`
	Species      string           `json:"species"`
	Breed        *string          `json:"breed"`
	Gender       *string          `json:"gender"`
	BirthDate    *httpx.Timestamp `json:"birth_date" swaggertype:"string" example:"2021-05-01"`
	Weight       *decimal.Decimal `json:"weight" swaggertype:"number"`
	Color        *string          `json:"color"`
	HealthStatus *string          `json:"health_status"`
	SpecialNotes *string          `json:"special_notes"`
	Avatar       *string          `json:"avatar"`
}

type updatePetRequest struct {
	// patch.Field: ausente = no tocar, null = limpiar.
	Name         patch.Field[string]          `json:"name" swaggertype:"string"`
	Species      patch.Field[string]          `json:"species" swaggertype:"string"`
	Breed        patch.Field[string]          `json:"breed" swaggertype:"string"`
	Gender       patch.Field[string]          `json:"gender" swaggertype:"string"`
	BirthDate    patch.Field[httpx.Timestamp] `json:"birth_date" swaggertype:"string"`
	Weight       patch.Field[decimal.Decimal] `json:"weight" swaggertype:"number"`
	Color        patch.Field[string]          `json:"color" swaggertype:"string"`
	HealthStatus patch.Field[string]          `json:"health_status" swaggertype:"string"`
	SpecialNotes patch.Field[string]          `json:"special_notes" swaggertype:"string"`
	Avatar       patch.Field[string]          `json:"avatar" swaggertype:"string"`
}

type petResponse struct {
	ID           int64            `json:"id"`
	OwnerID      int64            `json:"owner_id"`
	Name         string           `json:"name"`
	Species      string           `json:"species"`
	Breed        *string          `json:"breed"`
	Gender       *Gender          `json:"gender"`
	BirthDate    *time.Time       `json:"birth_date"`
	Weight       *decimal.Decimal `json:"weight" swaggertype:"number"`
	Color        *string          `json:"color"`
	HealthStatus *string          `json:"health_status"`
	SpecialNotes *string          `json:"special_notes"`
	Avatar       *string          `json:"avatar"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		ID:           p.ID,
		OwnerID:      p.OwnerID,
		Name:         p.Name,
		Species:      p.Species,
		Breed:        p.Breed,
		Gender:       p.Gender,
		BirthDate:    p.BirthDate,
		Weight:       p.Weight,
		Color:        p.Color,
		HealthStatus: p.HealthStatus,
		SpecialNotes: p.SpecialNotes,
		Avatar:       p.Avatar,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// listPetsHandler godoc
// @Summary Listar mascotas
// @Description Owners solo ven sus mascotas (owner_id se ignora). Personal puede filtrar por owner_id.
// @Tags pets
// @Produce json
// @Security BearerAuth
// @Param owner_id query int false "Dueño"
// @Param name query string false "Nombre (subcadena)"
// @Param species query string false "Especie"
// @Param gender query string false "male | female"
// @Param page query int false "Página (>=1)"
// @Param size query int false "Tamaño (1-100)"
// @Success 200 {object} httpx.Envelope{data=httpx.Page[petResponse]}
// @Router /pets [get]
func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middleware.MustCaller(w, r)
		if !ok {
			return
		}
		if err := authz.Require(caller, authz.ActionList, authz.ResourcePet, nil); err != nil {
			httpx.Error(w, r, err)
			return
		}

		q := r.URL.Query()
		p, err := pagination.FromQuery(q)
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		ownerID, err := httpx.QueryInt64(q, "owner_id")
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		if scoped := authz.ScopeOwner(caller); scoped != nil {
			ownerID = scoped
		}

		f := ListFilter{
			OwnerID: ownerID,
			Name:    httpx.QueryString(q, "name"),
			Species: httpx.QueryString(q, "species"),
		}
		if raw := httpx.QueryString(q, "gender"); raw != "" {
			g, err := ParseGender(raw)
			if err != nil {
				httpx.Error(w, r, err)
				return
			}
			f.Gender = g
		}

		items, total, err := svc.List(r.Context(), f, p)
		if err != nil {
			httpx.Error(w, r, err)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toPetResponse(it))
		}
		httpx.OK(w, httpx.NewPage(out, total, p))
	}
}

func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middleware.MustCaller(w, r)
		if !ok {
			return
		}

		var req createPetRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Error(w, r, err)
			return
		}

		ownerID := req.OwnerID
		if scoped := authz.ScopeOwner(caller); scoped != nil {
			ownerID = *scoped
		}
		if err := authz.Require(caller, authz.ActionCreate, authz.ResourcePet, &ownerID); err != nil {
			httpx.Error(w, r, err)
			return
		}

		in := CreateInput{
			OwnerID:      ownerID,
			Name:         req.Name,
			Species:      req.Species,
			Breed:        req.Breed,
			Weight:       req.Weight,
			Color:        req.Color,
			HealthStatus: req.HealthStatus,
			SpecialNotes: req.SpecialNotes,
			Avatar:       req.Avatar,
		}
		if req.Gender != nil {
			g, err := ParseGender(*req.Gender)
			if err != nil {
				httpx.Error(w, r, err)
				return
			}
			in.Gender = &g
		}
		if req.BirthDate != nil {
			bd := req.BirthDate.Std()
			in.BirthDate = &bd
		}

		p, err := svc.Create(r.Context(), in)
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		httpx.OK(w, toPetResponse(p))
	}
}

func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middleware.MustCaller(w, r)
		if !ok {
			return
		}
		id, err := httpx.PathID(r, "petID")
		if err != nil {
			httpx.Error(w, r, err)
			return
		}

		p, err := svc.Get(r.Context(), id)
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		if err := authz.Require(caller, authz.ActionRead, authz.ResourcePet, &p.OwnerID); err != nil {
			httpx.Error(w, r, err)
			return
		}
		httpx.OK(w, toPetResponse(p))
	}
}

func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middleware.MustCaller(w, r)
		if !ok {
			return
		}
		id, err := httpx.PathID(r, "petID")
		if err != nil {
			httpx.Error(w, r, err)
			return
		}

		current, err := svc.Get(r.Context(), id)
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		if err := authz.Require(caller, authz.ActionUpdate, authz.ResourcePet, &current.OwnerID); err != nil {
			httpx.Error(w, r, err)
			return
		}

		var req updatePetRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Error(w, r, err)
			return
		}

		in := UpdateInput{
			Name:         req.Name,
			Species:      req.Species,
			Breed:        req.Breed,
			BirthDate:    patch.Map(req.BirthDate, httpx.Timestamp.Std),
			Weight:       req.Weight,
			Color:        req.Color,
			HealthStatus: req.HealthStatus,
			SpecialNotes: req.SpecialNotes,
			Avatar:       req.Avatar,
		}
		if req.Gender.HasValue() {
			g, err := ParseGender(req.Gender.Value)
			if err != nil {
				httpx.Error(w, r, err)
				return
			}
			in.Gender = patch.Of(g)
		} else if req.Gender.Set {
			in.Gender = patch.Null[Gender]()
		}

		p, err := svc.Update(r.Context(), id, in)
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		httpx.OK(w, toPetResponse(p))
	}
}

func deletePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middleware.MustCaller(w, r)
		if !ok {
			return
		}
		id, err := httpx.PathID(r, "petID")
		if err != nil {
			httpx.Error(w, r, err)
			return
		}

		current, err := svc.Get(r.Context(), id)
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		if err := authz.Require(caller, authz.ActionDelete, authz.ResourcePet, &current.OwnerID); err != nil {
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
