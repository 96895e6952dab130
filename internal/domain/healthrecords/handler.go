package healthrecords

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"pet-care-management/internal/authz"
	"pet-care-management/internal/middleware"
	"pet-care-management/internal/platform/httpx"
	"pet-care-management/internal/platform/pagination"
	"pet-care-management/internal/platform/patch"

	"github.com/go-chi/chi/v5"
)

// PetOwnerLookup resuelve el dueño de la mascota (incluye mascotas eliminadas).
type PetOwnerLookup interface {
	OwnerOf(ctx context.Context, petID int64) (int64, error)
}

func RegisterRoutes(r chi.Router, svc *Service, owners PetOwnerLookup) {
	r.Route("/health-records", func(hr chi.Router) {
		hr.Get("/", listRecordsHandler(svc))
		hr.Post("/", createRecordHandler(svc))
		hr.Get("/{recordID}", getRecordHandler(svc, owners))
		hr.Put("/{recordID}", updateRecordHandler(svc))
		hr.Delete("/{recordID}", deleteRecordHandler(svc))

		// Historia clínica de una mascota.
		hr.Get("/pets/{petID}", listPetHistoryHandler(svc, owners))
	})
}

// createRecordRequest es el cuerpo para registrar una atención.
type createRecordRequest struct {
	PetID int64 `json:"pet_id"`
	// VetID por defecto es quien registra.
	VetID        int64           `json:"vet_id"`
	CheckDate    httpx.Timestamp `json:"check_date" swaggertype:"string"`
	RecordType   string          `json:"record_type" enums:"checkup,treatment,vaccination,surgery"`
	Description  *string         `json:"description"`
	Diagnosis    *string         `json:"diagnosis"`
	Prescription *string         `json:"prescription"`
	Notes        *string         `json:"notes"`
}

type updateRecordRequest struct {
	CheckDate    patch.Field[httpx.Timestamp] `json:"check_date" swaggertype:"string"`
	RecordType   patch.Field[string]          `json:"record_type" swaggertype:"string"`
	Description  patch.Field[string]          `json:"description" swaggertype:"string"`
	Diagnosis    patch.Field[string]          `json:"diagnosis" swaggertype:"string"`
	Prescription patch.Field[string]          `json:"prescription" swaggertype:"string"`
	Notes        patch.Field[string]          `json:"notes" swaggertype:"string"`
}

// recordResponse representa un registro clínico devuelto por la API.
type recordResponse struct {
	ID           int64     `json:"id"`
	PetID        int64     `json:"pet_id"`
	VetID        int64     `json:"vet_id"`
	CheckDate    time.Time `json:"check_date"`
	RecordType   Type      `json:"record_type"`
	Description  *string   `json:"description"`
	Diagnosis    *string   `json:"diagnosis"`
	Prescription *string   `json:"prescription"`
	Notes        *string   `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toRecordResponse(rec Record) recordResponse {
	return recordResponse{
		ID:           rec.ID,
		PetID:        rec.PetID,
		VetID:        rec.VetID,
		CheckDate:    rec.CheckDate,
		RecordType:   rec.Type,
		Description:  rec.Description,
		Diagnosis:    rec.Diagnosis,
		Prescription: rec.Prescription,
		Notes:        rec.Notes,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
}

// listRecordsHandler godoc
// @Summary Listar registros clínicos
// @Description Ordenados por check_date desc. Owners solo ven registros de sus mascotas.
// @Tags health-records
// @Produce json
// @Security BearerAuth
// @Param pet_id query int false "Mascota"
// @Param vet_id query int false "Veterinario"
// @Param record_type query string false "checkup | treatment | vaccination | surgery"
// @Param from query string false "check_date mínima (RFC3339 o YYYY-MM-DD)"
// @Param to query string false "check_date máxima (RFC3339 o YYYY-MM-DD)"
// @Param page query int false "Página (>=1)"
// @Param size query int false "Tamaño (1-100)"
// @Success 200 {object} httpx.Envelope{data=httpx.Page[recordResponse]}
// @Router /health-records [get]
func listRecordsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middleware.MustCaller(w, r)
		if !ok {
			return
		}
		if err := authz.Require(caller, authz.ActionList, authz.ResourceHealthRecord, nil); err != nil {
			httpx.Error(w, r, err)
			return
		}

		q := r.URL.Query()
		p, err := pagination.FromQuery(q)
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		f, err := parseListFilter(q)
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		f.OwnerID = authz.ScopeOwner(caller)

		writePage(w, r, svc, f, p)
	}
}

// listPetHistoryHandler: misma regla que un read sobre la mascota.
func listPetHistoryHandler(svc *Service, owners PetOwnerLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middleware.MustCaller(w, r)
		if !ok {
			return
		}
		petID, err := httpx.PathID(r, "petID")
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		ownerID, err := owners.OwnerOf(r.Context(), petID)
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		if err := authz.Require(caller, authz.ActionRead, authz.ResourceHealthRecord, &ownerID); err != nil {
			httpx.Error(w, r, err)
			return
		}

		q := r.URL.Query()
		p, err := pagination.FromQuery(q)
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		f, err := parseListFilter(q)
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		f.PetID = &petID

		writePage(w, r, svc, f, p)
	}
}

func writePage(w http.ResponseWriter, r *http.Request, svc *Service, f ListFilter, p pagination.Params) {
	items, total, err := svc.List(r.Context(), f, p)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	out := make([]recordResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toRecordResponse(it))
	}
	httpx.OK(w, httpx.NewPage(out, total, p))
}

func parseListFilter(q url.Values) (ListFilter, error) {
	var f ListFilter
	var err error
	if f.PetID, err = httpx.QueryInt64(q, "pet_id"); err != nil {
		return ListFilter{}, err
	}
	if f.VetID, err = httpx.QueryInt64(q, "vet_id"); err != nil {
		return ListFilter{}, err
	}
	if raw := httpx.QueryString(q, "record_type"); raw != "" {
		if f.Type, err = ParseType(raw); err != nil {
			return ListFilter{}, err
		}
	}
	if raw := httpx.QueryString(q, "from"); raw != "" {
		t, err := httpx.ParseTime(raw)
		if err != nil {
			return ListFilter{}, err
		}
		f.From = &t
	}
	if raw := httpx.QueryString(q, "to"); raw != "" {
		t, err := httpx.ParseTime(raw)
		if err != nil {
			return ListFilter{}, err
		}
		f.To = &t
	}
	return f, nil
}

// createRecordHandler godoc
// @Summary Registrar atención clínica
// @Description Solo personal. vet_id debe ser un usuario staff o admin; si se omite se usa el usuario actual.
// @Tags health-records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body createRecordRequest true "Registro"
// @Success 200 {object} httpx.Envelope{data=recordResponse}
// @Router /health-records [post]
func createRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middleware.MustCaller(w, r)
		if !ok {
			return
		}
		if err := authz.Require(caller, authz.ActionCreate, authz.ResourceHealthRecord, nil); err != nil {
			httpx.Error(w, r, err)
			return
		}

		var req createRecordRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Error(w, r, err)
			return
		}

		t, err := ParseType(req.RecordType)
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		vetID := req.VetID
		if vetID == 0 {
			vetID = caller.ID
		}

		rec, err := svc.Create(r.Context(), CreateInput{
			PetID:        req.PetID,
			VetID:        vetID,
			CheckDate:    req.CheckDate.Std(),
			Type:         t,
			Description:  req.Description,
			Diagnosis:    req.Diagnosis,
			Prescription: req.Prescription,
			Notes:        req.Notes,
		})
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		httpx.OK(w, toRecordResponse(rec))
	}
}

func getRecordHandler(svc *Service, owners PetOwnerLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middleware.MustCaller(w, r)
		if !ok {
			return
		}
		id, err := httpx.PathID(r, "recordID")
		if err != nil {
			httpx.Error(w, r, err)
			return
		}

		rec, err := svc.Get(r.Context(), id)
		if err != nil {
			httpx.Error(w, r, err)
			return
		}

		var ownerID *int64
		if !caller.Role.AtLeast(authz.RoleStaff) {
			oid, err := owners.OwnerOf(r.Context(), rec.PetID)
			if err != nil {
				httpx.Error(w, r, err)
				return
			}
			ownerID = &oid
		}
		if err := authz.Require(caller, authz.ActionRead, authz.ResourceHealthRecord, ownerID); err != nil {
			httpx.Error(w, r, err)
			return
		}
		httpx.OK(w, toRecordResponse(rec))
	}
}

func updateRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middleware.MustCaller(w, r)
		if !ok {
			return
		}
		if err := authz.Require(caller, authz.ActionUpdate, authz.ResourceHealthRecord, nil); err != nil {
			httpx.Error(w, r, err)
			return
		}
		id, err := httpx.PathID(r, "recordID")
		if err != nil {
			httpx.Error(w, r, err)
			return
		}

		var req updateRecordRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Error(w, r, err)
			return
		}

		in := UpdateInput{
			CheckDate:    patch.Map(req.CheckDate, httpx.Timestamp.Std),
			Description:  req.Description,
			Diagnosis:    req.Diagnosis,
			Prescription: req.Prescription,
			Notes:        req.Notes,
		}
		if req.RecordType.HasValue() {
			t, err := ParseType(req.RecordType.Value)
			if err != nil {
				httpx.Error(w, r, err)
				return
			}
			in.Type = patch.Of(t)
		} else if req.RecordType.Set {
			in.Type = patch.Null[Type]()
		}

		rec, err := svc.Update(r.Context(), id, in)
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		httpx.OK(w, toRecordResponse(rec))
	}
}

func deleteRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middleware.MustCaller(w, r)
		if !ok {
			return
		}
		if err := authz.Require(caller, authz.ActionDelete, authz.ResourceHealthRecord, nil); err != nil {
			httpx.Error(w, r, err)
			return
		}
		id, err := httpx.PathID(r, "recordID")
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
