package dashboard

import (
	"net/http"

	"pet-care-management/internal/authz"
	"pet-care-management/internal/middleware"
	"pet-care-management/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/dashboard/stats", statsHandler(svc))
}

type statsResponse struct {
	TotalUsers   int64           `json:"total_users"`
	TotalPets    int64           `json:"total_pets"`
	TotalOrders  int64           `json:"total_orders"`
	TotalRevenue decimal.Decimal `json:"total_revenue" swaggertype:"number"`
	ActiveOrders int64           `json:"active_orders"`
}

// statsHandler godoc
// @Summary Estadísticas
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} httpx.Envelope{data=statsResponse}
// @Router /dashboard/stats [get]
func statsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middleware.MustCaller(w, r)
		if !ok {
			return
		}
		if err := authz.Require(caller, authz.ActionRead, authz.ResourceDashboard, nil); err != nil {
			httpx.Error(w, r, err)
			return
		}

		st, err := svc.Stats(r.Context())
		if err != nil {
			httpx.Error(w, r, err)
			return
		}
		httpx.OK(w, statsResponse{
			TotalUsers:   st.TotalUsers,
			TotalPets:    st.TotalPets,
			TotalOrders:  st.TotalOrders,
			TotalRevenue: st.TotalRevenue,
			ActiveOrders: st.ActiveOrders,
		})
	}
}
