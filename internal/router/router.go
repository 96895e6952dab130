package router

import (
	"context"
	"fmt"
	"net/http"
	"time"

	_ "pet-care-management/docs"
	mem "pet-care-management/internal/adapters/storage/memory"
	pg "pet-care-management/internal/adapters/storage/postgres"
	"pet-care-management/internal/config"
	"pet-care-management/internal/domain/boardings"
	"pet-care-management/internal/domain/catalog"
	"pet-care-management/internal/domain/dashboard"
	"pet-care-management/internal/domain/healthrecords"
	"pet-care-management/internal/domain/identity"
	"pet-care-management/internal/domain/orders"
	"pet-care-management/internal/domain/pets"
	"pet-care-management/internal/domain/users"
	"pet-care-management/internal/metrics"
	"pet-care-management/internal/middleware"
	"pet-care-management/internal/platform/apperr"
	"pet-care-management/internal/platform/httpx"
	"pet-care-management/internal/platform/logger"
	"pet-care-management/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Logger logger.Logger
	App    config.AppConfig

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sqlx.DB

	Verifier  auth.AuthVerifier
	Issuer    auth.TokenIssuer
	Passwords auth.PasswordHasher

	RateLimit      config.RateLimitConfig
	Metrics        bool
	BootstrapAdmin config.BootstrapAdmin
}

// repositories lo implementan tanto el store en memoria como el de Postgres.
type repositories interface {
	Users() users.Repository
	Pets() pets.Repository
	Services() catalog.Repository
	Orders() orders.Repository
	Boardings() boardings.Repository
	HealthRecords() healthrecords.Repository
	Dashboard() dashboard.Repository
}

func NewRouter(ctx context.Context, opts Options) (http.Handler, error) {
	if opts.Verifier == nil || opts.Issuer == nil || opts.Passwords == nil {
		return nil, fmt.Errorf("router: verifier, issuer and password hasher are required")
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	var store repositories
	if opts.DB != nil {
		store = pg.NewStore(opts.DB)
	} else {
		log.Warn("no database configured, using in-memory storage", nil)
		store = mem.NewStore()
	}

	// Services por módulo
	usersSvc := users.NewService(store.Users(), opts.Passwords)
	identitySvc := identity.NewService(usersSvc, opts.Passwords, opts.Issuer)
	petsSvc := pets.NewService(store.Pets(), usersSvc)
	catalogSvc := catalog.NewService(store.Services())
	ordersSvc := orders.NewService(store.Orders(), petsSvc, usersSvc)
	boardingsSvc := boardings.NewService(store.Boardings(), ordersSvc, petsSvc, usersSvc)
	recordsSvc := healthrecords.NewService(store.HealthRecords(), petsSvc, usersSvc)
	dashboardSvc := dashboard.NewService(store.Dashboard())

	if opts.BootstrapAdmin.Enabled() {
		u, created, err := usersSvc.EnsureAdmin(ctx, opts.BootstrapAdmin.Username, opts.BootstrapAdmin.Password)
		if err != nil {
			return nil, fmt.Errorf("bootstrap admin: %w", err)
		}
		if created {
			log.Info("bootstrap admin created", map[string]any{"user_id": u.ID, "username": u.Username})
		}
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	if opts.RateLimit.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recover)
	if opts.Metrics {
		metrics.Register()
		r.Use(middleware.Metrics)
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusNotFound, httpx.Envelope{Code: httpx.CodeNotFound, Msg: "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusMethodNotAllowed, httpx.Envelope{Code: httpx.CodeMethodNotAllowed, Msg: "method not allowed"})
	})

	r.Get("/health", healthHandler(opts.App, opts.DB))
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	if opts.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api", func(api chi.Router) {
		api.Group(func(pub chi.Router) {
			if opts.RateLimit.Enabled {
				pub.Use(middleware.RateLimit(middleware.RateLimitOptions{
					RPS:     opts.RateLimit.RPS,
					Burst:   opts.RateLimit.Burst,
					IdleTTL: opts.RateLimit.IdleTTL,
				}))
			}
			identity.RegisterPublicRoutes(pub, identitySvc)
		})

		api.Group(func(priv chi.Router) {
			priv.Use(middleware.RequireAuth(opts.Verifier, usersSvc))

			// Rutas por módulo
			identity.RegisterRoutes(priv, identitySvc)
			users.RegisterRoutes(priv, usersSvc)
			pets.RegisterRoutes(priv, petsSvc)
			catalog.RegisterRoutes(priv, catalogSvc)
			orders.RegisterRoutes(priv, ordersSvc, petsSvc)
			boardings.RegisterRoutes(priv, boardingsSvc, petsSvc)
			healthrecords.RegisterRoutes(priv, recordsSvc, petsSvc)
			dashboard.RegisterRoutes(priv, dashboardSvc)
		})
	})

	return r, nil
}

func healthHandler(app config.AppConfig, db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{
			"status":      "ok",
			"app_name":    app.Name,
			"environment": app.Environment,
			"version":     app.Version,
			"storage":     "memory",
		}
		if db != nil {
			status["storage"] = "postgres"
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				httpx.Error(w, r, apperr.Storage(err))
				return
			}
		}
		httpx.OK(w, status)
	}
}
