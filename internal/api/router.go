package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/notifyhub/telegram-sender/internal/api/handler"
	apimw "github.com/notifyhub/telegram-sender/internal/api/middleware"
	"github.com/notifyhub/telegram-sender/internal/service"
)

// RouterDeps collects everything the HTTP surface needs.
type RouterDeps struct {
	Service              *service.DispatchService
	Gatherer             prometheus.Gatherer
	AllowedOrigins       []string
	CredentialConfigured bool
	AuditBackend         string
	Logger               *zap.Logger
}

// NewRouter wires the chi router, attaches all middleware, and registers
// every route. It is the single source of truth for the HTTP surface area.
func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	// --- global middleware (applied to every route) ---
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestSize(1 << 20)) // 1 MB max request body
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", apimw.CorrelationHeader},
		ExposedHeaders: []string{apimw.CorrelationHeader},
		MaxAge:         300,
	}))
	r.Use(apimw.CorrelationID)
	r.Use(apimw.RequestLogger(logger))

	// --- handler instances ---
	dh := handler.NewDispatchHandler(deps.Service, logger)
	mh := handler.NewMetricsHandler(deps.Gatherer, logger)
	hh := handler.NewHealthHandler(deps.CredentialConfigured, deps.AuditBackend)

	// --- routes ---
	r.Get("/health", hh.Health)

	// Raw Prometheus scrape endpoint
	r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/telegram", func(r chi.Router) {
			r.Post("/messages", dh.Send)
			r.Get("/dispatches", dh.List)
			r.Get("/dispatches/{id}", dh.GetByID)
		})

		// JSON metrics snapshot
		r.Get("/metrics", mh.GetMetrics)
	})

	return r
}
