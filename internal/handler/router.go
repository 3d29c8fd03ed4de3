package handler

import (
	"net/http"

	"canvasd/internal/metrics"
	"canvasd/internal/service"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// RouterConfig holds what the router needs. Events and Metrics are optional.
type RouterConfig struct {
	Service        *service.CanvasService
	Events         http.Handler
	Metrics        *metrics.Collector
	Logger         *zap.Logger
	AllowedOrigins []string
}

// NewRouter creates the HTTP router with all routes and middleware
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(Logger(logger))
	if cfg.Metrics != nil {
		router.Use(Metrics(cfg.Metrics))
	}

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	router.Get("/health", healthCheck)
	if cfg.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}
	if cfg.Events != nil {
		router.Method(http.MethodGet, "/events", cfg.Events)
	}

	h := NewCanvasHandler(cfg.Service, logger)
	router.Route("/api/canvases", func(r chi.Router) {
		r.Post("/", h.CreateCanvas)
		r.Get("/", h.ListCanvases)

		r.Route("/{canvasID}", func(r chi.Router) {
			r.Get("/", h.GetCanvas)
			r.Delete("/", h.DeleteCanvas)
			r.Post("/pointer", h.Pointer)
			r.Get("/grid", h.GetGrid)
			r.Get("/export", h.Export)
			r.Get("/moves", h.ListMoves)

			r.Route("/nodes", func(r chi.Router) {
				r.Post("/", h.CreateNode)
				r.Get("/", h.ListNodes)
				r.Get("/{nodeID}", h.GetNode)
				r.Post("/{nodeID}/drag", h.BeginDrag)
			})
		})
	})

	return router
}

// healthCheck handles health check requests
func healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "healthy"}, http.StatusOK)
}
