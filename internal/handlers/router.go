package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"hdfhr-backend/internal/cache"
	"hdfhr-backend/internal/middleware"
	"hdfhr-backend/pkg/api"
)

// Handlers groups the endpoint handlers the router mounts.
type Handlers struct {
	Companies *CompanyHandler
	Employees *EmployeeHandler
	Tasks     *TaskHandler
	Receipts  *ReceiptHandler
	Activity  *ActivityHandler
	Cache     *CacheHandler
}

// Router assembles the HTTP surface of the service.
type Router struct {
	handlers Handlers
	queries  *cache.Service
	logger   *zap.Logger

	requestTimeout time.Duration
	allowedOrigins []string
	instrument     func(http.Handler) http.Handler
	metricsPath    string
	metricsHandler http.Handler
}

// RouterOption customizes the router.
type RouterOption func(*Router)

// WithRequestTimeout bounds each request's context.
func WithRequestTimeout(d time.Duration) RouterOption {
	return func(rt *Router) {
		if d > 0 {
			rt.requestTimeout = d
		}
	}
}

// WithAllowedOrigins sets the CORS origin allowlist.
func WithAllowedOrigins(origins []string) RouterOption {
	return func(rt *Router) {
		if len(origins) > 0 {
			rt.allowedOrigins = origins
		}
	}
}

// WithInstrumentation inserts an HTTP metrics middleware into the stack.
func WithInstrumentation(mw func(http.Handler) http.Handler) RouterOption {
	return func(rt *Router) {
		rt.instrument = mw
	}
}

// WithMetricsEndpoint exposes a metrics scrape handler at path
// ("/metrics" when empty).
func WithMetricsEndpoint(path string, h http.Handler) RouterOption {
	return func(rt *Router) {
		if path == "" {
			path = "/metrics"
		}
		rt.metricsPath = path
		rt.metricsHandler = h
	}
}

// NewRouter creates a router over the given handlers.
func NewRouter(h Handlers, queries *cache.Service, logger *zap.Logger, opts ...RouterOption) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}

	rt := &Router{
		handlers:       h,
		queries:        queries,
		logger:         logger,
		requestTimeout: 30 * time.Second,
		allowedOrigins: []string{"http://localhost:3000"},
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Setup configures all routes and middleware.
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery(rt.logger))
	router.Use(middleware.Logging(rt.logger))
	router.Use(middleware.Timeout(rt.requestTimeout))
	if rt.instrument != nil {
		router.Use(rt.instrument)
	}

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", api.HeaderRequestID},
		ExposedHeaders:   []string{api.HeaderRequestID, api.HeaderFromCache, api.HeaderStaleData},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.metricsHandler != nil {
		router.Handle(rt.metricsPath, rt.metricsHandler)
	}

	router.Route("/api", func(r chi.Router) {
		r.Route("/companies", func(r chi.Router) {
			r.Get("/", rt.handlers.Companies.List)
			r.Post("/", rt.handlers.Companies.Create)
			r.Get("/{companyID}", rt.handlers.Companies.Get)
			r.Patch("/{companyID}", rt.handlers.Companies.Update)
		})

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", rt.handlers.Employees.List)
			r.Post("/", rt.handlers.Employees.Create)
			r.Get("/{employeeID}", rt.handlers.Employees.Get)
			r.Patch("/{employeeID}", rt.handlers.Employees.Update)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", rt.handlers.Tasks.List)
			r.Post("/", rt.handlers.Tasks.Create)
			r.Get("/{taskID}", rt.handlers.Tasks.Get)
			r.Patch("/{taskID}/status", rt.handlers.Tasks.UpdateStatus)
		})

		r.Route("/receipts", func(r chi.Router) {
			r.Get("/", rt.handlers.Receipts.List)
			r.Post("/", rt.handlers.Receipts.Create)
			r.Get("/{receiptID}", rt.handlers.Receipts.Get)
		})

		r.Route("/activity", func(r chi.Router) {
			r.Get("/", rt.handlers.Activity.List)
			r.Post("/", rt.handlers.Activity.Log)
		})

		r.Route("/cache", func(r chi.Router) {
			r.Get("/stats", rt.handlers.Cache.Stats)
			r.Post("/stats/reset", rt.handlers.Cache.ResetMetrics)
			r.Post("/invalidate", rt.handlers.Cache.Invalidate)
			r.Post("/clear", rt.handlers.Cache.Clear)
			r.Post("/warm", rt.handlers.Cache.Warm)
		})
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	api.Success(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// readinessCheck verifies the cache store answers before reporting ready.
func (rt *Router) readinessCheck(w http.ResponseWriter, r *http.Request) {
	if _, err := rt.queries.Len(r.Context()); err != nil {
		api.Error(w, http.StatusServiceUnavailable, "cache store unavailable")
		return
	}
	api.Success(w, http.StatusOK, map[string]string{"status": "ready"})
}
