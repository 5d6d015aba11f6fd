// Package api exposes the couchlist list engine over HTTP.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/jdotfite/couchlist/internal/config"
	"github.com/jdotfite/couchlist/internal/ratelimit"
	"github.com/jdotfite/couchlist/internal/service"
	"github.com/jdotfite/couchlist/internal/store/sqlite"
)

// Services groups the service layer the handlers call into.
type Services struct {
	Lists *service.ListService
	Views *service.ViewService
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store          *sqlite.Store
	services       *Services
	router         *chi.Mux
	api            huma.API
	logger         *slog.Logger
	previewLimiter *ratelimit.KeyedRateLimiter
}

// NewServer creates a new HTTP server with all routes registered.
func NewServer(
	st *sqlite.Store,
	services *Services,
	serverCfg config.ServerConfig,
	previewCfg config.PreviewConfig,
	logger *slog.Logger,
) *Server {
	router := chi.NewRouter()

	// Middleware must be registered before huma attaches routes.
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   serverCfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", UserIDHeader, "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(identityMiddleware)

	humaConfig := huma.DefaultConfig("Couchlist API", "1.0.0")
	humaConfig.Info.Description = "List resolution for personal media libraries"
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:          st,
		services:       services,
		router:         router,
		api:            api,
		logger:         logger,
		previewLimiter: ratelimit.New(previewCfg.RatePerSecond, previewCfg.Burst),
	}

	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	s.registerHealthRoutes()
	s.registerListRoutes()
	s.registerPinRoutes()
	s.registerViewRoutes()
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API returns the underlying huma API, mainly for tests and OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}
