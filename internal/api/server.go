// Package api provides the HTTP API server and handlers for the Suncrest storefront.
package api

import (
	"encoding/json/v2"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/suncrest/suncrest-server/internal/config"
	domainerrors "github.com/suncrest/suncrest-server/internal/errors"
	"github.com/suncrest/suncrest-server/internal/media/images"
	"github.com/suncrest/suncrest-server/internal/sse"
	"github.com/suncrest/suncrest-server/internal/store"
)

// Server holds dependencies for HTTP handlers. Typed JSON endpoints are
// registered on huma; multipart, streaming and binary endpoints go on the
// chi router directly.
type Server struct {
	store           *store.Store
	services        *Services
	images          *images.Processor
	sseHandler      *sse.Handler
	router          *chi.Mux
	api             huma.API
	logger          *slog.Logger
	authRateLimiter *RateLimiter
	uploads         config.UploadsConfig
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st *store.Store, services *Services, processor *images.Processor, sseHandler *sse.Handler, uploads config.UploadsConfig, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	humaConfig := huma.DefaultConfig("Suncrest API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s := &Server{
		store:           st,
		services:        services,
		images:          processor,
		sseHandler:      sseHandler,
		router:          router,
		logger:          logger,
		authRateLimiter: NewRateLimiter(20, time.Minute, 10),
		uploads:         uploads,
	}

	s.setupMiddleware()

	RegisterErrorHandler()
	s.api = humachi.New(router, humaConfig)

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerSettingsRoutes()
	s.registerProductRoutes()
	s.registerUserRoutes()
	s.registerContactRoutes()
	s.registerNotificationRoutes()
	s.registerChatRoutes()
	s.setupRawRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(RateLimitMiddleware(NewRateLimiter(600, time.Minute, 100), s.logger))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

// setupRawRoutes registers the endpoints that bypass huma: multipart
// writes, file serving, the theme stylesheet and the SSE stream.
func (s *Server) setupRawRoutes() {
	s.router.Get("/theme.css", s.handleThemeCSS)
	s.router.Get("/uploads/*", s.handleServeUpload)
	s.router.Get("/api/chat/stream", s.handleChatStream)
	s.router.Put("/api/site-settings", s.handleSaveSiteSettings)
	s.router.Put("/api/users/profile", s.handleUpdateProfile)
	s.router.Post("/api/products", s.handleCreateProduct)
	s.router.Put("/api/products/{id}", s.handleUpdateProduct)
}

// writeEnvelope writes a success envelope from a raw (non-huma) handler so
// every endpoint shares one response shape.
func (s *Server) writeEnvelope(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	env := &Envelope{
		Version: envelopeVersion,
		Success: status < 400,
		Data:    data,
	}
	if err := json.MarshalWrite(w, env); err != nil {
		s.logger.Error("Failed to encode response", "error", err)
	}
}

// writeError maps an error to the envelope from a raw (non-huma) handler.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	apiErr := &APIError{
		status:  http.StatusInternalServerError,
		Code:    string(domainerrors.CodeInternal),
		Message: "internal server error",
	}

	var domainErr *domainerrors.Error
	var statusErr huma.StatusError
	switch {
	case errors.As(err, &domainErr):
		apiErr = &APIError{
			status:  domainErr.HTTPStatus(),
			Code:    string(domainErr.Code),
			Message: domainErr.Message,
			Details: domainErr.Details,
		}
	case errors.As(err, &statusErr):
		apiErr = &APIError{
			status:  statusErr.GetStatus(),
			Code:    statusToCode(statusErr.GetStatus()),
			Message: statusErr.Error(),
		}
	case isNotFoundError(err):
		apiErr = &APIError{
			status:  http.StatusNotFound,
			Code:    string(domainerrors.CodeNotFound),
			Message: err.Error(),
		}
	default:
		s.logger.Error("Unhandled error", "error", err)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(apiErr.status)
	env := &Envelope{
		Version: envelopeVersion,
		Success: false,
		Error:   apiErr,
	}
	if encErr := json.MarshalWrite(w, env); encErr != nil {
		s.logger.Error("Failed to encode error response", "error", encErr)
	}
}
