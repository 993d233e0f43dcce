// Package api provides the HTTP API server and handlers for the YaNote application.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/yanoteapp/yanote-server/internal/ratelimit"
	"github.com/yanoteapp/yanote-server/internal/search"
	"github.com/yanoteapp/yanote-server/internal/store"
)

// envelopeVersion is the wire version of the response envelope.
const envelopeVersion = 1

// Server holds dependencies for HTTP handlers.
type Server struct {
	store           *store.Store
	services        *Services
	searchIndex     *search.NoteIndex
	router          *chi.Mux
	api             huma.API
	logger          *slog.Logger
	authRateLimiter *ratelimit.KeyedRateLimiter

	name        string
	version     string
	environment string
	startedAt   time.Time
}

// Options configures the API server.
type Options struct {
	Store       *store.Store
	Services    *Services
	SearchIndex *search.NoteIndex
	Logger      *slog.Logger

	Name        string
	Version     string
	Environment string
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(opts Options) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	humaConfig := huma.DefaultConfig(opts.Name, opts.Version)
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	humaAPI := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:       opts.Store,
		services:    opts.Services,
		searchIndex: opts.SearchIndex,
		router:      router,
		api:         humaAPI,
		logger:      opts.Logger,
		// 10 credential attempts per minute per client address
		authRateLimiter: ratelimit.New(10.0/60.0, 10),
		name:            opts.Name,
		version:         opts.Version,
		environment:     opts.Environment,
		startedAt:       time.Now(),
	}

	s.registerHealthRoutes()
	s.registerInstanceRoutes()
	s.registerAuthRoutes()
	s.registerNoteRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases server-held resources.
func (s *Server) Close() {
	s.authRateLimiter.Stop()
}

// Envelope is the uniform response wrapper: {"v":1,"success":true,"data":...}
// on success, {"v":1,"success":false,"error":{...}} on failure.
type Envelope struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   *Error `json:"error,omitempty"`
}

// Error is the error payload inside a failed envelope.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// EnvelopeTransformer wraps every response body in the envelope. The status
// string is huma's response status code; anything below 400 is a success.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		return &Envelope{
			V:       envelopeVersion,
			Success: false,
			Error: &Error{
				Code:    apiErr.Code,
				Message: apiErr.Message,
				Details: apiErr.Details,
			},
		}, nil
	}

	if status >= "400" && len(status) == 3 {
		if err, ok := v.(error); ok {
			return &Envelope{
				V:       envelopeVersion,
				Success: false,
				Error:   &Error{Code: statusToCode(statusFromString(status)), Message: err.Error()},
			}, nil
		}
	}

	return &Envelope{
		V:       envelopeVersion,
		Success: true,
		Data:    v,
	}, nil
}

// statusFromString parses a three-digit status string; zero on failure.
func statusFromString(status string) int {
	if len(status) != 3 {
		return 0
	}
	n := 0
	for _, c := range status {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	return n
}
