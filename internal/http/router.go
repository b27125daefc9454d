package http

import (
	"context"
	"net/http"
	"time"

	"adstxt-validator/internal/logger"
	"adstxt-validator/internal/ratelimit"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server represents the HTTP server with all dependencies
type Server struct {
	handler *Handler
	logger  logger.Service
	server  *http.Server
}

// ServerConfig carries the knobs NewServer needs beyond its collaborators.
type ServerConfig struct {
	Addr           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MetricsEnabled bool
}

// NewServer creates a new HTTP server
func NewServer(
	cfg ServerConfig,
	handler *Handler,
	logger logger.Service,
	rateLimiter ratelimit.Service,
) *Server {
	router := mux.NewRouter()

	srv := &Server{
		handler: handler,
		logger:  logger,
		server: &http.Server{
			Addr:         cfg.Addr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}

	// Register middleware (order matters: logging -> rate limiting -> cors -> recovery)
	router.Use(loggingMiddleware(logger))
	router.Use(rateLimitingMiddleware(rateLimiter, logger))
	router.Use(corsMiddleware())
	router.Use(recoveryMiddleware(logger))

	srv.registerRoutes(router, cfg.MetricsEnabled)

	return srv
}

// registerRoutes sets up all API routes
func (s *Server) registerRoutes(router *mux.Router, metricsEnabled bool) {
	// Health check
	router.HandleFunc("/health", s.handler.HealthCheck).Methods("GET")

	// API routes
	router.HandleFunc("/api/validate/{domain}", s.handler.ValidateDomain).Methods("GET")
	router.HandleFunc("/api/validate", s.handler.ValidateContent).Methods("POST")
	router.HandleFunc("/api/batch-validate", s.handler.ValidateBatchDomains).Methods("POST")
	router.HandleFunc("/api/optimize", s.handler.OptimizeContent).Methods("POST")
	router.HandleFunc("/api/cache-info/{domain}", s.handler.GetCacheInfo).Methods("GET")
	router.HandleFunc("/api/history/{domain}", s.handler.GetHistory).Methods("GET")

	if metricsEnabled {
		router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}

	// Root handler
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message":"ads.txt Validation API","version":"1.0.0","endpoints":["/health","/api/validate/{domain}","/api/validate","/api/batch-validate","/api/optimize","/api/cache-info/{domain}","/api/history/{domain}"]}`))
	}).Methods("GET")
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.LogInfo(context.Background(), logger.OpServerStart, "Starting HTTP server", map[string]interface{}{
		"addr": s.server.Addr,
	})

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.LogInfo(ctx, logger.OpServerShutdown, "Shutting down HTTP server", nil)
	return s.server.Shutdown(ctx)
}
