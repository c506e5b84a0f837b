// Package api implements the HTTP surface: REST handlers for collections
// and search, the WebSocket endpoint for streaming results, API-key
// authentication, and the per-organization rate limit.
package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zeeeepa/airweave/pkg/config"
	"github.com/Zeeeepa/airweave/pkg/database"
	"github.com/Zeeeepa/airweave/pkg/events"
	"github.com/Zeeeepa/airweave/pkg/queue"
	"github.com/Zeeeepa/airweave/pkg/services"
)

// Server wires HTTP routes to the service layer.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server

	dbClient          *database.Client
	collectionService *services.CollectionService
	searchService     *services.SearchService
	apiKeyService     *services.APIKeyService
	workerPool        *queue.WorkerPool
	connManager       *events.ConnectionManager

	publisher   *events.Publisher
	rateLimiter *RateLimiter
}

// NewServer creates the API server and registers all routes. Optional
// collaborators (publisher, rate limiter) are attached with setters
// before Start.
func NewServer(
	settings *config.Settings,
	dbClient *database.Client,
	collectionService *services.CollectionService,
	searchService *services.SearchService,
	apiKeyService *services.APIKeyService,
	workerPool *queue.WorkerPool,
	connManager *events.ConnectionManager,
) *Server {
	if settings != nil && settings.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		engine:            gin.New(),
		dbClient:          dbClient,
		collectionService: collectionService,
		searchService:     searchService,
		apiKeyService:     apiKeyService,
		workerPool:        workerPool,
		connManager:       connManager,
	}
	s.engine.Use(gin.Recovery())
	s.setupRoutes()
	return s
}

// SetPublisher attaches the event publisher used to broadcast request
// status transitions on the global searches channel.
func (s *Server) SetPublisher(p *events.Publisher) {
	s.publisher = p
}

// SetRateLimiter attaches the per-organization rate limiter.
func (s *Server) SetRateLimiter(rl *RateLimiter) {
	s.rateLimiter = rl
}

func (s *Server) setupRoutes() {
	s.engine.Use(securityHeaders())
	s.engine.Use(requestLogger())

	// Unauthenticated: liveness probes and the WebSocket stream.
	s.engine.GET("/health", s.healthHandler)
	s.engine.GET("/ws", s.wsHandler)

	v1 := s.engine.Group("/api/v1")
	v1.Use(s.authMiddleware(), s.rateLimitMiddleware())

	v1.GET("/collections", s.listCollectionsHandler)
	v1.POST("/collections", s.createCollectionHandler)
	v1.GET("/collections/:slug", s.getCollectionHandler)
	v1.DELETE("/collections/:slug", s.deleteCollectionHandler)
	v1.POST("/collections/:slug/search", s.searchHandler)

	v1.GET("/search/requests", s.listSearchRequestsHandler)
	v1.GET("/search/requests/:id", s.getSearchRequestHandler)
}

// requestLogger logs completed requests. Health probes are skipped to keep
// the log readable.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if c.Request.URL.Path == "/health" {
			return
		}
		slog.Info("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// Start begins serving on addr and blocks until the listener stops.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.httpServer.ListenAndServe()
}

// StartWithListener serves on an existing listener. Used by tests that bind
// an ephemeral port before starting the server.
func (s *Server) StartWithListener(ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully stops the server, waiting for in-flight requests
// until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
