// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package devserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/jeranaias/nuvexa-tui/internal/config"
	"github.com/jeranaias/nuvexa-tui/internal/logger"
	"github.com/jeranaias/nuvexa-tui/internal/model"
)

// DefaultVersion is reported by /api/health.
const DefaultVersion = "1.0.0"

// ShutdownTimeout bounds graceful shutdown in ListenAndServe.
const ShutdownTimeout = 5 * time.Second

// Server is the local stand-in backend.
type Server struct {
	cfg       config.ServerConfig
	engine    *gin.Engine
	log       *slog.Logger
	catalog   *Catalog
	responder Responder
	limiter   *RateLimiter
	modes     []model.Mode
	version   string
}

// Option configures a Server.
type Option func(*Server)

// WithCatalog replaces the built-in catalogue.
func WithCatalog(c *Catalog) Option {
	return func(s *Server) { s.catalog = c }
}

// WithResponder replaces the canned chat responder.
func WithResponder(r Responder) Option {
	return func(s *Server) { s.responder = r }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithVersion sets the version reported by /api/health.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// New builds a server from cfg. Nothing listens until ListenAndServe.
func New(cfg config.ServerConfig, opts ...Option) *Server {
	s := &Server{
		cfg:       cfg,
		log:       logger.Component("devserver"),
		catalog:   DefaultCatalog(),
		responder: CannedResponder{},
		limiter:   NewRateLimiter(cfg.RateLimitPerMinute),
		modes: []model.Mode{
			{ID: model.ModeAssistant, Name: "Assistant", Icon: "🤖", Description: "General AI assistant for help and advice"},
			{ID: model.ModeShopping, Name: "Shopping", Icon: "🛒", Description: "Find and compare products"},
		},
		version: DefaultVersion,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = s.setupRouter()
	return s
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.cfg.Addr
}

func (s *Server) setupRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(recoveryMiddleware(s.log))
	router.Use(loggingMiddleware(s.log))
	if mw := corsMiddleware(s.cfg.AllowedOrigins); mw != nil {
		router.Use(mw)
	}
	router.Use(rateLimitMiddleware(s.limiter, s.log))

	router.GET("/", s.handleRoot)

	api := router.Group("/api")
	{
		api.GET("/health", s.handleHealth)
		api.GET("/modes", s.handleModes)
		api.POST("/chat", s.handleChat)
		api.POST("/shop", s.handleShop)
	}

	router.NoRoute(s.handleNotFound)
	return router
}

// corsMiddleware allows the configured browser origins. A "*" entry allows
// every origin without credentials. No origins means no CORS headers.
func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return nil
	}
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully. ready, if non-nil, receives the bound address
// once the listener is open.
func (s *Server) ListenAndServe(ctx context.Context, ready func(addr string)) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}

	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", "addr", ln.Addr().String(), "version", s.version)
		errCh <- srv.Serve(ln)
	}()
	if ready != nil {
		ready(ln.Addr().String())
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
