// Package server exposes the invoice calculation engine over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rezonia/invoice-api/internal/invoice"
	"github.com/rezonia/invoice-api/internal/model"
	"github.com/rezonia/invoice-api/internal/tax"
)

// Config holds server configuration
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

// Renderer turns a computed invoice into an opaque document byte sequence.
type Renderer interface {
	Render(doc model.InvoiceDocument) ([]byte, error)
}

// Uploader stores a rendered document and returns a retrieval URL.
type Uploader interface {
	Upload(ctx context.Context, data []byte, name string) (string, error)
}

// Server represents the HTTP API server
type Server struct {
	config     *Config
	router     *gin.Engine
	logger     zerolog.Logger
	resolver   *tax.Resolver
	calculator *invoice.Calculator
	renderer   Renderer
	uploader   Uploader
}

// NewServer creates a new API server. The uploader may be nil, in which case
// responses carry the rendered document inline without a download URL.
func NewServer(config *Config, logger zerolog.Logger, resolver *tax.Resolver, renderer Renderer, uploader Uploader) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(RequestLogger(logger))

	s := &Server{
		config:     config,
		router:     router,
		logger:     logger,
		resolver:   resolver,
		calculator: invoice.NewCalculator(resolver),
		renderer:   renderer,
		uploader:   uploader,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.handleHealth)

	// API v1
	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/invoices", s.handleGenerateInvoice)
		v1.POST("/invoices/preview", s.handlePreviewInvoice)
		v1.GET("/rules", s.handleRules)
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}
