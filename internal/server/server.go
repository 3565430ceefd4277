// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the paper collection and the chat assistant over
// HTTP.
package server

import (
	"context"
	"errors"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-graph/internal/pipeline"
	"github.com/pdiddy/paper-graph/internal/search"
	"github.com/pdiddy/paper-graph/internal/store"
	"github.com/pdiddy/paper-graph/pkg/types"
)

const (
	defaultAddr    = ":8000"
	shutdownPeriod = 10 * time.Second
)

// Assistant answers chat messages and adds papers on request.
type Assistant interface {
	Chat(ctx context.Context, message string) types.ChatResponse
	AddPaper(ctx context.Context, input string) (types.Paper, bool, error)
	SelectPaper(ctx context.Context, arxivID, sourcePaperID string) types.ChatResponse
}

// Store is the persistence surface the HTTP handlers use.
type Store interface {
	GetPaper(ctx context.Context, id string) (types.Paper, error)
	ListPapers(ctx context.Context) ([]types.Paper, error)
	DeletePaper(ctx context.Context, id string) error
	AddEdge(ctx context.Context, e types.Edge) (types.Edge, bool, error)
	ListEdges(ctx context.Context) ([]types.Edge, error)
	DeleteEdge(ctx context.Context, id string) error
	GraphData(ctx context.Context) (types.GraphData, error)
	ChatHistory(ctx context.Context, limit int) ([]types.ChatMessage, error)
	ClearChatHistory(ctx context.Context) error
}

// Server is the HTTP front door.
type Server struct {
	cfg       types.ServerConfig
	app       *fiber.App
	assistant Assistant
	store     Store
	log       zerolog.Logger
}

// New builds the Fiber app and registers every route. HTTP metrics are
// registered with reg and served at /metrics; a nil reg gets a private
// registry.
func New(cfg types.ServerConfig, assistant Assistant, st Store, reg *prometheus.Registry, log zerolog.Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}
	if cfg.AllowedOrigins == "" {
		cfg.AllowedOrigins = "*"
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	s := &Server{
		cfg:       cfg,
		assistant: assistant,
		store:     st,
		log:       log.With().Str("component", "server").Logger(),
	}

	app := fiber.New(fiber.Config{
		AppName:               "paper-graph",
		ErrorHandler:          s.handleError,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(logger.New())

	prom := fiberprometheus.NewWithRegistry(reg, "paper-graph", "paper_graph", "http", nil)
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     "GET,POST,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept",
		AllowCredentials: cfg.AllowedOrigins != "*",
	}))

	s.app = app
	s.routes()
	return s
}

// App returns the underlying Fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr).Msg("listening")
		errCh <- s.app.Listen(s.cfg.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownPeriod)
	defer cancel()
	return s.app.ShutdownWithContext(shutdownCtx)
}

// handleError renders every error as {"error": message} with a status
// derived from the error.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	if code >= fiber.StatusInternalServerError {
		s.log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func statusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, store.ErrNotFound), errors.Is(err, search.ErrPaperNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, pipeline.ErrInvalidID),
		errors.Is(err, store.ErrSelfLoop),
		errors.Is(err, store.ErrInvalidEdgeType):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}
