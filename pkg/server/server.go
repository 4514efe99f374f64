// Package server provides the public entry point for initializing the
// orchestrator server.
//
// This package lives in pkg/ (not internal/) so that embedding services can
// compose the orchestrator with their own middleware:
//
//	srv, err := server.New(ctx)
//	http.ListenAndServe(":8080", srv.Handler)
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/dnalang/aura-orchestrator/internal/agents"
	"github.com/dnalang/aura-orchestrator/internal/api"
	"github.com/dnalang/aura-orchestrator/internal/api/handlers"
	"github.com/dnalang/aura-orchestrator/internal/config"
	"github.com/dnalang/aura-orchestrator/internal/devflow"
	"github.com/dnalang/aura-orchestrator/internal/intent"
	"github.com/dnalang/aura-orchestrator/internal/plan"
	"github.com/dnalang/aura-orchestrator/internal/quantum"
	"github.com/dnalang/aura-orchestrator/internal/store"
	"github.com/dnalang/aura-orchestrator/internal/telemetry"
	"github.com/dnalang/aura-orchestrator/internal/usage"
	"github.com/dnalang/aura-orchestrator/pkg/models"
)

// Config is the public configuration for the orchestrator server.
type Config struct {
	Port         int
	Version      string
	OTELEnabled  bool
	OTELEndpoint string
	ServiceName  string
	DefaultTier  string
}

// Server holds the initialized orchestrator.
type Server struct {
	// Handler is the HTTP handler with all routes and middleware.
	Handler http.Handler

	// Store is the data store (in-memory with snapshot persistence).
	Store store.Store

	// Config is the server configuration.
	Config *Config

	// Port is the port the server should listen on.
	Port int

	// ShutdownFunc should be called on graceful shutdown to flush telemetry.
	ShutdownFunc func(context.Context) error
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() *Config {
	cfg := config.Load()
	return &Config{
		Port:         cfg.Port,
		Version:      cfg.Version,
		OTELEnabled:  cfg.Telemetry.Enabled,
		OTELEndpoint: cfg.Telemetry.OTLPEndpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		DefaultTier:  cfg.Limits.DefaultTier,
	}
}

// New initializes all orchestrator components and returns a ready Server.
func New(ctx context.Context) (*Server, error) {
	return NewWithConfig(ctx, LoadConfig())
}

// NewWithConfig initializes the orchestrator with an explicit configuration.
func NewWithConfig(_ context.Context, pubCfg *Config) (*Server, error) {
	cfg := config.Load()
	if pubCfg.Port > 0 {
		cfg.Port = pubCfg.Port
	}
	if pubCfg.DefaultTier != "" {
		cfg.Limits.DefaultTier = pubCfg.DefaultTier
	}

	shutdown, err := telemetry.Init(cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	dataStore := store.NewMemoryStore()
	log.Info().Msg("In-memory store initialized")

	classifier := intent.NewClassifier()
	builder := plan.NewBuilder()
	quantumOrch := quantum.NewOrchestrator()
	devOrch := devflow.NewOrchestrator(classifier, builder, agents.NewMockExecutor())

	defaultTier := models.Tier(cfg.Limits.DefaultTier)
	tracker := usage.NewTracker(dataStore, func(context.Context, string) models.Tier {
		return defaultTier
	})

	log.Info().Msg("Intent classifier initialized")
	log.Info().Msg("Quantum sub-orchestrator initialized")
	log.Info().Msg("Dev sub-orchestrator initialized")

	h := handlers.New(dataStore, classifier, quantumOrch, devOrch, tracker, cfg.Limits.MaxInputLength)
	router := api.NewRouter(cfg, h)

	return &Server{
		Handler:      router,
		Store:        dataStore,
		Config:       pubCfg,
		Port:         cfg.Port,
		ShutdownFunc: shutdown,
	}, nil
}
