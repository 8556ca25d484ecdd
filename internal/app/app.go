package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/genforge/genforge/internal/ctxlog"
	"github.com/genforge/genforge/internal/engine"
	"github.com/genforge/genforge/internal/manifest"
	"github.com/genforge/genforge/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	engine   *engine.Engine
	config   *Config
}

// New constructs a fully initialized App: isolated logger, registry loaded
// from the manifests, and a fresh engine. A manifest that fails to load is a
// fatal startup error and panics; the caller recovers to present it.
func New(outW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	loader := manifest.NewLoader()
	reg, err := loader.Load(ctx, cfg.ManifestPath)
	if err != nil {
		panic(fmt.Errorf("failed to load manifests: %w", err))
	}
	logger.Debug("Registry populated from manifests.", "instructions", reg.Len())

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		engine:   engine.New(reg),
		config:   cfg,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Engine returns the application's build engine. This is primarily for
// testing.
func (a *App) Engine() *engine.Engine {
	return a.engine
}
