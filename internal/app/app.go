package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/fatih/color"
	"github.com/specialistvlad/burstbuild/internal/buildfile"
	"github.com/specialistvlad/burstbuild/internal/builder"
	"github.com/specialistvlad/burstbuild/internal/ctxlog"
	"github.com/specialistvlad/burstbuild/internal/handlers"
	"github.com/specialistvlad/burstbuild/internal/progress"
	"github.com/specialistvlad/burstbuild/internal/scheduler"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx        context.Context
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	registry   *handlers.Registry
	builder    *builder.Builder
	scheduler  *scheduler.Scheduler
	httpServer *http.Server
}

// NewApp is the constructor for the main application. It loads the build
// definition, registers handlers and declares every task. Any configuration
// error is fatal and panics; the entrypoint recovers it.
//
// When no modules are given the core modules are registered.
func NewApp(outW io.Writer, cfg *Config, modules ...handlers.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := buildfile.Load(ctx, cfg.BuildPath)
	if err != nil {
		panic(fmt.Errorf("failed to load build definition: %w", err))
	}
	logger.Debug("Build definition loaded.", "handlers", len(model.Handlers), "builds", len(model.Builds))

	reg := handlers.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	commandModule{defs: model.Handlers}.Register(reg)
	logger.Debug("All handler modules registered.", "count", len(modules), "types", reg.Names())

	b := builder.New(cfg.BuildDir)
	if err := model.Declare(ctx, b, buildfile.NewScope(b.BuildDir())); err != nil {
		panic(fmt.Errorf("failed to declare builds: %w", err))
	}
	if err := b.Graph().DetectCycles(); err != nil {
		panic(fmt.Errorf("invalid dependency graph: %w", err))
	}
	logger.Debug("Dependency graph declared.", "tasks", b.Len(), "files", b.Files().Len())

	sched := scheduler.New(b.Files(), b.Graph(), reg,
		scheduler.WithWorkers(cfg.WorkerCount),
		scheduler.WithReporter(progress.NewReporter(outW, !cfg.NoColor && !color.NoColor)),
	)
	if err := sched.Validate(); err != nil {
		// A build file naming a type nobody handles is a configuration error.
		panic(err)
	}
	logger.Debug("Handler validation passed.")

	return &App{
		ctx:       ctx,
		outW:      outW,
		logger:    logger,
		config:    cfg,
		registry:  reg,
		builder:   b,
		scheduler: sched,
	}
}

// Registry returns the application's handler registry. This is primarily for testing.
func (a *App) Registry() *handlers.Registry {
	return a.registry
}

// Builder returns the application's graph builder. This is primarily for testing.
func (a *App) Builder() *builder.Builder {
	return a.builder
}
