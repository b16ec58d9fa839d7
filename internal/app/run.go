package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/burstbuild/internal/ctxlog"
)

// Run executes the declared build. It may be called repeatedly; every call
// starts from the full declared graph.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.HealthcheckPort > 0 {
		a.startHealthcheckServer(a.config.HealthcheckPort)
		defer a.closeHealthcheckServer()
	}

	a.logger.Info("Handlers registered:", "count", len(a.registry.Names()), "types", a.registry.Names())

	if a.builder.Len() == 0 {
		a.logger.Warn("No tasks declared, nothing to build.")
		return nil
	}

	a.logger.Info("🚀 Starting build...", "tasks", a.builder.Len(), "workers", a.config.WorkerCount)
	res, err := a.scheduler.Run(ctx)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	a.logger.Info("🏁 Build finished.", "run_id", res.RunID, "tasks", res.Completed, "duration", res.Duration)

	a.logger.Debug("App.Run method finished.")
	return nil
}
