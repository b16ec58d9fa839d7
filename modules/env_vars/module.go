package env_vars

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/specialistvlad/burstbuild/internal/ctxlog"
	"github.com/specialistvlad/burstbuild/internal/handlers"
)

// Module implements the handlers.Module interface for this package.
type Module struct{}

// OnRunEnvVars is the handler for the 'env_vars' task type. It merges its
// input dotenv files in order, overlays the process environment variables
// named in the task's args, and writes the result as a dotenv file.
func OnRunEnvVars(ctx context.Context, job handlers.Job) error {
	logger := ctxlog.FromContext(ctx)

	env := make(map[string]string)
	if len(job.Inputs) > 0 {
		base, err := godotenv.Read(job.Inputs...)
		if err != nil {
			return fmt.Errorf("reading dotenv inputs: %w", err)
		}
		env = base
	}

	for _, name := range job.Args {
		if v, ok := os.LookupEnv(name); ok {
			env[name] = v
		} else {
			logger.Warn("Environment variable not set, skipping.", "name", name)
		}
	}

	content, err := godotenv.Marshal(env)
	if err != nil {
		return fmt.Errorf("encoding dotenv output: %w", err)
	}
	return os.WriteFile(job.Output, []byte(content+"\n"), 0o644)
}

// Register registers the handler with the registry.
func (m *Module) Register(r *handlers.Registry) {
	r.RegisterHandler("env_vars", handlers.HandlerFunc(OnRunEnvVars))
}
