package testutil

import (
	"context"
	"os"

	"github.com/specialistvlad/burstbuild/internal/handlers"
)

// NoOpModule registers a "noop" handler that only creates an empty output.
// It is useful for tests that exercise graph shape rather than content.
type NoOpModule struct{}

// Register registers the "noop" handler.
func (m *NoOpModule) Register(r *handlers.Registry) {
	r.RegisterHandler("noop", handlers.HandlerFunc(func(_ context.Context, job handlers.Job) error {
		return os.WriteFile(job.Output, nil, 0o644)
	}))
}
