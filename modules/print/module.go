package print

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/specialistvlad/burstbuild/internal/ctxlog"
	"github.com/specialistvlad/burstbuild/internal/handlers"
)

// Module implements the handlers.Module interface for this package.
type Module struct{}

// OnRunPrint is the handler for the 'print' task type. It logs every input
// with its size and writes the same listing to the output, one
// "<path> <bytes>" line per input in input order.
func OnRunPrint(ctx context.Context, job handlers.Job) error {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Printing inputs", "count", len(job.Inputs))

	var b strings.Builder
	for _, in := range job.Inputs {
		info, err := os.Stat(in)
		if err != nil {
			return fmt.Errorf("print: %w", err)
		}
		logger.Info("Input", "path", in, "bytes", info.Size())
		fmt.Fprintf(&b, "%s %d\n", in, info.Size())
	}
	return os.WriteFile(job.Output, []byte(b.String()), 0o644)
}

// Register registers the handler with the registry.
func (m *Module) Register(r *handlers.Registry) {
	r.RegisterHandler("print", handlers.HandlerFunc(OnRunPrint))
}
