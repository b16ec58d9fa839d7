package buildfile

import (
	"context"
	"fmt"

	"github.com/specialistvlad/burstbuild/internal/ctxlog"
)

// Declarer accepts build steps. *builder.Builder implements it.
type Declarer interface {
	Declare(ctx context.Context, handlerType string, inputs []string, output string, args ...string) (string, error)
}

// Declare replays every build step of m against d in order. Each step's
// outputs become visible to later steps through scope.
func (m *Model) Declare(ctx context.Context, d Declarer, scope *Scope) error {
	logger := ctxlog.FromContext(ctx)

	for _, b := range m.Builds {
		inputs, err := b.Inputs.Resolve(ctx, scope)
		if err != nil {
			return fmt.Errorf("build %q: %w", b.Name, err)
		}
		var output string
		if b.Output != nil {
			if output, err = b.Output.Resolve(ctx, scope); err != nil {
				return fmt.Errorf("build %q: %w", b.Name, err)
			}
		}
		var args []string
		if b.Args != nil {
			if args, err = b.Args.Resolve(ctx, scope); err != nil {
				return fmt.Errorf("build %q: %w", b.Name, err)
			}
		}

		var outputs []string
		if b.Each {
			for _, in := range inputs {
				out, err := d.Declare(ctx, b.Type, []string{in}, "", args...)
				if err != nil {
					return fmt.Errorf("build %q: %w", b.Name, err)
				}
				outputs = append(outputs, out)
			}
		} else {
			out, err := d.Declare(ctx, b.Type, inputs, output, args...)
			if err != nil {
				return fmt.Errorf("build %q: %w", b.Name, err)
			}
			outputs = append(outputs, out)
		}

		scope.SetOutputs(b.Name, outputs)
		logger.Debug("Declared build.", "name", b.Name, "type", b.Type, "inputs", len(inputs), "tasks", len(outputs))
	}
	return nil
}
