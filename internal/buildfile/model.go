package buildfile

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalid is returned for structurally invalid build definitions.
var ErrInvalid = errors.New("invalid build definition")

// Model is the format-agnostic representation of a build definition.
type Model struct {
	Handlers []*HandlerDef
	Builds   []*Build
}

// HandlerDef defines an external-command handler.
type HandlerDef struct {
	Type    string
	Command []string
	Stdin   bool
	Workdir string
}

// Build is one build step. With Each set, the step expands into one task per
// input, each with an intermediate output. A nil Output or Args means the
// step does not set it.
type Build struct {
	Type   string
	Name   string
	Inputs InputSource
	Output StringSource
	Each   bool
	Args   InputSource
}

// InputSource yields a list value of a build step once every earlier step
// has been declared.
type InputSource interface {
	Resolve(ctx context.Context, scope *Scope) ([]string, error)
}

// StringSource yields a single value of a build step once every earlier step
// has been declared.
type StringSource interface {
	Resolve(ctx context.Context, scope *Scope) (string, error)
}

// Literal is a StringSource with a fixed value.
type Literal string

func (l Literal) Resolve(context.Context, *Scope) (string, error) { return string(l), nil }

// Literals is an InputSource with fixed values.
type Literals []string

func (l Literals) Resolve(context.Context, *Scope) ([]string, error) { return l, nil }

// Loader reads build definitions from paths into a Model.
type Loader interface {
	Load(ctx context.Context, paths ...string) (*Model, error)
}

// Validate checks the model for errors that do not depend on evaluation.
func (m *Model) Validate() error {
	var errs []error

	handlerTypes := make(map[string]bool)
	for _, h := range m.Handlers {
		switch {
		case h.Type == "":
			errs = append(errs, fmt.Errorf("%w: handler without a type", ErrInvalid))
		case handlerTypes[h.Type]:
			errs = append(errs, fmt.Errorf("%w: handler %q defined twice", ErrInvalid, h.Type))
		case len(h.Command) == 0:
			errs = append(errs, fmt.Errorf("%w: handler %q has an empty command", ErrInvalid, h.Type))
		}
		handlerTypes[h.Type] = true
	}

	names := make(map[string]bool)
	for _, b := range m.Builds {
		if b.Type == "" {
			errs = append(errs, fmt.Errorf("%w: build %q has no handler type", ErrInvalid, b.Name))
		}
		if b.Name == "" {
			errs = append(errs, fmt.Errorf("%w: %s build without a name", ErrInvalid, b.Type))
		} else if names[b.Name] {
			errs = append(errs, fmt.Errorf("%w: build %q defined twice", ErrInvalid, b.Name))
		}
		names[b.Name] = true
		if b.Each && b.Output != nil {
			errs = append(errs, fmt.Errorf("%w: build %q sets both each and output", ErrInvalid, b.Name))
		}
		if b.Inputs == nil {
			errs = append(errs, fmt.Errorf("%w: build %q has no inputs", ErrInvalid, b.Name))
		}
	}
	return errors.Join(errs...)
}
