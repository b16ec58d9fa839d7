// Package handlers holds the Handler Registry: the mapping from a task's
// handler-type tag to the function that actually transforms its inputs into
// its output. Registries are populated before a run starts and sealed while
// it runs.
package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Job is everything a handler receives for one task.
type Job struct {
	Type   string
	Inputs []string
	Output string
	Args   []string
}

// Handler performs one transformation synchronously. On success the output
// file must exist.
type Handler interface {
	Handle(ctx context.Context, job Job) error
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, job Job) error

// Handle calls f(ctx, job).
func (f HandlerFunc) Handle(ctx context.Context, job Job) error { return f(ctx, job) }

// Module is implemented by packages contributing handlers to a Registry.
type Module interface {
	Register(r *Registry)
}

// Registry holds all the registered handlers.
type Registry struct {
	mu     sync.RWMutex
	all    map[string]Handler
	sealed bool
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		all: make(map[string]Handler),
	}
}

// RegisterHandler registers h under name. Every registered handler gets the
// output's parent directory created before it runs. Registering a name twice,
// or registering into a sealed registry, is a programmer error and panics.
func (r *Registry) RegisterHandler(name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		panic(fmt.Sprintf("handler '%s' registered after the registry was sealed", name))
	}
	if _, exists := r.all[name]; exists {
		panic(fmt.Sprintf("handler with name '%s' already registered", name))
	}
	slog.Debug("Registering handler.", "name", name)
	r.all[name] = withOutputDir(h)
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.all[name]
	return ok
}

// Lookup returns the handler registered under name.
func (r *Registry) Lookup(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.all[name]
	return h, ok
}

// Names returns all registered handler names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.all))
	for name := range r.all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Seal makes the registry immutable. Sealing twice is harmless.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

// withOutputDir wraps h so the output's parent directory exists before h runs.
func withOutputDir(h Handler) Handler {
	return HandlerFunc(func(ctx context.Context, job Job) error {
		if dir := filepath.Dir(job.Output); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating output directory %s: %w", dir, err)
			}
		}
		return h.Handle(ctx, job)
	})
}
