package scheduler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/burstbuild/internal/ctxlog"
	"github.com/specialistvlad/burstbuild/internal/dag"
	"github.com/specialistvlad/burstbuild/internal/filetable"
	"github.com/specialistvlad/burstbuild/internal/handlers"
	"github.com/specialistvlad/burstbuild/internal/progress"
)

// Reporter receives one event per dispatched task.
type Reporter interface {
	Report(e progress.Event)
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithWorkers sets the concurrency ceiling. It is ignored when a Limiter is
// supplied with WithLimiter.
func WithWorkers(n int) Option {
	return func(s *Scheduler) { s.workers = n }
}

// WithLimiter replaces the default semaphore-backed Limiter.
func WithLimiter(l Limiter) Option {
	return func(s *Scheduler) { s.limiter = l }
}

// WithReporter sets where progress lines go. Without one, nothing is reported.
func WithReporter(r Reporter) Option {
	return func(s *Scheduler) { s.reporter = r }
}

// Scheduler runs the tasks of a declared graph through their handlers.
type Scheduler struct {
	files    *filetable.Table
	graph    *dag.Graph
	registry *handlers.Registry
	workers  int
	limiter  Limiter
	reporter Reporter
}

// Result summarizes one run.
type Result struct {
	RunID     string
	Total     int
	Completed int
	Duration  time.Duration
}

// New creates a Scheduler for graph. The graph itself is never mutated; each
// Run works on a clone.
func New(files *filetable.Table, graph *dag.Graph, registry *handlers.Registry, opts ...Option) *Scheduler {
	s := &Scheduler{
		files:    files,
		graph:    graph,
		registry: registry,
		workers:  runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.limiter == nil {
		s.limiter = NewLimiter(s.workers)
	}
	return s
}

// Validate checks that every declared task type has a registered handler.
func (s *Scheduler) Validate() error {
	missing := make(map[string]bool)
	var errs []error
	for _, id := range s.graph.TaskIDs() {
		task, ok := s.graph.Task(id)
		if !ok || s.registry.Has(task.Type) || missing[task.Type] {
			continue
		}
		missing[task.Type] = true
		errs = append(errs, fmt.Errorf("%w for task type %q (task %d)", ErrNoHandler, task.Type, id))
	}
	return errors.Join(errs...)
}

// Run executes every declared task and blocks until the build finishes, fails
// or ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	ctx = ctxlog.With(ctx, "run_id", runID)
	logger := ctxlog.FromContext(ctx)

	s.registry.Seal()
	r := &run{
		s:    s,
		work: s.graph.Clone(),
		wake: make(chan struct{}, 1),
	}
	r.total = r.work.Len()
	res := &Result{RunID: runID, Total: r.total}

	if err := s.Validate(); err != nil {
		return res, err
	}

	start := time.Now()
	logger.Info("Build started.", "tasks", r.total)
	loopErr := r.loop(ctx)
	r.wg.Wait()

	res.Duration = time.Since(start)
	res.Completed = r.completedCount()
	err := r.err(loopErr)
	if err != nil {
		logger.Error("Build failed.", "completed", res.Completed, "total", res.Total, "error", err)
	} else {
		logger.Info("Build finished.", "completed", res.Completed, "duration", res.Duration)
	}
	return res, err
}

// run is the state of a single Run call.
type run struct {
	s     *Scheduler
	work  *dag.Graph
	total int
	// wake is signalled whenever a task finishes. One buffered slot is enough:
	// the loop re-scans the whole graph after every wakeup.
	wake chan struct{}
	wg   sync.WaitGroup

	mu        sync.Mutex
	completed int
	failures  []error
	fatal     error
}

func (r *run) loop(ctx context.Context) error {
	for {
		if r.halted() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.work.Len() == 0 {
			return nil
		}

		id, ok := r.work.SelectExecutable(ctx)
		if !ok {
			if _, running := r.work.Counts(); running > 0 {
				select {
				case <-r.wake:
				case <-ctx.Done():
					return ctx.Err()
				}
				continue
			}
			// Only this loop starts tasks, so with nothing running the graph
			// can no longer change. Look once more before giving up.
			if id, ok = r.work.SelectExecutable(ctx); !ok {
				return r.stalled()
			}
		}

		if err := r.dispatch(ctx, id); err != nil {
			return err
		}
	}
}

func (r *run) dispatch(ctx context.Context, id dag.TaskID) error {
	task, ok := r.work.Task(id)
	if !ok {
		return fmt.Errorf("%w: %d", dag.ErrUnknownTask, id)
	}
	h, ok := r.s.registry.Lookup(task.Type)
	if !ok {
		return fmt.Errorf("%w for task type %q (task %d)", ErrNoHandler, task.Type, id)
	}
	inputs, err := r.s.files.ResolveAll(task.Inputs)
	if err != nil {
		return fmt.Errorf("task %d: %w", id, err)
	}
	output, err := r.s.files.Resolve(task.Output)
	if err != nil {
		return fmt.Errorf("task %d: %w", id, err)
	}

	if err := r.s.limiter.Acquire(ctx); err != nil {
		return err
	}
	if err := r.work.MarkStarted(id); err != nil {
		r.s.limiter.Release()
		return err
	}

	if r.s.reporter != nil {
		r.s.reporter.Report(progress.Event{
			Total:     r.total,
			Remaining: r.work.Len(),
			Type:      task.Type,
			Inputs:    inputs,
			Output:    output,
		})
	}

	job := handlers.Job{Type: task.Type, Inputs: inputs, Output: output, Args: task.Args}
	r.wg.Add(1)
	go r.execute(ctx, id, h, job)
	return nil
}

func (r *run) execute(ctx context.Context, id dag.TaskID, h handlers.Handler, job handlers.Job) {
	// Deferred in reverse: the permit is back before the loop is woken.
	defer r.wg.Done()
	defer r.notify()
	defer r.s.limiter.Release()

	logger := ctxlog.FromContext(ctx).With("task", id, "type", job.Type, "output", job.Output)
	logger.Debug("Task started.", "inputs", job.Inputs)

	if err := invoke(ctx, h, job); err != nil {
		logger.Error("Task failed.", "error", err)
		r.fail(&TaskError{Task: id, Type: job.Type, Output: job.Output, Err: err})
		return
	}
	if _, err := os.Stat(job.Output); err != nil {
		logger.Error("Task produced no output.", "error", err)
		r.fail(&TaskError{Task: id, Type: job.Type, Output: job.Output, Err: fmt.Errorf("%w: %v", ErrOutputMissing, err)})
		return
	}
	if err := r.work.RemoveTask(id); err != nil {
		logger.Error("Graph invariant violated, aborting.", "error", err)
		r.abort(err)
		return
	}

	r.mu.Lock()
	r.completed++
	r.mu.Unlock()
	logger.Debug("Task finished.")
}

// invoke runs h, turning a panic into an error.
func invoke(ctx context.Context, h handlers.Handler, job handlers.Job) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("handler panicked: %v", rec)
		}
	}()
	return h.Handle(ctx, job)
}

func (r *run) notify() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

func (r *run) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, err)
}

func (r *run) abort(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fatal == nil {
		r.fatal = err
	}
}

func (r *run) halted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fatal != nil || len(r.failures) > 0
}

func (r *run) completedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.completed
}

func (r *run) stalled() error {
	ids := r.work.TaskIDs()
	outputs := make([]string, 0, len(ids))
	for _, id := range ids {
		task, ok := r.work.Task(id)
		if !ok {
			continue
		}
		path, err := r.s.files.Resolve(task.Output)
		if err != nil {
			path = fmt.Sprintf("#%d", task.Output)
		}
		outputs = append(outputs, path)
	}
	return fmt.Errorf("%w: %d task(s) can never run: %s", ErrStalled, len(ids), strings.Join(outputs, ", "))
}

func (r *run) err(loopErr error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	errs := make([]error, 0, len(r.failures)+2)
	if r.fatal != nil {
		errs = append(errs, r.fatal)
	}
	if loopErr != nil {
		errs = append(errs, loopErr)
	}
	errs = append(errs, r.failures...)
	return errors.Join(errs...)
}
