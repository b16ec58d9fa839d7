package dag

import (
	"context"
	"fmt"
	"sort"

	"github.com/specialistvlad/burstbuild/internal/ctxlog"
	"github.com/specialistvlad/burstbuild/internal/filetable"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		edges:     make(map[filetable.FileID]map[filetable.FileID]TaskID),
		producers: make(map[filetable.FileID]TaskID),
		tasks:     make(map[TaskID]*Task),
	}
}

// AddTask registers a task record producing output. Tasks without inputs
// are legal and are executable immediately; their output still enters the
// edge index so consumers wait for them.
func (g *Graph) AddTask(id TaskID, taskType string, output filetable.FileID, args []string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.tasks[id]; exists {
		return fmt.Errorf("task %d already registered", id)
	}
	if producer, exists := g.producers[output]; exists {
		return fmt.Errorf("output file %d already produced by task %d", output, producer)
	}

	g.tasks[id] = &Task{Type: taskType, Output: output, Args: args}
	g.producers[output] = id
	if _, ok := g.edges[output]; !ok {
		g.edges[output] = make(map[filetable.FileID]TaskID)
	}
	return nil
}

// AddEdge records that task consumes from to help produce to. It appends
// from to the task's inputs and sets the task's output to to. The task
// record is created on first use.
func (g *Graph) AddEdge(from, to filetable.FileID, task TaskID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	t, ok := g.tasks[task]
	if !ok {
		if producer, exists := g.producers[to]; exists {
			return fmt.Errorf("output file %d already produced by task %d", to, producer)
		}
		t = &Task{Output: to}
		g.tasks[task] = t
		g.producers[to] = task
	} else if t.Output != to {
		return fmt.Errorf("%w: task %d produces file %d, not %d", ErrInvariant, task, t.Output, to)
	}

	inputs, ok := g.edges[to]
	if !ok {
		inputs = make(map[filetable.FileID]TaskID)
		g.edges[to] = inputs
	}
	inputs[from] = task
	t.Inputs = append(t.Inputs, from)
	return nil
}

// MarkStarted flips the task's in-progress flag. Starting a task twice is
// an invariant violation.
func (g *Graph) MarkStarted(id TaskID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	t, ok := g.tasks[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownTask, id)
	}
	if t.inProgress {
		return fmt.Errorf("%w: task %d already started", ErrInvariant, id)
	}
	t.inProgress = true
	return nil
}

// RemoveTask deletes a completed task together with its output's edge index
// entry. The task must be in progress.
func (g *Graph) RemoveTask(id TaskID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	t, ok := g.tasks[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownTask, id)
	}
	if !t.inProgress {
		return fmt.Errorf("%w: task %d removed while not in progress", ErrInvariant, id)
	}
	delete(g.edges, t.Output)
	delete(g.producers, t.Output)
	delete(g.tasks, id)
	return nil
}

// SelectExecutable returns one idle task none of whose inputs is still
// pending production. Any qualifying task may be returned. The second
// result is false when no task qualifies.
func (g *Graph) SelectExecutable(ctx context.Context) (TaskID, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for id, t := range g.tasks {
		if t.inProgress {
			continue
		}
		if _, pending := g.edges[t.Output]; !pending {
			// Outputs leave the index only together with their task.
			ctxlog.FromContext(ctx).Error("Task output missing from edge index, skipping.", "task", id, "output", t.Output)
			continue
		}
		if g.blockedLocked(t) {
			continue
		}
		return id, true
	}
	return 0, false
}

func (g *Graph) blockedLocked(t *Task) bool {
	for _, in := range t.Inputs {
		if _, pending := g.edges[in]; pending {
			return true
		}
	}
	return false
}

// Pending reports whether file is the output of a task still in the graph.
func (g *Graph) Pending(file filetable.FileID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.edges[file]
	return ok
}

// Producer returns the task producing output, if any.
func (g *Graph) Producer(output filetable.FileID) (TaskID, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, ok := g.producers[output]
	return id, ok
}

// Task returns a copy of the task record.
func (g *Graph) Task(id TaskID) (Task, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	t, ok := g.tasks[id]
	if !ok {
		return Task{}, false
	}
	cp := *t
	cp.Inputs = append([]filetable.FileID(nil), t.Inputs...)
	return cp, true
}

// TaskIDs returns the identifiers of all tasks in ascending order.
func (g *Graph) TaskIDs() []TaskID {
	g.mu.Lock()
	defer g.mu.Unlock()
	ids := make([]TaskID, 0, len(g.tasks))
	for id := range g.tasks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len returns the number of tasks remaining in the graph.
func (g *Graph) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.tasks)
}

// Counts returns the number of remaining tasks and how many of them are in progress.
func (g *Graph) Counts() (remaining, running int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, t := range g.tasks {
		if t.inProgress {
			running++
		}
	}
	return len(g.tasks), running
}

// Clone returns an independent deep copy of the graph. The scheduler runs on
// a clone so the declared graph stays intact for later runs.
func (g *Graph) Clone() *Graph {
	g.mu.Lock()
	defer g.mu.Unlock()

	c := New()
	for out, inputs := range g.edges {
		cp := make(map[filetable.FileID]TaskID, len(inputs))
		for in, id := range inputs {
			cp[in] = id
		}
		c.edges[out] = cp
	}
	for out, id := range g.producers {
		c.producers[out] = id
	}
	for id, t := range g.tasks {
		cp := *t
		cp.Inputs = append([]filetable.FileID(nil), t.Inputs...)
		c.tasks[id] = &cp
	}
	return c
}

// DetectCycles checks the task graph for cycles. A task depends on another
// when one of its inputs is the other's output.
func (g *Graph) DetectCycles() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	// Classic depth-first search with three sets of nodes:
	// permanent: fully visited and not part of a cycle.
	// temporary: on the current recursion stack.
	permanent := make(map[TaskID]bool)
	temporary := make(map[TaskID]bool)

	var visit func(id TaskID) error
	visit = func(id TaskID) error {
		if permanent[id] {
			return nil
		}
		if temporary[id] {
			return fmt.Errorf("%w involving task %d", ErrCycle, id)
		}
		temporary[id] = true

		for _, in := range g.tasks[id].Inputs {
			producer, ok := g.producers[in]
			if !ok {
				continue
			}
			if err := visit(producer); err != nil {
				return err
			}
		}

		delete(temporary, id)
		permanent[id] = true
		return nil
	}

	ids := make([]TaskID, 0, len(g.tasks))
	for id := range g.tasks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}
