package dag

import (
	"errors"
	"sync"

	"github.com/specialistvlad/burstbuild/internal/filetable"
)

var (
	// ErrInvariant signals a scheduler bug: a task was started twice, or
	// removed while not in progress.
	ErrInvariant = errors.New("graph invariant violated")
	// ErrUnknownTask is returned for operations on a task that is not in the graph.
	ErrUnknownTask = errors.New("unknown task")
	// ErrCycle is returned by DetectCycles.
	ErrCycle = errors.New("cycle detected")
)

// TaskID identifies a declared build step.
type TaskID int

// Task is one build step: a handler type applied to ordered inputs to
// produce exactly one output.
type Task struct {
	Type   string
	Inputs []filetable.FileID
	Output filetable.FileID
	Args   []string

	inProgress bool
}

// InProgress reports whether the task has been dispatched.
func (t Task) InProgress() bool { return t.inProgress }

// Graph is the dependency graph. The zero value is not usable; use New.
type Graph struct {
	mu sync.Mutex
	// edges maps an output file to its inputs, each pointing at the task
	// producing that output. Presence of a key means "not yet produced".
	edges map[filetable.FileID]map[filetable.FileID]TaskID
	// producers maps an output file to its producing task. It is updated
	// together with edges.
	producers map[filetable.FileID]TaskID
	tasks     map[TaskID]*Task
}
