package scheduler

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/burstbuild/internal/dag"
)

var (
	// ErrNoHandler is returned when a task's type has no registered handler.
	ErrNoHandler = errors.New("no handler registered")
	// ErrStalled is returned when tasks remain but none can ever run.
	ErrStalled = errors.New("build stalled")
	// ErrOutputMissing is returned when a handler succeeded without producing its output.
	ErrOutputMissing = errors.New("declared output missing after handler completed")
)

// TaskError reports a failed task.
type TaskError struct {
	Task   dag.TaskID
	Type   string
	Output string
	Err    error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %d (%s > %s): %v", e.Task, e.Type, e.Output, e.Err)
}

func (e *TaskError) Unwrap() error { return e.Err }
