// Package scheduler drives a declared build graph to completion.
//
// # How It Works
//
// Each Run works on a private clone of the declared graph and follows a
// simple cycle:
//  1. Ask the working graph for one executable task (a leaf: none of its
//     inputs is still pending production).
//  2. If there is none but tasks remain, wait until an in-flight task
//     finishes, then ask again. If nothing is in flight either, the graph
//     can never finish (a cycle) and the run fails with ErrStalled.
//  3. Acquire one permit from the Limiter (the concurrency ceiling), mark
//     the task started, report progress and run its handler on a new
//     goroutine.
//  4. When the handler returns, check that the declared output exists,
//     remove the task from the working graph and release the permit.
//
// The loop ends when the working graph is empty.
//
// # Failures
//
//   - A task type with no registered handler is a configuration error.
//     Run checks every task before dispatching anything.
//   - A handler error, a handler panic, or a missing output marks the task
//     failed. Its permit is released, nothing new is dispatched, tasks
//     already running finish, and Run returns every TaskError joined.
//   - Graph invariant violations abort the run.
//
// # Thread-Safety
//
// Only the Run loop starts tasks. Completion runs on worker goroutines and
// mutates the working graph through its own lock. A Scheduler may be Run
// repeatedly, but not concurrently with itself.
package scheduler
