package testutil

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/specialistvlad/burstbuild/internal/handlers"
)

// SleeperModule is a shared, self-contained module for concurrency tests.
// Its "sleeper" handler sleeps, writes its output and records the execution
// time of each task keyed by output path.
type SleeperModule struct {
	ExecutionTimes map[string]*ExecutionRecord
	mu             sync.Mutex
	sleepDuration  time.Duration
	running        int
	peak           int
}

// NewSleeperModule creates a new sleeper module for testing.
func NewSleeperModule(sleep time.Duration) *SleeperModule {
	return &SleeperModule{
		ExecutionTimes: make(map[string]*ExecutionRecord),
		sleepDuration:  sleep,
	}
}

// Register registers the "sleeper" handler.
func (m *SleeperModule) Register(r *handlers.Registry) {
	r.RegisterHandler("sleeper", handlers.HandlerFunc(m.handle))
}

func (m *SleeperModule) handle(ctx context.Context, job handlers.Job) error {
	m.mu.Lock()
	m.running++
	if m.running > m.peak {
		m.peak = m.running
	}
	m.mu.Unlock()

	start := time.Now()
	select {
	case <-time.After(m.sleepDuration):
	case <-ctx.Done():
	}
	end := time.Now()

	m.mu.Lock()
	m.running--
	m.ExecutionTimes[job.Output] = &ExecutionRecord{Start: start, End: end}
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return os.WriteFile(job.Output, []byte(job.Type), 0o644)
}

// Record returns the execution record of the task that produced output.
func (m *SleeperModule) Record(output string) (*ExecutionRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.ExecutionTimes[output]
	return rec, ok
}

// Peak returns the highest number of sleeper tasks observed running at once.
func (m *SleeperModule) Peak() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.peak
}
