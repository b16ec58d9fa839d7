// Package progress renders the one-line-per-dispatch progress output.
package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Event describes one dispatched task.
type Event struct {
	Total     int
	Remaining int
	Type      string
	Inputs    []string
	Output    string
}

// Percent returns the share of tasks already completed, truncated.
func (e Event) Percent() int {
	if e.Total <= 0 {
		return 100
	}
	return 100 * (e.Total - e.Remaining) / e.Total
}

// Reporter writes progress lines to an io.Writer. It is safe for concurrent use.
type Reporter struct {
	mu      sync.Mutex
	out     io.Writer
	percent *color.Color
	kind    *color.Color
	arrow   *color.Color
}

// NewReporter creates a Reporter. When colored is false no escape sequences
// are written regardless of the terminal.
func NewReporter(out io.Writer, colored bool) *Reporter {
	r := &Reporter{
		out:     out,
		percent: color.New(color.FgGreen, color.Bold),
		kind:    color.New(color.FgCyan),
		arrow:   color.New(color.FgYellow),
	}
	if colored {
		r.percent.EnableColor()
		r.kind.EnableColor()
		r.arrow.EnableColor()
	} else {
		r.percent.DisableColor()
		r.kind.DisableColor()
		r.arrow.DisableColor()
	}
	return r
}

// Report writes the line for e:
//
//	<percent>%| <taskType> <joined input paths> > <output path>
func (r *Reporter) Report(e Event) {
	line := fmt.Sprintf("%s| %s %-35s %s %s\n",
		r.percent.Sprintf("%3d%%", e.Percent()),
		r.kind.Sprintf("%12s", e.Type),
		strings.Join(e.Inputs, ", "),
		r.arrow.Sprint(">"),
		e.Output,
	)

	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = io.WriteString(r.out, line)
}
