package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/burstbuild/internal/ctxlog"
)

// ErrCommandFailed wraps every failure of an external command.
var ErrCommandFailed = errors.New("command failed")

const (
	placeholderInput  = "{input}"
	placeholderInputs = "{inputs}"
	placeholderOutput = "{output}"
	placeholderArgs   = "{args}"

	// WorkdirInput runs the command in the first input's directory.
	WorkdirInput = "input"
)

// Command runs an external program for a task.
//
// Argv entries may contain {input} (first input) and {output}. An entry that
// is exactly {inputs} or {args} expands to all inputs or all declared args.
// When no entry mentions {output}, the program's stdout becomes the output.
type Command struct {
	Argv    []string
	Stdin   bool
	Workdir string
}

// Handle implements Handler.
func (c *Command) Handle(ctx context.Context, job Job) error {
	if len(c.Argv) == 0 {
		return fmt.Errorf("%w: empty command for %s", ErrCommandFailed, job.Type)
	}
	if (c.Stdin || c.Workdir == WorkdirInput || c.mentions(placeholderInput)) && len(job.Inputs) == 0 {
		return fmt.Errorf("%w: %s needs at least one input", ErrCommandFailed, job.Type)
	}

	output := job.Output
	expanded := job
	var dir string
	if c.Workdir == WorkdirInput {
		dir = filepath.Dir(job.Inputs[0])
		rebased, err := rebase(dir, job.Inputs)
		if err != nil {
			return fmt.Errorf("%w: resolving inputs: %v", ErrCommandFailed, err)
		}
		expanded.Inputs = rebased
		if output, err = filepath.Abs(output); err != nil {
			return fmt.Errorf("%w: resolving output: %v", ErrCommandFailed, err)
		}
	} else if c.Workdir != "" {
		return fmt.Errorf("%w: unknown workdir %q", ErrCommandFailed, c.Workdir)
	}

	var first string
	if len(expanded.Inputs) > 0 {
		first = expanded.Inputs[0]
	}
	argv := c.expand(expanded, first, output)
	if len(argv) == 0 {
		return fmt.Errorf("%w: command for %s expanded to nothing", ErrCommandFailed, job.Type)
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if c.Stdin {
		in, err := os.Open(job.Inputs[0])
		if err != nil {
			return fmt.Errorf("%w: opening stdin: %v", ErrCommandFailed, err)
		}
		defer in.Close()
		cmd.Stdin = in
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Running command.", "argv", argv, "dir", dir)

	if c.mentions(placeholderOutput) {
		if err := cmd.Run(); err != nil {
			return commandError(argv[0], err, &stderr)
		}
		return nil
	}

	return writeOutput(job.Output, func(w io.Writer) error {
		cmd.Stdout = w
		if err := cmd.Run(); err != nil {
			return commandError(argv[0], err, &stderr)
		}
		return nil
	})
}

// rebase makes every path relative to dir.
func rebase(dir string, paths []string) ([]string, error) {
	base, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(paths))
	for i, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		if out[i], err = filepath.Rel(base, abs); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (c *Command) mentions(placeholder string) bool {
	for _, arg := range c.Argv {
		if strings.Contains(arg, placeholder) {
			return true
		}
	}
	return false
}

func (c *Command) expand(job Job, input, output string) []string {
	r := strings.NewReplacer(placeholderInput, input, placeholderOutput, output)
	argv := make([]string, 0, len(c.Argv)+len(job.Inputs)+len(job.Args))
	for _, arg := range c.Argv {
		switch arg {
		case placeholderInputs:
			argv = append(argv, job.Inputs...)
		case placeholderArgs:
			argv = append(argv, job.Args...)
		default:
			argv = append(argv, r.Replace(arg))
		}
	}
	return argv
}

func commandError(name string, err error, stderr *bytes.Buffer) error {
	msg := strings.TrimSpace(stderr.String())
	if msg == "" {
		return fmt.Errorf("%w: %s: %v", ErrCommandFailed, name, err)
	}
	return fmt.Errorf("%w: %s: %v: %s", ErrCommandFailed, name, err, msg)
}
