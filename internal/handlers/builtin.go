package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/specialistvlad/burstbuild/internal/ctxlog"
)

// Builtins registers the handlers that need no external program.
type Builtins struct{}

// Register registers "concat" and "copy".
func (Builtins) Register(r *Registry) {
	r.RegisterHandler("concat", HandlerFunc(Concat))
	r.RegisterHandler("copy", HandlerFunc(Copy))
}

// Concat writes the bytes of every input, in order, to the output.
func Concat(ctx context.Context, job Job) error {
	ctxlog.FromContext(ctx).Debug("Concatenating files.", "inputs", len(job.Inputs), "output", job.Output)
	return writeOutput(job.Output, func(w io.Writer) error {
		for _, in := range job.Inputs {
			if err := appendFile(w, in); err != nil {
				return err
			}
		}
		return nil
	})
}

// Copy copies the single input to the output.
func Copy(ctx context.Context, job Job) error {
	if len(job.Inputs) != 1 {
		return fmt.Errorf("copy expects exactly one input, got %d", len(job.Inputs))
	}
	ctxlog.FromContext(ctx).Debug("Copying file.", "input", job.Inputs[0], "output", job.Output)
	return writeOutput(job.Output, func(w io.Writer) error {
		return appendFile(w, job.Inputs[0])
	})
}

func appendFile(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}

// writeOutput creates path, lets fill write it, and removes the partial file
// if anything fails.
func writeOutput(path string, fill func(w io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing output: %w", cerr)
		}
		if err != nil {
			err = errors.Join(err, removeIfExists(path))
		}
	}()
	return fill(f)
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
