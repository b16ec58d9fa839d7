package builder

import (
	"context"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/specialistvlad/burstbuild/internal/ctxlog"
	"github.com/specialistvlad/burstbuild/internal/dag"
	"github.com/specialistvlad/burstbuild/internal/filetable"
)

const (
	// tokenLength is the number of hex characters kept from the artifact hash.
	tokenLength = 20
	// tmpDirName is the private subdirectory of the build directory that
	// holds intermediate artifacts.
	tmpDirName = "tmp"
)

var (
	// ErrDuplicateOutput is returned when an output already has a producing task.
	ErrDuplicateOutput = errors.New("output already has a producing task")
	// ErrSelfDependency is returned when a task lists its own output as an input.
	ErrSelfDependency = errors.New("task consumes its own output")
)

// Builder declares build steps against a File Table and a dependency graph.
// It outlives any single scheduler run.
type Builder struct {
	// mu serializes declarations so the duplicate-output check and the
	// graph insertion are atomic.
	mu       sync.Mutex
	buildDir string
	tmpDir   string
	files    *filetable.Table
	graph    *dag.Graph
	nextID   dag.TaskID
}

// New creates a Builder rooting declared outputs under buildDir.
func New(buildDir string) *Builder {
	buildDir = filetable.Normalize(buildDir)
	return &Builder{
		buildDir: buildDir,
		tmpDir:   filepath.Join(buildDir, tmpDirName),
		files:    filetable.New(),
		graph:    dag.New(),
	}
}

// BuildDir returns the root of all declared outputs.
func (b *Builder) BuildDir() string { return b.buildDir }

// TmpDir returns the directory intermediate artifacts are placed in.
func (b *Builder) TmpDir() string { return b.tmpDir }

// Files returns the File Table shared by all declarations.
func (b *Builder) Files() *filetable.Table { return b.files }

// Graph returns the declared dependency graph. Schedulers must run on a
// clone of it.
func (b *Builder) Graph() *dag.Graph { return b.graph }

// Len returns the number of declared tasks.
func (b *Builder) Len() int { return b.graph.Len() }

// Built returns the path name resolves to inside the build directory.
func (b *Builder) Built(name string) string {
	return filetable.Normalize(filepath.Join(b.buildDir, name))
}

// Declare registers a build step applying handlerType to inputs. A non-empty
// output is rooted under the build directory; an empty one gets an
// intermediate artifact path. The resolved output path is returned so it can
// be chained into later declarations.
func (b *Builder) Declare(ctx context.Context, handlerType string, inputs []string, output string, args ...string) (string, error) {
	logger := ctxlog.FromContext(ctx)
	if handlerType == "" {
		return "", errors.New("handler type is required")
	}

	normalized := make([]string, len(inputs))
	for i, in := range inputs {
		normalized[i] = filetable.Normalize(in)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	var outPath string
	if output == "" {
		outPath = b.intermediate(handlerType, normalized)
	} else {
		outPath = b.Built(output)
	}

	if id, ok := b.files.Lookup(outPath); ok {
		if producer, taken := b.graph.Producer(id); taken {
			return "", fmt.Errorf("%w: %s (task %d)", ErrDuplicateOutput, outPath, producer)
		}
	}
	for _, in := range normalized {
		if in == outPath {
			return "", fmt.Errorf("%w: %s", ErrSelfDependency, outPath)
		}
	}

	inputIDs := make([]filetable.FileID, len(normalized))
	for i, in := range normalized {
		inputIDs[i] = b.files.Intern(in)
	}
	outID := b.files.Intern(outPath)

	taskID := b.nextID
	if err := b.graph.AddTask(taskID, handlerType, outID, append([]string(nil), args...)); err != nil {
		return "", fmt.Errorf("declaring %s: %w", outPath, err)
	}
	for _, in := range inputIDs {
		if err := b.graph.AddEdge(in, outID, taskID); err != nil {
			return "", fmt.Errorf("declaring %s: %w", outPath, err)
		}
	}
	b.nextID++

	logger.Debug("Declared build step.", "task", taskID, "type", handlerType, "inputs", normalized, "output", outPath)
	return outPath, nil
}

// intermediate derives a free artifact path for an unnamed output. Callers
// must hold b.mu.
func (b *Builder) intermediate(handlerType string, inputs []string) string {
	seed := handlerType + fmt.Sprint(inputs)

	sum := sha512.Sum512([]byte(seed))
	candidate := filepath.Join(b.tmpDir, hex.EncodeToString(sum[:])[:tokenLength])
	for {
		if _, taken := b.files.Lookup(candidate); !taken {
			return candidate
		}
		resum := sha256.Sum224([]byte(candidate + seed))
		candidate = filepath.Join(b.tmpDir, hex.EncodeToString(resum[:])[:tokenLength])
	}
}
