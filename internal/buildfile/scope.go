package buildfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar"
	lru "github.com/hashicorp/golang-lru/v2"
)

const globCacheSize = 256

// Scope is what input expressions can see: the build directory and the
// outputs of every step declared so far.
type Scope struct {
	BuildDir string

	outputs map[string][]string
	globs   *lru.Cache[string, []string]
}

// NewScope creates an empty Scope rooted at buildDir.
func NewScope(buildDir string) *Scope {
	globs, err := lru.New[string, []string](globCacheSize)
	if err != nil {
		// Only a non-positive size fails.
		panic(err)
	}
	return &Scope{
		BuildDir: filepath.Clean(buildDir),
		outputs:  make(map[string][]string),
		globs:    globs,
	}
}

// SetOutputs records the output paths of the named step.
func (s *Scope) SetOutputs(name string, paths []string) {
	s.outputs[name] = append([]string(nil), paths...)
}

// Outputs returns the output paths of the named step.
func (s *Scope) Outputs(name string) ([]string, bool) {
	paths, ok := s.outputs[name]
	return paths, ok
}

// Names returns the names of all steps declared so far, sorted.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.outputs))
	for name := range s.outputs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Built returns the path name resolves to inside the build directory.
func (s *Scope) Built(name string) string {
	return filepath.Clean(filepath.Join(s.BuildDir, name))
}

// Glob expands a doublestar pattern to the sorted list of matching regular
// files. Results are memoized per pattern.
func (s *Scope) Glob(pattern string) ([]string, error) {
	if cached, ok := s.globs.Get(pattern); ok {
		return append([]string(nil), cached...), nil
	}

	matches, err := doublestar.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	files := make([]string, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, filepath.Clean(m))
	}
	sort.Strings(files)

	s.globs.Add(pattern, files)
	return append([]string(nil), files...), nil
}
