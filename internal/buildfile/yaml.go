package buildfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/specialistvlad/burstbuild/internal/ctxlog"
	"gopkg.in/yaml.v3"
)

// YAMLLoader loads build definitions from YAML files.
type YAMLLoader struct{}

// NewYAMLLoader creates a new YAML build definition loader.
func NewYAMLLoader() *YAMLLoader {
	return &YAMLLoader{}
}

type yamlFile struct {
	Handlers map[string]yamlHandler `yaml:"handlers"`
	Builds   []yamlBuild            `yaml:"builds"`
}

type yamlHandler struct {
	Command []string `yaml:"command"`
	Stdin   bool     `yaml:"stdin"`
	Workdir string   `yaml:"workdir"`
}

type yamlBuild struct {
	Type   string   `yaml:"type"`
	Name   string   `yaml:"name"`
	Inputs []string `yaml:"inputs"`
	Glob   []string `yaml:"glob"`
	From   []string `yaml:"from"`
	Output string   `yaml:"output"`
	Each   bool     `yaml:"each"`
	Args   []string `yaml:"args"`
}

// Load reads each file in paths, in the order given, into one Model.
func (l *YAMLLoader) Load(ctx context.Context, paths ...string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)
	model := &Model{}

	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening build file: %w", err)
		}
		var doc yamlFile
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		err = dec.Decode(&doc)
		f.Close()
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode YAML file %s: %w", path, err)
		}

		types := make([]string, 0, len(doc.Handlers))
		for typ := range doc.Handlers {
			types = append(types, typ)
		}
		sort.Strings(types)
		for _, typ := range types {
			h := doc.Handlers[typ]
			model.Handlers = append(model.Handlers, &HandlerDef{
				Type:    typ,
				Command: h.Command,
				Stdin:   h.Stdin,
				Workdir: h.Workdir,
			})
		}

		for _, b := range doc.Builds {
			build := &Build{
				Type:   b.Type,
				Name:   b.Name,
				Inputs: &yamlInputs{paths: b.Inputs, globs: b.Glob, from: b.From},
				Each:   b.Each,
			}
			if b.Output != "" {
				build.Output = Literal(b.Output)
			}
			if len(b.Args) > 0 {
				build.Args = Literals(b.Args)
			}
			model.Builds = append(model.Builds, build)
		}
	}

	logger.Debug("YAML loading complete.", "handlers", len(model.Handlers), "builds", len(model.Builds))
	return model, nil
}

// yamlInputs concatenates literal paths, glob matches and earlier outputs,
// in that order.
type yamlInputs struct {
	paths []string
	globs []string
	from  []string
}

func (in *yamlInputs) Resolve(_ context.Context, scope *Scope) ([]string, error) {
	out := append([]string(nil), in.paths...)
	for _, pattern := range in.globs {
		matches, err := scope.Glob(pattern)
		if err != nil {
			return nil, err
		}
		out = append(out, matches...)
	}
	for _, name := range in.from {
		paths, ok := scope.Outputs(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown build %q in from (it must be declared earlier)", ErrInvalid, name)
		}
		out = append(out, paths...)
	}
	return out, nil
}
