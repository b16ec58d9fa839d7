package buildfile

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/burstbuild/internal/ctxlog"
	"github.com/specialistvlad/burstbuild/internal/fsutil"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// HCLLoader loads build definitions from .hcl files.
type HCLLoader struct{}

// NewHCLLoader creates a new HCL build definition loader.
func NewHCLLoader() *HCLLoader {
	return &HCLLoader{}
}

// hclRoot decodes all top-level blocks of a single file.
type hclRoot struct {
	Handlers []*hclHandler `hcl:"handler,block"`
	Builds   []*hclBuild   `hcl:"build,block"`
}

type hclHandler struct {
	Type    string   `hcl:"type,label"`
	Command []string `hcl:"command"`
	Stdin   bool     `hcl:"stdin,optional"`
	Workdir string   `hcl:"workdir,optional"`
}

// hclBuild keeps expressions undecoded: they reference earlier outputs and
// the build dir, which are only known at declaration time. Absent attributes
// decode to nil.
type hclBuild struct {
	Type   string         `hcl:"type,label"`
	Name   string         `hcl:"name,label"`
	Inputs *hcl.Attribute `hcl:"inputs"`
	Output *hcl.Attribute `hcl:"output"`
	Each   bool           `hcl:"each,optional"`
	Args   *hcl.Attribute `hcl:"args"`
}

// Load parses every .hcl file under paths, in lexical order, into one Model.
func (l *HCLLoader) Load(ctx context.Context, paths ...string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl build files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	model := &Model{}
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root hclRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, h := range root.Handlers {
			model.Handlers = append(model.Handlers, &HandlerDef{
				Type:    h.Type,
				Command: h.Command,
				Stdin:   h.Stdin,
				Workdir: h.Workdir,
			})
		}
		for _, b := range root.Builds {
			build := &Build{Type: b.Type, Name: b.Name, Each: b.Each}
			if b.Inputs != nil {
				build.Inputs = &hclList{attr: b.Inputs.Name, expr: b.Inputs.Expr}
			}
			if b.Output != nil {
				build.Output = &hclString{attr: b.Output.Name, expr: b.Output.Expr}
			}
			if b.Args != nil {
				build.Args = &hclList{attr: b.Args.Name, expr: b.Args.Expr}
			}
			model.Builds = append(model.Builds, build)
		}
	}

	logger.Debug("HCL loading complete.", "handlers", len(model.Handlers), "builds", len(model.Builds))
	return model, nil
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl files found.
func (l *HCLLoader) findAllHCLFiles(paths []string) ([]string, error) {
	var all []string
	seen := make(map[string]struct{})

	for _, path := range paths {
		files, err := fsutil.FindFiles(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		for _, f := range files {
			if _, ok := seen[f]; !ok {
				all = append(all, f)
				seen[f] = struct{}{}
			}
		}
	}
	return all, nil
}

// hclList evaluates a list-of-strings attribute against the current Scope.
type hclList struct {
	attr string
	expr hcl.Expression
}

func (l *hclList) Resolve(_ context.Context, scope *Scope) ([]string, error) {
	val, diags := l.expr.Value(evalContext(scope))
	if diags.HasErrors() {
		return nil, fmt.Errorf("evaluating %s: %w", l.attr, diags)
	}
	if val.IsNull() {
		return nil, fmt.Errorf("%w: %s evaluated to null at %s", ErrInvalid, l.attr, l.expr.Range())
	}

	list, err := convert.Convert(val, cty.List(cty.String))
	if err != nil {
		return nil, fmt.Errorf("%w: %s at %s must be a list of strings: %v", ErrInvalid, l.attr, l.expr.Range(), err)
	}
	if !list.IsWhollyKnown() {
		return nil, fmt.Errorf("%w: %s at %s are not known", ErrInvalid, l.attr, l.expr.Range())
	}
	if list.LengthInt() == 0 {
		return nil, nil
	}

	var values []string
	if err := gocty.FromCtyValue(list, &values); err != nil {
		return nil, fmt.Errorf("%w: %s at %s: %v", ErrInvalid, l.attr, l.expr.Range(), err)
	}
	return values, nil
}

// hclString evaluates a string attribute against the current Scope. Null
// means unset.
type hclString struct {
	attr string
	expr hcl.Expression
}

func (s *hclString) Resolve(_ context.Context, scope *Scope) (string, error) {
	val, diags := s.expr.Value(evalContext(scope))
	if diags.HasErrors() {
		return "", fmt.Errorf("evaluating %s: %w", s.attr, diags)
	}
	if val.IsNull() {
		return "", nil
	}
	str, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("%w: %s at %s must be a string: %v", ErrInvalid, s.attr, s.expr.Range(), err)
	}
	if !str.IsKnown() || str.IsNull() {
		return "", fmt.Errorf("%w: %s at %s is not known", ErrInvalid, s.attr, s.expr.Range())
	}
	return str.AsString(), nil
}

func evalContext(scope *Scope) *hcl.EvalContext {
	outputs := make(map[string]cty.Value)
	for _, name := range scope.Names() {
		paths, _ := scope.Outputs(name)
		outputs[name] = stringList(paths)
	}
	outputsVal := cty.EmptyObjectVal
	if len(outputs) > 0 {
		outputsVal = cty.ObjectVal(outputs)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"outputs":   outputsVal,
			"build_dir": cty.StringVal(scope.BuildDir),
		},
		Functions: functions(scope),
	}
}
