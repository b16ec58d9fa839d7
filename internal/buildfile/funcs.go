package buildfile

import (
	"path/filepath"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"github.com/zclconf/go-cty/cty/gocty"
)

// functions returns the functions available to input expressions.
func functions(scope *Scope) map[string]function.Function {
	return map[string]function.Function{
		"glob":       globFunc(scope),
		"built":      builtFunc(scope),
		"change_ext": changeExtFunc,
		"append_ext": appendExtFunc,
		"concat":     stdlib.ConcatFunc,
	}
}

func globFunc(scope *Scope) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{{Name: "pattern", Type: cty.String}},
		Type:   function.StaticReturnType(cty.List(cty.String)),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			files, err := scope.Glob(args[0].AsString())
			if err != nil {
				return cty.NilVal, err
			}
			return stringList(files), nil
		},
	})
}

func builtFunc(scope *Scope) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{{Name: "name", Type: cty.String}},
		Type:   function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			return cty.StringVal(scope.Built(args[0].AsString())), nil
		},
	})
}

var changeExtFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "path", Type: cty.String},
		{Name: "ext", Type: cty.String},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		return cty.StringVal(ChangeExt(args[0].AsString(), args[1].AsString())), nil
	},
})

var appendExtFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "path", Type: cty.String},
		{Name: "ext", Type: cty.String},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		return cty.StringVal(AppendExt(args[0].AsString(), args[1].AsString())), nil
	},
})

// ChangeExt replaces the extension of path with ext. A missing leading dot
// is added.
func ChangeExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + dotted(ext)
}

// AppendExt adds ext after the existing extension of path.
func AppendExt(path, ext string) string {
	return path + dotted(ext)
}

func dotted(ext string) string {
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}

func stringList(paths []string) cty.Value {
	if len(paths) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	val, err := gocty.ToCtyValue(paths, cty.List(cty.String))
	if err != nil {
		// []string always converts to list(string).
		panic(err)
	}
	return val
}
