package app

import (
	"fmt"

	"github.com/specialistvlad/burstbuild/internal/buildfile"
	"github.com/specialistvlad/burstbuild/internal/handlers"
	"github.com/specialistvlad/burstbuild/modules/env_vars"
	"github.com/specialistvlad/burstbuild/modules/print"
)

// coreModules is the list of handler modules compiled into the burstbuild
// binary.
var coreModules = []handlers.Module{
	handlers.Builtins{},
	&env_vars.Module{},
	&print.Module{},
}

// commandModule registers the external-command handlers a build definition
// declares.
type commandModule struct {
	defs []*buildfile.HandlerDef
}

// Register panics if a definition reuses a type that is already registered.
func (m commandModule) Register(r *handlers.Registry) {
	for _, def := range m.defs {
		if r.Has(def.Type) {
			panic(fmt.Errorf("handler %q defined in the build file conflicts with a built-in handler", def.Type))
		}
		r.RegisterHandler(def.Type, &handlers.Command{
			Argv:    def.Command,
			Stdin:   def.Stdin,
			Workdir: def.Workdir,
		})
	}
}
