// Package builder is the declaration side of a build: the Task Registry and
// Graph Builder that turns "apply handler X to these inputs" into file
// identifiers, task records and dependency edges.
//
// # Why Builder Exists
//
// Build definitions talk in paths; the scheduler talks in compact
// identifiers. The builder owns the translation between the two:
//   - **Interning:** every input path and every output path goes through the
//     File Table, so the same file is always the same identifier.
//   - **Output namespace:** named outputs live under the build directory,
//     unnamed ones get a synthesized intermediate artifact path under a
//     private temporary directory of it.
//   - **Conflict detection:** a file can be produced by exactly one task; a
//     second declaration is rejected before it touches the graph.
//
// # Chaining
//
// Declare returns the resolved output path so it can be used directly as an
// input of a later declaration:
//
//	js, _ := b.Declare(ctx, "coffeescript", []string{"app.coffee"}, "")
//	_, _ = b.Declare(ctx, "uglify", []string{js}, "app.min.js")
//
// # Intermediate artifacts
//
// An unnamed output is named after a hash of the handler type and the inputs,
// truncated to a fixed-length hexadecimal token. The same (handler, inputs)
// pair declared twice gets two distinct artifacts: a collision with an
// already-interned path is rehashed, seeded with the previous candidate,
// until a free name is found.
package builder
