// Package buildfile loads build definitions and turns them into declared
// tasks.
//
// A build definition lists external-command handlers and build steps. Two
// formats are understood, HCL and YAML, and both are translated into the
// same format-agnostic Model. A Model is then replayed, step by step and in
// declaration order, against a Declarer (in practice a *builder.Builder).
//
// Inputs are evaluated late: a step may reference the outputs of any step
// declared before it, so its input list is only known once those steps have
// been declared. InputSource captures that.
package buildfile
