// Package command implements a declarative command registry and the
// dispatcher that routes an argument vector to exactly one leaf command.
//
// A Spec is either a leaf, which binds positional arguments and runs, or a
// parent, which owns a child Registry and routes on the next token. Parents
// never run on their own.
package command
