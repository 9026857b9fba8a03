// Package cmd provides a transport-agnostic command core: a command is something
// with a name, description, and Run(ctx, invocation). How it is dispatched
// (chat message, CLI) is defined by adapters that wrap this.
package cmd

import "context"

// Invocation carries the minimal input any command runner can pass: the raw
// remainder after the command name, its whitespace-split arguments, and an
// opaque payload. Adapters set Data to their own context.
type Invocation struct {
	Remainder string
	Args      []string
	Data      interface{}
}

// Command is the universal contract: identity plus execution.
type Command interface {
	Name() string
	Description() string
	Run(ctx context.Context, inv *Invocation) error
}

// Grouped is implemented by commands that live under a group prefix,
// e.g. "sample square".
type Grouped interface {
	Group() string
}

// Aliased is implemented by commands reachable under more than one name.
type Aliased interface {
	Aliases() []string
}

// Usage is implemented by commands that document their arguments.
type Usage interface {
	Usage() string
}
