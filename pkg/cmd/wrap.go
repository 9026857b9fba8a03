package cmd

import "context"

// Unwrappable is implemented by wrapped commands so adapters can reach the
// underlying command (e.g. to read its group, aliases or usage).
type Unwrappable interface {
	Command
	Unwrap() Command
}

// Wrapped wraps a command with a custom Run. Used by middleware.
type Wrapped struct {
	Inner   Command
	RunFunc func(ctx context.Context, inv *Invocation) error
}

// Name delegates to the inner command.
func (w *Wrapped) Name() string { return w.Inner.Name() }

// Description delegates to the inner command.
func (w *Wrapped) Description() string { return w.Inner.Description() }

// Run runs the wrapper's RunFunc.
func (w *Wrapped) Run(ctx context.Context, inv *Invocation) error {
	if w.RunFunc != nil {
		return w.RunFunc(ctx, inv)
	}
	return w.Inner.Run(ctx, inv)
}

// Unwrap returns the inner command.
func (w *Wrapped) Unwrap() Command { return w.Inner }

// Wrap returns a command that runs run instead of c.Run, delegating Name/Description to c.
func Wrap(c Command, run func(ctx context.Context, inv *Invocation) error) Command {
	return &Wrapped{Inner: c, RunFunc: run}
}

// Root unwraps a command until the underlying command is not Unwrappable.
func Root(c Command) Command {
	for {
		if u, ok := c.(Unwrappable); ok {
			c = u.Unwrap()
		} else {
			return c
		}
	}
}

// GroupOf returns the group of c's root command, or "".
func GroupOf(c Command) string {
	if g, ok := Root(c).(Grouped); ok {
		return g.Group()
	}
	return ""
}

// AliasesOf returns the aliases of c's root command.
func AliasesOf(c Command) []string {
	if a, ok := Root(c).(Aliased); ok {
		return a.Aliases()
	}
	return nil
}

// UsageOf returns the usage line of c's root command, or "".
func UsageOf(c Command) string {
	if u, ok := Root(c).(Usage); ok {
		return u.Usage()
	}
	return ""
}

// FullName returns the name including the group prefix, e.g. "sample square".
func FullName(c Command) string {
	if g := GroupOf(c); g != "" {
		return g + " " + c.Name()
	}
	return c.Name()
}
