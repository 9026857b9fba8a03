package cmd

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

var (
	ErrUnknownCommand   = errors.New("unknown command")
	ErrDuplicateCommand = errors.New("duplicate command")
)

// Registry stores commands by lower-cased name, alias and group. It does not
// perform dispatch; adapters resolve a command and invoke it with their own
// context. A Registry is built once at startup and is read-only afterwards.
type Registry struct {
	commands map[string]Command
	groups   map[string]bool
	ordered  []Command
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
		groups:   make(map[string]bool),
	}
}

// Register adds a command under its name and every alias, scoped by group.
func (r *Registry) Register(c Command) error {
	group := strings.ToLower(GroupOf(c))
	names := append([]string{c.Name()}, AliasesOf(c)...)
	for _, n := range names {
		key := registryKey(group, n)
		if _, exists := r.commands[key]; exists {
			return fmt.Errorf("%w: %q", ErrDuplicateCommand, key)
		}
	}
	for _, n := range names {
		r.commands[registryKey(group, n)] = c
	}
	if group != "" {
		r.groups[group] = true
	}
	r.ordered = append(r.ordered, c)
	return nil
}

// MustRegister is Register for static tables; it panics on duplicates.
func (r *Registry) MustRegister(cmds ...Command) *Registry {
	for _, c := range cmds {
		if err := r.Register(c); err != nil {
			panic(err)
		}
	}
	return r
}

// Get returns the command with the given name in group, or nil.
func (r *Registry) Get(group, name string) Command {
	return r.commands[registryKey(strings.ToLower(group), name)]
}

// Resolve finds the command text starts with. Text is expected to begin with
// the command name; a leading group token selects the next token inside that
// group. It returns the command and the verbatim remainder after the
// consumed tokens, leading whitespace trimmed.
func (r *Registry) Resolve(text string) (Command, string, error) {
	first, rest := nextToken(text)
	if first == "" {
		return nil, "", ErrUnknownCommand
	}

	if c, ok := r.commands[registryKey("", first)]; ok {
		return c, rest, nil
	}

	group := strings.ToLower(first)
	if r.groups[group] {
		second, rest2 := nextToken(rest)
		if c, ok := r.commands[registryKey(group, second)]; ok && second != "" {
			return c, rest2, nil
		}
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownCommand, strings.TrimSpace(first+" "+second))
	}

	return nil, "", fmt.Errorf("%w: %q", ErrUnknownCommand, first)
}

// GetAll returns all registered commands, sorted by full name.
func (r *Registry) GetAll() []Command {
	list := make([]Command, len(r.ordered))
	copy(list, r.ordered)
	sort.Slice(list, func(i, j int) bool {
		return FullName(list[i]) < FullName(list[j])
	})
	return list
}

func registryKey(group, name string) string {
	name = strings.ToLower(name)
	if group == "" {
		return name
	}
	return group + " " + name
}

// nextToken splits the first whitespace-delimited token off s.
func nextToken(s string) (string, string) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := strings.IndexFunc(s, unicode.IsSpace)
	if end < 0 {
		return s, ""
	}
	return s[:end], strings.TrimLeftFunc(s[end:], unicode.IsSpace)
}
