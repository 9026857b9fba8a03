package command

import "initial-bot/pkg/cmd"

// Commands is the static command table. Order is irrelevant; the registry
// sorts for display.
func Commands() []cmd.Command {
	return []cmd.Command{
		&SayCommand{},
		&RolesCommand{},
		&RoleCommand{},
		&SquareCommand{},
		&UserInfoCommand{},
		&HelpCommand{},
	}
}

// NewRegistry registers every command in the table, each wrapped with mws.
func NewRegistry(mws ...cmd.Middleware) *cmd.Registry {
	r := cmd.NewRegistry()
	for _, c := range Commands() {
		r.MustRegister(cmd.Apply(c, mws...))
	}
	return r
}
