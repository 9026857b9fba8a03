package command

import (
	"context"
	"fmt"
	"strings"

	"initial-bot/pkg/cmd"

	"github.com/samber/lo"
)

// HelpCommand lists the registered commands.
type HelpCommand struct{}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Description() string { return "Lists the available commands." }

func (c *HelpCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, err := FromInvocation(inv)
	if err != nil {
		return err
	}
	if mc.Registry == nil {
		return fmt.Errorf("%w: no command registry", ErrInternal)
	}
	return mc.Reply(HelpText(mc.Registry, mc.Config.CommandPrefix))
}

// HelpText renders one line per command with its usage, aliases and description.
func HelpText(r *cmd.Registry, prefix string) string {
	lines := lo.Map(r.GetAll(), func(c cmd.Command, _ int) string {
		line := "`" + prefix + InvocationLine(c) + "`"
		if aliases := cmd.AliasesOf(c); len(aliases) > 0 {
			line += " (aliases: " + strings.Join(aliases, ", ") + ")"
		}
		return line + " - " + c.Description()
	})
	return "**Commands**\n" + strings.Join(lines, "\n")
}

// InvocationLine is the full command name followed by its usage, if any.
func InvocationLine(c cmd.Command) string {
	if u := cmd.UsageOf(c); u != "" {
		return cmd.FullName(c) + " " + u
	}
	return cmd.FullName(c)
}
