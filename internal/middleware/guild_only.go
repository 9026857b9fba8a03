package middleware

import (
	"context"

	"initial-bot/internal/command"
	"initial-bot/pkg/cmd"
)

// WithGuildOnly rejects guild-scoped commands sent in direct messages.
func WithGuildOnly() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		scoped, ok := cmd.Root(c).(command.GuildScoped)
		if !ok || !scoped.GuildOnly() {
			return c
		}
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			if mc := messageContext(inv); mc != nil && mc.GuildID() == "" {
				return command.ErrGuildOnly
			}
			return c.Run(ctx, inv)
		})
	}
}
