package middleware

import (
	"context"
	"time"

	"initial-bot/internal/storage"
	"initial-bot/pkg/cmd"
)

// HistoryRecorder persists executed commands. *storage.Storage implements it.
type HistoryRecorder interface {
	AppendCommandToHistory(guildID string, record storage.CommandHistoryRecord) error
}

// WithCommandLogger wraps a command to log its execution and record it in
// the guild's command history.
func WithCommandLogger(history HistoryRecorder) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			start := time.Now()
			err := c.Run(ctx, inv)

			mc := messageContext(inv)
			if mc == nil {
				return err
			}

			ev := mc.Log.Info()
			if err != nil {
				ev = mc.Log.Warn().Err(err)
			}
			ev.Dur("took", time.Since(start)).Msg("command executed")

			if history == nil || mc.Event.Author == nil {
				return err
			}
			rec := storage.CommandHistoryRecord{
				GuildID:   mc.Event.GuildID,
				ChannelID: mc.Event.ChannelID,
				UserID:    mc.Event.Author.ID,
				Username:  mc.Event.Author.Username,
				Command:   cmd.FullName(c),
				Param:     inv.Remainder,
				Failed:    err != nil,
				Datetime:  start.UTC(),
			}
			if e := history.AppendCommandToHistory(mc.Event.GuildID, rec); e != nil {
				mc.Log.Warn().Err(e).Msg("failed to record command history")
			}
			return err
		})
	}
}
