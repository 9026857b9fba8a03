package command

import (
	"context"
	"strings"

	"initial-bot/pkg/cmd"
)

// SayCommand echoes its text back to the channel.
type SayCommand struct{}

func (c *SayCommand) Name() string        { return "say" }
func (c *SayCommand) Description() string { return "Echoes a message." }
func (c *SayCommand) Usage() string       { return "<text>" }

func (c *SayCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, err := FromInvocation(inv)
	if err != nil {
		return err
	}
	if strings.TrimSpace(inv.Remainder) == "" {
		return ErrTooFewArguments
	}
	return mc.Reply(inv.Remainder)
}
