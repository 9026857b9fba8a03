// Package middleware holds the cmd.Middleware wrappers the bot applies to
// every message command.
package middleware

import (
	"initial-bot/internal/command"
	"initial-bot/pkg/cmd"
)

// messageContext returns the message context of inv, or nil when the
// invocation did not come from a chat message.
func messageContext(inv *cmd.Invocation) *command.MessageContext {
	mc, err := command.FromInvocation(inv)
	if err != nil {
		return nil
	}
	return mc
}
