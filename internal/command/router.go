package command

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"

	"initial-bot/internal/config"
	"initial-bot/internal/discordtypes"
	"initial-bot/pkg/cmd"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Router turns chat messages into command invocations.
type Router struct {
	registry *cmd.Registry
	cfg      *config.Config
	log      zerolog.Logger
}

func NewRouter(registry *cmd.Registry, cfg *config.Config, log zerolog.Logger) *Router {
	return &Router{
		registry: registry,
		cfg:      cfg,
		log:      log.With().Str("component", "router").Logger(),
	}
}

// Match reports whether content addresses the bot, either through the
// command prefix or a leading mention of selfID, and returns the text where
// the command name begins.
func Match(content, prefix, selfID string) (string, bool) {
	if prefix != "" && strings.HasPrefix(content, prefix) {
		return content[len(prefix):], true
	}
	return discordtypes.TrimMentionPrefix(content, selfID)
}

// Dispatch handles one inbound message. It returns false when the message is
// not a command, in which case nothing was sent.
func (r *Router) Dispatch(ctx context.Context, s discordtypes.Gateway, self *discordgo.User, m *discordgo.MessageCreate) bool {
	if m == nil || m.Message == nil || m.Author == nil || self == nil {
		return false
	}
	if m.Author.ID == self.ID || m.Author.Bot {
		return false
	}

	text, ok := Match(m.Content, r.cfg.CommandPrefix, self.ID)
	if !ok {
		return false
	}

	log := r.log.With().
		Str("invocation", uuid.NewString()).
		Str("guild", m.GuildID).
		Str("channel", m.ChannelID).
		Str("user", m.Author.ID).
		Logger()

	mc := &MessageContext{
		Session:  s,
		Event:    m,
		Self:     self,
		Config:   r.cfg,
		Registry: r.registry,
		Log:      log,
	}

	c, remainder, err := r.registry.Resolve(text)
	if err == nil {
		log = log.With().Str("command", cmd.FullName(c)).Logger()
		mc.Log = log
		err = r.run(ctx, c, &cmd.Invocation{
			Remainder: remainder,
			Args:      strings.Fields(remainder),
			Data:      mc,
		})
	}

	if errors.Is(err, ErrSilent) {
		log.Debug().Err(err).Msg("command rejected without reply")
		return true
	}

	if err != nil {
		if errors.Is(err, cmd.ErrUnknownCommand) {
			log.Debug().Err(err).Msg("unknown command")
		} else {
			log.Warn().Err(err).Msg("command failed")
		}
		if rerr := mc.Reply(FailureReply(err)); rerr != nil {
			log.Error().Err(rerr).Msg("failed to send failure reply")
		}
		return true
	}

	log.Debug().Msg("command handled")
	return true
}

// run invokes c, converting a panic into ErrInternal.
func (r *Router) run(ctx context.Context, c cmd.Command, inv *cmd.Invocation) (err error) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error().
				Str("command", cmd.FullName(c)).
				Interface("panic", p).
				Bytes("stack", debug.Stack()).
				Msg("command panicked")
			err = ErrInternal
		}
	}()
	return c.Run(ctx, inv)
}

// FailureReply is the message sent back when a command cannot run.
func FailureReply(err error) string {
	return fmt.Sprintf("Error running command: %v", err)
}
