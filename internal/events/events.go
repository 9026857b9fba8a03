// Package events reacts to guild member joins: one handler posts a welcome
// message, another grants the join role. They are independent; neither may
// assume the other ran.
package events

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"initial-bot/internal/config"
	"initial-bot/internal/discordtypes"
	"initial-bot/pkg/retrylimit"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// MemberJoinHandler reacts to one member joining a guild.
type MemberJoinHandler interface {
	Name() string
	HandleMemberJoin(ctx context.Context, s discordtypes.Gateway, m *discordgo.GuildMemberAdd) error
}

// ErrIgnored is returned for joins outside the configured guild.
var ErrIgnored = errors.New("join outside the configured guild")

// MemberJoinHandlers returns the handlers subscribed to member joins.
func MemberJoinHandlers(cfg *config.Config) []MemberJoinHandler {
	return []MemberJoinHandler{
		&WelcomeAnnouncer{GuildID: cfg.GuildID, ChannelID: cfg.WelcomeChannelID, Headline: cfg.WelcomeHeadline},
		&RoleGrantor{GuildID: cfg.GuildID, RoleName: cfg.JoinRoleName, Retry: RoleAddRetry},
	}
}

// RoleAddRetry retries transient REST failures when granting the join role.
var RoleAddRetry = retrylimit.Config{
	MaxAttempts:  3,
	InitialDelay: 500 * time.Millisecond,
	MaxDelay:     4 * time.Second,
	Jitter:       true,
	Retryable:    discordtypes.IsTransient,
}

// Dispatch runs h for one join, logging the outcome and recovering panics so
// the event pipeline keeps going.
func Dispatch(ctx context.Context, log zerolog.Logger, h MemberJoinHandler, s discordtypes.Gateway, m *discordgo.GuildMemberAdd) {
	if m == nil || m.Member == nil || m.User == nil {
		return
	}
	log = log.With().
		Str("handler", h.Name()).
		Str("guild", m.GuildID).
		Str("user", m.User.ID).
		Logger()

	defer func() {
		if p := recover(); p != nil {
			log.Error().Interface("panic", p).Bytes("stack", debug.Stack()).Msg("member join handler panicked")
		}
	}()

	err := h.HandleMemberJoin(ctx, s, m)
	switch {
	case err == nil:
		log.Info().Msg("member join handled")
	case errors.Is(err, ErrIgnored):
		log.Debug().Msg("member join ignored")
	case errors.Is(err, discordtypes.ErrChannelNotFound), errors.Is(err, discordtypes.ErrRoleNotFound):
		log.Warn().Err(err).Msg("member join lookup missed")
	default:
		log.Error().Err(err).Msg("member join handler failed")
	}
}

// WelcomeAnnouncer posts a welcome message in the configured channel.
type WelcomeAnnouncer struct {
	GuildID   string
	ChannelID string
	Headline  string
}

func (w *WelcomeAnnouncer) Name() string { return "welcome" }

func (w *WelcomeAnnouncer) HandleMemberJoin(ctx context.Context, s discordtypes.Gateway, m *discordgo.GuildMemberAdd) error {
	if m.GuildID != w.GuildID {
		return ErrIgnored
	}

	channel, err := discordtypes.FindTextChannel(s, w.GuildID, w.ChannelID)
	if err != nil {
		return err
	}

	if _, err := s.ChannelMessageSend(channel.ID, WelcomeMessage(w.Headline, m.User)); err != nil {
		return fmt.Errorf("send welcome to %s: %w", channel.ID, err)
	}
	return nil
}

// WelcomeMessage is the text posted for a new member.
func WelcomeMessage(headline string, u *discordgo.User) string {
	return headline + "\nWelcome " + u.Mention() + " to the server!\n"
}

// RoleGrantor adds the configured role to every new member.
type RoleGrantor struct {
	GuildID  string
	RoleName string
	Retry    retrylimit.Config
}

func (g *RoleGrantor) Name() string { return "grant-role" }

func (g *RoleGrantor) HandleMemberJoin(ctx context.Context, s discordtypes.Gateway, m *discordgo.GuildMemberAdd) error {
	if m.GuildID != g.GuildID {
		return ErrIgnored
	}

	role, err := discordtypes.FindRoleByName(s, g.GuildID, g.RoleName)
	if err != nil {
		return err
	}

	err = retrylimit.Do(ctx, g.Retry, func() error {
		return s.GuildMemberRoleAdd(g.GuildID, m.User.ID, role.ID)
	})
	if err != nil {
		return fmt.Errorf("add role %s: %w", role.Name, err)
	}
	return nil
}
