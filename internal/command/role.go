package command

import (
	"context"
	"fmt"

	"initial-bot/internal/discordtypes"
	"initial-bot/pkg/cmd"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"
)

// RoleCommand grants the configured join role to a mentioned member.
type RoleCommand struct{}

func (c *RoleCommand) Name() string        { return "role" }
func (c *RoleCommand) Description() string { return "Adds the join role to a user." }
func (c *RoleCommand) Usage() string       { return "<@user>" }
func (c *RoleCommand) GuildOnly() bool     { return true }

func (c *RoleCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, err := FromInvocation(inv)
	if err != nil {
		return err
	}

	arg, err := exactlyOne(inv.Args)
	if err != nil {
		return err
	}

	// The target must be in the message's mention list; a mention prefix
	// addressing the bot is not a target.
	userID, _ := discordtypes.ParseUserMention(arg)
	target, ok := lo.Find(mc.Event.Mentions, func(u *discordgo.User) bool {
		return u != nil && u.ID == userID
	})
	if !ok {
		return ErrMentionRequired
	}

	guildID := mc.GuildID()
	if _, err := mc.Session.GuildMember(guildID, target.ID); err != nil {
		return fmt.Errorf("%w: %s is not a member of this server", ErrUserNotFound, target.Mention())
	}

	role, err := discordtypes.FindRoleByName(mc.Session, guildID, mc.Config.JoinRoleName)
	if err != nil {
		return err
	}

	if err := mc.Session.GuildMemberRoleAdd(guildID, target.ID, role.ID); err != nil {
		return fmt.Errorf("add role %s to %s: %w", role.Name, target.Username, err)
	}

	return mc.Reply(fmt.Sprintf("Added role **%s** to %s.", role.Name, target.Mention()))
}
