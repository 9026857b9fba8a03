package command

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"initial-bot/internal/discordtypes"
	"initial-bot/pkg/cmd"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"
)

// RolesCommand lists every role a guild member holds.
type RolesCommand struct{}

func (c *RolesCommand) Name() string        { return "roles" }
func (c *RolesCommand) Description() string { return "Prints all roles of a user." }
func (c *RolesCommand) Usage() string       { return "<@user>" }
func (c *RolesCommand) GuildOnly() bool     { return true }

func (c *RolesCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, err := FromInvocation(inv)
	if err != nil {
		return err
	}

	arg, err := exactlyOne(inv.Args)
	if err != nil {
		return err
	}

	userID, ok := discordtypes.ParseUserMention(arg)
	if !ok {
		return ErrMentionRequired
	}

	member, err := mc.Session.GuildMember(mc.GuildID(), userID)
	if err != nil || member == nil || member.User == nil {
		return fmt.Errorf("%w: %s is not a member of this server", ErrUserNotFound, arg)
	}

	guildRoles, err := mc.Session.GuildRoles(mc.GuildID())
	if err != nil {
		return fmt.Errorf("fetch guild roles: %w", err)
	}

	return mc.Reply(formatRoles(member, guildRoles))
}

// formatRoles renders a header naming the member followed by one
// "name  id" line per held role, highest role first.
func formatRoles(member *discordgo.Member, guildRoles []*discordgo.Role) string {
	held := lo.Filter(guildRoles, func(r *discordgo.Role, _ int) bool {
		return lo.Contains(member.Roles, r.ID)
	})
	sort.SliceStable(held, func(i, j int) bool { return held[i].Position > held[j].Position })

	var b strings.Builder
	b.WriteString("Roles of: " + member.User.Mention())
	for _, r := range held {
		fmt.Fprintf(&b, "\n%s  %s", r.Name, r.ID)
	}
	return b.String()
}
