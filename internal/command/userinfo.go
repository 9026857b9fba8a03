package command

import (
	"context"
	"fmt"

	"initial-bot/internal/discordtypes"
	"initial-bot/pkg/cmd"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"
)

// UserInfoCommand prints username#discriminator of a user, the bot itself
// when no user is given.
type UserInfoCommand struct{}

func (c *UserInfoCommand) Name() string      { return "userinfo" }
func (c *UserInfoCommand) Group() string     { return "sample" }
func (c *UserInfoCommand) Aliases() []string { return []string{"user", "whois"} }
func (c *UserInfoCommand) Description() string {
	return "Returns info about the current user, or the user parameter, if one passed."
}
func (c *UserInfoCommand) Usage() string { return "[user]" }

func (c *UserInfoCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, err := FromInvocation(inv)
	if err != nil {
		return err
	}

	arg, given, err := optionalOne(inv.Args)
	if err != nil {
		return err
	}

	user := mc.Self
	if given {
		if user, err = resolveUser(mc, arg); err != nil {
			return err
		}
	}

	return mc.Reply(discordtypes.FormatUser(user))
}

// resolveUser accepts a mention, a raw id, "name#discriminator" or a plain
// username. Ids are looked up in the message mentions first, then fetched;
// names are searched among the guild's members.
func resolveUser(mc *MessageContext, arg string) (*discordgo.User, error) {
	id, ok := discordtypes.ParseUserMention(arg)
	if !ok {
		return resolveUserByName(mc, arg)
	}

	if u, found := lo.Find(mc.Event.Mentions, func(u *discordgo.User) bool {
		return u != nil && u.ID == id
	}); found {
		return u, nil
	}

	u, err := mc.Session.User(id)
	if err != nil || u == nil {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, arg)
	}
	return u, nil
}

func resolveUserByName(mc *MessageContext, name string) (*discordgo.User, error) {
	if mc.GuildID() == "" {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, name)
	}

	member, found, err := discordtypes.FindMemberByName(mc.Session, mc.GuildID(), name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, name)
	}
	return member.User, nil
}
