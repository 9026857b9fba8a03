// /discordtypes/discordtypes.go
package discordtypes

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"
)

//go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks initial-bot/internal/discordtypes Gateway

// Gateway is the slice of *discordgo.Session the bot issues requests through.
// *discordgo.Session satisfies it; tests use the generated mock.
type Gateway interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
	GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error)
	GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error)
	GuildMembersSearch(guildID, query string, limit int, options ...discordgo.RequestOption) ([]*discordgo.Member, error)
	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	User(userID string, options ...discordgo.RequestOption) (*discordgo.User, error)
}

var _ Gateway = (*discordgo.Session)(nil)

// ParseUserMention strips mention delimiters from token and returns the user
// id it refers to. Both <@id> and <@!id> forms are accepted, as is a bare id.
func ParseUserMention(token string) (string, bool) {
	id := strings.Trim(token, "<@!>")
	if id == "" {
		return "", false
	}
	if _, err := strconv.ParseUint(id, 10, 64); err != nil {
		return "", false
	}
	return id, true
}

// TrimMentionPrefix reports whether content starts with a mention of userID
// and returns the text after it.
func TrimMentionPrefix(content, userID string) (string, bool) {
	if userID == "" {
		return "", false
	}
	for _, m := range []string{"<@" + userID + ">", "<@!" + userID + ">"} {
		if strings.HasPrefix(content, m) {
			return strings.TrimLeft(content[len(m):], " \t\n"), true
		}
	}
	return "", false
}

// FormatUser renders a user as username#discriminator.
func FormatUser(u *discordgo.User) string {
	return u.Username + "#" + u.Discriminator
}

// memberSearchLimit caps how many members a name search fetches.
const memberSearchLimit = 100

// FindMemberByName looks a guild member up by "name#discriminator" or by
// plain username, falling back to the nickname. Matching is case-insensitive
// and an exact username#discriminator match wins.
func FindMemberByName(s Gateway, guildID, query string) (*discordgo.Member, bool, error) {
	name, discriminator := query, ""
	if i := strings.LastIndex(query, "#"); i > 0 {
		name, discriminator = query[:i], query[i+1:]
	}

	members, err := s.GuildMembersSearch(guildID, name, memberSearchLimit)
	if err != nil {
		return nil, false, fmt.Errorf("search members %q: %w", name, err)
	}
	members = lo.Filter(members, func(m *discordgo.Member, _ int) bool { return m != nil && m.User != nil })

	matchers := []func(*discordgo.Member) bool{
		func(m *discordgo.Member) bool {
			return discriminator != "" &&
				strings.EqualFold(m.User.Username, name) && m.User.Discriminator == discriminator
		},
		func(m *discordgo.Member) bool {
			return discriminator == "" && strings.EqualFold(m.User.Username, name)
		},
		func(m *discordgo.Member) bool {
			return discriminator == "" && m.Nick != "" && strings.EqualFold(m.Nick, name)
		},
	}
	for _, match := range matchers {
		if m, ok := lo.Find(members, match); ok {
			return m, true, nil
		}
	}
	return nil, false, nil
}

var (
	ErrRoleNotFound    = errors.New("role not found")
	ErrChannelNotFound = errors.New("channel not found")
)

// FindRoleByName returns the guild role with exactly the given name.
func FindRoleByName(s Gateway, guildID, name string) (*discordgo.Role, error) {
	roles, err := s.GuildRoles(guildID)
	if err != nil {
		return nil, fmt.Errorf("fetch guild roles: %w", err)
	}
	role, ok := lo.Find(roles, func(r *discordgo.Role) bool {
		return r != nil && r.Name == name
	})
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRoleNotFound, name)
	}
	return role, nil
}

// FindTextChannel returns the text channel with the given id in a guild.
func FindTextChannel(s Gateway, guildID, channelID string) (*discordgo.Channel, error) {
	channels, err := s.GuildChannels(guildID)
	if err != nil {
		return nil, fmt.Errorf("fetch guild channels: %w", err)
	}
	ch, ok := lo.Find(channels, func(c *discordgo.Channel) bool {
		return c != nil && c.ID == channelID && c.Type == discordgo.ChannelTypeGuildText
	})
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrChannelNotFound, channelID)
	}
	return ch, nil
}

// IsTransient reports whether err is a Discord REST failure worth retrying:
// rate limited or a server-side error.
func IsTransient(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) || restErr.Response == nil {
		return false
	}
	code := restErr.Response.StatusCode
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
