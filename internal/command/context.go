package command

import (
	"errors"
	"strings"
	"unicode/utf8"

	"initial-bot/internal/config"
	"initial-bot/internal/discordtypes"
	"initial-bot/pkg/cmd"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// MessageContext is what the router hands a command through Invocation.Data.
// It is built per message and carries everything a handler may touch.
type MessageContext struct {
	Session  discordtypes.Gateway
	Event    *discordgo.MessageCreate
	Self     *discordgo.User
	Config   *config.Config
	Registry *cmd.Registry
	Log      zerolog.Logger
}

// MaxMessageLength is Discord's limit on message content, in characters.
const MaxMessageLength = 2000

// Reply sends content to the channel the command came from, split into
// several messages at line boundaries when it exceeds MaxMessageLength.
func (c *MessageContext) Reply(content string) error {
	for _, chunk := range SplitMessage(content, MaxMessageLength) {
		if _, err := c.Session.ChannelMessageSend(c.Event.ChannelID, chunk); err != nil {
			return err
		}
	}
	return nil
}

// SplitMessage cuts content into chunks of at most limit characters,
// breaking between lines. Single lines longer than limit are cut hard.
func SplitMessage(content string, limit int) []string {
	if utf8.RuneCountInString(content) <= limit {
		return []string{content}
	}

	var chunks []string
	var cur strings.Builder
	curLen := 0
	flush := func() {
		if curLen > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
			curLen = 0
		}
	}

	for _, line := range strings.Split(content, "\n") {
		runes := []rune(line)
		for len(runes) > limit {
			flush()
			chunks = append(chunks, string(runes[:limit]))
			runes = runes[limit:]
		}
		sep := 0
		if curLen > 0 {
			sep = 1
		}
		if curLen+sep+len(runes) > limit {
			flush()
			sep = 0
		}
		if sep == 1 {
			cur.WriteByte('\n')
		}
		cur.WriteString(string(runes))
		curLen += sep + len(runes)
	}
	flush()
	return chunks
}

// GuildID is the guild the message was sent in, empty for direct messages.
func (c *MessageContext) GuildID() string {
	return c.Event.GuildID
}

// FromInvocation extracts the MessageContext a command runs with.
func FromInvocation(inv *cmd.Invocation) (*MessageContext, error) {
	if inv == nil {
		return nil, ErrNoContext
	}
	c, ok := inv.Data.(*MessageContext)
	if !ok || c == nil {
		return nil, ErrNoContext
	}
	return c, nil
}

// GuildScoped is implemented by commands that only make sense inside a guild.
type GuildScoped interface {
	GuildOnly() bool
}

var ErrNoContext = errors.New("missing message context")
