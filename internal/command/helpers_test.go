package command

import (
	"context"
	"testing"

	"initial-bot/internal/config"
	"initial-bot/internal/discordtypes/mocks"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"
)

var botUser = &discordgo.User{ID: "42", Username: "InitialBot", Discriminator: "1234", Bot: true}

func testConfig() *config.Config {
	return &config.Config{
		CommandPrefix:    "!",
		GuildID:          "g1",
		WelcomeChannelID: "c9",
		JoinRoleName:     "Retard",
		CommandRate:      1,
		CommandBurst:     3,
	}
}

func newMessage(content string, mentions ...*discordgo.User) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{Message: &discordgo.Message{
		ID:        "m1",
		ChannelID: "c1",
		GuildID:   "g1",
		Content:   content,
		Author:    &discordgo.User{ID: "u1", Username: "alice", Discriminator: "0001"},
		Mentions:  mentions,
	}}
}

type routerFixture struct {
	router  *Router
	gateway *mocks.MockGateway
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	return &routerFixture{
		router:  NewRouter(NewRegistry(), testConfig(), zerolog.Nop()),
		gateway: mocks.NewMockGateway(ctrl),
	}
}

func (f *routerFixture) dispatch(m *discordgo.MessageCreate) bool {
	return f.router.Dispatch(context.Background(), f.gateway, botUser, m)
}

// expectReply expects exactly one message with content in the command channel.
func (f *routerFixture) expectReply(content string) *gomock.Call {
	return f.gateway.EXPECT().ChannelMessageSend("c1", content).Return(&discordgo.Message{ID: "reply"}, nil).Times(1)
}
