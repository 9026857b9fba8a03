package events

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"initial-bot/internal/config"
	"initial-bot/internal/discordtypes"
	"initial-bot/internal/discordtypes/mocks"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var newcomer = &discordgo.User{ID: "7", Username: "newbie", Discriminator: "0007"}

func testConfig() *config.Config {
	return &config.Config{GuildID: "g1", WelcomeChannelID: "c9", JoinRoleName: "Retard", WelcomeHeadline: "**Hi!**"}
}

func joinEvent(guildID string) *discordgo.GuildMemberAdd {
	return &discordgo.GuildMemberAdd{Member: &discordgo.Member{GuildID: guildID, User: newcomer}}
}

var (
	channels = []*discordgo.Channel{
		{ID: "c1", Type: discordgo.ChannelTypeGuildText},
		{ID: "c9", Type: discordgo.ChannelTypeGuildText},
	}
	roles = []*discordgo.Role{
		{ID: "r1", Name: "retard"},
		{ID: "r2", Name: "Retard"},
	}
)

func TestWelcomeAnnouncer_PostsInConfiguredChannel(t *testing.T) {
	req := require.New(t)
	gw := mocks.NewMockGateway(gomock.NewController(t))
	h := &WelcomeAnnouncer{GuildID: "g1", ChannelID: "c9", Headline: "**A new retard has arrived!**"}

	gw.EXPECT().GuildChannels("g1").Return(channels, nil)
	gw.EXPECT().ChannelMessageSend("c9", "**A new retard has arrived!**\nWelcome <@7> to the server!\n").
		Return(&discordgo.Message{}, nil).Times(1)

	req.NoError(h.HandleMemberJoin(context.Background(), gw, joinEvent("g1")))
}

func TestWelcomeAnnouncer_MissingChannelIsNoop(t *testing.T) {
	gw := mocks.NewMockGateway(gomock.NewController(t))
	h := &WelcomeAnnouncer{GuildID: "g1", ChannelID: "c404"}

	gw.EXPECT().GuildChannels("g1").Return(channels, nil)

	err := h.HandleMemberJoin(context.Background(), gw, joinEvent("g1"))
	require.ErrorIs(t, err, discordtypes.ErrChannelNotFound)
}

func TestWelcomeAnnouncer_IgnoresOtherGuilds(t *testing.T) {
	gw := mocks.NewMockGateway(gomock.NewController(t))
	h := &WelcomeAnnouncer{GuildID: "g1", ChannelID: "c9", Headline: "**A new retard has arrived!**"}

	require.ErrorIs(t, h.HandleMemberJoin(context.Background(), gw, joinEvent("g2")), ErrIgnored)
}

func TestRoleGrantor_AddsRoleByExactName(t *testing.T) {
	gw := mocks.NewMockGateway(gomock.NewController(t))
	h := &RoleGrantor{GuildID: "g1", RoleName: "Retard"}

	gw.EXPECT().GuildRoles("g1").Return(roles, nil)
	gw.EXPECT().GuildMemberRoleAdd("g1", "7", "r2").Return(nil).Times(1)

	require.NoError(t, h.HandleMemberJoin(context.Background(), gw, joinEvent("g1")))
}

func TestRoleGrantor_Failures(t *testing.T) {
	req := require.New(t)
	gw := mocks.NewMockGateway(gomock.NewController(t))
	h := &RoleGrantor{GuildID: "g1", RoleName: "Newcomer"}

	gw.EXPECT().GuildRoles("g1").Return(roles, nil)
	req.ErrorIs(h.HandleMemberJoin(context.Background(), gw, joinEvent("g1")), discordtypes.ErrRoleNotFound)

	h.RoleName = "Retard"
	forbidden := errors.New("HTTP 403 Forbidden")
	gw.EXPECT().GuildRoles("g1").Return(roles, nil)
	gw.EXPECT().GuildMemberRoleAdd("g1", "7", "r2").Return(forbidden)
	req.ErrorIs(h.HandleMemberJoin(context.Background(), gw, joinEvent("g1")), forbidden)
}

func TestRoleGrantor_RetriesTransientFailures(t *testing.T) {
	req := require.New(t)
	gw := mocks.NewMockGateway(gomock.NewController(t))
	h := &RoleGrantor{GuildID: "g1", RoleName: "Retard", Retry: RoleAddRetry}
	h.Retry.InitialDelay = time.Millisecond
	h.Retry.MaxDelay = time.Millisecond

	unavailable := &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusBadGateway}}
	gw.EXPECT().GuildRoles("g1").Return(roles, nil)
	gomock.InOrder(
		gw.EXPECT().GuildMemberRoleAdd("g1", "7", "r2").Return(unavailable),
		gw.EXPECT().GuildMemberRoleAdd("g1", "7", "r2").Return(nil),
	)
	req.NoError(h.HandleMemberJoin(context.Background(), gw, joinEvent("g1")))

	forbidden := &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusForbidden}}
	gw.EXPECT().GuildRoles("g1").Return(roles, nil)
	gw.EXPECT().GuildMemberRoleAdd("g1", "7", "r2").Return(forbidden).Times(1)
	req.ErrorIs(h.HandleMemberJoin(context.Background(), gw, joinEvent("g1")), forbidden)
}

// Both handlers run for one join; a missing welcome channel must not stop
// the role grant.
func TestMemberJoinHandlers_IndependentOfEachOther(t *testing.T) {
	cfg := testConfig()
	cfg.WelcomeChannelID = "c404"
	gw := mocks.NewMockGateway(gomock.NewController(t))

	gw.EXPECT().GuildChannels("g1").Return(channels, nil).Times(1)
	gw.EXPECT().GuildRoles("g1").Return(roles, nil).Times(1)
	gw.EXPECT().GuildMemberRoleAdd("g1", "7", "r2").Return(nil).Times(1)

	handlers := MemberJoinHandlers(cfg)
	require.Len(t, handlers, 2)

	var wg sync.WaitGroup
	for _, h := range handlers {
		wg.Add(1)
		go func(h MemberJoinHandler) {
			defer wg.Done()
			Dispatch(context.Background(), zerolog.Nop(), h, gw, joinEvent("g1"))
		}(h)
	}
	wg.Wait()
}

type panickingHandler struct{}

func (panickingHandler) Name() string { return "panic" }
func (panickingHandler) HandleMemberJoin(ctx context.Context, s discordtypes.Gateway, m *discordgo.GuildMemberAdd) error {
	panic("boom")
}

func TestDispatch_RecoversAndSkipsEmptyEvents(t *testing.T) {
	gw := mocks.NewMockGateway(gomock.NewController(t))

	require.NotPanics(t, func() {
		Dispatch(context.Background(), zerolog.Nop(), panickingHandler{}, gw, joinEvent("g1"))
		Dispatch(context.Background(), zerolog.Nop(), panickingHandler{}, gw, nil)
		Dispatch(context.Background(), zerolog.Nop(), panickingHandler{}, gw, &discordgo.GuildMemberAdd{})
	})
}

func TestMemberJoinHandlers_UseConfiguredWelcomeText(t *testing.T) {
	req := require.New(t)
	gw := mocks.NewMockGateway(gomock.NewController(t))

	welcome, ok := MemberJoinHandlers(testConfig())[0].(*WelcomeAnnouncer)
	req.True(ok)

	gw.EXPECT().GuildChannels("g1").Return(channels, nil)
	gw.EXPECT().ChannelMessageSend("c9", "**Hi!**\nWelcome <@7> to the server!\n").Return(&discordgo.Message{}, nil)
	req.NoError(welcome.HandleMemberJoin(context.Background(), gw, joinEvent("g1")))
}
