package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"initial-bot/internal/command"
	"initial-bot/internal/config"
	"initial-bot/internal/discordtypes/mocks"
	"initial-bot/internal/storage"
	"initial-bot/pkg/cmd"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type stubCommand struct {
	guildOnly bool
	err       error
	runs      int
}

func (s *stubCommand) Name() string        { return "stub" }
func (s *stubCommand) Group() string       { return "sample" }
func (s *stubCommand) Description() string { return "stub command" }
func (s *stubCommand) GuildOnly() bool     { return s.guildOnly }
func (s *stubCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	s.runs++
	return s.err
}

func invocation(guildID, userID, remainder string) *cmd.Invocation {
	return &cmd.Invocation{
		Remainder: remainder,
		Data: &command.MessageContext{
			Event: &discordgo.MessageCreate{Message: &discordgo.Message{
				GuildID:   guildID,
				ChannelID: "c1",
				Author:    &discordgo.User{ID: userID, Username: "user-" + userID},
			}},
			Log: zerolog.Nop(),
		},
	}
}

func TestWithGuildOnly(t *testing.T) {
	req := require.New(t)
	scoped := &stubCommand{guildOnly: true}
	c := cmd.Apply(scoped, WithGuildOnly())

	req.ErrorIs(c.Run(context.Background(), invocation("", "u1", "")), command.ErrGuildOnly)
	req.Equal(0, scoped.runs)

	req.NoError(c.Run(context.Background(), invocation("g1", "u1", "")))
	req.Equal(1, scoped.runs)
}

func TestWithGuildOnly_LeavesOtherCommandsAlone(t *testing.T) {
	req := require.New(t)
	open := &stubCommand{}
	c := cmd.Apply(open, WithGuildOnly())

	req.Same(open, c)
	req.NoError(c.Run(context.Background(), invocation("", "u1", "")))
	req.Equal(1, open.runs)
}

func TestCooldown_AllowsBurstThenRefills(t *testing.T) {
	req := require.New(t)
	now := time.Unix(1_700_000_000, 0)
	cd := NewCooldown(1, 2)
	cd.now = func() time.Time { return now }

	req.True(cd.Allow("u1"))
	req.True(cd.Allow("u1"))
	req.False(cd.Allow("u1"))

	// Other users have their own bucket.
	req.True(cd.Allow("u2"))

	now = now.Add(time.Second)
	req.True(cd.Allow("u1"))
	req.False(cd.Allow("u1"))
}

func TestCooldown_SweepDropsIdleUsers(t *testing.T) {
	req := require.New(t)
	now := time.Unix(1_700_000_000, 0)
	cd := NewCooldown(1, 1)
	cd.now = func() time.Time { return now }

	cd.Allow("u1")
	now = now.Add(idleLimiterTTL / 2)
	cd.Allow("u2")
	now = now.Add(idleLimiterTTL/2 + time.Second)
	cd.Sweep()

	req.NotContains(cd.limiters, "u1")
	req.Contains(cd.limiters, "u2")
}

func TestWithCooldown(t *testing.T) {
	req := require.New(t)
	inner := &stubCommand{}
	c := cmd.Apply(inner, WithCooldown(NewCooldown(0.001, 1)))

	req.NoError(c.Run(context.Background(), invocation("g1", "u1", "")))
	req.ErrorIs(c.Run(context.Background(), invocation("g1", "u1", "")), ErrCooldown)
	req.NoError(c.Run(context.Background(), invocation("g1", "u2", "")))
	req.Equal(2, inner.runs)
}

type fakeHistory struct {
	mu      sync.Mutex
	records map[string][]storage.CommandHistoryRecord
	err     error
}

func (f *fakeHistory) AppendCommandToHistory(guildID string, record storage.CommandHistoryRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.records == nil {
		f.records = make(map[string][]storage.CommandHistoryRecord)
	}
	f.records[guildID] = append(f.records[guildID], record)
	return f.err
}

func TestWithCommandLogger_RecordsHistory(t *testing.T) {
	req := require.New(t)
	history := &fakeHistory{}
	failing := &stubCommand{err: errors.New("boom")}

	ok := cmd.Apply(&stubCommand{}, WithCommandLogger(history))
	bad := cmd.Apply(failing, WithCommandLogger(history))

	req.NoError(ok.Run(context.Background(), invocation("g1", "u1", "20")))
	req.EqualError(bad.Run(context.Background(), invocation("g1", "u2", "")), "boom")

	recs := history.records["g1"]
	req.Len(recs, 2)
	req.Equal("sample stub", recs[0].Command)
	req.Equal("20", recs[0].Param)
	req.Equal("u1", recs[0].UserID)
	req.Equal("user-u1", recs[0].Username)
	req.Equal("c1", recs[0].ChannelID)
	req.False(recs[0].Failed)
	req.False(recs[0].Datetime.IsZero())
	req.True(recs[1].Failed)
}

func TestWithCommandLogger_HistoryErrorDoesNotFailCommand(t *testing.T) {
	history := &fakeHistory{err: errors.New("disk full")}
	c := cmd.Apply(&stubCommand{}, WithCommandLogger(history))

	require.NoError(t, c.Run(context.Background(), invocation("g1", "u1", "")))
}

func TestWithCommandLogger_IgnoresForeignInvocations(t *testing.T) {
	history := &fakeHistory{}
	c := cmd.Apply(&stubCommand{}, WithCommandLogger(history))

	require.NoError(t, c.Run(context.Background(), &cmd.Invocation{}))
	require.Empty(t, history.records)
}

func TestMiddlewareChain_LoggerSeesCooldownRejections(t *testing.T) {
	req := require.New(t)
	history := &fakeHistory{}
	c := cmd.Apply(&stubCommand{guildOnly: true},
		WithGuildOnly(),
		WithCooldown(NewCooldown(0.001, 1)),
		WithCommandLogger(history),
	)

	req.NoError(c.Run(context.Background(), invocation("g1", "u1", "")))
	req.ErrorIs(c.Run(context.Background(), invocation("g1", "u1", "")), ErrCooldown)
	req.ErrorIs(c.Run(context.Background(), invocation("", "u3", "")), command.ErrGuildOnly)

	req.Len(history.records["g1"], 2)
	req.Len(history.records[""], 1)
}

func TestRouter_CooldownRejectionsSendNothing(t *testing.T) {
	req := require.New(t)
	gw := mocks.NewMockGateway(gomock.NewController(t))
	history := &fakeHistory{}
	cfg := &config.Config{CommandPrefix: "!"}
	registry := command.NewRegistry(
		WithCooldown(NewCooldown(0.001, 3)),
		WithCommandLogger(history),
	)
	router := command.NewRouter(registry, cfg, zerolog.Nop())
	self := &discordgo.User{ID: "42", Bot: true}

	gw.EXPECT().ChannelMessageSend("c1", "hi").Return(&discordgo.Message{}, nil).Times(3)

	for i := 0; i < 10; i++ {
		m := &discordgo.MessageCreate{Message: &discordgo.Message{
			GuildID:   "g1",
			ChannelID: "c1",
			Content:   "!say hi",
			Author:    &discordgo.User{ID: "u1", Username: "alice"},
		}}
		req.True(router.Dispatch(context.Background(), gw, self, m))
	}

	recs := history.records["g1"]
	req.Len(recs, 10)
	failed := lo.CountBy(recs, func(r storage.CommandHistoryRecord) bool { return r.Failed })
	req.Equal(7, failed)
}
