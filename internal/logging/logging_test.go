package logging

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNew_Levels(t *testing.T) {
	req := require.New(t)

	l, err := New(Options{Level: "warn"})
	req.NoError(err)
	req.Equal(zerolog.WarnLevel, l.GetLevel())

	_, err = New(Options{Level: "shouting"})
	req.Error(err)
}

func TestNew_WithFile(t *testing.T) {
	l, err := New(Options{Level: "info", File: filepath.Join(t.TempDir(), "bot.log")})
	require.NoError(t, err)
	l.Info().Msg("hello")
}

func TestBridgeDiscordgo_LevelMapping(t *testing.T) {
	req := require.New(t)
	prev := discordgo.Logger
	t.Cleanup(func() { discordgo.Logger = prev })

	req.Equal(discordgo.LogDebug, BridgeDiscordgo(zerolog.Nop().Level(zerolog.DebugLevel)))
	req.Equal(discordgo.LogInformational, BridgeDiscordgo(zerolog.Nop().Level(zerolog.InfoLevel)))
	req.Equal(discordgo.LogWarning, BridgeDiscordgo(zerolog.Nop().Level(zerolog.WarnLevel)))
	req.Equal(discordgo.LogError, BridgeDiscordgo(zerolog.Nop().Level(zerolog.ErrorLevel)))
	req.NotNil(discordgo.Logger)

	req.Equal(zerolog.ErrorLevel, discordgoLevel(discordgo.LogError))
	req.Equal(zerolog.DebugLevel, discordgoLevel(discordgo.LogDebug))
}

func TestSlog_ForwardsRecordsWithLevel(t *testing.T) {
	req := require.New(t)
	var buf bytes.Buffer
	l := Slog(zerolog.New(&buf).Level(zerolog.InfoLevel)).With("component", "datastore")

	l.Debug("hidden")
	req.Empty(buf.String())

	l.Warn("autosave failed", "file", "datastore.json")
	out := buf.String()
	req.Contains(out, `"level":"warn"`)
	req.Contains(out, `"component":"datastore"`)
	req.Contains(out, `"file":"datastore.json"`)
	req.Contains(out, `"message":"autosave failed"`)
}
