// Package logging builds the process logger and routes discordgo's own
// log output through it.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how verbosely the bot logs.
type Options struct {
	Level string
	File  string
}

// New returns a console logger on stderr, teed into a rotated file when
// opts.File is set.
func New(opts Options) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("parse log level: %w", err)
	}

	var w io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime}
	if opts.File != "" {
		w = zerolog.MultiLevelWriter(w, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		})
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

// BridgeDiscordgo sends discordgo's internal messages to logger and returns
// the discordgo log level matching the logger's level.
func BridgeDiscordgo(logger zerolog.Logger) int {
	l := logger.With().Str("component", "discordgo").Logger()
	discordgo.Logger = func(msgL, caller int, format string, a ...interface{}) {
		l.WithLevel(discordgoLevel(msgL)).Msgf(format, a...)
	}

	switch {
	case logger.GetLevel() <= zerolog.DebugLevel:
		return discordgo.LogDebug
	case logger.GetLevel() == zerolog.InfoLevel:
		return discordgo.LogInformational
	case logger.GetLevel() == zerolog.WarnLevel:
		return discordgo.LogWarning
	default:
		return discordgo.LogError
	}
}

func discordgoLevel(msgL int) zerolog.Level {
	switch msgL {
	case discordgo.LogError:
		return zerolog.ErrorLevel
	case discordgo.LogWarning:
		return zerolog.WarnLevel
	case discordgo.LogInformational:
		return zerolog.InfoLevel
	default:
		return zerolog.DebugLevel
	}
}

// Slog returns a *slog.Logger writing through logger, for libraries that
// only accept slog.
func Slog(logger zerolog.Logger) *slog.Logger {
	return slog.New(&slogHandler{log: logger})
}

// slogHandler forwards slog records to zerolog. Groups are flattened.
type slogHandler struct {
	log zerolog.Logger
}

func (h *slogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.log.GetLevel() <= slogLevel(level)
}

func (h *slogHandler) Handle(_ context.Context, r slog.Record) error {
	ev := h.log.WithLevel(slogLevel(r.Level))
	r.Attrs(func(a slog.Attr) bool {
		ev = ev.Interface(a.Key, a.Value.Any())
		return true
	})
	ev.Msg(r.Message)
	return nil
}

func (h *slogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	ctx := h.log.With()
	for _, a := range attrs {
		ctx = ctx.Interface(a.Key, a.Value.Any())
	}
	return &slogHandler{log: ctx.Logger()}
}

func (h *slogHandler) WithGroup(string) slog.Handler { return h }

func slogLevel(l slog.Level) zerolog.Level {
	switch {
	case l >= slog.LevelError:
		return zerolog.ErrorLevel
	case l >= slog.LevelWarn:
		return zerolog.WarnLevel
	case l >= slog.LevelInfo:
		return zerolog.InfoLevel
	default:
		return zerolog.DebugLevel
	}
}
