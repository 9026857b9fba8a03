// cmd/discord/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"initial-bot/internal/config"
	"initial-bot/internal/discord"
	"initial-bot/internal/logging"
	"initial-bot/internal/storage"
	"initial-bot/internal/token"
	v "initial-bot/internal/version"

	"github.com/rs/zerolog"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup happens before exit.
func run() int {
	bootLog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		bootLog.Error().Err(err).Msg("failed to load config")
		return 1
	}

	log, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		bootLog.Error().Err(err).Msg("failed to set up logging")
		return 1
	}
	log.Info().Str("version", v.Version).Msgf("starting %v bot...", v.AppName)

	tok, err := token.Load(cfg.TokenFile)
	if err != nil {
		log.Error().Err(err).Msg("failed to load bot token")
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := storage.New(ctx, cfg.StoragePath, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to open storage")
		return 1
	}
	defer store.Close()

	bot := discord.NewBot(cfg, store, log)

	errCh := make(chan error, 1)
	go func() {
		if err := bot.Run(ctx, tok); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Info().Str("signal", s.String()).Msg("received signal, shutting down...")
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("discord bot error")
			return 1
		}
	}

	log.Info().Msg("discord bot exited cleanly")
	return 0
}
