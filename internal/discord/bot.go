package discord

import (
	"context"
	"fmt"

	"initial-bot/internal/command"
	"initial-bot/internal/config"
	"initial-bot/internal/discordtypes"
	"initial-bot/internal/events"
	"initial-bot/internal/logging"
	"initial-bot/internal/middleware"
	"initial-bot/internal/storage"
	"initial-bot/pkg/jobmgr"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// Bot is a Discord bot
type Bot struct {
	dg       *discordgo.Session
	cfg      *config.Config
	storage  *storage.Storage
	router   *command.Router
	cooldown *middleware.Cooldown
	joins    []events.MemberJoinHandler
	jobs     *jobmgr.Manager
	log      zerolog.Logger
	ctx      context.Context
}

// NewBot wires the command registry, router and join handlers.
func NewBot(cfg *config.Config, store *storage.Storage, log zerolog.Logger) *Bot {
	cooldown := middleware.NewCooldown(cfg.CommandRate, cfg.CommandBurst)
	registry := command.NewRegistry(
		middleware.WithGuildOnly(),
		middleware.WithCooldown(cooldown),
		middleware.WithCommandLogger(store),
	)

	return &Bot{
		cfg:      cfg,
		storage:  store,
		router:   command.NewRouter(registry, cfg, log),
		cooldown: cooldown,
		joins:    events.MemberJoinHandlers(cfg),
		jobs:     jobmgr.NewManager(jobReporter(log)),
		log:      log,
		ctx:      context.Background(),
	}
}

// Run opens the gateway session and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context, token string) error {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	b.dg = dg
	b.ctx = ctx
	dg.LogLevel = logging.BridgeDiscordgo(b.log)

	b.configureIntents()
	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onMessageCreate)
	for _, h := range b.joins {
		dg.AddHandler(b.onGuildMemberAdd(h))
	}

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	if err := b.jobs.Start(ctx, "cooldown-sweeper", b.cooldown.Run); err != nil {
		return err
	}
	defer b.stopJobs()

	<-ctx.Done()
	b.log.Info().Msg("shutdown signal received, closing session")
	return nil
}

// stopJobs cancels every background job and waits for them to return.
func (b *Bot) stopJobs() {
	for _, name := range b.jobs.List() {
		if err := b.jobs.Stop(name); err != nil {
			b.log.Debug().Err(err).Str("job", name).Msg("job already finished")
		}
	}
	b.jobs.Wait()
}

// jobReporter logs background job lifecycle changes.
func jobReporter(log zerolog.Logger) jobmgr.Reporter {
	return func(ev jobmgr.Event) {
		e := log.Debug()
		if ev.State == jobmgr.StateFailed {
			e = log.Error().Err(ev.Err)
		}
		e.Str("job", ev.Name).Str("state", string(ev.State)).Msg("background job")
	}
}

// configureIntents configures the Discord intents
func (b *Bot) configureIntents() {
	b.dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent
}

// onReady is called when the bot is ready
func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.log.Info().
		Str("user", discordtypes.FormatUser(r.User)).
		Int("guilds", len(r.Guilds)).
		Msg("discord bot is running")
}

// onMessageCreate is called when a message is created
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	b.router.Dispatch(b.ctx, s, s.State.User, m)
}

// onGuildMemberAdd subscribes one join handler; discordgo runs every
// subscription in its own goroutine.
func (b *Bot) onGuildMemberAdd(h events.MemberJoinHandler) func(*discordgo.Session, *discordgo.GuildMemberAdd) {
	return func(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
		events.Dispatch(b.ctx, b.log, h, s, m)
	}
}
