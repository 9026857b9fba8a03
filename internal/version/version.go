package version

// Set at build time with -ldflags "-X initial-bot/internal/version.Version=...".
var (
	AppName = "initial-bot"
	Version = "dev"
)
