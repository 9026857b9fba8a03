// /internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds every value the bot used to compile in: where the token lives,
// the command prefix, and the guild, channel and role the join handlers act on.
type Config struct {
	TokenFile        string  `env:"TOKEN_FILE" envDefault:"token.txt" validate:"required"`
	CommandPrefix    string  `env:"COMMAND_PREFIX" envDefault:"!" validate:"required"`
	GuildID          string  `env:"GUILD_ID" envDefault:"319717933477658625" validate:"required,numeric"`
	WelcomeChannelID string  `env:"WELCOME_CHANNEL_ID" envDefault:"414196461052493826" validate:"required,numeric"`
	JoinRoleName     string  `env:"JOIN_ROLE_NAME" envDefault:"Retard" validate:"required"`
	WelcomeHeadline  string  `env:"WELCOME_HEADLINE" envDefault:"**A new retard has arrived!**" validate:"required"`
	StoragePath      string  `env:"STORAGE_PATH" envDefault:"datastore.json" validate:"required"`
	CommandRate      float64 `env:"COMMAND_RATE" envDefault:"1" validate:"gt=0"`
	CommandBurst     int     `env:"COMMAND_BURST" envDefault:"3" validate:"gte=1"`
	LogLevel         string  `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=trace debug info warn error"`
	LogFile          string  `env:"LOG_FILE"`
}

var validate = validator.New()

// Load reads an optional .env file and parses the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse parses the current environment into a validated Config.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
