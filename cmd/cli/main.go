// cmd/cli prints the command history the bot recorded for a guild.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"initial-bot/internal/config"
	"initial-bot/internal/storage"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		color.Red.Println(err)
		return 1
	}

	guildID := flag.String("guild", cfg.GuildID, "guild id to show history for (empty for direct messages)")
	path := flag.String("storage", cfg.StoragePath, "path to the datastore file")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.WarnLevel)
	store, err := storage.New(context.Background(), *path, log)
	if err != nil {
		color.Red.Println(err)
		return 1
	}
	defer store.Close()

	history, err := store.FetchCommandHistory(*guildID)
	if err != nil {
		color.Red.Println(err)
		return 1
	}

	if len(history) == 0 {
		color.Yellow.Printf("No commands recorded for guild %q\n", *guildID)
		return 0
	}

	color.Cyan.Printf("Last %d commands for guild %q\n", len(history), *guildID)
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Time", "User", "Channel", "Command", "Param", "Status"})
	table.SetAutoWrapText(false)
	for _, h := range history {
		status := "ok"
		if h.Failed {
			status = "failed"
		}
		table.Append([]string{
			h.Datetime.Local().Format(time.DateTime),
			h.Username,
			h.ChannelID,
			h.Command,
			h.Param,
			status,
		})
	}
	table.Render()
	return 0
}
