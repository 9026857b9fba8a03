// cmd/build-readme regenerates README.md from README.md.tmpl and the command registry.
package main

import (
	"os"

	"initial-bot/internal/command"
	"initial-bot/internal/config"
	"initial-bot/internal/docs"

	"github.com/gookit/color"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		color.Red.Println(err)
		os.Exit(1)
	}

	if err := docs.UpdateReadme(command.NewRegistry(), cfg.CommandPrefix, "README.md.tmpl", "README.md"); err != nil {
		color.Red.Println(err)
		os.Exit(1)
	}
	color.Green.Println("README.md updated with current commands")
}
