// Package cli wires the librarian commands.
package cli

import (
	"github.com/urfave/cli/v2"

	"github.com/mrlokans/librarian/internal/config"
	"github.com/mrlokans/librarian/internal/entrypoint"
)

// NewApp builds the command tree. Running without a command serves HTTP.
func NewApp(cfg *config.Config, version string) *cli.App {
	serve := func(c *cli.Context) error {
		return entrypoint.Run(cfg, version)
	}

	return &cli.App{
		Name:    "librarian",
		Usage:   "a small library catalog",
		Version: version,
		Action:  serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the web application",
				Action: serve,
			},
			NewMigrateCommand(cfg),
		},
	}
}
