package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/mrlokans/librarian/internal/config"
	"github.com/mrlokans/librarian/internal/database"
	"github.com/mrlokans/librarian/internal/logging"
)

// NewMigrateCommand upgrades databases created before books had ratings.
func NewMigrateCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "add the rating column to an existing books table",
		Action: func(c *cli.Context) error {
			db, err := database.Open(cfg.Database, logging.GormLevel(cfg.Log.Level))
			if err != nil {
				return err
			}
			defer db.Close()

			added, err := db.EnsureRatingColumn()
			if err != nil {
				return cli.Exit(fmt.Sprintf("migration failed: %v", err), 1)
			}

			if added {
				fmt.Fprintln(c.App.Writer, "Added column books.rating")
			} else {
				fmt.Fprintln(c.App.Writer, "Column books.rating already exists")
			}
			return nil
		},
	}
}
