package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/librarian/internal/cli"
	"github.com/mrlokans/librarian/internal/config"
	"github.com/mrlokans/librarian/internal/logging"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	// A missing .env is fine; the environment alone is enough.
	_ = godotenv.Load()

	cfg := config.NewConfig()
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	log.Debug().Str("commit", Commit).Msg("build info")

	if err := cli.NewApp(cfg, Version).Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("librarian failed")
	}
}
