package main

import (
	"context"
	"log"

	"github.com/ilinovom/voice-hug-bot/internal/app"
	"github.com/ilinovom/voice-hug-bot/internal/config"
	"github.com/ilinovom/voice-hug-bot/internal/logging"
	"github.com/ilinovom/voice-hug-bot/internal/repository"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal(err)
	}
	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()
	repo, err := repository.Open(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatal().Err(err).Msg("open storage")
	}
	defer repo.Close()

	application := app.New(cfg, repo, logger)
	if err := application.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("run")
	}
}
