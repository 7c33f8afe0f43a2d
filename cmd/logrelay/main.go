package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/akave-ai/logrelay/internal/config"
	"github.com/akave-ai/logrelay/internal/llm"
	"github.com/akave-ai/logrelay/internal/logger"
	"github.com/akave-ai/logrelay/internal/observability"
	"github.com/akave-ai/logrelay/internal/server"
)

func main() {
	boot := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.LoadConfig()
	if err != nil {
		boot.Fatal().Err(err).Msg("config")
	}
	log := logger.New(cfg.Observability)

	nrApp, err := observability.NewApplication(cfg.Observability, log)
	if err != nil {
		log.Fatal().Err(err).Msg("observability")
	}

	model, err := llm.NewClient(llm.Config{
		APIKey:     cfg.LLM.APIKey,
		BaseURL:    cfg.LLM.BaseURL,
		Model:      cfg.LLM.Model,
		Timeout:    cfg.LLM.Timeout,
		HTTPClient: observability.HTTPClient(nrApp),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("llm client")
	}
	log.Info().Str("model", model.Model()).Dur("timeout", cfg.LLM.Timeout).Msg("completion client ready")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, log, model, nrApp)
	if err := srv.Start(ctx); err != nil {
		log.Error().Err(err).Msg("server exited")
		os.Exit(1)
	}
}
