package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/golfworks/fittings/internal/config"
	"github.com/golfworks/fittings/internal/notify"
	"github.com/golfworks/fittings/internal/observability"
)

const serviceName = "fittings-notifier"

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatal().Err(err).Msg("load .env")
	}
	cfg, err := config.LoadNotifier()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	observability.InitLogger(serviceName, cfg.Env)

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		log.Fatal().Err(err).Msg("load timezone")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler := notify.NewHandler(notify.NewConsole(log.Logger), loc, log.Logger)
	cons := notify.NewConsumer(cfg, handler, log.Logger)

	for {
		err := cons.Connect()
		if err == nil {
			break
		}
		log.Warn().Err(err).Msg("connect failed; retry in 2s")
		select {
		case <-ctx.Done():
			return
		case <-time.After(2 * time.Second):
		}
	}
	defer cons.Close()

	log.Info().
		Str("queue", cfg.Queue).
		Str("exchange", cfg.EventsExchange).
		Strs("bindings", cfg.Bindings).
		Msg("notifier started")

	if err := cons.Run(ctx); err != nil {
		log.Error().Err(err).Msg("consumer stopped")
	}
}
