package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"Thermo/internal/bot"
	"Thermo/internal/config"
	"Thermo/internal/props"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	log.SetLevel(cfg.LogLevel)
	if cfg.TokenBot == "" {
		log.Fatal("TOKEN_BOT missing")
	}

	svc, err := props.Cached(props.New(), cfg.CacheSize)
	if err != nil {
		log.WithError(err).Fatal("property cache")
	}

	b := &bot.Bot{API: bot.NewClient(cfg.TokenBot), Env: cfg.Env(svc)}
	log.Info("cycle bot polling")
	if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("bot stopped")
	}
	log.Info("cycle bot stopped")
}
