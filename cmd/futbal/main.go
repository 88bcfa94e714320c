package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"futbal/internal/adapters/cli"
	"futbal/internal/adapters/discord"
	"futbal/internal/application"
	"futbal/internal/config"
	"futbal/internal/infrastructure/api"
	"futbal/internal/infrastructure/i18n"
	"futbal/internal/infrastructure/logging"
	"futbal/pkg/tz"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Development())
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	loc, err := tz.Load(cfg.Timezone)
	if err != nil {
		logger.Fatal("load timezone", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}

	client, err := api.New(api.Options{
		BaseURL:       cfg.APIBaseURL,
		Token:         cfg.APIToken,
		Timeout:       cfg.APITimeout,
		TrailingSlash: cfg.APITrailingSlash,
		RateLimit:     cfg.APIRateLimit,
		RateBurst:     cfg.APIRateBurst,
		Location:      loc,
		Logger:        logger.Named("api"),
	})
	if err != nil {
		logger.Fatal("api client", zap.Error(err))
	}

	tr := i18n.NewTranslator(cfg.Locale, logger.Named("i18n"))
	app := application.New(client, logger)

	if cfg.DiscordWebhookURL != "" {
		announcer, err := discord.NewAnnouncer(cfg.DiscordWebhookURL, tr, loc, logger.Named("discord"))
		if err != nil {
			logger.Fatal("discord announcer", zap.Error(err))
		}
		app.AttachAnnouncer(announcer, logger.Named("discord"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shell := cli.NewHandler(app.Directory, app.Participation, app.Owner, app.Session, app.Profile,
		tr, loc, logger.Named("cli"), os.Stdin, os.Stdout)

	done := make(chan error, 1)
	go func() { done <- shell.Run(ctx) }()

	select {
	case err = <-done:
	case <-ctx.Done():
		// Reading stdin cannot be interrupted; leave without waiting for the loop.
		err = ctx.Err()
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("shell stopped", zap.Error(err))
		os.Exit(1)
	}
}
