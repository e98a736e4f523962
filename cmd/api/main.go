package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"akaguriroo-backend/internal/config"
	"akaguriroo-backend/internal/interfaces/router"
	"akaguriroo-backend/internal/pkg/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load")
	}
	logger.Setup(cfg.Env, cfg.LogLevel)

	app, db, rdb, err := router.CreateApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("app create")
	}

	// Verify connections before serving
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := router.Ping(ctx, db, rdb); err != nil {
		cancel()
		log.Fatal().Err(err).Msg("dependency check failed")
	}
	cancel()
	if db == nil {
		log.Warn().Msg("no database configured, only health routes are mounted")
	}
	if rdb == nil {
		log.Warn().Msg("no redis configured, sessions and health stats are disabled")
	}

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		log.Info().Msg("shutting down")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server running")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("listen")
	}
}
