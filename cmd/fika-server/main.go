// Package main Fika Analyzer API
//
// @title           Fika Analyzer API
// @version         1.0
// @description     Метрики Фикарума шведской Википедии: просмотры, вопросы и приглашённые

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	fikaserver "github.com/magabrotheeeer/fika-analyzer/internal/app/fika-server"
	"github.com/magabrotheeeer/fika-analyzer/internal/config"
	"github.com/magabrotheeeer/fika-analyzer/internal/lib/logger"
	"github.com/magabrotheeeer/fika-analyzer/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env, os.Stdout)

	log.Info("starting fika-server", slog.String("env", cfg.Env))
	log.Debug("debug messages are enabled")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := fikaserver.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	log.Info("fika-server stopped gracefully")
}
