// Package fikaserver HTTP-сервер метрик Фикарума.
package fikaserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/magabrotheeeer/fika-analyzer/internal/app/wiring"
	"github.com/magabrotheeeer/fika-analyzer/internal/config"
	"github.com/magabrotheeeer/fika-analyzer/internal/lib/sl"
	"github.com/magabrotheeeer/fika-analyzer/internal/metrics"
	schedulerservice "github.com/magabrotheeeer/fika-analyzer/internal/services/scheduler"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	server    *http.Server
	logger    *slog.Logger
	deps      *wiring.Deps
	scheduler *schedulerservice.SchedulerService
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	deps, err := wiring.Build(ctx, cfg, logger, metrics.New(reg))
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg.HTTPServer, deps.Service, reg)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:    srv,
		logger:    logger,
		deps:      deps,
		scheduler: schedulerservice.NewSchedulerService(deps.Service, cfg.Wiki.RefreshInterval, logger),
	}, nil
}

// Handler возвращает роутер приложения.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run слушает адрес до отмены ctx, затем мягко останавливает сервер.
// Зависимости закрываются только после остановки планировщика.
func (a *App) Run(ctx context.Context) error {
	schedCtx, stopScheduler := context.WithCancel(ctx)
	defer stopScheduler()

	schedDone := make(chan struct{})
	go func() {
		defer close(schedDone)
		a.scheduler.Run(schedCtx)
	}()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err = a.server.Shutdown(timeoutCtx)
	}

	stopScheduler()
	<-schedDone
	a.closeDeps()
	return err
}

func (a *App) closeDeps() {
	if err := a.deps.Close(); err != nil {
		a.logger.Error("failed to close dependencies", sl.Err(err))
	}
}
