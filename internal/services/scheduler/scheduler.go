// Package services содержит планировщик, который периодически пересобирает
// отчёт по Фикаруму, чтобы метрики Prometheus оставались свежими.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/fika-analyzer/internal/lib/sl"
	"github.com/magabrotheeeer/fika-analyzer/internal/models"
)

// Reporter собирает отчёт.
type Reporter interface {
	Report(ctx context.Context, end time.Time) (*models.Report, error)
}

type SchedulerService struct {
	reporter Reporter
	interval time.Duration
	log      *slog.Logger
	now      func() time.Time
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(reporter Reporter, interval time.Duration, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		reporter: reporter,
		interval: interval,
		log:      log,
		now:      time.Now,
	}
}

// Run собирает отчёт сразу и затем каждые interval до отмены ctx.
// Ошибки сборки только логируются.
func (s *SchedulerService) Run(ctx context.Context) {
	if s.interval <= 0 {
		s.log.Info("report refresh disabled")
		return
	}

	s.refresh(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("report refresh stopped")
			return
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *SchedulerService) refresh(ctx context.Context) {
	rep, err := s.reporter.Report(ctx, s.now())
	if err != nil {
		s.log.Error("failed to refresh report", sl.Err(err))
		return
	}
	s.log.Info("report refreshed",
		slog.String("report_id", rep.ID.String()),
		slog.Int("questions", rep.Questions),
		slog.Int64("invitees", rep.Invitees),
	)
}
