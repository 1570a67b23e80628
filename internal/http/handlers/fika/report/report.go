// Package report реализует HTTP-обработчик сводного отчёта по Фикаруму.
package report

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fika-analyzer/internal/http/response"
	"github.com/magabrotheeeer/fika-analyzer/internal/lib/sl"
	"github.com/magabrotheeeer/fika-analyzer/internal/models"
)

// Service собирает отчёт.
type Service interface {
	Report(ctx context.Context, end time.Time) (*models.Report, error)
}

// Handler обрабатывает GET /report.
type Handler struct {
	log     *slog.Logger
	service Service
	now     func() time.Time
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		now:     time.Now,
	}
}

// ServeHTTP собирает отчёт по состоянию на end (по умолчанию сегодня).
//
// @Summary Сводный отчёт
// @Description Просмотры главной страницы и страницы вопросов, число вопросов и приглашённых
// @Tags metrics
// @Produce json
// @Param end query string false "Дата окончания YYYYMMDD"
// @Success 200 {object} response.Response{data=models.Report}
// @Failure 400 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse
// @Router /report [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.fika.report"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	end := h.now()
	if raw := r.URL.Query().Get("end"); raw != "" {
		parsed, err := time.Parse(models.DateLayout, raw)
		if err != nil {
			log.Error("failed to parse end date", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("field end must be a date in format YYYYMMDD"))
			return
		}
		end = parsed
	}

	rep, err := h.service.Report(r.Context(), end)
	if err != nil {
		log.Error("failed to build report", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("failed to build report"))
		return
	}

	log.Info("report built", slog.String("report_id", rep.ID.String()))
	render.JSON(w, r, response.OKWithData(rep))
}
