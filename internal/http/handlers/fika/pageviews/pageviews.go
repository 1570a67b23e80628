// Package pageviews реализует HTTP-обработчик суммы просмотров страницы.
//
// Параметры берутся из query-строки, проверяются валидатором и передаются
// сервису. Ошибка обращения к API Википедии возвращается как 502.
package pageviews

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/fika-analyzer/internal/http/response"
	"github.com/magabrotheeeer/fika-analyzer/internal/lib/sl"
	"github.com/magabrotheeeer/fika-analyzer/internal/models"
)

// Service считает просмотры.
type Service interface {
	GetPageviews(ctx context.Context, req models.MetricsRequest) (int64, error)
}

// Query параметры запроса.
type Query struct {
	Project     string `validate:"required,hostname_rfc1123"`
	Page        string `validate:"required"`
	Start       string `validate:"required,numeric,len=8"`
	End         string `validate:"required,numeric,len=8"`
	Access      string `validate:"omitempty,oneof=all-access desktop mobile-app mobile-web"`
	Agent       string `validate:"omitempty,oneof=all-agents user spider automated"`
	Granularity string `validate:"omitempty,oneof=daily monthly"`
}

// Handler обрабатывает GET /pageviews.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP возвращает сумму просмотров за период.
//
// @Summary Просмотры страницы
// @Description Сумма просмотров страницы за период по REST API Wikimedia
// @Tags metrics
// @Produce json
// @Param project query string true "Проект вики" example(sv.wikipedia.org)
// @Param page query string true "Название страницы"
// @Param start query string true "Дата начала YYYYMMDD"
// @Param end query string true "Дата окончания YYYYMMDD"
// @Param access query string false "Тип доступа" Enums(all-access, desktop, mobile-app, mobile-web)
// @Param agent query string false "Тип агента" Enums(all-agents, user, spider, automated)
// @Param granularity query string false "Гранулярность" Enums(daily, monthly)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse
// @Router /pageviews [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.fika.pageviews"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	values := r.URL.Query()
	q := Query{
		Project:     values.Get("project"),
		Page:        values.Get("page"),
		Start:       values.Get("start"),
		End:         values.Get("end"),
		Access:      values.Get("access"),
		Agent:       values.Get("agent"),
		Granularity: values.Get("granularity"),
	}

	if err := h.validate.Struct(q); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	req := models.MetricsRequest{
		Project:     q.Project,
		Page:        q.Page,
		StartDate:   q.Start,
		EndDate:     q.End,
		Access:      q.Access,
		Agent:       q.Agent,
		Granularity: q.Granularity,
	}.WithDefaults()

	views, err := h.service.GetPageviews(r.Context(), req)
	if err != nil {
		log.Error("failed to fetch pageviews", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("failed to fetch pageviews"))
		return
	}

	log.Info("pageviews calculated", slog.String("page", req.Page), slog.Int64("pageviews", views))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"project":     req.Project,
		"page":        req.Page,
		"start":       req.StartDate,
		"end":         req.EndDate,
		"access":      req.Access,
		"agent":       req.Agent,
		"granularity": req.Granularity,
		"pageviews":   views,
	}))
}
