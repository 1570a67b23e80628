// Package questions реализует HTTP-обработчик числа вопросов на странице вопросов Фикарума.
package questions

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fika-analyzer/internal/http/response"
	"github.com/magabrotheeeer/fika-analyzer/internal/lib/sl"
)

// Service считает вопросы.
type Service interface {
	GetNumberOfQuestions(ctx context.Context) (int, error)
}

// Handler обрабатывает GET /questions.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP возвращает число заголовков второго уровня на странице вопросов.
//
// @Summary Число вопросов
// @Tags metrics
// @Produce json
// @Success 200 {object} response.Response
// @Failure 502 {object} response.ErrorResponse
// @Router /questions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.fika.questions"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	n, err := h.service.GetNumberOfQuestions(r.Context())
	if err != nil {
		log.Error("failed to count questions", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("failed to count questions"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"questions": n,
	}))
}
