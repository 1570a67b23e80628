// Package invitees реализует HTTP-обработчик числа приглашённых в Фикарум.
package invitees

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fika-analyzer/internal/http/response"
	"github.com/magabrotheeeer/fika-analyzer/internal/lib/sl"
	services "github.com/magabrotheeeer/fika-analyzer/internal/services/fika"
)

// Service считает приглашённых.
type Service interface {
	GetNumberOfInvitees(ctx context.Context) (int64, error)
}

// Handler обрабатывает GET /invitees.
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

// ServeHTTP возвращает число страниц в категории приглашённых.
//
// @Summary Число приглашённых
// @Tags metrics
// @Produce json
// @Success 200 {object} response.Response
// @Failure 502 {object} response.ErrorResponse
// @Router /invitees [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.fika.invitees"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	n, err := h.service.GetNumberOfInvitees(r.Context())
	if err != nil {
		log.Error("failed to count invitees", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		msg := "failed to count invitees"
		if errors.Is(err, services.ErrUnexpectedCategoryShape) {
			msg = "unexpected category result"
		}
		render.JSON(w, r, response.Error(msg))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"invitees": n,
	}))
}
