// Package received реализует HTTP-обработчик выдачи наджей,
// адресованных текущему пользователю, с карточками отправителей.
package received

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/venture-connect/internal/http/middlewarectx"
	"github.com/magabrotheeeer/venture-connect/internal/http/response"
	"github.com/magabrotheeeer/venture-connect/internal/lib/sl"
	"github.com/magabrotheeeer/venture-connect/internal/services/nudge"
)

// Handler обрабатывает HTTP-запросы на список полученных наджей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики полученных наджей.
type Service interface {
	Received(ctx context.Context, userUID string) ([]*nudge.NudgeCard, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Полученные наджи
// @Description Возвращает наджи, адресованные текущему пользователю, вместе с карточками отправителей.
// @Tags Nudges
// @Produce  json
// @Success 200 {object} map[string]any "Наджи с карточками"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /nudges/received [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.nudge.received"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	items, err := h.service.Received(r.Context(), userUID)
	if err != nil {
		log.Error("failed to list received nudges", sl.Err(err))
		w.WriteHeader(response.HTTPStatus(err))
		render.JSON(w, r, response.FromError(err, "could not list received nudges"))
		return
	}

	log.Info("received nudges listed", slog.Int("count", len(items)))
	render.JSON(w, r, response.OKWithData(items))
}
