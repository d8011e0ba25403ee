// Package pending реализует HTTP-обработчик выдачи входящих
// pending-запросов текущего пользователя в виде карточек отправителей.
package pending

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/venture-connect/internal/http/middlewarectx"
	"github.com/magabrotheeeer/venture-connect/internal/http/response"
	"github.com/magabrotheeeer/venture-connect/internal/lib/sl"
	"github.com/magabrotheeeer/venture-connect/internal/models"
)

// Handler обрабатывает HTTP-запросы на список входящих запросов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики входящих запросов.
type Service interface {
	ListPending(ctx context.Context, receiverUID string) ([]*models.Card, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Входящие запросы на взаимодействие
// @Description Возвращает карточки отправителей pending-запросов, адресованных текущему пользователю.
// @Tags Interactions
// @Produce  json
// @Success 200 {object} map[string]any "Карточки отправителей"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /interactions/pending [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.interaction.pending"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	receiverUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || receiverUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	cards, err := h.service.ListPending(r.Context(), receiverUID)
	if err != nil {
		log.Error("failed to list pending interactions", sl.Err(err))
		w.WriteHeader(response.HTTPStatus(err))
		render.JSON(w, r, response.FromError(err, "could not list pending interactions"))
		return
	}

	log.Info("pending interactions listed", slog.Int("count", len(cards)))
	render.JSON(w, r, response.OKWithData(cards))
}
