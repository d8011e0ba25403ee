// Package list реализует HTTP-обработчик выдачи принятых
// взаимодействий текущего пользователя в виде карточек контрагентов.
package list

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

// Handler обрабатывает HTTP-запросы на список принятых взаимодействий.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка взаимодействий.
type Service interface {
	ListAccepted(ctx context.Context, userUID string) ([]*models.Card, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список принятых взаимодействий
// @Description Возвращает карточки контрагентов по принятым взаимодействиям. Просроченные pending-записи предварительно переводятся в expired.
// @Tags Interactions
// @Produce  json
// @Success 200 {object} map[string]any "Карточки контрагентов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /interactions [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.interaction.list"

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

	cards, err := h.service.ListAccepted(r.Context(), userUID)
	if err != nil {
		log.Error("failed to list interactions", sl.Err(err))
		w.WriteHeader(response.HTTPStatus(err))
		render.JSON(w, r, response.FromError(err, "could not list interactions"))
		return
	}

	log.Info("interactions listed", slog.Int("count", len(cards)))
	render.JSON(w, r, response.OKWithData(cards))
}
