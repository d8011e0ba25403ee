// Package list реализует HTTP-обработчик выдачи коннектов с участием
// текущего пользователя.
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

// Handler обрабатывает HTTP-запросы на список коннектов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка коннектов.
type Service interface {
	List(ctx context.Context, userUID string) ([]*models.Connection, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список коннектов
// @Description Возвращает коннекты с участием текущего пользователя с любой стороны.
// @Tags Connections
// @Produce  json
// @Success 200 {object} map[string]any "Список коннектов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /connections [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.connection.list"

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

	connections, err := h.service.List(r.Context(), userUID)
	if err != nil {
		log.Error("failed to list connections", sl.Err(err))
		w.WriteHeader(response.HTTPStatus(err))
		render.JSON(w, r, response.FromError(err, "could not list connections"))
		return
	}

	log.Info("connections listed", slog.Int("count", len(connections)))
	render.JSON(w, r, response.OKWithData(connections))
}
