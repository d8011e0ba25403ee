// Package history реализует HTTP-обработчик выдачи инвестору истории
// его наджей и коннектов.
package history

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

// Handler обрабатывает HTTP-запросы на историю наджей и коннектов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики истории инвестора.
type Service interface {
	InvestorHistory(ctx context.Context, userUID string) (*nudge.History, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary История наджей и коннектов инвестора
// @Description Возвращает полученные наджи и все коннекты с участием текущего инвестора.
// @Tags Nudges
// @Produce  json
// @Success 200 {object} map[string]any "История наджей и коннектов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Пользователь не инвестор"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /nudges/history [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.nudge.history"

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

	result, err := h.service.InvestorHistory(r.Context(), userUID)
	if err != nil {
		log.Error("failed to get history", sl.Err(err))
		w.WriteHeader(response.HTTPStatus(err))
		render.JSON(w, r, response.FromError(err, "could not get history"))
		return
	}

	log.Info("history listed",
		slog.Int("nudges", len(result.Nudges)),
		slog.Int("connections", len(result.Connections)))
	render.JSON(w, r, response.OKWithData(result))
}
