// Package find реализует HTTP-обработчик мягкого подбора инвесторов
// под профиль текущего стартапа.
package find

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

// Handler обрабатывает HTTP-запросы на подбор инвесторов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики подбора.
type Service interface {
	FindMatches(ctx context.Context, userUID string) ([]*models.Card, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Подбор инвесторов
// @Description Возвращает карточки инвесторов, подходящих под профиль текущего стартапа. Критерии объединяются мягко, расширяя выдачу.
// @Tags Matching
// @Produce  json
// @Success 200 {object} map[string]any "Карточки инвесторов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Пользователь не стартап"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /matches [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.match.find"

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

	cards, err := h.service.FindMatches(r.Context(), userUID)
	if err != nil {
		log.Error("failed to find matches", sl.Err(err))
		w.WriteHeader(response.HTTPStatus(err))
		render.JSON(w, r, response.FromError(err, "could not find matches"))
		return
	}

	log.Info("matches found", slog.Int("count", len(cards)))
	render.JSON(w, r, response.OKWithData(cards))
}
