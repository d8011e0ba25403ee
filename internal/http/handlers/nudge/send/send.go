// Package send реализует HTTP-обработчик отправки наджа стартапом
// инвестору в рамках купленной квоты.
package send

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/venture-connect/internal/http/middlewarectx"
	"github.com/magabrotheeeer/venture-connect/internal/http/response"
	"github.com/magabrotheeeer/venture-connect/internal/lib/sl"
	"github.com/magabrotheeeer/venture-connect/internal/models"
)

// Handler обрабатывает HTTP-запросы на отправку наджа.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики отправки наджа.
type Service interface {
	Send(ctx context.Context, senderUID string, req models.DummyNudge) (*models.Nudge, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Отправить надж инвестору
// @Description Расходует один надж из квоты и создает коннект со стартапом, если его еще нет.
// @Tags Nudges
// @Accept  json
// @Produce  json
// @Param request body models.DummyNudge true "Получатель наджа"
// @Success 200 {object} map[string]any "Надж отправлен"
// @Failure 400 {object} response.ErrorResponse "Квота исчерпана, повторный надж или отклоненный коннект"
// @Failure 403 {object} response.ErrorResponse "Отправитель не стартап"
// @Failure 404 {object} response.ErrorResponse "Получатель не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /nudges [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.nudge.send"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyNudge
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	senderUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || senderUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	nudge, err := h.service.Send(r.Context(), senderUID, req)
	if err != nil {
		log.Error("failed to send nudge", sl.Err(err))
		w.WriteHeader(response.HTTPStatus(err))
		render.JSON(w, r, response.FromError(err, "could not send nudge"))
		return
	}

	log.Info("nudge sent", slog.Int("id", nudge.ID))
	render.JSON(w, r, response.OKWithData(nudge))
}
