// Package send реализует HTTP-обработчик отправки запроса на
// взаимодействие между инвестором и стартапом.
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

// Handler обрабатывает HTTP-запросы на отправку взаимодействия.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики отправки взаимодействия.
type Service interface {
	Send(ctx context.Context, senderUID string, req models.DummyInteraction) (int, error)
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
// @Summary Отправить запрос на взаимодействие
// @Description Создает pending-запрос к контрагенту. Живой запрос между парой может быть только один.
// @Tags Interactions
// @Accept  json
// @Produce  json
// @Param request body models.DummyInteraction true "Данные запроса"
// @Success 200 {object} map[string]any "Запрос создан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или конфликт пары"
// @Failure 403 {object} response.ErrorResponse "Недопустимая пара ролей"
// @Failure 404 {object} response.ErrorResponse "Получатель не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /interactions [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.interaction.send"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyInteraction
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
	log.Info("all fields are validated")

	senderUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || senderUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id, err := h.service.Send(r.Context(), senderUID, req)
	if err != nil {
		log.Error("failed to send interaction", sl.Err(err))
		w.WriteHeader(response.HTTPStatus(err))
		render.JSON(w, r, response.FromError(err, "could not send interaction"))
		return
	}

	log.Info("interaction sent", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"interaction_id": id,
	}))
}
