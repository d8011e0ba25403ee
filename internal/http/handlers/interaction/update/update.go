// Package update реализует HTTP-обработчик перехода статуса
// взаимодействия получателем: принятие или отклонение.
package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/venture-connect/internal/http/middlewarectx"
	"github.com/magabrotheeeer/venture-connect/internal/http/response"
	"github.com/magabrotheeeer/venture-connect/internal/lib/sl"
	"github.com/magabrotheeeer/venture-connect/internal/models"
)

// Handler обрабатывает HTTP-запросы на смену статуса взаимодействия.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики перехода статуса.
type Service interface {
	UpdateStatus(ctx context.Context, receiverUID string, id int, req models.DummyStatus) (*models.Interaction, error)
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
// @Summary Принять или отклонить запрос
// @Description Выполняет единственный переход pending-запроса. Доступно только получателю.
// @Tags Interactions
// @Accept  json
// @Produce  json
// @Param id path int true "ID взаимодействия"
// @Param request body models.DummyStatus true "Новый статус: accepted, rejected или expired"
// @Success 200 {object} map[string]any "Статус обновлен"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос или статус уже терминальный"
// @Failure 404 {object} response.ErrorResponse "Запрос не найден или адресован не вам"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /interactions/{id} [patch]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.interaction.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid interaction id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid interaction id"))
		return
	}

	var req models.DummyStatus
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	receiverUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || receiverUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	updated, err := h.service.UpdateStatus(r.Context(), receiverUID, id, req)
	if err != nil {
		log.Error("failed to update interaction status", sl.Err(err))
		w.WriteHeader(response.HTTPStatus(err))
		render.JSON(w, r, response.FromError(err, "could not update interaction status"))
		return
	}

	log.Info("interaction status updated",
		slog.Int("id", id), slog.String("status", updated.Status))
	render.JSON(w, r, response.OKWithData(updated))
}
