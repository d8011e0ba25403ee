// Package create реализует HTTP-обработчик прямого коннекта инвестора
// со стартапом.
package create

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

// Handler обрабатывает HTTP-запросы на создание коннекта.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания коннекта.
type Service interface {
	Create(ctx context.Context, senderUID string, req models.DummyConnection) (*models.Connection, error)
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
// @Summary Создать коннект со стартапом
// @Description Создает прямой запрос инвестора к стартапу. Пара уникальна навсегда.
// @Tags Connections
// @Accept  json
// @Produce  json
// @Param request body models.DummyConnection true "Получатель коннекта"
// @Success 200 {object} map[string]any "Коннект создан"
// @Failure 400 {object} response.ErrorResponse "Коннект с этой парой уже существует"
// @Failure 403 {object} response.ErrorResponse "Отправитель не инвестор"
// @Failure 404 {object} response.ErrorResponse "Получатель не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /connections [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.connection.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyConnection
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

	conn, err := h.service.Create(r.Context(), senderUID, req)
	if err != nil {
		log.Error("failed to create connection", sl.Err(err))
		w.WriteHeader(response.HTTPStatus(err))
		render.JSON(w, r, response.FromError(err, "could not create connection"))
		return
	}

	log.Info("connection created", slog.Int("id", conn.ID))
	render.JSON(w, r, response.OKWithData(conn))
}
