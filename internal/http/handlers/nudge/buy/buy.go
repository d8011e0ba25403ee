// Package buy реализует HTTP-обработчик покупки пакета наджей через
// платёжного провайдера.
package buy

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

// Handler обрабатывает HTTP-запросы на покупку пакета наджей.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики покупки наджей.
type Service interface {
	Buy(ctx context.Context, userUID string, req models.DummyBuyNudges) (*models.NudgePurchase, error)
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
// @Summary Купить пакет наджей
// @Description Создает платеж за фиксированный пакет наджей: 10, 25 или 50.
// @Tags Nudges
// @Accept  json
// @Produce  json
// @Param request body models.DummyBuyNudges true "Размер пакета и платёжный токен"
// @Success 200 {object} map[string]any "Покупка создана"
// @Failure 400 {object} response.ErrorResponse "Недопустимый размер пакета"
// @Failure 403 {object} response.ErrorResponse "Покупатель не стартап"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка платежа или сервера"
// @Router /nudges/buy [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.nudge.buy"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyBuyNudges
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Int("quantity", req.Quantity))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	purchase, err := h.service.Buy(r.Context(), userUID, req)
	if err != nil {
		log.Error("failed to buy nudges", sl.Err(err))
		w.WriteHeader(response.HTTPStatus(err))
		render.JSON(w, r, response.FromError(err, "could not buy nudges"))
		return
	}

	log.Info("nudge purchase created", slog.Int("id", purchase.ID))
	render.JSON(w, r, response.OKWithData(purchase))
}
