// Package webhook реализует HTTP-обработчик вебхука платёжного
// провайдера о статусе оплаты пакета наджей.
package webhook

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/venture-connect/internal/http/response"
	"github.com/magabrotheeeer/venture-connect/internal/lib/sl"
)

// Request — уведомление провайдера о событии платежа.
type Request struct {
	Event  string `json:"event"`
	Object struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"object"`
}

// Handler обрабатывает вебхуки платёжного провайдера.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс подтверждения покупки.
type Service interface {
	ConfirmPurchase(ctx context.Context, paymentID string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Вебхук платёжного провайдера
// @Description Подтверждает оплату пакета наджей и начисляет квоту. Повторная доставка события безопасна.
// @Tags Nudges
// @Accept  json
// @Produce  json
// @Param request body Request true "Событие платежа"
// @Success 200 {object} map[string]any "Событие обработано"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /payments/webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.nudge.webhook"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode webhook body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("webhook received",
		slog.String("event", req.Event), slog.String("payment_id", req.Object.ID))

	if req.Event == "payment.succeeded" || req.Object.Status == "succeeded" {
		if err := h.service.ConfirmPurchase(r.Context(), req.Object.ID); err != nil {
			log.Error("failed to confirm purchase", sl.Err(err))
			w.WriteHeader(response.HTTPStatus(err))
			render.JSON(w, r, response.FromError(err, "could not confirm purchase"))
			return
		}
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"payment_id": req.Object.ID,
	}))
}
