// Package search реализует HTTP-обработчик строгого поиска инвесторов
// по явным фильтрам из query-параметров.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/venture-connect/internal/http/response"
	"github.com/magabrotheeeer/venture-connect/internal/lib/sl"
	"github.com/magabrotheeeer/venture-connect/internal/models"
)

// Handler обрабатывает HTTP-запросы на поиск инвесторов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики поиска.
type Service interface {
	Search(ctx context.Context, filter models.SearchFilter) ([]*models.Card, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Поиск инвесторов
// @Description Возвращает карточки инвесторов по явным фильтрам. Присутствующие фильтры объединяются строго.
// @Tags Matching
// @Produce  json
// @Param industry query string false "Индустрия"
// @Param investor_type query string false "Тип инвестора: angel, vc, corporate"
// @Param country query string false "Страна"
// @Param city query string false "Город"
// @Param min_investment query int false "Нижняя граница чека"
// @Param max_investment query int false "Верхняя граница чека"
// @Param stage query string false "Стадия"
// @Success 200 {object} map[string]any "Карточки инвесторов"
// @Failure 400 {object} response.ErrorResponse "Некорректные параметры"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /investors/search [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.match.search"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	filter, err := parseFilter(r)
	if err != nil {
		log.Error("invalid search filter", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid search filter"))
		return
	}

	cards, err := h.service.Search(r.Context(), filter)
	if err != nil {
		log.Error("failed to search investors", sl.Err(err))
		w.WriteHeader(response.HTTPStatus(err))
		render.JSON(w, r, response.FromError(err, "could not search investors"))
		return
	}

	log.Info("investors found", slog.Int("count", len(cards)))
	render.JSON(w, r, response.OKWithData(cards))
}

// Допустимые значения перечислимых фильтров.
var (
	investorTypes = map[string]bool{"angel": true, "vc": true, "corporate": true}
	startupStages = map[string]bool{"idea": true, "mvp": true, "seed": true, "growth": true}
)

func parseFilter(r *http.Request) (models.SearchFilter, error) {
	var filter models.SearchFilter
	q := r.URL.Query()

	setString := func(dst **string, name string) {
		if v := q.Get(name); v != "" {
			value := v
			*dst = &value
		}
	}
	setString(&filter.Industry, "industry")
	setString(&filter.InvestorType, "investor_type")
	setString(&filter.Country, "country")
	setString(&filter.City, "city")
	setString(&filter.Stage, "stage")

	if filter.InvestorType != nil && !investorTypes[*filter.InvestorType] {
		return filter, fmt.Errorf("unknown investor_type %q", *filter.InvestorType)
	}
	if filter.Stage != nil && !startupStages[*filter.Stage] {
		return filter, fmt.Errorf("unknown stage %q", *filter.Stage)
	}

	if v := q.Get("min_investment"); v != "" {
		value, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, err
		}
		filter.MinInvestment = &value
	}
	if v := q.Get("max_investment"); v != "" {
		value, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, err
		}
		filter.MaxInvestment = &value
	}
	return filter, nil
}
