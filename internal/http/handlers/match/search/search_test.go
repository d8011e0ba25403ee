package search

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/venture-connect/internal/models"
)

// MockService реализует интерфейс search.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Search(ctx context.Context, filter models.SearchFilter) ([]*models.Card, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Card), args.Error(1)
}

func TestSearchHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		query          string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "успешный поиск по фильтрам",
			query: "?industry=fintech&investor_type=angel&stage=seed",
			setupMock: func(m *MockService) {
				m.On("Search", mock.Anything, mock.MatchedBy(func(f models.SearchFilter) bool {
					return f.Industry != nil && *f.Industry == "fintech" &&
						f.InvestorType != nil && *f.InvestorType == "angel" &&
						f.Stage != nil && *f.Stage == "seed"
				})).Return([]*models.Card{{ID: "11111111-1111-1111-1111-111111111111"}}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"11111111-1111-1111-1111-111111111111"`,
		},
		{
			name:           "неизвестный тип инвестора",
			query:          "?investor_type=hedgefund",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid search filter`,
		},
		{
			name:           "неизвестная стадия",
			query:          "?stage=unicorn",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid search filter`,
		},
		{
			name:           "нечисловая граница чека",
			query:          "?min_investment=ten",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid search filter`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			tt.setupMock(service)

			handler := New(logger, service)
			req := httptest.NewRequest(http.MethodGet, "/investors/search"+tt.query, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())
			service.AssertExpectations(t)
		})
	}
}
