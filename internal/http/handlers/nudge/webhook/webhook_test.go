package webhook

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockService реализует интерфейс webhook.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ConfirmPurchase(ctx context.Context, paymentID string) error {
	return m.Called(ctx, paymentID).Error(0)
}

func TestWebhookHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешная оплата подтверждается",
			body: `{"event":"payment.succeeded","object":{"id":"pay-1","status":"succeeded"}}`,
			setupMock: func(m *MockService) {
				m.On("ConfirmPurchase", mock.Anything, "pay-1").Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"payment_id":"pay-1"`,
		},
		{
			name:           "событие отмены игнорируется",
			body:           `{"event":"payment.canceled","object":{"id":"pay-2","status":"canceled"}}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusOK,
			expectedBody:   `"payment_id":"pay-2"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{not json`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"invalid request body"`,
		},
		{
			name: "ошибка подтверждения",
			body: `{"event":"payment.succeeded","object":{"id":"pay-3","status":"succeeded"}}`,
			setupMock: func(m *MockService) {
				m.On("ConfirmPurchase", mock.Anything, "pay-3").Return(errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `could not confirm purchase`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/payments/webhook", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
