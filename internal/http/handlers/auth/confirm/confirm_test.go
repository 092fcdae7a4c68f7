package confirm

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	services "github.com/maksym-sk21/hw14WEB/internal/services/auth"
)

// MockService реализует интерфейс confirm.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ConfirmEmail(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func TestConfirmHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		token          string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "успешное подтверждение почты",
			token: "valid-email-token",
			setupMock: func(m *MockService) {
				m.On("ConfirmEmail", mock.Anything, "valid-email-token").Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"message":"email confirmed"`,
		},
		{
			name:  "невалидный токен подтверждения",
			token: "garbage",
			setupMock: func(m *MockService) {
				m.On("ConfirmEmail", mock.Anything, "garbage").Return(services.ErrInvalidCredentials)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"verification error"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/auth/confirmed_email/"+tt.token, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("token", tt.token)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
