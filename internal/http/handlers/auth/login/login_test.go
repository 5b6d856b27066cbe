package login

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/insuracademy/entitlement-engine/internal/services/auth"
)

// MockService реализует интерфейс login.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Login(ctx context.Context, username, rawPassword string) (string, []string, error) {
	args := m.Called(ctx, username, rawPassword)
	var roles []string
	if args.Get(1) != nil {
		roles = args.Get(1).([]string)
	}
	return args.String(0), roles, args.Error(2)
}

func TestLoginHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешный вход",
			body: `{"username":"agent1","password":"pass123456"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "agent1", "pass123456").
					Return("signed.jwt.token", []string{"agent"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"token":"signed.jwt.token"`,
		},
		{
			name: "неверные учетные данные",
			body: `{"username":"agent1","password":"wrongpass"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "agent1", "wrongpass").
					Return("", nil, fmt.Errorf("auth.Login: %w", auth.ErrInvalidCredentials))
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"invalid credentials"`,
		},
		{
			name: "деактивированная учётная запись",
			body: `{"username":"agent1","password":"pass123456"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "agent1", "pass123456").
					Return("", nil, fmt.Errorf("auth.Login: %w", auth.ErrAccountDeactivated))
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `"error":"account is deactivated, contact support"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{not json`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:           "короткий пароль",
			body:           `{"username":"agent1","password":"123"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Password`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
