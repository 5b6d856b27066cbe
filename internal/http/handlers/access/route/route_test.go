package route

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/insuracademy/entitlement-engine/internal/models"
	"github.com/insuracademy/entitlement-engine/internal/services/access"
)

// MockService реализует интерфейс route.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) LoadUserState(ctx context.Context, userUID string) (models.UserState, error) {
	args := m.Called(ctx, userUID)
	return args.Get(0).(models.UserState), args.Error(1)
}

func (m *MockService) CheckRoute(ctx context.Context, state models.UserState, routeName string) (models.Decision, error) {
	args := m.Called(ctx, state, routeName)
	return args.Get(0).(models.Decision), args.Error(1)
}

func TestRouteHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	memberState := models.UserState{
		IsAuthenticated: true,
		IsActive:        true,
		Roles:           []string{models.RoleAgent},
		Subscription:    &models.Subscription{Subscribed: true, Tier: "core"},
	}

	tests := []struct {
		name           string
		routeName      string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:      "доступ разрешён",
			routeName: "library",
			setupMock: func(m *MockService) {
				m.On("LoadUserState", mock.Anything, "").Return(memberState, nil)
				m.On("CheckRoute", mock.Anything, memberState, "library").Return(models.Allow(), nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"allowed":true`,
		},
		{
			name:      "аноним получает подсказку войти",
			routeName: "library",
			setupMock: func(m *MockService) {
				m.On("LoadUserState", mock.Anything, "").Return(models.UserState{}, nil)
				m.On("CheckRoute", mock.Anything, models.UserState{}, "library").
					Return(models.Deny(models.ReasonNotAuthenticated), nil)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"action":"sign_in"`,
		},
		{
			name:      "низкий уровень предлагает апгрейд",
			routeName: "analytics",
			setupMock: func(m *MockService) {
				m.On("LoadUserState", mock.Anything, "").Return(memberState, nil)
				m.On("CheckRoute", mock.Anything, memberState, "analytics").
					Return(models.DenyTierTooLow("enhanced", "core"), nil)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `"required_tier":"enhanced"`,
		},
		{
			name:      "необъявленный маршрут",
			routeName: "ghost",
			setupMock: func(m *MockService) {
				m.On("LoadUserState", mock.Anything, "").Return(models.UserState{}, nil)
				m.On("CheckRoute", mock.Anything, models.UserState{}, "ghost").
					Return(models.Decision{}, fmt.Errorf("access.CheckRoute: %w", access.ErrUnknownRoute))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"unknown route"`,
		},
		{
			name:      "состояние пользователя недоступно",
			routeName: "library",
			setupMock: func(m *MockService) {
				m.On("LoadUserState", mock.Anything, "").
					Return(models.UserState{}, fmt.Errorf("access.LoadUserState: %w", access.ErrStateUnavailable))
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `"error":"user state unavailable, try again"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/access/routes/"+tt.routeName, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("name", tt.routeName)
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
