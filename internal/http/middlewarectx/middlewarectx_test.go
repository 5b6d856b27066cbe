package middlewarectx_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/insuracademy/entitlement-engine/internal/http/middlewarectx"
	"github.com/insuracademy/entitlement-engine/internal/lib/jwt"
	"github.com/insuracademy/entitlement-engine/internal/models"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func mustToken(t *testing.T, maker jwt.Maker) string {
	t.Helper()
	token, err := maker.GenerateToken("agent1", "uid-1", []string{models.RoleAgent})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

func TestJWTMiddleware(t *testing.T) {
	maker := jwt.NewMaker("test-secret", time.Hour)

	tests := []struct {
		name           string
		authHeader     string
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "отсутствует заголовок Authorization",
			authHeader:     "",
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "неверный префикс заголовка",
			authHeader:     "Basic sometoken",
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "невалидный токен",
			authHeader:     "Bearer garbage",
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "валидный токен",
			authHeader:     "Bearer " + mustToken(t, maker),
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				assert.Equal(t, "uid-1", r.Context().Value(middlewarectx.UserUID))
				assert.Equal(t, "agent1", r.Context().Value(middlewarectx.Username))
				assert.Equal(t, []string{models.RoleAgent}, r.Context().Value(middlewarectx.Roles))
				w.WriteHeader(http.StatusOK)
			})

			mw := middlewarectx.JWTMiddleware(maker, newNoopLogger())(nextHandler)

			req := httptest.NewRequest(http.MethodGet, "/somepath", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			mw.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
		})
	}
}

func TestSessionMiddleware_AnonymousPassesThrough(t *testing.T) {
	maker := jwt.NewMaker("test-secret", time.Hour)

	tests := []struct {
		name       string
		authHeader string
		wantUID    string
	}{
		{name: "без заголовка — аноним", authHeader: "", wantUID: ""},
		{name: "мусорный токен — аноним", authHeader: "Bearer garbage", wantUID: ""},
		{name: "валидный токен — uid в контексте", authHeader: "Bearer " + mustToken(t, maker), wantUID: "uid-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				assert.Equal(t, tt.wantUID, middlewarectx.UserUIDFromContext(r.Context()))
				w.WriteHeader(http.StatusOK)
			})

			mw := middlewarectx.SessionMiddleware(maker, newNoopLogger())(nextHandler)

			req := httptest.NewRequest(http.MethodGet, "/somepath", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			mw.ServeHTTP(rec, req)

			assert.True(t, handlerCalled)
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}
