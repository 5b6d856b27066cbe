// Package route реализует HTTP-обработчик проверки доступа к именованному
// маршруту платформы.
//
// Handler извлекает имя маршрута из URL, загружает состояние пользователя,
// применяет требования маршрута и возвращает решение вместе с подсказкой,
// что сделать пользователю при отказе.
package route

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/insuracademy/entitlement-engine/internal/http/guard"
	"github.com/insuracademy/entitlement-engine/internal/http/middlewarectx"
	"github.com/insuracademy/entitlement-engine/internal/http/response"
	"github.com/insuracademy/entitlement-engine/internal/lib/sl"
	"github.com/insuracademy/entitlement-engine/internal/models"
	"github.com/insuracademy/entitlement-engine/internal/services/access"
)

// Service описывает интерфейс бизнес-логики проверки доступа к маршруту.
type Service interface {
	LoadUserState(ctx context.Context, userUID string) (models.UserState, error)
	CheckRoute(ctx context.Context, state models.UserState, routeName string) (models.Decision, error)
}

// Handler обрабатывает запросы на проверку доступа к маршруту.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Проверка доступа к маршруту
// @Description Применяет требования именованного маршрута к текущему пользователю. Возвращает решение и подсказку при отказе.
// @Tags Access
// @Produce  json
// @Param name path string true "Имя маршрута"
// @Param return_to query string false "Адрес возврата после входа"
// @Success 200 {object} map[string]any "Доступ разрешён"
// @Failure 401 {object} response.ErrorResponse "Нет сессии"
// @Failure 403 {object} response.ErrorResponse "Доступ запрещён"
// @Failure 404 {object} response.ErrorResponse "Маршрут не объявлен"
// @Failure 503 {object} response.ErrorResponse "Состояние пользователя недоступно"
// @Security BearerAuth
// @Router /access/routes/{name} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.access.route"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	routeName := chi.URLParam(r, "name")
	userUID := middlewarectx.UserUIDFromContext(r.Context())

	state, err := h.service.LoadUserState(r.Context(), userUID)
	if err != nil {
		// Частичное состояние не попадает в резолвер: доступ закрыт,
		// клиент показывает ошибку с повтором.
		log.Error("failed to load user state", sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("user state unavailable, try again"))
		return
	}

	decision, err := h.service.CheckRoute(r.Context(), state, routeName)
	if err != nil {
		if errors.Is(err, access.ErrUnknownRoute) {
			log.Error("unknown route requested", slog.String("route", routeName))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("unknown route"))
			return
		}
		log.Error("failed to check route access", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not check access"))
		return
	}

	returnTo := r.URL.Query().Get("return_to")
	if returnTo == "" {
		returnTo = "/" + routeName
	}

	log.Info("route access checked",
		slog.String("route", routeName),
		sl.Decision(decision))
	w.WriteHeader(guard.StatusCode(decision))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"route":       routeName,
		"decision":    decision,
		"remediation": guard.ForDecision(decision, returnTo),
	}))
}
