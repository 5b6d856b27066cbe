// Package readlesson реализует HTTP-обработчик чтения урока курса.
//
// Повторяет контракт чтения публикации: при отказе тело урока скрыто,
// а уроки с флагом предпросмотра открыты всем.
package readlesson

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/insuracademy/entitlement-engine/internal/http/guard"
	"github.com/insuracademy/entitlement-engine/internal/http/middlewarectx"
	"github.com/insuracademy/entitlement-engine/internal/http/response"
	"github.com/insuracademy/entitlement-engine/internal/lib/sl"
	"github.com/insuracademy/entitlement-engine/internal/models"
	"github.com/insuracademy/entitlement-engine/internal/storage/repository"
)

// StateService описывает интерфейс загрузки состояния пользователя.
type StateService interface {
	LoadUserState(ctx context.Context, userUID string) (models.UserState, error)
}

// Service описывает интерфейс бизнес-логики чтения уроков.
type Service interface {
	ReadLesson(ctx context.Context, state models.UserState, id int) (*models.Lesson, models.Decision, error)
}

// Handler обрабатывает запросы на чтение урока.
type Handler struct {
	log     *slog.Logger
	states  StateService
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, states StateService, service Service) *Handler {
	return &Handler{
		log:     log,
		states:  states,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Чтение урока
// @Description Возвращает урок, если доступ разрешён. Урок с предпросмотром открыт всем.
// @Tags Content
// @Produce  json
// @Param id path int true "ID урока"
// @Success 200 {object} map[string]any "Урок"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Урок не найден"
// @Failure 503 {object} response.ErrorResponse "Состояние пользователя недоступно"
// @Security BearerAuth
// @Router /content/lessons/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.readlesson"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	userUID := middlewarectx.UserUIDFromContext(r.Context())
	state, err := h.states.LoadUserState(r.Context(), userUID)
	if err != nil {
		log.Error("failed to load user state", sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("user state unavailable, try again"))
		return
	}

	lesson, decision, err := h.service.ReadLesson(r.Context(), state, id)
	if err != nil {
		if errors.Is(err, repository.ErrLessonNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("lesson not found"))
			return
		}
		log.Error("failed to read lesson", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read lesson"))
		return
	}

	log.Info("lesson read", slog.Int("id", id), sl.Decision(decision))
	w.WriteHeader(guard.StatusCode(decision))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"lesson":      lesson,
		"decision":    decision,
		"remediation": guard.ForDecision(decision, r.URL.Path),
	}))
}
