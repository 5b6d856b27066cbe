// Package readpost реализует HTTP-обработчик чтения публикации.
//
// Handler извлекает ID из URL, загружает состояние пользователя и отдаёт
// публикацию. При отказе тело публикации не возвращается: клиент получает
// заглушку с заголовком и подсказку, как получить доступ.
package readpost

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

// Service описывает интерфейс бизнес-логики чтения публикаций.
type Service interface {
	ReadPost(ctx context.Context, state models.UserState, id int) (*models.ContentPost, models.Decision, error)
}

// Handler обрабатывает запросы на чтение публикации.
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
// @Summary Чтение публикации
// @Description Возвращает публикацию, если доступ разрешён. При отказе тело скрыто, возвращается подсказка.
// @Tags Content
// @Produce  json
// @Param id path int true "ID публикации"
// @Success 200 {object} map[string]any "Публикация"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Публикация не найдена"
// @Failure 503 {object} response.ErrorResponse "Состояние пользователя недоступно"
// @Security BearerAuth
// @Router /content/posts/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.readpost"

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

	post, decision, err := h.service.ReadPost(r.Context(), state, id)
	if err != nil {
		if errors.Is(err, repository.ErrContentNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("post not found"))
			return
		}
		log.Error("failed to read post", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read post"))
		return
	}

	log.Info("post read", slog.Int("id", id), sl.Decision(decision))
	w.WriteHeader(guard.StatusCode(decision))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"post":        post,
		"decision":    decision,
		"remediation": guard.ForDecision(decision, r.URL.Path),
	}))
}
