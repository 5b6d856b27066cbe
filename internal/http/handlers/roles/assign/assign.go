// Package assign реализует HTTP-обработчик назначения роли пользователю.
//
// Операция доступна только администратору. Назначение замещает весь набор
// ролей пользователя указанной ролью.
package assign

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/insuracademy/entitlement-engine/internal/http/middlewarectx"
	"github.com/insuracademy/entitlement-engine/internal/http/response"
	"github.com/insuracademy/entitlement-engine/internal/lib/sl"
	"github.com/insuracademy/entitlement-engine/internal/models"
	"github.com/insuracademy/entitlement-engine/internal/services/roles"
	"github.com/insuracademy/entitlement-engine/internal/storage/repository"
)

// Request — структура входных данных для назначения роли.
type Request struct {
	Role string `json:"role" validate:"required,min=3,max=50"`
}

// StateService описывает интерфейс загрузки состояния пользователя.
type StateService interface {
	LoadUserState(ctx context.Context, userUID string) (models.UserState, error)
}

// Service описывает интерфейс бизнес-логики назначения ролей.
type Service interface {
	AssignRole(ctx context.Context, actor models.UserState, targetUID, role string) error
}

// Handler обрабатывает запросы на назначение роли.
type Handler struct {
	log      *slog.Logger
	states   StateService
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, states StateService, service Service) *Handler {
	return &Handler{
		log:      log,
		states:   states,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Назначение роли пользователю
// @Description Заменяет набор ролей пользователя одной указанной ролью. Доступно только администратору.
// @Tags Roles
// @Accept  json
// @Produce  json
// @Param uid path string true "UID пользователя"
// @Param request body Request true "Назначаемая роль"
// @Success 200 {object} map[string]any "Роль назначена"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации или неизвестная роль"
// @Failure 503 {object} response.ErrorResponse "Состояние пользователя недоступно"
// @Security BearerAuth
// @Router /users/{uid}/role [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.roles.assign"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	targetUID := chi.URLParam(r, "uid")

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	actorUID := middlewarectx.UserUIDFromContext(r.Context())
	actor, err := h.states.LoadUserState(r.Context(), actorUID)
	if err != nil {
		log.Error("failed to load actor state", sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("user state unavailable, try again"))
		return
	}

	if err := h.service.AssignRole(r.Context(), actor, targetUID, req.Role); err != nil {
		switch {
		case errors.Is(err, roles.ErrNotAllowed):
			log.Error("actor is not allowed to assign roles", slog.String("actor_uid", actorUID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("not allowed to assign roles"))
		case errors.Is(err, roles.ErrUnknownRole):
			log.Error("unknown role requested", slog.String("role", req.Role))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("unknown role"))
		case errors.Is(err, repository.ErrUserNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		default:
			log.Error("failed to assign role", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not assign role"))
		}
		return
	}

	log.Info("role assigned", slog.String("target_uid", targetUID), slog.String("role", req.Role))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"uid":  targetUID,
		"role": req.Role,
	}))
}
