// Package check реализует HTTP-обработчик проверки произвольного набора
// требований доступа.
//
// Конечная точка нужна внутренним потребителям: фронтенд и соседние сервисы
// присылают требования ресурса и получают решение, не дублируя резолвер.
package check

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/insuracademy/entitlement-engine/internal/http/guard"
	"github.com/insuracademy/entitlement-engine/internal/http/middlewarectx"
	"github.com/insuracademy/entitlement-engine/internal/http/response"
	"github.com/insuracademy/entitlement-engine/internal/lib/sl"
	"github.com/insuracademy/entitlement-engine/internal/models"
)

// RequirementDTO — одно требование доступа во входных данных.
type RequirementDTO struct {
	Kind    string   `json:"kind" validate:"required,oneof=public authenticated subscription tier role"`
	MinTier string   `json:"min_tier" validate:"omitempty,alphanum"`
	Vocab   string   `json:"vocab" validate:"omitempty,oneof=subscription content"`
	Roles   []string `json:"roles" validate:"omitempty,dive,min=1"`
}

// Request — структура входных данных для проверки требований.
type Request struct {
	Requirements []RequirementDTO `json:"requirements" validate:"required,min=1,dive"`
	ReturnTo     string           `json:"return_to"`
}

// Service описывает интерфейс бизнес-логики проверки требований.
type Service interface {
	LoadUserState(ctx context.Context, userUID string) (models.UserState, error)
	CheckRequirements(ctx context.Context, state models.UserState, requirements ...models.Requirement) models.Decision
}

// Handler обрабатывает запросы на проверку набора требований.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Проверка набора требований
// @Description Применяет произвольный набор требований к текущему пользователю. Требования комбинируются через логическое И.
// @Tags Access
// @Accept  json
// @Produce  json
// @Param request body Request true "Набор требований"
// @Success 200 {object} map[string]any "Доступ разрешён"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 503 {object} response.ErrorResponse "Состояние пользователя недоступно"
// @Security BearerAuth
// @Router /access/check [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.access.check"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	requirements := make([]models.Requirement, 0, len(req.Requirements))
	for _, dto := range req.Requirements {
		requirements = append(requirements, models.Requirement{
			Kind:    models.RequirementKind(dto.Kind),
			MinTier: dto.MinTier,
			Vocab:   models.TierVocab(dto.Vocab),
			Roles:   dto.Roles,
		})
	}

	userUID := middlewarectx.UserUIDFromContext(r.Context())
	state, err := h.service.LoadUserState(r.Context(), userUID)
	if err != nil {
		log.Error("failed to load user state", sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("user state unavailable, try again"))
		return
	}

	decision := h.service.CheckRequirements(r.Context(), state, requirements...)

	log.Info("requirements checked", sl.Decision(decision))
	w.WriteHeader(guard.StatusCode(decision))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"decision":    decision,
		"remediation": guard.ForDecision(decision, req.ReturnTo),
	}))
}
