// Package postcreate реализует HTTP-обработчик создания публикации.
// Автором становится аутентифицированный пользователь из контекста запроса.
package postcreate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/evseevmm/donation-platform/internal/apperr"
	"github.com/evseevmm/donation-platform/internal/http/middlewarectx"
	"github.com/evseevmm/donation-platform/internal/http/response"
	"github.com/evseevmm/donation-platform/internal/lib/sl"
	"github.com/evseevmm/donation-platform/internal/models"
)

// Service описывает интерфейс бизнес-логики создания публикаций.
type Service interface {
	Create(ctx context.Context, authorUID string, req models.DummyPost) (int, error)
}

// Handler обрабатывает запросы на создание публикации.
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
// @Summary Создание публикации
// @Description Создает публикацию от имени аутентифицированного пользователя.
// @Tags Posts
// @Accept  json
// @Produce  json
// @Param request body models.DummyPost true "Данные публикации"
// @Security BearerAuth
// @Success 201 {object} response.Response "ID созданной публикации"
// @Failure 400 {object} response.Response "Некорректный JSON или ошибка валидации"
// @Failure 403 {object} response.Response "Нет аутентифицированного пользователя"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /posts [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.post.postcreate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	authorUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || authorUID == "" {
		log.Error("no authenticated user in context")
		response.Fail(w, r, apperr.ErrAuthRequired)
		return
	}

	var req models.DummyPost
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	id, err := h.service.Create(r.Context(), authorUID, req)
	if err != nil {
		log.Error("failed to create post", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("post created", slog.Int("id", id))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{"id": id}))
}
