// Package postupdate реализует HTTP-обработчик редактирования публикации.
// Редактировать чужую публикацию может только администратор.
package postupdate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/evseevmm/donation-platform/internal/apperr"
	"github.com/evseevmm/donation-platform/internal/http/middlewarectx"
	"github.com/evseevmm/donation-platform/internal/http/response"
	"github.com/evseevmm/donation-platform/internal/lib/sl"
	"github.com/evseevmm/donation-platform/internal/models"
)

// Service описывает интерфейс бизнес-логики редактирования публикаций.
type Service interface {
	Update(ctx context.Context, id int, callerUID, callerRole string, req models.DummyPost) error
}

// Handler обрабатывает запросы на редактирование публикации.
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
// @Summary Редактирование публикации
// @Description Обновляет заголовок и содержимое публикации. Чужие публикации доступны только администраторам.
// @Tags Posts
// @Accept  json
// @Produce  json
// @Param id path int true "ID публикации"
// @Param request body models.DummyPost true "Новые данные публикации"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response "Некорректный JSON или ошибка валидации"
// @Failure 403 {object} response.Response "Недостаточно прав"
// @Failure 404 {object} response.Response "Публикация не найдена"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /posts/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.post.postupdate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	callerUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || callerUID == "" {
		log.Error("no authenticated user in context")
		response.Fail(w, r, apperr.ErrAuthRequired)
		return
	}
	callerRole, _ := r.Context().Value(middlewarectx.Role).(string)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		log.Error("invalid post id in path")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid post id"))
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

	if err := h.service.Update(r.Context(), id, callerUID, callerRole, req); err != nil {
		log.Error("failed to update post", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("post updated", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{"id": id}))
}
