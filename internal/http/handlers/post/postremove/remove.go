// Package postremove реализует HTTP-обработчик удаления публикации.
// Удалять чужую публикацию может только администратор.
package postremove

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/evseevmm/donation-platform/internal/apperr"
	"github.com/evseevmm/donation-platform/internal/http/middlewarectx"
	"github.com/evseevmm/donation-platform/internal/http/response"
	"github.com/evseevmm/donation-platform/internal/lib/sl"
)

// Service описывает интерфейс бизнес-логики удаления публикаций.
type Service interface {
	Remove(ctx context.Context, id int, callerUID, callerRole string) error
}

// Handler обрабатывает запросы на удаление публикации.
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
// @Summary Удаление публикации
// @Description Удаляет публикацию. Чужие публикации доступны только администраторам.
// @Tags Posts
// @Produce  json
// @Param id path int true "ID публикации"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response "Некорректный ID"
// @Failure 403 {object} response.Response "Недостаточно прав"
// @Failure 404 {object} response.Response "Публикация не найдена"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /posts/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.post.postremove"

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

	if err := h.service.Remove(r.Context(), id, callerUID, callerRole); err != nil {
		log.Error("failed to remove post", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("post removed", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{"id": id}))
}
