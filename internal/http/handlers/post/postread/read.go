// Package postread реализует HTTP-обработчик чтения публикации по ID.
package postread

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/evseevmm/donation-platform/internal/http/response"
	"github.com/evseevmm/donation-platform/internal/lib/sl"
	"github.com/evseevmm/donation-platform/internal/models"
)

// Service описывает интерфейс бизнес-логики чтения публикации.
type Service interface {
	Read(ctx context.Context, id int) (*models.Post, error)
}

// Handler обрабатывает запросы на чтение публикации.
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
// @Summary Чтение публикации
// @Description Возвращает публикацию по ID. Чтения кэшируются.
// @Tags Posts
// @Produce  json
// @Param id path int true "ID публикации"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response "Некорректный ID"
// @Failure 404 {object} response.Response "Публикация не найдена"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /posts/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.post.postread"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		log.Error("invalid post id in path")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid post id"))
		return
	}

	post, err := h.service.Read(r.Context(), id)
	if err != nil {
		log.Error("failed to read post", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("post found", slog.Int("id", post.ID))
	render.JSON(w, r, response.OKWithData(post))
}
