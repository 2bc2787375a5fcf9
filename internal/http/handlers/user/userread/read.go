// Package userread реализует HTTP-обработчик чтения пользователя по UID.
package userread

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/evseevmm/donation-platform/internal/http/response"
	"github.com/evseevmm/donation-platform/internal/lib/sl"
	"github.com/evseevmm/donation-platform/internal/models"
)

// Service описывает интерфейс бизнес-логики чтения пользователя.
type Service interface {
	Get(ctx context.Context, userUID string) (*models.UserProjection, error)
}

// Handler обрабатывает запросы на чтение пользователя.
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
// @Summary Профиль пользователя
// @Description Возвращает безопасную проекцию пользователя по UID.
// @Tags Users
// @Produce  json
// @Param userUID path string true "UID пользователя"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response "Пользователь не найден"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /users/{userUID} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.userread"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID := chi.URLParam(r, "userUID")
	if userUID == "" {
		log.Error("empty userUID in path")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("userUID is required"))
		return
	}

	user, err := h.service.Get(r.Context(), userUID)
	if err != nil {
		log.Error("failed to get user", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("user found", slog.String("uid", user.UID))
	render.JSON(w, r, response.OKWithData(user))
}
