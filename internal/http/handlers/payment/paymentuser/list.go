// Package paymentuser реализует HTTP-обработчик истории платежей пользователя.
// Свою историю видит каждый, чужую — только администратор.
package paymentuser

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/evseevmm/donation-platform/internal/apperr"
	"github.com/evseevmm/donation-platform/internal/http/middlewarectx"
	"github.com/evseevmm/donation-platform/internal/http/response"
	"github.com/evseevmm/donation-platform/internal/lib/sl"
	"github.com/evseevmm/donation-platform/internal/models"
)

// Service описывает интерфейс бизнес-логики истории платежей.
type Service interface {
	ListByUser(ctx context.Context, targetUID, callerUID, callerRole string) ([]*models.Payment, error)
}

// Handler обрабатывает запросы на получение истории платежей пользователя.
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
// @Summary История платежей пользователя
// @Description Возвращает платежи указанного пользователя. Чужая история доступна только администраторам.
// @Tags Payments
// @Produce  json
// @Param userUID path string true "UID пользователя"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response "Недостаточно прав"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /payments/user/{userUID} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.paymentuser"

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

	targetUID := chi.URLParam(r, "userUID")
	if targetUID == "" {
		log.Error("empty userUID in path")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("userUID is required"))
		return
	}

	payments, err := h.service.ListByUser(r.Context(), targetUID, callerUID, callerRole)
	if err != nil {
		log.Error("failed to list user payments", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("user payments listed",
		slog.String("user_uid", targetUID),
		slog.Int("count", len(payments)))
	render.JSON(w, r, response.OKWithData(payments))
}
