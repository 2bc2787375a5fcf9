// Package paymentcreate реализует HTTP-обработчик разового пожертвования.
// Платёж проводится через платёжного провайдера и сохраняется в хранилище.
package paymentcreate

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

// Request — входные данные для пожертвования.
type Request struct {
	AmountCents int64  `json:"amount_cents" validate:"required,gt=0"`
	Currency    string `json:"currency" validate:"required,len=3"`
}

// Service описывает интерфейс бизнес-логики пожертвований.
type Service interface {
	CreateDonation(ctx context.Context, userUID string, amountCents int64, currency string) (*models.Payment, error)
}

// Handler обрабатывает запросы на создание пожертвования.
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
// @Summary Пожертвование
// @Description Проводит разовое пожертвование от аутентифицированного пользователя.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body Request true "Сумма и валюта"
// @Security BearerAuth
// @Success 201 {object} response.Response "Созданный платёж"
// @Failure 400 {object} response.Response "Некорректный JSON или ошибка валидации"
// @Failure 403 {object} response.Response "Нет аутентифицированного пользователя"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /payments [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.paymentcreate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("no authenticated user in context")
		response.Fail(w, r, apperr.ErrAuthRequired)
		return
	}

	var req Request
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

	payment, err := h.service.CreateDonation(r.Context(), userUID, req.AmountCents, req.Currency)
	if err != nil {
		log.Error("failed to create donation", sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("donation created",
		slog.String("provider_payment_id", payment.ProviderPaymentID),
		slog.Int64("amount_cents", payment.AmountCents))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(payment))
}
