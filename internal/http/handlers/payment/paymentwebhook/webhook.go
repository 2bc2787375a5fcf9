// Package paymentwebhook реализует HTTP-обработчик вебхуков платёжного
// провайдера. Подпись тела проверяется по HMAC-SHA256 из заголовка
// X-Api-Signature до любого разбора полезной нагрузки.
package paymentwebhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/evseevmm/donation-platform/internal/lib/sl"
	"github.com/evseevmm/donation-platform/internal/services/payment"
)

// Service описывает интерфейс обработки событий провайдера.
type Service interface {
	ProcessWebhookEvent(ctx context.Context, event payment.WebhookEvent) error
}

// Handler обрабатывает вебхуки платёжного провайдера.
type Handler struct {
	log           *slog.Logger
	service       Service
	webhookSecret string // Секрет для проверки подписи
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, secret string) *Handler {
	return &Handler{
		log:           log,
		service:       service,
		webhookSecret: secret,
	}
}

// Payload — полезная нагрузка вебхука провайдера.
type Payload struct {
	Event  string `json:"event"`
	Object struct {
		ID       string            `json:"id"`     // идентификатор платежа у провайдера
		Status   string            `json:"status"` // статус платежа
		Metadata map[string]string `json:"metadata"`
	} `json:"object"`
}

// Проверка подписи webhook (X-Api-Signature)
func (h *Handler) verifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(h.webhookSecret))
	mac.Write(body)
	expectedSig := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expectedSig), []byte(signature))
}

// ServeHTTP godoc
// @Summary Вебхук платёжного провайдера
// @Description Принимает событие платежа, проверяет подпись и обновляет статус платежа.
// @Tags Payments
// @Accept  json
// @Success 200 "Событие обработано или проигнорировано"
// @Failure 400 "Некорректное тело запроса"
// @Failure 401 "Неверная подпись"
// @Failure 500 "Внутренняя ошибка сервера"
// @Router /payments/webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.paymentwebhook"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	signature := r.Header.Get("X-Api-Signature")
	if signature == "" || !h.verifySignature(body, signature) {
		log.Error("invalid or missing webhook signature")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Error("failed to unmarshal webhook payload", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	const (
		paymentSucceeded = "payment.succeeded"
		paymentFailed    = "payment.failed"
		paymentCanceled  = "payment.canceled"
	)

	switch strings.ToLower(payload.Event) {
	case paymentSucceeded, paymentFailed, paymentCanceled:
		event := payment.WebhookEvent{
			Event:             payload.Event,
			ProviderPaymentID: payload.Object.ID,
			Status:            payload.Object.Status,
		}
		if err := h.service.ProcessWebhookEvent(r.Context(), event); err != nil {
			log.Error("failed to process webhook event", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	default:
		log.Info("ignored webhook event", slog.String("event", payload.Event))
		w.WriteHeader(http.StatusOK)
		return
	}

	log.Info("webhook processed",
		slog.String("event", payload.Event),
		slog.String("payment_id", payload.Object.ID))
	w.WriteHeader(http.StatusOK)
}
