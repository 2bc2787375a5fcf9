package models

import "time"

// Статусы платежа, повторяют статусы платёжного провайдера.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
	PaymentStatusCanceled  = "canceled"
)

// Payment представляет платёж пользователя: разовое пожертвование
// или списание по подписке (тогда заполнен SubscriptionID).
type Payment struct {
	ID                int       `json:"id"`
	UserUID           string    `json:"user_uid"`
	SubscriptionID    *int      `json:"subscription_id,omitempty"`
	ProviderPaymentID string    `json:"provider_payment_id"`
	AmountCents       int64     `json:"amount_cents"`
	Currency          string    `json:"currency"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
}
