package models

import "time"

// Статусы подписки пользователя.
const (
	SubscriptionStatusInactive = "inactive"
	SubscriptionStatusActive   = "active"
	SubscriptionStatusCanceled = "canceled"
)

// Plan описывает тарифный план поддержки.
type Plan struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	PriceCents     int64     `json:"price_cents"`
	IntervalMonths int       `json:"interval_months"`
	CreatedAt      time.Time `json:"created_at"`
}

// Subscription связывает пользователя с тарифным планом.
type Subscription struct {
	ID               int        `json:"id"`
	UserUID          string     `json:"user_uid"`
	PlanID           int        `json:"plan_id"`
	Status           string     `json:"status"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}
