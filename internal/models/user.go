// Package models содержит доменные структуры платформы: пользователей,
// публикации, тарифные планы, подписки и платежи.
// Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя платформы.
type User struct {
	UID                string     // Уникальный идентификатор пользователя
	Email              string     // Электронная почта (уникальная)
	Username           string     // Имя пользователя (уникальное)
	PasswordHash       string     // Хэш пароля пользователя
	Role               string     // Роль пользователя: user, admin, superadmin
	SubscriptionStatus string     // Статус подписки: inactive, active, canceled
	SubscriptionEndsAt *time.Time // Дата окончания оплаченной подписки
	ProviderCustomerID *string    // Идентификатор клиента у платёжного провайдера
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// UserProjection — подмножество полей пользователя, безопасное для выдачи
// наружу. Хэш пароля в проекцию не попадает.
type UserProjection struct {
	UID                string     `json:"uid"`
	Username           string     `json:"username"`
	Email              string     `json:"email"`
	SubscriptionStatus string     `json:"subscription_status"`
	SubscriptionEndsAt *time.Time `json:"subscription_ends_at,omitempty"`
}

// Project возвращает безопасную проекцию пользователя.
func (u *User) Project() UserProjection {
	return UserProjection{
		UID:                u.UID,
		Username:           u.Username,
		Email:              u.Email,
		SubscriptionStatus: u.SubscriptionStatus,
		SubscriptionEndsAt: u.SubscriptionEndsAt,
	}
}
