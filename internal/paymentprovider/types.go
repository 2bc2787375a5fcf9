package paymentprovider

import "time"

// CreateCustomerRequest — запрос на создание клиента у провайдера.
type CreateCustomerRequest struct {
	Email    string `json:"email"`
	Metadata struct {
		UserUID string `json:"user_uid"`
	} `json:"metadata"`
}

// CustomerResponse — ответ провайдера с созданным клиентом.
type CustomerResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created"`
}

// CreateChargeRequest — запрос на списание средств.
type CreateChargeRequest struct {
	AmountCents int64  `json:"amount"`
	Currency    string `json:"currency"`
	CustomerID  string `json:"customer,omitempty"`
	Description string `json:"description,omitempty"`
}

// ChargeResponse — ответ провайдера по платежу.
type ChargeResponse struct {
	ID          string `json:"id"`
	Status      string `json:"status"` // pending, succeeded, failed
	AmountCents int64  `json:"amount"`
	Currency    string `json:"currency"`
}
