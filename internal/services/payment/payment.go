// Package payment содержит бизнес-логику платежей: пожертвования,
// выдача истории и обработка событий платёжного провайдера.
package payment

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/evseevmm/donation-platform/internal/apperr"
	"github.com/evseevmm/donation-platform/internal/models"
	"github.com/evseevmm/donation-platform/internal/paymentprovider"
	"github.com/evseevmm/donation-platform/internal/rabbitmq"
)

// PaymentRepository определяет методы для работы с платежами в хранилище.
type PaymentRepository interface {
	SavePayment(ctx context.Context, payment models.Payment) (int, error)
	ListPayments(ctx context.Context, limit, offset int) ([]*models.Payment, error)
	ListPaymentsByUser(ctx context.Context, userUID string) ([]*models.Payment, error)
	UpdatePaymentStatus(ctx context.Context, providerPaymentID, status string) (*models.Payment, error)

	GetUser(ctx context.Context, userUID string) (*models.User, error)
	SetProviderCustomerID(ctx context.Context, userUID, customerID string) error

	GetSubscription(ctx context.Context, id int) (*models.Subscription, error)
	GetPlan(ctx context.Context, id int) (*models.Plan, error)
	UpdateSubscriptionStatus(ctx context.Context, id int, status string, periodEnd sql.NullTime) error
	UpdateUserSubscription(ctx context.Context, userUID, status string, endsAt sql.NullTime) error
}

// ProviderClient определяет интерфейс платёжного провайдера.
type ProviderClient interface {
	CreateCustomer(reqParams paymentprovider.CreateCustomerRequest) (*paymentprovider.CustomerResponse, error)
	CreateCharge(reqParams paymentprovider.CreateChargeRequest) (*paymentprovider.ChargeResponse, error)
}

// EventPublisher публикует события платёжного цикла.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// PaymentService реализует бизнес-логику платежей.
type PaymentService struct {
	repo     PaymentRepository
	provider ProviderClient
	events   EventPublisher
	log      *slog.Logger
}

// New создает новый экземпляр PaymentService.
// events может быть nil, тогда события не публикуются.
func New(repo PaymentRepository, provider ProviderClient, events EventPublisher, log *slog.Logger) *PaymentService {
	return &PaymentService{
		repo:     repo,
		provider: provider,
		events:   events,
		log:      log,
	}
}

// List возвращает все платежи с пагинацией.
func (s *PaymentService) List(ctx context.Context, limit, offset int) ([]*models.Payment, error) {
	return s.repo.ListPayments(ctx, limit, offset)
}

// ListByUser возвращает платежи пользователя. Смотреть чужие платежи может
// только пользователь с ролью не ниже admin.
func (s *PaymentService) ListByUser(ctx context.Context, targetUID, callerUID, callerRole string) ([]*models.Payment, error) {
	if targetUID != callerUID && !models.RoleAllows(callerRole, models.RoleAdmin) {
		return nil, fmt.Errorf("payment.ListByUser: %w", apperr.ErrForbidden)
	}
	return s.repo.ListPaymentsByUser(ctx, targetUID)
}

// ensureProviderCustomer возвращает идентификатор клиента у провайдера,
// создавая и сохраняя его при первом списании пользователя.
func (s *PaymentService) ensureProviderCustomer(ctx context.Context, userUID string) (string, error) {
	const op = "payment.ensureProviderCustomer"

	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if user.ProviderCustomerID != nil {
		return *user.ProviderCustomerID, nil
	}

	req := paymentprovider.CreateCustomerRequest{Email: user.Email}
	req.Metadata.UserUID = user.UID
	customer, err := s.provider.CreateCustomer(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.SetProviderCustomerID(ctx, userUID, customer.ID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("provider customer created",
		slog.String("user_uid", userUID),
		slog.String("customer_id", customer.ID))
	return customer.ID, nil
}

// CreateDonation проводит разовое пожертвование через провайдера
// и сохраняет платёж с его текущим статусом.
func (s *PaymentService) CreateDonation(ctx context.Context, userUID string, amountCents int64, currency string) (*models.Payment, error) {
	customerID, err := s.ensureProviderCustomer(ctx, userUID)
	if err != nil {
		return nil, err
	}

	charge, err := s.provider.CreateCharge(paymentprovider.CreateChargeRequest{
		AmountCents: amountCents,
		Currency:    currency,
		CustomerID:  customerID,
		Description: "donation",
	})
	if err != nil {
		return nil, fmt.Errorf("payment.CreateDonation: %w", err)
	}

	payment := models.Payment{
		UserUID:           userUID,
		ProviderPaymentID: charge.ID,
		AmountCents:       charge.AmountCents,
		Currency:          charge.Currency,
		Status:            charge.Status,
	}
	id, err := s.repo.SavePayment(ctx, payment)
	if err != nil {
		return nil, err
	}
	payment.ID = id

	s.log.Info("donation created",
		slog.String("provider_payment_id", charge.ID),
		slog.Int64("amount_cents", charge.AmountCents))
	return &payment, nil
}

// WebhookEvent — распарсенное событие провайдера.
type WebhookEvent struct {
	Event             string
	ProviderPaymentID string
	Status            string
}

// PaymentEvent — событие платежа, публикуемое в очередь уведомлений.
type PaymentEvent struct {
	UserUID           string `json:"user_uid"`
	ProviderPaymentID string `json:"provider_payment_id"`
	AmountCents       int64  `json:"amount_cents"`
	Currency          string `json:"currency"`
	Status            string `json:"status"`
}

// ProcessWebhookEvent обновляет статус платежа по событию провайдера.
// Успешный платёж по подписке активирует её и продлевает срок пользователю;
// затем событие публикуется в очередь уведомлений.
func (s *PaymentService) ProcessWebhookEvent(ctx context.Context, event WebhookEvent) error {
	payment, err := s.repo.UpdatePaymentStatus(ctx, event.ProviderPaymentID, event.Status)
	if err != nil {
		return err
	}

	if payment.Status == models.PaymentStatusSucceeded && payment.SubscriptionID != nil {
		if err := s.activateSubscription(ctx, payment); err != nil {
			return err
		}
	}

	if s.events != nil {
		var routingKey string
		switch payment.Status {
		case models.PaymentStatusSucceeded:
			routingKey = rabbitmq.RoutingKeyPaymentSucceeded
		case models.PaymentStatusCanceled:
			routingKey = rabbitmq.RoutingKeyPaymentCanceled
		default:
			routingKey = rabbitmq.RoutingKeyPaymentFailed
		}
		if err := s.events.Publish(routingKey, PaymentEvent{
			UserUID:           payment.UserUID,
			ProviderPaymentID: payment.ProviderPaymentID,
			AmountCents:       payment.AmountCents,
			Currency:          payment.Currency,
			Status:            payment.Status,
		}); err != nil {
			s.log.Warn("failed to publish payment event", slog.Any("err", err))
		}
	}

	return nil
}

func (s *PaymentService) activateSubscription(ctx context.Context, payment *models.Payment) error {
	sub, err := s.repo.GetSubscription(ctx, *payment.SubscriptionID)
	if err != nil {
		return err
	}
	plan, err := s.repo.GetPlan(ctx, sub.PlanID)
	if err != nil {
		return err
	}

	periodEnd := payment.CreatedAt.AddDate(0, plan.IntervalMonths, 0)
	endsAt := sql.NullTime{Time: periodEnd, Valid: true}

	if err := s.repo.UpdateSubscriptionStatus(ctx, sub.ID, models.SubscriptionStatusActive, endsAt); err != nil {
		return err
	}
	if err := s.repo.UpdateUserSubscription(ctx, payment.UserUID, models.SubscriptionStatusActive, endsAt); err != nil {
		return err
	}

	s.log.Info("subscription activated",
		slog.Int("subscription_id", sub.ID),
		slog.String("user_uid", payment.UserUID))
	return nil
}
