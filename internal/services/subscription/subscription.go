// Package subscription содержит бизнес-логику подписок: выдачу планов,
// оформление и отмену подписки пользователя.
package subscription

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/evseevmm/donation-platform/internal/models"
	"github.com/evseevmm/donation-platform/internal/paymentprovider"
)

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	ListPlans(ctx context.Context) ([]*models.Plan, error)
	GetPlan(ctx context.Context, id int) (*models.Plan, error)
	CreateSubscription(ctx context.Context, sub models.Subscription) (int, error)
	GetActiveSubscription(ctx context.Context, userUID string) (*models.Subscription, error)
	UpdateSubscriptionStatus(ctx context.Context, id int, status string, periodEnd sql.NullTime) error
	UpdateUserSubscription(ctx context.Context, userUID, status string, endsAt sql.NullTime) error
	SavePayment(ctx context.Context, payment models.Payment) (int, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	SetProviderCustomerID(ctx context.Context, userUID, customerID string) error
}

// ProviderClient определяет интерфейс платёжного провайдера.
type ProviderClient interface {
	CreateCustomer(reqParams paymentprovider.CreateCustomerRequest) (*paymentprovider.CustomerResponse, error)
	CreateCharge(reqParams paymentprovider.CreateChargeRequest) (*paymentprovider.ChargeResponse, error)
}

// SubscriptionService реализует бизнес-логику подписок.
type SubscriptionService struct {
	repo     SubscriptionRepository
	provider ProviderClient
	log      *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, provider ProviderClient, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:     repo,
		provider: provider,
		log:      log,
	}
}

// ensureProviderCustomer возвращает идентификатор клиента у провайдера,
// создавая и сохраняя его при первом списании пользователя.
func (s *SubscriptionService) ensureProviderCustomer(ctx context.Context, userUID string) (string, error) {
	const op = "subscription.ensureProviderCustomer"

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

// ListPlans возвращает доступные тарифные планы.
func (s *SubscriptionService) ListPlans(ctx context.Context) ([]*models.Plan, error) {
	return s.repo.ListPlans(ctx)
}

// Subscribe оформляет подписку на план: создаёт запись подписки, проводит
// первое списание через провайдера и сохраняет платёж. Подписка становится
// активной после подтверждения платежа вебхуком провайдера.
func (s *SubscriptionService) Subscribe(ctx context.Context, userUID string, planID int) (*models.Subscription, error) {
	plan, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	customerID, err := s.ensureProviderCustomer(ctx, userUID)
	if err != nil {
		return nil, err
	}

	sub := models.Subscription{
		UserUID: userUID,
		PlanID:  plan.ID,
		Status:  models.SubscriptionStatusInactive,
	}
	subID, err := s.repo.CreateSubscription(ctx, sub)
	if err != nil {
		return nil, err
	}
	sub.ID = subID

	charge, err := s.provider.CreateCharge(paymentprovider.CreateChargeRequest{
		AmountCents: plan.PriceCents,
		Currency:    "usd",
		CustomerID:  customerID,
		Description: plan.Name,
	})
	if err != nil {
		return nil, err
	}

	payment := models.Payment{
		UserUID:           userUID,
		SubscriptionID:    &subID,
		ProviderPaymentID: charge.ID,
		AmountCents:       charge.AmountCents,
		Currency:          charge.Currency,
		Status:            charge.Status,
	}
	if _, err := s.repo.SavePayment(ctx, payment); err != nil {
		return nil, err
	}

	s.log.Info("subscription created",
		slog.Int("subscription_id", subID),
		slog.String("user_uid", userUID),
		slog.String("plan", plan.Name))
	return &sub, nil
}

// Cancel отменяет активную подписку пользователя. Оплаченный период
// дорабатывает до конца, продления не будет.
func (s *SubscriptionService) Cancel(ctx context.Context, userUID string) error {
	sub, err := s.repo.GetActiveSubscription(ctx, userUID)
	if err != nil {
		return err
	}

	var periodEnd sql.NullTime
	if sub.CurrentPeriodEnd != nil {
		periodEnd = sql.NullTime{Time: *sub.CurrentPeriodEnd, Valid: true}
	}
	if err := s.repo.UpdateSubscriptionStatus(ctx, sub.ID, models.SubscriptionStatusCanceled, periodEnd); err != nil {
		return err
	}
	if err := s.repo.UpdateUserSubscription(ctx, userUID, models.SubscriptionStatusCanceled, periodEnd); err != nil {
		return err
	}

	s.log.Info("subscription canceled",
		slog.Int("subscription_id", sub.ID),
		slog.String("user_uid", userUID))
	return nil
}
