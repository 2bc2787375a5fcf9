package payment

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/evseevmm/donation-platform/internal/models"
	"github.com/evseevmm/donation-platform/internal/paymentprovider"
	"github.com/evseevmm/donation-platform/internal/rabbitmq"
)

type PaymentRepositoryMock struct {
	mock.Mock
}

func (m *PaymentRepositoryMock) SavePayment(ctx context.Context, payment models.Payment) (int, error) {
	args := m.Called(ctx, payment)
	return args.Int(0), args.Error(1)
}

func (m *PaymentRepositoryMock) ListPayments(ctx context.Context, limit, offset int) ([]*models.Payment, error) {
	args := m.Called(ctx, limit, offset)
	payments, _ := args.Get(0).([]*models.Payment)
	return payments, args.Error(1)
}

func (m *PaymentRepositoryMock) ListPaymentsByUser(ctx context.Context, userUID string) ([]*models.Payment, error) {
	args := m.Called(ctx, userUID)
	payments, _ := args.Get(0).([]*models.Payment)
	return payments, args.Error(1)
}

func (m *PaymentRepositoryMock) UpdatePaymentStatus(ctx context.Context, providerPaymentID, status string) (*models.Payment, error) {
	args := m.Called(ctx, providerPaymentID, status)
	payment, _ := args.Get(0).(*models.Payment)
	return payment, args.Error(1)
}

func (m *PaymentRepositoryMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *PaymentRepositoryMock) SetProviderCustomerID(ctx context.Context, userUID, customerID string) error {
	args := m.Called(ctx, userUID, customerID)
	return args.Error(0)
}

func (m *PaymentRepositoryMock) GetSubscription(ctx context.Context, id int) (*models.Subscription, error) {
	args := m.Called(ctx, id)
	sub, _ := args.Get(0).(*models.Subscription)
	return sub, args.Error(1)
}

func (m *PaymentRepositoryMock) GetPlan(ctx context.Context, id int) (*models.Plan, error) {
	args := m.Called(ctx, id)
	plan, _ := args.Get(0).(*models.Plan)
	return plan, args.Error(1)
}

func (m *PaymentRepositoryMock) UpdateSubscriptionStatus(ctx context.Context, id int, status string, periodEnd sql.NullTime) error {
	args := m.Called(ctx, id, status, periodEnd)
	return args.Error(0)
}

func (m *PaymentRepositoryMock) UpdateUserSubscription(ctx context.Context, userUID, status string, endsAt sql.NullTime) error {
	args := m.Called(ctx, userUID, status, endsAt)
	return args.Error(0)
}

type ProviderClientMock struct {
	mock.Mock
}

func (m *ProviderClientMock) CreateCustomer(reqParams paymentprovider.CreateCustomerRequest) (*paymentprovider.CustomerResponse, error) {
	args := m.Called(reqParams)
	resp, _ := args.Get(0).(*paymentprovider.CustomerResponse)
	return resp, args.Error(1)
}

func (m *ProviderClientMock) CreateCharge(reqParams paymentprovider.CreateChargeRequest) (*paymentprovider.ChargeResponse, error) {
	args := m.Called(reqParams)
	resp, _ := args.Get(0).(*paymentprovider.ChargeResponse)
	return resp, args.Error(1)
}

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(routingKey string, message any) error {
	args := m.Called(routingKey, message)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestPaymentService_CreateDonation_CreatesProviderCustomerOnce(t *testing.T) {
	existingID := "cus_42"

	tests := []struct {
		name         string
		user         *models.User
		wantCreate   bool
		wantCustomer string
	}{
		{
			name: "first charge creates and persists customer",
			user: &models.User{
				UID:   "uid-1",
				Email: "donor@example.com",
			},
			wantCreate:   true,
			wantCustomer: "cus_new",
		},
		{
			name: "existing customer reference is reused",
			user: &models.User{
				UID:                "uid-1",
				Email:              "donor@example.com",
				ProviderCustomerID: &existingID,
			},
			wantCustomer: "cus_42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repoMock := new(PaymentRepositoryMock)
			providerMock := new(ProviderClientMock)

			repoMock.On("GetUser", mock.Anything, "uid-1").Return(tt.user, nil).Once()
			if tt.wantCreate {
				providerMock.On("CreateCustomer", mock.MatchedBy(func(req paymentprovider.CreateCustomerRequest) bool {
					return req.Email == "donor@example.com" && req.Metadata.UserUID == "uid-1"
				})).Return(&paymentprovider.CustomerResponse{ID: "cus_new"}, nil).Once()
				repoMock.On("SetProviderCustomerID", mock.Anything, "uid-1", "cus_new").Return(nil).Once()
			}

			providerMock.On("CreateCharge", mock.MatchedBy(func(req paymentprovider.CreateChargeRequest) bool {
				return req.CustomerID == tt.wantCustomer && req.AmountCents == 500
			})).Return(&paymentprovider.ChargeResponse{
				ID:          "pi_1",
				Status:      models.PaymentStatusPending,
				AmountCents: 500,
				Currency:    "usd",
			}, nil).Once()
			repoMock.On("SavePayment", mock.Anything, mock.Anything).Return(1, nil).Once()

			service := New(repoMock, providerMock, nil, newNoopLogger())

			payment, err := service.CreateDonation(context.Background(), "uid-1", 500, "usd")
			require.NoError(t, err)
			assert.Equal(t, "pi_1", payment.ProviderPaymentID)

			repoMock.AssertExpectations(t)
			providerMock.AssertExpectations(t)
		})
	}
}

func TestPaymentService_ProcessWebhookEvent_RoutingKeys(t *testing.T) {
	tests := []struct {
		name           string
		status         string
		wantRoutingKey string
	}{
		{
			name:           "succeeded payment",
			status:         models.PaymentStatusSucceeded,
			wantRoutingKey: rabbitmq.RoutingKeyPaymentSucceeded,
		},
		{
			name:           "failed payment",
			status:         models.PaymentStatusFailed,
			wantRoutingKey: rabbitmq.RoutingKeyPaymentFailed,
		},
		{
			name:           "canceled payment is not reported as failed",
			status:         models.PaymentStatusCanceled,
			wantRoutingKey: rabbitmq.RoutingKeyPaymentCanceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repoMock := new(PaymentRepositoryMock)
			eventsMock := new(PublisherMock)

			updated := &models.Payment{
				ID:                3,
				UserUID:           "uid-1",
				ProviderPaymentID: "pi_3",
				AmountCents:       900,
				Currency:          "usd",
				Status:            tt.status,
			}
			repoMock.On("UpdatePaymentStatus", mock.Anything, "pi_3", tt.status).
				Return(updated, nil).Once()
			eventsMock.On("Publish", tt.wantRoutingKey, mock.MatchedBy(func(e PaymentEvent) bool {
				return e.ProviderPaymentID == "pi_3" && e.Status == tt.status
			})).Return(nil).Once()

			service := New(repoMock, new(ProviderClientMock), eventsMock, newNoopLogger())

			err := service.ProcessWebhookEvent(context.Background(), WebhookEvent{
				Event:             "payment." + tt.status,
				ProviderPaymentID: "pi_3",
				Status:            tt.status,
			})
			require.NoError(t, err)

			repoMock.AssertExpectations(t)
			eventsMock.AssertExpectations(t)
		})
	}
}
