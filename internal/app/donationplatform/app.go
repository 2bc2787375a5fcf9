// Package donationplatform собирает приложение платформы: хранилище,
// миграции, кеш, очередь событий, платёжного провайдера, сервисы и HTTP-сервер.
package donationplatform

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/evseevmm/donation-platform/internal/cache"
	"github.com/evseevmm/donation-platform/internal/config"
	"github.com/evseevmm/donation-platform/internal/http/response"
	"github.com/evseevmm/donation-platform/internal/lib/jwt"
	"github.com/evseevmm/donation-platform/internal/migrations"
	"github.com/evseevmm/donation-platform/internal/paymentprovider"
	"github.com/evseevmm/donation-platform/internal/rabbitmq"
	authservice "github.com/evseevmm/donation-platform/internal/services/auth"
	paymentservice "github.com/evseevmm/donation-platform/internal/services/payment"
	postservice "github.com/evseevmm/donation-platform/internal/services/post"
	subscriptionservice "github.com/evseevmm/donation-platform/internal/services/subscription"
	userservice "github.com/evseevmm/donation-platform/internal/services/user"
	"github.com/evseevmm/donation-platform/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и внешние соединения приложения.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

// New собирает приложение: подключает зависимости и регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}
	if err = repository.CheckDatabaseReady(db); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitConnection.URL, cfg.RabbitConnection.Retries, cfg.RabbitConnection.RetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, []rabbitmq.QueueConfig{
		{QueueName: "notifications.payments", RoutingKey: rabbitmq.RoutingKeyPaymentSucceeded},
		{QueueName: "notifications.payments", RoutingKey: rabbitmq.RoutingKeyPaymentFailed},
		{QueueName: "notifications.payments", RoutingKey: rabbitmq.RoutingKeyPaymentCanceled},
		{QueueName: "notifications.users", RoutingKey: rabbitmq.RoutingKeyUserRegistered},
	})
	if err != nil {
		return nil, err
	}
	publisher := rabbitmq.NewPublisher(ch)

	providerClient := paymentprovider.NewClient(cfg.PaymentProvider.APIURL, cfg.PaymentProvider.SecretKey)
	jwtMaker := jwt.NewJWTMaker(cfg.JWTToken.JWTSecretKey, cfg.JWTToken.TokenTTL)

	authSvc := authservice.NewAuthService(db, jwtMaker, publisher)
	userSvc := userservice.NewUserService(db, logger)
	postSvc := postservice.NewPostService(db, cacheRedis, logger)
	paymentSvc := paymentservice.New(db, providerClient, publisher, logger)
	subscriptionSvc := subscriptionservice.NewSubscriptionService(db, providerClient, logger)

	response.SetDebug(cfg.IsDev())

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		Auth:          authSvc,
		Users:         userSvc,
		Posts:         postSvc,
		Payments:      paymentSvc,
		Subscriptions: subscriptionSvc,
		WebhookSecret: cfg.PaymentProvider.WebhookSecret,
	})

	router.Get("/docs/*", httpSwagger.WrapHandler)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		return err
	}
}
