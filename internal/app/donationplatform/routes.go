// Package donationplatform предоставляет маршруты основного приложения.
package donationplatform

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/evseevmm/donation-platform/internal/http/handlers/auth/login"
	"github.com/evseevmm/donation-platform/internal/http/handlers/auth/register"
	"github.com/evseevmm/donation-platform/internal/http/handlers/health"
	"github.com/evseevmm/donation-platform/internal/http/handlers/payment/paymentcreate"
	"github.com/evseevmm/donation-platform/internal/http/handlers/payment/paymentlist"
	"github.com/evseevmm/donation-platform/internal/http/handlers/payment/paymentuser"
	"github.com/evseevmm/donation-platform/internal/http/handlers/payment/paymentwebhook"
	"github.com/evseevmm/donation-platform/internal/http/handlers/post/postcreate"
	"github.com/evseevmm/donation-platform/internal/http/handlers/post/postlist"
	"github.com/evseevmm/donation-platform/internal/http/handlers/post/postread"
	"github.com/evseevmm/donation-platform/internal/http/handlers/post/postremove"
	"github.com/evseevmm/donation-platform/internal/http/handlers/post/postupdate"
	"github.com/evseevmm/donation-platform/internal/http/handlers/subscription/cancel"
	"github.com/evseevmm/donation-platform/internal/http/handlers/subscription/planlist"
	"github.com/evseevmm/donation-platform/internal/http/handlers/subscription/subscribe"
	"github.com/evseevmm/donation-platform/internal/http/handlers/user/userlist"
	"github.com/evseevmm/donation-platform/internal/http/handlers/user/userread"
	"github.com/evseevmm/donation-platform/internal/http/middlewarectx"
	"github.com/evseevmm/donation-platform/internal/models"
	authservice "github.com/evseevmm/donation-platform/internal/services/auth"
	paymentservice "github.com/evseevmm/donation-platform/internal/services/payment"
	postservice "github.com/evseevmm/donation-platform/internal/services/post"
	subscriptionservice "github.com/evseevmm/donation-platform/internal/services/subscription"
	userservice "github.com/evseevmm/donation-platform/internal/services/user"
)

// Services — сервисы приложения, необходимые для регистрации маршрутов.
type Services struct {
	Auth          *authservice.AuthService
	Users         *userservice.UserService
	Posts         *postservice.PostService
	Payments      *paymentservice.PaymentService
	Subscriptions *subscriptionservice.SubscriptionService
	WebhookSecret string
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, s.Auth).ServeHTTP)
		r.Get("/posts", postlist.New(logger, s.Posts).ServeHTTP)
		r.Get("/posts/{id}", postread.New(logger, s.Posts).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/users/{userUID}", userread.New(logger, s.Users).ServeHTTP)
			r.With(middlewarectx.RequireRole(models.RoleAdmin, logger)).
				Get("/users", userlist.New(logger, s.Users).ServeHTTP)

			r.Post("/posts", postcreate.New(logger, s.Posts).ServeHTTP)
			r.Put("/posts/{id}", postupdate.New(logger, s.Posts).ServeHTTP)
			r.Delete("/posts/{id}", postremove.New(logger, s.Posts).ServeHTTP)

			r.Post("/payments", paymentcreate.New(logger, s.Payments).ServeHTTP)
			r.Get("/payments/user/{userUID}", paymentuser.New(logger, s.Payments).ServeHTTP)
			r.With(middlewarectx.RequireRole(models.RoleAdmin, logger)).
				Get("/payments", paymentlist.New(logger, s.Payments).ServeHTTP)

			r.Get("/plans", planlist.New(logger, s.Subscriptions).ServeHTTP)
			r.Post("/subscriptions", subscribe.New(logger, s.Subscriptions).ServeHTTP)
			r.Delete("/subscriptions", cancel.New(logger, s.Subscriptions).ServeHTTP)
		})

		// Webhook endpoint (без аутентификации, подпись проверяется телом)
		r.Post("/payments/webhook", paymentwebhook.New(logger, s.Payments, s.WebhookSecret).ServeHTTP)
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
}
