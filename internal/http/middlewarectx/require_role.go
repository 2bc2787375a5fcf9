package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/evseevmm/donation-platform/internal/apperr"
	"github.com/evseevmm/donation-platform/internal/http/response"
	"github.com/evseevmm/donation-platform/internal/models"
)

// RequireRole возвращает ролевой шлюз: запрос продолжается, только если
// ранг роли аутентифицированного пользователя не ниже ранга required.
//
// Отсутствие пользователя в контексте — отказ "authentication required";
// недостаточный ранг — отказ "insufficient permissions". Оба случая
// отдаются единой точкой классификации ошибок со статусом 403.
// Роль вне перечисления трактуется как низшая привилегия, отсутствующая
// роль — как обычный пользователь.
func RequireRole(required string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid, ok := r.Context().Value(UserUID).(string)
			if !ok || uid == "" {
				log.Error("no authenticated user in context")
				response.Fail(w, r, apperr.ErrAuthRequired)
				return
			}

			role, _ := r.Context().Value(Role).(string)
			if role == "" {
				role = models.RoleUser
			}
			if !models.RoleAllows(role, required) {
				log.Error("role below required",
					slog.String("role", role),
					slog.String("required", required))
				response.Fail(w, r, apperr.ErrForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
