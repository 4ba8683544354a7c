package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/sisalud/internal/http/response"
)

// RequireRole возвращает middleware, пропускающий только пользователей
// с указанной ролью. Роль берется из сессии, положенной в контекст
// SessionMiddleware, поэтому RequireRole ставится строго после него.
// При несовпадении роли запрос завершается ответом 403, сессия
// пользователя при этом не уничтожается.
func RequireRole(role string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := r.Context().Value(Role).(string)
			if !ok || got != role {
				log.Info("forbidden: insufficient role",
					slog.String("required", role))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("forbidden"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
