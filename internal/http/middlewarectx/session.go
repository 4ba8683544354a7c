// Package middlewarectx содержит HTTP middleware аутентификации и авторизации.
//
// SessionMiddleware читает идентификатор сессии из cookie, находит сессию
// в хранилище и кладет в контекст запроса UID пользователя и его роль.
// RequireRole проверяет роль, закэшированную в сессии, строго после
// разрешения личности.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/sisalud/internal/http/response"
	"github.com/magabrotheeeer/sisalud/internal/lib/sl"
	"github.com/magabrotheeeer/sisalud/internal/session"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserUID — ключ для UID пользователя в контексте
	UserUID Key = "user_uid"
	// Role — ключ для роли пользователя в контексте
	Role Key = "role"
	// SessionID — ключ для идентификатора сессии в контексте
	SessionID Key = "session_id"
)

// SessionResolver описывает чтение сессии из хранилища.
type SessionResolver interface {
	Get(ctx context.Context, sid string) (*session.Session, bool, error)
}

// SessionMiddleware возвращает HTTP middleware, который разрешает сессию
// по cookie. Отсутствующая или недействительная сессия завершает запрос
// ответом 401, защищенный обработчик при этом не выполняется.
func SessionMiddleware(sessions SessionResolver, cookieName string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				log.Info("request without session cookie")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authentication required"))
				return
			}

			sess, found, err := sessions.Get(r.Context(), cookie.Value)
			if err != nil {
				log.Error("failed to resolve session", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}
			if !found {
				log.Info("unknown or expired session")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authentication required"))
				return
			}

			ctx := context.WithValue(r.Context(), UserUID, sess.UserUID)
			ctx = context.WithValue(ctx, Role, sess.Role)
			ctx = context.WithValue(ctx, SessionID, cookie.Value)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
