// Package logout реализует HTTP-обработчик выхода: сессия уничтожается
// на сервере, cookie у клиента гасится. Повторный выход не является ошибкой.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/sisalud/internal/config"
	"github.com/magabrotheeeer/sisalud/internal/http/middlewarectx"
	"github.com/magabrotheeeer/sisalud/internal/http/response"
	"github.com/magabrotheeeer/sisalud/internal/lib/sl"
)

// SessionDestroyer описывает уничтожение сессии в хранилище.
type SessionDestroyer interface {
	Destroy(ctx context.Context, sid string) error
}

type Handler struct {
	log      *slog.Logger
	sessions SessionDestroyer
	cookie   config.Session
}

func New(log *slog.Logger, sessions SessionDestroyer, cookie config.Session) *Handler {
	return &Handler{
		log:      log,
		sessions: sessions,
		cookie:   cookie,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sid, _ := r.Context().Value(middlewarectx.SessionID).(string)
	if sid != "" {
		if err := h.sessions.Destroy(r.Context(), sid); err != nil {
			log.Error("failed to destroy session", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal service error"))
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	log.Info("session destroyed")
	render.JSON(w, r, response.OK())
}
