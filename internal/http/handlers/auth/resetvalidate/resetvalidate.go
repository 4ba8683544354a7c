// Package resetvalidate реализует проверку ссылки восстановления пароля.
// Клиент открывает ссылку из письма и до ввода нового пароля узнает,
// действителен ли еще токен.
package resetvalidate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/sisalud/internal/http/response"
	"github.com/magabrotheeeer/sisalud/internal/lib/sl"
	"github.com/magabrotheeeer/sisalud/internal/models"
	resetservice "github.com/magabrotheeeer/sisalud/internal/services/reset"
)

// Service описывает проверку токена восстановления без его использования.
type Service interface {
	Validate(ctx context.Context, resetToken string) (*models.User, error)
}

type Handler struct {
	log   *slog.Logger
	reset Service
}

func New(log *slog.Logger, reset Service) *Handler {
	return &Handler{log: log, reset: reset}
}

// ServeHTTP godoc
// @Summary Проверка ссылки восстановления пароля
// @Tags auth
// @Produce json
// @Param token path string true "Токен восстановления из письма"
// @Success 200 {object} response.Response "Токен действителен"
// @Failure 400 {object} response.ErrorResponse "Недействительная или истекшая ссылка"
// @Router /password/reset/{token} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.resetvalidate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token := chi.URLParam(r, "token")
	user, err := h.reset.Validate(r.Context(), token)
	if err != nil {
		if errors.Is(err, resetservice.ErrTokenInvalid) {
			log.Info("reset link rejected: invalid or expired token")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid or expired link"))
			return
		}
		log.Error("reset link validation failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	log.Info("reset link validated")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"valid": true,
		"name":  user.Name,
	}))
}
