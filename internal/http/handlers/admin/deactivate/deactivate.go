// Package deactivate реализует мягкое удаление учетной записи администратором:
// запись помечается неактивной и исчезает из списков, но остается в базе.
package deactivate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/sisalud/internal/http/response"
	"github.com/magabrotheeeer/sisalud/internal/lib/sl"
	"github.com/magabrotheeeer/sisalud/internal/storage/repository"
)

// Service описывает деактивацию учетной записи.
type Service interface {
	DeactivateUser(ctx context.Context, userUID string) error
}

type Handler struct {
	log   *slog.Logger
	admin Service
}

func New(log *slog.Logger, admin Service) *Handler {
	return &Handler{log: log, admin: admin}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.deactivate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(userUID); err != nil {
		log.Info("deactivate: malformed user id", slog.String("id", userUID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
		return
	}
	if err := h.admin.DeactivateUser(r.Context(), userUID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			log.Info("deactivate: user not found", slog.String("uid", userUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to deactivate user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	log.Info("user deactivated", slog.String("uid", userUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "user deactivated successfully",
	}))
}
