// Package list реализует HTTP-обработчик списка приемов пользователя.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/sisalud/internal/http/middlewarectx"
	"github.com/magabrotheeeer/sisalud/internal/http/response"
	"github.com/magabrotheeeer/sisalud/internal/lib/sl"
	"github.com/magabrotheeeer/sisalud/internal/models"
)

// Service описывает выборку приемов пользователя.
type Service interface {
	ListForUser(ctx context.Context, userUID, role string) ([]*models.Appointment, error)
}

type Handler struct {
	log          *slog.Logger
	appointments Service
}

func New(log *slog.Logger, appointments Service) *Handler {
	return &Handler{log: log, appointments: appointments}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.appointment.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, _ := r.Context().Value(middlewarectx.UserUID).(string)
	role, _ := r.Context().Value(middlewarectx.Role).(string)

	list, err := h.appointments.ListForUser(r.Context(), userUID, role)
	if err != nil {
		log.Error("failed to list appointments", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"appointments": list,
		"count":        len(list),
	}))
}
