// Package dashboard реализует HTTP-обработчик стартовой страницы:
// врач видит приемы на сегодня, пациент — ближайший будущий прием.
package dashboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/sisalud/internal/http/middlewarectx"
	"github.com/magabrotheeeer/sisalud/internal/http/response"
	"github.com/magabrotheeeer/sisalud/internal/lib/sl"
	appointmentservice "github.com/magabrotheeeer/sisalud/internal/services/appointment"
)

// Service описывает сборку данных дашборда.
type Service interface {
	GetDashboard(ctx context.Context, userUID, role string) (*appointmentservice.Dashboard, error)
}

type Handler struct {
	log          *slog.Logger
	appointments Service
}

func New(log *slog.Logger, appointments Service) *Handler {
	return &Handler{log: log, appointments: appointments}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, _ := r.Context().Value(middlewarectx.UserUID).(string)
	role, _ := r.Context().Value(middlewarectx.Role).(string)

	data, err := h.appointments.GetDashboard(r.Context(), userUID, role)
	if err != nil {
		log.Error("failed to build dashboard", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	render.JSON(w, r, response.OKWithData(data))
}
