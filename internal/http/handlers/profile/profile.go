// Package profile реализует HTTP-обработчик страницы личных данных.
package profile

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/sisalud/internal/http/middlewarectx"
	"github.com/magabrotheeeer/sisalud/internal/http/response"
	"github.com/magabrotheeeer/sisalud/internal/lib/sl"
	"github.com/magabrotheeeer/sisalud/internal/models"
)

// UserGetter описывает чтение пользователя из хранилища.
type UserGetter interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// UserView личные данные пользователя без учетных полей.
type UserView struct {
	UID           string    `json:"uid"`
	ExternalID    string    `json:"external_id"`
	Role          string    `json:"role"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Age           *int      `json:"age,omitempty"`
	Specialty     *string   `json:"specialty,omitempty"`
	LicenseNumber *string   `json:"license_number,omitempty"`
	MedicalNotes  *string   `json:"medical_notes,omitempty"`
	RegisteredAt  time.Time `json:"registered_at"`
}

type Handler struct {
	log   *slog.Logger
	users UserGetter
}

func New(log *slog.Logger, users UserGetter) *Handler {
	return &Handler{log: log, users: users}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, _ := r.Context().Value(middlewarectx.UserUID).(string)
	user, err := h.users.GetUser(r.Context(), userUID)
	if err != nil {
		log.Error("failed to load user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	render.JSON(w, r, response.OKWithData(UserView{
		UID:           user.UID,
		ExternalID:    user.ExternalID,
		Role:          user.Role,
		Name:          user.Name,
		Email:         user.Email,
		Age:           user.Age,
		Specialty:     user.Specialty,
		LicenseNumber: user.LicenseNumber,
		MedicalNotes:  user.MedicalNotes,
		RegisteredAt:  user.RegisteredAt,
	}))
}
