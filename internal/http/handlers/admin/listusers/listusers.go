// Package listusers реализует административный список пользователей
// со счетчиками по ролям. Доступен только администраторам, неактивные
// учетные записи в выдачу не попадают.
package listusers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/sisalud/internal/http/response"
	"github.com/magabrotheeeer/sisalud/internal/lib/sl"
	"github.com/magabrotheeeer/sisalud/internal/models"
)

// Service описывает выборку пользователей для панели администратора.
type Service interface {
	ListUsers(ctx context.Context, roleFilter string) ([]*models.User, *models.UserStats, error)
}

// UserView строка административного списка без учетных полей.
type UserView struct {
	UID           string    `json:"uid"`
	ExternalID    string    `json:"external_id"`
	Role          string    `json:"role"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Age           *int      `json:"age,omitempty"`
	Specialty     *string   `json:"specialty,omitempty"`
	LicenseNumber *string   `json:"license_number,omitempty"`
	RegisteredAt  time.Time `json:"registered_at"`
}

type Handler struct {
	log   *slog.Logger
	admin Service
}

func New(log *slog.Logger, admin Service) *Handler {
	return &Handler{log: log, admin: admin}
}

// ServeHTTP godoc
// @Summary Список активных пользователей
// @Tags admin
// @Produce json
// @Param role query string false "Фильтр по роли: patient, doctor или admin"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Router /admin/users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.listusers"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	roleFilter := r.URL.Query().Get("role")
	switch roleFilter {
	case "", models.RolePatient, models.RoleDoctor, models.RoleAdmin:
	default:
		log.Info("unknown role filter", slog.String("role", roleFilter))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown role filter"))
		return
	}

	users, stats, err := h.admin.ListUsers(r.Context(), roleFilter)
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	views := make([]UserView, 0, len(users))
	for _, u := range users {
		views = append(views, UserView{
			UID:           u.UID,
			ExternalID:    u.ExternalID,
			Role:          u.Role,
			Name:          u.Name,
			Email:         u.Email,
			Age:           u.Age,
			Specialty:     u.Specialty,
			LicenseNumber: u.LicenseNumber,
			RegisteredAt:  u.RegisteredAt,
		})
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"users": views,
		"stats": stats,
	}))
}
