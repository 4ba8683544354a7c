// Package updateuser реализует редактирование учетной записи администратором.
// Обновляются имя, email и профильные поля; роль и пароль не меняются.
package updateuser

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/sisalud/internal/http/response"
	"github.com/magabrotheeeer/sisalud/internal/lib/sl"
	"github.com/magabrotheeeer/sisalud/internal/storage/repository"
)

// Request — входные данные редактирования пользователя.
// Профильные поля опциональны: непереданные значения не затираются.
type Request struct {
	Name          string  `json:"name" validate:"required,min=2,max=100"`
	Email         string  `json:"email" validate:"required,email"`
	Age           *int    `json:"age,omitempty" validate:"omitempty,gte=0,lte=150"`
	Specialty     *string `json:"specialty,omitempty"`
	LicenseNumber *string `json:"license_number,omitempty"`
}

// Service описывает обновление учетной записи.
type Service interface {
	UpdateUser(ctx context.Context, userUID, name, email string,
		age *int, specialty, licenseNumber *string) error
}

type Handler struct {
	log      *slog.Logger
	admin    Service
	validate *validator.Validate
}

func New(log *slog.Logger, admin Service) *Handler {
	return &Handler{
		log:      log,
		admin:    admin,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.updateuser"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	userUID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(userUID); err != nil {
		log.Info("update: malformed user id", slog.String("id", userUID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
		return
	}
	err := h.admin.UpdateUser(r.Context(), userUID, req.Name, req.Email,
		req.Age, req.Specialty, req.LicenseNumber)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			log.Info("update: user not found", slog.String("uid", userUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		case errors.Is(err, repository.ErrEmailTaken):
			log.Info("update rejected: email taken")
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("email already registered"))
		default:
			log.Error("failed to update user", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal service error"))
		}
		return
	}

	log.Info("user updated", slog.String("uid", userUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "user updated successfully",
	}))
}
