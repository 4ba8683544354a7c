// Package register реализует HTTP-обработчик регистрации пользователей клиники.
//
// Пациенты и врачи регистрируются сами, учетная запись администратора
// создается при первом запуске сервиса. После успешной регистрации
// пользователю сразу открывается сессия.
package register

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/sisalud/internal/config"
	"github.com/magabrotheeeer/sisalud/internal/http/response"
	"github.com/magabrotheeeer/sisalud/internal/lib/sl"
	authservice "github.com/magabrotheeeer/sisalud/internal/services/auth"
	"github.com/magabrotheeeer/sisalud/internal/storage/repository"
)

// Request — входные данные для регистрации
type Request struct {
	ExternalID    string  `json:"external_id" validate:"required,min=3,max=20,alphanum"`
	Role          string  `json:"role" validate:"required,oneof=patient doctor"`
	Name          string  `json:"name" validate:"required,min=2,max=100"`
	Email         string  `json:"email" validate:"required,email"`
	Password      string  `json:"password" validate:"required,min=6"`
	Age           *int    `json:"age,omitempty" validate:"omitempty,gte=0,lte=150"`
	Specialty     *string `json:"specialty,omitempty"`
	LicenseNumber *string `json:"license_number,omitempty"`
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, args authservice.RegisterArgs) (userUID, sid string, err error)
}

type Handler struct {
	log      *slog.Logger
	auth     Service
	cookie   config.Session
	validate *validator.Validate
}

func New(log *slog.Logger, auth Service, cookie config.Session) *Handler {
	return &Handler{
		log:      log,
		auth:     auth,
		cookie:   cookie,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация нового пользователя
// @Tags auth
// @Accept  json
// @Produce json
// @Param request body Request true "Данные для регистрации"
// @Success 200 {object} response.Response "Пользователь создан, сессия открыта"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.Response "Ошибка валидации или занятый email/ID"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

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

	userUID, sid, err := h.auth.Register(r.Context(), authservice.RegisterArgs{
		ExternalID:    req.ExternalID,
		Role:          req.Role,
		Name:          req.Name,
		Email:         req.Email,
		Password:      req.Password,
		Age:           req.Age,
		Specialty:     req.Specialty,
		LicenseNumber: req.LicenseNumber,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailTaken):
			log.Info("registration rejected: email taken")
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("email already registered"))
		case errors.Is(err, repository.ErrExternalIDTaken):
			log.Info("registration rejected: external id taken")
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("external id already in use"))
		default:
			log.Error("registration failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to register user"))
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.CookieName,
		Value:    sid,
		Path:     "/",
		MaxAge:   int(h.cookie.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	log.Info("created new user", slog.String("external_id", req.ExternalID),
		slog.String("role", req.Role))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"external_id": req.ExternalID,
		"role":        req.Role,
		"uid":         userUID,
		"message":     "user created successfully",
	}))
}
