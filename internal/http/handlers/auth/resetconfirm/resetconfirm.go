// Package resetconfirm реализует HTTP-обработчик установки нового пароля
// по токену восстановления. Токен одноразовый: после успешной смены пароля
// он очищается и повторно не принимается.
package resetconfirm

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/sisalud/internal/http/response"
	"github.com/magabrotheeeer/sisalud/internal/lib/sl"
	resetservice "github.com/magabrotheeeer/sisalud/internal/services/reset"
)

// Request — входные данные подтверждения восстановления.
// Пароль вводится дважды, совпадение проверяется тегом eqfield.
type Request struct {
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// Service описывает одноразовое использование токена восстановления.
type Service interface {
	Consume(ctx context.Context, resetToken, newPassword string) error
}

type Handler struct {
	log      *slog.Logger
	reset    Service
	validate *validator.Validate
}

func New(log *slog.Logger, reset Service) *Handler {
	return &Handler{
		log:      log,
		reset:    reset,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Смена пароля по токену восстановления
// @Tags auth
// @Accept  json
// @Produce json
// @Param request body Request true "Токен и новый пароль"
// @Success 200 {object} response.Response "Пароль обновлен"
// @Failure 400 {object} response.ErrorResponse "Недействительная или истекшая ссылка"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Router /password/reset [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.resetconfirm"

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

	if err := h.reset.Consume(r.Context(), req.Token, req.Password); err != nil {
		if errors.Is(err, resetservice.ErrTokenInvalid) {
			log.Info("reset rejected: invalid or expired token")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid or expired link"))
			return
		}
		log.Error("reset confirm failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	log.Info("password updated via reset token")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "password updated successfully",
	}))
}
