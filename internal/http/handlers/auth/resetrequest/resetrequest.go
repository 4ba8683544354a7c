// Package resetrequest реализует HTTP-обработчик запроса восстановления пароля.
//
// Поток восстановления не использует сессию: пользователь подтверждает
// владение учетной записью только токеном из письма.
package resetrequest

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
	"github.com/magabrotheeeer/sisalud/internal/storage/repository"
)

// Request — входные данные запроса восстановления.
type Request struct {
	Email string `json:"email" validate:"required,email"`
}

// Service описывает выдачу токена восстановления.
type Service interface {
	Request(ctx context.Context, email string) error
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
// @Summary Запрос восстановления пароля
// @Tags auth
// @Accept  json
// @Produce json
// @Param request body Request true "Email учетной записи"
// @Success 200 {object} response.Response "Письмо со ссылкой поставлено в очередь"
// @Failure 404 {object} response.ErrorResponse "Учетная запись не найдена"
// @Failure 502 {object} response.ErrorResponse "Токен сохранен, письмо не отправлено"
// @Router /password/forgot [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.resetrequest"

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

	if err := h.reset.Request(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			log.Info("reset requested for unknown email")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("no account with that email"))
		case errors.Is(err, resetservice.ErrNotifyFailed):
			// Токен уже сохранен и действителен, не удалось только письмо.
			log.Error("reset mail dispatch failed", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("failed to send recovery mail"))
		default:
			log.Error("reset request failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal service error"))
		}
		return
	}

	log.Info("reset mail queued")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "recovery link sent",
	}))
}
