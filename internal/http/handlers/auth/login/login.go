// Package login реализует HTTP-обработчик входа пользователей.
//
// Вход выполняется по уникальному ID (не по email). При успехе открывается
// серверная сессия, клиенту устанавливается cookie с ее идентификатором.
// Неверный ID и неверный пароль дают одинаковый ответ.
package login

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
	"github.com/magabrotheeeer/sisalud/internal/models"
	authservice "github.com/magabrotheeeer/sisalud/internal/services/auth"
)

// Request — структура входных данных для входа.
type Request struct {
	ExternalID string `json:"external_id" validate:"required,min=3,max=20"`
	Password   string `json:"password" validate:"required,min=6"`
}

// Service описывает интерфейс бизнес-логики входа.
type Service interface {
	Login(ctx context.Context, externalID, rawPassword string) (*models.User, string, error)
}

// Handler обрабатывает HTTP-запросы входа.
type Handler struct {
	log      *slog.Logger
	auth     Service
	cookie   config.Session
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, auth Service, cookie config.Session) *Handler {
	return &Handler{
		log:      log,
		auth:     auth,
		cookie:   cookie,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход пользователя
// @Description Аутентифицирует пользователя по уникальному ID и паролю, открывает сессию.
// @Tags auth
// @Accept  json
// @Produce json
// @Param request body Request true "Учетные данные пользователя"
// @Success 200 {object} response.Response "Успешный вход"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

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

	user, sid, err := h.auth.Login(r.Context(), req.ExternalID, req.Password)
	if err != nil {
		if errors.Is(err, authservice.ErrInvalidCredentials) {
			log.Info("login rejected", slog.String("external_id", req.ExternalID))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("identifier or password incorrect"))
			return
		}
		log.Error("login failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
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

	log.Info("login success", slog.String("external_id", req.ExternalID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"external_id": user.ExternalID,
		"role":        user.Role,
		"name":        user.Name,
	}))
}
