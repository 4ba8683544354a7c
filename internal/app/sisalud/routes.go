// Package sisalud предоставляет маршруты для основного приложения.
package sisalud

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/sisalud/internal/config"
	"github.com/magabrotheeeer/sisalud/internal/http/handlers/admin/deactivate"
	"github.com/magabrotheeeer/sisalud/internal/http/handlers/admin/listusers"
	"github.com/magabrotheeeer/sisalud/internal/http/handlers/admin/updateuser"
	appointmentlist "github.com/magabrotheeeer/sisalud/internal/http/handlers/appointment/list"
	"github.com/magabrotheeeer/sisalud/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/sisalud/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/sisalud/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/sisalud/internal/http/handlers/auth/resetconfirm"
	"github.com/magabrotheeeer/sisalud/internal/http/handlers/auth/resetrequest"
	"github.com/magabrotheeeer/sisalud/internal/http/handlers/auth/resetvalidate"
	"github.com/magabrotheeeer/sisalud/internal/http/handlers/dashboard"
	"github.com/magabrotheeeer/sisalud/internal/http/handlers/health"
	"github.com/magabrotheeeer/sisalud/internal/http/handlers/profile"
	"github.com/magabrotheeeer/sisalud/internal/http/middlewarectx"
	"github.com/magabrotheeeer/sisalud/internal/models"
	adminservice "github.com/magabrotheeeer/sisalud/internal/services/admin"
	appointmentservice "github.com/magabrotheeeer/sisalud/internal/services/appointment"
	authservice "github.com/magabrotheeeer/sisalud/internal/services/auth"
	resetservice "github.com/magabrotheeeer/sisalud/internal/services/reset"
	"github.com/magabrotheeeer/sisalud/internal/session"
	"github.com/magabrotheeeer/sisalud/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	db *repository.Storage, sessions *session.Store,
	authService *authservice.AuthService, resetService *resetservice.ResetService,
	adminService *adminservice.AdminService, appointmentService *appointmentservice.AppointmentService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	publicLimiter := rate.NewLimiter(rate.Limit(10), 20)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки, ограниченные по частоте запросов
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(publicLimiter, logger))
			r.Post("/register", register.New(logger, authService, cfg.Session).ServeHTTP)
			r.Post("/login", login.New(logger, authService, cfg.Session).ServeHTTP)
			r.Post("/password/forgot", resetrequest.New(logger, resetService).ServeHTTP)
			r.Get("/password/reset/{token}", resetvalidate.New(logger, resetService).ServeHTTP)
			r.Post("/password/reset", resetconfirm.New(logger, resetService).ServeHTTP)
		})

		// Группа с серверными сессиями
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.SessionMiddleware(sessions, cfg.Session.CookieName, logger))
			r.Post("/logout", logout.New(logger, sessions, cfg.Session).ServeHTTP)
			r.Get("/dashboard", dashboard.New(logger, appointmentService).ServeHTTP)
			r.Get("/profile", profile.New(logger, db).ServeHTTP)
			r.Get("/appointments", appointmentlist.New(logger, appointmentService).ServeHTTP)

			// Группа только для администраторов
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(models.RoleAdmin, logger))
				r.Get("/admin/users", listusers.New(logger, adminService).ServeHTTP)
				r.Put("/admin/users/{id}", updateuser.New(logger, adminService).ServeHTTP)
				r.Post("/admin/users/{id}/deactivate", deactivate.New(logger, adminService).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
