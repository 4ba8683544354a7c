package sisalud

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/sisalud/internal/config"
	"github.com/magabrotheeeer/sisalud/internal/lib/password"
	"github.com/magabrotheeeer/sisalud/internal/migrations"
	"github.com/magabrotheeeer/sisalud/internal/models"
	"github.com/magabrotheeeer/sisalud/internal/rabbitmq"
	adminservice "github.com/magabrotheeeer/sisalud/internal/services/admin"
	appointmentservice "github.com/magabrotheeeer/sisalud/internal/services/appointment"
	authservice "github.com/magabrotheeeer/sisalud/internal/services/auth"
	resetservice "github.com/magabrotheeeer/sisalud/internal/services/reset"
	"github.com/magabrotheeeer/sisalud/internal/session"
	"github.com/magabrotheeeer/sisalud/internal/storage/repository"
)

type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *repository.Storage
	sessions *session.Store
	amqpConn *amqp.Connection
	amqpCh   *amqp.Channel
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	sessions, err := session.New(ctx, cfg.RedisConnection, cfg.Session.SessionTTL)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.Rabbit.URL, cfg.Rabbit.MaxRetries, cfg.Rabbit.RetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, cfg.Rabbit.ResetMailQueue)
	if err != nil {
		conn.Close()
		return nil, err
	}

	if err := seedAdmin(ctx, cfg.BootstrapAdmin, db, logger); err != nil {
		return nil, err
	}

	notifier := rabbitmq.NewNotifier(ch, cfg.Rabbit.ResetMailQueue)

	authService := authservice.NewAuthService(db, sessions)
	resetService := resetservice.NewResetService(db, notifier, logger,
		cfg.ResetToken.ResetTokenTTL, cfg.ResetToken.ResetBaseURL)
	adminService := adminservice.NewAdminService(db)
	appointmentService := appointmentservice.NewAppointmentService(db)

	router := chi.NewRouter()

	RegisterRoutes(router, logger, cfg, db, sessions,
		authService, resetService, adminService, appointmentService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		sessions: sessions,
		amqpConn: conn,
		amqpCh:   ch,
	}, nil
}

// adminSeedStore описывает операции хранилища, нужные для создания
// стартового администратора.
type adminSeedStore interface {
	HasAdmin(ctx context.Context) (bool, error)
	CreateUser(ctx context.Context, user models.User) (string, error)
}

// seedAdmin создает учетную запись администратора при первом запуске,
// если в базе еще нет ни одного активного администратора.
func seedAdmin(ctx context.Context, cfg config.BootstrapAdmin, db adminSeedStore, logger *slog.Logger) error {
	const op = "app.seedAdmin"

	exists, err := db.HasAdmin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return nil
	}
	if cfg.AdminPassword == "" {
		return fmt.Errorf("%s: admin password is not set", op)
	}

	hash, err := password.GetHash(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	_, err = db.CreateUser(ctx, models.User{
		ExternalID:   cfg.AdminExternalID,
		Role:         models.RoleAdmin,
		Name:         cfg.AdminName,
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		RegisteredAt: time.Now().UTC(),
		Active:       true,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("bootstrap admin created", slog.String("external_id", cfg.AdminExternalID))
	return nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.amqpCh.Close()
		a.amqpConn.Close()
		a.db.DB.Close()
		return err
	}
}
