// Package services реализует жизненный цикл токена восстановления пароля:
// выдача, проверка и одноразовое использование.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/sisalud/internal/lib/password"
	"github.com/magabrotheeeer/sisalud/internal/lib/sl"
	"github.com/magabrotheeeer/sisalud/internal/lib/token"
	"github.com/magabrotheeeer/sisalud/internal/models"
	"github.com/magabrotheeeer/sisalud/internal/storage/repository"
)

var (
	// ErrTokenInvalid токен отсутствует, истек или уже использован.
	// Какая из причин сработала, наружу не сообщается.
	ErrTokenInvalid = errors.New("invalid or expired reset token")
	// ErrNotifyFailed письмо не удалось поставить в очередь.
	// Токен при этом сохранен и действителен.
	ErrNotifyFailed = errors.New("failed to dispatch reset mail")
)

// UserRepository описывает работу с токенами восстановления в базе.
type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	SetResetToken(ctx context.Context, userUID, resetToken string, expiry time.Time) error
	GetUserByResetToken(ctx context.Context, resetToken string) (*models.User, error)
	ClearResetToken(ctx context.Context, resetToken string) error
	ConsumeResetToken(ctx context.Context, resetToken, passwordHash string, now time.Time) (bool, error)
}

// Notifier отправляет задание на доставку письма восстановления.
// Сама доставка живет в отдельном сервисе-отправителе.
type Notifier interface {
	PublishResetMail(job models.ResetMailJob) error
}

// ResetService управляет токенами восстановления пароля.
type ResetService struct {
	users    UserRepository
	notifier Notifier
	log      *slog.Logger
	tokenTTL time.Duration
	baseURL  string
	now      func() time.Time
}

// NewResetService создает новый экземпляр ResetService.
func NewResetService(users UserRepository, notifier Notifier, log *slog.Logger,
	tokenTTL time.Duration, baseURL string) *ResetService {
	return &ResetService{
		users:    users,
		notifier: notifier,
		log:      log,
		tokenTTL: tokenTTL,
		baseURL:  baseURL,
		now:      time.Now,
	}
}

// WithClock подменяет источник времени, используется в тестах истечения токена.
func (s *ResetService) WithClock(now func() time.Time) *ResetService {
	s.now = now
	return s
}

// Request выпускает пользователю новый токен восстановления и ставит письмо
// со ссылкой в очередь на отправку. Токен сначала сохраняется в базе:
// даже если очередь недоступна, сохраненный токен остается источником истины
// и действует до истечения срока.
func (s *ResetService) Request(ctx context.Context, email string) error {
	const op = "services.reset.Request"

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return repository.ErrUserNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	resetToken, err := token.New()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	expiry := s.now().Add(s.tokenTTL)
	if err := s.users.SetResetToken(ctx, user.UID, resetToken, expiry); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	job := models.ResetMailJob{
		Email:    user.Email,
		Name:     user.Name,
		ResetURL: s.baseURL + "/" + resetToken,
	}
	if err := s.notifier.PublishResetMail(job); err != nil {
		s.log.Error("failed to publish reset mail", sl.Err(err),
			slog.String("email", user.Email))
		return ErrNotifyFailed
	}
	return nil
}

// Validate возвращает пользователя, которому принадлежит действующий токен.
// Истекший токен считается недействительным и попутно очищается,
// та же политика действует в Consume.
func (s *ResetService) Validate(ctx context.Context, resetToken string) (*models.User, error) {
	const op = "services.reset.Validate"

	user, err := s.users.GetUserByResetToken(ctx, resetToken)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if user.ResetTokenExpiry == nil || !s.now().Before(*user.ResetTokenExpiry) {
		if err := s.users.ClearResetToken(ctx, resetToken); err != nil {
			s.log.Error("failed to clear expired reset token", sl.Err(err))
		}
		return nil, ErrTokenInvalid
	}
	return user, nil
}

// Consume одноразово обменивает действующий токен на новый пароль.
// Проверка и очистка токена выполняются одной условной командой в базе,
// поэтому из двух конкурентных вызовов с одним токеном выигрывает ровно один.
func (s *ResetService) Consume(ctx context.Context, resetToken, newPassword string) error {
	const op = "services.reset.Consume"

	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	consumed, err := s.users.ConsumeResetToken(ctx, resetToken, hashed, s.now())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !consumed {
		if err := s.users.ClearResetToken(ctx, resetToken); err != nil {
			s.log.Error("failed to clear expired reset token", sl.Err(err))
		}
		return ErrTokenInvalid
	}
	return nil
}
