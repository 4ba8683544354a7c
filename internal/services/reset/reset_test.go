package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/sisalud/internal/lib/password"
	"github.com/magabrotheeeer/sisalud/internal/models"
	services "github.com/magabrotheeeer/sisalud/internal/services/reset"
	"github.com/magabrotheeeer/sisalud/internal/storage/repository"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) SetResetToken(ctx context.Context, userUID, resetToken string, expiry time.Time) error {
	args := m.Called(ctx, userUID, resetToken, expiry)
	return args.Error(0)
}

func (m *UserRepoMock) GetUserByResetToken(ctx context.Context, resetToken string) (*models.User, error) {
	args := m.Called(ctx, resetToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) ClearResetToken(ctx context.Context, resetToken string) error {
	args := m.Called(ctx, resetToken)
	return args.Error(0)
}

func (m *UserRepoMock) ConsumeResetToken(ctx context.Context, resetToken, passwordHash string, now time.Time) (bool, error) {
	args := m.Called(ctx, resetToken, passwordHash, now)
	return args.Bool(0), args.Error(1)
}

// Мок для Notifier
type NotifierMock struct {
	mock.Mock
}

func (m *NotifierMock) PublishResetMail(job models.ResetMailJob) error {
	args := m.Called(job)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

const (
	testTokenTTL = 24 * time.Hour
	testBaseURL  = "http://localhost:8080/reset_password"
)

func TestResetService_Request(t *testing.T) {
	user := &models.User{
		UID:   "user-uid-1",
		Name:  "Maria Garcia",
		Email: "maria@example.com",
	}

	t.Run("issues token and queues mail", func(t *testing.T) {
		repo := new(UserRepoMock)
		notifier := new(NotifierMock)
		svc := services.NewResetService(repo, notifier, newNoopLogger(), testTokenTTL, testBaseURL)

		frozen := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		svc.WithClock(func() time.Time { return frozen })

		var issuedToken string
		repo.On("GetUserByEmail", mock.Anything, "maria@example.com").
			Return(user, nil).Once()
		repo.On("SetResetToken", mock.Anything, "user-uid-1",
			mock.MatchedBy(func(token string) bool {
				issuedToken = token
				return len(token) > 40
			}), frozen.Add(testTokenTTL)).Return(nil).Once()
		notifier.On("PublishResetMail", mock.MatchedBy(func(job models.ResetMailJob) bool {
			return job.Email == "maria@example.com" &&
				job.Name == "Maria Garcia" &&
				strings.HasPrefix(job.ResetURL, testBaseURL+"/") &&
				strings.HasSuffix(job.ResetURL, issuedToken)
		})).Return(nil).Once()

		err := svc.Request(context.Background(), "maria@example.com")
		require.NoError(t, err)

		repo.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("unknown email does not issue token", func(t *testing.T) {
		repo := new(UserRepoMock)
		notifier := new(NotifierMock)
		svc := services.NewResetService(repo, notifier, newNoopLogger(), testTokenTTL, testBaseURL)

		repo.On("GetUserByEmail", mock.Anything, "nobody@example.com").
			Return(nil, repository.ErrUserNotFound).Once()

		err := svc.Request(context.Background(), "nobody@example.com")
		assert.ErrorIs(t, err, repository.ErrUserNotFound)

		repo.AssertNotCalled(t, "SetResetToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		notifier.AssertNotCalled(t, "PublishResetMail", mock.Anything)
	})

	t.Run("token survives publish failure", func(t *testing.T) {
		repo := new(UserRepoMock)
		notifier := new(NotifierMock)
		svc := services.NewResetService(repo, notifier, newNoopLogger(), testTokenTTL, testBaseURL)

		repo.On("GetUserByEmail", mock.Anything, "maria@example.com").
			Return(user, nil).Once()
		repo.On("SetResetToken", mock.Anything, "user-uid-1", mock.Anything, mock.Anything).
			Return(nil).Once()
		notifier.On("PublishResetMail", mock.Anything).
			Return(errors.New("broker unavailable")).Once()

		err := svc.Request(context.Background(), "maria@example.com")
		assert.ErrorIs(t, err, services.ErrNotifyFailed)

		// Токен уже сохранен, очистка не вызывается
		repo.AssertExpectations(t)
		repo.AssertNotCalled(t, "ClearResetToken", mock.Anything, mock.Anything)
	})

	t.Run("new request replaces previous token", func(t *testing.T) {
		repo := new(UserRepoMock)
		notifier := new(NotifierMock)
		svc := services.NewResetService(repo, notifier, newNoopLogger(), testTokenTTL, testBaseURL)

		var tokens []string
		repo.On("GetUserByEmail", mock.Anything, "maria@example.com").
			Return(user, nil).Twice()
		repo.On("SetResetToken", mock.Anything, "user-uid-1",
			mock.MatchedBy(func(token string) bool {
				tokens = append(tokens, token)
				return true
			}), mock.Anything).Return(nil).Twice()
		notifier.On("PublishResetMail", mock.Anything).Return(nil).Twice()

		require.NoError(t, svc.Request(context.Background(), "maria@example.com"))
		require.NoError(t, svc.Request(context.Background(), "maria@example.com"))

		require.Len(t, tokens, 2)
		assert.NotEqual(t, tokens[0], tokens[1])
	})
}

func TestResetService_Validate(t *testing.T) {
	frozen := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("valid token returns owner", func(t *testing.T) {
		repo := new(UserRepoMock)
		svc := services.NewResetService(repo, new(NotifierMock), newNoopLogger(), testTokenTTL, testBaseURL)
		svc.WithClock(func() time.Time { return frozen })

		expiry := frozen.Add(time.Hour)
		repo.On("GetUserByResetToken", mock.Anything, "good-token").
			Return(&models.User{UID: "user-uid-1", ResetTokenExpiry: &expiry}, nil).Once()

		user, err := svc.Validate(context.Background(), "good-token")
		require.NoError(t, err)
		assert.Equal(t, "user-uid-1", user.UID)
	})

	t.Run("unknown token invalid", func(t *testing.T) {
		repo := new(UserRepoMock)
		svc := services.NewResetService(repo, new(NotifierMock), newNoopLogger(), testTokenTTL, testBaseURL)

		repo.On("GetUserByResetToken", mock.Anything, "missing-token").
			Return(nil, repository.ErrTokenNotFound).Once()

		_, err := svc.Validate(context.Background(), "missing-token")
		assert.ErrorIs(t, err, services.ErrTokenInvalid)
	})

	t.Run("expired token invalid and lazily cleared", func(t *testing.T) {
		repo := new(UserRepoMock)
		svc := services.NewResetService(repo, new(NotifierMock), newNoopLogger(), testTokenTTL, testBaseURL)
		svc.WithClock(func() time.Time { return frozen })

		expiry := frozen.Add(-time.Minute)
		repo.On("GetUserByResetToken", mock.Anything, "stale-token").
			Return(&models.User{UID: "user-uid-1", ResetTokenExpiry: &expiry}, nil).Once()
		repo.On("ClearResetToken", mock.Anything, "stale-token").Return(nil).Once()

		_, err := svc.Validate(context.Background(), "stale-token")
		assert.ErrorIs(t, err, services.ErrTokenInvalid)

		repo.AssertExpectations(t)
	})

	t.Run("token expiring exactly now invalid", func(t *testing.T) {
		repo := new(UserRepoMock)
		svc := services.NewResetService(repo, new(NotifierMock), newNoopLogger(), testTokenTTL, testBaseURL)
		svc.WithClock(func() time.Time { return frozen })

		expiry := frozen
		repo.On("GetUserByResetToken", mock.Anything, "edge-token").
			Return(&models.User{UID: "user-uid-1", ResetTokenExpiry: &expiry}, nil).Once()
		repo.On("ClearResetToken", mock.Anything, "edge-token").Return(nil).Once()

		_, err := svc.Validate(context.Background(), "edge-token")
		assert.ErrorIs(t, err, services.ErrTokenInvalid)
	})
}

func TestResetService_Consume(t *testing.T) {
	frozen := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("valid token sets new password once", func(t *testing.T) {
		repo := new(UserRepoMock)
		svc := services.NewResetService(repo, new(NotifierMock), newNoopLogger(), testTokenTTL, testBaseURL)
		svc.WithClock(func() time.Time { return frozen })

		repo.On("ConsumeResetToken", mock.Anything, "good-token",
			mock.MatchedBy(func(hash string) bool {
				// В базу уходит bcrypt-хэш нового пароля, не сам пароль
				return password.CompareHash(hash, "newpassword123") == nil
			}), frozen).Return(true, nil).Once()

		err := svc.Consume(context.Background(), "good-token", "newpassword123")
		require.NoError(t, err)

		repo.AssertExpectations(t)
	})

	t.Run("spent or expired token rejected", func(t *testing.T) {
		repo := new(UserRepoMock)
		svc := services.NewResetService(repo, new(NotifierMock), newNoopLogger(), testTokenTTL, testBaseURL)
		svc.WithClock(func() time.Time { return frozen })

		repo.On("ConsumeResetToken", mock.Anything, "spent-token", mock.Anything, frozen).
			Return(false, nil).Once()
		repo.On("ClearResetToken", mock.Anything, "spent-token").Return(nil).Once()

		err := svc.Consume(context.Background(), "spent-token", "newpassword123")
		assert.ErrorIs(t, err, services.ErrTokenInvalid)

		repo.AssertExpectations(t)
	})

	t.Run("repository error propagates", func(t *testing.T) {
		repo := new(UserRepoMock)
		svc := services.NewResetService(repo, new(NotifierMock), newNoopLogger(), testTokenTTL, testBaseURL)

		repo.On("ConsumeResetToken", mock.Anything, "any-token", mock.Anything, mock.Anything).
			Return(false, errors.New("db error")).Once()

		err := svc.Consume(context.Background(), "any-token", "newpassword123")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, services.ErrTokenInvalid)
	})
}
