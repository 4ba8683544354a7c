// Package services содержит логику бизнес-уровня для регистрации и входа пользователей.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/sisalud/internal/lib/password"
	"github.com/magabrotheeeer/sisalud/internal/models"
	"github.com/magabrotheeeer/sisalud/internal/storage/repository"
)

// ErrInvalidCredentials возвращается при неверном ID или пароле.
// Какая именно часть неверна, наружу не сообщается.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его UID.
	CreateUser(ctx context.Context, user models.User) (string, error)

	// GetUserByExternalID возвращает пользователя по его уникальному ID
	// или ошибку, если не найден.
	GetUserByExternalID(ctx context.Context, externalID string) (*models.User, error)

	// GetUserByEmail возвращает пользователя по email или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// SessionStore описывает выпуск серверных сессий.
type SessionStore interface {
	Create(ctx context.Context, userUID, role string) (string, error)
}

// RegisterArgs входные данные регистрации нового пользователя.
type RegisterArgs struct {
	ExternalID    string
	Role          string
	Name          string
	Email         string
	Password      string
	Age           *int    // только для пациентов
	Specialty     *string // только для врачей
	LicenseNumber *string // только для врачей
}

// AuthService отвечает за регистрацию и вход пользователей.
type AuthService struct {
	users    UserRepository
	sessions SessionStore
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, sessions SessionStore) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
	}
}

// Register создает нового пользователя и сразу открывает ему сессию.
// Уникальность email и external_id проверяется до вставки, а уникальные
// ограничения базы подстраховывают от гонки между проверкой и вставкой.
func (s *AuthService) Register(ctx context.Context, args RegisterArgs) (userUID, sid string, err error) {
	const op = "services.auth.Register"

	if _, err := s.users.GetUserByEmail(ctx, args.Email); err == nil {
		return "", "", repository.ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	if _, err := s.users.GetUserByExternalID(ctx, args.ExternalID); err == nil {
		return "", "", repository.ErrExternalIDTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.GetHash(args.Password)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		ExternalID:    args.ExternalID,
		Role:          args.Role,
		Name:          args.Name,
		Email:         args.Email,
		PasswordHash:  hashed,
		Age:           args.Age,
		Specialty:     args.Specialty,
		LicenseNumber: args.LicenseNumber,
		RegisteredAt:  time.Now().UTC(),
		Active:        true,
	}
	userUID, err = s.users.CreateUser(ctx, user)
	if err != nil {
		return "", "", err
	}

	sid, err = s.sessions.Create(ctx, userUID, args.Role)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	return userUID, sid, nil
}

// Login проверяет пароль пользователя по его уникальному ID и открывает сессию.
// Неизвестный ID и неверный пароль неразличимы для вызывающего.
func (s *AuthService) Login(ctx context.Context, externalID, rawPassword string) (user *models.User, sid string, err error) {
	const op = "services.auth.Login"

	user, err = s.users.GetUserByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	sid, err = s.sessions.Create(ctx, user.UID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return user, sid, nil
}
