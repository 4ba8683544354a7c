// Package services содержит операции администратора над учетными записями.
package services

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/sisalud/internal/models"
)

// UserRepository описывает административные операции над пользователями.
type UserRepository interface {
	ListActiveUsers(ctx context.Context, roleFilter string) ([]*models.User, error)
	CountActiveUsers(ctx context.Context) (*models.UserStats, error)
	DeactivateUser(ctx context.Context, userUID string) error
	UpdateUser(ctx context.Context, userUID, name, email string,
		age *int, specialty, licenseNumber *string) error
}

// AdminService реализует просмотр и управление учетными записями.
type AdminService struct {
	users UserRepository
}

// NewAdminService создает новый экземпляр AdminService.
func NewAdminService(users UserRepository) *AdminService {
	return &AdminService{users: users}
}

// ListUsers возвращает активных пользователей с учетом фильтра по роли
// и счетчики для панели администратора. Неактивные учетные записи
// в списки не попадают.
func (s *AdminService) ListUsers(ctx context.Context, roleFilter string) ([]*models.User, *models.UserStats, error) {
	const op = "services.admin.ListUsers"

	users, err := s.users.ListActiveUsers(ctx, roleFilter)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	stats, err := s.users.CountActiveUsers(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, stats, nil
}

// DeactivateUser помечает учетную запись неактивной, запись остается в базе.
func (s *AdminService) DeactivateUser(ctx context.Context, userUID string) error {
	return s.users.DeactivateUser(ctx, userUID)
}

// UpdateUser обновляет имя, email и профильные поля учетной записи.
func (s *AdminService) UpdateUser(ctx context.Context, userUID, name, email string,
	age *int, specialty, licenseNumber *string) error {
	return s.users.UpdateUser(ctx, userUID, name, email, age, specialty, licenseNumber)
}
