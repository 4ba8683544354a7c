package repository

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Ошибки уровня хранилища. Сервисы сопоставляют их с ответами пользователю.
var (
	// ErrUserNotFound пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken пользователь с таким email уже зарегистрирован.
	ErrEmailTaken = errors.New("email already registered")
	// ErrExternalIDTaken пользователь с таким уникальным ID уже зарегистрирован.
	ErrExternalIDTaken = errors.New("external id already in use")
	// ErrTokenNotFound токен восстановления не найден или уже использован.
	ErrTokenNotFound = errors.New("reset token not found")
)

// mapUniqueViolation превращает нарушение уникального индекса в типизированную
// ошибку по имени ограничения. Ограничения базы — последний рубеж против гонки
// "проверили-вставили" между двумя конкурентными регистрациями.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return err
	}
	switch pgErr.ConstraintName {
	case "users_email_key":
		return ErrEmailTaken
	case "users_external_id_key":
		return ErrExternalIDTaken
	default:
		return err
	}
}
