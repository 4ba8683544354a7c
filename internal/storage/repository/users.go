package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/sisalud/internal/models"
)

// userColumns список колонок таблицы users в порядке, ожидаемом scanUser.
const userColumns = `uid, external_id, role, name, email, password_hash, age,
			  specialty, license_number, medical_notes, registered_at, active,
			  reset_token, reset_token_expiry`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	var age sql.NullInt64
	var specialty, licenseNumber, medicalNotes, resetToken sql.NullString
	var resetTokenExpiry sql.NullTime

	if err := row.Scan(&u.UID, &u.ExternalID, &u.Role, &u.Name, &u.Email,
		&u.PasswordHash, &age, &specialty, &licenseNumber, &medicalNotes,
		&u.RegisteredAt, &u.Active, &resetToken, &resetTokenExpiry); err != nil {
		return nil, err
	}

	if age.Valid {
		v := int(age.Int64)
		u.Age = &v
	}
	if specialty.Valid {
		u.Specialty = &specialty.String
	}
	if licenseNumber.Valid {
		u.LicenseNumber = &licenseNumber.String
	}
	if medicalNotes.Valid {
		u.MedicalNotes = &medicalNotes.String
	}
	if resetToken.Valid {
		u.ResetToken = &resetToken.String
	}
	if resetTokenExpiry.Valid {
		u.ResetTokenExpiry = &resetTokenExpiry.Time
	}
	return u, nil
}

// CreateUser сохраняет нового пользователя в базу данных и возвращает его UID.
// Нарушение уникальности email или external_id возвращается как
// ErrEmailTaken / ErrExternalIDTaken.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.CreateUser"

	var newUID string
	query := `INSERT INTO users (external_id, role, name, email, password_hash, age,
			      specialty, license_number, medical_notes, registered_at, active)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, TRUE)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.ExternalID, user.Role, user.Name, user.Email, user.PasswordHash,
		user.Age, user.Specialty, user.LicenseNumber, user.MedicalNotes,
		user.RegisteredAt).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, mapUniqueViolation(err))
	}
	return newUID, nil
}

// GetUserByExternalID возвращает пользователя по его уникальному ID (логину).
func (s *Storage) GetUserByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	const op = "storage.GetUserByExternalID"

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE external_id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, externalID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// HasAdmin проверяет, существует ли хотя бы один администратор.
func (s *Storage) HasAdmin(ctx context.Context) (bool, error) {
	const op = "storage.HasAdmin"

	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE role = 'admin')`
	if err := s.DB.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// ListActiveUsers возвращает активных пользователей, новые первыми.
// Пустой roleFilter означает все роли.
func (s *Storage) ListActiveUsers(ctx context.Context, roleFilter string) ([]*models.User, error) {
	const op = "storage.ListActiveUsers"

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE active AND ($1 = '' OR role = $1)
			  ORDER BY registered_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, roleFilter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountActiveUsers возвращает счетчики активных пользователей по ролям.
func (s *Storage) CountActiveUsers(ctx context.Context) (*models.UserStats, error) {
	const op = "storage.CountActiveUsers"

	stats := &models.UserStats{}
	query := `SELECT COUNT(*),
			      COUNT(*) FILTER (WHERE role = 'doctor'),
			      COUNT(*) FILTER (WHERE role = 'patient')
			  FROM users
			  WHERE active`
	if err := s.DB.QueryRowContext(ctx, query).Scan(&stats.Total,
		&stats.Doctors, &stats.Patients); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return stats, nil
}

// DeactivateUser помечает учетную запись как неактивную, физически не удаляя ее.
func (s *Storage) DeactivateUser(ctx context.Context, userUID string) error {
	const op = "storage.DeactivateUser"

	query := `UPDATE users SET active = FALSE WHERE uid = $1`
	res, err := s.DB.ExecContext(ctx, query, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// UpdateUser обновляет имя, email и профильные поля пользователя.
// Роль и учетные данные здесь не меняются.
func (s *Storage) UpdateUser(ctx context.Context, userUID, name, email string,
	age *int, specialty, licenseNumber *string) error {
	const op = "storage.UpdateUser"

	query := `UPDATE users
			  SET name = $2,
			      email = $3,
			      age = COALESCE($4, age),
			      specialty = COALESCE($5, specialty),
			      license_number = COALESCE($6, license_number)
			  WHERE uid = $1`
	res, err := s.DB.ExecContext(ctx, query, userUID, name, email, age, specialty, licenseNumber)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapUniqueViolation(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// SetResetToken записывает пользователю токен восстановления и срок его действия.
// Оба поля заполняются одной командой, по отдельности они не существуют.
func (s *Storage) SetResetToken(ctx context.Context, userUID, resetToken string, expiry time.Time) error {
	const op = "storage.SetResetToken"

	query := `UPDATE users
			  SET reset_token = $2,
			      reset_token_expiry = $3
			  WHERE uid = $1`
	res, err := s.DB.ExecContext(ctx, query, userUID, resetToken, expiry)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// GetUserByResetToken возвращает пользователя, которому выдан токен восстановления.
func (s *Storage) GetUserByResetToken(ctx context.Context, resetToken string) (*models.User, error) {
	const op = "storage.GetUserByResetToken"

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE reset_token = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, resetToken))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ClearResetToken очищает токен восстановления вместе со сроком действия.
// Условие по значению токена делает очистку безопасной при конкурентных
// запросах: чужой, уже перевыпущенный токен затронут не будет.
func (s *Storage) ClearResetToken(ctx context.Context, resetToken string) error {
	const op = "storage.ClearResetToken"

	query := `UPDATE users
			  SET reset_token = NULL,
			      reset_token_expiry = NULL
			  WHERE reset_token = $1`
	if _, err := s.DB.ExecContext(ctx, query, resetToken); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ConsumeResetToken атомарно обменивает действующий токен восстановления на новый
// хэш пароля: пароль обновляется и оба поля токена очищаются одной командой,
// при условии что токен все еще совпадает и не истек. Возвращает false, если
// токен не найден, истек или уже использован — из двух конкурентных вызовов
// выигрывает ровно один.
func (s *Storage) ConsumeResetToken(ctx context.Context, resetToken, passwordHash string, now time.Time) (bool, error) {
	const op = "storage.ConsumeResetToken"

	query := `UPDATE users
			  SET password_hash = $2,
			      reset_token = NULL,
			      reset_token_expiry = NULL
			  WHERE reset_token = $1 AND reset_token_expiry > $3`
	res, err := s.DB.ExecContext(ctx, query, resetToken, passwordHash, now)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return affected == 1, nil
}
