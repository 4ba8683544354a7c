// Package session реализует серверные сессии поверх redis.
//
// Клиент получает только непрозрачный идентификатор сессии (через cookie),
// сами данные — UID пользователя и его роль — живут на сервере.
// Сессия создается при входе или регистрации, уничтожается при выходе
// и автоматически истекает по TTL.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/sisalud/internal/config"
	"github.com/magabrotheeeer/sisalud/internal/lib/token"
)

const keyPrefix = "session:"

// Session данные, привязанные к идентификатору сессии.
type Session struct {
	UserUID string `json:"user_uid"`
	Role    string `json:"role"` // Роль кэшируется на момент входа
}

// Store хранилище сессий в redis.
type Store struct {
	db  *redis.Client
	ttl time.Duration
}

// New подключается к redis и возвращает готовое хранилище сессий.
func New(ctx context.Context, cfg config.RedisConnection, ttl time.Duration) (*Store, error) {
	const op = "session.New"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Store{db: db, ttl: ttl}, nil
}

// NewWithClient оборачивает готовый клиент redis, используется в тестах.
func NewWithClient(db *redis.Client, ttl time.Duration) *Store {
	return &Store{db: db, ttl: ttl}
}

// Create выпускает новую сессию для пользователя и возвращает ее идентификатор.
// Идентификатор — случайный токен, по нему нельзя восстановить содержимое.
func (s *Store) Create(ctx context.Context, userUID, role string) (string, error) {
	const op = "session.Create"

	sid, err := token.New()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	payload, err := json.Marshal(Session{UserUID: userUID, Role: role})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := s.db.Set(ctx, keyPrefix+sid, payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return sid, nil
}

// Get возвращает сессию по идентификатору. Отсутствующая или нечитаемая
// сессия — это не ошибка, а ответ "сессии нет" (found == false).
func (s *Store) Get(ctx context.Context, sid string) (*Session, bool, error) {
	const op = "session.Get"

	val, err := s.db.Get(ctx, keyPrefix+sid).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	var sess Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return nil, false, nil
	}
	return &sess, true, nil
}

// Destroy удаляет сессию. Повторное удаление уже отсутствующей сессии
// не является ошибкой.
func (s *Store) Destroy(ctx context.Context, sid string) error {
	const op = "session.Destroy"

	if err := s.db.Del(ctx, keyPrefix+sid).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
