// Package token генерирует непредсказуемые строковые токены
// для идентификаторов сессий и ссылок восстановления пароля.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// tokenBytes длина токена в байтах, 256 бит энтропии.
const tokenBytes = 32

// New возвращает новый случайный токен в кодировке base64url.
// Источник случайности — crypto/rand, токен нельзя предсказать
// по времени запроса.
func New() (string, error) {
	const op = "token.New"
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
