package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/sisalud/internal/lib/password"
)

func TestStorage_SetAndGetResetToken(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "PAT001", "patient", "Maria Garcia", "maria@example.com", "hash")

	expiry := time.Now().UTC().Add(24 * time.Hour)
	require.NoError(t, storage.SetResetToken(context.Background(), uid, "token-abc", expiry))

	got, err := storage.GetUserByResetToken(context.Background(), "token-abc")
	require.NoError(t, err)
	assert.Equal(t, uid, got.UID)
	require.NotNil(t, got.ResetTokenExpiry)
	assert.WithinDuration(t, expiry, *got.ResetTokenExpiry, time.Second)

	_, err = storage.GetUserByResetToken(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestStorage_SetResetToken_ReplacesPrevious(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "PAT001", "patient", "Maria Garcia", "maria@example.com", "hash")

	expiry := time.Now().UTC().Add(24 * time.Hour)
	require.NoError(t, storage.SetResetToken(context.Background(), uid, "token-old", expiry))
	require.NoError(t, storage.SetResetToken(context.Background(), uid, "token-new", expiry))

	// Старый токен перестает существовать
	_, err := storage.GetUserByResetToken(context.Background(), "token-old")
	assert.ErrorIs(t, err, ErrTokenNotFound)

	got, err := storage.GetUserByResetToken(context.Background(), "token-new")
	require.NoError(t, err)
	assert.Equal(t, uid, got.UID)
}

func TestStorage_ClearResetToken(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "PAT001", "patient", "Maria Garcia", "maria@example.com", "hash")

	expiry := time.Now().UTC().Add(24 * time.Hour)
	require.NoError(t, storage.SetResetToken(context.Background(), uid, "token-abc", expiry))
	require.NoError(t, storage.ClearResetToken(context.Background(), "token-abc"))

	got, err := storage.GetUser(context.Background(), uid)
	require.NoError(t, err)
	assert.Nil(t, got.ResetToken)
	assert.Nil(t, got.ResetTokenExpiry)

	// Очистка отсутствующего токена не является ошибкой
	require.NoError(t, storage.ClearResetToken(context.Background(), "token-abc"))
}

func TestStorage_ConsumeResetToken(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	oldHash, err := password.GetHash("oldpassword")
	require.NoError(t, err)
	newHash, err := password.GetHash("newpassword123")
	require.NoError(t, err)

	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "PAT001", "patient", "Maria Garcia", "maria@example.com", oldHash)

	now := time.Now().UTC()
	require.NoError(t, storage.SetResetToken(context.Background(), uid, "token-abc", now.Add(time.Hour)))

	consumed, err := storage.ConsumeResetToken(context.Background(), "token-abc", newHash, now)
	require.NoError(t, err)
	assert.True(t, consumed)

	// Пароль обновлен, токен очищен
	got, err := storage.GetUserByExternalID(context.Background(), "PAT001")
	require.NoError(t, err)
	assert.NoError(t, password.CompareHash(got.PasswordHash, "newpassword123"))
	assert.Error(t, password.CompareHash(got.PasswordHash, "oldpassword"))
	assert.Nil(t, got.ResetToken)
	assert.Nil(t, got.ResetTokenExpiry)

	// Повторное использование того же токена не проходит
	consumed, err = storage.ConsumeResetToken(context.Background(), "token-abc", newHash, now)
	require.NoError(t, err)
	assert.False(t, consumed)
}

func TestStorage_ConsumeResetToken_Expired(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "PAT001", "patient", "Maria Garcia", "maria@example.com", "oldhash")

	now := time.Now().UTC()
	require.NoError(t, storage.SetResetToken(context.Background(), uid, "token-abc", now.Add(-time.Minute)))

	consumed, err := storage.ConsumeResetToken(context.Background(), "token-abc", "newhash", now)
	require.NoError(t, err)
	assert.False(t, consumed)

	// Пароль остался прежним
	got, err := storage.GetUser(context.Background(), uid)
	require.NoError(t, err)
	assert.Equal(t, "oldhash", got.PasswordHash)
}

// Из двух конкурентных попыток использовать один токен выигрывает ровно одна.
func TestStorage_ConsumeResetToken_ConcurrentDoubleSpend(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "PAT001", "patient", "Maria Garcia", "maria@example.com", "oldhash")

	now := time.Now().UTC()
	require.NoError(t, storage.SetResetToken(context.Background(), uid, "token-abc", now.Add(time.Hour)))

	const attempts = 8
	results := make([]bool, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			consumed, err := storage.ConsumeResetToken(context.Background(),
				"token-abc", "newhash", now)
			require.NoError(t, err)
			results[i] = consumed
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, consumed := range results {
		if consumed {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
}
