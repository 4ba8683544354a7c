package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/sisalud/internal/migrations"
	"github.com/magabrotheeeer/sisalud/internal/models"
)

// setupTestDatabase поднимает одноразовый контейнер PostgreSQL
// и накатывает на него миграции проекта.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(dsn)
	require.NoError(t, err)

	projectRoot, err := filepath.Abs("../../..")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, filepath.Join(projectRoot, "migrations")))

	cleanup := func() {
		storage.DB.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return storage, cleanup
}

// TestDataFactory наполняет тестовую базу пользователями и приемами.
type TestDataFactory struct {
	storage *Storage
}

func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает пользователя и возвращает его UID.
func (f *TestDataFactory) CreateUser(t *testing.T, externalID, role, name, email, passwordHash string) string {
	uid, err := f.storage.CreateUser(context.Background(), models.User{
		ExternalID:   externalID,
		Role:         role,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		RegisteredAt: time.Now().UTC(),
		Active:       true,
	})
	require.NoError(t, err)
	return uid
}

// CreateAppointment создает запись на прием между пациентом и врачом.
func (f *TestDataFactory) CreateAppointment(t *testing.T, date time.Time, kind, patientUID, doctorUID string) int {
	var id int
	err := f.storage.DB.QueryRow(
		`INSERT INTO appointments (date, kind, patient_uid, doctor_uid)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		date, kind, patientUID, doctorUID).Scan(&id)
	require.NoError(t, err)
	return id
}
