package deactivate

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/sisalud/internal/storage/repository"
)

// Мок административного сервиса
type AdminServiceMock struct {
	mock.Mock
}

func (m *AdminServiceMock) DeactivateUser(ctx context.Context, userUID string) error {
	args := m.Called(ctx, userUID)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestDeactivateHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		userUID        string
		mockErr        error
		callService    bool
		wantStatusCode int
		wantError      string
		wantStatus     string
	}{
		{
			name:           "user deactivated",
			userUID:        "6f1b2a3c-4d5e-4f60-8a7b-9c0d1e2f3a4b",
			callService:    true,
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "user not found",
			userUID:        "0a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d",
			mockErr:        repository.ErrUserNotFound,
			callService:    true,
			wantStatusCode: http.StatusNotFound,
			wantError:      "user not found",
			wantStatus:     "Error",
		},
		{
			name:           "malformed user id",
			userUID:        "not-a-uuid",
			wantStatusCode: http.StatusNotFound,
			wantError:      "user not found",
			wantStatus:     "Error",
		},
		{
			name:           "service error",
			userUID:        "6f1b2a3c-4d5e-4f60-8a7b-9c0d1e2f3a4b",
			mockErr:        errors.New("db error"),
			callService:    true,
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "internal service error",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adminMock := new(AdminServiceMock)
			if tt.callService {
				adminMock.On("DeactivateUser", mock.Anything, tt.userUID).
					Return(tt.mockErr).Once()
			}

			handler := New(newNoopLogger(), adminMock)

			router := chi.NewRouter()
			router.Post("/admin/users/{id}/deactivate", handler.ServeHTTP)

			req := httptest.NewRequest(http.MethodPost,
				"/admin/users/"+tt.userUID+"/deactivate", nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err := json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			}

			if !tt.callService {
				adminMock.AssertNotCalled(t, "DeactivateUser", mock.Anything, mock.Anything)
			}
			adminMock.AssertExpectations(t)
		})
	}
}
