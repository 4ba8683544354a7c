package resetconfirm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	resetservice "github.com/magabrotheeeer/sisalud/internal/services/reset"
)

// Мок сервиса восстановления
type ResetServiceMock struct {
	mock.Mock
}

func (m *ResetServiceMock) Consume(ctx context.Context, resetToken, newPassword string) error {
	args := m.Called(ctx, resetToken, newPassword)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestResetConfirmHandler_ServeHTTP(t *testing.T) {
	resetMock := new(ResetServiceMock)
	handler := New(newNoopLogger(), resetMock)

	tests := []struct {
		name           string
		requestBody    interface{}
		mockErr        error
		callService    bool
		wantStatusCode int
		wantError      string
		wantStatus     string
	}{
		{
			name: "password updated",
			requestBody: Request{
				Token:           "valid-token",
				Password:        "newpassword123",
				ConfirmPassword: "newpassword123",
			},
			callService:    true,
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
			wantStatus:     "Error",
		},
		{
			name: "passwords do not match",
			requestBody: Request{
				Token:           "valid-token",
				Password:        "newpassword123",
				ConfirmPassword: "differentpassword",
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     "Error",
		},
		{
			name: "password too short",
			requestBody: Request{
				Token:           "valid-token",
				Password:        "abc",
				ConfirmPassword: "abc",
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Password is too short",
			wantStatus:     "Error",
		},
		{
			name: "invalid or expired token",
			requestBody: Request{
				Token:           "stale-token",
				Password:        "newpassword123",
				ConfirmPassword: "newpassword123",
			},
			mockErr:        resetservice.ErrTokenInvalid,
			callService:    true,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid or expired link",
			wantStatus:     "Error",
		},
		{
			name: "service error",
			requestBody: Request{
				Token:           "valid-token",
				Password:        "newpassword123",
				ConfirmPassword: "newpassword123",
			},
			mockErr:        errors.New("db error"),
			callService:    true,
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "internal service error",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetMock.ExpectedCalls = nil
			resetMock.Calls = nil

			if tt.callService {
				resetMock.On("Consume", mock.Anything, mock.Anything, mock.Anything).
					Return(tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/password/reset", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				errStr, ok := got["error"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantError, errStr)
			}

			resetMock.AssertExpectations(t)
		})
	}
}
