package resetrequest

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
	"github.com/magabrotheeeer/sisalud/internal/storage/repository"
)

// Мок сервиса восстановления
type ResetServiceMock struct {
	mock.Mock
}

func (m *ResetServiceMock) Request(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestResetRequestHandler_ServeHTTP(t *testing.T) {
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
			name:           "recovery link queued",
			requestBody:    Request{Email: "maria@example.com"},
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
			name:           "validation error - not an email",
			requestBody:    Request{Email: "not-an-email"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Email must be a valid email",
			wantStatus:     "Error",
		},
		{
			name:           "unknown email",
			requestBody:    Request{Email: "nobody@example.com"},
			mockErr:        repository.ErrUserNotFound,
			callService:    true,
			wantStatusCode: http.StatusNotFound,
			wantError:      "no account with that email",
			wantStatus:     "Error",
		},
		{
			name:           "mail dispatch failed",
			requestBody:    Request{Email: "maria@example.com"},
			mockErr:        resetservice.ErrNotifyFailed,
			callService:    true,
			wantStatusCode: http.StatusBadGateway,
			wantError:      "failed to send recovery mail",
			wantStatus:     "Error",
		},
		{
			name:           "service error",
			requestBody:    Request{Email: "maria@example.com"},
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
				resetMock.On("Request", mock.Anything, mock.Anything).
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

			req := httptest.NewRequest(http.MethodPost, "/password/forgot", bytes.NewReader(bodyBytes))
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
