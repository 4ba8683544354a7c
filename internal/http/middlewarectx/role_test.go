package middlewarectx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/sisalud/internal/session"
)

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name           string
		required       string
		ctxRole        any
		wantStatusCode int
		wantNextCalled bool
	}{
		{
			name:           "matching role passes",
			required:       "admin",
			ctxRole:        "admin",
			wantStatusCode: http.StatusOK,
			wantNextCalled: true,
		},
		{
			name:           "other role forbidden",
			required:       "admin",
			ctxRole:        "patient",
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:           "missing role forbidden",
			required:       "admin",
			ctxRole:        nil,
			wantStatusCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			})

			mw := RequireRole(tt.required, newNoopLogger())

			req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
			if tt.ctxRole != nil {
				req = req.WithContext(context.WithValue(req.Context(), Role, tt.ctxRole))
			}
			rec := httptest.NewRecorder()

			mw(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantNextCalled, nextCalled)
		})
	}
}

// Отказ по роли не трогает сессию: тот же cookie после ответа 403
// продолжает открывать страницы, доступные его роли.
func TestRequireRole_SessionSurvivesForbidden(t *testing.T) {
	resolver := new(SessionResolverMock)
	resolver.On("Get", mock.Anything, "patient-sid").
		Return(&session.Session{UserUID: "user-uid-1", Role: "patient"}, true, nil).Twice()

	log := newNoopLogger()
	sessionMW := SessionMiddleware(resolver, "sid", log)
	adminOnly := sessionMW(RequireRole("admin", log)(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })))
	ownPage := sessionMW(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }))

	// Пациент ломится в административный раздел
	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "patient-sid"})
	rec := httptest.NewRecorder()
	adminOnly.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Та же сессия по-прежнему действительна
	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "patient-sid"})
	rec = httptest.NewRecorder()
	ownPage.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	resolver.AssertExpectations(t)
}
