package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/apilog"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRepo struct {
	entries []apilog.Entry
	err     error
}

func (r *recordingRepo) Create(ctx context.Context, e apilog.Entry) error {
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, e)
	return nil
}

func (r *recordingRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func TestAPILoggerRecordsErrors(t *testing.T) {
	repo := &recordingRepo{}
	h := RequestID(APILogger(repo, clock.Fixed(fixedNow))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.UnprocessableEntity(w, "company cannot be deleted while it has users")
	})))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/companies/abc?x=1", nil)
	req.RemoteAddr = "203.0.113.7:5123"
	req.Header.Set(RequestIDHeader, "req-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Len(t, repo.entries, 1)
	e := repo.entries[0]
	assert.Equal(t, apilog.LevelNotice, e.Level)
	assert.Equal(t, "/api/v1/companies/abc?x=1", e.URL)
	assert.Equal(t, http.MethodDelete, e.Method)
	assert.Equal(t, "203.0.113.7", e.IP)
	assert.Equal(t, "company cannot be deleted while it has users", e.Message)
	require.NotNil(t, e.RequestID)
	assert.Equal(t, "req-1", *e.RequestID)
	assert.Equal(t, fixedNow, e.CreatedAt)
	assert.NotEmpty(t, e.ID)
}

func TestAPILoggerSkipsSuccessAndSurvivesFailures(t *testing.T) {
	repo := &recordingRepo{}
	ok := APILogger(repo, clock.Fixed(fixedNow))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	}))
	ok.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, repo.entries)

	failing := &recordingRepo{err: errors.New("db down")}
	h := APILogger(failing, clock.Fixed(fixedNow))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequestIDGenerated(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
}

func TestAuthRequired(t *testing.T) {
	jwtService, err := jwt.NewJWTService("middleware-secret", "1h", clock.System())
	require.NoError(t, err)
	companyID := "0195d3a0-0000-7000-8000-0000000000aa"
	token, _, err := jwtService.GenerateAccessToken(user.User{
		ID: "0195d3a0-0000-7000-8000-000000000001", Email: "a@b.com", CompanyID: &companyID, Role: user.RoleAdmin,
	})
	require.NoError(t, err)

	var got user.Actor
	protected := jwtauth.Verifier(jwtService.JWTAuth())(AuthRequired(jwtService)(AdminOnly(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, _ = ActorFromContext(r.Context())
			w.WriteHeader(http.StatusNoContent)
		}))))

	call := func(token string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, call(""))
	assert.Equal(t, http.StatusUnauthorized, call("garbage"))
	assert.Equal(t, http.StatusNoContent, call(token))
	assert.Equal(t, user.RoleAdmin, got.Role)
	require.NotNil(t, got.CompanyID)
	assert.Equal(t, companyID, *got.CompanyID)

	jwtService.RevokeToken(token, time.Now().Add(time.Hour).Unix())
	assert.Equal(t, http.StatusUnauthorized, call(token))
}

func TestRequireMaster(t *testing.T) {
	h := RequireMaster(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(role user.Role) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithActor(req.Context(), user.Actor{UserID: "u", Role: role}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, call(user.RoleMaster))
	assert.Equal(t, http.StatusForbidden, call(user.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, call(user.RoleUser))
}
