package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/apilog"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/repository/memory"
	absenceService "github.com/cmlabs-hris/timeclock-backend-go/internal/service/absence"
	adjustmentService "github.com/cmlabs-hris/timeclock-backend-go/internal/service/adjustment"
	serviceAuth "github.com/cmlabs-hris/timeclock-backend-go/internal/service/auth"
	serviceCompany "github.com/cmlabs-hris/timeclock-backend-go/internal/service/company"
	timeRecordService "github.com/cmlabs-hris/timeclock-backend-go/internal/service/timerecord"
	userService "github.com/cmlabs-hris/timeclock-backend-go/internal/service/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 09:00 in Sao Paulo.
var workNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

type capturedLogs struct {
	mu      sync.Mutex
	entries []apilog.Entry
}

func (c *capturedLogs) Create(ctx context.Context, e apilog.Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, e)
	return nil
}

func (c *capturedLogs) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func (c *capturedLogs) last() apilog.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[len(c.entries)-1]
}

type downPinger struct{}

func (downPinger) Ping(ctx context.Context) error { return errors.New("connection refused") }

type testServer struct {
	t       *testing.T
	handler http.Handler
	logs    *capturedLogs
	master  string
}

func newTestServer(t *testing.T, pingers map[string]database.Pinger) *testServer {
	t.Helper()
	store := memory.NewStore()
	users := memory.NewUserRepository(store)
	companies := memory.NewCompanyRepository(store)
	records := memory.NewTimeRecordRepository(store)
	tx := memory.NewTransactor(store)

	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	jwtService, err := jwt.NewJWTService("router-test-secret", "1h", clock.System())
	require.NoError(t, err)

	userSvc := userService.NewUserService(tx, users, companies, clock.System(), 100)
	require.NoError(t, userSvc.EnsureMaster(context.Background(), "Root", "root@example.com", "supersecret"))

	if pingers == nil {
		pingers = map[string]database.Pinger{"database": store}
	}

	logs := &capturedLogs{}
	router := NewRouter(jwtService, Handlers{
		Auth:       NewAuthHandler(serviceAuth.NewAuthService(users, userSvc, jwtService)),
		Company:    NewCompanyHandler(serviceCompany.NewCompanyService(companies, users, clock.System())),
		User:       NewUserHandler(userSvc),
		TimeRecord: NewTimeRecordHandler(timeRecordService.NewTimeRecordService(records, users, clock.Fixed(workNow), loc)),
		Absence:    NewAbsenceHandler(absenceService.NewAbsenceService(memory.NewAbsenceRepository(store), users, clock.System())),
		Adjustment: NewAdjustmentHandler(adjustmentService.NewAdjustmentService(tx, memory.NewAdjustmentRepository(store), records, users, clock.System())),
		Health:     NewHealthHandler("test", pingers),
	}, RouterOptions{
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		LogLevel:       slog.LevelError,
		AllowedOrigins: []string{"*"},
		APILogs:        logs,
		Clock:          clock.System(),
	})

	s := &testServer{t: t, handler: router, logs: logs}
	s.master = s.login("root@example.com", "supersecret")
	return s
}

func (s *testServer) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func (s *testServer) login(email, password string) string {
	s.t.Helper()
	rec, env := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	var tokens struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &tokens))
	assert.Equal(s.t, "bearer", tokens.TokenType)
	return tokens.AccessToken
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

// seedCompany creates a company with an admin and an employee and returns their tokens.
func (s *testServer) seedCompany() (adminToken, userToken string) {
	s.t.Helper()
	rec, env := s.do(http.MethodPost, "/api/v1/companies", s.master, map[string]interface{}{
		"name": "Acme",
		"cnpj": "12345678000195",
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	companyID := decode[struct {
		ID string `json:"id"`
	}](s.t, env.Data).ID

	for _, u := range []struct{ email, role string }{{"boss@acme.com", "admin"}, {"ana@acme.com", "user"}} {
		rec, _ = s.do(http.MethodPost, "/api/v1/users", s.master, map[string]interface{}{
			"company_id": companyID,
			"name":       "Person",
			"email":      u.email,
			"password":   "password123",
			"role":       u.role,
		})
		require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	}
	return s.login("boss@acme.com", "password123"), s.login("ana@acme.com", "password123")
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t, nil)

	rec, env := s.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":             "Bia",
		"email":            "bia@example.com",
		"password":         "password123",
		"confirm_password": "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	token := decode[struct {
		AccessToken string                 `json:"access_token"`
		User        map[string]interface{} `json:"user"`
	}](t, env.Data)
	assert.Equal(t, string(user.RoleUser), token.User["role"])

	rec, env = s.do(http.MethodGet, "/api/v1/auth/me", token.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bia@example.com", decode[map[string]interface{}](t, env.Data)["email"])

	rec, _ = s.do(http.MethodPost, "/api/v1/auth/logout", token.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = s.do(http.MethodGet, "/api/v1/auth/me", token.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)

	rec, env = s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "bia@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
}

func TestErrorEnvelopes(t *testing.T) {
	s := newTestServer(t, nil)

	rec, env := s.do(http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)

	rec, env = s.do(http.MethodGet, "/api/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	rec, env = s.do(http.MethodPost, "/api/v1/companies", s.master, map[string]string{"name": ""})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Details, "cnpj")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString("{not json"))
	raw := httptest.NewRecorder()
	s.handler.ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)

	last := s.logs.last()
	assert.Equal(t, http.StatusBadRequest, last.StatusCode)
	assert.Equal(t, apilog.LevelNotice, last.Level)
	assert.Equal(t, "/api/v1/auth/login", last.URL)
	assert.Equal(t, "Invalid request format", last.Message)
}

func TestRoleGates(t *testing.T) {
	s := newTestServer(t, nil)
	adminToken, userToken := s.seedCompany()

	rec, env := s.do(http.MethodGet, "/api/v1/companies", adminToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	rec, _ = s.do(http.MethodGet, "/api/v1/users", userToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, apilog.LevelWarning, s.logs.last().Level)

	rec, _ = s.do(http.MethodGet, "/api/v1/admin/time-records", userToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = s.do(http.MethodGet, "/api/v1/companies/my", userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Acme", decode[map[string]interface{}](t, env.Data)["name"])

	rec, env = s.do(http.MethodGet, "/api/v1/users", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, decode[map[string]interface{}](t, env.Data)["total_count"])
}

func TestQuickEntryAndAdjustmentApproval(t *testing.T) {
	s := newTestServer(t, nil)
	adminToken, userToken := s.seedCompany()

	rec, env := s.do(http.MethodPost, "/api/v1/time-records/quick-entry", userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	entry := decode[struct {
		Field      string `json:"field"`
		Time       string `json:"time"`
		TimeRecord struct {
			ID   string `json:"id"`
			Date string `json:"date"`
		} `json:"time_record"`
	}](t, env.Data)
	assert.Equal(t, "entry_time", entry.Field)
	assert.Equal(t, "09:00", entry.Time)
	assert.Equal(t, "2025-03-10", entry.TimeRecord.Date)

	rec, env = s.do(http.MethodPost, "/api/v1/adjustments", userToken, map[string]string{
		"time_record_id":  entry.TimeRecord.ID,
		"field_to_change": "exit_time",
		"requested_value": "17:00",
		"reason":          "forgot to clock out",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	adjID := decode[map[string]interface{}](t, env.Data)["id"].(string)

	rec, _ = s.do(http.MethodPatch, "/api/v1/admin/adjustments/"+adjID+"/approve", userToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = s.do(http.MethodPatch, "/api/v1/admin/adjustments/"+adjID+"/approve", adminToken, map[string]string{"admin_notes": "ok"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	approval := decode[struct {
		Adjustment map[string]interface{} `json:"adjustment"`
		TimeRecord map[string]interface{} `json:"time_record"`
	}](t, env.Data)
	assert.Equal(t, "approved", approval.Adjustment["status"])
	assert.Equal(t, "17:00", approval.TimeRecord["exit_time"])
	assert.EqualValues(t, 480, approval.TimeRecord["worked_minutes"])

	rec, env = s.do(http.MethodPatch, "/api/v1/admin/adjustments/"+adjID+"/reject", adminToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "BUSINESS_RULE_VIOLATION", env.Error.Code)

	rec, env = s.do(http.MethodGet, "/api/v1/time-records/hour-bank", userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	bank := decode[map[string]interface{}](t, env.Data)
	assert.EqualValues(t, 480, bank["total_worked_minutes"])
}

func TestAbsenceReview(t *testing.T) {
	s := newTestServer(t, nil)
	adminToken, userToken := s.seedCompany()

	rec, env := s.do(http.MethodPost, "/api/v1/absences", userToken, map[string]string{
		"date":       "2025-03-12",
		"start_time": "14:00",
		"end_time":   "16:00",
		"reason":     "medical appointment",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decode[map[string]interface{}](t, env.Data)["id"].(string)

	rec, _ = s.do(http.MethodPatch, "/api/v1/admin/absences/"+id+"/status", adminToken, map[string]string{"status": "pending"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, env = s.do(http.MethodPatch, "/api/v1/admin/absences/"+id+"/status", adminToken, map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "approved", decode[map[string]interface{}](t, env.Data)["status"])

	rec, _ = s.do(http.MethodDelete, "/api/v1/absences/"+id, userToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestExportTimesheet(t *testing.T) {
	s := newTestServer(t, nil)
	_, userToken := s.seedCompany()

	rec, _ := s.do(http.MethodPost, "/api/v1/time-records", userToken, map[string]string{
		"date":        "2025-03-10",
		"entry_time":  "08:00",
		"lunch_start": "12:00",
		"lunch_end":   "13:00",
		"exit_time":   "18:00",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, _ = s.do(http.MethodGet, "/api/v1/time-records/export", userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	rec, env := s.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[HealthResponse](t, env.Data).Status)

	rec, _ = s.do(http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	down := newTestServer(t, map[string]database.Pinger{"database": downPinger{}})
	rec, env = down.do(http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	health := decode[HealthResponse](t, env.Data)
	assert.Equal(t, "degraded", health.Status)
	assert.Equal(t, "unavailable", health.Checks["database"])
}
