package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/adjustment"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timerecord"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", validator.ValidationErrors{{Field: "date", Message: "date is required"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"not found", company.ErrCompanyNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"wrapped not found", fmt.Errorf("load: %w", timerecord.ErrTimeRecordNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"admin required", user.ErrAdminPrivilegeRequired, http.StatusForbidden, "FORBIDDEN"},
		{"company has users", company.ErrCompanyHasUsers, http.StatusUnprocessableEntity, "BUSINESS_RULE_VIOLATION"},
		{"already reviewed", fmt.Errorf("%w with status approved", adjustment.ErrAdjustmentAlreadyReviewed), http.StatusUnprocessableEntity, "BUSINESS_RULE_VIOLATION"},
		{"all clock events", timerecord.ErrAllClockEventsRecorded, http.StatusBadRequest, "BAD_REQUEST"},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			resp := decode(t, rec)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestHandleErrorMessages(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, validator.ValidationErrors{{Field: "date", Message: "date is required"}})
	resp := decode(t, rec)
	assert.Equal(t, "date is required", resp.Error.Details["date"])

	rec = httptest.NewRecorder()
	HandleError(rec, fmt.Errorf("%w with status rejected", adjustment.ErrAdjustmentAlreadyReviewed))
	resp = decode(t, rec)
	assert.Equal(t, "adjustment request already reviewed with status rejected", resp.Error.Message)
}

func TestHandleErrorDebugDetails(t *testing.T) {
	t.Cleanup(func() { SetDebug(false) })

	rec := httptest.NewRecorder()
	HandleError(rec, errors.New("pool closed"))
	assert.Empty(t, decode(t, rec).Error.Details)

	SetDebug(true)
	rec = httptest.NewRecorder()
	HandleError(rec, errors.New("pool closed"))
	resp := decode(t, rec)
	assert.Equal(t, "An unexpected error occurred", resp.Error.Message)
	assert.Equal(t, "pool closed", resp.Error.Details["debug"])
}
