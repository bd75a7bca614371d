package response

import (
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/adjustment"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timerecord"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
)

var debug atomic.Bool

// SetDebug controls whether unexpected error text is exposed under
// error.details.debug.
func SetDebug(enabled bool) {
	debug.Store(enabled)
}

var notFound = []error{
	company.ErrCompanyNotFound,
	user.ErrUserNotFound,
	timerecord.ErrTimeRecordNotFound,
	absence.ErrAbsenceNotFound,
	adjustment.ErrAdjustmentNotFound,
}

var unauthorized = []error{
	auth.ErrInvalidCredentials,
	auth.ErrInvalidToken,
	auth.ErrTokenRevoked,
	jwt.ErrInvalidClaims,
}

var forbidden = []error{
	user.ErrAdminPrivilegeRequired,
	user.ErrMasterPrivilegeRequired,
	user.ErrForeignCompany,
	user.ErrInsufficientPermissions,
	user.ErrUserInactive,
	timerecord.ErrTimeRecordForbidden,
	absence.ErrAbsenceForbidden,
	adjustment.ErrAdjustmentForbidden,
}

var businessRules = []error{
	company.ErrCNPJExists,
	company.ErrCompanyEmailExists,
	company.ErrCompanyHasUsers,
	company.ErrCompanyInactive,
	company.ErrNoCompanyAssigned,
	company.ErrMaxUsersBelowActual,
	user.ErrUserEmailExists,
	user.ErrUserLimitExceeded,
	user.ErrCompanyUserLimitReached,
	user.ErrCannotDeleteSelf,
	timerecord.ErrTimeRecordDateTaken,
	timerecord.ErrInvalidField,
	absence.ErrAbsenceNotPending,
	absence.ErrAbsenceNotEditable,
	adjustment.ErrAdjustmentAlreadyReviewed,
	adjustment.ErrAdjustmentNotEditable,
	adjustment.ErrSameValue,
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	case isAny(err, notFound):
		NotFound(w, err.Error())
	case isAny(err, unauthorized):
		Unauthorized(w, err.Error())
	case isAny(err, forbidden):
		Forbidden(w, err.Error())
	case isAny(err, businessRules):
		UnprocessableEntity(w, err.Error())
	case errors.Is(err, timerecord.ErrAllClockEventsRecorded):
		BadRequest(w, err.Error(), nil)

	default:
		slog.Error("unexpected error", "error", err)
		var details map[string]string
		if debug.Load() {
			details = map[string]string{"debug": err.Error()}
		}
		InternalServerError(w, "An unexpected error occurred", details)
	}
}
