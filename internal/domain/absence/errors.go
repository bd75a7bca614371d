package absence

import "errors"

var (
	ErrAbsenceNotFound    = errors.New("absence not found")
	ErrAbsenceNotPending  = errors.New("only pending absences can be approved or rejected")
	ErrAbsenceForbidden   = errors.New("you are not allowed to access this absence")
	ErrAbsenceNotEditable = errors.New("only pending absences can be deleted")
)
