package timerecord

import "errors"

var (
	ErrTimeRecordNotFound     = errors.New("time record not found")
	ErrTimeRecordDateTaken    = errors.New("a time record already exists for this user on this date")
	ErrAllClockEventsRecorded = errors.New("all clock events for today are already recorded")
	ErrTimeRecordForbidden    = errors.New("you are not allowed to access this time record")
	ErrInvalidField           = errors.New("field cannot be changed")
)
