package timerecord

import (
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
)

const (
	DateLayout             = "2006-01-02"
	DefaultExpectedMinutes = 480
	MaxNotesLength         = 500
)

// Field names a mutable attribute of a TimeRecord.
type Field string

const (
	FieldEntryTime  Field = "entry_time"
	FieldExitTime   Field = "exit_time"
	FieldLunchStart Field = "lunch_start"
	FieldLunchEnd   Field = "lunch_end"
	FieldDate       Field = "date"
	FieldNotes      Field = "notes"
)

// ClockFields lists the clock events in the order they happen during a day.
var ClockFields = []Field{FieldEntryTime, FieldLunchStart, FieldLunchEnd, FieldExitTime}

var AdjustableFields = []string{
	string(FieldEntryTime), string(FieldExitTime), string(FieldLunchStart),
	string(FieldLunchEnd), string(FieldDate), string(FieldNotes),
}

func (f Field) IsValid() bool {
	return validator.IsInSlice(string(f), AdjustableFields)
}

// IsTiming reports whether changing f affects worked minutes.
func (f Field) IsTiming() bool {
	switch f {
	case FieldEntryTime, FieldExitTime, FieldLunchStart, FieldLunchEnd:
		return true
	}
	return false
}

type TimeRecord struct {
	ID                   string
	UserID               string
	Date                 time.Time
	EntryTime            *ClockTime
	ExitTime             *ClockTime
	LunchStart           *ClockTime
	LunchEnd             *ClockTime
	WorkedMinutes        int
	ExpectedMinutes      int
	Notes                *string
	EntryTimeRecordedAt  *time.Time
	ExitTimeRecordedAt   *time.Time
	LunchStartRecordedAt *time.Time
	LunchEndRecordedAt   *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (r *TimeRecord) slots(f Field) (**ClockTime, **time.Time) {
	switch f {
	case FieldEntryTime:
		return &r.EntryTime, &r.EntryTimeRecordedAt
	case FieldExitTime:
		return &r.ExitTime, &r.ExitTimeRecordedAt
	case FieldLunchStart:
		return &r.LunchStart, &r.LunchStartRecordedAt
	case FieldLunchEnd:
		return &r.LunchEnd, &r.LunchEndRecordedAt
	}
	return nil, nil
}

// Clock returns the value of a clock field, nil when unset or f is not a clock field.
func (r *TimeRecord) Clock(f Field) *ClockTime {
	value, _ := r.slots(f)
	if value == nil {
		return nil
	}
	return *value
}

func (r *TimeRecord) RecordedAt(f Field) *time.Time {
	_, at := r.slots(f)
	if at == nil {
		return nil
	}
	return *at
}

// Punch stores a clock event submitted by the record's owner and stamps when
// it was recorded. A nil value clears the field and its stamp.
func (r *TimeRecord) Punch(f Field, value *ClockTime, at time.Time) {
	v, stamp := r.slots(f)
	if v == nil {
		return
	}
	*v = value
	if value == nil {
		*stamp = nil
		return
	}
	*stamp = &at
}

// NextClockField returns the first unset clock event in daily order.
func (r *TimeRecord) NextClockField() (Field, bool) {
	for _, f := range ClockFields {
		if r.Clock(f) == nil {
			return f, true
		}
	}
	return "", false
}

// Recalculate refreshes WorkedMinutes from the clock fields.
func (r *TimeRecord) Recalculate() {
	r.WorkedMinutes = CalculateWorkedMinutes(r.EntryTime, r.ExitTime, r.LunchStart, r.LunchEnd)
}

func (r *TimeRecord) BalanceMinutes() int {
	return r.WorkedMinutes - r.ExpectedMinutes
}

// ValidateWindows rejects inverted intervals and a lunch break outside the
// entry/exit span.
func (r *TimeRecord) ValidateWindows() error {
	var errs validator.ValidationErrors

	if r.EntryTime != nil && r.ExitTime != nil && *r.ExitTime <= *r.EntryTime {
		errs.Add(string(FieldExitTime), "exit_time must be after entry_time")
	}
	if r.LunchStart != nil && r.LunchEnd != nil && *r.LunchEnd <= *r.LunchStart {
		errs.Add(string(FieldLunchEnd), "lunch_end must be after lunch_start")
	}
	if r.LunchStart != nil && r.EntryTime != nil && *r.LunchStart < *r.EntryTime {
		errs.Add(string(FieldLunchStart), "lunch_start must not be before entry_time")
	}
	if r.LunchEnd != nil && r.ExitTime != nil && *r.LunchEnd > *r.ExitTime {
		errs.Add(string(FieldLunchEnd), "lunch_end must not be after exit_time")
	}

	return errs.OrNil()
}

// Value renders the current value of f as it would be written in an
// adjustment request.
func (r *TimeRecord) Value(f Field) *string {
	switch f {
	case FieldDate:
		d := r.Date.Format(DateLayout)
		return &d
	case FieldNotes:
		return r.Notes
	default:
		return FormatClock(r.Clock(f))
	}
}

// ParseFieldValue checks that raw is an acceptable value for f.
func ParseFieldValue(f Field, raw string) error {
	switch {
	case f.IsTiming():
		if _, err := ParseClockTime(raw); err != nil {
			return fmt.Errorf("%s must be in HH:MM format", f)
		}
	case f == FieldDate:
		if _, ok := validator.IsValidDate(raw); !ok {
			return fmt.Errorf("date must be in YYYY-MM-DD format")
		}
	case f == FieldNotes:
		if validator.Length(raw) > MaxNotesLength {
			return fmt.Errorf("notes must not exceed %d characters", MaxNotesLength)
		}
	default:
		return ErrInvalidField
	}
	return nil
}

// Apply overwrites f with raw. Recorded-at stamps are left untouched since the
// change does not come from a clock event.
func (r *TimeRecord) Apply(f Field, raw string) error {
	if err := ParseFieldValue(f, raw); err != nil {
		if errors.Is(err, ErrInvalidField) {
			return err
		}
		return validator.ValidationErrors{{Field: "requested_value", Message: err.Error()}}
	}

	switch {
	case f.IsTiming():
		c, _ := ParseClockTime(raw)
		v, _ := r.slots(f)
		*v = &c
	case f == FieldDate:
		r.Date, _ = time.Parse(DateLayout, raw)
	case f == FieldNotes:
		notes := raw
		r.Notes = &notes
	}
	return nil
}
