package timerecord

import (
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/crud"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
)

// DefaultPageSize is one month of daily records.
const DefaultPageSize = 31

type TimeRecordResponse struct {
	ID                   string  `json:"id"`
	UserID               string  `json:"user_id"`
	Date                 string  `json:"date"`
	EntryTime            *string `json:"entry_time"`
	ExitTime             *string `json:"exit_time"`
	LunchStart           *string `json:"lunch_start"`
	LunchEnd             *string `json:"lunch_end"`
	WorkedMinutes        int     `json:"worked_minutes"`
	ExpectedMinutes      int     `json:"expected_minutes"`
	BalanceMinutes       int     `json:"balance_minutes"`
	WorkedFormatted      string  `json:"worked_formatted"`
	Notes                *string `json:"notes"`
	EntryTimeRecordedAt  *string `json:"entry_time_recorded_at"`
	ExitTimeRecordedAt   *string `json:"exit_time_recorded_at"`
	LunchStartRecordedAt *string `json:"lunch_start_recorded_at"`
	LunchEndRecordedAt   *string `json:"lunch_end_recorded_at"`
	CreatedAt            string  `json:"created_at"`
	UpdatedAt            string  `json:"updated_at"`
}

func formatTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func NewTimeRecordResponse(r TimeRecord) TimeRecordResponse {
	return TimeRecordResponse{
		ID:                   r.ID,
		UserID:               r.UserID,
		Date:                 r.Date.Format(DateLayout),
		EntryTime:            FormatClock(r.EntryTime),
		ExitTime:             FormatClock(r.ExitTime),
		LunchStart:           FormatClock(r.LunchStart),
		LunchEnd:             FormatClock(r.LunchEnd),
		WorkedMinutes:        r.WorkedMinutes,
		ExpectedMinutes:      r.ExpectedMinutes,
		BalanceMinutes:       r.BalanceMinutes(),
		WorkedFormatted:      FormatDuration(r.WorkedMinutes),
		Notes:                r.Notes,
		EntryTimeRecordedAt:  formatTimestamp(r.EntryTimeRecordedAt),
		ExitTimeRecordedAt:   formatTimestamp(r.ExitTimeRecordedAt),
		LunchStartRecordedAt: formatTimestamp(r.LunchStartRecordedAt),
		LunchEndRecordedAt:   formatTimestamp(r.LunchEndRecordedAt),
		CreatedAt:            r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            r.UpdatedAt.Format(time.RFC3339),
	}
}

// ClockInput is an optional clock value from a request: Set is false when the
// field was omitted, Value is nil when it was sent empty to clear it.
type ClockInput struct {
	Set   bool
	Value *ClockTime
}

func parseClockInput(errs *validator.ValidationErrors, f Field, raw *string) ClockInput {
	if raw == nil {
		return ClockInput{}
	}
	if *raw == "" {
		return ClockInput{Set: true}
	}
	c, err := ParseClockTime(*raw)
	if err != nil {
		errs.Add(string(f), string(f)+" must be in HH:MM format")
		return ClockInput{}
	}
	return ClockInput{Set: true, Value: &c}
}

func validateNotes(errs *validator.ValidationErrors, notes *string) {
	if notes != nil && validator.Length(*notes) > MaxNotesLength {
		errs.Add("notes", "notes must not exceed 500 characters")
	}
}

// StoreTimeRecordRequest creates or updates the caller's record for a date.
// Omitted clock fields keep their stored value.
type StoreTimeRecordRequest struct {
	Date       string  `json:"date"`
	EntryTime  *string `json:"entry_time,omitempty"`
	ExitTime   *string `json:"exit_time,omitempty"`
	LunchStart *string `json:"lunch_start,omitempty"`
	LunchEnd   *string `json:"lunch_end,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

func (r *StoreTimeRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs.Add("date", "date is required")
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}
	r.ClockInputs(&errs)
	validateNotes(&errs, r.Notes)

	return errs.OrNil()
}

// ClockInputs parses the clock fields, reporting format errors into errs.
func (r *StoreTimeRecordRequest) ClockInputs(errs *validator.ValidationErrors) map[Field]ClockInput {
	return map[Field]ClockInput{
		FieldEntryTime:  parseClockInput(errs, FieldEntryTime, r.EntryTime),
		FieldExitTime:   parseClockInput(errs, FieldExitTime, r.ExitTime),
		FieldLunchStart: parseClockInput(errs, FieldLunchStart, r.LunchStart),
		FieldLunchEnd:   parseClockInput(errs, FieldLunchEnd, r.LunchEnd),
	}
}

func (r *StoreTimeRecordRequest) ParsedDate() time.Time {
	d, _ := time.Parse(DateLayout, r.Date)
	return d
}

// UpdateTimeRecordRequest is the administrator override of a record.
type UpdateTimeRecordRequest struct {
	Date            *string `json:"date,omitempty"`
	EntryTime       *string `json:"entry_time,omitempty"`
	ExitTime        *string `json:"exit_time,omitempty"`
	LunchStart      *string `json:"lunch_start,omitempty"`
	LunchEnd        *string `json:"lunch_end,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	ExpectedMinutes *int    `json:"expected_minutes,omitempty"`
}

func (r *UpdateTimeRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Date != nil {
		if _, ok := validator.IsValidDate(*r.Date); !ok {
			errs.Add("date", "date must be in YYYY-MM-DD format")
		}
	}
	r.ClockInputs(&errs)
	validateNotes(&errs, r.Notes)
	if r.ExpectedMinutes != nil && (*r.ExpectedMinutes < 0 || *r.ExpectedMinutes > minutesPerDay) {
		errs.Add("expected_minutes", "expected_minutes must be between 0 and 1440")
	}

	return errs.OrNil()
}

func (r *UpdateTimeRecordRequest) ClockInputs(errs *validator.ValidationErrors) map[Field]ClockInput {
	return map[Field]ClockInput{
		FieldEntryTime:  parseClockInput(errs, FieldEntryTime, r.EntryTime),
		FieldExitTime:   parseClockInput(errs, FieldExitTime, r.ExitTime),
		FieldLunchStart: parseClockInput(errs, FieldLunchStart, r.LunchStart),
		FieldLunchEnd:   parseClockInput(errs, FieldLunchEnd, r.LunchEnd),
	}
}

type TimeRecordFilter struct {
	UserID    *string `json:"user_id,omitempty"`
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *TimeRecordFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.UserID != nil && !validator.IsValidUUID(*f.UserID) {
		errs.Add("user_id", "invalid user_id format")
	}
	validateRange(&errs, f.StartDate, f.EndDate)

	return errs.OrNil()
}

func (f TimeRecordFilter) PageRequest() crud.Page {
	return crud.Page{Page: f.Page, Limit: f.Limit}.Normalize(DefaultPageSize, 366)
}

func (f TimeRecordFilter) Range() (*time.Time, *time.Time) {
	return parseRange(f.StartDate, f.EndDate)
}

type HourBankFilter struct {
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
}

func (f *HourBankFilter) Validate() error {
	var errs validator.ValidationErrors
	validateRange(&errs, f.StartDate, f.EndDate)
	return errs.OrNil()
}

func (f HourBankFilter) Range() (*time.Time, *time.Time) {
	return parseRange(f.StartDate, f.EndDate)
}

func validateRange(errs *validator.ValidationErrors, start, end *string) {
	var startDate, endDate time.Time
	var startOK, endOK bool
	if start != nil {
		if startDate, startOK = validator.IsValidDate(*start); !startOK {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
	}
	if end != nil {
		if endDate, endOK = validator.IsValidDate(*end); !endOK {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}
	if startOK && endOK && endDate.Before(startDate) {
		errs.Add("end_date", "end_date must not be before start_date")
	}
}

func parseRange(start, end *string) (*time.Time, *time.Time) {
	var from, to *time.Time
	if start != nil {
		if d, ok := validator.IsValidDate(*start); ok {
			from = &d
		}
	}
	if end != nil {
		if d, ok := validator.IsValidDate(*end); ok {
			to = &d
		}
	}
	return from, to
}

type ListTimeRecordResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	TimeRecords []TimeRecordResponse `json:"time_records"`
}

type QuickEntryResponse struct {
	Field      string             `json:"field"`
	Time       string             `json:"time"`
	TimeRecord TimeRecordResponse `json:"time_record"`
}

type HourBankResponse struct {
	UserID    string  `json:"user_id"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	HourBank
}

type UserHourBank struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	HourBank
}

type CompanyHourBankResponse struct {
	CompanyID string         `json:"company_id"`
	StartDate *string        `json:"start_date"`
	EndDate   *string        `json:"end_date"`
	Users     []UserHourBank `json:"users"`
	Total     HourBank       `json:"total"`
}

// AuditEntry describes when one clock event was submitted relative to the
// time it claims.
type AuditEntry struct {
	Field                string  `json:"field"`
	Value                *string `json:"value"`
	RecordedAt           *string `json:"recorded_at"`
	Backdated            bool    `json:"backdated"`
	RecordedDelayMinutes *int    `json:"recorded_delay_minutes"`
}

type AuditResponse struct {
	TimeRecordID string       `json:"time_record_id"`
	UserID       string       `json:"user_id"`
	Date         string       `json:"date"`
	Entries      []AuditEntry `json:"entries"`
}

// BuildAudit compares each clock value with its recorded-at stamp in loc.
func BuildAudit(r TimeRecord, loc *time.Location) AuditResponse {
	resp := AuditResponse{
		TimeRecordID: r.ID,
		UserID:       r.UserID,
		Date:         r.Date.Format(DateLayout),
	}
	for _, f := range ClockFields {
		entry := AuditEntry{Field: string(f), Value: FormatClock(r.Clock(f))}
		if at := r.RecordedAt(f); at != nil {
			local := at.In(loc)
			entry.RecordedAt = formatTimestamp(&local)
			entry.Backdated = local.Format(DateLayout) != resp.Date
			if c := r.Clock(f); c != nil {
				delay := int(local.Sub(c.On(r.Date, loc)).Minutes())
				entry.RecordedDelayMinutes = &delay
			}
		}
		resp.Entries = append(resp.Entries, entry)
	}
	return resp
}
