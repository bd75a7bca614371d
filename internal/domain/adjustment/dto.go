package adjustment

import (
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/crud"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timerecord"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
)

type AdjustmentResponse struct {
	ID             string  `json:"id"`
	TimeRecordID   string  `json:"time_record_id"`
	UserID         string  `json:"user_id"`
	FieldToChange  string  `json:"field_to_change"`
	CurrentValue   *string `json:"current_value"`
	RequestedValue string  `json:"requested_value"`
	Reason         string  `json:"reason"`
	Status         string  `json:"status"`
	ReviewedBy     *string `json:"reviewed_by"`
	ReviewedAt     *string `json:"reviewed_at"`
	AdminNotes     *string `json:"admin_notes"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

func NewAdjustmentResponse(a Adjustment) AdjustmentResponse {
	resp := AdjustmentResponse{
		ID:             a.ID,
		TimeRecordID:   a.TimeRecordID,
		UserID:         a.UserID,
		FieldToChange:  string(a.FieldToChange),
		CurrentValue:   a.CurrentValue,
		RequestedValue: a.RequestedValue,
		Reason:         a.Reason,
		Status:         string(a.Status),
		ReviewedBy:     a.ReviewedBy,
		AdminNotes:     a.AdminNotes,
		CreatedAt:      a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      a.UpdatedAt.Format(time.RFC3339),
	}
	if a.ReviewedAt != nil {
		at := a.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &at
	}
	return resp
}

// ApprovalResponse carries the approved request and the record it changed.
type ApprovalResponse struct {
	Adjustment AdjustmentResponse            `json:"adjustment"`
	TimeRecord timerecord.TimeRecordResponse `json:"time_record"`
}

type CreateAdjustmentRequest struct {
	TimeRecordID   string `json:"time_record_id"`
	FieldToChange  string `json:"field_to_change"`
	RequestedValue string `json:"requested_value"`
	Reason         string `json:"reason"`
}

func (r *CreateAdjustmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.TimeRecordID) {
		errs.Add("time_record_id", "time_record_id is required")
	} else if !validator.IsValidUUID(r.TimeRecordID) {
		errs.Add("time_record_id", "invalid time_record_id format")
	}

	field := timerecord.Field(r.FieldToChange)
	if !field.IsValid() {
		errs.Add("field_to_change", "field_to_change must be one of entry_time, exit_time, lunch_start, lunch_end, date, notes")
	}

	if validator.IsEmpty(r.RequestedValue) {
		errs.Add("requested_value", "requested_value is required")
	} else if field.IsValid() {
		if err := timerecord.ParseFieldValue(field, r.RequestedValue); err != nil {
			errs.Add("requested_value", err.Error())
		}
	}

	if n := validator.Length(r.Reason); validator.IsEmpty(r.Reason) || n < 10 {
		errs.Add("reason", "reason must be at least 10 characters")
	} else if n > 1000 {
		errs.Add("reason", "reason must not exceed 1000 characters")
	}

	return errs.OrNil()
}

type ReviewRequest struct {
	AdminNotes *string `json:"admin_notes,omitempty"`
}

func (r *ReviewRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.AdminNotes != nil && validator.Length(*r.AdminNotes) > 1000 {
		errs.Add("admin_notes", "admin_notes must not exceed 1000 characters")
	}
	return errs.OrNil()
}

type AdjustmentFilter struct {
	UserID       *string `json:"user_id,omitempty"`
	CompanyID    *string `json:"company_id,omitempty"`
	TimeRecordID *string `json:"time_record_id,omitempty"`
	Status       *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *AdjustmentFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Status != nil && !Status(*f.Status).IsValid() {
		errs.Add("status", "status must be one of pending, approved, rejected")
	}
	if f.UserID != nil && !validator.IsValidUUID(*f.UserID) {
		errs.Add("user_id", "invalid user_id format")
	}
	if f.TimeRecordID != nil && !validator.IsValidUUID(*f.TimeRecordID) {
		errs.Add("time_record_id", "invalid time_record_id format")
	}

	return errs.OrNil()
}

func (f AdjustmentFilter) PageRequest() crud.Page {
	return crud.Page{Page: f.Page, Limit: f.Limit}.Normalize(15, 100)
}

type ListAdjustmentResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Adjustments []AdjustmentResponse `json:"adjustments"`
}
