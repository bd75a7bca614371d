package absence

import (
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/crud"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timerecord"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
)

type AbsenceResponse struct {
	ID              string  `json:"id"`
	UserID          string  `json:"user_id"`
	Date            string  `json:"date"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	DurationMinutes int     `json:"duration_minutes"`
	Reason          string  `json:"reason"`
	Description     *string `json:"description"`
	Status          string  `json:"status"`
	ApprovedBy      *string `json:"approved_by"`
	ApprovedAt      *string `json:"approved_at"`
	ImpactType      string  `json:"impact_type"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

func NewAbsenceResponse(a Absence) AbsenceResponse {
	resp := AbsenceResponse{
		ID:              a.ID,
		UserID:          a.UserID,
		Date:            a.Date.Format(timerecord.DateLayout),
		StartTime:       a.StartTime.String(),
		EndTime:         a.EndTime.String(),
		DurationMinutes: a.DurationMinutes(),
		Reason:          a.Reason,
		Description:     a.Description,
		Status:          string(a.Status),
		ApprovedBy:      a.ApprovedBy,
		ImpactType:      string(a.ImpactType),
		CreatedAt:       a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       a.UpdatedAt.Format(time.RFC3339),
	}
	if a.ApprovedAt != nil {
		at := a.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &at
	}
	return resp
}

type CreateAbsenceRequest struct {
	Date        string  `json:"date"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	Reason      string  `json:"reason"`
	Description *string `json:"description,omitempty"`
	ImpactType  *string `json:"impact_type,omitempty"`
}

func (r *CreateAbsenceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs.Add("date", "date is required")
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}

	start, startErr := timerecord.ParseClockTime(r.StartTime)
	if startErr != nil {
		errs.Add("start_time", "start_time must be in HH:MM format")
	}
	end, endErr := timerecord.ParseClockTime(r.EndTime)
	if endErr != nil {
		errs.Add("end_time", "end_time must be in HH:MM format")
	}
	if startErr == nil && endErr == nil && end <= start {
		errs.Add("end_time", "end_time must be after start_time")
	}

	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	} else if validator.Length(r.Reason) > 255 {
		errs.Add("reason", "reason must not exceed 255 characters")
	}
	if r.Description != nil && validator.Length(*r.Description) > 1000 {
		errs.Add("description", "description must not exceed 1000 characters")
	}
	if r.ImpactType != nil && !ImpactType(*r.ImpactType).IsValid() {
		errs.Add("impact_type", "impact_type must be one of discount, neutral, bonus")
	}

	return errs.OrNil()
}

// ToAbsence builds a pending absence for userID. Call Validate first.
func (r *CreateAbsenceRequest) ToAbsence(userID string) Absence {
	date, _ := time.Parse(timerecord.DateLayout, r.Date)
	start, _ := timerecord.ParseClockTime(r.StartTime)
	end, _ := timerecord.ParseClockTime(r.EndTime)
	impact := ImpactNeutral
	if r.ImpactType != nil {
		impact = ImpactType(*r.ImpactType)
	}
	return Absence{
		UserID:      userID,
		Date:        date,
		StartTime:   start,
		EndTime:     end,
		Reason:      r.Reason,
		Description: r.Description,
		Status:      StatusPending,
		ImpactType:  impact,
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func (r *UpdateStatusRequest) Validate() error {
	var errs validator.ValidationErrors
	if s := Status(r.Status); s != StatusApproved && s != StatusRejected {
		errs.Add("status", "status must be approved or rejected")
	}
	return errs.OrNil()
}

type AbsenceFilter struct {
	UserID    *string `json:"user_id,omitempty"`
	CompanyID *string `json:"company_id,omitempty"`
	Status    *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *AbsenceFilter) Validate() error {
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

	return errs.OrNil()
}

func (f AbsenceFilter) PageRequest() crud.Page {
	return crud.Page{Page: f.Page, Limit: f.Limit}.Normalize(15, 100)
}

type ListAbsenceResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
	Absences   []AbsenceResponse `json:"absences"`
}
