package absence

import (
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timerecord"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// ImpactType declares how an absence is meant to affect the hour bank. It is
// stored and reported but no calculation consumes it.
type ImpactType string

const (
	ImpactDiscount ImpactType = "discount"
	ImpactNeutral  ImpactType = "neutral"
	ImpactBonus    ImpactType = "bonus"
)

func (i ImpactType) IsValid() bool {
	return i == ImpactDiscount || i == ImpactNeutral || i == ImpactBonus
}

type Absence struct {
	ID          string
	UserID      string
	Date        time.Time
	StartTime   timerecord.ClockTime
	EndTime     timerecord.ClockTime
	Reason      string
	Description *string
	Status      Status
	ApprovedBy  *string
	ApprovedAt  *time.Time
	ImpactType  ImpactType
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (a *Absence) DurationMinutes() int {
	return a.EndTime.Minutes() - a.StartTime.Minutes()
}

func (a *Absence) IsPending() bool {
	return a.Status == StatusPending
}

// Review is the outcome of an approve or reject decision.
type Review struct {
	Status     Status
	ReviewerID string
	ReviewedAt time.Time
}
