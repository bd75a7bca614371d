package adjustment

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

// Adjustment is a request to correct one field of a time record.
type Adjustment struct {
	ID             string
	TimeRecordID   string
	UserID         string
	FieldToChange  timerecord.Field
	CurrentValue   *string
	RequestedValue string
	Reason         string
	Status         Status
	ReviewedBy     *string
	ReviewedAt     *time.Time
	AdminNotes     *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (a *Adjustment) IsPending() bool {
	return a.Status == StatusPending
}

// Review is the outcome of an approve or reject decision.
type Review struct {
	Status     Status
	ReviewerID string
	ReviewedAt time.Time
	AdminNotes *string
}
