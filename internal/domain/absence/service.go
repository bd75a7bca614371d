package absence

import (
	"context"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
)

type AbsenceService interface {
	Create(ctx context.Context, actor user.Actor, req CreateAbsenceRequest) (AbsenceResponse, error)
	ListMine(ctx context.Context, actor user.Actor, filter AbsenceFilter) (ListAbsenceResponse, error)
	GetByID(ctx context.Context, actor user.Actor, id string) (AbsenceResponse, error)
	Delete(ctx context.Context, actor user.Actor, id string) error

	// Admin
	ListAll(ctx context.Context, actor user.Actor, filter AbsenceFilter) (ListAbsenceResponse, error)
	Approve(ctx context.Context, actor user.Actor, id string) (AbsenceResponse, error)
	Reject(ctx context.Context, actor user.Actor, id string) (AbsenceResponse, error)
	UpdateStatus(ctx context.Context, actor user.Actor, id string, req UpdateStatusRequest) (AbsenceResponse, error)
}
