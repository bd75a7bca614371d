package adjustment

import (
	"context"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
)

type AdjustmentService interface {
	Create(ctx context.Context, actor user.Actor, req CreateAdjustmentRequest) (AdjustmentResponse, error)
	ListMine(ctx context.Context, actor user.Actor, filter AdjustmentFilter) (ListAdjustmentResponse, error)
	GetByID(ctx context.Context, actor user.Actor, id string) (AdjustmentResponse, error)
	Delete(ctx context.Context, actor user.Actor, id string) error

	// Admin
	ListAll(ctx context.Context, actor user.Actor, filter AdjustmentFilter) (ListAdjustmentResponse, error)
	Approve(ctx context.Context, actor user.Actor, id string, req ReviewRequest) (ApprovalResponse, error)
	Reject(ctx context.Context, actor user.Actor, id string, req ReviewRequest) (AdjustmentResponse, error)
}
