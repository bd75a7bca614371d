package adjustment

import (
	"context"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/crud"
)

type AdjustmentRepository interface {
	crud.Repository[Adjustment]
	List(ctx context.Context, filter AdjustmentFilter) ([]Adjustment, int64, error)
	// Review moves a pending request to review.Status in one conditional
	// write. When the request is no longer pending it returns an error
	// wrapping ErrAdjustmentAlreadyReviewed that names the current status.
	Review(ctx context.Context, id string, review Review) (Adjustment, error)
}
