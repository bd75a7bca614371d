package absence

import (
	"context"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/crud"
)

type AbsenceRepository interface {
	crud.Repository[Absence]
	List(ctx context.Context, filter AbsenceFilter) ([]Absence, int64, error)
	// Review moves a pending absence to review.Status in one conditional
	// write. It returns ErrAbsenceNotPending when the absence exists but is no
	// longer pending and ErrAbsenceNotFound when it does not exist.
	Review(ctx context.Context, id string, review Review) (Absence, error)
}
