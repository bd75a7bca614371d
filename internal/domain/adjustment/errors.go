package adjustment

import "errors"

var (
	ErrAdjustmentNotFound        = errors.New("adjustment request not found")
	ErrAdjustmentAlreadyReviewed = errors.New("adjustment request already reviewed")
	ErrAdjustmentForbidden       = errors.New("you are not allowed to access this adjustment request")
	ErrAdjustmentNotEditable     = errors.New("only pending adjustment requests can be deleted")
	ErrSameValue                 = errors.New("requested value is equal to the current value")
)
