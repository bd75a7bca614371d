package adjustment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/adjustment"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timerecord"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

type AdjustmentServiceImpl struct {
	db database.Transactor
	adjustment.AdjustmentRepository
	timeRecordRepo timerecord.TimeRecordRepository
	userRepo       user.UserRepository
	clock          clock.Clock
}

func NewAdjustmentService(
	db database.Transactor,
	adjustmentRepository adjustment.AdjustmentRepository,
	timeRecordRepository timerecord.TimeRecordRepository,
	userRepository user.UserRepository,
	clk clock.Clock,
) adjustment.AdjustmentService {
	return &AdjustmentServiceImpl{
		db:                   db,
		AdjustmentRepository: adjustmentRepository,
		timeRecordRepo:       timeRecordRepository,
		userRepo:             userRepository,
		clock:                clk,
	}
}

// Create implements adjustment.AdjustmentService.
func (s *AdjustmentServiceImpl) Create(ctx context.Context, actor user.Actor, req adjustment.CreateAdjustmentRequest) (adjustment.AdjustmentResponse, error) {
	if err := req.Validate(); err != nil {
		return adjustment.AdjustmentResponse{}, err
	}

	record, err := s.timeRecordRepo.GetByID(ctx, req.TimeRecordID)
	if err != nil {
		return adjustment.AdjustmentResponse{}, err
	}
	if record.UserID != actor.UserID {
		if err := s.checkAdminOf(ctx, actor, record.UserID); err != nil {
			return adjustment.AdjustmentResponse{}, err
		}
	}

	field := timerecord.Field(req.FieldToChange)
	current := record.Value(field)
	if current != nil && *current == req.RequestedValue {
		return adjustment.AdjustmentResponse{}, adjustment.ErrSameValue
	}
	if field.IsTiming() {
		candidate := record
		if err := candidate.Apply(field, req.RequestedValue); err != nil {
			return adjustment.AdjustmentResponse{}, err
		}
		if err := candidate.ValidateWindows(); err != nil {
			return adjustment.AdjustmentResponse{}, err
		}
	}

	id, err := uuid.NewV7()
	if err != nil {
		return adjustment.AdjustmentResponse{}, fmt.Errorf("failed to generate adjustment id: %w", err)
	}
	now := s.clock.Now()

	created, err := s.AdjustmentRepository.Create(ctx, adjustment.Adjustment{
		ID:             id.String(),
		TimeRecordID:   record.ID,
		UserID:         actor.UserID,
		FieldToChange:  field,
		CurrentValue:   current,
		RequestedValue: req.RequestedValue,
		Reason:         req.Reason,
		Status:         adjustment.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return adjustment.AdjustmentResponse{}, err
	}

	slog.Info("adjustment requested", "adjustment_id", created.ID, "time_record_id", record.ID, "field", field)
	return adjustment.NewAdjustmentResponse(created), nil
}

// ListMine implements adjustment.AdjustmentService.
func (s *AdjustmentServiceImpl) ListMine(ctx context.Context, actor user.Actor, filter adjustment.AdjustmentFilter) (adjustment.ListAdjustmentResponse, error) {
	if err := filter.Validate(); err != nil {
		return adjustment.ListAdjustmentResponse{}, err
	}
	filter.UserID = &actor.UserID
	filter.CompanyID = nil
	return s.list(ctx, filter)
}

// GetByID implements adjustment.AdjustmentService.
func (s *AdjustmentServiceImpl) GetByID(ctx context.Context, actor user.Actor, id string) (adjustment.AdjustmentResponse, error) {
	found, err := s.AdjustmentRepository.GetByID(ctx, id)
	if err != nil {
		return adjustment.AdjustmentResponse{}, err
	}
	if found.UserID != actor.UserID {
		if err := s.checkAdminOf(ctx, actor, found.UserID); err != nil {
			return adjustment.AdjustmentResponse{}, err
		}
	}
	return adjustment.NewAdjustmentResponse(found), nil
}

// Delete implements adjustment.AdjustmentService.
func (s *AdjustmentServiceImpl) Delete(ctx context.Context, actor user.Actor, id string) error {
	found, err := s.AdjustmentRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if found.UserID != actor.UserID {
		return adjustment.ErrAdjustmentForbidden
	}
	if !found.IsPending() {
		return adjustment.ErrAdjustmentNotEditable
	}
	return s.AdjustmentRepository.Delete(ctx, id)
}

// ListAll implements adjustment.AdjustmentService.
func (s *AdjustmentServiceImpl) ListAll(ctx context.Context, actor user.Actor, filter adjustment.AdjustmentFilter) (adjustment.ListAdjustmentResponse, error) {
	if !actor.IsAdmin() {
		return adjustment.ListAdjustmentResponse{}, user.ErrAdminPrivilegeRequired
	}
	if err := filter.Validate(); err != nil {
		return adjustment.ListAdjustmentResponse{}, err
	}
	if !actor.IsMaster() {
		if actor.CompanyID == nil {
			return adjustment.ListAdjustmentResponse{}, company.ErrNoCompanyAssigned
		}
		filter.CompanyID = actor.CompanyID
	}
	return s.list(ctx, filter)
}

// Approve implements adjustment.AdjustmentService. The status transition and
// the record change commit together or not at all.
func (s *AdjustmentServiceImpl) Approve(ctx context.Context, actor user.Actor, id string, req adjustment.ReviewRequest) (adjustment.ApprovalResponse, error) {
	review, err := s.prepareReview(ctx, actor, id, adjustment.StatusApproved, req)
	if err != nil {
		return adjustment.ApprovalResponse{}, err
	}

	var resp adjustment.ApprovalResponse
	err = s.db.WithinTransaction(ctx, func(ctx context.Context) error {
		approved, err := s.AdjustmentRepository.Review(ctx, id, review)
		if err != nil {
			return err
		}

		record, err := s.timeRecordRepo.GetByID(ctx, approved.TimeRecordID)
		if err != nil {
			return err
		}
		if err := record.Apply(approved.FieldToChange, approved.RequestedValue); err != nil {
			return err
		}
		if approved.FieldToChange.IsTiming() {
			if err := record.ValidateWindows(); err != nil {
				return err
			}
			record.Recalculate()
		}
		record.UpdatedAt = review.ReviewedAt

		updated, err := s.timeRecordRepo.Update(ctx, record)
		if err != nil {
			return err
		}

		resp = adjustment.ApprovalResponse{
			Adjustment: adjustment.NewAdjustmentResponse(approved),
			TimeRecord: timerecord.NewTimeRecordResponse(updated),
		}
		return nil
	})
	if err != nil {
		if !isExpected(err) {
			slog.Error("failed to approve adjustment", "adjustment_id", id, "reviewer_id", actor.UserID, "error", err)
		}
		return adjustment.ApprovalResponse{}, err
	}

	slog.Info("adjustment approved", "adjustment_id", id, "reviewer_id", actor.UserID)
	return resp, nil
}

// Reject implements adjustment.AdjustmentService.
func (s *AdjustmentServiceImpl) Reject(ctx context.Context, actor user.Actor, id string, req adjustment.ReviewRequest) (adjustment.AdjustmentResponse, error) {
	review, err := s.prepareReview(ctx, actor, id, adjustment.StatusRejected, req)
	if err != nil {
		return adjustment.AdjustmentResponse{}, err
	}

	rejected, err := s.AdjustmentRepository.Review(ctx, id, review)
	if err != nil {
		return adjustment.AdjustmentResponse{}, err
	}

	slog.Info("adjustment rejected", "adjustment_id", id, "reviewer_id", actor.UserID)
	return adjustment.NewAdjustmentResponse(rejected), nil
}

func (s *AdjustmentServiceImpl) prepareReview(ctx context.Context, actor user.Actor, id string, status adjustment.Status, req adjustment.ReviewRequest) (adjustment.Review, error) {
	if !actor.IsAdmin() {
		return adjustment.Review{}, user.ErrAdminPrivilegeRequired
	}
	if err := req.Validate(); err != nil {
		return adjustment.Review{}, err
	}

	found, err := s.AdjustmentRepository.GetByID(ctx, id)
	if err != nil {
		return adjustment.Review{}, err
	}
	if err := s.checkAdminOf(ctx, actor, found.UserID); err != nil {
		return adjustment.Review{}, err
	}

	return adjustment.Review{
		Status:     status,
		ReviewerID: actor.UserID,
		ReviewedAt: s.clock.Now(),
		AdminNotes: req.AdminNotes,
	}, nil
}

// checkAdminOf allows admins of ownerID's company.
func (s *AdjustmentServiceImpl) checkAdminOf(ctx context.Context, actor user.Actor, ownerID string) error {
	if !actor.IsAdmin() {
		return adjustment.ErrAdjustmentForbidden
	}
	owner, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return adjustment.ErrAdjustmentForbidden
		}
		return err
	}
	if !actor.CanAccessCompany(owner.CompanyID) {
		return adjustment.ErrAdjustmentForbidden
	}
	return nil
}

func (s *AdjustmentServiceImpl) list(ctx context.Context, filter adjustment.AdjustmentFilter) (adjustment.ListAdjustmentResponse, error) {
	items, total, err := s.AdjustmentRepository.List(ctx, filter)
	if err != nil {
		return adjustment.ListAdjustmentResponse{}, fmt.Errorf("failed to list adjustments: %w", err)
	}

	page := filter.PageRequest()
	resp := adjustment.ListAdjustmentResponse{
		TotalCount:  total,
		Page:        page.Page,
		Limit:       page.Limit,
		TotalPages:  page.TotalPages(total),
		Adjustments: make([]adjustment.AdjustmentResponse, 0, len(items)),
	}
	for _, a := range items {
		resp.Adjustments = append(resp.Adjustments, adjustment.NewAdjustmentResponse(a))
	}
	return resp, nil
}

func isExpected(err error) bool {
	return errors.Is(err, adjustment.ErrAdjustmentAlreadyReviewed) ||
		errors.Is(err, adjustment.ErrAdjustmentNotFound) ||
		errors.Is(err, timerecord.ErrTimeRecordNotFound) ||
		errors.Is(err, timerecord.ErrTimeRecordDateTaken)
}
