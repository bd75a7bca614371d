package absence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
	"github.com/google/uuid"
)

type AbsenceServiceImpl struct {
	absence.AbsenceRepository
	userRepo user.UserRepository
	clock    clock.Clock
}

func NewAbsenceService(absenceRepository absence.AbsenceRepository, userRepository user.UserRepository, clk clock.Clock) absence.AbsenceService {
	return &AbsenceServiceImpl{
		AbsenceRepository: absenceRepository,
		userRepo:          userRepository,
		clock:             clk,
	}
}

// Create implements absence.AbsenceService.
func (s *AbsenceServiceImpl) Create(ctx context.Context, actor user.Actor, req absence.CreateAbsenceRequest) (absence.AbsenceResponse, error) {
	if err := req.Validate(); err != nil {
		return absence.AbsenceResponse{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return absence.AbsenceResponse{}, fmt.Errorf("failed to generate absence id: %w", err)
	}
	now := s.clock.Now()

	newAbsence := req.ToAbsence(actor.UserID)
	newAbsence.ID = id.String()
	newAbsence.CreatedAt = now
	newAbsence.UpdatedAt = now

	created, err := s.AbsenceRepository.Create(ctx, newAbsence)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}

	slog.Info("absence requested", "absence_id", created.ID, "user_id", actor.UserID, "date", req.Date)
	return absence.NewAbsenceResponse(created), nil
}

// ListMine implements absence.AbsenceService.
func (s *AbsenceServiceImpl) ListMine(ctx context.Context, actor user.Actor, filter absence.AbsenceFilter) (absence.ListAbsenceResponse, error) {
	if err := filter.Validate(); err != nil {
		return absence.ListAbsenceResponse{}, err
	}
	filter.UserID = &actor.UserID
	filter.CompanyID = nil
	return s.list(ctx, filter)
}

// GetByID implements absence.AbsenceService.
func (s *AbsenceServiceImpl) GetByID(ctx context.Context, actor user.Actor, id string) (absence.AbsenceResponse, error) {
	found, err := s.AbsenceRepository.GetByID(ctx, id)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}
	if found.UserID != actor.UserID {
		if err := s.checkAdminOf(ctx, actor, found); err != nil {
			return absence.AbsenceResponse{}, err
		}
	}
	return absence.NewAbsenceResponse(found), nil
}

// Delete implements absence.AbsenceService.
func (s *AbsenceServiceImpl) Delete(ctx context.Context, actor user.Actor, id string) error {
	found, err := s.AbsenceRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if found.UserID != actor.UserID {
		return absence.ErrAbsenceForbidden
	}
	if !found.IsPending() {
		return absence.ErrAbsenceNotEditable
	}
	return s.AbsenceRepository.Delete(ctx, id)
}

// ListAll implements absence.AbsenceService.
func (s *AbsenceServiceImpl) ListAll(ctx context.Context, actor user.Actor, filter absence.AbsenceFilter) (absence.ListAbsenceResponse, error) {
	if !actor.IsAdmin() {
		return absence.ListAbsenceResponse{}, user.ErrAdminPrivilegeRequired
	}
	if err := filter.Validate(); err != nil {
		return absence.ListAbsenceResponse{}, err
	}
	if !actor.IsMaster() {
		if actor.CompanyID == nil {
			return absence.ListAbsenceResponse{}, company.ErrNoCompanyAssigned
		}
		filter.CompanyID = actor.CompanyID
	}
	return s.list(ctx, filter)
}

// Approve implements absence.AbsenceService.
func (s *AbsenceServiceImpl) Approve(ctx context.Context, actor user.Actor, id string) (absence.AbsenceResponse, error) {
	return s.review(ctx, actor, id, absence.StatusApproved)
}

// Reject implements absence.AbsenceService.
func (s *AbsenceServiceImpl) Reject(ctx context.Context, actor user.Actor, id string) (absence.AbsenceResponse, error) {
	return s.review(ctx, actor, id, absence.StatusRejected)
}

// UpdateStatus implements absence.AbsenceService.
func (s *AbsenceServiceImpl) UpdateStatus(ctx context.Context, actor user.Actor, id string, req absence.UpdateStatusRequest) (absence.AbsenceResponse, error) {
	if err := req.Validate(); err != nil {
		return absence.AbsenceResponse{}, err
	}
	return s.review(ctx, actor, id, absence.Status(req.Status))
}

func (s *AbsenceServiceImpl) review(ctx context.Context, actor user.Actor, id string, status absence.Status) (absence.AbsenceResponse, error) {
	if !actor.IsAdmin() {
		return absence.AbsenceResponse{}, user.ErrAdminPrivilegeRequired
	}

	found, err := s.AbsenceRepository.GetByID(ctx, id)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}
	if err := s.checkAdminOf(ctx, actor, found); err != nil {
		return absence.AbsenceResponse{}, err
	}

	reviewed, err := s.AbsenceRepository.Review(ctx, id, absence.Review{
		Status:     status,
		ReviewerID: actor.UserID,
		ReviewedAt: s.clock.Now(),
	})
	if err != nil {
		return absence.AbsenceResponse{}, err
	}

	slog.Info("absence reviewed", "absence_id", id, "status", status, "reviewer_id", actor.UserID)
	return absence.NewAbsenceResponse(reviewed), nil
}

// checkAdminOf allows admins of the absence owner's company.
func (s *AbsenceServiceImpl) checkAdminOf(ctx context.Context, actor user.Actor, a absence.Absence) error {
	if !actor.IsAdmin() {
		return absence.ErrAbsenceForbidden
	}
	owner, err := s.userRepo.GetByID(ctx, a.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return absence.ErrAbsenceForbidden
		}
		return err
	}
	if !actor.CanAccessCompany(owner.CompanyID) {
		return absence.ErrAbsenceForbidden
	}
	return nil
}

func (s *AbsenceServiceImpl) list(ctx context.Context, filter absence.AbsenceFilter) (absence.ListAbsenceResponse, error) {
	items, total, err := s.AbsenceRepository.List(ctx, filter)
	if err != nil {
		return absence.ListAbsenceResponse{}, fmt.Errorf("failed to list absences: %w", err)
	}

	page := filter.PageRequest()
	return absence.ListAbsenceResponse{
		TotalCount: total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages(total),
		Absences:   responses(items),
	}, nil
}

func responses(items []absence.Absence) []absence.AbsenceResponse {
	out := make([]absence.AbsenceResponse, 0, len(items))
	for _, a := range items {
		out = append(out, absence.NewAbsenceResponse(a))
	}
	return out
}

