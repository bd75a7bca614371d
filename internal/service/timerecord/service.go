package timerecord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/crud"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timerecord"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/timesheet"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// hourBankWorkers bounds the per-user fan-out of the company report.
const hourBankWorkers = 4

type TimeRecordServiceImpl struct {
	timerecord.TimeRecordRepository
	userRepo user.UserRepository
	clock    clock.Clock
	location *time.Location
}

func NewTimeRecordService(
	timeRecordRepository timerecord.TimeRecordRepository,
	userRepository user.UserRepository,
	clk clock.Clock,
	location *time.Location,
) timerecord.TimeRecordService {
	if location == nil {
		location = time.UTC
	}
	return &TimeRecordServiceImpl{
		TimeRecordRepository: timeRecordRepository,
		userRepo:             userRepository,
		clock:                clk,
		location:             location,
	}
}

// Store implements timerecord.TimeRecordService.
func (s *TimeRecordServiceImpl) Store(ctx context.Context, actor user.Actor, req timerecord.StoreTimeRecordRequest) (timerecord.TimeRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return timerecord.TimeRecordResponse{}, err
	}

	owner, err := s.activeUser(ctx, actor.UserID)
	if err != nil {
		return timerecord.TimeRecordResponse{}, err
	}

	now := s.clock.Now()
	record, exists, err := s.recordFor(ctx, owner, req.ParsedDate(), now)
	if err != nil {
		return timerecord.TimeRecordResponse{}, err
	}

	var errs validator.ValidationErrors
	for f, input := range req.ClockInputs(&errs) {
		if input.Set {
			record.Punch(f, input.Value, now)
		}
	}
	if req.Notes != nil {
		notes := *req.Notes
		record.Notes = &notes
	}
	record.ExpectedMinutes = owner.ExpectedMinutes()

	if err := record.ValidateWindows(); err != nil {
		return timerecord.TimeRecordResponse{}, err
	}
	record.Recalculate()

	saved, err := s.save(ctx, record, exists, now)
	if err != nil {
		return timerecord.TimeRecordResponse{}, err
	}
	return timerecord.NewTimeRecordResponse(saved), nil
}

// QuickEntry implements timerecord.TimeRecordService.
func (s *TimeRecordServiceImpl) QuickEntry(ctx context.Context, actor user.Actor) (timerecord.QuickEntryResponse, error) {
	owner, err := s.activeUser(ctx, actor.UserID)
	if err != nil {
		return timerecord.QuickEntryResponse{}, err
	}

	now := s.clock.Now().In(s.location).Truncate(time.Minute)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	record, exists, err := s.recordFor(ctx, owner, today, now)
	if err != nil {
		return timerecord.QuickEntryResponse{}, err
	}

	field, ok := record.NextClockField()
	if !ok {
		return timerecord.QuickEntryResponse{}, timerecord.ErrAllClockEventsRecorded
	}
	punched := timerecord.ClockTimeOf(now)
	record.Punch(field, &punched, now)
	record.Recalculate()

	saved, err := s.save(ctx, record, exists, now)
	if err != nil {
		return timerecord.QuickEntryResponse{}, err
	}

	slog.Info("quick entry recorded", "user_id", owner.ID, "field", field, "time", punched.String())
	return timerecord.QuickEntryResponse{
		Field:      string(field),
		Time:       punched.String(),
		TimeRecord: timerecord.NewTimeRecordResponse(saved),
	}, nil
}

// List implements timerecord.TimeRecordService.
func (s *TimeRecordServiceImpl) List(ctx context.Context, actor user.Actor, filter timerecord.TimeRecordFilter) (timerecord.ListTimeRecordResponse, error) {
	if err := filter.Validate(); err != nil {
		return timerecord.ListTimeRecordResponse{}, err
	}

	start, end := filter.Range()
	return s.list(ctx, filter.PageRequest(), timerecord.Query{
		UserID:    &actor.UserID,
		StartDate: start,
		EndDate:   end,
	})
}

// GetByID implements timerecord.TimeRecordService.
func (s *TimeRecordServiceImpl) GetByID(ctx context.Context, actor user.Actor, id string) (timerecord.TimeRecordResponse, error) {
	record, err := s.TimeRecordRepository.GetByID(ctx, id)
	if err != nil {
		return timerecord.TimeRecordResponse{}, err
	}
	if record.UserID != actor.UserID {
		if _, err := s.ownerManagedBy(ctx, actor, record); err != nil {
			return timerecord.TimeRecordResponse{}, err
		}
	}
	return timerecord.NewTimeRecordResponse(record), nil
}

// HourBank implements timerecord.TimeRecordService.
func (s *TimeRecordServiceImpl) HourBank(ctx context.Context, actor user.Actor, filter timerecord.HourBankFilter) (timerecord.HourBankResponse, error) {
	if err := filter.Validate(); err != nil {
		return timerecord.HourBankResponse{}, err
	}

	records, err := s.recordsInRange(ctx, actor.UserID, filter)
	if err != nil {
		return timerecord.HourBankResponse{}, err
	}

	return timerecord.HourBankResponse{
		UserID:    actor.UserID,
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
		HourBank:  timerecord.CalculateHourBank(records),
	}, nil
}

// ExportTimesheet implements timerecord.TimeRecordService.
func (s *TimeRecordServiceImpl) ExportTimesheet(ctx context.Context, actor user.Actor, filter timerecord.HourBankFilter) ([]byte, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	owner, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	records, err := s.recordsInRange(ctx, owner.ID, filter)
	if err != nil {
		return nil, err
	}

	// Records come newest first; a printed sheet reads top to bottom.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}

	start, end := filter.Range()
	pdf, err := timesheet.Render(timesheet.Sheet{
		EmployeeName: owner.Name,
		Email:        owner.Email,
		StartDate:    start,
		EndDate:      end,
		GeneratedAt:  s.clock.Now().In(s.location),
		Records:      records,
		Summary:      timerecord.CalculateHourBank(records),
	})
	if err != nil {
		slog.Error("failed to render timesheet", "user_id", owner.ID, "error", err)
		return nil, fmt.Errorf("failed to render timesheet: %w", err)
	}
	return pdf, nil
}

// Audit implements timerecord.TimeRecordService.
func (s *TimeRecordServiceImpl) Audit(ctx context.Context, actor user.Actor, id string) (timerecord.AuditResponse, error) {
	record, err := s.adminRecord(ctx, actor, id)
	if err != nil {
		return timerecord.AuditResponse{}, err
	}
	return timerecord.BuildAudit(record, s.location), nil
}

// AdminList implements timerecord.TimeRecordService.
func (s *TimeRecordServiceImpl) AdminList(ctx context.Context, actor user.Actor, filter timerecord.TimeRecordFilter) (timerecord.ListTimeRecordResponse, error) {
	if !actor.IsAdmin() {
		return timerecord.ListTimeRecordResponse{}, user.ErrAdminPrivilegeRequired
	}
	if err := filter.Validate(); err != nil {
		return timerecord.ListTimeRecordResponse{}, err
	}

	start, end := filter.Range()
	q := timerecord.Query{
		UserID:    filter.UserID,
		StartDate: start,
		EndDate:   end,
	}
	if !actor.IsMaster() {
		if actor.CompanyID == nil {
			return timerecord.ListTimeRecordResponse{}, company.ErrNoCompanyAssigned
		}
		q.CompanyID = actor.CompanyID
	}
	return s.list(ctx, filter.PageRequest(), q)
}

// AdminUpdate implements timerecord.TimeRecordService.
func (s *TimeRecordServiceImpl) AdminUpdate(ctx context.Context, actor user.Actor, id string, req timerecord.UpdateTimeRecordRequest) (timerecord.TimeRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return timerecord.TimeRecordResponse{}, err
	}

	record, err := s.adminRecord(ctx, actor, id)
	if err != nil {
		return timerecord.TimeRecordResponse{}, err
	}
	now := s.clock.Now()

	if req.Date != nil {
		if err := record.Apply(timerecord.FieldDate, *req.Date); err != nil {
			return timerecord.TimeRecordResponse{}, err
		}
		if err := s.ensureDateFree(ctx, record); err != nil {
			return timerecord.TimeRecordResponse{}, err
		}
	}

	var errs validator.ValidationErrors
	for f, input := range req.ClockInputs(&errs) {
		switch {
		case !input.Set:
		case input.Value == nil:
			record.Punch(f, nil, now)
		default:
			if err := record.Apply(f, input.Value.String()); err != nil {
				return timerecord.TimeRecordResponse{}, err
			}
		}
	}
	if req.Notes != nil {
		notes := *req.Notes
		record.Notes = &notes
	}
	if req.ExpectedMinutes != nil {
		record.ExpectedMinutes = *req.ExpectedMinutes
	}

	if err := record.ValidateWindows(); err != nil {
		return timerecord.TimeRecordResponse{}, err
	}
	record.Recalculate()
	record.UpdatedAt = now

	updated, err := s.TimeRecordRepository.Update(ctx, record)
	if err != nil {
		return timerecord.TimeRecordResponse{}, err
	}

	slog.Info("time record overridden", "time_record_id", id, "admin_id", actor.UserID)
	return timerecord.NewTimeRecordResponse(updated), nil
}

// AdminDelete implements timerecord.TimeRecordService.
func (s *TimeRecordServiceImpl) AdminDelete(ctx context.Context, actor user.Actor, id string) error {
	if _, err := s.adminRecord(ctx, actor, id); err != nil {
		return err
	}
	if err := s.TimeRecordRepository.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("time record deleted", "time_record_id", id, "admin_id", actor.UserID)
	return nil
}

// CompanyHourBank implements timerecord.TimeRecordService.
func (s *TimeRecordServiceImpl) CompanyHourBank(ctx context.Context, actor user.Actor, filter timerecord.HourBankFilter) (timerecord.CompanyHourBankResponse, error) {
	if !actor.IsAdmin() {
		return timerecord.CompanyHourBankResponse{}, user.ErrAdminPrivilegeRequired
	}
	if actor.CompanyID == nil {
		return timerecord.CompanyHourBankResponse{}, company.ErrNoCompanyAssigned
	}
	if err := filter.Validate(); err != nil {
		return timerecord.CompanyHourBankResponse{}, err
	}

	members, err := s.companyUsers(ctx, *actor.CompanyID)
	if err != nil {
		return timerecord.CompanyHourBankResponse{}, err
	}

	perUser := make([][]timerecord.TimeRecord, len(members))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(hourBankWorkers)
	for i, member := range members {
		i, member := i, member
		g.Go(func() error {
			records, err := s.recordsInRange(gCtx, member.ID, filter)
			if err != nil {
				return fmt.Errorf("hour bank for user %s: %w", member.ID, err)
			}
			perUser[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		slog.Error("failed to build company hour bank", "company_id", *actor.CompanyID, "error", err)
		return timerecord.CompanyHourBankResponse{}, err
	}

	resp := timerecord.CompanyHourBankResponse{
		CompanyID: *actor.CompanyID,
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
		Users:     make([]timerecord.UserHourBank, 0, len(members)),
	}
	var all []timerecord.TimeRecord
	for i, member := range members {
		resp.Users = append(resp.Users, timerecord.UserHourBank{
			UserID:   member.ID,
			Name:     member.Name,
			Email:    member.Email,
			HourBank: timerecord.CalculateHourBank(perUser[i]),
		})
		all = append(all, perUser[i]...)
	}
	resp.Total = timerecord.CalculateHourBank(all)
	return resp, nil
}

func (s *TimeRecordServiceImpl) activeUser(ctx context.Context, id string) (user.User, error) {
	owner, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return user.User{}, err
	}
	if !owner.Active {
		return user.User{}, user.ErrUserInactive
	}
	return owner, nil
}

// recordFor loads the owner's record for date or starts a new one.
func (s *TimeRecordServiceImpl) recordFor(ctx context.Context, owner user.User, date, now time.Time) (timerecord.TimeRecord, bool, error) {
	record, err := s.TimeRecordRepository.GetByUserAndDate(ctx, owner.ID, date)
	if err == nil {
		return record, true, nil
	}
	if !errors.Is(err, timerecord.ErrTimeRecordNotFound) {
		return timerecord.TimeRecord{}, false, fmt.Errorf("failed to load time record: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return timerecord.TimeRecord{}, false, fmt.Errorf("failed to generate time record id: %w", err)
	}
	return timerecord.TimeRecord{
		ID:              id.String(),
		UserID:          owner.ID,
		Date:            date,
		ExpectedMinutes: owner.ExpectedMinutes(),
		CreatedAt:       now,
	}, false, nil
}

func (s *TimeRecordServiceImpl) save(ctx context.Context, record timerecord.TimeRecord, exists bool, now time.Time) (timerecord.TimeRecord, error) {
	record.UpdatedAt = now
	if exists {
		return s.TimeRecordRepository.Update(ctx, record)
	}
	return s.TimeRecordRepository.Create(ctx, record)
}

func (s *TimeRecordServiceImpl) list(ctx context.Context, page crud.Page, q timerecord.Query) (timerecord.ListTimeRecordResponse, error) {
	q.Page = page
	records, total, err := s.TimeRecordRepository.List(ctx, q)
	if err != nil {
		return timerecord.ListTimeRecordResponse{}, fmt.Errorf("failed to list time records: %w", err)
	}

	resp := timerecord.ListTimeRecordResponse{
		TotalCount:  total,
		Page:        page.Page,
		Limit:       page.Limit,
		TotalPages:  page.TotalPages(total),
		TimeRecords: make([]timerecord.TimeRecordResponse, 0, len(records)),
	}
	for _, r := range records {
		resp.TimeRecords = append(resp.TimeRecords, timerecord.NewTimeRecordResponse(r))
	}
	return resp, nil
}

func (s *TimeRecordServiceImpl) recordsInRange(ctx context.Context, userID string, filter timerecord.HourBankFilter) ([]timerecord.TimeRecord, error) {
	start, end := filter.Range()
	records, _, err := s.TimeRecordRepository.List(ctx, timerecord.Query{
		UserID:    &userID,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load time records: %w", err)
	}
	return records, nil
}

// ownerManagedBy returns the record's owner when actor administers them.
func (s *TimeRecordServiceImpl) ownerManagedBy(ctx context.Context, actor user.Actor, record timerecord.TimeRecord) (user.User, error) {
	owner, err := s.userRepo.GetByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.User{}, timerecord.ErrTimeRecordForbidden
		}
		return user.User{}, err
	}
	if !actor.IsAdmin() || !actor.CanAccessCompany(owner.CompanyID) {
		return user.User{}, timerecord.ErrTimeRecordForbidden
	}
	return owner, nil
}

func (s *TimeRecordServiceImpl) adminRecord(ctx context.Context, actor user.Actor, id string) (timerecord.TimeRecord, error) {
	if !actor.IsAdmin() {
		return timerecord.TimeRecord{}, user.ErrAdminPrivilegeRequired
	}
	record, err := s.TimeRecordRepository.GetByID(ctx, id)
	if err != nil {
		return timerecord.TimeRecord{}, err
	}
	if _, err := s.ownerManagedBy(ctx, actor, record); err != nil {
		return timerecord.TimeRecord{}, err
	}
	return record, nil
}

func (s *TimeRecordServiceImpl) ensureDateFree(ctx context.Context, record timerecord.TimeRecord) error {
	other, err := s.TimeRecordRepository.GetByUserAndDate(ctx, record.UserID, record.Date)
	switch {
	case errors.Is(err, timerecord.ErrTimeRecordNotFound):
		return nil
	case err != nil:
		return err
	case other.ID != record.ID:
		return timerecord.ErrTimeRecordDateTaken
	}
	return nil
}

func (s *TimeRecordServiceImpl) companyUsers(ctx context.Context, companyID string) ([]user.User, error) {
	var members []user.User
	filter := user.UserFilter{CompanyID: &companyID, Page: 1, Limit: 100}
	for {
		batch, total, err := s.userRepo.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to list company users: %w", err)
		}
		members = append(members, batch...)
		if len(batch) == 0 || int64(len(members)) >= total {
			return members, nil
		}
		filter.Page++
	}
}
