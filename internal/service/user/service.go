package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceImpl struct {
	db          database.Transactor
	userRepo    user.UserRepository
	companyRepo company.CompanyRepository
	clock       clock.Clock
	userLimit   int64
}

func NewUserService(
	db database.Transactor,
	userRepository user.UserRepository,
	companyRepository company.CompanyRepository,
	clk clock.Clock,
	userLimit int64,
) user.UserService {
	return &UserServiceImpl{
		db:          db,
		userRepo:    userRepository,
		companyRepo: companyRepository,
		clock:       clk,
		userLimit:   userLimit,
	}
}

// HashPassword hashes a plain password with bcrypt's default cost.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Create implements user.UserService.
func (s *UserServiceImpl) Create(ctx context.Context, actor user.Actor, req user.CreateUserRequest) (user.UserResponse, error) {
	if !actor.IsAdmin() {
		return user.UserResponse{}, user.ErrAdminPrivilegeRequired
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	role := user.Role(req.Role)
	if role == user.RoleMaster && !actor.IsMaster() {
		return user.UserResponse{}, user.ErrMasterPrivilegeRequired
	}

	companyID := req.CompanyID
	if !actor.IsMaster() {
		if actor.CompanyID == nil {
			return user.UserResponse{}, company.ErrNoCompanyAssigned
		}
		if companyID != nil && *companyID != *actor.CompanyID {
			return user.UserResponse{}, user.ErrForeignCompany
		}
		companyID = actor.CompanyID
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return user.UserResponse{}, err
	}

	newUser := user.User{
		CompanyID:      companyID,
		Name:           strings.TrimSpace(req.Name),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:   hashed,
		Role:           role,
		DailyWorkHours: user.DefaultDailyWorkHours,
		LunchDuration:  user.DefaultLunchDuration,
		Active:         true,
	}
	if req.HireDate != nil {
		hireDate, _ := time.Parse("2006-01-02", *req.HireDate)
		newUser.HireDate = &hireDate
	}
	if req.DailyWorkHours != nil {
		newUser.DailyWorkHours = *req.DailyWorkHours
	}
	if req.LunchDuration != nil {
		newUser.LunchDuration = *req.LunchDuration
	}
	if req.Active != nil {
		newUser.Active = *req.Active
	}

	var created user.User
	err = s.db.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkCapacity(ctx, companyID); err != nil {
			return err
		}
		var err error
		created, err = s.insert(ctx, newUser)
		return err
	})
	if err != nil {
		return user.UserResponse{}, err
	}

	slog.Info("user created", "user_id", created.ID, "role", created.Role, "created_by", actor.UserID)
	return user.NewUserResponse(created), nil
}

// Register creates a self-registered account. It only honours the
// installation limit since the account has no company yet.
func (s *UserServiceImpl) Register(ctx context.Context, u user.User) (user.User, error) {
	var created user.User
	err := s.db.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkCapacity(ctx, nil); err != nil {
			return err
		}
		var err error
		created, err = s.insert(ctx, u)
		return err
	})
	return created, err
}

// GetByID implements user.UserService.
func (s *UserServiceImpl) GetByID(ctx context.Context, actor user.Actor, id string) (user.UserResponse, error) {
	target, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	if !actor.CanManage(target) {
		return user.UserResponse{}, user.ErrForeignCompany
	}
	return user.NewUserResponse(target), nil
}

// List implements user.UserService.
func (s *UserServiceImpl) List(ctx context.Context, actor user.Actor, filter user.UserFilter) (user.ListUserResponse, error) {
	if !actor.IsAdmin() {
		return user.ListUserResponse{}, user.ErrAdminPrivilegeRequired
	}
	if err := filter.Validate(); err != nil {
		return user.ListUserResponse{}, err
	}

	if !actor.IsMaster() {
		if actor.CompanyID == nil {
			return user.ListUserResponse{}, company.ErrNoCompanyAssigned
		}
		filter.CompanyID = actor.CompanyID
	}

	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return user.ListUserResponse{}, fmt.Errorf("failed to list users: %w", err)
	}

	page := filter.PageRequest()
	resp := user.ListUserResponse{
		TotalCount: total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages(total),
		Users:      make([]user.UserResponse, 0, len(users)),
	}
	for _, u := range users {
		resp.Users = append(resp.Users, user.NewUserResponse(u))
	}
	return resp, nil
}

// Update implements user.UserService.
func (s *UserServiceImpl) Update(ctx context.Context, actor user.Actor, id string, req user.UpdateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	target, err := s.manageable(ctx, actor, id)
	if err != nil {
		return user.UserResponse{}, err
	}

	if req.Role != nil {
		role := user.Role(*req.Role)
		if role == user.RoleMaster && !actor.IsMaster() {
			return user.UserResponse{}, user.ErrMasterPrivilegeRequired
		}
		target.Role = role
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if !strings.EqualFold(email, target.Email) {
			if err := s.ensureEmailFree(ctx, email); err != nil {
				return user.UserResponse{}, err
			}
		}
		target.Email = email
	}
	if req.Password != nil {
		hashed, err := HashPassword(*req.Password)
		if err != nil {
			return user.UserResponse{}, err
		}
		target.PasswordHash = hashed
	}
	if req.Name != nil {
		target.Name = strings.TrimSpace(*req.Name)
	}
	if req.HireDate != nil {
		hireDate, _ := time.Parse("2006-01-02", *req.HireDate)
		target.HireDate = &hireDate
	}
	if req.DailyWorkHours != nil {
		target.DailyWorkHours = *req.DailyWorkHours
	}
	if req.LunchDuration != nil {
		target.LunchDuration = *req.LunchDuration
	}
	if req.Active != nil {
		target.Active = *req.Active
	}
	target.UpdatedAt = s.clock.Now()

	updated, err := s.userRepo.Update(ctx, target)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.NewUserResponse(updated), nil
}

// Delete implements user.UserService.
func (s *UserServiceImpl) Delete(ctx context.Context, actor user.Actor, id string) error {
	if actor.UserID == id {
		return user.ErrCannotDeleteSelf
	}
	if _, err := s.manageable(ctx, actor, id); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("user deleted", "user_id", id, "deleted_by", actor.UserID)
	return nil
}

// EnsureMaster implements user.UserService.
func (s *UserServiceImpl) EnsureMaster(ctx context.Context, name, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return fmt.Errorf("failed to look up master account: %w", err)
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return err
	}
	master, err := s.insert(ctx, user.User{
		Name:           name,
		Email:          email,
		PasswordHash:   hashed,
		Role:           user.RoleMaster,
		DailyWorkHours: user.DefaultDailyWorkHours,
		LunchDuration:  user.DefaultLunchDuration,
		Active:         true,
	})
	if err != nil {
		return fmt.Errorf("failed to create master account: %w", err)
	}

	slog.Info("master account created", "user_id", master.ID, "email", master.Email)
	return nil
}

// manageable loads id and checks that actor administers it.
func (s *UserServiceImpl) manageable(ctx context.Context, actor user.Actor, id string) (user.User, error) {
	if !actor.IsAdmin() {
		return user.User{}, user.ErrAdminPrivilegeRequired
	}
	target, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return user.User{}, err
	}
	if !actor.CanAccessCompany(target.CompanyID) {
		return user.User{}, user.ErrForeignCompany
	}
	if target.IsMaster() && !actor.IsMaster() {
		return user.User{}, user.ErrMasterPrivilegeRequired
	}
	return target, nil
}

func (s *UserServiceImpl) checkCapacity(ctx context.Context, companyID *string) error {
	total, err := s.userRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if total >= s.userLimit {
		return user.ErrUserLimitExceeded
	}

	if companyID == nil {
		return nil
	}
	owner, err := s.companyRepo.GetByID(ctx, *companyID)
	if err != nil {
		return err
	}
	members, err := s.userRepo.CountByCompany(ctx, owner.ID)
	if err != nil {
		return fmt.Errorf("failed to count company users: %w", err)
	}
	if !owner.HasCapacity(members) {
		return user.ErrCompanyUserLimitReached
	}
	return nil
}

func (s *UserServiceImpl) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return user.ErrUserEmailExists
	case errors.Is(err, user.ErrUserNotFound):
		return nil
	default:
		return fmt.Errorf("failed to check email: %w", err)
	}
}

func (s *UserServiceImpl) insert(ctx context.Context, u user.User) (user.User, error) {
	if err := s.ensureEmailFree(ctx, u.Email); err != nil {
		return user.User{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return user.User{}, fmt.Errorf("failed to generate user id: %w", err)
	}
	now := s.clock.Now()
	u.ID = id.String()
	u.CreatedAt = now
	u.UpdatedAt = now
	return s.userRepo.Create(ctx, u)
}
