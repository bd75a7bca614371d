package company

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
	"github.com/google/uuid"
)

type CompanyServiceImpl struct {
	company.CompanyRepository
	userRepo user.UserRepository
	clock    clock.Clock
}

func NewCompanyService(companyRepository company.CompanyRepository, userRepository user.UserRepository, clk clock.Clock) company.CompanyService {
	return &CompanyServiceImpl{
		CompanyRepository: companyRepository,
		userRepo:          userRepository,
		clock:             clk,
	}
}

// List implements company.CompanyService.
func (s *CompanyServiceImpl) List(ctx context.Context, filter company.CompanyFilter) (company.ListCompanyResponse, error) {
	items, total, err := s.CompanyRepository.List(ctx, filter)
	if err != nil {
		return company.ListCompanyResponse{}, fmt.Errorf("failed to list companies: %w", err)
	}

	page := filter.PageRequest()
	resp := company.ListCompanyResponse{
		TotalCount: total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages(total),
		Companies:  make([]company.CompanyResponse, 0, len(items)),
	}
	for _, c := range items {
		resp.Companies = append(resp.Companies, company.NewCompanyResponse(c))
	}
	return resp, nil
}

// Create implements company.CompanyService.
func (s *CompanyServiceImpl) Create(ctx context.Context, req company.CreateCompanyRequest) (company.CompanyResponse, error) {
	if err := req.Validate(); err != nil {
		return company.CompanyResponse{}, err
	}
	if err := s.ensureUnique(ctx, &req.CNPJ, req.Email, nil); err != nil {
		return company.CompanyResponse{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return company.CompanyResponse{}, fmt.Errorf("failed to generate company id: %w", err)
	}
	now := s.clock.Now()

	newCompany := company.Company{
		ID:        id.String(),
		Name:      req.Name,
		CNPJ:      req.CNPJ,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		City:      req.City,
		State:     req.State,
		ZipCode:   req.ZipCode,
		MaxUsers:  company.DefaultMaxUsers,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.MaxUsers != nil {
		newCompany.MaxUsers = *req.MaxUsers
	}
	if req.Active != nil {
		newCompany.Active = *req.Active
	}

	created, err := s.CompanyRepository.Create(ctx, newCompany)
	if err != nil {
		return company.CompanyResponse{}, err
	}

	slog.Info("company created", "company_id", created.ID, "cnpj", created.CNPJ)
	return s.withUserCount(ctx, created)
}

// GetByID implements company.CompanyService.
func (s *CompanyServiceImpl) GetByID(ctx context.Context, id string) (company.CompanyResponse, error) {
	found, err := s.CompanyRepository.GetByID(ctx, id)
	if err != nil {
		return company.CompanyResponse{}, err
	}
	return s.withUserCount(ctx, found)
}

// GetMine implements company.CompanyService.
func (s *CompanyServiceImpl) GetMine(ctx context.Context, actor user.Actor) (company.CompanyResponse, error) {
	if actor.CompanyID == nil {
		return company.CompanyResponse{}, company.ErrNoCompanyAssigned
	}
	found, err := s.CompanyRepository.GetByID(ctx, *actor.CompanyID)
	if err != nil {
		return company.CompanyResponse{}, err
	}
	return company.NewCompanyResponse(found), nil
}

// Update implements company.CompanyService.
func (s *CompanyServiceImpl) Update(ctx context.Context, id string, req company.UpdateCompanyRequest) (company.CompanyResponse, error) {
	if err := req.Validate(); err != nil {
		return company.CompanyResponse{}, err
	}

	existing, err := s.CompanyRepository.GetByID(ctx, id)
	if err != nil {
		return company.CompanyResponse{}, err
	}
	if err := s.ensureUnique(ctx, req.CNPJ, req.Email, &id); err != nil {
		return company.CompanyResponse{}, err
	}

	if req.MaxUsers != nil {
		users, err := s.userRepo.CountByCompany(ctx, id)
		if err != nil {
			return company.CompanyResponse{}, fmt.Errorf("failed to count company users: %w", err)
		}
		if int64(*req.MaxUsers) < users {
			return company.CompanyResponse{}, company.ErrMaxUsersBelowActual
		}
		existing.MaxUsers = *req.MaxUsers
	}

	assign(&existing.Name, req.Name)
	assign(&existing.CNPJ, req.CNPJ)
	assignPtr(&existing.Email, req.Email)
	assignPtr(&existing.Phone, req.Phone)
	assignPtr(&existing.Address, req.Address)
	assignPtr(&existing.City, req.City)
	assignPtr(&existing.State, req.State)
	assignPtr(&existing.ZipCode, req.ZipCode)
	if req.Active != nil {
		existing.Active = *req.Active
	}
	existing.UpdatedAt = s.clock.Now()

	updated, err := s.CompanyRepository.Update(ctx, existing)
	if err != nil {
		return company.CompanyResponse{}, err
	}
	return s.withUserCount(ctx, updated)
}

// Delete implements company.CompanyService.
func (s *CompanyServiceImpl) Delete(ctx context.Context, id string) error {
	if _, err := s.CompanyRepository.GetByID(ctx, id); err != nil {
		return err
	}

	users, err := s.userRepo.CountByCompany(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count company users: %w", err)
	}
	if users > 0 {
		return company.ErrCompanyHasUsers
	}

	if err := s.CompanyRepository.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("company deleted", "company_id", id)
	return nil
}

func (s *CompanyServiceImpl) ensureUnique(ctx context.Context, cnpj, email, excludeID *string) error {
	if cnpj != nil {
		exists, err := s.CompanyRepository.ExistsByCNPJ(ctx, *cnpj, excludeID)
		if err != nil {
			return err
		}
		if exists {
			return company.ErrCNPJExists
		}
	}
	if email != nil {
		exists, err := s.CompanyRepository.ExistsByEmail(ctx, *email, excludeID)
		if err != nil {
			return err
		}
		if exists {
			return company.ErrCompanyEmailExists
		}
	}
	return nil
}

func (s *CompanyServiceImpl) withUserCount(ctx context.Context, c company.Company) (company.CompanyResponse, error) {
	resp := company.NewCompanyResponse(c)
	users, err := s.userRepo.CountByCompany(ctx, c.ID)
	if err != nil {
		return company.CompanyResponse{}, fmt.Errorf("failed to count company users: %w", err)
	}
	resp.UserCount = &users
	return resp, nil
}

func assign[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func assignPtr[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}
