package company

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/repository/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	service company.CompanyService
	users   user.UserRepository
	ctx     context.Context
}

func setup(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	users := memory.NewUserRepository(store)
	return fixture{
		service: NewCompanyService(memory.NewCompanyRepository(store), users, clock.Fixed(testNow)),
		users:   users,
		ctx:     context.Background(),
	}
}

func (f fixture) addUser(t *testing.T, companyID string) {
	t.Helper()
	_, err := f.users.Create(f.ctx, user.User{
		ID:        uuid.Must(uuid.NewV7()).String(),
		CompanyID: &companyID,
		Name:      "Member",
		Email:     uuid.NewString() + "@example.com",
		Role:      user.RoleUser,
		Active:    true,
	})
	require.NoError(t, err)
}

func newRequest(cnpj string) company.CreateCompanyRequest {
	email := "contact-" + cnpj + "@acme.com.br"
	return company.CreateCompanyRequest{Name: "Acme Ltda", CNPJ: cnpj, Email: &email}
}

func TestCreateCompany(t *testing.T) {
	f := setup(t)

	created, err := f.service.Create(f.ctx, newRequest("12345678000195"))
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltda", created.Name)
	assert.Equal(t, company.DefaultMaxUsers, created.MaxUsers)
	assert.True(t, created.Active)
	require.NotNil(t, created.UserCount)
	assert.Zero(t, *created.UserCount)

	t.Run("duplicate cnpj", func(t *testing.T) {
		_, err := f.service.Create(f.ctx, company.CreateCompanyRequest{Name: "Other", CNPJ: "12345678000195"})
		assert.ErrorIs(t, err, company.ErrCNPJExists)
	})

	t.Run("duplicate email", func(t *testing.T) {
		req := newRequest("98765432000110")
		req.Email = created.Email
		_, err := f.service.Create(f.ctx, req)
		assert.ErrorIs(t, err, company.ErrCompanyEmailExists)
	})

	t.Run("invalid payload", func(t *testing.T) {
		_, err := f.service.Create(f.ctx, company.CreateCompanyRequest{Name: "", CNPJ: "123"})
		assert.Error(t, err)
	})
}

func TestDeleteCompanyWithUsers(t *testing.T) {
	f := setup(t)
	created, err := f.service.Create(f.ctx, newRequest("12345678000195"))
	require.NoError(t, err)
	f.addUser(t, created.ID)

	err = f.service.Delete(f.ctx, created.ID)
	assert.ErrorIs(t, err, company.ErrCompanyHasUsers)

	kept, err := f.service.GetByID(f.ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), *kept.UserCount)
}

func TestDeleteEmptyCompany(t *testing.T) {
	f := setup(t)
	created, err := f.service.Create(f.ctx, newRequest("12345678000195"))
	require.NoError(t, err)

	require.NoError(t, f.service.Delete(f.ctx, created.ID))
	_, err = f.service.GetByID(f.ctx, created.ID)
	assert.ErrorIs(t, err, company.ErrCompanyNotFound)
}

func TestUpdateMaxUsersBelowActual(t *testing.T) {
	f := setup(t)
	created, err := f.service.Create(f.ctx, newRequest("12345678000195"))
	require.NoError(t, err)
	f.addUser(t, created.ID)
	f.addUser(t, created.ID)

	one := 1
	_, err = f.service.Update(f.ctx, created.ID, company.UpdateCompanyRequest{MaxUsers: &one})
	assert.ErrorIs(t, err, company.ErrMaxUsersBelowActual)

	two := 2
	name := "Acme Renamed"
	updated, err := f.service.Update(f.ctx, created.ID, company.UpdateCompanyRequest{MaxUsers: &two, Name: &name})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.MaxUsers)
	assert.Equal(t, name, updated.Name)
}

func TestGetMine(t *testing.T) {
	f := setup(t)
	created, err := f.service.Create(f.ctx, newRequest("12345678000195"))
	require.NoError(t, err)

	mine, err := f.service.GetMine(f.ctx, user.Actor{UserID: "u", CompanyID: &created.ID, Role: user.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, created.ID, mine.ID)

	_, err = f.service.GetMine(f.ctx, user.Actor{UserID: "u", Role: user.RoleUser})
	assert.ErrorIs(t, err, company.ErrNoCompanyAssigned)
}

func TestListCompanies(t *testing.T) {
	f := setup(t)
	for _, cnpj := range []string{"11111111000111", "22222222000122", "33333333000133"} {
		_, err := f.service.Create(f.ctx, newRequest(cnpj))
		require.NoError(t, err)
	}

	resp, err := f.service.List(f.ctx, company.CompanyFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.TotalCount)
	assert.Equal(t, 2, resp.TotalPages)
	assert.Len(t, resp.Companies, 2)
}
