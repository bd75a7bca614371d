package user

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
	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	service   user.UserService
	users     user.UserRepository
	companies company.CompanyRepository
	ctx       context.Context
}

func setup(t *testing.T, userLimit int64) fixture {
	t.Helper()
	store := memory.NewStore()
	users := memory.NewUserRepository(store)
	companies := memory.NewCompanyRepository(store)
	return fixture{
		service:   NewUserService(memory.NewTransactor(store), users, companies, clock.Fixed(testNow), userLimit),
		users:     users,
		companies: companies,
		ctx:       context.Background(),
	}
}

func (f fixture) addCompany(t *testing.T, cnpj string, maxUsers int) string {
	t.Helper()
	c, err := f.companies.Create(f.ctx, company.Company{
		ID:       uuid.Must(uuid.NewV7()).String(),
		Name:     "Company " + cnpj,
		CNPJ:     cnpj,
		MaxUsers: maxUsers,
		Active:   true,
	})
	require.NoError(t, err)
	return c.ID
}

func adminOf(companyID string) user.Actor {
	return user.Actor{UserID: uuid.Must(uuid.NewV7()).String(), CompanyID: &companyID, Role: user.RoleAdmin}
}

var master = user.Actor{UserID: "0195d3a0-0000-7000-8000-000000000001", Role: user.RoleMaster}

func createReq(email string) user.CreateUserRequest {
	return user.CreateUserRequest{Name: "Maria Souza", Email: email, Password: "s3cret-pass"}
}

func TestCreateUser(t *testing.T) {
	f := setup(t, 1000)
	companyID := f.addCompany(t, "12345678000195", 10)
	admin := adminOf(companyID)

	created, err := f.service.Create(f.ctx, admin, createReq("Maria@Example.com"))
	require.NoError(t, err)
	assert.Equal(t, "maria@example.com", created.Email)
	assert.Equal(t, string(user.RoleUser), created.Role)
	require.NotNil(t, created.CompanyID)
	assert.Equal(t, companyID, *created.CompanyID)
	assert.Equal(t, user.DefaultDailyWorkHours, created.DailyWorkHours)

	stored, err := f.users.GetByID(f.ctx, created.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret-pass")))

	t.Run("duplicate email", func(t *testing.T) {
		_, err := f.service.Create(f.ctx, admin, createReq("maria@example.com"))
		assert.ErrorIs(t, err, user.ErrUserEmailExists)
	})

	t.Run("admin cannot create master", func(t *testing.T) {
		req := createReq("boss@example.com")
		req.Role = string(user.RoleMaster)
		_, err := f.service.Create(f.ctx, admin, req)
		assert.ErrorIs(t, err, user.ErrMasterPrivilegeRequired)
	})

	t.Run("admin confined to own company", func(t *testing.T) {
		other := f.addCompany(t, "98765432000110", 10)
		req := createReq("outsider@example.com")
		req.CompanyID = &other
		_, err := f.service.Create(f.ctx, admin, req)
		assert.ErrorIs(t, err, user.ErrForeignCompany)
	})

	t.Run("regular user refused", func(t *testing.T) {
		_, err := f.service.Create(f.ctx, user.Actor{UserID: "x", CompanyID: &companyID, Role: user.RoleUser}, createReq("nobody@example.com"))
		assert.ErrorIs(t, err, user.ErrAdminPrivilegeRequired)
	})
}

func TestCreateUserCompanyCapacity(t *testing.T) {
	f := setup(t, 1000)
	companyID := f.addCompany(t, "12345678000195", 1)
	admin := adminOf(companyID)

	_, err := f.service.Create(f.ctx, admin, createReq("first@example.com"))
	require.NoError(t, err)

	_, err = f.service.Create(f.ctx, admin, createReq("second@example.com"))
	assert.ErrorIs(t, err, user.ErrCompanyUserLimitReached)

	_, err = f.users.GetByEmail(f.ctx, "second@example.com")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestCreateUserInstallationLimit(t *testing.T) {
	f := setup(t, 1)
	companyID := f.addCompany(t, "12345678000195", 10)

	_, err := f.service.Create(f.ctx, master, user.CreateUserRequest{
		CompanyID: &companyID, Name: "One", Email: "one@example.com", Password: "password-1",
	})
	require.NoError(t, err)

	_, err = f.service.Create(f.ctx, master, user.CreateUserRequest{
		CompanyID: &companyID, Name: "Two", Email: "two@example.com", Password: "password-2",
	})
	assert.ErrorIs(t, err, user.ErrUserLimitExceeded)

	_, err = f.service.Register(f.ctx, user.User{Name: "Three", Email: "three@example.com", Role: user.RoleUser})
	assert.ErrorIs(t, err, user.ErrUserLimitExceeded)
}

func TestUpdateAndDeleteUser(t *testing.T) {
	f := setup(t, 1000)
	companyID := f.addCompany(t, "12345678000195", 10)
	admin := adminOf(companyID)

	created, err := f.service.Create(f.ctx, admin, createReq("maria@example.com"))
	require.NoError(t, err)

	hours := 6
	inactive := false
	updated, err := f.service.Update(f.ctx, admin, created.ID, user.UpdateUserRequest{DailyWorkHours: &hours, Active: &inactive})
	require.NoError(t, err)
	assert.Equal(t, 6, updated.DailyWorkHours)
	assert.False(t, updated.Active)

	outsider := adminOf(f.addCompany(t, "98765432000110", 10))
	_, err = f.service.Update(f.ctx, outsider, created.ID, user.UpdateUserRequest{DailyWorkHours: &hours})
	assert.ErrorIs(t, err, user.ErrForeignCompany)
	assert.ErrorIs(t, f.service.Delete(f.ctx, outsider, created.ID), user.ErrForeignCompany)

	assert.ErrorIs(t, f.service.Delete(f.ctx, admin, admin.UserID), user.ErrCannotDeleteSelf)

	require.NoError(t, f.service.Delete(f.ctx, admin, created.ID))
	_, err = f.service.GetByID(f.ctx, admin, created.ID)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestListUsersScopedToCompany(t *testing.T) {
	f := setup(t, 1000)
	acme := f.addCompany(t, "12345678000195", 10)
	globex := f.addCompany(t, "98765432000110", 10)

	_, err := f.service.Create(f.ctx, adminOf(acme), createReq("a@acme.com"))
	require.NoError(t, err)
	_, err = f.service.Create(f.ctx, adminOf(globex), createReq("b@globex.com"))
	require.NoError(t, err)

	resp, err := f.service.List(f.ctx, adminOf(acme), user.UserFilter{CompanyID: &globex})
	require.NoError(t, err)
	require.Len(t, resp.Users, 1)
	assert.Equal(t, "a@acme.com", resp.Users[0].Email)

	all, err := f.service.List(f.ctx, master, user.UserFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.TotalCount)
}

func TestEnsureMaster(t *testing.T) {
	f := setup(t, 1000)

	require.NoError(t, f.service.EnsureMaster(f.ctx, "Master", "Root@Example.com", "master-password"))
	require.NoError(t, f.service.EnsureMaster(f.ctx, "Master", "root@example.com", "master-password"))

	count, err := f.users.Count(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	m, err := f.users.GetByEmail(f.ctx, "root@example.com")
	require.NoError(t, err)
	assert.True(t, m.IsMaster())
	assert.Nil(t, m.CompanyID)
}
