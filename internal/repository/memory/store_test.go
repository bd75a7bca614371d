package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/adjustment"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/crud"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timerecord"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestCompanyRepository_UniqueConstraints(t *testing.T) {
	ctx := context.Background()
	repo := NewCompanyRepository(NewStore())

	_, err := repo.Create(ctx, company.Company{ID: "c1", Name: "Acme", CNPJ: "12345678000195", Email: strPtr("rh@acme.io")})
	require.NoError(t, err)

	_, err = repo.Create(ctx, company.Company{ID: "c2", Name: "Other", CNPJ: "12345678000195"})
	assert.ErrorIs(t, err, company.ErrCNPJExists)

	_, err = repo.Create(ctx, company.Company{ID: "c3", Name: "Other", CNPJ: "98765432000110", Email: strPtr("RH@acme.io")})
	assert.ErrorIs(t, err, company.ErrCompanyEmailExists)

	exists, err := repo.ExistsByCNPJ(ctx, "12345678000195", strPtr("c1"))
	require.NoError(t, err)
	assert.False(t, exists, "a company does not collide with itself")

	_, err = repo.Update(ctx, company.Company{ID: "missing", CNPJ: "1"})
	assert.ErrorIs(t, err, company.ErrCompanyNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "missing"), company.ErrCompanyNotFound)
}

func TestTimeRecordRepository_ListOrderAndRange(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	users := NewUserRepository(s)
	repo := NewTimeRecordRepository(s)

	companyID := "c1"
	_, err := users.Create(ctx, user.User{ID: "u1", Email: "a@acme.io", CompanyID: &companyID})
	require.NoError(t, err)
	_, err = users.Create(ctx, user.User{ID: "u2", Email: "b@other.io"})
	require.NoError(t, err)

	for i, d := range []int{3, 1, 2} {
		_, err := repo.Create(ctx, timerecord.TimeRecord{
			ID:     string(rune('a' + i)),
			UserID: "u1",
			Date:   time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
	}
	_, err = repo.Create(ctx, timerecord.TimeRecord{ID: "z", UserID: "u2", Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)

	_, err = repo.Create(ctx, timerecord.TimeRecord{ID: "dup", UserID: "u1", Date: time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)})
	assert.ErrorIs(t, err, timerecord.ErrTimeRecordDateTaken)

	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	items, total, err := repo.List(ctx, timerecord.Query{CompanyID: &companyID, StartDate: &start})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)
	assert.Equal(t, 3, items[0].Date.Day())
	assert.Equal(t, 2, items[1].Date.Day())

	page, total, err := repo.List(ctx, timerecord.Query{UserID: strPtr("u1"), Page: crud.Page{Page: 2, Limit: 2}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 1)
	assert.Equal(t, 1, page[0].Date.Day())
}

func TestAbsenceRepository_ReviewOnce(t *testing.T) {
	ctx := context.Background()
	repo := NewAbsenceRepository(NewStore())
	_, err := repo.Create(ctx, absence.Absence{ID: "a1", UserID: "u1", Status: absence.StatusPending})
	require.NoError(t, err)

	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	reviewed, err := repo.Review(ctx, "a1", absence.Review{Status: absence.StatusApproved, ReviewerID: "admin", ReviewedAt: at})
	require.NoError(t, err)
	assert.Equal(t, absence.StatusApproved, reviewed.Status)
	require.NotNil(t, reviewed.ApprovedBy)
	require.NotNil(t, reviewed.ApprovedAt)

	_, err = repo.Review(ctx, "a1", absence.Review{Status: absence.StatusRejected, ReviewerID: "admin", ReviewedAt: at})
	assert.ErrorIs(t, err, absence.ErrAbsenceNotPending)

	_, err = repo.Review(ctx, "nope", absence.Review{Status: absence.StatusRejected})
	assert.ErrorIs(t, err, absence.ErrAbsenceNotFound)
}

func TestAdjustmentRepository_ReviewNamesCurrentStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewAdjustmentRepository(NewStore())
	_, err := repo.Create(ctx, adjustment.Adjustment{ID: "j1", Status: adjustment.StatusPending})
	require.NoError(t, err)

	_, err = repo.Review(ctx, "j1", adjustment.Review{Status: adjustment.StatusRejected, ReviewerID: "admin"})
	require.NoError(t, err)

	_, err = repo.Review(ctx, "j1", adjustment.Review{Status: adjustment.StatusApproved, ReviewerID: "admin"})
	assert.ErrorIs(t, err, adjustment.ErrAdjustmentAlreadyReviewed)
	assert.Contains(t, err.Error(), "with status rejected")
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	repo := NewCompanyRepository(s)
	tx := NewTransactor(s)

	boom := errors.New("boom")
	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := repo.Create(ctx, company.Company{ID: "c1", CNPJ: "1"})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repo.GetByID(ctx, "c1")
	assert.ErrorIs(t, err, company.ErrCompanyNotFound)

	err = tx.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := repo.Create(ctx, company.Company{ID: "c1", CNPJ: "1"})
		return err
	})
	require.NoError(t, err)
	_, err = repo.GetByID(ctx, "c1")
	assert.NoError(t, err)
}

func TestTransactor_RollbackKeepsWritesOutsideTheTransaction(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	records := NewTimeRecordRepository(s)
	companies := NewCompanyRepository(s)
	tx := NewTransactor(s)

	_, err := companies.Create(ctx, company.Company{ID: "c1", Name: "Acme", CNPJ: "1"})
	require.NoError(t, err)

	failed := errors.New("approval failed")
	err = tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		_, err := companies.Update(txCtx, company.Company{ID: "c1", Name: "Renamed", CNPJ: "1"})
		require.NoError(t, err)
		_, err = companies.Create(txCtx, company.Company{ID: "c2", CNPJ: "2"})
		require.NoError(t, err)

		_, err = records.Create(ctx, timerecord.TimeRecord{
			ID:     "r1",
			UserID: "u1",
			Date:   time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		return failed
	})
	assert.ErrorIs(t, err, failed)

	_, err = records.GetByID(ctx, "r1")
	assert.NoError(t, err, "a write made outside the transaction survives its rollback")

	c1, err := companies.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", c1.Name)
	_, err = companies.GetByID(ctx, "c2")
	assert.ErrorIs(t, err, company.ErrCompanyNotFound)
}
