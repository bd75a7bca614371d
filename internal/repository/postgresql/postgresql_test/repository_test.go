package postgresqltest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/adjustment"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timerecord"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) *TestDatabaseSetup {
	t.Helper()
	ctx := context.Background()

	db, err := NewTestDatabase(ctx)
	require.NoError(t, err)
	if db == nil {
		t.Skip("TEST_DATABASE_URL not set")
	}
	require.NoError(t, db.TruncateAllTables(ctx))
	t.Cleanup(db.Close)
	return db
}

func newID(t *testing.T) string {
	id, err := uuid.NewV7()
	require.NoError(t, err)
	return id.String()
}

func seedCompanyAndUser(t *testing.T, ctx context.Context, db *TestDatabaseSetup) (company.Company, user.User) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	c, err := postgresql.NewCompanyRepository(db.DB).Create(ctx, company.Company{
		ID: newID(t), Name: "Acme", CNPJ: "12345678000195", MaxUsers: 10, Active: true, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	u, err := postgresql.NewUserRepository(db.DB).Create(ctx, user.User{
		ID: newID(t), CompanyID: &c.ID, Name: "Ana", Email: "ana@acme.io", PasswordHash: "x",
		Role: user.RoleUser, DailyWorkHours: 8, LunchDuration: 60, Active: true, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	return c, u
}

func TestCompanyAndUser_UniqueViolations(t *testing.T) {
	db := setup(t)
	ctx := context.Background()
	c, u := seedCompanyAndUser(t, ctx, db)

	_, err := postgresql.NewCompanyRepository(db.DB).Create(ctx, company.Company{ID: newID(t), Name: "Dup", CNPJ: c.CNPJ, MaxUsers: 1})
	assert.ErrorIs(t, err, company.ErrCNPJExists)

	dup := u
	dup.ID = newID(t)
	_, err = postgresql.NewUserRepository(db.DB).Create(ctx, dup)
	assert.ErrorIs(t, err, user.ErrUserEmailExists)

	found, err := postgresql.NewUserRepository(db.DB).GetByEmail(ctx, "ANA@acme.io")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	n, err := postgresql.NewUserRepository(db.DB).CountByCompany(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestTimeRecord_RoundTripAndDateCollision(t *testing.T) {
	db := setup(t)
	ctx := context.Background()
	_, u := seedCompanyAndUser(t, ctx, db)
	repo := postgresql.NewTimeRecordRepository(db.DB)

	entry, exit := timerecord.ClockTime(8*60), timerecord.ClockTime(17*60+30)
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	created, err := repo.Create(ctx, timerecord.TimeRecord{
		ID: newID(t), UserID: u.ID, Date: date, EntryTime: &entry, ExitTime: &exit,
		WorkedMinutes: 570, ExpectedMinutes: 480, CreatedAt: date, UpdatedAt: date,
	})
	require.NoError(t, err)
	require.NotNil(t, created.ExitTime)
	assert.Equal(t, "17:30", created.ExitTime.String())
	assert.Nil(t, created.LunchStart)

	_, err = repo.Create(ctx, timerecord.TimeRecord{ID: newID(t), UserID: u.ID, Date: date, ExpectedMinutes: 480})
	assert.ErrorIs(t, err, timerecord.ErrTimeRecordDateTaken)

	got, err := repo.GetByUserAndDate(ctx, u.ID, date)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = repo.GetByID(ctx, newID(t))
	assert.ErrorIs(t, err, timerecord.ErrTimeRecordNotFound)
}

func TestAdjustment_TransactionRollsBack(t *testing.T) {
	db := setup(t)
	ctx := context.Background()
	_, u := seedCompanyAndUser(t, ctx, db)
	records := postgresql.NewTimeRecordRepository(db.DB)
	adjustments := postgresql.NewAdjustmentRepository(db.DB)
	tx := postgresql.NewTransactor(db.DB)

	now := time.Now().UTC()
	rec, err := records.Create(ctx, timerecord.TimeRecord{ID: newID(t), UserID: u.ID, Date: now, ExpectedMinutes: 480, CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)
	adj, err := adjustments.Create(ctx, adjustment.Adjustment{
		ID: newID(t), TimeRecordID: rec.ID, UserID: u.ID, FieldToChange: timerecord.FieldNotes,
		RequestedValue: "x", Reason: "forgot to add notes", Status: adjustment.StatusPending, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := adjustments.Review(ctx, adj.ID, adjustment.Review{Status: adjustment.StatusApproved, ReviewerID: u.ID, ReviewedAt: now}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	still, err := adjustments.GetByID(ctx, adj.ID)
	require.NoError(t, err)
	assert.Equal(t, adjustment.StatusPending, still.Status)

	_, err = adjustments.Review(ctx, adj.ID, adjustment.Review{Status: adjustment.StatusRejected, ReviewerID: u.ID, ReviewedAt: now})
	require.NoError(t, err)
	_, err = adjustments.Review(ctx, adj.ID, adjustment.Review{Status: adjustment.StatusApproved, ReviewerID: u.ID, ReviewedAt: now})
	assert.ErrorIs(t, err, adjustment.ErrAdjustmentAlreadyReviewed)
}
