package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5/pgtype"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

const userColumns = `id, company_id, name, email, password_hash, role, hire_date, daily_work_hours, lunch_duration, active, created_at, updated_at`

func scanUser(row scanner) (user.User, error) {
	var (
		u        user.User
		role     string
		hireDate pgtype.Date
	)
	err := row.Scan(&u.ID, &u.CompanyID, &u.Name, &u.Email, &u.PasswordHash, &role, &hireDate,
		&u.DailyWorkHours, &u.LunchDuration, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return user.User{}, err
	}
	u.Role = user.Role(role)
	if hireDate.Valid {
		d := hireDate.Time
		u.HireDate = &d
	}
	return u, nil
}

func userArgs(u user.User) []any {
	var hireDate pgtype.Date
	if u.HireDate != nil {
		hireDate = dateParam(*u.HireDate)
	}
	return []any{u.ID, u.CompanyID, u.Name, u.Email, u.PasswordHash, string(u.Role), hireDate,
		u.DailyWorkHours, u.LunchDuration, u.Active}
}

func userWriteError(err error) error {
	if constraint, ok := uniqueConstraint(err); ok && constraint == "users_email_key" {
		return user.ErrUserEmailExists
	}
	return err
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, u user.User) (user.User, error) {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + userColumns

	args := append(userArgs(u), u.CreatedAt, u.UpdatedAt)
	created, err := scanUser(GetQuerier(ctx, r.db).QueryRow(ctx, query, args...))
	if err != nil {
		return user.User{}, userWriteError(fmt.Errorf("failed to create user: %w", err))
	}
	return created, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	return queryOne(ctx, GetQuerier(ctx, r.db), user.ErrUserNotFound, scanUser,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return queryOne(ctx, GetQuerier(ctx, r.db), user.ErrUserNotFound, scanUser,
		`SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email)
}

// Update implements user.UserRepository.
func (r *userRepositoryImpl) Update(ctx context.Context, u user.User) (user.User, error) {
	query := `
		UPDATE users
		SET company_id = $2, name = $3, email = $4, password_hash = $5, role = $6, hire_date = $7,
			daily_work_hours = $8, lunch_duration = $9, active = $10, updated_at = $11
		WHERE id = $1
		RETURNING ` + userColumns

	args := append(userArgs(u), u.UpdatedAt)
	updated, err := queryOne(ctx, GetQuerier(ctx, r.db), user.ErrUserNotFound, scanUser, query, args...)
	if err != nil {
		return user.User{}, userWriteError(err)
	}
	return updated, nil
}

// Delete implements user.UserRepository.
func (r *userRepositoryImpl) Delete(ctx context.Context, id string) error {
	return execOne(ctx, GetQuerier(ctx, r.db), user.ErrUserNotFound, `DELETE FROM users WHERE id = $1`, id)
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context, filter user.UserFilter) ([]user.User, int64, error) {
	q := GetQuerier(ctx, r.db)

	var w where
	if filter.CompanyID != nil {
		w.add("company_id = $%d", *filter.CompanyID)
	}
	if filter.Role != nil {
		w.add("role = $%d", *filter.Role)
	}
	if filter.Active != nil {
		w.add("active = $%d", *filter.Active)
	}
	if filter.Search != nil && *filter.Search != "" {
		w.add("(name ILIKE $%[1]d OR email ILIKE $%[1]d)", "%"+*filter.Search+"%")
	}

	total, err := count(ctx, q, `SELECT COUNT(*) FROM users`+w.String(), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := `SELECT ` + userColumns + ` FROM users` + w.String() + ` ORDER BY name ASC, id ASC`
	query += w.paginate(filter.PageRequest())

	users, err := queryAll(ctx, q, scanUser, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// Count implements user.UserRepository.
func (r *userRepositoryImpl) Count(ctx context.Context) (int64, error) {
	return count(ctx, GetQuerier(ctx, r.db), `SELECT COUNT(*) FROM users`)
}

// CountByCompany implements user.UserRepository.
func (r *userRepositoryImpl) CountByCompany(ctx context.Context, companyID string) (int64, error) {
	return count(ctx, GetQuerier(ctx, r.db), `SELECT COUNT(*) FROM users WHERE company_id = $1`, companyID)
}
