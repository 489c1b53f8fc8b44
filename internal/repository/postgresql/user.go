package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rakmedia/hr-backend-go/internal/domain/user"
	"github.com/rakmedia/hr-backend-go/internal/pkg/database"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

const userColumns = `
	u.id, u.username, u.email, u.password_hash, u.first_name, u.last_name, u.role,
	u.is_admin, u.is_staff, u.is_superuser, u.is_active, u.created_at, u.updated_at, e.id`

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.Role,
		&u.IsAdmin,
		&u.IsStaff,
		&u.IsSuperuser,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.EmployeeID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return user.User{}, user.ErrUserNotFound
	}
	return u, err
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	if newUser.Role == "" {
		newUser.Role = user.RoleEmployee
	}

	query := `
		INSERT INTO users (
			username, email, password_hash, first_name, last_name, role,
			is_admin, is_staff, is_superuser, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newUser.Username,
		newUser.Email,
		newUser.PasswordHash,
		newUser.FirstName,
		newUser.LastName,
		newUser.Role,
		newUser.IsAdmin,
		newUser.IsStaff,
		newUser.IsSuperuser,
		newUser.IsActive,
	).Scan(&newUser.ID, &newUser.CreatedAt, &newUser.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "users_username_key") {
			return user.User{}, user.ErrUsernameExists
		}
		return user.User{}, fmt.Errorf("insert user: %w", err)
	}

	return newUser, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id int64) (user.User, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + userColumns + `
		FROM users u
		LEFT JOIN employees e ON e.user_id = u.id
		WHERE u.id = $1`
	return scanUser(q.QueryRow(ctx, query, id))
}

// GetByUsername implements user.UserRepository.
func (r *userRepositoryImpl) GetByUsername(ctx context.Context, username string) (user.User, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + userColumns + `
		FROM users u
		LEFT JOIN employees e ON e.user_id = u.id
		WHERE u.username = $1`
	return scanUser(q.QueryRow(ctx, query, username))
}

// GetByEmail implements user.UserRepository. Email is not unique on users,
// so the oldest account wins.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + userColumns + `
		FROM users u
		LEFT JOIN employees e ON e.user_id = u.id
		WHERE LOWER(u.email) = LOWER($1) AND u.email <> ''
		ORDER BY u.id
		LIMIT 1`
	return scanUser(q.QueryRow(ctx, query, email))
}

// UsernameExists implements user.UserRepository.
func (r *userRepositoryImpl) UsernameExists(ctx context.Context, username string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	return exists, err
}

// UpdateEmail implements user.UserRepository.
func (r *userRepositoryImpl) UpdateEmail(ctx context.Context, id int64, email string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE users SET email = $1, updated_at = NOW() WHERE id = $2`, email, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// UpdatePassword implements user.UserRepository.
func (r *userRepositoryImpl) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`, passwordHash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// ListWithoutEmployee implements user.UserRepository.
func (r *userRepositoryImpl) ListWithoutEmployee(ctx context.Context) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + userColumns + `
		FROM users u
		LEFT JOIN employees e ON e.user_id = u.id
		WHERE e.id IS NULL
		ORDER BY u.id`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
