// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/angelamos/storefront/internal/core"
	"github.com/angelamos/storefront/internal/permission"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetPermissions(ctx context.Context, id string) (permission.List, error)
	SetResetToken(
		ctx context.Context,
		id, token string,
		expiry time.Time,
	) error
	GetByResetToken(
		ctx context.Context,
		token string,
		now time.Time,
	) (*User, error)
	ResetPassword(ctx context.Context, id, passwordHash string) error
	UpdatePermissions(
		ctx context.Context,
		id string,
		perms permission.List,
	) (*User, error)
	List(ctx context.Context, params ListUsersParams) ([]User, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const userColumns = `
	id, email, password_hash, name, permissions,
	reset_token, reset_token_expiry, created_at, updated_at`

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, email, password_hash, name, permissions)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, user, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Permissions,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM users WHERE id = $1`,
		userColumns,
	)

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM users WHERE email = $1`,
		userColumns,
	)

	var user User
	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

func (r *repository) GetPermissions(
	ctx context.Context,
	id string,
) (permission.List, error) {
	query := `SELECT permissions FROM users WHERE id = $1`

	var perms permission.List
	err := r.db.GetContext(ctx, &perms, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get permissions: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get permissions: %w", err)
	}

	return perms, nil
}

func (r *repository) SetResetToken(
	ctx context.Context,
	id, token string,
	expiry time.Time,
) error {
	query := `
		UPDATE users
		SET reset_token = $2, reset_token_expiry = $3, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, token, expiry)
	if err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("set reset token: %w", core.ErrNotFound)
	}

	return nil
}

// GetByResetToken matches a token against the stored expiry value; the
// stored expiry is the sole source of truth for validity.
func (r *repository) GetByResetToken(
	ctx context.Context,
	token string,
	now time.Time,
) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE reset_token = $1 AND reset_token_expiry >= $2`,
		userColumns,
	)

	var user User
	err := r.db.GetContext(ctx, &user, query, token, now)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by reset token: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by reset token: %w", err)
	}

	return &user, nil
}

// ResetPassword stores the new hash and clears the token pair in one
// statement, making the token single-use.
func (r *repository) ResetPassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	query := `
		UPDATE users
		SET password_hash = $2,
		    reset_token = NULL,
		    reset_token_expiry = NULL,
		    updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("reset password: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) UpdatePermissions(
	ctx context.Context,
	id string,
	perms permission.List,
) (*User, error) {
	query := fmt.Sprintf(`
		UPDATE users
		SET permissions = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING %s`,
		userColumns,
	)

	var user User
	err := r.db.GetContext(ctx, &user, query, id, perms)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update permissions: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update permissions: %w", err)
	}

	return &user, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, "TRUE")

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(email ILIKE $%d OR name ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM users WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		userColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var users []User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return users, total, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
