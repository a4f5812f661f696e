// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/taibuivan/yomira-auth/internal/platform/database/schema"
	"github.com/taibuivan/yomira-auth/internal/platform/dberr"
)

// emailConstraint is the unique constraint guarding users.email.
const emailConstraint = "users_email_key"

// DBTX is the subset of pgx used by the repository.
//
// It is satisfied by [*pgxpool.Pool], [pgx.Tx] and pgxmock.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	db DBTX
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(db DBTX) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// userColumns is the SELECT / RETURNING list matching [scanUser].
var userColumns = strings.Join(schema.Users.Columns(), ", ")

// tokenColumn maps a token kind to its column.
func tokenColumn(kind TokenKind) (string, error) {
	switch kind {
	case TokenActivation:
		return schema.Users.ActivationToken, nil
	case TokenReset:
		return schema.Users.ResetToken, nil
	case TokenRemember:
		return schema.Users.RememberToken, nil
	default:
		return "", fmt.Errorf("postgres_user_repo_unknown_token_kind: %q", kind)
	}
}

/*
FindByID retrieves a user record by its primary key.

Parameters:
  - ctx: context.Context
  - id: string

Returns:
  - *User: Hydrated account entity
  - error: ErrUserNotFound or database errors
*/
func (repository *PostgresUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		userColumns, schema.Users.Table, schema.Users.ID)

	return repository.queryOne(ctx, "find_by_id", query, id)
}

/*
FindByEmail retrieves a user record by their unique email address.

Parameters:
  - ctx: context.Context
  - email: string (already normalized)

Returns:
  - *User: Hydrated account entity
  - error: ErrUserNotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		userColumns, schema.Users.Table, schema.Users.Email)

	return repository.queryOne(ctx, "find_by_email", query, email)
}

/*
FindByToken retrieves the user holding the given token digest.

Description: Equality lookup served by the partial unique index of the
token column. An empty hash never matches.

Parameters:
  - ctx: context.Context
  - kind: TokenKind
  - hash: string

Returns:
  - *User: Hydrated account entity
  - error: ErrUserNotFound or database errors
*/
func (repository *PostgresUserRepository) FindByToken(ctx context.Context, kind TokenKind, hash string) (*User, error) {
	column, err := tokenColumn(kind)
	if err != nil {
		return nil, err
	}
	if hash == "" {
		return nil, ErrUserNotFound
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		userColumns, schema.Users.Table, column)

	return repository.queryOne(ctx, "find_by_token", query, hash)
}

/*
Create persists a new user record into the users table.

Parameters:
  - ctx: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: ErrEmailTaken or database errors
*/
func (repository *PostgresUserRepository) Create(ctx context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING %s, %s`,
		schema.Users.Table,
		schema.Users.ID, schema.Users.Email, schema.Users.PasswordHash,
		schema.Users.FirstName, schema.Users.LastName, schema.Users.IsAdmin, schema.Users.Terms,
		schema.Users.ActivationToken, schema.Users.ResetToken, schema.Users.RememberToken,
		schema.Users.CreatedAt, schema.Users.UpdatedAt,
		schema.Users.CreatedAt, schema.Users.UpdatedAt,
	)

	err := repository.db.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.IsAdmin,
		user.Terms,
		user.ActivationToken,
		user.ResetToken,
		user.RememberToken,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if dberr.IsUniqueViolation(err, emailConstraint) {
			return ErrEmailTaken
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

/*
Save upserts a user record by ID.

Description: Used by the seeder. Every column except created_at is
overwritten on conflict.

Parameters:
  - ctx: context.Context
  - user: *User

Returns:
  - error: ErrEmailTaken or database errors
*/
func (repository *PostgresUserRepository) Save(ctx context.Context, user *User) error {
	columns := schema.Users
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		ON CONFLICT (%s) DO UPDATE SET
			%s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s,
			%s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s,
			%s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = NOW()
		RETURNING %s, %s`,
		columns.Table,
		columns.ID, columns.Email, columns.PasswordHash, columns.FirstName, columns.LastName,
		columns.IsAdmin, columns.Terms, columns.ActivationToken, columns.ResetToken,
		columns.RememberToken, columns.LastActivity, columns.CreatedAt, columns.UpdatedAt,
		columns.ID,
		columns.Email, columns.Email, columns.PasswordHash, columns.PasswordHash,
		columns.FirstName, columns.FirstName, columns.LastName, columns.LastName,
		columns.IsAdmin, columns.IsAdmin, columns.Terms, columns.Terms,
		columns.ActivationToken, columns.ActivationToken, columns.ResetToken, columns.ResetToken,
		columns.RememberToken, columns.RememberToken, columns.LastActivity, columns.LastActivity,
		columns.UpdatedAt,
		columns.CreatedAt, columns.UpdatedAt,
	)

	err := repository.db.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.IsAdmin,
		user.Terms,
		user.ActivationToken,
		user.ResetToken,
		user.RememberToken,
		user.LastActivity,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if dberr.IsUniqueViolation(err, emailConstraint) {
			return ErrEmailTaken
		}
		return fmt.Errorf("postgres_user_repo_save_failed: %w", err)
	}

	return nil
}

/*
Update applies the touched fields of a patch in a single UPDATE.

Parameters:
  - ctx: context.Context
  - id: string
  - patch: UserPatch

Returns:
  - error: ErrUserNotFound, ErrEmailTaken or database errors
*/
func (repository *PostgresUserRepository) Update(ctx context.Context, id string, patch UserPatch) error {
	assignments := make([]string, 0, 11)
	args := []any{id}

	add := func(column string, touched bool, value any) {
		if !touched {
			return
		}
		args = append(args, value)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	add(schema.Users.Email, patch.Email.Touched(), patch.Email.Value())
	add(schema.Users.PasswordHash, patch.PasswordHash.Touched(), patch.PasswordHash.Value())
	add(schema.Users.FirstName, patch.FirstName.Touched(), patch.FirstName.Value())
	add(schema.Users.LastName, patch.LastName.Touched(), patch.LastName.Value())
	add(schema.Users.IsAdmin, patch.IsAdmin.Touched(), patch.IsAdmin.Value())
	add(schema.Users.Terms, patch.Terms.Touched(), patch.Terms.Value())
	add(schema.Users.ActivationToken, patch.ActivationToken.Touched(), patch.ActivationToken.Value())
	add(schema.Users.ResetToken, patch.ResetToken.Touched(), patch.ResetToken.Value())
	add(schema.Users.RememberToken, patch.RememberToken.Touched(), patch.RememberToken.Value())
	add(schema.Users.LastActivity, patch.LastActivity.Touched(), patch.LastActivity.Value())
	assignments = append(assignments, schema.Users.UpdatedAt+" = NOW()")

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $1`,
		schema.Users.Table, strings.Join(assignments, ", "), schema.Users.ID)

	tag, err := repository.db.Exec(ctx, query, args...)
	if err != nil {
		if dberr.IsUniqueViolation(err, emailConstraint) {
			return ErrEmailTaken
		}
		return fmt.Errorf("postgres_user_repo_update_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

/*
SetResetToken stores a reset digest with a single update-by-email.

Parameters:
  - ctx: context.Context
  - email: string
  - hash: string

Returns:
  - *User: Account after the update
  - error: ErrUserNotFound or database errors
*/
func (repository *PostgresUserRepository) SetResetToken(ctx context.Context, email, hash string) (*User, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1 RETURNING %s`,
		schema.Users.Table, schema.Users.ResetToken, schema.Users.UpdatedAt,
		schema.Users.Email, userColumns)

	return repository.queryOne(ctx, "set_reset_token", query, email, hash)
}

/*
ConsumeActivationToken clears a matching activation digest.

Parameters:
  - ctx: context.Context
  - hash: string

Returns:
  - *User: Activated account
  - error: ErrUserNotFound or database errors
*/
func (repository *PostgresUserRepository) ConsumeActivationToken(ctx context.Context, hash string) (*User, error) {
	if hash == "" {
		return nil, ErrUserNotFound
	}

	query := fmt.Sprintf(`UPDATE %s SET %s = NULL, %s = NOW() WHERE %s = $1 RETURNING %s`,
		schema.Users.Table, schema.Users.ActivationToken, schema.Users.UpdatedAt,
		schema.Users.ActivationToken, userColumns)

	return repository.queryOne(ctx, "consume_activation_token", query, hash)
}

/*
ConsumeResetToken changes the password and clears the reset and remember digests.

Parameters:
  - ctx: context.Context
  - hash: string
  - passwordHash: string

Returns:
  - *User: Account after the reset
  - error: ErrUserNotFound or database errors
*/
func (repository *PostgresUserRepository) ConsumeResetToken(ctx context.Context, hash, passwordHash string) (*User, error) {
	if hash == "" {
		return nil, ErrUserNotFound
	}

	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NULL, %s = NULL, %s = NOW() WHERE %s = $1 RETURNING %s`,
		schema.Users.Table, schema.Users.PasswordHash, schema.Users.ResetToken,
		schema.Users.RememberToken, schema.Users.UpdatedAt,
		schema.Users.ResetToken, userColumns)

	return repository.queryOne(ctx, "consume_reset_token", query, hash, passwordHash)
}

/*
ReplaceRememberToken rotates a matching remember digest.

Parameters:
  - ctx: context.Context
  - oldHash: string
  - newHash: string

Returns:
  - *User: Account after the rotation
  - error: ErrUserNotFound or database errors
*/
func (repository *PostgresUserRepository) ReplaceRememberToken(ctx context.Context, oldHash, newHash string) (*User, error) {
	if oldHash == "" {
		return nil, ErrUserNotFound
	}

	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1 RETURNING %s`,
		schema.Users.Table, schema.Users.RememberToken, schema.Users.UpdatedAt,
		schema.Users.RememberToken, userColumns)

	return repository.queryOne(ctx, "replace_remember_token", query, oldHash, newHash)
}

// # Scanning Helpers

// queryOne runs a single-row query and maps no-rows to ErrUserNotFound.
func (repository *PostgresUserRepository) queryOne(ctx context.Context, operation, query string, args ...any) (*User, error) {
	user, err := scanUser(repository.db.QueryRow(ctx, query, args...))
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("postgres_user_repo_%s_failed: %w", operation, err)
	}
	return user, nil
}

// scanUser hydrates a [User] from a row selected with userColumns.
func scanUser(row pgx.Row) (*User, error) {
	var (
		user         User
		activation   pgtype.Text
		reset        pgtype.Text
		remember     pgtype.Text
		lastActivity pgtype.Timestamptz
	)

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.IsAdmin,
		&user.Terms,
		&activation,
		&reset,
		&remember,
		&lastActivity,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.ActivationToken = textPointer(activation)
	user.ResetToken = textPointer(reset)
	user.RememberToken = textPointer(remember)
	if lastActivity.Valid {
		at := lastActivity.Time
		user.LastActivity = &at
	}

	return &user, nil
}

// textPointer converts a nullable text column into an optional string.
func textPointer(value pgtype.Text) *string {
	if !value.Valid {
		return nil
	}
	text := value.String
	return &text
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepository)(nil)
