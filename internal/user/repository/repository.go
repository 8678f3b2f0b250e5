package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/job-board/backend/internal/common/db"
	"github.com/AlibekovAA/job-board/backend/internal/user/domain"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Repository is the credential store plus the profile and admin queries.
// Every method touches a single row except List and Count.
type Repository interface {
	Create(ctx context.Context, user domain.User) error
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByID(ctx context.Context, id domain.ID) (domain.User, error)
	UpdateRefreshToken(ctx context.Context, id domain.ID, tokenHash string) error
	SwapRefreshToken(ctx context.Context, id domain.ID, expectedHash, newHash string) (bool, error)
	UpdateProfile(ctx context.Context, user domain.User) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, id domain.ID) error
	Count(ctx context.Context) (int, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const userColumns = `id, name, email, password_hash, role, refresh_token_hash, profile, created_at, updated_at`

func (r *PgRepository) Create(ctx context.Context, user domain.User) error {
	start := time.Now()

	profile, err := json.Marshal(user.Profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	_, err = r.pool.Exec(
		ctx,
		`INSERT INTO users (id, name, email, password_hash, role, refresh_token_hash, profile)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		string(user.ID),
		user.Name,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		nullable(user.RefreshTokenHash),
		profile,
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			db.MeasureQueryDuration("create user", start)
			return ErrEmailAlreadyExists
		}
		return db.HandleExecError(err, "create user", start)
	}

	db.MeasureQueryDuration("create user", start)
	return nil
}

func (r *PgRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	start := time.Now()
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)

	user, err := scanUser(row)
	if err := db.HandleQueryError(err, ErrUserNotFound, "find user by email", start); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	start := time.Now()
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, string(id))

	user, err := scanUser(row)
	if err := db.HandleQueryError(err, ErrUserNotFound, "find user by id", start); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// UpdateRefreshToken overwrites the stored token hash. An empty hash clears
// it.
func (r *PgRepository) UpdateRefreshToken(ctx context.Context, id domain.ID, tokenHash string) error {
	start := time.Now()
	tag, err := r.pool.Exec(
		ctx,
		`UPDATE users SET refresh_token_hash = $2, updated_at = NOW() WHERE id = $1`,
		string(id),
		nullable(tokenHash),
	)
	if err := db.HandleExecError(err, "update refresh token", start); err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SwapRefreshToken replaces the stored hash only while it still equals
// expectedHash. It reports whether the row was changed.
func (r *PgRepository) SwapRefreshToken(ctx context.Context, id domain.ID, expectedHash, newHash string) (bool, error) {
	start := time.Now()
	tag, err := r.pool.Exec(
		ctx,
		`UPDATE users SET refresh_token_hash = $3, updated_at = NOW()
		 WHERE id = $1 AND refresh_token_hash = $2`,
		string(id),
		expectedHash,
		nullable(newHash),
	)
	if err := db.HandleExecError(err, "swap refresh token", start); err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PgRepository) UpdateProfile(ctx context.Context, user domain.User) (domain.User, error) {
	start := time.Now()

	profile, err := json.Marshal(user.Profile)
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to encode profile: %w", err)
	}

	row := r.pool.QueryRow(
		ctx,
		`UPDATE users SET name = $2, profile = $3, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+userColumns,
		string(user.ID),
		user.Name,
		profile,
	)

	updated, err := scanUser(row)
	if err := db.HandleQueryError(err, ErrUserNotFound, "update user profile", start); err != nil {
		return domain.User{}, err
	}
	return updated, nil
}

func (r *PgRepository) List(ctx context.Context) ([]domain.User, error) {
	start := time.Now()
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, db.HandleQueryError(err, nil, "list users", start)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, db.HandleQueryError(err, nil, "list users", start)
	}

	db.MeasureQueryDuration("list users", start)
	return users, nil
}

func (r *PgRepository) Delete(ctx context.Context, id domain.ID) error {
	start := time.Now()
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, string(id))
	if err := db.HandleExecError(err, "delete user", start); err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *PgRepository) Count(ctx context.Context) (int, error) {
	start := time.Now()
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	if err := db.HandleQueryError(err, nil, "count users", start); err != nil {
		return 0, err
	}
	return n, nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var (
		user         domain.User
		id           string
		role         string
		refreshHash  *string
		profileBytes []byte
	)

	err := row.Scan(
		&id,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&role,
		&refreshHash,
		&profileBytes,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}

	user.ID = domain.ID(id)
	user.Role = domain.Role(role)
	if refreshHash != nil {
		user.RefreshTokenHash = *refreshHash
	}
	if len(profileBytes) > 0 {
		if err := json.Unmarshal(profileBytes, &user.Profile); err != nil {
			return domain.User{}, fmt.Errorf("failed to decode profile: %w", err)
		}
	}
	return user, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
