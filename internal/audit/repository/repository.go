package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/job-board/backend/internal/audit/domain"
	"github.com/AlibekovAA/job-board/backend/internal/common/db"
)

type Repository interface {
	Insert(ctx context.Context, entry domain.Entry) error
	List(ctx context.Context, limit int) ([]domain.Entry, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Insert(ctx context.Context, entry domain.Entry) error {
	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO audit_logs (id, action, user_id, details, created_at) VALUES ($1, $2, $3, $4, $5)`,
		entry.ID,
		string(entry.Action),
		entry.UserID,
		entry.Details,
		entry.CreatedAt,
	)
	return db.HandleExecError(err, "insert audit_logs", start)
}

func (r *PgRepository) List(ctx context.Context, limit int) ([]domain.Entry, error) {
	start := time.Now()
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, action, user_id, details, created_at FROM audit_logs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, db.HandleQueryError(err, nil, "list audit_logs", start)
	}
	defer rows.Close()

	entries := make([]domain.Entry, 0)
	for rows.Next() {
		var (
			e      domain.Entry
			action string
		)
		if err := rows.Scan(&e.ID, &action, &e.UserID, &e.Details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		e.Action = domain.Action(action)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, db.HandleQueryError(err, nil, "list audit_logs", start)
	}

	db.MeasureQueryDuration("list audit_logs", start)
	return entries, nil
}
