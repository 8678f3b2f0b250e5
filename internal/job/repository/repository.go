package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/job-board/backend/internal/common/db"
	"github.com/AlibekovAA/job-board/backend/internal/job/domain"
	userdomain "github.com/AlibekovAA/job-board/backend/internal/user/domain"
)

var (
	ErrJobNotFound     = errors.New("job not found")
	ErrCreatorNotFound = errors.New("job creator not found")
)

type Repository interface {
	Create(ctx context.Context, job domain.Job) error
	FindByID(ctx context.Context, id domain.ID) (domain.Job, error)
	GetListing(ctx context.Context, id domain.ID) (domain.Listing, error)
	Update(ctx context.Context, job domain.Job) (domain.Job, error)
	Delete(ctx context.Context, id domain.ID) error
	ListByCreator(ctx context.Context, owner userdomain.ID) ([]domain.Job, error)
	Search(ctx context.Context, filter domain.Filter) ([]domain.Listing, error)
	Recent(ctx context.Context, limit int) ([]domain.Job, error)
	Count(ctx context.Context) (int, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const jobColumns = `j.id, j.title, j.company, j.description, j.location, j.salary, j.tags, j.skills,
	j.experience_level, j.job_type, j.status, j.created_by, j.created_at, j.updated_at`

const listingColumns = jobColumns + `, u.name, u.email`

func (r *PgRepository) Create(ctx context.Context, job domain.Job) error {
	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO jobs (id, title, company, description, location, salary, tags, skills,
		                   experience_level, job_type, status, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		string(job.ID),
		job.Title,
		job.Company,
		job.Description,
		job.Location,
		job.Salary,
		job.Tags,
		job.Skills,
		string(job.ExperienceLevel),
		string(job.JobType),
		string(job.Status),
		string(job.CreatedBy),
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil && db.IsForeignKeyViolation(err) {
		db.MeasureQueryDuration("create job", start)
		return ErrCreatorNotFound
	}
	return db.HandleExecError(err, "create job", start)
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.Job, error) {
	start := time.Now()
	row := r.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs j WHERE j.id = $1`, string(id))

	job, err := scanJob(row)
	if err := db.HandleQueryError(err, ErrJobNotFound, "find job by id", start); err != nil {
		return domain.Job{}, err
	}
	return job, nil
}

func (r *PgRepository) GetListing(ctx context.Context, id domain.ID) (domain.Listing, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT `+listingColumns+` FROM jobs j JOIN users u ON u.id = j.created_by WHERE j.id = $1`,
		string(id),
	)

	listing, err := scanListing(row)
	if err := db.HandleQueryError(err, ErrJobNotFound, "get job listing", start); err != nil {
		return domain.Listing{}, err
	}
	return listing, nil
}

func (r *PgRepository) Update(ctx context.Context, job domain.Job) (domain.Job, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`UPDATE jobs j SET title = $2, company = $3, description = $4, location = $5, salary = $6,
		        tags = $7, skills = $8, experience_level = $9, job_type = $10, status = $11,
		        updated_at = NOW()
		 WHERE j.id = $1
		 RETURNING `+jobColumns,
		string(job.ID),
		job.Title,
		job.Company,
		job.Description,
		job.Location,
		job.Salary,
		job.Tags,
		job.Skills,
		string(job.ExperienceLevel),
		string(job.JobType),
		string(job.Status),
	)

	updated, err := scanJob(row)
	if err := db.HandleQueryError(err, ErrJobNotFound, "update job", start); err != nil {
		return domain.Job{}, err
	}
	return updated, nil
}

func (r *PgRepository) Delete(ctx context.Context, id domain.ID) error {
	start := time.Now()
	tag, err := r.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, string(id))
	if err := db.HandleExecError(err, "delete job", start); err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *PgRepository) ListByCreator(ctx context.Context, owner userdomain.ID) ([]domain.Job, error) {
	return r.queryJobs(ctx, "list jobs by creator",
		`SELECT `+jobColumns+` FROM jobs j WHERE j.created_by = $1 ORDER BY j.created_at DESC`,
		string(owner),
	)
}

func (r *PgRepository) Recent(ctx context.Context, limit int) ([]domain.Job, error) {
	return r.queryJobs(ctx, "list recent jobs",
		`SELECT `+jobColumns+` FROM jobs j ORDER BY j.created_at DESC LIMIT $1`,
		limit,
	)
}

func (r *PgRepository) Search(ctx context.Context, filter domain.Filter) ([]domain.Listing, error) {
	start := time.Now()
	where, args := searchClause(filter)

	rows, err := r.pool.Query(
		ctx,
		`SELECT `+listingColumns+` FROM jobs j JOIN users u ON u.id = j.created_by`+where+` ORDER BY j.created_at DESC`,
		args...,
	)
	if err != nil {
		return nil, db.HandleQueryError(err, nil, "search jobs", start)
	}
	defer rows.Close()

	listings := make([]domain.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job listing: %w", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, db.HandleQueryError(err, nil, "search jobs", start)
	}

	db.MeasureQueryDuration("search jobs", start)
	return listings, nil
}

func (r *PgRepository) Count(ctx context.Context) (int, error) {
	start := time.Now()
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&n)
	if err := db.HandleQueryError(err, nil, "count jobs", start); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PgRepository) queryJobs(ctx context.Context, operation, sql string, args ...any) ([]domain.Job, error) {
	start := time.Now()
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, db.HandleQueryError(err, nil, operation, start)
	}
	defer rows.Close()

	jobs := make([]domain.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, db.HandleQueryError(err, nil, operation, start)
	}

	db.MeasureQueryDuration(operation, start)
	return jobs, nil
}

// searchClause builds the WHERE part of a search. Text filters are
// case-insensitive substring matches; tags and skills match when any listed
// value is present.
func searchClause(filter domain.Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q := strings.TrimSpace(filter.Query); q != "" {
		p := next(likePattern(q))
		conds = append(conds, fmt.Sprintf(
			`(j.title ILIKE %[1]s OR j.company ILIKE %[1]s OR j.location ILIKE %[1]s
			  OR EXISTS (SELECT 1 FROM unnest(j.tags) t WHERE t ILIKE %[1]s)
			  OR EXISTS (SELECT 1 FROM unnest(j.skills) s WHERE s ILIKE %[1]s))`, p))
	}
	if loc := strings.TrimSpace(filter.Location); loc != "" {
		conds = append(conds, "j.location ILIKE "+next(likePattern(loc)))
	}
	if company := strings.TrimSpace(filter.Company); company != "" {
		conds = append(conds, "j.company ILIKE "+next(likePattern(company)))
	}
	if len(filter.Tags) > 0 {
		conds = append(conds, "j.tags && "+next(filter.Tags)+"::text[]")
	}
	if len(filter.Skills) > 0 {
		conds = append(conds, "j.skills && "+next(filter.Skills)+"::text[]")
	}
	if filter.ExperienceLevel != "" {
		conds = append(conds, "j.experience_level = "+next(string(filter.ExperienceLevel)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func scanJob(row pgx.Row) (domain.Job, error) {
	var (
		job domain.Job
		f   jobFields
	)
	if err := row.Scan(f.targets(&job)...); err != nil {
		return domain.Job{}, err
	}
	f.apply(&job)
	return job, nil
}

func scanListing(row pgx.Row) (domain.Listing, error) {
	var (
		listing domain.Listing
		f       jobFields
	)
	targets := append(f.targets(&listing.Job), &listing.Creator.Name, &listing.Creator.Email)
	if err := row.Scan(targets...); err != nil {
		return domain.Listing{}, err
	}
	f.apply(&listing.Job)
	listing.Creator.ID = listing.CreatedBy
	return listing, nil
}

// jobFields holds the columns that need conversion into domain types.
type jobFields struct {
	id, level, jobType, status, createdBy string
}

func (f *jobFields) targets(job *domain.Job) []any {
	return []any{
		&f.id,
		&job.Title,
		&job.Company,
		&job.Description,
		&job.Location,
		&job.Salary,
		&job.Tags,
		&job.Skills,
		&f.level,
		&f.jobType,
		&f.status,
		&f.createdBy,
		&job.CreatedAt,
		&job.UpdatedAt,
	}
}

func (f *jobFields) apply(job *domain.Job) {
	job.ID = domain.ID(f.id)
	job.ExperienceLevel = domain.ExperienceLevel(f.level)
	job.JobType = domain.Type(f.jobType)
	job.Status = domain.Status(f.status)
	job.CreatedBy = userdomain.ID(f.createdBy)
}
