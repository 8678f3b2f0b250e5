package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/job-board/backend/internal/application/domain"
	"github.com/AlibekovAA/job-board/backend/internal/common/db"
	jobdomain "github.com/AlibekovAA/job-board/backend/internal/job/domain"
	userdomain "github.com/AlibekovAA/job-board/backend/internal/user/domain"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrAlreadyApplied      = errors.New("application already exists")
	ErrJobNotFound         = errors.New("job not found")
)

type Repository interface {
	Create(ctx context.Context, app domain.Application) error
	FindByID(ctx context.Context, id domain.ID) (domain.Application, error)
	FindByJobAndApplicant(ctx context.Context, job jobdomain.ID, applicant userdomain.ID) (domain.Application, error)
	UpdateStatus(ctx context.Context, id domain.ID, status domain.Status) (domain.Application, error)
	Delete(ctx context.Context, id domain.ID) error
	ListByApplicant(ctx context.Context, applicant userdomain.ID) ([]domain.Detail, error)
	ListByJob(ctx context.Context, job jobdomain.ID) ([]domain.Detail, error)
	ListAll(ctx context.Context) ([]domain.Detail, error)
	Count(ctx context.Context) (int, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const applicationColumns = `a.id, a.job_id, a.applicant_id, a.resume_url, a.status, a.created_at, a.updated_at`

const detailSelect = `SELECT ` + applicationColumns + `, j.title, j.company, j.location, j.created_by, u.name, u.email
	FROM applications a
	JOIN jobs j ON j.id = a.job_id
	JOIN users u ON u.id = a.applicant_id`

// Create inserts app. The unique (job, applicant) constraint and the job
// foreign key are reported as ErrAlreadyApplied and ErrJobNotFound.
func (r *PgRepository) Create(ctx context.Context, app domain.Application) error {
	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO applications (id, job_id, applicant_id, resume_url, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		string(app.ID),
		string(app.JobID),
		string(app.ApplicantID),
		app.ResumeURL,
		string(app.Status),
		app.CreatedAt,
		app.UpdatedAt,
	)
	switch {
	case err != nil && db.IsUniqueViolation(err):
		db.MeasureQueryDuration("create application", start)
		return ErrAlreadyApplied
	case err != nil && db.IsForeignKeyViolation(err):
		db.MeasureQueryDuration("create application", start)
		return ErrJobNotFound
	}
	return db.HandleExecError(err, "create application", start)
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.Application, error) {
	start := time.Now()
	row := r.pool.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications a WHERE a.id = $1`, string(id))

	app, err := scanApplication(row)
	if err := db.HandleQueryError(err, ErrApplicationNotFound, "find application by id", start); err != nil {
		return domain.Application{}, err
	}
	return app, nil
}

func (r *PgRepository) FindByJobAndApplicant(ctx context.Context, job jobdomain.ID, applicant userdomain.ID) (domain.Application, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT `+applicationColumns+` FROM applications a WHERE a.job_id = $1 AND a.applicant_id = $2`,
		string(job),
		string(applicant),
	)

	app, err := scanApplication(row)
	if err := db.HandleQueryError(err, ErrApplicationNotFound, "find application by job", start); err != nil {
		return domain.Application{}, err
	}
	return app, nil
}

func (r *PgRepository) UpdateStatus(ctx context.Context, id domain.ID, status domain.Status) (domain.Application, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`UPDATE applications a SET status = $2, updated_at = NOW() WHERE a.id = $1 RETURNING `+applicationColumns,
		string(id),
		string(status),
	)

	app, err := scanApplication(row)
	if err := db.HandleQueryError(err, ErrApplicationNotFound, "update application status", start); err != nil {
		return domain.Application{}, err
	}
	return app, nil
}

func (r *PgRepository) Delete(ctx context.Context, id domain.ID) error {
	start := time.Now()
	tag, err := r.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1`, string(id))
	if err := db.HandleExecError(err, "delete application", start); err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func (r *PgRepository) ListByApplicant(ctx context.Context, applicant userdomain.ID) ([]domain.Detail, error) {
	return r.queryDetails(ctx, "list applications by applicant",
		detailSelect+` WHERE a.applicant_id = $1 ORDER BY a.created_at DESC`, string(applicant))
}

func (r *PgRepository) ListByJob(ctx context.Context, job jobdomain.ID) ([]domain.Detail, error) {
	return r.queryDetails(ctx, "list applications by job",
		detailSelect+` WHERE a.job_id = $1 ORDER BY a.created_at DESC`, string(job))
}

func (r *PgRepository) ListAll(ctx context.Context) ([]domain.Detail, error) {
	return r.queryDetails(ctx, "list applications", detailSelect+` ORDER BY a.created_at DESC`)
}

func (r *PgRepository) Count(ctx context.Context) (int, error) {
	start := time.Now()
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM applications`).Scan(&n)
	if err := db.HandleQueryError(err, nil, "count applications", start); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PgRepository) queryDetails(ctx context.Context, operation, sql string, args ...any) ([]domain.Detail, error) {
	start := time.Now()
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, db.HandleQueryError(err, nil, operation, start)
	}
	defer rows.Close()

	details := make([]domain.Detail, 0)
	for rows.Next() {
		var (
			d        domain.Detail
			f        applicationFields
			jobOwner string
		)
		targets := append(f.targets(&d.Application),
			&d.Job.Title, &d.Job.Company, &d.Job.Location, &jobOwner,
			&d.Applicant.Name, &d.Applicant.Email,
		)
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		f.apply(&d.Application)
		d.Job.ID = d.JobID
		d.Job.CreatedBy = userdomain.ID(jobOwner)
		d.Applicant.ID = d.ApplicantID
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, db.HandleQueryError(err, nil, operation, start)
	}

	db.MeasureQueryDuration(operation, start)
	return details, nil
}

func scanApplication(row pgx.Row) (domain.Application, error) {
	var (
		app domain.Application
		f   applicationFields
	)
	if err := row.Scan(f.targets(&app)...); err != nil {
		return domain.Application{}, err
	}
	f.apply(&app)
	return app, nil
}

type applicationFields struct {
	id, jobID, applicantID, status string
}

func (f *applicationFields) targets(app *domain.Application) []any {
	return []any{&f.id, &f.jobID, &f.applicantID, &app.ResumeURL, &f.status, &app.CreatedAt, &app.UpdatedAt}
}

func (f *applicationFields) apply(app *domain.Application) {
	app.ID = domain.ID(f.id)
	app.JobID = jobdomain.ID(f.jobID)
	app.ApplicantID = userdomain.ID(f.applicantID)
	app.Status = domain.Status(f.status)
}
