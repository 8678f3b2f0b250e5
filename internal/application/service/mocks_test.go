package service

import (
	"context"

	"github.com/AlibekovAA/job-board/backend/internal/application/domain"
	"github.com/AlibekovAA/job-board/backend/internal/application/repository"
	auditdomain "github.com/AlibekovAA/job-board/backend/internal/audit/domain"
	commonerrors "github.com/AlibekovAA/job-board/backend/internal/common/errors"
	jobdomain "github.com/AlibekovAA/job-board/backend/internal/job/domain"
	userdomain "github.com/AlibekovAA/job-board/backend/internal/user/domain"
)

type mockRepository struct {
	apps map[domain.ID]domain.Application
	jobs map[jobdomain.ID]jobdomain.Job

	createFunc func(ctx context.Context, app domain.Application) error
}

func newMockRepository(jobs map[jobdomain.ID]jobdomain.Job, apps ...domain.Application) *mockRepository {
	m := &mockRepository{apps: make(map[domain.ID]domain.Application), jobs: jobs}
	for _, a := range apps {
		m.apps[a.ID] = a
	}
	return m
}

func (m *mockRepository) Create(ctx context.Context, app domain.Application) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, app)
	}
	for _, a := range m.apps {
		if a.JobID == app.JobID && a.ApplicantID == app.ApplicantID {
			return repository.ErrAlreadyApplied
		}
	}
	m.apps[app.ID] = app
	return nil
}

func (m *mockRepository) FindByID(_ context.Context, id domain.ID) (domain.Application, error) {
	a, ok := m.apps[id]
	if !ok {
		return domain.Application{}, repository.ErrApplicationNotFound
	}
	return a, nil
}

func (m *mockRepository) FindByJobAndApplicant(_ context.Context, job jobdomain.ID, applicant userdomain.ID) (domain.Application, error) {
	for _, a := range m.apps {
		if a.JobID == job && a.ApplicantID == applicant {
			return a, nil
		}
	}
	return domain.Application{}, repository.ErrApplicationNotFound
}

func (m *mockRepository) UpdateStatus(_ context.Context, id domain.ID, status domain.Status) (domain.Application, error) {
	a, ok := m.apps[id]
	if !ok {
		return domain.Application{}, repository.ErrApplicationNotFound
	}
	a.Status = status
	m.apps[id] = a
	return a, nil
}

func (m *mockRepository) Delete(_ context.Context, id domain.ID) error {
	if _, ok := m.apps[id]; !ok {
		return repository.ErrApplicationNotFound
	}
	delete(m.apps, id)
	return nil
}

func (m *mockRepository) ListByApplicant(_ context.Context, applicant userdomain.ID) ([]domain.Detail, error) {
	return m.details(func(a domain.Application) bool { return a.ApplicantID == applicant }), nil
}

func (m *mockRepository) ListByJob(_ context.Context, job jobdomain.ID) ([]domain.Detail, error) {
	return m.details(func(a domain.Application) bool { return a.JobID == job }), nil
}

func (m *mockRepository) ListAll(context.Context) ([]domain.Detail, error) {
	return m.details(func(domain.Application) bool { return true }), nil
}

func (m *mockRepository) Count(context.Context) (int, error) {
	return len(m.apps), nil
}

func (m *mockRepository) details(keep func(domain.Application) bool) []domain.Detail {
	out := make([]domain.Detail, 0)
	for _, a := range m.apps {
		if !keep(a) {
			continue
		}
		job := m.jobs[a.JobID]
		out = append(out, domain.Detail{
			Application: a,
			Job:         domain.JobSummary{ID: job.ID, Title: job.Title, CreatedBy: job.CreatedBy},
			Applicant:   userdomain.Summary{ID: a.ApplicantID},
		})
	}
	return out
}

type mockJobs struct {
	jobs map[jobdomain.ID]jobdomain.Job
}

func (m *mockJobs) Find(_ context.Context, id jobdomain.ID) (jobdomain.Job, error) {
	j, ok := m.jobs[id]
	if !ok {
		return jobdomain.Job{}, commonerrors.ErrJobNotFound
	}
	return j, nil
}

type mockAuditor struct {
	actions []auditdomain.Action
}

func (m *mockAuditor) Record(_ context.Context, action auditdomain.Action, _, _ string) {
	m.actions = append(m.actions, action)
}

type counterIDs struct{ n int }

func (c *counterIDs) NewID() (string, error) {
	c.n++
	return "app-" + string(rune('0'+c.n)), nil
}
