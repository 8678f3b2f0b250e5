package service

import (
	"context"
	"sort"

	auditdomain "github.com/AlibekovAA/job-board/backend/internal/audit/domain"
	"github.com/AlibekovAA/job-board/backend/internal/job/domain"
	"github.com/AlibekovAA/job-board/backend/internal/job/repository"
	userdomain "github.com/AlibekovAA/job-board/backend/internal/user/domain"
)

type mockRepository struct {
	jobs map[domain.ID]domain.Job

	createFunc func(ctx context.Context, job domain.Job) error
	searchFunc func(ctx context.Context, filter domain.Filter) ([]domain.Listing, error)
	recentFunc func(ctx context.Context, limit int) ([]domain.Job, error)
}

func newMockRepository(jobs ...domain.Job) *mockRepository {
	m := &mockRepository{jobs: make(map[domain.ID]domain.Job)}
	for _, j := range jobs {
		m.jobs[j.ID] = j
	}
	return m
}

func (m *mockRepository) Create(ctx context.Context, job domain.Job) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, job)
	}
	m.jobs[job.ID] = job
	return nil
}

func (m *mockRepository) FindByID(_ context.Context, id domain.ID) (domain.Job, error) {
	j, ok := m.jobs[id]
	if !ok {
		return domain.Job{}, repository.ErrJobNotFound
	}
	return j, nil
}

func (m *mockRepository) GetListing(ctx context.Context, id domain.ID) (domain.Listing, error) {
	j, err := m.FindByID(ctx, id)
	if err != nil {
		return domain.Listing{}, err
	}
	return domain.Listing{Job: j, Creator: userdomain.Summary{ID: j.CreatedBy}}, nil
}

func (m *mockRepository) Update(_ context.Context, job domain.Job) (domain.Job, error) {
	if _, ok := m.jobs[job.ID]; !ok {
		return domain.Job{}, repository.ErrJobNotFound
	}
	m.jobs[job.ID] = job
	return job, nil
}

func (m *mockRepository) Delete(_ context.Context, id domain.ID) error {
	if _, ok := m.jobs[id]; !ok {
		return repository.ErrJobNotFound
	}
	delete(m.jobs, id)
	return nil
}

func (m *mockRepository) ListByCreator(_ context.Context, owner userdomain.ID) ([]domain.Job, error) {
	out := make([]domain.Job, 0)
	for _, j := range m.jobs {
		if j.CreatedBy == owner {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}

func (m *mockRepository) Search(ctx context.Context, filter domain.Filter) ([]domain.Listing, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockRepository) Recent(ctx context.Context, limit int) ([]domain.Job, error) {
	if m.recentFunc != nil {
		return m.recentFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockRepository) Count(context.Context) (int, error) {
	return len(m.jobs), nil
}

type mockAuditor struct {
	actions []auditdomain.Action
}

func (m *mockAuditor) Record(_ context.Context, action auditdomain.Action, _, _ string) {
	m.actions = append(m.actions, action)
}

type sequenceIDs struct{ ids []string }

func (s *sequenceIDs) NewID() (string, error) {
	id := s.ids[0]
	s.ids = s.ids[1:]
	return id, nil
}
