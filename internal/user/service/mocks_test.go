package service

import (
	"context"
	"sort"

	auditdomain "github.com/AlibekovAA/job-board/backend/internal/audit/domain"
	"github.com/AlibekovAA/job-board/backend/internal/user/domain"
	"github.com/AlibekovAA/job-board/backend/internal/user/repository"
)

type mockStore struct {
	users map[domain.ID]domain.User

	updateProfileFunc func(ctx context.Context, user domain.User) (domain.User, error)
	listFunc          func(ctx context.Context) ([]domain.User, error)
}

func newMockStore(users ...domain.User) *mockStore {
	m := &mockStore{users: make(map[domain.ID]domain.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockStore) FindByID(_ context.Context, id domain.ID) (domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (m *mockStore) UpdateProfile(ctx context.Context, user domain.User) (domain.User, error) {
	if m.updateProfileFunc != nil {
		return m.updateProfileFunc(ctx, user)
	}
	if _, ok := m.users[user.ID]; !ok {
		return domain.User{}, repository.ErrUserNotFound
	}
	m.users[user.ID] = user
	return user, nil
}

func (m *mockStore) List(ctx context.Context) ([]domain.User, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	out := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockStore) Delete(_ context.Context, id domain.ID) error {
	if _, ok := m.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *mockStore) Count(context.Context) (int, error) {
	return len(m.users), nil
}

type recordedAudit struct {
	action  auditdomain.Action
	userID  string
	details string
}

type mockAuditor struct {
	entries []recordedAudit
}

func (m *mockAuditor) Record(_ context.Context, action auditdomain.Action, userID, details string) {
	m.entries = append(m.entries, recordedAudit{action: action, userID: userID, details: details})
}
