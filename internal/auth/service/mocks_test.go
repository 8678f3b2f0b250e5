package service

import (
	"context"
	"errors"
	"io"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AlibekovAA/job-board/backend/internal/auth/token"
	"github.com/AlibekovAA/job-board/backend/internal/common/clock"
	"github.com/AlibekovAA/job-board/backend/internal/common/logger"
	userdomain "github.com/AlibekovAA/job-board/backend/internal/user/domain"
	userrepo "github.com/AlibekovAA/job-board/backend/internal/user/repository"
)

// memoryStore keeps users in a map. The *Func fields override a method when
// set; reads and writes are counted per call.
type memoryStore struct {
	mu     sync.Mutex
	users  map[userdomain.ID]userdomain.User
	reads  int
	writes int

	createFunc             func(ctx context.Context, user userdomain.User) error
	findByEmailFunc        func(ctx context.Context, email string) (userdomain.User, error)
	findByIDFunc           func(ctx context.Context, id userdomain.ID) (userdomain.User, error)
	updateRefreshTokenFunc func(ctx context.Context, id userdomain.ID, hash string) error
	swapRefreshTokenFunc   func(ctx context.Context, id userdomain.ID, expected, next string) (bool, error)
}

func newMemoryStore() *memoryStore {
	return &memoryStore{users: make(map[userdomain.ID]userdomain.User)}
}

func (m *memoryStore) Create(ctx context.Context, user userdomain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return userrepo.ErrEmailAlreadyExists
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *memoryStore) FindByEmail(ctx context.Context, email string) (userdomain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *memoryStore) FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	u, ok := m.users[id]
	if !ok {
		return userdomain.User{}, userrepo.ErrUserNotFound
	}
	return u, nil
}

func (m *memoryStore) UpdateRefreshToken(ctx context.Context, id userdomain.ID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.updateRefreshTokenFunc != nil {
		return m.updateRefreshTokenFunc(ctx, id, hash)
	}
	u, ok := m.users[id]
	if !ok {
		return userrepo.ErrUserNotFound
	}
	u.RefreshTokenHash = hash
	m.users[id] = u
	return nil
}

func (m *memoryStore) SwapRefreshToken(ctx context.Context, id userdomain.ID, expected, next string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.swapRefreshTokenFunc != nil {
		return m.swapRefreshTokenFunc(ctx, id, expected, next)
	}
	u, ok := m.users[id]
	if !ok || u.RefreshTokenHash == "" || u.RefreshTokenHash != expected {
		return false, nil
	}
	u.RefreshTokenHash = next
	m.users[id] = u
	return true, nil
}

func (m *memoryStore) stored(id userdomain.ID) userdomain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id]
}

func (m *memoryStore) resetCounters() {
	m.mu.Lock()
	m.reads, m.writes = 0, 0
	m.mu.Unlock()
}

func (m *memoryStore) counters() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads, m.writes
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// uuidSequence yields distinct, well-formed uuids.
type uuidSequence struct {
	n atomic.Int64
}

func (g *uuidSequence) NewID() (string, error) {
	n := g.n.Add(1)
	s := strconv.FormatInt(n, 16)
	for len(s) < 12 {
		s = "0" + s
	}
	return "00000000-0000-4000-8000-" + s, nil
}

// limitedIDs yields remaining ids and then fails.
type limitedIDs struct {
	remaining int
	seq       uuidSequence
}

func (g *limitedIDs) NewID() (string, error) {
	if g.remaining <= 0 {
		return "", errors.New("id source exhausted")
	}
	g.remaining--
	return g.seq.NewID()
}

const (
	testAccessSecret  = "access-secret-0123456789abcdefghijklmnop"
	testRefreshSecret = "refresh-secret-0123456789abcdefghijklmno"
)

type fixture struct {
	svc    *AuthService
	store  *memoryStore
	tokens *token.Service
	clock  *clock.MockClock
}

func newFixture(opts Options) *fixture {
	clk := clock.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	ids := &uuidSequence{}
	tokens := token.NewService(token.Config{
		AccessSecret:  testAccessSecret,
		RefreshSecret: testRefreshSecret,
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}, ids, clk)
	store := newMemoryStore()
	log := logger.NewWithWriter(io.Discard, "auth-test", "ERROR")

	return &fixture{
		svc:    NewAuthService(store, tokens, fakeHasher{}, ids, opts, log),
		store:  store,
		tokens: tokens,
		clock:  clk,
	}
}
