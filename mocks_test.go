package auth_test

import (
	"context"
	"sync"
	"time"

	auth "github.com/Harsh3341/edusync-auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserStore implements auth.UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) ByEmail(ctx context.Context, email string) (*auth.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUserStore) Register(ctx context.Context, user *auth.User) (*auth.User, error) {
	args := m.Called(ctx, user)
	created, _ := args.Get(0).(*auth.User)
	return created, args.Error(1)
}

// MockMailer implements auth.Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, mail auth.Mail) error {
	args := m.Called(ctx, mail)
	return args.Error(0)
}

// memCache is an in-memory auth.SessionCache with an optional injected
// failure for exercising the best-effort write path.
type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	setErr  error
}

func newMemCache() *memCache {
	return &memCache{entries: map[string][]byte{}}
}

func (c *memCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[key] = value
	return nil
}

func (c *memCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.entries[key]
	if !ok {
		return nil, auth.ErrIdentityNotFound
	}
	return value, nil
}

func (c *memCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// memStore is an in-memory auth.UserStore with real unique-email semantics,
// for tests that exercise the activation race.
type memStore struct {
	mu    sync.Mutex
	users map[string]*auth.User
}

func newMemStore() *memStore {
	return &memStore{users: map[string]*auth.User{}}
}

func (s *memStore) ByEmail(ctx context.Context, email string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[email]
	if !ok {
		return nil, auth.ErrIdentityNotFound
	}
	clone := *user
	return &clone, nil
}

func (s *memStore) Register(ctx context.Context, user *auth.User) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[user.Email]; exists {
		return nil, auth.ErrDuplicateAccount
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	clone := *user
	s.users[user.Email] = &clone
	return user, nil
}
