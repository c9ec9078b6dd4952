package directory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/tenantauth/pkg/appname"
)

type memoryRecord struct {
	user User
	hash []byte
}

// MemoryStore is an in-memory, application-scoped directory. Suitable for
// tests and single-process deployments; all data is lost on restart.
type MemoryStore struct {
	mu         sync.RWMutex
	users      map[string]memoryRecord
	bcryptCost int
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithBcryptCost overrides the bcrypt cost for password hashing. Tests use a
// low cost to keep hashing cheap.
func WithBcryptCost(cost int) MemoryOption {
	return func(s *MemoryStore) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.bcryptCost = cost
		}
	}
}

// NewMemoryStore creates an empty in-memory directory.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		users:      make(map[string]memoryRecord),
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ApplicationName reads the current application from the request context.
func (s *MemoryStore) ApplicationName(ctx context.Context) string {
	return appname.Current(ctx)
}

func (s *MemoryStore) ValidateCredentials(ctx context.Context, username, password string) (bool, error) {
	s.mu.RLock()
	rec, ok := s.users[s.key(ctx, username)]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}

	return bcrypt.CompareHashAndPassword(rec.hash, []byte(password)) == nil, nil
}

func (s *MemoryStore) GetUser(ctx context.Context, username string) (*User, error) {
	s.mu.RLock()
	rec, ok := s.users[s.key(ctx, username)]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrUserNotFound
	}

	user := rec.user
	return &user, nil
}

func (s *MemoryStore) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	key := s.key(ctx, username)

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.users[key]
	if !ok {
		return ErrUserNotFound
	}
	if bcrypt.CompareHashAndPassword(rec.hash, []byte(oldPassword)) != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return err
	}

	rec.hash = hash
	s.users[key] = rec
	return nil
}

func (s *MemoryStore) Register(ctx context.Context, username, email, password string) (*User, error) {
	key := s.key(ctx, username)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[key]; exists {
		return nil, ErrUserExists
	}

	user := User{
		ID:          uuid.New(),
		Username:    username,
		Email:       email,
		Application: s.ApplicationName(ctx),
		CreatedAt:   time.Now(),
	}
	s.users[key] = memoryRecord{user: user, hash: hash}
	return &user, nil
}

// key scopes a username by the current application. The NUL separator cannot
// appear in either part, so distinct (application, username) pairs never
// collide.
func (s *MemoryStore) key(ctx context.Context, username string) string {
	return s.ApplicationName(ctx) + "\x00" + username
}
