package helpers

import (
	"context"
	"sync"

	"github.com/andrescamacho/starwars-movies-go/internal/domain/user"
)

// MockUserRepository is an in-memory UserRepository
type MockUserRepository struct {
	mu      sync.RWMutex
	users   map[string]*user.User // id -> user
	byEmail map[string]*user.User // normalized email -> user
	addErr  error
}

// NewMockUserRepository creates a new mock user repository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:   make(map[string]*user.User),
		byEmail: make(map[string]*user.User),
	}
}

// SetAddError makes Add fail with err
func (r *MockUserRepository) SetAddError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addErr = err
}

// Count returns the number of stored users
func (r *MockUserRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

func (r *MockUserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.users[id], nil
}

func (r *MockUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byEmail[user.NormalizeEmail(email)], nil
}

func (r *MockUserRepository) Add(ctx context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.addErr != nil {
		return r.addErr
	}
	r.users[u.ID] = u
	r.byEmail[u.Email] = u
	return nil
}

// PlainHasher is a reversible PasswordHasher for tests
type PlainHasher struct{}

func (PlainHasher) Hash(password string) (string, error) {
	return "plain:" + password, nil
}

func (PlainHasher) Compare(hash, password string) bool {
	return hash == "plain:"+password
}
