package auth

import (
	"context"
	"sync"
)

// MemoryRepository is an in-memory credential Repository for tests and
// database-free runs. CreateIfAbsent is idempotent on email, like the
// store-level unique constraint.
type MemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID: 1,
		users:  make(map[string]User),
	}
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (r *MemoryRepository) CreateIfAbsent(ctx context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Email]; ok {
		return nil
	}
	user.ID = r.nextID
	r.nextID++
	r.users[user.Email] = *user
	return nil
}

// Count reports the number of stored credential records.
func (r *MemoryRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}
