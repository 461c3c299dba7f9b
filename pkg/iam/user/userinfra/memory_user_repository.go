package userinfra

import (
	"context"
	"sync"
	"time"

	"github.com/youssef9656/server/pkg/iam/user"
	"github.com/youssef9656/server/pkg/kernel"
)

// MemoryUserRepository backs STORE_DRIVER=memory; accounts vanish on restart
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[kernel.UserID]user.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[kernel.UserID]user.User)}
}

func (r *MemoryUserRepository) Create(ctx context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return user.ErrEmailInUse().WithDetail("email", u.Email)
		}
	}
	r.users[u.ID] = *u
	return nil
}

func (r *MemoryUserRepository) FindByEmail(ctx context.Context, email kernel.Email) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, user.ErrUserNotFound()
}

func (r *MemoryUserRepository) FindByID(ctx context.Context, id kernel.UserID) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrUserNotFound()
	}
	return &u, nil
}

func (r *MemoryUserRepository) SetSession(ctx context.Context, id kernel.UserID, token string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return user.ErrUserNotFound()
	}
	u.SessionToken = &token
	u.SessionCreatedAt = &at
	r.users[id] = u
	return nil
}

func (r *MemoryUserRepository) ClearSession(ctx context.Context, email kernel.Email) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, u := range r.users {
		if u.Email == email {
			u.SessionToken = nil
			u.SessionCreatedAt = nil
			r.users[id] = u
		}
	}
	return nil
}
