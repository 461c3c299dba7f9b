package user

import (
	"context"
	"time"

	"github.com/youssef9656/server/pkg/kernel"
)

type UserRepository interface {
	// Create fails with ErrEmailInUse on a duplicate email
	Create(ctx context.Context, u *User) error

	// FindByEmail returns ErrUserNotFound when absent
	FindByEmail(ctx context.Context, email kernel.Email) (*User, error)

	FindByID(ctx context.Context, id kernel.UserID) (*User, error)

	SetSession(ctx context.Context, id kernel.UserID, token string, at time.Time) error

	ClearSession(ctx context.Context, email kernel.Email) error
}
