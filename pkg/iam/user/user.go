package user

import (
	"time"

	"github.com/youssef9656/server/pkg/kernel"
)

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User is an admin-console account
type User struct {
	ID               kernel.UserID `db:"id" json:"id"`
	Email            kernel.Email  `db:"email" json:"email"`
	PasswordHash     string        `db:"password_hash" json:"-"`
	Role             string        `db:"role" json:"role,omitempty"`
	SessionToken     *string       `db:"session_token" json:"-"`
	SessionCreatedAt *time.Time    `db:"session_created_at" json:"sessionCreatedAt,omitempty"`
	CreatedAt        time.Time     `db:"created_at" json:"createdAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasSession reports whether token is the session currently stored for the user
func (u *User) HasSession(token string) bool {
	return token != "" && u.SessionToken != nil && *u.SessionToken == token
}

func IsKnownRole(role string) bool {
	return role == RoleAdmin || role == RoleStaff
}
