package auth

import "github.com/youssef9656/server/pkg/kernel"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Success      bool         `json:"success"`
	Token        string       `json:"token"`
	SessionToken string       `json:"sessionToken"`
	Email        kernel.Email `json:"email"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type VerifyRequest struct {
	Token string `json:"token"`
}
