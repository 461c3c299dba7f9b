package auth

import (
	"context"
	"strings"
	"time"

	"github.com/youssef9656/server/pkg/errx"
	"github.com/youssef9656/server/pkg/iam/user"
	"github.com/youssef9656/server/pkg/kernel"
	"github.com/youssef9656/server/pkg/logx"
)

const minPasswordLength = 8

// AuthService issues and revokes admin-console sessions
type AuthService struct {
	users     user.UserRepository
	tokens    TokenService
	passwords PasswordService
}

func NewAuthService(users user.UserRepository, tokens TokenService, passwords PasswordService) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
	}
}

// Login checks credentials and returns an access token plus a stored session token
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := kernel.NewEmail(req.Email)
	if email.IsEmpty() || req.Password == "" {
		return nil, ErrInvalidCredentials()
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errx.IsCode(err, user.CodeUserNotFound) {
			return nil, ErrInvalidCredentials()
		}
		return nil, errx.Wrap(err, "failed to load user", errx.TypeInternal)
	}

	ok, err := s.passwords.Verify(u.PasswordHash, req.Password)
	if err != nil {
		return nil, errx.Wrap(err, "failed to verify password", errx.TypeInternal)
	}
	if !ok {
		return nil, ErrInvalidCredentials()
	}

	access, err := s.tokens.GenerateAccessToken(u)
	if err != nil {
		return nil, errx.Wrap(err, "failed to generate access token", errx.TypeInternal)
	}
	session, issuedAt, err := s.tokens.GenerateSessionToken(u)
	if err != nil {
		return nil, errx.Wrap(err, "failed to generate session token", errx.TypeInternal)
	}
	if err := s.users.SetSession(ctx, u.ID, session, issuedAt); err != nil {
		return nil, errx.Wrap(err, "failed to store session", errx.TypeInternal)
	}

	logx.WithFields(logx.Fields{"user_id": u.ID}).Info("admin logged in")

	return &LoginResponse{
		Success:      true,
		Token:        access,
		SessionToken: session,
		Email:        u.Email,
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, email kernel.Email) error {
	if err := s.users.ClearSession(ctx, email); err != nil {
		return errx.Wrap(err, "failed to clear session", errx.TypeInternal)
	}
	return nil
}

// VerifySession accepts a session token only if it is valid and still the one stored
func (s *AuthService) VerifySession(ctx context.Context, token string) (*user.User, error) {
	if token == "" {
		return nil, ErrMissingSession()
	}
	claims, err := s.tokens.ValidateSessionToken(token)
	if err != nil {
		return nil, ErrInvalidSession()
	}
	u, err := s.users.FindByEmail(ctx, claims.Email)
	if err != nil {
		if errx.IsCode(err, user.CodeUserNotFound) {
			return nil, ErrInvalidSession()
		}
		return nil, errx.Wrap(err, "failed to load user", errx.TypeInternal)
	}
	if !u.HasSession(token) {
		return nil, ErrInvalidSession()
	}
	return u, nil
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*user.User, error) {
	email := kernel.NewEmail(req.Email)
	if !email.IsValid() {
		return nil, ErrInvalidRequest().WithDetail("field", "email")
	}
	if len(req.Password) < minPasswordLength {
		return nil, ErrWeakPassword()
	}
	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = user.RoleStaff
	}
	if !user.IsKnownRole(role) {
		return nil, ErrInvalidRole().WithDetail("role", role)
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, user.ErrEmailInUse().WithDetail("email", email)
	} else if !errx.IsCode(err, user.CodeUserNotFound) {
		return nil, errx.Wrap(err, "failed to check user", errx.TypeInternal)
	}

	return s.create(ctx, email, req.Password, role)
}

// EnsureAdmin creates the bootstrap admin account when it does not exist yet
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	addr := kernel.NewEmail(email)
	if addr.IsEmpty() || password == "" {
		logx.Warn("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin bootstrap")
		return nil
	}

	_, err := s.users.FindByEmail(ctx, addr)
	if err == nil {
		logx.Info("admin account already present")
		return nil
	}
	if !errx.IsCode(err, user.CodeUserNotFound) {
		return errx.Wrap(err, "failed to check admin account", errx.TypeInternal)
	}

	if _, err := s.create(ctx, addr, password, user.RoleAdmin); err != nil {
		return err
	}
	logx.Infof("admin account %s created", addr)
	return nil
}

func (s *AuthService) create(ctx context.Context, email kernel.Email, password, role string) (*user.User, error) {
	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, errx.Wrap(err, "failed to hash password", errx.TypeInternal)
	}
	u := &user.User{
		ID:           kernel.NewUserID(kernel.NewID()),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, errx.Wrap(err, "failed to create user", errx.TypeInternal)
	}
	return u, nil
}
