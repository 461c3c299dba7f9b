package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/youssef9656/server/pkg/iam/user"
	"github.com/youssef9656/server/pkg/kernel"
)

type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindSession TokenKind = "session"
	TokenKindResume  TokenKind = "resume"
)

// ResumeLinkTTL bounds how long a résumé link sent by email stays usable
const ResumeLinkTTL = 72 * time.Hour

// TokenClaims is the decoded content of a token
type TokenClaims struct {
	Subject   string
	UserID    kernel.UserID
	Email     kernel.Email
	Role      string
	Kind      TokenKind
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type TokenService interface {
	GenerateAccessToken(u *user.User) (string, error)
	GenerateSessionToken(u *user.User) (string, time.Time, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
	ValidateSessionToken(token string) (*TokenClaims, error)
}

// ResumeLinkTokens signs download links for résumés sent by email, whose
// readers carry no Bearer header
type ResumeLinkTokens interface {
	GenerateResumeToken(name string) (string, error)
	ValidateResumeToken(token, name string) error
}

type jwtClaims struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
	Kind  string `json:"kind"`
	jwt.RegisteredClaims
}

// JWTService signs HS256 tokens
type JWTService struct {
	secret     []byte
	accessTTL  time.Duration
	sessionTTL time.Duration
	linkTTL    time.Duration
	issuer     string
	now        func() time.Time
}

func NewJWTService(secret string, accessTTL, sessionTTL time.Duration, issuer string) *JWTService {
	return &JWTService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		sessionTTL: sessionTTL,
		linkTTL:    ResumeLinkTTL,
		issuer:     issuer,
		now:        time.Now,
	}
}

func (s *JWTService) GenerateAccessToken(u *user.User) (string, error) {
	token, _, err := s.sign(u, TokenKindAccess, s.accessTTL)
	return token, err
}

func (s *JWTService) GenerateSessionToken(u *user.User) (string, time.Time, error) {
	return s.sign(u, TokenKindSession, s.sessionTTL)
}

// GenerateResumeToken grants read access to the stored résumé name only
func (s *JWTService) GenerateResumeToken(name string) (string, error) {
	token, _, err := s.signClaims(jwtClaims{Kind: string(TokenKindResume)}, name, s.linkTTL)
	return token, err
}

func (s *JWTService) ValidateResumeToken(token, name string) error {
	claims, err := s.validate(token, TokenKindResume)
	if err != nil {
		return err
	}
	if claims.Subject == "" || claims.Subject != name {
		return ErrInvalidToken().WithDetail("reason", "token issued for another file")
	}
	return nil
}

func (s *JWTService) sign(u *user.User, kind TokenKind, ttl time.Duration) (string, time.Time, error) {
	return s.signClaims(jwtClaims{
		Email: string(u.Email),
		Role:  u.Role,
		Kind:  string(kind),
	}, string(u.ID), ttl)
}

func (s *JWTService) signClaims(claims jwtClaims, subject string, ttl time.Duration) (string, time.Time, error) {
	now := s.now()
	kind := claims.Kind
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subject,
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, now, nil
}

func (s *JWTService) ValidateAccessToken(token string) (*TokenClaims, error) {
	return s.validate(token, TokenKindAccess)
}

func (s *JWTService) ValidateSessionToken(token string) (*TokenClaims, error) {
	return s.validate(token, TokenKindSession)
}

func (s *JWTService) validate(token string, kind TokenKind) (*TokenClaims, error) {
	var claims jwtClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, ErrInvalidToken().WithCause(err)
	}
	if !parsed.Valid || claims.Kind != string(kind) {
		return nil, ErrInvalidToken().WithCause(errors.New("unexpected token kind"))
	}

	out := &TokenClaims{
		Subject: claims.Subject,
		UserID:  kernel.UserID(claims.Subject),
		Email:   kernel.Email(claims.Email),
		Role:    claims.Role,
		Kind:    kind,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
