package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/youssef9656/server/pkg/kernel"
)

const authContextKey = "auth_context"

// AuthContext is what handlers learn about the caller
type AuthContext struct {
	UserID kernel.UserID
	Email  kernel.Email
	Role   string
	Scopes []string
}

func (a *AuthContext) HasScope(scope string) bool {
	return hasScope(a.Scopes, scope)
}

// TokenMiddleware guards admin routes with Bearer access tokens
type TokenMiddleware struct {
	tokens TokenService
}

func NewAuthMiddleware(tokens TokenService) *TokenMiddleware {
	return &TokenMiddleware{tokens: tokens}
}

// Authenticate answers 401 when no token is sent and 403 when it does not validate
func (m *TokenMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return ErrMissingToken()
		}
		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return ErrMissingToken().WithDetail("reason", "expected Bearer scheme")
		}

		claims, err := m.tokens.ValidateAccessToken(parts[1])
		if err != nil {
			return ErrInvalidToken()
		}

		c.Locals(authContextKey, &AuthContext{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   claims.Role,
			Scopes: ScopesForRole(claims.Role),
		})
		return c.Next()
	}
}

// RequireScope must run after Authenticate
func (m *TokenMiddleware) RequireScope(scope string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ac, ok := GetAuthContext(c)
		if !ok {
			return ErrMissingToken()
		}
		if !ac.HasScope(scope) {
			return ErrInsufficientScope().WithDetail("required_scope", scope)
		}
		return c.Next()
	}
}

func GetAuthContext(c *fiber.Ctx) (*AuthContext, bool) {
	ac, ok := c.Locals(authContextKey).(*AuthContext)
	return ac, ok
}
