package auth

import (
	"github.com/gofiber/fiber/v2"
)

type AuthHandlers struct {
	service *AuthService
}

func NewAuthHandlers(service *AuthService) *AuthHandlers {
	return &AuthHandlers{service: service}
}

// Login
// POST /api/auth/login
func (h *AuthHandlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}
	resp, err := h.service.Login(c.Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Verify checks the stored session token sent in the body
// POST /api/auth/verify
func (h *AuthHandlers) Verify(c *fiber.Ctx) error {
	var req VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}
	u, err := h.service.VerifySession(c.Context(), req.Token)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Token valide",
		"user":    u,
	})
}

// POST /api/auth/logout
func (h *AuthHandlers) Logout(c *fiber.Ctx) error {
	ac, ok := GetAuthContext(c)
	if !ok {
		return ErrMissingToken()
	}
	if err := h.service.Logout(c.Context(), ac.Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Déconnexion réussie"})
}

// POST /api/auth/register
func (h *AuthHandlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}
	u, err := h.service.Register(c.Context(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"user":    fiber.Map{"email": u.Email, "role": u.Role},
	})
}

// RegisterRoutes mounts /api/auth. limit guards the public login route.
func (h *AuthHandlers) RegisterRoutes(app *fiber.App, mw *TokenMiddleware, limit fiber.Handler) {
	api := app.Group("/api/auth")

	api.Post("/login", limit, h.Login)
	api.Post("/verify", mw.Authenticate(), h.Verify)
	api.Post("/logout", mw.Authenticate(), h.Logout)
	api.Post("/register",
		mw.Authenticate(),
		mw.RequireScope(ScopeUsersWrite),
		h.Register,
	)
}
