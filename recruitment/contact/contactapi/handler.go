package contactapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/youssef9656/server/pkg/iam/auth"
	"github.com/youssef9656/server/pkg/kernel"
	"github.com/youssef9656/server/recruitment/contact"
	"github.com/youssef9656/server/recruitment/contact/contactsrv"
)

type ContactHandlers struct {
	service *contactsrv.Service
}

func NewContactHandlers(service *contactsrv.Service) *ContactHandlers {
	return &ContactHandlers{service: service}
}

func (h *ContactHandlers) RegisterRoutes(app *fiber.App, authMiddleware *auth.TokenMiddleware, limit fiber.Handler) {
	api := app.Group("/api")

	api.Post("/contact", limit, h.Create)
	api.Post("/send-email", limit, h.Forward)

	api.Get("/contacts",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeContactsRead),
		h.List,
	)
	api.Put("/contact/:id",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeContactsWrite),
		h.Update,
	)
	api.Post("/reply",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeContactsReply),
		h.Reply,
	)
}

// POST /api/contact
func (h *ContactHandlers) Create(c *fiber.Ctx) error {
	var req contact.CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return contact.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}
	m, err := h.service.Create(c.Context(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Message enregistré et envoyé.",
		"id":      m.ID,
	})
}

// GET /api/contacts
func (h *ContactHandlers) List(c *fiber.Ctx) error {
	items, err := h.service.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(contact.ListResponse{Success: true, Data: items})
}

// PUT /api/contact/:id
func (h *ContactHandlers) Update(c *fiber.Ctx) error {
	var fields contact.UpdateFields
	if err := c.BodyParser(&fields); err != nil {
		return contact.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}
	m, err := h.service.Update(c.Context(), kernel.ContactID(c.Params("id")), fields)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Contact modifié avec succès.",
		"data":    m,
	})
}

// POST /api/reply
func (h *ContactHandlers) Reply(c *fiber.Ctx) error {
	var req contact.ReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return contact.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}
	if err := h.service.Reply(c.Context(), req); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Réponse envoyée et statut mis à jour.",
	})
}

// POST /api/send-email
func (h *ContactHandlers) Forward(c *fiber.Ctx) error {
	var req contact.ForwardRequest
	if err := c.BodyParser(&req); err != nil {
		return contact.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}
	if err := h.service.Forward(c.Context(), req); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Message envoyé avec succès.",
	})
}
