package notificationapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/youssef9656/server/pkg/iam/auth"
	"github.com/youssef9656/server/recruitment/notification"
	"github.com/youssef9656/server/recruitment/notification/notificationsrv"
)

type NotificationHandlers struct {
	dispatcher *notificationsrv.Dispatcher
}

func NewNotificationHandlers(dispatcher *notificationsrv.Dispatcher) *NotificationHandlers {
	return &NotificationHandlers{dispatcher: dispatcher}
}

// RegisterRoutes must run before the candidacy routes so that
// /api/candidature/templates is not captured by /api/candidature/:id.
// Middleware stays per route: the group prefix also covers the public
// submission endpoint.
func (h *NotificationHandlers) RegisterRoutes(app *fiber.App, authMiddleware *auth.TokenMiddleware) {
	candidature := app.Group("/api/candidature")

	candidature.Get("/templates",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeCandidaciesRead),
		h.Templates,
	)
	candidature.Post("/envoyer-message",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeNotificationsSend),
		h.SendMessage,
	)
}

// SendMessage renders a message for a candidate and mails it
// POST /api/candidature/envoyer-message
func (h *NotificationHandlers) SendMessage(c *fiber.Ctx) error {
	var req notification.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return notification.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}

	res, err := h.dispatcher.SendToCandidate(c.Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// GET /api/candidature/templates
func (h *NotificationHandlers) Templates(c *fiber.Ctx) error {
	return c.JSON(notification.TemplatesResponse{
		Success:   true,
		Templates: h.dispatcher.Templates(),
	})
}
