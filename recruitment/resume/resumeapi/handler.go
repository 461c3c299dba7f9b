package resumeapi

import (
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/youssef9656/server/pkg/iam/auth"
	"github.com/youssef9656/server/recruitment/resume"
)

type ResumeHandlers struct {
	store *resume.Store
	links auth.ResumeLinkTokens
}

// NewResumeHandlers builds the résumé routes. links may be nil, in which case
// only bearer-authenticated downloads are served.
func NewResumeHandlers(store *resume.Store, links auth.ResumeLinkTokens) *ResumeHandlers {
	return &ResumeHandlers{store: store, links: links}
}

func (h *ResumeHandlers) RegisterRoutes(app *fiber.App, authMiddleware *auth.TokenMiddleware) {
	cv := app.Group("/api/cv")

	cv.Get("/:filename/preview",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeResumesRead),
		h.Preview,
	)
	cv.Get("/:filename",
		h.SignedLink,
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeResumesRead),
		h.Download,
	)
}

// SignedLink serves a download carrying a ?token= issued for that file,
// otherwise it hands over to bearer authentication.
func (h *ResumeHandlers) SignedLink(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" || h.links == nil {
		return c.Next()
	}

	name, err := resume.SanitizeName(filenameParam(c))
	if err != nil {
		return err
	}
	if err := h.links.ValidateResumeToken(token, name.String()); err != nil {
		return err
	}
	return h.Download(c)
}

// Download streams a stored résumé under its original name
// GET /api/cv/:filename
func (h *ResumeHandlers) Download(c *fiber.Ctx) error {
	name, err := h.store.Resolve(c.Context(), filenameParam(c))
	if err != nil {
		return err
	}

	rc, err := h.store.Open(c.Context(), name)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, resume.ContentTypeFor(name))
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", resume.OriginalName(name)))
	return c.SendStream(rc)
}

// Preview renders the first page of a PDF résumé
// GET /api/cv/:filename/preview
func (h *ResumeHandlers) Preview(c *fiber.Ctx) error {
	img, err := h.store.Preview(c.Context(), filenameParam(c))
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "image/jpeg")
	c.Set(fiber.HeaderCacheControl, "private, max-age=300")
	return c.Send(img)
}

func filenameParam(c *fiber.Ctx) string {
	raw := c.Params("filename")
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
