package candidacyapi

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"github.com/youssef9656/server/pkg/iam/auth"
	"github.com/youssef9656/server/pkg/kernel"
	"github.com/youssef9656/server/recruitment/candidacy"
	"github.com/youssef9656/server/recruitment/candidacy/candidacysrv"
	"github.com/youssef9656/server/recruitment/resume"
)

type CandidacyHandlers struct {
	service *candidacysrv.Service
}

func NewCandidacyHandlers(service *candidacysrv.Service) *CandidacyHandlers {
	return &CandidacyHandlers{service: service}
}

// RegisterRoutes mounts the candidacy routes. GET /api/candidature/templates
// lives in notificationapi and must be registered before this.
func (h *CandidacyHandlers) RegisterRoutes(app *fiber.App, authMiddleware *auth.TokenMiddleware, limit fiber.Handler) {
	api := app.Group("/api")

	api.Post("/candidature", limit, h.Create)

	api.Get("/candidatures",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeCandidaciesRead),
		h.List,
	)
	api.Get("/candidatures/export",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeCandidaciesExport),
		h.Export,
	)
	api.Get("/candidature/:id",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeCandidaciesRead),
		h.Get,
	)
	api.Put("/candidature/:id/statut",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeCandidaciesWrite),
		h.UpdateStatus,
	)
	api.Delete("/candidature/:id",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(auth.ScopeCandidaciesDelete),
		h.Delete,
	)
}

// Create handles the public multipart submission
// POST /api/candidature
func (h *CandidacyHandlers) Create(c *fiber.Ctx) error {
	var form candidacy.IntakeForm
	if err := c.BodyParser(&form); err != nil {
		return candidacy.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}

	upload, err := readUpload(c)
	if err != nil {
		return err
	}

	resp, err := h.service.Create(c.Context(), &form, upload)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func readUpload(c *fiber.Ctx) (*resume.Upload, error) {
	fh, err := c.FormFile(resume.FormField)
	if err != nil {
		if errors.Is(err, fasthttp.ErrMissingFile) || errors.Is(err, fasthttp.ErrNoMultipartForm) {
			return nil, nil
		}
		return nil, candidacy.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}
	data, err := readFileHeader(fh)
	if err != nil {
		return nil, candidacy.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}
	return &resume.Upload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Data:        data,
	}, nil
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func listFilter(c *fiber.Ctx) candidacy.ListFilter {
	return candidacy.ListFilter{
		Status:      candidacy.Status(c.Query("statut")),
		Nationality: c.Query("nationalite"),
	}
}

// GET /api/candidatures?page=&limit=&statut=&nationalite=
func (h *CandidacyHandlers) List(c *fiber.Ctx) error {
	opts := kernel.PaginationOptions{
		Page:     c.QueryInt("page", kernel.DefaultPage),
		PageSize: c.QueryInt("limit", kernel.DefaultPageSize),
	}

	page, err := h.service.List(c.Context(), listFilter(c), opts)
	if err != nil {
		return err
	}
	return c.JSON(candidacy.ListResponse{
		Success:    true,
		Data:       page.Items,
		Pagination: page.Page,
	})
}

// GET /api/candidatures/export?format=xlsx|csv
func (h *CandidacyHandlers) Export(c *fiber.Ctx) error {
	format, err := candidacysrv.ParseExportFormat(c.Query("format"))
	if err != nil {
		return err
	}
	export, err := h.service.Export(c.Context(), listFilter(c), format)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, export.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", export.FileName))
	return c.Send(export.Data)
}

// GET /api/candidature/:id
func (h *CandidacyHandlers) Get(c *fiber.Ctx) error {
	item, err := h.service.Get(c.Context(), kernel.CandidacyID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": item})
}

// PUT /api/candidature/:id/statut
func (h *CandidacyHandlers) UpdateStatus(c *fiber.Ctx) error {
	var req candidacy.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return candidacy.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}
	resp, err := h.service.UpdateStatus(c.Context(), kernel.CandidacyID(c.Params("id")), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// DELETE /api/candidature/:id
func (h *CandidacyHandlers) Delete(c *fiber.Ctx) error {
	resp, err := h.service.Delete(c.Context(), kernel.CandidacyID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
