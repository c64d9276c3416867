package handlers

import (
	"errors"
	"fmt"

	"github.com/fenilmodi00/planillas-dashboard/models"
	"github.com/fenilmodi00/planillas-dashboard/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ExportHandler serves CSV, printable HTML and PDF snapshots of the views
type ExportHandler struct {
	planillas *services.PlanillaService
	exports   *services.ExportService
	validate  *validator.Validate
}

func NewExportHandler(planillas *services.PlanillaService, exports *services.ExportService, validate *validator.Validate) *ExportHandler {
	return &ExportHandler{
		planillas: planillas,
		exports:   exports,
		validate:  validate,
	}
}

// Planillas exports the table page the query string points at
func (h *ExportHandler) Planillas(c *fiber.Ctx) error {
	format, err := exportFormat(c)
	if err != nil {
		return err
	}

	filters, _ := ParseFilters(queryGetter(c), h.validate)
	page, err := h.planillas.GetPlanillas(c.UserContext(), CurrentSession(c), filters)
	if err != nil {
		return err
	}

	return h.send(c, services.BuildDocument(services.PlanillaTableSpec(), page.Content), format)
}

// PlanillaDetalle exports the voters of one planilla on the current page
func (h *ExportHandler) PlanillaDetalle(c *fiber.Ctx) error {
	format, err := exportFormat(c)
	if err != nil {
		return err
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.ErrNotFound
	}

	filters, _ := ParseFilters(queryGetter(c), h.validate)
	planilla, err := h.planillas.FindPlanilla(c.UserContext(), CurrentSession(c), filters, int64(id))
	if errors.Is(err, services.ErrPlanillaNotFound) {
		return fiber.ErrNotFound
	}
	if err != nil {
		return err
	}

	detalle := models.MapPlanillaDetalle(planilla)
	return h.send(c, services.BuildDocument(services.PlanillaDetalleSpec(detalle), planilla.Votantes), format)
}

// Reportes exports the problem report
func (h *ExportHandler) Reportes(c *fiber.Ctx) error {
	format, err := exportFormat(c)
	if err != nil {
		return err
	}

	groups, err := h.planillas.GetProblemGroups(c.UserContext(), CurrentSession(c))
	if err != nil {
		return err
	}

	return h.send(c, services.BuildDocument(services.ProblemReportSpec(), services.FlattenProblemGroups(groups)), format)
}

func (h *ExportHandler) send(c *fiber.Ctx, doc services.Document, format services.ExportFormat) error {
	artifact, err := h.exports.Render(c.UserContext(), doc, format)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, artifact.ContentType)
	if artifact.Inline {
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", artifact.Filename))
	} else {
		c.Attachment(artifact.Filename)
	}
	return c.Send(artifact.Body)
}

func exportFormat(c *fiber.Ctx) (services.ExportFormat, error) {
	format, ok := services.ParseExportFormat(c.Params("format"))
	if !ok {
		return "", fiber.ErrNotFound
	}
	return format, nil
}
