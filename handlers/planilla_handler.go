package handlers

import (
	"errors"
	"net/url"
	"strings"

	"github.com/fenilmodi00/planillas-dashboard/models"
	"github.com/fenilmodi00/planillas-dashboard/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type HomeView struct {
	Filters      models.PlanillaFilters
	FilterErrors []string
	LoadError    string
	Rows         []models.PlanillaDetalle
	Pagination   *models.PaginationView
}

type FormView struct {
	Form       services.SubmissionForm
	Dirigentes []models.Dirigente
	Buscar     string
	Retorno    string
	Count      int
	Error      string
}

type PlanillaHandler struct {
	Planillas  *services.PlanillaService
	Dirigentes *services.DirigenteService
	Workflow   *services.SubmissionWorkflow
	Sessions   *services.SessionManager
	Views      *Views
	validate   *validator.Validate
	logger     *logrus.Entry
}

func NewPlanillaHandler(planillas *services.PlanillaService, dirigentes *services.DirigenteService, workflow *services.SubmissionWorkflow, sessions *services.SessionManager, views *Views, validate *validator.Validate) *PlanillaHandler {
	return &PlanillaHandler{
		Planillas:  planillas,
		Dirigentes: dirigentes,
		Workflow:   workflow,
		Sessions:   sessions,
		Views:      views,
		validate:   validate,
		logger:     logrus.WithField("component", "PlanillaHandler"),
	}
}

// Home renders the planillas table for the filters in the query string.
// Every render fetches, so returning here after a create shows fresh data.
func (h *PlanillaHandler) Home(c *fiber.Ctx) error {
	ctx := c.UserContext()
	session := CurrentSession(c)
	filters, filterErrors := ParseFilters(queryGetter(c), h.validate)

	view := HomeView{Filters: filters, FilterErrors: filterErrors}

	page, err := h.Planillas.GetPlanillas(ctx, session, filters)
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		return err
	case err != nil:
		h.logger.WithError(err).Error("Failed to load planillas")
		view.LoadError = "No se pudieron cargar las planillas."
	default:
		view.Rows = make([]models.PlanillaDetalle, 0, len(page.Content))
		for _, planilla := range page.Content {
			view.Rows = append(view.Rows, models.MapPlanillaDetalle(planilla))
		}
		pagination := models.NewPaginationView(filters, page.TotalPages, page.TotalElements)
		view.Pagination = &pagination
	}

	return h.Views.Render(c, fiber.StatusOK, "home", newPage(ctx, h.Sessions, session, "Planillas", "planillas", view))
}

// NewForm opens the submission form. The dirigente list is fetched here,
// only when the form is requested.
func (h *PlanillaHandler) NewForm(c *fiber.Ctx) error {
	ctx := c.UserContext()
	session := CurrentSession(c)

	dirigentes, err := h.Dirigentes.GetDirigentes(ctx, session)
	if err != nil {
		return err
	}

	filters := h.returnFilters(queryGetter(c))
	if raw := c.Query("retorno"); raw != "" {
		values, _ := url.ParseQuery(raw)
		filters = h.returnFilters(values.Get)
	}

	buscar := c.Query("buscar")
	view := FormView{
		Dirigentes: services.FilterDirigentes(dirigentes, buscar),
		Buscar:     buscar,
		Retorno:    filters.QueryString(),
	}
	return h.Views.Render(c, fiber.StatusOK, "planilla_form", newPage(ctx, h.Sessions, session, "Agregar Planilla", "planillas", view))
}

// Create submits the form. Validation problems re-render the form with its
// state and without calling the backend; every other completion stores a
// notice and returns to the table.
func (h *PlanillaHandler) Create(c *fiber.Ctx) error {
	ctx := c.UserContext()
	session := CurrentSession(c)

	retornoValues, _ := url.ParseQuery(c.FormValue("retorno"))
	filters := h.returnFilters(retornoValues.Get)

	form := services.SubmissionForm{
		SelectedDirigente: c.FormValue("dirigente"),
		NuevoNombre:       c.FormValue("nuevoNombre"),
		NuevaCedula:       c.FormValue("nuevaCedula"),
		VotantesText:      c.FormValue("votantes"),
	}

	if text, uploaded, err := readUpload(c); err != nil {
		return h.renderFormError(c, session, form, filters, err)
	} else if uploaded {
		form.VotantesText = text
	}

	notice, err := h.Workflow.Submit(ctx, session, form, h.Dirigentes.GetDirigentes)
	if err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			return err
		}
		if _, ok := services.IsValidationError(err); ok {
			return h.renderFormError(c, session, form, filters, err)
		}
	}

	if alertErr := h.Sessions.SetAlert(ctx, session, notice.Type, notice.Title, notice.Description); alertErr != nil {
		h.logger.WithError(alertErr).Warn("Failed to store submission notice")
	}
	return c.Redirect("/home?"+filters.QueryString(), fiber.StatusSeeOther)
}

// renderFormError shows the form again with the submitted state. The
// dirigente list is not refetched; only the current selection is kept and
// the search box reloads the full list.
func (h *PlanillaHandler) renderFormError(c *fiber.Ctx, session *models.Session, form services.SubmissionForm, filters models.PlanillaFilters, err error) error {
	message := "Ocurrió un error inesperado."
	if validationErr, ok := services.IsValidationError(err); ok {
		message = validationErr.Message
	} else {
		h.logger.WithError(err).Warn("Failed to read uploaded file")
	}

	var dirigentes []models.Dirigente
	if selected := strings.TrimSpace(form.SelectedDirigente); selected != "" {
		dirigentes = []models.Dirigente{{Cedula: selected}}
	}

	view := FormView{
		Form:       form,
		Dirigentes: dirigentes,
		Retorno:    filters.QueryString(),
		Count:      len(form.Cedulas()),
		Error:      message,
	}
	page := newPage(c.UserContext(), h.Sessions, session, "Agregar Planilla", "planillas", view)
	return h.Views.Render(c, fiber.StatusUnprocessableEntity, "planilla_form", page)
}

// returnFilters keeps the table state across the form round trip
func (h *PlanillaHandler) returnFilters(get func(string) string) models.PlanillaFilters {
	filters, _ := ParseFilters(get, h.validate)
	return filters
}

// readUpload returns the uploaded file's text when a non-empty file was sent
func readUpload(c *fiber.Ctx) (string, bool, error) {
	header, err := c.FormFile("archivo")
	if err != nil || header.Size == 0 {
		return "", false, nil
	}

	file, err := header.Open()
	if err != nil {
		return "", false, err
	}
	defer file.Close()

	text, err := services.DecodeUploadedText(file)
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}
