package handlers

import (
	"errors"

	"github.com/fenilmodi00/planillas-dashboard/models"
	"github.com/fenilmodi00/planillas-dashboard/services"
	"github.com/fenilmodi00/planillas-dashboard/shared"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type StatCard struct {
	Label       string
	Value       int64
	Explanation string
}

type StatsView struct {
	Cards     []StatCard
	LoadError string
}

type ReportsView struct {
	Groups    []models.ProblemGroupView
	Threshold int
	LoadError string
}

// AdminHandler serves the views reserved for administrators
type AdminHandler struct {
	Planillas *services.PlanillaService
	Sessions  *services.SessionManager
	Views     *Views
	config    shared.DashboardConfig
	logger    *logrus.Entry
}

func NewAdminHandler(planillas *services.PlanillaService, sessions *services.SessionManager, views *Views, cfg shared.DashboardConfig) *AdminHandler {
	return &AdminHandler{
		Planillas: planillas,
		Sessions:  sessions,
		Views:     views,
		config:    cfg,
		logger:    logrus.WithField("component", "AdminHandler"),
	}
}

func (h *AdminHandler) Estadisticas(c *fiber.Ctx) error {
	ctx := c.UserContext()
	session := CurrentSession(c)

	var view StatsView
	stats, err := h.Planillas.GetEstadisticas(ctx, session)
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		return err
	case err != nil:
		h.logger.WithError(err).Error("Failed to load statistics")
		view.LoadError = "No se pudieron cargar las estadísticas."
	}
	view.Cards = statCards(stats)

	return h.Views.Render(c, fiber.StatusOK, "stats", newPage(ctx, h.Sessions, session, "Estadisticas", "estadisticas", view))
}

func (h *AdminHandler) Reportes(c *fiber.Ctx) error {
	ctx := c.UserContext()
	session := CurrentSession(c)

	view := ReportsView{Threshold: h.config.ProblemThreshold}
	groups, err := h.Planillas.GetProblemGroups(ctx, session)
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		return err
	case err != nil:
		h.logger.WithError(err).Error("Failed to load problem report")
		view.LoadError = "No se pudo cargar el reporte."
	default:
		view.Groups = models.BuildProblemView(groups, h.config.ProblemPreviewLimit, h.config.ProblemThreshold)
	}

	return h.Views.Render(c, fiber.StatusOK, "reports", newPage(ctx, h.Sessions, session, "Reportes", "reportes", view))
}

func statCards(stats models.Estadisticas) []StatCard {
	return []StatCard{
		{Label: "Total Planillas", Value: stats.TotalPlanillas, Explanation: "Son todas las planillas cargadas por Dirigentes."},
		{Label: "Votantes Guardados", Value: stats.TotalEnviados, Explanation: "Son todos los votantes que fueron guardados en la base de datos."},
		{Label: "Votantes Validos", Value: stats.TotalValidos, Explanation: "Son todos los votantes que están correctamente validados."},
		{Label: "Votantes No Encontrados", Value: stats.TotalNoEncontrados, Explanation: "Son todos los votantes que no fueron encontrados en la base de datos."},
	}
}
