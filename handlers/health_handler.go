package handlers

import (
	"context"
	"time"

	"github.com/fenilmodi00/planillas-dashboard/shared"
	"github.com/gofiber/fiber/v2"
)

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	Gateway        *shared.HTTPMetrics
	Submissions    *shared.ServiceMetrics
	SessionBackend string
	Checks         map[string]HealthCheck
}

func NewHealthHandler(gateway *shared.HTTPMetrics, submissions *shared.ServiceMetrics, sessionBackend string, checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{
		Gateway:        gateway,
		Submissions:    submissions,
		SessionBackend: sessionBackend,
		Checks:         checks,
	}
}

// Health reports liveness, dependency checks and the gateway counters
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	status := "ok"
	checks := fiber.Map{}
	for name, check := range h.Checks {
		if err := check(c.UserContext()); err != nil {
			status = "degraded"
			checks[name] = err.Error()
			continue
		}
		checks[name] = "ok"
	}

	response := fiber.Map{
		"status":          status,
		"timestamp":       time.Now().Unix(),
		"session_backend": h.SessionBackend,
		"checks":          checks,
	}
	if h.Gateway != nil {
		response["gateway"] = h.Gateway.Summary()
	}
	if h.Submissions != nil {
		response["submissions"] = h.Submissions.GetSnapshot()
	}

	code := fiber.StatusOK
	if status != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(response)
}
