package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fenilmodi00/planillas-dashboard/models"
	"github.com/fenilmodi00/planillas-dashboard/shared"
	"github.com/sirupsen/logrus"
)

// duplicateMessage is the error message the backend uses when the create
// call found repeated identity numbers. Its body is a regular result.
const duplicateMessage = "Hay cedulas repetidas"

var ErrPlanillaNotFound = errors.New("planilla not found")

// PlanillaService wraps the planilla endpoints of the backend
type PlanillaService struct {
	api    *APIClient
	logger *logrus.Entry
}

func NewPlanillaService(api *APIClient) *PlanillaService {
	return &PlanillaService{
		api:    api,
		logger: logrus.WithField("component", "PlanillaService"),
	}
}

// GetPlanillas fetches one page of planillas under the given filters
func (s *PlanillaService) GetPlanillas(ctx context.Context, session *models.Session, filters models.PlanillaFilters) (models.PaginatedResponse[models.Planilla], error) {
	var response models.PlanillaPageResponse
	if err := s.api.Get(ctx, session, "/planilla/obtenerPlanillas", filters.Values(), &response); err != nil {
		return models.PaginatedResponse[models.Planilla]{}, fmt.Errorf("failed to list planillas: %w", err)
	}
	return models.MapPlanillaPage(response), nil
}

// FindPlanilla looks a planilla up on the page the filters point at
func (s *PlanillaService) FindPlanilla(ctx context.Context, session *models.Session, filters models.PlanillaFilters, id int64) (models.Planilla, error) {
	page, err := s.GetPlanillas(ctx, session, filters)
	if err != nil {
		return models.Planilla{}, err
	}
	for _, planilla := range page.Content {
		if planilla.ID == id {
			return planilla, nil
		}
	}
	return models.Planilla{}, ErrPlanillaNotFound
}

// AddPlanilla creates a planilla. A duplicate-numbers error response is
// decoded and returned as a result rather than an error.
func (s *PlanillaService) AddPlanilla(ctx context.Context, session *models.Session, request models.AddPlanillaRequest) (models.AddPlanillaResponse, error) {
	logger := s.logger.WithFields(logrus.Fields{
		"cedula_dirigente": request.CedulaDirigente,
		"cedulas":          len(request.CedulasVotantes),
	})

	var response models.AddPlanillaResponse
	err := s.api.Post(ctx, session, "/planilla/create", request, &response)
	if err == nil {
		logger.Info("Planilla submitted")
		return response, nil
	}

	if apiErr, ok := AsAPIError(err); ok && apiErr.Message == duplicateMessage {
		if decodeErr := json.Unmarshal(apiErr.Body, &response); decodeErr != nil {
			return models.AddPlanillaResponse{}, shared.NewServiceError(shared.ErrorCategoryProcessing, "DECODE_FAILED", "failed to decode duplicate report", "PlanillaService", "AddPlanilla", false, decodeErr)
		}
		logger.WithField("duplicates", len(response.Data.CedulasRepetidas)).Info("Planilla submitted with duplicates")
		return response, nil
	}

	return models.AddPlanillaResponse{}, fmt.Errorf("failed to create planilla: %w", err)
}

// GetEstadisticas fetches the aggregate counters
func (s *PlanillaService) GetEstadisticas(ctx context.Context, session *models.Session) (models.Estadisticas, error) {
	var response models.APIEnvelope[models.EstadisticasResponse]
	if err := s.api.Get(ctx, session, "/planilla/obtenerEstadisticas", nil, &response); err != nil {
		return models.Estadisticas{}, fmt.Errorf("failed to fetch statistics: %w", err)
	}
	return models.MapEstadisticas(response.Data), nil
}

// GetProblemGroups fetches the per-dirigente report of planillas with many
// identity numbers not found in the voter roll
func (s *PlanillaService) GetProblemGroups(ctx context.Context, session *models.Session) ([]models.ProblemGroup, error) {
	var response models.APIEnvelope[[]models.ProblemGroupResponse]
	if err := s.api.Get(ctx, session, "/planilla/obtenerPlanillasProblemas", nil, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch problem report: %w", err)
	}

	groups := make([]models.ProblemGroup, 0, len(response.Data))
	for _, group := range response.Data {
		groups = append(groups, models.MapProblemGroup(group))
	}
	return groups, nil
}
