package services

import (
	"context"
	"errors"
	"strings"

	"github.com/fenilmodi00/planillas-dashboard/models"
	"github.com/sirupsen/logrus"
)

// DirigenteService lists the canvassers a planilla can be attributed to
type DirigenteService struct {
	api    *APIClient
	logger *logrus.Entry
}

func NewDirigenteService(api *APIClient) *DirigenteService {
	return &DirigenteService{
		api:    api,
		logger: logrus.WithField("component", "DirigenteService"),
	}
}

// GetDirigentes returns the canvasser list. Failures degrade to an empty list
// so the form still opens; only a rejected session is reported to the caller.
func (s *DirigenteService) GetDirigentes(ctx context.Context, session *models.Session) ([]models.Dirigente, error) {
	var response models.GetDirigentesResponse
	if err := s.api.Get(ctx, session, "/dirigente", nil, &response); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return nil, err
		}
		s.logger.WithError(err).Error("Failed to fetch dirigentes")
		return []models.Dirigente{}, nil
	}

	dirigentes := make([]models.Dirigente, 0, len(response.Data))
	for _, d := range response.Data {
		dirigentes = append(dirigentes, models.MapDirigente(d))
	}
	return dirigentes, nil
}

// FilterDirigentes keeps the dirigentes whose name or cedula contains query,
// ignoring case. An empty query keeps everything.
func FilterDirigentes(dirigentes []models.Dirigente, query string) []models.Dirigente {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return dirigentes
	}

	matches := make([]models.Dirigente, 0, len(dirigentes))
	for _, d := range dirigentes {
		if strings.Contains(strings.ToLower(d.Nombre), query) || strings.Contains(d.Cedula, query) {
			matches = append(matches, d)
		}
	}
	return matches
}
