package models

// ProblemCard is one planilla inside a problem group
type ProblemCard struct {
	PlanillaID         int64  `json:"planillaId"`
	FechaCreacion      string `json:"fechaCreacion"`
	TotalEnviados      int64  `json:"totalEnviados"`
	TotalNoEncontrados int64  `json:"totalNoEncontrados"`
}

// ProblemGroup collects the flagged planillas of one dirigente
type ProblemGroup struct {
	CedulaDirigente    string        `json:"cedulaDirigente"`
	NombreDirigente    string        `json:"nombreDirigente"`
	TotalPlanillas     int64         `json:"totalPlanillas"`
	TotalEnviados      int64         `json:"totalEnviados"`
	TotalNoEncontrados int64         `json:"totalNoEncontrados"`
	VotantesValidos    int64         `json:"votantesValidos"`
	Planillas          []ProblemCard `json:"planillas"`
}

type ProblemCardResponse struct {
	PlanillaID         FlexInt `json:"planillaId"`
	FechaCreacion      string  `json:"fechaCreacion"`
	TotalEnviados      FlexInt `json:"totalEnviados"`
	TotalNoEncontrados FlexInt `json:"totalNoEncontrados"`
}

type ProblemGroupResponse struct {
	CedulaDirigente    FlexString            `json:"cedulaDirigente"`
	NombreDirigente    string                `json:"nombreDirigente"`
	TotalPlanillas     FlexInt               `json:"totalPlanillas"`
	TotalEnviados      FlexInt               `json:"totalEnviados"`
	TotalNoEncontrados FlexInt               `json:"totalNoEncontrados"`
	VotantesValidos    FlexInt               `json:"votantesValidos"`
	Planillas          []ProblemCardResponse `json:"planillas"`
}

// Severity classifies a not-found count for display
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// SeverityFor maps a not-found count to a severity: none is fine,
// fewer than threshold is a warning, anything else is a problem.
func SeverityFor(notFound int64, threshold int) Severity {
	switch {
	case notFound == 0:
		return SeveritySuccess
	case notFound < int64(threshold):
		return SeverityWarning
	default:
		return SeverityDanger
	}
}

// ProblemGroupView is a group prepared for the reports page
type ProblemGroupView struct {
	ProblemGroup
	Severity Severity
	Visible  []ProblemCardView
	Hidden   int
}

type ProblemCardView struct {
	ProblemCard
	Severity Severity
	Fecha    string
}

// BuildProblemView keeps the first limit planillas of each group visible and
// counts the rest. Severities are banded by threshold.
func BuildProblemView(groups []ProblemGroup, limit, threshold int) []ProblemGroupView {
	views := make([]ProblemGroupView, 0, len(groups))
	for _, group := range groups {
		view := ProblemGroupView{
			ProblemGroup: group,
			Severity:     SeverityFor(group.TotalNoEncontrados, threshold),
		}

		visible := group.Planillas
		if limit >= 0 && len(visible) > limit {
			view.Hidden = len(visible) - limit
			visible = visible[:limit]
		}

		for _, card := range visible {
			view.Visible = append(view.Visible, ProblemCardView{
				ProblemCard: card,
				Severity:    SeverityFor(card.TotalNoEncontrados, threshold),
				Fecha:       FormatDisplayDate(card.FechaCreacion),
			})
		}
		views = append(views, view)
	}
	return views
}
