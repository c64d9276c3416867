package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dimchansky/utfbom"
	"github.com/fenilmodi00/planillas-dashboard/models"
	"github.com/fenilmodi00/planillas-dashboard/shared"
	"github.com/sirupsen/logrus"
)

var (
	ErrNoCanvasserSelected = shared.NewServiceError(shared.ErrorCategoryValidation, "NO_CANVASSER", "Debe seleccionar un dirigente.", "SubmissionWorkflow", "Validate", false, nil)
	ErrNoVotersProvided    = shared.NewServiceError(shared.ErrorCategoryValidation, "NO_VOTERS", "Debe ingresar al menos una cedula de votante.", "SubmissionWorkflow", "Validate", false, nil)
	ErrUploadTooLarge      = shared.NewServiceError(shared.ErrorCategoryValidation, "UPLOAD_TOO_LARGE", "El archivo es demasiado grande.", "SubmissionWorkflow", "DecodeUploadedText", false, nil)
)

// MaxUploadBytes caps the size of an uploaded CSV/TXT file
const MaxUploadBytes = 2 << 20

var separators = regexp.MustCompile(`[\n,;]+`)

// ParseIdentityNumbers splits raw input on runs of newlines, commas and
// semicolons, trims each fragment and drops the empty ones.
func ParseIdentityNumbers(text string) []string {
	fragments := separators.Split(text, -1)
	cedulas := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		if trimmed := strings.TrimSpace(fragment); trimmed != "" {
			cedulas = append(cedulas, trimmed)
		}
	}
	return cedulas
}

// ConvertIdentityNumbers converts fragments positionally. Fragments that are
// not integers are kept as invalid entries instead of being dropped.
func ConvertIdentityNumbers(fragments []string) []models.IdentityNumber {
	numbers := make([]models.IdentityNumber, 0, len(fragments))
	for _, fragment := range fragments {
		value, err := strconv.ParseInt(fragment, 10, 64)
		numbers = append(numbers, models.IdentityNumber{Value: value, Valid: err == nil})
	}
	return numbers
}

// DecodeUploadedText reads an uploaded file as UTF-8 text, dropping a
// leading byte order mark. Its content replaces whatever was typed.
func DecodeUploadedText(r io.Reader) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(utfbom.SkipOnly(r), MaxUploadBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if len(raw) > MaxUploadBytes {
		return "", ErrUploadTooLarge
	}
	return strings.ToValidUTF8(string(raw), "�"), nil
}

// SubmissionForm is the state of the add-planilla form
type SubmissionForm struct {
	SelectedDirigente string
	NuevoNombre       string
	NuevaCedula       string
	VotantesText      string
}

// UsesNewDirigente reports whether the form declares a new canvasser
func (f SubmissionForm) UsesNewDirigente() bool {
	return strings.TrimSpace(f.NuevoNombre) != "" && strings.TrimSpace(f.NuevaCedula) != ""
}

// Cedulas returns the parsed identity-number fragments
func (f SubmissionForm) Cedulas() []string {
	return ParseIdentityNumbers(f.VotantesText)
}

// Validate checks the form in order and stops at the first failure
func (f SubmissionForm) Validate() error {
	selected := strings.TrimSpace(f.SelectedDirigente) != ""
	declared := f.UsesNewDirigente()
	if selected == declared {
		return ErrNoCanvasserSelected
	}

	if len(f.Cedulas()) == 0 {
		return ErrNoVotersProvided
	}
	return nil
}

// BuildRequest turns a validated form into the create-planilla body. The name
// of an existing dirigente comes from the fetched list, empty when absent.
func BuildRequest(form SubmissionForm, dirigentes []models.Dirigente, agent models.User) models.AddPlanillaRequest {
	request := models.AddPlanillaRequest{
		CedulaPlanillero: agent.ID,
		CedulasVotantes:  ConvertIdentityNumbers(form.Cedulas()),
	}

	if form.UsesNewDirigente() {
		request.CedulaDirigente = strings.TrimSpace(form.NuevaCedula)
		request.NombreDirigente = strings.TrimSpace(form.NuevoNombre)
		return request
	}

	request.CedulaDirigente = strings.TrimSpace(form.SelectedDirigente)
	for _, d := range dirigentes {
		if d.Cedula == request.CedulaDirigente {
			request.NombreDirigente = d.Nombre
			break
		}
	}
	return request
}

// ClassifyResult decides the outcome of a create call once. Nothing inserted
// is a failure no matter what the duplicate list says.
func ClassifyResult(result models.SubmissionResult) models.SubmissionOutcome {
	if result.TotalInsertados == nil || *result.TotalInsertados <= 0 {
		reason := models.FailureGeneric
		if len(result.CedulasRepetidas) > 0 {
			reason = models.FailureAllDuplicates
		}
		return models.SubmissionFailure{Reason: reason, Duplicates: result.CedulasRepetidas}
	}

	if len(result.CedulasRepetidas) > 0 {
		return models.SubmissionPartial{
			PlanillaID: result.PlanillaID,
			Inserted:   *result.TotalInsertados,
			Duplicates: result.CedulasRepetidas,
		}
	}

	return models.SubmissionSuccess{PlanillaID: result.PlanillaID, Inserted: *result.TotalInsertados}
}

// Notice is the user-facing text for an outcome
type Notice struct {
	Type        models.AlertType
	Title       string
	Description string
}

// OutcomeNotice renders the alert shown after a create call
func OutcomeNotice(outcome models.SubmissionOutcome) Notice {
	switch o := outcome.(type) {
	case models.SubmissionSuccess:
		return Notice{models.AlertSuccess, "Planilla creada correctamente", "La planilla fue registrada sin inconvenientes."}
	case models.SubmissionPartial:
		return Notice{models.AlertWarning, "Planilla creada parcialmente", "Se creó correctamente, pero las siguientes cédulas ya estaban registradas: " + joinNumbers(o.Duplicates)}
	case models.SubmissionFailure:
		if o.Reason == models.FailureAllDuplicates {
			return Notice{models.AlertError, "No se pudo crear la planilla", "Todas las cédulas ya estaban registradas: " + joinNumbers(o.Duplicates)}
		}
		return Notice{models.AlertError, "Error al crear la planilla", "No se logró crear la planilla."}
	default:
		return UnexpectedNotice()
	}
}

// UnexpectedNotice is shown when the create call itself failed
func UnexpectedNotice() Notice {
	return Notice{models.AlertError, "Error inesperado", "Ocurrió un error inesperado."}
}

func joinNumbers(numbers []int64) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = strconv.FormatInt(n, 10)
	}
	return strings.Join(parts, ", ")
}

// SubmissionWorkflow runs validate, build, call, classify for one form
type SubmissionWorkflow struct {
	planillas *PlanillaService
	metrics   *shared.ServiceMetrics
	logger    *logrus.Entry
}

func NewSubmissionWorkflow(planillas *PlanillaService) *SubmissionWorkflow {
	return &SubmissionWorkflow{
		planillas: planillas,
		metrics:   shared.NewServiceMetrics("SubmissionWorkflow"),
		logger:    logrus.WithField("component", "SubmissionWorkflow"),
	}
}

// Metrics exposes submission counters by outcome
func (w *SubmissionWorkflow) Metrics() *shared.ServiceMetrics {
	return w.metrics
}

// DirigenteLookup fetches the canvasser list used to name a selected dirigente
type DirigenteLookup func(ctx context.Context, session *models.Session) ([]models.Dirigente, error)

// Submit validates the form and, when valid, sends it. Validation errors
// are returned before any network call. The lookup runs only for a valid
// form that selects an existing dirigente. A failed call other than a
// rejected session yields the unexpected notice together with the error.
func (w *SubmissionWorkflow) Submit(ctx context.Context, session *models.Session, form SubmissionForm, lookup DirigenteLookup) (Notice, error) {
	if err := form.Validate(); err != nil {
		return Notice{}, err
	}

	var dirigentes []models.Dirigente
	if !form.UsesNewDirigente() && lookup != nil {
		found, err := lookup(ctx, session)
		if err != nil {
			return Notice{}, err
		}
		dirigentes = found
	}

	request := BuildRequest(form, dirigentes, session.User)
	startTime := time.Now()

	response, err := w.planillas.AddPlanilla(ctx, session, request)
	if err != nil {
		w.metrics.RecordRequest(false, time.Since(startTime))
		if errors.Is(err, ErrUnauthorized) {
			return Notice{}, err
		}
		w.metrics.IncrementCustomCounter("unexpected")
		w.logger.WithError(err).WithField("user_id", session.User.ID).Error("Planilla submission failed")
		return UnexpectedNotice(), err
	}

	outcome := ClassifyResult(response.Data)
	_, failed := outcome.(models.SubmissionFailure)
	w.metrics.RecordRequest(!failed, time.Since(startTime))

	switch outcome.(type) {
	case models.SubmissionSuccess:
		w.metrics.IncrementCustomCounter("success")
	case models.SubmissionPartial:
		w.metrics.IncrementCustomCounter("partial")
	case models.SubmissionFailure:
		w.metrics.IncrementCustomCounter("failure")
	}

	w.logger.WithFields(logrus.Fields{
		"user_id":    session.User.ID,
		"outcome":    fmt.Sprintf("%T", outcome),
		"duplicates": len(response.Data.CedulasRepetidas),
	}).Info("Planilla submission classified")

	return OutcomeNotice(outcome), nil
}

// IsValidationError reports whether err is a local form error
func IsValidationError(err error) (*shared.ServiceError, bool) {
	var serviceErr *shared.ServiceError
	if errors.As(err, &serviceErr) && serviceErr.Category == shared.ErrorCategoryValidation {
		return serviceErr, true
	}
	return nil, false
}
