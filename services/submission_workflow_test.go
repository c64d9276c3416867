package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fenilmodi00/planillas-dashboard/models"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(n int64) *int64 { return &n }

func TestParseIdentityNumbers(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"1,2,,3\n4", []string{"1", "2", "3", "4"}},
		{" 5 ; 6;;\n\n7 ", []string{"5", "6", "7"}},
		{"1234567", []string{"1234567"}},
		{"abc, 12", []string{"abc", "12"}},
		{"", []string{}},
		{" ,;\n ", []string{}},
	}

	for _, tt := range tests {
		t.Run(strconv.Quote(tt.input), func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseIdentityNumbers(tt.input))
		})
	}
}

func TestParseIdentityNumbersProperties(t *testing.T) {
	separators := []string{",", ";", "\n", ",\n", " ; ", "\n\n,"}
	properties := gopter.NewProperties(nil)

	properties.Property("numbers joined by any separators parse back in order", prop.ForAll(
		func(numbers []int64, sepIndex int) bool {
			parts := make([]string, len(numbers))
			for i, n := range numbers {
				parts[i] = strconv.FormatInt(n, 10)
			}
			text := strings.Join(parts, separators[sepIndex%len(separators)])

			parsed := ParseIdentityNumbers(text)
			if len(parsed) != len(parts) {
				return false
			}
			for i := range parts {
				if parsed[i] != parts[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Int64Range(1, 99999999)), gen.IntRange(0, 100),
	))

	properties.Property("fragments are never empty and never contain separators", prop.ForAll(
		func(text string) bool {
			for _, fragment := range ParseIdentityNumbers(text) {
				if fragment == "" || strings.ContainsAny(fragment, ",;\n") || fragment != strings.TrimSpace(fragment) {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

func TestConvertIdentityNumbersKeepsPositions(t *testing.T) {
	numbers := ConvertIdentityNumbers([]string{"1", "x", "3"})
	assert.Equal(t, []models.IdentityNumber{
		{Value: 1, Valid: true},
		{},
		{Value: 3, Valid: true},
	}, numbers)
}

func TestDecodeUploadedTextMatchesTypedText(t *testing.T) {
	typed := "1,2\n3;4"
	withBOM := append([]byte{0xEF, 0xBB, 0xBF}, []byte(typed)...)

	text, err := DecodeUploadedText(bytes.NewReader(withBOM))
	require.NoError(t, err)
	assert.Equal(t, typed, text)
	assert.Equal(t, ParseIdentityNumbers(typed), ParseIdentityNumbers(text))

	plain, err := DecodeUploadedText(strings.NewReader(typed))
	require.NoError(t, err)
	assert.Equal(t, typed, plain)
}

func TestDecodeUploadedTextRejectsLargeFiles(t *testing.T) {
	_, err := DecodeUploadedText(io.LimitReader(neverEnding('1'), MaxUploadBytes+10))
	assert.True(t, errors.Is(err, ErrUploadTooLarge))
}

type neverEnding byte

func (b neverEnding) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(b)
	}
	return len(p), nil
}

func TestSubmissionFormValidate(t *testing.T) {
	tests := []struct {
		name     string
		form     SubmissionForm
		expected error
	}{
		{"nothing", SubmissionForm{}, ErrNoCanvasserSelected},
		{"voters without dirigente", SubmissionForm{VotantesText: "1,2"}, ErrNoCanvasserSelected},
		{"new dirigente without cedula", SubmissionForm{NuevoNombre: "Juan", VotantesText: "1"}, ErrNoCanvasserSelected},
		{"both existing and new", SubmissionForm{SelectedDirigente: "9", NuevoNombre: "Juan", NuevaCedula: "8", VotantesText: "1"}, ErrNoCanvasserSelected},
		{"existing without voters", SubmissionForm{SelectedDirigente: "9", VotantesText: " ,; "}, ErrNoVotersProvided},
		{"new without voters", SubmissionForm{NuevoNombre: "Juan", NuevaCedula: "8"}, ErrNoVotersProvided},
		{"existing with voters", SubmissionForm{SelectedDirigente: "9", VotantesText: "1"}, nil},
		{"new with voters", SubmissionForm{NuevoNombre: "Juan", NuevaCedula: "8", VotantesText: "1"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			if tt.expected == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.expected), "got %v", err)
		})
	}
}

func TestBuildRequest(t *testing.T) {
	agent := models.User{ID: "555"}
	dirigentes := []models.Dirigente{{Cedula: "9", Nombre: "Carlos Rojas"}}

	existing := BuildRequest(SubmissionForm{SelectedDirigente: "9", VotantesText: "1,x"}, dirigentes, agent)
	assert.Equal(t, "9", existing.CedulaDirigente)
	assert.Equal(t, "Carlos Rojas", existing.NombreDirigente)
	assert.Equal(t, "555", existing.CedulaPlanillero)
	assert.Equal(t, []models.IdentityNumber{{Value: 1, Valid: true}, {}}, existing.CedulasVotantes)

	unknown := BuildRequest(SubmissionForm{SelectedDirigente: "10", VotantesText: "1"}, dirigentes, agent)
	assert.Empty(t, unknown.NombreDirigente)

	declared := BuildRequest(SubmissionForm{NuevoNombre: " Ana ", NuevaCedula: " 77 ", VotantesText: "1"}, dirigentes, agent)
	assert.Equal(t, "77", declared.CedulaDirigente)
	assert.Equal(t, "Ana", declared.NombreDirigente)
}

func TestClassifyResult(t *testing.T) {
	tests := []struct {
		name     string
		result   models.SubmissionResult
		expected models.SubmissionOutcome
	}{
		{
			"all inserted",
			models.SubmissionResult{PlanillaID: int64Ptr(1), TotalInsertados: int64Ptr(3)},
			models.SubmissionSuccess{PlanillaID: int64Ptr(1), Inserted: 3},
		},
		{
			"some duplicates",
			models.SubmissionResult{PlanillaID: int64Ptr(1), TotalInsertados: int64Ptr(3), CedulasRepetidas: []int64{5}},
			models.SubmissionPartial{PlanillaID: int64Ptr(1), Inserted: 3, Duplicates: []int64{5}},
		},
		{
			"only duplicates",
			models.SubmissionResult{TotalInsertados: int64Ptr(0), CedulasRepetidas: []int64{5, 6}},
			models.SubmissionFailure{Reason: models.FailureAllDuplicates, Duplicates: []int64{5, 6}},
		},
		{
			"nothing inserted",
			models.SubmissionResult{TotalInsertados: int64Ptr(0)},
			models.SubmissionFailure{Reason: models.FailureGeneric},
		},
		{
			"missing count",
			models.SubmissionResult{PlanillaID: int64Ptr(1)},
			models.SubmissionFailure{Reason: models.FailureGeneric},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyResult(tt.result))
		})
	}
}

func TestOutcomeNotice(t *testing.T) {
	partial := OutcomeNotice(models.SubmissionPartial{Inserted: 3, Duplicates: []int64{5, 8}})
	assert.Equal(t, models.AlertWarning, partial.Type)
	assert.Equal(t, "Planilla creada parcialmente", partial.Title)
	assert.Contains(t, partial.Description, "5, 8")

	failure := OutcomeNotice(models.SubmissionFailure{Reason: models.FailureAllDuplicates, Duplicates: []int64{5}})
	assert.Equal(t, models.AlertError, failure.Type)
	assert.Equal(t, "No se pudo crear la planilla", failure.Title)

	assert.Equal(t, models.AlertSuccess, OutcomeNotice(models.SubmissionSuccess{Inserted: 1}).Type)
	assert.Equal(t, "Error al crear la planilla", OutcomeNotice(models.SubmissionFailure{Reason: models.FailureGeneric}).Title)
}

func TestSubmitValidationMakesNoCall(t *testing.T) {
	var calls atomic.Int32
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusOK, `{}`)
	})
	workflow := NewSubmissionWorkflow(NewPlanillaService(backend.api))
	session := backend.login(t, models.User{ID: "1"})

	var lookups atomic.Int32
	lookup := func(context.Context, *models.Session) ([]models.Dirigente, error) {
		lookups.Add(1)
		return nil, nil
	}

	_, err := workflow.Submit(context.Background(), session, SubmissionForm{VotantesText: "1,2"}, lookup)
	assert.True(t, errors.Is(err, ErrNoCanvasserSelected))

	_, ok := IsValidationError(err)
	assert.True(t, ok)
	assert.Zero(t, calls.Load())
	assert.Zero(t, lookups.Load())
}

func TestSubmitLooksUpOnlySelectedDirigente(t *testing.T) {
	var received models.AddPlanillaRequest
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, jsonDecode(r.Body, &received))
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"planillaId":1,"totalInsertados":1}}`)
	})
	workflow := NewSubmissionWorkflow(NewPlanillaService(backend.api))
	session := backend.login(t, models.User{ID: "1"})

	var lookups atomic.Int32
	lookup := func(context.Context, *models.Session) ([]models.Dirigente, error) {
		lookups.Add(1)
		return []models.Dirigente{{Cedula: "9", Nombre: "Carlos"}}, nil
	}

	form := SubmissionForm{NuevoNombre: "Ana", NuevaCedula: "77", VotantesText: "1"}
	_, err := workflow.Submit(context.Background(), session, form, lookup)
	require.NoError(t, err)
	assert.Zero(t, lookups.Load())
	assert.Equal(t, "Ana", received.NombreDirigente)

	form = SubmissionForm{SelectedDirigente: "9", VotantesText: "1"}
	_, err = workflow.Submit(context.Background(), session, form, lookup)
	require.NoError(t, err)
	assert.Equal(t, int32(1), lookups.Load())
	assert.Equal(t, "Carlos", received.NombreDirigente)
}

func TestSubmitLookupFailureSkipsCreate(t *testing.T) {
	var calls atomic.Int32
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusOK, `{}`)
	})
	workflow := NewSubmissionWorkflow(NewPlanillaService(backend.api))
	session := backend.login(t, models.User{ID: "1"})

	lookup := func(context.Context, *models.Session) ([]models.Dirigente, error) {
		return nil, ErrUnauthorized
	}

	_, err := workflow.Submit(context.Background(), session, SubmissionForm{SelectedDirigente: "9", VotantesText: "1"}, lookup)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Zero(t, calls.Load())
}

func TestSubmitOutcomes(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		expectedTitle string
		expectErr     bool
	}{
		{"success", http.StatusOK, `{"success":true,"data":{"planillaId":9,"cedulasRepetidas":[],"totalInsertados":3}}`, "Planilla creada correctamente", false},
		{"partial", http.StatusOK, `{"success":true,"data":{"planillaId":9,"cedulasRepetidas":[5],"totalInsertados":2}}`, "Planilla creada parcialmente", false},
		{"duplicates reported as error", http.StatusBadRequest, `{"message":"Hay cedulas repetidas","data":{"planillaId":null,"cedulasRepetidas":[5,6],"totalInsertados":0}}`, "No se pudo crear la planilla", false},
		{"server failure", http.StatusInternalServerError, `{"message":"boom"}`, "Error inesperado", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var received models.AddPlanillaRequest
			backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/planilla/create", r.URL.Path)
				assert.NoError(t, jsonDecode(r.Body, &received))
				writeJSON(w, tt.status, tt.body)
			})
			workflow := NewSubmissionWorkflow(NewPlanillaService(backend.api))
			session := backend.login(t, models.User{ID: "321"})

			form := SubmissionForm{SelectedDirigente: "9", VotantesText: "1\n2"}
			lookup := func(context.Context, *models.Session) ([]models.Dirigente, error) {
				return []models.Dirigente{{Cedula: "9", Nombre: "Carlos"}}, nil
			}
			notice, err := workflow.Submit(context.Background(), session, form, lookup)

			assert.Equal(t, tt.expectErr, err != nil)
			assert.Equal(t, tt.expectedTitle, notice.Title)
			assert.Equal(t, "Carlos", received.NombreDirigente)
			assert.Equal(t, "321", received.CedulaPlanillero)
			assert.Len(t, received.CedulasVotantes, 2)
		})
	}
}

func TestSubmitUnauthorized(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"message":"token expirado"}`)
	})
	workflow := NewSubmissionWorkflow(NewPlanillaService(backend.api))
	session := backend.login(t, models.User{ID: "1"})

	_, err := workflow.Submit(context.Background(), session, SubmissionForm{SelectedDirigente: "9", VotantesText: "1"}, nil)
	assert.True(t, errors.Is(err, ErrUnauthorized))

	_, lookupErr := backend.sessions.Lookup(context.Background(), session.ID)
	assert.True(t, errors.Is(lookupErr, ErrSessionNotFound))
}

func TestSubmitRecordsOutcomeCounters(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"planillaId":1,"totalInsertados":1}}`)
	})
	workflow := NewSubmissionWorkflow(NewPlanillaService(backend.api))
	session := backend.login(t, models.User{ID: "1"})

	_, err := workflow.Submit(context.Background(), session, SubmissionForm{SelectedDirigente: "9", VotantesText: "1"}, nil)
	require.NoError(t, err)

	snapshot := workflow.Metrics().GetSnapshot()
	assert.Equal(t, int64(1), snapshot.SuccessfulRequests)
	assert.Equal(t, int64(1), snapshot.CustomMetrics["success"])
}
