package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/fenilmodi00/planillas-dashboard/models"
	"github.com/sirupsen/logrus"
)

//go:embed templates/printable.html
var printableFS embed.FS

var printableTemplate = template.Must(template.ParseFS(printableFS, "templates/printable.html"))

// ExportFormat is one of the downloadable renditions of a table
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatHTML ExportFormat = "html"
	FormatPDF  ExportFormat = "pdf"
)

// ParseExportFormat accepts the extension used in export routes
func ParseExportFormat(ext string) (ExportFormat, bool) {
	switch format := ExportFormat(strings.ToLower(ext)); format {
	case FormatCSV, FormatHTML, FormatPDF:
		return format, true
	default:
		return "", false
	}
}

// Column describes one exported column over rows of type T
type Column[T any] struct {
	Header  string
	Label   string
	Value   func(T) string
	Quoted  bool
	Numeric bool
}

// TableSpec is a column schema plus the document framing around it.
// Meta is written both as the CSV preamble and in the printable page;
// Summary only appears in the printable page.
type TableSpec[T any] struct {
	Name      string
	Title     string
	Heading   string
	Section   string
	Footer    string
	Meta      []MetaField
	Summary   []MetaField
	Columns   []Column[T]
	Compact   bool
	Landscape bool
}

type MetaField struct {
	Key   string
	Value string
}

type HeaderCell struct {
	CSV     string
	Label   string
	Numeric bool
}

type Cell struct {
	Text    string
	Quoted  bool
	Numeric bool
}

// Document is a table snapshot ready to be rendered in any format
type Document struct {
	Name      string
	Title     string
	Heading   string
	Section   string
	Footer    string
	Meta      []MetaField
	Summary   []MetaField
	Headers   []HeaderCell
	Rows      [][]Cell
	Compact   bool
	Landscape bool
}

// BuildDocument applies a column schema to a row source
func BuildDocument[T any](spec TableSpec[T], rows []T) Document {
	doc := Document{
		Name:      spec.Name,
		Title:     spec.Title,
		Heading:   spec.Heading,
		Section:   spec.Section,
		Footer:    spec.Footer,
		Meta:      spec.Meta,
		Summary:   spec.Summary,
		Compact:   spec.Compact,
		Landscape: spec.Landscape,
		Headers:   make([]HeaderCell, len(spec.Columns)),
		Rows:      make([][]Cell, 0, len(rows)),
	}

	for i, column := range spec.Columns {
		label := column.Label
		if label == "" {
			label = column.Header
		}
		doc.Headers[i] = HeaderCell{CSV: column.Header, Label: label, Numeric: column.Numeric}
	}

	for _, row := range rows {
		cells := make([]Cell, len(spec.Columns))
		for i, column := range spec.Columns {
			cells[i] = Cell{Text: column.Value(row), Quoted: column.Quoted, Numeric: column.Numeric}
		}
		doc.Rows = append(doc.Rows, cells)
	}
	return doc
}

// CSV joins cells with commas and lines with \n. Values are written as-is;
// only quoted columns get wrapped in double quotes.
func (d Document) CSV() []byte {
	lines := make([]string, 0, len(d.Meta)+len(d.Rows)+2)
	if len(d.Meta) > 0 {
		for _, field := range d.Meta {
			lines = append(lines, field.Key+","+field.Value)
		}
		lines = append(lines, "")
	}

	headers := make([]string, len(d.Headers))
	for i, header := range d.Headers {
		headers[i] = header.CSV
	}
	lines = append(lines, strings.Join(headers, ","))

	for _, row := range d.Rows {
		values := make([]string, len(row))
		for i, cell := range row {
			if cell.Quoted {
				values[i] = `"` + cell.Text + `"`
			} else {
				values[i] = cell.Text
			}
		}
		lines = append(lines, strings.Join(values, ","))
	}

	return []byte(strings.Join(lines, "\n"))
}

type printableView struct {
	Document
	Generated string
	AutoPrint bool
}

// PrintableHTML renders the document as a standalone page. With autoPrint the
// page opens the browser's print dialog once loaded.
func (d Document) PrintableHTML(generated time.Time, autoPrint bool) ([]byte, error) {
	var buf bytes.Buffer
	view := printableView{
		Document:  d,
		Generated: generated.Format("2/1/2006"),
		AutoPrint: autoPrint,
	}
	if err := printableTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("failed to render printable document: %w", err)
	}
	return buf.Bytes(), nil
}

// Artifact is a rendered export ready to be sent as a download
type Artifact struct {
	Filename    string
	ContentType string
	Body        []byte
	Inline      bool
}

// ExportService renders documents into downloadable artifacts
type ExportService struct {
	pdf    PDFRenderer
	now    func() time.Time
	logger *logrus.Entry
}

// NewExportService creates the service. A nil renderer makes PDF requests
// fall back to the printable page.
func NewExportService(pdf PDFRenderer) *ExportService {
	return &ExportService{
		pdf:    pdf,
		now:    time.Now,
		logger: logrus.WithField("component", "ExportService"),
	}
}

// Render produces the artifact for a document in the requested format
func (s *ExportService) Render(ctx context.Context, doc Document, format ExportFormat) (Artifact, error) {
	switch format {
	case FormatCSV:
		return Artifact{
			Filename:    doc.Name + ".csv",
			ContentType: "text/csv; charset=utf-8",
			Body:        doc.CSV(),
		}, nil

	case FormatPDF:
		if s.pdf != nil {
			page, err := doc.PrintableHTML(s.now(), false)
			if err != nil {
				return Artifact{}, err
			}
			pdf, err := s.pdf.RenderPDF(ctx, page, doc.Landscape)
			if err != nil {
				s.logger.WithError(err).WithField("document", doc.Name).Error("PDF rendering failed")
				return Artifact{}, fmt.Errorf("failed to render pdf: %w", err)
			}
			return Artifact{
				Filename:    doc.Name + ".pdf",
				ContentType: "application/pdf",
				Body:        pdf,
			}, nil
		}
		fallthrough

	case FormatHTML:
		page, err := doc.PrintableHTML(s.now(), true)
		if err != nil {
			return Artifact{}, err
		}
		return Artifact{
			Filename:    doc.Name + ".html",
			ContentType: "text/html; charset=utf-8",
			Body:        page,
			Inline:      true,
		}, nil
	}

	return Artifact{}, fmt.Errorf("unsupported export format %q", format)
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

// PlanillaTableSpec is the schema of the planillas table export
func PlanillaTableSpec() TableSpec[models.Planilla] {
	return TableSpec[models.Planilla]{
		Name:    "planillas",
		Title:   "planillas",
		Heading: "Reporte de Planillas",
		Columns: []Column[models.Planilla]{
			{Header: "Planilla ID", Label: "ID", Value: func(p models.Planilla) string { return itoa(p.ID) }},
			{Header: "Cedula Dirigente", Value: func(p models.Planilla) string { return p.CedulaDirigente }},
			{Header: "Nombre Dirigente", Value: func(p models.Planilla) string { return p.NombreDirigente }},
			{Header: "Cedula Planillero", Value: func(p models.Planilla) string { return p.CedulaPlanillero }},
			{Header: "Total Enviados", Label: "Enviados", Numeric: true, Value: func(p models.Planilla) string { return itoa(p.TotalEnviados) }},
			{Header: "Total Validos", Label: "Validos", Numeric: true, Value: func(p models.Planilla) string { return itoa(p.TotalValidos) }},
			{Header: "Total No Existentes", Label: "No Existentes", Numeric: true, Value: func(p models.Planilla) string { return itoa(p.TotalNoExistentes) }},
			{Header: "Fecha Creacion", Label: "Fecha", Value: func(p models.Planilla) string { return p.FechaCreacion }},
		},
	}
}

// PlanillaDetalleSpec is the schema of one planilla's voter list
func PlanillaDetalleSpec(detalle models.PlanillaDetalle) TableSpec[models.Votante] {
	id := itoa(detalle.Planilla.ID)
	return TableSpec[models.Votante]{
		Name:    "planilla_" + id + "_detalle",
		Title:   "Planilla " + id,
		Heading: "Detalle de Planilla " + id,
		Section: "Listado de Votantes",
		Footer:  fmt.Sprintf("Planillero: %s - Cedula: %s", detalle.Planillero.NombreCompleto, detalle.Planillero.Cedula),
		Meta: []MetaField{
			{Key: "Planilla", Value: id},
			{Key: "Dirigente", Value: detalle.Dirigente.NombreCompleto},
			{Key: "Cedula Dirigente", Value: detalle.Dirigente.Cedula},
			{Key: "Planillero", Value: detalle.Planillero.NombreCompleto},
			{Key: "Cedula Planillero", Value: detalle.Planillero.Cedula},
			{Key: "Fecha", Value: detalle.Planilla.FechaCreacion},
		},
		Summary: []MetaField{
			{Key: "Enviados", Value: itoa(detalle.Planilla.TotalEnviados)},
			{Key: "Validos", Value: itoa(detalle.Planilla.TotalValidos)},
			{Key: "No Existentes", Value: itoa(detalle.Planilla.TotalNoExistentes)},
		},
		Compact:   true,
		Landscape: true,
		Columns: []Column[models.Votante]{
			{Header: "Cedula", Value: func(v models.Votante) string { return itoa(v.Cedula) }},
			{Header: "Nombre", Value: func(v models.Votante) string { return v.Nombre }},
			{Header: "Apellido", Value: func(v models.Votante) string { return v.Apellido }},
			{Header: "Fecha Nacimiento", Label: "F. Nacimiento", Value: func(v models.Votante) string { return v.FechaNacimiento }},
			{Header: "Fecha Inscripcion", Label: "F. Inscripcion", Value: func(v models.Votante) string { return v.FechaInscripcion }},
			{Header: "Tipo", Value: func(v models.Votante) string { return v.Tipo }},
			{Header: "Direccion", Quoted: true, Value: func(v models.Votante) string { return v.Direccion }},
			{Header: "Voto PLRA", Value: func(v models.Votante) string { return v.VotoPlra }},
			{Header: "Voto ANR", Value: func(v models.Votante) string { return v.VotoAnr }},
			{Header: "Voto Generales", Label: "V. Generales", Value: func(v models.Votante) string { return v.VotoGenerales }},
			{Header: "Afiliaciones", Value: func(v models.Votante) string { return v.Afiliaciones }},
			{Header: "Afiliado PLRA 2025", Label: "Afil. PLRA 2025", Value: func(v models.Votante) string { return v.AfiliadoPlra2025 }},
			{Header: "Departamento", Value: func(v models.Votante) string { return v.Departamento }},
			{Header: "Distrito", Value: func(v models.Votante) string { return v.Distrito }},
			{Header: "Zona", Value: func(v models.Votante) string { return v.Zona }},
			{Header: "Comite", Value: func(v models.Votante) string { return v.Comite }},
			{Header: "Local Generales", Label: "L. Generales", Value: func(v models.Votante) string { return v.LocalGenerales }},
			{Header: "Local Interna", Label: "L. Interna", Value: func(v models.Votante) string { return v.LocalInterna }},
		},
	}
}

// ProblemRow is one flagged planilla together with its dirigente
type ProblemRow struct {
	Group models.ProblemGroup
	Card  models.ProblemCard
}

// FlattenProblemGroups lists every flagged planilla in report order
func FlattenProblemGroups(groups []models.ProblemGroup) []ProblemRow {
	var rows []ProblemRow
	for _, group := range groups {
		for _, card := range group.Planillas {
			rows = append(rows, ProblemRow{Group: group, Card: card})
		}
	}
	return rows
}

// ProblemReportSpec is the schema of the problem report export
func ProblemReportSpec() TableSpec[ProblemRow] {
	return TableSpec[ProblemRow]{
		Name:    "planillas-problemas",
		Title:   "planillas-problemas",
		Heading: "Planillas con Problemas",
		Columns: []Column[ProblemRow]{
			{Header: "Cedula Dirigente", Value: func(r ProblemRow) string { return r.Group.CedulaDirigente }},
			{Header: "Nombre Dirigente", Value: func(r ProblemRow) string { return r.Group.NombreDirigente }},
			{Header: "Planilla ID", Label: "ID", Value: func(r ProblemRow) string { return itoa(r.Card.PlanillaID) }},
			{Header: "Fecha Creacion", Label: "Fecha", Value: func(r ProblemRow) string { return r.Card.FechaCreacion }},
			{Header: "Total Enviados", Label: "Enviados", Numeric: true, Value: func(r ProblemRow) string { return itoa(r.Card.TotalEnviados) }},
			{Header: "Total No Encontrados", Label: "No Encontrados", Numeric: true, Value: func(r ProblemRow) string { return itoa(r.Card.TotalNoEncontrados) }},
		},
	}
}
