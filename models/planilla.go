package models

// Votante is a voter row as shown in the planilla detail
type Votante struct {
	Cedula           int64  `json:"cedula"`
	Nombre           string `json:"nombre"`
	Apellido         string `json:"apellido"`
	Sexo             string `json:"sexo"`
	FechaNacimiento  string `json:"fechaNacimiento"`
	FechaInscripcion string `json:"fechaInscripcion"`
	Tipo             string `json:"tipo"`
	Direccion        string `json:"direccion"`
	VotoPlra         string `json:"votoPlra"`
	VotoAnr          string `json:"votoAnr"`
	VotoGenerales    string `json:"votoGenerales"`
	Afiliaciones     string `json:"afiliaciones"`
	AfiliadoPlra2025 string `json:"afiliadoPlra2025"`
	Departamento     string `json:"departamento"`
	Distrito         string `json:"distrito"`
	Zona             string `json:"zona"`
	Comite           string `json:"comite"`
	LocalGenerales   string `json:"localGenerales"`
	LocalInterna     string `json:"localInterna"`
}

// VotanteResponse is the backend's snake_case voter record
type VotanteResponse struct {
	CedulaVotante      FlexInt `json:"cedula_votante"`
	Nombre             string  `json:"nombre"`
	Apellido           string  `json:"apellido"`
	Sexo               string  `json:"sexo"`
	FechaNacimiento    string  `json:"fecha_nacimiento"`
	FechaInscripcion   string  `json:"fecha_inscripcion"`
	Tipo               string  `json:"tipo"`
	Direccion          string  `json:"direccion"`
	VotoPlra           string  `json:"voto_plra"`
	VotoAnr            string  `json:"voto_anr"`
	VotoGenerales      string  `json:"voto_generales"`
	Afiliaciones       string  `json:"afiliaciones"`
	AfiliadoPlra2025   string  `json:"afiliado_plra_2025"`
	DepartamentoNombre string  `json:"departamento_nombre"`
	DistritoNombre     string  `json:"distrito_nombre"`
	ZonaNombre         string  `json:"zona_nombre"`
	ComiteNombre       string  `json:"comite_nombre"`
	LocalGenerales     string  `json:"local_generales"`
	LocalInterna       string  `json:"local_interna"`
}

// Planilla is one submitted batch of voter identity numbers
type Planilla struct {
	ID                int64     `json:"id"`
	CedulaDirigente   string    `json:"cedulaDirigente"`
	NombreDirigente   string    `json:"nombreDirigente"`
	FechaCreacion     string    `json:"fechaCreacion"`
	CedulaPlanillero  string    `json:"cedulaPlanillero"`
	NombrePlanillero  string    `json:"nombrePlanillero"`
	TotalEnviados     int64     `json:"totalEnviados"`
	TotalValidos      int64     `json:"totalValidos"`
	TotalNoExistentes int64     `json:"totalNoExistentes"`
	Votantes          []Votante `json:"votantes"`
}

// PlanillaResponse is the backend's planilla record
type PlanillaResponse struct {
	ID                FlexInt           `json:"id"`
	CedulaDirigente   FlexString        `json:"cedulaDirigente"`
	NombreDirigente   string            `json:"nombreDirigente"`
	FechaCreacion     string            `json:"fechaCreacion"`
	CedulaPlanillero  FlexString        `json:"cedulaPlanillero"`
	NombrePlanillero  string            `json:"nombrePlanillero"`
	TotalEnviados     FlexInt           `json:"totalEnviados"`
	TotalValidos      FlexInt           `json:"totalValidos"`
	TotalNoExistentes FlexInt           `json:"totalNoExistentes"`
	Votantes          []VotanteResponse `json:"votantes"`
}

// Person names one side of a planilla in the detail view
type Person struct {
	Cedula         string `json:"cedula"`
	NombreCompleto string `json:"nombre_completo"`
}

// PlanillaDetalle is the expanded view of one planilla
type PlanillaDetalle struct {
	Planilla   Planilla `json:"planilla"`
	Dirigente  Person   `json:"dirigente"`
	Planillero Person   `json:"planillero"`
}

// Dirigente is a canvasser a planilla can be attributed to
type Dirigente struct {
	Cedula string `json:"cedula"`
	Nombre string `json:"nombre"`
}

// DirigenteResponse is the backend's canvasser record
type DirigenteResponse struct {
	CedulaDirigente FlexString `json:"cedulaDirigente"`
	NombreDirigente string     `json:"nombreDirigente"`
}

// GetDirigentesResponse wraps the canvasser list
type GetDirigentesResponse struct {
	Status  string              `json:"status"`
	Data    []DirigenteResponse `json:"data"`
	Message string              `json:"message"`
}

// PaginatedResponse is one page of a listing
type PaginatedResponse[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// PlanillaPageResponse is the backend's raw planillas page
type PlanillaPageResponse struct {
	Content       []PlanillaResponse `json:"content"`
	Page          FlexInt            `json:"page"`
	Size          FlexInt            `json:"size"`
	TotalElements FlexInt            `json:"totalElements"`
	TotalPages    FlexInt            `json:"totalPages"`
}
