package models

// Estadisticas holds the aggregate counters shown on the stats view
type Estadisticas struct {
	TotalPlanillas     int64 `json:"totalPlanillas"`
	TotalEnviados      int64 `json:"totalEnviados"`
	TotalValidos       int64 `json:"totalValidos"`
	TotalNoEncontrados int64 `json:"totalNoEncontrados"`
}

type EstadisticasResponse struct {
	TotalPlanillas     FlexInt `json:"totalPlanillas"`
	TotalEnviados      FlexInt `json:"totalEnviados"`
	TotalValidos       FlexInt `json:"totalValidos"`
	TotalNoEncontrados FlexInt `json:"totalNoEncontrados"`
}

// APIEnvelope is the common {data, message} wrapper used by several endpoints
type APIEnvelope[T any] struct {
	Success bool   `json:"success"`
	Status  string `json:"status,omitempty"`
	Data    T      `json:"data"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
