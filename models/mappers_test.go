package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexIntDecoding(t *testing.T) {
	tests := []struct {
		input    string
		expected FlexInt
	}{
		{`42`, 42},
		{`"42"`, 42},
		{`" 17 "`, 17},
		{`12.0`, 12},
		{`null`, 0},
		{`"abc"`, 0},
		{`""`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var value FlexInt
			require.NoError(t, json.Unmarshal([]byte(tt.input), &value))
			assert.Equal(t, tt.expected, value)
		})
	}
}

func TestFlexStringDecoding(t *testing.T) {
	var values []FlexString
	require.NoError(t, json.Unmarshal([]byte(`["1234567", 7654321, null]`), &values))
	assert.Equal(t, []FlexString{"1234567", "7654321", ""}, values)
}

func TestFormatDisplayDate(t *testing.T) {
	assert.Equal(t, "5/3/2024", FormatDisplayDate("2024-03-05T10:11:12Z"))
	assert.Equal(t, "5/3/2024", FormatDisplayDate("2024-03-05"))
	assert.Equal(t, "no es fecha", FormatDisplayDate("no es fecha"))
}

func TestMapPlanillaPage(t *testing.T) {
	payload := `{
		"content": [{
			"id": "7",
			"cedulaDirigente": 1234567,
			"nombreDirigente": "Juan Perez",
			"fechaCreacion": "2024-03-05T10:00:00Z",
			"cedulaPlanillero": "7654321",
			"nombrePlanillero": "Ana Gomez",
			"totalEnviados": "3",
			"totalValidos": 2,
			"totalNoExistentes": null,
			"votantes": [{
				"cedula_votante": "1111111",
				"nombre": "Maria",
				"apellido": "Lopez",
				"direccion": "Calle 1, Asuncion",
				"departamento_nombre": "Central",
				"distrito_nombre": "Luque",
				"zona_nombre": "Z1",
				"comite_nombre": "C1",
				"voto_plra": "SI"
			}]
		}],
		"page": 1,
		"size": "10",
		"totalElements": 1,
		"totalPages": 1
	}`

	var response PlanillaPageResponse
	require.NoError(t, json.Unmarshal([]byte(payload), &response))
	page := MapPlanillaPage(response)

	require.Len(t, page.Content, 1)
	planilla := page.Content[0]
	assert.Equal(t, int64(7), planilla.ID)
	assert.Equal(t, "1234567", planilla.CedulaDirigente)
	assert.Equal(t, int64(3), planilla.TotalEnviados)
	assert.Equal(t, int64(0), planilla.TotalNoExistentes)
	assert.Equal(t, 10, page.Size)
	assert.Equal(t, int64(1), page.TotalElements)

	require.Len(t, planilla.Votantes, 1)
	votante := planilla.Votantes[0]
	assert.Equal(t, int64(1111111), votante.Cedula)
	assert.Equal(t, "Central", votante.Departamento)
	assert.Equal(t, "Luque", votante.Distrito)
	assert.Equal(t, "Z1", votante.Zona)
	assert.Equal(t, "C1", votante.Comite)

	detalle := MapPlanillaDetalle(planilla)
	assert.Equal(t, Person{Cedula: "1234567", NombreCompleto: "Juan Perez"}, detalle.Dirigente)
	assert.Equal(t, Person{Cedula: "7654321", NombreCompleto: "Ana Gomez"}, detalle.Planillero)
}

func TestMapUser(t *testing.T) {
	var response LoginResponse
	require.NoError(t, json.Unmarshal([]byte(`{"data":{"result":{"cedulaPlanillero":1234,"nombreCompleto":"Ana","isAdmin":true},"token":"t"}}`), &response))

	user := MapUser(response.Data.Result)
	assert.Equal(t, User{ID: "1234", Nombre: "Ana", IsAdmin: true}, user)
	assert.Equal(t, "Administrador", user.RoleLabel())
	assert.Equal(t, "Planillero", User{}.RoleLabel())
}

func TestIdentityNumberJSON(t *testing.T) {
	request := AddPlanillaRequest{
		CedulaDirigente:  "1",
		CedulasVotantes:  []IdentityNumber{{Value: 10, Valid: true}, {}, {Value: 30, Valid: true}},
		CedulaPlanillero: "2",
	}

	body, err := json.Marshal(request)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"cedulasVotantes":[10,null,30]`)
}
