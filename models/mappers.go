package models

// MapVotante renames the backend's snake_case voter fields
func MapVotante(v VotanteResponse) Votante {
	return Votante{
		Cedula:           int64(v.CedulaVotante),
		Nombre:           v.Nombre,
		Apellido:         v.Apellido,
		Sexo:             v.Sexo,
		FechaNacimiento:  v.FechaNacimiento,
		FechaInscripcion: v.FechaInscripcion,
		Tipo:             v.Tipo,
		Direccion:        v.Direccion,
		VotoPlra:         v.VotoPlra,
		VotoAnr:          v.VotoAnr,
		VotoGenerales:    v.VotoGenerales,
		Afiliaciones:     v.Afiliaciones,
		AfiliadoPlra2025: v.AfiliadoPlra2025,
		Departamento:     v.DepartamentoNombre,
		Distrito:         v.DistritoNombre,
		Zona:             v.ZonaNombre,
		Comite:           v.ComiteNombre,
		LocalGenerales:   v.LocalGenerales,
		LocalInterna:     v.LocalInterna,
	}
}

func MapPlanilla(p PlanillaResponse) Planilla {
	votantes := make([]Votante, 0, len(p.Votantes))
	for _, v := range p.Votantes {
		votantes = append(votantes, MapVotante(v))
	}

	return Planilla{
		ID:                int64(p.ID),
		CedulaDirigente:   string(p.CedulaDirigente),
		NombreDirigente:   p.NombreDirigente,
		FechaCreacion:     p.FechaCreacion,
		CedulaPlanillero:  string(p.CedulaPlanillero),
		NombrePlanillero:  p.NombrePlanillero,
		TotalEnviados:     int64(p.TotalEnviados),
		TotalValidos:      int64(p.TotalValidos),
		TotalNoExistentes: int64(p.TotalNoExistentes),
		Votantes:          votantes,
	}
}

// MapPlanillaDetalle splits a planilla into its detail view parts
func MapPlanillaDetalle(p Planilla) PlanillaDetalle {
	return PlanillaDetalle{
		Planilla: p,
		Dirigente: Person{
			Cedula:         p.CedulaDirigente,
			NombreCompleto: p.NombreDirigente,
		},
		Planillero: Person{
			Cedula:         p.CedulaPlanillero,
			NombreCompleto: p.NombrePlanillero,
		},
	}
}

func MapPlanillaPage(p PlanillaPageResponse) PaginatedResponse[Planilla] {
	content := make([]Planilla, 0, len(p.Content))
	for _, item := range p.Content {
		content = append(content, MapPlanilla(item))
	}

	return PaginatedResponse[Planilla]{
		Content:       content,
		Page:          int(p.Page),
		Size:          int(p.Size),
		TotalElements: int64(p.TotalElements),
		TotalPages:    int(p.TotalPages),
	}
}

func MapDirigente(d DirigenteResponse) Dirigente {
	return Dirigente{
		Cedula: string(d.CedulaDirigente),
		Nombre: d.NombreDirigente,
	}
}

func MapUser(r LoginResult) User {
	return User{
		ID:      string(r.CedulaPlanillero),
		Nombre:  r.NombreCompleto,
		IsAdmin: r.IsAdmin,
	}
}

func MapEstadisticas(e EstadisticasResponse) Estadisticas {
	return Estadisticas{
		TotalPlanillas:     int64(e.TotalPlanillas),
		TotalEnviados:      int64(e.TotalEnviados),
		TotalValidos:       int64(e.TotalValidos),
		TotalNoEncontrados: int64(e.TotalNoEncontrados),
	}
}

func MapProblemGroup(g ProblemGroupResponse) ProblemGroup {
	planillas := make([]ProblemCard, 0, len(g.Planillas))
	for _, p := range g.Planillas {
		planillas = append(planillas, ProblemCard{
			PlanillaID:         int64(p.PlanillaID),
			FechaCreacion:      p.FechaCreacion,
			TotalEnviados:      int64(p.TotalEnviados),
			TotalNoEncontrados: int64(p.TotalNoEncontrados),
		})
	}

	return ProblemGroup{
		CedulaDirigente:    string(g.CedulaDirigente),
		NombreDirigente:    g.NombreDirigente,
		TotalPlanillas:     int64(g.TotalPlanillas),
		TotalEnviados:      int64(g.TotalEnviados),
		TotalNoEncontrados: int64(g.TotalNoEncontrados),
		VotantesValidos:    int64(g.VotantesValidos),
		Planillas:          planillas,
	}
}
