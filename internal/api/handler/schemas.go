package handler

import (
	"strings"

	"github.com/upslab/labportal/internal/core/domain"
)

type loginRequest struct {
	Correo     string `json:"correo"     validate:"required,email"`
	Contrasena string `json:"contrasena" validate:"required"`
}

func (r loginRequest) toDomain() domain.Credentials {
	return domain.Credentials{Correo: strings.TrimSpace(r.Correo), Contrasena: r.Contrasena}
}

type registerRequest struct {
	Nombre     string `json:"nombre"     validate:"required"`
	Apellido   string `json:"apellido"   validate:"required"`
	Correo     string `json:"correo"     validate:"required,institutional_email"`
	Contrasena string `json:"contrasena" validate:"required,password"`
	Cedula     string `json:"cedula"     validate:"required"`
	Carrera    string `json:"carrera"    validate:"required"`
}

func (r *registerRequest) normalize() {
	r.Nombre = strings.TrimSpace(r.Nombre)
	r.Apellido = strings.TrimSpace(r.Apellido)
	r.Correo = strings.ToLower(strings.TrimSpace(r.Correo))
	r.Cedula = strings.TrimSpace(r.Cedula)
	r.Carrera = domain.NormalizeChoice(r.Carrera)
}

func (r registerRequest) toDomain() domain.Registration {
	return domain.Registration{
		Nombre:     r.Nombre,
		Apellido:   r.Apellido,
		Correo:     r.Correo,
		Contrasena: r.Contrasena,
		Cedula:     r.Cedula,
		Carrera:    r.Carrera,
	}
}

type userUpdateRequest struct {
	Nombre     string `json:"nombre"`
	Apellido   string `json:"apellido"`
	Correo     string `json:"correo"     validate:"omitempty,institutional_email"`
	Contrasena string `json:"contrasena" validate:"omitempty,password"`
	Cedula     string `json:"cedula"`
	Carrera    string `json:"carrera"`
}

func (r *userUpdateRequest) normalize() {
	r.Nombre = strings.TrimSpace(r.Nombre)
	r.Apellido = strings.TrimSpace(r.Apellido)
	r.Correo = strings.ToLower(strings.TrimSpace(r.Correo))
	r.Cedula = strings.TrimSpace(r.Cedula)
	if r.Carrera != "" {
		r.Carrera = domain.NormalizeChoice(r.Carrera)
	}
}

func (r userUpdateRequest) toDomain() domain.UserUpdate {
	return domain.UserUpdate{
		Nombre:     r.Nombre,
		Apellido:   r.Apellido,
		Correo:     r.Correo,
		Contrasena: r.Contrasena,
		Cedula:     r.Cedula,
		Carrera:    r.Carrera,
	}
}

// reservationRequest is the reservation form as submitted by a user. Every
// field is required.
type reservationRequest struct {
	CorreoInstitucional    string              `json:"correo_institucional"    validate:"required,institutional_email"`
	NombresCompletos       string              `json:"nombres_completos"       validate:"required"`
	Cargo                  domain.Cargo        `json:"cargo"                   validate:"required,allowed"`
	Carrera                domain.Carrera      `json:"carrera"                 validate:"required,allowed"`
	Nivel                  domain.Nivel        `json:"nivel"                   validate:"required,allowed"`
	Discapacidad           domain.Discapacidad `json:"discapacidad"            validate:"required,allowed"`
	MateriaMotivo          string              `json:"materia_motivo"          validate:"required"`
	NumeroEstudiantes      int                 `json:"numero_estudiantes"      validate:"gte=1,lte=35"`
	FechaPrestamo          string              `json:"fecha_prestamo"          validate:"required,input_date"`
	HorarioUso             string              `json:"horario_uso"             validate:"required,horario"`
	DescripcionActividades string              `json:"descripcion_actividades" validate:"required"`
	Laboratorio            domain.Laboratorio  `json:"laboratorio"             validate:"required,allowed"`
	Equipo                 domain.Equipo       `json:"equipo"                  validate:"required,allowed"`
}

func (r *reservationRequest) normalize() {
	r.CorreoInstitucional = strings.ToLower(strings.TrimSpace(r.CorreoInstitucional))
	r.NombresCompletos = strings.TrimSpace(r.NombresCompletos)
	r.MateriaMotivo = strings.TrimSpace(r.MateriaMotivo)
	r.DescripcionActividades = strings.TrimSpace(r.DescripcionActividades)
	r.HorarioUso = strings.TrimSpace(r.HorarioUso)
	r.FechaPrestamo = strings.TrimSpace(r.FechaPrestamo)
	r.Cargo = domain.Cargo(domain.NormalizeChoice(string(r.Cargo)))
	r.Carrera = domain.Carrera(domain.NormalizeChoice(string(r.Carrera)))
	r.Nivel = domain.Nivel(domain.NormalizeChoice(string(r.Nivel)))
	r.Discapacidad = domain.Discapacidad(domain.NormalizeChoice(string(r.Discapacidad)))
	r.Laboratorio = domain.Laboratorio(domain.NormalizeChoice(string(r.Laboratorio)))
	r.Equipo = domain.Equipo(domain.NormalizeChoice(string(r.Equipo)))
}

func (r reservationRequest) toDomain() domain.ReservationForm {
	return domain.ReservationForm{
		ReservationFields: domain.ReservationFields{
			CorreoInstitucional:    r.CorreoInstitucional,
			NombresCompletos:       r.NombresCompletos,
			Cargo:                  r.Cargo,
			Carrera:                r.Carrera,
			Nivel:                  r.Nivel,
			Discapacidad:           r.Discapacidad,
			MateriaMotivo:          r.MateriaMotivo,
			NumeroEstudiantes:      r.NumeroEstudiantes,
			HorarioUso:             r.HorarioUso,
			DescripcionActividades: r.DescripcionActividades,
			Laboratorio:            r.Laboratorio,
			Equipo:                 r.Equipo,
		},
		FechaPrestamo: r.FechaPrestamo,
	}
}

// reservationEditRequest is the admin edit form. Blank choices take the edit
// defaults, so only the date and any provided values are checked.
type reservationEditRequest struct {
	CorreoInstitucional    string              `json:"correo_institucional"    validate:"omitempty,institutional_email"`
	NombresCompletos       string              `json:"nombres_completos"`
	Cargo                  domain.Cargo        `json:"cargo"                   validate:"omitempty,allowed"`
	Carrera                domain.Carrera      `json:"carrera"                 validate:"omitempty,allowed"`
	Nivel                  domain.Nivel        `json:"nivel"                   validate:"omitempty,allowed"`
	Discapacidad           domain.Discapacidad `json:"discapacidad"            validate:"omitempty,allowed"`
	MateriaMotivo          string              `json:"materia_motivo"`
	NumeroEstudiantes      int                 `json:"numero_estudiantes"      validate:"omitempty,gte=1,lte=35"`
	FechaPrestamo          string              `json:"fecha_prestamo"          validate:"required,input_date"`
	HorarioUso             string              `json:"horario_uso"             validate:"omitempty,horario"`
	DescripcionActividades string              `json:"descripcion_actividades"`
	Laboratorio            domain.Laboratorio  `json:"laboratorio"             validate:"omitempty,allowed"`
	Equipo                 domain.Equipo       `json:"equipo"                  validate:"omitempty,allowed"`
}

func (r *reservationEditRequest) normalize() {
	full := reservationRequest(*r)
	full.normalize()
	*r = reservationEditRequest(full)
}

func (r reservationEditRequest) toDomain() domain.ReservationForm {
	return reservationRequest(r).toDomain()
}

// choiceOptions lists the values every reservation select accepts.
type choiceOptions struct {
	Cargos         []domain.Cargo        `json:"cargos"`
	Carreras       []domain.Carrera      `json:"carreras"`
	Niveles        []domain.Nivel        `json:"niveles"`
	Discapacidades []domain.Discapacidad `json:"discapacidades"`
	Laboratorios   []domain.Laboratorio  `json:"laboratorios"`
	Equipos        []domain.Equipo       `json:"equipos"`
	MaxEstudiantes int                   `json:"max_estudiantes"`
}

func reservationOptions() choiceOptions {
	return choiceOptions{
		Cargos:         domain.Cargos,
		Carreras:       domain.Carreras,
		Niveles:        domain.Niveles,
		Discapacidades: domain.Discapacidades,
		Laboratorios:   domain.Laboratorios,
		Equipos:        domain.Equipos,
		MaxEstudiantes: domain.MaxStudents,
	}
}
