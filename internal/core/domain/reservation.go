package domain

import "slices"

// MaxStudents is the seating capacity of every laboratory.
const MaxStudents = 35

// InstitutionalDomains lists the email suffixes accepted by the API.
var InstitutionalDomains = []string{"@est.ups.edu.ec", "@ups.edu.ec"}

// Cargo is the requester's position.
type Cargo string

const (
	CargoEstudiante Cargo = "ESTUDIANTE"
	CargoDocente    Cargo = "DOCENTE"
	CargoEgresado   Cargo = "EGRESADO"
)

var Cargos = []Cargo{CargoEstudiante, CargoDocente, CargoEgresado}

func (c Cargo) Valid() bool { return slices.Contains(Cargos, c) }

// Carrera is the requester's degree program.
type Carrera string

const (
	CarreraComputacion        Carrera = "COMPUTACION"
	CarreraSistemas           Carrera = "SISTEMAS"
	CarreraElectricidad       Carrera = "ELECTRICIDAD / ELECTRICA"
	CarreraElectronica        Carrera = "ELECTRONICA"
	CarreraTelecomunicaciones Carrera = "TELECOMUNICACIONES"
	CarreraAmbiental          Carrera = "AMBIENTAL"
	CarreraCivil              Carrera = "CIVIL"
	CarreraMecanica           Carrera = "MECANICA"
	CarreraAutomotriz         Carrera = "AUTOMOTRIZ"
	CarreraMaestria           Carrera = "MAESTRIA"
	CarreraCecasis            Carrera = "CECASIS"
)

var Carreras = []Carrera{
	CarreraComputacion, CarreraSistemas, CarreraElectricidad, CarreraElectronica,
	CarreraTelecomunicaciones, CarreraAmbiental, CarreraCivil, CarreraMecanica,
	CarreraAutomotriz, CarreraMaestria, CarreraCecasis,
}

func (c Carrera) Valid() bool { return slices.Contains(Carreras, c) }

// Nivel is the academic level. Graduates and lecturers use their own values.
type Nivel string

const NivelDefault Nivel = "7MO"

var Niveles = []Nivel{
	"1RO", "2DO", "3RO", "4TO", "5TO", "6TO", "7MO", "8VO", "9NO", "10MO",
	"EGRESADO", "DOCENTE",
}

func (n Nivel) Valid() bool { return slices.Contains(Niveles, n) }

// Discapacidad flags whether the requester declared a disability.
type Discapacidad string

const (
	DiscapacidadSi Discapacidad = "SI"
	DiscapacidadNo Discapacidad = "NO"
)

var Discapacidades = []Discapacidad{DiscapacidadSi, DiscapacidadNo}

func (d Discapacidad) Valid() bool { return slices.Contains(Discapacidades, d) }

// Laboratorio names a bookable room.
type Laboratorio string

const (
	LabNetworking1         Laboratorio = "LABORATORIO NETWORKING 1"
	LabNetworking2         Laboratorio = "LABORATORIO NETWORKING 2"
	LabNetworking3         Laboratorio = "LABORATORIO NETWORKING 3"
	LabComputacionAvanzada Laboratorio = "LABORATORIO COMPUTACION AVANZADA"
	LabIHM                 Laboratorio = "LABORATORIO IHM"
)

var Laboratorios = []Laboratorio{LabNetworking1, LabNetworking2, LabNetworking3, LabComputacionAvanzada, LabIHM}

func (l Laboratorio) Valid() bool { return slices.Contains(Laboratorios, l) }

// Equipo is optional extra equipment.
type Equipo string

const EquipoNinguno Equipo = "NINGUNO"

var Equipos = []Equipo{
	"ROUTER 2800", "SWITCH 2960", "HUB 240", "ROUTER 1941", "SWITCH 3560",
	"KIT ARDUINO", "KIT RASPBERRY", EquipoNinguno,
}

func (e Equipo) Valid() bool { return slices.Contains(Equipos, e) }

// ReservationFields holds every field of a laboratory request except the
// date, whose representation depends on which side of the boundary it is.
type ReservationFields struct {
	CorreoInstitucional    string       `json:"correo_institucional"`
	NombresCompletos       string       `json:"nombres_completos"`
	Cargo                  Cargo        `json:"cargo"`
	Carrera                Carrera      `json:"carrera"`
	Nivel                  Nivel        `json:"nivel"`
	Discapacidad           Discapacidad `json:"discapacidad"`
	MateriaMotivo          string       `json:"materia_motivo"`
	NumeroEstudiantes      int          `json:"numero_estudiantes"`
	HorarioUso             string       `json:"horario_uso"`
	DescripcionActividades string       `json:"descripcion_actividades"`
	Laboratorio            Laboratorio  `json:"laboratorio"`
	Equipo                 Equipo       `json:"equipo"`
}

// ReservationForm is a request as entered by a user: the date is in input
// form (YYYY-MM-DD).
type ReservationForm struct {
	ReservationFields
	FechaPrestamo string `json:"fecha_prestamo"`
}

// ReservationRequest is the wire payload sent to the API: the date is in
// wire form (D/M/YYYY).
type ReservationRequest struct {
	ReservationFields
	FechaPrestamo string `json:"fecha_prestamo"`
}

// Reservation is a stored laboratory request as listed by the API.
type Reservation struct {
	ID        int64 `json:"id"`
	UsuarioID int64 `json:"usuario_id"`
	ReservationFields
	FechaPrestamo string `json:"fecha_prestamo"`
	CreatedAt     string `json:"created_at"`
}

// ReservationView is a reservation decorated for display.
type ReservationView struct {
	Reservation
	Weekday string `json:"dia"`
}

// ApplyEditDefaults fills blank fields with the values the edit form
// preselects, so a partially filled edit still produces a complete payload.
func (f *ReservationFields) ApplyEditDefaults() {
	if f.Cargo == "" {
		f.Cargo = CargoEstudiante
	}
	if f.Carrera == "" {
		f.Carrera = CarreraComputacion
	}
	if f.Nivel == "" {
		f.Nivel = NivelDefault
	}
	if f.Discapacidad == "" {
		f.Discapacidad = DiscapacidadNo
	}
	if f.Laboratorio == "" {
		f.Laboratorio = LabNetworking1
	}
	if f.Equipo == "" {
		f.Equipo = EquipoNinguno
	}
	if f.NumeroEstudiantes <= 0 {
		f.NumeroEstudiantes = 1
	}
}

// NewReservationForm returns a blank form with the default selections.
func NewReservationForm() ReservationForm {
	var f ReservationForm
	f.ApplyEditDefaults()
	f.NumeroEstudiantes = 0
	return f
}
