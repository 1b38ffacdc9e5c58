package application

import (
	"time"

	"github.com/metodoleandrolobo/nexquadra-sub000/internal/agenda"
)

// Principal represents the authenticated staff member invoking a service method.
type Principal struct {
	StaffID string
	IsAdmin bool
}

// AgendaKind distinguishes what an agenda is used for.
type AgendaKind string

const (
	AgendaKindAulas    AgendaKind = "aulas"
	AgendaKindReservas AgendaKind = "reservas"
	AgendaKindHibrida  AgendaKind = "hibrida"
)

// Agenda is a bookable weekly schedule: a fixed assignment (any subset of
// teacher, court and modality) plus an availability configuration.
type Agenda struct {
	ID        string
	Nome      string
	Tipo      AgendaKind
	Publica   bool
	Ativa     bool
	Fixa      agenda.Assignment
	Config    agenda.WeeklyConfig
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AgendaInput captures caller provided agenda fields. Dias, when present,
// must hold exactly seven entries (index 0 = Sunday); the aggregate window
// fields are then derived on save.
type AgendaInput struct {
	Nome             string
	Tipo             AgendaKind
	Publica          bool
	Ativa            bool
	ProfessorID      string
	LocalID          string
	ModalidadeID     string
	Inicio           string
	Fim              string
	IntervaloMinutos int
	DiasSemana       []time.Weekday
	Dias             []agenda.DayWindow
}

// CreateAgendaParams wraps the data required to create an agenda.
type CreateAgendaParams struct {
	Principal Principal
	Input     AgendaInput
}

// UpdateAgendaParams wraps the data required to update an agenda.
type UpdateAgendaParams struct {
	Principal Principal
	AgendaID  string
	Input     AgendaInput
}

// TurmaKind distinguishes private lessons from shared group lessons.
type TurmaKind string

const (
	TurmaExclusiva     TurmaKind = "exclusiva"
	TurmaCompartilhada TurmaKind = "compartilhada"
)

// Cobranca is the billing block attached to a lesson.
type Cobranca struct {
	Categoria string
	Modo      string
	Valor     float64
}

// Lesson is a single class or court-reservation occurrence. Recurring
// lessons share a RepetirID across their weekly siblings.
type Lesson struct {
	ID             string
	Data           string
	Inicio         string
	Fim            string
	AgendaID       string
	Atribuicao     agenda.Assignment
	ProfessorNome  string
	LocalNome      string
	ModalidadeNome string
	AlunoIDs       []string
	AlunoNomes     []string
	TipoTurma      TurmaKind
	Capacidade     int
	Repetir        bool
	RepetirID      string
	Cobranca       Cobranca
	Atividade      string
	Observacoes    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// LessonInput captures caller provided lesson fields. Student and catalog
// names are resolved by the service, never supplied by the caller.
type LessonInput struct {
	Data         string
	Inicio       string
	Fim          string
	AgendaID     string
	ProfessorID  string
	LocalID      string
	ModalidadeID string
	AlunoIDs     []string
	TipoTurma    TurmaKind
	Capacidade   int
	Repetir      bool
	Cobranca     Cobranca
	Atividade    string
	Observacoes  string
}

// CreateLessonParams wraps the data required to create a lesson.
type CreateLessonParams struct {
	Principal Principal
	Input     LessonInput
}

// EditMode selects how far an edit or delete of a recurring lesson reaches.
type EditMode string

const (
	// EditModeSingle touches only the addressed occurrence.
	EditModeSingle EditMode = "somente-esta"
	// EditModeThisAndFuture touches the occurrence and all later siblings.
	EditModeThisAndFuture EditMode = "esta-e-futuras"
)

// UpdateLessonParams wraps the data required to update a lesson.
type UpdateLessonParams struct {
	Principal Principal
	LessonID  string
	Modo      EditMode
	Input     LessonInput
}

// ListPeriod identifies the range preset requested for lesson listings.
type ListPeriod string

const (
	// ListPeriodDia constrains results to a single day and triggers
	// recurrence materialization for the lessons it returns.
	ListPeriodDia ListPeriod = "dia"
	// ListPeriodSemana constrains results to the Sunday-start week
	// containing the reference date.
	ListPeriodSemana ListPeriod = "semana"
	// ListPeriodMes constrains results to the month containing the
	// reference date.
	ListPeriodMes ListPeriod = "mes"
)

// ListLessonsParams wraps the data required to list lessons.
type ListLessonsParams struct {
	Principal Principal
	Period    ListPeriod
	Reference string
	AgendaID  string
}

// Address is the postal address block shared by people records.
type Address struct {
	CEP         string
	Logradouro  string
	Bairro      string
	Cidade      string
	UF          string
	Complemento string
}

type Student struct {
	ID            string
	Nome          string
	Email         string
	CPF           string
	Telefone      string
	DataNasc      string
	ResponsavelID string
	Endereco      Address
	Ativo         bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type StudentInput struct {
	Nome          string
	Email         string
	CPF           string
	Telefone      string
	DataNasc      string
	ResponsavelID string
	Endereco      Address
	Ativo         bool
}

type Guardian struct {
	ID        string
	Nome      string
	Email     string
	CPF       string
	Telefone  string
	Endereco  Address
	Ativo     bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type GuardianInput struct {
	Nome     string
	Email    string
	CPF      string
	Telefone string
	Endereco Address
	Ativo    bool
}

// StaffMember is an academy employee. HasCredential reports whether the
// member can log into the panel; the hash itself never leaves persistence
// except through the auth service.
type StaffMember struct {
	ID            string
	Nome          string
	Email         string
	CPF           string
	Telefone      string
	Funcao        string
	Admin         bool
	Ativo         bool
	HasCredential bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// StaffInput captures caller provided staff fields. A non-empty Senha
// provisions (or replaces) the panel credential.
type StaffInput struct {
	Nome     string
	Email    string
	CPF      string
	Telefone string
	Funcao   string
	Admin    bool
	Ativo    bool
	Senha    string
}

type Location struct {
	ID        string
	Nome      string
	Descricao string
	Ativo     bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type LocationInput struct {
	Nome      string
	Descricao string
	Ativo     bool
}

type Modality struct {
	ID        string
	Nome      string
	Descricao string
	Ativo     bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ModalityInput struct {
	Nome      string
	Descricao string
	Ativo     bool
}

type BillingPlan struct {
	ID        string
	Nome      string
	Categoria string
	Modo      string
	Valor     float64
	Ativo     bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type BillingPlanInput struct {
	Nome      string
	Categoria string
	Modo      string
	Valor     float64
	Ativo     bool
}

type LessonPlan struct {
	ID           string
	Nome         string
	Descricao    string
	ModalidadeID string
	Ativo        bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type LessonPlanInput struct {
	Nome         string
	Descricao    string
	ModalidadeID string
	Ativo        bool
}

// Session is an opaque login token issued to a staff member.
type Session struct {
	Token     string
	StaffID   string
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// AuthenticateParams carries the CPF login form.
type AuthenticateParams struct {
	CPF   string
	Senha string
}

// AuthenticateResult is the outcome of a successful login.
type AuthenticateResult struct {
	Staff   StaffMember
	Session Session
}
