package persistence

import "time"

// Agenda is the stored shape of a bookable weekly schedule. The aggregate
// window (Inicio, Fim, IntervaloMinutos, DiasSemana) is always present;
// Dias carries the per-weekday list (index 0 = Sunday) when the agenda was
// saved in the seven-entry shape, and stays nil for legacy rows.
type Agenda struct {
	ID               string
	Nome             string
	Tipo             string
	Publica          bool
	Ativa            bool
	ProfessorID      string
	LocalID          string
	ModalidadeID     string
	Inicio           string
	Fim              string
	IntervaloMinutos int
	DiasSemana       []int
	Dias             []AgendaDia
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AgendaDia is one weekday entry of the seven-entry availability list.
// Field values are stored exactly as submitted; a zero IntervaloMinutos is
// preserved and only defaulted when the window is resolved.
type AgendaDia struct {
	Ativo            bool   `json:"ativo"`
	Inicio           string `json:"inicio"`
	Fim              string `json:"fim"`
	IntervaloMinutos int    `json:"intervaloMinutos"`
}

// Lesson is a single materialized class occurrence. Recurring lessons share
// a RepetirID; names are denormalized alongside the referenced IDs.
type Lesson struct {
	ID                string
	Data              string
	Inicio            string
	Fim               string
	AgendaID          string
	ProfessorID       string
	LocalID           string
	ModalidadeID      string
	ProfessorNome     string
	LocalNome         string
	ModalidadeNome    string
	AlunoIDs          []string
	AlunoNomes        []string
	TipoTurma         string
	Capacidade        int
	Repetir           bool
	RepetirID         string
	CobrancaCategoria string
	CobrancaModo      string
	CobrancaValor     float64
	Atividade         string
	Observacoes       string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Address is the postal address block shared by people records. Field names
// follow the ViaCEP payload so lookups can be stored without translation.
type Address struct {
	CEP         string `json:"cep"`
	Logradouro  string `json:"logradouro"`
	Bairro      string `json:"bairro"`
	Cidade      string `json:"localidade"`
	UF          string `json:"uf"`
	Complemento string `json:"complemento"`
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

// StaffMember is an academy employee. PasswordHash is empty when the member
// has no admin-panel credential.
type StaffMember struct {
	ID           string
	Nome         string
	Email        string
	CPF          string
	Telefone     string
	Funcao       string
	Admin        bool
	Ativo        bool
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Location struct {
	ID        string
	Nome      string
	Descricao string
	Ativo     bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Modality struct {
	ID        string
	Nome      string
	Descricao string
	Ativo     bool
	CreatedAt time.Time
	UpdatedAt time.Time
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

// LessonPlan is a reusable activity script that lessons can reference by name.
type LessonPlan struct {
	ID           string
	Nome         string
	Descricao    string
	ModalidadeID string
	Ativo        bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session is an opaque login token for a staff member.
type Session struct {
	Token     string
	StaffID   string
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}
