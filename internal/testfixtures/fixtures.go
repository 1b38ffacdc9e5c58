package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/metodoleandrolobo/nexquadra-sub000/internal/persistence"
)

var (
	staffCounter    uint64
	studentCounter  uint64
	guardianCounter uint64
	agendaCounter   uint64
	lessonCounter   uint64
)

var referenceTime = time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
// It falls on a Monday so weekday-sensitive tests can count forward from it.
func ReferenceTime() time.Time {
	return referenceTime
}

// StaffOption configures a generated staff fixture.
type StaffOption func(*persistence.StaffMember)

// NewStaffFixture returns a deterministic active staff member. Each call
// yields a distinct ID, email and CPF-like digit string.
func NewStaffFixture(opts ...StaffOption) persistence.StaffMember {
	idx := atomic.AddUint64(&staffCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := persistence.StaffMember{
		ID:        fmt.Sprintf("staff-%03d", idx),
		Nome:      fmt.Sprintf("Professor %03d", idx),
		Email:     fmt.Sprintf("staff-%03d@example.com", idx),
		CPF:       fmt.Sprintf("%011d", idx),
		Funcao:    "professor",
		Ativo:     true,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithStaffAdmin grants the fixture admin rights.
func WithStaffAdmin() StaffOption {
	return func(f *persistence.StaffMember) {
		f.Admin = true
	}
}

// WithStaffPasswordHash stores a panel credential on the fixture.
func WithStaffPasswordHash(hash string) StaffOption {
	return func(f *persistence.StaffMember) {
		f.PasswordHash = hash
	}
}

// WithStaffInactive deactivates the fixture.
func WithStaffInactive() StaffOption {
	return func(f *persistence.StaffMember) {
		f.Ativo = false
	}
}

// StudentOption configures a generated student fixture.
type StudentOption func(*persistence.Student)

// NewStudentFixture returns a deterministic active student.
func NewStudentFixture(opts ...StudentOption) persistence.Student {
	idx := atomic.AddUint64(&studentCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := persistence.Student{
		ID:        fmt.Sprintf("aluno-%03d", idx),
		Nome:      fmt.Sprintf("Aluno %03d", idx),
		Email:     fmt.Sprintf("aluno-%03d@example.com", idx),
		CPF:       fmt.Sprintf("%011d", 1_000_000+idx),
		Ativo:     true,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithStudentGuardian links the student to a guardian record.
func WithStudentGuardian(guardianID string) StudentOption {
	return func(f *persistence.Student) {
		f.ResponsavelID = guardianID
	}
}

// NewGuardianFixture returns a deterministic active guardian.
func NewGuardianFixture() persistence.Guardian {
	idx := atomic.AddUint64(&guardianCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	return persistence.Guardian{
		ID:        fmt.Sprintf("resp-%03d", idx),
		Nome:      fmt.Sprintf("Responsável %03d", idx),
		Email:     fmt.Sprintf("resp-%03d@example.com", idx),
		CPF:       fmt.Sprintf("%011d", 2_000_000+idx),
		Ativo:     true,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

// AgendaOption configures a generated agenda fixture.
type AgendaOption func(*persistence.Agenda)

// NewAgendaFixture returns an active weekday agenda running 08:00 to 12:00
// in hour slots.
func NewAgendaFixture(opts ...AgendaOption) persistence.Agenda {
	idx := atomic.AddUint64(&agendaCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := persistence.Agenda{
		ID:               fmt.Sprintf("agenda-%03d", idx),
		Nome:             fmt.Sprintf("Agenda %03d", idx),
		Tipo:             "aulas",
		Ativa:            true,
		Inicio:           "08:00",
		Fim:              "12:00",
		IntervaloMinutos: 60,
		DiasSemana:       []int{1, 2, 3, 4, 5},
		CreatedAt:        created,
		UpdatedAt:        created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithAgendaAssignment fixes the agenda to a teacher, court or modality.
// Empty arguments stay unset.
func WithAgendaAssignment(professorID, localID, modalidadeID string) AgendaOption {
	return func(f *persistence.Agenda) {
		f.ProfessorID = professorID
		f.LocalID = localID
		f.ModalidadeID = modalidadeID
	}
}

// WithAgendaDias replaces the aggregate window with a per-weekday list
// (index 0 = Sunday).
func WithAgendaDias(dias []persistence.AgendaDia) AgendaOption {
	return func(f *persistence.Agenda) {
		f.Dias = dias
	}
}

// LessonOption configures a generated lesson fixture.
type LessonOption func(*persistence.Lesson)

// NewLessonFixture returns a one-hour exclusive lesson on the reference
// Monday starting at 08:00.
func NewLessonFixture(opts ...LessonOption) persistence.Lesson {
	idx := atomic.AddUint64(&lessonCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := persistence.Lesson{
		ID:         fmt.Sprintf("aula-%03d", idx),
		Data:       referenceTime.Format("2006-01-02"),
		Inicio:     "08:00",
		Fim:        "09:00",
		TipoTurma:  "exclusiva",
		Capacidade: 1,
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithLessonDate moves the lesson to another civil date.
func WithLessonDate(date string) LessonOption {
	return func(f *persistence.Lesson) {
		f.Data = date
	}
}

// WithLessonAgenda books the lesson on an agenda.
func WithLessonAgenda(agendaID string) LessonOption {
	return func(f *persistence.Lesson) {
		f.AgendaID = agendaID
	}
}

// WithLessonSeries marks the lesson as part of a recurring series.
func WithLessonSeries(repetirID string) LessonOption {
	return func(f *persistence.Lesson) {
		f.Repetir = true
		f.RepetirID = repetirID
	}
}

// WithLessonStudents enrolls students and widens the capacity to fit them.
func WithLessonStudents(ids, names []string) LessonOption {
	return func(f *persistence.Lesson) {
		f.AlunoIDs = ids
		f.AlunoNomes = names
		if len(ids) > 1 {
			f.TipoTurma = "compartilhada"
			if f.Capacidade < len(ids) {
				f.Capacidade = len(ids)
			}
		}
	}
}
