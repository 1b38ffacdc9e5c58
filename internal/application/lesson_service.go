package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/metodoleandrolobo/nexquadra-sub000/internal/agenda"
	"github.com/metodoleandrolobo/nexquadra-sub000/internal/recurrence"
)

// LessonRepository captures the persistence interactions for lessons.
type LessonRepository interface {
	CreateLesson(ctx context.Context, lesson Lesson) (Lesson, error)
	UpdateLesson(ctx context.Context, lesson Lesson) (Lesson, error)
	GetLesson(ctx context.Context, id string) (Lesson, error)
	ListLessons(ctx context.Context, filter LessonFilter) ([]Lesson, error)
	DeleteLesson(ctx context.Context, id string) error
}

// LessonFilter narrows ListLessons. Zero-valued fields are ignored; date
// bounds are inclusive civil dates.
type LessonFilter struct {
	Date      string
	DateFrom  string
	DateTo    string
	AgendaID  string
	RepetirID string
	FromDate  string
}

// AgendaDirectory is the read-side agenda access lesson writes need for
// window and assignment gating.
type AgendaDirectory interface {
	GetAgenda(ctx context.Context, id string) (Agenda, error)
}

// NameDirectory resolves referenced IDs to display names, which lessons
// store denormalized so listings render without joins.
type NameDirectory interface {
	StaffName(ctx context.Context, id string) (string, error)
	LocationName(ctx context.Context, id string) (string, error)
	ModalityName(ctx context.Context, id string) (string, error)
	StudentName(ctx context.Context, id string) (string, error)
}

// DefaultInitialSiblings is how many weekly copies are written when a
// recurring lesson is first created.
const DefaultInitialSiblings = 5

// LessonService manages lessons, their recurrence materialization and the
// "this and future" edit semantics.
type LessonService struct {
	lessons         LessonRepository
	agendas         AgendaDirectory
	names           NameDirectory
	planner         *recurrence.Planner
	slots           SlotInvalidator
	idGenerator     func() string
	now             func() time.Time
	location        *time.Location
	initialSiblings int
	logger          *slog.Logger
}

// NewLessonService constructs a LessonService with the provided dependencies.
func NewLessonService(
	lessons LessonRepository,
	agendas AgendaDirectory,
	names NameDirectory,
	planner *recurrence.Planner,
	slots SlotInvalidator,
	idGenerator func() string,
	now func() time.Time,
	location *time.Location,
	initialSiblings int,
	logger *slog.Logger,
) *LessonService {
	if planner == nil {
		planner = recurrence.NewPlanner(location, 0)
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if location == nil {
		location = time.Local
	}
	if initialSiblings < 0 {
		initialSiblings = DefaultInitialSiblings
	}
	return &LessonService{
		lessons:         lessons,
		agendas:         agendas,
		names:           names,
		planner:         planner,
		slots:           slots,
		idGenerator:     idGenerator,
		now:             now,
		location:        location,
		initialSiblings: initialSiblings,
		logger:          defaultLogger(logger),
	}
}

func (s *LessonService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "LessonService", operation, attrs...)
}

func (s *LessonService) invalidateSlots() {
	if s.slots != nil {
		s.slots.Invalidate()
	}
}

// CreateLesson validates input, gates it against the agenda window when one
// is referenced, and creates the lesson. For a recurring lesson the initial
// weekly siblings are written one by one right after the seed.
func (s *LessonService) CreateLesson(ctx context.Context, params CreateLessonParams) (result Lesson, err error) {
	if s == nil {
		err = fmt.Errorf("LessonService is nil")
		return
	}
	if s.lessons == nil {
		err = fmt.Errorf("lesson repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateLesson",
		"principal_id", params.Principal.StaffID,
		"date", params.Input.Data,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create lesson", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("lesson_id", result.ID, "recurring", result.Repetir).InfoContext(ctx, "lesson created")
	}()

	var lesson Lesson
	lesson, err = s.buildLesson(ctx, params.Input)
	if err != nil {
		return
	}

	lesson.ID = s.idGenerator()
	lesson.Repetir = params.Input.Repetir
	if lesson.Repetir {
		lesson.RepetirID = s.idGenerator()
	}
	lesson.CreatedAt = s.now()
	lesson.UpdatedAt = lesson.CreatedAt

	result, err = s.lessons.CreateLesson(ctx, lesson)
	if err != nil {
		return
	}
	s.invalidateSlots()

	if !result.Repetir || s.initialSiblings == 0 {
		return
	}

	var dates []string
	dates, err = s.planner.InitialDates(result.Data, s.initialSiblings)
	if err != nil {
		return
	}
	var created int
	created, err = s.writeSiblings(ctx, result, dates)
	if created > 0 {
		logger.With("sibling_count", created).InfoContext(ctx, "initial siblings materialized")
	}
	return
}

// GetLesson returns a single lesson.
func (s *LessonService) GetLesson(ctx context.Context, principal Principal, lessonID string) (Lesson, error) {
	if s == nil {
		return Lesson{}, fmt.Errorf("LessonService is nil")
	}
	if s.lessons == nil {
		return Lesson{}, fmt.Errorf("lesson repository not configured")
	}
	return s.lessons.GetLesson(ctx, lessonID)
}

// ListLessons returns the lessons of a day, week or month. Listing a day is
// what keeps recurrences alive: every recurring lesson visible on that day
// is topped up to the rolling horizon before the final listing is returned.
func (s *LessonService) ListLessons(ctx context.Context, params ListLessonsParams) (lessons []Lesson, err error) {
	if s == nil {
		err = fmt.Errorf("LessonService is nil")
		return
	}
	if s.lessons == nil {
		return nil, nil
	}
	if params.Period == "" {
		params.Period = ListPeriodDia
	}

	logger := s.loggerWith(ctx, "ListLessons",
		"principal_id", params.Principal.StaffID,
		"period", string(params.Period),
		"reference", params.Reference,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list lessons", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(lessons)).InfoContext(ctx, "lessons listed")
	}()

	var filter LessonFilter
	filter, err = s.periodFilter(params)
	if err != nil {
		return
	}

	lessons, err = s.lessons.ListLessons(ctx, filter)
	if err != nil {
		return
	}

	if params.Period != ListPeriodDia {
		return
	}

	materialized := 0
	seen := make(map[string]bool)
	for _, lesson := range lessons {
		if !lesson.Repetir || lesson.RepetirID == "" || seen[lesson.RepetirID] {
			continue
		}
		seen[lesson.RepetirID] = true

		var created int
		created, err = s.ensureCoverage(ctx, lesson)
		if err != nil {
			return
		}
		materialized += created
	}

	if materialized > 0 {
		logger.With("materialized_count", materialized).InfoContext(ctx, "recurrences topped up")
		lessons, err = s.lessons.ListLessons(ctx, filter)
	}
	return
}

// UpdateLesson applies an edit to one occurrence or, in this-and-future
// mode, to the occurrence and every later sibling of its recurrence.
func (s *LessonService) UpdateLesson(ctx context.Context, params UpdateLessonParams) (result Lesson, err error) {
	if s == nil {
		err = fmt.Errorf("LessonService is nil")
		return
	}
	if s.lessons == nil {
		err = fmt.Errorf("lesson repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateLesson",
		"principal_id", params.Principal.StaffID,
		"lesson_id", params.LessonID,
		"mode", string(params.Modo),
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update lesson", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "lesson updated")
	}()

	if params.Modo != "" && params.Modo != EditModeSingle && params.Modo != EditModeThisAndFuture {
		vErr := &ValidationError{}
		vErr.add("modo", "modo deve ser somente-esta ou esta-e-futuras")
		err = vErr
		return
	}

	var target Lesson
	target, err = s.lessons.GetLesson(ctx, params.LessonID)
	if err != nil {
		return
	}

	var updated Lesson
	updated, err = s.buildLesson(ctx, params.Input)
	if err != nil {
		return
	}

	updated.ID = target.ID
	updated.Repetir = target.Repetir
	updated.RepetirID = target.RepetirID
	updated.CreatedAt = target.CreatedAt
	updated.UpdatedAt = s.now()

	result, err = s.lessons.UpdateLesson(ctx, updated)
	if err != nil {
		return
	}
	s.invalidateSlots()

	if params.Modo != EditModeThisAndFuture || target.RepetirID == "" {
		return
	}

	var siblings []Lesson
	siblings, err = s.lessons.ListLessons(ctx, LessonFilter{
		RepetirID: target.RepetirID,
		FromDate:  target.Data,
	})
	if err != nil {
		return
	}

	edited := 0
	for _, sibling := range siblings {
		if sibling.ID == target.ID {
			continue
		}
		// Shared fields follow the edit; each sibling keeps its own date
		// and its own free-text notes.
		sibling.Inicio = updated.Inicio
		sibling.Fim = updated.Fim
		sibling.AgendaID = updated.AgendaID
		sibling.Atribuicao = updated.Atribuicao
		sibling.ProfessorNome = updated.ProfessorNome
		sibling.LocalNome = updated.LocalNome
		sibling.ModalidadeNome = updated.ModalidadeNome
		sibling.AlunoIDs = append([]string(nil), updated.AlunoIDs...)
		sibling.AlunoNomes = append([]string(nil), updated.AlunoNomes...)
		sibling.TipoTurma = updated.TipoTurma
		sibling.Capacidade = updated.Capacidade
		sibling.Cobranca = updated.Cobranca
		sibling.UpdatedAt = s.now()

		if _, err = s.lessons.UpdateLesson(ctx, sibling); err != nil {
			return
		}
		edited++
	}
	if edited > 0 {
		logger.With("sibling_count", edited).InfoContext(ctx, "future siblings updated")
	}
	return
}

// DeleteLesson removes one occurrence or, in this-and-future mode, the
// occurrence and every later sibling. Rows are deleted one by one; a failure
// part way leaves the earlier deletions in place.
func (s *LessonService) DeleteLesson(ctx context.Context, principal Principal, lessonID string, modo EditMode) error {
	if s == nil {
		return fmt.Errorf("LessonService is nil")
	}
	if s.lessons == nil {
		return fmt.Errorf("lesson repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteLesson",
		"principal_id", principal.StaffID,
		"lesson_id", lessonID,
		"mode", string(modo),
	)

	if modo != "" && modo != EditModeSingle && modo != EditModeThisAndFuture {
		vErr := &ValidationError{}
		vErr.add("modo", "modo deve ser somente-esta ou esta-e-futuras")
		logger.ErrorContext(ctx, "failed to delete lesson", "error", vErr, "error_kind", ErrorKind(vErr))
		return vErr
	}

	target, err := s.lessons.GetLesson(ctx, lessonID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to delete lesson", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	ids := []string{target.ID}
	if modo == EditModeThisAndFuture && target.RepetirID != "" {
		siblings, err := s.lessons.ListLessons(ctx, LessonFilter{
			RepetirID: target.RepetirID,
			FromDate:  target.Data,
		})
		if err != nil {
			logger.ErrorContext(ctx, "failed to delete lesson", "error", err, "error_kind", ErrorKind(err))
			return err
		}
		ids = ids[:0]
		for _, sibling := range siblings {
			ids = append(ids, sibling.ID)
		}
	}

	deleted := 0
	for _, id := range ids {
		if err := s.lessons.DeleteLesson(ctx, id); err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			s.invalidateSlots()
			logger.With("deleted_count", deleted).ErrorContext(ctx, "failed to delete lesson", "error", err, "error_kind", ErrorKind(err))
			return err
		}
		deleted++
	}

	s.invalidateSlots()
	logger.With("deleted_count", deleted).InfoContext(ctx, "lesson deleted")
	return nil
}

// ensureCoverage tops one recurrence up to the rolling horizon, using the
// given occurrence as the template for new siblings. Idempotent: a covered
// recurrence writes nothing.
func (s *LessonService) ensureCoverage(ctx context.Context, template Lesson) (int, error) {
	siblings, err := s.lessons.ListLessons(ctx, LessonFilter{RepetirID: template.RepetirID})
	if err != nil {
		return 0, err
	}

	existing := make([]string, 0, len(siblings))
	for _, sibling := range siblings {
		existing = append(existing, sibling.Data)
	}

	missing, err := s.planner.MissingDates(template.Data, existing, s.now())
	if err != nil {
		return 0, err
	}
	return s.writeSiblings(ctx, template, missing)
}

// writeSiblings creates one copy of template per date. Copies drop the
// free-text fields; a per-occurrence note belongs to its occurrence only.
// Writes are sequential and a failure stops the walk; the next coverage
// check resumes from the last date that made it in.
func (s *LessonService) writeSiblings(ctx context.Context, template Lesson, dates []string) (int, error) {
	created := 0
	for _, date := range dates {
		sibling := template
		sibling.ID = s.idGenerator()
		sibling.Data = date
		sibling.AlunoIDs = append([]string(nil), template.AlunoIDs...)
		sibling.AlunoNomes = append([]string(nil), template.AlunoNomes...)
		sibling.Atividade = ""
		sibling.Observacoes = ""
		sibling.CreatedAt = s.now()
		sibling.UpdatedAt = sibling.CreatedAt

		if _, err := s.lessons.CreateLesson(ctx, sibling); err != nil {
			if created > 0 {
				s.invalidateSlots()
			}
			return created, err
		}
		created++
	}
	if created > 0 {
		s.invalidateSlots()
	}
	return created, nil
}

// buildLesson validates input, resolves denormalized names and applies the
// agenda gate. The recurrence fields are left for the caller to fill.
func (s *LessonService) buildLesson(ctx context.Context, input LessonInput) (Lesson, error) {
	vErr := &ValidationError{}

	data := strings.TrimSpace(input.Data)
	if data == "" {
		vErr.add("data", "data é obrigatória")
	} else if _, err := time.ParseInLocation(recurrence.DateLayout, data, s.location); err != nil {
		vErr.add("data", "data inválida, use o formato AAAA-MM-DD")
	}

	inicio := strings.TrimSpace(input.Inicio)
	fim := strings.TrimSpace(input.Fim)
	startMinutes, startOK := agenda.MinutesOf(inicio)
	if !startOK {
		vErr.add("inicio", "horário inválido, use o formato HH:MM")
	}
	endMinutes, endOK := agenda.MinutesOf(fim)
	if !endOK {
		vErr.add("fim", "horário inválido, use o formato HH:MM")
	} else if startOK && endMinutes <= startMinutes {
		vErr.add("fim", "horário final deve ser após o inicial")
	}

	tipo := input.TipoTurma
	if tipo == "" {
		tipo = TurmaExclusiva
	}
	capacidade := input.Capacidade
	switch tipo {
	case TurmaExclusiva:
		capacidade = 1
		if len(input.AlunoIDs) > 1 {
			vErr.add("alunos", "turma exclusiva permite apenas um aluno")
		}
	case TurmaCompartilhada:
		if capacidade <= 0 {
			vErr.add("capacidade", "capacidade deve ser positiva")
		} else if len(input.AlunoIDs) > capacidade {
			vErr.add("alunos", "quantidade de alunos excede a capacidade da turma")
		}
	default:
		vErr.add("tipoTurma", "tipo de turma deve ser exclusiva ou compartilhada")
	}

	atribuicao := agenda.Assignment{
		ProfessorID:  strings.TrimSpace(input.ProfessorID),
		LocalID:      strings.TrimSpace(input.LocalID),
		ModalidadeID: strings.TrimSpace(input.ModalidadeID),
	}

	agendaID := strings.TrimSpace(input.AgendaID)
	if agendaID != "" && s.agendas != nil && !vErr.HasErrors() {
		ag, err := s.agendas.GetAgenda(ctx, agendaID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				vErr.add("agendaId", "agenda não encontrada")
			} else {
				return Lesson{}, err
			}
		} else {
			s.checkAgendaGate(vErr, ag, atribuicao, data, inicio)
		}
	}

	lesson := Lesson{
		Data:        data,
		Inicio:      inicio,
		Fim:         fim,
		AgendaID:    agendaID,
		Atribuicao:  atribuicao,
		AlunoIDs:    append([]string(nil), input.AlunoIDs...),
		TipoTurma:   tipo,
		Capacidade:  capacidade,
		Cobranca:    input.Cobranca,
		Atividade:   strings.TrimSpace(input.Atividade),
		Observacoes: strings.TrimSpace(input.Observacoes),
	}

	s.resolveNames(ctx, &lesson, vErr)

	if vErr.HasErrors() {
		return Lesson{}, vErr
	}
	return lesson, nil
}

// checkAgendaGate verifies a lesson against the agenda it was clicked into:
// the agenda must be active and attend the weekday, the start must fall in
// the day window, and pinned resources must match.
func (s *LessonService) checkAgendaGate(vErr *ValidationError, ag Agenda, atribuicao agenda.Assignment, data, inicio string) {
	if !ag.Ativa {
		vErr.add("agendaId", "agenda está inativa")
		return
	}
	if !ag.Fixa.Matches(atribuicao) {
		vErr.add("agendaId", "aula não corresponde aos recursos fixos da agenda")
	}

	day, err := time.ParseInLocation(recurrence.DateLayout, data, s.location)
	if err != nil {
		return
	}
	window, active := agenda.ResolveDay(ag.Config, day.Weekday())
	if !active {
		vErr.add("data", "agenda não atende neste dia da semana")
		return
	}
	if !agenda.WithinWindow(window, inicio) {
		vErr.add("inicio", "horário fora da janela de atendimento da agenda")
	}
}

// resolveNames fills the denormalized display names from the directories.
// A dangling reference is a validation error, not a broken listing later.
func (s *LessonService) resolveNames(ctx context.Context, lesson *Lesson, vErr *ValidationError) {
	if s.names == nil {
		return
	}

	lookup := func(field, id string, fn func(context.Context, string) (string, error), message string) string {
		if id == "" {
			return ""
		}
		name, err := fn(ctx, id)
		if err != nil {
			vErr.add(field, message)
			return ""
		}
		return name
	}

	lesson.ProfessorNome = lookup("professorId", lesson.Atribuicao.ProfessorID, s.names.StaffName, "professor não encontrado")
	lesson.LocalNome = lookup("localId", lesson.Atribuicao.LocalID, s.names.LocationName, "local não encontrado")
	lesson.ModalidadeNome = lookup("modalidadeId", lesson.Atribuicao.ModalidadeID, s.names.ModalityName, "modalidade não encontrada")

	lesson.AlunoNomes = make([]string, 0, len(lesson.AlunoIDs))
	for _, alunoID := range lesson.AlunoIDs {
		name, err := s.names.StudentName(ctx, alunoID)
		if err != nil {
			vErr.add("alunos", "aluno não encontrado: "+alunoID)
			continue
		}
		lesson.AlunoNomes = append(lesson.AlunoNomes, name)
	}
}

// periodFilter turns a period preset into concrete date bounds. Weeks start
// on Sunday, matching the weekday indexing used by agendas.
func (s *LessonService) periodFilter(params ListLessonsParams) (LessonFilter, error) {
	reference := strings.TrimSpace(params.Reference)
	if reference == "" {
		reference = s.now().In(s.location).Format(recurrence.DateLayout)
	}
	ref, err := time.ParseInLocation(recurrence.DateLayout, reference, s.location)
	if err != nil {
		vErr := &ValidationError{}
		vErr.add("referencia", "data inválida, use o formato AAAA-MM-DD")
		return LessonFilter{}, vErr
	}

	filter := LessonFilter{AgendaID: strings.TrimSpace(params.AgendaID)}
	switch params.Period {
	case ListPeriodDia, "":
		filter.Date = ref.Format(recurrence.DateLayout)
	case ListPeriodSemana:
		weekStart := ref.AddDate(0, 0, -int(ref.Weekday()))
		filter.DateFrom = weekStart.Format(recurrence.DateLayout)
		filter.DateTo = weekStart.AddDate(0, 0, 6).Format(recurrence.DateLayout)
	case ListPeriodMes:
		monthStart := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, s.location)
		filter.DateFrom = monthStart.Format(recurrence.DateLayout)
		filter.DateTo = monthStart.AddDate(0, 1, -1).Format(recurrence.DateLayout)
	default:
		vErr := &ValidationError{}
		vErr.add("periodo", "período deve ser dia, semana ou mes")
		return LessonFilter{}, vErr
	}
	return filter, nil
}
