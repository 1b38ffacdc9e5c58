package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/metodoleandrolobo/nexquadra-sub000/internal/agenda"
	"github.com/metodoleandrolobo/nexquadra-sub000/internal/recurrence"
)

// AgendaRepository captures the persistence interactions for agendas.
type AgendaRepository interface {
	CreateAgenda(ctx context.Context, a Agenda) (Agenda, error)
	UpdateAgenda(ctx context.Context, a Agenda) (Agenda, error)
	GetAgenda(ctx context.Context, id string) (Agenda, error)
	ListAgendas(ctx context.Context) ([]Agenda, error)
	DeleteAgenda(ctx context.Context, id string) error
}

// LessonDirectory is the read-side lesson access the agenda views need.
type LessonDirectory interface {
	ListLessonsByDate(ctx context.Context, date string) ([]Lesson, error)
}

// SlotInvalidator flushes cached slot listings after a write that can change
// occupancy.
type SlotInvalidator interface {
	Invalidate()
}

// AgendaService manages agendas and computes their grid and day views.
type AgendaService struct {
	agendas     AgendaRepository
	lessons     LessonDirectory
	slots       *slotCache
	idGenerator func() string
	now         func() time.Time
	location    *time.Location
	logger      *slog.Logger
}

// NewAgendaService constructs an AgendaService with the provided dependencies.
func NewAgendaService(agendas AgendaRepository, lessons LessonDirectory, idGenerator func() string, now func() time.Time, location *time.Location, logger *slog.Logger) *AgendaService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if location == nil {
		location = time.Local
	}
	return &AgendaService{
		agendas:     agendas,
		lessons:     lessons,
		slots:       newSlotCache(0, 0, now),
		idGenerator: idGenerator,
		now:         now,
		location:    location,
		logger:      defaultLogger(logger),
	}
}

// Slots exposes the day-view cache so lesson writes can flush it.
func (s *AgendaService) Slots() SlotInvalidator {
	return s.slots
}

func (s *AgendaService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AgendaService", operation, attrs...)
}

// CreateAgenda validates input and creates an agenda for administrators.
func (s *AgendaService) CreateAgenda(ctx context.Context, params CreateAgendaParams) (result Agenda, err error) {
	if s == nil {
		err = fmt.Errorf("AgendaService is nil")
		return
	}
	if s.agendas == nil {
		err = fmt.Errorf("agenda repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateAgenda",
		"principal_id", params.Principal.StaffID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create agenda", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("agenda_id", result.ID).InfoContext(ctx, "agenda created")
	}()

	if !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	vErr := validateAgendaInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	model := buildAgenda(params.Input)
	model.ID = s.idGenerator()
	model.CreatedAt = s.now()
	model.UpdatedAt = model.CreatedAt

	result, err = s.agendas.CreateAgenda(ctx, model)
	if err != nil {
		return
	}
	s.slots.Invalidate()
	return
}

// UpdateAgenda validates input and updates an existing agenda for administrators.
func (s *AgendaService) UpdateAgenda(ctx context.Context, params UpdateAgendaParams) (result Agenda, err error) {
	if s == nil {
		err = fmt.Errorf("AgendaService is nil")
		return
	}
	if s.agendas == nil {
		err = fmt.Errorf("agenda repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateAgenda",
		"principal_id", params.Principal.StaffID,
		"agenda_id", params.AgendaID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update agenda", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "agenda updated")
	}()

	if !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	var existing Agenda
	existing, err = s.agendas.GetAgenda(ctx, params.AgendaID)
	if err != nil {
		return
	}

	vErr := validateAgendaInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	updated := buildAgenda(params.Input)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = s.now()

	result, err = s.agendas.UpdateAgenda(ctx, updated)
	if err != nil {
		return
	}
	s.slots.Invalidate()
	return
}

// DeleteAgenda removes an agenda outright. Lessons created from it survive
// as standalone records.
func (s *AgendaService) DeleteAgenda(ctx context.Context, principal Principal, agendaID string) error {
	if s == nil {
		return fmt.Errorf("AgendaService is nil")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}
	if s.agendas == nil {
		return fmt.Errorf("agenda repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteAgenda",
		"principal_id", principal.StaffID,
		"agenda_id", agendaID,
	)

	if err := s.agendas.DeleteAgenda(ctx, agendaID); err != nil {
		logger.ErrorContext(ctx, "failed to delete agenda", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	s.slots.Invalidate()
	logger.InfoContext(ctx, "agenda deleted")
	return nil
}

// GetAgenda returns a single agenda for any authenticated staff member.
func (s *AgendaService) GetAgenda(ctx context.Context, principal Principal, agendaID string) (Agenda, error) {
	if s == nil {
		return Agenda{}, fmt.Errorf("AgendaService is nil")
	}
	if s.agendas == nil {
		return Agenda{}, fmt.Errorf("agenda repository not configured")
	}
	return s.agendas.GetAgenda(ctx, agendaID)
}

// ListAgendas returns every agenda sorted by name.
func (s *AgendaService) ListAgendas(ctx context.Context, principal Principal) (agendas []Agenda, err error) {
	if s == nil {
		err = fmt.Errorf("AgendaService is nil")
		return
	}
	if s.agendas == nil {
		return nil, nil
	}

	logger := s.loggerWith(ctx, "ListAgendas",
		"principal_id", principal.StaffID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list agendas", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(agendas)).InfoContext(ctx, "agendas listed")
	}()

	agendas, err = s.agendas.ListAgendas(ctx)
	if err != nil {
		return
	}

	sort.Slice(agendas, func(i, j int) bool {
		if strings.EqualFold(agendas[i].Nome, agendas[j].Nome) {
			return agendas[i].ID < agendas[j].ID
		}
		return strings.ToLower(agendas[i].Nome) < strings.ToLower(agendas[j].Nome)
	})
	return
}

// WeekGrid computes the weekly slot grid spanning every active day window.
func (s *AgendaService) WeekGrid(ctx context.Context, principal Principal, agendaID string) (agenda.Grid, error) {
	if s == nil {
		return agenda.Grid{}, fmt.Errorf("AgendaService is nil")
	}
	if s.agendas == nil {
		return agenda.Grid{}, fmt.Errorf("agenda repository not configured")
	}

	ag, err := s.agendas.GetAgenda(ctx, agendaID)
	if err != nil {
		return agenda.Grid{}, err
	}
	return agenda.BuildWeekGrid(ag.Config), nil
}

// DaySchedule returns the slot-by-slot occupancy of one agenda day:
// blocked cells outside the day window, free cells inside it, occupied
// cells carrying the lesson that starts there.
func (s *AgendaService) DaySchedule(ctx context.Context, principal Principal, agendaID, date string) (slots []agenda.Slot, err error) {
	if s == nil {
		err = fmt.Errorf("AgendaService is nil")
		return
	}
	if s.agendas == nil {
		err = fmt.Errorf("agenda repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "DaySchedule",
		"principal_id", principal.StaffID,
		"agenda_id", agendaID,
		"date", date,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to compute day schedule", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("slot_count", len(slots)).InfoContext(ctx, "day schedule computed")
	}()

	day, parseErr := time.ParseInLocation(recurrence.DateLayout, date, s.location)
	if parseErr != nil {
		vErr := &ValidationError{}
		vErr.add("data", "data inválida, use o formato AAAA-MM-DD")
		err = vErr
		return
	}

	var ag Agenda
	ag, err = s.agendas.GetAgenda(ctx, agendaID)
	if err != nil {
		return
	}

	key := slotCacheKey(agendaID, date)
	if cached, ok := s.slots.Get(key); ok {
		slots = cached
		return
	}

	var bookings []agenda.Booking
	if s.lessons != nil {
		var dayLessons []Lesson
		dayLessons, err = s.lessons.ListLessonsByDate(ctx, date)
		if err != nil {
			return
		}
		for _, lesson := range dayLessons {
			if !attributable(ag, lesson) {
				continue
			}
			bookings = append(bookings, agenda.Booking{ID: lesson.ID, Start: lesson.Inicio})
		}
	}

	slots = agenda.DaySlots(ag.Config, day.Weekday(), bookings)
	s.slots.Store(key, slots)
	return
}

// attributable reports whether a lesson belongs on this agenda's day view:
// either it was created from the agenda, or the agenda pins resources and
// the lesson uses them.
func attributable(ag Agenda, lesson Lesson) bool {
	if lesson.AgendaID == ag.ID {
		return true
	}
	empty := agenda.Assignment{}
	if ag.Fixa == empty {
		return false
	}
	return ag.Fixa.Matches(lesson.Atribuicao)
}

// buildAgenda normalizes input into the stored shape. A seven-entry day
// list wins over the aggregate fields, which are re-derived from it so
// legacy readers stay consistent.
func buildAgenda(input AgendaInput) Agenda {
	tipo := input.Tipo
	if tipo == "" {
		tipo = AgendaKindAulas
	}

	config := agenda.WeeklyConfig{
		Start:       strings.TrimSpace(input.Inicio),
		End:         strings.TrimSpace(input.Fim),
		SlotMinutes: input.IntervaloMinutos,
		Weekdays:    append([]time.Weekday(nil), input.DiasSemana...),
	}
	if input.Dias != nil {
		config.Days = append([]agenda.DayWindow(nil), input.Dias...)
		start, end, slot, weekdays := agenda.DeriveAggregate(config.Days)
		if start != "" {
			config.Start = start
		}
		if end != "" {
			config.End = end
		}
		if slot > 0 {
			config.SlotMinutes = slot
		}
		config.Weekdays = weekdays
	}

	return Agenda{
		Nome:    strings.TrimSpace(input.Nome),
		Tipo:    tipo,
		Publica: input.Publica,
		Ativa:   input.Ativa,
		Fixa: agenda.Assignment{
			ProfessorID:  strings.TrimSpace(input.ProfessorID),
			LocalID:      strings.TrimSpace(input.LocalID),
			ModalidadeID: strings.TrimSpace(input.ModalidadeID),
		},
		Config: config,
	}
}

func validateAgendaInput(input AgendaInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Nome) == "" {
		vErr.add("nome", "nome é obrigatório")
	}
	switch input.Tipo {
	case "", AgendaKindAulas, AgendaKindReservas, AgendaKindHibrida:
	default:
		vErr.add("tipo", "tipo deve ser aulas, reservas ou hibrida")
	}

	checkWindow(vErr, "inicio", "fim", input.Inicio, input.Fim)

	if input.Dias != nil {
		if len(input.Dias) != 7 {
			vErr.add("dias", "a lista de dias deve ter exatamente sete entradas")
		} else {
			for index, day := range input.Dias {
				if !day.Active {
					continue
				}
				field := fmt.Sprintf("dias[%d]", index)
				checkWindow(vErr, field+".inicio", field+".fim", day.Start, day.End)
			}
		}
	}
	return vErr
}

// checkWindow validates optional HH:MM bounds. An end equal to the start is
// allowed and yields a zero-width window; an inverted pair is a caller error.
func checkWindow(vErr *ValidationError, startField, endField, start, end string) {
	startMinutes, startOK := -1, true
	if start != "" {
		var ok bool
		startMinutes, ok = agenda.MinutesOf(start)
		if !ok {
			vErr.add(startField, "horário inválido, use o formato HH:MM")
			startOK = false
		}
	}
	if end == "" {
		return
	}
	endMinutes, ok := agenda.MinutesOf(end)
	if !ok {
		vErr.add(endField, "horário inválido, use o formato HH:MM")
		return
	}
	if start != "" && startOK && endMinutes < startMinutes {
		vErr.add(endField, "horário final não pode ser anterior ao inicial")
	}
}
