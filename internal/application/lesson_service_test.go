package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/metodoleandrolobo/nexquadra-sub000/internal/agenda"
	"github.com/metodoleandrolobo/nexquadra-sub000/internal/recurrence"
)

type lessonRepositoryStub struct {
	lessons   map[string]Lesson
	createErr error
	listErr   error
}

func newLessonRepositoryStub(seed ...Lesson) *lessonRepositoryStub {
	stub := &lessonRepositoryStub{lessons: make(map[string]Lesson)}
	for _, lesson := range seed {
		stub.lessons[lesson.ID] = lesson
	}
	return stub
}

func (s *lessonRepositoryStub) CreateLesson(_ context.Context, lesson Lesson) (Lesson, error) {
	if s.createErr != nil {
		return Lesson{}, s.createErr
	}
	s.lessons[lesson.ID] = lesson
	return lesson, nil
}

func (s *lessonRepositoryStub) UpdateLesson(_ context.Context, lesson Lesson) (Lesson, error) {
	if _, ok := s.lessons[lesson.ID]; !ok {
		return Lesson{}, ErrNotFound
	}
	s.lessons[lesson.ID] = lesson
	return lesson, nil
}

func (s *lessonRepositoryStub) GetLesson(_ context.Context, id string) (Lesson, error) {
	lesson, ok := s.lessons[id]
	if !ok {
		return Lesson{}, ErrNotFound
	}
	return lesson, nil
}

func (s *lessonRepositoryStub) ListLessons(_ context.Context, filter LessonFilter) ([]Lesson, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var result []Lesson
	for _, lesson := range s.lessons {
		if filter.Date != "" && lesson.Data != filter.Date {
			continue
		}
		if filter.DateFrom != "" && lesson.Data < filter.DateFrom {
			continue
		}
		if filter.DateTo != "" && lesson.Data > filter.DateTo {
			continue
		}
		if filter.AgendaID != "" && lesson.AgendaID != filter.AgendaID {
			continue
		}
		if filter.RepetirID != "" && lesson.RepetirID != filter.RepetirID {
			continue
		}
		if filter.FromDate != "" && lesson.Data < filter.FromDate {
			continue
		}
		result = append(result, lesson)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Data != result[j].Data {
			return result[i].Data < result[j].Data
		}
		if result[i].Inicio != result[j].Inicio {
			return result[i].Inicio < result[j].Inicio
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (s *lessonRepositoryStub) DeleteLesson(_ context.Context, id string) error {
	if _, ok := s.lessons[id]; !ok {
		return ErrNotFound
	}
	delete(s.lessons, id)
	return nil
}

type agendaDirectoryStub struct {
	agendas map[string]Agenda
}

func (s *agendaDirectoryStub) GetAgenda(_ context.Context, id string) (Agenda, error) {
	ag, ok := s.agendas[id]
	if !ok {
		return Agenda{}, ErrNotFound
	}
	return ag, nil
}

type nameDirectoryStub struct {
	staff      map[string]string
	locations  map[string]string
	modalities map[string]string
	students   map[string]string
}

func (s *nameDirectoryStub) lookup(table map[string]string, id string) (string, error) {
	name, ok := table[id]
	if !ok {
		return "", ErrNotFound
	}
	return name, nil
}

func (s *nameDirectoryStub) StaffName(_ context.Context, id string) (string, error) {
	return s.lookup(s.staff, id)
}

func (s *nameDirectoryStub) LocationName(_ context.Context, id string) (string, error) {
	return s.lookup(s.locations, id)
}

func (s *nameDirectoryStub) ModalityName(_ context.Context, id string) (string, error) {
	return s.lookup(s.modalities, id)
}

func (s *nameDirectoryStub) StudentName(_ context.Context, id string) (string, error) {
	return s.lookup(s.students, id)
}

type slotInvalidatorStub struct {
	calls int
}

func (s *slotInvalidatorStub) Invalidate() { s.calls++ }

func sequentialIDs(prefix string) func() string {
	counter := 0
	return func() string {
		counter++
		return fmt.Sprintf("%s-%d", prefix, counter)
	}
}

func fullNameDirectory() *nameDirectoryStub {
	return &nameDirectoryStub{
		staff:      map[string]string{"prof-1": "Carla Souza"},
		locations:  map[string]string{"quadra-1": "Quadra Coberta"},
		modalities: map[string]string{"beach-1": "Beach Tennis"},
		students:   map[string]string{"aluno-1": "João Lima", "aluno-2": "Ana Reis"},
	}
}

func newLessonServiceForTest(repo *lessonRepositoryStub, agendas AgendaDirectory, siblings int, now time.Time, horizonWeeks int) (*LessonService, *slotInvalidatorStub) {
	invalidator := &slotInvalidatorStub{}
	planner := recurrence.NewPlanner(time.UTC, horizonWeeks)
	svc := NewLessonService(
		repo,
		agendas,
		fullNameDirectory(),
		planner,
		invalidator,
		sequentialIDs("id"),
		func() time.Time { return now },
		time.UTC,
		siblings,
		nil,
	)
	return svc, invalidator
}

func baseLessonInput() LessonInput {
	return LessonInput{
		Data:        "2026-01-05",
		Inicio:      "08:00",
		Fim:         "09:00",
		ProfessorID: "prof-1",
		LocalID:     "quadra-1",
		AlunoIDs:    []string{"aluno-1"},
		TipoTurma:   TurmaExclusiva,
		Atividade:   "saque e devolução",
	}
}

func TestLessonService_CreateLesson(t *testing.T) {
	t.Parallel()

	admin := Principal{StaffID: "staff-1", IsAdmin: true}
	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	t.Run("creates a single lesson with resolved names", func(t *testing.T) {
		t.Parallel()

		repo := newLessonRepositoryStub()
		svc, invalidator := newLessonServiceForTest(repo, nil, 0, now, 0)

		result, err := svc.CreateLesson(context.Background(), CreateLessonParams{Principal: admin, Input: baseLessonInput()})
		if err != nil {
			t.Fatalf("CreateLesson failed: %v", err)
		}
		if result.ProfessorNome != "Carla Souza" {
			t.Fatalf("expected resolved professor name, got %q", result.ProfessorNome)
		}
		if result.LocalNome != "Quadra Coberta" {
			t.Fatalf("expected resolved location name, got %q", result.LocalNome)
		}
		if len(result.AlunoNomes) != 1 || result.AlunoNomes[0] != "João Lima" {
			t.Fatalf("expected resolved student names, got %v", result.AlunoNomes)
		}
		if result.Capacidade != 1 {
			t.Fatalf("expected exclusive lesson capacity 1, got %d", result.Capacidade)
		}
		if result.Repetir || result.RepetirID != "" {
			t.Fatalf("expected non-recurring lesson, got repetir=%v id=%q", result.Repetir, result.RepetirID)
		}
		if len(repo.lessons) != 1 {
			t.Fatalf("expected exactly one stored lesson, got %d", len(repo.lessons))
		}
		if invalidator.calls == 0 {
			t.Fatal("expected slot cache invalidation after create")
		}
	})

	t.Run("writes initial weekly copies for recurring lessons", func(t *testing.T) {
		t.Parallel()

		repo := newLessonRepositoryStub()
		svc, _ := newLessonServiceForTest(repo, nil, 5, now, 0)

		input := baseLessonInput()
		input.Repetir = true

		result, err := svc.CreateLesson(context.Background(), CreateLessonParams{Principal: admin, Input: input})
		if err != nil {
			t.Fatalf("CreateLesson failed: %v", err)
		}
		if !result.Repetir || result.RepetirID == "" {
			t.Fatal("expected recurring lesson with a series identifier")
		}

		siblings, err := repo.ListLessons(context.Background(), LessonFilter{RepetirID: result.RepetirID})
		if err != nil {
			t.Fatalf("ListLessons failed: %v", err)
		}
		if len(siblings) != 6 {
			t.Fatalf("expected seed plus five copies, got %d", len(siblings))
		}

		wantDates := []string{"2026-01-05", "2026-01-12", "2026-01-19", "2026-01-26", "2026-02-02", "2026-02-09"}
		for i, lesson := range siblings {
			if lesson.Data != wantDates[i] {
				t.Fatalf("sibling %d: expected date %s, got %s", i, wantDates[i], lesson.Data)
			}
			if lesson.ID == result.ID {
				if lesson.Atividade != "saque e devolução" {
					t.Fatalf("seed lesson must keep its notes, got %q", lesson.Atividade)
				}
				continue
			}
			if lesson.Atividade != "" || lesson.Observacoes != "" {
				t.Fatalf("copies must not inherit free text, got %q / %q", lesson.Atividade, lesson.Observacoes)
			}
			if lesson.Inicio != result.Inicio || lesson.Fim != result.Fim {
				t.Fatalf("copies must keep the time window, got %s-%s", lesson.Inicio, lesson.Fim)
			}
		}
	})

	t.Run("rejects an end time not after the start", func(t *testing.T) {
		t.Parallel()

		repo := newLessonRepositoryStub()
		svc, _ := newLessonServiceForTest(repo, nil, 0, now, 0)

		input := baseLessonInput()
		input.Fim = "08:00"

		_, err := svc.CreateLesson(context.Background(), CreateLessonParams{Principal: admin, Input: input})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if _, ok := vErr.FieldErrors["fim"]; !ok {
			t.Fatalf("expected error on fim, got %v", vErr.FieldErrors)
		}
	})

	t.Run("rejects an exclusive lesson with two students", func(t *testing.T) {
		t.Parallel()

		repo := newLessonRepositoryStub()
		svc, _ := newLessonServiceForTest(repo, nil, 0, now, 0)

		input := baseLessonInput()
		input.AlunoIDs = []string{"aluno-1", "aluno-2"}

		_, err := svc.CreateLesson(context.Background(), CreateLessonParams{Principal: admin, Input: input})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if _, ok := vErr.FieldErrors["alunos"]; !ok {
			t.Fatalf("expected error on alunos, got %v", vErr.FieldErrors)
		}
	})

	t.Run("caps shared lessons at the declared capacity", func(t *testing.T) {
		t.Parallel()

		repo := newLessonRepositoryStub()
		svc, _ := newLessonServiceForTest(repo, nil, 0, now, 0)

		input := baseLessonInput()
		input.TipoTurma = TurmaCompartilhada
		input.Capacidade = 1
		input.AlunoIDs = []string{"aluno-1", "aluno-2"}

		_, err := svc.CreateLesson(context.Background(), CreateLessonParams{Principal: admin, Input: input})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if _, ok := vErr.FieldErrors["alunos"]; !ok {
			t.Fatalf("expected error on alunos, got %v", vErr.FieldErrors)
		}
	})

	t.Run("rejects a start outside the agenda window", func(t *testing.T) {
		t.Parallel()

		agendas := &agendaDirectoryStub{agendas: map[string]Agenda{
			"ag-1": {
				ID:    "ag-1",
				Ativa: true,
				Config: agenda.WeeklyConfig{
					Start:       "08:00",
					End:         "12:00",
					SlotMinutes: 60,
					Weekdays:    []time.Weekday{time.Monday},
				},
			},
		}}
		repo := newLessonRepositoryStub()
		svc, _ := newLessonServiceForTest(repo, agendas, 0, now, 0)

		input := baseLessonInput()
		input.AgendaID = "ag-1"
		input.Inicio = "13:00"
		input.Fim = "14:00"

		_, err := svc.CreateLesson(context.Background(), CreateLessonParams{Principal: admin, Input: input})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if _, ok := vErr.FieldErrors["inicio"]; !ok {
			t.Fatalf("expected error on inicio, got %v", vErr.FieldErrors)
		}
	})

	t.Run("rejects a weekday the agenda does not attend", func(t *testing.T) {
		t.Parallel()

		agendas := &agendaDirectoryStub{agendas: map[string]Agenda{
			"ag-1": {
				ID:    "ag-1",
				Ativa: true,
				Config: agenda.WeeklyConfig{
					Start:       "08:00",
					End:         "12:00",
					SlotMinutes: 60,
					Weekdays:    []time.Weekday{time.Monday},
				},
			},
		}}
		repo := newLessonRepositoryStub()
		svc, _ := newLessonServiceForTest(repo, agendas, 0, now, 0)

		input := baseLessonInput()
		input.AgendaID = "ag-1"
		input.Data = "2026-01-06" // Tuesday

		_, err := svc.CreateLesson(context.Background(), CreateLessonParams{Principal: admin, Input: input})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if _, ok := vErr.FieldErrors["data"]; !ok {
			t.Fatalf("expected error on data, got %v", vErr.FieldErrors)
		}
	})

	t.Run("rejects a dangling professor reference", func(t *testing.T) {
		t.Parallel()

		repo := newLessonRepositoryStub()
		svc, _ := newLessonServiceForTest(repo, nil, 0, now, 0)

		input := baseLessonInput()
		input.ProfessorID = "prof-missing"

		_, err := svc.CreateLesson(context.Background(), CreateLessonParams{Principal: admin, Input: input})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if _, ok := vErr.FieldErrors["professorId"]; !ok {
			t.Fatalf("expected error on professorId, got %v", vErr.FieldErrors)
		}
	})
}

func recurringSeed(id, date, repetirID string) Lesson {
	return Lesson{
		ID:        id,
		Data:      date,
		Inicio:    "08:00",
		Fim:       "09:00",
		TipoTurma: TurmaExclusiva,
		Repetir:   true,
		RepetirID: repetirID,
	}
}

func TestLessonService_ListLessons(t *testing.T) {
	t.Parallel()

	staff := Principal{StaffID: "staff-1"}
	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	t.Run("tops a recurrence up to the horizon when listing a day", func(t *testing.T) {
		t.Parallel()

		seed := recurringSeed("l-1", "2026-01-05", "rep-1")
		seed.Atividade = "treino de saque"
		repo := newLessonRepositoryStub(seed, recurringSeed("l-2", "2026-01-12", "rep-1"))
		svc, _ := newLessonServiceForTest(repo, nil, 0, now, 2)

		lessons, err := svc.ListLessons(context.Background(), ListLessonsParams{
			Principal: staff,
			Period:    ListPeriodDia,
			Reference: "2026-01-05",
		})
		if err != nil {
			t.Fatalf("ListLessons failed: %v", err)
		}
		if len(lessons) != 1 {
			t.Fatalf("expected one lesson on the day, got %d", len(lessons))
		}

		// Horizon is 2026-01-19; the 2026-01-12 copy existed, so exactly one
		// new date must appear.
		all, err := repo.ListLessons(context.Background(), LessonFilter{RepetirID: "rep-1"})
		if err != nil {
			t.Fatalf("ListLessons failed: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("expected three occurrences after top-up, got %d", len(all))
		}
		last := all[len(all)-1]
		if last.Data != "2026-01-19" {
			t.Fatalf("expected new copy on 2026-01-19, got %s", last.Data)
		}
		if last.Atividade != "" {
			t.Fatalf("materialized copy must not inherit notes, got %q", last.Atividade)
		}
	})

	t.Run("listing the same day twice writes nothing new", func(t *testing.T) {
		t.Parallel()

		repo := newLessonRepositoryStub(recurringSeed("l-1", "2026-01-05", "rep-1"))
		svc, _ := newLessonServiceForTest(repo, nil, 0, now, 2)

		params := ListLessonsParams{Principal: staff, Period: ListPeriodDia, Reference: "2026-01-05"}
		if _, err := svc.ListLessons(context.Background(), params); err != nil {
			t.Fatalf("first ListLessons failed: %v", err)
		}
		countAfterFirst := len(repo.lessons)

		if _, err := svc.ListLessons(context.Background(), params); err != nil {
			t.Fatalf("second ListLessons failed: %v", err)
		}
		if len(repo.lessons) != countAfterFirst {
			t.Fatalf("expected idempotent top-up, count went from %d to %d", countAfterFirst, len(repo.lessons))
		}
	})

	t.Run("week period spans Sunday through Saturday", func(t *testing.T) {
		t.Parallel()

		repo := newLessonRepositoryStub(
			Lesson{ID: "l-1", Data: "2026-01-04", Inicio: "08:00"},
			Lesson{ID: "l-2", Data: "2026-01-10", Inicio: "08:00"},
			Lesson{ID: "l-3", Data: "2026-01-11", Inicio: "08:00"},
		)
		svc, _ := newLessonServiceForTest(repo, nil, 0, now, 0)

		lessons, err := svc.ListLessons(context.Background(), ListLessonsParams{
			Principal: staff,
			Period:    ListPeriodSemana,
			Reference: "2026-01-07",
		})
		if err != nil {
			t.Fatalf("ListLessons failed: %v", err)
		}
		if len(lessons) != 2 {
			t.Fatalf("expected two lessons in the week, got %d", len(lessons))
		}
		if lessons[0].ID != "l-1" || lessons[1].ID != "l-2" {
			t.Fatalf("unexpected week selection: %s, %s", lessons[0].ID, lessons[1].ID)
		}
	})

	t.Run("week and month listings do not materialize", func(t *testing.T) {
		t.Parallel()

		repo := newLessonRepositoryStub(recurringSeed("l-1", "2026-01-05", "rep-1"))
		svc, _ := newLessonServiceForTest(repo, nil, 0, now, 4)

		if _, err := svc.ListLessons(context.Background(), ListLessonsParams{
			Principal: staff,
			Period:    ListPeriodMes,
			Reference: "2026-01-05",
		}); err != nil {
			t.Fatalf("ListLessons failed: %v", err)
		}
		if len(repo.lessons) != 1 {
			t.Fatalf("expected no materialization outside day view, got %d lessons", len(repo.lessons))
		}
	})

	t.Run("rejects an unknown period", func(t *testing.T) {
		t.Parallel()

		repo := newLessonRepositoryStub()
		svc, _ := newLessonServiceForTest(repo, nil, 0, now, 0)

		_, err := svc.ListLessons(context.Background(), ListLessonsParams{
			Principal: staff,
			Period:    ListPeriod("ano"),
			Reference: "2026-01-05",
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if _, ok := vErr.FieldErrors["periodo"]; !ok {
			t.Fatalf("expected error on periodo, got %v", vErr.FieldErrors)
		}
	})

	t.Run("rejects a malformed reference date", func(t *testing.T) {
		t.Parallel()

		repo := newLessonRepositoryStub()
		svc, _ := newLessonServiceForTest(repo, nil, 0, now, 0)

		_, err := svc.ListLessons(context.Background(), ListLessonsParams{
			Principal: staff,
			Period:    ListPeriodDia,
			Reference: "05/01/2026",
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if _, ok := vErr.FieldErrors["referencia"]; !ok {
			t.Fatalf("expected error on referencia, got %v", vErr.FieldErrors)
		}
	})
}

func TestLessonService_UpdateLesson(t *testing.T) {
	t.Parallel()

	admin := Principal{StaffID: "staff-1", IsAdmin: true}
	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	seedSeries := func() *lessonRepositoryStub {
		past := recurringSeed("l-0", "2025-12-29", "rep-1")
		past.Atividade = "aquecimento"
		target := recurringSeed("l-1", "2026-01-05", "rep-1")
		future := recurringSeed("l-2", "2026-01-12", "rep-1")
		future.Observacoes = "trazer bolas novas"
		return newLessonRepositoryStub(past, target, future)
	}

	t.Run("this-and-future applies shared fields but keeps dates and notes", func(t *testing.T) {
		t.Parallel()

		repo := seedSeries()
		svc, _ := newLessonServiceForTest(repo, nil, 0, now, 0)

		input := baseLessonInput()
		input.Inicio = "10:00"
		input.Fim = "11:00"

		result, err := svc.UpdateLesson(context.Background(), UpdateLessonParams{
			Principal: admin,
			LessonID:  "l-1",
			Modo:      EditModeThisAndFuture,
			Input:     input,
		})
		if err != nil {
			t.Fatalf("UpdateLesson failed: %v", err)
		}
		if result.Inicio != "10:00" || result.RepetirID != "rep-1" {
			t.Fatalf("unexpected update result: %+v", result)
		}

		future := repo.lessons["l-2"]
		if future.Inicio != "10:00" || future.Fim != "11:00" {
			t.Fatalf("future sibling did not follow the edit: %s-%s", future.Inicio, future.Fim)
		}
		if future.Data != "2026-01-12" {
			t.Fatalf("future sibling must keep its own date, got %s", future.Data)
		}
		if future.Observacoes != "trazer bolas novas" {
			t.Fatalf("future sibling must keep its own notes, got %q", future.Observacoes)
		}

		past := repo.lessons["l-0"]
		if past.Inicio != "08:00" || past.Atividade != "aquecimento" {
			t.Fatalf("past sibling must stay untouched: %+v", past)
		}
	})

	t.Run("single mode leaves siblings alone", func(t *testing.T) {
		t.Parallel()

		repo := seedSeries()
		svc, _ := newLessonServiceForTest(repo, nil, 0, now, 0)

		input := baseLessonInput()
		input.Inicio = "10:00"
		input.Fim = "11:00"

		if _, err := svc.UpdateLesson(context.Background(), UpdateLessonParams{
			Principal: admin,
			LessonID:  "l-1",
			Modo:      EditModeSingle,
			Input:     input,
		}); err != nil {
			t.Fatalf("UpdateLesson failed: %v", err)
		}
		if repo.lessons["l-2"].Inicio != "08:00" {
			t.Fatalf("sibling must not change in single mode, got %s", repo.lessons["l-2"].Inicio)
		}
	})

	t.Run("rejects an unknown mode", func(t *testing.T) {
		t.Parallel()

		repo := seedSeries()
		svc, _ := newLessonServiceForTest(repo, nil, 0, now, 0)

		_, err := svc.UpdateLesson(context.Background(), UpdateLessonParams{
			Principal: admin,
			LessonID:  "l-1",
			Modo:      EditMode("todas"),
			Input:     baseLessonInput(),
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if _, ok := vErr.FieldErrors["modo"]; !ok {
			t.Fatalf("expected error on modo, got %v", vErr.FieldErrors)
		}
	})

	t.Run("keeps the recurrence identity of the target", func(t *testing.T) {
		t.Parallel()

		repo := seedSeries()
		svc, _ := newLessonServiceForTest(repo, nil, 0, now, 0)

		input := baseLessonInput()
		input.Repetir = false // callers cannot detach an occurrence via update

		result, err := svc.UpdateLesson(context.Background(), UpdateLessonParams{
			Principal: admin,
			LessonID:  "l-1",
			Modo:      EditModeSingle,
			Input:     input,
		})
		if err != nil {
			t.Fatalf("UpdateLesson failed: %v", err)
		}
		if !result.Repetir || result.RepetirID != "rep-1" {
			t.Fatalf("recurrence identity must survive updates: %+v", result)
		}
	})
}

func TestLessonService_DeleteLesson(t *testing.T) {
	t.Parallel()

	admin := Principal{StaffID: "staff-1", IsAdmin: true}
	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	seedSeries := func() *lessonRepositoryStub {
		return newLessonRepositoryStub(
			recurringSeed("l-0", "2025-12-29", "rep-1"),
			recurringSeed("l-1", "2026-01-05", "rep-1"),
			recurringSeed("l-2", "2026-01-12", "rep-1"),
		)
	}

	t.Run("this-and-future removes the occurrence and later siblings", func(t *testing.T) {
		t.Parallel()

		repo := seedSeries()
		svc, _ := newLessonServiceForTest(repo, nil, 0, now, 0)

		if err := svc.DeleteLesson(context.Background(), admin, "l-1", EditModeThisAndFuture); err != nil {
			t.Fatalf("DeleteLesson failed: %v", err)
		}
		if _, ok := repo.lessons["l-1"]; ok {
			t.Fatal("target must be deleted")
		}
		if _, ok := repo.lessons["l-2"]; ok {
			t.Fatal("future sibling must be deleted")
		}
		if _, ok := repo.lessons["l-0"]; !ok {
			t.Fatal("past sibling must survive")
		}
	})

	t.Run("single mode removes only the target", func(t *testing.T) {
		t.Parallel()

		repo := seedSeries()
		svc, _ := newLessonServiceForTest(repo, nil, 0, now, 0)

		if err := svc.DeleteLesson(context.Background(), admin, "l-1", EditModeSingle); err != nil {
			t.Fatalf("DeleteLesson failed: %v", err)
		}
		if len(repo.lessons) != 2 {
			t.Fatalf("expected two remaining lessons, got %d", len(repo.lessons))
		}
	})

	t.Run("deleting a missing lesson reports not found", func(t *testing.T) {
		t.Parallel()

		repo := newLessonRepositoryStub()
		svc, _ := newLessonServiceForTest(repo, nil, 0, now, 0)

		err := svc.DeleteLesson(context.Background(), admin, "ghost", EditModeSingle)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}
