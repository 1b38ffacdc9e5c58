package testfixtures

import (
	"context"
	"testing"
	"time"
)

func TestFixturesAreDeterministicAndDistinct(t *testing.T) {
	first := NewStaffFixture()
	second := NewStaffFixture(WithStaffAdmin(), WithStaffPasswordHash("hash"))

	if first.ID == second.ID {
		t.Fatalf("staff fixtures share the ID %q", first.ID)
	}
	if first.Email == second.Email || first.CPF == second.CPF {
		t.Errorf("staff fixtures share identity fields: %+v vs %+v", first, second)
	}
	if !second.Admin || second.PasswordHash != "hash" {
		t.Errorf("options not applied: %+v", second)
	}

	if ReferenceTime().Weekday() != time.Monday {
		t.Errorf("ReferenceTime falls on %v, want Monday", ReferenceTime().Weekday())
	}
}

func TestLessonFixtureOptions(t *testing.T) {
	lesson := NewLessonFixture(
		WithLessonDate("2026-02-02"),
		WithLessonSeries("rep-1"),
		WithLessonStudents([]string{"aluno-1", "aluno-2"}, []string{"Ana", "Bruno"}),
	)

	if lesson.Data != "2026-02-02" {
		t.Errorf("Data = %q, want 2026-02-02", lesson.Data)
	}
	if !lesson.Repetir || lesson.RepetirID != "rep-1" {
		t.Errorf("series = (%v, %q), want (true, rep-1)", lesson.Repetir, lesson.RepetirID)
	}
	if lesson.TipoTurma != "compartilhada" || lesson.Capacidade < 2 {
		t.Errorf("enrollment = (%q, %d), want shared with capacity >= 2", lesson.TipoTurma, lesson.Capacidade)
	}
}

func TestSQLiteHarnessRoundTrip(t *testing.T) {
	harness := NewSQLiteHarness(t, nil)
	ctx := context.Background()

	guardian := NewGuardianFixture()
	if err := harness.People.CreateGuardian(ctx, guardian); err != nil {
		t.Fatalf("CreateGuardian returned error: %v", err)
	}

	student := NewStudentFixture(WithStudentGuardian(guardian.ID))
	if err := harness.People.CreateStudent(ctx, student); err != nil {
		t.Fatalf("CreateStudent returned error: %v", err)
	}

	stored, err := harness.People.GetStudent(ctx, student.ID)
	if err != nil {
		t.Fatalf("GetStudent returned error: %v", err)
	}
	if stored.ResponsavelID != guardian.ID {
		t.Errorf("ResponsavelID = %q, want %q", stored.ResponsavelID, guardian.ID)
	}

	agendaFixture := NewAgendaFixture()
	if err := harness.Agendas.CreateAgenda(ctx, agendaFixture); err != nil {
		t.Fatalf("CreateAgenda returned error: %v", err)
	}

	lesson := NewLessonFixture(WithLessonAgenda(agendaFixture.ID))
	if err := harness.Lessons.CreateLesson(ctx, lesson); err != nil {
		t.Fatalf("CreateLesson returned error: %v", err)
	}

	fetched, err := harness.Lessons.GetLesson(ctx, lesson.ID)
	if err != nil {
		t.Fatalf("GetLesson returned error: %v", err)
	}
	if fetched.AgendaID != agendaFixture.ID {
		t.Errorf("AgendaID = %q, want %q", fetched.AgendaID, agendaFixture.ID)
	}
}
