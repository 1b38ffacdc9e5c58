package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/metodoleandrolobo/nexquadra-sub000/internal/persistence"
)

func seedLesson(t *testing.T, repo *LessonRepository, id, data, inicio, repetirID string) {
	t.Helper()
	created := testTime(t, "2024-01-01T08:00:00Z")
	lesson := persistence.Lesson{
		ID:         id,
		Data:       data,
		Inicio:     inicio,
		Fim:        "23:59",
		AgendaID:   "agenda-1",
		AlunoIDs:   []string{"aluno-1"},
		AlunoNomes: []string{"Ana Souza"},
		TipoTurma:  "exclusiva",
		Capacidade: 1,
		Repetir:    repetirID != "",
		RepetirID:  repetirID,
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	if err := repo.CreateLesson(context.Background(), lesson); err != nil {
		t.Fatalf("failed to seed lesson %s: %v", id, err)
	}
}

func lessonIDs(lessons []persistence.Lesson) []string {
	ids := make([]string, len(lessons))
	for i, lesson := range lessons {
		ids[i] = lesson.ID
	}
	return ids
}

func TestListLessonsFilters(t *testing.T) {
	pool := newTestPool(t)
	repo := NewLessonRepository(pool)
	ctx := context.Background()

	seedLesson(t, repo, "aula-1", "2024-01-08", "09:00", "rec-1")
	seedLesson(t, repo, "aula-2", "2024-01-08", "07:00", "")
	seedLesson(t, repo, "aula-3", "2024-01-15", "09:00", "rec-1")
	seedLesson(t, repo, "aula-4", "2024-01-22", "09:00", "rec-1")

	t.Run("by day ordered by start time", func(t *testing.T) {
		lessons, err := repo.ListLessons(ctx, persistence.LessonFilter{Date: "2024-01-08"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := lessonIDs(lessons)
		if len(got) != 2 || got[0] != "aula-2" || got[1] != "aula-1" {
			t.Fatalf("unexpected day listing: %v", got)
		}
	})

	t.Run("by inclusive date range", func(t *testing.T) {
		lessons, err := repo.ListLessons(ctx, persistence.LessonFilter{
			DateFrom: "2024-01-08", DateTo: "2024-01-15",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(lessons) != 3 {
			t.Fatalf("expected 3 lessons in range, got %v", lessonIDs(lessons))
		}
	})

	t.Run("recurrence from a date selects this and future", func(t *testing.T) {
		lessons, err := repo.ListLessons(ctx, persistence.LessonFilter{
			RepetirID: "rec-1", FromDate: "2024-01-15",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := lessonIDs(lessons)
		if len(got) != 2 || got[0] != "aula-3" || got[1] != "aula-4" {
			t.Fatalf("unexpected recurrence selection: %v", got)
		}
	})

	t.Run("by agenda", func(t *testing.T) {
		lessons, err := repo.ListLessons(ctx, persistence.LessonFilter{
			AgendaID: "agenda-1", Date: "2024-01-22",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(lessons) != 1 || lessons[0].ID != "aula-4" {
			t.Fatalf("unexpected agenda listing: %v", lessonIDs(lessons))
		}
	})
}

func TestLessonRoundTrip(t *testing.T) {
	pool := newTestPool(t)
	repo := NewLessonRepository(pool)
	ctx := context.Background()
	created := testTime(t, "2024-01-01T08:00:00Z")

	lesson := persistence.Lesson{
		ID:                "aula-1",
		Data:              "2024-03-04",
		Inicio:            "09:00",
		Fim:               "10:00",
		ProfessorID:       "prof-1",
		ProfessorNome:     "Leandro Lobo",
		AlunoIDs:          []string{"aluno-1", "aluno-2"},
		AlunoNomes:        []string{"Ana Souza", "Bruno Lima"},
		TipoTurma:         "compartilhada",
		Capacidade:        4,
		Repetir:           true,
		RepetirID:         "rec-9",
		CobrancaCategoria: "aula",
		CobrancaModo:      "mensal",
		CobrancaValor:     180,
		Atividade:         "Saque e devolução",
		Observacoes:       "Trazer bolas novas",
		CreatedAt:         created,
		UpdatedAt:         created,
	}
	if err := repo.CreateLesson(ctx, lesson); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := repo.GetLesson(ctx, "aula-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(loaded.AlunoIDs) != 2 || loaded.AlunoIDs[1] != "aluno-2" {
		t.Fatalf("unexpected aluno_ids: %v", loaded.AlunoIDs)
	}
	if loaded.CobrancaValor != 180 || loaded.Atividade != "Saque e devolução" {
		t.Fatalf("unexpected lesson: %+v", loaded)
	}
	if !loaded.Repetir || loaded.RepetirID != "rec-9" {
		t.Fatalf("expected recurrence fields to persist: %+v", loaded)
	}

	if err := repo.DeleteLesson(ctx, "aula-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := repo.GetLesson(ctx, "aula-1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
