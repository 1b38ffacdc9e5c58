package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/metodoleandrolobo/nexquadra-sub000/internal/persistence"
)

// LessonRepository implements persistence.LessonRepository using SQLite.
//
// Sibling occurrences of a recurring lesson are written one row at a time by
// the caller, never as a batch transaction: a failed insert must not undo
// siblings that were already materialized.
type LessonRepository struct {
	pool *ConnectionPool
}

func NewLessonRepository(pool *ConnectionPool) *LessonRepository {
	return &LessonRepository{pool: pool}
}

const lessonColumns = `id, data, inicio, fim, agenda_id, professor_id,
	local_id, modalidade_id, professor_nome, local_nome, modalidade_nome,
	aluno_ids, aluno_nomes, tipo_turma, capacidade, repetir, repetir_id,
	cobranca_categoria, cobranca_modo, cobranca_valor, atividade,
	observacoes, created_at, updated_at`

func (r *LessonRepository) CreateLesson(ctx context.Context, lesson persistence.Lesson) error {
	if lesson.ID == "" {
		return persistence.ErrConstraintViolation
	}

	alunoIDs, alunoNomes, err := encodeStudentLists(lesson)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO aulas (` + lessonColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.pool.db.ExecContext(ctx, query,
		lesson.ID,
		lesson.Data,
		lesson.Inicio,
		lesson.Fim,
		lesson.AgendaID,
		lesson.ProfessorID,
		lesson.LocalID,
		lesson.ModalidadeID,
		lesson.ProfessorNome,
		lesson.LocalNome,
		lesson.ModalidadeNome,
		alunoIDs,
		alunoNomes,
		lesson.TipoTurma,
		lesson.Capacidade,
		boolToInt(lesson.Repetir),
		lesson.RepetirID,
		lesson.CobrancaCategoria,
		lesson.CobrancaModo,
		lesson.CobrancaValor,
		lesson.Atividade,
		lesson.Observacoes,
		lesson.CreatedAt.UTC().Format(time.RFC3339),
		lesson.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return mapError(err)
}

func (r *LessonRepository) UpdateLesson(ctx context.Context, lesson persistence.Lesson) error {
	alunoIDs, alunoNomes, err := encodeStudentLists(lesson)
	if err != nil {
		return err
	}

	query := `
		UPDATE aulas
		SET data = ?, inicio = ?, fim = ?, agenda_id = ?, professor_id = ?,
			local_id = ?, modalidade_id = ?, professor_nome = ?, local_nome = ?,
			modalidade_nome = ?, aluno_ids = ?, aluno_nomes = ?, tipo_turma = ?,
			capacidade = ?, repetir = ?, repetir_id = ?, cobranca_categoria = ?,
			cobranca_modo = ?, cobranca_valor = ?, atividade = ?,
			observacoes = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.pool.db.ExecContext(ctx, query,
		lesson.Data,
		lesson.Inicio,
		lesson.Fim,
		lesson.AgendaID,
		lesson.ProfessorID,
		lesson.LocalID,
		lesson.ModalidadeID,
		lesson.ProfessorNome,
		lesson.LocalNome,
		lesson.ModalidadeNome,
		alunoIDs,
		alunoNomes,
		lesson.TipoTurma,
		lesson.Capacidade,
		boolToInt(lesson.Repetir),
		lesson.RepetirID,
		lesson.CobrancaCategoria,
		lesson.CobrancaModo,
		lesson.CobrancaValor,
		lesson.Atividade,
		lesson.Observacoes,
		lesson.UpdatedAt.UTC().Format(time.RFC3339),
		lesson.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

func (r *LessonRepository) GetLesson(ctx context.Context, id string) (persistence.Lesson, error) {
	if id == "" {
		return persistence.Lesson{}, persistence.ErrNotFound
	}
	row := r.pool.db.QueryRowContext(ctx,
		"SELECT "+lessonColumns+" FROM aulas WHERE id = ?", id)
	return scanLesson(row)
}

// ListLessons returns lessons matching the filter ordered by date then start
// time, the order day and week views render in.
func (r *LessonRepository) ListLessons(ctx context.Context, filter persistence.LessonFilter) ([]persistence.Lesson, error) {
	query := "SELECT " + lessonColumns + " FROM aulas WHERE 1=1"
	var args []any

	if filter.Date != "" {
		query += " AND data = ?"
		args = append(args, filter.Date)
	}
	if filter.DateFrom != "" {
		query += " AND data >= ?"
		args = append(args, filter.DateFrom)
	}
	if filter.DateTo != "" {
		query += " AND data <= ?"
		args = append(args, filter.DateTo)
	}
	if filter.AgendaID != "" {
		query += " AND agenda_id = ?"
		args = append(args, filter.AgendaID)
	}
	if filter.RepetirID != "" {
		query += " AND repetir_id = ?"
		args = append(args, filter.RepetirID)
		if filter.FromDate != "" {
			query += " AND data >= ?"
			args = append(args, filter.FromDate)
		}
	}
	query += " ORDER BY data ASC, inicio ASC, id ASC"

	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var lessons []persistence.Lesson
	for rows.Next() {
		lesson, err := scanLesson(rows)
		if err != nil {
			return nil, err
		}
		lessons = append(lessons, lesson)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return lessons, nil
}

func (r *LessonRepository) DeleteLesson(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}
	result, err := r.pool.db.ExecContext(ctx, "DELETE FROM aulas WHERE id = ?", id)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

func scanLesson(row rowScanner) (persistence.Lesson, error) {
	var (
		lesson               persistence.Lesson
		alunoIDs, alunoNomes string
		repetir              int
		createdAt, updatedAt string
	)
	err := row.Scan(
		&lesson.ID,
		&lesson.Data,
		&lesson.Inicio,
		&lesson.Fim,
		&lesson.AgendaID,
		&lesson.ProfessorID,
		&lesson.LocalID,
		&lesson.ModalidadeID,
		&lesson.ProfessorNome,
		&lesson.LocalNome,
		&lesson.ModalidadeNome,
		&alunoIDs,
		&alunoNomes,
		&lesson.TipoTurma,
		&lesson.Capacidade,
		&repetir,
		&lesson.RepetirID,
		&lesson.CobrancaCategoria,
		&lesson.CobrancaModo,
		&lesson.CobrancaValor,
		&lesson.Atividade,
		&lesson.Observacoes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Lesson{}, mapError(err)
	}

	lesson.Repetir = repetir != 0
	if err := json.Unmarshal([]byte(alunoIDs), &lesson.AlunoIDs); err != nil {
		return persistence.Lesson{}, fmt.Errorf("failed to decode aluno_ids: %w", err)
	}
	if err := json.Unmarshal([]byte(alunoNomes), &lesson.AlunoNomes); err != nil {
		return persistence.Lesson{}, fmt.Errorf("failed to decode aluno_nomes: %w", err)
	}

	if lesson.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.Lesson{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if lesson.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.Lesson{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return lesson, nil
}

func encodeStudentLists(lesson persistence.Lesson) (string, string, error) {
	ids := lesson.AlunoIDs
	if ids == nil {
		ids = []string{}
	}
	nomes := lesson.AlunoNomes
	if nomes == nil {
		nomes = []string{}
	}
	encodedIDs, err := json.Marshal(ids)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode aluno_ids: %w", err)
	}
	encodedNomes, err := json.Marshal(nomes)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode aluno_nomes: %w", err)
	}
	return string(encodedIDs), string(encodedNomes), nil
}
