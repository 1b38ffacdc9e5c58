package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/metodoleandrolobo/nexquadra-sub000/internal/persistence"
)

// AgendaRepository implements persistence.AgendaRepository using SQLite.
type AgendaRepository struct {
	pool *ConnectionPool
}

func NewAgendaRepository(pool *ConnectionPool) *AgendaRepository {
	return &AgendaRepository{pool: pool}
}

const agendaColumns = `id, nome, tipo, publica, ativa, professor_id, local_id,
	modalidade_id, inicio, fim, intervalo_minutos, dias_semana, dias,
	created_at, updated_at`

// CreateAgenda inserts a new agenda. The per-weekday list is stored verbatim
// as JSON so a later read returns exactly what was written.
func (r *AgendaRepository) CreateAgenda(ctx context.Context, agenda persistence.Agenda) error {
	if agenda.ID == "" {
		return persistence.ErrConstraintViolation
	}

	diasSemana, dias, err := encodeAgendaDays(agenda)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO agendas (` + agendaColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.pool.db.ExecContext(ctx, query,
		agenda.ID,
		agenda.Nome,
		agenda.Tipo,
		boolToInt(agenda.Publica),
		boolToInt(agenda.Ativa),
		agenda.ProfessorID,
		agenda.LocalID,
		agenda.ModalidadeID,
		agenda.Inicio,
		agenda.Fim,
		agenda.IntervaloMinutos,
		diasSemana,
		dias,
		agenda.CreatedAt.UTC().Format(time.RFC3339),
		agenda.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return mapError(err)
}

// UpdateAgenda rewrites an existing agenda.
func (r *AgendaRepository) UpdateAgenda(ctx context.Context, agenda persistence.Agenda) error {
	diasSemana, dias, err := encodeAgendaDays(agenda)
	if err != nil {
		return err
	}

	query := `
		UPDATE agendas
		SET nome = ?, tipo = ?, publica = ?, ativa = ?, professor_id = ?,
			local_id = ?, modalidade_id = ?, inicio = ?, fim = ?,
			intervalo_minutos = ?, dias_semana = ?, dias = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.pool.db.ExecContext(ctx, query,
		agenda.Nome,
		agenda.Tipo,
		boolToInt(agenda.Publica),
		boolToInt(agenda.Ativa),
		agenda.ProfessorID,
		agenda.LocalID,
		agenda.ModalidadeID,
		agenda.Inicio,
		agenda.Fim,
		agenda.IntervaloMinutos,
		diasSemana,
		dias,
		agenda.UpdatedAt.UTC().Format(time.RFC3339),
		agenda.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

// GetAgenda retrieves an agenda by ID.
func (r *AgendaRepository) GetAgenda(ctx context.Context, id string) (persistence.Agenda, error) {
	if id == "" {
		return persistence.Agenda{}, persistence.ErrNotFound
	}
	row := r.pool.db.QueryRowContext(ctx,
		"SELECT "+agendaColumns+" FROM agendas WHERE id = ?", id)
	return scanAgenda(row)
}

// ListAgendas returns every agenda ordered by name then ID.
func (r *AgendaRepository) ListAgendas(ctx context.Context) ([]persistence.Agenda, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		"SELECT "+agendaColumns+" FROM agendas ORDER BY nome ASC, id ASC")
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var agendas []persistence.Agenda
	for rows.Next() {
		agenda, err := scanAgenda(rows)
		if err != nil {
			return nil, err
		}
		agendas = append(agendas, agenda)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return agendas, nil
}

// DeleteAgenda removes an agenda. Lessons keep their agenda_id reference;
// they remain valid standalone records.
func (r *AgendaRepository) DeleteAgenda(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}
	result, err := r.pool.db.ExecContext(ctx, "DELETE FROM agendas WHERE id = ?", id)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAgenda(row rowScanner) (persistence.Agenda, error) {
	var (
		agenda               persistence.Agenda
		publica, ativa       int
		diasSemana           string
		dias                 sql.NullString
		createdAt, updatedAt string
	)
	err := row.Scan(
		&agenda.ID,
		&agenda.Nome,
		&agenda.Tipo,
		&publica,
		&ativa,
		&agenda.ProfessorID,
		&agenda.LocalID,
		&agenda.ModalidadeID,
		&agenda.Inicio,
		&agenda.Fim,
		&agenda.IntervaloMinutos,
		&diasSemana,
		&dias,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Agenda{}, mapError(err)
	}

	agenda.Publica = publica != 0
	agenda.Ativa = ativa != 0

	if err := json.Unmarshal([]byte(diasSemana), &agenda.DiasSemana); err != nil {
		return persistence.Agenda{}, fmt.Errorf("failed to decode dias_semana: %w", err)
	}
	if dias.Valid {
		if err := json.Unmarshal([]byte(dias.String), &agenda.Dias); err != nil {
			return persistence.Agenda{}, fmt.Errorf("failed to decode dias: %w", err)
		}
	}

	if agenda.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.Agenda{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if agenda.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.Agenda{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return agenda, nil
}

// encodeAgendaDays serializes the weekday structures. A nil Dias list is
// stored as NULL to keep the legacy shape distinguishable from an explicit
// seven-entry list.
func encodeAgendaDays(agenda persistence.Agenda) (string, any, error) {
	diasSemana := agenda.DiasSemana
	if diasSemana == nil {
		diasSemana = []int{}
	}
	encodedWeekdays, err := json.Marshal(diasSemana)
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode dias_semana: %w", err)
	}

	var encodedDias any
	if agenda.Dias != nil {
		raw, err := json.Marshal(agenda.Dias)
		if err != nil {
			return "", nil, fmt.Errorf("failed to encode dias: %w", err)
		}
		encodedDias = string(raw)
	}
	return string(encodedWeekdays), encodedDias, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func requireRowAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}
