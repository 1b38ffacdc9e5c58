package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/metodoleandrolobo/nexquadra-sub000/internal/persistence"
)

// Identity-key namespaces for catalog names. Each collection has its own
// namespace: a court and a modality may share a name, two courts may not.
const (
	keyLocal         = "local"
	keyModalidade    = "modalidade"
	keyPlanoCobranca = "plano-cobranca"
	keyPlanoAula     = "plano-aula"
)

// CatalogRepository implements the location, modality, billing-plan and
// lesson-plan repositories using SQLite.
type CatalogRepository struct {
	pool *ConnectionPool
}

func NewCatalogRepository(pool *ConnectionPool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// --- locations ---

func (r *CatalogRepository) CreateLocation(ctx context.Context, location persistence.Location) error {
	return r.createNamed(ctx, keyLocal, location.ID, location.Nome, `
		INSERT INTO locais (id, nome, descricao, ativo, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		location.ID, location.Nome, location.Descricao, boolToInt(location.Ativo),
		location.CreatedAt.UTC().Format(time.RFC3339),
		location.UpdatedAt.UTC().Format(time.RFC3339),
	)
}

func (r *CatalogRepository) UpdateLocation(ctx context.Context, location persistence.Location) error {
	return r.updateNamed(ctx, "locais", keyLocal, location.ID, location.Nome, `
		UPDATE locais SET nome = ?, descricao = ?, ativo = ?, updated_at = ?
		WHERE id = ?`,
		location.Nome, location.Descricao, boolToInt(location.Ativo),
		location.UpdatedAt.UTC().Format(time.RFC3339), location.ID,
	)
}

func (r *CatalogRepository) GetLocation(ctx context.Context, id string) (persistence.Location, error) {
	var item persistence.Location
	err := r.getNamed(ctx, "locais", id, func(row rowScanner) error {
		return scanNamedItem(row, &item.ID, &item.Nome, &item.Descricao, &item.Ativo, &item.CreatedAt, &item.UpdatedAt)
	})
	return item, err
}

func (r *CatalogRepository) ListLocations(ctx context.Context) ([]persistence.Location, error) {
	var items []persistence.Location
	err := r.listNamed(ctx, "locais", func(row rowScanner) error {
		var item persistence.Location
		if err := scanNamedItem(row, &item.ID, &item.Nome, &item.Descricao, &item.Ativo, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return err
		}
		items = append(items, item)
		return nil
	})
	return items, err
}

func (r *CatalogRepository) DeleteLocation(ctx context.Context, id string) error {
	return r.deleteNamed(ctx, "locais", id)
}

// --- modalities ---

func (r *CatalogRepository) CreateModality(ctx context.Context, modality persistence.Modality) error {
	return r.createNamed(ctx, keyModalidade, modality.ID, modality.Nome, `
		INSERT INTO modalidades (id, nome, descricao, ativo, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		modality.ID, modality.Nome, modality.Descricao, boolToInt(modality.Ativo),
		modality.CreatedAt.UTC().Format(time.RFC3339),
		modality.UpdatedAt.UTC().Format(time.RFC3339),
	)
}

func (r *CatalogRepository) UpdateModality(ctx context.Context, modality persistence.Modality) error {
	return r.updateNamed(ctx, "modalidades", keyModalidade, modality.ID, modality.Nome, `
		UPDATE modalidades SET nome = ?, descricao = ?, ativo = ?, updated_at = ?
		WHERE id = ?`,
		modality.Nome, modality.Descricao, boolToInt(modality.Ativo),
		modality.UpdatedAt.UTC().Format(time.RFC3339), modality.ID,
	)
}

func (r *CatalogRepository) GetModality(ctx context.Context, id string) (persistence.Modality, error) {
	var item persistence.Modality
	err := r.getNamed(ctx, "modalidades", id, func(row rowScanner) error {
		return scanNamedItem(row, &item.ID, &item.Nome, &item.Descricao, &item.Ativo, &item.CreatedAt, &item.UpdatedAt)
	})
	return item, err
}

func (r *CatalogRepository) ListModalities(ctx context.Context) ([]persistence.Modality, error) {
	var items []persistence.Modality
	err := r.listNamed(ctx, "modalidades", func(row rowScanner) error {
		var item persistence.Modality
		if err := scanNamedItem(row, &item.ID, &item.Nome, &item.Descricao, &item.Ativo, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return err
		}
		items = append(items, item)
		return nil
	})
	return items, err
}

func (r *CatalogRepository) DeleteModality(ctx context.Context, id string) error {
	return r.deleteNamed(ctx, "modalidades", id)
}

// --- billing plans ---

const billingPlanColumns = `id, nome, categoria, modo, valor, ativo, created_at, updated_at`

func (r *CatalogRepository) CreateBillingPlan(ctx context.Context, plan persistence.BillingPlan) error {
	return r.createNamed(ctx, keyPlanoCobranca, plan.ID, plan.Nome, `
		INSERT INTO planos_cobranca (`+billingPlanColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		plan.ID, plan.Nome, plan.Categoria, plan.Modo, plan.Valor, boolToInt(plan.Ativo),
		plan.CreatedAt.UTC().Format(time.RFC3339),
		plan.UpdatedAt.UTC().Format(time.RFC3339),
	)
}

func (r *CatalogRepository) UpdateBillingPlan(ctx context.Context, plan persistence.BillingPlan) error {
	return r.updateNamed(ctx, "planos_cobranca", keyPlanoCobranca, plan.ID, plan.Nome, `
		UPDATE planos_cobranca
		SET nome = ?, categoria = ?, modo = ?, valor = ?, ativo = ?, updated_at = ?
		WHERE id = ?`,
		plan.Nome, plan.Categoria, plan.Modo, plan.Valor, boolToInt(plan.Ativo),
		plan.UpdatedAt.UTC().Format(time.RFC3339), plan.ID,
	)
}

func (r *CatalogRepository) GetBillingPlan(ctx context.Context, id string) (persistence.BillingPlan, error) {
	if id == "" {
		return persistence.BillingPlan{}, persistence.ErrNotFound
	}
	row := r.pool.db.QueryRowContext(ctx,
		"SELECT "+billingPlanColumns+" FROM planos_cobranca WHERE id = ?", id)
	return scanBillingPlan(row)
}

func (r *CatalogRepository) ListBillingPlans(ctx context.Context) ([]persistence.BillingPlan, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		"SELECT "+billingPlanColumns+" FROM planos_cobranca ORDER BY nome ASC, id ASC")
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var plans []persistence.BillingPlan
	for rows.Next() {
		plan, err := scanBillingPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return plans, nil
}

func (r *CatalogRepository) DeleteBillingPlan(ctx context.Context, id string) error {
	return r.deleteNamed(ctx, "planos_cobranca", id)
}

func scanBillingPlan(row rowScanner) (persistence.BillingPlan, error) {
	var (
		plan                 persistence.BillingPlan
		ativo                int
		createdAt, updatedAt string
	)
	err := row.Scan(&plan.ID, &plan.Nome, &plan.Categoria, &plan.Modo, &plan.Valor,
		&ativo, &createdAt, &updatedAt)
	if err != nil {
		return persistence.BillingPlan{}, mapError(err)
	}
	plan.Ativo = ativo != 0
	if plan.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.BillingPlan{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if plan.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.BillingPlan{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return plan, nil
}

// --- lesson plans ---

const lessonPlanColumns = `id, nome, descricao, modalidade_id, ativo, created_at, updated_at`

func (r *CatalogRepository) CreateLessonPlan(ctx context.Context, plan persistence.LessonPlan) error {
	return r.createNamed(ctx, keyPlanoAula, plan.ID, plan.Nome, `
		INSERT INTO planos_aula (`+lessonPlanColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		plan.ID, plan.Nome, plan.Descricao, plan.ModalidadeID, boolToInt(plan.Ativo),
		plan.CreatedAt.UTC().Format(time.RFC3339),
		plan.UpdatedAt.UTC().Format(time.RFC3339),
	)
}

func (r *CatalogRepository) UpdateLessonPlan(ctx context.Context, plan persistence.LessonPlan) error {
	return r.updateNamed(ctx, "planos_aula", keyPlanoAula, plan.ID, plan.Nome, `
		UPDATE planos_aula
		SET nome = ?, descricao = ?, modalidade_id = ?, ativo = ?, updated_at = ?
		WHERE id = ?`,
		plan.Nome, plan.Descricao, plan.ModalidadeID, boolToInt(plan.Ativo),
		plan.UpdatedAt.UTC().Format(time.RFC3339), plan.ID,
	)
}

func (r *CatalogRepository) GetLessonPlan(ctx context.Context, id string) (persistence.LessonPlan, error) {
	if id == "" {
		return persistence.LessonPlan{}, persistence.ErrNotFound
	}
	row := r.pool.db.QueryRowContext(ctx,
		"SELECT "+lessonPlanColumns+" FROM planos_aula WHERE id = ?", id)
	return scanLessonPlan(row)
}

func (r *CatalogRepository) ListLessonPlans(ctx context.Context) ([]persistence.LessonPlan, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		"SELECT "+lessonPlanColumns+" FROM planos_aula ORDER BY nome ASC, id ASC")
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var plans []persistence.LessonPlan
	for rows.Next() {
		plan, err := scanLessonPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return plans, nil
}

func (r *CatalogRepository) DeleteLessonPlan(ctx context.Context, id string) error {
	return r.deleteNamed(ctx, "planos_aula", id)
}

func scanLessonPlan(row rowScanner) (persistence.LessonPlan, error) {
	var (
		plan                 persistence.LessonPlan
		ativo                int
		createdAt, updatedAt string
	)
	err := row.Scan(&plan.ID, &plan.Nome, &plan.Descricao, &plan.ModalidadeID,
		&ativo, &createdAt, &updatedAt)
	if err != nil {
		return persistence.LessonPlan{}, mapError(err)
	}
	plan.Ativo = ativo != 0
	if plan.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.LessonPlan{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if plan.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.LessonPlan{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return plan, nil
}

// --- shared plumbing ---

// createNamed reserves the collection-scoped name and inserts the row in one
// transaction.
func (r *CatalogRepository) createNamed(ctx context.Context, namespace, id, nome, query string, args ...any) error {
	if id == "" {
		return persistence.ErrConstraintViolation
	}
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := reserveKey(tx, namespace, nome, id, "nome"); err != nil {
			return err
		}
		if _, err := tx.Exec(query, args...); err != nil {
			return mapError(err)
		}
		return nil
	})
}

func (r *CatalogRepository) updateNamed(ctx context.Context, table, namespace, id, nome, query string, args ...any) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var currentNome string
		err := tx.QueryRow("SELECT nome FROM "+table+" WHERE id = ?", id).Scan(&currentNome)
		if err != nil {
			return mapError(err)
		}
		if err := swapKey(tx, namespace, currentNome, nome, id, "nome"); err != nil {
			return err
		}
		if _, err := tx.Exec(query, args...); err != nil {
			return mapError(err)
		}
		return nil
	})
}

func (r *CatalogRepository) getNamed(ctx context.Context, table, id string, scan func(rowScanner) error) error {
	if id == "" {
		return persistence.ErrNotFound
	}
	row := r.pool.db.QueryRowContext(ctx,
		"SELECT id, nome, descricao, ativo, created_at, updated_at FROM "+table+" WHERE id = ?", id)
	return scan(row)
}

func (r *CatalogRepository) listNamed(ctx context.Context, table string, scan func(rowScanner) error) error {
	rows, err := r.pool.db.QueryContext(ctx,
		"SELECT id, nome, descricao, ativo, created_at, updated_at FROM "+table+" ORDER BY nome ASC, id ASC")
	if err != nil {
		return mapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return mapError(rows.Err())
}

func (r *CatalogRepository) deleteNamed(ctx context.Context, table, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := releaseAllKeys(tx, id); err != nil {
			return err
		}
		result, err := tx.Exec("DELETE FROM "+table+" WHERE id = ?", id)
		if err != nil {
			return mapError(err)
		}
		return requireRowAffected(result)
	})
}

// scanNamedItem fills the shared {id, nome, descricao, ativo, timestamps}
// shape used by locations and modalities.
func scanNamedItem(row rowScanner, id, nome, descricao *string, ativo *bool, createdAt, updatedAt *time.Time) error {
	var (
		activeInt      int
		created, updat string
	)
	if err := row.Scan(id, nome, descricao, &activeInt, &created, &updat); err != nil {
		return mapError(err)
	}
	*ativo = activeInt != 0

	var err error
	if *createdAt, err = time.Parse(time.RFC3339, created); err != nil {
		return fmt.Errorf("failed to parse created_at: %w", err)
	}
	if *updatedAt, err = time.Parse(time.RFC3339, updat); err != nil {
		return fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return nil
}
