package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/metodoleandrolobo/nexquadra-sub000/internal/persistence"
)

// Identity-key namespaces. Email and CPF are shared across students,
// guardians and staff so the same value can never be registered twice
// anywhere, matching how the front office treats contact data.
const (
	keyEmail = "email"
	keyCPF   = "cpf"
)

// PeopleRepository implements the student, guardian and staff repositories
// using SQLite. Every write that touches an email or CPF reserves the value
// in identity_keys inside the same transaction as the entity row.
type PeopleRepository struct {
	pool *ConnectionPool
}

func NewPeopleRepository(pool *ConnectionPool) *PeopleRepository {
	return &PeopleRepository{pool: pool}
}

// --- students ---

const studentColumns = `id, nome, email, cpf, telefone, data_nasc,
	responsavel_id, endereco, ativo, created_at, updated_at`

func (r *PeopleRepository) CreateStudent(ctx context.Context, student persistence.Student) error {
	if student.ID == "" {
		return persistence.ErrConstraintViolation
	}
	endereco, err := encodeAddress(student.Endereco)
	if err != nil {
		return err
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := reserveKey(tx, keyEmail, student.Email, student.ID, "email"); err != nil {
			return err
		}
		if err := reserveKey(tx, keyCPF, student.CPF, student.ID, "cpf"); err != nil {
			return err
		}
		_, err := tx.Exec(`
			INSERT INTO alunos (`+studentColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			student.ID,
			student.Nome,
			student.Email,
			student.CPF,
			student.Telefone,
			student.DataNasc,
			student.ResponsavelID,
			endereco,
			boolToInt(student.Ativo),
			student.CreatedAt.UTC().Format(time.RFC3339),
			student.UpdatedAt.UTC().Format(time.RFC3339),
		)
		return mapError(err)
	})
}

func (r *PeopleRepository) UpdateStudent(ctx context.Context, student persistence.Student) error {
	endereco, err := encodeAddress(student.Endereco)
	if err != nil {
		return err
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var currentEmail, currentCPF string
		err := tx.QueryRow("SELECT email, cpf FROM alunos WHERE id = ?", student.ID).
			Scan(&currentEmail, &currentCPF)
		if err != nil {
			return mapError(err)
		}
		if err := swapKey(tx, keyEmail, currentEmail, student.Email, student.ID, "email"); err != nil {
			return err
		}
		if err := swapKey(tx, keyCPF, currentCPF, student.CPF, student.ID, "cpf"); err != nil {
			return err
		}

		_, err = tx.Exec(`
			UPDATE alunos
			SET nome = ?, email = ?, cpf = ?, telefone = ?, data_nasc = ?,
				responsavel_id = ?, endereco = ?, ativo = ?, updated_at = ?
			WHERE id = ?`,
			student.Nome,
			student.Email,
			student.CPF,
			student.Telefone,
			student.DataNasc,
			student.ResponsavelID,
			endereco,
			boolToInt(student.Ativo),
			student.UpdatedAt.UTC().Format(time.RFC3339),
			student.ID,
		)
		return mapError(err)
	})
}

func (r *PeopleRepository) GetStudent(ctx context.Context, id string) (persistence.Student, error) {
	if id == "" {
		return persistence.Student{}, persistence.ErrNotFound
	}
	row := r.pool.db.QueryRowContext(ctx,
		"SELECT "+studentColumns+" FROM alunos WHERE id = ?", id)
	return scanStudent(row)
}

func (r *PeopleRepository) ListStudents(ctx context.Context) ([]persistence.Student, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		"SELECT "+studentColumns+" FROM alunos ORDER BY nome ASC, id ASC")
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var students []persistence.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return students, nil
}

func (r *PeopleRepository) DeleteStudent(ctx context.Context, id string) error {
	return r.deletePerson(ctx, "alunos", id)
}

func scanStudent(row rowScanner) (persistence.Student, error) {
	var (
		student              persistence.Student
		endereco             string
		ativo                int
		createdAt, updatedAt string
	)
	err := row.Scan(
		&student.ID,
		&student.Nome,
		&student.Email,
		&student.CPF,
		&student.Telefone,
		&student.DataNasc,
		&student.ResponsavelID,
		&endereco,
		&ativo,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Student{}, mapError(err)
	}
	student.Ativo = ativo != 0
	if err := json.Unmarshal([]byte(endereco), &student.Endereco); err != nil {
		return persistence.Student{}, fmt.Errorf("failed to decode endereco: %w", err)
	}
	if student.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.Student{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if student.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.Student{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return student, nil
}

// --- guardians ---

const guardianColumns = `id, nome, email, cpf, telefone, endereco, ativo,
	created_at, updated_at`

func (r *PeopleRepository) CreateGuardian(ctx context.Context, guardian persistence.Guardian) error {
	if guardian.ID == "" {
		return persistence.ErrConstraintViolation
	}
	endereco, err := encodeAddress(guardian.Endereco)
	if err != nil {
		return err
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := reserveKey(tx, keyEmail, guardian.Email, guardian.ID, "email"); err != nil {
			return err
		}
		if err := reserveKey(tx, keyCPF, guardian.CPF, guardian.ID, "cpf"); err != nil {
			return err
		}
		_, err := tx.Exec(`
			INSERT INTO responsaveis (`+guardianColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			guardian.ID,
			guardian.Nome,
			guardian.Email,
			guardian.CPF,
			guardian.Telefone,
			endereco,
			boolToInt(guardian.Ativo),
			guardian.CreatedAt.UTC().Format(time.RFC3339),
			guardian.UpdatedAt.UTC().Format(time.RFC3339),
		)
		return mapError(err)
	})
}

func (r *PeopleRepository) UpdateGuardian(ctx context.Context, guardian persistence.Guardian) error {
	endereco, err := encodeAddress(guardian.Endereco)
	if err != nil {
		return err
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var currentEmail, currentCPF string
		err := tx.QueryRow("SELECT email, cpf FROM responsaveis WHERE id = ?", guardian.ID).
			Scan(&currentEmail, &currentCPF)
		if err != nil {
			return mapError(err)
		}
		if err := swapKey(tx, keyEmail, currentEmail, guardian.Email, guardian.ID, "email"); err != nil {
			return err
		}
		if err := swapKey(tx, keyCPF, currentCPF, guardian.CPF, guardian.ID, "cpf"); err != nil {
			return err
		}

		_, err = tx.Exec(`
			UPDATE responsaveis
			SET nome = ?, email = ?, cpf = ?, telefone = ?, endereco = ?,
				ativo = ?, updated_at = ?
			WHERE id = ?`,
			guardian.Nome,
			guardian.Email,
			guardian.CPF,
			guardian.Telefone,
			endereco,
			boolToInt(guardian.Ativo),
			guardian.UpdatedAt.UTC().Format(time.RFC3339),
			guardian.ID,
		)
		return mapError(err)
	})
}

func (r *PeopleRepository) GetGuardian(ctx context.Context, id string) (persistence.Guardian, error) {
	if id == "" {
		return persistence.Guardian{}, persistence.ErrNotFound
	}
	row := r.pool.db.QueryRowContext(ctx,
		"SELECT "+guardianColumns+" FROM responsaveis WHERE id = ?", id)
	return scanGuardian(row)
}

func (r *PeopleRepository) ListGuardians(ctx context.Context) ([]persistence.Guardian, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		"SELECT "+guardianColumns+" FROM responsaveis ORDER BY nome ASC, id ASC")
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var guardians []persistence.Guardian
	for rows.Next() {
		guardian, err := scanGuardian(rows)
		if err != nil {
			return nil, err
		}
		guardians = append(guardians, guardian)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return guardians, nil
}

func (r *PeopleRepository) DeleteGuardian(ctx context.Context, id string) error {
	return r.deletePerson(ctx, "responsaveis", id)
}

func scanGuardian(row rowScanner) (persistence.Guardian, error) {
	var (
		guardian             persistence.Guardian
		endereco             string
		ativo                int
		createdAt, updatedAt string
	)
	err := row.Scan(
		&guardian.ID,
		&guardian.Nome,
		&guardian.Email,
		&guardian.CPF,
		&guardian.Telefone,
		&endereco,
		&ativo,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Guardian{}, mapError(err)
	}
	guardian.Ativo = ativo != 0
	if err := json.Unmarshal([]byte(endereco), &guardian.Endereco); err != nil {
		return persistence.Guardian{}, fmt.Errorf("failed to decode endereco: %w", err)
	}
	if guardian.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.Guardian{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if guardian.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.Guardian{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return guardian, nil
}

// --- staff ---

const staffColumns = `id, nome, email, cpf, telefone, funcao, admin, ativo,
	password_hash, created_at, updated_at`

func (r *PeopleRepository) CreateStaff(ctx context.Context, staff persistence.StaffMember) error {
	if staff.ID == "" {
		return persistence.ErrConstraintViolation
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := reserveKey(tx, keyEmail, staff.Email, staff.ID, "email"); err != nil {
			return err
		}
		if err := reserveKey(tx, keyCPF, staff.CPF, staff.ID, "cpf"); err != nil {
			return err
		}
		_, err := tx.Exec(`
			INSERT INTO equipe (`+staffColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			staff.ID,
			staff.Nome,
			staff.Email,
			staff.CPF,
			staff.Telefone,
			staff.Funcao,
			boolToInt(staff.Admin),
			boolToInt(staff.Ativo),
			staff.PasswordHash,
			staff.CreatedAt.UTC().Format(time.RFC3339),
			staff.UpdatedAt.UTC().Format(time.RFC3339),
		)
		return mapError(err)
	})
}

func (r *PeopleRepository) UpdateStaff(ctx context.Context, staff persistence.StaffMember) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var currentEmail, currentCPF string
		err := tx.QueryRow("SELECT email, cpf FROM equipe WHERE id = ?", staff.ID).
			Scan(&currentEmail, &currentCPF)
		if err != nil {
			return mapError(err)
		}
		if err := swapKey(tx, keyEmail, currentEmail, staff.Email, staff.ID, "email"); err != nil {
			return err
		}
		if err := swapKey(tx, keyCPF, currentCPF, staff.CPF, staff.ID, "cpf"); err != nil {
			return err
		}

		_, err = tx.Exec(`
			UPDATE equipe
			SET nome = ?, email = ?, cpf = ?, telefone = ?, funcao = ?,
				admin = ?, ativo = ?, password_hash = ?, updated_at = ?
			WHERE id = ?`,
			staff.Nome,
			staff.Email,
			staff.CPF,
			staff.Telefone,
			staff.Funcao,
			boolToInt(staff.Admin),
			boolToInt(staff.Ativo),
			staff.PasswordHash,
			staff.UpdatedAt.UTC().Format(time.RFC3339),
			staff.ID,
		)
		return mapError(err)
	})
}

func (r *PeopleRepository) GetStaff(ctx context.Context, id string) (persistence.StaffMember, error) {
	if id == "" {
		return persistence.StaffMember{}, persistence.ErrNotFound
	}
	row := r.pool.db.QueryRowContext(ctx,
		"SELECT "+staffColumns+" FROM equipe WHERE id = ?", id)
	return scanStaff(row)
}

// GetStaffByCPF resolves a staff member for login. Lookup goes through the
// identity key so it shares the normalization applied on write.
func (r *PeopleRepository) GetStaffByCPF(ctx context.Context, cpf string) (persistence.StaffMember, error) {
	var ownerID string
	err := r.pool.db.QueryRowContext(ctx,
		"SELECT dono_id FROM identity_keys WHERE chave = ?",
		identityKey(keyCPF, cpf),
	).Scan(&ownerID)
	if err != nil {
		return persistence.StaffMember{}, mapError(err)
	}
	return r.GetStaff(ctx, ownerID)
}

func (r *PeopleRepository) ListStaff(ctx context.Context) ([]persistence.StaffMember, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		"SELECT "+staffColumns+" FROM equipe ORDER BY nome ASC, id ASC")
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var members []persistence.StaffMember
	for rows.Next() {
		member, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return members, nil
}

func (r *PeopleRepository) DeleteStaff(ctx context.Context, id string) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := releaseAllKeys(tx, id); err != nil {
			return err
		}
		// Revoking sessions here keeps a deleted member out of the panel
		// immediately instead of waiting for token expiry.
		if _, err := tx.Exec(
			"UPDATE sessions SET revoked_at = created_at WHERE staff_id = ? AND revoked_at IS NULL", id,
		); err != nil {
			return mapError(err)
		}
		result, err := tx.Exec("DELETE FROM equipe WHERE id = ?", id)
		if err != nil {
			return mapError(err)
		}
		return requireRowAffected(result)
	})
}

func scanStaff(row rowScanner) (persistence.StaffMember, error) {
	var (
		staff                persistence.StaffMember
		admin, ativo         int
		createdAt, updatedAt string
	)
	err := row.Scan(
		&staff.ID,
		&staff.Nome,
		&staff.Email,
		&staff.CPF,
		&staff.Telefone,
		&staff.Funcao,
		&admin,
		&ativo,
		&staff.PasswordHash,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.StaffMember{}, mapError(err)
	}
	staff.Admin = admin != 0
	staff.Ativo = ativo != 0
	if staff.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.StaffMember{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if staff.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.StaffMember{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return staff, nil
}

// deletePerson removes a person row together with its identity keys.
func (r *PeopleRepository) deletePerson(ctx context.Context, table, id string) error {
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

func encodeAddress(address persistence.Address) (string, error) {
	raw, err := json.Marshal(address)
	if err != nil {
		return "", fmt.Errorf("failed to encode endereco: %w", err)
	}
	return string(raw), nil
}
