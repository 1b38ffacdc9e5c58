package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/metodoleandrolobo/nexquadra-sub000/internal/persistence"
)

func TestEmailAndCPFAreUniqueAcrossPeople(t *testing.T) {
	pool := newTestPool(t)
	repo := NewPeopleRepository(pool)
	ctx := context.Background()
	created := testTime(t, "2024-05-01T10:00:00Z")

	student := persistence.Student{
		ID: "aluno-1", Nome: "Ana Souza",
		Email: "ana@exemplo.com.br", CPF: "11122233344",
		Ativo: true, CreatedAt: created, UpdatedAt: created,
	}
	if err := repo.CreateStudent(ctx, student); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("same email on a guardian is rejected", func(t *testing.T) {
		guardian := persistence.Guardian{
			ID: "resp-1", Nome: "Carlos Souza",
			Email: "ANA@exemplo.com.br", CPF: "55566677788",
			Ativo: true, CreatedAt: created, UpdatedAt: created,
		}
		err := repo.CreateGuardian(ctx, guardian)
		var dup *persistence.DuplicateError
		if !errors.As(err, &dup) || dup.Field != "email" {
			t.Fatalf("expected DuplicateError on email, got %v", err)
		}
	})

	t.Run("same cpf on staff is rejected", func(t *testing.T) {
		staff := persistence.StaffMember{
			ID: "staff-1", Nome: "Ana Souza",
			Email: "outra@exemplo.com.br", CPF: "11122233344",
			Ativo: true, CreatedAt: created, UpdatedAt: created,
		}
		err := repo.CreateStaff(ctx, staff)
		var dup *persistence.DuplicateError
		if !errors.As(err, &dup) || dup.Field != "cpf" {
			t.Fatalf("expected DuplicateError on cpf, got %v", err)
		}
	})

	t.Run("failed insert leaves no reservation behind", func(t *testing.T) {
		// The guardian above failed on email after any cpf reservation
		// would have happened; its cpf must still be free.
		guardian := persistence.Guardian{
			ID: "resp-2", Nome: "Carlos Souza",
			Email: "carlos@exemplo.com.br", CPF: "55566677788",
			Ativo: true, CreatedAt: created, UpdatedAt: created,
		}
		if err := repo.CreateGuardian(ctx, guardian); err != nil {
			t.Fatalf("expected rolled-back reservation to be free, got %v", err)
		}
	})
}

func TestUpdateSwapsIdentityKeys(t *testing.T) {
	pool := newTestPool(t)
	repo := NewPeopleRepository(pool)
	ctx := context.Background()
	created := testTime(t, "2024-05-01T10:00:00Z")

	student := persistence.Student{
		ID: "aluno-1", Nome: "Ana Souza",
		Email: "ana@exemplo.com.br", CPF: "11122233344",
		Ativo: true, CreatedAt: created, UpdatedAt: created,
	}
	if err := repo.CreateStudent(ctx, student); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	student.Email = "ana.souza@exemplo.com.br"
	if err := repo.UpdateStudent(ctx, student); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Old email is free again, new one is reserved.
	other := persistence.Student{
		ID: "aluno-2", Nome: "Outra Aluna",
		Email: "ana@exemplo.com.br", CPF: "99988877766",
		Ativo: true, CreatedAt: created, UpdatedAt: created,
	}
	if err := repo.CreateStudent(ctx, other); err != nil {
		t.Fatalf("expected released email to be reusable, got %v", err)
	}

	other.Email = "ana.souza@exemplo.com.br"
	err := repo.UpdateStudent(ctx, other)
	if !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("expected duplicate on taken email, got %v", err)
	}
}

func TestGetStaffByCPF(t *testing.T) {
	pool := newTestPool(t)
	repo := NewPeopleRepository(pool)
	ctx := context.Background()
	created := testTime(t, "2024-05-01T10:00:00Z")

	staff := persistence.StaffMember{
		ID: "staff-1", Nome: "Leandro Lobo",
		Email: "leandro@exemplo.com.br", CPF: "12345678901",
		Funcao: "professor", Admin: true, Ativo: true,
		PasswordHash: "$argon2id$...",
		CreatedAt:    created, UpdatedAt: created,
	}
	if err := repo.CreateStaff(ctx, staff); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := repo.GetStaffByCPF(ctx, "12345678901")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.ID != "staff-1" || !loaded.Admin || loaded.PasswordHash == "" {
		t.Fatalf("unexpected staff: %+v", loaded)
	}

	if _, err := repo.GetStaffByCPF(ctx, "00000000000"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteStaffReleasesKeysAndRevokesSessions(t *testing.T) {
	pool := newTestPool(t)
	repo := NewPeopleRepository(pool)
	sessions := NewSessionRepository(pool, nil)
	ctx := context.Background()
	created := testTime(t, "2024-05-01T10:00:00Z")

	staff := persistence.StaffMember{
		ID: "staff-1", Nome: "Leandro Lobo",
		Email: "leandro@exemplo.com.br", CPF: "12345678901",
		Ativo: true, CreatedAt: created, UpdatedAt: created,
	}
	if err := repo.CreateStaff(ctx, staff); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	session := persistence.Session{
		Token: "token-1", StaffID: "staff-1",
		CreatedAt: created, ExpiresAt: created.Add(24 * time.Hour),
	}
	if err := sessions.CreateSession(ctx, session); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := repo.DeleteStaff(ctx, "staff-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := sessions.GetSession(ctx, "token-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.RevokedAt == nil {
		t.Fatal("expected session to be revoked when the member is deleted")
	}

	replacement := persistence.StaffMember{
		ID: "staff-2", Nome: "Novo Professor",
		Email: "leandro@exemplo.com.br", CPF: "12345678901",
		Ativo: true, CreatedAt: created, UpdatedAt: created,
	}
	if err := repo.CreateStaff(ctx, replacement); err != nil {
		t.Fatalf("expected released keys to be reusable, got %v", err)
	}
}
