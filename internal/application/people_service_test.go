package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/metodoleandrolobo/nexquadra-sub000/internal/persistence"
)

type studentRepositoryStub struct {
	students  map[string]Student
	createErr error
}

func newStudentRepositoryStub(seed ...Student) *studentRepositoryStub {
	stub := &studentRepositoryStub{students: make(map[string]Student)}
	for _, student := range seed {
		stub.students[student.ID] = student
	}
	return stub
}

func (s *studentRepositoryStub) CreateStudent(_ context.Context, student Student) (Student, error) {
	if s.createErr != nil {
		return Student{}, s.createErr
	}
	s.students[student.ID] = student
	return student, nil
}

func (s *studentRepositoryStub) UpdateStudent(_ context.Context, student Student) (Student, error) {
	if _, ok := s.students[student.ID]; !ok {
		return Student{}, persistence.ErrNotFound
	}
	s.students[student.ID] = student
	return student, nil
}

func (s *studentRepositoryStub) GetStudent(_ context.Context, id string) (Student, error) {
	student, ok := s.students[id]
	if !ok {
		return Student{}, persistence.ErrNotFound
	}
	return student, nil
}

func (s *studentRepositoryStub) ListStudents(_ context.Context) ([]Student, error) {
	result := make([]Student, 0, len(s.students))
	for _, student := range s.students {
		result = append(result, student)
	}
	return result, nil
}

func (s *studentRepositoryStub) DeleteStudent(_ context.Context, id string) error {
	if _, ok := s.students[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.students, id)
	return nil
}

type guardianRepositoryStub struct {
	guardians map[string]Guardian
}

func newGuardianRepositoryStub() *guardianRepositoryStub {
	return &guardianRepositoryStub{guardians: make(map[string]Guardian)}
}

func (s *guardianRepositoryStub) CreateGuardian(_ context.Context, guardian Guardian) (Guardian, error) {
	s.guardians[guardian.ID] = guardian
	return guardian, nil
}

func (s *guardianRepositoryStub) UpdateGuardian(_ context.Context, guardian Guardian) (Guardian, error) {
	if _, ok := s.guardians[guardian.ID]; !ok {
		return Guardian{}, persistence.ErrNotFound
	}
	s.guardians[guardian.ID] = guardian
	return guardian, nil
}

func (s *guardianRepositoryStub) GetGuardian(_ context.Context, id string) (Guardian, error) {
	guardian, ok := s.guardians[id]
	if !ok {
		return Guardian{}, persistence.ErrNotFound
	}
	return guardian, nil
}

func (s *guardianRepositoryStub) ListGuardians(_ context.Context) ([]Guardian, error) {
	result := make([]Guardian, 0, len(s.guardians))
	for _, guardian := range s.guardians {
		result = append(result, guardian)
	}
	return result, nil
}

func (s *guardianRepositoryStub) DeleteGuardian(_ context.Context, id string) error {
	if _, ok := s.guardians[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.guardians, id)
	return nil
}

type staffRepositoryStub struct {
	members map[string]StaffMember
	hashes  map[string]string
}

func newStaffRepositoryStub(seed ...StaffMember) *staffRepositoryStub {
	stub := &staffRepositoryStub{
		members: make(map[string]StaffMember),
		hashes:  make(map[string]string),
	}
	for _, member := range seed {
		stub.members[member.ID] = member
	}
	return stub
}

func (s *staffRepositoryStub) CreateStaff(_ context.Context, staff StaffMember, passwordHash string) (StaffMember, error) {
	s.members[staff.ID] = staff
	if passwordHash != "" {
		s.hashes[staff.ID] = passwordHash
	}
	return staff, nil
}

func (s *staffRepositoryStub) UpdateStaff(_ context.Context, staff StaffMember, passwordHash string) (StaffMember, error) {
	if _, ok := s.members[staff.ID]; !ok {
		return StaffMember{}, persistence.ErrNotFound
	}
	s.members[staff.ID] = staff
	if passwordHash != "" {
		s.hashes[staff.ID] = passwordHash
	}
	return staff, nil
}

func (s *staffRepositoryStub) GetStaff(_ context.Context, id string) (StaffMember, error) {
	member, ok := s.members[id]
	if !ok {
		return StaffMember{}, persistence.ErrNotFound
	}
	return member, nil
}

func (s *staffRepositoryStub) ListStaff(_ context.Context) ([]StaffMember, error) {
	result := make([]StaffMember, 0, len(s.members))
	for _, member := range s.members {
		result = append(result, member)
	}
	return result, nil
}

func (s *staffRepositoryStub) DeleteStaff(_ context.Context, id string) error {
	if _, ok := s.members[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.members, id)
	delete(s.hashes, id)
	return nil
}

func identityHasher(password string) (string, error) {
	return "hash:" + password, nil
}

func newPeopleServiceForTest(students StudentRepository, guardians GuardianRepository, staff StaffRepository) *PeopleService {
	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	return NewPeopleService(students, guardians, staff, identityHasher, sequentialIDs("p"), func() time.Time { return now }, nil)
}

func TestPeopleService_Students(t *testing.T) {
	t.Parallel()

	admin := Principal{StaffID: "staff-1", IsAdmin: true}

	t.Run("creates a student with normalized email and cpf", func(t *testing.T) {
		t.Parallel()

		repo := newStudentRepositoryStub()
		svc := newPeopleServiceForTest(repo, nil, nil)

		result, err := svc.CreateStudent(context.Background(), admin, StudentInput{
			Nome:  "João Lima",
			Email: "  Joao@Example.COM ",
			CPF:   "123.456.789-09",
			Ativo: true,
		})
		if err != nil {
			t.Fatalf("CreateStudent failed: %v", err)
		}
		if result.Email != "joao@example.com" {
			t.Fatalf("expected lowercased email, got %q", result.Email)
		}
		if result.CPF != "12345678909" {
			t.Fatalf("expected digit-only CPF, got %q", result.CPF)
		}
	})

	t.Run("requires an administrator for mutations", func(t *testing.T) {
		t.Parallel()

		svc := newPeopleServiceForTest(newStudentRepositoryStub(), nil, nil)
		_, err := svc.CreateStudent(context.Background(), Principal{StaffID: "staff-2"}, StudentInput{Nome: "João"})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("rejects a malformed email and a short cpf", func(t *testing.T) {
		t.Parallel()

		svc := newPeopleServiceForTest(newStudentRepositoryStub(), nil, nil)
		_, err := svc.CreateStudent(context.Background(), admin, StudentInput{
			Nome:  "João",
			Email: "sem-arroba",
			CPF:   "123",
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if _, ok := vErr.FieldErrors["email"]; !ok {
			t.Fatalf("expected error on email, got %v", vErr.FieldErrors)
		}
		if _, ok := vErr.FieldErrors["cpf"]; !ok {
			t.Fatalf("expected error on cpf, got %v", vErr.FieldErrors)
		}
	})

	t.Run("translates duplicate email into a field error", func(t *testing.T) {
		t.Parallel()

		repo := newStudentRepositoryStub()
		repo.createErr = &persistence.DuplicateError{Field: "email"}
		svc := newPeopleServiceForTest(repo, nil, nil)

		_, err := svc.CreateStudent(context.Background(), admin, StudentInput{Nome: "João", Email: "joao@example.com"})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if vErr.FieldErrors["email"] != "email já cadastrado" {
			t.Fatalf("unexpected duplicate message: %v", vErr.FieldErrors)
		}
	})

	t.Run("maps missing students to ErrNotFound", func(t *testing.T) {
		t.Parallel()

		svc := newPeopleServiceForTest(newStudentRepositoryStub(), nil, nil)
		_, err := svc.GetStudent(context.Background(), admin, "ghost")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestPeopleService_Staff(t *testing.T) {
	t.Parallel()

	admin := Principal{StaffID: "staff-1", IsAdmin: true}

	t.Run("provisions a credential when a password is given", func(t *testing.T) {
		t.Parallel()

		repo := newStaffRepositoryStub()
		svc := newPeopleServiceForTest(nil, nil, repo)

		result, err := svc.CreateStaff(context.Background(), admin, StaffInput{
			Nome:  "Carla Souza",
			CPF:   "123.456.789-09",
			Ativo: true,
			Senha: "segredo-forte",
		})
		if err != nil {
			t.Fatalf("CreateStaff failed: %v", err)
		}
		if !result.HasCredential {
			t.Fatal("expected the member to carry a credential")
		}
		if repo.hashes[result.ID] != "hash:segredo-forte" {
			t.Fatalf("expected hashed password in the repository, got %q", repo.hashes[result.ID])
		}
	})

	t.Run("rejects a short password", func(t *testing.T) {
		t.Parallel()

		svc := newPeopleServiceForTest(nil, nil, newStaffRepositoryStub())
		_, err := svc.CreateStaff(context.Background(), admin, StaffInput{
			Nome:  "Carla",
			CPF:   "123.456.789-09",
			Senha: "curta",
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if _, ok := vErr.FieldErrors["senha"]; !ok {
			t.Fatalf("expected error on senha, got %v", vErr.FieldErrors)
		}
	})

	t.Run("requires a cpf to provision a credential", func(t *testing.T) {
		t.Parallel()

		svc := newPeopleServiceForTest(nil, nil, newStaffRepositoryStub())
		_, err := svc.CreateStaff(context.Background(), admin, StaffInput{
			Nome:  "Carla",
			Senha: "segredo-forte",
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if _, ok := vErr.FieldErrors["cpf"]; !ok {
			t.Fatalf("expected error on cpf, got %v", vErr.FieldErrors)
		}
	})

	t.Run("an empty password on update keeps the stored credential", func(t *testing.T) {
		t.Parallel()

		repo := newStaffRepositoryStub()
		svc := newPeopleServiceForTest(nil, nil, repo)

		created, err := svc.CreateStaff(context.Background(), admin, StaffInput{
			Nome:  "Carla Souza",
			CPF:   "123.456.789-09",
			Ativo: true,
			Senha: "segredo-forte",
		})
		if err != nil {
			t.Fatalf("CreateStaff failed: %v", err)
		}

		updated, err := svc.UpdateStaff(context.Background(), admin, created.ID, StaffInput{
			Nome:  "Carla Souza Lima",
			CPF:   "123.456.789-09",
			Ativo: true,
		})
		if err != nil {
			t.Fatalf("UpdateStaff failed: %v", err)
		}
		if !updated.HasCredential {
			t.Fatal("credential flag must survive an update without a password")
		}
		if repo.hashes[created.ID] != "hash:segredo-forte" {
			t.Fatalf("stored hash must stay untouched, got %q", repo.hashes[created.ID])
		}
	})

	t.Run("changes only the email", func(t *testing.T) {
		t.Parallel()

		repo := newStaffRepositoryStub(StaffMember{ID: "s-1", Nome: "Carla", Email: "old@example.com", Ativo: true})
		svc := newPeopleServiceForTest(nil, nil, repo)

		result, err := svc.ChangeStaffEmail(context.Background(), admin, "s-1", "Nova@Example.com")
		if err != nil {
			t.Fatalf("ChangeStaffEmail failed: %v", err)
		}
		if result.Email != "nova@example.com" {
			t.Fatalf("expected normalized new email, got %q", result.Email)
		}
		if result.Nome != "Carla" {
			t.Fatalf("other fields must stay untouched, got %q", result.Nome)
		}
	})

	t.Run("refuses self deletion", func(t *testing.T) {
		t.Parallel()

		repo := newStaffRepositoryStub(StaffMember{ID: "staff-1", Nome: "Carla"})
		svc := newPeopleServiceForTest(nil, nil, repo)

		err := svc.DeleteStaff(context.Background(), admin, "staff-1")
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if _, ok := vErr.FieldErrors["id"]; !ok {
			t.Fatalf("expected error on id, got %v", vErr.FieldErrors)
		}
		if _, ok := repo.members["staff-1"]; !ok {
			t.Fatal("member must not be deleted")
		}
	})

	t.Run("lists members sorted by name", func(t *testing.T) {
		t.Parallel()

		repo := newStaffRepositoryStub(
			StaffMember{ID: "s-2", Nome: "bruno"},
			StaffMember{ID: "s-1", Nome: "Ana"},
			StaffMember{ID: "s-3", Nome: "Carlos"},
		)
		svc := newPeopleServiceForTest(nil, nil, repo)

		members, err := svc.ListStaff(context.Background(), admin)
		if err != nil {
			t.Fatalf("ListStaff failed: %v", err)
		}
		want := []string{"Ana", "bruno", "Carlos"}
		for i, member := range members {
			if member.Nome != want[i] {
				t.Fatalf("position %d: expected %s, got %s", i, want[i], member.Nome)
			}
		}
	})
}

func TestPeopleService_Guardians(t *testing.T) {
	t.Parallel()

	admin := Principal{StaffID: "staff-1", IsAdmin: true}

	t.Run("translates a duplicate cpf into a field error", func(t *testing.T) {
		t.Parallel()

		students := newStudentRepositoryStub()
		guardians := newGuardianRepositoryStub()
		svc := newPeopleServiceForTest(students, guardians, nil)

		if _, err := svc.CreateGuardian(context.Background(), admin, GuardianInput{
			Nome: "Marcos Reis",
			CPF:  "123.456.789-09",
		}); err != nil {
			t.Fatalf("CreateGuardian failed: %v", err)
		}

		// The shared identity index raises the duplicate; the stub mimics it.
		students.createErr = &persistence.DuplicateError{Field: "cpf"}
		_, err := svc.CreateStudent(context.Background(), admin, StudentInput{
			Nome: "Marquinhos Reis",
			CPF:  "123.456.789-09",
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if vErr.FieldErrors["cpf"] != "CPF já cadastrado" {
			t.Fatalf("unexpected duplicate message: %v", vErr.FieldErrors)
		}
	})

	t.Run("deletes a guardian", func(t *testing.T) {
		t.Parallel()

		guardians := newGuardianRepositoryStub()
		svc := newPeopleServiceForTest(nil, guardians, nil)

		created, err := svc.CreateGuardian(context.Background(), admin, GuardianInput{Nome: "Marcos Reis"})
		if err != nil {
			t.Fatalf("CreateGuardian failed: %v", err)
		}
		if err := svc.DeleteGuardian(context.Background(), admin, created.ID); err != nil {
			t.Fatalf("DeleteGuardian failed: %v", err)
		}
		if len(guardians.guardians) != 0 {
			t.Fatalf("expected empty repository, got %d", len(guardians.guardians))
		}
	})
}
