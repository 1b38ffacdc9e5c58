package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/metodoleandrolobo/nexquadra-sub000/internal/persistence"
)

// StudentRepository captures the persistence interactions for students.
type StudentRepository interface {
	CreateStudent(ctx context.Context, student Student) (Student, error)
	UpdateStudent(ctx context.Context, student Student) (Student, error)
	GetStudent(ctx context.Context, id string) (Student, error)
	ListStudents(ctx context.Context) ([]Student, error)
	DeleteStudent(ctx context.Context, id string) error
}

// GuardianRepository captures the persistence interactions for guardians.
type GuardianRepository interface {
	CreateGuardian(ctx context.Context, guardian Guardian) (Guardian, error)
	UpdateGuardian(ctx context.Context, guardian Guardian) (Guardian, error)
	GetGuardian(ctx context.Context, id string) (Guardian, error)
	ListGuardians(ctx context.Context) ([]Guardian, error)
	DeleteGuardian(ctx context.Context, id string) error
}

// StaffRepository captures the persistence interactions for staff members.
// The password hash travels separately from the model; an empty hash on
// update keeps the stored credential untouched.
type StaffRepository interface {
	CreateStaff(ctx context.Context, staff StaffMember, passwordHash string) (StaffMember, error)
	UpdateStaff(ctx context.Context, staff StaffMember, passwordHash string) (StaffMember, error)
	GetStaff(ctx context.Context, id string) (StaffMember, error)
	ListStaff(ctx context.Context) ([]StaffMember, error)
	DeleteStaff(ctx context.Context, id string) error
}

// PasswordHasher derives a storable hash from a plain password.
type PasswordHasher func(password string) (string, error)

// PeopleService manages students, guardians and the academy staff,
// including panel credential provisioning.
type PeopleService struct {
	students    StudentRepository
	guardians   GuardianRepository
	staff       StaffRepository
	hasher      PasswordHasher
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewPeopleService constructs a PeopleService with the provided dependencies.
func NewPeopleService(students StudentRepository, guardians GuardianRepository, staff StaffRepository, hasher PasswordHasher, idGenerator func() string, now func() time.Time, logger *slog.Logger) *PeopleService {
	if hasher == nil {
		hasher = HashPassword
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &PeopleService{
		students:    students,
		guardians:   guardians,
		staff:       staff,
		hasher:      hasher,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *PeopleService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "PeopleService", operation, attrs...)
}

// --- students ---

// CreateStudent validates input and registers a student for administrators.
func (s *PeopleService) CreateStudent(ctx context.Context, principal Principal, input StudentInput) (result Student, err error) {
	if s == nil {
		err = fmt.Errorf("PeopleService is nil")
		return
	}
	if s.students == nil {
		err = fmt.Errorf("student repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateStudent", "principal_id", principal.StaffID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create student", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("student_id", result.ID).InfoContext(ctx, "student created")
	}()

	if !principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	vErr := validatePersonInput(input.Nome, input.Email, input.CPF)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	now := s.now()
	student := Student{
		ID:            s.idGenerator(),
		Nome:          strings.TrimSpace(input.Nome),
		Email:         normalizeEmail(input.Email),
		CPF:           cpfDigits(input.CPF),
		Telefone:      strings.TrimSpace(input.Telefone),
		DataNasc:      strings.TrimSpace(input.DataNasc),
		ResponsavelID: strings.TrimSpace(input.ResponsavelID),
		Endereco:      input.Endereco,
		Ativo:         input.Ativo,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	result, err = s.students.CreateStudent(ctx, student)
	err = mapPeopleRepoError(err)
	return
}

// UpdateStudent validates input and updates a student for administrators.
func (s *PeopleService) UpdateStudent(ctx context.Context, principal Principal, studentID string, input StudentInput) (result Student, err error) {
	if s == nil {
		err = fmt.Errorf("PeopleService is nil")
		return
	}
	if s.students == nil {
		err = fmt.Errorf("student repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateStudent",
		"principal_id", principal.StaffID,
		"student_id", studentID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update student", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "student updated")
	}()

	if !principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	var existing Student
	existing, err = s.students.GetStudent(ctx, studentID)
	if err != nil {
		err = mapPeopleRepoError(err)
		return
	}

	vErr := validatePersonInput(input.Nome, input.Email, input.CPF)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	updated := existing
	updated.Nome = strings.TrimSpace(input.Nome)
	updated.Email = normalizeEmail(input.Email)
	updated.CPF = cpfDigits(input.CPF)
	updated.Telefone = strings.TrimSpace(input.Telefone)
	updated.DataNasc = strings.TrimSpace(input.DataNasc)
	updated.ResponsavelID = strings.TrimSpace(input.ResponsavelID)
	updated.Endereco = input.Endereco
	updated.Ativo = input.Ativo
	updated.UpdatedAt = s.now()

	result, err = s.students.UpdateStudent(ctx, updated)
	err = mapPeopleRepoError(err)
	return
}

// GetStudent returns a single student for any authenticated staff member.
func (s *PeopleService) GetStudent(ctx context.Context, principal Principal, studentID string) (Student, error) {
	if s == nil {
		return Student{}, fmt.Errorf("PeopleService is nil")
	}
	if s.students == nil {
		return Student{}, fmt.Errorf("student repository not configured")
	}
	student, err := s.students.GetStudent(ctx, studentID)
	return student, mapPeopleRepoError(err)
}

// ListStudents returns every student sorted by name.
func (s *PeopleService) ListStudents(ctx context.Context, principal Principal) ([]Student, error) {
	if s == nil {
		return nil, fmt.Errorf("PeopleService is nil")
	}
	if s.students == nil {
		return nil, nil
	}
	students, err := s.students.ListStudents(ctx)
	if err != nil {
		return nil, mapPeopleRepoError(err)
	}
	sort.Slice(students, func(i, j int) bool {
		return lessByName(students[i].Nome, students[i].ID, students[j].Nome, students[j].ID)
	})
	return students, nil
}

// DeleteStudent removes a student for administrators.
func (s *PeopleService) DeleteStudent(ctx context.Context, principal Principal, studentID string) error {
	if s == nil {
		return fmt.Errorf("PeopleService is nil")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}
	if s.students == nil {
		return fmt.Errorf("student repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteStudent",
		"principal_id", principal.StaffID,
		"student_id", studentID,
	)
	if err := mapPeopleRepoError(s.students.DeleteStudent(ctx, studentID)); err != nil {
		logger.ErrorContext(ctx, "failed to delete student", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	logger.InfoContext(ctx, "student deleted")
	return nil
}

// --- guardians ---

// CreateGuardian validates input and registers a guardian for administrators.
func (s *PeopleService) CreateGuardian(ctx context.Context, principal Principal, input GuardianInput) (result Guardian, err error) {
	if s == nil {
		err = fmt.Errorf("PeopleService is nil")
		return
	}
	if s.guardians == nil {
		err = fmt.Errorf("guardian repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateGuardian", "principal_id", principal.StaffID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create guardian", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("guardian_id", result.ID).InfoContext(ctx, "guardian created")
	}()

	if !principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	vErr := validatePersonInput(input.Nome, input.Email, input.CPF)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	now := s.now()
	guardian := Guardian{
		ID:        s.idGenerator(),
		Nome:      strings.TrimSpace(input.Nome),
		Email:     normalizeEmail(input.Email),
		CPF:       cpfDigits(input.CPF),
		Telefone:  strings.TrimSpace(input.Telefone),
		Endereco:  input.Endereco,
		Ativo:     input.Ativo,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err = s.guardians.CreateGuardian(ctx, guardian)
	err = mapPeopleRepoError(err)
	return
}

// UpdateGuardian validates input and updates a guardian for administrators.
func (s *PeopleService) UpdateGuardian(ctx context.Context, principal Principal, guardianID string, input GuardianInput) (result Guardian, err error) {
	if s == nil {
		err = fmt.Errorf("PeopleService is nil")
		return
	}
	if s.guardians == nil {
		err = fmt.Errorf("guardian repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateGuardian",
		"principal_id", principal.StaffID,
		"guardian_id", guardianID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update guardian", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "guardian updated")
	}()

	if !principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	var existing Guardian
	existing, err = s.guardians.GetGuardian(ctx, guardianID)
	if err != nil {
		err = mapPeopleRepoError(err)
		return
	}

	vErr := validatePersonInput(input.Nome, input.Email, input.CPF)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	updated := existing
	updated.Nome = strings.TrimSpace(input.Nome)
	updated.Email = normalizeEmail(input.Email)
	updated.CPF = cpfDigits(input.CPF)
	updated.Telefone = strings.TrimSpace(input.Telefone)
	updated.Endereco = input.Endereco
	updated.Ativo = input.Ativo
	updated.UpdatedAt = s.now()

	result, err = s.guardians.UpdateGuardian(ctx, updated)
	err = mapPeopleRepoError(err)
	return
}

// GetGuardian returns a single guardian for any authenticated staff member.
func (s *PeopleService) GetGuardian(ctx context.Context, principal Principal, guardianID string) (Guardian, error) {
	if s == nil {
		return Guardian{}, fmt.Errorf("PeopleService is nil")
	}
	if s.guardians == nil {
		return Guardian{}, fmt.Errorf("guardian repository not configured")
	}
	guardian, err := s.guardians.GetGuardian(ctx, guardianID)
	return guardian, mapPeopleRepoError(err)
}

// ListGuardians returns every guardian sorted by name.
func (s *PeopleService) ListGuardians(ctx context.Context, principal Principal) ([]Guardian, error) {
	if s == nil {
		return nil, fmt.Errorf("PeopleService is nil")
	}
	if s.guardians == nil {
		return nil, nil
	}
	guardians, err := s.guardians.ListGuardians(ctx)
	if err != nil {
		return nil, mapPeopleRepoError(err)
	}
	sort.Slice(guardians, func(i, j int) bool {
		return lessByName(guardians[i].Nome, guardians[i].ID, guardians[j].Nome, guardians[j].ID)
	})
	return guardians, nil
}

// DeleteGuardian removes a guardian for administrators.
func (s *PeopleService) DeleteGuardian(ctx context.Context, principal Principal, guardianID string) error {
	if s == nil {
		return fmt.Errorf("PeopleService is nil")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}
	if s.guardians == nil {
		return fmt.Errorf("guardian repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteGuardian",
		"principal_id", principal.StaffID,
		"guardian_id", guardianID,
	)
	if err := mapPeopleRepoError(s.guardians.DeleteGuardian(ctx, guardianID)); err != nil {
		logger.ErrorContext(ctx, "failed to delete guardian", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	logger.InfoContext(ctx, "guardian deleted")
	return nil
}

// --- staff ---

// CreateStaff validates input and registers a staff member for
// administrators. A non-empty Senha provisions the panel credential.
func (s *PeopleService) CreateStaff(ctx context.Context, principal Principal, input StaffInput) (result StaffMember, err error) {
	if s == nil {
		err = fmt.Errorf("PeopleService is nil")
		return
	}
	if s.staff == nil {
		err = fmt.Errorf("staff repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateStaff", "principal_id", principal.StaffID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create staff member", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("staff_id", result.ID, "has_credential", result.HasCredential).InfoContext(ctx, "staff member created")
	}()

	if !principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	vErr := validatePersonInput(input.Nome, input.Email, input.CPF)
	validateStaffCredential(vErr, input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	var passwordHash string
	if input.Senha != "" {
		passwordHash, err = s.hasher(input.Senha)
		if err != nil {
			return
		}
	}

	now := s.now()
	staff := StaffMember{
		ID:            s.idGenerator(),
		Nome:          strings.TrimSpace(input.Nome),
		Email:         normalizeEmail(input.Email),
		CPF:           cpfDigits(input.CPF),
		Telefone:      strings.TrimSpace(input.Telefone),
		Funcao:        strings.TrimSpace(input.Funcao),
		Admin:         input.Admin,
		Ativo:         input.Ativo,
		HasCredential: passwordHash != "",
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	result, err = s.staff.CreateStaff(ctx, staff, passwordHash)
	err = mapPeopleRepoError(err)
	return
}

// UpdateStaff validates input and updates a staff member for administrators.
// An empty Senha keeps the existing credential; a new one replaces it.
func (s *PeopleService) UpdateStaff(ctx context.Context, principal Principal, staffID string, input StaffInput) (result StaffMember, err error) {
	if s == nil {
		err = fmt.Errorf("PeopleService is nil")
		return
	}
	if s.staff == nil {
		err = fmt.Errorf("staff repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateStaff",
		"principal_id", principal.StaffID,
		"staff_id", staffID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update staff member", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "staff member updated")
	}()

	if !principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	var existing StaffMember
	existing, err = s.staff.GetStaff(ctx, staffID)
	if err != nil {
		err = mapPeopleRepoError(err)
		return
	}

	vErr := validatePersonInput(input.Nome, input.Email, input.CPF)
	if input.Senha != "" {
		validateStaffCredential(vErr, input)
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	var passwordHash string
	if input.Senha != "" {
		passwordHash, err = s.hasher(input.Senha)
		if err != nil {
			return
		}
	}

	updated := existing
	updated.Nome = strings.TrimSpace(input.Nome)
	updated.Email = normalizeEmail(input.Email)
	updated.CPF = cpfDigits(input.CPF)
	updated.Telefone = strings.TrimSpace(input.Telefone)
	updated.Funcao = strings.TrimSpace(input.Funcao)
	updated.Admin = input.Admin
	updated.Ativo = input.Ativo
	if passwordHash != "" {
		updated.HasCredential = true
	}
	updated.UpdatedAt = s.now()

	result, err = s.staff.UpdateStaff(ctx, updated, passwordHash)
	err = mapPeopleRepoError(err)
	return
}

// ChangeStaffEmail updates only the email of a staff member. The credential
// record lives on the same row, so login data and contact data can never
// drift apart.
func (s *PeopleService) ChangeStaffEmail(ctx context.Context, principal Principal, staffID, email string) (result StaffMember, err error) {
	if s == nil {
		err = fmt.Errorf("PeopleService is nil")
		return
	}
	if s.staff == nil {
		err = fmt.Errorf("staff repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "ChangeStaffEmail",
		"principal_id", principal.StaffID,
		"staff_id", staffID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to change staff email", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "staff email changed")
	}()

	if !principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	normalized := normalizeEmail(email)
	vErr := &ValidationError{}
	if normalized == "" {
		vErr.add("email", "email é obrigatório")
	} else if !looksLikeEmail(normalized) {
		vErr.add("email", "email inválido")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	var existing StaffMember
	existing, err = s.staff.GetStaff(ctx, staffID)
	if err != nil {
		err = mapPeopleRepoError(err)
		return
	}

	existing.Email = normalized
	existing.UpdatedAt = s.now()

	result, err = s.staff.UpdateStaff(ctx, existing, "")
	err = mapPeopleRepoError(err)
	return
}

// GetStaff returns a single staff member for any authenticated staff member.
func (s *PeopleService) GetStaff(ctx context.Context, principal Principal, staffID string) (StaffMember, error) {
	if s == nil {
		return StaffMember{}, fmt.Errorf("PeopleService is nil")
	}
	if s.staff == nil {
		return StaffMember{}, fmt.Errorf("staff repository not configured")
	}
	staff, err := s.staff.GetStaff(ctx, staffID)
	return staff, mapPeopleRepoError(err)
}

// ListStaff returns every staff member sorted by name.
func (s *PeopleService) ListStaff(ctx context.Context, principal Principal) ([]StaffMember, error) {
	if s == nil {
		return nil, fmt.Errorf("PeopleService is nil")
	}
	if s.staff == nil {
		return nil, nil
	}
	members, err := s.staff.ListStaff(ctx)
	if err != nil {
		return nil, mapPeopleRepoError(err)
	}
	sort.Slice(members, func(i, j int) bool {
		return lessByName(members[i].Nome, members[i].ID, members[j].Nome, members[j].ID)
	})
	return members, nil
}

// DeleteStaff removes a staff member for administrators. Active sessions of
// the member are revoked by the persistence layer in the same transaction.
func (s *PeopleService) DeleteStaff(ctx context.Context, principal Principal, staffID string) error {
	if s == nil {
		return fmt.Errorf("PeopleService is nil")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}
	if s.staff == nil {
		return fmt.Errorf("staff repository not configured")
	}
	if principal.StaffID == staffID {
		vErr := &ValidationError{}
		vErr.add("id", "não é possível excluir o próprio usuário")
		return vErr
	}

	logger := s.loggerWith(ctx, "DeleteStaff",
		"principal_id", principal.StaffID,
		"staff_id", staffID,
	)
	if err := mapPeopleRepoError(s.staff.DeleteStaff(ctx, staffID)); err != nil {
		logger.ErrorContext(ctx, "failed to delete staff member", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	logger.InfoContext(ctx, "staff member deleted")
	return nil
}

// --- shared helpers ---

func validatePersonInput(nome, email, cpf string) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(nome) == "" {
		vErr.add("nome", "nome é obrigatório")
	}
	if normalized := normalizeEmail(email); normalized != "" && !looksLikeEmail(normalized) {
		vErr.add("email", "email inválido")
	}
	if digits := cpfDigits(cpf); digits != "" && len(digits) != 11 {
		vErr.add("cpf", "CPF deve ter 11 dígitos")
	}
	return vErr
}

func validateStaffCredential(vErr *ValidationError, input StaffInput) {
	if input.Senha == "" {
		return
	}
	if len(input.Senha) < 8 {
		vErr.add("senha", "senha deve ter pelo menos 8 caracteres")
	}
	if cpfDigits(input.CPF) == "" {
		vErr.add("cpf", "CPF é obrigatório para acesso ao painel")
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func looksLikeEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}

// cpfDigits strips formatting (dots, dash) and keeps only digits.
func cpfDigits(cpf string) string {
	var builder strings.Builder
	for _, r := range cpf {
		if r >= '0' && r <= '9' {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

func lessByName(nameA, idA, nameB, idB string) bool {
	if strings.EqualFold(nameA, nameB) {
		return idA < idB
	}
	return strings.ToLower(nameA) < strings.ToLower(nameB)
}

// mapPeopleRepoError translates persistence errors, turning identity-key
// duplicates into field-level validation messages the forms can show.
func mapPeopleRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) || errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}

	var dup *persistence.DuplicateError
	if errors.As(err, &dup) {
		vErr := &ValidationError{}
		switch dup.Field {
		case "email":
			vErr.add("email", "email já cadastrado")
		case "cpf":
			vErr.add("cpf", "CPF já cadastrado")
		case "nome":
			vErr.add("nome", "nome já cadastrado")
		default:
			return ErrAlreadyExists
		}
		return vErr
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	return err
}
