package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/metodoleandrolobo/nexquadra-sub000/internal/application"
)

type studentService interface {
	CreateStudent(ctx context.Context, principal application.Principal, input application.StudentInput) (application.Student, error)
	UpdateStudent(ctx context.Context, principal application.Principal, studentID string, input application.StudentInput) (application.Student, error)
	GetStudent(ctx context.Context, principal application.Principal, studentID string) (application.Student, error)
	ListStudents(ctx context.Context, principal application.Principal) ([]application.Student, error)
	DeleteStudent(ctx context.Context, principal application.Principal, studentID string) error
}

type StudentHandler struct {
	service   studentService
	responder responder
	logger    *slog.Logger
}

func NewStudentHandler(service studentService, logger *slog.Logger) *StudentHandler {
	base := defaultLogger(logger)
	return &StudentHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *StudentHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "StudentHandler", operation, attrs...)
}

func (h *StudentHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req studentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode student request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if err := validateRequest(req); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.StaffID)

	result, err := h.service.CreateStudent(r.Context(), principal, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "student creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("student_id", result.ID).InfoContext(r.Context(), "student created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, studentResponse{Aluno: toStudentDTO(result)})
}

func (h *StudentHandler) Update(w http.ResponseWriter, r *http.Request, studentID string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if strings.TrimSpace(studentID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req studentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "student_id", studentID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode student update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if err := validateRequest(req); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.StaffID, "student_id", studentID)

	result, err := h.service.UpdateStudent(r.Context(), principal, studentID, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "student update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "student updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, studentResponse{Aluno: toStudentDTO(result)})
}

func (h *StudentHandler) Get(w http.ResponseWriter, r *http.Request, studentID string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	result, err := h.service.GetStudent(r.Context(), principal, studentID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, studentResponse{Aluno: toStudentDTO(result)})
}

func (h *StudentHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	students, err := h.service.ListStudents(r.Context(), principal)
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "student list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]studentDTO, 0, len(students))
	for _, student := range students {
		dtos = append(dtos, toStudentDTO(student))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listStudentsResponse{Alunos: dtos})
}

func (h *StudentHandler) Delete(w http.ResponseWriter, r *http.Request, studentID string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.StaffID, "student_id", studentID)

	if err := h.service.DeleteStudent(r.Context(), principal, studentID); err != nil {
		logger.ErrorContext(r.Context(), "student delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "student deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type enderecoDTO struct {
	CEP         string `json:"cep,omitempty"`
	Logradouro  string `json:"logradouro,omitempty"`
	Bairro      string `json:"bairro,omitempty"`
	Cidade      string `json:"cidade,omitempty"`
	UF          string `json:"uf,omitempty"`
	Complemento string `json:"complemento,omitempty"`
}

func (e enderecoDTO) toAddress() application.Address {
	return application.Address{
		CEP:         strings.TrimSpace(e.CEP),
		Logradouro:  strings.TrimSpace(e.Logradouro),
		Bairro:      strings.TrimSpace(e.Bairro),
		Cidade:      strings.TrimSpace(e.Cidade),
		UF:          strings.TrimSpace(e.UF),
		Complemento: strings.TrimSpace(e.Complemento),
	}
}

func toEnderecoDTO(addr application.Address) enderecoDTO {
	return enderecoDTO{
		CEP:         addr.CEP,
		Logradouro:  addr.Logradouro,
		Bairro:      addr.Bairro,
		Cidade:      addr.Cidade,
		UF:          addr.UF,
		Complemento: addr.Complemento,
	}
}

type studentRequest struct {
	Nome          string      `json:"nome" validate:"required"`
	Email         string      `json:"email"`
	CPF           string      `json:"cpf"`
	Telefone      string      `json:"telefone"`
	DataNasc      string      `json:"dataNascimento"`
	ResponsavelID string      `json:"responsavelId"`
	Endereco      enderecoDTO `json:"endereco"`
	Ativo         bool        `json:"ativo"`
}

func (r studentRequest) toInput() application.StudentInput {
	return application.StudentInput{
		Nome:          strings.TrimSpace(r.Nome),
		Email:         r.Email,
		CPF:           r.CPF,
		Telefone:      strings.TrimSpace(r.Telefone),
		DataNasc:      strings.TrimSpace(r.DataNasc),
		ResponsavelID: strings.TrimSpace(r.ResponsavelID),
		Endereco:      r.Endereco.toAddress(),
		Ativo:         r.Ativo,
	}
}

type studentDTO struct {
	ID            string      `json:"id"`
	Nome          string      `json:"nome"`
	Email         string      `json:"email,omitempty"`
	CPF           string      `json:"cpf,omitempty"`
	Telefone      string      `json:"telefone,omitempty"`
	DataNasc      string      `json:"dataNascimento,omitempty"`
	ResponsavelID string      `json:"responsavelId,omitempty"`
	Endereco      enderecoDTO `json:"endereco"`
	Ativo         bool        `json:"ativo"`
	CriadoEm      string      `json:"criadoEm"`
	AtualizadoEm  string      `json:"atualizadoEm"`
}

type studentResponse struct {
	Aluno studentDTO `json:"aluno"`
}

type listStudentsResponse struct {
	Alunos []studentDTO `json:"alunos"`
}

func toStudentDTO(student application.Student) studentDTO {
	return studentDTO{
		ID:            student.ID,
		Nome:          student.Nome,
		Email:         student.Email,
		CPF:           student.CPF,
		Telefone:      student.Telefone,
		DataNasc:      student.DataNasc,
		ResponsavelID: student.ResponsavelID,
		Endereco:      toEnderecoDTO(student.Endereco),
		Ativo:         student.Ativo,
		CriadoEm:      student.CreatedAt.UTC().Format(time.RFC3339Nano),
		AtualizadoEm:  student.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}
