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

type staffService interface {
	CreateStaff(ctx context.Context, principal application.Principal, input application.StaffInput) (application.StaffMember, error)
	UpdateStaff(ctx context.Context, principal application.Principal, staffID string, input application.StaffInput) (application.StaffMember, error)
	ChangeStaffEmail(ctx context.Context, principal application.Principal, staffID, email string) (application.StaffMember, error)
	GetStaff(ctx context.Context, principal application.Principal, staffID string) (application.StaffMember, error)
	ListStaff(ctx context.Context, principal application.Principal) ([]application.StaffMember, error)
	DeleteStaff(ctx context.Context, principal application.Principal, staffID string) error
}

type StaffHandler struct {
	service   staffService
	responder responder
	logger    *slog.Logger
}

func NewStaffHandler(service staffService, logger *slog.Logger) *StaffHandler {
	base := defaultLogger(logger)
	return &StaffHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *StaffHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "StaffHandler", operation, attrs...)
}

func (h *StaffHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req staffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode staff request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if err := validateRequest(req); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.StaffID)

	result, err := h.service.CreateStaff(r.Context(), principal, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "staff creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("staff_id", result.ID).InfoContext(r.Context(), "staff member created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, staffResponse{Membro: toStaffDTO(result)})
}

func (h *StaffHandler) Update(w http.ResponseWriter, r *http.Request, staffID string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if strings.TrimSpace(staffID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req staffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "staff_id", staffID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode staff update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if err := validateRequest(req); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.StaffID, "staff_id", staffID)

	result, err := h.service.UpdateStaff(r.Context(), principal, staffID, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "staff update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "staff member updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, staffResponse{Membro: toStaffDTO(result)})
}

// ChangeEmail handles PUT /equipe/{id}/email, a narrower update that only
// touches the login email and re-runs the uniqueness reservation.
func (h *StaffHandler) ChangeEmail(w http.ResponseWriter, r *http.Request, staffID string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if strings.TrimSpace(staffID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req changeEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "ChangeEmail", "staff_id", staffID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode email change", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if err := validateRequest(req); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "ChangeEmail", "principal_id", principal.StaffID, "staff_id", staffID)

	result, err := h.service.ChangeStaffEmail(r.Context(), principal, staffID, req.Email)
	if err != nil {
		logger.ErrorContext(r.Context(), "staff email change failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "staff email changed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, staffResponse{Membro: toStaffDTO(result)})
}

func (h *StaffHandler) Get(w http.ResponseWriter, r *http.Request, staffID string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	result, err := h.service.GetStaff(r.Context(), principal, staffID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, staffResponse{Membro: toStaffDTO(result)})
}

func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	members, err := h.service.ListStaff(r.Context(), principal)
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "staff list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]staffDTO, 0, len(members))
	for _, member := range members {
		dtos = append(dtos, toStaffDTO(member))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listStaffResponse{Equipe: dtos})
}

func (h *StaffHandler) Delete(w http.ResponseWriter, r *http.Request, staffID string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.StaffID, "staff_id", staffID)

	if err := h.service.DeleteStaff(r.Context(), principal, staffID); err != nil {
		logger.ErrorContext(r.Context(), "staff delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "staff member deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// staffRequest carries Senha only on the way in; responses never echo the
// credential, only whether one exists.
type staffRequest struct {
	Nome     string `json:"nome" validate:"required"`
	Email    string `json:"email"`
	CPF      string `json:"cpf"`
	Telefone string `json:"telefone"`
	Funcao   string `json:"funcao"`
	Admin    bool   `json:"admin"`
	Ativo    bool   `json:"ativo"`
	Senha    string `json:"senha"`
}

func (r staffRequest) toInput() application.StaffInput {
	return application.StaffInput{
		Nome:     strings.TrimSpace(r.Nome),
		Email:    r.Email,
		CPF:      r.CPF,
		Telefone: strings.TrimSpace(r.Telefone),
		Funcao:   strings.TrimSpace(r.Funcao),
		Admin:    r.Admin,
		Ativo:    r.Ativo,
		Senha:    r.Senha,
	}
}

type changeEmailRequest struct {
	Email string `json:"email" validate:"required"`
}

type staffDTO struct {
	ID           string `json:"id"`
	Nome         string `json:"nome"`
	Email        string `json:"email,omitempty"`
	CPF          string `json:"cpf,omitempty"`
	Telefone     string `json:"telefone,omitempty"`
	Funcao       string `json:"funcao,omitempty"`
	Admin        bool   `json:"admin"`
	Ativo        bool   `json:"ativo"`
	PossuiAcesso bool   `json:"possuiAcesso"`
	CriadoEm     string `json:"criadoEm"`
	AtualizadoEm string `json:"atualizadoEm"`
}

type staffResponse struct {
	Membro staffDTO `json:"membro"`
}

type listStaffResponse struct {
	Equipe []staffDTO `json:"equipe"`
}

func toStaffDTO(member application.StaffMember) staffDTO {
	return staffDTO{
		ID:           member.ID,
		Nome:         member.Nome,
		Email:        member.Email,
		CPF:          member.CPF,
		Telefone:     member.Telefone,
		Funcao:       member.Funcao,
		Admin:        member.Admin,
		Ativo:        member.Ativo,
		PossuiAcesso: member.HasCredential,
		CriadoEm:     member.CreatedAt.UTC().Format(time.RFC3339Nano),
		AtualizadoEm: member.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}
