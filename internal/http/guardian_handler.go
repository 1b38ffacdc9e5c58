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

type guardianService interface {
	CreateGuardian(ctx context.Context, principal application.Principal, input application.GuardianInput) (application.Guardian, error)
	UpdateGuardian(ctx context.Context, principal application.Principal, guardianID string, input application.GuardianInput) (application.Guardian, error)
	GetGuardian(ctx context.Context, principal application.Principal, guardianID string) (application.Guardian, error)
	ListGuardians(ctx context.Context, principal application.Principal) ([]application.Guardian, error)
	DeleteGuardian(ctx context.Context, principal application.Principal, guardianID string) error
}

type GuardianHandler struct {
	service   guardianService
	responder responder
	logger    *slog.Logger
}

func NewGuardianHandler(service guardianService, logger *slog.Logger) *GuardianHandler {
	base := defaultLogger(logger)
	return &GuardianHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *GuardianHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "GuardianHandler", operation, attrs...)
}

func (h *GuardianHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req guardianRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode guardian request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if err := validateRequest(req); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.StaffID)

	result, err := h.service.CreateGuardian(r.Context(), principal, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "guardian creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("guardian_id", result.ID).InfoContext(r.Context(), "guardian created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, guardianResponse{Responsavel: toGuardianDTO(result)})
}

func (h *GuardianHandler) Update(w http.ResponseWriter, r *http.Request, guardianID string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if strings.TrimSpace(guardianID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req guardianRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "guardian_id", guardianID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode guardian update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if err := validateRequest(req); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.StaffID, "guardian_id", guardianID)

	result, err := h.service.UpdateGuardian(r.Context(), principal, guardianID, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "guardian update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "guardian updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, guardianResponse{Responsavel: toGuardianDTO(result)})
}

func (h *GuardianHandler) Get(w http.ResponseWriter, r *http.Request, guardianID string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	result, err := h.service.GetGuardian(r.Context(), principal, guardianID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, guardianResponse{Responsavel: toGuardianDTO(result)})
}

func (h *GuardianHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	guardians, err := h.service.ListGuardians(r.Context(), principal)
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "guardian list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]guardianDTO, 0, len(guardians))
	for _, guardian := range guardians {
		dtos = append(dtos, toGuardianDTO(guardian))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listGuardiansResponse{Responsaveis: dtos})
}

func (h *GuardianHandler) Delete(w http.ResponseWriter, r *http.Request, guardianID string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.StaffID, "guardian_id", guardianID)

	if err := h.service.DeleteGuardian(r.Context(), principal, guardianID); err != nil {
		logger.ErrorContext(r.Context(), "guardian delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "guardian deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type guardianRequest struct {
	Nome     string      `json:"nome" validate:"required"`
	Email    string      `json:"email"`
	CPF      string      `json:"cpf"`
	Telefone string      `json:"telefone"`
	Endereco enderecoDTO `json:"endereco"`
	Ativo    bool        `json:"ativo"`
}

func (r guardianRequest) toInput() application.GuardianInput {
	return application.GuardianInput{
		Nome:     strings.TrimSpace(r.Nome),
		Email:    r.Email,
		CPF:      r.CPF,
		Telefone: strings.TrimSpace(r.Telefone),
		Endereco: r.Endereco.toAddress(),
		Ativo:    r.Ativo,
	}
}

type guardianDTO struct {
	ID           string      `json:"id"`
	Nome         string      `json:"nome"`
	Email        string      `json:"email,omitempty"`
	CPF          string      `json:"cpf,omitempty"`
	Telefone     string      `json:"telefone,omitempty"`
	Endereco     enderecoDTO `json:"endereco"`
	Ativo        bool        `json:"ativo"`
	CriadoEm     string      `json:"criadoEm"`
	AtualizadoEm string      `json:"atualizadoEm"`
}

type guardianResponse struct {
	Responsavel guardianDTO `json:"responsavel"`
}

type listGuardiansResponse struct {
	Responsaveis []guardianDTO `json:"responsaveis"`
}

func toGuardianDTO(guardian application.Guardian) guardianDTO {
	return guardianDTO{
		ID:           guardian.ID,
		Nome:         guardian.Nome,
		Email:        guardian.Email,
		CPF:          guardian.CPF,
		Telefone:     guardian.Telefone,
		Endereco:     toEnderecoDTO(guardian.Endereco),
		Ativo:        guardian.Ativo,
		CriadoEm:     guardian.CreatedAt.UTC().Format(time.RFC3339Nano),
		AtualizadoEm: guardian.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}
