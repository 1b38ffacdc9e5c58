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

type catalogService interface {
	CreateLocation(ctx context.Context, principal application.Principal, input application.LocationInput) (application.Location, error)
	UpdateLocation(ctx context.Context, principal application.Principal, locationID string, input application.LocationInput) (application.Location, error)
	GetLocation(ctx context.Context, principal application.Principal, locationID string) (application.Location, error)
	ListLocations(ctx context.Context, principal application.Principal) ([]application.Location, error)
	DeleteLocation(ctx context.Context, principal application.Principal, locationID string) error

	CreateModality(ctx context.Context, principal application.Principal, input application.ModalityInput) (application.Modality, error)
	UpdateModality(ctx context.Context, principal application.Principal, modalityID string, input application.ModalityInput) (application.Modality, error)
	GetModality(ctx context.Context, principal application.Principal, modalityID string) (application.Modality, error)
	ListModalities(ctx context.Context, principal application.Principal) ([]application.Modality, error)
	DeleteModality(ctx context.Context, principal application.Principal, modalityID string) error

	CreateBillingPlan(ctx context.Context, principal application.Principal, input application.BillingPlanInput) (application.BillingPlan, error)
	UpdateBillingPlan(ctx context.Context, principal application.Principal, planID string, input application.BillingPlanInput) (application.BillingPlan, error)
	GetBillingPlan(ctx context.Context, principal application.Principal, planID string) (application.BillingPlan, error)
	ListBillingPlans(ctx context.Context, principal application.Principal) ([]application.BillingPlan, error)
	DeleteBillingPlan(ctx context.Context, principal application.Principal, planID string) error

	CreateLessonPlan(ctx context.Context, principal application.Principal, input application.LessonPlanInput) (application.LessonPlan, error)
	UpdateLessonPlan(ctx context.Context, principal application.Principal, planID string, input application.LessonPlanInput) (application.LessonPlan, error)
	GetLessonPlan(ctx context.Context, principal application.Principal, planID string) (application.LessonPlan, error)
	ListLessonPlans(ctx context.Context, principal application.Principal) ([]application.LessonPlan, error)
	DeleteLessonPlan(ctx context.Context, principal application.Principal, planID string) error
}

// CatalogHandler serves the four small reference-data resources: courts,
// modalities, billing plans and lesson plans. They share the decode/validate
// plumbing through the generic helpers below.
type CatalogHandler struct {
	service   catalogService
	responder responder
	logger    *slog.Logger
}

func NewCatalogHandler(service catalogService, logger *slog.Logger) *CatalogHandler {
	base := defaultLogger(logger)
	return &CatalogHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *CatalogHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "CatalogHandler", operation, attrs...)
}

func (h *CatalogHandler) ready(w http.ResponseWriter) bool {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return false
	}
	return true
}

func (h *CatalogHandler) decode(w http.ResponseWriter, r *http.Request, operation string, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		h.log(r.Context(), operation, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode catalog request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return false
	}
	if err := validateRequest(req); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return false
	}
	return true
}

// Locations.

func (h *CatalogHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())

	var req namedItemRequest
	if !h.decode(w, r, "CreateLocation", &req) {
		return
	}

	logger := h.log(r.Context(), "CreateLocation", "principal_id", principal.StaffID)
	result, err := h.service.CreateLocation(r.Context(), principal, application.LocationInput{
		Nome:      strings.TrimSpace(req.Nome),
		Descricao: req.Descricao,
		Ativo:     req.Ativo,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "location creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("location_id", result.ID).InfoContext(r.Context(), "location created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, namedItemResponse{Item: toLocationDTO(result)})
}

func (h *CatalogHandler) UpdateLocation(w http.ResponseWriter, r *http.Request, locationID string) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())

	var req namedItemRequest
	if !h.decode(w, r, "UpdateLocation", &req) {
		return
	}

	logger := h.log(r.Context(), "UpdateLocation", "principal_id", principal.StaffID, "location_id", locationID)
	result, err := h.service.UpdateLocation(r.Context(), principal, locationID, application.LocationInput{
		Nome:      strings.TrimSpace(req.Nome),
		Descricao: req.Descricao,
		Ativo:     req.Ativo,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "location update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "location updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, namedItemResponse{Item: toLocationDTO(result)})
}

func (h *CatalogHandler) GetLocation(w http.ResponseWriter, r *http.Request, locationID string) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())
	result, err := h.service.GetLocation(r.Context(), principal, locationID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, namedItemResponse{Item: toLocationDTO(result)})
}

func (h *CatalogHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())
	locations, err := h.service.ListLocations(r.Context(), principal)
	if err != nil {
		h.log(r.Context(), "ListLocations").ErrorContext(r.Context(), "location list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	items := make([]namedItemDTO, 0, len(locations))
	for _, location := range locations {
		items = append(items, toLocationDTO(location))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, namedItemListResponse{Itens: items})
}

func (h *CatalogHandler) DeleteLocation(w http.ResponseWriter, r *http.Request, locationID string) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "DeleteLocation", "principal_id", principal.StaffID, "location_id", locationID)

	if err := h.service.DeleteLocation(r.Context(), principal, locationID); err != nil {
		logger.ErrorContext(r.Context(), "location delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "location deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// Modalities.

func (h *CatalogHandler) CreateModality(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())

	var req namedItemRequest
	if !h.decode(w, r, "CreateModality", &req) {
		return
	}

	logger := h.log(r.Context(), "CreateModality", "principal_id", principal.StaffID)
	result, err := h.service.CreateModality(r.Context(), principal, application.ModalityInput{
		Nome:      strings.TrimSpace(req.Nome),
		Descricao: req.Descricao,
		Ativo:     req.Ativo,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "modality creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("modality_id", result.ID).InfoContext(r.Context(), "modality created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, namedItemResponse{Item: toModalityDTO(result)})
}

func (h *CatalogHandler) UpdateModality(w http.ResponseWriter, r *http.Request, modalityID string) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())

	var req namedItemRequest
	if !h.decode(w, r, "UpdateModality", &req) {
		return
	}

	logger := h.log(r.Context(), "UpdateModality", "principal_id", principal.StaffID, "modality_id", modalityID)
	result, err := h.service.UpdateModality(r.Context(), principal, modalityID, application.ModalityInput{
		Nome:      strings.TrimSpace(req.Nome),
		Descricao: req.Descricao,
		Ativo:     req.Ativo,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "modality update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "modality updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, namedItemResponse{Item: toModalityDTO(result)})
}

func (h *CatalogHandler) GetModality(w http.ResponseWriter, r *http.Request, modalityID string) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())
	result, err := h.service.GetModality(r.Context(), principal, modalityID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, namedItemResponse{Item: toModalityDTO(result)})
}

func (h *CatalogHandler) ListModalities(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())
	modalities, err := h.service.ListModalities(r.Context(), principal)
	if err != nil {
		h.log(r.Context(), "ListModalities").ErrorContext(r.Context(), "modality list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	items := make([]namedItemDTO, 0, len(modalities))
	for _, modality := range modalities {
		items = append(items, toModalityDTO(modality))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, namedItemListResponse{Itens: items})
}

func (h *CatalogHandler) DeleteModality(w http.ResponseWriter, r *http.Request, modalityID string) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "DeleteModality", "principal_id", principal.StaffID, "modality_id", modalityID)

	if err := h.service.DeleteModality(r.Context(), principal, modalityID); err != nil {
		logger.ErrorContext(r.Context(), "modality delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "modality deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// Billing plans.

func (h *CatalogHandler) CreateBillingPlan(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())

	var req billingPlanRequest
	if !h.decode(w, r, "CreateBillingPlan", &req) {
		return
	}

	logger := h.log(r.Context(), "CreateBillingPlan", "principal_id", principal.StaffID)
	result, err := h.service.CreateBillingPlan(r.Context(), principal, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "billing plan creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("plan_id", result.ID).InfoContext(r.Context(), "billing plan created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, billingPlanResponse{Plano: toBillingPlanDTO(result)})
}

func (h *CatalogHandler) UpdateBillingPlan(w http.ResponseWriter, r *http.Request, planID string) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())

	var req billingPlanRequest
	if !h.decode(w, r, "UpdateBillingPlan", &req) {
		return
	}

	logger := h.log(r.Context(), "UpdateBillingPlan", "principal_id", principal.StaffID, "plan_id", planID)
	result, err := h.service.UpdateBillingPlan(r.Context(), principal, planID, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "billing plan update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "billing plan updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, billingPlanResponse{Plano: toBillingPlanDTO(result)})
}

func (h *CatalogHandler) GetBillingPlan(w http.ResponseWriter, r *http.Request, planID string) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())
	result, err := h.service.GetBillingPlan(r.Context(), principal, planID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, billingPlanResponse{Plano: toBillingPlanDTO(result)})
}

func (h *CatalogHandler) ListBillingPlans(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())
	plans, err := h.service.ListBillingPlans(r.Context(), principal)
	if err != nil {
		h.log(r.Context(), "ListBillingPlans").ErrorContext(r.Context(), "billing plan list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]billingPlanDTO, 0, len(plans))
	for _, plan := range plans {
		dtos = append(dtos, toBillingPlanDTO(plan))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listBillingPlansResponse{Planos: dtos})
}

func (h *CatalogHandler) DeleteBillingPlan(w http.ResponseWriter, r *http.Request, planID string) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "DeleteBillingPlan", "principal_id", principal.StaffID, "plan_id", planID)

	if err := h.service.DeleteBillingPlan(r.Context(), principal, planID); err != nil {
		logger.ErrorContext(r.Context(), "billing plan delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "billing plan deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// Lesson plans.

func (h *CatalogHandler) CreateLessonPlan(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())

	var req lessonPlanRequest
	if !h.decode(w, r, "CreateLessonPlan", &req) {
		return
	}

	logger := h.log(r.Context(), "CreateLessonPlan", "principal_id", principal.StaffID)
	result, err := h.service.CreateLessonPlan(r.Context(), principal, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "lesson plan creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("plan_id", result.ID).InfoContext(r.Context(), "lesson plan created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, lessonPlanResponse{Plano: toLessonPlanDTO(result)})
}

func (h *CatalogHandler) UpdateLessonPlan(w http.ResponseWriter, r *http.Request, planID string) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())

	var req lessonPlanRequest
	if !h.decode(w, r, "UpdateLessonPlan", &req) {
		return
	}

	logger := h.log(r.Context(), "UpdateLessonPlan", "principal_id", principal.StaffID, "plan_id", planID)
	result, err := h.service.UpdateLessonPlan(r.Context(), principal, planID, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "lesson plan update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "lesson plan updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, lessonPlanResponse{Plano: toLessonPlanDTO(result)})
}

func (h *CatalogHandler) GetLessonPlan(w http.ResponseWriter, r *http.Request, planID string) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())
	result, err := h.service.GetLessonPlan(r.Context(), principal, planID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, lessonPlanResponse{Plano: toLessonPlanDTO(result)})
}

func (h *CatalogHandler) ListLessonPlans(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())
	plans, err := h.service.ListLessonPlans(r.Context(), principal)
	if err != nil {
		h.log(r.Context(), "ListLessonPlans").ErrorContext(r.Context(), "lesson plan list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]lessonPlanDTO, 0, len(plans))
	for _, plan := range plans {
		dtos = append(dtos, toLessonPlanDTO(plan))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listLessonPlansResponse{Planos: dtos})
}

func (h *CatalogHandler) DeleteLessonPlan(w http.ResponseWriter, r *http.Request, planID string) {
	if !h.ready(w) {
		return
	}
	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "DeleteLessonPlan", "principal_id", principal.StaffID, "plan_id", planID)

	if err := h.service.DeleteLessonPlan(r.Context(), principal, planID); err != nil {
		logger.ErrorContext(r.Context(), "lesson plan delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "lesson plan deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// namedItemRequest/namedItemDTO serve both courts and modalities, which carry
// the same fields on the wire.
type namedItemRequest struct {
	Nome      string `json:"nome" validate:"required"`
	Descricao string `json:"descricao"`
	Ativo     bool   `json:"ativo"`
}

type namedItemDTO struct {
	ID           string `json:"id"`
	Nome         string `json:"nome"`
	Descricao    string `json:"descricao,omitempty"`
	Ativo        bool   `json:"ativo"`
	CriadoEm     string `json:"criadoEm"`
	AtualizadoEm string `json:"atualizadoEm"`
}

type namedItemResponse struct {
	Item namedItemDTO `json:"item"`
}

type namedItemListResponse struct {
	Itens []namedItemDTO `json:"itens"`
}

func toLocationDTO(location application.Location) namedItemDTO {
	return namedItemDTO{
		ID:           location.ID,
		Nome:         location.Nome,
		Descricao:    location.Descricao,
		Ativo:        location.Ativo,
		CriadoEm:     location.CreatedAt.UTC().Format(time.RFC3339Nano),
		AtualizadoEm: location.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toModalityDTO(modality application.Modality) namedItemDTO {
	return namedItemDTO{
		ID:           modality.ID,
		Nome:         modality.Nome,
		Descricao:    modality.Descricao,
		Ativo:        modality.Ativo,
		CriadoEm:     modality.CreatedAt.UTC().Format(time.RFC3339Nano),
		AtualizadoEm: modality.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

type billingPlanRequest struct {
	Nome      string  `json:"nome" validate:"required"`
	Categoria string  `json:"categoria"`
	Modo      string  `json:"modo" validate:"omitempty,oneof=mensal avulsa pacote"`
	Valor     float64 `json:"valor" validate:"min=0"`
	Ativo     bool    `json:"ativo"`
}

func (r billingPlanRequest) toInput() application.BillingPlanInput {
	return application.BillingPlanInput{
		Nome:      strings.TrimSpace(r.Nome),
		Categoria: strings.TrimSpace(r.Categoria),
		Modo:      strings.TrimSpace(r.Modo),
		Valor:     r.Valor,
		Ativo:     r.Ativo,
	}
}

type billingPlanDTO struct {
	ID           string  `json:"id"`
	Nome         string  `json:"nome"`
	Categoria    string  `json:"categoria,omitempty"`
	Modo         string  `json:"modo,omitempty"`
	Valor        float64 `json:"valor"`
	Ativo        bool    `json:"ativo"`
	CriadoEm     string  `json:"criadoEm"`
	AtualizadoEm string  `json:"atualizadoEm"`
}

type billingPlanResponse struct {
	Plano billingPlanDTO `json:"plano"`
}

type listBillingPlansResponse struct {
	Planos []billingPlanDTO `json:"planos"`
}

func toBillingPlanDTO(plan application.BillingPlan) billingPlanDTO {
	return billingPlanDTO{
		ID:           plan.ID,
		Nome:         plan.Nome,
		Categoria:    plan.Categoria,
		Modo:         plan.Modo,
		Valor:        plan.Valor,
		Ativo:        plan.Ativo,
		CriadoEm:     plan.CreatedAt.UTC().Format(time.RFC3339Nano),
		AtualizadoEm: plan.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

type lessonPlanRequest struct {
	Nome         string `json:"nome" validate:"required"`
	Descricao    string `json:"descricao"`
	ModalidadeID string `json:"modalidadeId"`
	Ativo        bool   `json:"ativo"`
}

func (r lessonPlanRequest) toInput() application.LessonPlanInput {
	return application.LessonPlanInput{
		Nome:         strings.TrimSpace(r.Nome),
		Descricao:    r.Descricao,
		ModalidadeID: strings.TrimSpace(r.ModalidadeID),
		Ativo:        r.Ativo,
	}
}

type lessonPlanDTO struct {
	ID           string `json:"id"`
	Nome         string `json:"nome"`
	Descricao    string `json:"descricao,omitempty"`
	ModalidadeID string `json:"modalidadeId,omitempty"`
	Ativo        bool   `json:"ativo"`
	CriadoEm     string `json:"criadoEm"`
	AtualizadoEm string `json:"atualizadoEm"`
}

type lessonPlanResponse struct {
	Plano lessonPlanDTO `json:"plano"`
}

type listLessonPlansResponse struct {
	Planos []lessonPlanDTO `json:"planos"`
}

func toLessonPlanDTO(plan application.LessonPlan) lessonPlanDTO {
	return lessonPlanDTO{
		ID:           plan.ID,
		Nome:         plan.Nome,
		Descricao:    plan.Descricao,
		ModalidadeID: plan.ModalidadeID,
		Ativo:        plan.Ativo,
		CriadoEm:     plan.CreatedAt.UTC().Format(time.RFC3339Nano),
		AtualizadoEm: plan.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}
