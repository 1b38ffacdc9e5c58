package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/metodoleandrolobo/nexquadra-sub000/internal/agenda"
	"github.com/metodoleandrolobo/nexquadra-sub000/internal/application"
)

type agendaService interface {
	CreateAgenda(ctx context.Context, params application.CreateAgendaParams) (application.Agenda, error)
	UpdateAgenda(ctx context.Context, params application.UpdateAgendaParams) (application.Agenda, error)
	DeleteAgenda(ctx context.Context, principal application.Principal, agendaID string) error
	GetAgenda(ctx context.Context, principal application.Principal, agendaID string) (application.Agenda, error)
	ListAgendas(ctx context.Context, principal application.Principal) ([]application.Agenda, error)
	WeekGrid(ctx context.Context, principal application.Principal, agendaID string) (agenda.Grid, error)
	DaySchedule(ctx context.Context, principal application.Principal, agendaID, date string) ([]agenda.Slot, error)
}

type AgendaHandler struct {
	service   agendaService
	responder responder
	logger    *slog.Logger
}

func NewAgendaHandler(service agendaService, logger *slog.Logger) *AgendaHandler {
	base := defaultLogger(logger)
	return &AgendaHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *AgendaHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AgendaHandler", operation, attrs...)
}

func (h *AgendaHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req agendaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode agenda request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if err := validateRequest(req); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.StaffID)

	result, err := h.service.CreateAgenda(r.Context(), application.CreateAgendaParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "agenda creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("agenda_id", result.ID).InfoContext(r.Context(), "agenda created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, agendaResponse{Agenda: toAgendaDTO(result)})
}

func (h *AgendaHandler) Update(w http.ResponseWriter, r *http.Request, agendaID string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if strings.TrimSpace(agendaID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req agendaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "agenda_id", agendaID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode agenda update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if err := validateRequest(req); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.StaffID, "agenda_id", agendaID)

	result, err := h.service.UpdateAgenda(r.Context(), application.UpdateAgendaParams{
		Principal: principal,
		AgendaID:  agendaID,
		Input:     req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "agenda update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "agenda updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, agendaResponse{Agenda: toAgendaDTO(result)})
}

func (h *AgendaHandler) Delete(w http.ResponseWriter, r *http.Request, agendaID string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.StaffID, "agenda_id", agendaID)

	if err := h.service.DeleteAgenda(r.Context(), principal, agendaID); err != nil {
		logger.ErrorContext(r.Context(), "agenda delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "agenda deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *AgendaHandler) Get(w http.ResponseWriter, r *http.Request, agendaID string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	result, err := h.service.GetAgenda(r.Context(), principal, agendaID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, agendaResponse{Agenda: toAgendaDTO(result)})
}

func (h *AgendaHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "List", "principal_id", principal.StaffID)

	agendas, err := h.service.ListAgendas(r.Context(), principal)
	if err != nil {
		logger.ErrorContext(r.Context(), "agenda list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(agendas)).InfoContext(r.Context(), "agendas listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listAgendasResponse{Agendas: toAgendaDTOs(agendas)})
}

// Grid handles GET /agendas/{id}/grade: the weekly time-label axis.
func (h *AgendaHandler) Grid(w http.ResponseWriter, r *http.Request, agendaID string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	grid, err := h.service.WeekGrid(r.Context(), principal, agendaID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, gridResponse{
		Inicio:           agenda.LabelOf(grid.StartMinutes),
		Fim:              agenda.LabelOf(grid.EndMinutes),
		IntervaloMinutos: grid.SlotMinutes,
		Horarios:         grid.Labels,
	})
}

// Day handles GET /agendas/{id}/dias/{data}: slot-by-slot occupancy.
func (h *AgendaHandler) Day(w http.ResponseWriter, r *http.Request, agendaID, date string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	slots, err := h.service.DaySchedule(r.Context(), principal, agendaID, date)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, dayScheduleResponse{Data: date, Horarios: slots})
}

type agendaDayDTO struct {
	Ativo            bool   `json:"ativo"`
	Inicio           string `json:"inicio,omitempty"`
	Fim              string `json:"fim,omitempty"`
	IntervaloMinutos int    `json:"intervaloMinutos,omitempty"`
}

type agendaRequest struct {
	Nome             string         `json:"nome" validate:"required"`
	Tipo             string         `json:"tipo" validate:"omitempty,oneof=aulas reservas hibrida"`
	Publica          bool           `json:"publica"`
	Ativa            bool           `json:"ativa"`
	ProfessorID      string         `json:"professorId"`
	LocalID          string         `json:"localId"`
	ModalidadeID     string         `json:"modalidadeId"`
	Inicio           string         `json:"inicio"`
	Fim              string         `json:"fim"`
	IntervaloMinutos int            `json:"intervaloMinutos" validate:"min=0"`
	DiasSemana       []int          `json:"diasSemana" validate:"dive,min=0,max=6"`
	Dias             []agendaDayDTO `json:"dias"`
}

func (r agendaRequest) toInput() application.AgendaInput {
	input := application.AgendaInput{
		Nome:             strings.TrimSpace(r.Nome),
		Tipo:             application.AgendaKind(r.Tipo),
		Publica:          r.Publica,
		Ativa:            r.Ativa,
		ProfessorID:      r.ProfessorID,
		LocalID:          r.LocalID,
		ModalidadeID:     r.ModalidadeID,
		Inicio:           strings.TrimSpace(r.Inicio),
		Fim:              strings.TrimSpace(r.Fim),
		IntervaloMinutos: r.IntervaloMinutos,
	}
	for _, day := range r.DiasSemana {
		input.DiasSemana = append(input.DiasSemana, time.Weekday(day))
	}
	if r.Dias != nil {
		input.Dias = make([]agenda.DayWindow, 0, len(r.Dias))
		for _, day := range r.Dias {
			input.Dias = append(input.Dias, agenda.DayWindow{
				Active:      day.Ativo,
				Start:       strings.TrimSpace(day.Inicio),
				End:         strings.TrimSpace(day.Fim),
				SlotMinutes: day.IntervaloMinutos,
			})
		}
	}
	return input
}

type agendaDTO struct {
	ID               string         `json:"id"`
	Nome             string         `json:"nome"`
	Tipo             string         `json:"tipo"`
	Publica          bool           `json:"publica"`
	Ativa            bool           `json:"ativa"`
	ProfessorID      string         `json:"professorId,omitempty"`
	LocalID          string         `json:"localId,omitempty"`
	ModalidadeID     string         `json:"modalidadeId,omitempty"`
	Inicio           string         `json:"inicio,omitempty"`
	Fim              string         `json:"fim,omitempty"`
	IntervaloMinutos int            `json:"intervaloMinutos,omitempty"`
	DiasSemana       []int          `json:"diasSemana,omitempty"`
	Dias             []agendaDayDTO `json:"dias,omitempty"`
	CriadoEm         string         `json:"criadoEm"`
	AtualizadoEm     string         `json:"atualizadoEm"`
}

type agendaResponse struct {
	Agenda agendaDTO `json:"agenda"`
}

type listAgendasResponse struct {
	Agendas []agendaDTO `json:"agendas"`
}

type gridResponse struct {
	Inicio           string   `json:"inicio"`
	Fim              string   `json:"fim"`
	IntervaloMinutos int      `json:"intervaloMinutos"`
	Horarios         []string `json:"horarios"`
}

type dayScheduleResponse struct {
	Data     string        `json:"data"`
	Horarios []agenda.Slot `json:"horarios"`
}

func toAgendaDTO(a application.Agenda) agendaDTO {
	dto := agendaDTO{
		ID:               a.ID,
		Nome:             a.Nome,
		Tipo:             string(a.Tipo),
		Publica:          a.Publica,
		Ativa:            a.Ativa,
		ProfessorID:      a.Fixa.ProfessorID,
		LocalID:          a.Fixa.LocalID,
		ModalidadeID:     a.Fixa.ModalidadeID,
		Inicio:           a.Config.Start,
		Fim:              a.Config.End,
		IntervaloMinutos: a.Config.SlotMinutes,
		CriadoEm:         a.CreatedAt.UTC().Format(time.RFC3339Nano),
		AtualizadoEm:     a.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	for _, day := range a.Config.Weekdays {
		dto.DiasSemana = append(dto.DiasSemana, int(day))
	}
	for _, day := range a.Config.Days {
		dto.Dias = append(dto.Dias, agendaDayDTO{
			Ativo:            day.Active,
			Inicio:           day.Start,
			Fim:              day.End,
			IntervaloMinutos: day.SlotMinutes,
		})
	}
	return dto
}

func toAgendaDTOs(agendas []application.Agenda) []agendaDTO {
	if len(agendas) == 0 {
		return nil
	}
	out := make([]agendaDTO, 0, len(agendas))
	for _, a := range agendas {
		out = append(out, toAgendaDTO(a))
	}
	return out
}
