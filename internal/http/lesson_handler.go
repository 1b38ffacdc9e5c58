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

type lessonService interface {
	CreateLesson(ctx context.Context, params application.CreateLessonParams) (application.Lesson, error)
	UpdateLesson(ctx context.Context, params application.UpdateLessonParams) (application.Lesson, error)
	DeleteLesson(ctx context.Context, principal application.Principal, lessonID string, modo application.EditMode) error
	GetLesson(ctx context.Context, principal application.Principal, lessonID string) (application.Lesson, error)
	ListLessons(ctx context.Context, params application.ListLessonsParams) ([]application.Lesson, error)
}

type LessonHandler struct {
	service   lessonService
	responder responder
	logger    *slog.Logger
}

func NewLessonHandler(service lessonService, logger *slog.Logger) *LessonHandler {
	base := defaultLogger(logger)
	return &LessonHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *LessonHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "LessonHandler", operation, attrs...)
}

func (h *LessonHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req lessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode lesson request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if err := validateRequest(req); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.StaffID, "date", req.Data)

	result, err := h.service.CreateLesson(r.Context(), application.CreateLessonParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "lesson creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("lesson_id", result.ID).InfoContext(r.Context(), "lesson created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, lessonResponse{Aula: toLessonDTO(result)})
}

func (h *LessonHandler) Update(w http.ResponseWriter, r *http.Request, lessonID string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if strings.TrimSpace(lessonID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req lessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "lesson_id", lessonID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode lesson update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if err := validateRequest(req); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	modo := application.EditMode(r.URL.Query().Get("modo"))
	logger := h.log(r.Context(), "Update", "principal_id", principal.StaffID, "lesson_id", lessonID, "mode", string(modo))

	result, err := h.service.UpdateLesson(r.Context(), application.UpdateLessonParams{
		Principal: principal,
		LessonID:  lessonID,
		Modo:      modo,
		Input:     req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "lesson update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "lesson updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, lessonResponse{Aula: toLessonDTO(result)})
}

func (h *LessonHandler) Delete(w http.ResponseWriter, r *http.Request, lessonID string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	modo := application.EditMode(r.URL.Query().Get("modo"))
	logger := h.log(r.Context(), "Delete", "principal_id", principal.StaffID, "lesson_id", lessonID, "mode", string(modo))

	if err := h.service.DeleteLesson(r.Context(), principal, lessonID, modo); err != nil {
		logger.ErrorContext(r.Context(), "lesson delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "lesson deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *LessonHandler) Get(w http.ResponseWriter, r *http.Request, lessonID string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	result, err := h.service.GetLesson(r.Context(), principal, lessonID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, lessonResponse{Aula: toLessonDTO(result)})
}

// List handles GET /aulas?periodo=dia|semana|mes&referencia=AAAA-MM-DD&agendaId=...
func (h *LessonHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	query := r.URL.Query()

	params := application.ListLessonsParams{
		Principal: principal,
		Period:    application.ListPeriod(query.Get("periodo")),
		Reference: query.Get("referencia"),
		AgendaID:  query.Get("agendaId"),
	}

	logger := h.log(r.Context(), "List",
		"principal_id", principal.StaffID,
		"period", string(params.Period),
		"reference", params.Reference,
	)

	lessons, err := h.service.ListLessons(r.Context(), params)
	if err != nil {
		logger.ErrorContext(r.Context(), "lesson list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(lessons)).InfoContext(r.Context(), "lessons listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listLessonsResponse{Aulas: toLessonDTOs(lessons)})
}

type cobrancaDTO struct {
	Categoria string  `json:"categoria,omitempty"`
	Modo      string  `json:"modo,omitempty"`
	Valor     float64 `json:"valor,omitempty"`
}

type lessonRequest struct {
	Data         string      `json:"data" validate:"required"`
	Inicio       string      `json:"inicio" validate:"required"`
	Fim          string      `json:"fim" validate:"required"`
	AgendaID     string      `json:"agendaId"`
	ProfessorID  string      `json:"professorId"`
	LocalID      string      `json:"localId"`
	ModalidadeID string      `json:"modalidadeId"`
	Alunos       []string    `json:"alunos"`
	TipoTurma    string      `json:"tipoTurma" validate:"omitempty,oneof=exclusiva compartilhada"`
	Capacidade   int         `json:"capacidade" validate:"min=0"`
	Repetir      bool        `json:"repetir"`
	Cobranca     cobrancaDTO `json:"cobranca"`
	Atividade    string      `json:"atividade"`
	Observacoes  string      `json:"observacoes"`
}

func (r lessonRequest) toInput() application.LessonInput {
	return application.LessonInput{
		Data:         strings.TrimSpace(r.Data),
		Inicio:       strings.TrimSpace(r.Inicio),
		Fim:          strings.TrimSpace(r.Fim),
		AgendaID:     strings.TrimSpace(r.AgendaID),
		ProfessorID:  strings.TrimSpace(r.ProfessorID),
		LocalID:      strings.TrimSpace(r.LocalID),
		ModalidadeID: strings.TrimSpace(r.ModalidadeID),
		AlunoIDs:     r.Alunos,
		TipoTurma:    application.TurmaKind(r.TipoTurma),
		Capacidade:   r.Capacidade,
		Repetir:      r.Repetir,
		Cobranca: application.Cobranca{
			Categoria: strings.TrimSpace(r.Cobranca.Categoria),
			Modo:      strings.TrimSpace(r.Cobranca.Modo),
			Valor:     r.Cobranca.Valor,
		},
		Atividade:   r.Atividade,
		Observacoes: r.Observacoes,
	}
}

type lessonStudentDTO struct {
	ID   string `json:"id"`
	Nome string `json:"nome,omitempty"`
}

type lessonDTO struct {
	ID             string             `json:"id"`
	Data           string             `json:"data"`
	Inicio         string             `json:"inicio"`
	Fim            string             `json:"fim"`
	AgendaID       string             `json:"agendaId,omitempty"`
	ProfessorID    string             `json:"professorId,omitempty"`
	ProfessorNome  string             `json:"professorNome,omitempty"`
	LocalID        string             `json:"localId,omitempty"`
	LocalNome      string             `json:"localNome,omitempty"`
	ModalidadeID   string             `json:"modalidadeId,omitempty"`
	ModalidadeNome string             `json:"modalidadeNome,omitempty"`
	Alunos         []lessonStudentDTO `json:"alunos,omitempty"`
	TipoTurma      string             `json:"tipoTurma"`
	Capacidade     int                `json:"capacidade"`
	Repetir        bool               `json:"repetir"`
	RepetirID      string             `json:"repetirId,omitempty"`
	Cobranca       cobrancaDTO        `json:"cobranca"`
	Atividade      string             `json:"atividade,omitempty"`
	Observacoes    string             `json:"observacoes,omitempty"`
	CriadoEm       string             `json:"criadoEm"`
	AtualizadoEm   string             `json:"atualizadoEm"`
}

type lessonResponse struct {
	Aula lessonDTO `json:"aula"`
}

type listLessonsResponse struct {
	Aulas []lessonDTO `json:"aulas"`
}

func toLessonDTO(lesson application.Lesson) lessonDTO {
	dto := lessonDTO{
		ID:             lesson.ID,
		Data:           lesson.Data,
		Inicio:         lesson.Inicio,
		Fim:            lesson.Fim,
		AgendaID:       lesson.AgendaID,
		ProfessorID:    lesson.Atribuicao.ProfessorID,
		ProfessorNome:  lesson.ProfessorNome,
		LocalID:        lesson.Atribuicao.LocalID,
		LocalNome:      lesson.LocalNome,
		ModalidadeID:   lesson.Atribuicao.ModalidadeID,
		ModalidadeNome: lesson.ModalidadeNome,
		TipoTurma:      string(lesson.TipoTurma),
		Capacidade:     lesson.Capacidade,
		Repetir:        lesson.Repetir,
		RepetirID:      lesson.RepetirID,
		Cobranca: cobrancaDTO{
			Categoria: lesson.Cobranca.Categoria,
			Modo:      lesson.Cobranca.Modo,
			Valor:     lesson.Cobranca.Valor,
		},
		Atividade:    lesson.Atividade,
		Observacoes:  lesson.Observacoes,
		CriadoEm:     lesson.CreatedAt.UTC().Format(time.RFC3339Nano),
		AtualizadoEm: lesson.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	for i, id := range lesson.AlunoIDs {
		student := lessonStudentDTO{ID: id}
		if i < len(lesson.AlunoNomes) {
			student.Nome = lesson.AlunoNomes[i]
		}
		dto.Alunos = append(dto.Alunos, student)
	}
	return dto
}

func toLessonDTOs(lessons []application.Lesson) []lessonDTO {
	if len(lessons) == 0 {
		return nil
	}
	out := make([]lessonDTO, 0, len(lessons))
	for _, lesson := range lessons {
		out = append(out, toLessonDTO(lesson))
	}
	return out
}
