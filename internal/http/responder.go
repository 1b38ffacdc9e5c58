package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/metodoleandrolobo/nexquadra-sub000/internal/application"
)

var (
	errBadRequestBody      = errors.New("corpo da requisição inválido")
	errMissingResourceID   = errors.New("identificador inválido")
	errMissingSessionToken = errors.New("informe o token de autenticação")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := statusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Mensagem: message})
}

// handleServiceError maps application sentinels and validation errors onto
// HTTP statuses. Validation details go out field by field so forms can point
// at the offending input.
func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("erro desconhecido"))
		return
	}

	switch {
	case errors.Is(err, application.ErrInvalidCredentials):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{
			Codigo:   "CREDENCIAIS_INVALIDAS",
			Mensagem: "CPF ou senha incorretos",
		})
	case errors.Is(err, application.ErrSessionExpired), errors.Is(err, application.ErrSessionRevoked):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{
			Codigo:   "SESSAO_INVALIDA",
			Mensagem: "sessão inválida, faça login novamente",
		})
	case errors.Is(err, application.ErrAccountDisabled):
		r.writeJSON(ctx, w, http.StatusForbidden, errorResponse{
			Codigo:   "CONTA_DESATIVADA",
			Mensagem: "conta sem acesso ao painel",
		})
	case errors.Is(err, application.ErrUnauthorized):
		r.writeJSON(ctx, w, http.StatusForbidden, errorResponse{
			Codigo:   "SEM_PERMISSAO",
			Mensagem: "você não tem permissão para esta operação",
		})
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Mensagem: "recurso não encontrado"})
	case errors.Is(err, application.ErrAlreadyExists):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{Mensagem: "registro já existente"})
	default:
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
				Mensagem: "dados inválidos",
				Erros:    vErr.FieldErrors,
			})
			return
		}

		r.loggerFor(ctx).ErrorContext(ctx, "unhandled service error", "error", err)
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Mensagem: "erro interno do servidor"})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func statusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "requisição inválida"
	case http.StatusUnauthorized:
		return "autenticação necessária"
	case http.StatusForbidden:
		return "você não tem permissão para esta operação"
	case http.StatusNotFound:
		return "recurso não encontrado"
	case http.StatusConflict:
		return "conflito com o estado atual do recurso"
	case http.StatusUnprocessableEntity:
		return "dados inválidos"
	default:
		return "erro interno do servidor"
	}
}

type errorResponse struct {
	Codigo   string            `json:"codigo,omitempty"`
	Mensagem string            `json:"mensagem"`
	Erros    map[string]string `json:"erros,omitempty"`
}
