package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/metodoleandrolobo/nexquadra-sub000/internal/viacep"
)

type cepLookup interface {
	Lookup(ctx context.Context, cep string) (viacep.Address, error)
}

type CEPHandler struct {
	lookup    cepLookup
	responder responder
	logger    *slog.Logger
}

func NewCEPHandler(lookup cepLookup, logger *slog.Logger) *CEPHandler {
	base := defaultLogger(logger)
	return &CEPHandler{lookup: lookup, responder: newResponder(base), logger: base}
}

// Get handles GET /cep/{codigo}: the address autofill used by the people
// registration forms.
func (h *CEPHandler) Get(w http.ResponseWriter, r *http.Request, codigo string) {
	if h == nil || h.lookup == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := handlerLogger(r.Context(), h.logger, "CEPHandler", "Get", "cep", codigo)

	address, err := h.lookup.Lookup(r.Context(), codigo)
	if err != nil {
		switch {
		case errors.Is(err, viacep.ErrInvalidCEP):
			h.responder.writeJSON(r.Context(), w, http.StatusUnprocessableEntity, errorResponse{
				Mensagem: "dados inválidos",
				Erros:    map[string]string{"cep": "CEP deve ter 8 dígitos"},
			})
		case errors.Is(err, viacep.ErrNotFound):
			h.responder.writeJSON(r.Context(), w, http.StatusNotFound, errorResponse{Mensagem: "CEP não encontrado"})
		default:
			logger.ErrorContext(r.Context(), "cep lookup failed", "error", err)
			h.responder.writeJSON(r.Context(), w, http.StatusBadGateway, errorResponse{Mensagem: "serviço de CEP indisponível"})
		}
		return
	}

	logger.InfoContext(r.Context(), "cep resolved")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, cepResponse{
		Endereco: enderecoDTO{
			CEP:         address.CEP,
			Logradouro:  address.Logradouro,
			Bairro:      address.Bairro,
			Cidade:      address.Localidade,
			UF:          address.UF,
			Complemento: address.Complemento,
		},
	})
}

type cepResponse struct {
	Endereco enderecoDTO `json:"endereco"`
}
