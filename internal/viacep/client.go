// Package viacep looks up Brazilian postal addresses on the public ViaCEP
// service. Lookups are read-only and carry no credentials.
package viacep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the public ViaCEP endpoint.
const DefaultBaseURL = "https://viacep.com.br"

const defaultTimeout = 5 * time.Second

var (
	// ErrInvalidCEP indicates the code is not exactly eight digits.
	ErrInvalidCEP = errors.New("viacep: cep must have exactly 8 digits")
	// ErrNotFound indicates the service knows no address for the code.
	ErrNotFound = errors.New("viacep: cep not found")
)

// Address is the subset of the ViaCEP payload the admin panel consumes.
type Address struct {
	CEP         string `json:"cep"`
	Logradouro  string `json:"logradouro"`
	Complemento string `json:"complemento"`
	Bairro      string `json:"bairro"`
	Localidade  string `json:"localidade"`
	UF          string `json:"uf"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// Lookup fetches the address registered for cep. The code may arrive
// formatted ("01310-100"); only its digits are sent to the service.
func (c *Client) Lookup(ctx context.Context, cep string) (Address, error) {
	if c == nil {
		return Address{}, fmt.Errorf("viacep: client is nil")
	}

	digits := digitsOf(cep)
	if len(digits) != 8 {
		return Address{}, ErrInvalidCEP
	}

	url := fmt.Sprintf("%s/ws/%s/json/", c.baseURL, digits)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Address{}, fmt.Errorf("viacep: failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Address{}, fmt.Errorf("viacep: request failed: %w", err)
	}
	defer resp.Body.Close()

	// ViaCEP answers 400 for malformed codes and 200 with {"erro": true}
	// for well-formed codes it does not know.
	if resp.StatusCode == http.StatusBadRequest {
		return Address{}, ErrInvalidCEP
	}
	if resp.StatusCode != http.StatusOK {
		return Address{}, fmt.Errorf("viacep: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Address{}, fmt.Errorf("viacep: failed to read response: %w", err)
	}

	var payload struct {
		Address
		Erro bool `json:"erro"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return Address{}, fmt.Errorf("viacep: failed to decode response: %w", err)
	}
	if payload.Erro {
		return Address{}, ErrNotFound
	}
	return payload.Address, nil
}

func digitsOf(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
