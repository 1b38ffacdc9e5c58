package viacep

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientLookup(t *testing.T) {
	t.Parallel()

	t.Run("returns the address for a known cep", func(t *testing.T) {
		t.Parallel()

		var requestedPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestedPath = r.URL.Path
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"cep": "01310-100",
				"logradouro": "Avenida Paulista",
				"complemento": "de 612 a 1510 - lado par",
				"bairro": "Bela Vista",
				"localidade": "São Paulo",
				"uf": "SP"
			}`))
		}))
		defer server.Close()

		client := NewClient(server.URL)

		address, err := client.Lookup(context.Background(), "01310-100")
		if err != nil {
			t.Fatalf("Lookup returned error: %v", err)
		}

		if requestedPath != "/ws/01310100/json/" {
			t.Errorf("requested path = %q, want %q", requestedPath, "/ws/01310100/json/")
		}
		if address.Logradouro != "Avenida Paulista" {
			t.Errorf("Logradouro = %q, want %q", address.Logradouro, "Avenida Paulista")
		}
		if address.Localidade != "São Paulo" {
			t.Errorf("Localidade = %q, want %q", address.Localidade, "São Paulo")
		}
		if address.UF != "SP" {
			t.Errorf("UF = %q, want %q", address.UF, "SP")
		}
	})

	t.Run("maps the erro payload to ErrNotFound", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"erro": true}`))
		}))
		defer server.Close()

		client := NewClient(server.URL)

		_, err := client.Lookup(context.Background(), "99999999")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Lookup error = %v, want ErrNotFound", err)
		}
	})

	t.Run("rejects codes without exactly eight digits", func(t *testing.T) {
		t.Parallel()

		client := NewClient("http://unused.invalid")

		for _, cep := range []string{"", "1234", "123456789", "abcdefgh"} {
			if _, err := client.Lookup(context.Background(), cep); !errors.Is(err, ErrInvalidCEP) {
				t.Errorf("Lookup(%q) error = %v, want ErrInvalidCEP", cep, err)
			}
		}
	})

	t.Run("accepts formatted codes and strips punctuation", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/ws/70040010/json/" {
				t.Errorf("requested path = %q, want %q", r.URL.Path, "/ws/70040010/json/")
			}
			w.Write([]byte(`{"cep": "70040-010", "localidade": "Brasília", "uf": "DF"}`))
		}))
		defer server.Close()

		client := NewClient(server.URL)

		address, err := client.Lookup(context.Background(), "70.040-010")
		if err != nil {
			t.Fatalf("Lookup returned error: %v", err)
		}
		if address.CEP != "70040-010" {
			t.Errorf("CEP = %q, want %q", address.CEP, "70040-010")
		}
	})

	t.Run("maps a 400 answer to ErrInvalidCEP", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		client := NewClient(server.URL)

		if _, err := client.Lookup(context.Background(), "12345678"); !errors.Is(err, ErrInvalidCEP) {
			t.Errorf("Lookup error = %v, want ErrInvalidCEP", err)
		}
	})

	t.Run("surfaces unexpected statuses", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewClient(server.URL)

		_, err := client.Lookup(context.Background(), "12345678")
		if err == nil {
			t.Fatal("Lookup returned nil error for a 500 answer")
		}
	})
}
