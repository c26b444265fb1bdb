package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/ecoleta/ecoleta-backend/pkg/errors"
)

type addressBody struct {
	CEP  string `json:"cep" validate:"notblank"`
	Rua  string `json:"rua" validate:"notblank"`
	Nota string `json:"nota"`
}

type registerBody struct {
	Email    string       `json:"email" validate:"notblank"`
	DataNasc string       `json:"dataNasc" validate:"notblank,datetime=2006-01-02"`
	Endereco *addressBody `json:"endereco" validate:"required"`
}

func request(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func TestDecodeJSONBodyMessages(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"invalid json", `{"email":`, "invalid request body"},
		{"blank email", `{"email":"   ","dataNasc":"2000-01-01","endereco":{"cep":"1","rua":"a"}}`, "missing required field: email"},
		{"bad date", `{"email":"a@b.c","dataNasc":"01/01/2000","endereco":{"cep":"1","rua":"a"}}`, "dataNasc must be a date in YYYY-MM-DD format"},
		{"missing address", `{"email":"a@b.c","dataNasc":"2000-01-01"}`, "missing required field: endereco"},
		{"incomplete address", `{"email":"a@b.c","dataNasc":"2000-01-01","endereco":{"cep":"1"}}`, "incomplete address data"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var dest registerBody
			err := DecodeJSONBody(request(tc.body), &dest)
			if !pkgerrors.HasCode(err, pkgerrors.CodeMalformedRequest) {
				t.Fatalf("expected malformed request, got %v", err)
			}
			if msg := pkgerrors.As(err).Message(); msg != tc.want {
				t.Fatalf("expected %q got %q", tc.want, msg)
			}
		})
	}
}

func TestDecodeJSONBodyIgnoresUnknownFields(t *testing.T) {
	var dest registerBody
	body := `{"email":"a@b.c","dataNasc":"2000-01-01","extra":true,"endereco":{"cep":"1","rua":"a","nota":""}}`
	if err := DecodeJSONBody(request(body), &dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dest.Endereco == nil || dest.Endereco.Rua != "a" {
		t.Fatalf("unexpected decode %+v", dest)
	}
}

func TestDecodeJSONSkipsValidation(t *testing.T) {
	var dest registerBody
	if err := DecodeJSON(request(`{}`), &dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
