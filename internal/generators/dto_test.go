package generators

import (
	"testing"

	pkgerrors "github.com/ecoleta/ecoleta-backend/pkg/errors"
)

func TestRegisterRequestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*RegisterRequest)
		message string
	}{
		{"missing email", func(r *RegisterRequest) { r.Email = "  " }, "missing required field: email"},
		{"missing password", func(r *RegisterRequest) { r.Password = "" }, "missing required field: senha"},
		{"missing cpf", func(r *RegisterRequest) { r.CPF = "" }, "missing required field: cpf"},
		{"missing birth date", func(r *RegisterRequest) { r.BirthDate = "" }, "missing required field: dataNasc"},
		{"missing address", func(r *RegisterRequest) { r.Address = nil }, "missing required field: endereco"},
		{"blank street", func(r *RegisterRequest) { r.Address.Street = " " }, "incomplete address data"},
		{"missing state", func(r *RegisterRequest) { r.Address.State = "" }, "incomplete address data"},
		{"bad date", func(r *RegisterRequest) { r.BirthDate = "15/05/1990" }, msgInvalidBirthDate},
		{"cpf without digits", func(r *RegisterRequest) { r.CPF = "...-" }, "invalid cpf"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := sampleRequest("ana@example.com", "111.444.777-35")
			tc.mutate(&req)
			err := req.Validate()
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeMalformedRequest {
				t.Fatalf("expected malformed request, got %v", err)
			}
			if typed.Message() != tc.message {
				t.Fatalf("expected message %q, got %q", tc.message, typed.Message())
			}
		})
	}

	req := sampleRequest("ana@example.com", "111.444.777-35")
	req.Address.Complement = ""
	req.Gender = ""
	req.Photo = ""
	if err := req.Validate(); err != nil {
		t.Fatalf("optional fields must not be required: %v", err)
	}
}

func TestValidateDocuments(t *testing.T) {
	req := sampleRequest("ana@example.com", "111.444.777-35")
	if err := req.validateDocuments(); err != nil {
		t.Fatalf("expected valid documents, got %v", err)
	}
	req.CPF = "123.456.789-00"
	if err := req.validateDocuments(); !pkgerrors.HasCode(err, pkgerrors.CodeMalformedRequest) {
		t.Fatalf("expected invalid cpf, got %v", err)
	}
	req.CPF = "111.444.777-35"
	req.Phone = "12345"
	if err := req.validateDocuments(); !pkgerrors.HasCode(err, pkgerrors.CodeMalformedRequest) {
		t.Fatalf("expected invalid phone, got %v", err)
	}
}

func TestNewCreateAddressDTONormalizesCEP(t *testing.T) {
	dto := newCreateAddressDTO(AddressInput{
		CEP:          "01001-000",
		Street:       " Praça da Sé ",
		Number:       "100",
		Neighborhood: "Sé",
		City:         "São Paulo",
		State:        "SP",
	})
	if dto.CEP != "01001000" || dto.Street != "Praça da Sé" || dto.Complement != "" {
		t.Fatalf("unexpected dto %+v", dto)
	}
}

func sampleRequest(email, cpf string) RegisterRequest {
	return RegisterRequest{
		Email:     email,
		Password:  "s3cret",
		Name:      "Ana Souza",
		CPF:       cpf,
		Phone:     "(11) 98888-7777",
		BirthDate: "1990-05-15",
		Gender:    "F",
		Address: &AddressInput{
			CEP:          "01001-000",
			Street:       "Praça da Sé",
			Number:       "100",
			Complement:   "apto 1",
			Neighborhood: "Sé",
			City:         "São Paulo",
			State:        "SP",
		},
	}
}
