package generators

import (
	"strings"
	"time"

	"github.com/ecoleta/ecoleta-backend/pkg/db/models"
	"github.com/ecoleta/ecoleta-backend/pkg/enums"
	pkgerrors "github.com/ecoleta/ecoleta-backend/pkg/errors"
	"github.com/ecoleta/ecoleta-backend/pkg/normalize"
)

// BirthDateLayout is the accepted format for dataNasc.
const BirthDateLayout = "2006-01-02"

const (
	msgMissingFieldPrefix = "missing required field: "
	msgIncompleteAddress  = "incomplete address data"
	msgInvalidBirthDate   = "dataNasc must be a date in YYYY-MM-DD format"
	msgInvalidCPF         = "invalid cpf"
	msgInvalidPhone       = "invalid phone number"
)

// AddressInput is the nested endereco object of a registration.
type AddressInput struct {
	CEP          string `json:"cep" validate:"notblank"`
	Street       string `json:"rua" validate:"notblank"`
	Number       string `json:"numero" validate:"notblank"`
	Complement   string `json:"complemento"`
	Neighborhood string `json:"bairro" validate:"notblank"`
	City         string `json:"cidade" validate:"notblank"`
	State        string `json:"estado" validate:"notblank"`
}

// RegisterRequest is the public registration payload.
type RegisterRequest struct {
	Email     string        `json:"email" validate:"notblank"`
	Password  string        `json:"senha" validate:"notblank"`
	Name      string        `json:"nome" validate:"notblank"`
	CPF       string        `json:"cpf" validate:"notblank"`
	Phone     string        `json:"telefone" validate:"notblank"`
	BirthDate string        `json:"dataNasc" validate:"notblank,datetime=2006-01-02"`
	Gender    string        `json:"genero"`
	Photo     string        `json:"foto"`
	Address   *AddressInput `json:"endereco" validate:"required"`
}

// Validate performs the structural checks that must pass before any storage
// access. Messages name the JSON field.
func (r RegisterRequest) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"email", r.Email},
		{"senha", r.Password},
		{"nome", r.Name},
		{"cpf", r.CPF},
		{"telefone", r.Phone},
		{"dataNasc", r.BirthDate},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return pkgerrors.New(pkgerrors.CodeMalformedRequest, msgMissingFieldPrefix+f.field)
		}
	}
	if _, err := time.Parse(BirthDateLayout, strings.TrimSpace(r.BirthDate)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeMalformedRequest, err, msgInvalidBirthDate)
	}
	if r.Address == nil {
		return pkgerrors.New(pkgerrors.CodeMalformedRequest, msgMissingFieldPrefix+"endereco")
	}
	if !r.Address.complete() {
		return pkgerrors.New(pkgerrors.CodeMalformedRequest, msgIncompleteAddress)
	}
	if normalize.Digits(r.CPF) == "" {
		return pkgerrors.New(pkgerrors.CodeMalformedRequest, msgInvalidCPF)
	}
	return nil
}

func (a AddressInput) complete() bool {
	for _, v := range []string{a.CEP, a.Street, a.Number, a.Neighborhood, a.City, a.State} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// validateDocuments applies the CPF checksum and Brazilian phone checks.
func (r RegisterRequest) validateDocuments() error {
	if !normalize.ValidCPF(r.CPF) {
		return pkgerrors.New(pkgerrors.CodeMalformedRequest, msgInvalidCPF)
	}
	if !normalize.ValidPhone(r.Phone) {
		return pkgerrors.New(pkgerrors.CodeMalformedRequest, msgInvalidPhone)
	}
	return nil
}

// RegisterResult is returned on a successful registration.
type RegisterResult struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"nome"`
}

// CreateAddressDTO carries normalized address values.
type CreateAddressDTO struct {
	CEP          string
	Street       string
	Number       string
	Complement   string
	Neighborhood string
	City         string
	State        string
}

func (d CreateAddressDTO) ToModel() *models.Address {
	return &models.Address{
		CEP:          d.CEP,
		Street:       d.Street,
		Number:       d.Number,
		Complement:   d.Complement,
		Neighborhood: d.Neighborhood,
		City:         d.City,
		State:        d.State,
	}
}

func newCreateAddressDTO(in AddressInput) CreateAddressDTO {
	return CreateAddressDTO{
		CEP:          normalize.Digits(in.CEP),
		Street:       strings.TrimSpace(in.Street),
		Number:       strings.TrimSpace(in.Number),
		Complement:   strings.TrimSpace(in.Complement),
		Neighborhood: strings.TrimSpace(in.Neighborhood),
		City:         strings.TrimSpace(in.City),
		State:        strings.TrimSpace(in.State),
	}
}

// CreateGeneratorDTO carries normalized generator values.
type CreateGeneratorDTO struct {
	Email        string
	PasswordHash string
	Name         string
	CPF          string
	Phone        string
	BirthDate    time.Time
	Gender       enums.Gender
	PhotoRef     *string
	AddressID    uint
}

func (d CreateGeneratorDTO) ToModel() *models.Generator {
	return &models.Generator{
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Name:         d.Name,
		CPF:          d.CPF,
		Phone:        d.Phone,
		BirthDate:    d.BirthDate,
		Gender:       d.Gender,
		PhotoRef:     d.PhotoRef,
		AddressID:    d.AddressID,
		Status:       enums.GeneratorStatusPending,
	}
}
