package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/ecoleta/ecoleta-backend/internal/address"
	"github.com/ecoleta/ecoleta-backend/internal/generators"
	"github.com/ecoleta/ecoleta-backend/internal/session"
	"github.com/ecoleta/ecoleta-backend/pkg/enums"
)

type field struct {
	label string
	value *string
}

func (a *App) register(ctx context.Context, args []string) error {
	fs := a.flagSet("register")
	req := generators.RegisterRequest{Address: &generators.AddressInput{}}
	addr := req.Address
	photoPath := fs.String("foto", "", "path to a png or jpeg profile photo")
	fs.StringVar(&req.Email, "email", "", "account email")
	fs.StringVar(&req.Name, "nome", "", "full name")
	fs.StringVar(&req.CPF, "cpf", "", "CPF")
	fs.StringVar(&req.Phone, "telefone", "", "phone number")
	fs.StringVar(&req.BirthDate, "nasc", "", "birth date (YYYY-MM-DD)")
	fs.StringVar(&req.Gender, "genero", "", "gender: M, F or O")
	fs.StringVar(&addr.CEP, "cep", "", "postal code")
	fs.StringVar(&addr.Street, "rua", "", "street")
	fs.StringVar(&addr.Number, "numero", "", "street number")
	fs.StringVar(&addr.Complement, "complemento", "", "address complement")
	fs.StringVar(&addr.Neighborhood, "bairro", "", "neighborhood")
	fs.StringVar(&addr.City, "cidade", "", "city")
	fs.StringVar(&addr.State, "estado", "", "state (UF)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.fill([]field{
		{"Email", &req.Email},
		{"Full name", &req.Name},
		{"CPF", &req.CPF},
		{"Phone", &req.Phone},
		{"Birth date (YYYY-MM-DD)", &req.BirthDate},
		{"CEP", &addr.CEP},
	}); err != nil {
		return err
	}

	a.autofillAddress(ctx, addr)

	if err := a.fill([]field{
		{"Street", &addr.Street},
		{"Number", &addr.Number},
		{"Neighborhood", &addr.Neighborhood},
		{"City", &addr.City},
		{"State", &addr.State},
	}); err != nil {
		return err
	}

	password, err := a.readPassword()
	if err != nil {
		return err
	}
	req.Password = password

	if *photoPath != "" {
		uri, err := photoDataURI(*photoPath)
		if err != nil {
			return err
		}
		req.Photo = uri
	}

	result, msg, err := a.api.Register(ctx, req)
	if err != nil {
		return err
	}

	if err := a.session.Write(session.User{
		ID:     result.ID,
		Email:  result.Email,
		Nome:   result.Name,
		Status: string(enums.GeneratorStatusPending),
	}); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s: %s (id %d)\n", msg, result.Email, result.ID)
	return nil
}

// autofillAddress fills the address fields left empty from the postal code.
// Lookup failures only print a warning.
func (a *App) autofillAddress(ctx context.Context, addr *generators.AddressInput) {
	af := a.autofill()
	switch af.Resolve(ctx, addr.CEP) {
	case address.OutcomeResolved:
		fields := af.Snapshot().Fields
		setIfEmpty(&addr.Street, fields.Street)
		setIfEmpty(&addr.Neighborhood, fields.Neighborhood)
		setIfEmpty(&addr.City, fields.City)
		setIfEmpty(&addr.State, fields.State)
	case address.OutcomeNotFound, address.OutcomeNetworkFailure:
		fmt.Fprintln(a.errOut, "warning:", af.Snapshot().Message)
	}
}

func (a *App) fill(fields []field) error {
	for _, f := range fields {
		if strings.TrimSpace(*f.value) != "" {
			continue
		}
		value, err := prompt(a.in, a.out, f.label)
		if err != nil {
			return err
		}
		*f.value = value
	}
	return nil
}

func setIfEmpty(dst *string, value string) {
	if strings.TrimSpace(*dst) == "" {
		*dst = value
	}
}
