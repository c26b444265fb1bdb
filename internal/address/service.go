package address

import (
	"context"

	pkgerrors "github.com/ecoleta/ecoleta-backend/pkg/errors"
	"github.com/ecoleta/ecoleta-backend/pkg/viacep"
)

// Lookuper resolves a postal code into an address.
type Lookuper interface {
	Lookup(ctx context.Context, cep string) (*viacep.Address, error)
}

// LookupFunc adapts a function to Lookuper.
type LookupFunc func(ctx context.Context, cep string) (*viacep.Address, error)

func (f LookupFunc) Lookup(ctx context.Context, cep string) (*viacep.Address, error) {
	return f(ctx, cep)
}

// Service serves postal code lookups for the API.
type Service interface {
	Lookup(ctx context.Context, cep string) (*viacep.Address, error)
}

type service struct {
	lookup Lookuper
}

func NewService(lookup Lookuper) Service {
	return &service{lookup: lookup}
}

func (s *service) Lookup(ctx context.Context, cep string) (*viacep.Address, error) {
	if s == nil || s.lookup == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "address lookup unavailable")
	}
	return s.lookup.Lookup(ctx, cep)
}
