package address

import (
	"context"
	"testing"

	pkgerrors "github.com/ecoleta/ecoleta-backend/pkg/errors"
	"github.com/ecoleta/ecoleta-backend/pkg/viacep"
)

func TestServiceLookupDelegates(t *testing.T) {
	var got string
	svc := NewService(LookupFunc(func(ctx context.Context, cep string) (*viacep.Address, error) {
		got = cep
		return &viacep.Address{CEP: "01001000", City: "São Paulo"}, nil
	}))

	addr, err := svc.Lookup(context.Background(), "01001-000")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got != "01001-000" || addr.City != "São Paulo" {
		t.Fatalf("unexpected delegation cep=%q addr=%+v", got, addr)
	}
}

func TestServiceLookupWithoutClient(t *testing.T) {
	_, err := NewService(nil).Lookup(context.Background(), "01001000")
	if !pkgerrors.HasCode(err, pkgerrors.CodeInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
}
