package address

import (
	"context"
	"sync"

	pkgerrors "github.com/ecoleta/ecoleta-backend/pkg/errors"
	"github.com/ecoleta/ecoleta-backend/pkg/normalize"
	"github.com/ecoleta/ecoleta-backend/pkg/viacep"
)

// Outcome describes how a Resolve call ended.
type Outcome string

const (
	OutcomeSkipped        Outcome = "skipped"
	OutcomeResolved       Outcome = "resolved"
	OutcomeNotFound       Outcome = "not_found"
	OutcomeNetworkFailure Outcome = "network_failure"
	OutcomeSuperseded     Outcome = "superseded"
)

// Fields are the address form fields filled from a lookup.
type Fields struct {
	Street       string
	Neighborhood string
	City         string
	State        string
}

// Snapshot is a consistent copy of the autofill state.
type Snapshot struct {
	Fields  Fields
	Loading bool
	Message string
}

// Autofill fills address fields from postal code lookups. Only the most
// recently started lookup may write its result; earlier ones are discarded.
// A failed lookup only sets a warning message and never blocks submission.
type Autofill struct {
	lookup Lookuper

	mu      sync.Mutex
	latest  uint64
	loading bool
	fields  Fields
	message string
}

func NewAutofill(lookup Lookuper) *Autofill {
	return &Autofill{lookup: lookup}
}

// Resolve looks cep up and applies the result if no newer lookup started in
// the meantime.
func (a *Autofill) Resolve(ctx context.Context, cep string) Outcome {
	cleaned, ok := normalize.CEP(cep)
	if !ok {
		return OutcomeSkipped
	}

	a.mu.Lock()
	a.latest++
	token := a.latest
	a.loading = true
	a.fields.Street = ""
	a.fields.Neighborhood = ""
	a.mu.Unlock()

	addr, err := a.lookup.Lookup(ctx, cleaned)

	a.mu.Lock()
	defer a.mu.Unlock()

	if token != a.latest {
		return OutcomeSuperseded
	}
	a.loading = false

	switch {
	case err == nil:
		a.fields = Fields{
			Street:       addr.Street,
			Neighborhood: addr.Neighborhood,
			City:         addr.City,
			State:        addr.State,
		}
		a.message = ""
		return OutcomeResolved
	case pkgerrors.HasCode(err, pkgerrors.CodeNotFound):
		a.message = viacep.MessageNotFound
		return OutcomeNotFound
	default:
		a.message = viacep.MessageUnreachable
		return OutcomeNetworkFailure
	}
}

func (a *Autofill) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Snapshot{Fields: a.fields, Loading: a.loading, Message: a.message}
}

func (a *Autofill) Loading() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loading
}
