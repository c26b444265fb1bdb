package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ecoleta/ecoleta-backend/api/responses"
	"github.com/ecoleta/ecoleta-backend/internal/address"
	pkgerrors "github.com/ecoleta/ecoleta-backend/pkg/errors"
	"github.com/ecoleta/ecoleta-backend/pkg/logger"
)

const addressResolvedMessage = "address found"

// AddressLookup resolves the {cep} path parameter.
func AddressLookup(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		addr, err := svc.Lookup(r.Context(), chi.URLParam(r, "cep"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, addressResolvedMessage, addr)
	}
}
