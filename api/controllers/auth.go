package controllers

import (
	"net/http"

	"github.com/ecoleta/ecoleta-backend/api/responses"
	"github.com/ecoleta/ecoleta-backend/api/validators"
	"github.com/ecoleta/ecoleta-backend/internal/auth"
	pkgerrors "github.com/ecoleta/ecoleta-backend/pkg/errors"
	"github.com/ecoleta/ecoleta-backend/pkg/logger"
)

// AuthLogin wires the login endpoint into the HTTP layer. Blank credentials
// are reported by the service so the message stays the same for every caller.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSON(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, auth.LoggedInMessage, result)
	}
}
