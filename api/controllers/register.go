package controllers

import (
	"net/http"

	"github.com/ecoleta/ecoleta-backend/api/responses"
	"github.com/ecoleta/ecoleta-backend/api/validators"
	"github.com/ecoleta/ecoleta-backend/internal/generators"
	pkgerrors "github.com/ecoleta/ecoleta-backend/pkg/errors"
	"github.com/ecoleta/ecoleta-backend/pkg/logger"
)

// GeneratorRegister handles public generator sign-up.
func GeneratorRegister(svc generators.RegisterService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "registration service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body generators.RegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Register(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, generators.RegisteredMessage, result)
	}
}
