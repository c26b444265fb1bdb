package controllers

import (
	"net/http"

	"github.com/ecoleta/ecoleta-backend/api/responses"
	pkgerrors "github.com/ecoleta/ecoleta-backend/pkg/errors"
	"github.com/ecoleta/ecoleta-backend/pkg/logger"
)

// Preflight answers OPTIONS with 200 and no body.
func Preflight() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteEmpty(w, http.StatusOK)
	}
}

func MethodNotAllowed(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeMethodNotAllowed, "method not allowed"))
	}
}

func NotFound(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
	}
}
