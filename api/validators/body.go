package validators

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	pkgerrors "github.com/ecoleta/ecoleta-backend/pkg/errors"
	"github.com/go-playground/validator/v10"
	nonstandard "github.com/go-playground/validator/v10/non-standard/validators"
)

const (
	msgInvalidBody        = "invalid request body"
	msgMissingFieldPrefix = "missing required field: "
	msgIncompleteAddress  = "incomplete address data"
	dateLayout            = "2006-01-02"

	addressField = "endereco"
	maxBodyBytes = 8 << 20
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	if err := v.RegisterValidation("notblank", nonstandard.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// DecodeJSON decodes the request body into dest. Unknown fields are ignored.
func DecodeJSON(r *http.Request, dest any) error {
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := decoder.Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeMalformedRequest, err, msgInvalidBody).
			WithDetails(map[string]any{"error": err.Error()})
	}
	return nil
}

// DecodeJSONBody decodes the body and applies the struct's validate tags,
// reporting the first failing field.
func DecodeJSONBody(r *http.Request, dest any) error {
	if err := DecodeJSON(r, dest); err != nil {
		return err
	}
	return Struct(dest)
}

// Struct validates dest against its validate tags.
func Struct(dest any) error {
	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) *pkgerrors.Error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		return pkgerrors.New(pkgerrors.CodeMalformedRequest, validationMessage(errs[0])).
			WithDetails(map[string]any{"field": errs[0].Field()})
	}
	return pkgerrors.Wrap(pkgerrors.CodeMalformedRequest, err, msgInvalidBody)
}

func validationMessage(fe validator.FieldError) string {
	if insideAddress(fe.Namespace()) {
		return msgIncompleteAddress
	}
	switch fe.Tag() {
	case "required", "notblank":
		return msgMissingFieldPrefix + fe.Field()
	case "datetime":
		if fe.Param() == dateLayout {
			return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", fe.Field())
		}
		return fmt.Sprintf("%s must match %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

// insideAddress reports whether the namespace points below the endereco object.
func insideAddress(namespace string) bool {
	parts := strings.Split(namespace, ".")
	for i, part := range parts {
		if part == addressField && i < len(parts)-1 {
			return true
		}
	}
	return false
}
