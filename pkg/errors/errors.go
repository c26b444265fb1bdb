package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeMalformedRequest Code = "MALFORMED_REQUEST"
	CodeDuplicateEmail   Code = "DUPLICATE_EMAIL"
	CodeDuplicateCPF     Code = "DUPLICATE_CPF"
	CodeAuthentication   Code = "AUTHENTICATION_FAILED"
	CodeAccountDisabled  Code = "ACCOUNT_DISABLED"
	CodeStorage          Code = "STORAGE_FAILURE"
	CodeNotFound         Code = "NOT_FOUND"
	CodeNetwork          Code = "NETWORK_FAILURE"
	CodeMethodNotAllowed Code = "METHOD_NOT_ALLOWED"
	CodeRateLimit        Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal         Code = "INTERNAL_ERROR"
)

// Metadata describes how a code surfaces to HTTP clients. ExposeMessage marks
// codes whose own message is safe to return instead of PublicMessage.
type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	ExposeMessage  bool
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeMalformedRequest: {
		HTTPStatus:     http.StatusBadRequest,
		PublicMessage:  "invalid request",
		ExposeMessage:  true,
		DetailsAllowed: true,
	},
	CodeDuplicateEmail: {
		HTTPStatus:    http.StatusBadRequest,
		PublicMessage: "email already registered",
		ExposeMessage: true,
	},
	CodeDuplicateCPF: {
		HTTPStatus:    http.StatusBadRequest,
		PublicMessage: "cpf already registered",
		ExposeMessage: true,
	},
	CodeAuthentication: {
		HTTPStatus:    http.StatusBadRequest,
		PublicMessage: "invalid email or password",
		ExposeMessage: true,
	},
	CodeAccountDisabled: {
		HTTPStatus:    http.StatusBadRequest,
		PublicMessage: "account disabled",
		ExposeMessage: true,
	},
	CodeStorage: {
		HTTPStatus:    http.StatusInternalServerError,
		Retryable:     true,
		PublicMessage: "database error",
		ExposeMessage: true,
	},
	CodeNotFound: {
		HTTPStatus:    http.StatusNotFound,
		PublicMessage: "resource not found",
		ExposeMessage: true,
	},
	CodeNetwork: {
		HTTPStatus:    http.StatusServiceUnavailable,
		Retryable:     true,
		PublicMessage: "dependency unavailable",
		ExposeMessage: true,
	},
	CodeMethodNotAllowed: {
		HTTPStatus:    http.StatusMethodNotAllowed,
		PublicMessage: "method not allowed",
		ExposeMessage: true,
	},
	CodeRateLimit: {
		HTTPStatus:    http.StatusTooManyRequests,
		PublicMessage: "rate limit exceeded",
		ExposeMessage: true,
	},
	CodeInternal: {
		HTTPStatus:    http.StatusInternalServerError,
		Retryable:     true,
		PublicMessage: "internal server error",
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

// Storage wraps a persistence failure. The store's own text is kept in the
// message because it is surfaced to clients on 500 responses.
func Storage(err error, step string) *Error {
	if err == nil {
		return New(CodeStorage, "database error")
	}
	return Wrap(CodeStorage, err, fmt.Sprintf("database error: %v", err)).
		WithDetails(map[string]any{"step": step})
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.Code() == code
}
