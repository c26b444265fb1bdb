package auth

import "github.com/ecoleta/ecoleta-backend/pkg/enums"

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

// LoginResult is the public view of an authenticated generator. The password
// hash never leaves the service.
type LoginResult struct {
	ID     uint                  `json:"id"`
	Email  string                `json:"email"`
	Name   string                `json:"nome"`
	Photo  *string               `json:"foto"`
	Status enums.GeneratorStatus `json:"status"`
}
