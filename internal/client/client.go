// Package client is a typed Go client for the Ecoleta HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ecoleta/ecoleta-backend/internal/auth"
	"github.com/ecoleta/ecoleta-backend/internal/generators"
	pkgerrors "github.com/ecoleta/ecoleta-backend/pkg/errors"
	"github.com/ecoleta/ecoleta-backend/pkg/viacep"
)

const (
	DefaultBaseURL = "http://localhost:8080"

	defaultTimeout          = 30 * time.Second
	responseBodyLimit int64 = 1 << 20

	registerPath = "/api/cadastro_gerador"
	loginPath    = "/api/login"
	cepPath      = "/api/cep/"

	msgServerUnreachable = "could not reach the ecoleta server"
)

// Error is a failed API call. Status is zero when no response arrived.
type Error struct {
	Status  int
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// Unwrap exposes the failure as a typed error so callers can match codes.
func (e *Error) Unwrap() error {
	code := codeForStatus(e.Status)
	if e.cause != nil {
		return pkgerrors.Wrap(code, e.cause, e.Message)
	}
	return pkgerrors.New(code, e.Message)
}

func codeForStatus(status int) pkgerrors.Code {
	switch {
	case status == 0, status == http.StatusServiceUnavailable, status == http.StatusBadGateway, status == http.StatusGatewayTimeout:
		return pkgerrors.CodeNetwork
	case status == http.StatusBadRequest:
		return pkgerrors.CodeMalformedRequest
	case status == http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case status == http.StatusMethodNotAllowed:
		return pkgerrors.CodeMethodNotAllowed
	case status == http.StatusTooManyRequests:
		return pkgerrors.CodeRateLimit
	default:
		return pkgerrors.CodeInternal
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client calls the registration, login and postal code endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Register creates a generator account. The returned message is the
// server's confirmation text.
func (c *Client) Register(ctx context.Context, req generators.RegisterRequest) (*generators.RegisterResult, string, error) {
	var result generators.RegisterResult
	msg, err := c.do(ctx, http.MethodPost, registerPath, req, &result)
	if err != nil {
		return nil, "", err
	}
	return &result, msg, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*auth.LoginResult, error) {
	var result auth.LoginResult
	if _, err := c.do(ctx, http.MethodPost, loginPath, auth.LoginRequest{Email: email, Password: password}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// LookupCEP resolves a postal code through the server.
func (c *Client) LookupCEP(ctx context.Context, cep string) (*viacep.Address, error) {
	var result viacep.Address
	if _, err := c.do(ctx, http.MethodGet, cepPath+url.PathEscape(strings.TrimSpace(cep)), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, dest any) (string, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &Error{Message: msgServerUnreachable, cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyLimit))
	if err != nil {
		return "", &Error{Status: resp.StatusCode, Message: "read response", cause: err}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		msg := http.StatusText(resp.StatusCode)
		if resp.StatusCode < 300 {
			msg = "unexpected response from server"
		}
		return "", &Error{Status: resp.StatusCode, Message: msg, cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", &Error{Status: resp.StatusCode, Message: msg}
	}

	if dest != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, dest); err != nil {
			return "", &Error{Status: resp.StatusCode, Message: "unexpected response from server", cause: err}
		}
	}
	return env.Message, nil
}
