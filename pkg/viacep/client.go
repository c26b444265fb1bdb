// Package viacep resolves Brazilian postal codes through the ViaCEP service.
package viacep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/ecoleta/ecoleta-backend/pkg/errors"
	"github.com/ecoleta/ecoleta-backend/pkg/normalize"
	"github.com/sethvargo/go-retry"
)

const (
	DefaultBaseURL     = "https://viacep.com.br/ws"
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = 2 * time.Second
	defaultTimeout     = 10 * time.Second

	responseBodyLimit int64 = 64 << 10

	MessageNotFound    = "postal code not found"
	MessageUnreachable = "could not reach the address lookup service"
	MessageInvalidCEP  = "postal code must have 8 digits"
)

// Address is the subset of the ViaCEP payload used to fill an address form.
type Address struct {
	CEP          string `json:"cep"`
	Street       string `json:"rua"`
	Complement   string `json:"complemento"`
	Neighborhood string `json:"bairro"`
	City         string `json:"cidade"`
	State        string `json:"estado"`
}

// Recorder receives per-attempt and per-lookup observations.
type Recorder interface {
	IncAttempt(result string)
	ObserveLookup(outcome string, duration time.Duration)
}

// BackoffFactory builds a fresh backoff for every lookup.
type BackoffFactory func() retry.Backoff

// Client performs postal code lookups with exponential backoff.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	maxAttempts int
	baseDelay   time.Duration
	backoff     BackoffFactory
	recorder    Recorder
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the provider base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = strings.TrimRight(trimmed, "/")
		}
	}
}

// WithRetry sets the attempt ceiling and the first backoff delay.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(c *Client) {
		if maxAttempts > 0 {
			c.maxAttempts = maxAttempts
		}
		if baseDelay > 0 {
			c.baseDelay = baseDelay
		}
	}
}

// WithBackoff replaces the exponential backoff entirely.
func WithBackoff(factory BackoffFactory) Option {
	return func(c *Client) {
		c.backoff = factory
	}
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(recorder Recorder) Option {
	return func(c *Client) {
		c.recorder = recorder
	}
}

// NewClient builds a ViaCEP client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		httpClient:  &http.Client{Timeout: defaultTimeout},
		baseURL:     DefaultBaseURL,
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	if client.backoff == nil {
		client.backoff = client.exponentialBackoff
	}
	return client
}

// exponentialBackoff waits baseDelay, then doubles, for maxAttempts-1 retries.
func (c *Client) exponentialBackoff() retry.Backoff {
	retries := uint64(0)
	if c.maxAttempts > 1 {
		retries = uint64(c.maxAttempts - 1)
	}
	return retry.WithMaxRetries(retries, retry.NewExponential(c.baseDelay))
}

type errorFlag bool

func (f *errorFlag) UnmarshalJSON(data []byte) error {
	switch strings.ToLower(strings.Trim(string(data), `"`)) {
	case "true":
		*f = true
	default:
		*f = false
	}
	return nil
}

type lookupResponse struct {
	CEP          string    `json:"cep"`
	Street       string    `json:"logradouro"`
	Complement   string    `json:"complemento"`
	Neighborhood string    `json:"bairro"`
	City         string    `json:"localidade"`
	State        string    `json:"uf"`
	Erro         errorFlag `json:"erro"`
}

var errNotFound = errors.New("viacep: postal code not found")

// Lookup resolves cep, retrying non-2xx responses and transport failures.
func (c *Client) Lookup(ctx context.Context, cep string) (*Address, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "viacep client not configured")
	}
	cleaned, ok := normalize.CEP(cep)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeMalformedRequest, MessageInvalidCEP)
	}

	start := time.Now()
	var result *Address
	err := retry.Do(ctx, c.backoff(), func(ctx context.Context) error {
		addr, err := c.fetch(ctx, cleaned)
		switch {
		case err == nil:
			c.attempt("ok")
			result = addr
			return nil
		case errors.Is(err, errNotFound):
			c.attempt("not_found")
			return err
		case ctx.Err() != nil:
			c.attempt("canceled")
			return ctx.Err()
		default:
			c.attempt("error")
			return retry.RetryableError(err)
		}
	})

	switch {
	case err == nil:
		c.observe("resolved", start)
		return result, nil
	case errors.Is(err, errNotFound):
		c.observe("not_found", start)
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, MessageNotFound)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.observe("canceled", start)
		return nil, pkgerrors.Wrap(pkgerrors.CodeNetwork, err, MessageUnreachable)
	default:
		c.observe("network_failure", start)
		return nil, pkgerrors.Wrap(pkgerrors.CodeNetwork, err, MessageUnreachable)
	}
}

func (c *Client) fetch(ctx context.Context, cep string) (*Address, error) {
	url := fmt.Sprintf("%s/%s/json/", c.baseURL, cep)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build lookup request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute lookup request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, responseBodyLimit))
		return nil, fmt.Errorf("lookup returned status %d", resp.StatusCode)
	}

	var payload lookupResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, responseBodyLimit)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode lookup response: %w", err)
	}
	if payload.Erro {
		return nil, errNotFound
	}

	return &Address{
		CEP:          cep,
		Street:       payload.Street,
		Complement:   payload.Complement,
		Neighborhood: payload.Neighborhood,
		City:         payload.City,
		State:        payload.State,
	}, nil
}

func (c *Client) attempt(result string) {
	if c.recorder != nil {
		c.recorder.IncAttempt(result)
	}
}

func (c *Client) observe(outcome string, start time.Time) {
	if c.recorder != nil {
		c.recorder.ObserveLookup(outcome, time.Since(start))
	}
}
