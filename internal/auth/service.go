package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ecoleta/ecoleta-backend/pkg/db/models"
	pkgerrors "github.com/ecoleta/ecoleta-backend/pkg/errors"
	"github.com/ecoleta/ecoleta-backend/pkg/logger"
	"github.com/ecoleta/ecoleta-backend/pkg/security"
	"gorm.io/gorm"
)

const (
	missingCredentialsMessage = "email and password are required"
	invalidCredentialsMessage = "invalid email or password"
	accountDisabledMessage    = "your account has been disabled. please contact support"

	// LoggedInMessage accompanies a successful LoginResult.
	LoggedInMessage = "login successful"
)

// Service defines the behavior needed by the login controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
}

type generatorRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Generator, error)
}

type passwordHasher interface {
	Hash(password string) (string, error)
}

type loginRecorder interface {
	IncLogin(outcome string)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	GeneratorRepo generatorRepository
	Hasher        passwordHasher
	Logger        *logger.Logger
	Metrics       loginRecorder
}

type service struct {
	generators generatorRepository
	logg       *logger.Logger
	metrics    loginRecorder
	dummyHash  string
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.GeneratorRepo == nil {
		return nil, fmt.Errorf("generator repository is required")
	}
	svc := &service{
		generators: params.GeneratorRepo,
		logg:       params.Logger,
		metrics:    params.Metrics,
	}
	if svc.logg == nil {
		svc.logg = logger.Nop()
	}
	// Unknown emails still run one verification against this hash.
	if params.Hasher != nil {
		hash, err := params.Hasher.Hash("ecoleta-unknown-account")
		if err != nil {
			return nil, fmt.Errorf("prepare dummy hash: %w", err)
		}
		svc.dummyHash = hash
	}
	return svc, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	generator, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		s.record(err)
		return nil, err
	}
	s.record(nil)

	s.logg.Info(s.logg.WithGeneratorID(ctx, generator.ID), "login.succeeded")

	return &LoginResult{
		ID:     generator.ID,
		Email:  generator.Email,
		Name:   generator.Name,
		Photo:  generator.PhotoRef,
		Status: generator.Status,
	}, nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.Generator, error) {
	input := strings.TrimSpace(email)
	if input == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeMalformedRequest, missingCredentialsMessage)
	}

	generator, err := s.generators.FindByEmail(ctx, input)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.burnVerification(password)
			return nil, pkgerrors.New(pkgerrors.CodeAuthentication, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Storage(err, "lookup generator")
	}

	valid, err := security.VerifyPassword(password, generator.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeAuthentication, invalidCredentialsMessage)
	}
	if !generator.Status.CanLogin() {
		return nil, pkgerrors.New(pkgerrors.CodeAccountDisabled, accountDisabledMessage)
	}
	return generator, nil
}

func (s *service) burnVerification(password string) {
	if s.dummyHash == "" {
		return
	}
	_, _ = security.VerifyPassword(password, s.dummyHash)
}

func (s *service) record(err error) {
	if s.metrics == nil {
		return
	}
	if err == nil {
		s.metrics.IncLogin("success")
		return
	}
	switch pkgerrors.As(err).Code() {
	case pkgerrors.CodeMalformedRequest:
		s.metrics.IncLogin("invalid")
	case pkgerrors.CodeAuthentication:
		s.metrics.IncLogin("bad_credentials")
	case pkgerrors.CodeAccountDisabled:
		s.metrics.IncLogin("disabled")
	default:
		s.metrics.IncLogin("error")
	}
}
