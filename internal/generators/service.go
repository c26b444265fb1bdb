package generators

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ecoleta/ecoleta-backend/pkg/db"
	"github.com/ecoleta/ecoleta-backend/pkg/db/models"
	"github.com/ecoleta/ecoleta-backend/pkg/enums"
	pkgerrors "github.com/ecoleta/ecoleta-backend/pkg/errors"
	"github.com/ecoleta/ecoleta-backend/pkg/logger"
	"github.com/ecoleta/ecoleta-backend/pkg/normalize"
	"github.com/ecoleta/ecoleta-backend/pkg/storage/photos"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

const (
	msgDuplicateEmail = "email already registered"
	msgDuplicateCPF   = "cpf already registered"
)

// RegisteredMessage is the success message returned alongside a RegisterResult.
const RegisteredMessage = "generator registered successfully"

const (
	outcomeCreated        = "created"
	outcomeInvalid        = "invalid"
	outcomeDuplicateEmail = "duplicate_email"
	outcomeDuplicateCPF   = "duplicate_cpf"
	outcomeStorage        = "storage_error"
	outcomeError          = "error"
)

// RegisterService runs the generator registration transaction.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type generatorRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Generator, error)
	FindByCPF(ctx context.Context, cpf string) (*models.Generator, error)
	Create(ctx context.Context, dto CreateGeneratorDTO) (*models.Generator, error)
}

type addressRepository interface {
	Create(ctx context.Context, dto CreateAddressDTO) (*models.Address, error)
}

type settingsRepository interface {
	CreateDefaults(ctx context.Context, generatorID uint) (*models.GeneratorSettings, error)
}

type passwordHasher interface {
	Hash(password string) (string, error)
}

type photoStore interface {
	Save(dataURI string) (string, error)
	Remove(ref string) error
}

type registrationRecorder interface {
	IncRegistration(outcome string)
}

// RegisterServiceParams packages the dependencies for the registration flow.
// Repo factories default to the gorm repositories of this package.
type RegisterServiceParams struct {
	TxRunner             txRunner
	GeneratorRepoFactory func(tx *gorm.DB) generatorRepository
	AddressRepoFactory   func(tx *gorm.DB) addressRepository
	SettingsRepoFactory  func(tx *gorm.DB) settingsRepository
	Hasher               passwordHasher
	Photos               photoStore
	Logger               *logger.Logger
	Metrics              registrationRecorder
	StrictDocuments      bool
}

type registerService struct {
	tx         txRunner
	generators func(tx *gorm.DB) generatorRepository
	addresses  func(tx *gorm.DB) addressRepository
	settings   func(tx *gorm.DB) settingsRepository
	hasher     passwordHasher
	photos     photoStore
	logg       *logger.Logger
	metrics    registrationRecorder
	strict     bool
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.Hasher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "password hasher required")
	}
	svc := &registerService{
		tx:         params.TxRunner,
		generators: params.GeneratorRepoFactory,
		addresses:  params.AddressRepoFactory,
		settings:   params.SettingsRepoFactory,
		hasher:     params.Hasher,
		photos:     params.Photos,
		logg:       params.Logger,
		metrics:    params.Metrics,
		strict:     params.StrictDocuments,
	}
	if svc.generators == nil {
		svc.generators = func(tx *gorm.DB) generatorRepository { return NewRepository(tx) }
	}
	if svc.addresses == nil {
		svc.addresses = func(tx *gorm.DB) addressRepository { return NewAddressRepository(tx) }
	}
	if svc.settings == nil {
		svc.settings = func(tx *gorm.DB) settingsRepository { return NewSettingsRepository(tx) }
	}
	if svc.logg == nil {
		svc.logg = logger.Nop()
	}
	return svc, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	result, err := s.register(ctx, req)
	s.record(err)
	return result, err
}

func (s *registerService) register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.strict {
		if err := req.validateDocuments(); err != nil {
			return nil, err
		}
	}

	birthDate, _ := time.Parse(BirthDateLayout, strings.TrimSpace(req.BirthDate))
	email := strings.TrimSpace(req.Email)
	name := strings.TrimSpace(req.Name)
	cpf := normalize.Digits(req.CPF)

	var (
		created   *models.Generator
		photoRef  string
		committed bool
	)
	defer func() {
		if !committed && photoRef != "" {
			s.discardPhoto(ctx, photoRef)
		}
	}()

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		generatorRepo := s.generators(tx)
		addressRepo := s.addresses(tx)
		settingsRepo := s.settings(tx)

		if _, err := generatorRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeDuplicateEmail, msgDuplicateEmail)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Storage(err, "check email")
		}

		if _, err := generatorRepo.FindByCPF(ctx, cpf); err == nil {
			return pkgerrors.New(pkgerrors.CodeDuplicateCPF, msgDuplicateCPF)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Storage(err, "check cpf")
		}

		address, err := addressRepo.Create(ctx, newCreateAddressDTO(*req.Address))
		if err != nil {
			return pkgerrors.Storage(err, "create address")
		}

		passwordHash, err := s.hasher.Hash(req.Password)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}

		phone := normalize.Digits(req.Phone)

		if req.Photo != "" && s.photos != nil {
			ref, err := s.photos.Save(req.Photo)
			switch {
			case err == nil:
				photoRef = ref
			case errors.Is(err, photos.ErrUnsupportedPhoto):
				s.logg.Warn(s.logg.WithField(ctx, "reason", err.Error()), "registration.photo_ignored")
			default:
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store photo")
			}
		}

		var photoPtr *string
		if photoRef != "" {
			photoPtr = &photoRef
		}

		generator, err := generatorRepo.Create(ctx, CreateGeneratorDTO{
			Email:        email,
			PasswordHash: passwordHash,
			Name:         name,
			CPF:          cpf,
			Phone:        phone,
			BirthDate:    birthDate,
			Gender:       enums.NormalizeGender(strings.TrimSpace(req.Gender)),
			PhotoRef:     photoPtr,
			AddressID:    address.ID,
		})
		if err != nil {
			return mapCreateError(err)
		}

		if _, err := settingsRepo.CreateDefaults(ctx, generator.ID); err != nil {
			return pkgerrors.Storage(err, "create settings")
		}

		created = generator
		return nil
	})
	if err != nil {
		return nil, err
	}
	committed = true

	s.logg.Info(s.logg.WithGeneratorID(ctx, created.ID), "registration.created")

	return &RegisterResult{
		ID:    created.ID,
		Email: created.Email,
		Name:  created.Name,
	}, nil
}

// mapCreateError turns a unique violation raised at insert time into the
// matching duplicate error.
func mapCreateError(err error) error {
	target, ok := db.UniqueViolation(err)
	if !ok {
		return pkgerrors.Storage(err, "create generator")
	}
	target = strings.ToLower(target)
	switch {
	case strings.Contains(target, "email"):
		return pkgerrors.Wrap(pkgerrors.CodeDuplicateEmail, err, msgDuplicateEmail)
	case strings.Contains(target, "cpf"):
		return pkgerrors.Wrap(pkgerrors.CodeDuplicateCPF, err, msgDuplicateCPF)
	default:
		return pkgerrors.Storage(err, "create generator")
	}
}

func (s *registerService) discardPhoto(ctx context.Context, ref string) {
	if err := s.photos.Remove(ref); err != nil {
		s.logg.Error(s.logg.WithField(ctx, "photo_ref", ref), "registration.photo_cleanup_failed",
			multierr.Append(errors.New("registration rolled back"), err))
	}
}

func (s *registerService) record(err error) {
	if s.metrics == nil {
		return
	}
	outcome := outcomeCreated
	if err != nil {
		switch pkgerrors.As(err).Code() {
		case pkgerrors.CodeMalformedRequest:
			outcome = outcomeInvalid
		case pkgerrors.CodeDuplicateEmail:
			outcome = outcomeDuplicateEmail
		case pkgerrors.CodeDuplicateCPF:
			outcome = outcomeDuplicateCPF
		case pkgerrors.CodeStorage:
			outcome = outcomeStorage
		default:
			outcome = outcomeError
		}
	}
	s.metrics.IncRegistration(outcome)
}
