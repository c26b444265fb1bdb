package generators

import (
	"context"

	"github.com/ecoleta/ecoleta-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes generator persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a generators repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new generator and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateGeneratorDTO) (*models.Generator, error) {
	generator := dto.ToModel()
	if err := r.db.WithContext(ctx).Omit("Address").Create(generator).Error; err != nil {
		return nil, err
	}
	return generator, nil
}

// FindByEmail retrieves the generator with exactly this email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Generator, error) {
	var generator models.Generator
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&generator).Error; err != nil {
		return nil, err
	}
	return &generator, nil
}

// FindByCPF retrieves the generator holding the digits-only cpf.
func (r *Repository) FindByCPF(ctx context.Context, cpf string) (*models.Generator, error) {
	var generator models.Generator
	if err := r.db.WithContext(ctx).Where("cpf = ?", cpf).First(&generator).Error; err != nil {
		return nil, err
	}
	return &generator, nil
}

// FindByID loads a generator with its address.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Generator, error) {
	var generator models.Generator
	if err := r.db.WithContext(ctx).Preload("Address").First(&generator, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &generator, nil
}

// AddressRepository persists addresses.
type AddressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) *AddressRepository {
	return &AddressRepository{db: db}
}

func (r *AddressRepository) Create(ctx context.Context, dto CreateAddressDTO) (*models.Address, error) {
	address := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(address).Error; err != nil {
		return nil, err
	}
	return address, nil
}

// SettingsRepository persists per-generator preferences.
type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// CreateDefaults inserts the default preferences row for generatorID.
func (r *SettingsRepository) CreateDefaults(ctx context.Context, generatorID uint) (*models.GeneratorSettings, error) {
	settings := models.DefaultGeneratorSettings(generatorID)
	if err := r.db.WithContext(ctx).Create(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// FindByGeneratorID loads the preferences row for generatorID.
func (r *SettingsRepository) FindByGeneratorID(ctx context.Context, generatorID uint) (*models.GeneratorSettings, error) {
	var settings models.GeneratorSettings
	if err := r.db.WithContext(ctx).Where("generator_id = ?", generatorID).First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}
