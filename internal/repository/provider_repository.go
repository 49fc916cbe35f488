package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/urbanly-services/provider-dashboard/internal/common/domain"
	providerDomain "github.com/urbanly-services/provider-dashboard/internal/domain/provider"
)

// BusinessModel is the GORM model for the businesses table.
type BusinessModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	BusinessType string    `gorm:"not null;size:30"`
	Name         string    `gorm:"not null;size:200"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BusinessModel) TableName() string {
	return "businesses"
}

// ProviderModel is the GORM model for the providers table.
type ProviderModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	BusinessID uuid.UUID `gorm:"type:uuid;index;not null"`
	Name       string    `gorm:"not null;size:200"`
	Role       string    `gorm:"not null;size:20"`
	IsActive   bool      `gorm:"not null;default:true"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ProviderModel) TableName() string {
	return "providers"
}

// ProviderServiceModel is the GORM join model recording which services a
// provider can perform.
type ProviderServiceModel struct {
	ProviderID uuid.UUID `gorm:"type:uuid;primaryKey"`
	ServiceID  uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	IsActive   bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for the GORM model.
func (ProviderServiceModel) TableName() string {
	return "provider_services"
}

// GormProviderRepository is the GORM-based implementation of the provider Repository.
type GormProviderRepository struct {
	db *gorm.DB
}

// NewGormProviderRepository creates a new GormProviderRepository.
func NewGormProviderRepository(db *gorm.DB) *GormProviderRepository {
	return &GormProviderRepository{db: db}
}

// FindBusinessByID retrieves a business by its unique identifier.
func (r *GormProviderRepository) FindBusinessByID(ctx context.Context, id uuid.UUID) (*providerDomain.Business, error) {
	var model BusinessModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Business", id.String())
		}
		return nil, fmt.Errorf("failed to find business by ID: %w", err)
	}

	businessType, err := providerDomain.ParseBusinessType(model.BusinessType)
	if err != nil {
		return nil, err
	}
	return providerDomain.ReconstructBusiness(model.ID, businessType, model.Name), nil
}

// FindProviderByID retrieves a provider by its unique identifier.
func (r *GormProviderRepository) FindProviderByID(ctx context.Context, id uuid.UUID) (*providerDomain.Provider, error) {
	var model ProviderModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Provider", id.String())
		}
		return nil, fmt.Errorf("failed to find provider by ID: %w", err)
	}
	return toDomainProvider(&model)
}

// FindActiveByBusinessID retrieves all active providers of a business.
func (r *GormProviderRepository) FindActiveByBusinessID(ctx context.Context, businessID uuid.UUID) ([]*providerDomain.Provider, error) {
	var models []ProviderModel
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND is_active = true", businessID).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find active providers: %w", err)
	}

	providers := make([]*providerDomain.Provider, len(models))
	for i, m := range models {
		p, err := toDomainProvider(&m)
		if err != nil {
			return nil, err
		}
		providers[i] = p
	}
	return providers, nil
}

// FindServiceCapable retrieves the IDs of providers holding an active
// capability row for the given service.
func (r *GormProviderRepository) FindServiceCapable(ctx context.Context, serviceID uuid.UUID) (map[uuid.UUID]bool, error) {
	var models []ProviderServiceModel
	if err := r.db.WithContext(ctx).
		Where("service_id = ? AND is_active = true", serviceID).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find service capabilities: %w", err)
	}

	capable := make(map[uuid.UUID]bool, len(models))
	for _, m := range models {
		capable[m.ProviderID] = true
	}
	return capable, nil
}

func toDomainProvider(m *ProviderModel) (*providerDomain.Provider, error) {
	role, err := providerDomain.ParseProviderRole(m.Role)
	if err != nil {
		return nil, err
	}
	return providerDomain.ReconstructProvider(
		m.ID,
		m.BusinessID,
		m.Name,
		role,
		m.IsActive,
		m.CreatedAt,
	), nil
}
