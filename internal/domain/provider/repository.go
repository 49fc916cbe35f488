package provider

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for businesses and their staff.
type Repository interface {
	// FindBusinessByID retrieves a business by its unique identifier.
	FindBusinessByID(ctx context.Context, id uuid.UUID) (*Business, error)

	// FindProviderByID retrieves a provider by its unique identifier.
	FindProviderByID(ctx context.Context, id uuid.UUID) (*Provider, error)

	// FindActiveByBusinessID retrieves all active providers of a business.
	FindActiveByBusinessID(ctx context.Context, businessID uuid.UUID) ([]*Provider, error)

	// FindServiceCapable retrieves the IDs of providers with an active
	// capability row for the given service.
	FindServiceCapable(ctx context.Context, serviceID uuid.UUID) (map[uuid.UUID]bool, error)
}
