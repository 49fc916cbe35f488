package provider

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ProviderRole is a staff member's role within a business.
type ProviderRole string

const (
	RoleOwner      ProviderRole = "owner"
	RoleDispatcher ProviderRole = "dispatcher"
	RoleProvider   ProviderRole = "provider"
)

// IsValid returns true if the role is recognized.
func (r ProviderRole) IsValid() bool {
	switch r {
	case RoleOwner, RoleDispatcher, RoleProvider:
		return true
	}
	return false
}

// ParseProviderRole converts a string to a ProviderRole, returning an error if invalid.
func ParseProviderRole(s string) (ProviderRole, error) {
	r := ProviderRole(s)
	if !r.IsValid() {
		return "", fmt.Errorf("invalid provider role: %s", s)
	}
	return r, nil
}

// Provider is a staff member of a business who can be assigned to bookings.
// Dispatchers coordinate but do not perform work themselves.
type Provider struct {
	id         uuid.UUID
	businessID uuid.UUID
	name       string
	role       ProviderRole
	isActive   bool
	createdAt  time.Time
}

// ReconstructProvider rebuilds a Provider from persistence data.
func ReconstructProvider(
	id, businessID uuid.UUID,
	name string,
	role ProviderRole,
	isActive bool,
	createdAt time.Time,
) *Provider {
	return &Provider{
		id:         id,
		businessID: businessID,
		name:       name,
		role:       role,
		isActive:   isActive,
		createdAt:  createdAt,
	}
}

// ID returns the provider's unique identifier.
func (p *Provider) ID() uuid.UUID { return p.id }

// BusinessID returns the employing business's ID.
func (p *Provider) BusinessID() uuid.UUID { return p.businessID }

// Name returns the provider's display name.
func (p *Provider) Name() string { return p.name }

// Role returns the provider's staff role.
func (p *Provider) Role() ProviderRole { return p.role }

// IsActive returns true if the provider is active.
func (p *Provider) IsActive() bool { return p.isActive }

// CreatedAt returns the creation timestamp.
func (p *Provider) CreatedAt() time.Time { return p.createdAt }

// IsAssignable reports whether this provider can be assigned work.
// Dispatchers coordinate only; inactive staff never receive bookings.
func (p *Provider) IsAssignable() bool {
	return p.isActive && (p.role == RoleOwner || p.role == RoleProvider)
}
