package provider

import (
	"fmt"

	"github.com/google/uuid"
)

// BusinessType categorizes how a business is staffed.
type BusinessType string

const (
	BusinessIndependent   BusinessType = "independent"
	BusinessSmallBusiness BusinessType = "small_business"
	BusinessFranchise     BusinessType = "franchise"
	BusinessEnterprise    BusinessType = "enterprise"
	BusinessOther         BusinessType = "other"
)

// IsValid returns true if the business type is recognized.
func (t BusinessType) IsValid() bool {
	switch t {
	case BusinessIndependent, BusinessSmallBusiness, BusinessFranchise, BusinessEnterprise, BusinessOther:
		return true
	}
	return false
}

// ParseBusinessType converts a string to a BusinessType, returning an error if invalid.
func ParseBusinessType(s string) (BusinessType, error) {
	t := BusinessType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid business type: %s", s)
	}
	return t, nil
}

// Business is a service business on the marketplace. An independent business
// has exactly one active provider, its owner; assignment is auto-resolved to
// that owner and locked once made.
type Business struct {
	id           uuid.UUID
	businessType BusinessType
	name         string
}

// ReconstructBusiness rebuilds a Business from persistence data.
func ReconstructBusiness(id uuid.UUID, businessType BusinessType, name string) *Business {
	return &Business{id: id, businessType: businessType, name: name}
}

// ID returns the business's unique identifier.
func (b *Business) ID() uuid.UUID { return b.id }

// Type returns the business type.
func (b *Business) Type() BusinessType { return b.businessType }

// Name returns the business display name.
func (b *Business) Name() string { return b.name }

// IsIndependent returns true for single-owner businesses.
func (b *Business) IsIndependent() bool { return b.businessType == BusinessIndependent }
