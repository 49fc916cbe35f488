package provider

import (
	"github.com/google/uuid"
)

// EligibleProviders resolves which of a business's providers may be assigned
// to a booking for the given service.
//
// Independent businesses resolve to their single active owner (zero or one
// element). Other businesses resolve to active owner/provider staff holding an
// active capability for the service; when the service cannot be resolved the
// unfiltered assignable set is returned rather than an empty one.
func EligibleProviders(business *Business, staff []*Provider, serviceID uuid.UUID, capable map[uuid.UUID]bool) []*Provider {
	eligible := []*Provider{}

	if business.IsIndependent() {
		for _, p := range staff {
			if p.IsActive() && p.Role() == RoleOwner {
				eligible = append(eligible, p)
				break
			}
		}
		return eligible
	}

	filterByService := serviceID != uuid.Nil && capable != nil
	for _, p := range staff {
		if !p.IsAssignable() {
			continue
		}
		if filterByService && !capable[p.ID()] {
			continue
		}
		eligible = append(eligible, p)
	}
	return eligible
}
