package finance

import (
	"context"

	"github.com/google/uuid"
)

// PayoutRepository defines the persistence contract for payout requests.
type PayoutRepository interface {
	// Save persists a new payout request.
	Save(ctx context.Context, p *Payout) error

	// FindByBusinessID retrieves a business's payout requests, newest first.
	FindByBusinessID(ctx context.Context, businessID uuid.UUID) ([]*Payout, error)

	// AvailableBalance computes the business's withdrawable balance:
	// provider-net earnings of completed bookings plus paid-tip nets,
	// minus all non-failed payout requests.
	AvailableBalance(ctx context.Context, businessID uuid.UUID) (int64, error)
}
