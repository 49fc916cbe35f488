package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/urbanly-services/provider-dashboard/internal/common/auth"
	"github.com/urbanly-services/provider-dashboard/internal/common/domain"
	"github.com/urbanly-services/provider-dashboard/internal/common/kafka"
	bookingDomain "github.com/urbanly-services/provider-dashboard/internal/domain/booking"
	providerDomain "github.com/urbanly-services/provider-dashboard/internal/domain/provider"
	"github.com/urbanly-services/provider-dashboard/internal/events"
	"github.com/urbanly-services/provider-dashboard/internal/metrics"
)

// ProviderDTO is the response representation of an assignable provider.
type ProviderDTO struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	IsActive bool      `json:"is_active"`
}

// AssignRequest carries an assignment change. A nil/omitted provider ID
// clears the current assignment.
type AssignRequest struct {
	ProviderID *uuid.UUID `json:"provider_id"`
}

// AssignmentService resolves provider eligibility and performs assignment.
type AssignmentService struct {
	bookings  bookingDomain.Repository
	providers providerDomain.Repository
	producer  EventPublisher
	logger    *zap.Logger
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(
	bookings bookingDomain.Repository,
	providers providerDomain.Repository,
	producer EventPublisher,
	logger *zap.Logger,
) *AssignmentService {
	return &AssignmentService{
		bookings:  bookings,
		providers: providers,
		producer:  producer,
		logger:    logger,
	}
}

// ResolveEligibleProviders returns the providers assignable to a booking.
// As a side path, an unassigned booking of an independent business is
// auto-assigned to its owner here, so the dashboard never shows a choice
// that the system would make anyway.
func (s *AssignmentService) ResolveEligibleProviders(ctx context.Context, businessID, bookingID uuid.UUID) ([]ProviderDTO, error) {
	bk, business, err := s.loadScoped(ctx, businessID, bookingID)
	if err != nil {
		return nil, err
	}

	eligible, err := s.resolveEligible(ctx, bk, business)
	if err != nil {
		return nil, err
	}

	if business.IsIndependent() && !bk.IsAssigned() && len(eligible) == 1 && !bk.Status().IsTerminal() {
		if err := s.autoAssign(ctx, bk, eligible[0]); err != nil {
			// Auto-assignment is best-effort here; the booking.created
			// consumer will pick it up again.
			s.logger.Warn("auto-assign during eligibility resolution failed",
				zap.String("booking_id", bk.ID().String()),
				zap.Error(err),
			)
		}
	}

	dtos := make([]ProviderDTO, len(eligible))
	for i, p := range eligible {
		dtos[i] = toProviderDTO(p)
	}
	return dtos, nil
}

// Assign sets, changes or clears the provider assigned to a booking.
// Only owners and dispatchers may call this. The booking status is never
// touched; on store failure nothing is mutated and the caller retries with
// freshly read state.
func (s *AssignmentService) Assign(ctx context.Context, businessID, bookingID uuid.UUID, providerID *uuid.UUID, actingRole auth.Role) (*BookingDTO, error) {
	if !actingRole.CanManageAssignments() {
		metrics.IncAssignment("manual", "forbidden")
		return nil, domain.NewForbiddenError("only owners and dispatchers may assign providers")
	}

	bk, business, err := s.loadScoped(ctx, businessID, bookingID)
	if err != nil {
		return nil, err
	}

	// Independent businesses bind the owner permanently once assigned.
	if business.IsIndependent() && bk.IsAssigned() {
		result := toBookingDTO(bk, time.Now().UTC())
		return &result, nil
	}

	if providerID == nil || *providerID == uuid.Nil {
		return s.unassign(ctx, bk)
	}
	return s.assignTo(ctx, bk, business, *providerID)
}

// AutoAssignNewBooking assigns the owner of an independent business to a
// freshly created, unassigned booking. Triggered by booking.created events.
func (s *AssignmentService) AutoAssignNewBooking(ctx context.Context, bookingID uuid.UUID) error {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if bk.IsAssigned() || bk.Status().IsTerminal() {
		return nil
	}

	business, err := s.providers.FindBusinessByID(ctx, bk.BusinessID())
	if err != nil {
		return err
	}
	if !business.IsIndependent() {
		return nil
	}

	eligible, err := s.resolveEligible(ctx, bk, business)
	if err != nil {
		return err
	}
	if len(eligible) != 1 {
		s.logger.Warn("independent business without a single eligible owner",
			zap.String("business_id", business.ID().String()),
			zap.Int("eligible", len(eligible)),
		)
		return nil
	}

	return s.autoAssign(ctx, bk, eligible[0])
}

// --- Helpers ---

func (s *AssignmentService) resolveEligible(ctx context.Context, bk *bookingDomain.Booking, business *providerDomain.Business) ([]*providerDomain.Provider, error) {
	staff, err := s.providers.FindActiveByBusinessID(ctx, business.ID())
	if err != nil {
		return nil, err
	}

	var capable map[uuid.UUID]bool
	if !business.IsIndependent() && bk.ServiceID() != uuid.Nil {
		capable, err = s.providers.FindServiceCapable(ctx, bk.ServiceID())
		if err != nil {
			return nil, err
		}
	}

	return providerDomain.EligibleProviders(business, staff, bk.ServiceID(), capable), nil
}

func (s *AssignmentService) assignTo(ctx context.Context, bk *bookingDomain.Booking, business *providerDomain.Business, providerID uuid.UUID) (*BookingDTO, error) {
	eligible, err := s.resolveEligible(ctx, bk, business)
	if err != nil {
		return nil, err
	}

	var target *providerDomain.Provider
	for _, p := range eligible {
		if p.ID() == providerID {
			target = p
			break
		}
	}
	if target == nil {
		metrics.IncAssignment("manual", "rejected")
		return nil, domain.NewValidationError("provider is not eligible for this booking")
	}

	if err := bk.AssignProvider(target.ID()); err != nil {
		metrics.IncAssignment("manual", "rejected")
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		metrics.IncAssignment("manual", "conflict")
		return nil, err
	}
	metrics.IncAssignment("manual", "ok")

	s.publishAssignment(ctx, events.ProviderAssigned, bk, false)
	s.logger.Info("provider assigned",
		zap.String("booking_id", bk.ID().String()),
		zap.String("provider_id", target.ID().String()),
	)

	result := toBookingDTO(bk, time.Now().UTC())
	return &result, nil
}

func (s *AssignmentService) unassign(ctx context.Context, bk *bookingDomain.Booking) (*BookingDTO, error) {
	if err := bk.ClearProvider(); err != nil {
		metrics.IncAssignment("unassign", "rejected")
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		metrics.IncAssignment("unassign", "conflict")
		return nil, err
	}
	metrics.IncAssignment("unassign", "ok")

	s.publishAssignment(ctx, events.ProviderUnassigned, bk, false)
	s.logger.Info("provider unassigned",
		zap.String("booking_id", bk.ID().String()),
	)

	result := toBookingDTO(bk, time.Now().UTC())
	return &result, nil
}

func (s *AssignmentService) autoAssign(ctx context.Context, bk *bookingDomain.Booking, owner *providerDomain.Provider) error {
	if err := bk.AssignProvider(owner.ID()); err != nil {
		return err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		metrics.IncAssignment("auto", "conflict")
		return err
	}
	metrics.IncAssignment("auto", "ok")

	s.publishAssignment(ctx, events.ProviderAssigned, bk, true)
	s.logger.Info("provider auto-assigned",
		zap.String("booking_id", bk.ID().String()),
		zap.String("provider_id", owner.ID().String()),
	)
	return nil
}

func (s *AssignmentService) loadScoped(ctx context.Context, businessID, bookingID uuid.UUID) (*bookingDomain.Booking, *providerDomain.Business, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	if bk.BusinessID() != businessID {
		return nil, nil, domain.NewNotFoundError("Booking", bookingID.String())
	}

	business, err := s.providers.FindBusinessByID(ctx, businessID)
	if err != nil {
		return nil, nil, err
	}
	return bk, business, nil
}

func (s *AssignmentService) publishAssignment(ctx context.Context, eventType string, bk *bookingDomain.Booking, auto bool) {
	evt := events.AssignmentChangedEvent{
		BookingID:  bk.ID(),
		BusinessID: bk.BusinessID(),
		ProviderID: bk.ProviderID(),
		AutoAssign: auto,
		OccurredAt: time.Now().UTC(),
	}

	cloudEvent, err := kafka.NewCloudEvent("provider-dashboard", eventType, evt)
	if err != nil {
		s.logger.Error("failed to create cloud event", zap.Error(err))
		return
	}
	if err := s.producer.PublishEvent(ctx, events.TopicBookingEvents, cloudEvent); err != nil {
		s.logger.Error("failed to publish assignment event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

func toProviderDTO(p *providerDomain.Provider) ProviderDTO {
	return ProviderDTO{
		ID:       p.ID(),
		Name:     p.Name(),
		Role:     string(p.Role()),
		IsActive: p.IsActive(),
	}
}
