package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/urbanly-services/provider-dashboard/internal/common/domain"
)

// TipStatus represents the state of the customer tip attached to a booking.
type TipStatus string

const (
	TipNotRequested TipStatus = "not_requested"
	TipRequested    TipStatus = "requested"
	TipPending      TipStatus = "pending"
	TipPaid         TipStatus = "paid"
	TipDeclined     TipStatus = "declined"
)

// Booking is the aggregate root for the booking domain.
type Booking struct {
	id         uuid.UUID
	businessID uuid.UUID
	providerID *uuid.UUID
	customerID uuid.UUID
	serviceID  uuid.UUID

	bookingDate time.Time
	startTime   string
	endTime     string

	status BookingStatus

	totalAmountCents int64
	tipAmountCents   *int64
	tipStatus        TipStatus

	declineReason *DeclineReason

	originalBookingDate *time.Time
	originalBookingTime *string

	specialInstructions string

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a new Booking aggregate in status=pending.
// Provider assignment is optional at creation time.
func NewBooking(
	businessID, customerID, serviceID uuid.UUID,
	providerID *uuid.UUID,
	bookingDate time.Time,
	startTime, endTime string,
	totalAmountCents int64,
	specialInstructions string,
) (*Booking, error) {
	if businessID == uuid.Nil {
		return nil, domain.NewValidationError("business ID is required")
	}
	if customerID == uuid.Nil {
		return nil, domain.NewValidationError("customer ID is required")
	}
	if bookingDate.IsZero() {
		return nil, domain.NewValidationError("booking date is required")
	}
	if startTime == "" {
		return nil, domain.NewValidationError("start time is required")
	}
	if totalAmountCents <= 0 {
		return nil, domain.NewValidationError("total amount must be positive")
	}
	if providerID != nil && *providerID == uuid.Nil {
		providerID = nil
	}

	now := time.Now().UTC()
	return &Booking{
		id:                  uuid.New(),
		businessID:          businessID,
		providerID:          providerID,
		customerID:          customerID,
		serviceID:           serviceID,
		bookingDate:         dateOnly(bookingDate),
		startTime:           startTime,
		endTime:             endTime,
		status:              StatusPending,
		totalAmountCents:    totalAmountCents,
		tipStatus:           TipNotRequested,
		specialInstructions: specialInstructions,
		version:             1,
		createdAt:           now,
		updatedAt:           now,
	}, nil
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(
	id, businessID uuid.UUID,
	providerID *uuid.UUID,
	customerID, serviceID uuid.UUID,
	bookingDate time.Time,
	startTime, endTime string,
	status BookingStatus,
	totalAmountCents int64,
	tipAmountCents *int64,
	tipStatus TipStatus,
	declineReason *DeclineReason,
	originalBookingDate *time.Time,
	originalBookingTime *string,
	specialInstructions string,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:                  id,
		businessID:          businessID,
		providerID:          providerID,
		customerID:          customerID,
		serviceID:           serviceID,
		bookingDate:         dateOnly(bookingDate),
		startTime:           startTime,
		endTime:             endTime,
		status:              status,
		totalAmountCents:    totalAmountCents,
		tipAmountCents:      tipAmountCents,
		tipStatus:           tipStatus,
		declineReason:       declineReason,
		originalBookingDate: originalBookingDate,
		originalBookingTime: originalBookingTime,
		specialInstructions: specialInstructions,
		version:             version,
		createdAt:           createdAt,
		updatedAt:           updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// BusinessID returns the owning business ID.
func (b *Booking) BusinessID() uuid.UUID { return b.businessID }

// ProviderID returns the assigned provider's ID, or nil if unassigned.
func (b *Booking) ProviderID() *uuid.UUID { return b.providerID }

// CustomerID returns the booking customer's ID.
func (b *Booking) CustomerID() uuid.UUID { return b.customerID }

// ServiceID returns the booked service's ID, uuid.Nil if unresolved.
func (b *Booking) ServiceID() uuid.UUID { return b.serviceID }

// BookingDate returns the calendar date of the booking (midnight, no time-of-day).
func (b *Booking) BookingDate() time.Time { return b.bookingDate }

// StartTime returns the start time in "HH:MM" form.
func (b *Booking) StartTime() string { return b.startTime }

// EndTime returns the end time in "HH:MM" form.
func (b *Booking) EndTime() string { return b.endTime }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// TotalAmountCents returns the service charge in cents.
func (b *Booking) TotalAmountCents() int64 { return b.totalAmountCents }

// TipAmountCents returns the tip amount in cents, or nil if no tip.
func (b *Booking) TipAmountCents() *int64 { return b.tipAmountCents }

// TipStatus returns the state of the tip.
func (b *Booking) TipStatus() TipStatus { return b.tipStatus }

// DeclineReason returns the decline reason, or nil if the booking was not declined.
func (b *Booking) DeclineReason() *DeclineReason { return b.declineReason }

// OriginalBookingDate returns the pre-reschedule date, or nil if never rescheduled.
func (b *Booking) OriginalBookingDate() *time.Time { return b.originalBookingDate }

// OriginalBookingTime returns the pre-reschedule start time, or nil if never rescheduled.
func (b *Booking) OriginalBookingTime() *string { return b.originalBookingTime }

// SpecialInstructions returns the customer's special instructions.
func (b *Booking) SpecialInstructions() string { return b.specialInstructions }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// IsAssigned returns true if a provider is assigned.
func (b *Booking) IsAssigned() bool { return b.providerID != nil }

// IsRescheduled returns true if the booking was moved from its original slot.
func (b *Booking) IsRescheduled() bool { return b.originalBookingDate != nil }

// --- Behavior ---

// Confirm transitions the booking from pending to confirmed.
// A provider must be assigned first.
func (b *Booking) Confirm() error {
	if !b.status.CanTransitionTo(StatusConfirmed) {
		return domain.NewInvalidStateError(string(b.status), string(StatusConfirmed))
	}
	if b.providerID == nil {
		return NewGuardError(b.status, StatusConfirmed, GuardMissingProvider)
	}
	b.status = StatusConfirmed
	b.updatedAt = time.Now().UTC()
	return nil
}

// Decline transitions the booking from pending to declined with a reason.
// The reason is persisted for the customer-facing notification.
func (b *Booking) Decline(reason DeclineReason) error {
	if !b.status.CanTransitionTo(StatusDeclined) {
		return domain.NewInvalidStateError(string(b.status), string(StatusDeclined))
	}
	if reason.IsZero() {
		return NewGuardError(b.status, StatusDeclined, GuardMissingReason)
	}
	b.status = StatusDeclined
	b.declineReason = &reason
	b.updatedAt = time.Now().UTC()
	return nil
}

// Start transitions the booking from confirmed to in_progress.
// Requires an assigned provider and a booking date no later than today.
func (b *Booking) Start(today time.Time) error {
	if !b.status.CanTransitionTo(StatusInProgress) {
		return domain.NewInvalidStateError(string(b.status), string(StatusInProgress))
	}
	if b.providerID == nil {
		return NewGuardError(b.status, StatusInProgress, GuardMissingProvider)
	}
	if b.bookingDate.After(dateOnly(today)) {
		return NewGuardError(b.status, StatusInProgress, GuardDateInFuture)
	}
	b.status = StatusInProgress
	b.updatedAt = time.Now().UTC()
	return nil
}

// Complete transitions the booking from in_progress to completed.
func (b *Booking) Complete() error {
	if !b.status.CanTransitionTo(StatusCompleted) {
		return domain.NewInvalidStateError(string(b.status), string(StatusCompleted))
	}
	b.status = StatusCompleted
	b.updatedAt = time.Now().UTC()
	return nil
}

// MarkNoShow records that the customer did not arrive.
func (b *Booking) MarkNoShow() error {
	if !b.status.CanTransitionTo(StatusNoShow) {
		return domain.NewInvalidStateError(string(b.status), string(StatusNoShow))
	}
	b.status = StatusNoShow
	b.updatedAt = time.Now().UTC()
	return nil
}

// AssignProvider sets the assigned provider. Status is never touched here.
func (b *Booking) AssignProvider(providerID uuid.UUID) error {
	if b.status.IsTerminal() {
		return domain.NewInvalidStateError(string(b.status), "assignment")
	}
	if providerID == uuid.Nil {
		return domain.NewValidationError("provider ID is required")
	}
	b.providerID = &providerID
	b.updatedAt = time.Now().UTC()
	return nil
}

// ClearProvider removes the provider assignment.
// Permitted only while the booking is in a non-terminal status.
func (b *Booking) ClearProvider() error {
	if b.status.IsTerminal() {
		return domain.NewInvalidStateError(string(b.status), "unassignment")
	}
	b.providerID = nil
	b.updatedAt = time.Now().UTC()
	return nil
}

// MarkTipPaid records that the customer's tip was captured.
func (b *Booking) MarkTipPaid(tipAmountCents int64) error {
	if tipAmountCents <= 0 {
		return domain.NewValidationError("tip amount must be positive")
	}
	b.tipAmountCents = &tipAmountCents
	b.tipStatus = TipPaid
	b.updatedAt = time.Now().UTC()
	return nil
}

// Reschedule moves the booking to a new slot, preserving the original slot
// the first time it happens.
func (b *Booking) Reschedule(newDate time.Time, newStart, newEnd string) error {
	if b.status.IsTerminal() {
		return domain.NewInvalidStateError(string(b.status), "reschedule")
	}
	if b.originalBookingDate == nil {
		origDate := b.bookingDate
		origTime := b.startTime
		b.originalBookingDate = &origDate
		b.originalBookingTime = &origTime
	}
	b.bookingDate = dateOnly(newDate)
	b.startTime = newStart
	b.endTime = newEnd
	b.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}

// dateOnly strips the time-of-day, leaving a UTC midnight calendar date.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
