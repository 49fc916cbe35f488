package events

import (
	"time"

	"github.com/google/uuid"
)

// Kafka topics.
const (
	TopicBookingEvents = "booking.events"
	TopicPaymentEvents = "payment.events"
	TopicPayoutEvents  = "payout.events"
)

// Event types published by this service.
const (
	BookingConfirmed   = "booking.confirmed"
	BookingDeclined    = "booking.declined"
	BookingStarted     = "booking.started"
	BookingCompleted   = "booking.completed"
	BookingNoShow      = "booking.no_show"
	ProviderAssigned   = "booking.provider_assigned"
	ProviderUnassigned = "booking.provider_unassigned"
	PayoutRequested    = "payout.requested"
)

// Event types consumed from the payment service.
const (
	PaymentTipPaid        = "payment.tip_paid"
	PaymentBookingCreated = "booking.created"
)

// BookingStatusChangedEvent is published for every status transition. The
// decline reason rides along so the notification service can message the
// customer without a read-back.
type BookingStatusChangedEvent struct {
	BookingID     uuid.UUID  `json:"booking_id"`
	BusinessID    uuid.UUID  `json:"business_id"`
	CustomerID    uuid.UUID  `json:"customer_id"`
	ProviderID    *uuid.UUID `json:"provider_id,omitempty"`
	FromStatus    string     `json:"from_status"`
	ToStatus      string     `json:"to_status"`
	DeclineReason string     `json:"decline_reason,omitempty"`
	OccurredAt    time.Time  `json:"occurred_at"`
}

// AssignmentChangedEvent is published when a provider is assigned or unassigned.
type AssignmentChangedEvent struct {
	BookingID  uuid.UUID  `json:"booking_id"`
	BusinessID uuid.UUID  `json:"business_id"`
	ProviderID *uuid.UUID `json:"provider_id,omitempty"`
	AutoAssign bool       `json:"auto_assign"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// PayoutRequestedEvent is published when a payout request passes validation.
type PayoutRequestedEvent struct {
	PayoutID        uuid.UUID `json:"payout_id"`
	BusinessID      uuid.UUID `json:"business_id"`
	AmountCents     int64     `json:"amount_cents"`
	FeeCents        int64     `json:"fee_cents"`
	NetCents        int64     `json:"net_cents"`
	Method          string    `json:"method"`
	ArrivalEstimate string    `json:"arrival_estimate"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// TipPaidEvent arrives from the payment service when a tip is captured.
type TipPaidEvent struct {
	BookingID      uuid.UUID `json:"booking_id"`
	TipAmountCents int64     `json:"tip_amount_cents"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// BookingCreatedEvent arrives from the checkout flow when a booking is placed.
type BookingCreatedEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	BusinessID uuid.UUID `json:"business_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
