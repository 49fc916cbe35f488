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
	"github.com/urbanly-services/provider-dashboard/internal/domain/finance"
	"github.com/urbanly-services/provider-dashboard/internal/events"
	"github.com/urbanly-services/provider-dashboard/internal/metrics"
)

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID                   uuid.UUID                    `json:"id"`
	BusinessID           uuid.UUID                    `json:"business_id"`
	ProviderID           *uuid.UUID                   `json:"provider_id,omitempty"`
	CustomerID           uuid.UUID                    `json:"customer_id"`
	ServiceID            uuid.UUID                    `json:"service_id"`
	BookingDate          string                       `json:"booking_date"`
	StartTime            string                       `json:"start_time"`
	EndTime              string                       `json:"end_time,omitempty"`
	Status               string                       `json:"status"`
	StatusMessage        string                       `json:"status_message"`
	ProgressPercent      int                          `json:"progress_percent"`
	AvailableTransitions []string                     `json:"available_transitions"`
	TotalAmountCents     int64                        `json:"total_amount_cents"`
	ServiceSplit         finance.Split                `json:"service_split"`
	TipAmountCents       *int64                       `json:"tip_amount_cents,omitempty"`
	TipStatus            string                       `json:"tip_status"`
	TipSplit             *finance.Split               `json:"tip_split,omitempty"`
	DeclineReason        *bookingDomain.DeclineReason `json:"decline_reason,omitempty"`
	OriginalBookingDate  *string                      `json:"original_booking_date,omitempty"`
	OriginalBookingTime  *string                      `json:"original_booking_time,omitempty"`
	SpecialInstructions  string                       `json:"special_instructions,omitempty"`
	Version              int64                        `json:"version"`
	CreatedAt            time.Time                    `json:"created_at"`
	UpdatedAt            time.Time                    `json:"updated_at"`
}

// ScheduleDTO is the classified booking list for the dashboard tabs.
type ScheduleDTO struct {
	Bucket string                             `json:"bucket"`
	Page   domain.PaginatedResult[BookingDTO] `json:"page"`
	Counts map[string]int                     `json:"counts"`
}

// SummaryDTO is the two-state lifecycle summary for the mobile list view.
type SummaryDTO struct {
	Active int `json:"active"`
	Closed int `json:"closed"`
}

// DeclineRequest carries the reason for declining a booking.
type DeclineRequest struct {
	ReasonCode string `json:"reason_code" binding:"required"`
	Note       string `json:"note"`
}

// EventPublisher publishes CloudEvents to a topic. Satisfied by kafka.Producer.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// BookingService orchestrates the booking lifecycle use cases.
type BookingService struct {
	repo     bookingDomain.Repository
	producer EventPublisher
	logger   *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	repo bookingDomain.Repository,
	producer EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// ListSchedule returns one temporal bucket of the business's bookings,
// classified against today, sorted and paginated.
func (s *BookingService) ListSchedule(ctx context.Context, businessID uuid.UUID, bucket bookingDomain.Bucket, page, limit int) (*ScheduleDTO, error) {
	bookings, err := s.repo.FindByBusinessID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	today := time.Now().UTC()
	classification := bookingDomain.Classify(bookings, today)

	selected := classification.Bucket(bucket)
	pageItems := domain.Paginate(selected, page, limit)

	dtos := make([]BookingDTO, len(pageItems))
	for i, b := range pageItems {
		dtos[i] = toBookingDTO(b, today)
	}

	return &ScheduleDTO{
		Bucket: string(bucket),
		Page:   domain.NewPaginatedResult(dtos, int64(len(selected)), page, limit),
		Counts: map[string]int{
			string(bookingDomain.BucketPresent): len(classification.Present),
			string(bookingDomain.BucketFuture):  len(classification.Future),
			string(bookingDomain.BucketPast):    len(classification.Past),
		},
	}, nil
}

// GetSummary returns active/closed counts for the business.
func (s *BookingService) GetSummary(ctx context.Context, businessID uuid.UUID) (*SummaryDTO, error) {
	bookings, err := s.repo.FindByBusinessID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	counts := bookingDomain.CountPhases(bookings)
	return &SummaryDTO{
		Active: counts[bookingDomain.PhaseActive],
		Closed: counts[bookingDomain.PhaseClosed],
	}, nil
}

// GetBooking retrieves a single booking scoped to the business.
func (s *BookingService) GetBooking(ctx context.Context, businessID, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.findScoped(ctx, businessID, bookingID)
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk, time.Now().UTC())
	return &result, nil
}

// ConfirmBooking transitions a pending booking to confirmed.
// Fails with a guard error while no provider is assigned.
func (s *BookingService) ConfirmBooking(ctx context.Context, businessID, bookingID uuid.UUID, actingRole auth.Role) (*BookingDTO, error) {
	return s.transition(ctx, businessID, bookingID, actingRole, events.BookingConfirmed,
		func(bk *bookingDomain.Booking) error { return bk.Confirm() })
}

// DeclineBooking transitions a pending booking to declined with a reason.
func (s *BookingService) DeclineBooking(ctx context.Context, businessID, bookingID uuid.UUID, actingRole auth.Role, req DeclineRequest) (*BookingDTO, error) {
	reason, err := bookingDomain.ParseDeclineReason(req.ReasonCode, req.Note)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	return s.transition(ctx, businessID, bookingID, actingRole, events.BookingDeclined,
		func(bk *bookingDomain.Booking) error { return bk.Decline(reason) })
}

// StartBooking transitions a confirmed booking to in_progress.
// Fails with a guard error while unassigned or dated in the future.
func (s *BookingService) StartBooking(ctx context.Context, businessID, bookingID uuid.UUID, actingRole auth.Role) (*BookingDTO, error) {
	today := time.Now().UTC()
	return s.transition(ctx, businessID, bookingID, actingRole, events.BookingStarted,
		func(bk *bookingDomain.Booking) error { return bk.Start(today) })
}

// CompleteBooking transitions an in-progress booking to completed.
func (s *BookingService) CompleteBooking(ctx context.Context, businessID, bookingID uuid.UUID, actingRole auth.Role) (*BookingDTO, error) {
	return s.transition(ctx, businessID, bookingID, actingRole, events.BookingCompleted,
		func(bk *bookingDomain.Booking) error { return bk.Complete() })
}

// MarkNoShow records that the customer did not arrive for an in-progress booking.
func (s *BookingService) MarkNoShow(ctx context.Context, businessID, bookingID uuid.UUID, actingRole auth.Role) (*BookingDTO, error) {
	return s.transition(ctx, businessID, bookingID, actingRole, events.BookingNoShow,
		func(bk *bookingDomain.Booking) error { return bk.MarkNoShow() })
}

// MarkTipPaid records a captured tip on the booking (payment event driven).
func (s *BookingService) MarkTipPaid(ctx context.Context, bookingID uuid.UUID, tipAmountCents int64) error {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}

	if err := bk.MarkTipPaid(tipAmountCents); err != nil {
		return err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return err
	}

	s.logger.Info("tip marked paid",
		zap.String("booking_id", bookingID.String()),
		zap.Int64("tip_amount_cents", tipAmountCents),
	)
	return nil
}

// --- Admin methods ---

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// ListAllBookings returns a paginated list of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) ([]BookingDTO, int64, error) {
	bookings, total, err := s.repo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	today := time.Now().UTC()
	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk, today)
	}
	return dtos, total, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &BookingStatsDTO{
		TotalBookings: total,
		ByStatus:      counts,
	}, nil
}

// --- Helpers ---

// transition runs the shared load-guard-persist-publish cycle for a status change.
// On any failure the stored booking is untouched and the error is reported upward;
// the caller decides between retry-with-fresh-read or giving up.
func (s *BookingService) transition(
	ctx context.Context,
	businessID, bookingID uuid.UUID,
	actingRole auth.Role,
	eventType string,
	apply func(*bookingDomain.Booking) error,
) (*BookingDTO, error) {
	if !actingRole.IsValid() {
		return nil, domain.NewForbiddenError("unknown acting role")
	}

	bk, err := s.findScoped(ctx, businessID, bookingID)
	if err != nil {
		return nil, err
	}

	fromStatus := bk.Status()
	if err := apply(bk); err != nil {
		metrics.IncTransition(eventType, "rejected")
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		metrics.IncTransition(eventType, "conflict")
		return nil, err
	}
	metrics.IncTransition(eventType, "ok")

	evt := events.BookingStatusChangedEvent{
		BookingID:  bk.ID(),
		BusinessID: bk.BusinessID(),
		CustomerID: bk.CustomerID(),
		ProviderID: bk.ProviderID(),
		FromStatus: fromStatus.String(),
		ToStatus:   bk.Status().String(),
		OccurredAt: time.Now().UTC(),
	}
	if reason := bk.DeclineReason(); reason != nil {
		evt.DeclineReason = reason.Message()
	}
	s.publishEvent(ctx, events.TopicBookingEvents, eventType, evt)

	s.logger.Info("booking transitioned",
		zap.String("booking_id", bk.ID().String()),
		zap.String("from", fromStatus.String()),
		zap.String("to", bk.Status().String()),
		zap.String("acting_role", string(actingRole)),
	)

	result := toBookingDTO(bk, time.Now().UTC())
	return &result, nil
}

// findScoped loads a booking and hides it from other businesses.
func (s *BookingService) findScoped(ctx context.Context, businessID, bookingID uuid.UUID) (*bookingDomain.Booking, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if bk.BusinessID() != businessID {
		return nil, domain.NewNotFoundError("Booking", bookingID.String())
	}
	return bk, nil
}

func (s *BookingService) publishEvent(ctx context.Context, topic, eventType string, data interface{}) {
	cloudEvent, err := kafka.NewCloudEvent("provider-dashboard", eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.PublishEvent(ctx, topic, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

func toBookingDTO(bk *bookingDomain.Booking, today time.Time) BookingDTO {
	transitions := bk.AvailableTransitions(today)
	available := make([]string, len(transitions))
	for i, t := range transitions {
		available[i] = t.String()
	}

	dto := BookingDTO{
		ID:                   bk.ID(),
		BusinessID:           bk.BusinessID(),
		ProviderID:           bk.ProviderID(),
		CustomerID:           bk.CustomerID(),
		ServiceID:            bk.ServiceID(),
		BookingDate:          bk.BookingDate().Format(time.DateOnly),
		StartTime:            bk.StartTime(),
		EndTime:              bk.EndTime(),
		Status:               bk.Status().String(),
		StatusMessage:        bk.StatusMessage(today),
		ProgressPercent:      bk.Status().ProgressPercent(),
		AvailableTransitions: available,
		TotalAmountCents:     bk.TotalAmountCents(),
		ServiceSplit:         finance.SplitCharge(bk.TotalAmountCents()),
		TipAmountCents:       bk.TipAmountCents(),
		TipStatus:            string(bk.TipStatus()),
		DeclineReason:        bk.DeclineReason(),
		SpecialInstructions:  bk.SpecialInstructions(),
		Version:              bk.Version(),
		CreatedAt:            bk.CreatedAt(),
		UpdatedAt:            bk.UpdatedAt(),
	}

	if bk.TipStatus() == bookingDomain.TipPaid && bk.TipAmountCents() != nil {
		split := finance.SplitTip(*bk.TipAmountCents())
		dto.TipSplit = &split
	}
	if orig := bk.OriginalBookingDate(); orig != nil {
		formatted := orig.Format(time.DateOnly)
		dto.OriginalBookingDate = &formatted
		dto.OriginalBookingTime = bk.OriginalBookingTime()
	}
	return dto
}
