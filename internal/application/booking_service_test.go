package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbanly-services/provider-dashboard/internal/common/auth"
	"github.com/urbanly-services/provider-dashboard/internal/common/domain"
	bookingDomain "github.com/urbanly-services/provider-dashboard/internal/domain/booking"
	"github.com/urbanly-services/provider-dashboard/internal/events"
)

func seedBooking(t *testing.T, businessID uuid.UUID, status bookingDomain.BookingStatus, providerID *uuid.UUID, date time.Time) *bookingDomain.Booking {
	t.Helper()
	return bookingDomain.Reconstruct(
		uuid.New(), businessID, providerID,
		uuid.New(), uuid.New(),
		date, "10:00", "11:00",
		status, 10000,
		nil, bookingDomain.TipNotRequested,
		nil, nil, nil, "",
		1, time.Now().UTC(), time.Now().UTC(),
	)
}

func idPtr(id uuid.UUID) *uuid.UUID { return &id }

func TestBookingService_ConfirmBooking(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New()

	t.Run("confirms an assigned pending booking", func(t *testing.T) {
		bk := seedBooking(t, businessID, bookingDomain.StatusPending, idPtr(uuid.New()), time.Now().UTC())
		repo := newFakeBookingRepo(bk)
		pub := &fakePublisher{}
		svc := NewBookingService(repo, pub, testLogger())

		dto, err := svc.ConfirmBooking(ctx, businessID, bk.ID(), auth.RoleOwner)
		require.NoError(t, err)

		assert.Equal(t, "confirmed", dto.Status)
		assert.Equal(t, 60, dto.ProgressPercent)
		assert.Equal(t, int64(2), dto.Version, "version bumped for optimistic locking")
		assert.Contains(t, pub.eventTypes(), events.BookingConfirmed)
	})

	t.Run("guard failure leaves the booking untouched", func(t *testing.T) {
		bk := seedBooking(t, businessID, bookingDomain.StatusPending, nil, time.Now().UTC())
		repo := newFakeBookingRepo(bk)
		pub := &fakePublisher{}
		svc := NewBookingService(repo, pub, testLogger())

		_, err := svc.ConfirmBooking(ctx, businessID, bk.ID(), auth.RoleOwner)
		_, isGuard := bookingDomain.IsGuardFailed(err)
		assert.True(t, isGuard)
		assert.Equal(t, bookingDomain.StatusPending, bk.Status())
		assert.Equal(t, int64(1), bk.Version())
		assert.Empty(t, pub.eventTypes(), "nothing published on failure")
	})

	t.Run("foreign business sees not found", func(t *testing.T) {
		bk := seedBooking(t, businessID, bookingDomain.StatusPending, idPtr(uuid.New()), time.Now().UTC())
		repo := newFakeBookingRepo(bk)
		svc := NewBookingService(repo, &fakePublisher{}, testLogger())

		_, err := svc.ConfirmBooking(ctx, uuid.New(), bk.ID(), auth.RoleOwner)
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("unknown role is forbidden", func(t *testing.T) {
		bk := seedBooking(t, businessID, bookingDomain.StatusPending, idPtr(uuid.New()), time.Now().UTC())
		repo := newFakeBookingRepo(bk)
		svc := NewBookingService(repo, &fakePublisher{}, testLogger())

		_, err := svc.ConfirmBooking(ctx, businessID, bk.ID(), auth.Role("intern"))
		assert.True(t, domain.IsForbidden(err))
	})
}

func TestBookingService_DeclineBooking(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New()

	t.Run("declines with a canned reason", func(t *testing.T) {
		bk := seedBooking(t, businessID, bookingDomain.StatusPending, nil, time.Now().UTC())
		repo := newFakeBookingRepo(bk)
		pub := &fakePublisher{}
		svc := NewBookingService(repo, pub, testLogger())

		dto, err := svc.DeclineBooking(ctx, businessID, bk.ID(), auth.RoleProvider, DeclineRequest{ReasonCode: "fully_booked"})
		require.NoError(t, err)

		assert.Equal(t, "declined", dto.Status)
		assert.Equal(t, 0, dto.ProgressPercent)
		require.NotNil(t, dto.DeclineReason)
		assert.Equal(t, bookingDomain.DeclineFullyBooked, dto.DeclineReason.Code)
		assert.Contains(t, pub.eventTypes(), events.BookingDeclined)
	})

	t.Run("other without a note is rejected", func(t *testing.T) {
		bk := seedBooking(t, businessID, bookingDomain.StatusPending, nil, time.Now().UTC())
		repo := newFakeBookingRepo(bk)
		svc := NewBookingService(repo, &fakePublisher{}, testLogger())

		_, err := svc.DeclineBooking(ctx, businessID, bk.ID(), auth.RoleProvider, DeclineRequest{ReasonCode: "other"})
		assert.True(t, domain.IsValidation(err))
	})
}

func TestBookingService_StartBooking(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New()

	t.Run("starts a confirmed booking dated today", func(t *testing.T) {
		bk := seedBooking(t, businessID, bookingDomain.StatusConfirmed, idPtr(uuid.New()), time.Now().UTC())
		repo := newFakeBookingRepo(bk)
		pub := &fakePublisher{}
		svc := NewBookingService(repo, pub, testLogger())

		dto, err := svc.StartBooking(ctx, businessID, bk.ID(), auth.RoleProvider)
		require.NoError(t, err)
		assert.Equal(t, "in_progress", dto.Status)
		assert.Contains(t, pub.eventTypes(), events.BookingStarted)
	})

	t.Run("future booking is blocked", func(t *testing.T) {
		bk := seedBooking(t, businessID, bookingDomain.StatusConfirmed, idPtr(uuid.New()), time.Now().UTC().AddDate(0, 0, 5))
		repo := newFakeBookingRepo(bk)
		svc := NewBookingService(repo, &fakePublisher{}, testLogger())

		_, err := svc.StartBooking(ctx, businessID, bk.ID(), auth.RoleProvider)
		guard, ok := bookingDomain.IsGuardFailed(err)
		require.True(t, ok)
		assert.Equal(t, bookingDomain.GuardDateInFuture, guard.Reason)
	})
}

func TestBookingService_CompleteBooking(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New()

	bk := seedBooking(t, businessID, bookingDomain.StatusInProgress, idPtr(uuid.New()), time.Now().UTC())
	repo := newFakeBookingRepo(bk)
	pub := &fakePublisher{}
	svc := NewBookingService(repo, pub, testLogger())

	dto, err := svc.CompleteBooking(ctx, businessID, bk.ID(), auth.RoleProvider)
	require.NoError(t, err)
	assert.Equal(t, "completed", dto.Status)
	assert.Equal(t, 100, dto.ProgressPercent)
	// The 12/88 split rides along on every booking payload.
	assert.Equal(t, int64(1200), dto.ServiceSplit.PlatformFeeCents)
	assert.Equal(t, int64(8800), dto.ServiceSplit.ProviderNetCents)
	assert.Contains(t, pub.eventTypes(), events.BookingCompleted)
}

func TestBookingService_MarkTipPaid(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New()

	bk := seedBooking(t, businessID, bookingDomain.StatusCompleted, idPtr(uuid.New()), time.Now().UTC())
	repo := newFakeBookingRepo(bk)
	svc := NewBookingService(repo, &fakePublisher{}, testLogger())

	require.NoError(t, svc.MarkTipPaid(ctx, bk.ID(), 1500))
	assert.Equal(t, bookingDomain.TipPaid, bk.TipStatus())

	dto, err := svc.GetBooking(ctx, businessID, bk.ID())
	require.NoError(t, err)
	require.NotNil(t, dto.TipSplit)
	assert.Equal(t, int64(180), dto.TipSplit.PlatformFeeCents)
	assert.Equal(t, int64(1320), dto.TipSplit.ProviderNetCents)
}

func TestBookingService_ListSchedule(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New()
	today := time.Now().UTC()

	repo := newFakeBookingRepo(
		seedBooking(t, businessID, bookingDomain.StatusConfirmed, idPtr(uuid.New()), today),
		seedBooking(t, businessID, bookingDomain.StatusPending, nil, today.AddDate(0, 0, 3)),
		seedBooking(t, businessID, bookingDomain.StatusCompleted, idPtr(uuid.New()), today.AddDate(0, 0, -3)),
		seedBooking(t, uuid.New(), bookingDomain.StatusConfirmed, idPtr(uuid.New()), today),
	)
	svc := NewBookingService(repo, &fakePublisher{}, testLogger())

	result, err := svc.ListSchedule(ctx, businessID, bookingDomain.BucketPresent, 1, 20)
	require.NoError(t, err)

	assert.Equal(t, "present", result.Bucket)
	require.Len(t, result.Page.Items, 1, "other businesses' bookings stay invisible")
	assert.Equal(t, 1, result.Counts["present"])
	assert.Equal(t, 1, result.Counts["future"])
	assert.Equal(t, 1, result.Counts["past"])
	assert.Equal(t, int64(1), result.Page.Total)
}

func TestBookingService_GetSummary(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New()
	today := time.Now().UTC()

	repo := newFakeBookingRepo(
		seedBooking(t, businessID, bookingDomain.StatusPending, nil, today),
		seedBooking(t, businessID, bookingDomain.StatusInProgress, idPtr(uuid.New()), today),
		seedBooking(t, businessID, bookingDomain.StatusDeclined, nil, today),
	)
	svc := NewBookingService(repo, &fakePublisher{}, testLogger())

	summary, err := svc.GetSummary(ctx, businessID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Active)
	assert.Equal(t, 1, summary.Closed)
}

func TestBookingService_ConflictSurfaces(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New()

	bk := seedBooking(t, businessID, bookingDomain.StatusInProgress, idPtr(uuid.New()), time.Now().UTC())
	repo := newFakeBookingRepo(bk)
	repo.saveErr = domain.NewConflictError("booking was modified by another transaction")
	svc := NewBookingService(repo, &fakePublisher{}, testLogger())

	_, err := svc.CompleteBooking(ctx, businessID, bk.ID(), auth.RoleOwner)
	assert.True(t, domain.IsConflict(err))
}
