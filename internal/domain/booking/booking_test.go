package booking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBooking(t *testing.T, status BookingStatus, providerID *uuid.UUID, date time.Time) *Booking {
	t.Helper()
	return Reconstruct(
		uuid.New(), uuid.New(),
		providerID,
		uuid.New(), uuid.New(),
		date,
		"10:00", "11:00",
		status,
		10000,
		nil, TipNotRequested,
		nil, nil, nil,
		"",
		1,
		time.Now().UTC(), time.Now().UTC(),
	)
}

func ptr[T any](v T) *T { return &v }

func TestNewBooking(t *testing.T) {
	businessID := uuid.New()
	customerID := uuid.New()
	date := time.Date(2026, 9, 15, 14, 30, 0, 0, time.UTC)

	bk, err := NewBooking(businessID, customerID, uuid.New(), nil, date, "09:00", "10:00", 5000, "ring the bell")
	require.NoError(t, err)

	assert.Equal(t, StatusPending, bk.Status())
	assert.False(t, bk.IsAssigned())
	assert.Equal(t, int64(1), bk.Version())
	assert.Equal(t, TipNotRequested, bk.TipStatus())
	// The stored date is the calendar day, not a timestamp.
	assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), bk.BookingDate())
}

func TestNewBooking_Validation(t *testing.T) {
	date := time.Now().UTC()

	_, err := NewBooking(uuid.Nil, uuid.New(), uuid.New(), nil, date, "09:00", "", 5000, "")
	assert.Error(t, err, "missing business")

	_, err = NewBooking(uuid.New(), uuid.Nil, uuid.New(), nil, date, "09:00", "", 5000, "")
	assert.Error(t, err, "missing customer")

	_, err = NewBooking(uuid.New(), uuid.New(), uuid.New(), nil, date, "", "", 5000, "")
	assert.Error(t, err, "missing start time")

	_, err = NewBooking(uuid.New(), uuid.New(), uuid.New(), nil, date, "09:00", "", 0, "")
	assert.Error(t, err, "non-positive amount")
}

func TestBooking_Confirm(t *testing.T) {
	today := time.Now().UTC()

	t.Run("requires an assigned provider", func(t *testing.T) {
		bk := newTestBooking(t, StatusPending, nil, today)

		err := bk.Confirm()
		guard, ok := IsGuardFailed(err)
		require.True(t, ok)
		assert.Equal(t, GuardMissingProvider, guard.Reason)
		assert.Equal(t, StatusPending, bk.Status(), "status unchanged on guard failure")
	})

	t.Run("succeeds once assigned", func(t *testing.T) {
		bk := newTestBooking(t, StatusPending, ptr(uuid.New()), today)

		require.NoError(t, bk.Confirm())
		assert.Equal(t, StatusConfirmed, bk.Status())
	})

	t.Run("rejected outside pending", func(t *testing.T) {
		bk := newTestBooking(t, StatusInProgress, ptr(uuid.New()), today)
		assert.Error(t, bk.Confirm())
	})
}

func TestBooking_Decline(t *testing.T) {
	today := time.Now().UTC()

	t.Run("requires a reason", func(t *testing.T) {
		bk := newTestBooking(t, StatusPending, nil, today)

		err := bk.Decline(DeclineReason{})
		guard, ok := IsGuardFailed(err)
		require.True(t, ok)
		assert.Equal(t, GuardMissingReason, guard.Reason)
	})

	t.Run("persists the reason", func(t *testing.T) {
		bk := newTestBooking(t, StatusPending, nil, today)
		reason := DeclineReason{Code: DeclineFullyBooked}

		require.NoError(t, bk.Decline(reason))
		assert.Equal(t, StatusDeclined, bk.Status())
		require.NotNil(t, bk.DeclineReason())
		assert.Equal(t, DeclineFullyBooked, bk.DeclineReason().Code)
	})

	t.Run("rejected after confirmation", func(t *testing.T) {
		bk := newTestBooking(t, StatusConfirmed, ptr(uuid.New()), today)
		assert.Error(t, bk.Decline(DeclineReason{Code: DeclineFullyBooked}))
	})
}

func TestBooking_Start(t *testing.T) {
	today := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	t.Run("requires an assigned provider", func(t *testing.T) {
		bk := newTestBooking(t, StatusConfirmed, nil, today)

		err := bk.Start(today)
		guard, ok := IsGuardFailed(err)
		require.True(t, ok)
		assert.Equal(t, GuardMissingProvider, guard.Reason)
	})

	t.Run("blocked while the date is in the future", func(t *testing.T) {
		bk := newTestBooking(t, StatusConfirmed, ptr(uuid.New()), today.AddDate(0, 0, 3))

		err := bk.Start(today)
		guard, ok := IsGuardFailed(err)
		require.True(t, ok)
		assert.Equal(t, GuardDateInFuture, guard.Reason)
	})

	t.Run("starts on the booking day", func(t *testing.T) {
		bk := newTestBooking(t, StatusConfirmed, ptr(uuid.New()), today)

		require.NoError(t, bk.Start(today))
		assert.Equal(t, StatusInProgress, bk.Status())
	})

	t.Run("starts late without complaint", func(t *testing.T) {
		bk := newTestBooking(t, StatusConfirmed, ptr(uuid.New()), today.AddDate(0, 0, -2))
		require.NoError(t, bk.Start(today))
	})
}

func TestBooking_CompleteAndNoShow(t *testing.T) {
	today := time.Now().UTC()

	bk := newTestBooking(t, StatusInProgress, ptr(uuid.New()), today)
	require.NoError(t, bk.Complete())
	assert.Equal(t, StatusCompleted, bk.Status())

	bk = newTestBooking(t, StatusInProgress, ptr(uuid.New()), today)
	require.NoError(t, bk.MarkNoShow())
	assert.Equal(t, StatusNoShow, bk.Status())

	// Neither applies outside in_progress.
	bk = newTestBooking(t, StatusConfirmed, ptr(uuid.New()), today)
	assert.Error(t, bk.Complete())
	assert.Error(t, bk.MarkNoShow())
}

func TestBooking_AssignProvider(t *testing.T) {
	today := time.Now().UTC()

	t.Run("assigns without touching status", func(t *testing.T) {
		bk := newTestBooking(t, StatusPending, nil, today)
		providerID := uuid.New()

		require.NoError(t, bk.AssignProvider(providerID))
		assert.Equal(t, StatusPending, bk.Status())
		require.NotNil(t, bk.ProviderID())
		assert.Equal(t, providerID, *bk.ProviderID())
	})

	t.Run("reassignment replaces", func(t *testing.T) {
		first := uuid.New()
		bk := newTestBooking(t, StatusConfirmed, &first, today)
		second := uuid.New()

		require.NoError(t, bk.AssignProvider(second))
		assert.Equal(t, second, *bk.ProviderID())
	})

	t.Run("rejected on terminal bookings", func(t *testing.T) {
		bk := newTestBooking(t, StatusCompleted, ptr(uuid.New()), today)
		assert.Error(t, bk.AssignProvider(uuid.New()))
	})

	t.Run("rejects nil provider", func(t *testing.T) {
		bk := newTestBooking(t, StatusPending, nil, today)
		assert.Error(t, bk.AssignProvider(uuid.Nil))
	})
}

func TestBooking_ClearProvider(t *testing.T) {
	today := time.Now().UTC()

	bk := newTestBooking(t, StatusConfirmed, ptr(uuid.New()), today)
	require.NoError(t, bk.ClearProvider())
	assert.False(t, bk.IsAssigned())

	bk = newTestBooking(t, StatusCompleted, ptr(uuid.New()), today)
	assert.Error(t, bk.ClearProvider())
}

func TestBooking_MarkTipPaid(t *testing.T) {
	bk := newTestBooking(t, StatusCompleted, ptr(uuid.New()), time.Now().UTC())

	require.NoError(t, bk.MarkTipPaid(1500))
	assert.Equal(t, TipPaid, bk.TipStatus())
	require.NotNil(t, bk.TipAmountCents())
	assert.Equal(t, int64(1500), *bk.TipAmountCents())

	assert.Error(t, bk.MarkTipPaid(0))
	assert.Error(t, bk.MarkTipPaid(-100))
}

func TestBooking_Reschedule(t *testing.T) {
	origDate := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	bk := newTestBooking(t, StatusConfirmed, ptr(uuid.New()), origDate)

	newDate := origDate.AddDate(0, 0, 7)
	require.NoError(t, bk.Reschedule(newDate, "14:00", "15:00"))

	assert.True(t, bk.IsRescheduled())
	require.NotNil(t, bk.OriginalBookingDate())
	assert.Equal(t, origDate, *bk.OriginalBookingDate())
	assert.Equal(t, "10:00", *bk.OriginalBookingTime())
	assert.Equal(t, newDate, bk.BookingDate())

	// A second move keeps the first original slot.
	require.NoError(t, bk.Reschedule(newDate.AddDate(0, 0, 1), "16:00", "17:00"))
	assert.Equal(t, origDate, *bk.OriginalBookingDate())

	done := newTestBooking(t, StatusCompleted, ptr(uuid.New()), origDate)
	assert.Error(t, done.Reschedule(newDate, "14:00", "15:00"))
}

func TestBooking_IncrementVersion(t *testing.T) {
	bk := newTestBooking(t, StatusPending, nil, time.Now().UTC())
	bk.IncrementVersion()
	assert.Equal(t, int64(2), bk.Version())
}
