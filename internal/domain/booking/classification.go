package booking

import (
	"sort"
	"time"
)

// Bucket is the temporal display bucket of a booking.
type Bucket string

const (
	BucketPresent Bucket = "present"
	BucketFuture  Bucket = "future"
	BucketPast    Bucket = "past"
)

// Phase is the coarser two-state lifecycle view used by the mobile summary.
type Phase string

const (
	PhaseActive Phase = "active"
	PhaseClosed Phase = "closed"
)

// Classification is a partition of a booking list into temporal buckets.
// Every booking appears in exactly one bucket.
type Classification struct {
	Present []*Booking
	Future  []*Booking
	Past    []*Booking
}

// Bucket returns the named bucket of the classification.
func (c Classification) Bucket(b Bucket) []*Booking {
	switch b {
	case BucketPresent:
		return c.Present
	case BucketFuture:
		return c.Future
	default:
		return c.Past
	}
}

// ClassifyBooking buckets a single booking relative to today (a calendar date).
//
//	present: happening today and still workable
//	future:  upcoming and not yet started
//	past:    gone by date, or closed by status regardless of date
//
// Anything matching no rule falls to past.
func ClassifyBooking(b *Booking, today time.Time) Bucket {
	day := dateOnly(today)
	switch {
	case b.bookingDate.Equal(day) && isWorkable(b.status):
		return BucketPresent
	case b.bookingDate.After(day) && (b.status == StatusPending || b.status == StatusConfirmed):
		return BucketFuture
	default:
		return BucketPast
	}
}

// Classify partitions and sorts a booking list for display.
// Each bucket is sorted by (booking_date, start_time) descending, stably.
func Classify(bookings []*Booking, today time.Time) Classification {
	c := Classification{
		Present: []*Booking{},
		Future:  []*Booking{},
		Past:    []*Booking{},
	}
	for _, b := range bookings {
		switch ClassifyBooking(b, today) {
		case BucketPresent:
			c.Present = append(c.Present, b)
		case BucketFuture:
			c.Future = append(c.Future, b)
		default:
			c.Past = append(c.Past, b)
		}
	}
	SortSchedule(c.Present)
	SortSchedule(c.Future)
	SortSchedule(c.Past)
	return c
}

// LifecyclePhase buckets a booking by status alone, irrespective of date.
func LifecyclePhase(status BookingStatus) Phase {
	if isWorkable(status) {
		return PhaseActive
	}
	return PhaseClosed
}

// CountPhases tallies active and closed bookings for the summary view.
func CountPhases(bookings []*Booking) map[Phase]int {
	counts := map[Phase]int{PhaseActive: 0, PhaseClosed: 0}
	for _, b := range bookings {
		counts[LifecyclePhase(b.status)]++
	}
	return counts
}

// SortSchedule sorts bookings by (booking_date, start_time) descending, stably.
func SortSchedule(bookings []*Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		if !bookings[i].bookingDate.Equal(bookings[j].bookingDate) {
			return bookings[i].bookingDate.After(bookings[j].bookingDate)
		}
		return bookings[i].startTime > bookings[j].startTime
	})
}

// isWorkable reports whether the status still allows work on the booking.
func isWorkable(s BookingStatus) bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusInProgress
}
