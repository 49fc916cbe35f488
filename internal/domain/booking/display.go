package booking

import "time"

// StatusMessage returns the human-readable line shown under the booking status,
// combining status, provider assignment and date-vs-today. Pure display value.
func (b *Booking) StatusMessage(today time.Time) string {
	day := dateOnly(today)
	switch b.status {
	case StatusPending:
		if b.providerID == nil {
			return "Pending – Awaiting provider assignment"
		}
		return "Pending – Awaiting confirmation"
	case StatusConfirmed:
		switch {
		case b.providerID == nil:
			return "Confirmed – Awaiting provider assignment"
		case b.bookingDate.After(day):
			return "Confirmed – Scheduled for future"
		default:
			return "Confirmed – Ready to start"
		}
	case StatusInProgress:
		return "In progress"
	case StatusCompleted:
		return "Completed"
	case StatusDeclined:
		return "Declined"
	case StatusNoShow:
		return "No-show – Customer did not arrive"
	case StatusCancelled:
		return "Cancelled by customer"
	default:
		return string(b.status)
	}
}

// AvailableTransitions returns the target statuses whose guards currently pass.
// A confirmed booking dated in the future has no available transition.
func (b *Booking) AvailableTransitions(today time.Time) []BookingStatus {
	day := dateOnly(today)
	available := []BookingStatus{}
	for _, target := range validTransitions[b.status] {
		switch target {
		case StatusConfirmed, StatusInProgress:
			if b.providerID == nil {
				continue
			}
			if target == StatusInProgress && b.bookingDate.After(day) {
				continue
			}
		}
		available = append(available, target)
	}
	return available
}
