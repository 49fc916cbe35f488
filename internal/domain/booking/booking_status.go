package booking

import "fmt"

// BookingStatus represents the current state of a booking in its lifecycle.
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusDeclined   BookingStatus = "declined"
	StatusNoShow     BookingStatus = "no_show"
	StatusCancelled  BookingStatus = "cancelled"
)

// validTransitions defines the state machine for booking status transitions.
// Cancellation is customer-initiated upstream; this engine never produces it
// and only treats the status as a terminal input.
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:    {StatusConfirmed, StatusDeclined},
	StatusConfirmed:  {StatusInProgress},
	StatusInProgress: {StatusCompleted, StatusNoShow},
	StatusCompleted:  {},
	StatusDeclined:   {},
	StatusNoShow:     {},
	StatusCancelled:  {},
}

// progressPercent maps each status to the progress bar value shown in the UI.
var progressPercent = map[BookingStatus]int{
	StatusPending:    20,
	StatusConfirmed:  60,
	StatusInProgress: 80,
	StatusCompleted:  100,
	StatusDeclined:   0,
	StatusNoShow:     0,
	StatusCancelled:  0,
}

// IsValid returns true if the status is a recognized booking status.
func (s BookingStatus) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the target is allowed.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible from this status.
func (s BookingStatus) IsTerminal() bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return true
	}
	return len(allowed) == 0
}

// ProgressPercent returns the UI progress value for this status.
func (s BookingStatus) ProgressPercent() int {
	return progressPercent[s]
}

// String returns the string representation of the status.
func (s BookingStatus) String() string {
	return string(s)
}

// ParseBookingStatus converts a string to a BookingStatus, returning an error if invalid.
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}
