package booking

import (
	"errors"
	"fmt"
	"net/http"
)

// GuardReason identifies which guard blocked a status transition.
type GuardReason string

const (
	GuardMissingProvider GuardReason = "missing_provider"
	GuardDateInFuture    GuardReason = "date_in_future"
	GuardMissingReason   GuardReason = "missing_reason"
)

// guardHints are the explanations surfaced next to a disabled action in the UI.
var guardHints = map[GuardReason]string{
	GuardMissingProvider: "assign a provider first",
	GuardDateInFuture:    "booking is scheduled for a future date",
	GuardMissingReason:   "a decline reason is required",
}

// GuardError indicates a transition that is legal in the state machine but
// blocked by a data guard. It is recoverable: the UI shows the action as
// disabled with the hint, it is never applied silently.
type GuardError struct {
	From   BookingStatus
	To     BookingStatus
	Reason GuardReason
}

func (e *GuardError) Error() string {
	return fmt.Sprintf("transition %s -> %s blocked: %s", e.From, e.To, guardHints[e.Reason])
}

// HTTPStatus maps guard failures to 422 so callers can surface them inline.
func (e *GuardError) HTTPStatus() int {
	return http.StatusUnprocessableEntity
}

// NewGuardError creates a GuardError for the given transition and reason.
func NewGuardError(from, to BookingStatus, reason GuardReason) *GuardError {
	return &GuardError{From: from, To: to, Reason: reason}
}

// IsGuardFailed reports whether err is a GuardError, returning it if so.
func IsGuardFailed(err error) (*GuardError, bool) {
	var target *GuardError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}
