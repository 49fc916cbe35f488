package booking

import (
	"fmt"
)

// DeclineReasonCode enumerates the canned decline reasons offered to providers.
type DeclineReasonCode string

const (
	DeclineUnavailableTime     DeclineReasonCode = "unavailable_time"
	DeclineUnavailableLocation DeclineReasonCode = "unavailable_location"
	DeclineOutOfExpertise      DeclineReasonCode = "out_of_expertise"
	DeclineFullyBooked         DeclineReasonCode = "fully_booked"
	DeclineOther               DeclineReasonCode = "other"
)

// declineMessages are the customer-facing texts for the canned codes.
var declineMessages = map[DeclineReasonCode]string{
	DeclineUnavailableTime:     "The provider is not available at the requested time",
	DeclineUnavailableLocation: "The provider does not serve the requested location",
	DeclineOutOfExpertise:      "The requested service is outside the provider's expertise",
	DeclineFullyBooked:         "The provider is fully booked",
}

// DeclineReason is the reason attached to a declined booking. Either a canned
// code, or DeclineOther with a custom note.
type DeclineReason struct {
	Code DeclineReasonCode `json:"code"`
	Note string            `json:"note,omitempty"`
}

// ParseDeclineReason validates a code/note pair into a DeclineReason.
func ParseDeclineReason(code, note string) (DeclineReason, error) {
	c := DeclineReasonCode(code)
	switch c {
	case DeclineUnavailableTime, DeclineUnavailableLocation, DeclineOutOfExpertise, DeclineFullyBooked:
		return DeclineReason{Code: c, Note: note}, nil
	case DeclineOther:
		if note == "" {
			return DeclineReason{}, fmt.Errorf("decline reason %q requires a note", code)
		}
		return DeclineReason{Code: c, Note: note}, nil
	default:
		return DeclineReason{}, fmt.Errorf("unknown decline reason: %s", code)
	}
}

// IsZero reports whether no reason was provided.
func (r DeclineReason) IsZero() bool {
	return r.Code == "" && r.Note == ""
}

// Message returns the customer-facing text for this reason.
func (r DeclineReason) Message() string {
	if msg, ok := declineMessages[r.Code]; ok {
		return msg
	}
	return r.Note
}
