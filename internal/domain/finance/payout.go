package finance

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// PayoutMethod selects the settlement speed of a payout.
type PayoutMethod string

const (
	PayoutStandard PayoutMethod = "standard"
	PayoutInstant  PayoutMethod = "instant"
)

// Settlement horizons, informational only; enforcement lives with the
// external payout collaborator.
const (
	standardArrival = "2 business days"
	instantArrival  = "~30 minutes"
)

// ParsePayoutMethod converts a string to a PayoutMethod, returning an error if invalid.
func ParsePayoutMethod(s string) (PayoutMethod, error) {
	m := PayoutMethod(s)
	if m != PayoutStandard && m != PayoutInstant {
		return "", fmt.Errorf("invalid payout method: %s", s)
	}
	return m, nil
}

// InvalidAmountError indicates a payout amount that is not a positive decimal.
type InvalidAmountError struct {
	Input string
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid payout amount: %q", e.Input)
}

// HTTPStatus maps the error to 400 for inline display.
func (e *InvalidAmountError) HTTPStatus() int { return http.StatusBadRequest }

// NewInvalidAmountError creates an InvalidAmountError for the given input.
func NewInvalidAmountError(input string) *InvalidAmountError {
	return &InvalidAmountError{Input: input}
}

// InsufficientBalanceError indicates a payout exceeding the available balance.
type InsufficientBalanceError struct {
	RequestedCents int64
	AvailableCents int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("requested %s exceeds available balance %s",
		FormatAmount(e.RequestedCents), FormatAmount(e.AvailableCents))
}

// HTTPStatus maps the error to 422 for inline display.
func (e *InsufficientBalanceError) HTTPStatus() int { return http.StatusUnprocessableEntity }

// IsInvalidAmount reports whether err is an InvalidAmountError.
func IsInvalidAmount(err error) bool {
	var target *InvalidAmountError
	return errors.As(err, &target)
}

// IsInsufficientBalance reports whether err is an InsufficientBalanceError.
func IsInsufficientBalance(err error) bool {
	var target *InsufficientBalanceError
	return errors.As(err, &target)
}

// PayoutQuote is a validated payout request with its fee applied.
type PayoutQuote struct {
	AmountCents     int64        `json:"amount_cents"`
	FeeCents        int64        `json:"fee_cents"`
	NetCents        int64        `json:"net_cents"`
	Method          PayoutMethod `json:"method"`
	ArrivalEstimate string       `json:"arrival_estimate"`
}

// ValidatePayout checks a payout request against the available balance and
// quotes the fee: free for standard, 1.5% (half-up) for instant.
func ValidatePayout(amountCents, availableBalanceCents int64, method PayoutMethod) (PayoutQuote, error) {
	if amountCents <= 0 {
		return PayoutQuote{}, NewInvalidAmountError(FormatAmount(amountCents))
	}
	if amountCents > availableBalanceCents {
		return PayoutQuote{}, &InsufficientBalanceError{
			RequestedCents: amountCents,
			AvailableCents: availableBalanceCents,
		}
	}

	var fee int64
	arrival := standardArrival
	if method == PayoutInstant {
		fee = roundBasisPointsHalfUp(amountCents, InstantPayoutFeeBasisPoints)
		arrival = instantArrival
	}

	return PayoutQuote{
		AmountCents:     amountCents,
		FeeCents:        fee,
		NetCents:        amountCents - fee,
		Method:          method,
		ArrivalEstimate: arrival,
	}, nil
}

// PayoutStatus is the settlement state of a payout request.
type PayoutStatus string

const (
	PayoutPending    PayoutStatus = "pending"
	PayoutProcessing PayoutStatus = "processing"
	PayoutPaid       PayoutStatus = "paid"
	PayoutFailed     PayoutStatus = "failed"
)

// Payout is a requested transfer of provider earnings out of the platform.
type Payout struct {
	id          uuid.UUID
	businessID  uuid.UUID
	amountCents int64
	feeCents    int64
	netCents    int64
	method      PayoutMethod
	status      PayoutStatus
	createdAt   time.Time
}

// NewPayout creates a pending payout from a validated quote.
func NewPayout(businessID uuid.UUID, quote PayoutQuote) *Payout {
	return &Payout{
		id:          uuid.New(),
		businessID:  businessID,
		amountCents: quote.AmountCents,
		feeCents:    quote.FeeCents,
		netCents:    quote.NetCents,
		method:      quote.Method,
		status:      PayoutPending,
		createdAt:   time.Now().UTC(),
	}
}

// ReconstructPayout rebuilds a Payout from persistence data.
func ReconstructPayout(
	id, businessID uuid.UUID,
	amountCents, feeCents, netCents int64,
	method PayoutMethod,
	status PayoutStatus,
	createdAt time.Time,
) *Payout {
	return &Payout{
		id:          id,
		businessID:  businessID,
		amountCents: amountCents,
		feeCents:    feeCents,
		netCents:    netCents,
		method:      method,
		status:      status,
		createdAt:   createdAt,
	}
}

// ID returns the payout's unique identifier.
func (p *Payout) ID() uuid.UUID { return p.id }

// BusinessID returns the business being paid out.
func (p *Payout) BusinessID() uuid.UUID { return p.businessID }

// AmountCents returns the requested amount in cents.
func (p *Payout) AmountCents() int64 { return p.amountCents }

// FeeCents returns the payout fee in cents.
func (p *Payout) FeeCents() int64 { return p.feeCents }

// NetCents returns the amount arriving after fees.
func (p *Payout) NetCents() int64 { return p.netCents }

// Method returns the settlement method.
func (p *Payout) Method() PayoutMethod { return p.method }

// Status returns the settlement state.
func (p *Payout) Status() PayoutStatus { return p.status }

// CreatedAt returns the request timestamp.
func (p *Payout) CreatedAt() time.Time { return p.createdAt }
