package finance

// Platform fee policy. Rates are expressed in basis points over integer cents
// so the split stays exact: the provider net is the subtraction remainder and
// platformFee + providerNet == gross always holds.
const (
	PlatformFeeBasisPoints      = 1200 // 12%
	ProviderNetBasisPoints      = 8800 // 88%
	InstantPayoutFeeBasisPoints = 150  // 1.5%
)

// Split is the division of a charge between the platform and the provider.
type Split struct {
	GrossCents       int64 `json:"gross_cents"`
	PlatformFeeCents int64 `json:"platform_fee_cents"`
	ProviderNetCents int64 `json:"provider_net_cents"`
}

// SplitCharge divides a service charge 12/88 between platform and provider,
// rounding the platform fee half-up to whole cents.
func SplitCharge(grossCents int64) Split {
	fee := roundBasisPointsHalfUp(grossCents, PlatformFeeBasisPoints)
	return Split{
		GrossCents:       grossCents,
		PlatformFeeCents: fee,
		ProviderNetCents: grossCents - fee,
	}
}

// SplitTip divides a paid tip with the same 12/88 policy, independently of the
// service-charge split.
func SplitTip(tipCents int64) Split {
	return SplitCharge(tipCents)
}

// TransactionKind distinguishes derived payment transactions.
type TransactionKind string

const (
	KindService TransactionKind = "service"
	KindTip     TransactionKind = "tip"
)

// PaymentTransaction is the derived financial record for a booking charge or tip.
type PaymentTransaction struct {
	Kind             TransactionKind `json:"kind"`
	GrossCents       int64           `json:"gross_cents"`
	PlatformFeeCents int64           `json:"platform_fee_cents"`
	ProviderNetCents int64           `json:"provider_net_cents"`
}

// NewPaymentTransaction builds the derived transaction for a charge of the given kind.
func NewPaymentTransaction(kind TransactionKind, grossCents int64) PaymentTransaction {
	split := SplitCharge(grossCents)
	return PaymentTransaction{
		Kind:             kind,
		GrossCents:       split.GrossCents,
		PlatformFeeCents: split.PlatformFeeCents,
		ProviderNetCents: split.ProviderNetCents,
	}
}

// roundBasisPointsHalfUp computes amount * bps / 10000 with half-up rounding.
func roundBasisPointsHalfUp(amountCents int64, bps int64) int64 {
	return (amountCents*bps + 5000) / 10000
}
