package finance

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseAmount parses a decimal currency string ("100", "98.5", "0.01") into
// cents. Amounts must be positive with at most two fractional digits.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return 0, NewInvalidAmountError(s)
	}

	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) > 2 {
		return 0, NewInvalidAmountError(s)
	}
	// pad "5" to "50" so tenths parse as cents
	for len(frac) < 2 {
		frac += "0"
	}

	wholeCents, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, NewInvalidAmountError(s)
	}
	fracCents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, NewInvalidAmountError(s)
	}

	cents := wholeCents*100 + fracCents
	if cents <= 0 {
		return 0, NewInvalidAmountError(s)
	}
	return cents, nil
}

// FormatAmount renders cents as a two-decimal currency string.
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
