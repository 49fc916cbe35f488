package finance

import (
	"time"

	"github.com/urbanly-services/provider-dashboard/internal/domain/booking"
)

// RevenueSummary aggregates a business's booking revenue for a period.
type RevenueSummary struct {
	PeriodStart            time.Time      `json:"period_start"`
	PeriodEnd              time.Time      `json:"period_end"`
	TotalRevenueCents      int64          `json:"total_revenue_cents"`
	TotalBookings          int            `json:"total_bookings"`
	CountsByStatus         map[string]int `json:"counts_by_status"`
	AverageOrderValueCents int64          `json:"average_order_value_cents"`
	CompletionRate         float64        `json:"completion_rate"`
	PreviousRevenueCents   int64          `json:"previous_revenue_cents"`
	RevenueChangePercent   float64        `json:"revenue_change_percent"`
}

// AggregateRevenue summarizes revenue for bookings dated within [start, end],
// comparing against the equal-length immediately preceding period. Revenue
// counts completed bookings only. All division-by-zero cases yield 0.
func AggregateRevenue(bookings []*booking.Booking, start, end time.Time) RevenueSummary {
	periodLen := end.Sub(start) + 24*time.Hour
	prevStart := start.Add(-periodLen)
	prevEnd := start.Add(-24 * time.Hour)

	summary := RevenueSummary{
		PeriodStart:    start,
		PeriodEnd:      end,
		CountsByStatus: map[string]int{},
	}

	completed := 0
	var prevRevenue int64
	for _, b := range bookings {
		if inPeriod(b.BookingDate(), prevStart, prevEnd) && b.Status() == booking.StatusCompleted {
			prevRevenue += b.TotalAmountCents()
		}
		if !inPeriod(b.BookingDate(), start, end) {
			continue
		}

		summary.TotalBookings++
		summary.CountsByStatus[b.Status().String()]++
		if b.Status() == booking.StatusCompleted {
			completed++
			summary.TotalRevenueCents += b.TotalAmountCents()
		}
	}

	summary.PreviousRevenueCents = prevRevenue
	if completed > 0 {
		summary.AverageOrderValueCents = summary.TotalRevenueCents / int64(completed)
	}
	if summary.TotalBookings > 0 {
		summary.CompletionRate = float64(completed) / float64(summary.TotalBookings) * 100
	}
	if prevRevenue > 0 {
		summary.RevenueChangePercent = float64(summary.TotalRevenueCents-prevRevenue) / float64(prevRevenue) * 100
	}

	return summary
}

func inPeriod(date, start, end time.Time) bool {
	return !date.Before(start) && !date.After(end)
}
