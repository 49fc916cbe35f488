package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/urbanly-services/provider-dashboard/internal/common/auth"
	"github.com/urbanly-services/provider-dashboard/internal/common/domain"
	"github.com/urbanly-services/provider-dashboard/internal/common/kafka"
	bookingDomain "github.com/urbanly-services/provider-dashboard/internal/domain/booking"
	"github.com/urbanly-services/provider-dashboard/internal/domain/finance"
	"github.com/urbanly-services/provider-dashboard/internal/events"
	"github.com/urbanly-services/provider-dashboard/internal/metrics"
)

// BalanceDTO is the withdrawable balance of a business.
type BalanceDTO struct {
	AvailableCents int64  `json:"available_cents"`
	Available      string `json:"available"`
}

// PayoutRequest carries a payout request from the dashboard.
type PayoutRequest struct {
	Amount string `json:"amount" binding:"required"`
	Method string `json:"method" binding:"required"`
}

// PayoutDTO is the response representation of a payout request.
type PayoutDTO struct {
	ID              uuid.UUID `json:"id"`
	AmountCents     int64     `json:"amount_cents"`
	FeeCents        int64     `json:"fee_cents"`
	NetCents        int64     `json:"net_cents"`
	Method          string    `json:"method"`
	Status          string    `json:"status"`
	ArrivalEstimate string    `json:"arrival_estimate,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// FinanceService orchestrates earnings, balance and payout use cases.
type FinanceService struct {
	bookings bookingDomain.Repository
	payouts  finance.PayoutRepository
	producer EventPublisher
	logger   *zap.Logger
}

// NewFinanceService creates a new FinanceService.
func NewFinanceService(
	bookings bookingDomain.Repository,
	payouts finance.PayoutRepository,
	producer EventPublisher,
	logger *zap.Logger,
) *FinanceService {
	return &FinanceService{
		bookings: bookings,
		payouts:  payouts,
		producer: producer,
		logger:   logger,
	}
}

// GetEarnings aggregates revenue for [start, end] with a comparison against
// the equal-length preceding period.
func (s *FinanceService) GetEarnings(ctx context.Context, businessID uuid.UUID, start, end time.Time) (*finance.RevenueSummary, error) {
	if end.Before(start) {
		return nil, domain.NewValidationError("period end must not precede period start")
	}

	// Fetch one extra period back so the comparison has its data.
	periodLen := end.Sub(start) + 24*time.Hour
	bookings, err := s.bookings.FindByBusinessAndPeriod(ctx, businessID, start.Add(-periodLen), end)
	if err != nil {
		return nil, err
	}

	summary := finance.AggregateRevenue(bookings, start, end)
	return &summary, nil
}

// GetBalance returns the business's withdrawable balance.
func (s *FinanceService) GetBalance(ctx context.Context, businessID uuid.UUID) (*BalanceDTO, error) {
	balance, err := s.payouts.AvailableBalance(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return &BalanceDTO{
		AvailableCents: balance,
		Available:      finance.FormatAmount(balance),
	}, nil
}

// RequestPayout validates a payout against the available balance, persists the
// request and hands it to the payout collaborator via an event. Owner only.
func (s *FinanceService) RequestPayout(ctx context.Context, businessID uuid.UUID, actingRole auth.Role, req PayoutRequest) (*PayoutDTO, error) {
	if actingRole != auth.RoleOwner {
		metrics.IncPayout(req.Method, "forbidden")
		return nil, domain.NewForbiddenError("only the owner may request payouts")
	}

	method, err := finance.ParsePayoutMethod(req.Method)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	amountCents, err := finance.ParseAmount(req.Amount)
	if err != nil {
		metrics.IncPayout(string(method), "invalid")
		return nil, err
	}

	balance, err := s.payouts.AvailableBalance(ctx, businessID)
	if err != nil {
		return nil, err
	}

	quote, err := finance.ValidatePayout(amountCents, balance, method)
	if err != nil {
		metrics.IncPayout(string(method), "rejected")
		return nil, err
	}

	payout := finance.NewPayout(businessID, quote)
	if err := s.payouts.Save(ctx, payout); err != nil {
		metrics.IncPayout(string(method), "store_error")
		return nil, err
	}
	metrics.IncPayout(string(method), "ok")

	evt := events.PayoutRequestedEvent{
		PayoutID:        payout.ID(),
		BusinessID:      businessID,
		AmountCents:     quote.AmountCents,
		FeeCents:        quote.FeeCents,
		NetCents:        quote.NetCents,
		Method:          string(quote.Method),
		ArrivalEstimate: quote.ArrivalEstimate,
		OccurredAt:      time.Now().UTC(),
	}
	s.publishPayout(ctx, evt)

	s.logger.Info("payout requested",
		zap.String("business_id", businessID.String()),
		zap.Int64("amount_cents", quote.AmountCents),
		zap.String("method", string(quote.Method)),
	)

	dto := toPayoutDTO(payout)
	dto.ArrivalEstimate = quote.ArrivalEstimate
	return &dto, nil
}

// ListPayouts returns the business's payout history, newest first.
func (s *FinanceService) ListPayouts(ctx context.Context, businessID uuid.UUID) ([]PayoutDTO, error) {
	payouts, err := s.payouts.FindByBusinessID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	dtos := make([]PayoutDTO, len(payouts))
	for i, p := range payouts {
		dtos[i] = toPayoutDTO(p)
	}
	return dtos, nil
}

func (s *FinanceService) publishPayout(ctx context.Context, evt events.PayoutRequestedEvent) {
	cloudEvent, err := kafka.NewCloudEvent("provider-dashboard", events.PayoutRequested, evt)
	if err != nil {
		s.logger.Error("failed to create cloud event", zap.Error(err))
		return
	}
	if err := s.producer.PublishEvent(ctx, events.TopicPayoutEvents, cloudEvent); err != nil {
		s.logger.Error("failed to publish payout event", zap.Error(err))
	}
}

func toPayoutDTO(p *finance.Payout) PayoutDTO {
	return PayoutDTO{
		ID:          p.ID(),
		AmountCents: p.AmountCents(),
		FeeCents:    p.FeeCents(),
		NetCents:    p.NetCents(),
		Method:      string(p.Method()),
		Status:      string(p.Status()),
		CreatedAt:   p.CreatedAt(),
	}
}
