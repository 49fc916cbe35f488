package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	bookingDomain "github.com/urbanly-services/provider-dashboard/internal/domain/booking"
	"github.com/urbanly-services/provider-dashboard/internal/domain/finance"
)

// PayoutModel is the GORM model for the payouts table.
type PayoutModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	BusinessID  uuid.UUID `gorm:"type:uuid;index;not null"`
	AmountCents int64     `gorm:"not null"`
	FeeCents    int64     `gorm:"not null"`
	NetCents    int64     `gorm:"not null"`
	Method      string    `gorm:"not null;size:20"`
	Status      string    `gorm:"not null;size:20;index"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (PayoutModel) TableName() string {
	return "payouts"
}

// GormPayoutRepository is the GORM-based implementation of the PayoutRepository.
type GormPayoutRepository struct {
	db *gorm.DB
}

// NewGormPayoutRepository creates a new GormPayoutRepository.
func NewGormPayoutRepository(db *gorm.DB) *GormPayoutRepository {
	return &GormPayoutRepository{db: db}
}

// Save persists a new payout request.
func (r *GormPayoutRepository) Save(ctx context.Context, p *finance.Payout) error {
	model := &PayoutModel{
		ID:          p.ID(),
		BusinessID:  p.BusinessID(),
		AmountCents: p.AmountCents(),
		FeeCents:    p.FeeCents(),
		NetCents:    p.NetCents(),
		Method:      string(p.Method()),
		Status:      string(p.Status()),
		CreatedAt:   p.CreatedAt(),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save payout: %w", err)
	}
	return nil
}

// FindByBusinessID retrieves a business's payout requests, newest first.
func (r *GormPayoutRepository) FindByBusinessID(ctx context.Context, businessID uuid.UUID) ([]*finance.Payout, error) {
	var models []PayoutModel
	if err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find payouts: %w", err)
	}

	payouts := make([]*finance.Payout, len(models))
	for i, m := range models {
		payouts[i] = finance.ReconstructPayout(
			m.ID,
			m.BusinessID,
			m.AmountCents,
			m.FeeCents,
			m.NetCents,
			finance.PayoutMethod(m.Method),
			finance.PayoutStatus(m.Status),
			m.CreatedAt,
		)
	}
	return payouts, nil
}

// AvailableBalance computes the business's withdrawable balance: the
// provider-net share of completed bookings and paid tips, minus every
// non-failed payout request. Split math stays in the finance package so
// rounding is single-sourced.
func (r *GormPayoutRepository) AvailableBalance(ctx context.Context, businessID uuid.UUID) (int64, error) {
	type earningRow struct {
		TotalAmountCents int64
		TipAmountCents   *int64
		TipStatus        string
	}
	var rows []earningRow
	if err := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Select("total_amount_cents, tip_amount_cents, tip_status").
		Where("business_id = ? AND status = ?", businessID, bookingDomain.StatusCompleted.String()).
		Find(&rows).Error; err != nil {
		return 0, fmt.Errorf("failed to load earnings: %w", err)
	}

	var balance int64
	for _, row := range rows {
		balance += finance.SplitCharge(row.TotalAmountCents).ProviderNetCents
		if row.TipStatus == string(bookingDomain.TipPaid) && row.TipAmountCents != nil {
			balance += finance.SplitTip(*row.TipAmountCents).ProviderNetCents
		}
	}

	var paidOut int64
	if err := r.db.WithContext(ctx).
		Model(&PayoutModel{}).
		Select("COALESCE(SUM(amount_cents), 0)").
		Where("business_id = ? AND status <> ?", businessID, string(finance.PayoutFailed)).
		Scan(&paidOut).Error; err != nil {
		return 0, fmt.Errorf("failed to sum payouts: %w", err)
	}

	return balance - paidOut, nil
}

var _ finance.PayoutRepository = (*GormPayoutRepository)(nil)
