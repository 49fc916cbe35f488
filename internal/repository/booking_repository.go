package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/urbanly-services/provider-dashboard/internal/common/domain"
	bookingDomain "github.com/urbanly-services/provider-dashboard/internal/domain/booking"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BusinessID          uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProviderID          *uuid.UUID      `gorm:"type:uuid;index"`
	CustomerID          uuid.UUID       `gorm:"type:uuid;not null"`
	ServiceID           uuid.UUID       `gorm:"type:uuid"`
	BookingDate         time.Time       `gorm:"type:date;not null;index"`
	StartTime           string          `gorm:"not null;size:5"`
	EndTime             string          `gorm:"size:5"`
	Status              string          `gorm:"not null;size:30;index"`
	TotalAmountCents    int64           `gorm:"not null"`
	TipAmountCents      *int64          `gorm:""`
	TipStatus           string          `gorm:"not null;size:20;default:'not_requested'"`
	DeclineReason       json.RawMessage `gorm:"type:jsonb"`
	OriginalBookingDate *time.Time      `gorm:"type:date"`
	OriginalBookingTime *string         `gorm:"size:5"`
	SpecialInstructions string          `gorm:"size:1000"`
	Version             int64           `gorm:"not null;default:1"`
	CreatedAt           time.Time       `gorm:"not null"`
	UpdatedAt           time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of the booking Repository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByBusinessID retrieves all bookings belonging to a business.
func (r *GormBookingRepository) FindByBusinessID(ctx context.Context, businessID uuid.UUID) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("booking_date DESC, start_time DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find business bookings: %w", err)
	}
	return toDomainBookings(models)
}

// FindByBusinessAndPeriod retrieves a business's bookings dated within [start, end].
func (r *GormBookingRepository) FindByBusinessAndPeriod(ctx context.Context, businessID uuid.UUID, start, end time.Time) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND booking_date >= ? AND booking_date <= ?", businessID, start, end).
		Order("booking_date DESC, start_time DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings in period: %w", err)
	}
	return toDomainBookings(models)
}

// ListAll retrieves all bookings with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings, err := toDomainBookings(models)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model, err := toBookingModel(bk)
	if err != nil {
		return fmt.Errorf("failed to convert booking to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// Update persists changes to an existing booking with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model, err := toBookingModel(bk)
	if err != nil {
		return fmt.Errorf("failed to convert booking to model: %w", err)
	}

	// Only update if the version matches (current version - 1, since
	// IncrementVersion was called before persisting).
	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"provider_id":           model.ProviderID,
			"status":                model.Status,
			"booking_date":          model.BookingDate,
			"start_time":            model.StartTime,
			"end_time":              model.EndTime,
			"total_amount_cents":    model.TotalAmountCents,
			"tip_amount_cents":      model.TipAmountCents,
			"tip_status":            model.TipStatus,
			"decline_reason":        model.DeclineReason,
			"original_booking_date": model.OriginalBookingDate,
			"original_booking_time": model.OriginalBookingTime,
			"special_instructions":  model.SpecialInstructions,
			"version":               model.Version,
			"updated_at":            model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}

	return nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) (*BookingModel, error) {
	var reasonJSON json.RawMessage
	if bk.DeclineReason() != nil {
		data, err := json.Marshal(bk.DeclineReason())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal decline reason: %w", err)
		}
		reasonJSON = data
	}

	return &BookingModel{
		ID:                  bk.ID(),
		BusinessID:          bk.BusinessID(),
		ProviderID:          bk.ProviderID(),
		CustomerID:          bk.CustomerID(),
		ServiceID:           bk.ServiceID(),
		BookingDate:         bk.BookingDate(),
		StartTime:           bk.StartTime(),
		EndTime:             bk.EndTime(),
		Status:              string(bk.Status()),
		TotalAmountCents:    bk.TotalAmountCents(),
		TipAmountCents:      bk.TipAmountCents(),
		TipStatus:           string(bk.TipStatus()),
		DeclineReason:       reasonJSON,
		OriginalBookingDate: bk.OriginalBookingDate(),
		OriginalBookingTime: bk.OriginalBookingTime(),
		SpecialInstructions: bk.SpecialInstructions(),
		Version:             bk.Version(),
		CreatedAt:           bk.CreatedAt(),
		UpdatedAt:           bk.UpdatedAt(),
	}, nil
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}

	var declineReason *bookingDomain.DeclineReason
	if len(m.DeclineReason) > 0 {
		var dr bookingDomain.DeclineReason
		if err := json.Unmarshal(m.DeclineReason, &dr); err != nil {
			return nil, fmt.Errorf("failed to unmarshal decline reason: %w", err)
		}
		declineReason = &dr
	}

	return bookingDomain.Reconstruct(
		m.ID,
		m.BusinessID,
		m.ProviderID,
		m.CustomerID,
		m.ServiceID,
		m.BookingDate,
		m.StartTime,
		m.EndTime,
		status,
		m.TotalAmountCents,
		m.TipAmountCents,
		bookingDomain.TipStatus(m.TipStatus),
		declineReason,
		m.OriginalBookingDate,
		m.OriginalBookingTime,
		m.SpecialInstructions,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}
