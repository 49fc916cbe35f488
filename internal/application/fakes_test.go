package application

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/urbanly-services/provider-dashboard/internal/common/domain"
	"github.com/urbanly-services/provider-dashboard/internal/common/kafka"
	bookingDomain "github.com/urbanly-services/provider-dashboard/internal/domain/booking"
	"github.com/urbanly-services/provider-dashboard/internal/domain/finance"
	providerDomain "github.com/urbanly-services/provider-dashboard/internal/domain/provider"
)

// fakeBookingRepo is an in-memory booking repository for service tests.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*bookingDomain.Booking
	saveErr  error
	findErr  error
}

func newFakeBookingRepo(bookings ...*bookingDomain.Booking) *fakeBookingRepo {
	repo := &fakeBookingRepo{bookings: map[uuid.UUID]*bookingDomain.Booking{}}
	for _, b := range bookings {
		repo.bookings[b.ID()] = b
	}
	return repo
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	bk, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	return bk, nil
}

func (r *fakeBookingRepo) FindByBusinessID(_ context.Context, businessID uuid.UUID) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []*bookingDomain.Booking{}
	for _, bk := range r.bookings {
		if bk.BusinessID() == businessID {
			result = append(result, bk)
		}
	}
	return result, nil
}

func (r *fakeBookingRepo) FindByBusinessAndPeriod(_ context.Context, businessID uuid.UUID, start, end time.Time) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []*bookingDomain.Booking{}
	for _, bk := range r.bookings {
		if bk.BusinessID() != businessID {
			continue
		}
		if bk.BookingDate().Before(start) || bk.BookingDate().After(end) {
			continue
		}
		result = append(result, bk)
	}
	return result, nil
}

func (r *fakeBookingRepo) ListAll(_ context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := []*bookingDomain.Booking{}
	for _, bk := range r.bookings {
		all = append(all, bk)
	}
	return domain.Paginate(all, page, limit), int64(len(all)), nil
}

func (r *fakeBookingRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int64{}
	for _, bk := range r.bookings {
		counts[bk.Status().String()]++
	}
	return counts, nil
}

func (r *fakeBookingRepo) Save(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[bk.ID()] = bk
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.bookings[bk.ID()] = bk
	return nil
}

// fakeProviderRepo is an in-memory provider repository for service tests.
type fakeProviderRepo struct {
	businesses map[uuid.UUID]*providerDomain.Business
	providers  map[uuid.UUID]*providerDomain.Provider
	capable    map[uuid.UUID]bool
}

func newFakeProviderRepo() *fakeProviderRepo {
	return &fakeProviderRepo{
		businesses: map[uuid.UUID]*providerDomain.Business{},
		providers:  map[uuid.UUID]*providerDomain.Provider{},
	}
}

func (r *fakeProviderRepo) FindBusinessByID(_ context.Context, id uuid.UUID) (*providerDomain.Business, error) {
	b, ok := r.businesses[id]
	if !ok {
		return nil, domain.NewNotFoundError("Business", id.String())
	}
	return b, nil
}

func (r *fakeProviderRepo) FindProviderByID(_ context.Context, id uuid.UUID) (*providerDomain.Provider, error) {
	p, ok := r.providers[id]
	if !ok {
		return nil, domain.NewNotFoundError("Provider", id.String())
	}
	return p, nil
}

func (r *fakeProviderRepo) FindActiveByBusinessID(_ context.Context, businessID uuid.UUID) ([]*providerDomain.Provider, error) {
	result := []*providerDomain.Provider{}
	for _, p := range r.providers {
		if p.BusinessID() == businessID && p.IsActive() {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *fakeProviderRepo) FindServiceCapable(_ context.Context, _ uuid.UUID) (map[uuid.UUID]bool, error) {
	return r.capable, nil
}

// fakePayoutRepo is an in-memory payout repository for service tests.
type fakePayoutRepo struct {
	payouts []*finance.Payout
	balance int64
}

func (r *fakePayoutRepo) Save(_ context.Context, p *finance.Payout) error {
	r.payouts = append(r.payouts, p)
	return nil
}

func (r *fakePayoutRepo) FindByBusinessID(_ context.Context, businessID uuid.UUID) ([]*finance.Payout, error) {
	result := []*finance.Payout{}
	for _, p := range r.payouts {
		if p.BusinessID() == businessID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *fakePayoutRepo) AvailableBalance(_ context.Context, _ uuid.UUID) (int64, error) {
	return r.balance, nil
}

// fakePublisher records published events for assertions.
type fakePublisher struct {
	mu     sync.Mutex
	events []kafka.CloudEvent
}

func (p *fakePublisher) PublishEvent(_ context.Context, _ string, event kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.Type
	}
	return types
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
