package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"quote-configurator/models"
)

// InMemoryBookingRepository keeps bookings and messages in memory, used when no database is configured
type InMemoryBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]models.BookingRecord
	order    []string
	messages map[string]models.ContactMessage
	now      func() time.Time
}

var (
	_ BookingRepositoryInterface        = (*InMemoryBookingRepository)(nil)
	_ ContactMessageRepositoryInterface = (*InMemoryBookingRepository)(nil)
)

// NewInMemoryBookingRepository creates an empty in-memory repository
func NewInMemoryBookingRepository() *InMemoryBookingRepository {
	return &InMemoryBookingRepository{
		bookings: make(map[string]models.BookingRecord),
		messages: make(map[string]models.ContactMessage),
		now:      time.Now,
	}
}

func (r *InMemoryBookingRepository) timestamp() string {
	return r.now().UTC().Format(time.RFC3339)
}

// Create stores a booking
func (r *InMemoryBookingRepository) Create(_ context.Context, booking *models.BookingRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bookings[booking.ID]; exists {
		return fmt.Errorf("failed to create booking: duplicate id %s", booking.ID)
	}
	booking.CreatedAt = r.timestamp()
	booking.UpdatedAt = booking.CreatedAt
	r.bookings[booking.ID] = *booking
	r.order = append(r.order, booking.ID)
	return nil
}

// GetByID returns a copy of the stored booking
func (r *InMemoryBookingRepository) GetByID(_ context.Context, id string) (*models.BookingRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return &b, nil
}

// List returns bookings filtered by status, newest first
func (r *InMemoryBookingRepository) List(_ context.Context, status *string) ([]models.BookingRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.BookingRecord{}
	for i := len(r.order) - 1; i >= 0; i-- {
		b := r.bookings[r.order[i]]
		if status != nil && *status != "" && string(b.Status) != *status {
			continue
		}
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

// UpdateStatus moves a booking from one status to another
func (r *InMemoryBookingRepository) UpdateStatus(_ context.Context, id string, from, to models.BookingStatus) (*models.BookingRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	if b.Status != from {
		return nil, fmt.Errorf("%w: booking is %s", ErrStatusConflict, b.Status)
	}
	b.Status = to
	b.UpdatedAt = r.timestamp()
	r.bookings[id] = b
	return &b, nil
}

// SaveContactMessage stores a contact form message
func (r *InMemoryBookingRepository) SaveContactMessage(_ context.Context, id string, msg models.ContactMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[id] = msg
	return nil
}

// ContactMessages returns the number of stored messages
func (r *InMemoryBookingRepository) ContactMessages() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.messages)
}
