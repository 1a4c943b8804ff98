package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"quote-configurator/booking"
	"quote-configurator/models"
	"quote-configurator/repository"

	"github.com/google/uuid"
)

// ErrInvalidStatusTransition is returned when confirming or rejecting a booking that is not pending
var ErrInvalidStatusTransition = errors.New("only pending bookings can be confirmed or rejected")

// ErrInvalidStatusFilter is returned for unknown status filters
var ErrInvalidStatusFilter = errors.New("invalid status filter")

// BookingService stores booking requests and contact messages and notifies the studio
type BookingService struct {
	repo     repository.BookingRepositoryInterface
	contacts repository.ContactMessageRepositoryInterface
	notifier Notifier
	newID    func() string
}

var _ booking.BookingSink = (*BookingService)(nil)

// NewBookingService creates a new BookingService
func NewBookingService(repo repository.BookingRepositoryInterface, contacts repository.ContactMessageRepositoryInterface, notifier Notifier) *BookingService {
	return &BookingService{repo: repo, contacts: contacts, notifier: notifier, newID: uuid.NewString}
}

// CreateBooking stores a pending booking, then notifies. The stored record is the source of truth,
// so a notification failure is only logged.
func (s *BookingService) CreateBooking(ctx context.Context, sub models.BookingSubmission) (*models.BookingRecord, error) {
	if err := booking.ValidateContact(sub.Contact); err != nil {
		return nil, err
	}
	if sub.StartDate == "" || sub.EndDate == "" || sub.EndDate < sub.StartDate {
		return nil, &booking.ValidationError{Fields: map[string]string{"dates": "start and end dates are required, end not before start"}}
	}

	record := &models.BookingRecord{
		ID:        s.newID(),
		Status:    models.BookingPending,
		Contact:   sub.Contact,
		Quote:     sub.Quote,
		StartDate: sub.StartDate,
		EndDate:   sub.EndDate,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}
	log.Printf("✅ CreateBooking: id=%s client=%s %s..%s gross=%d", record.ID, record.Contact.Email, record.StartDate, record.EndDate, record.Quote.PriceGross)

	if err := s.notifier.NotifyBooking(ctx, *record); err != nil {
		log.Printf("⚠️ CreateBooking: notification failed for booking %s: %v", record.ID, err)
	}
	return record, nil
}

// List returns bookings, optionally filtered by status
func (s *BookingService) List(ctx context.Context, status string) ([]models.BookingRecord, error) {
	switch models.BookingStatus(status) {
	case "", models.BookingPending, models.BookingConfirmed, models.BookingRejected:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatusFilter, status)
	}
	return s.repo.List(ctx, &status)
}

// Get returns one booking
func (s *BookingService) Get(ctx context.Context, id string) (*models.BookingRecord, error) {
	return s.repo.GetByID(ctx, id)
}

// Confirm accepts a pending booking
func (s *BookingService) Confirm(ctx context.Context, id string) (*models.BookingRecord, error) {
	return s.decide(ctx, id, models.BookingConfirmed)
}

// Reject declines a pending booking
func (s *BookingService) Reject(ctx context.Context, id string) (*models.BookingRecord, error) {
	return s.decide(ctx, id, models.BookingRejected)
}

func (s *BookingService) decide(ctx context.Context, id string, to models.BookingStatus) (*models.BookingRecord, error) {
	record, err := s.repo.UpdateStatus(ctx, id, models.BookingPending, to)
	if errors.Is(err, repository.ErrStatusConflict) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStatusTransition, err)
	}
	if err != nil {
		return nil, err
	}
	log.Printf("✅ decide: booking %s is now %s", id, to)
	return record, nil
}

// SubmitContactMessage validates, stores and forwards a contact form message
func (s *BookingService) SubmitContactMessage(ctx context.Context, msg models.ContactMessage) (string, error) {
	if err := booking.ValidateMessage(msg); err != nil {
		return "", err
	}

	id := s.newID()
	if err := s.contacts.SaveContactMessage(ctx, id, msg); err != nil {
		return "", err
	}
	if err := s.notifier.NotifyContact(ctx, msg); err != nil {
		log.Printf("⚠️ SubmitContactMessage: notification failed for message %s: %v", id, err)
	}
	return id, nil
}
