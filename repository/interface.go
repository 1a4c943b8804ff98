package repository

import (
	"context"
	"errors"

	"quote-configurator/models"
)

var (
	// ErrBookingNotFound is returned when no booking has the given id
	ErrBookingNotFound = errors.New("booking not found")
	// ErrStatusConflict is returned when a booking is not in the expected status
	ErrStatusConflict = errors.New("booking status changed concurrently or is not in the expected status")
)

// BookingRepositoryInterface defines the contract for booking record storage
type BookingRepositoryInterface interface {
	Create(ctx context.Context, booking *models.BookingRecord) error
	GetByID(ctx context.Context, id string) (*models.BookingRecord, error)
	List(ctx context.Context, status *string) ([]models.BookingRecord, error)
	// UpdateStatus moves a booking from one status to another atomically
	UpdateStatus(ctx context.Context, id string, from, to models.BookingStatus) (*models.BookingRecord, error)
}

// ContactMessageRepositoryInterface defines the contract for contact form message storage
type ContactMessageRepositoryInterface interface {
	SaveContactMessage(ctx context.Context, id string, msg models.ContactMessage) error
}
