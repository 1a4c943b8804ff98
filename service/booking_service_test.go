package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quote-configurator/booking"
	"quote-configurator/models"
	"quote-configurator/repository"
)

func validSubmission() models.BookingSubmission {
	return models.BookingSubmission{
		Contact:   models.ContactInfo{Name: "Anna", Email: "anna@example.com"},
		Quote:     models.Quote{ProjectType: "website", PriceNet: 1600, PriceGross: 1968, TotalDays: 2},
		StartDate: "2024-06-06",
		EndDate:   "2024-06-07",
	}
}

func TestCreateBooking(t *testing.T) {
	repo := repository.NewInMemoryBookingRepository()
	notifier := &recordingNotifier{}
	s := NewBookingService(repo, repo, notifier)
	s.newID = func() string { return "b-1" }

	record, err := s.CreateBooking(context.Background(), validSubmission())
	require.NoError(t, err)
	assert.Equal(t, "b-1", record.ID)
	assert.Equal(t, models.BookingPending, record.Status)

	stored, err := repo.GetByID(context.Background(), "b-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1968), stored.Quote.PriceGross)
	require.Len(t, notifier.bookings, 1)
	assert.Equal(t, "b-1", notifier.bookings[0].ID)
}

func TestCreateBookingNotificationFailureIsNotFatal(t *testing.T) {
	repo := repository.NewInMemoryBookingRepository()
	s := NewBookingService(repo, repo, &recordingNotifier{err: errors.New("smtp down")})

	record, err := s.CreateBooking(context.Background(), validSubmission())
	require.NoError(t, err)
	_, err = repo.GetByID(context.Background(), record.ID)
	assert.NoError(t, err)
}

func TestCreateBookingValidation(t *testing.T) {
	repo := repository.NewInMemoryBookingRepository()
	notifier := &recordingNotifier{}
	s := NewBookingService(repo, repo, notifier)

	sub := validSubmission()
	sub.Contact.Email = "nope"
	_, err := s.CreateBooking(context.Background(), sub)
	var verr *booking.ValidationError
	require.ErrorAs(t, err, &verr)

	sub = validSubmission()
	sub.EndDate = "2024-06-01"
	_, err = s.CreateBooking(context.Background(), sub)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "dates")

	all, err := repo.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, notifier.bookings)
}

func TestCreateBookingRepositoryFailure(t *testing.T) {
	notifier := &recordingNotifier{}
	s := NewBookingService(failingRepo{}, repository.NewInMemoryBookingRepository(), notifier)

	_, err := s.CreateBooking(context.Background(), validSubmission())
	assert.ErrorContains(t, err, "database is down")
	assert.Empty(t, notifier.bookings)
}

func TestConfirmAndReject(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewInMemoryBookingRepository()
	s := NewBookingService(repo, repo, LogNotifier{})

	first, err := s.CreateBooking(ctx, validSubmission())
	require.NoError(t, err)
	second, err := s.CreateBooking(ctx, validSubmission())
	require.NoError(t, err)

	confirmed, err := s.Confirm(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, confirmed.Status)

	_, err = s.Reject(ctx, first.ID)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	rejected, err := s.Reject(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingRejected, rejected.Status)

	_, err = s.Confirm(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrBookingNotFound)

	list, err := s.List(ctx, "confirmed")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, first.ID, list[0].ID)

	list, err = s.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = s.List(ctx, "archived")
	assert.ErrorIs(t, err, ErrInvalidStatusFilter)

	got, err := s.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingRejected, got.Status)
}

func TestSubmitContactMessage(t *testing.T) {
	repo := repository.NewInMemoryBookingRepository()
	notifier := &recordingNotifier{}
	s := NewBookingService(repo, repo, notifier)

	id, err := s.SubmitContactMessage(context.Background(), models.ContactMessage{
		Name: "Anna", Email: "anna@example.com", Message: "We would like a new website.",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 1, repo.ContactMessages())
	assert.Len(t, notifier.messages, 1)

	_, err = s.SubmitContactMessage(context.Background(), models.ContactMessage{Name: "Anna", Email: "anna@example.com", Message: "hi"})
	var verr *booking.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, 1, repo.ContactMessages())
}
