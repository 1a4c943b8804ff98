package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quote-configurator/models"
	"quote-configurator/scheduler"
)

type fakeSink struct {
	err   error
	calls []models.BookingSubmission
	order *[]string
}

func (f *fakeSink) CreateBooking(_ context.Context, sub models.BookingSubmission) (*models.BookingRecord, error) {
	f.calls = append(f.calls, sub)
	if f.order != nil {
		*f.order = append(*f.order, "sink")
	}
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingRecord{ID: "b-1", Status: models.BookingPending, Contact: sub.Contact,
		Quote: sub.Quote, StartDate: sub.StartDate, EndDate: sub.EndDate}, nil
}

type fakeBlocker struct {
	err        error
	start, end time.Time
	calls      int
	order      *[]string
}

func (f *fakeBlocker) BlockDates(_ context.Context, start, end time.Time, _ string) error {
	f.calls++
	f.start, f.end = start, end
	if f.order != nil {
		*f.order = append(*f.order, "block")
	}
	return f.err
}

type fakeBusy struct {
	intervals []models.BusyInterval
	err       error
}

func (f *fakeBusy) BusyIntervals(context.Context, time.Time, time.Time) ([]models.BusyInterval, error) {
	return f.intervals, f.err
}

var monday = time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)

func newTestWorkflow(sink *fakeSink, blocker *fakeBlocker, busy BusySource) *Workflow {
	deps := Deps{
		Scheduler:  scheduler.Default(),
		Busy:       busy,
		Sink:       sink,
		WindowDays: 14,
		Now:        func() time.Time { return monday },
	}
	if blocker != nil {
		deps.Blocker = blocker
	}
	return NewWorkflow(models.Quote{ProjectType: "website", TotalDays: 3, PriceNet: 1600}, deps)
}

var anna = models.ContactInfo{Name: " Anna ", Email: "anna@example.com"}

func TestHappyPath(t *testing.T) {
	var order []string
	sink := &fakeSink{order: &order}
	blocker := &fakeBlocker{order: &order}
	w := newTestWorkflow(sink, blocker, &fakeBusy{})

	assert.Equal(t, StateSummary, w.State())
	require.NoError(t, w.SetContact(anna))
	assert.Equal(t, StateCalendar, w.State())

	av, err := w.LoadAvailability(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, av.RequiredWorkDays)
	assert.Equal(t, "2024-06-03", av.SearchStart)
	assert.Equal(t, "2024-06-17", av.SearchEnd)
	assert.Contains(t, av.ValidStarts, "2024-06-06")
	assert.False(t, av.Degraded)

	require.NoError(t, w.SelectStart("2024-06-06"))
	view := w.View()
	assert.Equal(t, "2024-06-06", view.StartDate)
	assert.Equal(t, "2024-06-10", view.EndDate)

	record, err := w.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "b-1", record.ID)
	assert.Equal(t, StateSuccess, w.State())

	require.Len(t, sink.calls, 1)
	assert.Equal(t, "Anna", sink.calls[0].Contact.Name)
	assert.Equal(t, int64(1600), sink.calls[0].Quote.PriceNet)
	assert.Equal(t, "2024-06-10", sink.calls[0].EndDate)
	assert.Equal(t, []string{"sink", "block"}, order)
	assert.Equal(t, "2024-06-06", blocker.start.Format(models.DateLayout))
	assert.Equal(t, "2024-06-10", blocker.end.Format(models.DateLayout))
}

func TestContactValidationKeepsSummary(t *testing.T) {
	w := newTestWorkflow(&fakeSink{}, nil, nil)

	err := w.SetContact(models.ContactInfo{Name: "", Email: "not-an-email"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "email")
	assert.Equal(t, StateSummary, w.State())
}

func TestOperationsOutsideTheirState(t *testing.T) {
	w := newTestWorkflow(&fakeSink{}, nil, nil)

	assert.ErrorIs(t, w.Back(), ErrInvalidTransition)
	_, err := w.LoadAvailability(context.Background())
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, w.SelectStart("2024-06-06"), ErrInvalidTransition)
	_, err = w.Submit(context.Background())
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestBackKeepsContact(t *testing.T) {
	w := newTestWorkflow(&fakeSink{}, nil, nil)
	require.NoError(t, w.SetContact(anna))
	_, err := w.LoadAvailability(context.Background())
	require.NoError(t, err)
	require.NoError(t, w.SelectStart("2024-06-04"))

	require.NoError(t, w.Back())
	assert.Equal(t, StateSummary, w.State())
	view := w.View()
	assert.Equal(t, "Anna", view.Contact.Name)
	assert.Empty(t, view.StartDate)
}

func TestBusySourceFailureDegrades(t *testing.T) {
	w := newTestWorkflow(&fakeSink{}, nil, &fakeBusy{err: errors.New("calendar down")})
	require.NoError(t, w.SetContact(anna))

	av, err := w.LoadAvailability(context.Background())
	require.NoError(t, err)
	assert.True(t, av.Degraded)
	assert.Empty(t, av.BusyDays)
	// 3..14 June has ten business days, the last start fitting three days is the 12th
	assert.Len(t, av.ValidStarts, 8)
}

func TestSelectStartRejectsBusyDates(t *testing.T) {
	busyFrom := time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC)
	w := newTestWorkflow(&fakeSink{}, nil, &fakeBusy{intervals: []models.BusyInterval{
		{Start: busyFrom, End: busyFrom.AddDate(0, 0, 1)},
	}})
	require.NoError(t, w.SetContact(anna))

	assert.ErrorIs(t, w.SelectStart("2024-06-03"), ErrAvailabilityNotLoaded)

	av, err := w.LoadAvailability(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-06-05"}, av.BusyDays)

	assert.ErrorIs(t, w.SelectStart("2024-06-04"), ErrDateUnavailable)
	assert.ErrorIs(t, w.SelectStart("2024-06-08"), ErrDateUnavailable)
	var verr *ValidationError
	assert.ErrorAs(t, w.SelectStart("June 6"), &verr)
	assert.NoError(t, w.SelectStart("2024-06-06"))
}

func TestSubmitWithoutStartDate(t *testing.T) {
	w := newTestWorkflow(&fakeSink{}, nil, nil)
	require.NoError(t, w.SetContact(anna))

	_, err := w.Submit(context.Background())
	assert.ErrorIs(t, err, ErrNoStartDate)
}

func TestSinkFailureStaysInCalendarAndRetries(t *testing.T) {
	sink := &fakeSink{err: errors.New("timeout")}
	blocker := &fakeBlocker{}
	w := newTestWorkflow(sink, blocker, nil)
	require.NoError(t, w.SetContact(anna))
	_, err := w.LoadAvailability(context.Background())
	require.NoError(t, err)
	require.NoError(t, w.SelectStart("2024-06-10"))

	_, err = w.Submit(context.Background())
	var serr *SubmissionError
	require.ErrorAs(t, err, &serr)
	assert.EqualError(t, serr.Err, "timeout")
	assert.Equal(t, StateCalendar, w.State())
	assert.NotEmpty(t, w.View().LastError)
	assert.Zero(t, blocker.calls, "calendar is never blocked before the booking exists")

	sink.err = nil
	_, err = w.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, w.State())
	assert.Empty(t, w.View().LastError)
	assert.Len(t, sink.calls, 2)
	assert.Equal(t, 1, blocker.calls)
}

func TestBlockFailureDoesNotAffectSuccess(t *testing.T) {
	blocker := &fakeBlocker{err: errors.New("forbidden")}
	w := newTestWorkflow(&fakeSink{}, blocker, nil)
	require.NoError(t, w.SetContact(anna))
	_, err := w.LoadAvailability(context.Background())
	require.NoError(t, err)
	require.NoError(t, w.SelectStart("2024-06-10"))

	record, err := w.Submit(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, record)
	assert.Equal(t, StateSuccess, w.State())
	assert.Empty(t, w.View().LastError)
}

func TestSuccessIsTerminal(t *testing.T) {
	w := newTestWorkflow(&fakeSink{}, nil, nil)
	require.NoError(t, w.SetContact(anna))
	_, err := w.LoadAvailability(context.Background())
	require.NoError(t, err)
	require.NoError(t, w.SelectStart("2024-06-10"))
	_, err = w.Submit(context.Background())
	require.NoError(t, err)

	assert.ErrorIs(t, w.Back(), ErrInvalidTransition)
	assert.ErrorIs(t, w.SetContact(anna), ErrInvalidTransition)
	_, err = w.Submit(context.Background())
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, w.Close())
	assert.True(t, w.Closed())
	assert.ErrorIs(t, w.Close(), ErrClosed)
	assert.ErrorIs(t, w.Back(), ErrClosed)
}

func TestTransitionTable(t *testing.T) {
	assert.Empty(t, transitions[StateSuccess])
	for from, edges := range transitions {
		for ev, to := range edges {
			assert.NotEqual(t, from, to, "%s loops on %s", from, ev)
		}
	}
}

func TestRequiredWorkDaysAtLeastOne(t *testing.T) {
	w := NewWorkflow(models.Quote{TotalDays: 0}, Deps{Sink: &fakeSink{}})
	assert.Equal(t, 1, w.RequiredWorkDays())
}
