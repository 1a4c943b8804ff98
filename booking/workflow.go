// Package booking drives the checkout of a quote: contact summary, start date selection and submission.
package booking

import (
	"context"
	"fmt"
	"log"
	"time"

	"quote-configurator/models"
	"quote-configurator/scheduler"
)

// State is a checkout step
type State string

const (
	StateSummary  State = "summary"
	StateCalendar State = "calendar"
	StateSuccess  State = "success"
)

type event string

const (
	eventContactAccepted event = "contact_accepted"
	eventBack            event = "back"
	eventBooked          event = "booked"
)

// transitions lists every allowed state change. Success has no outgoing transition.
var transitions = map[State]map[event]State{
	StateSummary: {
		eventContactAccepted: StateCalendar,
	},
	StateCalendar: {
		eventBack:   StateSummary,
		eventBooked: StateSuccess,
	},
}

// BookingSink creates the booking record. Its success is required to reach StateSuccess.
type BookingSink interface {
	CreateBooking(ctx context.Context, sub models.BookingSubmission) (*models.BookingRecord, error)
}

// CalendarBlocker reserves the chosen dates. Failures are logged and never surfaced.
type CalendarBlocker interface {
	BlockDates(ctx context.Context, start, end time.Time, label string) error
}

// BusySource reports busy intervals inside a window
type BusySource interface {
	BusyIntervals(ctx context.Context, start, end time.Time) ([]models.BusyInterval, error)
}

// Deps are the collaborators of a workflow
type Deps struct {
	Scheduler  *scheduler.Scheduler
	Busy       BusySource      // nil means nothing is busy
	Sink       BookingSink
	Blocker    CalendarBlocker // nil disables calendar blocking
	LeadDays   int
	WindowDays int
	Now        func() time.Time
}

// Workflow is one checkout. It is not safe for concurrent use, callers serialize access per session.
type Workflow struct {
	deps    Deps
	state   State
	closed  bool
	quote   models.Quote
	contact models.ContactInfo

	availability *models.AvailabilityResponse
	validStarts  map[string]bool

	start, end time.Time
	lastError  string
	booking    *models.BookingRecord
}

// NewWorkflow starts a checkout for a quote snapshot in the summary step
func NewWorkflow(quote models.Quote, deps Deps) *Workflow {
	if deps.Scheduler == nil {
		deps.Scheduler = scheduler.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.WindowDays <= 0 {
		deps.WindowDays = 90
	}
	return &Workflow{deps: deps, state: StateSummary, quote: quote}
}

// State returns the current step
func (w *Workflow) State() State { return w.state }

// Closed reports whether the workflow was closed
func (w *Workflow) Closed() bool { return w.closed }

// Quote returns the quote snapshot being booked
func (w *Workflow) Quote() models.Quote { return w.quote }

// RequiredWorkDays is the number of contiguous business days the project needs
func (w *Workflow) RequiredWorkDays() int {
	if w.quote.TotalDays < 1 {
		return 1
	}
	return w.quote.TotalDays
}

func (w *Workflow) fire(ev event) error {
	next, ok := transitions[w.state][ev]
	if !ok {
		return fmt.Errorf("%w: %s in %s", ErrInvalidTransition, ev, w.state)
	}
	w.state = next
	return nil
}

func (w *Workflow) require(state State) error {
	if w.closed {
		return ErrClosed
	}
	if w.state != state {
		return fmt.Errorf("%w: expected %s, got %s", ErrInvalidTransition, state, w.state)
	}
	return nil
}

// SetContact validates the contact fields and moves from summary to calendar
func (w *Workflow) SetContact(c models.ContactInfo) error {
	if err := w.require(StateSummary); err != nil {
		return err
	}
	c = normalizeContact(c)
	w.contact = c
	if err := ValidateContact(c); err != nil {
		return err
	}
	return w.fire(eventContactAccepted)
}

// Back returns from calendar to summary, keeping the contact fields
func (w *Workflow) Back() error {
	if err := w.require(StateCalendar); err != nil {
		return err
	}
	w.start, w.end = time.Time{}, time.Time{}
	w.lastError = ""
	return w.fire(eventBack)
}

// LoadAvailability searches valid start dates for the quote's total days. An unreachable busy source
// degrades to an empty busy list and the response is flagged as degraded.
func (w *Workflow) LoadAvailability(ctx context.Context) (models.AvailabilityResponse, error) {
	if err := w.require(StateCalendar); err != nil {
		return models.AvailabilityResponse{}, err
	}

	sched := w.deps.Scheduler
	from, to := sched.Window(w.deps.Now(), w.deps.LeadDays, w.deps.WindowDays)

	var busy []models.BusyInterval
	degraded := false
	if w.deps.Busy != nil {
		var err error
		busy, err = w.deps.Busy.BusyIntervals(ctx, from, to)
		if err != nil {
			log.Printf("⚠️ LoadAvailability: busy calendar unavailable, treating window as free: %v", err)
			busy = nil
			degraded = true
		}
	}

	required := w.RequiredWorkDays()
	av := sched.FindAvailableStarts(required, busy, from, to)
	resp := models.AvailabilityResponse{
		RequiredWorkDays: required,
		SearchStart:      from.Format(models.DateLayout),
		SearchEnd:        to.Format(models.DateLayout),
		ValidStarts:      scheduler.FormatDays(av.ValidStarts),
		BusyDays:         scheduler.FormatDays(av.BusyDays),
		Degraded:         degraded,
	}

	w.availability = &resp
	w.validStarts = make(map[string]bool, len(resp.ValidStarts))
	for _, d := range resp.ValidStarts {
		w.validStarts[d] = true
	}
	if !w.start.IsZero() && !w.validStarts[w.start.Format(models.DateLayout)] {
		w.start, w.end = time.Time{}, time.Time{}
	}
	return resp, nil
}

// Availability returns the last loaded availability, if any
func (w *Workflow) Availability() (models.AvailabilityResponse, bool) {
	if w.availability == nil {
		return models.AvailabilityResponse{}, false
	}
	return *w.availability, true
}

// SelectStart picks one of the loaded valid starts and computes the end date
func (w *Workflow) SelectStart(day string) error {
	if err := w.require(StateCalendar); err != nil {
		return err
	}
	if w.availability == nil {
		return ErrAvailabilityNotLoaded
	}
	start, err := w.deps.Scheduler.ParseDay(day)
	if err != nil {
		return &ValidationError{Fields: map[string]string{"startDate": "must be a YYYY-MM-DD date"}}
	}
	if !w.validStarts[start.Format(models.DateLayout)] {
		return fmt.Errorf("%w: %s", ErrDateUnavailable, day)
	}
	w.start = start
	w.end = w.deps.Scheduler.ComputeEndDate(start, w.RequiredWorkDays())
	return nil
}

// Submit creates the booking and then blocks the dates in the calendar. A sink failure keeps the
// workflow in the calendar step with LastError set, so the caller can retry. The block call runs only
// after the booking succeeded.
func (w *Workflow) Submit(ctx context.Context) (*models.BookingRecord, error) {
	if err := w.require(StateCalendar); err != nil {
		return nil, err
	}
	if w.start.IsZero() {
		return nil, ErrNoStartDate
	}

	sub := models.BookingSubmission{
		Contact:   w.contact,
		Quote:     w.quote,
		StartDate: w.start.Format(models.DateLayout),
		EndDate:   w.end.Format(models.DateLayout),
	}
	record, err := w.deps.Sink.CreateBooking(ctx, sub)
	if err != nil {
		w.lastError = "We could not send your booking. Please try again."
		log.Printf("❌ Submit: booking sink failed: %v", err)
		return nil, &SubmissionError{Err: err}
	}
	w.lastError = ""
	w.booking = record

	if w.deps.Blocker != nil {
		label := fmt.Sprintf("Booked: %s (%s)", w.contact.Name, w.quote.ProjectType)
		if err := w.deps.Blocker.BlockDates(ctx, w.start, w.end, label); err != nil {
			log.Printf("⚠️ Submit: calendar block failed for booking %s: %v", record.ID, err)
		}
	}

	if err := w.fire(eventBooked); err != nil {
		return nil, err
	}
	return record, nil
}

// Close ends the workflow. Nothing can change afterwards.
func (w *Workflow) Close() error {
	if w.closed {
		return ErrClosed
	}
	w.closed = true
	return nil
}

// View returns the client-facing snapshot
func (w *Workflow) View() models.CheckoutView {
	v := models.CheckoutView{
		State:            string(w.state),
		Closed:           w.closed,
		Contact:          w.contact,
		RequiredWorkDays: w.RequiredWorkDays(),
		LastError:        w.lastError,
		Booking:          w.booking,
	}
	if !w.start.IsZero() {
		v.StartDate = w.start.Format(models.DateLayout)
		v.EndDate = w.end.Format(models.DateLayout)
	}
	return v
}
