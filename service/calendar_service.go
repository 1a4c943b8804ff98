package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"quote-configurator/models"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// CalendarService reads busy time from and writes bookings to a Google Calendar
type CalendarService struct {
	client     *calendar.Service
	calendarID string
	location   *time.Location
}

var _ CalendarServiceInterface = (*CalendarService)(nil)

// NewCalendarService creates a new CalendarService instance
// credentialsPath should be the path to the Service Account JSON file, the calendar must be shared with it
func NewCalendarService(credentialsPath, calendarID string, loc *time.Location) (*CalendarService, error) {
	return NewCalendarServiceWithOptions(context.Background(), calendarID, loc, option.WithCredentialsFile(credentialsPath))
}

// NewCalendarServiceWithOptions creates a CalendarService with explicit client options
func NewCalendarServiceWithOptions(ctx context.Context, calendarID string, loc *time.Location, opts ...option.ClientOption) (*CalendarService, error) {
	client, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &CalendarService{client: client, calendarID: calendarID, location: loc}, nil
}

// BusyIntervals queries free/busy information for [start, end)
func (cs *CalendarService) BusyIntervals(ctx context.Context, start, end time.Time) ([]models.BusyInterval, error) {
	req := &calendar.FreeBusyRequest{
		TimeMin:  start.Format(time.RFC3339),
		TimeMax:  end.Format(time.RFC3339),
		TimeZone: cs.location.String(),
		Items:    []*calendar.FreeBusyRequestItem{{Id: cs.calendarID}},
	}

	resp, err := cs.client.Freebusy.Query(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to query free/busy: %w", err)
	}

	cal, ok := resp.Calendars[cs.calendarID]
	if !ok {
		return nil, fmt.Errorf("calendar %s missing from free/busy response", cs.calendarID)
	}
	if len(cal.Errors) > 0 {
		return nil, fmt.Errorf("free/busy error for calendar %s: %s", cs.calendarID, cal.Errors[0].Reason)
	}

	intervals := make([]models.BusyInterval, 0, len(cal.Busy))
	for _, period := range cal.Busy {
		from, err := time.Parse(time.RFC3339, period.Start)
		if err != nil {
			log.Printf("⚠️ BusyIntervals: skipping period with bad start %q: %v", period.Start, err)
			continue
		}
		to, err := time.Parse(time.RFC3339, period.End)
		if err != nil {
			log.Printf("⚠️ BusyIntervals: skipping period with bad end %q: %v", period.End, err)
			continue
		}
		intervals = append(intervals, models.BusyInterval{Start: from, End: to})
	}

	log.Printf("📅 BusyIntervals: calendar=%s window=%s..%s busy=%d", cs.calendarID,
		start.Format(models.DateLayout), end.Format(models.DateLayout), len(intervals))
	return intervals, nil
}

// BlockDates inserts an all-day opaque event covering start..end inclusive
func (cs *CalendarService) BlockDates(ctx context.Context, start, end time.Time, label string) error {
	event := &calendar.Event{
		Summary:      label,
		Transparency: "opaque",
		Start:        &calendar.EventDateTime{Date: start.Format(models.DateLayout)},
		// All-day event ends are exclusive
		End: &calendar.EventDateTime{Date: end.AddDate(0, 0, 1).Format(models.DateLayout)},
	}

	created, err := cs.client.Events.Insert(cs.calendarID, event).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to insert calendar event: %w", err)
	}

	log.Printf("✅ BlockDates: event=%s %s..%s", created.Id, event.Start.Date, end.Format(models.DateLayout))
	return nil
}

// NoopCalendarService is used when no calendar is configured: nothing is busy and nothing is blocked
type NoopCalendarService struct{}

var _ CalendarServiceInterface = NoopCalendarService{}

// BusyIntervals returns no busy time
func (NoopCalendarService) BusyIntervals(context.Context, time.Time, time.Time) ([]models.BusyInterval, error) {
	return nil, nil
}

// BlockDates logs and skips the block
func (NoopCalendarService) BlockDates(_ context.Context, start, end time.Time, label string) error {
	log.Printf("⚠️ BlockDates: no calendar configured, skipping %q %s..%s", label,
		start.Format(models.DateLayout), end.Format(models.DateLayout))
	return nil
}
