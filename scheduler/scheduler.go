// Package scheduler finds start dates that leave enough contiguous free business days for a project.
package scheduler

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"quote-configurator/models"
)

// ErrNoBusinessDays is returned when a weekend list covers the whole week
var ErrNoBusinessDays = errors.New("weekend covers every day of the week")

// Scheduler holds the business-day rule shared by availability search and end-date estimation
type Scheduler struct {
	Weekend  map[time.Weekday]bool
	Location *time.Location
}

// Availability is the result of a start-date search
type Availability struct {
	ValidStarts []time.Time
	BusyDays    []time.Time // Busy business days, for presentation
}

// New creates a scheduler with the given weekend days. A nil location means UTC.
func New(weekend []time.Weekday, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	s := &Scheduler{Weekend: make(map[time.Weekday]bool, len(weekend)), Location: loc}
	for _, d := range weekend {
		s.Weekend[d] = true
	}
	return s
}

// Default returns a Saturday/Sunday weekend scheduler in UTC
func Default() *Scheduler {
	return New([]time.Weekday{time.Saturday, time.Sunday}, time.UTC)
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// ParseWeekend parses a comma-separated weekday list such as "sat,sun". An empty string means no weekend.
// Duplicates are dropped and a list naming all seven days is rejected.
func ParseWeekend(s string) ([]time.Weekday, error) {
	var out []time.Weekday
	seen := make(map[time.Weekday]bool)
	for _, part := range strings.Split(s, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		d, ok := weekdayNames[name]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", part)
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	if len(out) == 7 {
		return nil, fmt.Errorf("invalid weekend %q: %w", s, ErrNoBusinessDays)
	}
	return out, nil
}

// Day truncates t to local midnight in the scheduler's location
func (s *Scheduler) Day(t time.Time) time.Time {
	t = t.In(s.Location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.Location)
}

// ParseDay parses a YYYY-MM-DD date as local midnight
func (s *Scheduler) ParseDay(v string) (time.Time, error) {
	t, err := time.ParseInLocation(models.DateLayout, v, s.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date %q: %w", v, err)
	}
	return t, nil
}

// IsBusinessDay reports whether the day's weekday is outside the weekend set
func (s *Scheduler) IsBusinessDay(t time.Time) bool {
	return !s.Weekend[t.In(s.Location).Weekday()]
}

// HasBusinessDays reports whether at least one weekday is outside the weekend set
func (s *Scheduler) HasBusinessDays() bool {
	return len(s.Weekend) < 7
}

func (s *Scheduler) next(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, s.Location)
}

// BusinessDays enumerates business days in [start, end) in ascending order. A day counts when its
// midnight falls before end, so an end during the day includes that day.
func (s *Scheduler) BusinessDays(start, end time.Time) []time.Time {
	var days []time.Time
	for d := s.Day(start); d.Before(end); d = s.next(d) {
		if s.IsBusinessDay(d) {
			days = append(days, d)
		}
	}
	return days
}

// FindAvailableStarts returns every business day in [start, end) from which requiredDays consecutive
// free business days fit before the window ends. A busy day breaks a run, it is never skipped.
// A day is busy when any interval overlaps [dayStart, dayEnd).
func (s *Scheduler) FindAvailableStarts(requiredDays int, busy []models.BusyInterval, start, end time.Time) Availability {
	if requiredDays < 1 {
		requiredDays = 1
	}

	days := s.BusinessDays(start, end)
	isBusy := make([]bool, len(days))
	for i, d := range days {
		isBusy[i] = overlaps(busy, d, s.next(d))
	}

	// run[i] counts free business days starting at days[i] until the first busy day or the window end
	run := make([]int, len(days)+1)
	for i := len(days) - 1; i >= 0; i-- {
		if !isBusy[i] {
			run[i] = run[i+1] + 1
		}
	}

	av := Availability{ValidStarts: []time.Time{}, BusyDays: []time.Time{}}
	for i, d := range days {
		if isBusy[i] {
			av.BusyDays = append(av.BusyDays, d)
			continue
		}
		if run[i] >= requiredDays {
			av.ValidStarts = append(av.ValidStarts, d)
		}
	}
	return av
}

func overlaps(busy []models.BusyInterval, dayStart, dayEnd time.Time) bool {
	for _, b := range busy {
		if b.End.Equal(b.Start) {
			if !b.Start.Before(dayStart) && b.Start.Before(dayEnd) {
				return true
			}
			continue
		}
		if b.Start.Before(dayEnd) && b.End.After(dayStart) {
			return true
		}
	}
	return false
}

// ComputeEndDate returns the last of requiredDays business days counted from start, start included
// when it is a business day. Busy intervals are not consulted. Without any business day in the week
// the start day is returned.
func (s *Scheduler) ComputeEndDate(start time.Time, requiredDays int) time.Time {
	if requiredDays < 1 {
		requiredDays = 1
	}
	d := s.Day(start)
	if !s.HasBusinessDays() {
		return d
	}
	for !s.IsBusinessDay(d) {
		d = s.next(d)
	}
	for counted := 1; counted < requiredDays; {
		d = s.next(d)
		if s.IsBusinessDay(d) {
			counted++
		}
	}
	return d
}

// Window derives the default search window: local midnight leadDays after now, spanning windowDays
func (s *Scheduler) Window(now time.Time, leadDays, windowDays int) (time.Time, time.Time) {
	today := s.Day(now)
	start := time.Date(today.Year(), today.Month(), today.Day()+leadDays, 0, 0, 0, 0, s.Location)
	end := time.Date(start.Year(), start.Month(), start.Day()+windowDays, 0, 0, 0, 0, s.Location)
	return start, end
}

// FormatDays renders days as sorted YYYY-MM-DD strings
func FormatDays(days []time.Time) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, d.Format(models.DateLayout))
	}
	sort.Strings(out)
	return out
}
