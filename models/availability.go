package models

import "time"

// DateLayout is the wire format of calendar days
const DateLayout = "2006-01-02"

// BusyInterval is an externally reported unavailable period, half-open [Start, End)
type BusyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// AvailabilityResponse is returned by GET /api/sessions/{id}/availability
type AvailabilityResponse struct {
	RequiredWorkDays int      `json:"requiredWorkDays"`
	SearchStart      string   `json:"searchStart"`
	SearchEnd        string   `json:"searchEnd"`
	ValidStarts      []string `json:"validStarts"`
	BusyDays         []string `json:"busyDays"`
	Degraded         bool     `json:"degraded,omitempty"` // Busy calendar was unreachable, everything looks free
}
