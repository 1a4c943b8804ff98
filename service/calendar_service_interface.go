package service

import (
	"context"
	"time"

	"quote-configurator/models"
)

// CalendarServiceInterface defines the contract for the busy calendar integration
type CalendarServiceInterface interface {
	BusyIntervals(ctx context.Context, start, end time.Time) ([]models.BusyInterval, error)
	BlockDates(ctx context.Context, start, end time.Time, label string) error
}
