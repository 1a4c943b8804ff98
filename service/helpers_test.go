package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"quote-configurator/catalog"
	"quote-configurator/models"
)

func weight(v float64) *float64 { return &v }

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(models.Catalog{
		Categories:   []models.Category{{ID: "base", Name: "Base"}, {ID: "features", Name: "Features"}},
		ProjectTypes: []models.ProjectType{{ID: "website", Name: "Website"}, {ID: "shop", Name: "Shop"}},
		Items: []models.CatalogItem{
			{ID: "setup", Name: "Setup", Category: "base", Price: 1600, Hours: 8, Required: true},
			{ID: "hosting", Name: "Hosting", Category: "base", Hours: 4, IncludedInBase: true, DefaultSelected: true},
			{ID: "cms", Name: "CMS", Category: "features", Price: 1000, Hours: 10, BundledWith: []string{"training"}},
			{ID: "training", Name: "Editor training", Category: "features", Price: 300, Hours: 2},
			{ID: "blog", Name: "Blog", Category: "features", Price: 800, Hours: 10, Dependencies: []string{"cms"}, ProjectTypes: []string{"website"}},
			{ID: "subpage", Name: "Subpage", Category: "features", Price: 200, Hours: 3, MaxQuantity: 10},
			{ID: "rush", Name: "Rush", Category: "features", PercentageAdd: weight(15), ComplexityWeight: weight(0)},
			{ID: "migration", Name: "Migration", Category: "features", Price: 500, Hours: 5, ConfirmRemove: "Your old content will not be moved."},
		},
		Pricing: models.PricingConfig{Currency: "PLN", VATRate: 23, DepositPercent: 20, DepositFixed: 500, WorkHoursPerDay: 6},
		Complexity: models.ComplexityTierConfig{
			MediumThreshold: 5, HighThreshold: 10, VeryHighThreshold: 15,
			MediumDays: 2, HighDays: 4, VeryHighDays: 7, DayPrice: 1200,
		},
	})
	require.NoError(t, err)
	return c
}

type recordingNotifier struct {
	mu       sync.Mutex
	err      error
	bookings []models.BookingRecord
	messages []models.ContactMessage
}

func (n *recordingNotifier) NotifyBooking(_ context.Context, b models.BookingRecord) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.bookings = append(n.bookings, b)
	return n.err
}

func (n *recordingNotifier) NotifyContact(_ context.Context, m models.ContactMessage) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, m)
	return n.err
}

type failingRepo struct{}

func (failingRepo) Create(context.Context, *models.BookingRecord) error {
	return errors.New("database is down")
}

func (failingRepo) GetByID(context.Context, string) (*models.BookingRecord, error) {
	return nil, errors.New("database is down")
}

func (failingRepo) List(context.Context, *string) ([]models.BookingRecord, error) {
	return nil, errors.New("database is down")
}

func (failingRepo) UpdateStatus(context.Context, string, models.BookingStatus, models.BookingStatus) (*models.BookingRecord, error) {
	return nil, errors.New("database is down")
}
