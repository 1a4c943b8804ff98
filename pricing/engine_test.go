package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quote-configurator/catalog"
	"quote-configurator/models"
)

func ptr(v float64) *float64 { return &v }

var (
	testPricing = models.PricingConfig{
		Currency:        "PLN",
		VATRate:         23,
		DepositPercent:  20,
		DepositFixed:    500,
		WorkHoursPerDay: 6,
	}
	testComplexity = models.ComplexityTierConfig{
		MediumThreshold:   5,
		HighThreshold:     10,
		VeryHighThreshold: 15,
		MediumDays:        2,
		HighDays:          4,
		VeryHighDays:      7,
		DayPrice:          1200,
	}
)

func newCatalog(t *testing.T, items ...models.CatalogItem) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(models.Catalog{
		Categories:   []models.Category{{ID: "base"}},
		ProjectTypes: []models.ProjectType{{ID: "website"}, {ID: "shop"}},
		Items:        items,
		Pricing:      testPricing,
		Complexity:   testComplexity,
	})
	require.NoError(t, err)
	return c
}

func TestCalculateRoundTripExample(t *testing.T) {
	c := newCatalog(t,
		models.CatalogItem{ID: "setup", Name: "Setup", Category: "base", Price: 1600, Hours: 8, Required: true},
		models.CatalogItem{ID: "hosting", Name: "Hosting", Category: "base", Hours: 4, IncludedInBase: true},
	)

	q := Calculate(c, models.Selection{ProjectType: "website", Selected: []string{"hosting"}}, testPricing, testComplexity)

	assert.Equal(t, int64(1600), q.Subtotal)
	assert.Equal(t, 12.0, q.TotalHours)
	assert.Equal(t, int64(1600), q.PriceNet)
	assert.Equal(t, int64(1968), q.PriceGross)
	assert.Equal(t, int64(500), q.Deposit)
	assert.Equal(t, 2, q.BaseDays)
	assert.Equal(t, 2, q.TotalDays)
	assert.Equal(t, 0, q.ComplexityExtraDays)
	assert.Equal(t, models.TierLow, q.Tier)
	assert.Equal(t, 2, q.TotalItemCount)

	require.Len(t, q.Lines, 2)
	assert.Equal(t, int64(1600), q.Lines[0].LineTotal)
	assert.True(t, q.Lines[1].IncludedInBase)
	assert.Equal(t, int64(0), q.Lines[1].LineTotal)
	assert.Equal(t, 4.0, q.Lines[1].Hours)
}

func TestCalculateComplexityExample(t *testing.T) {
	c := newCatalog(t,
		models.CatalogItem{ID: "setup", Category: "base", Price: 1000, Hours: 6, Required: true, ComplexityWeight: ptr(0)},
		models.CatalogItem{ID: "integration", Category: "base", ComplexityWeight: ptr(3)},
		models.CatalogItem{ID: "animations", Category: "base", ComplexityWeight: ptr(3)},
	)

	q := Calculate(c, models.Selection{ProjectType: "website", Selected: []string{"integration", "animations"}}, testPricing, testComplexity)

	assert.Equal(t, 6.0, q.ComplexityWeight)
	assert.Equal(t, models.TierMedium, q.Tier)
	assert.Equal(t, 2, q.ComplexityExtraDays)
	assert.Equal(t, int64(2400), q.ComplexityPrice)
	assert.Equal(t, int64(1000), q.Subtotal)
	assert.Equal(t, int64(3400), q.PriceNet)
	assert.Equal(t, int64(4182), q.PriceGross)
	assert.Equal(t, int64(680), q.Deposit)
	assert.Equal(t, 1, q.BaseDays)
	assert.Equal(t, 3, q.TotalDays)
}

func TestCalculatePercentageMarkup(t *testing.T) {
	c := newCatalog(t,
		models.CatalogItem{ID: "setup", Category: "base", Price: 1000, Hours: 10, Required: true},
		models.CatalogItem{ID: "rush", Category: "base", Price: 9999, Hours: 99, PercentageAdd: ptr(10)},
		models.CatalogItem{ID: "rush-more", Category: "base", PercentageAdd: ptr(5)},
	)

	q := Calculate(c, models.Selection{ProjectType: "website", Selected: []string{"rush", "rush-more"}}, testPricing, testComplexity)

	assert.Equal(t, 15.0, q.PercentagePct)
	assert.Equal(t, int64(1150), q.Subtotal, "flat price of a percentage item is ignored")
	assert.InDelta(t, 11.5, q.TotalHours, 1e-9)
	assert.Equal(t, 2, q.BaseDays)
	assert.Equal(t, 3, q.TotalItemCount)
	assert.Equal(t, int64(0), q.Lines[1].UnitPrice)
}

func TestCalculateQuantities(t *testing.T) {
	c := newCatalog(t,
		models.CatalogItem{ID: "setup", Category: "base", Price: 1000, Hours: 6, Required: true},
		models.CatalogItem{ID: "subpage", Category: "base", Price: 200, Hours: 3, MaxQuantity: 5},
	)

	q := Calculate(c, models.Selection{
		ProjectType: "website",
		Selected:    []string{"subpage"},
		Quantities:  map[string]int{"subpage": 3},
	}, testPricing, testComplexity)

	assert.Equal(t, int64(1600), q.Subtotal)
	assert.Equal(t, 15.0, q.TotalHours)
	assert.Equal(t, 4, q.TotalItemCount)
	assert.Equal(t, 4.0, q.ComplexityWeight)

	q = Calculate(c, models.Selection{
		ProjectType: "website",
		Selected:    []string{"subpage"},
		Quantities:  map[string]int{"subpage": 50},
	}, testPricing, testComplexity)
	assert.Equal(t, int64(2000), q.Subtotal, "quantity is clamped to maxQuantity")
}

func TestCalculateQuantityMonotonic(t *testing.T) {
	c := newCatalog(t,
		models.CatalogItem{ID: "setup", Category: "base", Price: 1000, Hours: 6, Required: true},
		models.CatalogItem{ID: "gallery", Category: "base", Price: 350, Hours: 2, MaxQuantity: 20, ComplexityWeight: ptr(1.5)},
	)

	var prev models.Quote
	for n := 1; n <= 20; n++ {
		q := Calculate(c, models.Selection{
			ProjectType: "website",
			Selected:    []string{"gallery"},
			Quantities:  map[string]int{"gallery": n},
		}, testPricing, testComplexity)
		if n > 1 {
			assert.GreaterOrEqual(t, q.PriceNet, prev.PriceNet, "quantity %d", n)
			assert.GreaterOrEqual(t, q.PriceGross, prev.PriceGross, "quantity %d", n)
			assert.GreaterOrEqual(t, q.TotalDays, prev.TotalDays, "quantity %d", n)
		}
		prev = q
	}
}

func TestTierMonotonic(t *testing.T) {
	prevDays := -1
	var prevPrice int64 = -1
	for w := 0.0; w <= 25; w += 0.5 {
		tier, days := Tier(w, testComplexity)
		assert.GreaterOrEqual(t, days, prevDays, "weight %v (%s)", w, tier)
		price := int64(days) * testComplexity.DayPrice
		assert.GreaterOrEqual(t, price, prevPrice)
		prevDays, prevPrice = days, price
	}
}

func TestTierBoundaries(t *testing.T) {
	cases := []struct {
		weight float64
		tier   models.ComplexityTier
		days   int
	}{
		{0, models.TierLow, 0},
		{4.99, models.TierLow, 0},
		{5, models.TierMedium, 2},
		{10, models.TierHigh, 4},
		{14, models.TierHigh, 4},
		{15, models.TierVeryHigh, 7},
		{100, models.TierVeryHigh, 7},
	}
	for _, tc := range cases {
		tier, days := Tier(tc.weight, testComplexity)
		assert.Equal(t, tc.tier, tier, "weight %v", tc.weight)
		assert.Equal(t, tc.days, days, "weight %v", tc.weight)
	}
}

func TestCalculateIgnoresForeignItems(t *testing.T) {
	c := newCatalog(t,
		models.CatalogItem{ID: "setup", Category: "base", Price: 1000, Hours: 6, Required: true},
		models.CatalogItem{ID: "payments", Category: "base", Price: 500, Hours: 5, ProjectTypes: []string{"shop"}},
	)

	q := Calculate(c, models.Selection{ProjectType: "website", Selected: []string{"payments", "ghost"}}, testPricing, testComplexity)
	assert.Equal(t, int64(1000), q.Subtotal)
	assert.Len(t, q.Lines, 1)
}

func TestDays(t *testing.T) {
	assert.Equal(t, 0, Days(0, 6))
	assert.Equal(t, 1, Days(6, 6))
	assert.Equal(t, 2, Days(6.01, 6))
	assert.Equal(t, 2, Days(12.000000000000002, 6), "float noise does not add a day")
	assert.Equal(t, 0, Days(10, 0))
}

func TestEngineUsesCatalogConfig(t *testing.T) {
	c := newCatalog(t,
		models.CatalogItem{ID: "setup", Category: "base", Price: 1600, Hours: 8, Required: true},
	)
	q := NewEngine(c).CalculateQuote(models.Selection{ProjectType: "website"})
	assert.Equal(t, "PLN", q.Currency)
	assert.Equal(t, int64(1968), q.PriceGross)
}
