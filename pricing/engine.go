package pricing

import (
	"log"
	"math"

	"quote-configurator/catalog"
	"quote-configurator/models"
)

// ceilEpsilon absorbs float noise from the percentage markup before hours are turned into days
const ceilEpsilon = 1e-9

// Engine binds a catalog to the quote calculator
type Engine struct {
	catalog *catalog.Catalog
}

// NewEngine creates a new pricing engine for a catalog
func NewEngine(c *catalog.Catalog) *Engine {
	return &Engine{catalog: c}
}

// CalculateQuote prices a selection with the catalog's pricing and complexity configuration
func (e *Engine) CalculateQuote(sel models.Selection) models.Quote {
	quote := Calculate(e.catalog, sel, e.catalog.Pricing(), e.catalog.Complexity())
	log.Printf("💰 CalculateQuote: type=%s items=%d net=%d gross=%d days=%d tier=%s",
		quote.ProjectType, quote.TotalItemCount, quote.PriceNet, quote.PriceGross, quote.TotalDays, quote.Tier)
	return quote
}

// Calculate computes price, effort and complexity for a selection.
//
// Resolved items are the required items of the project type plus the selected optional ones.
// Flat-priced items add price×quantity to the subtotal (included-in-base items add only hours),
// percentage items add their percentage to a single markup applied to both subtotal and hours.
// Unknown or non-applicable ids in sel are ignored.
func Calculate(c *catalog.Catalog, sel models.Selection, pc models.PricingConfig, cc models.ComplexityTierConfig) models.Quote {
	selected := make(map[string]bool, len(sel.Selected))
	for _, id := range sel.Selected {
		selected[id] = true
	}

	quote := models.Quote{
		ProjectType: sel.ProjectType,
		Currency:    pc.Currency,
		VATRate:     pc.VATRate,
		Lines:       []models.QuoteLine{},
	}

	var subtotal, hours, weight, pct float64
	for _, item := range c.ItemsFor(sel.ProjectType) {
		if !item.Required && !selected[item.ID] {
			continue
		}

		qty := quantity(item, sel.Quantities)
		quote.TotalItemCount += qty
		weight += item.Weight() * float64(qty)

		line := models.QuoteLine{
			ItemID:         item.ID,
			Name:           item.Name,
			Category:       item.Category,
			Quantity:       qty,
			UnitPrice:      item.Price,
			Required:       item.Required,
			IncludedInBase: item.IncludedInBase,
			HidePrice:      item.HidePrice,
		}

		if item.IsPercentage() {
			pct += *item.PercentageAdd
			line.UnitPrice = 0
			line.PercentageAdd = item.PercentageAdd
			quote.Lines = append(quote.Lines, line)
			continue
		}

		line.Hours = item.Hours * float64(qty)
		hours += line.Hours
		if item.IncludedInBase {
			line.UnitPrice = 0
		} else {
			line.LineTotal = item.Price * int64(qty)
			subtotal += float64(line.LineTotal)
		}
		quote.Lines = append(quote.Lines, line)
	}

	markup := 1 + pct/100
	subtotal *= markup
	hours *= markup

	tier, extraDays := Tier(weight, cc)
	complexityPrice := int64(extraDays) * cc.DayPrice

	quote.Subtotal = round(subtotal)
	quote.PriceNet = quote.Subtotal + complexityPrice
	quote.PriceGross = round(float64(quote.PriceNet) * (1 + pc.VATRate/100))
	quote.Deposit = pc.DepositFixed
	if pctDeposit := round(float64(quote.PriceNet) * pc.DepositPercent / 100); pctDeposit > quote.Deposit {
		quote.Deposit = pctDeposit
	}

	quote.TotalHours = hours
	quote.BaseDays = Days(hours, pc.WorkHoursPerDay)
	quote.ComplexityExtraDays = extraDays
	quote.ComplexityPrice = complexityPrice
	quote.ComplexityWeight = weight
	quote.PercentagePct = pct
	quote.Tier = tier
	quote.TotalDays = quote.BaseDays + extraDays

	return quote
}

// Tier maps an aggregate complexity weight to the highest threshold it reaches
func Tier(weight float64, cc models.ComplexityTierConfig) (models.ComplexityTier, int) {
	switch {
	case weight >= cc.VeryHighThreshold:
		return models.TierVeryHigh, cc.VeryHighDays
	case weight >= cc.HighThreshold:
		return models.TierHigh, cc.HighDays
	case weight >= cc.MediumThreshold:
		return models.TierMedium, cc.MediumDays
	default:
		return models.TierLow, 0
	}
}

// Days converts effort hours into whole working days
func Days(hours, workHoursPerDay float64) int {
	if workHoursPerDay <= 0 || hours <= 0 {
		return 0
	}
	return int(math.Ceil(hours/workHoursPerDay - ceilEpsilon))
}

func quantity(item models.CatalogItem, quantities map[string]int) int {
	qty, ok := quantities[item.ID]
	if !ok || qty < 1 {
		return 1
	}
	if max := item.MaxQty(); qty > max {
		return max
	}
	return qty
}

func round(v float64) int64 {
	return int64(math.Round(v))
}
