// Package catalog indexes and validates the configurator catalog aggregate.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"quote-configurator/models"
)

// Catalog is a read-only, validated view over models.Catalog with id lookups
type Catalog struct {
	data         models.Catalog
	items        map[string]*models.CatalogItem
	categories   map[string]*models.Category
	projectTypes map[string]*models.ProjectType
}

// ValidationError lists every problem found in a catalog
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid catalog: %s", strings.Join(e.Problems, "; "))
}

// New indexes and validates a catalog
func New(data models.Catalog) (*Catalog, error) {
	c := &Catalog{
		data:         data,
		items:        make(map[string]*models.CatalogItem, len(data.Items)),
		categories:   make(map[string]*models.Category, len(data.Categories)),
		projectTypes: make(map[string]*models.ProjectType, len(data.ProjectTypes)),
	}

	var problems []string
	for i := range c.data.Categories {
		cat := &c.data.Categories[i]
		if _, dup := c.categories[cat.ID]; dup {
			problems = append(problems, fmt.Sprintf("duplicate category id %q", cat.ID))
		}
		c.categories[cat.ID] = cat
	}
	for i := range c.data.ProjectTypes {
		pt := &c.data.ProjectTypes[i]
		if _, dup := c.projectTypes[pt.ID]; dup {
			problems = append(problems, fmt.Sprintf("duplicate project type id %q", pt.ID))
		}
		c.projectTypes[pt.ID] = pt
	}
	for i := range c.data.Items {
		item := &c.data.Items[i]
		if item.ID == "" {
			problems = append(problems, fmt.Sprintf("item #%d has no id", i))
			continue
		}
		if _, dup := c.items[item.ID]; dup {
			problems = append(problems, fmt.Sprintf("duplicate item id %q", item.ID))
		}
		c.items[item.ID] = item
	}

	problems = append(problems, c.validate()...)
	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}
	return c, nil
}

func (c *Catalog) validate() []string {
	var problems []string

	if len(c.data.ProjectTypes) == 0 {
		problems = append(problems, "at least one project type is required")
	}
	for _, item := range c.data.Items {
		if _, ok := c.categories[item.Category]; !ok {
			problems = append(problems, fmt.Sprintf("item %q references unknown category %q", item.ID, item.Category))
		}
		for _, pt := range item.ProjectTypes {
			if _, ok := c.projectTypes[pt]; !ok {
				problems = append(problems, fmt.Sprintf("item %q references unknown project type %q", item.ID, pt))
			}
		}
		for _, dep := range item.Dependencies {
			if _, ok := c.items[dep]; !ok {
				problems = append(problems, fmt.Sprintf("item %q depends on unknown item %q", item.ID, dep))
			}
		}
		for _, member := range item.BundledWith {
			if _, ok := c.items[member]; !ok {
				problems = append(problems, fmt.Sprintf("item %q bundles unknown item %q", item.ID, member))
			}
			if member == item.ID {
				problems = append(problems, fmt.Sprintf("item %q bundles itself", item.ID))
			}
		}
		if item.MaxQuantity < 0 {
			problems = append(problems, fmt.Sprintf("item %q has negative maxQuantity", item.ID))
		}
		if item.Price < 0 || item.Hours < 0 {
			problems = append(problems, fmt.Sprintf("item %q has a negative price or effort", item.ID))
		}
	}

	p := c.data.Pricing
	if p.WorkHoursPerDay <= 0 {
		problems = append(problems, "pricing.workHoursPerDay must be greater than 0")
	}
	if p.VATRate < 0 || p.DepositPercent < 0 || p.DepositFixed < 0 {
		problems = append(problems, "pricing rates must not be negative")
	}

	t := c.data.Complexity
	if !(t.MediumThreshold < t.HighThreshold && t.HighThreshold < t.VeryHighThreshold) {
		problems = append(problems, fmt.Sprintf("complexity thresholds must ascend (got %v, %v, %v)",
			t.MediumThreshold, t.HighThreshold, t.VeryHighThreshold))
	}
	if t.MediumDays < 0 || t.HighDays < 0 || t.VeryHighDays < 0 || t.DayPrice < 0 {
		problems = append(problems, "complexity extra days and day price must not be negative")
	}
	if t.MediumDays > t.HighDays || t.HighDays > t.VeryHighDays {
		problems = append(problems, "complexity extra days must not decrease with the tier")
	}

	return problems
}

// ErrUnknownProjectType is returned for project type ids missing from the catalog
var ErrUnknownProjectType = errors.New("unknown project type")

// ErrProjectTypeDisabled is returned when a disabled project type is chosen
var ErrProjectTypeDisabled = errors.New("project type is disabled")

// Data returns the underlying aggregate
func (c *Catalog) Data() models.Catalog { return c.data }

// Pricing returns the pricing configuration
func (c *Catalog) Pricing() models.PricingConfig { return c.data.Pricing }

// Complexity returns the complexity tier configuration
func (c *Catalog) Complexity() models.ComplexityTierConfig { return c.data.Complexity }

// Item returns the item with the given id
func (c *Catalog) Item(id string) (models.CatalogItem, bool) {
	item, ok := c.items[id]
	if !ok {
		return models.CatalogItem{}, false
	}
	return *item, true
}

// Category returns the category with the given id
func (c *Catalog) Category(id string) (models.Category, bool) {
	cat, ok := c.categories[id]
	if !ok {
		return models.Category{}, false
	}
	return *cat, true
}

// ProjectType returns the project type with the given id
func (c *Catalog) ProjectType(id string) (models.ProjectType, bool) {
	pt, ok := c.projectTypes[id]
	if !ok {
		return models.ProjectType{}, false
	}
	return *pt, true
}

// CheckProjectType returns an error unless the project type exists and is enabled
func (c *Catalog) CheckProjectType(id string) error {
	pt, ok := c.projectTypes[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownProjectType, id)
	}
	if pt.Disabled {
		return fmt.Errorf("%w: %q", ErrProjectTypeDisabled, id)
	}
	return nil
}

// ItemsFor returns the items offered for a project type, in catalog order
func (c *Catalog) ItemsFor(projectType string) []models.CatalogItem {
	var out []models.CatalogItem
	for _, item := range c.data.Items {
		if item.AppliesTo(projectType) {
			out = append(out, item)
		}
	}
	return out
}

// RequiredFor returns the ids of required items for a project type
func (c *Catalog) RequiredFor(projectType string) []string {
	var out []string
	for _, item := range c.data.Items {
		if item.Required && item.AppliesTo(projectType) {
			out = append(out, item.ID)
		}
	}
	return out
}

// Applicable reports whether the item exists and is offered for the project type
func (c *Catalog) Applicable(itemID, projectType string) bool {
	item, ok := c.items[itemID]
	return ok && item.AppliesTo(projectType)
}

// CategoryDisabled reports whether the item's category is disabled
func (c *Catalog) CategoryDisabled(item models.CatalogItem) bool {
	cat, ok := c.categories[item.Category]
	return ok && cat.Disabled
}
