package models

// Category groups catalog items; a disabled category disables every item in it
type Category struct {
	ID       string `json:"id" mapstructure:"id"`
	Name     string `json:"name" mapstructure:"name"`
	Disabled bool   `json:"disabled,omitempty" mapstructure:"disabled"`
}

// ProjectType is the top-level choice of the configurator (landing page, shop, web app...)
type ProjectType struct {
	ID        string `json:"id" mapstructure:"id"`
	Name      string `json:"name" mapstructure:"name"`
	BasePrice int64  `json:"basePrice" mapstructure:"basePrice"` // Suggested "from" price shown on the site
	Disabled  bool   `json:"disabled,omitempty" mapstructure:"disabled"`
}

// CatalogItem represents a single purchasable element of a project
type CatalogItem struct {
	ID               string   `json:"id" mapstructure:"id"`
	Name             string   `json:"name" mapstructure:"name"`
	Description      string   `json:"description,omitempty" mapstructure:"description"`
	Price            int64    `json:"price" mapstructure:"price"`
	Hours            float64  `json:"hours" mapstructure:"hours"`
	Category         string   `json:"category" mapstructure:"category"`
	ProjectTypes     []string `json:"projectTypes,omitempty" mapstructure:"projectTypes"` // Empty means every project type
	Required         bool     `json:"required,omitempty" mapstructure:"required"`
	DefaultSelected  bool     `json:"defaultSelected,omitempty" mapstructure:"defaultSelected"`
	IncludedInBase   bool     `json:"includedInBase,omitempty" mapstructure:"includedInBase"`
	HidePrice        bool     `json:"hidePrice,omitempty" mapstructure:"hidePrice"`
	Disabled         bool     `json:"disabled,omitempty" mapstructure:"disabled"`
	MaxQuantity      int      `json:"maxQuantity,omitempty" mapstructure:"maxQuantity"`
	PercentageAdd    *float64 `json:"percentageAdd,omitempty" mapstructure:"percentageAdd"`
	Dependencies     []string `json:"dependencies,omitempty" mapstructure:"dependencies"`
	BundledWith      []string `json:"bundledWith,omitempty" mapstructure:"bundledWith"`
	ComplexityWeight *float64 `json:"complexityWeight,omitempty" mapstructure:"complexityWeight"`
	ConfirmAdd       string   `json:"confirmAdd,omitempty" mapstructure:"confirmAdd"`       // Notice shown before adding
	ConfirmRemove    string   `json:"confirmRemove,omitempty" mapstructure:"confirmRemove"` // Notice shown before removing
}

// MaxQty returns the quantity upper bound (1 when unset)
func (i CatalogItem) MaxQty() int {
	if i.MaxQuantity < 1 {
		return 1
	}
	return i.MaxQuantity
}

// Weight returns the complexity weight (1 when unset)
func (i CatalogItem) Weight() float64 {
	if i.ComplexityWeight == nil {
		return 1
	}
	return *i.ComplexityWeight
}

// IsPercentage reports whether the item is priced as a markup on the subtotal
func (i CatalogItem) IsPercentage() bool {
	return i.PercentageAdd != nil
}

// AppliesTo reports whether the item is offered for the given project type
func (i CatalogItem) AppliesTo(projectType string) bool {
	if len(i.ProjectTypes) == 0 {
		return true
	}
	for _, pt := range i.ProjectTypes {
		if pt == projectType {
			return true
		}
	}
	return false
}

// PricingConfig holds VAT, deposit and effort conversion settings
type PricingConfig struct {
	Currency        string  `json:"currency" mapstructure:"currency"`
	VATRate         float64 `json:"vatRate" mapstructure:"vatRate"`               // Percent, e.g. 23
	DepositPercent  float64 `json:"depositPercent" mapstructure:"depositPercent"` // Percent of the net price
	DepositFixed    int64   `json:"depositFixed" mapstructure:"depositFixed"`     // Minimum deposit
	WorkHoursPerDay float64 `json:"workHoursPerDay" mapstructure:"workHoursPerDay"`
}

// ComplexityTierConfig maps aggregate complexity weight to extra schedule days
type ComplexityTierConfig struct {
	MediumThreshold   float64 `json:"mediumThreshold" mapstructure:"mediumThreshold"`
	HighThreshold     float64 `json:"highThreshold" mapstructure:"highThreshold"`
	VeryHighThreshold float64 `json:"veryHighThreshold" mapstructure:"veryHighThreshold"`
	MediumDays        int     `json:"mediumDays" mapstructure:"mediumDays"`
	HighDays          int     `json:"highDays" mapstructure:"highDays"`
	VeryHighDays      int     `json:"veryHighDays" mapstructure:"veryHighDays"`
	DayPrice          int64   `json:"dayPrice" mapstructure:"dayPrice"`
}

// Catalog is the aggregate fetched once per session: everything the configurator needs
type Catalog struct {
	Categories   []Category           `json:"categories" mapstructure:"categories"`
	ProjectTypes []ProjectType        `json:"projectTypes" mapstructure:"projectTypes"`
	Items        []CatalogItem        `json:"items" mapstructure:"items"`
	Pricing      PricingConfig        `json:"pricing" mapstructure:"pricing"`
	Complexity   ComplexityTierConfig `json:"complexity" mapstructure:"complexity"`
}
