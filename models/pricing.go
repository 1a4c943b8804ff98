package models

// ComplexityTier is the bucket the aggregate complexity weight falls into
type ComplexityTier string

const (
	TierLow      ComplexityTier = "low"
	TierMedium   ComplexityTier = "medium"
	TierHigh     ComplexityTier = "high"
	TierVeryHigh ComplexityTier = "very_high"
)

// Selection is the resolved state handed from the selection engine to the calculator
type Selection struct {
	ProjectType string         `json:"projectType"`
	Selected    []string       `json:"selected"`             // Optional item ids, required items are implicit
	Quantities  map[string]int `json:"quantities,omitempty"` // Missing entries mean 1
}

// QuoteLine is the audit record of one resolved item
type QuoteLine struct {
	ItemID         string   `json:"itemId"`
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	Quantity       int      `json:"quantity"`
	UnitPrice      int64    `json:"unitPrice"`
	LineTotal      int64    `json:"lineTotal"` // 0 for included-in-base and percentage items
	Hours          float64  `json:"hours"`     // Unit hours times quantity, before markup
	Required       bool     `json:"required,omitempty"`
	IncludedInBase bool     `json:"includedInBase,omitempty"`
	HidePrice      bool     `json:"hidePrice,omitempty"`
	PercentageAdd  *float64 `json:"percentageAdd,omitempty"`
}

// Quote is the complete pricing calculation result
// Example response:
// {
//   "projectType": "website",
//   "subtotal": 1600,
//   "priceNet": 1600,
//   "priceGross": 1968,
//   "deposit": 500,
//   "totalHours": 12,
//   "baseDays": 2,
//   "totalDays": 2,
//   "tier": "low",
//   ...
// }
type Quote struct {
	ProjectType         string         `json:"projectType"`
	Currency            string         `json:"currency"`
	Lines               []QuoteLine    `json:"lines"`
	Subtotal            int64          `json:"subtotal"` // Rounded subtotal after percentage markup
	PriceNet            int64          `json:"priceNet"`
	PriceGross          int64          `json:"priceGross"`
	VATRate             float64        `json:"vatRate"`
	Deposit             int64          `json:"deposit"`
	TotalHours          float64        `json:"totalHours"`
	BaseDays            int            `json:"baseDays"`
	TotalDays           int            `json:"totalDays"`
	ComplexityExtraDays int            `json:"complexityExtraDays"`
	ComplexityPrice     int64          `json:"complexityPrice"`
	ComplexityWeight    float64        `json:"complexityWeight"`
	PercentagePct       float64        `json:"percentagePct"`
	TotalItemCount      int            `json:"totalItemCount"`
	Tier                ComplexityTier `json:"tier"`
}

// QuoteRequest is the body of the stateless POST /api/quote
// Example: {"projectType": "website", "selected": ["blog"], "quantities": {"subpage": 3}}
// Selected, when present, lists every optional item wanted; omit it to keep the catalog defaults.
type QuoteRequest struct {
	ProjectType string         `json:"projectType"`
	Selected    []string       `json:"selected"`
	Quantities  map[string]int `json:"quantities,omitempty"`
}

// SkippedItem is a requested item the stateless quote could not apply
type SkippedItem struct {
	ItemID string `json:"itemId"`
	Reason string `json:"reason"`
}

// QuoteResponse is returned by POST /api/quote
type QuoteResponse struct {
	Quote   Quote         `json:"quote"`
	Skipped []SkippedItem `json:"skipped,omitempty"`
}
