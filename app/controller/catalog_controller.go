package controller

import (
	"log"
	"net/http"

	"quote-configurator/app/middleware"
	"quote-configurator/catalog"
	"quote-configurator/models"
	"quote-configurator/service"
)

// CatalogController serves the catalog aggregate and stateless quotes
type CatalogController struct {
	catalog *catalog.Catalog
	quotes  *service.QuoteService
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(c *catalog.Catalog, quotes *service.QuoteService) *CatalogController {
	return &CatalogController{catalog: c, quotes: quotes}
}

// GetCatalog handles GET /api/catalog
// Returns categories, project types, items, pricing and complexity configuration in one response.
func (c *CatalogController) GetCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, "GetCatalog")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, c.catalog.Data())
}

// Quote handles POST /api/quote
// Example request:
// POST /api/quote
// {
//   "projectType": "website",
//   "selected": ["cms", "blog"],
//   "quantities": {"subpage": 3}
// }
// Items are applied in request order, so a dependency must come before the item needing it.
func (c *CatalogController) Quote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, "Quote")
		return
	}

	var req models.QuoteRequest
	if err := middleware.ParseJSONRequest(w, r, &req); err != nil {
		badRequest(w, r, "Quote", err)
		return
	}
	if req.ProjectType == "" {
		middleware.WriteValidationError(w, r, map[string]string{"projectType": "is required"})
		return
	}

	resp, err := c.quotes.Quote(req)
	if err != nil {
		writeServiceError(w, r, "Quote", err)
		return
	}
	log.Printf("✅ Quote: type=%s gross=%d days=%d skipped=%d", req.ProjectType, resp.Quote.PriceGross, resp.Quote.TotalDays, len(resp.Skipped))
	middleware.WriteJSON(w, http.StatusOK, resp)
}
