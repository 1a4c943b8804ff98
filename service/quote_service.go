package service

import (
	"log"

	"quote-configurator/catalog"
	"quote-configurator/models"
	"quote-configurator/pricing"
	"quote-configurator/selection"
)

// QuoteService prices a selection sent in one request, without a session
type QuoteService struct {
	catalog *catalog.Catalog
	pricing *pricing.Engine
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(c *catalog.Catalog, engine *pricing.Engine) *QuoteService {
	return &QuoteService{catalog: c, pricing: engine}
}

// Quote replays the requested ids through the selection engine, in request order and with every
// confirmation accepted, so bundles and dependencies hold exactly as in an interactive session.
// Ids the engine refuses are reported as skipped. A present selection is the complete optional set:
// catalog defaults missing from it are removed. A nil selection keeps the defaults.
func (s *QuoteService) Quote(req models.QuoteRequest) (*models.QuoteResponse, error) {
	engine, err := selection.New(s.catalog, req.ProjectType)
	if err != nil {
		return nil, err
	}

	if req.Selected != nil {
		wanted := make(map[string]bool, len(req.Selected))
		for _, id := range req.Selected {
			wanted[id] = true
		}
		for _, id := range engine.Snapshot().Selected {
			if !wanted[id] && engine.IsSelected(id) {
				// Members bundled by a required item are rejected and stay.
				engine.Toggle(id, true)
			}
		}
	}

	resp := &models.QuoteResponse{}
	for _, id := range req.Selected {
		if engine.IsSelected(id) {
			continue
		}
		res := engine.Toggle(id, true)
		switch res.Outcome {
		case selection.Rejected:
			resp.Skipped = append(resp.Skipped, models.SkippedItem{ItemID: id, Reason: string(res.Reason)})
		case selection.Ignored:
			resp.Skipped = append(resp.Skipped, models.SkippedItem{ItemID: id, Reason: "not_applicable"})
		}
	}
	for id, n := range req.Quantities {
		engine.SetQuantity(id, n)
	}

	resp.Quote = s.pricing.CalculateQuote(engine.Snapshot())
	if len(resp.Skipped) > 0 {
		log.Printf("⚠️ Quote: skipped %d requested items for type=%s", len(resp.Skipped), req.ProjectType)
	}
	return resp, nil
}
