package service

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"log"
	"os"
	"time"

	"quote-configurator/models"
	"quote-configurator/utils"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

//go:embed templates/quote.html
var quoteTemplateHTML string

var quoteTemplate = template.Must(template.New("quote").Parse(quoteTemplateHTML))

// QuoteDocument is everything printed on a quote
type QuoteDocument struct {
	Reference string
	Quote     models.Quote
	Contact   *models.ContactInfo
	StartDate string
	EndDate   string
	IssuedAt  time.Time
}

// QuoteDocumentService renders quotes to HTML and PDF
type QuoteDocumentService struct {
	money      *utils.MoneyFormatter
	logo       string // data URI, may be empty
	chromePath string
}

// NewQuoteDocumentService creates a new QuoteDocumentService
func NewQuoteDocumentService(money *utils.MoneyFormatter, logoDataURI, chromePath string) *QuoteDocumentService {
	return &QuoteDocumentService{money: money, logo: logoDataURI, chromePath: chromePath}
}

// detectChromePath detects the path to Chrome/Chromium executable
// Checks the configured path first, then common installation paths
func detectChromePath(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

type quoteLineView struct {
	Name     string
	Quantity int
	Unit     string
	Total    string
	Hours    string
	Required bool
}

// RenderHTML renders the quote template
func (s *QuoteDocumentService) RenderHTML(doc QuoteDocument) (string, error) {
	q := doc.Quote
	m := s.money

	lines := make([]quoteLineView, 0, len(q.Lines))
	for _, l := range q.Lines {
		v := quoteLineView{Name: l.Name, Quantity: l.Quantity, Required: l.Required, Hours: m.FormatNumber(l.Hours)}
		if v.Name == "" {
			v.Name = l.ItemID
		}
		switch {
		case l.PercentageAdd != nil:
			v.Unit = "+" + m.FormatPercent(*l.PercentageAdd)
			v.Total = "-"
		case l.IncludedInBase:
			v.Unit, v.Total = "included", "included"
		case l.HidePrice:
			v.Unit, v.Total = "-", "-"
		default:
			v.Unit = m.Format(l.UnitPrice)
			v.Total = m.Format(l.LineTotal)
		}
		lines = append(lines, v)
	}

	issued := doc.IssuedAt
	if issued.IsZero() {
		issued = time.Now()
	}

	data := struct {
		Lang, Reference, Issued, ProjectType, Currency string
		Logo                                           template.URL
		Contact                                        *models.ContactInfo
		Lines                                          []quoteLineView
		Subtotal, Net, VAT, Gross, Deposit             string
		VATRate, PercentagePct, ComplexityPrice        string
		Tier                                           models.ComplexityTier
		ComplexityDays, TotalDays                      int
		TotalHours, StartDate, EndDate                 string
	}{
		Lang:           m.Tag().String(),
		Reference:      doc.Reference,
		Issued:         issued.Format(models.DateLayout),
		ProjectType:    q.ProjectType,
		Currency:       q.Currency,
		Logo:           template.URL(s.logo),
		Contact:        doc.Contact,
		Lines:          lines,
		Subtotal:       m.Format(q.Subtotal),
		Net:            m.Format(q.PriceNet),
		VAT:            m.Format(q.PriceGross - q.PriceNet),
		Gross:          m.Format(q.PriceGross),
		Deposit:        m.Format(q.Deposit),
		VATRate:        m.FormatPercent(q.VATRate),
		Tier:           q.Tier,
		ComplexityDays: q.ComplexityExtraDays,
		TotalDays:      q.TotalDays,
		TotalHours:     m.FormatNumber(q.TotalHours),
		StartDate:      doc.StartDate,
		EndDate:        doc.EndDate,
	}
	if q.PercentagePct > 0 {
		data.PercentagePct = "+" + m.FormatPercent(q.PercentagePct)
	}
	if q.ComplexityPrice > 0 {
		data.ComplexityPrice = m.Format(q.ComplexityPrice)
	}

	var buf bytes.Buffer
	if err := quoteTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// GeneratePDF renders the quote and prints it to an A4 PDF with headless Chrome
func (s *QuoteDocumentService) GeneratePDF(ctx context.Context, doc QuoteDocument) ([]byte, error) {
	html, err := s.RenderHTML(doc)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
	)
	if chromePath := detectChromePath(s.chromePath); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	var pdfBuf []byte
	err = chromedp.Run(chromedpCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4 = 8.27" x 11.69", margins come from CSS
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	log.Printf("📄 GeneratePDF: reference=%s bytes=%d", doc.Reference, len(pdfBuf))
	return pdfBuf, nil
}
