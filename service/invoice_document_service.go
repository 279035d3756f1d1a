package service

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"

	"embroidery-backoffice/models"
	"embroidery-backoffice/pricing"
	"embroidery-backoffice/utils"
)

//go:embed templates/invoice.html
var invoiceTemplateHTML string

var invoiceTemplate = template.Must(template.New("invoice").Parse(invoiceTemplateHTML))

var lineLabels = map[string]string{
	models.AddOnBackLogo:             "Back logo",
	models.AddOnNames:                "Names",
	models.AddOnPlusSize:             "Plus size",
	pricing.FeeLogoProgramming:       "Logo programming (one-time)",
	pricing.FeeBackTextProgramming:   "Back text programming (one-time)",
	pricing.FeeRush:                  "Rush fee",
	pricing.FeeShipping:              "Shipping fee",
	pricing.FeeLogoDesignProgramming: "Logo design programming",
	pricing.FeeBackDesignProgramming: "Back design programming",
	pricing.FeeHolding:               "Holding fee",
}

var paymentLabels = map[models.PaymentType]string{
	models.PaymentTypeDown:            "Down payment",
	models.PaymentTypeFull:            "Full payment",
	models.PaymentTypeBalance:         "Balance payment",
	models.PaymentTypeAdditional:      "Additional payment",
	models.PaymentTypeSecurityDeposit: "Security deposit",
}

// InvoiceReader loads a computed invoice for an order
type InvoiceReader interface {
	GetInvoice(ctx context.Context, orderID int64) (*InvoiceResult, error)
}

// InvoiceDocumentService renders invoices as HTML and prints them to PDF
type InvoiceDocumentService struct {
	invoices   InvoiceReader
	drive      DriveServiceInterface
	folderID   string
	baseURL    string // Base URL the headless browser loads the render endpoint from
	chromePath string
	now        func() time.Time
}

// NewInvoiceDocumentService creates a new InvoiceDocumentService. drive may be nil when archiving is disabled.
func NewInvoiceDocumentService(invoices InvoiceReader, drive DriveServiceInterface, folderID, baseURL, chromePath string) *InvoiceDocumentService {
	return &InvoiceDocumentService{
		invoices:   invoices,
		drive:      drive,
		folderID:   folderID,
		baseURL:    baseURL,
		chromePath: chromePath,
		now:        time.Now,
	}
}

type invoiceLineView struct {
	Description string
	Detail      string
	Note        string
	Quantity    int
	UnitPrice   string
	Amount      string
	Removed     bool
}

type invoiceGroupView struct {
	Label          string
	TierLabel      string
	Lines          []invoiceLineView
	Discount       string
	DiscountAmount string
	Subtotal       string
}

type invoicePaymentView struct {
	Label    string
	Mode     string
	Verified bool
	Amount   string
}

type invoiceView struct {
	OrderID     int64
	OrderType   models.OrderType
	GeneratedAt string
	Groups      []invoiceGroupView
	Payments    []invoicePaymentView
	GrandTotal  string
	Balance     string
}

// RenderHTML renders the invoice of an order as a printable HTML page
func (s *InvoiceDocumentService) RenderHTML(ctx context.Context, orderID int64) (string, error) {
	result, err := s.invoices.GetInvoice(ctx, orderID)
	if err != nil {
		return "", err
	}
	return renderInvoiceHTML(orderID, result.Invoice, s.now())
}

func renderInvoiceHTML(orderID int64, invoice *pricing.Invoice, generatedAt time.Time) (string, error) {
	view := invoiceView{
		OrderID:     orderID,
		OrderType:   invoice.OrderType,
		GeneratedAt: generatedAt.Format("Jan 2, 2006 3:04 PM"),
		GrandTotal:  utils.FormatPHP(invoice.GrandTotal),
		Balance:     utils.FormatPHP(invoice.Balance),
	}

	for _, g := range invoice.Groups {
		group := invoiceGroupView{
			Label:     g.Label,
			TierLabel: g.TierLabel,
			Subtotal:  utils.FormatPHP(g.Subtotal),
		}
		group.Lines = append(group.Lines, invoiceLineView{
			Description: g.ProductType,
			Detail:      utils.SizeBreakdown(g.Orders),
			Quantity:    g.Quantity,
			UnitPrice:   utils.FormatPHP(g.UnitPrice),
			Amount:      utils.FormatPHP(g.ItemsSubtotal),
		})
		for _, a := range g.AddOns {
			group.Lines = append(group.Lines, invoiceLineView{
				Description: lineLabel(a.Name),
				Quantity:    a.Count,
				UnitPrice:   utils.FormatPHP(a.UnitPrice),
				Amount:      utils.FormatPHP(a.Total),
			})
		}
		for _, f := range g.Fees {
			line := invoiceLineView{
				Description: lineLabel(f.Name),
				Amount:      utils.FormatPHP(f.Amount),
				Removed:     f.Removed,
			}
			if f.Removed {
				line.Note = "removed"
			}
			group.Lines = append(group.Lines, line)
		}
		if g.Discount != nil {
			group.Discount = discountLabel(g.Discount)
			group.DiscountAmount = utils.FormatPHP(g.Discount.Amount)
		}
		view.Groups = append(view.Groups, group)
	}

	for _, p := range invoice.Payments {
		label, ok := paymentLabels[p.Type]
		if !ok {
			label = string(p.Type)
		}
		view.Payments = append(view.Payments, invoicePaymentView{
			Label:    label,
			Mode:     p.Mode,
			Verified: p.Verified,
			Amount:   utils.FormatPHP(p.Amount),
		})
	}

	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

func lineLabel(name string) string {
	if label, ok := lineLabels[name]; ok {
		return label
	}
	return name
}

func discountLabel(d *pricing.DiscountLine) string {
	label := "Discount"
	if d.Type == models.DiscountTypePercentage {
		label = fmt.Sprintf("Discount (%s%%)", d.Value.String())
	}
	if d.Reason != "" {
		label += " - " + d.Reason
	}
	return label
}

// detectChromePath detects the path to Chrome/Chromium executable.
// Checks the configured path first, then common installation paths.
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

// GeneratePDF prints the rendered invoice page of an order to an A4 PDF using headless Chrome
func (s *InvoiceDocumentService) GeneratePDF(ctx context.Context, orderID int64) ([]byte, error) {
	// Fail fast on unknown orders before starting a browser
	if _, err := s.invoices.GetInvoice(ctx, orderID); err != nil {
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

	renderURL := fmt.Sprintf("%s/admin/orders/%d/invoice/render", s.baseURL, orderID)

	var pdfBuf []byte
	err := chromedp.Run(chromedpCtx,
		chromedp.EmulateViewport(794, 1123), // A4 at 96 DPI
		chromedp.Navigate(renderURL),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4 = 8.27" x 11.69"; margins come from the @page rule
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		log.Error().Err(err).Int64("orderId", orderID).Msg("❌ Invoice PDF: generation failed")
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	log.Info().Int64("orderId", orderID).Int("bytes", len(pdfBuf)).Msg("✅ Invoice PDF generated")
	return pdfBuf, nil
}

// ArchivePDF uploads an invoice PDF to the configured Drive folder.
// It returns an empty file ID when archiving is not configured.
func (s *InvoiceDocumentService) ArchivePDF(ctx context.Context, orderID int64, pdf []byte) (string, error) {
	if s.drive == nil || s.folderID == "" {
		return "", nil
	}
	name := fmt.Sprintf("invoice-%d-%s.pdf", orderID, s.now().UTC().Format("20060102-150405"))
	return s.drive.UploadFile(ctx, s.folderID, name, "application/pdf", pdf)
}
