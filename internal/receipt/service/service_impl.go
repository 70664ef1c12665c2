package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ahmedooo1/nfeat/internal/config"
	"github.com/ahmedooo1/nfeat/internal/observability/metrics"
	"github.com/ahmedooo1/nfeat/internal/receipt/domain"
	"github.com/ahmedooo1/nfeat/internal/receipt/render"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Issuer identity printed on every document.
const (
	issuerName    = "NF-EAT Restaurant"
	issuerStreet  = "123 Rue de la Gastronomie"
	issuerCity    = "76500 Elbeuf"
	issuerPhone   = "Tél: 07 XX XX XX XX"
	issuerEmail   = "contact@nfeat.fr"
	issuerFooter  = "NF-EAT Restaurant - contact@nfeat.fr"
	issuerLegal   = "NF-EAT Restaurant - SIRET 912 345 678 00019 - TVA FR12912345678"
	thankYouNote  = "Merci pour votre confiance et à bientôt chez NF-EAT!"
	clientDefault = "Client"
)

// Displayed tax rate. Label only: the tax amount printed always comes from
// the order's tax field and is never recomputed from this rate, so the two
// can drift if upstream disagrees with the nominal rate.
const taxRateLabel = "TVA (20%):"

const defaultFetchTimeout = 5 * time.Second

var (
	styleHeader       = render.Style{FontSize: 18, Bold: true, Color: "#eab308"}
	styleSubheader    = render.Style{FontSize: 10, Color: "#1f2937"}
	styleDocTitle     = render.Style{FontSize: 18, Bold: true, Color: "#1f2937", Alignment: render.AlignRight}
	styleDocInfo      = render.Style{FontSize: 10, Alignment: render.AlignRight}
	styleSection      = render.Style{FontSize: 14, Bold: true, Color: "#1f2937"}
	styleBody         = render.Style{FontSize: 10, Color: "#1f2937"}
	styleTableHeader  = render.Style{FontSize: 10, Bold: true, Color: "#1f2937", FillColor: "#f3f4f6"}
	styleTotalLabel   = render.Style{FontSize: 10, Color: "#1f2937"}
	styleTotalAmount  = render.Style{FontSize: 10, Color: "#1f2937", Alignment: render.AlignRight}
	styleCourtesyNote = render.Style{FontSize: 12, Italic: true, Color: "#6b7280", Alignment: render.AlignCenter}
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Cfg      config.Config
	Renderer render.Renderer         `optional:"true"`
	Fetcher  domain.ProfileFetcher   `optional:"true"`
	Metrics  *metrics.ReceiptMetrics `optional:"true"`
}

// Service implements domain.Service. The renderer and fetcher are injected
// capabilities; either may be absent, which degrades the corresponding
// operation but never panics.
type Service struct {
	log          *zap.Logger
	renderer     render.Renderer
	fetcher      domain.ProfileFetcher
	metrics      *metrics.ReceiptMetrics
	fetchTimeout time.Duration
}

func NewService(p Params) domain.Service {
	timeout := p.Cfg.ProfileFetchTimeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &Service{
		log:          p.Log.Named("receipt"),
		renderer:     p.Renderer,
		fetcher:      p.Fetcher,
		metrics:      p.Metrics,
		fetchTimeout: timeout,
	}
}

// BuildDocument assembles the renderable description. Pure: no clock reads,
// no I/O, deterministic for fixed inputs.
func (s *Service) BuildDocument(req domain.BuildRequest) (render.Document, error) {
	return BuildDocument(req)
}

// BuildDocument is the package-level pure builder backing the service.
func BuildDocument(req domain.BuildRequest) (render.Document, error) {
	totalExcl, err := parseAmount(req.Totals.TotalExclTax)
	if err != nil {
		return render.Document{}, fmt.Errorf("%w: total_price %q", domain.ErrMalformedOrderTotals, req.Totals.TotalExclTax)
	}
	taxAmount, err := parseAmount(req.Totals.TaxAmount)
	if err != nil {
		return render.Document{}, fmt.Errorf("%w: tva_amount %q", domain.ErrMalformedOrderTotals, req.Totals.TaxAmount)
	}
	totalIncl, err := parseAmount(req.Totals.TotalInclTax)
	if err != nil {
		return render.Document{}, fmt.Errorf("%w: total_price_with_tva %q", domain.ErrMalformedOrderTotals, req.Totals.TotalInclTax)
	}

	issuedDate := req.IssuedAt.Format("02/01/2006")
	issuedTime := req.IssuedAt.Format("15:04")
	title := "REÇU"
	if req.Variant == domain.VariantInvoice {
		title = "FACTURE"
	}

	customer := applyCustomerDefaults(req.Customer)

	infoLines := []render.Block{
		render.Text(title, styleDocTitle),
		render.Text("Date: "+issuedDate, styleDocInfo),
		render.Text("Heure: "+issuedTime, styleDocInfo),
		render.Text("N° Commande: "+orderNumber(req.PaymentRef), styleDocInfo),
	}
	if req.Variant == domain.VariantInvoice {
		infoLines = append(infoLines,
			render.Text("N° Facture: "+DocumentNumber(req.IssuedAt, req.PaymentRef), styleDocInfo))
	}

	content := []render.Block{
		{Columns: &render.ColumnsBlock{Columns: []render.Column{
			{Blocks: []render.Block{
				render.Text(issuerName, styleHeader),
				render.Text(issuerStreet, styleSubheader),
				render.Text(issuerCity, styleSubheader),
				render.Text(issuerPhone, styleSubheader),
				render.Text(issuerEmail, styleSubheader),
			}},
			{Width: 60, Blocks: infoLines},
		}}},
		sectionHeader("Informations client"),
		render.Stack(
			render.Text("Nom: "+customer.Name, styleBody),
			render.Text("Email: "+customer.Email, styleBody),
			render.Text("Téléphone: "+customer.Phone, styleBody),
			render.Text("Adresse: "+customer.Address, styleBody),
		),
		sectionHeader("Détails de la commande"),
		itemsTable(req.Items),
		sectionHeader("Récapitulatif"),
		totalsTable(totalExcl, taxAmount, totalIncl),
	}

	if req.Variant == domain.VariantInvoice {
		content = append(content,
			sectionHeader("Paiement"),
			render.Stack(
				// Card is the only payment path the ordering flow supports.
				render.Text("Mode de paiement: Carte bancaire", styleBody),
				render.Text("Statut: Payée", styleBody),
				render.Text("Référence: "+strings.ToUpper(trailing(req.PaymentRef, 8)), styleBody),
			),
			render.TextWithMargin(issuerLegal, render.Style{FontSize: 8, Color: "#6b7280", Alignment: render.AlignCenter}, render.Margin{Top: 10}),
		)
	}

	content = append(content,
		render.TextWithMargin(thankYouNote, styleCourtesyNote, render.Margin{Top: 12}),
	)

	return render.Document{
		Title:        title + " " + DocumentNumber(req.IssuedAt, req.PaymentRef),
		Page:         render.PageSetup{Size: "A4", MarginLeft: 15, MarginTop: 15, MarginRight: 15, MarginBottom: 20},
		DefaultStyle: render.Style{FontSize: 10, Color: "#1f2937"},
		Content:      content,
		Footer:       render.Footer{IssuerLine: issuerFooter, ShowPageNumber: true},
	}, nil
}

// GenerateReceipt builds the description and renders it.
func (s *Service) GenerateReceipt(ctx context.Context, req domain.BuildRequest) (render.Handle, error) {
	start := time.Now()
	doc, err := BuildDocument(req)
	if err != nil {
		s.metrics.IncGenerated(string(req.Variant), "malformed")
		return nil, err
	}
	if s.renderer == nil {
		s.metrics.IncGenerated(string(req.Variant), "renderer_unavailable")
		return nil, render.ErrRendererUnavailable
	}
	handle, err := s.renderer.Render(ctx, doc)
	if err != nil {
		s.metrics.IncGenerated(string(req.Variant), "failed")
		return nil, err
	}
	s.metrics.IncGenerated(string(req.Variant), "success")
	s.metrics.ObserveRenderDuration(time.Since(start))
	return handle, nil
}

// EnrichCustomer fetches the authenticated profile when the customer is
// missing identity fields. Fetch failures keep the caller's data.
func (s *Service) EnrichCustomer(ctx context.Context, customer domain.Customer) domain.Customer {
	if !needsEnrichment(customer) {
		return customer
	}
	if s.fetcher == nil {
		return ensureIdentity(customer)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	profile, err := s.fetcher.FetchCurrentUser(fetchCtx)
	if err != nil {
		s.log.Debug("customer enrichment fetch failed", zap.Error(err))
		return ensureIdentity(customer)
	}
	return ensureIdentity(MergeProfile(customer, profile))
}

// DownloadDocument persists the rendered document. Nil handles are ignored.
func (s *Service) DownloadDocument(handle render.Handle, filename string) {
	if handle == nil {
		return
	}
	if strings.TrimSpace(filename) == "" {
		filename = "receipt.pdf"
	}
	if err := handle.Persist(filename); err != nil {
		s.log.Warn("receipt download failed", zap.String("filename", filename), zap.Error(err))
	}
}

// OpenDocument hands the rendered document to the viewer. Nil handles are
// ignored.
func (s *Service) OpenDocument(handle render.Handle) {
	if handle == nil {
		return
	}
	if err := handle.Open(); err != nil {
		s.log.Warn("receipt open failed", zap.Error(err))
	}
}

// DocumentNumber derives the human-facing document number from the issue
// date and the trailing slice of the payment reference.
func DocumentNumber(issuedAt time.Time, paymentRef string) string {
	return "NF-" + issuedAt.Format("20060102") + "-" + strings.ToUpper(trailing(paymentRef, 4))
}

func orderNumber(paymentRef string) string {
	return strings.ToUpper(trailing(paymentRef, 8))
}

// trailing returns the last n characters, or the whole string when shorter.
func trailing(value string, n int) string {
	if len(value) <= n {
		return value
	}
	return value[len(value)-n:]
}

// MergeProfile overlays fetched profile fields on the customer. Fetched
// values win when present; the display name falls back to the concatenated
// first/last name.
func MergeProfile(customer domain.Customer, profile domain.Profile) domain.Customer {
	if name := displayName(profile); name != "" {
		customer.Name = name
	}
	if email := strings.TrimSpace(profile.Email); email != "" {
		customer.Email = email
	}
	if phone := strings.TrimSpace(profile.Phone); phone != "" && customer.Phone == "" {
		customer.Phone = phone
	}
	if address := strings.TrimSpace(profile.Address); address != "" && customer.Address == "" {
		customer.Address = address
	}
	return customer
}

func displayName(profile domain.Profile) string {
	if name := strings.TrimSpace(profile.Name); name != "" {
		return name
	}
	parts := make([]string, 0, 2)
	if first := strings.TrimSpace(profile.FirstName); first != "" {
		parts = append(parts, first)
	}
	if last := strings.TrimSpace(profile.LastName); last != "" {
		parts = append(parts, last)
	}
	return strings.Join(parts, " ")
}

func needsEnrichment(customer domain.Customer) bool {
	name := strings.TrimSpace(customer.Name)
	// "undefined undefined" is a known artifact of the legacy front-end
	// concatenating two absent name fields.
	if name == "" || name == "undefined undefined" {
		return true
	}
	return strings.TrimSpace(customer.Email) == ""
}

// ensureIdentity guarantees a usable name and email on the way out.
func ensureIdentity(customer domain.Customer) domain.Customer {
	customer.Name = strings.TrimSpace(customer.Name)
	if customer.Name == "" || customer.Name == "undefined undefined" {
		customer.Name = clientDefault
	}
	customer.Email = strings.TrimSpace(customer.Email)
	return customer
}

func applyCustomerDefaults(customer domain.Customer) domain.Customer {
	customer = ensureIdentity(customer)
	if strings.TrimSpace(customer.Phone) == "" {
		customer.Phone = "Non spécifié"
	}
	if strings.TrimSpace(customer.Address) == "" {
		customer.Address = "Non spécifiée"
	}
	return customer
}

func itemsTable(items []domain.LineItem) render.Block {
	rows := make([][]render.Cell, 0, len(items)+1)
	rows = append(rows, []render.Cell{
		{Content: "Article", Style: styleTableHeader},
		{Content: "Prix unitaire", Style: styleTableHeader},
		{Content: "Quantité", Style: styleTableHeader},
		{Content: "Total", Style: styleTableHeader},
	})
	for _, item := range items {
		price := lenientPrice(item.Price)
		quantity := lenientQuantity(item.Quantity)
		lineTotal := price.Mul(decimal.NewFromInt(int64(quantity)))
		rows = append(rows, []render.Cell{
			{Content: item.Name, Style: styleBody},
			{Content: formatEuro(price), Style: styleBody},
			{Content: fmt.Sprintf("%d", quantity), Style: styleBody},
			{Content: formatEuro(lineTotal), Style: styleBody},
		})
	}
	return render.Block{Table: &render.TableBlock{
		HeaderRows: 1,
		Widths:     []float64{0, 35, 25, 35},
		Rows:       rows,
	}}
}

func totalsTable(totalExcl, taxAmount, totalIncl decimal.Decimal) render.Block {
	return render.Block{Table: &render.TableBlock{
		Borderless: true,
		Widths:     []float64{0, 40},
		Rows: [][]render.Cell{
			{{Content: "Total HT:", Style: styleTotalLabel}, {Content: formatEuro(totalExcl), Style: styleTotalAmount}},
			{{Content: taxRateLabel, Style: styleTotalLabel}, {Content: formatEuro(taxAmount), Style: styleTotalAmount}},
			{{Content: "Total TTC:", Style: render.Style{FontSize: 10, Bold: true, Color: "#1f2937"}}, {Content: formatEuro(totalIncl), Style: render.Style{FontSize: 10, Bold: true, Color: "#1f2937", Alignment: render.AlignRight}}},
		},
	}}
}

func sectionHeader(title string) render.Block {
	return render.TextWithMargin(title, styleSection, render.Margin{Top: 8, Bottom: 4})
}

func parseAmount(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(raw))
}

// lenientPrice coerces a raw price to a non-negative decimal, defaulting to
// zero on parse failure.
func lenientPrice(raw string) decimal.Decimal {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || value.IsNegative() {
		return decimal.Zero
	}
	return value
}

// lenientQuantity coerces a raw quantity to a positive integer, defaulting
// to one on parse failure.
func lenientQuantity(raw string) int {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	quantity := int(value.IntPart())
	if quantity < 1 {
		return 1
	}
	return quantity
}

func formatEuro(value decimal.Decimal) string {
	return value.StringFixed(2) + " €"
}
