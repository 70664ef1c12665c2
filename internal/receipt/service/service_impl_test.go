package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/ahmedooo1/nfeat/internal/config"
	"github.com/ahmedooo1/nfeat/internal/receipt/domain"
	"github.com/ahmedooo1/nfeat/internal/receipt/render"
	"go.uber.org/zap"
)

var testIssuedAt = time.Date(2024, 3, 7, 14, 30, 0, 0, time.UTC)

func testRequest() domain.BuildRequest {
	return domain.BuildRequest{
		Totals: domain.OrderTotals{
			TotalExclTax: "100",
			TaxAmount:    "20",
			TotalInclTax: "120",
		},
		Items: []domain.LineItem{
			{Name: "Pizza", Price: "10", Quantity: "2"},
		},
		Customer: domain.Customer{
			Name:  "Jean Dupont",
			Email: "jean@example.com",
		},
		PaymentRef: "abcd1234EFGH",
		IssuedAt:   testIssuedAt,
		Variant:    domain.VariantReceipt,
	}
}

func collectTables(doc render.Document) []*render.TableBlock {
	var tables []*render.TableBlock
	var walk func(blocks []render.Block)
	walk = func(blocks []render.Block) {
		for _, block := range blocks {
			switch {
			case block.Table != nil:
				tables = append(tables, block.Table)
			case block.Stack != nil:
				walk(block.Stack.Blocks)
			case block.Columns != nil:
				for _, column := range block.Columns.Columns {
					walk(column.Blocks)
				}
			}
		}
	}
	walk(doc.Content)
	return tables
}

func collectTexts(doc render.Document) []string {
	var texts []string
	var walk func(blocks []render.Block)
	walk = func(blocks []render.Block) {
		for _, block := range blocks {
			switch {
			case block.Text != nil:
				texts = append(texts, block.Text.Content)
			case block.Stack != nil:
				walk(block.Stack.Blocks)
			case block.Columns != nil:
				for _, column := range block.Columns.Columns {
					walk(column.Blocks)
				}
			}
		}
	}
	walk(doc.Content)
	return texts
}

func containsText(doc render.Document, want string) bool {
	for _, text := range collectTexts(doc) {
		if text == want {
			return true
		}
	}
	return false
}

func TestBuildDocumentTotalsAndItemRow(t *testing.T) {
	doc, err := BuildDocument(testRequest())
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	tables := collectTables(doc)
	if len(tables) != 2 {
		t.Fatalf("expected items and totals tables, got %d", len(tables))
	}

	items := tables[0]
	if len(items.Rows) != 2 {
		t.Fatalf("expected header plus one item row, got %d rows", len(items.Rows))
	}
	row := items.Rows[1]
	if row[0].Content != "Pizza" || row[1].Content != "10.00 €" || row[2].Content != "2" || row[3].Content != "20.00 €" {
		t.Fatalf("unexpected item row: %+v", row)
	}

	totals := tables[1]
	wantTotals := [][2]string{
		{"Total HT:", "100.00 €"},
		{"TVA (20%):", "20.00 €"},
		{"Total TTC:", "120.00 €"},
	}
	for i, want := range wantTotals {
		got := totals.Rows[i]
		if got[0].Content != want[0] || got[1].Content != want[1] {
			t.Fatalf("totals row %d: want %v, got %q/%q", i, want, got[0].Content, got[1].Content)
		}
	}
}

func TestBuildDocumentTaxLineNotRecomputed(t *testing.T) {
	// The 20% label is display only; the amount comes straight from the
	// order even when the two disagree.
	req := testRequest()
	req.Totals.TaxAmount = "19.99"

	doc, err := BuildDocument(req)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	totals := collectTables(doc)[1]
	if totals.Rows[1][0].Content != "TVA (20%):" {
		t.Fatalf("expected fixed tax label, got %q", totals.Rows[1][0].Content)
	}
	if totals.Rows[1][1].Content != "19.99 €" {
		t.Fatalf("expected order tax amount, got %q", totals.Rows[1][1].Content)
	}
}

func TestBuildDocumentLenientLineItems(t *testing.T) {
	req := testRequest()
	req.Items = []domain.LineItem{
		{Name: "Tiramisu", Price: "abc", Quantity: "3"},
		{Name: "Salade", Price: "8.50", Quantity: "beaucoup"},
		{Name: "Café", Price: "-2", Quantity: "0"},
	}

	doc, err := BuildDocument(req)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	rows := collectTables(doc)[0].Rows[1:]

	if rows[0][1].Content != "0.00 €" || rows[0][3].Content != "0.00 €" {
		t.Fatalf("malformed price should default to zero: %+v", rows[0])
	}
	if rows[1][2].Content != "1" || rows[1][3].Content != "8.50 €" {
		t.Fatalf("malformed quantity should default to one: %+v", rows[1])
	}
	if rows[2][1].Content != "0.00 €" || rows[2][2].Content != "1" {
		t.Fatalf("negative price and zero quantity should be coerced: %+v", rows[2])
	}
}

func TestBuildDocumentMalformedTotals(t *testing.T) {
	for _, field := range []string{"ht", "tva", "ttc"} {
		req := testRequest()
		switch field {
		case "ht":
			req.Totals.TotalExclTax = "abc"
		case "tva":
			req.Totals.TaxAmount = ""
		case "ttc":
			req.Totals.TotalInclTax = "12,0"
		}
		_, err := BuildDocument(req)
		if !errors.Is(err, domain.ErrMalformedOrderTotals) {
			t.Fatalf("field %s: expected malformed totals error, got %v", field, err)
		}
	}
}

func TestDocumentNumber(t *testing.T) {
	got := DocumentNumber(time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC), "abcd1234EFGH")
	if got != "NF-20240307-EFGH" {
		t.Fatalf("expected NF-20240307-EFGH, got %q", got)
	}
}

func TestDocumentNumberShortReference(t *testing.T) {
	got := DocumentNumber(time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC), "ab")
	if got != "NF-20240307-AB" {
		t.Fatalf("expected whole short reference, got %q", got)
	}
}

func TestBuildDocumentDateTimeFormat(t *testing.T) {
	doc, err := BuildDocument(testRequest())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !containsText(doc, "Date: 07/03/2024") {
		t.Fatalf("expected two-digit date, texts: %v", collectTexts(doc))
	}
	if !containsText(doc, "Heure: 14:30") {
		t.Fatalf("expected 24h time, texts: %v", collectTexts(doc))
	}
	if !containsText(doc, "N° Commande: 1234EFGH") {
		t.Fatalf("expected trailing order number, texts: %v", collectTexts(doc))
	}
}

func TestBuildDocumentCustomerPlaceholders(t *testing.T) {
	req := testRequest()
	req.Customer = domain.Customer{Email: "a@b.com"}

	doc, err := BuildDocument(req)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !containsText(doc, "Nom: Client") {
		t.Fatalf("expected default client name")
	}
	if !containsText(doc, "Téléphone: Non spécifié") || !containsText(doc, "Adresse: Non spécifiée") {
		t.Fatalf("expected placeholders, texts: %v", collectTexts(doc))
	}
}

func TestBuildDocumentDeterministic(t *testing.T) {
	first, err := BuildDocument(testRequest())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	second, err := BuildDocument(testRequest())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical documents for identical inputs")
	}
}

func TestBuildDocumentInvoiceVariant(t *testing.T) {
	req := testRequest()
	req.Variant = domain.VariantInvoice

	doc, err := BuildDocument(req)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !containsText(doc, "Mode de paiement: Carte bancaire") || !containsText(doc, "Statut: Payée") {
		t.Fatalf("invoice variant must carry the payment block")
	}

	receipt, err := BuildDocument(testRequest())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if containsText(receipt, "Mode de paiement: Carte bancaire") {
		t.Fatalf("receipt variant must not carry the payment block")
	}
}

func TestBuildDocumentFooter(t *testing.T) {
	doc, err := BuildDocument(testRequest())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if doc.Footer.IssuerLine == "" || !doc.Footer.ShowPageNumber {
		t.Fatalf("expected issuer footer with page numbers, got %+v", doc.Footer)
	}
	if doc.Page.Size != "A4" {
		t.Fatalf("expected A4 page, got %q", doc.Page.Size)
	}
}

type fetcherFunc func(ctx context.Context) (domain.Profile, error)

func (f fetcherFunc) FetchCurrentUser(ctx context.Context) (domain.Profile, error) {
	return f(ctx)
}

func newTestService(fetcher domain.ProfileFetcher, renderer render.Renderer) *Service {
	svc := NewService(Params{
		Log:      zap.NewNop(),
		Cfg:      config.Config{ProfileFetchTimeout: time.Second},
		Renderer: renderer,
		Fetcher:  fetcher,
	})
	return svc.(*Service)
}

func TestEnrichCustomerMergesFetchedName(t *testing.T) {
	svc := newTestService(fetcherFunc(func(context.Context) (domain.Profile, error) {
		return domain.Profile{FirstName: "Jean", LastName: "Dupont"}, nil
	}), nil)

	got := svc.EnrichCustomer(context.Background(), domain.Customer{Email: "a@b.com"})
	if got.Name != "Jean Dupont" {
		t.Fatalf("expected concatenated name, got %q", got.Name)
	}
	if got.Email != "a@b.com" {
		t.Fatalf("expected kept email, got %q", got.Email)
	}
}

func TestEnrichCustomerFetchFailureKeepsInput(t *testing.T) {
	svc := newTestService(fetcherFunc(func(context.Context) (domain.Profile, error) {
		return domain.Profile{}, errors.New("network down")
	}), nil)

	got := svc.EnrichCustomer(context.Background(), domain.Customer{})
	if got.Name != "Client" {
		t.Fatalf("expected defaulted name, got %q", got.Name)
	}
	if got.Email != "" {
		t.Fatalf("expected empty email, got %q", got.Email)
	}
}

func TestEnrichCustomerUndefinedArtifact(t *testing.T) {
	svc := newTestService(fetcherFunc(func(context.Context) (domain.Profile, error) {
		return domain.Profile{Name: "Marie Curie", Email: "marie@example.com"}, nil
	}), nil)

	got := svc.EnrichCustomer(context.Background(), domain.Customer{Name: "undefined undefined", Email: "old@example.com"})
	if got.Name != "Marie Curie" {
		t.Fatalf("expected fetched name to replace artifact, got %q", got.Name)
	}
	if got.Email != "marie@example.com" {
		t.Fatalf("expected fetched email to win, got %q", got.Email)
	}
}

func TestEnrichCustomerCompleteInputSkipsFetch(t *testing.T) {
	fetched := false
	svc := newTestService(fetcherFunc(func(context.Context) (domain.Profile, error) {
		fetched = true
		return domain.Profile{}, nil
	}), nil)

	in := domain.Customer{Name: "Jean", Email: "jean@example.com"}
	got := svc.EnrichCustomer(context.Background(), in)
	if fetched {
		t.Fatalf("expected no fetch for a complete customer")
	}
	if got != in {
		t.Fatalf("expected unchanged customer, got %+v", got)
	}
}

func TestEnrichCustomerNoFetcher(t *testing.T) {
	svc := newTestService(nil, nil)
	got := svc.EnrichCustomer(context.Background(), domain.Customer{})
	if got.Name != "Client" || got.Email != "" {
		t.Fatalf("expected defaults without fetcher, got %+v", got)
	}
}

func TestGenerateReceiptRendererUnavailable(t *testing.T) {
	svc := newTestService(nil, nil)
	_, err := svc.GenerateReceipt(context.Background(), testRequest())
	if !errors.Is(err, render.ErrRendererUnavailable) {
		t.Fatalf("expected renderer unavailable, got %v", err)
	}
}

func TestGenerateReceiptRenders(t *testing.T) {
	svc := newTestService(nil, render.NewHTMLRenderer())
	handle, err := svc.GenerateReceipt(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	data, err := handle.Bytes()
	if err != nil {
		t.Fatalf("bytes: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("expected rendered output")
	}
}

func TestDownloadAndOpenNilHandleAreNoOps(t *testing.T) {
	svc := newTestService(nil, nil)
	svc.DownloadDocument(nil, "x.pdf")
	svc.OpenDocument(nil)
}
