package domain

import (
	"context"
	"errors"
	"time"

	"github.com/ahmedooo1/nfeat/internal/receipt/render"
)

// BuildRequest groups the inputs of a document build.
type BuildRequest struct {
	Totals     OrderTotals
	Items      []LineItem
	Customer   Customer
	PaymentRef string
	IssuedAt   time.Time
	Variant    Variant
}

// Service assembles receipt documents and performs the post-render actions.
type Service interface {
	// BuildDocument is a pure transformation of the request into a
	// renderable document description. Deterministic for fixed inputs.
	BuildDocument(req BuildRequest) (render.Document, error)

	// GenerateReceipt builds and renders the document in one step.
	GenerateReceipt(ctx context.Context, req BuildRequest) (render.Handle, error)

	// EnrichCustomer augments the customer with freshly fetched profile
	// data. Best effort: fetch failures keep the input, and the result
	// always has a usable name and email.
	EnrichCustomer(ctx context.Context, customer Customer) Customer

	// DownloadDocument persists a rendered document. No-op when the handle
	// is nil.
	DownloadDocument(handle render.Handle, filename string)

	// OpenDocument hands a rendered document to the viewer. No-op when the
	// handle is nil.
	OpenDocument(handle render.Handle)
}

// ProfileFetcher is the injected capability used for customer enrichment.
type ProfileFetcher interface {
	FetchCurrentUser(ctx context.Context) (Profile, error)
}

var (
	ErrMalformedOrderTotals = errors.New("malformed_order_totals")
)
