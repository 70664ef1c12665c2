package domain

// OrderTotals carries the three order-level amounts as received from the
// ordering system. They are kept as raw strings: parsing is the builder's
// responsibility and a parse failure is a data-quality error, unlike line
// items which degrade per row.
type OrderTotals struct {
	TotalExclTax string `json:"total_price"`
	TaxAmount    string `json:"tva_amount"`
	TotalInclTax string `json:"total_price_with_tva"`
}

// LineItem is one ordered dish. Price and quantity stay raw strings; the
// builder coerces them leniently (0 and 1 respectively) when malformed.
type LineItem struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
}

// Customer is the caller-supplied customer snapshot. Any field may be empty;
// the document renders placeholders for missing contact details.
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Profile is the authenticated user's profile as returned by the profile
// fetch capability, used for best-effort customer enrichment.
type Profile struct {
	Name      string `json:"name"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Picture   string `json:"picture"`
}

// Variant selects the document layout. The compact receipt and the detailed
// invoice share one builder.
type Variant string

const (
	VariantReceipt Variant = "receipt"
	VariantInvoice Variant = "invoice"
)

// ParseVariant maps a raw query value onto a known variant, defaulting to
// the compact receipt.
func ParseVariant(raw string) Variant {
	if raw == string(VariantInvoice) {
		return VariantInvoice
	}
	return VariantReceipt
}
