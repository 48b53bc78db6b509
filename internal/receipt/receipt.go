package receipt

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts serialize as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Receipt holds the structured fields extracted from one receipt's OCR text.
// Every field except RawText is best-effort: extraction that finds nothing
// leaves the field absent rather than failing.
type Receipt struct {
	Date     *time.Time       `json:"date,omitempty"`
	Merchant string           `json:"merchant,omitempty"`
	Category string           `json:"category,omitempty"`
	Amount   *decimal.Decimal `json:"amount,omitempty"` // Exact decimal, never a binary float
	Currency string           `json:"currency,omitempty"`
	Items    []string         `json:"items"`
	RawText  string           `json:"raw_text,omitempty"`

	// Confidence is the OCR provider's score, passed through untouched.
	Confidence *float64 `json:"confidence,omitempty"`
}

// SetAmount sets the amount and currency together. They are a pair: one is
// never present without the other.
func (r *Receipt) SetAmount(amount decimal.Decimal, currency string) {
	r.Amount = &amount
	r.Currency = currency
}

// ProcessingResult reports the outcome of processing a single uploaded file.
type ProcessingResult struct {
	Filename string   `json:"filename"`
	Status   string   `json:"status"` // "success" or "error"
	Data     *Receipt `json:"data,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// ExportRequest is the body accepted by the export endpoints.
type ExportRequest struct {
	Receipts []Receipt `json:"receipts"`
	Format   string    `json:"format,omitempty"`
	Filename string    `json:"filename,omitempty"`
}
