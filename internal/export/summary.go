package export

import (
	"github.com/shopspring/decimal"

	"github.com/bernardyeh/receipt-filing/internal/receipt"
)

// Summary aggregates a receipt batch. TotalAmount adds every amount
// together regardless of currency; the per-currency breakdown lives in
// Currencies.
type Summary struct {
	TotalReceipts int                        `json:"total_receipts"`
	TotalAmount   decimal.Decimal            `json:"total_amount"`
	Categories    map[string]int             `json:"categories"`
	Currencies    map[string]decimal.Decimal `json:"currencies"`
}

// Summarize computes summary statistics for a receipt batch. Receipts with
// no amount contribute to the count only; a currency bucket needs both a
// currency code and an amount.
func Summarize(receipts []receipt.Receipt) Summary {
	s := Summary{
		TotalReceipts: len(receipts),
		Categories:    make(map[string]int),
		Currencies:    make(map[string]decimal.Decimal),
	}
	for _, r := range receipts {
		if r.Category != "" {
			s.Categories[r.Category]++
		}
		if r.Amount == nil {
			continue
		}
		s.TotalAmount = s.TotalAmount.Add(*r.Amount)
		if r.Currency != "" {
			s.Currencies[r.Currency] = s.Currencies[r.Currency].Add(*r.Amount)
		}
	}
	return s
}
