package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/bernardyeh/receipt-filing/internal/receipt"
)

// CSV renders receipts as a CSV document, one row per receipt. Absent
// fields are written as empty cells and amounts keep their exact decimal
// text.
func CSV(receipts []receipt.Receipt) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(columns); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	for _, r := range receipts {
		amount := ""
		if r.Amount != nil {
			amount = r.Amount.String()
		}
		row := []string{
			formatDate(r.Date),
			r.Merchant,
			r.Category,
			amount,
			r.Currency,
			joinItems(r),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("writing row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}
	return buf.Bytes(), nil
}
