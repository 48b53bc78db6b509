// Package export renders receipt batches as CSV or XLSX downloads and
// computes summary statistics over them.
package export

import (
	"strings"
	"time"

	"github.com/bernardyeh/receipt-filing/internal/receipt"
)

var columns = []string{"Date", "Merchant", "Category", "Amount", "Currency", "Items"}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func joinItems(r receipt.Receipt) string {
	return strings.Join(r.Items, "; ")
}
