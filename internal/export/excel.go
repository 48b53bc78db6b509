package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/bernardyeh/receipt-filing/internal/receipt"
)

const sheetName = "Receipts"

// Excel renders receipts as an XLSX workbook with a single Receipts sheet.
// Amounts are written as numbers, 0 when absent.
func Excel(receipts []receipt.Receipt) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	for i, r := range receipts {
		amount := 0.0
		if r.Amount != nil {
			amount = r.Amount.InexactFloat64()
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("addressing row %d: %w", i+2, err)
		}
		row := []any{
			formatDate(r.Date),
			r.Merchant,
			r.Category,
			amount,
			r.Currency,
			joinItems(r),
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
