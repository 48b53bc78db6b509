package ocr

import (
	"bytes"
	"fmt"
	"image/png"
	"strings"
	"unicode"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
)

// IsPDF reports whether data carries the PDF magic header.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF-"))
}

// PDFText extracts a PDF's embedded text layer, row by row in reading
// order. It returns "" when the document has no usable text layer, which is
// the normal case for scanned receipts and sends the caller down the OCR
// path instead. The pdf library panics on some malformed documents; that
// surfaces as an error here.
func PDFText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading pdf text layer: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			pages = append(pages, strings.Join(lines, "\n"))
		}
	}

	text = strings.TrimSpace(strings.Join(pages, "\n"))
	if !isReadableText(text) {
		return "", nil
	}
	return text, nil
}

// isReadableText guards against text layers that decode to garbage, as
// happens with identity-encoded fonts. Printable runes include CJK, so
// Chinese receipts pass.
func isReadableText(text string) bool {
	if text == "" {
		return false
	}
	total, printable := 0, 0
	for _, r := range text {
		total++
		if unicode.IsPrint(r) || r == '\n' || r == '\t' {
			printable++
		}
	}
	return float64(printable)/float64(total) > 0.6
}

// PDFToImage renders the first page of a PDF to PNG for OCR. Receipts are
// single-page documents as a rule; later pages are ignored.
func PDFToImage(pdfData []byte) ([]byte, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF page: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}
