// Package ocr turns receipt images and PDFs into raw text.
package ocr

import "strings"

// transcribePrompt is shared by the LLM-backed providers. The providers
// transcribe only; field extraction happens downstream in the interpreter.
const transcribePrompt = `You are reading a photographed or scanned receipt. Transcribe every piece of text you can see, exactly as printed.

Rules:
- Keep the original line order, top to bottom, one receipt line per output line
- Keep all wording, numbers, currency symbols and punctuation unchanged
- Include the store name, dates, line items, totals and payment details
- Do not translate, summarize, reformat or interpret anything
- Do not add labels or commentary of your own
- Do not use markdown code blocks

Return only the transcribed text.`

// TextExtractor defines the interface for OCR text extraction
type TextExtractor interface {
	// ExtractText reads all printed text from a receipt image. A readable
	// image with no text yields "" and no error.
	ExtractText(imageData []byte, contentType string) (string, error)
	// Close closes the extractor and releases resources
	Close() error
}

// stripCodeFence removes the markdown code block some models wrap replies
// in despite the prompt.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```text")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
