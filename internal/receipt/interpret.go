package receipt

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	merchantLineWindow = 5  // Header lines inspected for the merchant name
	maxItems           = 10 // Cap on extracted line items
)

// datePatterns are tried in priority order. The first pattern that matches
// anywhere in the text claims the date, whether or not its match parses;
// later patterns are not consulted after that.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{4}[-/]\d{1,2}[-/]\d{1,2}`),
	regexp.MustCompile(`\d{1,2}[-/]\d{1,2}[-/]\d{4}`),
	regexp.MustCompile(`\d{1,2}[-/]\d{1,2}[-/]\d{2}`),
}

// dateLayouts accept one- or two-digit day and month components. Order
// matters: year-first layouts are tried before day-first and US-style.
var dateLayouts = []string{
	"2006-1-2",
	"2006/1/2",
	"2-1-2006",
	"1/2/2006",
	"2-1-06",
	"1/2/06",
}

// currencyPatterns map monetary notations to currency codes, in priority
// order: tagged prefixes before the bare dollar sign, the 元 suffix last.
var currencyPatterns = []currencyPattern{
	{regexp.MustCompile(`(?i)NT\$?\s*([0-9,]+\.?\d*)`), "NTD"},
	{regexp.MustCompile(`(?i)HK\$?\s*([0-9,]+\.?\d*)`), "HKD"},
	{regexp.MustCompile(`(?i)US\$?\s*([0-9,]+\.?\d*)`), "USD"},
	{regexp.MustCompile(`\$\s*([0-9,]+\.?\d*)`), "USD"}, // Bare $ defaults to USD
	{regexp.MustCompile(`([0-9,]+\.?\d*)\s*元`), "NTD"},
}

type currencyPattern struct {
	re       *regexp.Regexp
	currency string
}

var (
	dateLinePattern = regexp.MustCompile(`^\d+[-/]\d+[-/]\d+`)
	dollarPattern   = regexp.MustCompile(`\$\d+`)
	decimalPattern  = regexp.MustCompile(`\d+\.\d+`)
)

// merchantStopwords disqualify a header line from being the merchant name.
var merchantStopwords = []string{
	"receipt", "invoice", "date", "time", "total", "amount", "tax", "subtotal", "sum",
}

// totalKeywords mark a line as carrying the receipt total.
var totalKeywords = []string{"total", "amount", "sum", "合計", "總計", "小計"}

// itemSkipWords exclude total rows from the item list.
var itemSkipWords = []string{"total", "amount", "合計", "總計"}

// Interpret turns raw OCR text into a structured Receipt. It never fails:
// every extraction degrades to an absent field when nothing matches. Each
// extractor reads the full original text, so fields do not depend on each
// other, and identical input always yields identical output.
func Interpret(rawText string) Receipt {
	r := Receipt{RawText: rawText}
	r.Date = extractDate(rawText)
	r.Merchant = extractMerchant(rawText)
	if amount, currency := matchAmountPasses(rawText); amount != nil {
		r.SetAmount(*amount, currency)
	}
	r.Items = extractItems(rawText)
	return r
}

// extractDate finds the first date-like substring and parses it against the
// candidate layouts. A substring that fails every layout yields no date at
// all; days and months are range-checked, so 99/99/99 comes back nil.
func extractDate(text string) *time.Time {
	for _, pattern := range datePatterns {
		match := pattern.FindString(text)
		if match == "" {
			continue
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, match); err == nil {
				return &t
			}
		}
		return nil
	}
	return nil
}

// extractMerchant returns the first header line that looks like a business
// name: within the first merchantLineWindow non-empty lines, longer than two
// characters, not a date, free of totals vocabulary and free of prices.
// Original casing is preserved.
func extractMerchant(text string) string {
	seen := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		seen++
		if seen > merchantLineWindow {
			break
		}
		if utf8.RuneCountInString(line) <= 2 {
			continue
		}
		if dateLinePattern.MatchString(line) {
			continue
		}
		if containsAny(strings.ToLower(line), merchantStopwords) {
			continue
		}
		if dollarPattern.MatchString(line) || decimalPattern.MatchString(line) {
			continue
		}
		return line
	}
	return ""
}

// matchAmountPasses extracts the total in three passes, stopping at the
// first hit: lines naming the grand total, then lines carrying any total
// keyword, then the first monetary pattern anywhere in the text.
func matchAmountPasses(text string) (*decimal.Decimal, string) {
	lines := strings.Split(text, "\n")

	for _, line := range lines {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "total") && !strings.Contains(lower, "subtotal") {
			if amount, currency := matchAmount(line); amount != nil {
				return amount, currency
			}
		}
	}

	for _, line := range lines {
		if containsAny(strings.ToLower(line), totalKeywords) {
			if amount, currency := matchAmount(line); amount != nil {
				return amount, currency
			}
		}
	}

	return matchAmount(text)
}

// matchAmount tries the currency patterns in priority order against s. A
// capture that does not parse as a decimal is skipped, not an error.
func matchAmount(s string) (*decimal.Decimal, string) {
	for _, cp := range currencyPatterns {
		m := cp.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		value, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
		if err != nil {
			continue
		}
		return &value, cp.currency
	}
	return nil, ""
}

// extractItems keeps every line that plausibly names a purchased item:
// longer than two characters, not a date, not a totals row. Encounter order
// is preserved and the list is capped at maxItems.
func extractItems(text string) []string {
	items := make([]string, 0, maxItems)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) <= 2 {
			continue
		}
		if dateLinePattern.MatchString(line) {
			continue
		}
		if containsAny(strings.ToLower(line), itemSkipWords) {
			continue
		}
		items = append(items, line)
		if len(items) == maxItems {
			break
		}
	}
	return items
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
