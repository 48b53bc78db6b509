// Package category assigns expense categories to receipts by matching
// merchant names and OCR text against keyword/merchant rule tables.
package category

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultCategory is returned when no rule matches.
const DefaultCategory = "Other"

// ErrUnknownCategory reports a mutation against a category name that exists
// in neither the default nor the custom table.
var ErrUnknownCategory = errors.New("unknown category")

// Rule is one category's trigger sets. Keywords match as whole tokens
// against receipt text and merchant name; merchant entries match as
// substrings of the merchant name alone.
type Rule struct {
	Keywords  []string `json:"keywords"`
	Merchants []string `json:"merchants"`
}

// NamedRule pairs a rule with its category name. It is the unit of seed
// configuration and persistence, where table order matters.
type NamedRule struct {
	Name      string   `json:"name" yaml:"name"`
	Keywords  []string `json:"keywords" yaml:"keywords"`
	Merchants []string `json:"merchants" yaml:"merchants"`
}

// namedRule is the in-table representation.
type namedRule struct {
	name string
	rule Rule
}

// Classifier owns two ordered rule tables: built-in defaults fixed at
// construction and custom rules added at runtime. Custom rules are consulted
// first and shadow a default of the same name. The Classifier does no
// locking; callers serialize mutations against reads.
type Classifier struct {
	defaults []namedRule
	customs  []namedRule
}

// NewClassifier builds a classifier seeded with the default taxonomy.
func NewClassifier() *Classifier {
	return &Classifier{defaults: defaultRules()}
}

// Classify returns the category for a receipt's merchant and raw text, or
// DefaultCategory when nothing matches. Matching is case-insensitive. Rules
// are evaluated one at a time in table order, merchant substrings before
// keywords within each rule, returning on the first hit of either kind.
func (c *Classifier) Classify(merchant, rawText string) string {
	if merchant == "" && rawText == "" {
		return DefaultCategory
	}
	merchant = strings.ToLower(merchant)
	text := strings.ToLower(rawText)

	for _, nr := range c.rules() {
		for _, m := range nr.rule.Merchants {
			if strings.Contains(merchant, strings.ToLower(m)) {
				return nr.name
			}
		}
		for _, k := range nr.rule.Keywords {
			keyword := strings.ToLower(k)
			if containsWord(text, keyword) || containsWord(merchant, keyword) {
				return nr.name
			}
		}
	}
	return DefaultCategory
}

// Categories returns the merged name-to-rule view, customs winning on a
// name collision. The returned rules are copies.
func (c *Classifier) Categories() map[string]Rule {
	out := make(map[string]Rule, len(c.defaults)+len(c.customs))
	for _, d := range c.defaults {
		out[d.name] = cloneRule(d.rule)
	}
	for _, nr := range c.customs {
		out[nr.name] = cloneRule(nr.rule)
	}
	return out
}

// AddCustom inserts a custom rule. An existing custom of the same name is
// overwritten in place and keeps its position in the table.
func (c *Classifier) AddCustom(name string, keywords, merchants []string) {
	nr := namedRule{name: name, rule: Rule{
		Keywords:  cloneStrings(keywords),
		Merchants: cloneStrings(merchants),
	}}
	if i := c.findCustom(name); i >= 0 {
		c.customs[i] = nr
		return
	}
	c.customs = append(c.customs, nr)
}

// AddKeyword appends a keyword to an existing custom or default rule. When
// the name is unknown neither table is touched and ErrUnknownCategory is
// returned.
func (c *Classifier) AddKeyword(name, keyword string) error {
	if i := c.findCustom(name); i >= 0 {
		c.customs[i].rule.Keywords = append(c.customs[i].rule.Keywords, keyword)
		return nil
	}
	for i := range c.defaults {
		if c.defaults[i].name == name {
			c.defaults[i].rule.Keywords = append(c.defaults[i].rule.Keywords, keyword)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownCategory, name)
}

// HasCategory reports whether name exists in either rule table.
func (c *Classifier) HasCategory(name string) bool {
	if c.findCustom(name) >= 0 {
		return true
	}
	for _, d := range c.defaults {
		if d.name == name {
			return true
		}
	}
	return false
}

// rules yields the combined table: customs in insertion order, then defaults
// not shadowed by a same-named custom, in declaration order.
func (c *Classifier) rules() []namedRule {
	combined := make([]namedRule, 0, len(c.customs)+len(c.defaults))
	combined = append(combined, c.customs...)
	for _, d := range c.defaults {
		if c.findCustom(d.name) < 0 {
			combined = append(combined, d)
		}
	}
	return combined
}

func (c *Classifier) findCustom(name string) int {
	for i, nr := range c.customs {
		if nr.name == name {
			return i
		}
	}
	return -1
}

func cloneRule(r Rule) Rule {
	return Rule{
		Keywords:  cloneStrings(r.Keywords),
		Merchants: cloneStrings(r.Merchants),
	}
}

func cloneStrings(s []string) []string {
	out := make([]string, 0, len(s))
	return append(out, s...)
}

// containsWord reports whether keyword occurs in s as a whole token. A match
// counts only when its edges sit on word boundaries: the neighboring rune
// (or string edge) must differ in word-ness from the keyword's own edge
// rune. Word runes are letters, digits and underscore; CJK characters are
// letters, so Chinese keywords also require non-word neighbors.
func containsWord(s, keyword string) bool {
	if keyword == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(keyword)
	last, _ := utf8.DecodeLastRuneInString(keyword)

	for start := 0; ; start++ {
		i := strings.Index(s[start:], keyword)
		if i < 0 {
			return false
		}
		start = i + start
		end := start + len(keyword)

		prevIsWord := false
		if start > 0 {
			r, _ := utf8.DecodeLastRuneInString(s[:start])
			prevIsWord = isWordRune(r)
		}
		nextIsWord := false
		if end < len(s) {
			r, _ := utf8.DecodeRuneInString(s[end:])
			nextIsWord = isWordRune(r)
		}
		if prevIsWord != isWordRune(first) && nextIsWord != isWordRune(last) {
			return true
		}
	}
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
