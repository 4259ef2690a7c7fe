package pii

import (
	"strings"
)

// Masker applies the pattern catalog to text in two passes.
//
// Pass 1 walks the ordered rules and replaces every match with the rule's
// token. Pass 2 runs the context-capture rules over the partially masked
// result and replaces only the captured free-text span.
//
// Masking is idempotent: the replacement tokens are bracketed uppercase words
// that no rule in the catalog can match, so re-masking already-masked output
// is a no-op. A Masker holds no mutable state and is safe to share across
// goroutines.
type Masker struct {
	rules    []Rule
	captures []CaptureRule
}

// NewMasker returns a Masker over the process-wide catalog.
func NewMasker() *Masker {
	return &Masker{
		rules:    Catalog(),
		captures: CaptureCatalog(),
	}
}

// Mask returns text with every detected PII span replaced by its category
// token.
func (m *Masker) Mask(text string) string {
	masked, _ := m.MaskCount(text)
	return masked
}

// MaskCount masks text and reports how many replacements were made.
func (m *Masker) MaskCount(text string) (string, int) {
	count := 0
	result := text

	for _, rule := range m.rules {
		matches := rule.Regex.FindAllString(result, -1)
		if len(matches) == 0 {
			continue
		}
		count += len(matches)
		result = rule.Regex.ReplaceAllString(result, rule.Replacement)
	}

	for _, rule := range m.captures {
		var n int
		result, n = replaceCaptured(result, rule)
		count += n
	}

	return result, count
}

// ContainsPII reports whether any rule matches the text, without masking it.
func (m *Masker) ContainsPII(text string) bool {
	for _, rule := range m.rules {
		if rule.Regex.MatchString(text) {
			return true
		}
	}
	for _, rule := range m.captures {
		if rule.Regex.MatchString(text) {
			return true
		}
	}
	return false
}

// replaceCaptured substitutes the first capture group of every match with the
// rule's token, leaving the label phrase in place.
func replaceCaptured(text string, rule CaptureRule) (string, int) {
	idxs := rule.Regex.FindAllStringSubmatchIndex(text, -1)
	if len(idxs) == 0 {
		return text, 0
	}

	var b strings.Builder
	b.Grow(len(text))

	count := 0
	last := 0
	for _, idx := range idxs {
		start, end := idx[2], idx[3]
		if start < 0 || start == end {
			continue
		}
		b.WriteString(text[last:start])
		b.WriteString(rule.Replacement)
		last = end
		count++
	}
	b.WriteString(text[last:])

	return b.String(), count
}
