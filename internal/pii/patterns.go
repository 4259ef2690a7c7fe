// Package pii provides rule-based detection and masking of personally
// identifiable information in free text.
//
// Detection is purely lexical: an ordered catalog of regular expressions maps
// each match to a literal replacement token such as [EMAIL] or [SSN]. There is
// no probabilistic scoring and no language model involved, so masking is
// best-effort by design.
package pii

import (
	"regexp"
)

// Rule is a single redaction pattern in the catalog.
//
// Gated rules only fire when the value is immediately preceded by a qualifying
// label phrase ("account number:", "passport #", ...). The label is compiled
// into the rule's regex, which keeps false positives on bare digit runs low.
type Rule struct {
	Category    string
	Regex       *regexp.Regexp
	Replacement string
	Gated       bool
}

// CaptureRule redacts the free text that follows a label phrase, regardless of
// its internal structure. Only the first capture group is replaced, the label
// itself is kept.
type CaptureRule struct {
	Category    string
	Regex       *regexp.Regexp
	Replacement string
}

// Value patterns for the gated rules. Shared between the catalog and tests.
const (
	driversLicenseValue = `[A-Z]{1,2}\d{6,8}`
	passportValue       = `[A-Z]{1,2}\d{6,9}`
	bankAccountValue    = `\d{8,17}`
)

var (
	emailRegex = regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	// NANP-style numbers with optional country code and separators.
	phoneRegex = regexp.MustCompile(`(?i)(?:\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)

	ssnRegex = regexp.MustCompile(`(?i)\b\d{3}-\d{2}-\d{4}\b|\b\d{9}\b`)

	creditCardRegex = regexp.MustCompile(`(?i)\b\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`)

	// Numeric MM/DD/YY(YY) and DD/MM variants plus month-name forms
	// ("Jan 5, 1990", "5 Jan 1990").
	dobRegex = regexp.MustCompile(`(?i)\b(?:0?[1-9]|1[0-2])[-/.](?:0?[1-9]|[12]\d|3[01])[-/.](?:19|20)?\d{2}\b|` +
		`\b(?:0?[1-9]|[12]\d|3[01])[-/.](?:0?[1-9]|1[0-2])[-/.](?:19|20)?\d{2}\b|` +
		`\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{1,2},?\s+\d{4}\b|` +
		`\b\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{4}\b`)

	ipAddressRegex = regexp.MustCompile(`(?i)\b(?:\d{1,3}\.){3}\d{1,3}\b`)

	driversLicenseRegex = regexp.MustCompile(`(?i)(?:license\s*(?:number|#)?)[:\s]*(?:` + driversLicenseValue + `)`)

	passportRegex = regexp.MustCompile(`(?i)(?:passport\s*(?:number|#)?)[:\s]*(?:` + passportValue + `)`)

	bankAccountRegex = regexp.MustCompile(`(?i)(?:account\s*(?:number|#)?)[:\s]*(?:` + bankAccountValue + `)`)

	// Street number + street name + suffix token, optional city/state, ZIP.
	addressRegex = regexp.MustCompile(`(?i)\b\d+\s+[A-Za-z\s]+(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Lane|Ln|Drive|Dr|Court|Ct|Circle|Cir|Plaza|Pl)\b[,\s]*(?:[A-Za-z\s]+,\s*)?(?:[A-Z]{2}\s+)?\d{5}(?:-\d{4})?\b`)

	zipCodeRegex = regexp.MustCompile(`(?i)\b\d{5}(?:-\d{4})?\b`)
)

// Context-capture patterns for free-text disclosures that have no structural
// shape of their own ("my name is John Smith"). Labels are word-bounded so
// "adobe" and "addressing" do not trigger, and the captured span must begin
// with a character that is neither a separator nor a square bracket: when the
// text after a label is already a token ("born on [DOB]"), nothing matches
// and re-masking is a no-op.
var (
	dobContextRegex     = regexp.MustCompile(`(?i)\b(?:date of birth|dob|born on|birthday|birth date)\b[:\s]*([^\s:,;.\[\]][^\n,;.\[\]]*)`)
	addressContextRegex = regexp.MustCompile(`(?i)\b(?:address|live at|located at|residing at)\b[:\s]*([^\s:;.\[\]][^\n;.\[\]]*)`)
	nameContextRegex    = regexp.MustCompile(`(?i)\b(?:my name is|i am|call me)\b[:\s]*([A-Za-z][A-Za-z\s]*)`)
)

// catalog is the ordered rule set applied by the masker's first pass.
//
// Order is load-bearing: a span consumed by an earlier rule collapses into its
// replacement token and is no longer visible to later rules. The gated
// account/license/passport rules must run before address and zip_code, while
// their label phrase still precedes the digits; address must run before
// zip_code so a street address wins its own trailing ZIP group.
var catalog = []Rule{
	{Category: "email", Regex: emailRegex, Replacement: "[EMAIL]"},
	{Category: "phone", Regex: phoneRegex, Replacement: "[PHONE]"},
	{Category: "ssn", Regex: ssnRegex, Replacement: "[SSN]"},
	{Category: "credit_card", Regex: creditCardRegex, Replacement: "[CREDIT_CARD]"},
	{Category: "dob", Regex: dobRegex, Replacement: "[DOB]"},
	{Category: "ip_address", Regex: ipAddressRegex, Replacement: "[IP_ADDRESS]"},
	{Category: "drivers_license", Regex: driversLicenseRegex, Replacement: "[DRIVERS_LICENSE]", Gated: true},
	{Category: "passport", Regex: passportRegex, Replacement: "[PASSPORT]", Gated: true},
	{Category: "bank_account", Regex: bankAccountRegex, Replacement: "[BANK_ACCOUNT]", Gated: true},
	{Category: "address", Regex: addressRegex, Replacement: "[ADDRESS]"},
	{Category: "zip_code", Regex: zipCodeRegex, Replacement: "[ZIP]"},
}

// captureCatalog is applied as a second pass, over text the first pass has
// already partially masked.
var captureCatalog = []CaptureRule{
	{Category: "dob", Regex: dobContextRegex, Replacement: "[DOB]"},
	{Category: "address", Regex: addressContextRegex, Replacement: "[ADDRESS]"},
	{Category: "name", Regex: nameContextRegex, Replacement: "[NAME]"},
}

// Catalog returns the ordered redaction rules. The returned slice is shared
// and must not be modified.
func Catalog() []Rule {
	return catalog
}

// CaptureCatalog returns the ordered context-capture rules. The returned
// slice is shared and must not be modified.
func CaptureCatalog() []CaptureRule {
	return captureCatalog
}
