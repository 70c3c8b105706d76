package parse

import "time"

// UnknownStore is the sentinel store name used when no heuristic matches.
const UnknownStore = "Unknown Store"

// LineItem is one purchased item extracted from the receipt body.
type LineItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// Receipt is the structured result of parsing one OCR text.
// PurchaseDate is nil when no recognizable date token was found; substituting
// a fallback ("now", upload time, ...) is the caller's policy, not the parser's.
type Receipt struct {
	StoreName    string
	PurchaseDate *time.Time
	TotalAmount  float64
	Items        []LineItem
}

// Parser extracts structured purchase data from raw receipt OCR text.
// It is a pure function of its input: no clock, no I/O, no state across
// calls, safe for concurrent use.
type Parser struct {
	tables Tables
}

// New returns a Parser using the canonical keyword tables.
func New() *Parser {
	return NewParser(DefaultTables())
}

// NewParser returns a Parser using the supplied tables. Zero-valued table
// fields fall back to their defaults so partial overrides stay usable.
func NewParser(t Tables) *Parser {
	def := DefaultTables()
	if len(t.MerchantKeywords) == 0 {
		t.MerchantKeywords = def.MerchantKeywords
	}
	if len(t.AddressKeywords) == 0 {
		t.AddressKeywords = def.AddressKeywords
	}
	if len(t.TotalKeywords) == 0 {
		t.TotalKeywords = def.TotalKeywords
	}
	if len(t.NonItemKeywords) == 0 {
		t.NonItemKeywords = def.NonItemKeywords
	}
	if len(t.Months) == 0 {
		t.Months = def.Months
	}
	if t.FuzzyThreshold <= 0 || t.FuzzyThreshold > 1 {
		t.FuzzyThreshold = def.FuzzyThreshold
	}
	return &Parser{tables: t}
}

// Parse runs the full extraction pipeline over one OCR text. It never fails:
// degenerate input yields the sentinel store name, a zero total, no date and
// no items rather than an error.
func (p *Parser) Parse(raw string) Receipt {
	lines := Normalize(raw)
	return Receipt{
		StoreName:    p.extractStore(lines),
		PurchaseDate: p.extractDate(lines),
		TotalAmount:  p.extractTotal(lines, raw),
		Items:        p.extractItems(lines),
	}
}
