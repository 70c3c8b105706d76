package parse

import (
	"regexp"
	"strings"
)

// storeScanLimit caps how deep into the document the store-name scan looks.
const storeScanLimit = 10

var rePhoneLike = regexp.MustCompile(`\+?\(?\d[\d\s\-().]{6,}\d`)

// extractStore picks the most likely merchant name from the head of the
// document. Strategy: first line among the leading ten containing a
// merchant-category keyword wins; otherwise fall back to the first line that
// is not phone/address noise, then to the very first line.
func (p *Parser) extractStore(lines []string) string {
	limit := min(storeScanLimit, len(lines))
	for i := 0; i < limit; i++ {
		low := strings.ToLower(lines[i])
		for _, kw := range p.tables.MerchantKeywords {
			if strings.Contains(low, kw) {
				return lines[i]
			}
		}
	}
	for i := 0; i < limit; i++ {
		if p.headerNoise(lines[i]) {
			continue
		}
		return lines[i]
	}
	if len(lines) > 0 {
		return lines[0]
	}
	return UnknownStore
}

// headerNoise reports whether a head line is an address, a phone number, or
// too short to be a plausible merchant name.
func (p *Parser) headerNoise(line string) bool {
	if len(line) < 2 {
		return true
	}
	if rePhoneLike.MatchString(line) {
		return true
	}
	low := strings.ToLower(line)
	for _, kw := range p.tables.AddressKeywords {
		if strings.Contains(low, kw) {
			return true
		}
	}
	return false
}
