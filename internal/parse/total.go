package parse

import (
	"regexp"
	"strconv"
	"strings"
)

// reAmount matches a money token: digits with optional thousands groups and a
// [.,] decimal separator followed by 2 or 3 digits (OCR sometimes doubles the
// trailing digit).
var reAmount = regexp.MustCompile(`\d+(?:,\d{3})*[.,]\d{2,3}`)

// extractTotal resolves the receipt total in two phases. Phase 1 scans lines
// bottom-up for a total keyword (exact or fuzzy) and takes the first amount
// token on that line. Phase 2 falls back to the largest amount token anywhere
// in the raw text, since the grand total usually dominates item prices.
func (p *Parser) extractTotal(lines []string, raw string) float64 {
	for i := len(lines) - 1; i >= 0; i-- {
		low := strings.ToLower(lines[i])
		if !p.matchesTotalKeyword(low) {
			continue
		}
		tok := reAmount.FindString(lines[i])
		if tok == "" {
			continue
		}
		if v, ok := parseAmount(tok); ok {
			return v
		}
	}

	var best float64
	for _, tok := range reAmount.FindAllString(raw, -1) {
		if v, ok := parseAmount(tok); ok && v > best {
			best = v
		}
	}
	return best
}

// matchesTotalKeyword reports whether a lowercased line carries a total
// keyword, either verbatim or as an OCR-garbled near match: each window of
// consecutive words the same width as the keyword is scored by ordered
// subsequence similarity against it.
func (p *Parser) matchesTotalKeyword(low string) bool {
	for _, kw := range p.tables.TotalKeywords {
		if strings.Contains(low, kw) {
			return true
		}
	}
	words := strings.Fields(low)
	for _, kw := range p.tables.TotalKeywords {
		width := len(strings.Fields(kw))
		for i := 0; i+width <= len(words); i++ {
			window := strings.Join(words[i:i+width], " ")
			if subsequenceRatio(kw, window) >= p.tables.FuzzyThreshold {
				return true
			}
		}
	}
	return false
}

// subsequenceRatio measures how much of want survives in got as an ordered
// subsequence, as longest-common-subsequence length over the longer string.
// "toatl" vs "total" scores 0.8; unrelated words stay well under 0.5.
func subsequenceRatio(want, got string) float64 {
	if want == "" || got == "" {
		return 0
	}
	prev := make([]int, len(got)+1)
	cur := make([]int, len(got)+1)
	for i := 1; i <= len(want); i++ {
		for j := 1; j <= len(got); j++ {
			if want[i-1] == got[j-1] {
				cur[j] = prev[j-1] + 1
			} else {
				cur[j] = max(prev[j], cur[j-1])
			}
		}
		prev, cur = cur, prev
	}
	lcs := prev[len(got)]
	return float64(lcs) / float64(max(len(want), len(got)))
}

// parseAmount converts an amount token to a float. The rightmost separator is
// treated as the decimal point; any other separators are thousands grouping.
func parseAmount(tok string) (float64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == '.' || r == ',' || r == '-' {
			return r
		}
		return -1
	}, tok)
	if cleaned == "" {
		return 0, false
	}
	sep := strings.LastIndexAny(cleaned, ".,")
	if sep >= 0 {
		intPart := strings.Map(func(r rune) rune {
			if r == '.' || r == ',' {
				return -1
			}
			return r
		}, cleaned[:sep])
		cleaned = intPart + "." + cleaned[sep+1:]
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
