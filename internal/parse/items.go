package parse

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// reFullItem matches "NAME QTY PRICE [LINETOTAL]" on a single line.
	reFullItem = regexp.MustCompile(`^(.+?)\s+(\d+)\s+([\d.,]+)(?:\s+([\d.,]+))?$`)
	// reQtyPrice matches "QTY PRICE [LINETOTAL]" alone; the item name is
	// expected on the preceding line (narrow thermal printers wrap this way).
	reQtyPrice = regexp.MustCompile(`^(\d+)\s+([\d.,]+)(?:\s+([\d.,]+))?$`)
	// reNumericName rejects "names" that are purely numeric debris.
	reNumericName = regexp.MustCompile(`^[\d.,\s/-]+$`)
)

// extractItems walks the normalized lines collecting purchased items from the
// two recognized shapes. Lines already consumed as part of a split-shape pair
// are never reused, and totals/footer lines are vetoed by keyword.
func (p *Parser) extractItems(lines []string) []LineItem {
	var items []LineItem
	consumed := make(map[int]struct{})

	for i, line := range lines {
		if _, done := consumed[i]; done {
			continue
		}
		if p.nonItemLine(line) {
			continue
		}

		if m := reFullItem.FindStringSubmatch(line); m != nil && !reNumericName.MatchString(m[1]) {
			name := strings.TrimSpace(m[1])
			qty, _ := strconv.Atoi(m[2])
			price, priceOK := parseAmount(m[3])
			if name != "" && qty > 0 && priceOK && price > 0 {
				items = append(items, LineItem{Name: name, Quantity: qty, UnitPrice: price})
				consumed[i] = struct{}{}
				continue
			}
		}

		if m := reQtyPrice.FindStringSubmatch(line); m != nil && i > 0 {
			if _, done := consumed[i-1]; done {
				continue
			}
			prev := lines[i-1]
			if p.nonItemLine(prev) || reNumericName.MatchString(prev) {
				continue
			}
			qty, _ := strconv.Atoi(m[1])
			price, priceOK := parseAmount(m[2])
			if qty > 0 && priceOK && price > 0 {
				items = append(items, LineItem{Name: prev, Quantity: qty, UnitPrice: price})
				consumed[i] = struct{}{}
				consumed[i-1] = struct{}{}
			}
		}
	}

	return dedupeItems(items)
}

func (p *Parser) nonItemLine(line string) bool {
	low := strings.ToLower(line)
	for _, kw := range p.tables.NonItemKeywords {
		if strings.Contains(low, kw) {
			return true
		}
	}
	return false
}

// dedupeItems drops exact repeats (same name ignoring case, price and
// quantity) while preserving first-seen order.
func dedupeItems(items []LineItem) []LineItem {
	if len(items) < 2 {
		return items
	}
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, it := range items {
		key := strings.ToLower(it.Name) + "|" +
			strconv.FormatFloat(it.UnitPrice, 'f', -1, 64) + "|" +
			strconv.Itoa(it.Quantity)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, it)
	}
	return out
}
