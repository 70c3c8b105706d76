package parse

import (
	"strings"
	"time"
)

// Tables holds the keyword and pattern tables the extractors consult.
// A Parser owns one immutable copy; tests and per-locale deployments can
// supply their own instead of mutating globals.
type Tables struct {
	// MerchantKeywords mark a head-of-receipt line as a likely store name.
	MerchantKeywords []string
	// AddressKeywords veto a fallback store-name line that is really an address.
	AddressKeywords []string
	// TotalKeywords anchor the total-amount scan.
	TotalKeywords []string
	// NonItemKeywords mark lines the item extractor must never consume.
	NonItemKeywords []string
	// Months resolves month-name tokens (full names and 3-letter abbreviations).
	Months map[string]time.Month
	// FuzzyThreshold is the minimum ordered-subsequence similarity for a
	// total keyword to be accepted despite OCR typos.
	FuzzyThreshold float64
}

// DefaultTables returns the canonical English/ASCII table set.
func DefaultTables() Tables {
	return Tables{
		MerchantKeywords: []string{
			"coffee", "cafe", "shop", "store", "mart", "bakery", "bar",
		},
		AddressKeywords: []string{
			"street", "st.", "road", "rd.", "ave", "avenue", "blvd", "floor", "suite",
		},
		TotalKeywords: []string{
			"total", "amount due", "amount payable", "total due",
			"balance", "amt due", "balance due",
		},
		NonItemKeywords: []string{
			"subtotal", "sub total", "tax", "t/x", "total", "balance", "amount",
			"change", "txbl", "table", "cashier", "waiter", "ref", "fs no",
			"receipt", "cash invoice", "system by", "tin", "tel", "call",
			"erca", "ser. charge", "service charge",
		},
		Months:         monthTable(),
		FuzzyThreshold: 0.6,
	}
}

func monthTable() map[string]time.Month {
	m := make(map[string]time.Month, 24)
	for i := time.January; i <= time.December; i++ {
		low := strings.ToLower(i.String())
		m[low] = i
		m[low[:3]] = i
	}
	return m
}
