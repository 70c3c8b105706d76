package parse

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestExtractDate(t *testing.T) {
	p := New()

	tests := []struct {
		name string
		text string
		want *time.Time
	}{
		{"iso date", "Receipt\n2023-03-12\nTotal 1.00", date(2023, time.March, 12)},
		{"iso with slashes", "2023/3/2", date(2023, time.March, 2)},
		{"dmy with dots", "12.03.2023", date(2023, time.March, 12)},
		{"dmy two-digit year", "5/6/24", date(2024, time.June, 5)},
		{"full month name", "12 March 2023", date(2023, time.March, 12)},
		{"abbreviated month", "3 Jan 2024", date(2024, time.January, 3)},
		{"mixed-case month", "7 SEP 2023", date(2023, time.September, 7)},
		{"iso beats dmy on same line", "01/02/03 printed 2023-03-12", date(2023, time.March, 12)},
		{"earlier line wins", "12/03/2023\n2024-01-01", date(2023, time.March, 12)},
		{"rejects month 13", "05/13/2023", nil},
		{"rejects feb 30", "30.02.2023", nil},
		{"accepts leap feb 29", "29.02.2024", date(2024, time.February, 29)},
		{"unknown month name", "12 Frobber 2023", nil},
		{"no date at all", "Coffee 2 3.50\nTotal 7.00", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.extractDate(Normalize(tt.text))
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("extractDate(%q) = %v, want %v", tt.text, got, tt.want)
			}
			if got != nil && !got.Equal(*tt.want) {
				t.Fatalf("extractDate(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		tok  string
		want float64
		ok   bool
	}{
		{"7.00", 7.00, true},
		{"15,99", 15.99, true},
		{"1,234.56", 1234.56, true},
		{"79.050", 79.05, true},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseAmount(tt.tok)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseAmount(%q) = (%v, %v), want (%v, %v)", tt.tok, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSubsequenceRatio(t *testing.T) {
	tests := []struct {
		want, got string
		lo, hi    float64
	}{
		{"total", "total", 1.0, 1.01},
		{"total", "toatl", 0.6, 0.9},
		{"total", "coffee", 0, 0.2},
		{"amount due", "amovnt due", 0.8, 1.0},
	}

	for _, tt := range tests {
		r := subsequenceRatio(tt.want, tt.got)
		if r < tt.lo || r >= tt.hi {
			t.Errorf("subsequenceRatio(%q, %q) = %v, want in [%v, %v)", tt.want, tt.got, r, tt.lo, tt.hi)
		}
	}
}
