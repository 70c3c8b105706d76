package parse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

type dateRule struct {
	name  string
	re    *regexp.Regexp
	build func(p *Parser, m []string) (time.Time, bool)
}

// dateRules is the ordered rule set applied per line. The scan walks lines
// top to bottom; within a line the first rule producing a calendar-valid
// date wins, so an ISO date beats an ambiguous numeric one on the same line.
var dateRules = []dateRule{
	{
		name: "ymd",
		re:   regexp.MustCompile(`(\d{4})[-/.](\d{1,2})[-/.](\d{1,2})`),
		build: func(_ *Parser, m []string) (time.Time, bool) {
			year, _ := strconv.Atoi(m[1])
			month, _ := strconv.Atoi(m[2])
			day, _ := strconv.Atoi(m[3])
			return calendarDate(year, month, day)
		},
	},
	{
		name: "dmy",
		re:   regexp.MustCompile(`(\d{1,2})[-/.](\d{1,2})[-/.](\d{2,4})`),
		build: func(_ *Parser, m []string) (time.Time, bool) {
			day, _ := strconv.Atoi(m[1])
			month, _ := strconv.Atoi(m[2])
			year, _ := strconv.Atoi(m[3])
			if year < 100 {
				year += 2000
			}
			return calendarDate(year, month, day)
		},
	},
	{
		name: "day-monthname-year",
		re:   regexp.MustCompile(`(\d{1,2})\s+([A-Za-z]{3,9})\.?\s+(\d{4})`),
		build: func(p *Parser, m []string) (time.Time, bool) {
			month, ok := p.monthByName(m[2])
			if !ok {
				return time.Time{}, false
			}
			day, _ := strconv.Atoi(m[1])
			year, _ := strconv.Atoi(m[3])
			return calendarDate(year, int(month), day)
		},
	},
}

// extractDate returns the first calendar-valid purchase date found, or nil.
func (p *Parser) extractDate(lines []string) *time.Time {
	for _, line := range lines {
		for _, rule := range dateRules {
			m := rule.re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if t, ok := rule.build(p, m); ok {
				return &t
			}
		}
	}
	return nil
}

func (p *Parser) monthByName(token string) (time.Month, bool) {
	low := strings.ToLower(token)
	if m, ok := p.tables.Months[low]; ok {
		return m, true
	}
	if len(low) > 3 {
		if m, ok := p.tables.Months[low[:3]]; ok {
			return m, true
		}
	}
	return 0, false
}

// calendarDate builds a UTC date and rejects impossible calendar values.
// time.Date normalizes overflow (Feb 30 becomes Mar 1/2), so the round-trip
// check catches those alongside the plain range check.
func calendarDate(year, month, day int) (time.Time, bool) {
	if year < 1900 || year > 2200 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}
